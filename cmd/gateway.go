package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/go-chi/chi"
	chiware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wasl-app/payments/gateway"
	"github.com/wasl-app/payments/libs/clients/square"
	appctx "github.com/wasl-app/payments/libs/context"
	"github.com/wasl-app/payments/libs/handlers"
	"github.com/wasl-app/payments/libs/logging"
	"github.com/wasl-app/payments/libs/middleware"
)

func init() {
	gatewayCmd.AddCommand(restCmd)
	RootCmd.AddCommand(gatewayCmd)

	// address - defaults to :3000
	gatewayCmd.PersistentFlags().String("address", ":3000",
		"the default address to bind to")
	Must(viper.BindPFlag("address", gatewayCmd.PersistentFlags().Lookup("address")))
	Must(viper.BindEnv("address", "ADDR", "PORT"))

	// squareServer - defaults to empty, derived from environment when unset
	gatewayCmd.PersistentFlags().String("square-server", "",
		"the square api server, derived from environment when unset")
	Must(viper.BindPFlag("square-server", gatewayCmd.PersistentFlags().Lookup("square-server")))
	Must(viper.BindEnv("square-server", "SQUARE_SERVER"))

	// squareToken
	gatewayCmd.PersistentFlags().String("square-token", "",
		"the square api access token")
	Must(viper.BindPFlag("square-token", gatewayCmd.PersistentFlags().Lookup("square-token")))
	Must(viper.BindEnv("square-token", "ACCESS_TOKEN"))

	// squareLocation
	gatewayCmd.PersistentFlags().String("square-location", "",
		"the square location orders are created under")
	Must(viper.BindPFlag("square-location", gatewayCmd.PersistentFlags().Lookup("square-location")))
	Must(viper.BindEnv("square-location", "LOCATION_ID"))

	// sentryDsn
	gatewayCmd.PersistentFlags().String("sentry-dsn", "",
		"the sentry dsn for error reporting")
	Must(viper.BindPFlag("sentry-dsn", gatewayCmd.PersistentFlags().Lookup("sentry-dsn")))
	Must(viper.BindEnv("sentry-dsn", "SENTRY_DSN"))
}

var (
	gatewayCmd = &cobra.Command{
		Use:   "gateway",
		Short: "provides the charge gateway micro-service entrypoint",
	}

	restCmd = &cobra.Command{
		Use:   "rest",
		Short: "provides REST api services",
		Run:   GatewayRestRun,
	}
)

// listenAddress normalizes the bound address, PORT style values carry no
// leading colon
func listenAddress(addr string) string {
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

func setupRouter(ctx context.Context) *chi.Mux {
	logger, err := appctx.GetLogger(ctx)
	if err != nil {
		// no logger on context, make a new one
		ctx, logger = logging.SetupLogger(ctx)
	}

	r := chi.NewRouter()
	r.Use(
		chiware.RequestID,
		chiware.RealIP,
		chiware.Heartbeat("/"),
		chiware.Timeout(10*time.Second),
		middleware.RequestIDTransfer,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300, // Maximum value not ignored by any of major browsers
		}))
	if logger != nil {
		// Also handles panic recovery
		r.Use(
			hlog.NewHandler(*logger),
			hlog.UserAgentHandler("user_agent"),
			hlog.RequestIDHandler("req_id", "Request-Id"),
			middleware.RequestLogger(logger))

		logger.Info().
			Str("version", version).
			Str("commit", commit).
			Str("build_time", buildTime).
			Str("square_server", viper.GetString("square-server")).
			Str("address", viper.GetString("address")).
			Str("environment", viper.GetString("environment")).
			Msg("server starting")
	}
	// we will always have metrics and health-check
	r.Get("/metrics", middleware.Metrics())
	r.Get("/health-check", handlers.HealthCheckHandler(version, buildTime, commit))
	return r
}

// GatewayRestRun - Main entrypoint of the REST subcommand
// This function takes a cobra command and starts up the
// charge gateway rest microservice.
func GatewayRestRun(command *cobra.Command, args []string) {
	logger, err := appctx.GetLogger(ctx)
	if err != nil {
		// no logger, setup
		ctx, logger = logging.SetupLogger(ctx)
	}

	sentryDsn := viper.GetString("sentry-dsn")
	if sentryDsn != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     sentryDsn,
			Release: fmt.Sprintf("payments@%s-%s", commit, buildTime),
		})
		if err != nil {
			logger.Panic().Err(err).Msg("unable to setup reporting!")
		}
	}
	// make sure exceptions go to sentry
	defer sentry.Flush(time.Second * 2)

	environment := viper.GetString("environment")
	squareServer := viper.GetString("square-server")
	if squareServer == "" {
		squareServer = square.BaseURL(environment)
	}

	// add our command line params to context
	ctx = context.WithValue(ctx, appctx.EnvironmentCTXKey, environment)
	ctx = context.WithValue(ctx, appctx.SquareServerCTXKey, squareServer)
	ctx = context.WithValue(ctx, appctx.SquareAccessTokenCTXKey, viper.GetString("square-token"))
	ctx = context.WithValue(ctx, appctx.SquareLocationCTXKey, viper.GetString("square-location"))

	// setup the service now
	ctx, s, err := gateway.InitService(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gateway service")
	}

	// do rest endpoints
	r := setupRouter(ctx)
	r.Post("/charge-card", middleware.InstrumentHandlerFunc(
		"ChargeCardHandler", gateway.ChargeCardHandler(s)))
	r.Get("/client_token", middleware.InstrumentHandler(
		"ClientTokenHandler", gateway.ClientTokenHandler(s)).ServeHTTP)

	// setup server, and run
	srv := http.Server{
		Addr:         listenAddress(viper.GetString("address")),
		Handler:      chi.ServerBaseContext(ctx, r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	if err = srv.ListenAndServe(); err != nil {
		sentry.CaptureException(err)
		logger.Fatal().Err(err).Msg("HTTP server start failed!")
	}
}
