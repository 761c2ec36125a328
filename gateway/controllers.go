package gateway

import (
	"errors"
	"net/http"

	"github.com/wasl-app/payments/libs/clients/square"
	appctx "github.com/wasl-app/payments/libs/context"
	"github.com/wasl-app/payments/libs/handlers"
	"github.com/wasl-app/payments/libs/inputs"
	"github.com/wasl-app/payments/libs/logging"
	"github.com/wasl-app/payments/libs/requestutils"
)

const (
	missingFieldsMessage = "Missing required fields: nonce and amount are required"
	defaultErrorMessage  = "Payment processing failed"
	defaultErrorCode     = "UNKNOWN_ERROR"
)

// ChargeCardHandler - handler to create an order and charge the supplied
// payment source against it
func ChargeCardHandler(service *Service) handlers.AppHandler {
	return handlers.AppHandler(func(w http.ResponseWriter, r *http.Request) *handlers.AppError {
		// get context from request
		ctx := r.Context()

		// get logger from context
		logger, err := appctx.GetLogger(ctx)
		if err != nil {
			ctx, logger = logging.SetupLogger(ctx)
		}

		b, err := requestutils.Read(ctx, r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("failed to read charge request body")
			return handlers.WrapError(err, "Error reading request body", http.StatusBadRequest)
		}

		var req = new(ChargeRequest)
		if err = inputs.DecodeAndValidate(ctx, req, b); err != nil {
			logger.Warn().Err(err).Msg("invalid charge request from caller")
			// an amount that was present but unusable is a malformed amount,
			// not a missing one, even though decoding left it unset
			if errors.Is(err, ErrInvalidChargeAmount) {
				return handlers.ValidationError(
					"charge request body",
					map[string]interface{}{
						"amount": "amount must be a non-negative number",
					},
				)
			}
			if errors.Is(err, ErrMissingChargeFields) {
				return &handlers.AppError{
					Message: missingFieldsMessage,
					Code:    http.StatusBadRequest,
				}
			}
			return handlers.ValidationError(
				"charge request body",
				map[string]interface{}{
					"err": err.Error(),
				},
			)
		}

		payment, err := service.ChargeCard(ctx, req)
		if err != nil {
			logger.Error().Err(err).Msg("payment processing failed")
			return providerError(err)
		}
		return handlers.RenderContent(ctx, payment, w, http.StatusOK)
	})
}

// providerError collapses any failure past validation onto the
// undifferentiated 400 contract, lifting detail and code from the provider
// error payload when one was attached
func providerError(err error) *handlers.AppError {
	message := defaultErrorMessage
	code := defaultErrorCode

	var sqErr *square.Error
	if errors.As(err, &sqErr) && len(sqErr.Errors) > 0 {
		if sqErr.Errors[0].Detail != "" {
			message = sqErr.Errors[0].Detail
		}
		if sqErr.Errors[0].Code != "" {
			code = sqErr.Errors[0].Code
		}
	}

	return &handlers.AppError{
		Cause:     err,
		Message:   message,
		ErrorCode: code,
		Code:      http.StatusBadRequest,
	}
}

// ClientTokenHandler - handler returning an opaque bootstrap token as raw
// text. The token carries no claims, expiry or identity binding and is not
// an authentication credential.
func ClientTokenHandler(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.Logger(ctx, "gateway.ClientTokenHandler")

		token, err := service.IssueClientToken()
		if err != nil {
			logger.Error().Err(err).Msg("failed to generate client token")
			(&handlers.AppError{
				Cause:     err,
				Message:   defaultErrorMessage,
				ErrorCode: defaultErrorCode,
				Code:      http.StatusBadRequest,
			}).ServeHTTP(w, r)
			return
		}

		w.Header().Set("content-type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(token)); err != nil {
			logger.Error().Err(err).Msg("failed to write response to writer")
		}
	}
}
