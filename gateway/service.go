package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wasl-app/payments/libs/clients/square"
	appctx "github.com/wasl-app/payments/libs/context"
	errorutils "github.com/wasl-app/payments/libs/errors"
	"github.com/wasl-app/payments/libs/logging"
)

// orderItemName is the fixed label attached to the synthetic line item
// carrying the full charge amount
const orderItemName = "Wasl Order"

// Service holds the square client and merchant location used to process charges
type Service struct {
	square     square.Client
	locationID string
}

// NewService - create a new charge gateway service structure
func NewService(ctx context.Context, square square.Client, locationID string) *Service {
	return &Service{
		square:     square,
		locationID: locationID,
	}
}

// InitService creates a service using the passed context
func InitService(ctx context.Context) (context.Context, *Service, error) {
	// get logger from context
	logger, err := appctx.GetLogger(ctx)
	if err != nil {
		ctx, logger = logging.SetupLogger(ctx)
	}

	// a pre-built client may be injected on the context for tests
	client, ok := ctx.Value(appctx.SquareClientCTXKey).(square.Client)
	if !ok {
		client, err = square.NewWithContext(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to initialize the square client")
			return ctx, nil, fmt.Errorf("failed to initialize square client: %w", err)
		}
	}

	locationID, err := appctx.GetStringFromContext(ctx, appctx.SquareLocationCTXKey)
	if err != nil {
		logger.Error().Err(err).Msg("failed to get the merchant location id")
		return ctx, nil, fmt.Errorf("failed to get merchant location id: %w", err)
	}

	return ctx, NewService(ctx, client, locationID), nil
}

// ChargeCard creates an order for the requested amount and then charges the
// supplied payment source against it, capturing the funds in the same call.
// Both steps carry independently generated idempotency keys. The returned
// payment is the provider object after sanitization.
func (s *Service) ChargeCard(ctx context.Context, req *ChargeRequest) (square.Payment, error) {
	logger := logging.Logger(ctx, "gateway.ChargeCard")

	orderKey, err := randomHex(idempotencyKeyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order idempotency key: %w", err)
	}

	order, err := s.square.CreateOrder(ctx, &square.CreateOrderRequest{
		IdempotencyKey: orderKey,
		Order: square.OrderDraft{
			LocationID: s.locationID,
			LineItems: []square.LineItem{
				{
					Name:     orderItemName,
					Quantity: "1",
					BasePriceMoney: square.Money{
						Amount:   req.MinorUnits(),
						Currency: req.Currency,
					},
				},
			},
		},
	})
	if err != nil {
		providerFailure(logger.Error(), err).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	paymentKey, err := randomHex(idempotencyKeyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment idempotency key: %w", err)
	}

	payment, err := s.square.CreatePayment(ctx, &square.CreatePaymentRequest{
		IdempotencyKey: paymentKey,
		SourceID:       req.Nonce,
		// the amount is the created order's total verbatim, never recomputed
		AmountMoney:  order.TotalMoney,
		OrderID:      order.ID,
		Autocomplete: true,
		LocationID:   s.locationID,
	})
	if err != nil {
		// the order now exists upstream with no payment attached and the error
		// contract does not distinguish this case, so record the order id here
		providerFailure(logger.Error(), err).Str("order_id", order.ID).Msg("failed to create payment")
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return SanitizePayment(payment), nil
}

// providerFailure attaches the provider response state carried on a failed
// client call to the log event
func providerFailure(ev *zerolog.Event, err error) *zerolog.Event {
	ev = ev.Err(err)
	var eb *errorutils.ErrorBundle
	if errors.As(err, &eb) {
		ev = ev.Str("data", eb.DataToString())
	}
	return ev
}

// IssueClientToken generates an opaque bootstrap token, 256 bits of
// randomness hex encoded. It is not stored, has no expiry and is bound to
// no identity, so it is bootstrap material only and not a credential.
func (s *Service) IssueClientToken() (string, error) {
	return randomHex(clientTokenLength)
}
