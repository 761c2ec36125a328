package square

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/wasl-app/payments/libs/clients"
	appctx "github.com/wasl-app/payments/libs/context"
	errorutils "github.com/wasl-app/payments/libs/errors"
)

const (
	// ProductionServer - the live square api server
	ProductionServer = "https://connect.squareup.com"
	// SandboxServer - the square sandbox api server
	SandboxServer = "https://connect.squareupsandbox.com"

	// pinned api version sent on every request
	apiVersion = "2023-10-18"
)

// BaseURL - resolve the square api server for the given environment,
// PRODUCTION selects the live processor, anything else the sandbox
func BaseURL(environment string) string {
	if environment == "PRODUCTION" {
		return ProductionServer
	}
	return SandboxServer
}

// Money is an amount in minor currency units with its ISO 4217 currency code
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// LineItem is a single item of an order
type LineItem struct {
	Name           string `json:"name"`
	Quantity       string `json:"quantity"`
	BasePriceMoney Money  `json:"base_price_money"`
}

// OrderDraft is the order submitted for creation
type OrderDraft struct {
	LocationID string     `json:"location_id"`
	LineItems  []LineItem `json:"line_items"`
}

// CreateOrderRequest is the payload for the create order api
type CreateOrderRequest struct {
	IdempotencyKey string     `json:"idempotency_key"`
	Order          OrderDraft `json:"order"`
}

// Order holds the created order fields the gateway relies on
type Order struct {
	ID         string `json:"id"`
	LocationID string `json:"location_id"`
	TotalMoney Money  `json:"total_money"`
}

type createOrderResponse struct {
	Order Order `json:"order"`
}

// CreatePaymentRequest is the payload for the create payment api
type CreatePaymentRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	SourceID       string `json:"source_id"`
	AmountMoney    Money  `json:"amount_money"`
	OrderID        string `json:"order_id"`
	Autocomplete   bool   `json:"autocomplete"`
	LocationID     string `json:"location_id"`
}

// Payment is the provider's payment object, decoded generically so it can be
// passed through to the caller without this service owning its schema.
// Numeric values are json.Number to preserve 64-bit money amounts.
type Payment map[string]interface{}

type createPaymentResponse struct {
	Payment Payment `json:"payment"`
}

// APIError is a single error entry from the provider error payload
type APIError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
	Field    string `json:"field,omitempty"`
}

// Error holds error info directly from square
type Error struct {
	Errors         []APIError `json:"errors"`
	HTTPStatusCode int        `json:"-"`
}

// Error returns the error string
func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("square error - http status: %d", e.HTTPStatusCode)
	}
	return fmt.Sprintf("square error - code: %s - detail: %s - http status: %d",
		e.Errors[0].Code, e.Errors[0].Detail, e.HTTPStatusCode)
}

// Client abstracts over the underlying square client
type Client interface {
	// CreateOrder submits a new order for the merchant location
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	// CreatePayment charges a payment source against a created order
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (Payment, error)
}

// HTTPClient wraps http.Client for interacting with the square api
type HTTPClient struct {
	client *clients.SimpleHTTPClient
}

// NewWithContext returns a new Client, retrieving the base URL and access token from the context
func NewWithContext(ctx context.Context) (Client, error) {
	// get the server url from context
	serverURL, err := appctx.GetStringFromContext(ctx, appctx.SquareServerCTXKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get SquareServer from context: %w", err)
	}
	// get the access token from context
	accessToken, err := appctx.GetStringFromContext(ctx, appctx.SquareAccessTokenCTXKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get SquareAccessToken from context: %w", err)
	}
	proxy := os.Getenv("HTTP_PROXY")
	client, err := clients.NewInstrumented("square", serverURL, accessToken, proxy)
	if err != nil {
		return nil, err
	}
	return NewClientWithPrometheus(&HTTPClient{client}, "square_client"), nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	req, err := c.client.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Square-Version", apiVersion)
	return req, nil
}

// CreateOrder submits an order creation request to square
func (c *HTTPClient) CreateOrder(ctx context.Context, createReq *CreateOrderRequest) (*Order, error) {
	req, err := c.newRequest(ctx, "POST", "/v2/orders", createReq)
	if err != nil {
		return nil, err
	}

	var body createOrderResponse
	if _, err := c.client.Do(ctx, req, &body); err != nil {
		return nil, wrapAPIError(err)
	}
	return &body.Order, nil
}

// CreatePayment submits a payment creation request to square
func (c *HTTPClient) CreatePayment(ctx context.Context, createReq *CreatePaymentRequest) (Payment, error) {
	req, err := c.newRequest(ctx, "POST", "/v2/payments", createReq)
	if err != nil {
		return nil, err
	}

	var body createPaymentResponse
	if _, err := c.client.Do(ctx, req, &body); err != nil {
		return nil, wrapAPIError(err)
	}
	return body.Payment, nil
}

// wrapAPIError promotes a failed client call into a square Error when the
// provider attached a structured error payload, otherwise the original
// error bundle is passed along untouched
func wrapAPIError(err error) error {
	var eb *errorutils.ErrorBundle
	if !errors.As(err, &eb) {
		return err
	}
	state, ok := eb.Data().(clients.HTTPState)
	if !ok {
		return err
	}
	respErr, ok := state.Body.(clients.RespErrData)
	if !ok {
		return err
	}
	raw, ok := respErr.Body.(string)
	if !ok || !strings.Contains(raw, "errors") {
		return err
	}

	var apiErr Error
	if jsonErr := json.Unmarshal([]byte(raw), &apiErr); jsonErr != nil || len(apiErr.Errors) == 0 {
		return err
	}
	apiErr.HTTPStatusCode = state.Status
	return &apiErr
}
