package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"

	"github.com/wasl-app/payments/libs/clients"
	"github.com/wasl-app/payments/libs/clients/square"
)

var hexKeyRe = regexp.MustCompile(`^[0-9a-f]{32}$`)

func postChargeCard(t *testing.T, service *Service, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest("POST", "/charge-card", bytes.NewBufferString(body))
	must.NoError(t, err)
	req = req.WithContext(context.Background())

	rr := httptest.NewRecorder()
	ChargeCardHandler(service).ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	dec := json.NewDecoder(rr.Body)
	dec.UseNumber()

	var out map[string]interface{}
	must.NoError(t, dec.Decode(&out))
	return out
}

func TestChargeCardHandler_Success(t *testing.T) {
	var (
		orderReq   *square.CreateOrderRequest
		paymentReq *square.CreatePaymentRequest
	)

	mock := &square.MockClient{
		FnCreateOrder: func(ctx context.Context, req *square.CreateOrderRequest) (*square.Order, error) {
			orderReq = req
			return &square.Order{
				ID:         "order_1",
				LocationID: req.Order.LocationID,
				TotalMoney: square.Money{Amount: 1000, Currency: "USD"},
			}, nil
		},
		FnCreatePayment: func(ctx context.Context, req *square.CreatePaymentRequest) (square.Payment, error) {
			paymentReq = req
			return square.Payment{
				"id":       "payment_1",
				"order_id": req.OrderID,
				"status":   "COMPLETED",
				"amount_money": map[string]interface{}{
					"amount":   req.AmountMoney.Amount,
					"currency": req.AmountMoney.Currency,
				},
			}, nil
		},
	}
	service := NewService(context.Background(), mock, "location_1")

	rr := postChargeCard(t, service, `{"nonce":"cnon:card-nonce-ok","amount":"10.00"}`)

	must.Equal(t, http.StatusOK, rr.Code)
	should.Equal(t, "application/json", rr.Header().Get("content-type"))

	// the order carries a single fixed line item priced at the full amount
	must.NotNil(t, orderReq)
	must.Len(t, orderReq.Order.LineItems, 1)
	should.Equal(t, "location_1", orderReq.Order.LocationID)
	should.Equal(t, "Wasl Order", orderReq.Order.LineItems[0].Name)
	should.Equal(t, "1", orderReq.Order.LineItems[0].Quantity)
	should.Equal(t, int64(1000), orderReq.Order.LineItems[0].BasePriceMoney.Amount)
	should.Equal(t, "USD", orderReq.Order.LineItems[0].BasePriceMoney.Currency)

	// the payment charges the nonce against the created order for its
	// total, under a fresh idempotency key
	must.NotNil(t, paymentReq)
	should.Equal(t, "cnon:card-nonce-ok", paymentReq.SourceID)
	should.Equal(t, "order_1", paymentReq.OrderID)
	should.Equal(t, square.Money{Amount: 1000, Currency: "USD"}, paymentReq.AmountMoney)
	should.True(t, paymentReq.Autocomplete)
	should.Equal(t, "location_1", paymentReq.LocationID)

	should.Regexp(t, hexKeyRe, orderReq.IdempotencyKey)
	should.Regexp(t, hexKeyRe, paymentReq.IdempotencyKey)
	should.NotEqual(t, orderReq.IdempotencyKey, paymentReq.IdempotencyKey)

	// the response is the sanitized payment, money amounts as strings
	body := decodeBody(t, rr)
	should.Equal(t, "payment_1", body["id"])
	amountMoney, ok := body["amount_money"].(map[string]interface{})
	must.True(t, ok)
	should.Equal(t, "1000", amountMoney["amount"])
}

func TestChargeCardHandler_FreshIdempotencyKeys(t *testing.T) {
	var keys []string

	mock := &square.MockClient{
		FnCreateOrder: func(ctx context.Context, req *square.CreateOrderRequest) (*square.Order, error) {
			keys = append(keys, req.IdempotencyKey)
			return &square.Order{
				ID:         "order_1",
				LocationID: req.Order.LocationID,
				TotalMoney: req.Order.LineItems[0].BasePriceMoney,
			}, nil
		},
		FnCreatePayment: func(ctx context.Context, req *square.CreatePaymentRequest) (square.Payment, error) {
			keys = append(keys, req.IdempotencyKey)
			return square.Payment{"id": "payment_1"}, nil
		},
	}
	service := NewService(context.Background(), mock, "location_1")

	// keys are fresh within a charge and across charges
	for i := 0; i < 2; i++ {
		rr := postChargeCard(t, service, `{"nonce":"cnon:card-nonce-ok","amount":10}`)
		must.Equal(t, http.StatusOK, rr.Code)
	}

	must.Len(t, keys, 4)
	seen := map[string]bool{}
	for _, key := range keys {
		should.Regexp(t, hexKeyRe, key)
		seen[key] = true
	}
	should.Len(t, seen, 4)
}

func TestChargeCardHandler_MissingFields(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "missing_nonce", body: `{"amount":10}`},
		{name: "missing_amount", body: `{"nonce":"cnon:ok"}`},
		{name: "empty_body", body: `{}`},
		{name: "zero_amount", body: `{"nonce":"cnon:ok","amount":0}`},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			called := false
			mock := &square.MockClient{
				FnCreateOrder: func(ctx context.Context, req *square.CreateOrderRequest) (*square.Order, error) {
					called = true
					return nil, errors.New("unexpected call")
				},
			}
			service := NewService(context.Background(), mock, "location_1")

			rr := postChargeCard(t, service, tc.body)

			must.Equal(t, http.StatusBadRequest, rr.Code)
			should.False(t, called)

			body := decodeBody(t, rr)
			should.Equal(t,
				"Missing required fields: nonce and amount are required",
				body["errorMessage"])
		})
	}
}

func TestChargeCardHandler_MalformedAmount(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "non_numeric_string", body: `{"nonce":"cnon:ok","amount":"ten"}`},
		{name: "negative", body: `{"nonce":"cnon:ok","amount":-5}`},
		{name: "wrong_type", body: `{"nonce":"cnon:ok","amount":true}`},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			called := false
			mock := &square.MockClient{
				FnCreateOrder: func(ctx context.Context, req *square.CreateOrderRequest) (*square.Order, error) {
					called = true
					return nil, errors.New("unexpected call")
				},
			}
			service := NewService(context.Background(), mock, "location_1")

			rr := postChargeCard(t, service, tc.body)

			must.Equal(t, http.StatusBadRequest, rr.Code)
			should.False(t, called)

			// a present but unusable amount is reported as malformed, not missing
			body := decodeBody(t, rr)
			should.Equal(t, "Error validating charge request body", body["errorMessage"])
		})
	}
}

func TestChargeCardHandler_ProviderDeclined(t *testing.T) {
	mock := &square.MockClient{
		FnCreatePayment: func(ctx context.Context, req *square.CreatePaymentRequest) (square.Payment, error) {
			return nil, &square.Error{
				Errors: []square.APIError{
					{
						Category: "PAYMENT_METHOD_ERROR",
						Code:     "CARD_DECLINED",
						Detail:   "Card declined.",
					},
				},
				HTTPStatusCode: http.StatusBadRequest,
			}
		},
	}
	service := NewService(context.Background(), mock, "location_1")

	rr := postChargeCard(t, service, `{"nonce":"cnon:card-nonce-declined","amount":10}`)

	must.Equal(t, http.StatusBadRequest, rr.Code)

	body := decodeBody(t, rr)
	should.Equal(t, "Card declined.", body["errorMessage"])
	should.Equal(t, "CARD_DECLINED", body["errorCode"])
}

func TestChargeCardHandler_ProviderErrorDefaults(t *testing.T) {
	mock := &square.MockClient{
		FnCreateOrder: func(ctx context.Context, req *square.CreateOrderRequest) (*square.Order, error) {
			return nil, errors.New("connection reset by peer")
		},
	}
	service := NewService(context.Background(), mock, "location_1")

	rr := postChargeCard(t, service, `{"nonce":"cnon:ok","amount":10}`)

	must.Equal(t, http.StatusBadRequest, rr.Code)

	body := decodeBody(t, rr)
	should.Equal(t, "Payment processing failed", body["errorMessage"])
	should.Equal(t, "UNKNOWN_ERROR", body["errorCode"])
}

func TestChargeCardHandler_ProviderRequestFailed(t *testing.T) {
	mock := &square.MockClient{
		FnCreateOrder: func(ctx context.Context, req *square.CreateOrderRequest) (*square.Order, error) {
			// a failed client call surfaces as an error bundle carrying the
			// provider response state
			return nil, clients.NewHTTPError(
				errors.New("protocol error"),
				"/v2/orders",
				"response",
				http.StatusBadGateway,
				clients.RespErrData{Body: "bad gateway"},
			)
		},
	}
	service := NewService(context.Background(), mock, "location_1")

	rr := postChargeCard(t, service, `{"nonce":"cnon:ok","amount":10}`)

	must.Equal(t, http.StatusBadRequest, rr.Code)

	body := decodeBody(t, rr)
	should.Equal(t, "Payment processing failed", body["errorMessage"])
	should.Equal(t, "UNKNOWN_ERROR", body["errorCode"])
}

func TestClientTokenHandler(t *testing.T) {
	service := NewService(context.Background(), &square.MockClient{}, "location_1")
	handler := ClientTokenHandler(service)

	tokenRe := regexp.MustCompile(`^[0-9a-f]{64}$`)
	tokens := map[string]bool{}

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest("GET", "/client_token", nil)
		must.NoError(t, err)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		must.Equal(t, http.StatusOK, rr.Code)
		should.Equal(t, "text/plain", rr.Header().Get("content-type"))
		should.Regexp(t, tokenRe, rr.Body.String())
		tokens[rr.Body.String()] = true
	}

	// 256 bits of randomness never repeat across calls
	should.Len(t, tokens, 2)
}
