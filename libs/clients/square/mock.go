package square

import (
	"context"
)

type MockClient struct {
	FnCreateOrder   func(ctx context.Context, req *CreateOrderRequest) (*Order, error)
	FnCreatePayment func(ctx context.Context, req *CreatePaymentRequest) (Payment, error)
}

func (c *MockClient) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	if c.FnCreateOrder == nil {
		result := &Order{
			ID:         "order_id",
			LocationID: req.Order.LocationID,
			TotalMoney: req.Order.LineItems[0].BasePriceMoney,
		}

		return result, nil
	}

	return c.FnCreateOrder(ctx, req)
}

func (c *MockClient) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (Payment, error) {
	if c.FnCreatePayment == nil {
		result := Payment{
			"id":           "payment_id",
			"order_id":     req.OrderID,
			"status":       "COMPLETED",
			"amount_money": map[string]interface{}{"amount": req.AmountMoney.Amount, "currency": req.AmountMoney.Currency},
		}

		return result, nil
	}

	return c.FnCreatePayment(ctx, req)
}
