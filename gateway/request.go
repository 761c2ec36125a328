package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
	"github.com/wasl-app/payments/libs/inputs"
)

var (
	// ErrMissingChargeFields - the charge request did not carry a nonce and an amount
	ErrMissingChargeFields = errors.New("missing required fields: nonce and amount are required")
	// ErrInvalidChargeAmount - the amount was present but not a usable number
	ErrInvalidChargeAmount = errors.New("amount must be a non-negative number")
)

var oneHundred = decimal.NewFromInt(100)

// ChargeRequest is the body of a charge-card call. Amount accepts either a
// numeric json value or a numeric string, in major currency units.
type ChargeRequest struct {
	Nonce    string          `json:"nonce" valid:"required"`
	Amount   decimal.Decimal `json:"amount" valid:"-"`
	Currency string          `json:"currency" valid:"-"`

	hasAmount bool
}

// Decode implements inputs.Decodable
func (cr *ChargeRequest) Decode(ctx context.Context, input []byte) error {
	var aux struct {
		Nonce    string      `json:"nonce"`
		Amount   interface{} `json:"amount"`
		Currency string      `json:"currency"`
	}
	if err := inputs.DecodeJSON(ctx, input, &aux); err != nil {
		return fmt.Errorf("failed to decode json: %w", err)
	}

	cr.Nonce = aux.Nonce
	cr.Currency = aux.Currency
	if cr.Currency == "" {
		cr.Currency = "USD"
	}

	switch v := aux.Amount.(type) {
	case nil:
		// left unset, caught in Validate
	case string:
		if v == "" {
			break
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidChargeAmount, v)
		}
		cr.Amount = d
		cr.hasAmount = true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidChargeAmount, v.String())
		}
		cr.Amount = d
		cr.hasAmount = true
	default:
		return fmt.Errorf("%w: unexpected type %T", ErrInvalidChargeAmount, aux.Amount)
	}
	return nil
}

// Validate implements inputs.Validatable
func (cr *ChargeRequest) Validate(ctx context.Context) error {
	if _, err := govalidator.ValidateStruct(cr); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingChargeFields, err)
	}
	// a zero amount counts as missing, matching the mobile client contract
	if !cr.hasAmount || cr.Amount.IsZero() {
		return ErrMissingChargeFields
	}
	if cr.Amount.IsNegative() {
		return ErrInvalidChargeAmount
	}
	return nil
}

// MinorUnits converts the requested amount into integer minor currency
// units, rounding half away from zero
func (cr *ChargeRequest) MinorUnits() int64 {
	return cr.Amount.Mul(oneHundred).Round(0).IntPart()
}
