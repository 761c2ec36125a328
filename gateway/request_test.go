package gateway

import (
	"context"
	"errors"
	"testing"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"

	"github.com/wasl-app/payments/libs/inputs"
)

func TestChargeRequest_DecodeAndValidate(t *testing.T) {
	type tcExpected struct {
		nonce      string
		minorUnits int64
		currency   string
		err        error
	}

	type testCase struct {
		name  string
		input string
		exp   tcExpected
	}

	tests := []testCase{
		{
			name:  "numeric_amount",
			input: `{"nonce":"cnon:ok","amount":10}`,
			exp: tcExpected{
				nonce:      "cnon:ok",
				minorUnits: 1000,
				currency:   "USD",
			},
		},

		{
			name:  "string_amount",
			input: `{"nonce":"cnon:ok","amount":"10.00","currency":"AED"}`,
			exp: tcExpected{
				nonce:      "cnon:ok",
				minorUnits: 1000,
				currency:   "AED",
			},
		},

		{
			name:  "fractional_half_rounds_away",
			input: `{"nonce":"cnon:ok","amount":"10.005"}`,
			exp: tcExpected{
				nonce:      "cnon:ok",
				minorUnits: 1001,
				currency:   "USD",
			},
		},

		{
			name:  "sub_cent_rounds_down",
			input: `{"nonce":"cnon:ok","amount":"10.004"}`,
			exp: tcExpected{
				nonce:      "cnon:ok",
				minorUnits: 1000,
				currency:   "USD",
			},
		},

		{
			name:  "missing_nonce",
			input: `{"amount":10}`,
			exp: tcExpected{
				err: ErrMissingChargeFields,
			},
		},

		{
			name:  "missing_amount",
			input: `{"nonce":"cnon:ok"}`,
			exp: tcExpected{
				err: ErrMissingChargeFields,
			},
		},

		{
			name:  "empty_body",
			input: `{}`,
			exp: tcExpected{
				err: ErrMissingChargeFields,
			},
		},

		{
			name:  "zero_amount",
			input: `{"nonce":"cnon:ok","amount":0}`,
			exp: tcExpected{
				err: ErrMissingChargeFields,
			},
		},

		{
			name:  "empty_string_amount",
			input: `{"nonce":"cnon:ok","amount":""}`,
			exp: tcExpected{
				err: ErrMissingChargeFields,
			},
		},

		{
			name:  "negative_amount",
			input: `{"nonce":"cnon:ok","amount":-5}`,
			exp: tcExpected{
				err: ErrInvalidChargeAmount,
			},
		},

		{
			name:  "non_numeric_amount",
			input: `{"nonce":"cnon:ok","amount":"ten"}`,
			exp: tcExpected{
				err: ErrInvalidChargeAmount,
			},
		},

		{
			name:  "bool_amount",
			input: `{"nonce":"cnon:ok","amount":true}`,
			exp: tcExpected{
				err: ErrInvalidChargeAmount,
			},
		},
	}

	for i := range tests {
		tc := tests[i]

		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			var req ChargeRequest
			err := inputs.DecodeAndValidateString(ctx, &req, tc.input)

			if tc.exp.err != nil {
				must.Error(t, err)
				should.True(t, errors.Is(err, tc.exp.err))
				return
			}

			must.NoError(t, err)
			should.Equal(t, tc.exp.nonce, req.Nonce)
			should.Equal(t, tc.exp.currency, req.Currency)
			should.Equal(t, tc.exp.minorUnits, req.MinorUnits())
		})
	}
}
