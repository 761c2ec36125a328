package gateway

import (
	"bytes"
	"encoding/json"
	"testing"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"

	"github.com/wasl-app/payments/libs/clients/square"
)

func TestSanitizePayment(t *testing.T) {
	raw := []byte(`{
		"id": "pmt_1",
		"status": "COMPLETED",
		"amount_money": {"amount": 9007199254740993, "currency": "USD"},
		"processing_fee": [
			{"amount_money": {"amount": 33, "currency": "USD"}, "type": "INITIAL"}
		],
		"risk_evaluation": {"score": 0.25},
		"version_token": null,
		"approved": true
	}`)

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payment square.Payment
	must.NoError(t, dec.Decode(&payment))

	out := SanitizePayment(payment)

	// integral numbers become decimal strings at every depth, with values
	// past 2^53 intact
	amountMoney, ok := out["amount_money"].(map[string]interface{})
	must.True(t, ok)
	should.Equal(t, "9007199254740993", amountMoney["amount"])
	should.Equal(t, "USD", amountMoney["currency"])

	fees, ok := out["processing_fee"].([]interface{})
	must.True(t, ok)
	must.Len(t, fees, 1)
	feeMoney := fees[0].(map[string]interface{})["amount_money"].(map[string]interface{})
	should.Equal(t, "33", feeMoney["amount"])

	// fractional numbers stay numeric
	risk, ok := out["risk_evaluation"].(map[string]interface{})
	must.True(t, ok)
	should.Equal(t, 0.25, risk["score"])

	// non numeric values pass through untouched
	should.Equal(t, "COMPLETED", out["status"])
	should.Equal(t, true, out["approved"])
	should.Nil(t, out["version_token"])

	// the input payment is not mutated
	should.Equal(t, json.Number("9007199254740993"),
		payment["amount_money"].(map[string]interface{})["amount"])
}

func TestSanitizePayment_Nil(t *testing.T) {
	should.Nil(t, SanitizePayment(nil))
}
