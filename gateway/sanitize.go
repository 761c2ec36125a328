package gateway

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/wasl-app/payments/libs/clients/square"
)

// SanitizePayment returns a copy of the provider payment object with every
// integral numeric value converted to its decimal string form, at all
// nesting depths. Provider money amounts are 64-bit integers which do not
// survive json serialization through javascript consumers, so they go out
// as strings the same way the provider's own sdks render them.
func SanitizePayment(p square.Payment) square.Payment {
	if p == nil {
		return nil
	}
	return square.Payment(sanitizeMap(map[string]interface{}(p)))
}

func sanitizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return sanitizeMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, vv := range t {
			out[i] = sanitizeValue(vv)
		}
		return out
	case json.Number:
		// integral numbers become strings, fractional ones stay numeric
		if !strings.ContainsAny(t.String(), ".eE") {
			return t.String()
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return v
	}
}
