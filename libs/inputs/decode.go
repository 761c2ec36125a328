package inputs

import (
	"bytes"
	"context"
	"encoding/json"
)

// Decodable - an interface that allows for decoding of inputs and params
type Decodable interface {
	Decode(context.Context, []byte) error
}

// Decode - decode a decodable thing
func Decode(ctx context.Context, d Decodable, input []byte) error {
	return d.Decode(ctx, input)
}

// DecodeJSON - decode json helper, preserving number precision
func DecodeJSON(ctx context.Context, input []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewBuffer(input))
	dec.UseNumber()
	return dec.Decode(v)
}
