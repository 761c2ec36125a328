package inputs

import (
	"context"
	"errors"
	"strings"
	"testing"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

var errNameRequired = errors.New("name is required")

type testInput struct {
	Name string `json:"name"`
}

func (ti *testInput) Decode(ctx context.Context, input []byte) error {
	return DecodeJSON(ctx, input, ti)
}

func (ti *testInput) Validate(ctx context.Context) error {
	if ti.Name == "" {
		return errNameRequired
	}
	return nil
}

func TestDecodeAndValidateReader(t *testing.T) {
	ctx := context.Background()

	var in testInput
	err := DecodeAndValidateReader(ctx, &in, strings.NewReader(`{"name":"wasl"}`))
	must.NoError(t, err)
	should.Equal(t, "wasl", in.Name)
}

func TestDecodeAndValidateReader_Invalid(t *testing.T) {
	ctx := context.Background()

	var in testInput
	err := DecodeAndValidateReader(ctx, &in, strings.NewReader(`{}`))
	must.Error(t, err)
	should.True(t, errors.Is(err, errNameRequired))
}

func TestDecodeAndValidate_CollectsBothFailures(t *testing.T) {
	ctx := context.Background()

	var in testInput
	err := DecodeAndValidate(ctx, &in, []byte(`not json`))
	must.Error(t, err)

	// both the decode failure and the validation failure are reported
	should.Contains(t, err.Error(), "failed decoding")
	should.True(t, errors.Is(err, errNameRequired))
}

func TestDecodeValidateHelpers(t *testing.T) {
	ctx := context.Background()

	var in testInput
	must.NoError(t, Decode(ctx, &in, []byte(`{"name":"wasl"}`)))
	should.NoError(t, Validate(ctx, &in))

	var empty testInput
	must.NoError(t, Decode(ctx, &empty, []byte(`{}`)))
	should.ErrorIs(t, Validate(ctx, &empty), errNameRequired)
}
