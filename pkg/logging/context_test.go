package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // explicit nil check
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	FromContext(ctx).Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
}

func TestContextFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	ctx = WithSource(ctx, "google")
	ctx = WithPlace(ctx, "ChIJabc")
	ctx = WithOperation(ctx, "upsert")

	Ctx(ctx).Info().Msg("tick")

	out := buf.String()
	assert.Contains(t, out, `"source":"google"`)
	assert.Contains(t, out, `"identity_key":"ChIJabc"`)
	assert.Contains(t, out, `"operation":"upsert"`)
}
