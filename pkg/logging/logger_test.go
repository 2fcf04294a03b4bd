package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf)

	logger.Info().Str("source", "wikidata").Msg("import started")

	assert.Contains(t, buf.String(), `"source":"wikidata"`)
	assert.Contains(t, buf.String(), `"message":"import started"`)
}

func TestSetDefault(t *testing.T) {
	original := Default()
	defer SetDefault(*original)

	var buf bytes.Buffer
	SetDefault(New(&buf))

	Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestTestLoggerCapture(t *testing.T) {
	tl := NewTestLogger(t)

	tl.Info().Str("identity_key", "Q42").Msg("registered")
	tl.Debug().Msg("second line")

	assert.True(t, tl.Contains("Q42"))
	assert.Len(t, tl.Lines(), 2)
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNopLogger()
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
