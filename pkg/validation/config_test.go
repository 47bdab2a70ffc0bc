package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	raw := json.RawMessage(`{
		"string": {"min_length": 1, "max_length": 50, "format": "email"},
		"number": {"min_value": 0, "integer_only": true},
		"date": {"no_future_dates": true}
	}`)

	cfg, err := ParseConfig(raw)
	require.NoError(t, err)
	require.NotNil(t, cfg.String)
	assert.Equal(t, 50, *cfg.String.MaxLength)
	require.NotNil(t, cfg.Number)
	assert.True(t, cfg.Number.IntegerOnly)
	require.NotNil(t, cfg.Date)
	assert.True(t, cfg.Date.NoFutureDates)
	assert.Nil(t, cfg.File)
	assert.False(t, cfg.IsZero())
}

func TestParseConfigUnknownCategoryIgnored(t *testing.T) {
	cfg, err := ParseConfig(json.RawMessage(`{"geo": {"radius": 5}}`))
	require.NoError(t, err)
	assert.True(t, cfg.IsZero())
}

func TestParseConfigMalformed(t *testing.T) {
	_, err := ParseConfig(json.RawMessage(`{`))
	assert.Error(t, err)
}

func TestSchemaPerFieldType(t *testing.T) {
	text := Schema("text")
	assert.Contains(t, text, "string")
	assert.Contains(t, text, "number")
	assert.Contains(t, text, "date")
	assert.NotContains(t, text, "file")

	document := Schema("document")
	assert.Contains(t, document, "file")
	assert.NotContains(t, document, "string")

	assert.Empty(t, Schema("select"))
}
