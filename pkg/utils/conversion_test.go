package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  float64
		ok    bool
	}{
		{"float64", 3.5, 3.5, true},
		{"int", 42, 42, true},
		{"numeric string", "12.5", 12.5, true},
		{"json number", json.Number("99"), 99, true},
		{"garbage string", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.value)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "hello", ToString("hello"))
	assert.Equal(t, "42", ToString(42))
	assert.Equal(t, "3.5", ToString(3.5))
	assert.Equal(t, "10", ToString(10.0), "whole floats print without decimals")
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "", ToString(nil))
}

func TestIsEmptyValue(t *testing.T) {
	assert.True(t, IsEmptyValue(nil))
	assert.True(t, IsEmptyValue(""))
	assert.True(t, IsEmptyValue(false))
	assert.True(t, IsEmptyValue(0))
	assert.True(t, IsEmptyValue([]interface{}{}))
	assert.True(t, IsEmptyValue([]string{}))

	assert.False(t, IsEmptyValue("x"))
	assert.False(t, IsEmptyValue(true))
	assert.False(t, IsEmptyValue(1))
	assert.False(t, IsEmptyValue([]interface{}{""}))
}
