package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string passes through", "abc", "abc"},
		{"integral number", float64(42), "42"},
		{"fractional number", 75.5, "75.5"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"json number", json.Number("123.45"), "123.45"},
		{"int", 7, "7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Value(tc.in)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestValueNilStaysNil(t *testing.T) {
	assert.Nil(t, Value(nil))
}

func TestValueStructuredRoundTrips(t *testing.T) {
	in := map[string]any{
		"nested": map[string]any{"a": float64(1), "b": "two"},
		"list":   []any{float64(1), "x", true},
	}

	got := Value(in)
	require.NotNil(t, got)

	var back map[string]any
	require.NoError(t, json.Unmarshal([]byte(*got), &back))
	assert.Equal(t, in, back)
}

func TestValueUnserializableFallsBack(t *testing.T) {
	// Channels cannot be JSON-marshaled; the fmt fallback must still
	// produce a non-nil string without panicking.
	got := Value(make(chan int))
	require.NotNil(t, got)
	assert.NotEmpty(t, *got)
}

func TestPropertiesNilYieldsEmptyMap(t *testing.T) {
	got := Properties(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPropertiesNormalizesEveryValue(t *testing.T) {
	got := Properties(map[string]any{
		"userId": "123",
		"count":  float64(3),
		"flag":   true,
		"gone":   nil,
	})

	require.Len(t, got, 4)
	assert.Equal(t, "123", *got["userId"])
	assert.Equal(t, "3", *got["count"])
	assert.Equal(t, "true", *got["flag"])
	assert.Nil(t, got["gone"])
}
