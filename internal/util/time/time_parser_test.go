package time_parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_ParseClientTimestamp_WithMissingValue_ReturnsNotOk(t *testing.T) {
	for _, input := range []any{nil, "", "not a date", true, []string{"x"}} {
		_, ok := ParseClientTimestamp(input)
		assert.False(t, ok, "input %v should not parse", input)
	}
}

func Test_ParseClientTimestamp_WithISOStrings_ParsesToUTC(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"RFC3339", "2024-05-01T10:20:30Z", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{"RFC3339 with offset", "2024-05-01T10:20:30+02:00", time.Date(2024, 5, 1, 8, 20, 30, 0, time.UTC)},
		{"RFC3339Nano", "2024-05-01T10:20:30.5Z", time.Date(2024, 5, 1, 10, 20, 30, 500000000, time.UTC)},
		{"without zone", "2024-05-01T10:20:30", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{"space separated", "2024-05-01 10:20:30", time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseClientTimestamp(tt.input)
			assert.True(t, ok)
			assert.True(t, tt.expected.Equal(result))
			assert.Equal(t, time.UTC, result.Location())
		})
	}
}

func Test_ParseClientTimestamp_WithUnixNumbers_DetectsSecondsAndMillis(t *testing.T) {
	expected := time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)

	seconds, ok := ParseClientTimestamp(float64(expected.Unix()))
	assert.True(t, ok)
	assert.True(t, expected.Equal(seconds))

	millis, ok := ParseClientTimestamp(expected.UnixMilli())
	assert.True(t, ok)
	assert.True(t, expected.Equal(millis))

	fromInt, ok := ParseClientTimestamp(int(expected.Unix()))
	assert.True(t, ok)
	assert.True(t, expected.Equal(fromInt))

	fromString, ok := ParseClientTimestamp("1714558830000")
	assert.True(t, ok)
	assert.True(t, expected.Equal(fromString))
}
