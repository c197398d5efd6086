package typeutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/types"
)

func TestReformatValueDeclaredConversions(t *testing.T) {
	cases := []struct {
		name     string
		dt       types.DataType
		value    any
		expected any
	}{
		{"string to int64", types.Int64, "42", int64(42)},
		{"float to int64", types.Int64, 42.9, int64(42)},
		{"string to float", types.Float64, "10.5", 10.5},
		{"int to float", types.Float64, 10, 10.0},
		{"string to bool", types.Bool, "true", true},
		{"int to bool", types.Bool, 1, true},
		{"object to string", types.String, map[string]any{"a": float64(1)}, `{"a":1}`},
		{"bytes to string", types.String, []byte("abc"), "abc"},
		{"string to binary", types.Binary, "abc", []byte("abc")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ReformatValue(c.dt, c.value)
			require.NoError(t, err)
			assert.Equal(t, c.expected, got)
		})
	}
}

func TestReformatValueTimestamps(t *testing.T) {
	got, err := ReformatValue(types.TimestampMicro, "2025-08-12T15:00:00.123456+00:00")
	require.NoError(t, err)
	ts, ok := got.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, ts.Location())
	assert.Equal(t, 123456000, ts.Nanosecond())

	// malformed timestamps are fatal, not skipped
	_, err = ReformatValue(types.TimestampMicro, "not-a-date")
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrNonRetryable)
}

func TestReformatValueNaiveDatetimeKeepsWallClock(t *testing.T) {
	got, err := ReformatValue(types.TimestampNTZ, "2025-08-12T15:00:00+05:30")
	require.NoError(t, err)
	ts := got.(time.Time)

	// the zone is dropped, the wall clock reading stays
	assert.Equal(t, 15, ts.Hour())
	assert.Equal(t, time.UTC, ts.Location())
}

func TestReformatValueDateTruncates(t *testing.T) {
	got, err := ReformatValue(types.Date, "2025-08-12T15:04:05Z")
	require.NoError(t, err)
	ts := got.(time.Time)
	assert.Equal(t, "2025-08-12T00:00:00Z", ts.Format(time.RFC3339))
}

func TestReformatValueInt32RangeCheck(t *testing.T) {
	got, err := ReformatValue(types.Int32, "2147483647")
	require.NoError(t, err)
	assert.Equal(t, int32(2147483647), got)

	_, err = ReformatValue(types.Int32, "2147483648")
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrNonRetryable)
}

func TestReformatValueNullAndArray(t *testing.T) {
	_, err := ReformatValue(types.Int64, nil)
	assert.ErrorIs(t, err, ErrNullValue)

	_, err = ReformatValue(types.Array, []any{1})
	assert.ErrorIs(t, err, constants.ErrNonRetryable)
}

func TestFormatCursorValue(t *testing.T) {
	ts := time.Date(2025, 8, 12, 15, 0, 0, 123456000, time.UTC)
	assert.Equal(t, "2025-08-12T15:00:00.123456Z", FormatCursorValue(ts))
	assert.Equal(t, "plain", FormatCursorValue("plain"))
	assert.Equal(t, int64(7), FormatCursorValue(int64(7)))
}
