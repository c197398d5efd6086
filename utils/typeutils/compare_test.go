package typeutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareNumbers(t *testing.T) {
	assert.Equal(t, -1, Compare(int64(1), int64(2)))
	assert.Equal(t, 1, Compare(int64(2), int64(1)))
	assert.Equal(t, 0, Compare(int64(2), int64(2)))
	assert.Equal(t, -1, Compare(1.5, 2.5))
	assert.Equal(t, 0, Compare(2.5, 2.5))

	// float ordering is exact so cursors advancing in tiny steps still move
	assert.Equal(t, -1, Compare(1.0000001, 1.0000002))
	assert.Equal(t, 1, Compare(1.0000002, 1.0000001))

	// mixed numeric kinds promote instead of falling back to strings
	assert.Equal(t, 1, Compare(int64(10), float64(9)))
}

func TestCompareNils(t *testing.T) {
	assert.Equal(t, 0, Compare(nil, nil))
	assert.Equal(t, -1, Compare(nil, int64(1)))
	assert.Equal(t, 1, Compare(int64(1), nil))
}

func TestCompareTimeAgainstStateString(t *testing.T) {
	earlier := time.Date(2025, 8, 12, 15, 0, 0, 0, time.UTC)
	later := "2025-08-12T16:00:00Z"

	// cursor values read back from a state file arrive as strings
	assert.Equal(t, -1, Compare(earlier, later))
	assert.Equal(t, 1, Compare(later, earlier))
	assert.Equal(t, 0, Compare(earlier, "2025-08-12T15:00:00Z"))
}

func TestCompareTimestampStrings(t *testing.T) {
	assert.Equal(t, -1, Compare("2025-08-12T15:00:00.000100Z", "2025-08-12T15:00:00.000200Z"))
	assert.Equal(t, 0, Compare("2025-08-12T15:00:00Z", "2025-08-12T15:00:00+00:00"))
}

func TestComparePlainStrings(t *testing.T) {
	assert.Equal(t, -1, Compare("apple", "banana"))
	assert.Equal(t, 1, Compare("banana", "apple"))
}
