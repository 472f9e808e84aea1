package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2024-03-01")
	assert.NoError(t, err)

	for _, bad := range []string{"", "03/01/2024", "2024-3-1", "2024-03-01T00:00:00Z", "yesterday"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestPreviousDay(t *testing.T) {
	prev, err := PreviousDay("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", prev)

	// Month and year boundaries.
	prev, err = PreviousDay("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", prev)

	prev, err = PreviousDay("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", prev)
}

func TestInclusiveDays(t *testing.T) {
	days, err := InclusiveDays("2024-03-01", "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, days)

	days, err = InclusiveDays("2024-03-05", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	_, err = InclusiveDays("2024-03-10", "2024-03-01")
	assert.Error(t, err)
}

func TestProgressPercentage(t *testing.T) {
	// 6 completed days over a 10-day challenge is 60%.
	assert.Equal(t, 60, ProgressPercentage(6, 10))
	assert.Equal(t, 0, ProgressPercentage(0, 10))
	assert.Equal(t, 100, ProgressPercentage(10, 10))
	assert.Equal(t, 33, ProgressPercentage(1, 3))
	assert.Equal(t, 0, ProgressPercentage(3, 0))
}
