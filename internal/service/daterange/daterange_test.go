package daterange

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowmensarker/ambika/internal/domain/models"
)

func TestResolve(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*3600)
	now := time.Date(2025, time.March, 15, 18, 30, 0, 0, dhaka)

	tests := []struct {
		token string
		from  string
		to    string
	}{
		{"today", "2025-03-15", "2025-03-15"},
		{"7 days", "2025-03-08", "2025-03-15"},
		{"1 month", "2025-03-01", "2025-03-31"},
		{"6 month", "2024-10-01", "2025-03-31"},
		{"1 year", "2025-01-01", "2025-12-31"},
		{" 1 Month ", "2025-03-01", "2025-03-31"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			from, to, err := Resolve(tt.token, now)
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestResolve_MonthBoundaries(t *testing.T) {
	t.Run("february of a leap year", func(t *testing.T) {
		from, to, err := Resolve(OneMonth, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "2024-02-01", from)
		assert.Equal(t, "2024-02-29", to)
	})

	t.Run("seven days across a month start", func(t *testing.T) {
		from, to, err := Resolve(SevenDays, time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "2025-02-24", from)
		assert.Equal(t, "2025-03-03", to)
	})

	t.Run("six months across a year start", func(t *testing.T) {
		from, _, err := Resolve(SixMonths, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "2024-09-01", from)
	})
}

func TestResolve_TodayUsesLocation(t *testing.T) {
	// 20:00 UTC on the 1st is already the 2nd in Dhaka.
	now := time.Date(2025, time.June, 1, 20, 0, 0, 0, time.UTC).In(time.FixedZone("BDT", 6*3600))
	from, to, err := Resolve(Today, now)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", from)
	assert.Equal(t, from, to)
}

func TestResolve_InvalidToken(t *testing.T) {
	for _, token := range []string{"", "2 weeks", "yesterday"} {
		_, _, err := Resolve(token, time.Now())
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidRange), token)
	}
}

func TestClock(t *testing.T) {
	fixed := time.Date(2025, time.June, 1, 20, 0, 0, 0, time.UTC)
	clock := NewClockAt(time.FixedZone("BDT", 6*3600), func() time.Time { return fixed })

	assert.Equal(t, "2025-06-02", clock.Today())
	assert.Equal(t, fixed.UnixMilli(), clock.Millis())

	from, to, err := clock.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-26", from)
	assert.Equal(t, "2025-06-02", to)

	assert.Equal(t, time.UTC, NewClock(nil).Now().Location())
}
