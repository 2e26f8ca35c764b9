package domain_test

import (
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestNextWeekday(t *testing.T) {
	monday := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	thursday := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Monday to Thursday is 3", func(t *testing.T) {
		assert.Equal(t, 3, domain.NextWeekday(time.Thursday, monday))
	})

	t.Run("Target day today means next week", func(t *testing.T) {
		assert.Equal(t, 7, domain.NextWeekday(time.Thursday, thursday))
	})

	t.Run("Wraps around the week", func(t *testing.T) {
		assert.Equal(t, 4, domain.NextWeekday(time.Monday, thursday))
	})

	t.Run("Always in [1, 7]", func(t *testing.T) {
		for offset := 0; offset < 7; offset++ {
			today := monday.AddDate(0, 0, offset)
			for wd := time.Sunday; wd <= time.Saturday; wd++ {
				got := domain.NextWeekday(wd, today)
				assert.GreaterOrEqual(t, got, 1)
				assert.LessOrEqual(t, got, 7)
				assert.Equal(t, wd, today.AddDate(0, 0, got).Weekday())
			}
		}
	})
}

func TestNextOccurrence(t *testing.T) {
	monday := time.Date(2026, 10, 12, 18, 45, 0, 0, time.UTC)

	got := domain.NextOccurrence(time.Friday, monday)

	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), got)
}

func TestRollForward(t *testing.T) {
	today := time.Date(2026, 10, 12, 14, 0, 0, 0, art)
	midnight := domain.NormalizeToMidnight(today)

	t.Run("Future date is kept", func(t *testing.T) {
		d := time.Date(2026, 10, 15, 0, 0, 0, 0, art)
		assert.Equal(t, d, domain.RollForward(d, today))
	})

	t.Run("Today rolls one week", func(t *testing.T) {
		got := domain.RollForward(midnight, today)
		assert.Equal(t, midnight.AddDate(0, 0, 7), got)
	})

	t.Run("10 days ago rolls two weeks", func(t *testing.T) {
		stored := midnight.AddDate(0, 0, -10)
		got := domain.RollForward(stored, today)

		assert.Equal(t, stored.AddDate(0, 0, 14), got)
		assert.Equal(t, 4, domain.DaysBetween(today, got))
	})

	t.Run("Exactly one week ago still needs two rolls", func(t *testing.T) {
		stored := midnight.AddDate(0, 0, -7)
		assert.Equal(t, midnight.AddDate(0, 0, 7), domain.RollForward(stored, today))
	})

	t.Run("Months of absence", func(t *testing.T) {
		stored := midnight.AddDate(0, -3, 0)
		got := domain.RollForward(stored, today)

		assert.True(t, got.After(midnight))
		assert.LessOrEqual(t, domain.DaysBetween(today, got), 7)
	})

	t.Run("Stored UTC date keeps its calendar day", func(t *testing.T) {
		stored := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
		got := domain.RollForward(stored, today)
		assert.Equal(t, "2026-10-20", domain.FormatForStorage(got))
	})

	t.Run("Property: strictly future and congruent mod 7", func(t *testing.T) {
		for offset := -60; offset <= 60; offset++ {
			stored := midnight.AddDate(0, 0, offset)
			got := domain.RollForward(stored, today)

			assert.True(t, got.After(midnight), "offset %d", offset)
			assert.Equal(t, 0, domain.DaysBetween(stored, got)%7, "offset %d", offset)
			assert.LessOrEqual(t, domain.DaysBetween(midnight, got), max(offset, 7), "offset %d", offset)
		}
	})
}
