// internal/calendar/calendar_test.go
package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-04 is a Wednesday.
var now = time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func findDay(t *testing.T, cal Calendar, date time.Time) Day {
	t.Helper()
	for _, w := range cal.Weeks {
		for _, d := range w.Days {
			if d.Date.Equal(date) {
				return d
			}
		}
	}
	t.Fatalf("date %s not in calendar", date.Format(dateKey))
	return Day{}
}

func TestBuild_EmptyGrid(t *testing.T) {
	cal := Build(nil, now)

	require.Len(t, cal.Weeks, Weeks)
	for _, w := range cal.Weeks {
		require.Len(t, w.Days, 7)
		for _, d := range w.Days {
			assert.Equal(t, 0, d.Count)
			assert.Equal(t, 0, d.Level)
		}
	}
	assert.Equal(t, 0, cal.Total)
	assert.Equal(t, 0, cal.CurrentStreak)
	assert.Equal(t, 0, cal.LongestStreak)
}

func TestBuild_GridShape(t *testing.T) {
	cal := Build(nil, now)

	first := cal.Weeks[0].Days[0].Date
	assert.Equal(t, time.Sunday, first.Weekday())
	assert.Equal(t, at(2024, 6, 9, 0), first)

	last := cal.Weeks[Weeks-1].Days
	assert.Equal(t, at(2025, 6, 1, 0), last[0].Date)
	assert.Equal(t, at(2025, 6, 4, 0), last[3].Date, "today")
	assert.Equal(t, at(2025, 6, 7, 0), last[6].Date, "padded forward to Saturday")

	prev := first.AddDate(0, 0, -1)
	for _, w := range cal.Weeks {
		for _, d := range w.Days {
			assert.Equal(t, prev.AddDate(0, 0, 1), d.Date)
			prev = d.Date
		}
	}
}

func TestBuild_CountsAndLevels(t *testing.T) {
	var events []time.Time
	add := func(day time.Time, n int) {
		for i := 0; i < n; i++ {
			events = append(events, day.Add(time.Duration(i)*time.Minute))
		}
	}
	add(at(2025, 5, 1, 9), 1)
	add(at(2025, 5, 2, 9), 3)
	add(at(2025, 5, 3, 9), 4)
	add(at(2025, 5, 4, 9), 6)
	add(at(2025, 5, 5, 9), 7)
	add(at(2025, 5, 6, 9), 12)

	cal := Build(events, now)

	testCases := []struct {
		date  time.Time
		count int
		level int
	}{
		{at(2025, 5, 1, 0), 1, 1},
		{at(2025, 5, 2, 0), 3, 1},
		{at(2025, 5, 3, 0), 4, 2},
		{at(2025, 5, 4, 0), 6, 2},
		{at(2025, 5, 5, 0), 7, 3},
		{at(2025, 5, 6, 0), 12, 3},
		{at(2025, 5, 7, 0), 0, 0},
	}
	for _, tc := range testCases {
		d := findDay(t, cal, tc.date)
		assert.Equal(t, tc.count, d.Count, tc.date.Format(dateKey))
		assert.Equal(t, tc.level, d.Level, tc.date.Format(dateKey))
	}
	assert.Equal(t, 33, cal.Total)
	assert.Equal(t, 6, cal.LongestStreak)
	assert.Equal(t, 0, cal.CurrentStreak)
}

func TestBuild_IgnoresEventsOutsideTheGrid(t *testing.T) {
	events := []time.Time{
		at(2023, 1, 1, 12),
		at(2025, 6, 6, 12),
		{},
	}

	cal := Build(events, now)

	assert.Equal(t, 0, cal.Total)
	assert.Equal(t, 0, findDay(t, cal, at(2025, 6, 6, 0)).Count, "future cells stay zero")
}

func TestBuild_CurrentStreak(t *testing.T) {
	t.Run("streak ending today", func(t *testing.T) {
		events := []time.Time{at(2025, 6, 2, 8), at(2025, 6, 3, 8), at(2025, 6, 4, 8)}
		assert.Equal(t, 3, Build(events, now).CurrentStreak)
	})

	t.Run("streak ending yesterday still counts", func(t *testing.T) {
		events := []time.Time{at(2025, 6, 2, 8), at(2025, 6, 3, 8)}
		assert.Equal(t, 2, Build(events, now).CurrentStreak)
	})
}

func TestBuild_UsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	localNow := time.Date(2025, 6, 4, 12, 0, 0, 0, loc)
	// 20:00 UTC on June 2 is June 3 in UTC+10.
	events := []time.Time{time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)}

	cal := Build(events, localNow)

	assert.Equal(t, 1, findDay(t, cal, time.Date(2025, 6, 3, 0, 0, 0, 0, loc)).Count)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 0, Level(-1))
	assert.Equal(t, 0, Level(0))
	assert.Equal(t, 1, Level(1))
	assert.Equal(t, 1, Level(3))
	assert.Equal(t, 2, Level(4))
	assert.Equal(t, 2, Level(6))
	assert.Equal(t, 3, Level(7))
}
