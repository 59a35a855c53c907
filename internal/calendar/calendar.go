// internal/calendar/calendar.go

// Package calendar builds an approximate contribution calendar from public
// events. GitHub does not expose the real contribution graph through the REST
// API and the events endpoint only returns the most recent ~100 events, so the
// grid undercounts older activity; present it as an approximation.
package calendar

import "time"

const (
	// Weeks is the number of week columns in the grid.
	Weeks       = 52
	daysPerWeek = 7
	dateKey     = "2006-01-02"
)

// Day is one cell of the grid.
type Day struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	Level int       `json:"level"`
}

// Week is a Sunday-to-Saturday column of the grid.
type Week struct {
	Days []Day `json:"days"`
}

// Calendar is a 52-week grid ending with the week that contains today.
type Calendar struct {
	Weeks         []Week `json:"weeks"`
	Total         int    `json:"total_contributions"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// Level quantizes a day's count: 0 -> 0, 1..3 -> 1, 4..6 -> 2, 7+ -> 3.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 1
	case count <= 6:
		return 2
	default:
		return 3
	}
}

// Build buckets events by calendar day in now's location. The week containing
// today is padded forward with the following dates so every week has 7 days.
func Build(events []time.Time, now time.Time) Calendar {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	thisWeek := today.AddDate(0, 0, -int(today.Weekday()))
	start := thisWeek.AddDate(0, 0, -daysPerWeek*(Weeks-1))

	counts := make(map[string]int, len(events))
	for _, e := range events {
		if e.IsZero() {
			continue
		}
		counts[e.In(loc).Format(dateKey)]++
	}

	cal := Calendar{Weeks: make([]Week, 0, Weeks)}
	streak := 0
	for w := 0; w < Weeks; w++ {
		week := Week{Days: make([]Day, 0, daysPerWeek)}
		for d := 0; d < daysPerWeek; d++ {
			date := start.AddDate(0, 0, w*daysPerWeek+d)
			count := 0
			if !date.After(today) {
				count = counts[date.Format(dateKey)]
				cal.Total += count
				if count > 0 {
					streak++
					if streak > cal.LongestStreak {
						cal.LongestStreak = streak
					}
				} else {
					streak = 0
				}
			}
			week.Days = append(week.Days, Day{Date: date, Count: count, Level: Level(count)})
		}
		cal.Weeks = append(cal.Weeks, week)
	}

	cal.CurrentStreak = currentStreak(counts, today, start)
	return cal
}

// currentStreak counts consecutive active days ending today, or yesterday when
// today has no activity yet.
func currentStreak(counts map[string]int, today, start time.Time) int {
	day := today
	if counts[day.Format(dateKey)] == 0 {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for !day.Before(start) && counts[day.Format(dateKey)] > 0 {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}
