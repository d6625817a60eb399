// Package calendar derives the 11-week summer planning grid and maps
// dates to weeks. All reasoning is over date-only ISO strings
// (YYYY-MM-DD) interpreted as civil dates in the local zone.
package calendar

import (
	"fmt"
	"time"
)

// WeekCount is the fixed number of weeks in the planning horizon.
const WeekCount = 11

// Default school-year boundaries used when the profile has none.
const (
	DefaultSchoolEnd   = "2026-06-05"
	DefaultSchoolStart = "2026-08-19"
)

// Week is one Monday–Friday interval of the summer grid.
type Week struct {
	Num       int    `json:"week_num"` // 1..11
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Label     string `json:"label"`   // "Week 1"
	Display   string `json:"display"` // "Jun 8 – Jun 12"
}

// ParseDate parses a YYYY-MM-DD string as local midnight. Parsing in the
// local zone avoids the UTC drift that shifts a civil date by a day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a time as a date-only ISO string.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// SummerWeeks builds the 11-week grid for a given school-end date. An
// empty schoolEnd uses the default school year.
// Week 1 starts on the first Monday strictly after schoolEnd; subsequent
// weeks advance by 7 days. The school-start date does not bound the grid;
// it only feeds user-facing labels elsewhere.
func SummerWeeks(schoolEnd string) ([]Week, error) {
	if schoolEnd == "" {
		schoolEnd = DefaultSchoolEnd
	}
	end, err := ParseDate(schoolEnd)
	if err != nil {
		return nil, fmt.Errorf("school end: %w", err)
	}

	start := end.AddDate(0, 0, 1)
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, 1)
	}

	weeks := make([]Week, 0, WeekCount)
	for i := 0; i < WeekCount; i++ {
		monday := start.AddDate(0, 0, i*7)
		friday := monday.AddDate(0, 0, 4)
		weeks = append(weeks, Week{
			Num:       i + 1,
			StartDate: FormatDate(monday),
			EndDate:   FormatDate(friday),
			Label:     fmt.Sprintf("Week %d", i+1),
			Display:   fmt.Sprintf("%s – %s", monday.Format("Jan 2"), friday.Format("Jan 2")),
		})
	}
	return weeks, nil
}

// WeekOf returns the week whose [StartDate, EndDate] interval contains
// the given date, or nil when the date falls outside the grid.
func WeekOf(weeks []Week, date string) *Week {
	d, err := ParseDate(date)
	if err != nil {
		return nil
	}
	for i := range weeks {
		start, err := ParseDate(weeks[i].StartDate)
		if err != nil {
			continue
		}
		end, err := ParseDate(weeks[i].EndDate)
		if err != nil {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			return &weeks[i]
		}
	}
	return nil
}

// Covers reports whether a placement starting on startDate falls into the
// given week. The grid convention is that a placement covers the week its
// start date lands in, inclusive of both bounds.
func Covers(w Week, startDate string) bool {
	d, err := ParseDate(startDate)
	if err != nil {
		return false
	}
	start, err := ParseDate(w.StartDate)
	if err != nil {
		return false
	}
	end, err := ParseDate(w.EndDate)
	if err != nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}
