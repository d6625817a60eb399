// Package export renders scheduled camps as Google Calendar links and
// iCalendar files.
package export

import (
	"fmt"
	"net/url"
	"strings"

	"camp-planner/internal/calendar"
	"camp-planner/internal/catalog"
	"camp-planner/internal/plan"
)

// Event is one exportable calendar entry, assembled from a placement
// and its camp.
type Event struct {
	UID       string
	Title     string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD, inclusive
	StartTime string // HH:MM, empty for all-day
	EndTime   string // HH:MM, empty for all-day
	Location  string
	Details   string
	URL       string
}

// BuildEvent assembles the export entry for a placement. The camp may
// be nil when the catalog no longer carries it; the placement's own
// fields still produce a usable event.
func BuildEvent(p plan.Placement, c *catalog.Camp, childName string) Event {
	name := p.CampID
	if c != nil && c.Name != "" {
		name = c.Name
	}
	ev := Event{
		UID:       fmt.Sprintf("%s@camp-planner", p.ID),
		Title:     name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}
	if childName != "" {
		ev.Title = fmt.Sprintf("%s (%s)", name, childName)
	}
	if c != nil {
		ev.Location = c.Address
		ev.Details = c.Description
		ev.URL = c.Website
		if hr := catalog.ParseHours(c.Hours); hr != nil {
			ev.StartTime = hr.StartTime
			ev.EndTime = hr.EndTime
		}
	}
	return ev
}

// AllDay reports whether the event has no daily hours.
func (e Event) AllDay() bool {
	return e.StartTime == "" || e.EndTime == ""
}

// GoogleCalendarURL builds a calendar.google.com event-creation link.
// All-day events use the exclusive date convention, so the end date is
// the day after the last camp day.
func GoogleCalendarURL(e Event) string {
	var dates string
	if e.AllDay() {
		dates = fmt.Sprintf("%s/%s", compactDate(e.StartDate), compactDate(nextDay(e.EndDate)))
	} else {
		dates = fmt.Sprintf("%sT%s00/%sT%s00",
			compactDate(e.StartDate), compactTime(e.StartTime),
			compactDate(e.EndDate), compactTime(e.EndTime))
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.Title)
	q.Set("dates", dates)
	if e.Details != "" {
		q.Set("details", e.Details)
	}
	if e.Location != "" {
		q.Set("location", e.Location)
	}
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

// compactDate turns YYYY-MM-DD into YYYYMMDD.
func compactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}

// compactTime turns HH:MM into HHMM.
func compactTime(t string) string {
	return strings.ReplaceAll(t, ":", "")
}

func nextDay(date string) string {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, 1).Format("2006-01-02")
}
