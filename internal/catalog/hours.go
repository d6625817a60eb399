package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HoursRange is a parsed daily schedule in 24-hour HH:MM form.
type HoursRange struct {
	StartTime string
	EndTime   string
}

// Catalog hours strings come in a handful of shapes: "9am-3pm",
// "8:30am-4pm", "9:00 AM - 3:00 PM", and em- or en-dash separators.
var hoursPattern = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)\s*[-–—]\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)

// ParseHours parses a camp's hours string. When the text holds several
// ranges (core day plus extended care) the longest span wins. It returns
// nil for anything it does not recognize ("TBD", "varies", empty);
// callers treat that as an all-day schedule.
func ParseHours(s string) *HoursRange {
	var best *HoursRange
	for _, m := range hoursPattern.FindAllStringSubmatch(s, -1) {
		start, ok := toClock(m[1], m[2], m[3])
		if !ok {
			continue
		}
		end, ok := toClock(m[4], m[5], m[6])
		if !ok {
			continue
		}
		r := &HoursRange{StartTime: start, EndTime: end}
		if best == nil || r.SpanHours() > best.SpanHours() {
			best = r
		}
	}
	return best
}

// toClock converts an hour, optional minutes, and meridiem to HH:MM.
// 12am maps to 00 and 12pm stays 12.
func toClock(hour, minute, meridiem string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 1 || h > 12 {
		return "", false
	}
	if strings.EqualFold(meridiem, "pm") && h != 12 {
		h += 12
	}
	if strings.EqualFold(meridiem, "am") && h == 12 {
		h = 0
	}
	if minute == "" {
		minute = "00"
	}
	return fmt.Sprintf("%02d:%s", h, minute), true
}

// SpanHours returns the duration of the range in fractional hours.
func (r HoursRange) SpanHours() float64 {
	return clockMinutes(r.EndTime)/60 - clockMinutes(r.StartTime)/60
}

func clockMinutes(hhmm string) float64 {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return float64(h*60 + m)
}

// HoursSpan reports the parsed daily span of a camp's hours string, or 0
// when the string is unparseable.
func HoursSpan(hours string) float64 {
	r := ParseHours(hours)
	if r == nil {
		return 0
	}
	return r.SpanHours()
}
