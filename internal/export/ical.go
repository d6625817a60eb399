package export

import (
	"fmt"
	"strings"
	"time"
)

const icalProdID = "-//Camp Planner//Summer Planner//EN"

// ICal renders events as an iCalendar document. Lines are terminated
// with CRLF per RFC 5545; text values escape backslash, semicolon,
// comma, and newline.
func ICal(events []Event, now time.Time) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+icalProdID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")

	stamp := now.UTC().Format("20060102T150405Z")
	for _, e := range events {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+escapeText(e.UID))
		writeLine(&b, "DTSTAMP:"+stamp)
		if e.AllDay() {
			writeLine(&b, "DTSTART;VALUE=DATE:"+compactDate(e.StartDate))
			writeLine(&b, "DTEND;VALUE=DATE:"+compactDate(nextDay(e.EndDate)))
		} else {
			writeLine(&b, fmt.Sprintf("DTSTART:%sT%s00", compactDate(e.StartDate), compactTime(e.StartTime)))
			writeLine(&b, fmt.Sprintf("DTEND:%sT%s00", compactDate(e.EndDate), compactTime(e.EndTime)))
		}
		writeLine(&b, "SUMMARY:"+escapeText(e.Title))
		if e.Details != "" {
			writeLine(&b, "DESCRIPTION:"+escapeText(e.Details))
		}
		if e.Location != "" {
			writeLine(&b, "LOCATION:"+escapeText(e.Location))
		}
		if e.URL != "" {
			writeLine(&b, "URL:"+sanitizeURL(e.URL))
		}
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeText applies RFC 5545 TEXT escaping. Backslash goes first so
// the escapes themselves are not re-escaped.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\n`)
	return s
}

// sanitizeURL strips raw line breaks; URLs are not TEXT values and
// take no other escaping.
func sanitizeURL(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}
