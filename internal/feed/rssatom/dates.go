package rssatom

import (
	"strings"
	"time"
)

// Named US timezone abbreviations still common in RSS pubDate values.
// time.Parse resolves an unknown abbreviation to a zero offset, so these
// are mapped to fixed zones explicitly.
var namedZones = map[string]int{
	"UT":  0,
	"GMT": 0,
	"EST": -5 * 3600,
	"EDT": -4 * 3600,
	"CST": -6 * 3600,
	"CDT": -5 * 3600,
	"MST": -7 * 3600,
	"MDT": -6 * 3600,
	"PST": -8 * 3600,
	"PDT": -7 * 3600,
}

var rfc822Layouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

var rfc822NakedLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04",
	"2 Jan 2006 15:04:05",
}

var iso8601Layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate accepts the date shapes seen across RSS and Atom feeds.
// Unparseable input yields ok=false; callers degrade the field to nil.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseRFC822(s); ok {
		return t, true
	}
	return parseISO8601(s)
}

func parseRFC822(s string) (time.Time, bool) {
	fields := strings.Fields(s)
	if len(fields) > 1 {
		if offset, ok := namedZones[strings.ToUpper(fields[len(fields)-1])]; ok {
			base := strings.Join(fields[:len(fields)-1], " ")
			loc := time.FixedZone(strings.ToUpper(fields[len(fields)-1]), offset)
			for _, layout := range rfc822NakedLayouts {
				if t, err := time.ParseInLocation(layout, base, loc); err == nil {
					return t, true
				}
			}
			return time.Time{}, false
		}
	}
	for _, layout := range rfc822Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseISO8601(s string) (time.Time, bool) {
	for _, layout := range iso8601Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
