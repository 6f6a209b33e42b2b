// Package dates parses feed publication dates in the many RFC-822-like shapes
// feeds actually emit.
package dates

import (
	"strings"
	"time"
)

// Parser tries to read a publication date. The location is used for
// timestamps that carry no usable zone.
type Parser func(raw string, loc *time.Location) (time.Time, bool)

var zoneOffsets = map[string]int{
	"GMT":  0,
	"UTC":  0,
	"EST":  -5 * 3600,
	"EDT":  -4 * 3600,
	"CST":  -6 * 3600,
	"CDT":  -5 * 3600,
	"MST":  -7 * 3600,
	"MDT":  -6 * 3600,
	"PST":  -8 * 3600,
	"PDT":  -7 * 3600,
	"CET":  1 * 3600,
	"CEST": 2 * 3600,
	"BST":  1 * 3600,
	"IST":  5*3600 + 1800,
	"JST":  9 * 3600,
	"AEST": 10 * 3600,
	"AEDT": 11 * 3600,
}

var zonedLayouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 2006 15:04:05 -07:00",
	"Mon, 2 Jan 2006 15:04:05 -07:00",
	time.RFC822Z,
	"02 Jan 2006 15:04:05 -0700",
	time.RFC3339,
	time.RFC3339Nano,
}

var namedZoneLayouts = []string{
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC822,
	"02 Jan 2006 15:04:05 MST",
}

var naiveLayouts = []string{
	"Mon, 02 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DefaultParsers is the order in which raw strings are tried.
var DefaultParsers = []Parser{
	parseZoned,
	parseNamedZone,
	parseNaive,
}

// Parse returns the first successful result of DefaultParsers, falling back
// to the structured timestamp the feed parser produced, if any.
func Parse(raw string, structured *time.Time, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, p := range DefaultParsers {
			if t, ok := p(raw, loc); ok {
				return t, true
			}
		}
	}
	if structured != nil && !structured.IsZero() {
		return *structured, true
	}
	return time.Time{}, false
}

// SameDay reports whether t falls on the same calendar date as now in loc.
func SameDay(t, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ty, tm, td := t.In(loc).Date()
	ny, nm, nd := now.In(loc).Date()
	return ty == ny && tm == nm && td == nd
}

func parseZoned(raw string, _ *time.Location) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// time.Parse only knows abbreviations of the local zone; anything else comes
// back with a zero offset, so the offset is resolved here.
func parseNamedZone(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range namedZoneLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		name, _ := t.Zone()
		// GMT+N already carries its offset.
		if len(name) > 3 && strings.HasPrefix(name, "GMT") {
			return t, true
		}
		offset, known := zoneOffsets[strings.ToUpper(name)]
		if !known {
			return rezone(t, loc), true
		}
		return rezone(t, time.FixedZone(name, offset)), true
	}
	return time.Time{}, false
}

func parseNaive(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func rezone(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
