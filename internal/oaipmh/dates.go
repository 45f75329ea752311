package oaipmh

import (
	"time"
)

// Granularity is the precision of an OAI-PMH timestamp argument.
type Granularity int

const (
	GranularityNone Granularity = iota
	GranularityDay
	GranularitySecond
)

// GranularityString is the second-level granularity this repository
// declares in Identify.
const GranularityString = "YYYY-MM-DDThh:mm:ssZ"

const (
	dayLayout    = "2006-01-02"
	secondLayout = "2006-01-02T15:04:05Z"
)

// ParseDate parses an OAI-PMH date argument in either day or second
// granularity, always in UTC.
func ParseDate(s string) (time.Time, Granularity, error) {
	if t, err := time.ParseInLocation(dayLayout, s, time.UTC); err == nil {
		return t, GranularityDay, nil
	}
	t, err := time.ParseInLocation(secondLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, GranularityNone, err
	}
	return t, GranularitySecond, nil
}

// FormatUTC renders a timestamp as a second-granularity OAI-PMH datestamp.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(secondLayout)
}

// UntilBound converts an inclusive until argument into the exclusive upper
// bound used for filtering: the first instant after the covered range.
func UntilBound(t time.Time, g Granularity) time.Time {
	if g == GranularityDay {
		return t.Add(24 * time.Hour)
	}
	return t.Add(time.Second)
}
