package schedule

import (
	"fmt"
	"strings"
	"time"
)

// offsetlessLayouts are accepted for timestamps that carry no UTC offset.
// Such timestamps are interpreted in the display timezone, never in the
// machine-local zone, so rendering is identical across devices.
var offsetlessLayouts = []string{
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// Normalizer converts heterogeneous source date representations into canonical
// instants and civil dates in a single configured display timezone.
type Normalizer struct {
	loc *time.Location
}

func NewNormalizer(timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("could not load location for timezone %s: %w", timezone, err)
	}
	return &Normalizer{loc: loc}, nil
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ParseTimestamp parses a single timed value. RFC3339 timestamps keep their
// explicit offset; offset-less timestamps are placed in the display timezone;
// a bare date means the start of that civil day.
func (n *Normalizer) ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &ParseError{Raw: raw, Err: fmt.Errorf("empty timestamp")}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range offsetlessLayouts {
		if t, err := time.ParseInLocation(layout, raw, n.loc); err == nil {
			return t, nil
		}
	}
	if d, err := ParseCivilDate(raw); err == nil {
		return d.StartOfDay(n.loc), nil
	}
	return time.Time{}, &ParseError{Raw: raw, Err: fmt.Errorf("unrecognized timestamp format")}
}

// NormalizeTimed parses a timed event's boundaries. An inverted input span is
// coerced by clamping end to start rather than rejected.
func (n *Normalizer) NormalizeTimed(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := n.ParseTimestamp(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := n.ParseTimestamp(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		end = start
	}
	return start, end, nil
}

// NormalizeAllDay builds the canonical full-day span for an all-day event:
// 00:00:00.000 of the first day through 23:59:59.999 of the last day, display
// timezone. When endExclusive is set (the external provider's convention) the
// end date is pulled back by one civil day first; an already-inclusive span
// passes through unchanged, so the conversion cannot be applied twice.
func (n *Normalizer) NormalizeAllDay(startRaw, endRaw string, endExclusive bool) (time.Time, time.Time, error) {
	startDate, err := ParseCivilDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, &ParseError{Raw: startRaw, Err: err}
	}
	endDate := startDate
	if endRaw != "" {
		endDate, err = ParseCivilDate(endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, &ParseError{Raw: endRaw, Err: err}
		}
	}
	if endExclusive && endDate.After(startDate) {
		endDate = endDate.AddDays(-1)
	}
	if endDate.Before(startDate) {
		endDate = startDate
	}
	return startDate.StartOfDay(n.loc), endDate.EndOfDay(n.loc), nil
}
