package schedule

import (
	"context"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

// Aggregator merges the mandatory local source with the optional external
// source into one ordered result set per requested window. Results are derived
// fresh on every call; nothing is cached between windows.
type Aggregator struct {
	local    EventSource
	external EventSource
	loc      *time.Location
}

// NewAggregator builds an aggregator. external may be nil when no integration
// exists at all.
func NewAggregator(local EventSource, external EventSource, loc *time.Location) *Aggregator {
	return &Aggregator{local: local, external: external, loc: loc}
}

func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// Aggregate fetches both sources for the window and returns the merged set,
// deduplicated by id and sorted by start time with category precedence as the
// tiebreak. A failing local source is a hard failure; a failing external
// source degrades to local-only data.
func (a *Aggregator) Aggregate(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	localEvents, err := a.local.FetchWindow(ctx, from, to)
	if err != nil {
		return nil, &FetchError{Source: SourceLocal, Err: err}
	}

	var externalEvents []CalendarEvent
	if a.external != nil {
		externalEvents, err = a.external.FetchWindow(ctx, from, to)
		if err != nil {
			log.Warnf("external calendar unavailable, continuing with local events only: %v", err)
			externalEvents = nil
		}
	}

	merged := make([]CalendarEvent, 0, len(localEvents)+len(externalEvents))
	seen := make(map[string]bool, len(localEvents)+len(externalEvents))
	for _, e := range append(localEvents, externalEvents...) {
		// Ids are source-prefixed, so duplicates can only come from one
		// adapter returning the same record twice.
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		merged = append(merged, e)
	}

	SortEvents(merged)
	return merged, nil
}

// EventsOnCivilDate returns the subsequence of events visible on the given
// calendar day, preserving order.
func (a *Aggregator) EventsOnCivilDate(events []CalendarEvent, date CivilDate) []CalendarEvent {
	result := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.OccursOn(date, a.loc) {
			result = append(result, e)
		}
	}
	return result
}

// SortEvents orders events by start time, breaking ties by category
// precedence.
func SortEvents(events []CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Category.Rank() < events[j].Category.Rank()
	})
}
