package schedule

import "time"

// Source identifies which adapter produced an event. Only local events can be
// rescheduled or edited through this subsystem.
type Source string

const (
	SourceLocal    Source = "local"
	SourceExternal Source = "external"
)

// ExternalIDPrefix is prepended to provider event ids so that external ids can
// never collide with local store ids in a merged result set.
const ExternalIDPrefix = "ext_"

func ExternalID(providerEventId string) string {
	return ExternalIDPrefix + providerEventId
}

// CalendarEvent is the canonical in-memory event shape. Instances are derived
// on every aggregation pass and discarded on the next one; nothing persists
// them in this form.
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Category    Category
	Source      Source
	IsHoliday   bool
}

// Mutable reports whether drag/resize/edit gestures may target this event.
// External events are read-only in this UI, and holidays are never mutable.
func (e CalendarEvent) Mutable() bool {
	return e.Source == SourceLocal && !e.IsHoliday
}

// OccursOn reports whether the event is visible on the given civil date, by
// inclusive civil-span overlap. Comparison happens on calendar days in the
// display timezone, never on raw instants, so an event ending at 23:59 local
// time is not bucketed into the next UTC day.
func (e CalendarEvent) OccursOn(date CivilDate, loc *time.Location) bool {
	civilStart := CivilDateOf(e.Start, loc)
	civilEnd := CivilDateOf(e.End, loc)
	return !date.Before(civilStart) && !date.After(civilEnd)
}
