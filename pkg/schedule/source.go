package schedule

import (
	"context"
	"time"
)

// EventSource is the read capability shared by all adapters: fetch every event
// overlapping the given window. An optional unconfigured source returns an
// empty slice, not an error.
type EventSource interface {
	FetchWindow(ctx context.Context, from time.Time, to time.Time) ([]CalendarEvent, error)
}

// EventDraft carries user-entered fields for a create or full edit. The id is
// assigned by the store.
type EventDraft struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Category    Category
}

// EventWriter is the write capability of a source. Only the local store
// implements it; the external adapter expresses its read-only nature by simply
// not being an EventWriter.
type EventWriter interface {
	Create(ctx context.Context, draft EventDraft) (CalendarEvent, error)
	UpdateTime(ctx context.Context, id string, start, end time.Time) (CalendarEvent, error)
	Update(ctx context.Context, id string, draft EventDraft) (CalendarEvent, error)
}

// EventStore combines the write capability with single-event lookup, which the
// scheduler needs to capture pre-gesture snapshots, and deletion.
type EventStore interface {
	EventWriter
	GetEvent(ctx context.Context, id string) (CalendarEvent, error)
	Delete(ctx context.Context, id string) error
}
