package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/memoboard/memoboard/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// PendingEventID marks an optimistically inserted event that has not been
// confirmed by the store yet. It is replaced by the server-assigned id on the
// next refetch or removed on failure.
const PendingEventID = "pending"

// Scheduler drives the full-size calendar's interactive gestures: it mutates
// its rendered set optimistically, confirms every mutation with the local
// store in a single round trip, and rolls back to the exact pre-gesture
// snapshot when the store rejects it. The rendered set is replaced wholesale
// on every Refresh rather than patched incrementally.
//
// Mutations deliberately take no per-event lock across the store round trip:
// two rapid gestures on the same event are both sent, and responses apply in
// arrival order. The refetch after any settled mutation re-synchronizes the
// view to store truth.
type Scheduler struct {
	aggregator *Aggregator
	store      EventStore
	bus        *event_bus.EventBus

	mu        sync.Mutex
	view      map[string]CalendarEvent
	from, to  time.Time
	hasWindow bool
}

func NewScheduler(aggregator *Aggregator, store EventStore, bus *event_bus.EventBus) *Scheduler {
	return &Scheduler{
		aggregator: aggregator,
		store:      store,
		bus:        bus,
		view:       make(map[string]CalendarEvent),
	}
}

// Refresh replaces the rendered set with a fresh aggregation pass over the
// given window.
func (s *Scheduler) Refresh(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	events, err := s.aggregator.Aggregate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.view = make(map[string]CalendarEvent, len(events))
	for _, e := range events {
		s.view[e.ID] = e
	}
	s.from, s.to = from, to
	s.hasWindow = true
	s.mu.Unlock()

	return events, nil
}

// Events returns the currently rendered set in display order.
func (s *Scheduler) Events() []CalendarEvent {
	s.mu.Lock()
	events := make([]CalendarEvent, 0, len(s.view))
	for _, e := range s.view {
		events = append(events, e)
	}
	s.mu.Unlock()

	SortEvents(events)
	return events
}

// Create inserts the draft optimistically under PendingEventID, sends the
// create request, and either refetches the window (replacing the pending event
// with the server-confirmed record) or removes the pending event again. No
// partial state survives a failure.
func (s *Scheduler) Create(ctx context.Context, draft EventDraft) (CalendarEvent, error) {
	if err := validateDraft(draft); err != nil {
		return CalendarEvent{}, err
	}

	pending := CalendarEvent{
		ID:          PendingEventID,
		Title:       draft.Title,
		Description: draft.Description,
		Start:       draft.Start,
		End:         draft.End,
		AllDay:      draft.AllDay,
		Category:    draft.Category,
		Source:      SourceLocal,
	}

	s.mu.Lock()
	s.view[PendingEventID] = pending
	s.mu.Unlock()

	created, err := s.store.Create(ctx, draft)

	s.mu.Lock()
	delete(s.view, PendingEventID)
	s.mu.Unlock()

	if err != nil {
		return CalendarEvent{}, &MutationError{Op: "create event", Err: err}
	}

	if err := s.refetchWindow(ctx); err != nil {
		// The create itself succeeded; the stale view is corrected by the
		// next refresh.
		log.Warnf("window refetch after create failed: %v", err)
		s.mu.Lock()
		s.view[created.ID] = created
		s.mu.Unlock()
	}

	s.publish(ctx, event_bus.ScheduleEventCreated, created)
	return created, nil
}

// Move shifts an event to a new start, preserving its duration. The view is
// updated optimistically before the store round trip and restored to the
// captured snapshot if the store rejects the change.
func (s *Scheduler) Move(ctx context.Context, id string, newStart time.Time) (CalendarEvent, error) {
	snapshot, err := s.loadEvent(ctx, id)
	if err != nil {
		return CalendarEvent{}, err
	}
	delta := newStart.Sub(snapshot.Start)
	return s.reschedule(ctx, snapshot, newStart, snapshot.End.Add(delta))
}

// Resize changes exactly one edge of an event's span. A resize that would
// invert the span is rejected locally before any store call.
func (s *Scheduler) Resize(ctx context.Context, id string, newStart, newEnd *time.Time) (CalendarEvent, error) {
	if (newStart == nil) == (newEnd == nil) {
		return CalendarEvent{}, &ValidationError{Reason: "resize changes exactly one of start or end"}
	}

	snapshot, err := s.loadEvent(ctx, id)
	if err != nil {
		return CalendarEvent{}, err
	}

	start, end := snapshot.Start, snapshot.End
	if newStart != nil {
		start = *newStart
	}
	if newEnd != nil {
		end = *newEnd
	}
	return s.reschedule(ctx, snapshot, start, end)
}

// Reschedule applies a new time span to an event, covering both move and
// resize shapes of the PATCH endpoint.
func (s *Scheduler) Reschedule(ctx context.Context, id string, start, end time.Time) (CalendarEvent, error) {
	snapshot, err := s.loadEvent(ctx, id)
	if err != nil {
		return CalendarEvent{}, err
	}
	return s.reschedule(ctx, snapshot, start, end)
}

func (s *Scheduler) reschedule(ctx context.Context, snapshot CalendarEvent, start, end time.Time) (CalendarEvent, error) {
	if end.Before(start) {
		return CalendarEvent{}, &ValidationError{Reason: "event end must not be before its start"}
	}

	optimistic := snapshot
	optimistic.Start = start
	optimistic.End = end

	s.mu.Lock()
	s.view[snapshot.ID] = optimistic
	s.mu.Unlock()

	confirmed, err := s.store.UpdateTime(ctx, snapshot.ID, start, end)
	if err != nil {
		// Restore the captured snapshot, not a recomputed state, so repeated
		// failed gestures cannot accumulate drift.
		s.mu.Lock()
		s.view[snapshot.ID] = snapshot
		s.mu.Unlock()
		return CalendarEvent{}, &MutationError{Op: "reschedule event", Err: err}
	}

	s.mu.Lock()
	s.view[confirmed.ID] = confirmed
	s.mu.Unlock()

	s.publish(ctx, event_bus.ScheduleEventRescheduled, confirmed)
	return confirmed, nil
}

// Update submits a full edit of title/time/category/description. There is no
// optimistic visual change to roll back; on success the window is refetched so
// the view reflects the store's canonical state, on failure the caller keeps
// its form open with the error.
func (s *Scheduler) Update(ctx context.Context, id string, draft EventDraft) (CalendarEvent, error) {
	if err := validateDraft(draft); err != nil {
		return CalendarEvent{}, err
	}
	if _, err := s.loadEvent(ctx, id); err != nil {
		return CalendarEvent{}, err
	}

	updated, err := s.store.Update(ctx, id, draft)
	if err != nil {
		return CalendarEvent{}, &MutationError{Op: "update event", Err: err}
	}

	if err := s.refetchWindow(ctx); err != nil {
		log.Warnf("window refetch after update failed: %v", err)
		s.mu.Lock()
		s.view[updated.ID] = updated
		s.mu.Unlock()
	}

	s.publish(ctx, event_bus.ScheduleEventUpdated, updated)
	return updated, nil
}

// Delete removes an event with the same optimistic contract as the other
// gestures: the event disappears from the view immediately and reappears
// unchanged if the store rejects the deletion.
func (s *Scheduler) Delete(ctx context.Context, id string) error {
	snapshot, err := s.loadEvent(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.view, snapshot.ID)
	s.mu.Unlock()

	if err := s.store.Delete(ctx, snapshot.ID); err != nil {
		s.mu.Lock()
		s.view[snapshot.ID] = snapshot
		s.mu.Unlock()
		return &MutationError{Op: "delete event", Err: err}
	}

	s.publish(ctx, event_bus.ScheduleEventDeleted, snapshot)
	return nil
}

// loadEvent resolves the gesture target from the rendered set, falling back to
// a store lookup when the view has not been populated (stateless HTTP use).
// Read-only events are rejected here, before any mutation is attempted.
func (s *Scheduler) loadEvent(ctx context.Context, id string) (CalendarEvent, error) {
	s.mu.Lock()
	event, ok := s.view[id]
	s.mu.Unlock()

	if !ok {
		var err error
		event, err = s.store.GetEvent(ctx, id)
		if err != nil {
			return CalendarEvent{}, err
		}
	}
	if !event.Mutable() {
		return CalendarEvent{}, ErrReadOnlyEvent
	}
	return event, nil
}

func (s *Scheduler) refetchWindow(ctx context.Context) error {
	s.mu.Lock()
	hasWindow := s.hasWindow
	from, to := s.from, s.to
	s.mu.Unlock()

	if !hasWindow {
		return nil
	}
	_, err := s.Refresh(ctx, from, to)
	return err
}

func (s *Scheduler) publish(ctx context.Context, eventType event_bus.EventType, event CalendarEvent) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event_bus.NewEvent(ctx, eventType, event))
}

func validateDraft(draft EventDraft) error {
	if draft.Title == "" {
		return &ValidationError{Reason: "event title is required"}
	}
	if draft.End.Before(draft.Start) {
		return &ValidationError{Reason: fmt.Sprintf("event end %s is before start %s",
			draft.End.Format(time.RFC3339), draft.Start.Format(time.RFC3339))}
	}
	return nil
}
