package schedule_store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memoboard/memoboard/pkg/schedule"
	"github.com/memoboard/memoboard/pkg/user"
)

// Adapter maps persisted schedule records 1:1 onto canonical calendar events
// with Source = local. It is the only writable event source: the interactive
// scheduler's create/reschedule/update/delete round trips land here.
type Adapter struct {
	repo       Repository
	normalizer *schedule.Normalizer
}

func NewAdapter(repo Repository, normalizer *schedule.Normalizer) *Adapter {
	return &Adapter{repo: repo, normalizer: normalizer}
}

func (a *Adapter) FetchWindow(ctx context.Context, from, to time.Time) ([]schedule.CalendarEvent, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	records, err := a.repo.GetEvents(ctx, userId, from, to)
	if err != nil {
		return nil, err
	}

	events := make([]schedule.CalendarEvent, 0, len(records))
	for _, record := range records {
		events = append(events, a.toCalendarEvent(record))
	}
	return events, nil
}

func (a *Adapter) GetEvent(ctx context.Context, id string) (schedule.CalendarEvent, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return schedule.CalendarEvent{}, fmt.Errorf("failed to get current user: %w", err)
	}

	record, err := a.repo.GetEvent(ctx, userId, id)
	if errors.Is(err, ErrRecordNotFound) {
		return schedule.CalendarEvent{}, schedule.ErrEventNotFound
	} else if err != nil {
		return schedule.CalendarEvent{}, err
	}
	return a.toCalendarEvent(record), nil
}

func (a *Adapter) Create(ctx context.Context, draft schedule.EventDraft) (schedule.CalendarEvent, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return schedule.CalendarEvent{}, fmt.Errorf("failed to get current user: %w", err)
	}

	record := StoredEvent{
		Title:       draft.Title,
		Description: draft.Description,
		Category:    string(draft.Category),
		AllDay:      draft.AllDay,
		StartTime:   draft.Start,
		EndTime:     draft.End,
	}
	id, err := a.repo.StoreEvent(ctx, userId, record)
	if err != nil {
		return schedule.CalendarEvent{}, fmt.Errorf("failed to store event: %w", err)
	}
	record.ID = id
	return a.toCalendarEvent(record), nil
}

func (a *Adapter) UpdateTime(ctx context.Context, id string, start, end time.Time) (schedule.CalendarEvent, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return schedule.CalendarEvent{}, fmt.Errorf("failed to get current user: %w", err)
	}

	err = a.repo.UpdateEventTime(ctx, userId, id, start, end)
	if errors.Is(err, ErrRecordNotFound) {
		return schedule.CalendarEvent{}, schedule.ErrEventNotFound
	} else if err != nil {
		return schedule.CalendarEvent{}, fmt.Errorf("failed to update event time: %w", err)
	}
	return a.GetEvent(ctx, id)
}

func (a *Adapter) Update(ctx context.Context, id string, draft schedule.EventDraft) (schedule.CalendarEvent, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return schedule.CalendarEvent{}, fmt.Errorf("failed to get current user: %w", err)
	}

	record := StoredEvent{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Category:    string(draft.Category),
		AllDay:      draft.AllDay,
		StartTime:   draft.Start,
		EndTime:     draft.End,
	}
	err = a.repo.UpdateEvent(ctx, userId, record)
	if errors.Is(err, ErrRecordNotFound) {
		return schedule.CalendarEvent{}, schedule.ErrEventNotFound
	} else if err != nil {
		return schedule.CalendarEvent{}, fmt.Errorf("failed to update event: %w", err)
	}
	return a.toCalendarEvent(record), nil
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	err = a.repo.DeleteEvent(ctx, userId, id)
	if errors.Is(err, ErrRecordNotFound) {
		return schedule.ErrEventNotFound
	}
	return err
}

// toCalendarEvent normalizes a stored record into the canonical shape. Legacy
// rows with inverted spans are coerced rather than served raw, and all-day
// rows are re-aligned to civil-day boundaries in the display timezone.
func (a *Adapter) toCalendarEvent(record StoredEvent) schedule.CalendarEvent {
	loc := a.normalizer.Location()
	start := record.StartTime.In(loc)
	end := record.EndTime.In(loc)
	if end.Before(start) {
		end = start
	}
	if record.AllDay {
		start = schedule.CivilDateOf(start, loc).StartOfDay(loc)
		end = schedule.CivilDateOf(end, loc).EndOfDay(loc)
	}
	return schedule.CalendarEvent{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Start:       start,
		End:         end,
		AllDay:      record.AllDay,
		Category:    schedule.ParseCategory(record.Category),
		Source:      schedule.SourceLocal,
	}
}
