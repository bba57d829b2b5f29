package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StubSource is a scripted EventSource for tests.
type StubSource struct {
	mu         sync.Mutex
	Events     []CalendarEvent
	Err        error
	FetchCalls int
}

func (s *StubSource) FetchWindow(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FetchCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]CalendarEvent, 0, len(s.Events))
	for _, e := range s.Events {
		if e.Start.Before(to) && e.End.After(from) {
			result = append(result, e)
		}
	}
	return result, nil
}

// StubStore is an in-memory EventStore for scheduler tests. Errors can be
// injected per operation to exercise the rollback paths.
type StubStore struct {
	mu          sync.Mutex
	events      map[string]CalendarEvent
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
	UpdateCalls int
}

func NewStubStore() *StubStore {
	return &StubStore{events: make(map[string]CalendarEvent)}
}

// Add seeds the store and returns the stored event.
func (s *StubStore) Add(e CalendarEvent) CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.events[e.ID] = e
	return e
}

func (s *StubStore) FetchWindow(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]CalendarEvent, 0, len(s.events))
	for _, e := range s.events {
		if e.Start.Before(to) && e.End.After(from) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *StubStore) GetEvent(ctx context.Context, id string) (CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return CalendarEvent{}, ErrEventNotFound
	}
	return e, nil
}

func (s *StubStore) Create(ctx context.Context, draft EventDraft) (CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return CalendarEvent{}, s.CreateErr
	}
	e := CalendarEvent{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Start:       draft.Start,
		End:         draft.End,
		AllDay:      draft.AllDay,
		Category:    draft.Category,
		Source:      SourceLocal,
	}
	s.events[e.ID] = e
	return e, nil
}

func (s *StubStore) UpdateTime(ctx context.Context, id string, start, end time.Time) (CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++
	if s.UpdateErr != nil {
		return CalendarEvent{}, s.UpdateErr
	}
	e, ok := s.events[id]
	if !ok {
		return CalendarEvent{}, fmt.Errorf("no event with id %s", id)
	}
	e.Start = start
	e.End = end
	s.events[id] = e
	return e, nil
}

func (s *StubStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("no event with id %s", id)
	}
	delete(s.events, id)
	return nil
}

func (s *StubStore) Update(ctx context.Context, id string, draft EventDraft) (CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++
	if s.UpdateErr != nil {
		return CalendarEvent{}, s.UpdateErr
	}
	e, ok := s.events[id]
	if !ok {
		return CalendarEvent{}, fmt.Errorf("no event with id %s", id)
	}
	e.Title = draft.Title
	e.Description = draft.Description
	e.Start = draft.Start
	e.End = draft.End
	e.AllDay = draft.AllDay
	e.Category = draft.Category
	s.events[id] = e
	return e, nil
}
