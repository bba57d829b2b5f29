package schedule_store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RepositoryStub is an in-memory Repository used in tests.
type RepositoryStub struct {
	mu      sync.RWMutex
	items   map[string]StoredEvent
	userIds map[string]int
	nextId  int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items:   make(map[string]StoredEvent),
		userIds: make(map[string]int),
		nextId:  1,
	}
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, userId int, event StoredEvent) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := fmt.Sprintf("event-%d", r.nextId)
	r.nextId++
	event.ID = id
	r.items[id] = event
	r.userIds[id] = userId

	return id, nil
}

func (r *RepositoryStub) GetEvents(ctx context.Context, userId int, from, to time.Time) ([]StoredEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []StoredEvent
	for id, event := range r.items {
		if r.userIds[id] == userId && !event.StartTime.After(to) && !event.EndTime.Before(from) {
			result = append(result, event)
		}
	}

	// Sort by start time (simple bubble sort for small slices)
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[i].StartTime.After(result[j].StartTime) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}

	return result, nil
}

func (r *RepositoryStub) GetEvent(ctx context.Context, userId int, eventId string) (StoredEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.items[eventId]
	if !ok || r.userIds[eventId] != userId {
		return StoredEvent{}, ErrRecordNotFound
	}
	return event, nil
}

func (r *RepositoryStub) UpdateEventTime(ctx context.Context, userId int, eventId string, start, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.items[eventId]
	if !ok || r.userIds[eventId] != userId {
		return ErrRecordNotFound
	}
	event.StartTime = start
	event.EndTime = end
	r.items[eventId] = event
	return nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, userId int, event StoredEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[event.ID]
	if !ok || r.userIds[event.ID] != userId {
		return ErrRecordNotFound
	}
	r.items[event.ID] = event
	return nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, userId int, eventId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[eventId]
	if !ok || r.userIds[eventId] != userId {
		return ErrRecordNotFound
	}
	delete(r.items, eventId)
	delete(r.userIds, eventId)
	return nil
}

// Reset clears the stub between tests.
func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[string]StoredEvent)
	r.userIds = make(map[string]int)
	r.nextId = 1
}
