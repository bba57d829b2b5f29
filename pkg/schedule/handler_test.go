package schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/memoboard/memoboard/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*mux.Router, *StubStore, *StubSource) {
	t.Helper()
	normalizer, err := NewNormalizer("UTC")
	require.NoError(t, err)

	store := NewStubStore()
	external := &StubSource{}
	aggregator := NewAggregator(store, external, normalizer.Location())
	handler := NewHandler(aggregator, store, nil, normalizer)

	r := mux.NewRouter()
	r.HandleFunc("/api/schedule/event", handler.GetEvents).Methods("GET")
	r.HandleFunc("/api/schedule/summary", handler.GetSummary).Methods("GET")
	r.HandleFunc("/api/schedule/event", handler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/schedule/event/{eventId}/time", handler.RescheduleEvent).Methods("PATCH")
	r.HandleFunc("/api/schedule/event/{eventId}", handler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/schedule/event/{eventId}", handler.DeleteEvent).Methods("DELETE")
	return r, store, external
}

func TestGetEvents(t *testing.T) {
	morning := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

	t.Run("returns merged events for the window", func(t *testing.T) {
		router, store, external := setupHandler(t)
		store.Add(CalendarEvent{Title: "Local", Start: morning.Add(time.Hour), End: morning.Add(2 * time.Hour), Source: SourceLocal, Category: CategoryStandard})
		external.Events = []CalendarEvent{
			{ID: ExternalID("g1"), Title: "External", Start: morning, End: morning.Add(time.Hour), Source: SourceExternal, Category: CategoryStandard},
		}

		req := httptest.NewRequest("GET", "/api/schedule/event?from=2025-01-01T00:00:00Z&to=2025-01-31T23:59:59Z", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var dtos []EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dtos))
		require.Len(t, dtos, 2)
		assert.Equal(t, "External", dtos[0].Title)
		assert.Equal(t, "Local", dtos[1].Title)
	})

	t.Run("rejects a malformed window", func(t *testing.T) {
		router, _, _ := setupHandler(t)

		req := httptest.NewRequest("GET", "/api/schedule/event?from=yesterday&to=2025-01-31T23:59:59Z", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body rest.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Contains(t, body.Error, "Invalid from")
	})

	t.Run("still answers when the external source fails", func(t *testing.T) {
		router, store, external := setupHandler(t)
		store.Add(CalendarEvent{Title: "Local", Start: morning, End: morning.Add(time.Hour), Source: SourceLocal, Category: CategoryStandard})
		external.Err = assert.AnError

		req := httptest.NewRequest("GET", "/api/schedule/event?from=2025-01-01T00:00:00Z&to=2025-01-31T23:59:59Z", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var dtos []EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dtos))
		assert.Len(t, dtos, 1)
	})
}

func TestGetSummary(t *testing.T) {
	router, store, _ := setupHandler(t)
	jan10 := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	store.Add(CalendarEvent{Title: "A", Start: jan10, End: jan10.Add(time.Hour), Source: SourceLocal, Category: CategoryLow})
	store.Add(CalendarEvent{Title: "B", Start: jan10.Add(time.Hour), End: jan10.Add(2 * time.Hour), Source: SourceLocal, Category: CategoryUrgent})
	jan12 := jan10.Add(48 * time.Hour)
	store.Add(CalendarEvent{Title: "C", Start: jan12, End: jan12.Add(time.Hour), Source: SourceLocal, Category: CategoryStandard})

	req := httptest.NewRequest("GET", "/api/schedule/summary?from=2025-01-09T00:00:00Z&to=2025-01-13T23:59:59Z", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var summaries []DaySummaryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summaries))
	require.Len(t, summaries, 2) // empty days are omitted

	assert.Equal(t, "2025-01-10", summaries[0].Date)
	assert.Equal(t, "urgent", summaries[0].Category)
	assert.Equal(t, 2, summaries[0].EventCount)

	assert.Equal(t, "2025-01-12", summaries[1].Date)
	assert.Equal(t, "standard", summaries[1].Category)
	assert.Equal(t, 1, summaries[1].EventCount)
}

func TestCreateEvent(t *testing.T) {
	t.Run("creates a timed event", func(t *testing.T) {
		router, _, _ := setupHandler(t)
		body := `{"title":"Planning","start":"2025-01-10T09:00:00","end":"2025-01-10T10:00:00","category":"meeting"}`

		req := httptest.NewRequest("POST", "/api/schedule/event", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var dto EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.NotEmpty(t, dto.ID)
		assert.Equal(t, "meeting", dto.Category)
		assert.Equal(t, "local", dto.Source)
	})

	t.Run("normalizes an all-day form to full-day boundaries", func(t *testing.T) {
		router, _, _ := setupHandler(t)
		body := `{"title":"Conference","start":"2025-01-10","end":"2025-01-12","allDay":true}`

		req := httptest.NewRequest("POST", "/api/schedule/event", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var dto EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.True(t, dto.AllDay)
		assert.Equal(t, 0, dto.Start.Hour())
		assert.Equal(t, 23, dto.End.Hour())
		assert.Equal(t, 12, dto.End.Day())
	})

	t.Run("rejects an unparseable date with a structured error", func(t *testing.T) {
		router, _, _ := setupHandler(t)
		body := `{"title":"Broken","start":"someday","end":"2025-01-10T10:00:00"}`

		req := httptest.NewRequest("POST", "/api/schedule/event", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errBody rest.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errBody))
		assert.Equal(t, "Invalid date format", errBody.Error)
	})
}

func TestRescheduleEvent(t *testing.T) {
	morning := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

	t.Run("applies a move", func(t *testing.T) {
		router, store, _ := setupHandler(t)
		seeded := store.Add(CalendarEvent{Title: "Sync", Start: morning, End: morning.Add(time.Hour), Source: SourceLocal, Category: CategoryStandard})

		body := `{"start":"2025-01-10T11:00:00Z","end":"2025-01-10T12:00:00Z"}`
		req := httptest.NewRequest("PATCH", "/api/schedule/event/"+seeded.ID+"/time", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var dto EventDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, 11, dto.Start.Hour())
	})

	t.Run("refuses to touch an external event", func(t *testing.T) {
		router, store, _ := setupHandler(t)
		seeded := store.Add(CalendarEvent{ID: ExternalID("g1"), Title: "Theirs", Start: morning, End: morning.Add(time.Hour), Source: SourceExternal})

		body := `{"start":"2025-01-10T11:00:00Z","end":"2025-01-10T12:00:00Z"}`
		req := httptest.NewRequest("PATCH", "/api/schedule/event/"+seeded.ID+"/time", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		var failure rest.MutationFailure
		require.NoError(t, json.NewDecoder(w.Body).Decode(&failure))
		assert.False(t, failure.Success)
	})

	t.Run("answers 502 with a rollback message when the store rejects the move", func(t *testing.T) {
		router, store, _ := setupHandler(t)
		seeded := store.Add(CalendarEvent{Title: "Sync", Start: morning, End: morning.Add(time.Hour), Source: SourceLocal, Category: CategoryStandard})
		store.UpdateErr = assert.AnError

		body := `{"start":"2025-01-10T11:00:00Z","end":"2025-01-10T12:00:00Z"}`
		req := httptest.NewRequest("PATCH", "/api/schedule/event/"+seeded.ID+"/time", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		var failure rest.MutationFailure
		require.NoError(t, json.NewDecoder(w.Body).Decode(&failure))
		assert.False(t, failure.Success)
		assert.NotEmpty(t, failure.Message)
	})

	t.Run("answers 404 for an unknown event", func(t *testing.T) {
		router, _, _ := setupHandler(t)

		body := `{"start":"2025-01-10T11:00:00Z","end":"2025-01-10T12:00:00Z"}`
		req := httptest.NewRequest("PATCH", "/api/schedule/event/missing/time", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateEvent(t *testing.T) {
	morning := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	router, store, _ := setupHandler(t)
	seeded := store.Add(CalendarEvent{Title: "Draft", Start: morning, End: morning.Add(time.Hour), Source: SourceLocal, Category: CategoryStandard})

	body := `{"title":"Final","start":"2025-01-10T09:00:00Z","end":"2025-01-10T10:30:00Z","category":"deadline"}`
	req := httptest.NewRequest("PUT", "/api/schedule/event/"+seeded.ID, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var dto EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, "Final", dto.Title)
	assert.Equal(t, "deadline", dto.Category)
}

func TestDeleteEvent(t *testing.T) {
	morning := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	router, store, _ := setupHandler(t)
	seeded := store.Add(CalendarEvent{Title: "Gone", Start: morning, End: morning.Add(time.Hour), Source: SourceLocal})

	req := httptest.NewRequest("DELETE", "/api/schedule/event/"+seeded.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	_, err := store.GetEvent(req.Context(), seeded.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
