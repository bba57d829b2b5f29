package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/memoboard/memoboard/internal/event_bus"
	"github.com/memoboard/memoboard/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Handler exposes the two render surfaces (full grid and mini-calendar
// summary) and the reschedule gestures over HTTP. Each request gets a fresh
// Scheduler; aggregated windows are never cached across requests.
type Handler struct {
	aggregator *Aggregator
	store      EventStore
	bus        *event_bus.EventBus
	normalizer *Normalizer
}

func NewHandler(aggregator *Aggregator, store EventStore, bus *event_bus.EventBus, normalizer *Normalizer) *Handler {
	return &Handler{aggregator: aggregator, store: store, bus: bus, normalizer: normalizer}
}

type EventDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	Category    string    `json:"category"`
	Source      string    `json:"source"`
	IsHoliday   bool      `json:"isHoliday"`
}

// EventFormDTO carries user-entered fields for create and full-edit requests.
// Start and End stay strings so that offset-less timestamps and bare civil
// dates go through the normalizer instead of strict RFC3339 decoding.
type EventFormDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AllDay      bool   `json:"allDay"`
	Category    string `json:"category"`
}

type RescheduleDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DaySummaryDTO struct {
	Date       string `json:"date"`
	Category   string `json:"category"`
	EventCount int    `json:"eventCount"`
}

// GetEvents serves the full calendar grid: every event in the requested
// window.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	events, err := h.aggregator.Aggregate(r.Context(), from, to)
	if err != nil {
		log.Errorf("failed to aggregate events: %v", err)
		http.Error(w, "failed to load events", http.StatusInternalServerError)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetSummary serves the mini-calendar surface: one representative category per
// civil day that has events. The two surfaces fail independently; a failure
// here does not affect the full grid.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	events, err := h.aggregator.Aggregate(r.Context(), from, to)
	if err != nil {
		log.Errorf("failed to aggregate events for summary: %v", err)
		http.Error(w, "failed to load events", http.StatusInternalServerError)
		return
	}

	loc := h.aggregator.Location()
	summaries := make([]DaySummaryDTO, 0)
	last := CivilDateOf(to, loc)
	for day := CivilDateOf(from, loc); !day.After(last); day = day.AddDays(1) {
		onDay := h.aggregator.EventsOnCivilDate(events, day)
		if len(onDay) == 0 {
			continue
		}
		summaries = append(summaries, DaySummaryDTO{
			Date:       day.String(),
			Category:   string(ResolveDayCategory(onDay)),
			EventCount: len(onDay),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// CreateEvent handles the click-to-create gesture's form submission.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft, err := h.formToDraft(dto)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	created, err := h.newScheduler().Create(r.Context(), draft)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// RescheduleEvent handles drag-to-move and drag-to-resize: a time-only update
// of one event.
func (h *Handler) RescheduleEvent(w http.ResponseWriter, r *http.Request) {
	eventId := mux.Vars(r)["eventId"]

	var dto RescheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, end, err := h.normalizer.NormalizeTimed(dto.Start, dto.End)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	confirmed, err := h.newScheduler().Reschedule(r.Context(), eventId, start, end)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventToDTO(confirmed)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateEvent handles the view/edit form's full update.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventId := mux.Vars(r)["eventId"]

	var dto EventFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft, err := h.formToDraft(dto)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	updated, err := h.newScheduler().Update(r.Context(), eventId, draft)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// DeleteEvent removes a local event.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventId := mux.Vars(r)["eventId"]

	if err := h.newScheduler().Delete(r.Context(), eventId); err != nil {
		h.writeMutationError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) newScheduler() *Scheduler {
	return NewScheduler(h.aggregator, h.store, h.bus)
}

func (h *Handler) parseWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")
	from, err := time.Parse(time.RFC3339, fromString)
	if err != nil {
		writeBadRequest(w, "Invalid from (date) format", "'from' must be in RFC3339 format")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.RFC3339, toString)
	if err != nil {
		writeBadRequest(w, "Invalid to (date) format", "'to' must be in RFC3339 format")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *Handler) formToDraft(dto EventFormDTO) (EventDraft, error) {
	var start, end time.Time
	var err error
	if dto.AllDay {
		start, end, err = h.normalizer.NormalizeAllDay(dto.Start, dto.End, false)
	} else {
		start, end, err = h.normalizer.NormalizeTimed(dto.Start, dto.End)
	}
	if err != nil {
		return EventDraft{}, err
	}
	return EventDraft{
		Title:       dto.Title,
		Description: dto.Description,
		Start:       start,
		End:         end,
		AllDay:      dto.AllDay,
		Category:    ParseCategory(dto.Category),
	}, nil
}

// writeMutationError maps the engine's error taxonomy onto HTTP responses.
// Mutation rejections carry the structured {success:false, message} body that
// clients use to trigger their rollback.
func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var parseErr *ParseError
	var validationErr *ValidationError
	var mutationErr *MutationError
	switch {
	case errors.As(err, &parseErr):
		writeBadRequest(w, "Invalid date format", parseErr.Error())
	case errors.As(err, &validationErr):
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, rest.MutationFailure{Success: false, Message: validationErr.Reason})
	case errors.Is(err, ErrReadOnlyEvent):
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, rest.MutationFailure{Success: false, Message: "event is read-only"})
	case errors.Is(err, ErrEventNotFound):
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, rest.MutationFailure{Success: false, Message: "event not found"})
	case errors.As(err, &mutationErr):
		log.Errorf("mutation rejected: %v", mutationErr)
		w.WriteHeader(http.StatusBadGateway)
		writeJSON(w, rest.MutationFailure{Success: false, Message: mutationErr.Error()})
	default:
		log.Errorf("unexpected scheduling error: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	writeJSON(w, rest.ErrorResponse{Error: message, Details: details})
}

func writeJSON(w http.ResponseWriter, body any) {
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response body: %v", err)
	}
}

func eventToDTO(e CalendarEvent) EventDTO {
	return EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.Start,
		End:         e.End,
		AllDay:      e.AllDay,
		Category:    string(e.Category),
		Source:      string(e.Source),
		IsHoliday:   e.IsHoliday,
	}
}
