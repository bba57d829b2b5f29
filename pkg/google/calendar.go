package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memoboard/memoboard/pkg/schedule"
	"github.com/memoboard/memoboard/pkg/user"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
)

// Source adapts the viewer's Google Calendar into the canonical event model.
// It is read-only and entirely optional: a viewer without a configured or
// connected integration gets an empty window instead of an error, and the
// aggregation proceeds with local data alone.
type Source struct {
	service    Service
	normalizer *schedule.Normalizer
}

func NewSource(service Service, normalizer *schedule.Normalizer) *Source {
	return &Source{service: service, normalizer: normalizer}
}

func (s *Source) FetchWindow(ctx context.Context, from, to time.Time) ([]schedule.CalendarEvent, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	settings := currentUser.Settings.GoogleCalendar
	if settings.CalendarId == "" {
		log.Debug("no Google calendar configured, skipping external fetch")
		return nil, nil
	}

	client, err := s.service.EventsClient(ctx)
	if errors.Is(err, ErrNotConnected) {
		log.Debug("Google calendar not connected, skipping external fetch")
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	events, err := s.fetchCalendar(client, settings.CalendarId, from, to, false)
	if err != nil {
		return nil, err
	}

	if settings.HolidayCalendarId != "" {
		holidays, err := s.fetchCalendar(client, settings.HolidayCalendarId, from, to, true)
		if err != nil {
			// Holidays are decoration; their calendar failing must not take
			// the viewer's own external events with it.
			log.Warnf("unable to fetch holiday calendar: %v", err)
		} else {
			events = append(events, holidays...)
		}
	}

	return events, nil
}

func (s *Source) fetchCalendar(client *gcal.Service, calendarId string, from, to time.Time, holiday bool) ([]schedule.CalendarEvent, error) {
	googleEvents, err := client.Events.List(calendarId).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()

	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	events := make([]schedule.CalendarEvent, 0, len(googleEvents.Items))
	for _, item := range googleEvents.Items {
		event, err := mapItem(s.normalizer, item, holiday)
		if err != nil {
			// One malformed provider record never fails the window.
			log.Warnf("dropping malformed Google Calendar event %s: %v", item.Id, err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// mapItem converts one provider event into the canonical shape. Provider
// all-day events carry civil dates with an exclusive end; timed events carry
// RFC3339 datetimes.
func mapItem(normalizer *schedule.Normalizer, item *gcal.Event, holiday bool) (schedule.CalendarEvent, error) {
	if item.Start == nil || item.End == nil {
		return schedule.CalendarEvent{}, &schedule.ParseError{Raw: item.Id, Err: fmt.Errorf("event has no start or end")}
	}

	var start, end time.Time
	var err error
	allDay := item.Start.Date != ""
	if allDay {
		start, end, err = normalizer.NormalizeAllDay(item.Start.Date, item.End.Date, true)
	} else {
		start, end, err = normalizer.NormalizeTimed(item.Start.DateTime, item.End.DateTime)
	}
	if err != nil {
		return schedule.CalendarEvent{}, err
	}

	category := schedule.CategoryStandard
	if holiday {
		category = schedule.CategoryHoliday
	}

	return schedule.CalendarEvent{
		ID:        schedule.ExternalID(item.Id),
		Title:     item.Summary,
		Start:     start,
		End:       end,
		AllDay:    allDay,
		Category:  category,
		Source:    schedule.SourceExternal,
		IsHoliday: holiday,
	}, nil
}
