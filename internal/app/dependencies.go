package app

import (
	"database/sql"
	"fmt"

	"github.com/memoboard/memoboard/internal/config"
	"github.com/memoboard/memoboard/internal/event_bus"
	"github.com/memoboard/memoboard/pkg/google"
	"github.com/memoboard/memoboard/pkg/schedule"
	"github.com/memoboard/memoboard/pkg/schedule_store"
	"github.com/memoboard/memoboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	UserService user.Service

	GoogleAuth    *google.GoogleAuth
	GoogleService google.Service
	GoogleHandler *google.Handler
	GoogleSource  *google.Source

	Normalizer *schedule.Normalizer

	ScheduleRepo    schedule_store.Repository
	ScheduleAdapter *schedule_store.Adapter

	Aggregator      *schedule.Aggregator
	ScheduleHandler *schedule.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	normalizer, err := schedule.NewNormalizer(cfg.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to build time normalizer: %w", err)
	}
	deps.Normalizer = normalizer

	deps.Bus = event_bus.NewEventBus()
	subscribeActivityLog(deps.Bus)

	deps.UserService = user.NewUserService(user.NewUserRepo(db))

	deps.GoogleAuth = google.NewGoogleAuth(db, deps.UserService, cfg)
	deps.GoogleService = google.NewService(deps.GoogleAuth)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)
	deps.GoogleSource = google.NewSource(deps.GoogleService, normalizer)

	deps.ScheduleRepo = schedule_store.NewRepository(db)
	deps.ScheduleAdapter = schedule_store.NewAdapter(deps.ScheduleRepo, normalizer)

	deps.Aggregator = schedule.NewAggregator(deps.ScheduleAdapter, deps.GoogleSource, normalizer.Location())
	deps.ScheduleHandler = schedule.NewHandler(deps.Aggregator, deps.ScheduleAdapter, deps.Bus, normalizer)

	return deps, nil
}

// subscribeActivityLog forwards schedule mutations to the portal's activity
// log. The log store itself lives outside this subsystem; here we only emit.
func subscribeActivityLog(bus *event_bus.EventBus) {
	logMutation := func(action string) func(event_bus.Event) error {
		return func(e event_bus.Event) error {
			event, ok := e.Data.(schedule.CalendarEvent)
			if !ok {
				return fmt.Errorf("unexpected payload type on %s", e.Type)
			}
			userId, _ := user.CurrentId(e.Context())
			log.Infof("user %d %s event %q (%s - %s)", userId, action, event.Title, event.Start, event.End)
			return nil
		}
	}

	bus.Subscribe(event_bus.ScheduleEventCreated, logMutation("created"))
	bus.Subscribe(event_bus.ScheduleEventRescheduled, logMutation("rescheduled"))
	bus.Subscribe(event_bus.ScheduleEventUpdated, logMutation("updated"))
	bus.Subscribe(event_bus.ScheduleEventDeleted, logMutation("deleted"))
}
