package event_bus

// Event types published by the schedule engine. The activity log collaborator
// subscribes to these; the engine itself never reads them back.
const (
	ScheduleEventCreated     EventType = "schedule.event.created"
	ScheduleEventRescheduled EventType = "schedule.event.rescheduled"
	ScheduleEventUpdated     EventType = "schedule.event.updated"
	ScheduleEventDeleted     EventType = "schedule.event.deleted"
)
