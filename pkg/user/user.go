package user

// User is the portal viewer as seen by the calendar subsystem. Account
// management lives in the portal's user service; this package only reads.
type User struct {
	Id          int
	Uid         string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	GoogleCalendar GoogleCalendarSettings
}

// GoogleCalendarSettings selects which external calendars are merged into the
// viewer's timeline. Empty CalendarId means the integration is not configured.
type GoogleCalendarSettings struct {
	CalendarId        string
	HolidayCalendarId string
}
