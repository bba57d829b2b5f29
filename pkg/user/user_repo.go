package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT id, uid, display_name, google_calendar_id, google_holiday_calendar_id
              FROM app_user WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *RepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, display_name, google_calendar_id, google_holiday_calendar_id
              FROM app_user WHERE uid = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, uid))
}

func (r *RepoImpl) scanUser(row *sql.Row) (User, error) {
	var u User
	var calendarId, holidayCalendarId sql.NullString
	err := row.Scan(&u.Id, &u.Uid, &u.DisplayName, &calendarId, &holidayCalendarId)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	} else if err != nil {
		err := fmt.Errorf("could not scan user row: %w", err)
		log.Error(err)
		return User{}, err
	}
	u.Settings.GoogleCalendar.CalendarId = calendarId.String
	u.Settings.GoogleCalendar.HolidayCalendarId = holidayCalendarId.String
	return u, nil
}
