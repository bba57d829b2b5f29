package schedule_store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrRecordNotFound = errors.New("schedule record not found")

// StoredEvent is the persisted shape of a locally owned schedule record.
type StoredEvent struct {
	ID          string
	Title       string
	Description string
	Category    string
	AllDay      bool
	StartTime   time.Time
	EndTime     time.Time
}

type Repository interface {
	StoreEvent(ctx context.Context, userId int, event StoredEvent) (string, error)
	GetEvents(ctx context.Context, userId int, from, to time.Time) ([]StoredEvent, error)
	GetEvent(ctx context.Context, userId int, eventId string) (StoredEvent, error)
	UpdateEventTime(ctx context.Context, userId int, eventId string, start, end time.Time) error
	UpdateEvent(ctx context.Context, userId int, event StoredEvent) error
	DeleteEvent(ctx context.Context, userId int, eventId string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, userId int, event StoredEvent) (string, error) {
	query := `INSERT INTO schedule_event (
                            id,
                            user_id,
                            title,
                            description,
                            category,
                            all_day,
                            start_time,
                            end_time
						) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query, id, userId, event.Title, event.Description, event.Category,
		event.AllDay, event.StartTime.UnixMilli(), event.EndTime.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store schedule event: %w", err)
		log.Error(err)
		return "", err
	}

	return id, nil
}

func (r *RepositoryImpl) GetEvents(ctx context.Context, userId int, from, to time.Time) ([]StoredEvent, error) {
	// Return all events that overlap with the given period:
	// events that start before the end of the period AND end after its start.
	query := `SELECT id, title, description, category, all_day, start_time, end_time
              FROM schedule_event
              WHERE user_id = $1
                AND start_time <= $2
                AND end_time >= $3
			  ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, userId, to.UnixMilli(), from.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not query schedule events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]StoredEvent, 0, 10)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, userId int, eventId string) (StoredEvent, error) {
	query := `SELECT id, title, description, category, all_day, start_time, end_time
              FROM schedule_event
              WHERE user_id = $1 AND id = $2`

	rows, err := r.db.QueryContext(ctx, query, userId, eventId)
	if err != nil {
		err := fmt.Errorf("could not query schedule event: %w", err)
		log.Error(err)
		return StoredEvent{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		return StoredEvent{}, ErrRecordNotFound
	}
	return scanEvent(rows)
}

func (r *RepositoryImpl) UpdateEventTime(ctx context.Context, userId int, eventId string, start, end time.Time) error {
	query := `UPDATE schedule_event SET start_time = $1, end_time = $2 WHERE id = $3 AND user_id = $4`
	result, err := r.db.ExecContext(ctx, query, start.UnixMilli(), end.UnixMilli(), eventId, userId)
	if err != nil {
		err := fmt.Errorf("could not update schedule event time: %w", err)
		log.Error(err)
		return err
	}
	return requireRowAffected(result)
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, userId int, event StoredEvent) error {
	query := `UPDATE schedule_event
              SET title = $1, description = $2, category = $3, all_day = $4, start_time = $5, end_time = $6
              WHERE id = $7 AND user_id = $8`
	result, err := r.db.ExecContext(ctx, query, event.Title, event.Description, event.Category, event.AllDay,
		event.StartTime.UnixMilli(), event.EndTime.UnixMilli(), event.ID, userId)
	if err != nil {
		err := fmt.Errorf("could not update schedule event: %w", err)
		log.Error(err)
		return err
	}
	return requireRowAffected(result)
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, userId int, eventId string) error {
	query := `DELETE FROM schedule_event WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, eventId, userId)
	if err != nil {
		err := fmt.Errorf("could not delete schedule event: %w", err)
		log.Error(err)
		return err
	}
	return requireRowAffected(result)
}

func scanEvent(rows *sql.Rows) (StoredEvent, error) {
	var event StoredEvent
	var startMillis, endMillis int64
	err := rows.Scan(&event.ID, &event.Title, &event.Description, &event.Category, &event.AllDay, &startMillis, &endMillis)
	if err != nil {
		err := fmt.Errorf("could not scan schedule event row: %w", err)
		log.Error(err)
		return StoredEvent{}, err
	}
	event.StartTime = time.UnixMilli(startMillis)
	event.EndTime = time.UnixMilli(endMillis)
	return event, nil
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
