package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"daygrid/internal/models"
	"daygrid/internal/schedule"
)

const eventColumns = `id, owner_id, kind, priority, title, description, location,
       start_at, end_at, duration_minutes, fixed, overlap_allowed,
       window_class, window_start, window_end, waitlisted, repeat_rule, source_uid,
       created_at, updated_at`

type EventRepository interface {
	Store(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id int64) (*models.Event, error)
	FindAll(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error

	// FindSchedulable returns the snapshot a resolution pass operates on:
	// timed events of critical/urgent/relevant priority.
	FindSchedulable(ctx context.Context, ownerID int64) ([]*models.Event, error)

	// ApplyPlacements writes one pass's decisions in a single transaction.
	ApplyPlacements(ctx context.Context, ownerID int64, decisions []schedule.Decision) error

	FindBySourceUID(ctx context.Context, ownerID int64, uid string) (*models.Event, error)

	// Reminder sweep helpers.
	ListDueReminders(ctx context.Context, limit int) ([]*models.Event, error)
	SetReminderFired(ctx context.Context, id int64) error
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Store(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (
			owner_id, kind, priority, title, description, location,
			start_at, end_at, duration_minutes, fixed, overlap_allowed,
			window_class, window_start, window_end, waitlisted, repeat_rule, source_uid,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		event.OwnerID, event.Kind, event.Priority, event.Title, event.Description, event.Location,
		event.Start, event.End, event.DurationMinutes, event.Fixed, event.OverlapAllowed,
		event.Window, event.WindowStart, event.WindowEnd, event.Waitlisted, event.Repeat, event.SourceUID,
		event.CreatedAt, event.UpdatedAt,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("event not found")
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	baseQuery := `SELECT ` + eventColumns + ` FROM events`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argID))
		args = append(args, *filter.OwnerID)
		argID++
	}
	if filter.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", argID))
		args = append(args, *filter.Kind)
		argID++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argID))
		args = append(args, *filter.Priority)
		argID++
	}
	if filter.Waitlisted != nil {
		conditions = append(conditions, fmt.Sprintf("waitlisted = $%d", argID))
		args = append(args, *filter.Waitlisted)
		argID++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("end_at > $%d", argID))
		args = append(args, *filter.From)
		argID++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_at < $%d", argID))
		args = append(args, *filter.To)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY start_at ASC NULLS LAST, created_at ASC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events SET
			kind=$1, priority=$2, title=$3, description=$4, location=$5,
			start_at=$6, end_at=$7, duration_minutes=$8, fixed=$9, overlap_allowed=$10,
			window_class=$11, window_start=$12, window_end=$13, waitlisted=$14, repeat_rule=$15,
			updated_at=NOW()
		WHERE id=$16`
	_, err := r.db.ExecContext(ctx, query,
		event.Kind, event.Priority, event.Title, event.Description, event.Location,
		event.Start, event.End, event.DurationMinutes, event.Fixed, event.OverlapAllowed,
		event.Window, event.WindowStart, event.WindowEnd, event.Waitlisted, event.Repeat,
		event.ID,
	)
	return err
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

func (r *eventRepository) FindSchedulable(ctx context.Context, ownerID int64) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE owner_id = $1 AND kind = 'event' AND priority IN ('critical','urgent','relevant')
		ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ApplyPlacements is all-or-nothing: a crash mid-pass must not leave a
// half-updated calendar.
func (r *eventRepository) ApplyPlacements(ctx context.Context, ownerID int64, decisions []schedule.Decision) error {
	if len(decisions) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `UPDATE events SET start_at=$1, end_at=$2, waitlisted=$3, updated_at=NOW()
		WHERE id=$4 AND owner_id=$5`
	for _, d := range decisions {
		if _, err := tx.ExecContext(ctx, q, d.Start, d.End, d.Waitlisted, d.EventID, ownerID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *eventRepository) FindBySourceUID(ctx context.Context, ownerID int64, uid string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE owner_id = $1 AND source_uid = $2 LIMIT 1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, ownerID, uid))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) ListDueReminders(ctx context.Context, limit int) ([]*models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events
		WHERE kind = 'reminder'
		  AND start_at IS NOT NULL
		  AND start_at <= NOW()
		  AND reminded_at IS NULL
		ORDER BY start_at ASC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) SetReminderFired(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET reminded_at = NOW(), updated_at=NOW() WHERE id=$1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var start, end, winStart, winEnd sql.NullTime
	var sourceUID sql.NullString
	err := row.Scan(
		&event.ID, &event.OwnerID, &event.Kind, &event.Priority,
		&event.Title, &event.Description, &event.Location,
		&start, &end, &event.DurationMinutes, &event.Fixed, &event.OverlapAllowed,
		&event.Window, &winStart, &winEnd, &event.Waitlisted, &event.Repeat, &sourceUID,
		&event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.Start = nullTimePtr(start)
	event.End = nullTimePtr(end)
	event.WindowStart = nullTimePtr(winStart)
	event.WindowEnd = nullTimePtr(winEnd)
	if sourceUID.Valid {
		event.SourceUID = sourceUID.String
	}
	return event, nil
}

func scanEvents(rows *sql.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
