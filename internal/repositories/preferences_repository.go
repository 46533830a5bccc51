package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"daygrid/internal/models"
)

type PreferencesRepository interface {
	// Get returns the stored working calendar, or the defaults when the
	// user has never saved one.
	Get(ctx context.Context, userID int64) (*models.SchedulingPreferences, error)
	Upsert(ctx context.Context, prefs *models.SchedulingPreferences) error
}

type preferencesRepository struct {
	db *sql.DB
}

func NewPreferencesRepository(db *sql.DB) PreferencesRepository {
	return &preferencesRepository{db: db}
}

func (r *preferencesRepository) Get(ctx context.Context, userID int64) (*models.SchedulingPreferences, error) {
	query := `SELECT user_id, day_start_minutes, day_end_minutes, weekdays,
		buffer_minutes, lead_time_minutes, updated_at
		FROM scheduling_preferences WHERE user_id = $1`

	prefs := &models.SchedulingPreferences{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.DayStartMinutes, &prefs.DayEndMinutes,
		pq.Array(&prefs.Weekdays), &prefs.BufferMinutes, &prefs.LeadTimeMinutes,
		&prefs.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DefaultPreferences(userID), nil
		}
		return nil, err
	}
	return prefs, nil
}

func (r *preferencesRepository) Upsert(ctx context.Context, prefs *models.SchedulingPreferences) error {
	query := `
		INSERT INTO scheduling_preferences (
			user_id, day_start_minutes, day_end_minutes, weekdays,
			buffer_minutes, lead_time_minutes, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			day_start_minutes=EXCLUDED.day_start_minutes,
			day_end_minutes=EXCLUDED.day_end_minutes,
			weekdays=EXCLUDED.weekdays,
			buffer_minutes=EXCLUDED.buffer_minutes,
			lead_time_minutes=EXCLUDED.lead_time_minutes,
			updated_at=NOW()`
	_, err := r.db.ExecContext(ctx, query,
		prefs.UserID, prefs.DayStartMinutes, prefs.DayEndMinutes,
		pq.Array(prefs.Weekdays), prefs.BufferMinutes, prefs.LeadTimeMinutes,
	)
	return err
}
