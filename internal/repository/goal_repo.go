package repository

import (
	"context"
	"time"

	"github.com/saeid-a/GymAppBack/internal/models"
)

type UpsertGoalLogInput struct {
	UserID     int64
	LogDate    time.Time
	Steps      int
	WaterMl    int
	SleepHours int
}

type GoalRepository struct {
	db DBTX
}

func NewGoalRepository(db DBTX) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) UpsertTargets(ctx context.Context, userID int64, steps, waterMl, sleepHours int) (*models.DailyGoals, error) {
	query := `
		INSERT INTO daily_goals (user_id, steps, water_ml, sleep_hours)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET steps = EXCLUDED.steps, water_ml = EXCLUDED.water_ml, sleep_hours = EXCLUDED.sleep_hours
		RETURNING id, user_id, steps, water_ml, sleep_hours
	`
	var goals models.DailyGoals
	err := r.db.QueryRow(ctx, query, userID, steps, waterMl, sleepHours).Scan(
		&goals.ID,
		&goals.UserID,
		&goals.Steps,
		&goals.WaterMl,
		&goals.SleepHours,
	)
	if err != nil {
		return nil, err
	}
	return &goals, nil
}

func (r *GoalRepository) GetTargetsByUserID(ctx context.Context, userID int64) (*models.DailyGoals, error) {
	query := `
		SELECT id, user_id, steps, water_ml, sleep_hours
		FROM daily_goals
		WHERE user_id = $1
	`
	var goals models.DailyGoals
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&goals.ID,
		&goals.UserID,
		&goals.Steps,
		&goals.WaterMl,
		&goals.SleepHours,
	)
	if err != nil {
		return nil, err
	}
	return &goals, nil
}

// UpsertLog keeps goal logs unique per (user, day): logging twice for the
// same day updates the existing row.
func (r *GoalRepository) UpsertLog(ctx context.Context, input UpsertGoalLogInput) (*models.DailyGoalLog, error) {
	query := `
		INSERT INTO daily_goal_logs (user_id, log_date, steps, water_ml, sleep_hours)
		VALUES ($1, $2::date, $3, $4, $5)
		ON CONFLICT (user_id, log_date)
		DO UPDATE SET steps = EXCLUDED.steps, water_ml = EXCLUDED.water_ml, sleep_hours = EXCLUDED.sleep_hours
		RETURNING id, user_id, log_date, steps, water_ml, sleep_hours
	`
	var log models.DailyGoalLog
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.LogDate,
		input.Steps,
		input.WaterMl,
		input.SleepHours,
	).Scan(
		&log.ID,
		&log.UserID,
		&log.LogDate,
		&log.Steps,
		&log.WaterMl,
		&log.SleepHours,
	)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *GoalRepository) ListLogs(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyGoalLog, error) {
	query := `
		SELECT id, user_id, log_date, steps, water_ml, sleep_hours
		FROM daily_goal_logs
		WHERE user_id = $1 AND log_date BETWEEN $2::date AND $3::date
		ORDER BY log_date ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.DailyGoalLog, 0)
	for rows.Next() {
		var log models.DailyGoalLog
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.LogDate,
			&log.Steps,
			&log.WaterMl,
			&log.SleepHours,
		); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
