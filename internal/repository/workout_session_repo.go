package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type CreateSessionInput struct {
	UserID      int64
	PlanID      *int64
	SessionDate time.Time
}

type CreateSetLogInput struct {
	SessionID     int64
	PlanItemSetID int64
	Reps          string
	Weight        string
	Rest          string
	Completed     bool
}

type WorkoutSessionRepository struct {
	db DBTX
}

func NewWorkoutSessionRepository(db DBTX) *WorkoutSessionRepository {
	return &WorkoutSessionRepository{db: db}
}

func (r *WorkoutSessionRepository) Create(ctx context.Context, input CreateSessionInput) (*models.WorkoutSession, error) {
	query := `
		INSERT INTO workout_sessions (user_id, plan_id, session_date, completed)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, user_id, plan_id, session_date, completed, created_at, updated_at
	`
	return r.scanSession(r.db.QueryRow(ctx, query, input.UserID, input.PlanID, input.SessionDate))
}

// GetActiveByID deliberately filters to incomplete sessions: a completed
// session is not-found through this accessor.
func (r *WorkoutSessionRepository) GetActiveByID(ctx context.Context, sessionID int64) (*models.WorkoutSession, error) {
	query := `
		SELECT id, user_id, plan_id, session_date, completed, created_at, updated_at
		FROM workout_sessions
		WHERE id = $1 AND completed = FALSE
	`
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *WorkoutSessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.WorkoutSession, error) {
	query := `
		SELECT id, user_id, plan_id, session_date, completed, created_at, updated_at
		FROM workout_sessions
		WHERE id = $1
	`
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *WorkoutSessionRepository) ListByUserID(ctx context.Context, userID int64) ([]models.WorkoutSession, error) {
	query := `
		SELECT id, user_id, plan_id, session_date, completed, created_at, updated_at
		FROM workout_sessions
		WHERE user_id = $1
		ORDER BY session_date DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.WorkoutSession, 0)
	for rows.Next() {
		var session models.WorkoutSession
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.PlanID,
			&session.SessionDate,
			&session.Completed,
			&session.CreatedAt,
			&session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *WorkoutSessionRepository) Complete(ctx context.Context, sessionID int64) (*models.WorkoutSession, error) {
	query := `
		UPDATE workout_sessions
		SET completed = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, plan_id, session_date, completed, created_at, updated_at
	`
	return r.scanSession(r.db.QueryRow(ctx, query, sessionID))
}

// HasIncompleteOn reports whether the user already has a pending session for
// the given calendar day; the cron populator uses it to stay idempotent.
func (r *WorkoutSessionRepository) HasIncompleteOn(ctx context.Context, userID int64, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM workout_sessions
			WHERE user_id = $1
			  AND completed = FALSE
			  AND session_date = $2::date
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, day).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *WorkoutSessionRepository) CreateSetLog(ctx context.Context, input CreateSetLogInput) (*models.WorkoutSessionSetLog, error) {
	query := `
		INSERT INTO workout_session_set_logs (session_id, plan_item_set_id, reps, weight, rest, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, session_id, plan_item_set_id, reps, weight, rest, completed, created_at
	`
	var log models.WorkoutSessionSetLog
	err := r.db.QueryRow(
		ctx,
		query,
		input.SessionID,
		input.PlanItemSetID,
		input.Reps,
		input.Weight,
		input.Rest,
		input.Completed,
	).Scan(
		&log.ID,
		&log.SessionID,
		&log.PlanItemSetID,
		&log.Reps,
		&log.Weight,
		&log.Rest,
		&log.Completed,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *WorkoutSessionRepository) ListSetLogsBySessionID(ctx context.Context, sessionID int64) ([]models.WorkoutSessionSetLog, error) {
	query := `
		SELECT id, session_id, plan_item_set_id, reps, weight, rest, completed, created_at
		FROM workout_session_set_logs
		WHERE session_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.WorkoutSessionSetLog, 0)
	for rows.Next() {
		var log models.WorkoutSessionSetLog
		if err := rows.Scan(
			&log.ID,
			&log.SessionID,
			&log.PlanItemSetID,
			&log.Reps,
			&log.Weight,
			&log.Rest,
			&log.Completed,
			&log.CreatedAt,
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

func (r *WorkoutSessionRepository) scanSession(row pgx.Row) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.PlanID,
		&session.SessionDate,
		&session.Completed,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
