package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type CreateClientProgramInput struct {
	TrainerID     int64
	ClientID      int64
	PlanID        int64
	Name          string
	DurationWeeks int
	ScheduleDays  []int
}

type ClientProgramRepository struct {
	db DBTX
}

func NewClientProgramRepository(db DBTX) *ClientProgramRepository {
	return &ClientProgramRepository{db: db}
}

func (r *ClientProgramRepository) Create(ctx context.Context, input CreateClientProgramInput) (*models.ClientProgram, error) {
	query := `
		INSERT INTO client_programs (trainer_id, client_id, plan_id, name, duration_weeks, schedule_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, trainer_id, client_id, plan_id, name, duration_weeks, schedule_days, created_at
	`
	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		input.TrainerID,
		input.ClientID,
		input.PlanID,
		input.Name,
		input.DurationWeeks,
		input.ScheduleDays,
	))
}

func (r *ClientProgramRepository) GetByID(ctx context.Context, programID int64) (*models.ClientProgram, error) {
	query := `
		SELECT id, trainer_id, client_id, plan_id, name, duration_weeks, schedule_days, created_at
		FROM client_programs
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, programID))
}

func (r *ClientProgramRepository) ListByClientID(ctx context.Context, clientID int64) ([]models.ClientProgram, error) {
	query := `
		SELECT id, trainer_id, client_id, plan_id, name, duration_weeks, schedule_days, created_at
		FROM client_programs
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, clientID)
}

func (r *ClientProgramRepository) ListByTrainerID(ctx context.Context, trainerID int64) ([]models.ClientProgram, error) {
	query := `
		SELECT id, trainer_id, client_id, plan_id, name, duration_weeks, schedule_days, created_at
		FROM client_programs
		WHERE trainer_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, trainerID)
}

// ListActive returns programs that are still inside their duration window;
// the cron populator walks these to create today's sessions.
func (r *ClientProgramRepository) ListActive(ctx context.Context) ([]models.ClientProgram, error) {
	query := `
		SELECT id, trainer_id, client_id, plan_id, name, duration_weeks, schedule_days, created_at
		FROM client_programs
		WHERE created_at + (duration_weeks * INTERVAL '1 week') > NOW()
		ORDER BY id ASC
	`
	return r.list(ctx, query)
}

func (r *ClientProgramRepository) ListActiveByClientID(ctx context.Context, clientID int64) ([]models.ClientProgram, error) {
	query := `
		SELECT id, trainer_id, client_id, plan_id, name, duration_weeks, schedule_days, created_at
		FROM client_programs
		WHERE client_id = $1
		  AND created_at + (duration_weeks * INTERVAL '1 week') > NOW()
		ORDER BY id ASC
	`
	return r.list(ctx, query, clientID)
}

func (r *ClientProgramRepository) list(ctx context.Context, query string, args ...any) ([]models.ClientProgram, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]models.ClientProgram, 0)
	for rows.Next() {
		var program models.ClientProgram
		if err := rows.Scan(
			&program.ID,
			&program.TrainerID,
			&program.ClientID,
			&program.PlanID,
			&program.Name,
			&program.DurationWeeks,
			&program.ScheduleDays,
			&program.CreatedAt,
		); err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *ClientProgramRepository) scanOne(row pgx.Row) (*models.ClientProgram, error) {
	var program models.ClientProgram
	err := row.Scan(
		&program.ID,
		&program.TrainerID,
		&program.ClientID,
		&program.PlanID,
		&program.Name,
		&program.DurationWeeks,
		&program.ScheduleDays,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}
