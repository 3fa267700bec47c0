package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type TrainerClientRepository struct {
	db DBTX
}

func NewTrainerClientRepository(db DBTX) *TrainerClientRepository {
	return &TrainerClientRepository{db: db}
}

// Assign relies on the unique (trainer_id, client_id) constraint; a duplicate
// pair surfaces as a 23505 pg error for the service layer to map.
func (r *TrainerClientRepository) Assign(ctx context.Context, trainerID, clientID int64, notes *string) (*models.TrainerClient, error) {
	query := `
		INSERT INTO trainer_clients (trainer_id, client_id, notes)
		VALUES ($1, $2, $3)
		RETURNING trainer_id, client_id, notes, created_at
	`
	var assignment models.TrainerClient
	err := r.db.QueryRow(ctx, query, trainerID, clientID, notes).Scan(
		&assignment.TrainerID,
		&assignment.ClientID,
		&assignment.Notes,
		&assignment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *TrainerClientRepository) Get(ctx context.Context, trainerID, clientID int64) (*models.TrainerClient, error) {
	query := `
		SELECT trainer_id, client_id, notes, created_at
		FROM trainer_clients
		WHERE trainer_id = $1 AND client_id = $2
	`
	var assignment models.TrainerClient
	err := r.db.QueryRow(ctx, query, trainerID, clientID).Scan(
		&assignment.TrainerID,
		&assignment.ClientID,
		&assignment.Notes,
		&assignment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *TrainerClientRepository) ListByTrainerID(ctx context.Context, trainerID int64) ([]models.TrainerClient, error) {
	query := `
		SELECT trainer_id, client_id, notes, created_at
		FROM trainer_clients
		WHERE trainer_id = $1
		ORDER BY created_at ASC, client_id ASC
	`
	rows, err := r.db.Query(ctx, query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]models.TrainerClient, 0)
	for rows.Next() {
		var assignment models.TrainerClient
		if err := rows.Scan(
			&assignment.TrainerID,
			&assignment.ClientID,
			&assignment.Notes,
			&assignment.CreatedAt,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *TrainerClientRepository) UpdateNotes(ctx context.Context, trainerID, clientID int64, notes *string) (*models.TrainerClient, error) {
	query := `
		UPDATE trainer_clients
		SET notes = $3
		WHERE trainer_id = $1 AND client_id = $2
		RETURNING trainer_id, client_id, notes, created_at
	`
	var assignment models.TrainerClient
	err := r.db.QueryRow(ctx, query, trainerID, clientID, notes).Scan(
		&assignment.TrainerID,
		&assignment.ClientID,
		&assignment.Notes,
		&assignment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *TrainerClientRepository) Unassign(ctx context.Context, trainerID, clientID int64) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM trainer_clients WHERE trainer_id = $1 AND client_id = $2`,
		trainerID,
		clientID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
