package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type CreateTrainerTaskInput struct {
	TrainerID   int64
	ClientID    *int64
	Title       string
	Description *string
	Priority    string
	DueDate     *time.Time
}

type TrainerTaskListFilter struct {
	TrainerID int64
	Status    string
	Priority  string
}

type TrainerTaskRepository struct {
	db DBTX
}

func NewTrainerTaskRepository(db DBTX) *TrainerTaskRepository {
	return &TrainerTaskRepository{db: db}
}

func (r *TrainerTaskRepository) Create(ctx context.Context, input CreateTrainerTaskInput) (*models.TrainerTask, error) {
	query := `
		INSERT INTO trainer_tasks (trainer_id, client_id, title, description, priority, status, due_date)
		VALUES ($1, $2, $3, $4, $5, 'open', $6)
		RETURNING id, trainer_id, client_id, title, description, priority, status, due_date, created_at, updated_at
	`
	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		input.TrainerID,
		input.ClientID,
		input.Title,
		input.Description,
		input.Priority,
		input.DueDate,
	))
}

func (r *TrainerTaskRepository) GetByID(ctx context.Context, taskID int64) (*models.TrainerTask, error) {
	query := `
		SELECT id, trainer_id, client_id, title, description, priority, status, due_date, created_at, updated_at
		FROM trainer_tasks
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, taskID))
}

func (r *TrainerTaskRepository) List(ctx context.Context, filter TrainerTaskListFilter) ([]models.TrainerTask, error) {
	args := []any{filter.TrainerID}
	whereParts := []string{"trainer_id = $1"}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}
	if priority := strings.TrimSpace(filter.Priority); priority != "" {
		args = append(args, priority)
		whereParts = append(whereParts, fmt.Sprintf("priority = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, trainer_id, client_id, title, description, priority, status, due_date, created_at, updated_at
		FROM trainer_tasks
		WHERE %s
		ORDER BY created_at DESC, id DESC
	`, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.TrainerTask, 0)
	for rows.Next() {
		var task models.TrainerTask
		if err := rows.Scan(
			&task.ID,
			&task.TrainerID,
			&task.ClientID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.Status,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *TrainerTaskRepository) Update(ctx context.Context, taskID int64, title string, description *string, priority, status string, dueDate *time.Time) (*models.TrainerTask, error) {
	query := `
		UPDATE trainer_tasks
		SET title = $2, description = $3, priority = $4, status = $5, due_date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING id, trainer_id, client_id, title, description, priority, status, due_date, created_at, updated_at
	`
	return r.scanOne(r.db.QueryRow(ctx, query, taskID, title, description, priority, status, dueDate))
}

func (r *TrainerTaskRepository) Delete(ctx context.Context, taskID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trainer_tasks WHERE id = $1`, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TrainerTaskRepository) scanOne(row pgx.Row) (*models.TrainerTask, error) {
	var task models.TrainerTask
	err := row.Scan(
		&task.ID,
		&task.TrainerID,
		&task.ClientID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
