package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/saeid-a/GymAppBack/internal/models"
)

type ExerciseSearchFilter struct {
	Query       string
	MuscleGroup string
	Equipment   string
	Page        int
	Limit       int
}

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) GetByID(ctx context.Context, exerciseID int64) (*models.Exercise, error) {
	query := `
		SELECT id, name, muscle_groups, equipment, image_keys
		FROM exercises
		WHERE id = $1
	`
	var exercise models.Exercise
	err := r.db.QueryRow(ctx, query, exerciseID).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroups,
		&exercise.Equipment,
		&exercise.ImageKeys,
	)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// ListByIDs batch-resolves the exercises referenced by a session's plan.
func (r *ExerciseRepository) ListByIDs(ctx context.Context, exerciseIDs []int64) ([]models.Exercise, error) {
	if len(exerciseIDs) == 0 {
		return []models.Exercise{}, nil
	}

	query := `
		SELECT id, name, muscle_groups, equipment, image_keys
		FROM exercises
		WHERE id = ANY($1)
		ORDER BY id ASC
	`
	return r.list(ctx, query, exerciseIDs)
}

func (r *ExerciseRepository) Search(ctx context.Context, filter ExerciseSearchFilter) ([]models.Exercise, int, error) {
	args := []any{}
	whereParts := []string{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		whereParts = append(whereParts, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if muscle := strings.TrimSpace(filter.MuscleGroup); muscle != "" {
		args = append(args, muscle)
		whereParts = append(whereParts, fmt.Sprintf("$%d = ANY(muscle_groups)", len(args)))
	}
	if equipment := strings.TrimSpace(filter.Equipment); equipment != "" {
		args = append(args, equipment)
		whereParts = append(whereParts, fmt.Sprintf("$%d = ANY(equipment)", len(args)))
	}

	whereClause := ""
	if len(whereParts) > 0 {
		whereClause = "WHERE " + strings.Join(whereParts, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM exercises %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT id, name, muscle_groups, equipment, image_keys
		FROM exercises
		%s
		ORDER BY name ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)-1, len(args))

	exercises, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return exercises, total, nil
}

func (r *ExerciseRepository) list(ctx context.Context, query string, args ...any) ([]models.Exercise, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		var exercise models.Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.MuscleGroups,
			&exercise.Equipment,
			&exercise.ImageKeys,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}
