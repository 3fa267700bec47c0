package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type CreatePlanItemInput struct {
	PlanID     int64
	ExerciseID int64
	Order      int
}

type CreatePlanItemSetInput struct {
	ItemID int64
	Reps   string
	Weight string
	Rest   string
}

type WorkoutPlanRepository struct {
	db DBTX
}

func NewWorkoutPlanRepository(db DBTX) *WorkoutPlanRepository {
	return &WorkoutPlanRepository{db: db}
}

func (r *WorkoutPlanRepository) Create(ctx context.Context, userID int64, friendlyName string) (*models.WorkoutPlan, error) {
	query := `
		INSERT INTO workout_plans (user_id, friendly_name)
		VALUES ($1, $2)
		RETURNING id, user_id, friendly_name, created_at, updated_at
	`
	return r.scanPlan(r.db.QueryRow(ctx, query, userID, friendlyName))
}

func (r *WorkoutPlanRepository) GetByID(ctx context.Context, planID int64) (*models.WorkoutPlan, error) {
	query := `
		SELECT id, user_id, friendly_name, created_at, updated_at
		FROM workout_plans
		WHERE id = $1
	`
	return r.scanPlan(r.db.QueryRow(ctx, query, planID))
}

func (r *WorkoutPlanRepository) ListByUserID(ctx context.Context, userID int64) ([]models.WorkoutPlan, error) {
	query := `
		SELECT id, user_id, friendly_name, created_at, updated_at
		FROM workout_plans
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]models.WorkoutPlan, 0)
	for rows.Next() {
		var plan models.WorkoutPlan
		if err := rows.Scan(
			&plan.ID,
			&plan.UserID,
			&plan.FriendlyName,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *WorkoutPlanRepository) Rename(ctx context.Context, planID int64, friendlyName string) (*models.WorkoutPlan, error) {
	query := `
		UPDATE workout_plans
		SET friendly_name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, friendly_name, created_at, updated_at
	`
	return r.scanPlan(r.db.QueryRow(ctx, query, planID, friendlyName))
}

func (r *WorkoutPlanRepository) Delete(ctx context.Context, planID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workout_plans WHERE id = $1`, planID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *WorkoutPlanRepository) CreateItem(ctx context.Context, input CreatePlanItemInput) (*models.WorkoutPlanItem, error) {
	query := `
		INSERT INTO workout_plan_items (plan_id, exercise_id, display_order)
		VALUES ($1, $2, $3)
		RETURNING id, plan_id, exercise_id, display_order, created_at
	`
	return r.scanItem(r.db.QueryRow(ctx, query, input.PlanID, input.ExerciseID, input.Order))
}

func (r *WorkoutPlanRepository) ListItemsByPlanID(ctx context.Context, planID int64) ([]models.WorkoutPlanItem, error) {
	query := `
		SELECT id, plan_id, exercise_id, display_order, created_at
		FROM workout_plan_items
		WHERE plan_id = $1
		ORDER BY display_order ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.WorkoutPlanItem, 0)
	for rows.Next() {
		var item models.WorkoutPlanItem
		if err := rows.Scan(
			&item.ID,
			&item.PlanID,
			&item.ExerciseID,
			&item.Order,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *WorkoutPlanRepository) UpdateItemOrder(ctx context.Context, itemID int64, order int) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_plan_items SET display_order = $2 WHERE id = $1`,
		itemID,
		order,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *WorkoutPlanRepository) DeleteItem(ctx context.Context, itemID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workout_plan_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *WorkoutPlanRepository) CreateSet(ctx context.Context, input CreatePlanItemSetInput) (*models.WorkoutPlanItemSet, error) {
	query := `
		INSERT INTO workout_plan_item_sets (item_id, reps, weight, rest)
		VALUES ($1, $2, $3, $4)
		RETURNING id, item_id, reps, weight, rest
	`
	return r.scanSet(r.db.QueryRow(ctx, query, input.ItemID, input.Reps, input.Weight, input.Rest))
}

// ListSetsByItemIDs fetches every set belonging to the given items in one
// round trip, ordered by id so callers can group without re-sorting.
func (r *WorkoutPlanRepository) ListSetsByItemIDs(ctx context.Context, itemIDs []int64) ([]models.WorkoutPlanItemSet, error) {
	if len(itemIDs) == 0 {
		return []models.WorkoutPlanItemSet{}, nil
	}

	query := `
		SELECT id, item_id, reps, weight, rest
		FROM workout_plan_item_sets
		WHERE item_id = ANY($1)
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]models.WorkoutPlanItemSet, 0)
	for rows.Next() {
		var set models.WorkoutPlanItemSet
		if err := rows.Scan(
			&set.ID,
			&set.ItemID,
			&set.Reps,
			&set.Weight,
			&set.Rest,
		); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}

func (r *WorkoutPlanRepository) GetSetByID(ctx context.Context, setID int64) (*models.WorkoutPlanItemSet, error) {
	query := `
		SELECT id, item_id, reps, weight, rest
		FROM workout_plan_item_sets
		WHERE id = $1
	`
	return r.scanSet(r.db.QueryRow(ctx, query, setID))
}

func (r *WorkoutPlanRepository) UpdateSet(ctx context.Context, setID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error) {
	query := `
		UPDATE workout_plan_item_sets
		SET reps = $2, weight = $3, rest = $4
		WHERE id = $1
		RETURNING id, item_id, reps, weight, rest
	`
	return r.scanSet(r.db.QueryRow(ctx, query, setID, reps, weight, rest))
}

func (r *WorkoutPlanRepository) DeleteSet(ctx context.Context, setID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workout_plan_item_sets WHERE id = $1`, setID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *WorkoutPlanRepository) scanPlan(row pgx.Row) (*models.WorkoutPlan, error) {
	var plan models.WorkoutPlan
	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.FriendlyName,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *WorkoutPlanRepository) scanItem(row pgx.Row) (*models.WorkoutPlanItem, error) {
	var item models.WorkoutPlanItem
	err := row.Scan(
		&item.ID,
		&item.PlanID,
		&item.ExerciseID,
		&item.Order,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WorkoutPlanRepository) scanSet(row pgx.Row) (*models.WorkoutPlanItemSet, error) {
	var set models.WorkoutPlanItemSet
	err := row.Scan(
		&set.ID,
		&set.ItemID,
		&set.Reps,
		&set.Weight,
		&set.Rest,
	)
	if err != nil {
		return nil, err
	}
	return &set, nil
}
