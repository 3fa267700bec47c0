package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

type stubPlanStore struct {
	plan          *models.WorkoutPlan
	planErr       error
	items         []models.WorkoutPlanItem
	itemsErr      error
	sets          []models.WorkoutPlanItemSet
	setsErr       error
	orderUpdates  map[int64]int
	createdSet    *models.WorkoutPlanItemSet
	deletedItemID int64
	deletedSetID  int64
}

func (s *stubPlanStore) Create(_ context.Context, userID int64, friendlyName string) (*models.WorkoutPlan, error) {
	return &models.WorkoutPlan{ID: 1, UserID: userID, FriendlyName: friendlyName}, nil
}

func (s *stubPlanStore) GetByID(_ context.Context, planID int64) (*models.WorkoutPlan, error) {
	if s.planErr != nil {
		return nil, s.planErr
	}
	return s.plan, nil
}

func (s *stubPlanStore) ListByUserID(_ context.Context, userID int64) ([]models.WorkoutPlan, error) {
	return nil, nil
}

func (s *stubPlanStore) Rename(_ context.Context, planID int64, friendlyName string) (*models.WorkoutPlan, error) {
	plan := *s.plan
	plan.FriendlyName = friendlyName
	return &plan, nil
}

func (s *stubPlanStore) Delete(_ context.Context, planID int64) error {
	return nil
}

func (s *stubPlanStore) CreateItem(_ context.Context, input repository.CreatePlanItemInput) (*models.WorkoutPlanItem, error) {
	return &models.WorkoutPlanItem{ID: 100, PlanID: input.PlanID, ExerciseID: input.ExerciseID, Order: input.Order}, nil
}

func (s *stubPlanStore) ListItemsByPlanID(_ context.Context, planID int64) ([]models.WorkoutPlanItem, error) {
	if s.itemsErr != nil {
		return nil, s.itemsErr
	}
	return s.items, nil
}

func (s *stubPlanStore) UpdateItemOrder(_ context.Context, itemID int64, order int) error {
	if s.orderUpdates == nil {
		s.orderUpdates = make(map[int64]int)
	}
	s.orderUpdates[itemID] = order
	return nil
}

func (s *stubPlanStore) DeleteItem(_ context.Context, itemID int64) error {
	s.deletedItemID = itemID
	return nil
}

func (s *stubPlanStore) CreateSet(_ context.Context, input repository.CreatePlanItemSetInput) (*models.WorkoutPlanItemSet, error) {
	s.createdSet = &models.WorkoutPlanItemSet{ID: 200, ItemID: input.ItemID, Reps: input.Reps, Weight: input.Weight, Rest: input.Rest}
	return s.createdSet, nil
}

func (s *stubPlanStore) ListSetsByItemIDs(_ context.Context, itemIDs []int64) ([]models.WorkoutPlanItemSet, error) {
	if s.setsErr != nil {
		return nil, s.setsErr
	}
	return s.sets, nil
}

func (s *stubPlanStore) UpdateSet(_ context.Context, setID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error) {
	return &models.WorkoutPlanItemSet{ID: setID, Reps: reps, Weight: weight, Rest: rest}, nil
}

func (s *stubPlanStore) DeleteSet(_ context.Context, setID int64) error {
	s.deletedSetID = setID
	return nil
}

type stubExerciseReader struct {
	exercise *models.Exercise
	err      error
}

func (s *stubExerciseReader) GetByID(_ context.Context, exerciseID int64) (*models.Exercise, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.exercise, nil
}

func TestGetPlanAssemblesFullAggregate(t *testing.T) {
	store := &stubPlanStore{
		plan: &models.WorkoutPlan{ID: 5, UserID: 42, FriendlyName: "Leg Day"},
		items: []models.WorkoutPlanItem{
			{ID: 10, PlanID: 5, ExerciseID: 1, Order: 0},
			{ID: 11, PlanID: 5, ExerciseID: 2, Order: 1},
			{ID: 12, PlanID: 5, ExerciseID: 3, Order: 2},
		},
		sets: []models.WorkoutPlanItemSet{
			{ID: 20, ItemID: 10, Reps: "5", Weight: "100kg", Rest: "180s"},
			{ID: 21, ItemID: 10, Reps: "5", Weight: "100kg", Rest: "180s"},
			{ID: 22, ItemID: 11, Reps: "AMRAP", Weight: "bodyweight", Rest: "90s"},
		},
	}
	service := &PlanService{planRepo: store, exerciseRepo: &stubExerciseReader{}}

	detail, err := service.GetPlan(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}

	if detail.FriendlyName != "Leg Day" {
		t.Fatalf("expected plan name Leg Day, got %q", detail.FriendlyName)
	}
	if len(detail.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(detail.Items))
	}
	for i, item := range detail.Items {
		if item.Order != i {
			t.Fatalf("expected item %d at position %d, got order %d", item.ID, i, item.Order)
		}
	}
	if len(detail.Items[0].Sets) != 2 {
		t.Fatalf("expected 2 sets on first item, got %d", len(detail.Items[0].Sets))
	}
	if len(detail.Items[1].Sets) != 1 {
		t.Fatalf("expected 1 set on second item, got %d", len(detail.Items[1].Sets))
	}
	if detail.Items[1].Sets[0].Reps != "AMRAP" {
		t.Fatalf("expected free-text reps AMRAP, got %q", detail.Items[1].Sets[0].Reps)
	}
	if detail.Items[2].Sets == nil || len(detail.Items[2].Sets) != 0 {
		t.Fatalf("expected empty non-nil sets on third item, got %#v", detail.Items[2].Sets)
	}
}

func TestGetPlanWithoutItemsReturnsEmptySlice(t *testing.T) {
	store := &stubPlanStore{plan: &models.WorkoutPlan{ID: 5, UserID: 42}}
	service := &PlanService{planRepo: store, exerciseRepo: &stubExerciseReader{}}

	detail, err := service.GetPlan(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if detail.Items == nil {
		t.Fatal("expected non-nil items slice")
	}
	if len(detail.Items) != 0 {
		t.Fatalf("expected 0 items, got %d", len(detail.Items))
	}
}

func TestGetPlanMissingRowReturnsNotFound(t *testing.T) {
	store := &stubPlanStore{planErr: pgx.ErrNoRows}
	service := &PlanService{planRepo: store, exerciseRepo: &stubExerciseReader{}}

	_, err := service.GetPlan(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenamePlanByNonOwnerReturnsNoAccess(t *testing.T) {
	store := &stubPlanStore{plan: &models.WorkoutPlan{ID: 5, UserID: 42}}
	service := &PlanService{planRepo: store, exerciseRepo: &stubExerciseReader{}}

	_, err := service.RenamePlan(context.Background(), 7, 5, "Push Day")
	if !errors.Is(err, ErrNoAccess) {
		t.Fatalf("expected ErrNoAccess, got %v", err)
	}
}

func TestReorderItemsPersistsOnlyChangedPositions(t *testing.T) {
	store := &stubPlanStore{
		plan: &models.WorkoutPlan{ID: 5, UserID: 42},
		items: []models.WorkoutPlanItem{
			{ID: 10, PlanID: 5, Order: 0},
			{ID: 11, PlanID: 5, Order: 1},
			{ID: 12, PlanID: 5, Order: 2},
		},
	}
	service := &PlanService{planRepo: store, exerciseRepo: &stubExerciseReader{}}

	// Item 10 stays at position 0, the other two swap.
	if _, err := service.ReorderItems(context.Background(), 42, 5, []int64{10, 12, 11}); err != nil {
		t.Fatalf("ReorderItems: %v", err)
	}

	if len(store.orderUpdates) != 2 {
		t.Fatalf("expected 2 order updates, got %d", len(store.orderUpdates))
	}
	if _, touched := store.orderUpdates[10]; touched {
		t.Fatal("expected unchanged item 10 to be skipped")
	}
	if store.orderUpdates[12] != 1 || store.orderUpdates[11] != 2 {
		t.Fatalf("unexpected order updates: %#v", store.orderUpdates)
	}
}

func TestAddSetToForeignItemReturnsNoAccess(t *testing.T) {
	store := &stubPlanStore{
		plan:  &models.WorkoutPlan{ID: 5, UserID: 42},
		items: []models.WorkoutPlanItem{{ID: 10, PlanID: 5, Order: 0}},
	}
	service := &PlanService{planRepo: store, exerciseRepo: &stubExerciseReader{}}

	_, err := service.AddSet(context.Background(), 42, 5, 999, "8", "60kg", "60s")
	if !errors.Is(err, ErrNoAccess) {
		t.Fatalf("expected ErrNoAccess, got %v", err)
	}
	if store.createdSet != nil {
		t.Fatal("expected no set to be written")
	}
}
