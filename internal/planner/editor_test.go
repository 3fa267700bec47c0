package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/saeid-a/GymAppBack/internal/models"
)

func legDayDetail() *models.WorkoutPlanDetail {
	return &models.WorkoutPlanDetail{
		WorkoutPlan: models.WorkoutPlan{ID: 5, UserID: 42, FriendlyName: "Leg Day"},
		Items: []models.WorkoutPlanItemDetail{
			{
				WorkoutPlanItem: models.WorkoutPlanItem{ID: 10, PlanID: 5, ExerciseID: 1, Order: 0},
				Sets: []models.WorkoutPlanItemSet{
					{ID: 20, ItemID: 10, Reps: "5", Weight: "100kg", Rest: "180s"},
				},
			},
			{
				WorkoutPlanItem: models.WorkoutPlanItem{ID: 11, PlanID: 5, ExerciseID: 2, Order: 1},
				Sets:            []models.WorkoutPlanItemSet{},
			},
		},
	}
}

func TestAddSetAppliesOptimisticallyWithTempID(t *testing.T) {
	editor := NewEditor(legDayDetail(), nil)

	var observedTempID int64
	persisted := &models.WorkoutPlanItemSet{ID: 21, ItemID: 10, Reps: "8", Weight: "80kg", Rest: "90s"}
	set, err := editor.AddSet(context.Background(), 10, "8", "80kg", "90s", func(ctx context.Context) (*models.WorkoutPlanItemSet, error) {
		// The optimistic entry is visible with its temp id while the
		// persist call is in flight.
		snapshot := editor.Snapshot()
		observedTempID = snapshot.Items[0].Sets[1].ID
		return persisted, nil
	})
	if err != nil {
		t.Fatalf("AddSet: %v", err)
	}

	if observedTempID != -1001 {
		t.Fatalf("expected first temp id -1001, got %d", observedTempID)
	}
	if set.ID != 21 {
		t.Fatalf("expected persisted id 21, got %d", set.ID)
	}

	snapshot := editor.Snapshot()
	if len(snapshot.Items[0].Sets) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(snapshot.Items[0].Sets))
	}
	if snapshot.Items[0].Sets[1].ID != 21 {
		t.Fatalf("expected temp entry replaced by persisted id, got %d", snapshot.Items[0].Sets[1].ID)
	}
}

func TestAddSetRollsBackOnPersistFailure(t *testing.T) {
	editor := NewEditor(legDayDetail(), nil)

	_, err := editor.AddSet(context.Background(), 10, "8", "80kg", "90s", func(ctx context.Context) (*models.WorkoutPlanItemSet, error) {
		return nil, errors.New("insert failed")
	})
	if err == nil {
		t.Fatal("expected persist error")
	}

	snapshot := editor.Snapshot()
	if len(snapshot.Items[0].Sets) != 1 {
		t.Fatalf("expected optimistic set rolled back, got %d sets", len(snapshot.Items[0].Sets))
	}
	if editor.Stale() {
		t.Fatal("rolled-back add must not mark the editor stale")
	}
}

func TestAddSetToUnknownItemFails(t *testing.T) {
	editor := NewEditor(legDayDetail(), nil)

	_, err := editor.AddSet(context.Background(), 999, "8", "80kg", "90s", func(ctx context.Context) (*models.WorkoutPlanItemSet, error) {
		t.Fatal("persist must not run for unknown items")
		return nil, nil
	})
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestRemoveItemFailureMarksStaleAndReloads(t *testing.T) {
	reloaded := legDayDetail()
	editor := NewEditor(legDayDetail(), func(ctx context.Context) (*models.WorkoutPlanDetail, error) {
		return reloaded, nil
	})

	err := editor.RemoveItem(context.Background(), 10, func(ctx context.Context) error {
		return errors.New("delete failed")
	})
	if err == nil {
		t.Fatal("expected persist error")
	}
	if !editor.Stale() {
		t.Fatal("expected editor marked stale after failed removal")
	}
	// The local state dropped the item; only a reload restores trust.
	if len(editor.Snapshot().Items) != 1 {
		t.Fatalf("expected local removal to stand, got %d items", len(editor.Snapshot().Items))
	}

	if err := editor.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if editor.Stale() {
		t.Fatal("expected reload to clear staleness")
	}
	if len(editor.Snapshot().Items) != 2 {
		t.Fatalf("expected reloaded aggregate, got %d items", len(editor.Snapshot().Items))
	}
}

func TestReorderPersistsOnlyChangedPositions(t *testing.T) {
	detail := legDayDetail()
	detail.Items = append(detail.Items, models.WorkoutPlanItemDetail{
		WorkoutPlanItem: models.WorkoutPlanItem{ID: 12, PlanID: 5, ExerciseID: 3, Order: 2},
		Sets:            []models.WorkoutPlanItemSet{},
	})
	editor := NewEditor(detail, nil)

	persisted := make(map[int64]int)
	err := editor.Reorder(context.Background(), []int64{10, 12, 11}, func(ctx context.Context, itemID int64, order int) error {
		persisted[itemID] = order
		return nil
	})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	if len(persisted) != 2 {
		t.Fatalf("expected 2 persisted deltas, got %d", len(persisted))
	}
	if _, touched := persisted[10]; touched {
		t.Fatal("expected unchanged item 10 to be skipped")
	}

	snapshot := editor.Snapshot()
	wantOrder := []int64{10, 12, 11}
	for i, item := range snapshot.Items {
		if item.ID != wantOrder[i] {
			t.Fatalf("expected item %d at position %d, got %d", wantOrder[i], i, item.ID)
		}
	}
}

func TestReorderWithUnknownIDFails(t *testing.T) {
	editor := NewEditor(legDayDetail(), nil)

	err := editor.Reorder(context.Background(), []int64{10, 999}, func(ctx context.Context, itemID int64, order int) error {
		t.Fatal("persist must not run for an invalid reorder")
		return nil
	})
	if !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	editor := NewEditor(legDayDetail(), nil)

	snapshot := editor.Snapshot()
	snapshot.Items[0].Sets[0].Reps = "mutated"

	if editor.Snapshot().Items[0].Sets[0].Reps != "5" {
		t.Fatal("expected snapshot mutation to not leak into the editor")
	}
}
