package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/services"
)

type stubPlanService struct {
	getResult     *models.WorkoutPlanDetail
	getErr        error
	renameResult  *models.WorkoutPlan
	renameErr     error
	addSetResult  *models.WorkoutPlanItemSet
	addSetErr     error
	removeItemErr error
	orderUpdates  map[int64]int
	lastActorID   int64
	lastPlanID    int64
	lastRename    string
	removedItems  []int64
}

func (s *stubPlanService) CreatePlan(_ context.Context, actorID int64, friendlyName string) (*models.WorkoutPlan, error) {
	return nil, services.ErrInvalidInput
}

func (s *stubPlanService) ListPlans(_ context.Context, actorID int64) ([]models.WorkoutPlan, error) {
	return nil, nil
}

func (s *stubPlanService) GetOwnedPlan(_ context.Context, actorID, planID int64) (*models.WorkoutPlanDetail, error) {
	s.lastActorID = actorID
	s.lastPlanID = planID
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getResult, nil
}

func (s *stubPlanService) RenamePlan(_ context.Context, actorID, planID int64, friendlyName string) (*models.WorkoutPlan, error) {
	s.lastActorID = actorID
	s.lastPlanID = planID
	s.lastRename = friendlyName
	return s.renameResult, s.renameErr
}

func (s *stubPlanService) DeletePlan(_ context.Context, actorID, planID int64) error {
	return nil
}

func (s *stubPlanService) AddItem(_ context.Context, actorID, planID, exerciseID int64, order int) (*models.WorkoutPlanItem, error) {
	return &models.WorkoutPlanItem{ID: 99, PlanID: planID, ExerciseID: exerciseID, Order: order}, nil
}

func (s *stubPlanService) RemoveItem(_ context.Context, actorID, planID, itemID int64) error {
	if s.removeItemErr != nil {
		return s.removeItemErr
	}
	s.removedItems = append(s.removedItems, itemID)
	return nil
}

func (s *stubPlanService) ReorderItems(_ context.Context, actorID, planID int64, orderedItemIDs []int64) (*models.WorkoutPlanDetail, error) {
	return s.getResult, nil
}

func (s *stubPlanService) SetItemOrder(_ context.Context, actorID, planID, itemID int64, order int) error {
	if s.orderUpdates == nil {
		s.orderUpdates = make(map[int64]int)
	}
	s.orderUpdates[itemID] = order
	return nil
}

func (s *stubPlanService) AddSet(_ context.Context, actorID, planID, itemID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error) {
	if s.addSetErr != nil {
		return nil, s.addSetErr
	}
	return s.addSetResult, nil
}

func (s *stubPlanService) UpdateSet(_ context.Context, actorID, planID, setID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error) {
	return nil, services.ErrNoAccess
}

func (s *stubPlanService) RemoveSet(_ context.Context, actorID, planID, setID int64) error {
	return nil
}

func newPlanTestApp(service *stubPlanService) *fiber.App {
	handler := &PlanHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "member")
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Get("/api/v1/workout-plans/:id", handler.GetPlan)
	app.Put("/api/v1/workout-plans/:id", handler.RenamePlan)
	app.Post("/api/v1/workout-plans/:id/edit", handler.EditPlan)
	return app
}

func twoItemDetail() *models.WorkoutPlanDetail {
	return &models.WorkoutPlanDetail{
		WorkoutPlan: models.WorkoutPlan{ID: 5, UserID: 42, FriendlyName: "Leg Day"},
		Items: []models.WorkoutPlanItemDetail{
			{
				WorkoutPlanItem: models.WorkoutPlanItem{ID: 10, PlanID: 5, ExerciseID: 1, Order: 0},
				Sets:            []models.WorkoutPlanItemSet{},
			},
			{
				WorkoutPlanItem: models.WorkoutPlanItem{ID: 11, PlanID: 5, ExerciseID: 2, Order: 1},
				Sets:            []models.WorkoutPlanItemSet{},
			},
		},
	}
}

func TestGetPlanWrapsDetailInEnvelope(t *testing.T) {
	service := &stubPlanService{getResult: twoItemDetail()}
	app := newPlanTestApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workout-plans/5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastPlanID != 5 {
		t.Fatalf("unexpected forwarding: actor %d plan %d", service.lastActorID, service.lastPlanID)
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Plan map[string]any `json:"plan"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !payload.Success {
		t.Fatal("expected success envelope")
	}
	if payload.Data.Plan["friendly_name"] != "Leg Day" {
		t.Fatalf("unexpected plan payload: %#v", payload.Data.Plan)
	}
}

// Ownership failures read as 404, the same as a missing plan.
func TestRenamePlanForeignPlanReadsAsNotFound(t *testing.T) {
	service := &stubPlanService{renameErr: services.ErrNoAccess}
	app := newPlanTestApp(service)

	req := httptest.NewRequest(
		http.MethodPut,
		"/api/v1/workout-plans/5",
		strings.NewReader(`{"friendly_name":"Push Day"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.Success {
		t.Fatal("expected failure envelope")
	}
	if payload.Error != "Plan not found" {
		t.Fatalf("unexpected error message: %q", payload.Error)
	}
}

func TestEditPlanAppliesBatch(t *testing.T) {
	service := &stubPlanService{
		getResult:    twoItemDetail(),
		addSetResult: &models.WorkoutPlanItemSet{ID: 21, ItemID: 10, Reps: "8", Weight: "80kg", Rest: "90s"},
	}
	app := newPlanTestApp(service)

	body := `{"ops":[
		{"op":"add_set","item_id":10,"reps":"8","weight":"80kg","rest":"90s"},
		{"op":"reorder","item_ids":[11,10]}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workout-plans/5/edit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Swapping two items touches both positions.
	if len(service.orderUpdates) != 2 {
		t.Fatalf("expected 2 order updates, got %v", service.orderUpdates)
	}
	if service.orderUpdates[11] != 0 || service.orderUpdates[10] != 1 {
		t.Fatalf("unexpected order updates: %v", service.orderUpdates)
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Applied int `json:"applied"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !payload.Success || payload.Data.Applied != 2 {
		t.Fatalf("expected 2 applied ops, got %+v", payload)
	}
}

func TestEditPlanPartialFailureReturnsConflict(t *testing.T) {
	service := &stubPlanService{
		getResult:     twoItemDetail(),
		addSetResult:  &models.WorkoutPlanItemSet{ID: 21, ItemID: 10, Reps: "8", Weight: "80kg", Rest: "90s"},
		removeItemErr: services.ErrNoAccess,
	}
	app := newPlanTestApp(service)

	body := `{"ops":[
		{"op":"add_set","item_id":10,"reps":"8","weight":"80kg","rest":"90s"},
		{"op":"remove_item","item_id":11}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workout-plans/5/edit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var payload struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Data    struct {
			Applied  int    `json:"applied"`
			FailedOp string `json:"failed_op"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.Success {
		t.Fatal("expected failure envelope")
	}
	if payload.Data.Applied != 1 || payload.Data.FailedOp != "remove_item" {
		t.Fatalf("unexpected partial result: %+v", payload.Data)
	}
}
