package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/planner"
	"github.com/saeid-a/GymAppBack/internal/services"
)

type planApplicationService interface {
	CreatePlan(ctx context.Context, actorID int64, friendlyName string) (*models.WorkoutPlan, error)
	ListPlans(ctx context.Context, actorID int64) ([]models.WorkoutPlan, error)
	GetOwnedPlan(ctx context.Context, actorID, planID int64) (*models.WorkoutPlanDetail, error)
	RenamePlan(ctx context.Context, actorID, planID int64, friendlyName string) (*models.WorkoutPlan, error)
	DeletePlan(ctx context.Context, actorID, planID int64) error
	AddItem(ctx context.Context, actorID, planID, exerciseID int64, order int) (*models.WorkoutPlanItem, error)
	RemoveItem(ctx context.Context, actorID, planID, itemID int64) error
	ReorderItems(ctx context.Context, actorID, planID int64, orderedItemIDs []int64) (*models.WorkoutPlanDetail, error)
	SetItemOrder(ctx context.Context, actorID, planID, itemID int64, order int) error
	AddSet(ctx context.Context, actorID, planID, itemID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error)
	UpdateSet(ctx context.Context, actorID, planID, setID int64, reps, weight, rest string) (*models.WorkoutPlanItemSet, error)
	RemoveSet(ctx context.Context, actorID, planID, setID int64) error
}

type PlanHandler struct {
	service planApplicationService
}

func NewPlanHandler(service *services.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

type createPlanRequest struct {
	FriendlyName string `json:"friendly_name"`
}

type addPlanItemRequest struct {
	ExerciseID int64 `json:"exercise_id"`
	Order      int   `json:"order"`
}

type reorderPlanItemsRequest struct {
	ItemIDs []int64 `json:"item_ids"`
}

type planSetRequest struct {
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
	Rest   string `json:"rest"`
}

func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	plan, err := h.service.CreatePlan(c.Context(), actorID, req.FriendlyName)
	if err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"plan": plan})
}

func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	plans, err := h.service.ListPlans(c.Context(), actorID)
	if err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"plans": plans})
}

func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}

	detail, err := h.service.GetOwnedPlan(c.Context(), actorID, planID)
	if err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"plan": detail})
}

func (h *PlanHandler) RenamePlan(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}

	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	plan, err := h.service.RenamePlan(c.Context(), actorID, planID, req.FriendlyName)
	if err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"plan": plan})
}

func (h *PlanHandler) DeletePlan(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}

	if err := h.service.DeletePlan(c.Context(), actorID, planID); err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *PlanHandler) AddItem(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}

	var req addPlanItemRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	item, err := h.service.AddItem(c.Context(), actorID, planID, req.ExerciseID, req.Order)
	if err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"item": item})
}

func (h *PlanHandler) RemoveItem(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid item id")
	}

	if err := h.service.RemoveItem(c.Context(), actorID, planID, itemID); err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *PlanHandler) ReorderItems(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}

	var req reorderPlanItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	detail, err := h.service.ReorderItems(c.Context(), actorID, planID, req.ItemIDs)
	if err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"plan": detail})
}

func (h *PlanHandler) AddSet(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid item id")
	}

	var req planSetRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	set, err := h.service.AddSet(c.Context(), actorID, planID, itemID, req.Reps, req.Weight, req.Rest)
	if err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"set": set})
}

func (h *PlanHandler) UpdateSet(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}
	setID, err := parseIDParam(c, "setId")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid set id")
	}

	var req planSetRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	set, err := h.service.UpdateSet(c.Context(), actorID, planID, setID, req.Reps, req.Weight, req.Rest)
	if err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"set": set})
}

func (h *PlanHandler) RemoveSet(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}
	setID, err := parseIDParam(c, "setId")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid set id")
	}

	if err := h.service.RemoveSet(c.Context(), actorID, planID, setID); err != nil {
		return mapPlanError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

type planEditOp struct {
	Op         string  `json:"op"`
	ItemID     int64   `json:"item_id,omitempty"`
	SetID      int64   `json:"set_id,omitempty"`
	ExerciseID int64   `json:"exercise_id,omitempty"`
	Order      int     `json:"order,omitempty"`
	Reps       string  `json:"reps,omitempty"`
	Weight     string  `json:"weight,omitempty"`
	Rest       string  `json:"rest,omitempty"`
	ItemIDs    []int64 `json:"item_ids,omitempty"`
}

type editPlanRequest struct {
	Ops []planEditOp `json:"ops"`
}

// EditPlan applies a burst of item and set mutations against a locally
// mirrored aggregate. Each op persists individually; a failed persist rolls
// back or invalidates only the local mirror, and the response reports how far
// the burst got together with the resulting aggregate.
func (h *PlanHandler) EditPlan(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid plan id")
	}

	var req editPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if len(req.Ops) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "ops must not be empty")
	}

	detail, err := h.service.GetOwnedPlan(c.Context(), actorID, planID)
	if err != nil {
		return mapPlanError(c, err)
	}

	editor := planner.NewEditor(detail, func(ctx context.Context) (*models.WorkoutPlanDetail, error) {
		return h.service.GetOwnedPlan(ctx, actorID, planID)
	})

	applied := 0
	var opErr error
	for _, op := range req.Ops {
		opErr = h.applyEditOp(c, editor, actorID, planID, op)
		if opErr != nil {
			break
		}
		applied++
	}

	if editor.Stale() {
		if err := editor.Reload(c.Context()); err != nil {
			return mapPlanError(c, err)
		}
	}

	payload := fiber.Map{
		"plan":    editor.Snapshot(),
		"applied": applied,
	}
	if opErr != nil {
		payload["failed_op"] = req.Ops[applied].Op
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Edit partially applied: " + opErr.Error(),
			"data":    payload,
		})
	}

	return jsonData(c, fiber.StatusOK, payload)
}

func (h *PlanHandler) applyEditOp(c *fiber.Ctx, editor *planner.Editor, actorID, planID int64, op planEditOp) error {
	switch op.Op {
	case "add_item":
		_, err := editor.AddItem(c.Context(), op.ExerciseID, op.Order, func(ctx context.Context) (*models.WorkoutPlanItem, error) {
			return h.service.AddItem(ctx, actorID, planID, op.ExerciseID, op.Order)
		})
		return err
	case "remove_item":
		return editor.RemoveItem(c.Context(), op.ItemID, func(ctx context.Context) error {
			return h.service.RemoveItem(ctx, actorID, planID, op.ItemID)
		})
	case "add_set":
		_, err := editor.AddSet(c.Context(), op.ItemID, op.Reps, op.Weight, op.Rest, func(ctx context.Context) (*models.WorkoutPlanItemSet, error) {
			return h.service.AddSet(ctx, actorID, planID, op.ItemID, op.Reps, op.Weight, op.Rest)
		})
		return err
	case "remove_set":
		return editor.RemoveSet(c.Context(), op.ItemID, op.SetID, func(ctx context.Context) error {
			return h.service.RemoveSet(ctx, actorID, planID, op.SetID)
		})
	case "reorder":
		return editor.Reorder(c.Context(), op.ItemIDs, func(ctx context.Context, itemID int64, order int) error {
			return h.service.SetItemOrder(ctx, actorID, planID, itemID, order)
		})
	default:
		return services.ErrInvalidInput
	}
}

func mapPlanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoAccess), errors.Is(err, services.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "Plan not found")
	case errors.Is(err, services.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, "Invalid request")
	case errors.Is(err, planner.ErrUnknownItem):
		return jsonError(c, fiber.StatusBadRequest, "Invalid request")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "Failed to process plan request")
	}
}
