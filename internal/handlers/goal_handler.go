package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/services"
)

type goalApplicationService interface {
	SetTargets(ctx context.Context, actorID int64, steps, waterMl, sleepHours int) (*models.DailyGoals, error)
	GetTargets(ctx context.Context, actorID int64) (*models.DailyGoals, error)
	LogDay(ctx context.Context, actorID int64, day time.Time, steps, waterMl, sleepHours int) (*models.DailyGoalLog, error)
	ListLogs(ctx context.Context, actorID int64, from, to time.Time) ([]models.DailyGoalLog, error)
}

type GoalHandler struct {
	service goalApplicationService
}

func NewGoalHandler(service *services.GoalService) *GoalHandler {
	return &GoalHandler{service: service}
}

type goalTargetsRequest struct {
	Steps      int `json:"steps"`
	WaterMl    int `json:"water_ml"`
	SleepHours int `json:"sleep_hours"`
}

type goalLogRequest struct {
	LogDate    string `json:"log_date"`
	Steps      int    `json:"steps"`
	WaterMl    int    `json:"water_ml"`
	SleepHours int    `json:"sleep_hours"`
}

func (h *GoalHandler) SetTargets(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req goalTargetsRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	goals, err := h.service.SetTargets(c.Context(), actorID, req.Steps, req.WaterMl, req.SleepHours)
	if err != nil {
		return mapGoalError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"goals": goals})
}

func (h *GoalHandler) GetTargets(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	goals, err := h.service.GetTargets(c.Context(), actorID)
	if err != nil {
		return mapGoalError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"goals": goals})
}

func (h *GoalHandler) LogDay(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req goalLogRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	day := time.Now().UTC()
	if strings.TrimSpace(req.LogDate) != "" {
		day, err = time.Parse("2006-01-02", strings.TrimSpace(req.LogDate))
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "log_date must be YYYY-MM-DD")
		}
	}

	logEntry, err := h.service.LogDay(c.Context(), actorID, day, req.Steps, req.WaterMl, req.SleepHours)
	if err != nil {
		return mapGoalError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"log": logEntry})
}

func (h *GoalHandler) ListLogs(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
	}

	logs, err := h.service.ListLogs(c.Context(), actorID, from, to)
	if err != nil {
		return mapGoalError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"logs": logs})
}

func mapGoalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "Goals not set")
	case errors.Is(err, services.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, "Invalid request")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "Failed to process goal request")
	}
}
