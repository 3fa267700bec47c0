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

type trainerApplicationService interface {
	AssignClient(ctx context.Context, trainerID, clientID int64, notes *string) (*models.TrainerClient, error)
	ListClients(ctx context.Context, trainerID int64) ([]models.TrainerClient, error)
	UpdateClientNotes(ctx context.Context, trainerID, clientID int64, notes *string) (*models.TrainerClient, error)
	UnassignClient(ctx context.Context, trainerID, clientID int64) error
	CreateTask(ctx context.Context, trainerID int64, input services.CreateTaskInput) (*models.TrainerTask, error)
	ListTasks(ctx context.Context, trainerID int64, status, priority string) ([]models.TrainerTask, error)
	UpdateTask(ctx context.Context, trainerID, taskID int64, input services.UpdateTaskInput) (*models.TrainerTask, error)
	DeleteTask(ctx context.Context, trainerID, taskID int64) error
}

type programApplicationService interface {
	ListProgramsForTrainer(ctx context.Context, trainerID int64) ([]models.ClientProgram, error)
	ListProgramsForClient(ctx context.Context, clientID int64) ([]models.ClientProgram, error)
}

type TrainerHandler struct {
	service  trainerApplicationService
	programs programApplicationService
}

func NewTrainerHandler(service *services.TrainerService, programs *services.ProgramService) *TrainerHandler {
	return &TrainerHandler{service: service, programs: programs}
}

type assignClientRequest struct {
	ClientID int64   `json:"client_id"`
	Notes    *string `json:"notes"`
}

type clientNotesRequest struct {
	Notes *string `json:"notes"`
}

type trainerTaskRequest struct {
	ClientID    *int64  `json:"client_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

func requireTrainer(c *fiber.Ctx) (int64, bool) {
	role := actorRole(c)
	if role != models.RoleTrainer && role != models.RoleAdmin {
		return 0, false
	}
	actorID, err := parseActorID(c)
	if err != nil {
		return 0, false
	}
	return actorID, true
}

func (h *TrainerHandler) AssignClient(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	var req assignClientRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	assignment, err := h.service.AssignClient(c.Context(), trainerID, req.ClientID, req.Notes)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"client": assignment})
}

func (h *TrainerHandler) ListClients(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	clients, err := h.service.ListClients(c.Context(), trainerID)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"clients": clients})
}

func (h *TrainerHandler) UpdateClientNotes(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid client id")
	}

	var req clientNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	assignment, err := h.service.UpdateClientNotes(c.Context(), trainerID, clientID, req.Notes)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"client": assignment})
}

func (h *TrainerHandler) UnassignClient(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	clientID, err := parseIDParam(c, "clientId")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid client id")
	}

	if err := h.service.UnassignClient(c.Context(), trainerID, clientID); err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *TrainerHandler) CreateTask(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	var req trainerTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "due_date must be a valid RFC3339 timestamp")
	}

	task, err := h.service.CreateTask(c.Context(), trainerID, services.CreateTaskInput{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     dueDate,
	})
	if err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"task": task})
}

func (h *TrainerHandler) ListTasks(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	tasks, err := h.service.ListTasks(
		c.Context(),
		trainerID,
		strings.TrimSpace(c.Query("status")),
		strings.TrimSpace(c.Query("priority")),
	)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"tasks": tasks})
}

func (h *TrainerHandler) UpdateTask(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid task id")
	}

	var req trainerTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "due_date must be a valid RFC3339 timestamp")
	}

	task, err := h.service.UpdateTask(c.Context(), trainerID, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     dueDate,
	})
	if err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"task": task})
}

func (h *TrainerHandler) DeleteTask(c *fiber.Ctx) error {
	trainerID, ok := requireTrainer(c)
	if !ok {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid task id")
	}

	if err := h.service.DeleteTask(c.Context(), trainerID, taskID); err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *TrainerHandler) ListPrograms(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var programs []models.ClientProgram
	if actorRole(c) == models.RoleMember {
		programs, err = h.programs.ListProgramsForClient(c.Context(), actorID)
	} else {
		programs, err = h.programs.ListProgramsForTrainer(c.Context(), actorID)
	}
	if err != nil {
		return mapTrainerError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"programs": programs})
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func mapTrainerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoAccess):
		return jsonError(c, fiber.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, "Invalid request")
	case errors.Is(err, services.ErrDuplicate):
		return jsonError(c, fiber.StatusConflict, "Client is already assigned")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "Failed to process trainer request")
	}
}
