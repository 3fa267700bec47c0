package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
	"github.com/saeid-a/GymAppBack/internal/services"
)

type exerciseApplicationService interface {
	Search(ctx context.Context, filter repository.ExerciseSearchFilter) ([]models.Exercise, int, error)
	GetExercise(ctx context.Context, exerciseID int64) (*models.Exercise, error)
}

type ExerciseHandler struct {
	service exerciseApplicationService
}

func NewExerciseHandler(service *services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

func (h *ExerciseHandler) Search(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	exercises, total, err := h.service.Search(c.Context(), repository.ExerciseSearchFilter{
		Query:       strings.TrimSpace(c.Query("q")),
		MuscleGroup: strings.TrimSpace(c.Query("muscle_group")),
		Equipment:   strings.TrimSpace(c.Query("equipment")),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to search exercises")
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{
		"exercises":  exercises,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *ExerciseHandler) GetExercise(c *fiber.Ctx) error {
	exerciseID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid exercise id")
	}

	exercise, err := h.service.GetExercise(c.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Exercise not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch exercise")
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"exercise": exercise})
}
