package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/services"
	"github.com/saeid-a/GymAppBack/pkg/utils"
)

type sessionPopulationService interface {
	PopulateAll(ctx context.Context, day time.Time) (int, error)
	PopulateForUser(ctx context.Context, userID int64, day time.Time) (int, error)
}

// CronHandler fronts the scheduled session population. The scheduler calls
// it with the shared cron secret and populates every active program; a
// JWT-authenticated user can trigger population for themselves only.
type CronHandler struct {
	service    sessionPopulationService
	cronSecret string
	jwtSecret  string
}

func NewCronHandler(service *services.SessionService, cronSecret, jwtSecret string) *CronHandler {
	return &CronHandler{service: service, cronSecret: cronSecret, jwtSecret: jwtSecret}
}

func (h *CronHandler) PopulateSessions(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return jsonError(c, fiber.StatusUnauthorized, "Missing authorization header")
	}

	day := time.Now().UTC()

	if h.cronSecret != "" && token == h.cronSecret {
		created, err := h.service.PopulateAll(c.Context(), day)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "Failed to populate sessions")
		}
		return jsonData(c, fiber.StatusOK, fiber.Map{"created": created, "scope": "all"})
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	created, err := h.service.PopulateForUser(c.Context(), userID, day)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to populate sessions")
	}
	return jsonData(c, fiber.StatusOK, fiber.Map{"created": created, "scope": "self"})
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
