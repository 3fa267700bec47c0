package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/services"
	livews "github.com/saeid-a/GymAppBack/internal/websocket"
)

type sessionApplicationService interface {
	StartSession(ctx context.Context, actorID int64, planID *int64, sessionDate time.Time) (*models.WorkoutSession, error)
	GetActiveSession(ctx context.Context, sessionID int64) (*models.WorkoutSessionDetail, error)
	ListSessionsForUser(ctx context.Context, userID int64) ([]models.WorkoutSessionDetail, error)
	LogSet(ctx context.Context, actorID, sessionID int64, input services.LogSetInput) (*models.WorkoutSessionSetLog, error)
	CompleteSession(ctx context.Context, actorID, sessionID int64) (*models.WorkoutSession, error)
}

type SessionHandler struct {
	service sessionApplicationService
	hub     *livews.Hub
}

// NewSessionHandler accepts a nil hub; set logs are then recorded without a
// live broadcast.
func NewSessionHandler(service *services.SessionService, hub *livews.Hub) *SessionHandler {
	return &SessionHandler{service: service, hub: hub}
}

type startSessionRequest struct {
	PlanID      *int64 `json:"plan_id"`
	SessionDate string `json:"session_date"`
}

type logSetRequest struct {
	PlanItemSetID int64  `json:"plan_item_set_id"`
	Reps          string `json:"reps"`
	Weight        string `json:"weight"`
	Rest          string `json:"rest"`
	Completed     bool   `json:"completed"`
}

func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req startSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	sessionDate := time.Now().UTC()
	if strings.TrimSpace(req.SessionDate) != "" {
		sessionDate, err = time.Parse("2006-01-02", strings.TrimSpace(req.SessionDate))
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "session_date must be YYYY-MM-DD")
		}
	}

	session, err := h.service.StartSession(c.Context(), actorID, req.PlanID, sessionDate)
	if err != nil {
		return mapSessionError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"session": session})
}

// GetSession serves only live sessions; a completed session is not found
// through this endpoint.
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}

	detail, err := h.service.GetActiveSession(c.Context(), sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}
	if err := services.AuthorizeOwner(actorID, detail.UserID); err != nil {
		return mapSessionError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"session": detail})
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	sessions, err := h.service.ListSessionsForUser(c.Context(), actorID)
	if err != nil {
		return mapSessionError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"sessions": sessions})
}

func (h *SessionHandler) LogSet(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}

	var req logSetRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	setLog, err := h.service.LogSet(c.Context(), actorID, sessionID, services.LogSetInput{
		PlanItemSetID: req.PlanItemSetID,
		Reps:          req.Reps,
		Weight:        req.Weight,
		Rest:          req.Rest,
		Completed:     req.Completed,
	})
	if err != nil {
		return mapSessionError(c, err)
	}

	if h.hub != nil {
		h.hub.BroadcastSetLog(sessionID, actorID, setLog)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"set_log": setLog})
}

func (h *SessionHandler) CompleteSession(c *fiber.Ctx) error {
	actorID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}

	session, err := h.service.CompleteSession(c.Context(), actorID, sessionID)
	if err != nil {
		return mapSessionError(c, err)
	}

	if h.hub != nil {
		h.hub.BroadcastCompleted(sessionID, actorID)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"session": session})
}

func mapSessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNoAccess), errors.Is(err, services.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "Session not found")
	case errors.Is(err, services.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, "Invalid request")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "Failed to process session request")
	}
}
