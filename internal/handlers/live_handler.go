package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/services"
	livews "github.com/saeid-a/GymAppBack/internal/websocket"
	"github.com/saeid-a/GymAppBack/pkg/utils"
)

type clientManagementChecker interface {
	ManagesClient(ctx context.Context, trainerID, clientID int64) (bool, error)
}

// LiveHandler upgrades watchers onto the per-session feed. A session's owner
// can always watch it; a trainer can watch sessions of assigned clients.
type LiveHandler struct {
	sessions  sessionApplicationService
	trainers  clientManagementChecker
	hub       *livews.Hub
	jwtSecret string
}

func NewLiveHandler(
	sessions *services.SessionService,
	trainers *services.TrainerService,
	hub *livews.Hub,
	jwtSecret string,
) *LiveHandler {
	return &LiveHandler{
		sessions:  sessions,
		trainers:  trainers,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

func (h *LiveHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return jsonError(c, fiber.StatusUpgradeRequired, "WebSocket upgrade required")
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	actorID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}

	detail, err := h.sessions.GetActiveSession(c.Context(), sessionID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Session not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch session")
	}

	if detail.UserID != actorID {
		manages, err := h.trainers.ManagesClient(c.Context(), actorID, detail.UserID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "Failed to check assignment")
		}
		if !manages {
			return jsonError(c, fiber.StatusNotFound, "Session not found")
		}
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	c.Locals("session_id", strconv.FormatInt(sessionID, 10))
	return c.Next()
}

func (h *LiveHandler) HandleWebSocket(conn *websocket.Conn) {
	sessionID, _ := conn.Locals("session_id").(string)
	client := livews.NewClient(h.hub, conn, sessionID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *LiveHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
