package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/GymAppBack/internal/facebook"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/services"
)

type leadIngestor interface {
	IngestFacebookLead(ctx context.Context, leadgenID string) (*models.Lead, error)
}

type WebhookHandler struct {
	service     leadIngestor
	verifyToken string
}

func NewWebhookHandler(service *services.LeadService, verifyToken string) *WebhookHandler {
	return &WebhookHandler{service: service, verifyToken: verifyToken}
}

// Verify answers the Lead Ads subscription handshake: echo the challenge
// when the verify token matches, 403 otherwise.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	return c.Status(fiber.StatusForbidden).SendString("Forbidden")
}

// Receive ingests every leadgen id in the payload. Individual lead failures
// are logged and skipped; Facebook retries the whole delivery on non-200, so
// a partially processed payload still acknowledges.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload facebook.WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if payload.Object != "page" {
		return jsonError(c, fiber.StatusBadRequest, "Unsupported webhook object")
	}

	ingested := 0
	for _, leadgenID := range payload.LeadgenIDs() {
		if _, err := h.service.IngestFacebookLead(c.Context(), leadgenID); err != nil {
			log.Printf("webhook: ingest lead %s: %v", leadgenID, err)
			continue
		}
		ingested++
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"ingested": ingested})
}
