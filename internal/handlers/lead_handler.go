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

type leadApplicationService interface {
	CreateLead(ctx context.Context, organizationID int64, input services.CreateLeadInput) (*models.Lead, error)
	ListLeads(ctx context.Context, organizationID int64, status, source string) ([]models.Lead, error)
	UpdateLeadStatus(ctx context.Context, organizationID, leadID int64, status string) (*models.Lead, error)
}

type LeadHandler struct {
	service  leadApplicationService
	userRepo actorReader
}

func NewLeadHandler(service *services.LeadService, userRepo *repository.UserRepository) *LeadHandler {
	return &LeadHandler{service: service, userRepo: userRepo}
}

type createLeadRequest struct {
	Source string  `json:"source"`
	Name   string  `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Notes  *string `json:"notes"`
}

type updateLeadStatusRequest struct {
	Status string `json:"status"`
}

func (h *LeadHandler) CreateLead(c *fiber.Ctx) error {
	organizationID, err := h.actorOrganization(c)
	if err != nil {
		return mapLeadError(c, err)
	}

	var req createLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	lead, err := h.service.CreateLead(c.Context(), organizationID, services.CreateLeadInput{
		Source: req.Source,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Notes:  req.Notes,
	})
	if err != nil {
		return mapLeadError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"lead": lead})
}

func (h *LeadHandler) ListLeads(c *fiber.Ctx) error {
	organizationID, err := h.actorOrganization(c)
	if err != nil {
		return mapLeadError(c, err)
	}

	leads, err := h.service.ListLeads(
		c.Context(),
		organizationID,
		strings.TrimSpace(c.Query("status")),
		strings.TrimSpace(c.Query("source")),
	)
	if err != nil {
		return mapLeadError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"leads": leads})
}

func (h *LeadHandler) UpdateLeadStatus(c *fiber.Ctx) error {
	organizationID, err := h.actorOrganization(c)
	if err != nil {
		return mapLeadError(c, err)
	}

	leadID, err := parseIDParam(c, "id")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid lead id")
	}

	var req updateLeadStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	lead, err := h.service.UpdateLeadStatus(c.Context(), organizationID, leadID, req.Status)
	if err != nil {
		return mapLeadError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"lead": lead})
}

func (h *LeadHandler) actorOrganization(c *fiber.Ctx) (int64, error) {
	actorID, err := parseActorID(c)
	if err != nil {
		return 0, errInvalidToken
	}

	user, err := h.userRepo.GetByID(c.Context(), actorID)
	if err != nil {
		return 0, errInvalidToken
	}
	if user.OrganizationID == nil {
		return 0, errNoOrganization
	}
	return *user.OrganizationID, nil
}

func mapLeadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errInvalidToken):
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	case errors.Is(err, errNoOrganization):
		return jsonError(c, fiber.StatusBadRequest, "User does not belong to an organization")
	case errors.Is(err, services.ErrNoAccess):
		return jsonError(c, fiber.StatusNotFound, "Lead not found")
	case errors.Is(err, services.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, "Invalid request")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "Failed to process lead request")
	}
}
