package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
	"github.com/saeid-a/GymAppBack/internal/services"
)

type memberApplicationService interface {
	GetOrganization(ctx context.Context, organizationID int64) (*models.Organization, error)
	ListMembers(ctx context.Context, organizationID int64) ([]models.User, error)
	ListInvites(ctx context.Context, organizationID int64) ([]models.MemberInvite, error)
	InviteMember(ctx context.Context, organizationID int64, email, role string) (*models.MemberInvite, error)
	BatchInvite(ctx context.Context, organizationID int64, csvData io.Reader) ([]services.InviteResult, error)
}

type actorReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type OrganizationHandler struct {
	service  memberApplicationService
	userRepo actorReader
}

func NewOrganizationHandler(service *services.MemberService, userRepo *repository.UserRepository) *OrganizationHandler {
	return &OrganizationHandler{service: service, userRepo: userRepo}
}

type inviteMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *OrganizationHandler) GetOrganization(c *fiber.Ctx) error {
	organizationID, err := h.actorOrganization(c)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	org, err := h.service.GetOrganization(c.Context(), organizationID)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"organization": org})
}

func (h *OrganizationHandler) ListMembers(c *fiber.Ctx) error {
	organizationID, err := h.actorOrganization(c)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	members, err := h.service.ListMembers(c.Context(), organizationID)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"members": members})
}

func (h *OrganizationHandler) ListInvites(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	organizationID, err := h.actorOrganization(c)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	invites, err := h.service.ListInvites(c.Context(), organizationID)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"invites": invites})
}

func (h *OrganizationHandler) InviteMember(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	organizationID, err := h.actorOrganization(c)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	var req inviteMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	invite, err := h.service.InviteMember(c.Context(), organizationID, req.Email, req.Role)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{"invite": invite})
}

// BatchInvite imports a CSV upload of "email[,role]" rows. Rows fail
// individually; the response reports each outcome and the import never
// aborts midway.
func (h *OrganizationHandler) BatchInvite(c *fiber.Ctx) error {
	if actorRole(c) != models.RoleAdmin {
		return jsonError(c, fiber.StatusForbidden, "Forbidden")
	}

	organizationID, err := h.actorOrganization(c)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	csvData, err := h.csvBody(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Missing CSV payload")
	}

	results, err := h.service.BatchInvite(c.Context(), organizationID, csvData)
	if err != nil {
		return mapOrganizationError(c, err)
	}

	succeeded := 0
	for _, result := range results {
		if result.OK {
			succeeded++
		}
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{
		"results":   results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}

// csvBody accepts either a multipart "file" field or a raw CSV request body.
func (h *OrganizationHandler) csvBody(c *fiber.Ctx) (io.Reader, error) {
	fileHeader, err := c.FormFile("file")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}

	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty body")
	}
	return bytes.NewReader(body), nil
}

func (h *OrganizationHandler) actorOrganization(c *fiber.Ctx) (int64, error) {
	actorID, err := parseActorID(c)
	if err != nil {
		return 0, errInvalidToken
	}

	user, err := h.userRepo.GetByID(c.Context(), actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errInvalidToken
		}
		return 0, err
	}
	if user.OrganizationID == nil {
		return 0, errNoOrganization
	}
	return *user.OrganizationID, nil
}

var (
	errInvalidToken   = errors.New("invalid token")
	errNoOrganization = errors.New("user has no organization")
)

func mapOrganizationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errInvalidToken):
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	case errors.Is(err, errNoOrganization):
		return jsonError(c, fiber.StatusBadRequest, "User does not belong to an organization")
	case errors.Is(err, services.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "Organization not found")
	case errors.Is(err, services.ErrInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, "Invalid request")
	case errors.Is(err, services.ErrMailerUnavailable):
		return jsonError(c, fiber.StatusServiceUnavailable, "Email delivery is not configured")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "Failed to process organization request")
	}
}
