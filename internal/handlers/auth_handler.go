package handlers

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
	"github.com/saeid-a/GymAppBack/pkg/utils"
)

type AuthHandler struct {
	db        *pgxpool.Pool
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewAuthHandler(db *pgxpool.Pool, userRepo *repository.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		db:        db,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

type registerRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	OrganizationName string `json:"organization_name"`
	InviteToken      string `json:"invite_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates the user and, inside the same transaction, either founds
// a new organization (admin signup) or redeems a pending invite (member or
// trainer signup).
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid email format")
	}
	req.Email = strings.ToLower(parsedEmail.Address)
	if len(req.Password) < 8 {
		return jsonError(c, fiber.StatusBadRequest, "Password must be at least 8 characters")
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	if !models.ValidRole(req.Role) {
		return jsonError(c, fiber.StatusBadRequest, "Invalid role")
	}
	if req.Role == models.RoleAdmin && strings.TrimSpace(req.OrganizationName) == "" {
		return jsonError(c, fiber.StatusBadRequest, "organization_name is required for admin signup")
	}

	existing, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "Email already exists")
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to check email")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
	}

	tx, err := h.db.Begin(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to start registration transaction")
	}
	defer func() {
		_ = tx.Rollback(c.Context())
	}()

	txUserRepo := repository.NewUserRepository(tx)
	txOrgRepo := repository.NewOrganizationRepository(tx)
	txInviteRepo := repository.NewMemberInviteRepository(tx)

	var invite *models.MemberInvite
	if req.InviteToken != "" {
		invite, err = txInviteRepo.GetByToken(c.Context(), strings.TrimSpace(req.InviteToken))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return jsonError(c, fiber.StatusNotFound, "Invite not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "Failed to look up invite")
		}
		if invite.Status != models.InviteStatusPending {
			return jsonError(c, fiber.StatusBadRequest, "Invite is no longer valid")
		}
		if invite.Email != req.Email {
			return jsonError(c, fiber.StatusBadRequest, "Email does not match the invite")
		}
		user.Role = invite.Role
	}

	if err := txUserRepo.CreateUser(c.Context(), user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return jsonError(c, fiber.StatusConflict, "Email already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	switch {
	case invite != nil:
		if err := txUserRepo.SetOrganization(c.Context(), user.ID, invite.OrganizationID); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "Failed to join organization")
		}
		if err := txInviteRepo.MarkAccepted(c.Context(), invite.ID); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "Failed to redeem invite")
		}
		orgID := invite.OrganizationID
		user.OrganizationID = &orgID
	case user.Role == models.RoleAdmin:
		org, err := txOrgRepo.Create(c.Context(), strings.TrimSpace(req.OrganizationName), user.ID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "Failed to create organization")
		}
		if err := txUserRepo.SetOrganization(c.Context(), user.ID, org.ID); err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "Failed to join organization")
		}
		orgID := org.ID
		user.OrganizationID = &orgID
	}

	if err := tx.Commit(c.Context()); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to finalize registration")
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return jsonData(c, fiber.StatusCreated, fiber.Map{
		"token": token,
		"user":  userPayload(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	parsedEmail, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid email format")
	}
	req.Email = strings.ToLower(parsedEmail.Address)

	user, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to lookup user")
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, h.jwtSecret)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  userPayload(user),
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to fetch user")
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"user": userPayload(user)})
}

type updateProfileRequest struct {
	Phone       *string `json:"phone"`
	BillingPlan string  `json:"billing_plan"`
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseActorID(c)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "Invalid token")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) == "" {
		return jsonError(c, fiber.StatusBadRequest, "phone must not be empty")
	}

	user, err := h.userRepo.UpdateProfile(c.Context(), userID, req.Phone, req.BillingPlan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	return jsonData(c, fiber.StatusOK, fiber.Map{"user": userPayload(user)})
}

func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":              user.ID,
		"email":           user.Email,
		"phone":           user.Phone,
		"role":            user.Role,
		"organization_id": user.OrganizationID,
		"billing_plan":    user.BillingPlan,
	}
}
