package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

type organizationReader interface {
	GetByID(ctx context.Context, organizationID int64) (*models.Organization, error)
}

type memberReader interface {
	ListByOrganizationID(ctx context.Context, organizationID int64) ([]models.User, error)
}

type inviteStore interface {
	Create(ctx context.Context, organizationID int64, email, token, role string) (*models.MemberInvite, error)
	GetByToken(ctx context.Context, token string) (*models.MemberInvite, error)
	MarkAccepted(ctx context.Context, inviteID int64) error
	ListByOrganizationID(ctx context.Context, organizationID int64) ([]models.MemberInvite, error)
}

type MemberService struct {
	orgRepo    organizationReader
	userRepo   memberReader
	inviteRepo inviteStore
	mailer     Mailer
}

// NewMemberService accepts a nil mailer; invites are then recorded without a
// delivery attempt and the token is returned to the caller.
func NewMemberService(
	orgRepo *repository.OrganizationRepository,
	userRepo *repository.UserRepository,
	inviteRepo *repository.MemberInviteRepository,
	mailer Mailer,
) *MemberService {
	return &MemberService{
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
		mailer:     mailer,
	}
}

func (s *MemberService) GetOrganization(ctx context.Context, organizationID int64) (*models.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, organizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *MemberService) ListMembers(ctx context.Context, organizationID int64) ([]models.User, error) {
	return s.userRepo.ListByOrganizationID(ctx, organizationID)
}

func (s *MemberService) ListInvites(ctx context.Context, organizationID int64) ([]models.MemberInvite, error) {
	return s.inviteRepo.ListByOrganizationID(ctx, organizationID)
}

func (s *MemberService) InviteMember(ctx context.Context, organizationID int64, email, role string) (*models.MemberInvite, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return nil, ErrInvalidInput
	}
	email = strings.ToLower(parsed.Address)

	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && role != models.RoleTrainer {
		return nil, ErrInvalidInput
	}

	org, err := s.GetOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	invite, err := s.inviteRepo.Create(ctx, organizationID, email, uuid.NewString(), role)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendInvite(ctx, email, org.Name, invite.Token); err != nil {
			return nil, err
		}
	}

	return invite, nil
}

// InviteResult reports the outcome for one row of a batch import.
type InviteResult struct {
	Line  int     `json:"line"`
	Email string  `json:"email"`
	OK    bool    `json:"ok"`
	Error *string `json:"error,omitempty"`
}

// BatchInvite imports a CSV of "email[,role]" rows. Individual failures are
// collected and reported per row; the import never aborts midway.
func (s *MemberService) BatchInvite(ctx context.Context, organizationID int64, csvData io.Reader) ([]InviteResult, error) {
	reader := csv.NewReader(csvData)
	reader.FieldsPerRecord = -1

	results := make([]InviteResult, 0)
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			message := err.Error()
			results = append(results, InviteResult{Line: line, OK: false, Error: &message})
			continue
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		email := strings.TrimSpace(record[0])
		role := models.RoleMember
		if len(record) > 1 && strings.TrimSpace(record[1]) != "" {
			role = strings.TrimSpace(record[1])
		}

		if _, err := s.InviteMember(ctx, organizationID, email, role); err != nil {
			message := inviteErrorMessage(err)
			results = append(results, InviteResult{Line: line, Email: email, OK: false, Error: &message})
			continue
		}
		results = append(results, InviteResult{Line: line, Email: email, OK: true})
	}

	return results, nil
}

// AcceptInvite registers the invited user inside the inviting organization.
func (s *MemberService) AcceptInvite(ctx context.Context, token string, user *models.User) (*models.MemberInvite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if invite.Status != models.InviteStatusPending {
		return nil, ErrInvalidInput
	}

	user.Email = invite.Email
	user.Role = invite.Role
	orgID := invite.OrganizationID
	user.OrganizationID = &orgID

	if err := s.inviteRepo.MarkAccepted(ctx, invite.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidInput
		}
		return nil, err
	}

	return invite, nil
}

func inviteErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid email or role"
	case errors.Is(err, ErrNotFound):
		return "organization not found"
	default:
		return fmt.Sprintf("invite failed: %v", err)
	}
}
