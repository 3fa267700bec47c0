package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type stubOrgReader struct {
	org *models.Organization
	err error
}

func (s *stubOrgReader) GetByID(_ context.Context, organizationID int64) (*models.Organization, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.org, nil
}

type stubMemberReader struct{}

func (s *stubMemberReader) ListByOrganizationID(_ context.Context, organizationID int64) ([]models.User, error) {
	return nil, nil
}

type stubInviteStore struct {
	invites  []*models.MemberInvite
	byToken  map[string]*models.MemberInvite
	accepted []int64
}

func (s *stubInviteStore) Create(_ context.Context, organizationID int64, email, token, role string) (*models.MemberInvite, error) {
	invite := &models.MemberInvite{
		ID:             int64(len(s.invites) + 1),
		OrganizationID: organizationID,
		Email:          email,
		Token:          token,
		Role:           role,
		Status:         models.InviteStatusPending,
	}
	s.invites = append(s.invites, invite)
	return invite, nil
}

func (s *stubInviteStore) GetByToken(_ context.Context, token string) (*models.MemberInvite, error) {
	invite, ok := s.byToken[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return invite, nil
}

func (s *stubInviteStore) MarkAccepted(_ context.Context, inviteID int64) error {
	s.accepted = append(s.accepted, inviteID)
	return nil
}

func (s *stubInviteStore) ListByOrganizationID(_ context.Context, organizationID int64) ([]models.MemberInvite, error) {
	out := make([]models.MemberInvite, 0, len(s.invites))
	for _, invite := range s.invites {
		out = append(out, *invite)
	}
	return out, nil
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendInvite(_ context.Context, email, organizationName, token string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func newMemberServiceForTest(invites *stubInviteStore, mailer Mailer) *MemberService {
	return &MemberService{
		orgRepo:    &stubOrgReader{org: &models.Organization{ID: 1, Name: "Iron Temple"}},
		userRepo:   &stubMemberReader{},
		inviteRepo: invites,
		mailer:     mailer,
	}
}

func TestInviteMemberNormalizesEmailAndDefaultsRole(t *testing.T) {
	invites := &stubInviteStore{}
	mailer := &recordingMailer{}
	service := newMemberServiceForTest(invites, mailer)

	invite, err := service.InviteMember(context.Background(), 1, "  New.Member@Example.COM ", "")
	if err != nil {
		t.Fatalf("InviteMember: %v", err)
	}
	if invite.Email != "new.member@example.com" {
		t.Fatalf("expected lowercased email, got %q", invite.Email)
	}
	if invite.Role != models.RoleMember {
		t.Fatalf("expected default role member, got %q", invite.Role)
	}
	if invite.Token == "" {
		t.Fatal("expected a generated token")
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(mailer.sent))
	}
}

func TestInviteMemberRejectsUnknownRole(t *testing.T) {
	service := newMemberServiceForTest(&stubInviteStore{}, nil)

	if _, err := service.InviteMember(context.Background(), 1, "someone@example.com", "owner"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBatchInviteContinuesPastFailures(t *testing.T) {
	invites := &stubInviteStore{}
	service := newMemberServiceForTest(invites, nil)

	csvData := strings.NewReader(strings.Join([]string{
		"alice@example.com,member",
		"not-an-email",
		"bob@example.com,trainer",
		"carol@example.com,owner",
		"dave@example.com",
	}, "\n"))

	results, err := service.BatchInvite(context.Background(), 1, csvData)
	if err != nil {
		t.Fatalf("BatchInvite: %v", err)
	}

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}

	ok := 0
	for _, result := range results {
		if result.OK {
			ok++
		} else if result.Error == nil {
			t.Fatalf("failed row %d has no error message", result.Line)
		}
	}
	if ok != 3 {
		t.Fatalf("expected 3 successes, got %d", ok)
	}
	if results[1].OK {
		t.Fatal("expected row 2 to fail")
	}
	if len(invites.invites) != 3 {
		t.Fatalf("expected 3 invites written, got %d", len(invites.invites))
	}
}

func TestAcceptInviteAssignsOrganizationAndRole(t *testing.T) {
	invite := &models.MemberInvite{
		ID:             9,
		OrganizationID: 1,
		Email:          "alice@example.com",
		Token:          "tok-123",
		Role:           models.RoleTrainer,
		Status:         models.InviteStatusPending,
	}
	invites := &stubInviteStore{byToken: map[string]*models.MemberInvite{"tok-123": invite}}
	service := newMemberServiceForTest(invites, nil)

	user := &models.User{}
	if _, err := service.AcceptInvite(context.Background(), "tok-123", user); err != nil {
		t.Fatalf("AcceptInvite: %v", err)
	}

	if user.Email != "alice@example.com" || user.Role != models.RoleTrainer {
		t.Fatalf("unexpected user after accept: %#v", user)
	}
	if user.OrganizationID == nil || *user.OrganizationID != 1 {
		t.Fatalf("expected organization 1, got %v", user.OrganizationID)
	}
	if len(invites.accepted) != 1 || invites.accepted[0] != 9 {
		t.Fatalf("expected invite 9 marked accepted, got %v", invites.accepted)
	}
}

func TestAcceptInviteRejectsNonPending(t *testing.T) {
	invite := &models.MemberInvite{ID: 9, Token: "tok-123", Status: models.InviteStatusAccepted}
	invites := &stubInviteStore{byToken: map[string]*models.MemberInvite{"tok-123": invite}}
	service := newMemberServiceForTest(invites, nil)

	if _, err := service.AcceptInvite(context.Background(), "tok-123", &models.User{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
