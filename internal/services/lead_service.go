package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/facebook"
	"github.com/saeid-a/GymAppBack/internal/models"
	"github.com/saeid-a/GymAppBack/internal/repository"
)

// TODO(leads): the webhook cannot tell which organization a Facebook page
// belongs to yet, so ingested leads land in organization 1. Needs a
// page-id -> organization mapping table.
const fallbackLeadOrganizationID = 1

type leadStore interface {
	Create(ctx context.Context, input repository.CreateLeadInput) (*models.Lead, error)
	UpsertByExternalID(ctx context.Context, input repository.CreateLeadInput) (*models.Lead, error)
	GetByID(ctx context.Context, leadID int64) (*models.Lead, error)
	List(ctx context.Context, filter repository.LeadListFilter) ([]models.Lead, error)
	UpdateStatus(ctx context.Context, leadID int64, status string) (*models.Lead, error)
}

type leadDetailFetcher interface {
	GetLeadDetail(ctx context.Context, leadgenID string) (*facebook.LeadDetail, error)
}

type LeadService struct {
	leadRepo leadStore
	graph    leadDetailFetcher
}

func NewLeadService(leadRepo *repository.LeadRepository, graph leadDetailFetcher) *LeadService {
	return &LeadService{leadRepo: leadRepo, graph: graph}
}

type CreateLeadInput struct {
	Source string
	Name   string
	Email  *string
	Phone  *string
	Notes  *string
}

func (s *LeadService) CreateLead(ctx context.Context, organizationID int64, input CreateLeadInput) (*models.Lead, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = "manual"
	}
	return s.leadRepo.Create(ctx, repository.CreateLeadInput{
		OrganizationID: organizationID,
		Source:         source,
		Status:         models.LeadStatusNew,
		Name:           name,
		Email:          input.Email,
		Phone:          input.Phone,
		Notes:          input.Notes,
	})
}

func (s *LeadService) ListLeads(ctx context.Context, organizationID int64, status, source string) ([]models.Lead, error) {
	if status != "" && !models.ValidLeadStatus(status) {
		return nil, ErrInvalidInput
	}
	return s.leadRepo.List(ctx, repository.LeadListFilter{
		OrganizationID: organizationID,
		Status:         status,
		Source:         source,
	})
}

func (s *LeadService) UpdateLeadStatus(ctx context.Context, organizationID, leadID int64, status string) (*models.Lead, error) {
	if !models.ValidLeadStatus(status) {
		return nil, ErrInvalidInput
	}
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoAccess
		}
		return nil, err
	}
	if lead.OrganizationID != organizationID {
		return nil, ErrNoAccess
	}
	return s.leadRepo.UpdateStatus(ctx, leadID, status)
}

// IngestFacebookLead pulls the full lead detail for one leadgen id and
// upserts it, so webhook redeliveries update in place.
func (s *LeadService) IngestFacebookLead(ctx context.Context, leadgenID string) (*models.Lead, error) {
	if s.graph == nil {
		return nil, ErrInvalidInput
	}

	detail, err := s.graph.GetLeadDetail(ctx, leadgenID)
	if err != nil {
		return nil, err
	}

	name := detail.FullName()
	if name == "" {
		name = "Facebook lead " + detail.ID
	}

	input := repository.CreateLeadInput{
		OrganizationID: fallbackLeadOrganizationID,
		Source:         "facebook",
		Status:         models.LeadStatusNew,
		Name:           name,
		ExternalID:     &detail.ID,
	}
	if email := detail.Email(); email != "" {
		input.Email = &email
	}
	if phone := detail.Phone(); phone != "" {
		input.Phone = &phone
	}

	return s.leadRepo.UpsertByExternalID(ctx, input)
}
