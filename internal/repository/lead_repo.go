package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type CreateLeadInput struct {
	OrganizationID int64
	Source         string
	Status         string
	Name           string
	Email          *string
	Phone          *string
	Notes          *string
	ExternalID     *string
}

type LeadListFilter struct {
	OrganizationID int64
	Status         string
	Source         string
}

type LeadRepository struct {
	db DBTX
}

func NewLeadRepository(db DBTX) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, input CreateLeadInput) (*models.Lead, error) {
	query := `
		INSERT INTO leads (organization_id, source, status, name, email, phone, notes, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, organization_id, source, status, name, email, phone, notes, external_id, created_at, updated_at
	`
	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		input.OrganizationID,
		input.Source,
		input.Status,
		input.Name,
		input.Email,
		input.Phone,
		input.Notes,
		input.ExternalID,
	))
}

// UpsertByExternalID keeps webhook ingestion idempotent: redelivered lead
// events update the existing row keyed by the provider's lead id.
func (r *LeadRepository) UpsertByExternalID(ctx context.Context, input CreateLeadInput) (*models.Lead, error) {
	query := `
		INSERT INTO leads (organization_id, source, status, name, email, phone, notes, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id)
		DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone, updated_at = NOW()
		RETURNING id, organization_id, source, status, name, email, phone, notes, external_id, created_at, updated_at
	`
	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		input.OrganizationID,
		input.Source,
		input.Status,
		input.Name,
		input.Email,
		input.Phone,
		input.Notes,
		input.ExternalID,
	))
}

func (r *LeadRepository) GetByID(ctx context.Context, leadID int64) (*models.Lead, error) {
	query := `
		SELECT id, organization_id, source, status, name, email, phone, notes, external_id, created_at, updated_at
		FROM leads
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, leadID))
}

func (r *LeadRepository) List(ctx context.Context, filter LeadListFilter) ([]models.Lead, error) {
	args := []any{filter.OrganizationID}
	whereParts := []string{"organization_id = $1"}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}
	if source := strings.TrimSpace(filter.Source); source != "" {
		args = append(args, source)
		whereParts = append(whereParts, fmt.Sprintf("source = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, organization_id, source, status, name, email, phone, notes, external_id, created_at, updated_at
		FROM leads
		WHERE %s
		ORDER BY created_at DESC, id DESC
	`, strings.Join(whereParts, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]models.Lead, 0)
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.OrganizationID,
			&lead.Source,
			&lead.Status,
			&lead.Name,
			&lead.Email,
			&lead.Phone,
			&lead.Notes,
			&lead.ExternalID,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return leads, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, leadID int64, status string) (*models.Lead, error) {
	query := `
		UPDATE leads
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, organization_id, source, status, name, email, phone, notes, external_id, created_at, updated_at
	`
	return r.scanOne(r.db.QueryRow(ctx, query, leadID, status))
}

func (r *LeadRepository) scanOne(row pgx.Row) (*models.Lead, error) {
	var lead models.Lead
	err := row.Scan(
		&lead.ID,
		&lead.OrganizationID,
		&lead.Source,
		&lead.Status,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Notes,
		&lead.ExternalID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}
