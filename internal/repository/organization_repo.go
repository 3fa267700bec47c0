package repository

import (
	"context"

	"github.com/saeid-a/GymAppBack/internal/models"
)

type OrganizationRepository struct {
	db DBTX
}

func NewOrganizationRepository(db DBTX) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, name string, adminUserID int64) (*models.Organization, error) {
	query := `
		INSERT INTO organizations (name, admin_user_id)
		VALUES ($1, $2)
		RETURNING id, name, admin_user_id, created_at
	`
	var org models.Organization
	err := r.db.QueryRow(ctx, query, name, adminUserID).Scan(
		&org.ID,
		&org.Name,
		&org.AdminUserID,
		&org.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, organizationID int64) (*models.Organization, error) {
	query := `
		SELECT id, name, admin_user_id, created_at
		FROM organizations
		WHERE id = $1
	`
	var org models.Organization
	err := r.db.QueryRow(ctx, query, organizationID).Scan(
		&org.ID,
		&org.Name,
		&org.AdminUserID,
		&org.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
