package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/GymAppBack/internal/models"
)

type MemberInviteRepository struct {
	db DBTX
}

func NewMemberInviteRepository(db DBTX) *MemberInviteRepository {
	return &MemberInviteRepository{db: db}
}

func (r *MemberInviteRepository) Create(ctx context.Context, organizationID int64, email, token, role string) (*models.MemberInvite, error) {
	query := `
		INSERT INTO member_invites (organization_id, email, token, role, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, organization_id, email, token, role, status, created_at
	`
	return r.scanOne(r.db.QueryRow(ctx, query, organizationID, email, token, role))
}

func (r *MemberInviteRepository) GetByToken(ctx context.Context, token string) (*models.MemberInvite, error) {
	query := `
		SELECT id, organization_id, email, token, role, status, created_at
		FROM member_invites
		WHERE token = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, token))
}

func (r *MemberInviteRepository) MarkAccepted(ctx context.Context, inviteID int64) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE member_invites SET status = 'accepted' WHERE id = $1 AND status = 'pending'`,
		inviteID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *MemberInviteRepository) ListByOrganizationID(ctx context.Context, organizationID int64) ([]models.MemberInvite, error) {
	query := `
		SELECT id, organization_id, email, token, role, status, created_at
		FROM member_invites
		WHERE organization_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := make([]models.MemberInvite, 0)
	for rows.Next() {
		var invite models.MemberInvite
		if err := rows.Scan(
			&invite.ID,
			&invite.OrganizationID,
			&invite.Email,
			&invite.Token,
			&invite.Role,
			&invite.Status,
			&invite.CreatedAt,
		); err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return invites, nil
}

func (r *MemberInviteRepository) scanOne(row pgx.Row) (*models.MemberInvite, error) {
	var invite models.MemberInvite
	err := row.Scan(
		&invite.ID,
		&invite.OrganizationID,
		&invite.Email,
		&invite.Token,
		&invite.Role,
		&invite.Status,
		&invite.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}
