package models

import "time"

type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	AdminUserID int64     `json:"admin_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusExpired  = "expired"
)

type MemberInvite struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Email          string    `json:"email"`
	Token          string    `json:"token"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
