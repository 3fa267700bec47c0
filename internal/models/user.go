package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleMember  = "member"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	BillingPlan    string    `json:"billing_plan"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTrainer || role == RoleMember
}
