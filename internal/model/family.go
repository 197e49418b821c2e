package model

import "time"

const (
	RoleOwner     = "owner"
	RoleMember    = "member"
	RoleCaregiver = "caregiver"
)

// Family is the tenant scope. Every other entity except User hangs off a
// family id.
type Family struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Membership links a User to a Family with a role. At most one per
// (family, user) pair.
type Membership struct {
	ID       string    `json:"id"`
	FamilyID string    `json:"family_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}
