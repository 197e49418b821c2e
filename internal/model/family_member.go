package model

import "time"

// FamilyMember is a schedulable calendar participant (child, pet, caregiver).
// Distinct from User: a member never needs to log in.
type FamilyMember struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
