package model

import "time"

// Medication is a prescription tied to a family member. Deletion is a soft
// delete (IsActive=false) so administration history survives.
type Medication struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	MemberID  string    `json:"member_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Schedule  string    `json:"schedule"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MedicationLog records one administration: who gave it, when, and whether it
// was given, skipped, or refused.
type MedicationLog struct {
	ID           string    `json:"id"`
	FamilyID     string    `json:"family_id"`
	MedicationID string    `json:"medication_id"`
	GivenBy      string    `json:"given_by"`
	GivenAt      time.Time `json:"given_at"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
