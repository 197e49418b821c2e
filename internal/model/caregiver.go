package model

import "time"

// CaregiverPayRate is the current hourly rate for a caregiver in a family.
// One row per (family, caregiver); updated in place.
type CaregiverPayRate struct {
	ID          string    `json:"id"`
	FamilyID    string    `json:"family_id"`
	CaregiverID string    `json:"caregiver_id"`
	HourlyRate  float64   `json:"hourly_rate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CaregiverTimeEntry is a logged work session. HourlyRateAtTime and
// CalculatedPay are snapshots taken at creation; later rate changes must not
// alter them.
type CaregiverTimeEntry struct {
	ID               string    `json:"id"`
	FamilyID         string    `json:"family_id"`
	CaregiverID      string    `json:"caregiver_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Hours            float64   `json:"hours"`
	HourlyRateAtTime float64   `json:"hourly_rate_at_time"`
	CalculatedPay    float64   `json:"calculated_pay"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
}
