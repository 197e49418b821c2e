// Package storage defines the family-scoped storage contract and its two
// engines: a SQLite-backed engine and an in-memory engine for demo identities.
// Every targeted operation takes the owning scope id alongside the entity id,
// so a call can never reach another family's rows.
package storage

import (
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

// EventParams carries the writable fields of an event.
type EventParams struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Color       string
	MemberIDs   []string
}

// Storage is the capability contract implemented by DB, Memory, and Router.
// Lookups return (nil, nil) on a miss; targeted mutations and deletes return
// a NotFoundError when the id does not resolve inside the given scope.
type Storage interface {
	// Users. UpsertUser resolves by id first, then by unique email, and
	// auto-provisions a personal family with an owner membership on first
	// login with no memberships.
	UpsertUser(id, email, name, avatarURL string) (*model.User, error)
	GetUser(id string) (*model.User, error)

	// Families and memberships.
	CreateFamily(name, creatorUserID string) (*model.Family, error)
	GetFamily(id string) (*model.Family, error)
	GetFamilyByInviteCode(code string) (*model.Family, error)
	GetUserFamilies(userID string) ([]model.Family, error)
	ListAllFamilies() ([]model.Family, error)
	AddMembership(familyID, userID, role string) (*model.Membership, error)
	GetMembership(familyID, userID string) (*model.Membership, error)
	ListMemberships(familyID string) ([]model.Membership, error)

	// Family members.
	CreateFamilyMember(familyID, name, color, avatarURL string) (*model.FamilyMember, error)
	ListFamilyMembers(familyID string) ([]model.FamilyMember, error)
	GetFamilyMember(familyID, id string) (*model.FamilyMember, error)
	UpdateFamilyMember(familyID, id, name, color, avatarURL string) (*model.FamilyMember, error)
	DeleteFamilyMember(familyID, id string) error

	// Events.
	CreateEvent(familyID string, p EventParams) (*model.Event, error)
	ListEvents(familyID string) ([]model.Event, error)
	ListEventsByRange(familyID string, start, end time.Time) ([]model.Event, error)
	GetEvent(familyID, id string) (*model.Event, error)
	UpdateEvent(familyID, id string, p EventParams) (*model.Event, error)
	DeleteEvent(familyID, id string) error
	SetEventPhoto(familyID, id, photoURL string) (*model.Event, error)
	ToggleEventComplete(familyID, id string) (*model.Event, error)

	// Event messages.
	CreateMessage(familyID, eventID, senderID, content string) (*model.Message, error)
	ListMessages(familyID, eventID string) ([]model.Message, error)
	DeleteMessage(familyID, id string) error

	// Event notes.
	CreateEventNote(familyID, eventID, authorID, content string, parentNoteID *string) (*model.EventNote, error)
	ListEventNotes(familyID, eventID string) ([]model.EventNote, error)
	DeleteEventNote(familyID, id string) error

	// Medications. DeactivateMedication is a soft delete.
	CreateMedication(familyID, memberID, name, dosage, schedule string) (*model.Medication, error)
	ListMedications(familyID string, activeOnly bool) ([]model.Medication, error)
	GetMedication(familyID, id string) (*model.Medication, error)
	UpdateMedication(familyID, id, name, dosage, schedule string) (*model.Medication, error)
	DeactivateMedication(familyID, id string) error
	CreateMedicationLog(familyID, medicationID, givenBy, status, notes string, givenAt time.Time) (*model.MedicationLog, error)
	ListMedicationLogs(familyID, medicationID string) ([]model.MedicationLog, error)

	// Family messages.
	CreateFamilyMessage(familyID, senderID, content string, parentMessageID *string) (*model.FamilyMessage, error)
	ListFamilyMessages(familyID string) ([]model.FamilyMessage, error)
	DeleteFamilyMessage(familyID, id string) error

	// Caregiver pay. CreateTimeEntry snapshots the caregiver's current rate.
	SetCaregiverPayRate(familyID, caregiverID string, hourlyRate float64) (*model.CaregiverPayRate, error)
	GetCaregiverPayRate(familyID, caregiverID string) (*model.CaregiverPayRate, error)
	CreateTimeEntry(familyID, caregiverID string, start, end time.Time, notes string) (*model.CaregiverTimeEntry, error)
	ListTimeEntries(familyID, caregiverID string) ([]model.CaregiverTimeEntry, error)
	DeleteTimeEntry(familyID, id string) error

	// Sessions.
	CreateSession(userID string) (*model.Session, error)
	GetSessionByToken(token string) (*model.Session, error)
	DeleteSessionByToken(token string) error
	DeleteExpiredSessions() (int64, error)
}

// SessionTTL is how long a login session stays valid.
const SessionTTL = 7 * 24 * time.Hour
