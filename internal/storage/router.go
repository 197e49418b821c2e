package storage

import (
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

// Router dispatches each call to the persistent engine or the in-memory demo
// engine. User-scoped calls route on the id's demo prefix; family-scoped
// calls route on which engine owns the family. With no persistent engine
// configured (demo-only deployments) everything goes to memory.
type Router struct {
	db     Storage
	mem    *Memory
	isDemo func(userID string) bool
}

var _ Storage = (*Router)(nil)

// NewRouter builds a router over the two engines. db may be nil. isDemo may
// be nil, in which case the default demo-prefix classifier is used.
func NewRouter(db Storage, mem *Memory, isDemo func(string) bool) *Router {
	if isDemo == nil {
		isDemo = IsDemoUserID
	}
	return &Router{db: db, mem: mem, isDemo: isDemo}
}

// Mem exposes the demo engine for seeding.
func (r *Router) Mem() *Memory { return r.mem }

func (r *Router) forUser(userID string) Storage {
	if r.db == nil || r.isDemo(userID) || r.mem.HasUser(userID) {
		return r.mem
	}
	return r.db
}

func (r *Router) forFamily(familyID string) Storage {
	if r.db == nil || r.mem.HasFamily(familyID) {
		return r.mem
	}
	return r.db
}

func (r *Router) UpsertUser(id, email, name, avatarURL string) (*model.User, error) {
	return r.forUser(id).UpsertUser(id, email, name, avatarURL)
}

func (r *Router) GetUser(id string) (*model.User, error) {
	return r.forUser(id).GetUser(id)
}

func (r *Router) CreateFamily(name, creatorUserID string) (*model.Family, error) {
	return r.forUser(creatorUserID).CreateFamily(name, creatorUserID)
}

func (r *Router) GetFamily(id string) (*model.Family, error) {
	return r.forFamily(id).GetFamily(id)
}

// GetFamilyByInviteCode checks the demo engine first so a demo invite code
// resolves without touching SQLite.
func (r *Router) GetFamilyByInviteCode(code string) (*model.Family, error) {
	f, err := r.mem.GetFamilyByInviteCode(code)
	if err != nil || f != nil {
		return f, err
	}
	if r.db == nil {
		return nil, nil
	}
	return r.db.GetFamilyByInviteCode(code)
}

func (r *Router) GetUserFamilies(userID string) ([]model.Family, error) {
	return r.forUser(userID).GetUserFamilies(userID)
}

// ListAllFamilies only covers the persistent engine; demo families are
// ephemeral and excluded from reporting.
func (r *Router) ListAllFamilies() ([]model.Family, error) {
	if r.db == nil {
		return r.mem.ListAllFamilies()
	}
	return r.db.ListAllFamilies()
}

// AddMembership refuses cross-engine pairings: a demo user never gains a row
// in the persistent engine, and a persistent user never gains one in memory.
// Either mismatch resolves as if the family did not exist.
func (r *Router) AddMembership(familyID, userID, role string) (*model.Membership, error) {
	if r.db != nil && r.isDemo(userID) != r.mem.HasFamily(familyID) {
		return nil, notFound("family", familyID)
	}
	return r.forFamily(familyID).AddMembership(familyID, userID, role)
}

func (r *Router) GetMembership(familyID, userID string) (*model.Membership, error) {
	return r.forFamily(familyID).GetMembership(familyID, userID)
}

func (r *Router) ListMemberships(familyID string) ([]model.Membership, error) {
	return r.forFamily(familyID).ListMemberships(familyID)
}

func (r *Router) CreateFamilyMember(familyID, name, color, avatarURL string) (*model.FamilyMember, error) {
	return r.forFamily(familyID).CreateFamilyMember(familyID, name, color, avatarURL)
}

func (r *Router) ListFamilyMembers(familyID string) ([]model.FamilyMember, error) {
	return r.forFamily(familyID).ListFamilyMembers(familyID)
}

func (r *Router) GetFamilyMember(familyID, id string) (*model.FamilyMember, error) {
	return r.forFamily(familyID).GetFamilyMember(familyID, id)
}

func (r *Router) UpdateFamilyMember(familyID, id, name, color, avatarURL string) (*model.FamilyMember, error) {
	return r.forFamily(familyID).UpdateFamilyMember(familyID, id, name, color, avatarURL)
}

func (r *Router) DeleteFamilyMember(familyID, id string) error {
	return r.forFamily(familyID).DeleteFamilyMember(familyID, id)
}

func (r *Router) CreateEvent(familyID string, p EventParams) (*model.Event, error) {
	return r.forFamily(familyID).CreateEvent(familyID, p)
}

func (r *Router) ListEvents(familyID string) ([]model.Event, error) {
	return r.forFamily(familyID).ListEvents(familyID)
}

func (r *Router) ListEventsByRange(familyID string, start, end time.Time) ([]model.Event, error) {
	return r.forFamily(familyID).ListEventsByRange(familyID, start, end)
}

func (r *Router) GetEvent(familyID, id string) (*model.Event, error) {
	return r.forFamily(familyID).GetEvent(familyID, id)
}

func (r *Router) UpdateEvent(familyID, id string, p EventParams) (*model.Event, error) {
	return r.forFamily(familyID).UpdateEvent(familyID, id, p)
}

func (r *Router) DeleteEvent(familyID, id string) error {
	return r.forFamily(familyID).DeleteEvent(familyID, id)
}

func (r *Router) SetEventPhoto(familyID, id, photoURL string) (*model.Event, error) {
	return r.forFamily(familyID).SetEventPhoto(familyID, id, photoURL)
}

func (r *Router) ToggleEventComplete(familyID, id string) (*model.Event, error) {
	return r.forFamily(familyID).ToggleEventComplete(familyID, id)
}

func (r *Router) CreateMessage(familyID, eventID, senderID, content string) (*model.Message, error) {
	return r.forFamily(familyID).CreateMessage(familyID, eventID, senderID, content)
}

func (r *Router) ListMessages(familyID, eventID string) ([]model.Message, error) {
	return r.forFamily(familyID).ListMessages(familyID, eventID)
}

func (r *Router) DeleteMessage(familyID, id string) error {
	return r.forFamily(familyID).DeleteMessage(familyID, id)
}

func (r *Router) CreateEventNote(familyID, eventID, authorID, content string, parentNoteID *string) (*model.EventNote, error) {
	return r.forFamily(familyID).CreateEventNote(familyID, eventID, authorID, content, parentNoteID)
}

func (r *Router) ListEventNotes(familyID, eventID string) ([]model.EventNote, error) {
	return r.forFamily(familyID).ListEventNotes(familyID, eventID)
}

func (r *Router) DeleteEventNote(familyID, id string) error {
	return r.forFamily(familyID).DeleteEventNote(familyID, id)
}

func (r *Router) CreateMedication(familyID, memberID, name, dosage, schedule string) (*model.Medication, error) {
	return r.forFamily(familyID).CreateMedication(familyID, memberID, name, dosage, schedule)
}

func (r *Router) ListMedications(familyID string, activeOnly bool) ([]model.Medication, error) {
	return r.forFamily(familyID).ListMedications(familyID, activeOnly)
}

func (r *Router) GetMedication(familyID, id string) (*model.Medication, error) {
	return r.forFamily(familyID).GetMedication(familyID, id)
}

func (r *Router) UpdateMedication(familyID, id, name, dosage, schedule string) (*model.Medication, error) {
	return r.forFamily(familyID).UpdateMedication(familyID, id, name, dosage, schedule)
}

func (r *Router) DeactivateMedication(familyID, id string) error {
	return r.forFamily(familyID).DeactivateMedication(familyID, id)
}

func (r *Router) CreateMedicationLog(familyID, medicationID, givenBy, status, notes string, givenAt time.Time) (*model.MedicationLog, error) {
	return r.forFamily(familyID).CreateMedicationLog(familyID, medicationID, givenBy, status, notes, givenAt)
}

func (r *Router) ListMedicationLogs(familyID, medicationID string) ([]model.MedicationLog, error) {
	return r.forFamily(familyID).ListMedicationLogs(familyID, medicationID)
}

func (r *Router) CreateFamilyMessage(familyID, senderID, content string, parentMessageID *string) (*model.FamilyMessage, error) {
	return r.forFamily(familyID).CreateFamilyMessage(familyID, senderID, content, parentMessageID)
}

func (r *Router) ListFamilyMessages(familyID string) ([]model.FamilyMessage, error) {
	return r.forFamily(familyID).ListFamilyMessages(familyID)
}

func (r *Router) DeleteFamilyMessage(familyID, id string) error {
	return r.forFamily(familyID).DeleteFamilyMessage(familyID, id)
}

func (r *Router) SetCaregiverPayRate(familyID, caregiverID string, hourlyRate float64) (*model.CaregiverPayRate, error) {
	return r.forFamily(familyID).SetCaregiverPayRate(familyID, caregiverID, hourlyRate)
}

func (r *Router) GetCaregiverPayRate(familyID, caregiverID string) (*model.CaregiverPayRate, error) {
	return r.forFamily(familyID).GetCaregiverPayRate(familyID, caregiverID)
}

func (r *Router) CreateTimeEntry(familyID, caregiverID string, start, end time.Time, notes string) (*model.CaregiverTimeEntry, error) {
	return r.forFamily(familyID).CreateTimeEntry(familyID, caregiverID, start, end, notes)
}

func (r *Router) ListTimeEntries(familyID, caregiverID string) ([]model.CaregiverTimeEntry, error) {
	return r.forFamily(familyID).ListTimeEntries(familyID, caregiverID)
}

func (r *Router) DeleteTimeEntry(familyID, id string) error {
	return r.forFamily(familyID).DeleteTimeEntry(familyID, id)
}

// CreateSession routes on the user owning the session.
func (r *Router) CreateSession(userID string) (*model.Session, error) {
	return r.forUser(userID).CreateSession(userID)
}

// GetSessionByToken tries the demo engine first; session tokens are opaque
// and carry no routing hint.
func (r *Router) GetSessionByToken(token string) (*model.Session, error) {
	s, err := r.mem.GetSessionByToken(token)
	if err != nil || s != nil {
		return s, err
	}
	if r.db == nil {
		return nil, nil
	}
	return r.db.GetSessionByToken(token)
}

func (r *Router) DeleteSessionByToken(token string) error {
	if err := r.mem.DeleteSessionByToken(token); err != nil {
		return err
	}
	if r.db == nil {
		return nil
	}
	return r.db.DeleteSessionByToken(token)
}

func (r *Router) DeleteExpiredSessions() (int64, error) {
	n, err := r.mem.DeleteExpiredSessions()
	if err != nil {
		return n, err
	}
	if r.db == nil {
		return n, nil
	}
	dbN, err := r.db.DeleteExpiredSessions()
	return n + dbN, err
}
