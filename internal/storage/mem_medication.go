package storage

import (
	"sort"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func (m *Memory) CreateMedication(familyID, memberID, name, dosage, schedule string) (*model.Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	member, ok := m.members[memberID]
	if !ok || member.FamilyID != familyID {
		return nil, notFound("family member", memberID)
	}

	ts := now()
	med := &model.Medication{
		ID:        newID(),
		FamilyID:  familyID,
		MemberID:  memberID,
		Name:      name,
		Dosage:    dosage,
		Schedule:  schedule,
		IsActive:  true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	m.medications[med.ID] = med
	m.track(med.ID)
	out := *med
	return &out, nil
}

func (m *Memory) ListMedications(familyID string, activeOnly bool) ([]model.Medication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, med := range m.medications {
		if med.FamilyID != familyID {
			continue
		}
		if activeOnly && !med.IsActive {
			continue
		}
		ids = append(ids, id)
	}
	m.sortByInsertion(ids)

	medications := make([]model.Medication, 0, len(ids))
	for _, id := range ids {
		medications = append(medications, *m.medications[id])
	}
	return medications, nil
}

func (m *Memory) GetMedication(familyID, id string) (*model.Medication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	med, ok := m.medications[id]
	if !ok || med.FamilyID != familyID {
		return nil, nil
	}
	out := *med
	return &out, nil
}

func (m *Memory) UpdateMedication(familyID, id, name, dosage, schedule string) (*model.Medication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	med, ok := m.medications[id]
	if !ok || med.FamilyID != familyID {
		return nil, notFound("medication", id)
	}
	med.Name = name
	med.Dosage = dosage
	med.Schedule = schedule
	med.UpdatedAt = now()
	out := *med
	return &out, nil
}

// DeactivateMedication is a soft delete: the entry stays so administration
// history keeps its reference.
func (m *Memory) DeactivateMedication(familyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	med, ok := m.medications[id]
	if !ok || med.FamilyID != familyID {
		return notFound("medication", id)
	}
	med.IsActive = false
	med.UpdatedAt = now()
	return nil
}

func (m *Memory) CreateMedicationLog(familyID, medicationID, givenBy, status, notes string, givenAt time.Time) (*model.MedicationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	med, ok := m.medications[medicationID]
	if !ok || med.FamilyID != familyID {
		return nil, notFound("medication", medicationID)
	}

	l := &model.MedicationLog{
		ID:           newID(),
		FamilyID:     familyID,
		MedicationID: medicationID,
		GivenBy:      givenBy,
		GivenAt:      givenAt.UTC(),
		Status:       status,
		Notes:        notes,
		CreatedAt:    now(),
	}
	m.medicationLogs[l.ID] = l
	m.track(l.ID)
	out := *l
	return &out, nil
}

func (m *Memory) ListMedicationLogs(familyID, medicationID string) ([]model.MedicationLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var logs []model.MedicationLog
	for _, l := range m.medicationLogs {
		if l.FamilyID == familyID && l.MedicationID == medicationID {
			logs = append(logs, *l)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].GivenAt.Equal(logs[j].GivenAt) {
			return logs[i].GivenAt.After(logs[j].GivenAt)
		}
		return logs[i].ID < logs[j].ID
	})
	return logs, nil
}
