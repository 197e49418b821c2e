package storage

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func (m *Memory) SetCaregiverPayRate(familyID, caregiverID string, hourlyRate float64) (*model.CaregiverPayRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.payRates {
		if r.FamilyID == familyID && r.CaregiverID == caregiverID {
			r.HourlyRate = hourlyRate
			r.UpdatedAt = now()
			out := *r
			return &out, nil
		}
	}

	ts := now()
	r := &model.CaregiverPayRate{
		ID:          newID(),
		FamilyID:    familyID,
		CaregiverID: caregiverID,
		HourlyRate:  hourlyRate,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	m.payRates[r.ID] = r
	m.track(r.ID)
	out := *r
	return &out, nil
}

func (m *Memory) GetCaregiverPayRate(familyID, caregiverID string) (*model.CaregiverPayRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.payRates {
		if r.FamilyID == familyID && r.CaregiverID == caregiverID {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

// CreateTimeEntry snapshots the caregiver's current hourly rate into the
// entry. Pay is rounded to the cent. A caregiver with no rate set logs at
// rate zero.
func (m *Memory) CreateTimeEntry(familyID, caregiverID string, start, end time.Time, notes string) (*model.CaregiverTimeEntry, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("time entry end must be after start")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var hourlyRate float64
	for _, r := range m.payRates {
		if r.FamilyID == familyID && r.CaregiverID == caregiverID {
			hourlyRate = r.HourlyRate
			break
		}
	}

	hours := end.Sub(start).Hours()
	e := &model.CaregiverTimeEntry{
		ID:               newID(),
		FamilyID:         familyID,
		CaregiverID:      caregiverID,
		StartTime:        start.UTC(),
		EndTime:          end.UTC(),
		Hours:            hours,
		HourlyRateAtTime: hourlyRate,
		CalculatedPay:    math.Round(hours*hourlyRate*100) / 100,
		Notes:            notes,
		CreatedAt:        now(),
	}
	m.timeEntries[e.ID] = e
	m.track(e.ID)
	out := *e
	return &out, nil
}

func (m *Memory) ListTimeEntries(familyID, caregiverID string) ([]model.CaregiverTimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []model.CaregiverTimeEntry
	for _, e := range m.timeEntries {
		if e.FamilyID == familyID && e.CaregiverID == caregiverID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].StartTime.Equal(entries[j].StartTime) {
			return entries[i].StartTime.After(entries[j].StartTime)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (m *Memory) DeleteTimeEntry(familyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.timeEntries[id]
	if !ok || e.FamilyID != familyID {
		return notFound("time entry", id)
	}
	delete(m.timeEntries, id)
	return nil
}
