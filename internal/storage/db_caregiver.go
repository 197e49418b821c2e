package storage

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func scanPayRate(scanner interface{ Scan(...any) error }) (*model.CaregiverPayRate, error) {
	var r model.CaregiverPayRate
	err := scanner.Scan(&r.ID, &r.FamilyID, &r.CaregiverID, &r.HourlyRate, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanTimeEntry(scanner interface{ Scan(...any) error }) (*model.CaregiverTimeEntry, error) {
	var e model.CaregiverTimeEntry
	err := scanner.Scan(
		&e.ID, &e.FamilyID, &e.CaregiverID, &e.StartTime, &e.EndTime,
		&e.Hours, &e.HourlyRateAtTime, &e.CalculatedPay, &e.Notes, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const payRateCols = `id, family_id, caregiver_id, hourly_rate, created_at, updated_at`
const timeEntryCols = `id, family_id, caregiver_id, start_time, end_time, hours, hourly_rate_at_time, calculated_pay, notes, created_at`

// SetCaregiverPayRate updates the rate in place when one exists for the
// caregiver, otherwise inserts a new row. Existing time entries keep their
// snapshotted rates.
func (s *DB) SetCaregiverPayRate(familyID, caregiverID string, hourlyRate float64) (*model.CaregiverPayRate, error) {
	result, err := s.db.Exec(
		`UPDATE caregiver_pay_rates SET hourly_rate = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE family_id = ? AND caregiver_id = ?`,
		hourlyRate, familyID, caregiverID,
	)
	if err != nil {
		return nil, fmt.Errorf("update pay rate: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		id := newID()
		_, err = s.db.Exec(
			`INSERT INTO caregiver_pay_rates (id, family_id, caregiver_id, hourly_rate) VALUES (?, ?, ?, ?)`,
			id, familyID, caregiverID, hourlyRate,
		)
		if err != nil {
			return nil, fmt.Errorf("insert pay rate: %w", err)
		}
	}
	return s.GetCaregiverPayRate(familyID, caregiverID)
}

func (s *DB) GetCaregiverPayRate(familyID, caregiverID string) (*model.CaregiverPayRate, error) {
	row := s.db.QueryRow(
		`SELECT `+payRateCols+` FROM caregiver_pay_rates WHERE family_id = ? AND caregiver_id = ?`,
		familyID, caregiverID,
	)
	r, err := scanPayRate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pay rate: %w", err)
	}
	return r, nil
}

// CreateTimeEntry snapshots the caregiver's current hourly rate into the
// entry. Pay is rounded to the cent. A caregiver with no rate set logs at
// rate zero.
func (s *DB) CreateTimeEntry(familyID, caregiverID string, start, end time.Time, notes string) (*model.CaregiverTimeEntry, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("time entry end must be after start")
	}

	rate, err := s.GetCaregiverPayRate(familyID, caregiverID)
	if err != nil {
		return nil, err
	}
	var hourlyRate float64
	if rate != nil {
		hourlyRate = rate.HourlyRate
	}

	hours := end.Sub(start).Hours()
	pay := math.Round(hours*hourlyRate*100) / 100

	id := newID()
	_, err = s.db.Exec(
		`INSERT INTO caregiver_time_entries
		 (id, family_id, caregiver_id, start_time, end_time, hours, hourly_rate_at_time, calculated_pay, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, familyID, caregiverID, start.UTC(), end.UTC(), hours, hourlyRate, pay, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert time entry: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+timeEntryCols+` FROM caregiver_time_entries WHERE id = ?`, id)
	return scanTimeEntry(row)
}

func (s *DB) ListTimeEntries(familyID, caregiverID string) ([]model.CaregiverTimeEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+timeEntryCols+` FROM caregiver_time_entries
		 WHERE family_id = ? AND caregiver_id = ? ORDER BY start_time DESC`,
		familyID, caregiverID,
	)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []model.CaregiverTimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *DB) DeleteTimeEntry(familyID, id string) error {
	result, err := s.db.Exec(`DELETE FROM caregiver_time_entries WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("time entry", id)
	}
	return nil
}
