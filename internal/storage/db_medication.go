package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func scanMedication(scanner interface{ Scan(...any) error }) (*model.Medication, error) {
	var m model.Medication
	var active int
	err := scanner.Scan(&m.ID, &m.FamilyID, &m.MemberID, &m.Name, &m.Dosage, &m.Schedule, &active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.IsActive = active != 0
	return &m, nil
}

func scanMedicationLog(scanner interface{ Scan(...any) error }) (*model.MedicationLog, error) {
	var l model.MedicationLog
	err := scanner.Scan(&l.ID, &l.FamilyID, &l.MedicationID, &l.GivenBy, &l.GivenAt, &l.Status, &l.Notes, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const medicationCols = `id, family_id, member_id, name, dosage, schedule, is_active, created_at, updated_at`
const medicationLogCols = `id, family_id, medication_id, given_by, given_at, status, notes, created_at`

func (s *DB) CreateMedication(familyID, memberID, name, dosage, schedule string) (*model.Medication, error) {
	member, err := s.GetFamilyMember(familyID, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, notFound("family member", memberID)
	}

	id := newID()
	_, err = s.db.Exec(
		`INSERT INTO medications (id, family_id, member_id, name, dosage, schedule) VALUES (?, ?, ?, ?, ?, ?)`,
		id, familyID, memberID, name, dosage, schedule,
	)
	if err != nil {
		return nil, fmt.Errorf("insert medication: %w", err)
	}
	return s.GetMedication(familyID, id)
}

func (s *DB) ListMedications(familyID string, activeOnly bool) ([]model.Medication, error) {
	query := `SELECT ` + medicationCols + ` FROM medications WHERE family_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var medications []model.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		medications = append(medications, *m)
	}
	return medications, rows.Err()
}

func (s *DB) GetMedication(familyID, id string) (*model.Medication, error) {
	row := s.db.QueryRow(
		`SELECT `+medicationCols+` FROM medications WHERE id = ? AND family_id = ?`,
		id, familyID,
	)
	m, err := scanMedication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return m, nil
}

func (s *DB) UpdateMedication(familyID, id, name, dosage, schedule string) (*model.Medication, error) {
	result, err := s.db.Exec(
		`UPDATE medications SET name = ?, dosage = ?, schedule = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND family_id = ?`,
		name, dosage, schedule, id, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("update medication: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound("medication", id)
	}
	return s.GetMedication(familyID, id)
}

// DeactivateMedication is a soft delete: the row stays so administration
// history keeps its reference.
func (s *DB) DeactivateMedication(familyID, id string) error {
	result, err := s.db.Exec(
		`UPDATE medications SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND family_id = ?`,
		id, familyID,
	)
	if err != nil {
		return fmt.Errorf("deactivate medication: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("medication", id)
	}
	return nil
}

func (s *DB) CreateMedicationLog(familyID, medicationID, givenBy, status, notes string, givenAt time.Time) (*model.MedicationLog, error) {
	medication, err := s.GetMedication(familyID, medicationID)
	if err != nil {
		return nil, err
	}
	if medication == nil {
		return nil, notFound("medication", medicationID)
	}

	id := newID()
	_, err = s.db.Exec(
		`INSERT INTO medication_logs (id, family_id, medication_id, given_by, given_at, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, familyID, medicationID, givenBy, givenAt.UTC(), status, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert medication log: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+medicationLogCols+` FROM medication_logs WHERE id = ?`, id)
	return scanMedicationLog(row)
}

func (s *DB) ListMedicationLogs(familyID, medicationID string) ([]model.MedicationLog, error) {
	rows, err := s.db.Query(
		`SELECT `+medicationLogCols+` FROM medication_logs
		 WHERE medication_id = ? AND family_id = ? ORDER BY given_at DESC`,
		medicationID, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list medication logs: %w", err)
	}
	defer rows.Close()

	var logs []model.MedicationLog
	for rows.Next() {
		l, err := scanMedicationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}
