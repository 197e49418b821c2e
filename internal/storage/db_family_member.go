package storage

import (
	"database/sql"
	"fmt"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func scanFamilyMember(scanner interface{ Scan(...any) error }) (*model.FamilyMember, error) {
	var m model.FamilyMember
	err := scanner.Scan(&m.ID, &m.FamilyID, &m.Name, &m.Color, &m.AvatarURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const familyMemberCols = `id, family_id, name, color, avatar_url, created_at, updated_at`

func (s *DB) CreateFamilyMember(familyID, name, color, avatarURL string) (*model.FamilyMember, error) {
	id := newID()
	_, err := s.db.Exec(
		`INSERT INTO family_members (id, family_id, name, color, avatar_url) VALUES (?, ?, ?, ?, ?)`,
		id, familyID, name, color, avatarURL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family member: %w", err)
	}
	return s.GetFamilyMember(familyID, id)
}

func (s *DB) ListFamilyMembers(familyID string) ([]model.FamilyMember, error) {
	rows, err := s.db.Query(
		`SELECT `+familyMemberCols+` FROM family_members WHERE family_id = ? ORDER BY created_at ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	defer rows.Close()

	var members []model.FamilyMember
	for rows.Next() {
		m, err := scanFamilyMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *DB) GetFamilyMember(familyID, id string) (*model.FamilyMember, error) {
	row := s.db.QueryRow(
		`SELECT `+familyMemberCols+` FROM family_members WHERE id = ? AND family_id = ?`,
		id, familyID,
	)
	m, err := scanFamilyMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family member: %w", err)
	}
	return m, nil
}

func (s *DB) UpdateFamilyMember(familyID, id, name, color, avatarURL string) (*model.FamilyMember, error) {
	result, err := s.db.Exec(
		`UPDATE family_members SET name = ?, color = ?, avatar_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND family_id = ?`,
		name, color, avatarURL, id, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("update family member: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound("family member", id)
	}
	return s.GetFamilyMember(familyID, id)
}

// DeleteFamilyMember strips the member from every event it appears on. Events
// left with no members are deleted along with their messages and notes.
func (s *DB) DeleteFamilyMember(familyID, id string) error {
	member, err := s.GetFamilyMember(familyID, id)
	if err != nil {
		return err
	}
	if member == nil {
		return notFound("family member", id)
	}

	rows, err := s.db.Query(
		`SELECT em.event_id FROM event_members em
		 JOIN events e ON e.id = em.event_id
		 WHERE em.member_id = ? AND e.family_id = ?`,
		id, familyID,
	)
	if err != nil {
		return fmt.Errorf("list member events: %w", err)
	}
	var eventIDs []string
	for rows.Next() {
		var eventID string
		if err := rows.Scan(&eventID); err != nil {
			rows.Close()
			return fmt.Errorf("scan event id: %w", err)
		}
		eventIDs = append(eventIDs, eventID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, eventID := range eventIDs {
		var remaining int
		err := s.db.QueryRow(
			`SELECT COUNT(*) FROM event_members WHERE event_id = ? AND member_id != ?`,
			eventID, id,
		).Scan(&remaining)
		if err != nil {
			return fmt.Errorf("count remaining members: %w", err)
		}
		if remaining == 0 {
			if err := s.DeleteEvent(familyID, eventID); err != nil {
				return err
			}
			continue
		}
		if _, err := s.db.Exec(
			`DELETE FROM event_members WHERE event_id = ? AND member_id = ?`,
			eventID, id,
		); err != nil {
			return fmt.Errorf("remove event member: %w", err)
		}
	}

	if _, err := s.db.Exec(
		`DELETE FROM family_members WHERE id = ? AND family_id = ?`,
		id, familyID,
	); err != nil {
		return fmt.Errorf("delete family member: %w", err)
	}
	return nil
}
