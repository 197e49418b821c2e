package storage

import (
	"database/sql"
	"fmt"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func scanFamily(scanner interface{ Scan(...any) error }) (*model.Family, error) {
	var f model.Family
	err := scanner.Scan(&f.ID, &f.Name, &f.InviteCode, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanMembership(scanner interface{ Scan(...any) error }) (*model.Membership, error) {
	var m model.Membership
	err := scanner.Scan(&m.ID, &m.FamilyID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const familyCols = `id, name, invite_code, created_at, updated_at`
const membershipCols = `id, family_id, user_id, role, joined_at`

// CreateFamily creates a family with a fresh invite code and makes the
// creator its owner.
func (s *DB) CreateFamily(name, creatorUserID string) (*model.Family, error) {
	id := newID()
	_, err := s.db.Exec(
		`INSERT INTO families (id, name, invite_code) VALUES (?, ?, ?)`,
		id, name, newInviteCode(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}
	if _, err := s.AddMembership(id, creatorUserID, model.RoleOwner); err != nil {
		return nil, err
	}
	return s.GetFamily(id)
}

func (s *DB) GetFamily(id string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

func (s *DB) GetFamilyByInviteCode(code string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE invite_code = ?`, code)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family by invite code: %w", err)
	}
	return f, nil
}

func (s *DB) GetUserFamilies(userID string) ([]model.Family, error) {
	rows, err := s.db.Query(
		`SELECT f.id, f.name, f.invite_code, f.created_at, f.updated_at
		 FROM families f
		 JOIN memberships m ON f.id = m.family_id
		 WHERE m.user_id = ?
		 ORDER BY m.joined_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user families: %w", err)
	}
	defer rows.Close()

	var families []model.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		families = append(families, *f)
	}
	return families, rows.Err()
}

func (s *DB) ListAllFamilies() ([]model.Family, error) {
	rows, err := s.db.Query(`SELECT ` + familyCols + ` FROM families ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	defer rows.Close()

	var families []model.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		families = append(families, *f)
	}
	return families, rows.Err()
}

// AddMembership is idempotent for an existing (family, user) pair: the
// existing membership is returned unchanged.
func (s *DB) AddMembership(familyID, userID, role string) (*model.Membership, error) {
	existing, err := s.GetMembership(familyID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	id := newID()
	_, err = s.db.Exec(
		`INSERT INTO memberships (id, family_id, user_id, role) VALUES (?, ?, ?, ?)`,
		id, familyID, userID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert membership: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+membershipCols+` FROM memberships WHERE id = ?`, id)
	return scanMembership(row)
}

func (s *DB) GetMembership(familyID, userID string) (*model.Membership, error) {
	row := s.db.QueryRow(
		`SELECT `+membershipCols+` FROM memberships WHERE family_id = ? AND user_id = ?`,
		familyID, userID,
	)
	m, err := scanMembership(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

func (s *DB) ListMemberships(familyID string) ([]model.Membership, error) {
	rows, err := s.db.Query(
		`SELECT `+membershipCols+` FROM memberships WHERE family_id = ? ORDER BY joined_at ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, *m)
	}
	return memberships, rows.Err()
}
