package storage

import (
	"database/sql"
	"fmt"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, email, name, avatar_url, created_at, updated_at`

// UpsertUser resolves the identity by primary key first, falling back to the
// unique email so a returning user with a reissued subject id does not get a
// duplicate row. First login with no memberships auto-provisions a personal
// family with an owner membership.
func (s *DB) UpsertUser(id, email, name, avatarURL string) (*model.User, error) {
	existing, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = s.getUserByEmail(email)
		if err != nil {
			return nil, err
		}
	}

	if existing != nil {
		_, err = s.db.Exec(
			`UPDATE users SET email = ?, name = ?, avatar_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			email, name, avatarURL, existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	} else {
		_, err = s.db.Exec(
			`INSERT INTO users (id, email, name, avatar_url) VALUES (?, ?, ?, ?)`,
			id, email, name, avatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		existing = &model.User{ID: id}
	}

	u, err := s.GetUser(existing.ID)
	if err != nil {
		return nil, err
	}

	if err := s.ensurePersonalFamily(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *DB) ensurePersonalFamily(u *model.User) error {
	families, err := s.GetUserFamilies(u.ID)
	if err != nil {
		return err
	}
	if len(families) > 0 {
		return nil
	}
	name := "Your Family"
	if u.Name != "" {
		name = u.Name + "'s Family"
	}
	_, err = s.CreateFamily(name, u.ID)
	return err
}

func (s *DB) GetUser(id string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *DB) getUserByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}
