package storage

import (
	"database/sql"
	"fmt"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func scanFamilyMessage(scanner interface{ Scan(...any) error }) (*model.FamilyMessage, error) {
	var m model.FamilyMessage
	var parent sql.NullString
	err := scanner.Scan(&m.ID, &m.FamilyID, &m.SenderID, &m.Content, &parent, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		m.ParentMessageID = &parent.String
	}
	return &m, nil
}

const familyMessageCols = `id, family_id, sender_id, content, parent_message_id, created_at`

// CreateFamilyMessage threads one level deep: replying to a reply attaches to
// the top-level parent instead.
func (s *DB) CreateFamilyMessage(familyID, senderID, content string, parentMessageID *string) (*model.FamilyMessage, error) {
	if parentMessageID != nil {
		row := s.db.QueryRow(
			`SELECT `+familyMessageCols+` FROM family_messages WHERE id = ? AND family_id = ?`,
			*parentMessageID, familyID,
		)
		parent, err := scanFamilyMessage(row)
		if err == sql.ErrNoRows {
			return nil, notFound("message", *parentMessageID)
		}
		if err != nil {
			return nil, fmt.Errorf("get parent message: %w", err)
		}
		if parent.ParentMessageID != nil {
			parentMessageID = parent.ParentMessageID
		}
	}

	id := newID()
	var parent sql.NullString
	if parentMessageID != nil {
		parent = sql.NullString{String: *parentMessageID, Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO family_messages (id, family_id, sender_id, content, parent_message_id) VALUES (?, ?, ?, ?, ?)`,
		id, familyID, senderID, content, parent,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family message: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+familyMessageCols+` FROM family_messages WHERE id = ?`, id)
	return scanFamilyMessage(row)
}

func (s *DB) ListFamilyMessages(familyID string) ([]model.FamilyMessage, error) {
	rows, err := s.db.Query(
		`SELECT `+familyMessageCols+` FROM family_messages WHERE family_id = ? ORDER BY created_at ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list family messages: %w", err)
	}
	defer rows.Close()

	var messages []model.FamilyMessage
	for rows.Next() {
		m, err := scanFamilyMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// DeleteFamilyMessage removes the message and its direct replies.
func (s *DB) DeleteFamilyMessage(familyID, id string) error {
	result, err := s.db.Exec(`DELETE FROM family_messages WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete family message: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("message", id)
	}
	if _, err := s.db.Exec(`DELETE FROM family_messages WHERE parent_message_id = ? AND family_id = ?`, id, familyID); err != nil {
		return fmt.Errorf("delete message replies: %w", err)
	}
	return nil
}
