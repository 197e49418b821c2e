package storage

import (
	"database/sql"
	"fmt"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func scanMessage(scanner interface{ Scan(...any) error }) (*model.Message, error) {
	var m model.Message
	err := scanner.Scan(&m.ID, &m.FamilyID, &m.EventID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanEventNote(scanner interface{ Scan(...any) error }) (*model.EventNote, error) {
	var n model.EventNote
	var parent sql.NullString
	err := scanner.Scan(&n.ID, &n.FamilyID, &n.EventID, &n.AuthorID, &n.Content, &parent, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		n.ParentNoteID = &parent.String
	}
	return &n, nil
}

const messageCols = `id, family_id, event_id, sender_id, content, created_at`
const eventNoteCols = `id, family_id, event_id, author_id, content, parent_note_id, created_at`

func (s *DB) CreateMessage(familyID, eventID, senderID, content string) (*model.Message, error) {
	event, err := s.GetEvent(familyID, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, notFound("event", eventID)
	}

	id := newID()
	_, err = s.db.Exec(
		`INSERT INTO messages (id, family_id, event_id, sender_id, content) VALUES (?, ?, ?, ?, ?)`,
		id, familyID, eventID, senderID, content,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+messageCols+` FROM messages WHERE id = ?`, id)
	return scanMessage(row)
}

func (s *DB) ListMessages(familyID, eventID string) ([]model.Message, error) {
	rows, err := s.db.Query(
		`SELECT `+messageCols+` FROM messages WHERE event_id = ? AND family_id = ? ORDER BY created_at ASC`,
		eventID, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func (s *DB) DeleteMessage(familyID, id string) error {
	result, err := s.db.Exec(`DELETE FROM messages WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("message", id)
	}
	return nil
}

// CreateEventNote validates that a reply's parent belongs to the same event.
// Replies to replies are flattened onto the parent (one level of nesting).
func (s *DB) CreateEventNote(familyID, eventID, authorID, content string, parentNoteID *string) (*model.EventNote, error) {
	event, err := s.GetEvent(familyID, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, notFound("event", eventID)
	}

	if parentNoteID != nil {
		row := s.db.QueryRow(
			`SELECT `+eventNoteCols+` FROM event_notes WHERE id = ? AND event_id = ? AND family_id = ?`,
			*parentNoteID, eventID, familyID,
		)
		parent, err := scanEventNote(row)
		if err == sql.ErrNoRows {
			return nil, notFound("note", *parentNoteID)
		}
		if err != nil {
			return nil, fmt.Errorf("get parent note: %w", err)
		}
		if parent.ParentNoteID != nil {
			parentNoteID = parent.ParentNoteID
		}
	}

	id := newID()
	var parent sql.NullString
	if parentNoteID != nil {
		parent = sql.NullString{String: *parentNoteID, Valid: true}
	}
	_, err = s.db.Exec(
		`INSERT INTO event_notes (id, family_id, event_id, author_id, content, parent_note_id) VALUES (?, ?, ?, ?, ?, ?)`,
		id, familyID, eventID, authorID, content, parent,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event note: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+eventNoteCols+` FROM event_notes WHERE id = ?`, id)
	return scanEventNote(row)
}

func (s *DB) ListEventNotes(familyID, eventID string) ([]model.EventNote, error) {
	rows, err := s.db.Query(
		`SELECT `+eventNoteCols+` FROM event_notes WHERE event_id = ? AND family_id = ? ORDER BY created_at ASC`,
		eventID, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list event notes: %w", err)
	}
	defer rows.Close()

	var notes []model.EventNote
	for rows.Next() {
		n, err := scanEventNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

// DeleteEventNote removes the note and its direct replies.
func (s *DB) DeleteEventNote(familyID, id string) error {
	result, err := s.db.Exec(`DELETE FROM event_notes WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete event note: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("note", id)
	}
	if _, err := s.db.Exec(`DELETE FROM event_notes WHERE parent_note_id = ? AND family_id = ?`, id, familyID); err != nil {
		return fmt.Errorf("delete note replies: %w", err)
	}
	return nil
}
