package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func (s *DB) scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var completed int
	var completedAt sql.NullTime

	err := scanner.Scan(
		&e.ID, &e.FamilyID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.Color, &e.PhotoURL, &completed, &completedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Completed = completed != 0
	if completedAt.Valid {
		e.CompletedAt = &completedAt.Time
	}
	return &e, nil
}

const eventCols = `id, family_id, title, description, start_time, end_time, color, photo_url, completed, completed_at, created_at, updated_at`

func (s *DB) loadEventMembers(e *model.Event) error {
	rows, err := s.db.Query(`SELECT member_id FROM event_members WHERE event_id = ? ORDER BY member_id`, e.ID)
	if err != nil {
		return fmt.Errorf("load event members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID string
		if err := rows.Scan(&memberID); err != nil {
			return fmt.Errorf("scan member id: %w", err)
		}
		e.MemberIDs = append(e.MemberIDs, memberID)
	}
	return rows.Err()
}

func (s *DB) CreateEvent(familyID string, p EventParams) (*model.Event, error) {
	if len(p.MemberIDs) == 0 {
		return nil, fmt.Errorf("event requires at least one member")
	}

	id := newID()
	_, err := s.db.Exec(
		`INSERT INTO events (id, family_id, title, description, start_time, end_time, color)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, familyID, p.Title, p.Description, p.StartTime.UTC(), p.EndTime.UTC(), p.Color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	if err := s.replaceEventMembers(id, p.MemberIDs); err != nil {
		return nil, err
	}
	return s.GetEvent(familyID, id)
}

func (s *DB) replaceEventMembers(eventID string, memberIDs []string) error {
	if _, err := s.db.Exec(`DELETE FROM event_members WHERE event_id = ?`, eventID); err != nil {
		return fmt.Errorf("clear event members: %w", err)
	}
	for _, memberID := range memberIDs {
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO event_members (event_id, member_id) VALUES (?, ?)`,
			eventID, memberID,
		); err != nil {
			return fmt.Errorf("insert event member: %w", err)
		}
	}
	return nil
}

func (s *DB) ListEvents(familyID string) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events WHERE family_id = ? ORDER BY start_time ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return s.collectEvents(rows)
}

func (s *DB) ListEventsByRange(familyID string, start, end time.Time) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events
		 WHERE family_id = ? AND start_time < ? AND end_time > ?
		 ORDER BY start_time ASC`,
		familyID, end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list events by range: %w", err)
	}
	return s.collectEvents(rows)
}

func (s *DB) collectEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := s.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range events {
		if err := s.loadEventMembers(&events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *DB) GetEvent(familyID, id string) (*model.Event, error) {
	row := s.db.QueryRow(
		`SELECT `+eventCols+` FROM events WHERE id = ? AND family_id = ?`,
		id, familyID,
	)
	e, err := s.scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.loadEventMembers(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *DB) UpdateEvent(familyID, id string, p EventParams) (*model.Event, error) {
	if len(p.MemberIDs) == 0 {
		return nil, fmt.Errorf("event requires at least one member")
	}

	result, err := s.db.Exec(
		`UPDATE events
		 SET title = ?, description = ?, start_time = ?, end_time = ?, color = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND family_id = ?`,
		p.Title, p.Description, p.StartTime.UTC(), p.EndTime.UTC(), p.Color, id, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound("event", id)
	}
	if err := s.replaceEventMembers(id, p.MemberIDs); err != nil {
		return nil, err
	}
	return s.GetEvent(familyID, id)
}

// DeleteEvent removes the event's messages, notes, and member links before the
// event row itself. The statements run sequentially, not in one transaction.
func (s *DB) DeleteEvent(familyID, id string) error {
	event, err := s.GetEvent(familyID, id)
	if err != nil {
		return err
	}
	if event == nil {
		return notFound("event", id)
	}

	if _, err := s.db.Exec(`DELETE FROM messages WHERE event_id = ? AND family_id = ?`, id, familyID); err != nil {
		return fmt.Errorf("delete event messages: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM event_notes WHERE event_id = ? AND family_id = ?`, id, familyID); err != nil {
		return fmt.Errorf("delete event notes: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM event_members WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("delete event members: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM events WHERE id = ? AND family_id = ?`, id, familyID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *DB) SetEventPhoto(familyID, id, photoURL string) (*model.Event, error) {
	result, err := s.db.Exec(
		`UPDATE events SET photo_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND family_id = ?`,
		photoURL, id, familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("set event photo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, notFound("event", id)
	}
	return s.GetEvent(familyID, id)
}

// ToggleEventComplete flips the completion flag, stamping completed_at on
// completion and clearing it on the way back.
func (s *DB) ToggleEventComplete(familyID, id string) (*model.Event, error) {
	event, err := s.GetEvent(familyID, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, notFound("event", id)
	}

	if event.Completed {
		_, err = s.db.Exec(
			`UPDATE events SET completed = 0, completed_at = NULL, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND family_id = ?`,
			id, familyID,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE events SET completed = 1, completed_at = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND family_id = ?`,
			time.Now().UTC(), id, familyID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle event complete: %w", err)
	}
	return s.GetEvent(familyID, id)
}
