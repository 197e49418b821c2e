package storage

import (
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func (m *Memory) CreateMessage(familyID, eventID, senderID, content string) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[eventID]
	if !ok || e.FamilyID != familyID {
		return nil, notFound("event", eventID)
	}

	msg := &model.Message{
		ID:        newID(),
		FamilyID:  familyID,
		EventID:   eventID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: now(),
	}
	m.messages[msg.ID] = msg
	m.track(msg.ID)
	out := *msg
	return &out, nil
}

func (m *Memory) ListMessages(familyID, eventID string) ([]model.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, msg := range m.messages {
		if msg.FamilyID == familyID && msg.EventID == eventID {
			ids = append(ids, id)
		}
	}
	m.sortByInsertion(ids)

	messages := make([]model.Message, 0, len(ids))
	for _, id := range ids {
		messages = append(messages, *m.messages[id])
	}
	return messages, nil
}

func (m *Memory) DeleteMessage(familyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages[id]
	if !ok || msg.FamilyID != familyID {
		return notFound("message", id)
	}
	delete(m.messages, id)
	return nil
}

func copyEventNote(n *model.EventNote) *model.EventNote {
	out := *n
	if n.ParentNoteID != nil {
		parent := *n.ParentNoteID
		out.ParentNoteID = &parent
	}
	return &out
}

// CreateEventNote validates that a reply's parent belongs to the same event.
// Replies to replies are flattened onto the parent (one level of nesting).
func (m *Memory) CreateEventNote(familyID, eventID, authorID, content string, parentNoteID *string) (*model.EventNote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[eventID]
	if !ok || e.FamilyID != familyID {
		return nil, notFound("event", eventID)
	}

	if parentNoteID != nil {
		parent, ok := m.eventNotes[*parentNoteID]
		if !ok || parent.FamilyID != familyID || parent.EventID != eventID {
			return nil, notFound("note", *parentNoteID)
		}
		if parent.ParentNoteID != nil {
			parentNoteID = parent.ParentNoteID
		}
	}

	n := &model.EventNote{
		ID:        newID(),
		FamilyID:  familyID,
		EventID:   eventID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now(),
	}
	if parentNoteID != nil {
		parent := *parentNoteID
		n.ParentNoteID = &parent
	}
	m.eventNotes[n.ID] = n
	m.track(n.ID)
	return copyEventNote(n), nil
}

func (m *Memory) ListEventNotes(familyID, eventID string) ([]model.EventNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, n := range m.eventNotes {
		if n.FamilyID == familyID && n.EventID == eventID {
			ids = append(ids, id)
		}
	}
	m.sortByInsertion(ids)

	notes := make([]model.EventNote, 0, len(ids))
	for _, id := range ids {
		notes = append(notes, *copyEventNote(m.eventNotes[id]))
	}
	return notes, nil
}

// DeleteEventNote removes the note and its direct replies.
func (m *Memory) DeleteEventNote(familyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.eventNotes[id]
	if !ok || n.FamilyID != familyID {
		return notFound("note", id)
	}
	delete(m.eventNotes, id)
	for replyID, reply := range m.eventNotes {
		if reply.ParentNoteID != nil && *reply.ParentNoteID == id {
			delete(m.eventNotes, replyID)
		}
	}
	return nil
}
