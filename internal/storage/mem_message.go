package storage

import (
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func copyFamilyMessage(msg *model.FamilyMessage) *model.FamilyMessage {
	out := *msg
	if msg.ParentMessageID != nil {
		parent := *msg.ParentMessageID
		out.ParentMessageID = &parent
	}
	return &out
}

// CreateFamilyMessage threads one level deep: replying to a reply attaches to
// the top-level parent instead.
func (m *Memory) CreateFamilyMessage(familyID, senderID, content string, parentMessageID *string) (*model.FamilyMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if parentMessageID != nil {
		parent, ok := m.familyMessages[*parentMessageID]
		if !ok || parent.FamilyID != familyID {
			return nil, notFound("message", *parentMessageID)
		}
		if parent.ParentMessageID != nil {
			parentMessageID = parent.ParentMessageID
		}
	}

	msg := &model.FamilyMessage{
		ID:        newID(),
		FamilyID:  familyID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: now(),
	}
	if parentMessageID != nil {
		parent := *parentMessageID
		msg.ParentMessageID = &parent
	}
	m.familyMessages[msg.ID] = msg
	m.track(msg.ID)
	return copyFamilyMessage(msg), nil
}

func (m *Memory) ListFamilyMessages(familyID string) ([]model.FamilyMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, msg := range m.familyMessages {
		if msg.FamilyID == familyID {
			ids = append(ids, id)
		}
	}
	m.sortByInsertion(ids)

	messages := make([]model.FamilyMessage, 0, len(ids))
	for _, id := range ids {
		messages = append(messages, *copyFamilyMessage(m.familyMessages[id]))
	}
	return messages, nil
}

// DeleteFamilyMessage removes the message and its direct replies.
func (m *Memory) DeleteFamilyMessage(familyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.familyMessages[id]
	if !ok || msg.FamilyID != familyID {
		return notFound("message", id)
	}
	delete(m.familyMessages, id)
	for replyID, reply := range m.familyMessages {
		if reply.ParentMessageID != nil && *reply.ParentMessageID == id {
			delete(m.familyMessages, replyID)
		}
	}
	return nil
}
