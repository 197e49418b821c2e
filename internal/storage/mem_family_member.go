package storage

import (
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func (m *Memory) CreateFamilyMember(familyID, name, color, avatarURL string) (*model.FamilyMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts := now()
	member := &model.FamilyMember{
		ID:        newID(),
		FamilyID:  familyID,
		Name:      name,
		Color:     color,
		AvatarURL: avatarURL,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	m.members[member.ID] = member
	m.track(member.ID)
	out := *member
	return &out, nil
}

func (m *Memory) ListFamilyMembers(familyID string) ([]model.FamilyMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, member := range m.members {
		if member.FamilyID == familyID {
			ids = append(ids, id)
		}
	}
	m.sortByInsertion(ids)

	members := make([]model.FamilyMember, 0, len(ids))
	for _, id := range ids {
		members = append(members, *m.members[id])
	}
	return members, nil
}

func (m *Memory) GetFamilyMember(familyID, id string) (*model.FamilyMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	member, ok := m.members[id]
	if !ok || member.FamilyID != familyID {
		return nil, nil
	}
	out := *member
	return &out, nil
}

func (m *Memory) UpdateFamilyMember(familyID, id, name, color, avatarURL string) (*model.FamilyMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	member, ok := m.members[id]
	if !ok || member.FamilyID != familyID {
		return nil, notFound("family member", id)
	}
	member.Name = name
	member.Color = color
	member.AvatarURL = avatarURL
	member.UpdatedAt = now()
	out := *member
	return &out, nil
}

// DeleteFamilyMember strips the member from every event it appears on. Events
// left with no members are deleted along with their messages and notes.
func (m *Memory) DeleteFamilyMember(familyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	member, ok := m.members[id]
	if !ok || member.FamilyID != familyID {
		return notFound("family member", id)
	}

	for _, e := range m.events {
		if e.FamilyID != familyID {
			continue
		}
		remaining := e.MemberIDs[:0:0]
		for _, memberID := range e.MemberIDs {
			if memberID != id {
				remaining = append(remaining, memberID)
			}
		}
		if len(remaining) == len(e.MemberIDs) {
			continue
		}
		if len(remaining) == 0 {
			m.deleteEventLocked(e.ID)
			continue
		}
		e.MemberIDs = remaining
	}

	delete(m.members, id)
	return nil
}
