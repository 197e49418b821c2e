package storage

import (
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func (m *Memory) UpsertUser(id, email, name, avatarURL string) (*model.User, error) {
	m.mu.Lock()

	existing := m.users[id]
	if existing == nil {
		for _, u := range m.users {
			if u.Email == email {
				existing = u
				break
			}
		}
	}

	ts := now()
	if existing != nil {
		existing.Email = email
		existing.Name = name
		existing.AvatarURL = avatarURL
		existing.UpdatedAt = ts
	} else {
		existing = &model.User{
			ID:        id,
			Email:     email,
			Name:      name,
			AvatarURL: avatarURL,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		m.users[existing.ID] = existing
		m.track(existing.ID)
	}

	hasMembership := false
	for _, mem := range m.memberships {
		if mem.UserID == existing.ID {
			hasMembership = true
			break
		}
	}
	u := *existing
	m.mu.Unlock()

	if !hasMembership {
		familyName := "Your Family"
		if u.Name != "" {
			familyName = u.Name + "'s Family"
		}
		if _, err := m.CreateFamily(familyName, u.ID); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

func (m *Memory) GetUser(id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}
