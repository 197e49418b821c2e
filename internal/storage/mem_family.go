package storage

import (
	"sort"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func (m *Memory) CreateFamily(name, creatorUserID string) (*model.Family, error) {
	m.mu.Lock()
	ts := now()
	f := &model.Family{
		ID:         newID(),
		Name:       name,
		InviteCode: newInviteCode(),
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	m.families[f.ID] = f
	m.track(f.ID)
	out := *f
	m.mu.Unlock()

	if _, err := m.AddMembership(f.ID, creatorUserID, model.RoleOwner); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Memory) GetFamily(id string) (*model.Family, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.families[id]
	if !ok {
		return nil, nil
	}
	out := *f
	return &out, nil
}

func (m *Memory) GetFamilyByInviteCode(code string) (*model.Family, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.families {
		if f.InviteCode == code {
			out := *f
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) GetUserFamilies(userID string) ([]model.Family, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var memberships []*model.Membership
	for _, mem := range m.memberships {
		if mem.UserID == userID {
			memberships = append(memberships, mem)
		}
	}
	sort.Slice(memberships, func(i, j int) bool {
		return m.ord[memberships[i].ID] < m.ord[memberships[j].ID]
	})

	var families []model.Family
	for _, mem := range memberships {
		if f, ok := m.families[mem.FamilyID]; ok {
			families = append(families, *f)
		}
	}
	return families, nil
}

func (m *Memory) ListAllFamilies() ([]model.Family, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.families))
	for id := range m.families {
		ids = append(ids, id)
	}
	m.sortByInsertion(ids)

	families := make([]model.Family, 0, len(ids))
	for _, id := range ids {
		families = append(families, *m.families[id])
	}
	return families, nil
}

func (m *Memory) AddMembership(familyID, userID, role string) (*model.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, mem := range m.memberships {
		if mem.FamilyID == familyID && mem.UserID == userID {
			out := *mem
			return &out, nil
		}
	}

	mem := &model.Membership{
		ID:       newID(),
		FamilyID: familyID,
		UserID:   userID,
		Role:     role,
		JoinedAt: now(),
	}
	m.memberships[mem.ID] = mem
	m.track(mem.ID)
	out := *mem
	return &out, nil
}

func (m *Memory) GetMembership(familyID, userID string) (*model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mem := range m.memberships {
		if mem.FamilyID == familyID && mem.UserID == userID {
			out := *mem
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListMemberships(familyID string) ([]model.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, mem := range m.memberships {
		if mem.FamilyID == familyID {
			ids = append(ids, id)
		}
	}
	m.sortByInsertion(ids)

	memberships := make([]model.Membership, 0, len(ids))
	for _, id := range ids {
		memberships = append(memberships, *m.memberships[id])
	}
	return memberships, nil
}
