package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func copyEvent(e *model.Event) *model.Event {
	out := *e
	out.MemberIDs = append([]string(nil), e.MemberIDs...)
	sort.Strings(out.MemberIDs)
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

func (m *Memory) CreateEvent(familyID string, p EventParams) (*model.Event, error) {
	if len(p.MemberIDs) == 0 {
		return nil, fmt.Errorf("event requires at least one member")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ts := now()
	e := &model.Event{
		ID:          newID(),
		FamilyID:    familyID,
		Title:       p.Title,
		Description: p.Description,
		StartTime:   p.StartTime.UTC(),
		EndTime:     p.EndTime.UTC(),
		Color:       p.Color,
		MemberIDs:   dedupe(p.MemberIDs),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	m.events[e.ID] = e
	m.track(e.ID)
	return copyEvent(e), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (m *Memory) ListEvents(familyID string) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []model.Event
	for _, e := range m.events {
		if e.FamilyID == familyID {
			events = append(events, *copyEvent(e))
		}
	}
	sortEvents(events)
	return events, nil
}

func (m *Memory) ListEventsByRange(familyID string, start, end time.Time) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []model.Event
	for _, e := range m.events {
		if e.FamilyID == familyID && e.StartTime.Before(end) && e.EndTime.After(start) {
			events = append(events, *copyEvent(e))
		}
	}
	sortEvents(events)
	return events, nil
}

func sortEvents(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].StartTime.Before(events[j].StartTime)
		}
		return events[i].ID < events[j].ID
	})
}

func (m *Memory) GetEvent(familyID, id string) (*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.events[id]
	if !ok || e.FamilyID != familyID {
		return nil, nil
	}
	return copyEvent(e), nil
}

func (m *Memory) UpdateEvent(familyID, id string, p EventParams) (*model.Event, error) {
	if len(p.MemberIDs) == 0 {
		return nil, fmt.Errorf("event requires at least one member")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok || e.FamilyID != familyID {
		return nil, notFound("event", id)
	}
	e.Title = p.Title
	e.Description = p.Description
	e.StartTime = p.StartTime.UTC()
	e.EndTime = p.EndTime.UTC()
	e.Color = p.Color
	e.MemberIDs = dedupe(p.MemberIDs)
	e.UpdatedAt = now()
	return copyEvent(e), nil
}

func (m *Memory) DeleteEvent(familyID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok || e.FamilyID != familyID {
		return notFound("event", id)
	}
	m.deleteEventLocked(id)
	return nil
}

// deleteEventLocked removes the event and its messages and notes. Callers
// hold the write lock.
func (m *Memory) deleteEventLocked(id string) {
	for msgID, msg := range m.messages {
		if msg.EventID == id {
			delete(m.messages, msgID)
		}
	}
	for noteID, note := range m.eventNotes {
		if note.EventID == id {
			delete(m.eventNotes, noteID)
		}
	}
	delete(m.events, id)
}

func (m *Memory) SetEventPhoto(familyID, id, photoURL string) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok || e.FamilyID != familyID {
		return nil, notFound("event", id)
	}
	e.PhotoURL = photoURL
	e.UpdatedAt = now()
	return copyEvent(e), nil
}

func (m *Memory) ToggleEventComplete(familyID, id string) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok || e.FamilyID != familyID {
		return nil, notFound("event", id)
	}
	if e.Completed {
		e.Completed = false
		e.CompletedAt = nil
	} else {
		ts := now()
		e.Completed = true
		e.CompletedAt = &ts
	}
	e.UpdatedAt = now()
	return copyEvent(e), nil
}
