package storage

import (
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

func (m *Memory) CreateSession(userID string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ts := now()
	s := &model.Session{
		ID:        newID(),
		Token:     newSessionToken(),
		UserID:    userID,
		ExpiresAt: ts.Add(SessionTTL),
		CreatedAt: ts,
	}
	m.sessions[s.Token] = s
	out := *s
	return &out, nil
}

// GetSessionByToken treats an expired session as a miss.
func (m *Memory) GetSessionByToken(token string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok || !s.ExpiresAt.After(time.Now().UTC()) {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (m *Memory) DeleteSessionByToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *Memory) DeleteExpiredSessions() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC()
	var n int64
	for token, s := range m.sessions {
		if !s.ExpiresAt.After(cutoff) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}
