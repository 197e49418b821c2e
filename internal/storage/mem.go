package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

// Memory is a mutex-guarded, map-backed engine. It holds demo data seeded at
// demo login; everything in it is lost on restart. It implements the same
// contract and the same cascade semantics as the SQLite engine.
type Memory struct {
	mu sync.RWMutex

	users          map[string]*model.User
	families       map[string]*model.Family
	memberships    map[string]*model.Membership
	members        map[string]*model.FamilyMember
	events         map[string]*model.Event
	messages       map[string]*model.Message
	eventNotes     map[string]*model.EventNote
	medications    map[string]*model.Medication
	medicationLogs map[string]*model.MedicationLog
	familyMessages map[string]*model.FamilyMessage
	payRates       map[string]*model.CaregiverPayRate
	timeEntries    map[string]*model.CaregiverTimeEntry
	sessions       map[string]*model.Session // keyed by token

	seq int64 // breaks ordering ties between writes in the same clock tick
	ord map[string]int64
}

var _ Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:          make(map[string]*model.User),
		families:       make(map[string]*model.Family),
		memberships:    make(map[string]*model.Membership),
		members:        make(map[string]*model.FamilyMember),
		events:         make(map[string]*model.Event),
		messages:       make(map[string]*model.Message),
		eventNotes:     make(map[string]*model.EventNote),
		medications:    make(map[string]*model.Medication),
		medicationLogs: make(map[string]*model.MedicationLog),
		familyMessages: make(map[string]*model.FamilyMessage),
		payRates:       make(map[string]*model.CaregiverPayRate),
		timeEntries:    make(map[string]*model.CaregiverTimeEntry),
		sessions:       make(map[string]*model.Session),
	}
}

// HasFamily reports whether the family lives in this engine. The router uses
// it to resolve which engine owns a scope.
func (m *Memory) HasFamily(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.families[id]
	return ok
}

// HasUser reports whether the user lives in this engine.
func (m *Memory) HasUser(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[id]
	return ok
}

// track records insertion order for an id. Callers hold the write lock.
func (m *Memory) track(id string) {
	if m.ord == nil {
		m.ord = make(map[string]int64)
	}
	m.seq++
	m.ord[id] = m.seq
}

// sortByInsertion orders ids the way SQLite's created_at ASC would.
func (m *Memory) sortByInsertion(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		return m.ord[ids[i]] < m.ord[ids[j]]
	})
}

func now() time.Time {
	return time.Now().UTC()
}
