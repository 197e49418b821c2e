package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/auth"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture is a memory-backed environment with an owner and their family.
type fixture struct {
	store  *storage.Memory
	hub    *websocket.Hub
	owner  *model.User
	family *model.Family
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := storage.NewMemory()
	owner, err := mem.UpsertUser("user-owner", "owner@example.com", "Owner", "")
	if err != nil {
		t.Fatalf("upsert owner: %v", err)
	}
	families, err := mem.GetUserFamilies(owner.ID)
	if err != nil || len(families) != 1 {
		t.Fatalf("owner families: %v %v", families, err)
	}
	return &fixture{
		store:  mem,
		hub:    websocket.NewHub(testLogger()),
		owner:  owner,
		family: &families[0],
	}
}

// addUser creates a user plus a membership in the fixture family.
func (f *fixture) addUser(t *testing.T, id, role string) *model.User {
	t.Helper()
	u, err := f.store.UpsertUser(id, id+"@example.com", id, "")
	if err != nil {
		t.Fatalf("upsert %s: %v", id, err)
	}
	if _, err := f.store.AddMembership(f.family.ID, u.ID, role); err != nil {
		t.Fatalf("add membership %s: %v", id, err)
	}
	return u
}

// request builds an authenticated JSON request.
func (f *fixture) request(t *testing.T, userID, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	if userID != "" {
		r = r.WithContext(auth.WithAuth(r.Context(), auth.AuthContext{UserID: userID, SessionID: "sess-test"}))
	}
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}
