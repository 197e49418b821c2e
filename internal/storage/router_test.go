package storage_test

import (
	"testing"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/database"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

func setupRouter(t *testing.T) (*storage.Router, *storage.DB, *storage.Memory) {
	t.Helper()
	sqlDB, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db := storage.NewDB(sqlDB)
	mem := storage.NewMemory()
	return storage.NewRouter(db, mem, nil), db, mem
}

func TestRouterSplitsByDemoPrefix(t *testing.T) {
	r, db, mem := setupRouter(t)

	real, err := r.UpsertUser("user-alice", "alice@example.com", "Alice", "")
	if err != nil {
		t.Fatalf("upsert real user: %v", err)
	}
	demoID := storage.NewDemoUserID()
	if _, err := storage.SeedDemo(mem, demoID); err != nil {
		t.Fatalf("seed demo: %v", err)
	}

	// The real identity lives in SQLite only.
	if u, _ := db.GetUser(real.ID); u == nil {
		t.Error("real user missing from sqlite")
	}
	if u, _ := mem.GetUser(real.ID); u != nil {
		t.Error("real user leaked into memory engine")
	}

	// The demo identity lives in memory only.
	if u, _ := r.GetUser(demoID); u == nil {
		t.Error("router cannot resolve demo user")
	}
	if u, _ := db.GetUser(demoID); u != nil {
		t.Error("demo user leaked into sqlite")
	}
}

func TestRouterFamilyResidence(t *testing.T) {
	r, db, mem := setupRouter(t)

	real, _ := r.UpsertUser("user-alice", "alice@example.com", "Alice", "")
	realFams, _ := r.GetUserFamilies(real.ID)
	realFam := realFams[0]

	demoID := storage.NewDemoUserID()
	demoFam, err := storage.SeedDemo(mem, demoID)
	if err != nil {
		t.Fatalf("seed demo: %v", err)
	}

	// Family-scoped calls land on whichever engine owns the family.
	if _, err := r.CreateFamilyMember(demoFam.ID, "Milo", "#3b82f6", ""); err != nil {
		t.Fatalf("create demo member: %v", err)
	}
	if members, _ := db.ListFamilyMembers(demoFam.ID); len(members) != 0 {
		t.Error("demo member written to sqlite")
	}

	if _, err := r.CreateFamilyMember(realFam.ID, "Emma", "#f59e0b", ""); err != nil {
		t.Fatalf("create real member: %v", err)
	}
	if members, _ := db.ListFamilyMembers(realFam.ID); len(members) != 1 {
		t.Error("real member missing from sqlite")
	}
}

func TestRouterInviteCodeAcrossEngines(t *testing.T) {
	r, _, mem := setupRouter(t)

	real, _ := r.UpsertUser("user-alice", "alice@example.com", "Alice", "")
	realFams, _ := r.GetUserFamilies(real.ID)

	demoID := storage.NewDemoUserID()
	demoFam, _ := storage.SeedDemo(mem, demoID)
	demoFamFull, _ := mem.GetFamily(demoFam.ID)

	if f, _ := r.GetFamilyByInviteCode(realFams[0].InviteCode); f == nil || f.ID != realFams[0].ID {
		t.Error("router cannot resolve sqlite invite code")
	}
	if f, _ := r.GetFamilyByInviteCode(demoFamFull.InviteCode); f == nil || f.ID != demoFam.ID {
		t.Error("router cannot resolve demo invite code")
	}
}

func TestRouterSessionsAcrossEngines(t *testing.T) {
	r, _, mem := setupRouter(t)

	real, _ := r.UpsertUser("user-alice", "alice@example.com", "Alice", "")
	demoID := storage.NewDemoUserID()
	if _, err := storage.SeedDemo(mem, demoID); err != nil {
		t.Fatalf("seed demo: %v", err)
	}

	realSess, err := r.CreateSession(real.ID)
	if err != nil {
		t.Fatalf("create real session: %v", err)
	}
	demoSess, err := r.CreateSession(demoID)
	if err != nil {
		t.Fatalf("create demo session: %v", err)
	}

	// Tokens carry no engine hint; the router checks both.
	if s, _ := r.GetSessionByToken(realSess.Token); s == nil || s.UserID != real.ID {
		t.Error("router cannot resolve sqlite session")
	}
	if s, _ := r.GetSessionByToken(demoSess.Token); s == nil || s.UserID != demoID {
		t.Error("router cannot resolve demo session")
	}

	if err := r.DeleteSessionByToken(demoSess.Token); err != nil {
		t.Fatalf("delete demo session: %v", err)
	}
	if s, _ := r.GetSessionByToken(demoSess.Token); s != nil {
		t.Error("demo session survived delete")
	}
}

// Memberships never pair a demo identity with a persistent family or a
// persistent identity with a demo family, no matter whose invite code leaks
// across the boundary.
func TestRouterAddMembershipRefusesCrossEngine(t *testing.T) {
	r, db, mem := setupRouter(t)

	real, _ := r.UpsertUser("user-alice", "alice@example.com", "Alice", "")
	realFams, _ := r.GetUserFamilies(real.ID)
	realFam := realFams[0]

	demoID := storage.NewDemoUserID()
	demoFam, err := storage.SeedDemo(mem, demoID)
	if err != nil {
		t.Fatalf("seed demo: %v", err)
	}

	// Demo user holding a persistent family's invite must not land in SQLite.
	if _, err := r.AddMembership(realFam.ID, demoID, model.RoleMember); !storage.IsNotFound(err) {
		t.Errorf("demo join of sqlite family err = %v, want NotFoundError", err)
	}
	if m, _ := db.GetMembership(realFam.ID, demoID); m != nil {
		t.Errorf("demo membership persisted in sqlite: %+v", m)
	}

	// And the converse: a persistent user never lands in memory.
	if _, err := r.AddMembership(demoFam.ID, real.ID, model.RoleMember); !storage.IsNotFound(err) {
		t.Errorf("real join of demo family err = %v, want NotFoundError", err)
	}
	if m, _ := mem.GetMembership(demoFam.ID, real.ID); m != nil {
		t.Errorf("real membership written to memory: %+v", m)
	}

	// Same-engine joins still work.
	bob, _ := r.UpsertUser("user-bob", "bob@example.com", "Bob", "")
	if _, err := r.AddMembership(realFam.ID, bob.ID, model.RoleCaregiver); err != nil {
		t.Errorf("sqlite-to-sqlite join: %v", err)
	}
	demo2 := storage.NewDemoUserID()
	if _, err := storage.SeedDemo(mem, demo2); err != nil {
		t.Fatalf("seed second demo: %v", err)
	}
	if _, err := r.AddMembership(demoFam.ID, demo2, model.RoleMember); err != nil {
		t.Errorf("memory-to-memory join: %v", err)
	}
}

func TestRouterListAllFamiliesExcludesDemo(t *testing.T) {
	r, _, mem := setupRouter(t)

	r.UpsertUser("user-alice", "alice@example.com", "Alice", "")
	demoID := storage.NewDemoUserID()
	if _, err := storage.SeedDemo(mem, demoID); err != nil {
		t.Fatalf("seed demo: %v", err)
	}

	families, err := r.ListAllFamilies()
	if err != nil {
		t.Fatalf("list all families: %v", err)
	}
	if len(families) != 1 {
		t.Errorf("families = %d, want 1 (demo excluded)", len(families))
	}
}

func TestRouterDemoOnly(t *testing.T) {
	mem := storage.NewMemory()
	r := storage.NewRouter(nil, mem, nil)

	// Without a persistent engine even non-demo ids land in memory.
	u, err := r.UpsertUser("user-alice", "alice@example.com", "Alice", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got, _ := mem.GetUser(u.ID); got == nil {
		t.Error("user missing from memory engine")
	}

	// With no persistent engine, reporting falls back to memory.
	families, err := r.ListAllFamilies()
	if err != nil {
		t.Fatalf("list all families: %v", err)
	}
	if len(families) != 1 {
		t.Errorf("families = %d, want 1", len(families))
	}
}
