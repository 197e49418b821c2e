package storage_test

import (
	"testing"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

func seedCaregiver(t *testing.T, s storage.Storage, familyID string) *model.User {
	t.Helper()
	u, err := s.UpsertUser("user-rose", "rose@example.com", "Rose", "")
	if err != nil {
		t.Fatalf("upsert caregiver: %v", err)
	}
	if _, err := s.AddMembership(familyID, u.ID, model.RoleCaregiver); err != nil {
		t.Fatalf("add caregiver membership: %v", err)
	}
	return u
}

func TestSetCaregiverPayRateUpsert(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, family := seedOwner(t, s)
		rose := seedCaregiver(t, s, family.ID)

		rate, err := s.SetCaregiverPayRate(family.ID, rose.ID, 22.50)
		if err != nil {
			t.Fatalf("set rate: %v", err)
		}
		if rate.HourlyRate != 22.50 {
			t.Errorf("rate = %v, want 22.50", rate.HourlyRate)
		}

		updated, err := s.SetCaregiverPayRate(family.ID, rose.ID, 25)
		if err != nil {
			t.Fatalf("update rate: %v", err)
		}
		if updated.ID != rate.ID {
			t.Errorf("second set created a new row %s, want updated %s", updated.ID, rate.ID)
		}
		if updated.HourlyRate != 25 {
			t.Errorf("rate = %v, want 25", updated.HourlyRate)
		}
	})
}

func TestGetCaregiverPayRateUnset(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, family := seedOwner(t, s)
		rate, err := s.GetCaregiverPayRate(family.ID, "user-nobody")
		if err != nil {
			t.Fatalf("get rate: %v", err)
		}
		if rate != nil {
			t.Errorf("rate = %+v, want nil", rate)
		}
	})
}

// Time entries snapshot the rate at creation. Changing the rate afterwards
// must not touch existing entries.
func TestTimeEntrySnapshotsRate(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, family := seedOwner(t, s)
		rose := seedCaregiver(t, s, family.ID)

		if _, err := s.SetCaregiverPayRate(family.ID, rose.ID, 20); err != nil {
			t.Fatalf("set rate: %v", err)
		}

		start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		entry, err := s.CreateTimeEntry(family.ID, rose.ID, start, start.Add(90*time.Minute), "morning shift")
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if entry.Hours != 1.5 {
			t.Errorf("hours = %v, want 1.5", entry.Hours)
		}
		if entry.HourlyRateAtTime != 20 {
			t.Errorf("rate snapshot = %v, want 20", entry.HourlyRateAtTime)
		}
		if entry.CalculatedPay != 30 {
			t.Errorf("pay = %v, want 30", entry.CalculatedPay)
		}

		if _, err := s.SetCaregiverPayRate(family.ID, rose.ID, 40); err != nil {
			t.Fatalf("raise rate: %v", err)
		}

		entries, err := s.ListTimeEntries(family.ID, rose.ID)
		if err != nil {
			t.Fatalf("list entries: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("entries = %d, want 1", len(entries))
		}
		if entries[0].HourlyRateAtTime != 20 || entries[0].CalculatedPay != 30 {
			t.Errorf("snapshot changed after rate update: %+v", entries[0])
		}
	})
}

func TestTimeEntryWithoutRateDefaultsZero(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, family := seedOwner(t, s)
		rose := seedCaregiver(t, s, family.ID)

		start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		entry, err := s.CreateTimeEntry(family.ID, rose.ID, start, start.Add(time.Hour), "")
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if entry.HourlyRateAtTime != 0 || entry.CalculatedPay != 0 {
			t.Errorf("entry = %+v, want zero rate and pay", entry)
		}
	})
}

func TestTimeEntryRejectsInvertedInterval(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, family := seedOwner(t, s)
		rose := seedCaregiver(t, s, family.ID)

		start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		if _, err := s.CreateTimeEntry(family.ID, rose.ID, start, start, ""); err == nil {
			t.Error("expected error for zero-length entry")
		}
		if _, err := s.CreateTimeEntry(family.ID, rose.ID, start, start.Add(-time.Hour), ""); err == nil {
			t.Error("expected error for end before start")
		}
	})
}

func TestTimeEntryPayRounding(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, family := seedOwner(t, s)
		rose := seedCaregiver(t, s, family.ID)

		if _, err := s.SetCaregiverPayRate(family.ID, rose.ID, 22.50); err != nil {
			t.Fatalf("set rate: %v", err)
		}

		// 100 minutes at 22.50/h = 37.5, 20 minutes = 7.5; pick an interval
		// that yields a repeating fraction: 50 minutes at 22.50 = 18.75.
		start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		entry, err := s.CreateTimeEntry(family.ID, rose.ID, start, start.Add(50*time.Minute), "")
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if entry.CalculatedPay != 18.75 {
			t.Errorf("pay = %v, want 18.75", entry.CalculatedPay)
		}
	})
}

func TestListTimeEntriesNewestFirst(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, family := seedOwner(t, s)
		rose := seedCaregiver(t, s, family.ID)

		early := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		late := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
		if _, err := s.CreateTimeEntry(family.ID, rose.ID, early, early.Add(time.Hour), ""); err != nil {
			t.Fatalf("create early: %v", err)
		}
		if _, err := s.CreateTimeEntry(family.ID, rose.ID, late, late.Add(time.Hour), ""); err != nil {
			t.Fatalf("create late: %v", err)
		}

		entries, err := s.ListTimeEntries(family.ID, rose.ID)
		if err != nil {
			t.Fatalf("list entries: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("entries = %d, want 2", len(entries))
		}
		if !entries[0].StartTime.Equal(late) {
			t.Errorf("first entry start = %v, want newest %v", entries[0].StartTime, late)
		}
	})
}

func TestDeleteTimeEntryScoped(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, familyA := seedOwner(t, s)
		bob, _ := s.UpsertUser("user-bob", "bob@example.com", "Bob", "")
		familiesB, _ := s.GetUserFamilies(bob.ID)
		familyB := familiesB[0]

		rose := seedCaregiver(t, s, familyA.ID)
		start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		entry, err := s.CreateTimeEntry(familyA.ID, rose.ID, start, start.Add(time.Hour), "")
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}

		if err := s.DeleteTimeEntry(familyB.ID, entry.ID); !storage.IsNotFound(err) {
			t.Errorf("cross-scope delete err = %v, want NotFoundError", err)
		}
		if err := s.DeleteTimeEntry(familyA.ID, entry.ID); err != nil {
			t.Errorf("in-scope delete: %v", err)
		}
	})
}
