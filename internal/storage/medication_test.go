package storage_test

import (
	"testing"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/storage"
)

func TestMedicationSoftDelete(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, family := seedOwner(t, s)
		emma := seedMember(t, s, family.ID, "Emma")

		med, err := s.CreateMedication(family.ID, emma.ID, "Amoxicillin", "250mg", "twice daily")
		if err != nil {
			t.Fatalf("create medication: %v", err)
		}
		if !med.IsActive {
			t.Error("new medication should be active")
		}

		if err := s.DeactivateMedication(family.ID, med.ID); err != nil {
			t.Fatalf("deactivate: %v", err)
		}

		active, err := s.ListMedications(family.ID, true)
		if err != nil {
			t.Fatalf("list active: %v", err)
		}
		if len(active) != 0 {
			t.Errorf("active medications = %d, want 0", len(active))
		}

		all, err := s.ListMedications(family.ID, false)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 1 || all[0].IsActive {
			t.Errorf("all medications = %+v, want one inactive row", all)
		}
	})
}

func TestMedicationRequiresOwnMember(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		_, familyA := seedOwner(t, s)
		bob, _ := s.UpsertUser("user-bob", "bob@example.com", "Bob", "")
		familiesB, _ := s.GetUserFamilies(bob.ID)
		familyB := familiesB[0]

		emma := seedMember(t, s, familyA.ID, "Emma")

		// A member from another family is out of scope.
		if _, err := s.CreateMedication(familyB.ID, emma.ID, "Amoxicillin", "", ""); !storage.IsNotFound(err) {
			t.Errorf("err = %v, want NotFoundError", err)
		}
	})
}

func TestMedicationLogSurvivesDeactivation(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		owner, family := seedOwner(t, s)
		emma := seedMember(t, s, family.ID, "Emma")
		med, _ := s.CreateMedication(family.ID, emma.ID, "Amoxicillin", "250mg", "twice daily")

		givenAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
		log, err := s.CreateMedicationLog(family.ID, med.ID, owner.ID, "given", "with breakfast", givenAt)
		if err != nil {
			t.Fatalf("create log: %v", err)
		}
		if log.Status != "given" || log.GivenBy != owner.ID {
			t.Errorf("log = %+v", log)
		}

		if err := s.DeactivateMedication(family.ID, med.ID); err != nil {
			t.Fatalf("deactivate: %v", err)
		}

		logs, err := s.ListMedicationLogs(family.ID, med.ID)
		if err != nil {
			t.Fatalf("list logs: %v", err)
		}
		if len(logs) != 1 {
			t.Errorf("logs = %d after deactivation, want 1", len(logs))
		}
	})
}

func TestMedicationLogsNewestFirst(t *testing.T) {
	forEachEngine(t, func(t *testing.T, s storage.Storage) {
		owner, family := seedOwner(t, s)
		emma := seedMember(t, s, family.ID, "Emma")
		med, _ := s.CreateMedication(family.ID, emma.ID, "Amoxicillin", "250mg", "twice daily")

		morning := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
		evening := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
		if _, err := s.CreateMedicationLog(family.ID, med.ID, owner.ID, "given", "", morning); err != nil {
			t.Fatalf("create morning log: %v", err)
		}
		if _, err := s.CreateMedicationLog(family.ID, med.ID, owner.ID, "skipped", "asleep", evening); err != nil {
			t.Fatalf("create evening log: %v", err)
		}

		logs, err := s.ListMedicationLogs(family.ID, med.ID)
		if err != nil {
			t.Fatalf("list logs: %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("logs = %d, want 2", len(logs))
		}
		if !logs[0].GivenAt.Equal(evening) {
			t.Errorf("first log given_at = %v, want newest %v", logs[0].GivenAt, evening)
		}
	})
}
