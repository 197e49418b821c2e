package storage

import (
	"fmt"
	"time"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/model"
)

// SeedDemo populates a demo user's scope in the memory engine with two
// families of realistic data. Idempotent per user: if the user already has a
// membership, the existing first family is returned untouched.
func SeedDemo(mem *Memory, userID string) (*model.Family, error) {
	existing, err := mem.GetUserFamilies(userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &existing[0], nil
	}

	if _, err := mem.UpsertUser(userID, userID+"@demo.local", "Demo User", ""); err != nil {
		return nil, fmt.Errorf("seed demo user: %w", err)
	}
	// UpsertUser auto-provisioned "Demo User's Family"; rename it for the demo.
	families, err := mem.GetUserFamilies(userID)
	if err != nil {
		return nil, err
	}
	if len(families) == 0 {
		return nil, fmt.Errorf("seed: no family provisioned for %s", userID)
	}
	family := families[0]
	mem.mu.Lock()
	if f, ok := mem.families[family.ID]; ok {
		f.Name = "Your Family"
		family.Name = "Your Family"
	}
	mem.mu.Unlock()

	if err := seedFamily(mem, family.ID, userID); err != nil {
		return nil, err
	}

	careTeam, err := mem.CreateFamily("Sunrise Care Team", userID)
	if err != nil {
		return nil, fmt.Errorf("seed care team: %w", err)
	}
	if err := seedCareTeam(mem, careTeam.ID, userID); err != nil {
		return nil, err
	}
	return &family, nil
}

func seedFamily(mem *Memory, familyID, userID string) error {
	emma, err := mem.CreateFamilyMember(familyID, "Emma", "#f59e0b", "")
	if err != nil {
		return fmt.Errorf("seed member: %w", err)
	}
	lucas, err := mem.CreateFamilyMember(familyID, "Lucas", "#3b82f6", "")
	if err != nil {
		return fmt.Errorf("seed member: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	at := func(dayOffset int, hour, min int) time.Time {
		return today.AddDate(0, 0, dayOffset).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
	}

	// Past event, already completed.
	past, err := mem.CreateEvent(familyID, EventParams{
		Title:     "Dentist checkup",
		StartTime: at(-3, 9, 0),
		EndTime:   at(-3, 10, 0),
		Color:     emma.Color,
		MemberIDs: []string{emma.ID},
	})
	if err != nil {
		return fmt.Errorf("seed event: %w", err)
	}
	if _, err := mem.ToggleEventComplete(familyID, past.ID); err != nil {
		return err
	}

	// Today's events, one carrying a photo.
	soccer, err := mem.CreateEvent(familyID, EventParams{
		Title:       "Soccer practice",
		Description: "Bring shin guards and a water bottle",
		StartTime:   at(0, 16, 0),
		EndTime:     at(0, 17, 30),
		Color:       lucas.Color,
		MemberIDs:   []string{lucas.ID},
	})
	if err != nil {
		return fmt.Errorf("seed event: %w", err)
	}
	if _, err := mem.SetEventPhoto(familyID, soccer.ID, "https://images.demo.local/soccer-field.jpg"); err != nil {
		return err
	}

	// Upcoming event for both kids.
	picnic, err := mem.CreateEvent(familyID, EventParams{
		Title:       "Family picnic",
		Description: "Riverside park, pavilion 3",
		StartTime:   at(3, 11, 0),
		EndTime:     at(3, 14, 0),
		Color:       "#10b981",
		MemberIDs:   []string{emma.ID, lucas.ID},
	})
	if err != nil {
		return fmt.Errorf("seed event: %w", err)
	}

	// Event chat plus a nested note thread.
	if _, err := mem.CreateMessage(familyID, soccer.ID, userID, "Coach moved practice up 30 minutes today"); err != nil {
		return err
	}
	note, err := mem.CreateEventNote(familyID, picnic.ID, userID, "Who's bringing dessert?", nil)
	if err != nil {
		return err
	}
	if _, err := mem.CreateEventNote(familyID, picnic.ID, userID, "I'll grab brownies on the way", &note.ID); err != nil {
		return err
	}

	// A medication with a couple of administrations.
	med, err := mem.CreateMedication(familyID, emma.ID, "Amoxicillin", "250mg", "Twice daily with food")
	if err != nil {
		return fmt.Errorf("seed medication: %w", err)
	}
	if _, err := mem.CreateMedicationLog(familyID, med.ID, userID, "given", "", at(-1, 8, 0)); err != nil {
		return err
	}
	if _, err := mem.CreateMedicationLog(familyID, med.ID, userID, "given", "Took it with breakfast", at(0, 8, 0)); err != nil {
		return err
	}

	// Threaded family chat.
	msg, err := mem.CreateFamilyMessage(familyID, userID, "Don't forget school photos are Friday!", nil)
	if err != nil {
		return err
	}
	if _, err := mem.CreateFamilyMessage(familyID, userID, "Added it to the calendar", &msg.ID); err != nil {
		return err
	}
	return nil
}

func seedCareTeam(mem *Memory, familyID, userID string) error {
	grandma, err := mem.CreateFamilyMember(familyID, "Grandma Rose", "#8b5cf6", "")
	if err != nil {
		return fmt.Errorf("seed member: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	visit, err := mem.CreateEvent(familyID, EventParams{
		Title:       "Morning care visit",
		Description: "Breakfast, medication, short walk",
		StartTime:   today.Add(8 * time.Hour),
		EndTime:     today.Add(11 * time.Hour),
		Color:       grandma.Color,
		MemberIDs:   []string{grandma.ID},
	})
	if err != nil {
		return fmt.Errorf("seed event: %w", err)
	}
	if _, err := mem.CreateEventNote(familyID, visit.ID, userID, "She prefers the garden route for walks", nil); err != nil {
		return err
	}

	med, err := mem.CreateMedication(familyID, grandma.ID, "Lisinopril", "10mg", "Every morning")
	if err != nil {
		return fmt.Errorf("seed medication: %w", err)
	}
	if _, err := mem.CreateMedicationLog(familyID, med.ID, userID, "given", "", today.Add(8*time.Hour+30*time.Minute)); err != nil {
		return err
	}

	// Caregiver pay: a rate and two logged shifts against it.
	if _, err := mem.SetCaregiverPayRate(familyID, userID, 22.50); err != nil {
		return err
	}
	shifts := [][2]time.Time{
		{today.AddDate(0, 0, -2).Add(8 * time.Hour), today.AddDate(0, 0, -2).Add(12 * time.Hour)},
		{today.AddDate(0, 0, -1).Add(8 * time.Hour), today.AddDate(0, 0, -1).Add(11*time.Hour + 30*time.Minute)},
	}
	for _, shift := range shifts {
		if _, err := mem.CreateTimeEntry(familyID, userID, shift[0], shift[1], "Morning shift"); err != nil {
			return err
		}
	}
	return nil
}
