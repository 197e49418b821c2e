package model

import "time"

// Event is a schedulable item. MemberIDs is never empty: removing the last
// referenced member deletes the event.
type Event struct {
	ID          string     `json:"id"`
	FamilyID    string     `json:"family_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Color       string     `json:"color"`
	PhotoURL    string     `json:"photo_url"`
	MemberIDs   []string   `json:"member_ids"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Message is an event-scoped chat message, deleted with its event.
type Message struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	EventID   string    `json:"event_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// EventNote is a threaded comment on an event. ParentNoteID nests one level
// deep; deleting a note deletes its direct replies.
type EventNote struct {
	ID           string    `json:"id"`
	FamilyID     string    `json:"family_id"`
	EventID      string    `json:"event_id"`
	AuthorID     string    `json:"author_id"`
	Content      string    `json:"content"`
	ParentNoteID *string   `json:"parent_note_id"`
	CreatedAt    time.Time `json:"created_at"`
}
