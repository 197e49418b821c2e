package model

import "time"

// FamilyMessage is family-wide threaded chat, independent of event notes.
// ParentMessageID nests one level of replies.
type FamilyMessage struct {
	ID              string    `json:"id"`
	FamilyID        string    `json:"family_id"`
	SenderID        string    `json:"sender_id"`
	Content         string    `json:"content"`
	ParentMessageID *string   `json:"parent_message_id"`
	CreatedAt       time.Time `json:"created_at"`
}
