package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is a short message between two users. AnonymID is set iff IsAnonymous.
type Note struct {
	ID          uuid.UUID `json:"id"`
	Content     string    `json:"content"`
	SenderID    uuid.UUID `json:"sender_id"`
	ReceiverID  uuid.UUID `json:"receiver_id"`
	IsAnonymous bool      `json:"is_anonymous"`
	AnonymID    *string   `json:"anonym_id"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// SentNote is a note from the sender's side, joined with the receiver nickname.
type SentNote struct {
	Note
	ReceiverNickname string
}

// ReceivedNote is a note from the receiver's side, joined with the sender nickname.
type ReceivedNote struct {
	Note
	SenderNickname string
}
