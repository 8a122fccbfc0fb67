package dto

import (
	"time"

	"github.com/hongminglow/confession-be/internal/models"
)

type CreateNoteRequest struct {
	Content     string `json:"content"`
	ReceiverID  string `json:"receiver_id"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// NoteResponse is the wire shape of a note. Which identity fields are set
// depends on the viewer; see NewSentNoteResponse and NewReceivedNoteResponse.
type NoteResponse struct {
	ID               string    `json:"id"`
	Content          string    `json:"content"`
	SenderID         *string   `json:"sender_id,omitempty"`
	SenderNickname   *string   `json:"sender_nickname,omitempty"`
	ReceiverID       *string   `json:"receiver_id,omitempty"`
	ReceiverNickname *string   `json:"receiver_nickname,omitempty"`
	IsAnonymous      bool      `json:"is_anonymous"`
	AnonymID         *string   `json:"anonym_id,omitempty"`
	IsRead           *bool     `json:"is_read,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type NotesResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// NewCreatedNoteResponse is what the sender sees right after sending.
func NewCreatedNoteResponse(n models.Note) NoteResponse {
	return NoteResponse{
		ID:          n.ID.String(),
		Content:     n.Content,
		SenderID:    ptr(n.SenderID.String()),
		ReceiverID:  ptr(n.ReceiverID.String()),
		IsAnonymous: n.IsAnonymous,
		AnonymID:    n.AnonymID,
		CreatedAt:   n.CreatedAt,
	}
}

// NewSentNoteResponse always reveals the true receiver.
func NewSentNoteResponse(n models.SentNote) NoteResponse {
	return NoteResponse{
		ID:               n.ID.String(),
		Content:          n.Content,
		ReceiverID:       ptr(n.ReceiverID.String()),
		ReceiverNickname: ptr(n.ReceiverNickname),
		IsAnonymous:      n.IsAnonymous,
		CreatedAt:        n.CreatedAt,
	}
}

// NewReceivedNoteResponse hides the sender of anonymous notes behind the pseudonym.
func NewReceivedNoteResponse(n models.ReceivedNote) NoteResponse {
	resp := NoteResponse{
		ID:          n.ID.String(),
		Content:     n.Content,
		IsAnonymous: n.IsAnonymous,
		IsRead:      ptr(n.IsRead),
		CreatedAt:   n.CreatedAt,
	}
	if n.IsAnonymous {
		resp.AnonymID = n.AnonymID
		return resp
	}
	resp.SenderID = ptr(n.SenderID.String())
	resp.SenderNickname = ptr(n.SenderNickname)
	return resp
}

func ptr[T any](v T) *T {
	return &v
}
