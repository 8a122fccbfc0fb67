package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/pagination"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// NewID returns a time-ordered identifier, so ordering by id breaks
// created_at ties in insertion order.
func NewID() (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("new id: %w", err)
	}
	return id, nil
}

// GalleryFilter selects users for the gallery listing.
type GalleryFilter struct {
	// Search is a case-insensitive nickname substring; empty matches all.
	Search    string
	ExcludeID uuid.UUID
	Page      pagination.Page
}

// UserStore captures persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
	FindByNickname(ctx context.Context, nickname string) (models.User, error)
	UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) (models.User, error)
	ListGallery(ctx context.Context, filter GalleryFilter) ([]models.User, int64, error)
}

// NoteStore captures note persistence. List methods return newest first
// together with the total number of matching notes.
type NoteStore interface {
	CreateNote(ctx context.Context, note models.Note) (models.Note, error)
	ListSent(ctx context.Context, senderID uuid.UUID, page pagination.Page) ([]models.SentNote, int64, error)
	ListReceived(ctx context.Context, receiverID uuid.UUID, page pagination.Page) ([]models.ReceivedNote, int64, error)
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error)
	// MarkRead flips is_read for a note addressed to receiverID. It returns
	// ErrNotFound when no unread note matches, including when it was already read.
	MarkRead(ctx context.Context, noteID, receiverID uuid.UUID) error
}
