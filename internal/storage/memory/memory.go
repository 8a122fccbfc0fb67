// Package memory is an in-process implementation of the storage interfaces
// with the same observable semantics as the Postgres store. It backs the
// HTTP tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/pagination"
	"github.com/hongminglow/confession-be/internal/storage"
)

var (
	_ storage.UserStore = (*Store)(nil)
	_ storage.NoteStore = (*Store)(nil)
)

// Store keeps users and notes in insertion order; newest is last.
type Store struct {
	mu    sync.RWMutex
	users []models.User
	notes []models.Note
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// Ping always succeeds unless ctx is already done.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Nickname == user.Nickname {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	if user.ID == uuid.Nil {
		id, err := storage.NewID()
		if err != nil {
			return models.User{}, err
		}
		user.ID = id
	}
	user.CreatedAt = s.now().UTC()
	s.users = append(s.users, user)
	return user, nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.userIndex(id); i >= 0 {
		return s.users[i], nil
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) FindByNickname(_ context.Context, nickname string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Nickname == nickname {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) UpdatePhoto(_ context.Context, id uuid.UUID, photoURL string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return models.User{}, storage.ErrNotFound
	}
	s.users[i].PhotoURL = &photoURL
	return s.users[i], nil
}

func (s *Store) ListGallery(_ context.Context, filter storage.GalleryFilter) ([]models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var matched []models.User
	for i := len(s.users) - 1; i >= 0; i-- {
		u := s.users[i]
		if u.ID == filter.ExcludeID || !strings.Contains(strings.ToLower(u.Nickname), search) {
			continue
		}
		matched = append(matched, u)
	}
	return window(matched, filter.Page), int64(len(matched)), nil
}

func (s *Store) CreateNote(_ context.Context, note models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndex(note.SenderID) < 0 || s.userIndex(note.ReceiverID) < 0 {
		return models.Note{}, storage.ErrNotFound
	}
	if note.ID == uuid.Nil {
		id, err := storage.NewID()
		if err != nil {
			return models.Note{}, err
		}
		note.ID = id
	}
	note.IsRead = false
	note.CreatedAt = s.now().UTC()
	s.notes = append(s.notes, note)
	return note, nil
}

func (s *Store) ListSent(_ context.Context, senderID uuid.UUID, page pagination.Page) ([]models.SentNote, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.SentNote
	for i := len(s.notes) - 1; i >= 0; i-- {
		n := s.notes[i]
		if n.SenderID != senderID {
			continue
		}
		matched = append(matched, models.SentNote{Note: n, ReceiverNickname: s.nickname(n.ReceiverID)})
	}
	return window(matched, page), int64(len(matched)), nil
}

func (s *Store) ListReceived(_ context.Context, receiverID uuid.UUID, page pagination.Page) ([]models.ReceivedNote, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.ReceivedNote
	for i := len(s.notes) - 1; i >= 0; i-- {
		n := s.notes[i]
		if n.ReceiverID != receiverID {
			continue
		}
		matched = append(matched, models.ReceivedNote{Note: n, SenderNickname: s.nickname(n.SenderID)})
	}
	return window(matched, page), int64(len(matched)), nil
}

func (s *Store) CountUnread(_ context.Context, receiverID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, n := range s.notes {
		if n.ReceiverID == receiverID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkRead(_ context.Context, noteID, receiverID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notes {
		n := &s.notes[i]
		if n.ID == noteID && n.ReceiverID == receiverID && !n.IsRead {
			n.IsRead = true
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) userIndex(id uuid.UUID) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nickname(id uuid.UUID) string {
	if i := s.userIndex(id); i >= 0 {
		return s.users[i].Nickname
	}
	return ""
}

func window[T any](items []T, page pagination.Page) []T {
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+page.Limit, len(items))
	return items[start:end]
}
