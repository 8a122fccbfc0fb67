package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/pagination"
	"github.com/hongminglow/confession-be/internal/storage"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := New()

	alice, err := s.CreateUser(ctx, models.User{Nickname: "Alice", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, models.User{Nickname: "Alice"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	_, err = s.CreateUser(ctx, models.User{Nickname: "alice"})
	require.NoError(t, err, "nicknames are case-sensitive")
	bob, err := s.CreateUser(ctx, models.User{Nickname: "bob"})
	require.NoError(t, err)

	users, total, err := s.ListGallery(ctx, storage.GalleryFilter{
		Search:    "ALI",
		ExcludeID: bob.ID,
		Page:      pagination.Page{Number: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Nickname, "newest first")

	updated, err := s.UpdatePhoto(ctx, alice.ID, "/uploads/a.png")
	require.NoError(t, err)
	require.NotNil(t, updated.PhotoURL)
	assert.Equal(t, "/uploads/a.png", *updated.PhotoURL)
}

func TestNotes(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice, err := s.CreateUser(ctx, models.User{Nickname: "alice"})
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, models.User{Nickname: "bob"})
	require.NoError(t, err)

	var last models.Note
	for i := 0; i < 15; i++ {
		last, err = s.CreateNote(ctx, models.Note{Content: "hi", SenderID: alice.ID, ReceiverID: bob.ID})
		require.NoError(t, err)
	}

	received, total, err := s.ListReceived(ctx, bob.ID, pagination.Page{Number: 2, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 15, total)
	assert.Len(t, received, 5)
	assert.Equal(t, "alice", received[0].SenderNickname)

	sent, _, err := s.ListSent(ctx, alice.ID, pagination.Page{Number: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, last.ID, sent[0].ID)
	assert.Equal(t, "bob", sent[0].ReceiverNickname)

	require.NoError(t, s.MarkRead(ctx, last.ID, bob.ID))
	assert.ErrorIs(t, s.MarkRead(ctx, last.ID, bob.ID), storage.ErrNotFound)
	assert.ErrorIs(t, s.MarkRead(ctx, received[0].ID, alice.ID), storage.ErrNotFound)

	unread, err := s.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 14, unread)

	_, err = s.CreateNote(ctx, models.Note{Content: "x", SenderID: alice.ID, ReceiverID: models.User{}.ID})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPastTheEndPage(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Ping(ctx))

	sender, err := s.CreateUser(ctx, models.User{Nickname: "sender", PasswordHash: "h"})
	require.NoError(t, err)
	receiver, err := s.CreateUser(ctx, models.User{Nickname: "receiver", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, models.Note{Content: "hi", SenderID: sender.ID, ReceiverID: receiver.ID})
	require.NoError(t, err)

	huge := pagination.Page{Number: 9223372036854775807, Limit: 2}
	notes, total, err := s.ListReceived(ctx, receiver.ID, huge)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.EqualValues(t, 1, total)

	users, total, err := s.ListGallery(ctx, storage.GalleryFilter{ExcludeID: sender.ID, Page: huge})
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.EqualValues(t, 1, total)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Ping(cancelled), context.Canceled)
}
