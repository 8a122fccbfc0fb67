package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/pagination"
	"github.com/hongminglow/confession-be/internal/storage"
)

const noteColumns = `n.id, n.content, n.sender_id, n.receiver_id, n.is_anonymous, n.anonym_id, n.is_read, n.created_at`

// CreateNote inserts a note. A receiver that does not exist yields storage.ErrNotFound.
func (s *Store) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	if note.ID == uuid.Nil {
		id, err := storage.NewID()
		if err != nil {
			return models.Note{}, err
		}
		note.ID = id
	}
	const query = `
		INSERT INTO notes AS n (id, content, sender_id, receiver_id, is_anonymous, anonym_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + noteColumns
	row := s.pool.QueryRow(ctx, query, note.ID, note.Content, note.SenderID, note.ReceiverID, note.IsAnonymous, note.AnonymID)

	var created models.Note
	if err := scanNote(row, &created); err != nil {
		if isPgError(err, sqlstateForeignKeyViolation) {
			return models.Note{}, storage.ErrNotFound
		}
		return models.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return created, nil
}

// ListSent returns notes sent by senderID joined with the receiver nickname.
func (s *Store) ListSent(ctx context.Context, senderID uuid.UUID, page pagination.Page) ([]models.SentNote, int64, error) {
	total, err := s.count(ctx, `SELECT COUNT(*) FROM notes WHERE sender_id = $1`, senderID)
	if err != nil {
		return nil, 0, fmt.Errorf("count sent notes: %w", err)
	}

	const query = `
		SELECT ` + noteColumns + `, u.nickname
		FROM notes n
		JOIN users u ON u.id = n.receiver_id
		WHERE n.sender_id = $1
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.pool.Query(ctx, query, senderID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list sent notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.SentNote, 0, page.Limit)
	for rows.Next() {
		var n models.SentNote
		if err := scanNote(rows, &n.Note, &n.ReceiverNickname); err != nil {
			return nil, 0, fmt.Errorf("scan sent note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sent notes: %w", err)
	}
	return notes, total, nil
}

// ListReceived returns notes addressed to receiverID joined with the sender
// nickname. Hiding anonymous senders is the presentation layer's job.
func (s *Store) ListReceived(ctx context.Context, receiverID uuid.UUID, page pagination.Page) ([]models.ReceivedNote, int64, error) {
	total, err := s.count(ctx, `SELECT COUNT(*) FROM notes WHERE receiver_id = $1`, receiverID)
	if err != nil {
		return nil, 0, fmt.Errorf("count received notes: %w", err)
	}

	const query = `
		SELECT ` + noteColumns + `, u.nickname
		FROM notes n
		JOIN users u ON u.id = n.sender_id
		WHERE n.receiver_id = $1
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.pool.Query(ctx, query, receiverID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list received notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.ReceivedNote, 0, page.Limit)
	for rows.Next() {
		var n models.ReceivedNote
		if err := scanNote(rows, &n.Note, &n.SenderNickname); err != nil {
			return nil, 0, fmt.Errorf("scan received note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate received notes: %w", err)
	}
	return notes, total, nil
}

// CountUnread counts unread notes addressed to receiverID.
func (s *Store) CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	total, err := s.count(ctx, `SELECT COUNT(*) FROM notes WHERE receiver_id = $1 AND NOT is_read`, receiverID)
	if err != nil {
		return 0, fmt.Errorf("count unread notes: %w", err)
	}
	return total, nil
}

// MarkRead flips is_read false->true for a note owned by receiverID.
func (s *Store) MarkRead(ctx context.Context, noteID, receiverID uuid.UUID) error {
	const query = `UPDATE notes SET is_read = TRUE WHERE id = $1 AND receiver_id = $2 AND NOT is_read`
	tag, err := s.pool.Exec(ctx, query, noteID, receiverID)
	if err != nil {
		return fmt.Errorf("mark note read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanNote(row pgx.Row, n *models.Note, extra ...any) error {
	dest := append([]any{
		&n.ID, &n.Content, &n.SenderID, &n.ReceiverID, &n.IsAnonymous, &n.AnonymID, &n.IsRead, &n.CreatedAt,
	}, extra...)
	return row.Scan(dest...)
}
