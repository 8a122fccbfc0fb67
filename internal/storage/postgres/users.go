package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/storage"
)

const userColumns = `id, nickname, password_hash, photo_url, created_at`

// CreateUser inserts a new user row. The unique index on nickname decides
// concurrent registrations; the loser gets storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == uuid.Nil {
		id, err := storage.NewID()
		if err != nil {
			return models.User{}, err
		}
		user.ID = id
	}
	const query = `
		INSERT INTO users (id, nickname, password_hash, photo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.ID, user.Nickname, user.PasswordHash, user.PhotoURL)
	created, err := scanUser(row)
	if err != nil {
		if isPgError(err, sqlstateUniqueViolation) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByID fetches a user by identity.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// FindByNickname fetches a user by exact, case-sensitive nickname.
func (s *Store) FindByNickname(ctx context.Context, nickname string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE nickname = $1`
	return scanUser(s.pool.QueryRow(ctx, query, nickname))
}

// UpdatePhoto sets the photo reference and returns the updated user.
func (s *Store) UpdatePhoto(ctx context.Context, id uuid.UUID, photoURL string) (models.User, error) {
	const query = `UPDATE users SET photo_url = $2 WHERE id = $1 RETURNING ` + userColumns
	return scanUser(s.pool.QueryRow(ctx, query, id, photoURL))
}

// ListGallery returns one page of users other than filter.ExcludeID whose
// nickname contains filter.Search, newest first.
func (s *Store) ListGallery(ctx context.Context, filter storage.GalleryFilter) ([]models.User, int64, error) {
	pattern := containsPattern(filter.Search)

	const countQuery = `SELECT COUNT(*) FROM users WHERE id <> $1 AND nickname ILIKE $2 ESCAPE '\'`
	var total int64
	if err := s.pool.QueryRow(ctx, countQuery, filter.ExcludeID, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count gallery: %w", err)
	}

	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id <> $1 AND nickname ILIKE $2 ESCAPE '\'
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := s.pool.Query(ctx, query, filter.ExcludeID, pattern, filter.Page.Limit, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, filter.Page.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate gallery: %w", err)
	}
	return users, total, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Nickname, &user.PasswordHash, &user.PhotoURL, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
