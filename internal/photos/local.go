package photos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hongminglow/confession-be/internal/logging"
)

// LocalStore writes photos into a directory served under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	log       logging.Logger
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, urlPrefix string, log logging.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir all: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix, log: log.With("component", "photos.local")}, nil
}

// Dir is the directory photos are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the photo through a temp file and renames it into place so
// readers never observe a partial file.
func (s *LocalStore) Save(ctx context.Context, upload Upload) (url string, err error) {
	name := ObjectName(upload)
	path := filepath.Join(s.dir, name)

	defer func() {
		if err != nil {
			s.log.Error(ctx, "photo store failed", "user_id", upload.UserID, "file", name, "error", err)
		} else {
			s.log.Debug(ctx, "photo stored", "user_id", upload.UserID, "file", name, "size", len(upload.Data))
		}
	}()

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(upload.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}

	return s.urlPrefix + "/" + name, nil
}
