// Package photos validates and stores profile photos.
package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotImage is returned when the upload is not a decodable image.
	ErrNotImage = errors.New("file must be an image")
	// ErrTooLarge is returned when the upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
)

// Upload is a photo received from a client.
type Upload struct {
	UserID      uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
	UploadedAt  time.Time
}

// Store persists validated photos and returns a reference clients can fetch.
type Store interface {
	Save(ctx context.Context, upload Upload) (string, error)
}

// Validate checks the declared content type and that the bytes decode as an
// image in one of the registered formats. It returns the detected format.
func Validate(contentType string, data []byte) (string, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return "", fmt.Errorf("%w: content type %q", ErrNotImage, contentType)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return format, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectTimeLayout keeps nanoseconds so uploads within one second differ.
const objectTimeLayout = "20060102_150405.000000000"

// ObjectName embeds the owner, upload time and sanitised original name so
// distinct uploads do not collide.
func ObjectName(upload Upload) string {
	base := filepath.Base(strings.ReplaceAll(upload.Filename, `\`, "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "photo"
	}
	return fmt.Sprintf("%s_%s_%s", upload.UserID, upload.UploadedAt.UTC().Format(objectTimeLayout), base)
}
