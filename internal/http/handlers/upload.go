package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/confession-be/internal/photos"
)

// multipartOverhead leaves room for the other form fields and part headers
// on top of the photo itself.
const multipartOverhead = 64 << 10

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func isURLEncoded(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// parseMultipart bounds the body and parses it. Oversized bodies yield
// photos.ErrTooLarge.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxUpload int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return photos.ErrTooLarge
		}
		return fmt.Errorf("parse multipart form: %w", err)
	}
	return nil
}

// formPhoto reads the named file part of an already parsed multipart form.
// ok is false when the part is absent.
func formPhoto(r *http.Request, field string, owner uuid.UUID, maxUpload int64) (upload photos.Upload, ok bool, err error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return photos.Upload{}, false, nil
	}
	if err != nil {
		return photos.Upload{}, false, fmt.Errorf("form file: %w", err)
	}
	defer file.Close()

	if header.Size > maxUpload {
		return photos.Upload{}, false, photos.ErrTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		return photos.Upload{}, false, fmt.Errorf("read form file: %w", err)
	}
	if int64(len(data)) > maxUpload {
		return photos.Upload{}, false, photos.ErrTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if _, err := photos.Validate(contentType, data); err != nil {
		return photos.Upload{}, false, err
	}
	return photos.Upload{
		UserID:      owner,
		Filename:    header.Filename,
		ContentType: strings.ToLower(contentType),
		Data:        data,
		UploadedAt:  time.Now(),
	}, true, nil
}
