package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hongminglow/confession-be/internal/phase"
	"github.com/hongminglow/confession-be/internal/photos"
)

// DefaultJWTSecret is the shipped signing secret. Deployments must override it.
const DefaultJWTSecret = "change-me-in-production"

// Photo storage backends.
const (
	PhotoStorageLocal = "local"
	PhotoStorageS3    = "s3"
)

// Config is the process configuration. It is read once at startup and
// passed to constructors; nothing reads the environment afterwards.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	Phase       phase.Phase
	CORSOrigins []string

	LogLevel  string
	LogFormat string

	UploadDir       string
	UploadURLPrefix string
	MaxUploadSize   int64
	PhotoStorage    string
	S3              photos.S3Config

	PageLimitDefault int
	PageLimitMax     int
	NoteMaxLength    int
}

// Load builds a Config from environment variables, applying defaults and
// rejecting values the server cannot run with.
func Load() (Config, error) {
	cfg := Config{
		Port:            fallback("PORT", "8000"),
		DatabaseURL:     fallback("DATABASE_URL", ""),
		JWTSecret:       fallback("JWT_SECRET", DefaultJWTSecret),
		JWTIssuer:       fallback("JWT_ISSUER", "confession-backend"),
		CORSOrigins:     parseCSV(fallback("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:        strings.ToLower(fallback("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(fallback("LOG_FORMAT", "text")),
		UploadDir:       fallback("UPLOAD_DIR", "uploads"),
		UploadURLPrefix: strings.TrimRight(fallback("UPLOAD_URL_PREFIX", "/uploads"), "/"),
		PhotoStorage:    strings.ToLower(fallback("PHOTO_STORAGE", PhotoStorageLocal)),
		S3: photos.S3Config{
			Bucket:          fallback("S3_BUCKET", ""),
			Region:          fallback("S3_REGION", "us-east-1"),
			Endpoint:        fallback("S3_ENDPOINT", ""),
			PublicURL:       strings.TrimRight(fallback("S3_PUBLIC_URL", ""), "/"),
			AccessKeyID:     fallback("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: fallback("S3_SECRET_ACCESS_KEY", ""),
		},
	}

	days, err := positiveInt("ACCESS_TOKEN_EXPIRE_DAYS", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.JWTTTL = time.Duration(days) * 24 * time.Hour

	maxUpload, err := positiveInt("MAX_UPLOAD_SIZE", 5_242_880)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxUploadSize = int64(maxUpload)

	if cfg.PageLimitDefault, err = positiveInt("PAGE_LIMIT_DEFAULT", 20); err != nil {
		return Config{}, err
	}
	if cfg.PageLimitMax, err = positiveInt("PAGE_LIMIT_MAX", 100); err != nil {
		return Config{}, err
	}
	if cfg.PageLimitDefault > cfg.PageLimitMax {
		return Config{}, errors.New("PAGE_LIMIT_DEFAULT must not exceed PAGE_LIMIT_MAX")
	}
	if cfg.NoteMaxLength, err = positiveInt("NOTE_MAX_LENGTH", 1000); err != nil {
		return Config{}, err
	}

	cfg.Phase, err = phase.Parse(fallback("PHASE", string(phase.Passive)))
	if err != nil {
		return Config{}, fmt.Errorf("PHASE: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("config: DATABASE_URL must be set")
	}
	switch cfg.PhotoStorage {
	case PhotoStorageLocal:
	case PhotoStorageS3:
		if cfg.S3.Bucket == "" {
			return Config{}, errors.New("S3_BUCKET is required when PHOTO_STORAGE=s3")
		}
	default:
		return Config{}, fmt.Errorf("PHOTO_STORAGE must be %q or %q", PhotoStorageLocal, PhotoStorageS3)
	}

	return cfg, nil
}

// HTTPAddress is the listen address on all interfaces.
func (c Config) HTTPAddress() string {
	return net.JoinHostPort("", c.Port)
}

// UsesDefaultSecret reports whether the shipped signing secret is still in use.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// fallback returns the trimmed value of key, or def when it is unset or blank.
func fallback(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func positiveInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

// parseCSV splits a comma separated list, dropping blanks. An empty list
// means any origin.
func parseCSV(input string) []string {
	out := strings.FieldsFunc(input, func(r rune) bool { return r == ',' })
	kept := out[:0]
	for _, item := range out {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return []string{"*"}
	}
	return kept
}
