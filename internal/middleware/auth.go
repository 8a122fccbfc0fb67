package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/confession-be/internal/auth"
	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/storage"
)

type contextKey string

const userKey contextKey = "user"

// TokenVerifier resolves a bearer token to a user identity.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// UserFinder looks users up by identity.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// Authenticator resolves the caller from the Authorization header.
type Authenticator struct {
	tokens TokenVerifier
	users  UserFinder
	log    logging.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserFinder, log logging.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

// Resolve returns the user named by the request's bearer token.
func (a *Authenticator) Resolve(r *http.Request) (models.User, error) {
	token, ok := bearerToken(r)
	if !ok {
		return models.User{}, auth.ErrMissingToken
	}
	id, err := a.tokens.Verify(token)
	if err != nil {
		return models.User{}, err
	}
	user, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, auth.ErrUnknownUser
		}
		return models.User{}, err
	}
	return user, nil
}

// Require rejects requests without a valid token and stores the caller in the context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Resolve(r)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				respond.Unauthorized(w, "Invalid authentication credentials")
			case errors.Is(err, auth.ErrExpired):
				respond.Unauthorized(w, "Token expired")
			case errors.Is(err, auth.ErrMalformed), errors.Is(err, auth.ErrBadSignature):
				respond.Unauthorized(w, "Invalid token")
			case errors.Is(err, auth.ErrUnknownUser):
				respond.Unauthorized(w, "User not found")
			default:
				a.log.Error(r.Context(), "resolve caller failed", "error", err)
				respond.Error(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// WithUser returns a context carrying the authenticated caller.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the caller stored by Require.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
