package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hongminglow/confession-be/internal/http/respond"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/middleware"
	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/pagination"
)

// TokenIssuer mints bearer tokens for a user identity.
type TokenIssuer interface {
	Generate(userID uuid.UUID) (string, error)
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// caller returns the authenticated user. Routes reaching this without the
// authenticator in front are a wiring bug, reported as 500.
func caller(w http.ResponseWriter, r *http.Request, log logging.Logger) (models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		log.Error(r.Context(), "route served without authentication", "path", r.URL.Path)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
	return user, ok
}

func pageFromQuery(w http.ResponseWriter, r *http.Request, limits pagination.Limits) (pagination.Page, bool) {
	page, err := pagination.FromQuery(r.URL.Query(), limits)
	if err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return pagination.Page{}, false
	}
	return page, true
}

func internalError(w http.ResponseWriter, r *http.Request, log logging.Logger, msg string, err error) {
	log.Error(r.Context(), msg, "error", err)
	respond.Error(w, http.StatusInternalServerError, "internal server error")
}
