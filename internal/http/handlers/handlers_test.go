package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/confession-be/internal/auth"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/pagination"
	"github.com/hongminglow/confession-be/internal/phase"
	"github.com/hongminglow/confession-be/internal/storage/memory"
)

func TestOpenAPIDocument(t *testing.T) {
	h, err := NewDocsHandler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.OpenAPI(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	for _, path := range []string{"/api/auth/register", "/api/auth/login", "/api/users/gallery", "/api/notes", "/api/notes/unread/count"} {
		assert.Contains(t, doc.Paths, path)
	}

	_, err = openAPIJSON([]byte("paths: [unclosed"))
	assert.Error(t, err)
}

func TestLoginMultipartForm(t *testing.T) {
	store := memory.New()
	hash, err := auth.HashPassword("Passw0rdX")
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), models.User{Nickname: "dave", PasswordHash: hash})
	require.NoError(t, err)

	tokens := auth.NewTokenManager("k", "test", time.Hour)
	h := NewAuthHandler(store, nil, tokens, 1024, logging.Nop())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("nickname", "dave"))
	require.NoError(t, mw.WriteField("password", "Passw0rdX"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data struct {
			ID    string `json:"id"`
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, user.ID.String(), out.Data.ID)
	id, err := tokens.Verify(out.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAuthenticatedRouteWithoutCaller(t *testing.T) {
	h := NewNoteHandler(memory.New(), memory.New(), pagination.Limits{Default: 20, Max: 100}, 100, logging.Nop())
	rec := httptest.NewRecorder()
	h.UnreadCount(rec, httptest.NewRequest(http.MethodGet, "/api/notes/unread/count", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthUptime(t *testing.T) {
	started := time.Unix(1_700_000_000, 0)
	h := NewSystemHandler(phase.Passive, started, nil, logging.Nop())
	h.now = func() time.Time { return started.Add(90*time.Second + 400*time.Millisecond) }

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uptime":"1m30s"`)
	assert.Contains(t, rec.Body.String(), `"phase":"passive"`)
	assert.NotContains(t, rec.Body.String(), `"database"`)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthDatabase(t *testing.T) {
	started := time.Unix(1_700_000_000, 0)

	h := NewSystemHandler(phase.Active, started, memory.New(), logging.Nop())
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)

	var deadline bool
	h = NewSystemHandler(phase.Active, started, pingFunc(func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return errors.New("connection refused")
	}), logging.Nop())
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, deadline)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	assert.Contains(t, rec.Body.String(), `"database":"unavailable"`)
}
