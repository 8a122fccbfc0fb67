package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/confession-be/internal/auth"
	"github.com/hongminglow/confession-be/internal/logging"
	"github.com/hongminglow/confession-be/internal/models"
	"github.com/hongminglow/confession-be/internal/phase"
	"github.com/hongminglow/confession-be/internal/storage"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestPhaseGate(t *testing.T) {
	passive := PhaseGate(phase.Passive, okHandler)
	active := PhaseGate(phase.Active, okHandler)

	for path, want := range map[string]int{
		"/api/users/gallery":  http.StatusForbidden,
		"/api/notes/received": http.StatusForbidden,
		"/api/auth/login":     http.StatusOK,
		"/api/health":         http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		passive.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)

		rec = httptest.NewRecorder()
		active.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"}, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/notes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New("info", "text", &buf)
	require.NoError(t, err)

	h := Recover(log, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")
	assert.Contains(t, buf.String(), "kaboom")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New("info", "text", &buf)
	require.NoError(t, err)

	h := Logging(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health?search=secret", nil))

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/api/health")
	assert.NotContains(t, out, "secret")
}

type stubVerifier struct {
	id  uuid.UUID
	err error
}

func (s stubVerifier) Verify(string) (uuid.UUID, error) {
	return s.id, s.err
}

type stubFinder struct {
	users map[uuid.UUID]models.User
}

func (s stubFinder) FindByID(_ context.Context, id uuid.UUID) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func TestAuthenticatorRequire(t *testing.T) {
	alice := models.User{ID: uuid.New(), Nickname: "alice"}
	finder := stubFinder{users: map[uuid.UUID]models.User{alice.ID: alice}}

	var seen models.User
	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		header   string
		verifier stubVerifier
		want     int
	}{
		{name: "ok", header: "Bearer t", verifier: stubVerifier{id: alice.ID}, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer t", verifier: stubVerifier{id: alice.ID}, want: http.StatusOK},
		{name: "missing header", header: "", verifier: stubVerifier{id: alice.ID}, want: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", verifier: stubVerifier{id: alice.ID}, want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", verifier: stubVerifier{id: alice.ID}, want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer t", verifier: stubVerifier{err: auth.ErrExpired}, want: http.StatusUnauthorized},
		{name: "bad signature", header: "Bearer t", verifier: stubVerifier{err: auth.ErrBadSignature}, want: http.StatusUnauthorized},
		{name: "unknown user", header: "Bearer t", verifier: stubVerifier{id: uuid.New()}, want: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = models.User{}
			a := NewAuthenticator(tc.verifier, finder, logging.Nop())
			req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			a.Require(protected).ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, alice.ID, seen.ID)
			} else {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthenticatorWithRealTokens(t *testing.T) {
	alice := models.User{ID: uuid.New(), Nickname: "alice"}
	finder := stubFinder{users: map[uuid.UUID]models.User{alice.ID: alice}}
	now := time.Unix(1_700_000_000, 0)
	tokens := auth.NewTokenManager("secret", "test", time.Hour, auth.WithClock(func() time.Time { return now }))

	token, err := tokens.Generate(alice.ID)
	require.NoError(t, err)

	a := NewAuthenticator(tokens, finder, logging.Nop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	user, err := a.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	now = now.Add(2 * time.Hour)
	_, err = a.Resolve(req)
	assert.ErrorIs(t, err, auth.ErrExpired)
}
