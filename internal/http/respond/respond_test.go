package respond

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, "created", map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Equal(t, 201, env.Code)
	assert.Equal(t, "created", env.Message)
	assert.Equal(t, 1, env.Data["n"])
}

func TestErrorOmitsData(t *testing.T) {
	rec := httptest.NewRecorder()
	Unauthorized(rec, "nope")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"code":401,"message":"nope"}`, rec.Body.String())
}

func TestEncodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, "ok", make(chan int))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"msg":"respond: encode failed"`)
	assert.Contains(t, buf.String(), `"status":200`)
}
