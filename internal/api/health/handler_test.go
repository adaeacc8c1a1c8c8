package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func decode(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealthAndLive(t *testing.T) {
	h := NewHandler()

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec).Status)

	rec = httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest("GET", "/health/live", nil))
	assert.Equal(t, "live", decode(t, rec).Status)
}

func TestReady_AllHealthy(t *testing.T) {
	h := NewHandler()
	h.RegisterChecker(NewSQLiteChecker(pingerFunc(func(context.Context) error { return nil })))
	h.RegisterChecker(NewRosterChecker(func() bool { return true }))

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest("GET", "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, map[string]string{"sqlite": "ok", "roster": "ok"}, resp.Checks)
}

func TestReady_FailingChecker(t *testing.T) {
	h := NewHandler()
	h.RegisterChecker(NewSQLiteChecker(pingerFunc(func(context.Context) error { return errors.New("database is closed") })))
	h.RegisterChecker(NewRosterChecker(func() bool { return false }))

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest("GET", "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "database is closed", resp.Checks["sqlite"])
	assert.Equal(t, "roster not loaded", resp.Checks["roster"])
}

func TestSQLiteChecker_NilPinger(t *testing.T) {
	assert.Error(t, NewSQLiteChecker(nil).Check(context.Background()))
}
