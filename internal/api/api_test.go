package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/modites/internal/data"
	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/storage"
)

type fixedRoster []models.Modite

func (f fixedRoster) FetchRoster(ctx context.Context) ([]models.Modite, error) {
	return f, nil
}

// testServer creates a server backed by a temporary SQLite database with
// one project.
func testServer(t *testing.T, cfg *Config) *Server {
	t.Helper()

	db := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "modites.db"))
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	ctx := context.Background()
	p := models.NewProject("Atlas", "Mapping")
	p.ID = "p1"
	require.NoError(t, db.Projects().Create(ctx, p))
	require.NoError(t, db.Projects().AddMember(ctx, p.ID, "U1"))

	m := models.Modite{ID: "U1", RealName: "Ada Lovelace", TZ: "Europe/London"}
	m.Profile.LastName = "Lovelace"
	store := data.NewStore(fixedRoster{m}, db.Projects(), nil)
	require.NoError(t, store.Load(ctx))

	if cfg == nil {
		cfg = &Config{WebUIEnabled: true}
	}
	srv, err := New(cfg, store, db, nil)
	require.NoError(t, err)
	t.Cleanup(srv.close)
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestNew_RequiresConfigAndStore(t *testing.T) {
	_, err := New(nil, data.NewStore(fixedRoster{}, nil, nil), nil, nil)
	assert.Error(t, err)
	_, err = New(&Config{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, 800, cfg.DefaultMapHeight)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestRouter_Health(t *testing.T) {
	h := testServer(t, nil).Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/health/live").Code)

	rec := get(t, h, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sqlite":"ok"`)
	assert.Contains(t, rec.Body.String(), `"roster":"ok"`)
}

func TestRouter_APIRoutes(t *testing.T) {
	h := testServer(t, nil).Handler()

	rec := get(t, h, "/api/v1/modites")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")

	rec = get(t, h, "/api/v1/projects?member=U1")
	require.Equal(t, http.StatusOK, rec.Code)
	var projects struct {
		Data []struct {
			Name    string   `json:"name"`
			Members []string `json:"members"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&projects))
	require.Len(t, projects.Data, 1)
	assert.Equal(t, []string{"U1"}, projects.Data[0].Members)

	rec = get(t, h, "/api/v1/modites/U1")
	assert.Contains(t, rec.Body.String(), `"project_heading":"Projects (1)"`)

	rec = get(t, h, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrCodeNotFound)
}

func TestRouter_WebUI(t *testing.T) {
	h := testServer(t, nil).Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'nonce-")
	nonce := strings.TrimSuffix(strings.SplitN(strings.SplitN(csp, "'nonce-", 2)[1], "'", 2)[0], "'")
	assert.Contains(t, rec.Body.String(), `<script nonce="`+nonce+`">`)

	rec = get(t, h, "/modites/U404")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRouter_WebUIDisabled(t *testing.T) {
	h := testServer(t, &Config{}).Handler()

	assert.Equal(t, http.StatusNotFound, get(t, h, "/").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/v1/modites").Code)
}

func TestRouter_RateLimit(t *testing.T) {
	h := testServer(t, &Config{RateLimitPerMinute: 1, RateLimitBurst: 1}).Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/api/v1/modites").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/api/v1/modites").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code, "health checks are not limited")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := testServer(t, &Config{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health/live")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
