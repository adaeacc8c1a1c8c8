package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/good-yellow-bee/modites/internal/web/session"
)

func TestEnsureSession_CreatesSession(t *testing.T) {
	store := session.NewStore(time.Hour)
	defer store.Close()

	var got *session.Session
	handler := EnsureSession(store, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("handler did not receive a session")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName {
		t.Fatalf("cookies = %v, want one %s cookie", cookies, session.CookieName)
	}
	if cookies[0].Value != got.ID {
		t.Errorf("cookie value = %q, want %q", cookies[0].Value, got.ID)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
}

func TestEnsureSession_ReusesValidSession(t *testing.T) {
	store := session.NewStore(time.Hour)
	defer store.Close()
	existing, _ := store.Create()

	var got *session.Session
	handler := EnsureSession(store, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: existing.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got != existing {
		t.Error("handler did not receive the existing session")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be set for a valid session")
	}
}

func TestEnsureSession_ReplacesUnknownSession(t *testing.T) {
	store := session.NewStore(time.Hour)
	defer store.Close()

	var got *session.Session
	handler := EnsureSession(store, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got == nil || got.ID == "stale" {
		t.Fatal("expected a fresh session")
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestLoadSession_DoesNotCreate(t *testing.T) {
	store := session.NewStore(time.Hour)
	defer store.Close()

	var got *session.Session
	handler := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = session.FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/map", nil))

	if got != nil {
		t.Error("expected no session without a cookie")
	}
	if store.Len() != 0 {
		t.Errorf("store has %d sessions, want 0", store.Len())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("LoadSession must not set cookies")
	}

	sess, err := store.Create()
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("GET", "/api/v1/map", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got != sess {
		t.Error("expected the cookie's session in context")
	}
}
