// Package middleware provides HTTP middleware for the web UI.
package middleware

import (
	"net/http"

	"github.com/good-yellow-bee/modites/internal/web/session"
)

// EnsureSession attaches the caller's session to the request context,
// starting a new session when the cookie is missing or expired.
func EnsureSession(store *session.Store, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session
			if cookie, err := r.Cookie(session.CookieName); err == nil {
				sess, _ = store.Get(cookie.Value)
			}

			if sess == nil {
				created, err := store.Create()
				if err != nil {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				sess = created
				http.SetCookie(w, &http.Cookie{
					Name:     session.CookieName,
					Value:    sess.ID,
					Path:     "/",
					MaxAge:   int(store.TTL().Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// LoadSession attaches the caller's session when the cookie names a live
// one, without starting new sessions.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(session.CookieName); err == nil {
				if sess, ok := store.Get(cookie.Value); ok {
					r = r.WithContext(session.NewContext(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
