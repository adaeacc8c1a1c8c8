package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
)

// cspNonceKey stores the request-specific CSP nonce in context.
const cspNonceKey contextKey = "csp_nonce"

// GetCSPNonce returns the per-request CSP nonce from context.
func GetCSPNonce(ctx context.Context) string {
	if v, ok := ctx.Value(cspNonceKey).(string); ok {
		return v
	}
	return ""
}

func generateCSPNonce() (string, error) {
	nonceBytes := make([]byte, 16)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(nonceBytes), nil
}

func buildCSPHeader(nonce string) string {
	scriptSrc := []string{"'self'"}
	if nonce != "" {
		scriptSrc = append(scriptSrc, "'nonce-"+nonce+"'")
	} else {
		// Fallback for nonce generation failure to avoid breaking web UI.
		scriptSrc = append(scriptSrc, "'unsafe-inline'")
	}

	// Avatars are served from the chat provider's CDN.
	return "default-src 'self'; " +
		"script-src " + strings.Join(scriptSrc, " ") + "; " +
		"style-src 'self'; " +
		"img-src 'self' https: data:; " +
		"connect-src 'self'; " +
		"object-src 'none'; " +
		"base-uri 'self'; " +
		"frame-ancestors 'none'"
}

// IsRequestSecure reports whether the request arrived over TLS, directly or
// through a proxy that sets X-Forwarded-Proto.
func IsRequestSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// SecurityHeaders adds security-related HTTP headers to responses.
func SecurityHeaders(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce, err := generateCSPNonce()
			if err != nil {
				logger.Warn("failed to generate CSP nonce", zap.Error(err))
			} else {
				r = r.WithContext(context.WithValue(r.Context(), cspNonceKey, nonce))
			}

			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", buildCSPHeader(nonce))
			if IsRequestSecure(r) {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			next.ServeHTTP(w, r)
		})
	}
}

// Recoverer recovers from panics, logs them with the stack trace and answers
// 500.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("request_id", GetRequestID(r.Context())),
						zap.ByteString("stack", debug.Stack()),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					if _, err := w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`)); err != nil {
						logger.Debug("failed to write error response", zap.Error(err))
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
