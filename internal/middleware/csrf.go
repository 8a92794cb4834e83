package middleware

import (
	"context"
	"net/http"

	"github.com/justinas/nosurf"

	"github.com/PauloHFS/avala/internal/contextkeys"
)

// CSRF wraps next with nosurf and exposes the token in the request context.
func CSRF(secure bool, path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := nosurf.New(injectCSRF(next))
		h.SetBaseCookie(http.Cookie{
			HttpOnly: true,
			Path:     path,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
		// Atrás de proxy TLS r.TLS é nil, então o ambiente decide
		h.SetIsTLSFunc(func(r *http.Request) bool { return secure || r.TLS != nil })
		h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Forbidden - invalid CSRF token", http.StatusForbidden)
		}))
		return h
	}
}

func injectCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := nosurf.Token(r)
		ctx := context.WithValue(r.Context(), contextkeys.CSRFTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
