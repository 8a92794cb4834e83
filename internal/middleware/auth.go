package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/PauloHFS/avala/internal/contextkeys"
	"github.com/PauloHFS/avala/internal/logging"
)

// AnonymousPlayer is the player name used when no password is configured.
const AnonymousPlayer = "anon"

// BasicAuth requires HTTP basic credentials whose password matches password.
// Any username is accepted and becomes the player name. An empty password
// disables the check.
func BasicAuth(password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if password == "" {
				next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), AnonymousPlayer)))
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok || subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
				if ok {
					logging.Get().Warn("invalid password attempt",
						slog.String("remote_addr", r.RemoteAddr),
						slog.String("username", user),
						slog.String("user_agent", r.UserAgent()),
						slog.String("path", r.URL.Path),
					)
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="avala", charset="UTF-8"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if user == "" {
				user = AnonymousPlayer
			}

			logging.AddToEvent(r.Context(), slog.String("player", user))
			next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), user)))
		})
	}
}

func WithPlayer(ctx context.Context, player string) context.Context {
	return context.WithValue(ctx, contextkeys.PlayerKey, player)
}

// GetPlayer recupera o jogador autenticado do contexto
func GetPlayer(ctx context.Context) string {
	if p, ok := ctx.Value(contextkeys.PlayerKey).(string); ok {
		return p
	}
	return AnonymousPlayer
}
