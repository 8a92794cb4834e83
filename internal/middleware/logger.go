package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/PauloHFS/avala/internal/logging"
	"github.com/PauloHFS/avala/internal/metrics"
)

type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Unwrap lets http.ResponseController reach Flush on the SSE endpoint.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx, event := logging.NewEventContext(r.Context())

		event.Add(
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r.WithContext(ctx))

		event.Add(
			slog.Int("status", rw.status),
			slog.Int("size", rw.size),
			slog.Float64("duration_ms", float64(time.Since(start).Nanoseconds())/1e6),
		)

		// Rotas fora da tabela ficam agrupadas para não explodir a cardinalidade
		route := "other"
		if v, ok := event.Lookup("route"); ok {
			route = v.String()
		}
		metrics.HttpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rw.status)).Inc()

		level := slog.LevelInfo
		if rw.status >= 500 {
			level = slog.LevelError
		}

		logging.Get().Log(ctx, level, "request completed", event.Attrs()...)
	})
}
