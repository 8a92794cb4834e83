package web

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PauloHFS/avala/internal/logging"
	"github.com/PauloHFS/avala/internal/metrics"
	"github.com/PauloHFS/avala/internal/routes"
	"github.com/PauloHFS/avala/internal/view"
)

// Host is the navigation host: it resolves a request path against the route
// table and renders the matching view.
type Host struct {
	table    *routes.Table
	notFound http.Handler
	tracer   trace.Tracer
}

func NewHost(table *routes.Table, notFound http.Handler) *Host {
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	return &Host{
		table:    table,
		notFound: notFound,
		tracer:   otel.Tracer("github.com/PauloHFS/avala/internal/web"),
	}
}

func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(view.WithRoutes(r.Context(), h.table))

	d, ok := h.table.Match(r.URL.Path)
	if !ok {
		logging.AddToEvent(r.Context(), slog.String("route", "not_found"))
		h.notFound.ServeHTTP(w, r)
		return
	}

	h.render(w, r, d, d.View)
}

// Route serves next as part of the named route, e.g. a form POST that
// belongs to a view. It panics if name is not in the table.
func (h *Host) Route(name string, next routes.View) http.Handler {
	d, ok := h.table.ByName(name)
	if !ok {
		panic("web: unknown route " + name)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(view.WithRoutes(r.Context(), h.table))
		h.render(w, r, d, next)
	})
}

func (h *Host) render(w http.ResponseWriter, r *http.Request, d routes.Descriptor, v routes.View) {
	ctx, span := h.tracer.Start(r.Context(), "view "+d.Name,
		trace.WithAttributes(
			attribute.String("http.route", h.table.Path(d.Path)),
			attribute.String("http.request.method", r.Method),
		),
	)
	defer span.End()

	ctx = view.WithCurrentRoute(ctx, d)
	logging.AddToEvent(ctx, slog.String("route", d.Name))

	start := time.Now()
	err := v.Render(w, r.WithContext(ctx))
	metrics.ViewDuration.WithLabelValues(d.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ViewRenders.WithLabelValues(d.Name, "error").Inc()

		logging.Get().Error("view render failed",
			slog.String("route", d.Name),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	metrics.ViewRenders.WithLabelValues(d.Name, "ok").Inc()
}
