package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"

	"github.com/PauloHFS/avala/internal/config"
	"github.com/PauloHFS/avala/internal/db"
	"github.com/PauloHFS/avala/internal/flags"
	"github.com/PauloHFS/avala/internal/game"
	"github.com/PauloHFS/avala/internal/logging"
	"github.com/PauloHFS/avala/internal/metrics"
	"github.com/PauloHFS/avala/internal/middleware"
	"github.com/PauloHFS/avala/internal/routes"
	"github.com/PauloHFS/avala/internal/validator"
	"github.com/PauloHFS/avala/internal/view"
	"github.com/PauloHFS/avala/internal/view/pages"
)

const flashKey = "flash"

type HandlerDeps struct {
	Flags          *flags.Store
	Stats          *flags.StatsCache
	Clock          *game.Clock
	SessionManager *scs.SessionManager
	Config         *config.Config
	FlagFormat     *regexp.Regexp
	Broker         *Broker
}

// AppHandler é um tipo customizado que permite retornar erros dos handlers
type AppHandler func(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error

// Handle envolve nosso AppHandler para conformidade com http.HandlerFunc
func Handle(deps HandlerDeps, h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(deps, w, r); err != nil {
			logging.Get().Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)

			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// View binds an AppHandler to deps as a renderable route view.
func View(deps HandlerDeps, h AppHandler) routes.View {
	return routes.ViewFunc(func(w http.ResponseWriter, r *http.Request) error {
		return h(deps, w, r)
	})
}

// Views returns the three Avala views bound to deps.
func Views(deps HandlerDeps) routes.Views {
	return routes.Views{
		Dashboard: View(deps, handleDashboard),
		Flags:     View(deps, handleFlags),
		Submit:    View(deps, handleSubmitForm),
	}
}

// RegisterRoutes mounts the navigation host and the form endpoints that
// belong to its views on mux. The event stream is mounted by the caller,
// outside the session middleware.
func RegisterRoutes(mux *http.ServeMux, table *routes.Table, deps HandlerDeps) *Host {
	host := NewHost(table, http.HandlerFunc(handleNotFound))

	mux.Handle("GET "+table.Path("/"), host)
	mux.Handle("POST "+table.URL(routes.SubmitName), host.Route(routes.SubmitName, View(deps, handleSubmit)))

	return host
}

func newPage(r *http.Request, title string) pages.Page {
	ctx := r.Context()
	p := pages.Page{
		Title:  title,
		Nav:    view.Nav(ctx),
		Player: middleware.GetPlayer(ctx),
	}
	if t := view.Routes(ctx); t != nil {
		p.AssetsURL = t.Path(routes.Assets)
	}
	return p
}

// --- Handler Implementations ---

func handleDashboard(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	tick := deps.Clock.TickNumber()
	logging.AddToEvent(r.Context(), slog.Int("tick", tick))

	overview, err := deps.Stats.Overview(r.Context(), tick)
	if err != nil {
		return fmt.Errorf("failed to load overview: %w", err)
	}

	data := pages.DashboardData{
		Overview: overview,
		Started:  deps.Clock.Started(),
		NextTick: deps.Clock.NextTickStart(),
	}
	for _, ts := range overview.Timeline {
		data.MaxAccepted = max(data.MaxAccepted, ts.Accepted)
	}

	p := newPage(r, view.Title(routes.DashboardName))
	p.EventsURL = view.Routes(r.Context()).Path(routes.Events)

	templ.Handler(pages.Dashboard(p, data)).ServeHTTP(w, r)
	return nil
}

var showOptions = []int{25, 50, 100}

func parseFilter(q url.Values) flags.Filter {
	f := flags.Filter{
		Value:   strings.TrimSpace(q.Get("value")),
		Exploit: strings.TrimSpace(q.Get("exploit")),
		Target:  strings.TrimSpace(q.Get("target")),
		Player:  strings.TrimSpace(q.Get("player")),
		Status:  flags.Status(q.Get("status")),
		Sort:    flags.ParseSort(q["sort"]...),
	}
	// tick=0 é um filtro válido (flags enviadas antes do jogo começar)
	if tick, err := strconv.Atoi(strings.TrimSpace(q.Get("tick"))); err == nil {
		f.Tick = &tick
	}
	return f
}

func parsePaging(q url.Values) db.PagingParams {
	page, _ := strconv.Atoi(q.Get("page"))
	show, _ := strconv.Atoi(q.Get("show"))
	p := db.PagingParams{Page: max(page, 1), PerPage: show}
	p.PerPage = p.Limit()
	return p
}

func handleFlags(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	filter := parseFilter(q)
	paging := parsePaging(q)
	action := view.URL(r.Context(), routes.FlagsName)

	data := pages.FlagsData{
		Action:      action,
		Filter:      filter,
		Statuses:    []flags.Status{flags.StatusQueued, flags.StatusAccepted, flags.StatusRejected},
		ShowOptions: showOptions,
		Pagination:  view.NewPagination(paging.Page, 0, paging.PerPage),
	}

	status := http.StatusOK
	if res := validator.ValidateStruct(filter); !res.Valid {
		data.Error = res.Messages()
		status = http.StatusBadRequest
	} else {
		result, err := deps.Flags.Search(r.Context(), filter, paging)
		if err != nil {
			return fmt.Errorf("failed to search flags: %w", err)
		}
		data.Flags = result.Items
		data.Pagination = view.NewPagination(result.CurrentPage, result.TotalItems, result.PerPage)
		logging.AddToEvent(r.Context(), slog.Int("results", result.TotalItems))
	}

	data.PageURLs = make(map[int]string)
	for _, n := range data.Pagination.Window(7) {
		data.PageURLs[n] = pageURL(action, q, n)
	}
	if data.Pagination.HasPrevious() {
		data.PageURLs[data.Pagination.PreviousPage()] = pageURL(action, q, data.Pagination.PreviousPage())
	}
	if data.Pagination.HasNext() {
		data.PageURLs[data.Pagination.NextPage()] = pageURL(action, q, data.Pagination.NextPage())
	}

	templ.Handler(pages.Flags(newPage(r, view.Title(routes.FlagsName)), data), templ.WithStatus(status)).ServeHTTP(w, r)
	return nil
}

func pageURL(action string, q url.Values, page int) string {
	params := url.Values{}
	for k, v := range q {
		params[k] = v
	}
	params.Set("page", strconv.Itoa(page))
	return action + "?" + params.Encode()
}

func submitData(deps HandlerDeps, r *http.Request) pages.SubmitData {
	return pages.SubmitData{
		Action:     view.URL(r.Context(), routes.SubmitName),
		CSRFToken:  view.CSRFToken(r.Context()),
		FlagFormat: deps.FlagFormat.String(),
	}
}

func handleSubmitForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	p := newPage(r, view.Title(routes.SubmitName))
	p.Flash = deps.SessionManager.PopString(r.Context(), flashKey)

	templ.Handler(pages.Submit(p, submitData(deps, r))).ServeHTTP(w, r)
	return nil
}

func handleSubmit(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	form := validator.SubmissionForm{Text: r.FormValue("flags")}
	player := middleware.GetPlayer(r.Context())

	logging.AddToEvent(r.Context(),
		slog.String("operation", "manual_submission"),
		slog.String("player", player),
	)

	fail := func(msg string) error {
		logging.AddToEvent(r.Context(),
			slog.String("outcome", "error"),
			slog.String("error_reason", msg),
		)
		data := submitData(deps, r)
		data.Text = form.Text
		data.Error = msg
		templ.Handler(pages.Submit(newPage(r, view.Title(routes.SubmitName)), data),
			templ.WithStatus(http.StatusUnprocessableEntity)).ServeHTTP(w, r)
		return nil
	}

	if res := validator.ValidateStruct(form); !res.Valid {
		return fail("Paste at least one flag.")
	}

	values, err := validator.ExtractFlags(form.Text, deps.FlagFormat)
	if err != nil {
		return fail(err.Error())
	}
	if len(values) == 0 {
		return fail("No flags matching the flag format were found.")
	}

	tick := deps.Clock.TickNumber()
	result, err := deps.Flags.Enqueue(r.Context(), flags.Submission{
		Values:  values,
		Exploit: flags.ManualExploit,
		Target:  flags.UnknownTarget,
		Player:  player,
		Tick:    tick,
	})
	if errors.Is(err, flags.ErrNoFlags) {
		return fail("No flags matching the flag format were found.")
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue flags: %w", err)
	}

	metrics.FlagsEnqueued.Add(float64(result.Enqueued))
	metrics.FlagsDiscarded.Add(float64(result.Discarded))
	logging.AddToEvent(r.Context(),
		slog.String("outcome", "success"),
		slog.Int("tick", tick),
		slog.Int("enqueued", result.Enqueued),
		slog.Int("discarded", result.Discarded),
	)

	if result.Enqueued > 0 {
		deps.Stats.Invalidate()
		payload, err := json.Marshal(map[string]any{
			"player":   player,
			"exploit":  flags.ManualExploit,
			"target":   flags.UnknownTarget,
			"enqueued": result.Enqueued,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		deps.Broker.Broadcast("flags", string(payload))
	}

	deps.SessionManager.Put(r.Context(), flashKey,
		fmt.Sprintf("%d flags enqueued, %d duplicates discarded.", result.Enqueued, result.Discarded))

	http.Redirect(w, r, view.URL(r.Context(), routes.SubmitName), http.StatusSeeOther)
	return nil
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	p := newPage(r, "Not found")
	data := pages.NotFoundData{Path: r.URL.Path, Links: p.Nav}

	templ.Handler(pages.NotFound(p, data), templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
}
