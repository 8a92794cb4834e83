package cmd

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/PauloHFS/avala/internal/config"
	"github.com/PauloHFS/avala/internal/db"
	"github.com/PauloHFS/avala/internal/flags"
	"github.com/PauloHFS/avala/internal/game"
	"github.com/PauloHFS/avala/internal/logging"
	"github.com/PauloHFS/avala/internal/middleware"
	"github.com/PauloHFS/avala/internal/routes"
	"github.com/PauloHFS/avala/internal/validator"
	"github.com/PauloHFS/avala/internal/web"
)

const statsCacheTTL = 5 * time.Second

// App is the fully wired HTTP application, without the listener.
type App struct {
	Handler http.Handler
	Table   *routes.Table
	Broker  *web.Broker
	Clock   *game.Clock
	Limiter *middleware.RateLimiter
}

// NewApp wires the route table, views and middleware chain on top of an
// already migrated pool.
func NewApp(cfg *config.Config, pool *db.DualPool, assetsFS fs.FS) (*App, error) {
	flagFormat, err := validator.CompileFlagFormat(cfg.Game.FlagFormat)
	if err != nil {
		return nil, err
	}
	clock, err := game.NewClock(cfg.Game)
	if err != nil {
		return nil, err
	}

	secure := cfg.Env == "prod"
	cookiePath := routes.NormalizeBase(cfg.BasePath) + "/"

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(pool.Write)
	sessionManager.Cookie.Path = cookiePath
	sessionManager.Cookie.Secure = secure

	store := flags.NewStore(pool.Read, pool.Write)
	broker := web.NewBroker()

	deps := web.HandlerDeps{
		Flags:          store,
		Stats:          flags.NewStatsCache(store, cfg.Game.TTL(), statsCacheTTL),
		Clock:          clock,
		SessionManager: sessionManager,
		Config:         cfg,
		FlagFormat:     flagFormat,
		Broker:         broker,
	}

	table := routes.Build(cfg.BasePath, web.Views(deps))

	mux := http.NewServeMux()
	assetsPath := table.Path(routes.Assets)
	mux.Handle("GET "+assetsPath, http.StripPrefix(assetsPath, http.FileServer(http.FS(assetsFS))))
	web.RegisterRoutes(mux, table, deps)

	limiter := middleware.NewRateLimiter(rate.Limit(20), 40)

	protect := func(h http.Handler) http.Handler {
		return limiter.Middleware(
			middleware.SecurityHeaders(secure)(
				middleware.Logger(
					middleware.BasicAuth(cfg.Password)(h),
				),
			),
		)
	}

	app := protect(sessionManager.LoadAndSave(middleware.CSRF(secure, cookiePath)(mux)))

	// Health e métricas ficam fora da autenticação e do base path
	root := http.NewServeMux()
	root.Handle("GET "+routes.Metrics, promhttp.Handler())
	root.HandleFunc("GET "+routes.Health, func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Read.PingContext(r.Context()); err != nil {
			logging.Get().Error("health check failed: db unreachable", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	// LoadAndSave bufferiza a resposta, então o SSE fica fora da sessão
	root.Handle("GET "+table.Path(routes.Events), protect(broker))
	root.Handle("/", app)

	return &App{
		Handler: middleware.Recovery(root),
		Table:   table,
		Broker:  broker,
		Clock:   clock,
		Limiter: limiter,
	}, nil
}
