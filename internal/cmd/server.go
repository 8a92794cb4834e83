package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/PauloHFS/avala/internal/config"
	"github.com/PauloHFS/avala/internal/db"
	"github.com/PauloHFS/avala/internal/logging"
	"github.com/PauloHFS/avala/internal/routes"
	"github.com/PauloHFS/avala/internal/telemetry"
	"github.com/PauloHFS/avala/internal/web"
)

// Version é sobrescrita no build via -ldflags.
var Version = "dev"

func RunServer(assetsFS fs.FS) {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logging.Init(cfg.LogLevel)
	logger := logging.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.TracingExporter, Version)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	// 1. DB
	pool, err := db.NewDualPool("sqlite3", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool.Write); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 2. Aplicação e tabela de rotas
	app, err := NewApp(cfg, pool, assetsFS)
	if err != nil {
		logger.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	if err := routes.Register(app.Table); err != nil {
		logger.Error("failed to register route table", "error", err)
		os.Exit(1)
	}
	logger.Info("route table built", "base", app.Table.Base(), "routes", app.Table.Len())

	go app.Limiter.Cleanup(ctx)
	go web.AnnounceTicks(ctx, app.Clock, app.Broker, time.Second)

	// SSE não pode ser bufferizado pelo gzip
	gz, err := gzhttp.NewWrapper(gzhttp.ExceptContentTypes([]string{"text/event-stream"}))
	if err != nil {
		logger.Error("failed to build gzip wrapper", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gz(app.Handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.Port, "base", app.Table.Base(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("server stopping")

	app.Broker.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server exited properly")
}
