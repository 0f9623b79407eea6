package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/nextalbum/internal/adapters/http/api"
	"github.com/okian/nextalbum/internal/adapters/http/swagger"
	library "github.com/okian/nextalbum/internal/adapters/library"
	repository "github.com/okian/nextalbum/internal/adapters/repository"
	service "github.com/okian/nextalbum/internal/app"
	"github.com/okian/nextalbum/internal/config"
	"github.com/okian/nextalbum/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't configured yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(logger.WithFormat(logger.Format(cfg.LogFormat))); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	a, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", logger.Error(err))
		return
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// application holds the opened databases and the routed handler.
type application struct {
	index   *library.Index
	store   *repository.SQLiteStore
	handler http.Handler
}

// newApplication opens the library index and the state store and routes the
// API over a browser bound to them.
func newApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	index, err := library.Open(ctx, cfg.LibraryPath, library.WithLogger(log.Named("library")))
	if err != nil {
		return nil, err
	}
	store, err := repository.OpenSQLite(ctx, cfg.StatePath,
		repository.WithDefaults(cfg.Preferences()),
		repository.WithLogger(log.Named("repository")),
	)
	if err != nil {
		_ = index.Close()
		return nil, err
	}

	if tracks, albums, err := index.Count(ctx); err == nil {
		log.Info(ctx, "library loaded", logger.Int("tracks", tracks), logger.Int("albums", albums))
	}

	browser := service.New(index, store,
		service.WithLogger(log.Named("browser")),
		service.WithPreferenceSource(store),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(browser, store, api.WithLogger(log.Named("api"))).Register(ctx, mux)

	return &application{index: index, store: store, handler: mux}, nil
}

// Close releases both databases.
func (a *application) Close() {
	_ = a.store.Close()
	_ = a.index.Close()
}
