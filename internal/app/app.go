package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/scrollcal/scrollcal/internal/config"
	"github.com/scrollcal/scrollcal/internal/kvstore"
	log "github.com/sirupsen/logrus"
)

const (
	configPath      = "./config/application.yaml"
	shutdownTimeout = 10 * time.Second
)

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	store  kvstore.Store
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application from the config file and environment, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return New(context.Background(), cfg)
}

// New builds the application for cfg. The schedule store is opened here and closed by Run.
func New(ctx context.Context, cfg config.Application) (*Application, error) {
	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	deps, err := BuildDependencies(store, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	r := mux.NewRouter()

	SetupMiddleware(r, cfg)

	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: cfg.Server.WriteTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{cfg: cfg, store: store, deps: deps, router: r, srv: srv}, nil
}

func (a *Application) Handler() http.Handler {
	return a.router
}

// Startup loads schedules and holidays and renders the first calendar. The page shows a loading
// overlay until it returns.
func (a *Application) Startup(ctx context.Context) {
	a.deps.Controller.Startup(ctx)
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully and closes the store.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	go a.Startup(ctx)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case err := <-serverErr:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
		runErr = errors.Join(runErr, err)
	}
	if err := a.store.Close(); err != nil {
		log.Errorf("failed to close storage: %v", err)
		runErr = errors.Join(runErr, err)
	}
	return runErr
}

// Close releases the store without running the server.
func (a *Application) Close() error {
	return a.store.Close()
}
