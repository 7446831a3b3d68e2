package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/snipai/snipai/internal/buildinfo"
	"github.com/snipai/snipai/internal/gateway/config"
	"github.com/snipai/snipai/internal/logging"
)

// App ties the gateway together: the cache store, the partitioned transport,
// the worker lifecycle and the local HTTP front.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	store  *Store
	worker *Worker
	server *http.Server
}

// NewApp wires a gateway for the current build's shell generation.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := InitDatabase(ctx, filepath.Join(cfg.DataDir, "gateway.db"))
	if err != nil {
		return nil, fmt.Errorf("initializing cache database: %w", err)
	}

	store := NewStore(db)
	classifier := NewClassifier(DefaultCDNHosts,
		LiveHostsFromEndpoints(cfg.DocStoreEndpoint, cfg.AIEndpoint))

	shellTag := buildinfo.CacheTag()
	transport := NewTransport(http.DefaultTransport, classifier, store, shellTag, log)

	worker := NewWorker(store, transport, cfg.ShellOrigin, shellTag, log,
		AutoActivate(cfg.AutoActivate))

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: NewRouter(worker),
	}

	return &App{
		config: cfg,
		log:    log,
		db:     db,
		store:  store,
		worker: worker,
		server: server,
	}, nil
}

// Transport exposes the partitioned transport so a co-hosted client can
// route its traffic through the same cache arbitration.
func (a *App) Transport() http.RoundTripper {
	return a.worker.Transport()
}

// Run installs and serves until ctx is cancelled, then shuts down cleanly.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerDone := make(chan error, 1)
	go func() {
		workerDone <- a.worker.Run(ctx)
	}()

	serverDone := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "gateway listening", "addr", a.config.ListenAddr, "shell_tag", buildinfo.CacheTag())
		serverDone <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.shutdown()
			return fmt.Errorf("gateway server: %w", err)
		}
	}

	a.shutdown()
	if err := <-workerDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) shutdown() {
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(sctx); err != nil {
		a.log.Warn(sctx, "shutting down server", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(sctx, "closing cache database", "error", err)
	}
}
