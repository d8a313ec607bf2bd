package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MKhiriev/life-sync/internal/adapter"
	"github.com/MKhiriev/life-sync/internal/auth"
	"github.com/MKhiriev/life-sync/internal/config"
	diagnostics "github.com/MKhiriev/life-sync/internal/handler/http"
	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/metrics"
	"github.com/MKhiriev/life-sync/internal/server"
	"github.com/MKhiriev/life-sync/internal/service"
	"github.com/MKhiriev/life-sync/internal/store"
	"github.com/MKhiriev/life-sync/internal/workers"
	"github.com/MKhiriev/life-sync/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const flushTimeout = 10 * time.Second

var _ Client = (*App)(nil)

type App struct {
	cfg *config.ClientConfig

	storages     *store.ClientStorages
	oauth        *auth.OAuthProvider
	orchestrator service.SyncOrchestrator
	scheduler    service.SyncScheduler
	watcher      *workers.ModuleWatcher
	workers      *workers.Workers
	server       server.Server

	// openBrowser receives the consent page URL of an interactive sign-in
	openBrowser func(authURL string) error

	logger *logger.Logger
}

// NewApp opens the local store and wires every component of the client.
func NewApp(ctx context.Context, cfg *config.ClientConfig, build models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	app, err := newApp(ctx, cfg, storages, build, log)
	if err != nil {
		_ = storages.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.ClientConfig, storages *store.ClientStorages, build models.AppBuildInfo, log *logger.Logger) (*App, error) {
	a := &App{
		cfg:         cfg,
		storages:    storages,
		openBrowser: printAuthURL,
		logger:      log,
	}

	deviceID, err := storages.SyncState.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve device id: %w", err)
	}
	log.Info().Str("device_id", deviceID).Str("device_label", cfg.App.DeviceLabel).Msg("device identified")

	creds, backend, err := a.newBackend(ctx)
	if err != nil {
		return nil, err
	}

	remote := adapter.NewDocumentStore(
		backend,
		adapter.NewRateLimiter(cfg.Adapter.RateLimit, cfg.Adapter.RateBurst),
		adapter.DocumentStoreConfig{
			DeviceID:       deviceID,
			SchemaVersion:  cfg.App.SchemaVersion,
			KeepVersions:   cfg.Sync.KeepVersions,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		log.GetChildLogger(),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.orchestrator = service.NewSyncOrchestrator(
		remote,
		storages.SyncState,
		creds,
		service.OrchestratorConfig{
			Modules:           cfg.App.Modules,
			DefaultMaxRetries: cfg.Sync.MaxRetries,
			EnqueueDelay:      cfg.Workers.EnqueueDelay,
		},
		log.GetChildLogger(),
		service.WithMetrics(metrics.NewSyncCollector(registry)),
		// until the probe says otherwise
		service.WithInitialOnline(true),
	)
	a.scheduler = service.NewSyncScheduler(a.orchestrator, log.GetChildLogger())

	var probe workers.Worker
	if cfg.Workers.ProbeURL != "" {
		probe = workers.NewConnectivityProbe(cfg.Workers.ProbeURL, cfg.Workers.ProbeInterval, a.orchestrator, log.GetChildLogger())
	}
	var watcher workers.Worker
	if cfg.Workers.ModulesDir != "" {
		a.watcher, err = workers.NewModuleWatcher(cfg.Workers.ModulesDir, a.orchestrator, log.GetChildLogger(), workers.WithModules(cfg.App.Modules...))
		if err != nil {
			return nil, err
		}
		watcher = a.watcher
	}
	a.workers = workers.NewWorkers(log, probe, watcher)

	handler := diagnostics.NewHandler(a.orchestrator, build, registry, log.GetChildLogger())
	a.server, err = server.NewServer(handler, cfg.Metrics, log.GetChildLogger())
	if err != nil && !server.IsDisabled(err) {
		return nil, fmt.Errorf("create diagnostics server: %w", err)
	}

	return a, nil
}

// newBackend selects the credential provider and document backend.
func (a *App) newBackend(ctx context.Context) (auth.CredentialProvider, adapter.VersionBackend, error) {
	cfg := a.cfg.Adapter

	switch cfg.Backend {
	case config.BackendHTTP:
		creds, err := auth.NewStaticTokenProvider(ctx, cfg.AccessToken, a.storages.KV)
		if err != nil {
			return nil, nil, fmt.Errorf("create token provider: %w", err)
		}
		backend, err := adapter.NewHTTPBackend(cfg.HTTPAddress, creds, a.logger.GetChildLogger())
		if err != nil {
			return nil, nil, err
		}
		return creds, backend, nil

	case config.BackendDrive:
		creds, err := auth.NewOAuthProvider(ctx, cfg.OAuth, a.storages.KV, a.logger.GetChildLogger())
		if err != nil {
			return nil, nil, fmt.Errorf("create oauth provider: %w", err)
		}
		// the token source lives as long as the process
		backend, err := adapter.NewDriveBackend(ctx, auth.NewTokenSource(context.WithoutCancel(ctx), creds), a.logger.GetChildLogger())
		if err != nil {
			return nil, nil, fmt.Errorf("create drive backend: %w", err)
		}
		a.oauth = creds
		return creds, backend, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidAdapterConfigs, cfg.Backend)
	}
}

// Run implements Client. It blocks until SIGINT or SIGTERM and flushes the
// sync queue before returning.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer func() {
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Msg("closing local storage failed")
		}
	}()

	if a.oauth != nil && !a.oauth.IsAuthenticated() {
		a.logger.Info().Msg("no stored credentials, starting interactive sign-in")
		if err := auth.LoopbackSignIn(ctx, a.oauth, a.openBrowser, a.logger); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("sign in: %w", err)
		}
	}

	// local state is loaded even when a signal already arrived
	if err := a.orchestrator.Load(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("load sync queue: %w", err)
	}

	if a.watcher != nil {
		unsubscribe := a.orchestrator.OnModuleData(a.watcher.WriteModule)
		defer unsubscribe()
	}
	unsubscribe := a.orchestrator.OnConflict(func(c models.ConflictRecord) {
		a.logger.Warn().
			Str("conflict_id", c.ID).
			Str("module", c.Module).
			Time("remote_written_at", c.RemoteWrittenAt).
			Msg("conflict awaits resolution")
	})
	defer unsubscribe()

	if err := a.scheduler.Start(ctx, a.cfg.Workers.DrainInterval, a.cfg.Workers.PollInterval); err != nil {
		return fmt.Errorf("start sync scheduler: %w", err)
	}

	var wg sync.WaitGroup
	wg.Go(func() { a.workers.Run(ctx) })
	if a.server != nil {
		wg.Go(a.server.RunServer)
	}
	// catch up with changes made elsewhere while this client was not running
	wg.Go(func() {
		a.orchestrator.Poll(ctx)
		a.orchestrator.Drain(ctx)
	})

	a.logger.Info().Msg("client started")
	<-ctx.Done()
	a.logger.Info().Msg("shutting down client...")

	a.scheduler.Stop()
	if a.server != nil {
		a.server.Shutdown()
	}
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := a.orchestrator.Shutdown(flushCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("flush sync queue: %w", err)
	}

	a.logger.Info().Msg("client stopped")
	return nil
}

func printAuthURL(authURL string) error {
	_, err := fmt.Fprintf(os.Stderr, "Open this link in your browser to sign in:\n\n  %s\n\n", authURL)
	return err
}
