package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	httpadapter "github.com/kirillkom/scan-uploader/internal/adapters/http"
	"github.com/kirillkom/scan-uploader/internal/config"
	"github.com/kirillkom/scan-uploader/internal/core/form"
	"github.com/kirillkom/scan-uploader/internal/core/ports"
	"github.com/kirillkom/scan-uploader/internal/core/schema"
	"github.com/kirillkom/scan-uploader/internal/core/usecase"
	"github.com/kirillkom/scan-uploader/internal/infrastructure/api"
	"github.com/kirillkom/scan-uploader/internal/infrastructure/queue/nats"
	"github.com/kirillkom/scan-uploader/internal/infrastructure/repository/sqlite"
	"github.com/kirillkom/scan-uploader/internal/infrastructure/resilience"
	"github.com/kirillkom/scan-uploader/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/scan-uploader/internal/observability/metrics"
)

const ServiceName = "scan-uploader"

type App struct {
	Config config.Config
	Logger *slog.Logger

	Registry *schema.Registry
	Staging  *localfs.Folder
	// Watcher is nil when STAGING_WATCH is off or the folder cannot be watched.
	Watcher  *localfs.Watcher
	Session  *usecase.SessionManager
	Form     *form.Form
	Pipeline *usecase.UploadPipeline
	// History is nil when HISTORY_DB is empty.
	History ports.UploadHistory
	Metrics *metrics.UploadMetrics

	ctx      context.Context
	closeFns []func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (app *App, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	app = &App{Config: cfg, Logger: logger, ctx: ctx}
	defer func() {
		if err != nil {
			app.Close()
			app = nil
		}
	}()

	app.Registry, err = loadRegistry(cfg.CategoriesFile)
	if err != nil {
		return nil, err
	}

	app.Staging, err = localfs.NewFolder(cfg.StagingDir)
	if err != nil {
		return nil, fmt.Errorf("init staging area: %w", err)
	}
	app.closeFns = append(app.closeFns, app.stopWatcher)
	app.startWatcher()

	app.Metrics = metrics.NewUploadMetrics(ServiceName)

	resilienceCfg := resilience.DefaultConfig()
	resilienceCfg.BreakerEnabled = cfg.APIBreakerEnabled
	executor := resilience.NewExecutor(resilienceCfg, logger)
	client := api.New(api.Options{
		Timeout:  cfg.HTTPTimeout(),
		Executor: executor,
	})

	options := usecase.UploadOptions{
		Observer: app.Metrics,
		Logger:   logger,
	}

	if cfg.HistoryDB != "" {
		db, err := sqlite.OpenDB(cfg.HistoryDB)
		if err != nil {
			return nil, fmt.Errorf("open history db: %w", err)
		}
		app.closeFns = append(app.closeFns, func() { _ = db.Close() })
		repo := sqlite.NewHistoryRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure history schema: %w", err)
		}
		app.History = repo
		options.History = repo
	}

	if cfg.NATSURL != "" {
		publisher, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
			Logger:             logger,
		})
		if err != nil {
			return nil, fmt.Errorf("init upload notifier: %w", err)
		}
		app.closeFns = append(app.closeFns, publisher.Close)
		options.Notifier = publisher
	}

	app.Session = usecase.NewSessionManager(client, app.Metrics, logger)
	app.Form = form.New(app.Registry)
	app.Pipeline = usecase.NewUploadPipeline(app.Form, app.Session, app.Staging, client, options)

	logger.Info("app_ready",
		"api_base_url", cfg.APIBaseURL,
		"staging_dir", app.Staging.Dir(),
		"categories", len(app.Registry.Names()),
		"history", app.History != nil,
		"notifier", options.Notifier != nil,
		"watch", app.Watcher != nil,
	)
	return app, nil
}

// StatusHandler serves health, metrics, staging and history endpoints.
func (a *App) StatusHandler() http.Handler {
	return httpadapter.NewRouter(ServiceName, a.Staging, a.History, a.Metrics, a.Logger).Handler()
}

// StagingChanges is nil when no watcher runs.
func (a *App) StagingChanges() <-chan struct{} {
	if a.Watcher == nil {
		return nil
	}
	return a.Watcher.Changes()
}

// SwitchStaging re-points the staging folder and its watcher at dir. It runs
// on the presentation loop and returns the change feed for the new folder.
func (a *App) SwitchStaging(dir string) (<-chan struct{}, error) {
	if err := a.Staging.Switch(dir); err != nil {
		return a.StagingChanges(), err
	}
	a.stopWatcher()
	a.startWatcher()
	a.Logger.Info("staging_dir_switched", "dir", a.Staging.Dir(), "watch", a.Watcher != nil)
	return a.StagingChanges(), nil
}

func (a *App) startWatcher() {
	if !a.Config.StagingWatch {
		return
	}
	dir := a.Staging.Dir()
	watcher, err := localfs.NewWatcher(localfs.WatcherConfig{Dir: dir, Logger: a.Logger})
	if err != nil {
		// polling still covers the directory
		a.Logger.Warn("staging_watch_unavailable", "dir", dir, "error", err)
		return
	}
	watcher.Start(a.ctx)
	a.Watcher = watcher
}

func (a *App) stopWatcher() {
	if a.Watcher == nil {
		return
	}
	_ = a.Watcher.Close()
	a.Watcher = nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}

func loadRegistry(path string) (*schema.Registry, error) {
	if path == "" {
		return schema.Default(), nil
	}
	reg, err := schema.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return reg, nil
}
