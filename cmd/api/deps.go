package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/backup"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/domain/ledger"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/infrastructure/firebase"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/infrastructure/memory"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/infrastructure/postgres"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/infrastructure/sqlite"
	httphandlers "github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/interfaces/http"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/scheduler"
	"github.com/chikhaoui-amine/LifeOS-web-app-sub002/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	Store       *ledger.Store
	Coordinator *backup.Coordinator
	Scheduler   *scheduler.Scheduler

	// Handlers
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	BudgetHandler      *httphandlers.BudgetHandler
	GoalHandler        *httphandlers.GoalHandler
	SettingsHandler    *httphandlers.SettingsHandler

	bridge     *firebase.Bridge
	syncCancel context.CancelFunc
	closers    []func() error
	log        zerolog.Logger
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{log: log}

	persist, err := deps.newPersistence(cfg)
	if err != nil {
		return nil, err
	}

	store, err := ledger.NewStore(persist, cfg.Ledger.DefaultCurrency, cfg.Ledger.Locale,
		ledger.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading ledger state: %w", err)
	}
	deps.Store = store
	log.Info().
		Str("backend", cfg.Storage.Backend).
		Str("currency", store.Currency()).
		Msg("ledger state loaded")

	// Cloud sync bridge (optional)
	if cfg.Sync.Enabled {
		bridge, err := firebase.NewBridge(ctx, cfg.Sync.CredentialsFile, cfg.Sync.ProjectID, cfg.Sync.UserID, log)
		if err != nil {
			return nil, fmt.Errorf("initializing sync bridge: %w", err)
		}
		deps.bridge = bridge
		deps.closers = append(deps.closers, bridge.Close)

		coordinator := backup.NewCoordinator(store, bridge, cfg.Sync.Device, log)
		syncCtx, cancel := context.WithCancel(context.Background())
		deps.syncCancel = cancel
		if err := coordinator.Start(syncCtx); err != nil {
			cancel()
			return nil, fmt.Errorf("starting sync coordinator: %w", err)
		}
		deps.Coordinator = coordinator
		log.Info().Str("device", cfg.Sync.Device).Msg("cloud sync enabled")
	}

	// Scheduled backup publishes (optional, requires sync)
	if cfg.Backup.Enabled && deps.Coordinator != nil {
		sched, err := scheduler.New(scheduler.Config{
			ScheduleTimes: cfg.Backup.ScheduleTimes,
			RunOnStartup:  cfg.Backup.RunOnStartup,
			Task:          deps.Coordinator.PublishNow,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("initializing backup scheduler: %w", err)
		}
		deps.Scheduler = sched
	}

	// Handlers
	deps.AccountHandler = httphandlers.NewAccountHandler(store, log)
	deps.TransactionHandler = httphandlers.NewTransactionHandler(store, log)
	deps.BudgetHandler = httphandlers.NewBudgetHandler(store, log)
	deps.GoalHandler = httphandlers.NewGoalHandler(store, log)
	deps.SettingsHandler = httphandlers.NewSettingsHandler(store, log)

	return deps, nil
}

func (d *Dependencies) newPersistence(cfg *config.Config) (ledger.Persistence, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		d.closers = append(d.closers, store.Close)
		return store, nil
	case config.BackendPostgres:
		store, err := postgres.New(cfg.Storage.Postgres.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		d.closers = append(d.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.syncCancel != nil {
		d.syncCancel()
	}
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.log.Warn().Err(err).Msg("error closing dependency")
		}
	}
}
