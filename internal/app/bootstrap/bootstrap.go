package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	financereporting "taleforge/contexts/economy-core/finance-reporting"
	financepostgres "taleforge/contexts/economy-core/finance-reporting/adapters/postgres"
	financeservices "taleforge/contexts/economy-core/finance-reporting/domain/services"
	purchaseaudit "taleforge/contexts/economy-core/purchase-audit"
	purchasefinance "taleforge/contexts/economy-core/purchase-audit/adapters/finance"
	purchaseledger "taleforge/contexts/economy-core/purchase-audit/adapters/ledger"
	purchasepostgres "taleforge/contexts/economy-core/purchase-audit/adapters/postgres"
	purchaseworkers "taleforge/contexts/economy-core/purchase-audit/application/workers"
	sparksledger "taleforge/contexts/economy-core/sparks-ledger"
	sparksmemory "taleforge/contexts/economy-core/sparks-ledger/adapters/memory"
	"taleforge/contexts/economy-core/sparks-ledger/adapters/notify"
	sparkspostgres "taleforge/contexts/economy-core/sparks-ledger/adapters/postgres"
	conversionpipeline "taleforge/contexts/story-core/conversion-pipeline"
	pipelineledger "taleforge/contexts/story-core/conversion-pipeline/adapters/ledger"
	pipelinepostgres "taleforge/contexts/story-core/conversion-pipeline/adapters/postgres"
	"taleforge/contexts/story-core/conversion-pipeline/adapters/seeder"
	"taleforge/contexts/story-core/conversion-pipeline/adapters/story"
	sessionengine "taleforge/contexts/story-core/session-engine"
	"taleforge/contexts/story-core/session-engine/adapters/assist"
	sessioncatalog "taleforge/contexts/story-core/session-engine/adapters/catalog"
	sessionledger "taleforge/contexts/story-core/session-engine/adapters/ledger"
	sessionpostgres "taleforge/contexts/story-core/session-engine/adapters/postgres"
	"taleforge/contexts/story-core/session-engine/adapters/scheduler"
	sessionqueries "taleforge/contexts/story-core/session-engine/application/queries"
	sessionworkers "taleforge/contexts/story-core/session-engine/application/workers"
	sessionports "taleforge/contexts/story-core/session-engine/ports"
	templatelibrary "taleforge/contexts/story-core/template-library"
	templatepostgres "taleforge/contexts/story-core/template-library/adapters/postgres"
	templatecommands "taleforge/contexts/story-core/template-library/application/commands"
	"taleforge/internal/platform/config"
	"taleforge/internal/platform/db"
	"taleforge/internal/platform/httpserver"
	"taleforge/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type Modules struct {
	Templates templatelibrary.Module
	Sessions  sessionengine.Module
	Pipeline  conversionpipeline.Module
	Sparks    sparksledger.Module
	Purchases purchaseaudit.Module
	Finance   financereporting.Module
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	turnSweeper   sessionworkers.TurnSweeper
	sessionRelay  sessionworkers.OutboxRelay
	purchaseRelay purchaseworkers.OutboxRelay
	sweepEnabled  bool
	relayEnabled  bool
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	var (
		modules Modules
		pg      *db.Postgres
	)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		modules = buildMemoryModules(cfg, bus, logger)
	} else {
		modules, pg, err = buildPostgresModules(cfg, bus, logger)
		if err != nil {
			return nil, err
		}
	}

	server := httpserver.New(
		modules.Sessions,
		modules.Templates,
		modules.Pipeline,
		modules.Sparks,
		modules.Purchases,
		modules.Finance,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required for the worker process")
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	modules, pg, err := buildPostgresModules(cfg, bus, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres:      pg,
		turnSweeper:   modules.Sessions.TurnSweeper,
		sessionRelay:  modules.Sessions.OutboxRelay,
		purchaseRelay: modules.Purchases.OutboxRelay,
		sweepEnabled:  cfg.EnableTurnSweeper,
		relayEnabled:  cfg.EnableOutboxRelay,
		pollInterval:  time.Duration(cfg.WorkerPollSeconds) * time.Second,
		logger:        logger,
	}, nil
}

// buildMemoryModules wires the whole monolith over in-process stores. Used
// for local runs where no Postgres DSN is configured.
func buildMemoryModules(cfg config.Config, bus *messaging.Kafka, logger *slog.Logger) Modules {
	templates := templatelibrary.NewInMemoryModule(logger)

	sparksStore := sparksmemory.NewStore()
	sparks := sparksledger.NewModule(sparksledger.Dependencies{
		Repo: sparksStore,
		Notifier: notify.FanoutNotifier{
			notify.NewChannelNotifier(0, logger),
			notify.BusNotifier{Publisher: bus, Logger: logger},
		},
		Clock:  sparksStore,
		IDGen:  sparksStore,
		Logger: logger,
	})

	catalog := sessioncatalog.LibraryCatalog{Templates: templates.Store}
	sessions := sessionengine.NewInMemoryModule(
		catalog,
		sessionledger.SparksAccounts{Service: sparks.Service},
		cfg.AIAssistSparkCost,
		logger,
	)

	finance := financereporting.NewInMemoryModule(logger)

	pipeline := conversionpipeline.NewInMemoryModule(
		story.EngineStories{Assemble: sessionqueries.AssembleStoryUseCase{
			Sessions: sessions.Store,
			Catalog:  catalog,
			Logger:   logger,
		}},
		pipelineledger.SparksAccounts{Service: sparks.Service},
		seeder.LibrarySeeder{Register: templatecommands.RegisterTemplateUseCase{
			Templates:   templates.Store,
			Clock:       templates.Store,
			IDGenerator: templates.Store,
			Logger:      logger,
		}},
		logger,
	)

	purchases := purchaseaudit.NewInMemoryModule(
		purchaseledger.SparksAccounts{Service: sparks.Service},
		purchasefinance.FinanceBooks{Service: finance.Service},
		logger,
	)

	return Modules{
		Templates: templates,
		Sessions:  sessions,
		Pipeline:  pipeline,
		Sparks:    sparks,
		Purchases: purchases,
		Finance:   finance,
	}
}

func buildPostgresModules(cfg config.Config, bus *messaging.Kafka, logger *slog.Logger) (Modules, *db.Postgres, error) {
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return Modules{}, nil, err
	}

	templateRepo := templatepostgres.NewRepository(pg.DB, logger)
	templates := templatelibrary.NewModule(templatelibrary.Dependencies{
		Templates:   templateRepo,
		Clock:       templatepostgres.SystemClock{},
		IDGenerator: templatepostgres.UUIDGenerator{},
		Logger:      logger,
	})

	sparksRepo := sparkspostgres.NewRepository(pg.DB, logger)
	sparks := sparksledger.NewModule(sparksledger.Dependencies{
		Repo:     sparksRepo,
		Notifier: notify.BusNotifier{Publisher: bus, Logger: logger},
		Clock:    sparkspostgres.SystemClock{},
		IDGen:    sparkspostgres.UUIDGenerator{},
		Logger:   logger,
	})

	catalog := sessioncatalog.LibraryCatalog{Templates: templateRepo}
	sessionRepo := sessionpostgres.NewRepository(pg.DB, logger)
	timers := scheduler.NewTimerScheduler(logger)
	sessions := sessionengine.NewModule(sessionengine.Dependencies{
		Sessions:   sessionRepo,
		Deadlines:  sessionRepo,
		Catalog:    catalog,
		Scheduler:  timers,
		Generator:  assistGenerator(cfg),
		Sparks:     sessionledger.SparksAccounts{Service: sparks.Service},
		Outbox:     sessionRepo,
		OutboxRepo: sessionRepo,
		Publisher:  bus,
		AssistCost: cfg.AIAssistSparkCost,
		SweepBatch: cfg.TurnSweeperBatch,
		Clock:      sessionpostgres.SystemClock{},
		IDGen:      sessionpostgres.UUIDGenerator{},
		Logger:     logger,
	})
	timers.SetExpireFunc(func(ctx context.Context, sessionID string, turnIndex int) {
		_, _ = sessions.TimerExpire.Execute(ctx, sessionID, turnIndex)
	})
	sessions.Scheduler = timers
	sessions.OutboxRelay.BatchSize = cfg.OutboxRelayBatch

	finance := financereporting.NewModule(financereporting.Dependencies{
		Repo: financepostgres.NewRepository(pg.DB, logger),
		Rates: financeservices.Rates{
			TaxRateBps:    cfg.SalesTaxRateBps,
			FeeRateBps:    cfg.ProcessorFeeRateBps,
			FeeFixedCents: cfg.ProcessorFeeFixedCent,
		},
		Clock:  financepostgres.SystemClock{},
		IDGen:  financepostgres.UUIDGenerator{},
		Logger: logger,
	})

	pipelineRepo := pipelinepostgres.NewRepository(pg.DB, logger)
	pipeline := conversionpipeline.NewModule(conversionpipeline.Dependencies{
		Conversions: pipelineRepo,
		Stories: story.EngineStories{Assemble: sessionqueries.AssembleStoryUseCase{
			Sessions: sessionRepo,
			Catalog:  catalog,
			Logger:   logger,
		}},
		Sparks: pipelineledger.SparksAccounts{Service: sparks.Service},
		Seeder: seeder.LibrarySeeder{Register: templatecommands.RegisterTemplateUseCase{
			Templates:   templateRepo,
			Clock:       templatepostgres.SystemClock{},
			IDGenerator: templatepostgres.UUIDGenerator{},
			Logger:      logger,
		}},
		Clock:  pipelinepostgres.SystemClock{},
		IDGen:  pipelinepostgres.UUIDGenerator{},
		Logger: logger,
	})

	purchaseRepo := purchasepostgres.NewRepository(pg.DB, logger)
	purchases := purchaseaudit.NewModule(purchaseaudit.Dependencies{
		Attempts:   purchaseRepo,
		Sparks:     purchaseledger.SparksAccounts{Service: sparks.Service},
		Finance:    purchasefinance.FinanceBooks{Service: finance.Service},
		Outbox:     purchaseRepo,
		OutboxRepo: purchaseRepo,
		Publisher:  bus,
		Clock:      purchasepostgres.SystemClock{},
		IDGen:      purchasepostgres.UUIDGenerator{},
		Logger:     logger,
	})
	purchases.OutboxRelay.BatchSize = cfg.OutboxRelayBatch

	return Modules{
		Templates: templates,
		Sessions:  sessions,
		Pipeline:  pipeline,
		Sparks:    sparks,
		Purchases: purchases,
		Finance:   finance,
	}, pg, nil
}

func assistGenerator(cfg config.Config) sessionports.AssistGenerator {
	if cfg.EnableAIGeneration && strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		return assist.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	return assist.WordBankGenerator{}
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", interval.String(),
		"turn_sweeper", w.sweepEnabled,
		"outbox_relay", w.relayEnabled,
	)

	for {
		if w.sweepEnabled {
			if err := w.turnSweeper.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.relayEnabled {
			if err := w.sessionRelay.RunOnce(ctx); err != nil {
				return err
			}
			if err := w.purchaseRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
