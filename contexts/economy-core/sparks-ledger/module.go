package sparksledger

import (
	"log/slog"

	httpadapter "taleforge/contexts/economy-core/sparks-ledger/adapters/http"
	"taleforge/contexts/economy-core/sparks-ledger/adapters/memory"
	"taleforge/contexts/economy-core/sparks-ledger/adapters/notify"
	"taleforge/contexts/economy-core/sparks-ledger/application"
	"taleforge/contexts/economy-core/sparks-ledger/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Service  application.Service
	Store    *memory.Store
	Notifier *notify.ChannelNotifier
}

type Dependencies struct {
	Repo     ports.Repository
	Notifier ports.BalanceNotifier
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:     deps.Repo,
		Notifier: deps.Notifier,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	notifier := notify.NewChannelNotifier(0, logger)
	module := NewModule(Dependencies{
		Repo:     store,
		Notifier: notifier,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	module.Notifier = notifier
	return module
}
