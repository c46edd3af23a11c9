package financereporting

import (
	"log/slog"

	httpadapter "taleforge/contexts/economy-core/finance-reporting/adapters/http"
	"taleforge/contexts/economy-core/finance-reporting/adapters/memory"
	"taleforge/contexts/economy-core/finance-reporting/application"
	"taleforge/contexts/economy-core/finance-reporting/domain/services"
	"taleforge/contexts/economy-core/finance-reporting/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repo   ports.TransactionRepository
	Rates  services.Rates
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	rates := deps.Rates
	if rates == (services.Rates{}) {
		rates = services.DefaultRates()
	}
	service := application.Service{
		Repo:   deps.Repo,
		Rates:  rates,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
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
	module := NewModule(Dependencies{
		Repo:   store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
