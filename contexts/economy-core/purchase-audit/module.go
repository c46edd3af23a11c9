package purchaseaudit

import (
	"log/slog"

	httpadapter "taleforge/contexts/economy-core/purchase-audit/adapters/http"
	"taleforge/contexts/economy-core/purchase-audit/adapters/memory"
	"taleforge/contexts/economy-core/purchase-audit/application/commands"
	"taleforge/contexts/economy-core/purchase-audit/application/queries"
	"taleforge/contexts/economy-core/purchase-audit/application/workers"
	"taleforge/contexts/economy-core/purchase-audit/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Attempts   ports.AttemptRepository
	Sparks     ports.SparksCredit
	Finance    ports.FinanceRecorder
	Outbox     ports.OutboxWriter
	OutboxRepo ports.OutboxRepository
	Publisher  ports.EventPublisher
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			InitiatePurchase: commands.InitiatePurchaseUseCase{
				Attempts: deps.Attempts,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			MarkProcessing: commands.MarkProcessingUseCase{
				Attempts: deps.Attempts,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			MarkCompleted: commands.MarkCompletedUseCase{
				Attempts: deps.Attempts,
				Sparks:   deps.Sparks,
				Finance:  deps.Finance,
				Outbox:   deps.Outbox,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			MarkDeclined: commands.MarkDeclinedUseCase{
				Attempts: deps.Attempts,
				Outbox:   deps.Outbox,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			MarkFailed: commands.MarkFailedUseCase{
				Attempts: deps.Attempts,
				Outbox:   deps.Outbox,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			CancelAttempt: commands.CancelAttemptUseCase{
				Attempts: deps.Attempts,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			GetAttempt: queries.GetAttemptUseCase{
				Attempts: deps.Attempts,
				Logger:   deps.Logger,
			},
			ListAttempts: queries.ListAttemptsUseCase{
				Attempts: deps.Attempts,
				Logger:   deps.Logger,
			},
			ListPackages: queries.ListPackagesUseCase{
				Logger: deps.Logger,
			},
			Dashboard: queries.DashboardUseCase{
				Attempts: deps.Attempts,
				Logger:   deps.Logger,
			},
			Logger: deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.OutboxRepo,
			Publisher: deps.Publisher,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the audit trail over the memory store. The
// sparks and finance ports come from the caller so completions settle
// against the real ledger and books.
func NewInMemoryModule(sparks ports.SparksCredit, finance ports.FinanceRecorder, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Attempts:   store,
		Sparks:     sparks,
		Finance:    finance,
		Outbox:     store,
		OutboxRepo: store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
