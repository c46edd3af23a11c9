package sessionengine

import (
	"context"
	"log/slog"

	"taleforge/contexts/story-core/session-engine/adapters/assist"
	httpadapter "taleforge/contexts/story-core/session-engine/adapters/http"
	"taleforge/contexts/story-core/session-engine/adapters/memory"
	"taleforge/contexts/story-core/session-engine/adapters/scheduler"
	"taleforge/contexts/story-core/session-engine/application"
	"taleforge/contexts/story-core/session-engine/application/commands"
	"taleforge/contexts/story-core/session-engine/application/queries"
	"taleforge/contexts/story-core/session-engine/application/workers"
	"taleforge/contexts/story-core/session-engine/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	TimerExpire commands.TimerExpireUseCase
	TurnSweeper workers.TurnSweeper
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
	Scheduler   *scheduler.TimerScheduler
}

type Dependencies struct {
	Sessions   ports.SessionRepository
	Deadlines  ports.DeadlineRepository
	Catalog    ports.TemplateCatalog
	Scheduler  ports.TurnScheduler
	Generator  ports.AssistGenerator
	Sparks     ports.SparksAccounts
	Outbox     ports.OutboxWriter
	OutboxRepo ports.OutboxRepository
	Publisher  ports.EventPublisher
	AssistCost int64
	SweepBatch int
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	locks := application.NewSessionLocks()

	createSession := commands.CreateSessionUseCase{
		Sessions: deps.Sessions,
		Catalog:  deps.Catalog,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	startSession := commands.StartSessionUseCase{
		Sessions:  deps.Sessions,
		Deadlines: deps.Deadlines,
		Scheduler: deps.Scheduler,
		Outbox:    deps.Outbox,
		Locks:     locks,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	submitTurn := commands.SubmitTurnUseCase{
		Sessions:  deps.Sessions,
		Deadlines: deps.Deadlines,
		Scheduler: deps.Scheduler,
		Catalog:   deps.Catalog,
		Outbox:    deps.Outbox,
		Locks:     locks,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Sessions:  deps.Sessions,
		Deadlines: deps.Deadlines,
		Scheduler: deps.Scheduler,
		Locks:     locks,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	timerExpire := commands.TimerExpireUseCase{
		Sessions:  deps.Sessions,
		Deadlines: deps.Deadlines,
		Scheduler: deps.Scheduler,
		Catalog:   deps.Catalog,
		Generator: deps.Generator,
		Outbox:    deps.Outbox,
		Locks:     locks,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	aiAssist := commands.AIAssistUseCase{
		Sessions:   deps.Sessions,
		Deadlines:  deps.Deadlines,
		Scheduler:  deps.Scheduler,
		Catalog:    deps.Catalog,
		Generator:  deps.Generator,
		Sparks:     deps.Sparks,
		Outbox:     deps.Outbox,
		Locks:      locks,
		AssistCost: deps.AssistCost,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}

	getSession := queries.GetSessionUseCase{
		Sessions: deps.Sessions,
		Logger:   deps.Logger,
	}
	listSessions := queries.ListSessionsUseCase{
		Sessions: deps.Sessions,
		Logger:   deps.Logger,
	}
	assembleStory := queries.AssembleStoryUseCase{
		Sessions: deps.Sessions,
		Catalog:  deps.Catalog,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateSession: createSession,
			StartSession:  startSession,
			SubmitTurn:    submitTurn,
			ChangeStatus:  changeStatus,
			AIAssist:      aiAssist,
			GetSession:    getSession,
			ListSessions:  listSessions,
			AssembleStory: assembleStory,
			Logger:        deps.Logger,
		},
		TimerExpire: timerExpire,
		TurnSweeper: workers.TurnSweeper{
			Deadlines: deps.Deadlines,
			Expire:    timerExpire,
			Clock:     deps.Clock,
			BatchSize: deps.SweepBatch,
			Logger:    deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.OutboxRepo,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the engine over the memory store, the AfterFunc
// scheduler and the deterministic word bank.
func NewInMemoryModule(
	catalog ports.TemplateCatalog,
	sparks ports.SparksAccounts,
	assistCost int64,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	timers := scheduler.NewTimerScheduler(logger)
	module := NewModule(Dependencies{
		Sessions:   store,
		Deadlines:  store,
		Catalog:    catalog,
		Scheduler:  timers,
		Generator:  assist.WordBankGenerator{},
		Sparks:     sparks,
		Outbox:     store,
		OutboxRepo: store,
		AssistCost: assistCost,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	module.Scheduler = timers
	timers.SetExpireFunc(func(ctx context.Context, sessionID string, turnIndex int) {
		_, _ = module.TimerExpire.Execute(ctx, sessionID, turnIndex)
	})
	return module
}
