package conversionpipeline

import (
	"log/slog"

	httpadapter "taleforge/contexts/story-core/conversion-pipeline/adapters/http"
	"taleforge/contexts/story-core/conversion-pipeline/adapters/memory"
	"taleforge/contexts/story-core/conversion-pipeline/application"
	"taleforge/contexts/story-core/conversion-pipeline/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Conversions ports.ConversionRepository
	Stories     ports.StoryProvider
	Sparks      ports.SparksAccounts
	Seeder      ports.TemplateSeeder
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Conversions: deps.Conversions,
		Stories:     deps.Stories,
		Sparks:      deps.Sparks,
		Seeder:      deps.Seeder,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(stories ports.StoryProvider, sparks ports.SparksAccounts, seeder ports.TemplateSeeder, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Conversions: store,
		Stories:     stories,
		Sparks:      sparks,
		Seeder:      seeder,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
