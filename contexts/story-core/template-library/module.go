package templatelibrary

import (
	"log/slog"
	"time"

	httpadapter "taleforge/contexts/story-core/template-library/adapters/http"
	"taleforge/contexts/story-core/template-library/adapters/memory"
	"taleforge/contexts/story-core/template-library/application/commands"
	"taleforge/contexts/story-core/template-library/application/queries"
	"taleforge/contexts/story-core/template-library/domain/services"
	"taleforge/contexts/story-core/template-library/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Templates   ports.TemplateRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registerTemplate := commands.RegisterTemplateUseCase{
		Templates:   deps.Templates,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	getTemplate := queries.GetTemplateUseCase{
		Templates: deps.Templates,
		Logger:    deps.Logger,
	}
	listTemplates := queries.ListTemplatesUseCase{
		Templates: deps.Templates,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			RegisterTemplate: registerTemplate,
			GetTemplate:      getTemplate,
			ListTemplates:    listTemplates,
			Logger:           deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore(services.PrebuiltTemplates(time.Now().UTC()))
	module := NewModule(Dependencies{
		Templates:   store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
