package queries

import (
	"context"
	"log/slog"
	"strings"

	application "taleforge/contexts/story-core/template-library/application"
	"taleforge/contexts/story-core/template-library/domain/entities"
	"taleforge/contexts/story-core/template-library/ports"
)

type ListTemplatesQuery struct {
	Genre      string
	Difficulty string
}

type ListTemplatesUseCase struct {
	Templates ports.TemplateRepository
	Logger    *slog.Logger
}

func (uc ListTemplatesUseCase) Execute(ctx context.Context, query ListTemplatesQuery) ([]entities.Template, error) {
	logger := application.ResolveLogger(uc.Logger)
	filter := ports.TemplateFilter{
		Genre: strings.ToLower(strings.TrimSpace(query.Genre)),
	}
	if strings.TrimSpace(query.Difficulty) != "" {
		filter.Difficulty = entities.Difficulty(strings.ToLower(strings.TrimSpace(query.Difficulty)))
	}
	items, err := uc.Templates.ListTemplates(ctx, filter)
	if err != nil {
		return nil, err
	}
	logger.Info("templates listed",
		"event", "templates_listed",
		"module", "story-core/template-library",
		"layer", "application",
		"count", len(items),
	)
	return items, nil
}
