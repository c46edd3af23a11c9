package queries

import (
	"context"
	"log/slog"
	"strings"

	"taleforge/contexts/story-core/template-library/domain/entities"
	"taleforge/contexts/story-core/template-library/ports"
)

type GetTemplateUseCase struct {
	Templates ports.TemplateRepository
	Logger    *slog.Logger
}

func (uc GetTemplateUseCase) Execute(ctx context.Context, templateID string) (entities.Template, error) {
	return uc.Templates.GetTemplate(ctx, strings.TrimSpace(templateID))
}
