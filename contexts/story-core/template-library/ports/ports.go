package ports

import (
	"context"
	"time"

	"taleforge/contexts/story-core/template-library/domain/entities"
)

type TemplateFilter struct {
	Genre      string
	Difficulty entities.Difficulty
}

type TemplateRepository interface {
	CreateTemplate(ctx context.Context, template entities.Template) error
	GetTemplate(ctx context.Context, templateID string) (entities.Template, error)
	ListTemplates(ctx context.Context, filter TemplateFilter) ([]entities.Template, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
