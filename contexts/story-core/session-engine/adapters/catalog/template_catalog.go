package catalog

import (
	"context"
	"errors"

	templateentities "taleforge/contexts/story-core/template-library/domain/entities"
	templateerrors "taleforge/contexts/story-core/template-library/domain/errors"
	templateports "taleforge/contexts/story-core/template-library/ports"

	"taleforge/contexts/story-core/session-engine/domain/entities"
	domainerrors "taleforge/contexts/story-core/session-engine/domain/errors"
)

// LibraryCatalog projects template-library entities into engine snapshots,
// translating the library's errors into the engine's.
type LibraryCatalog struct {
	Templates templateports.TemplateRepository
}

func (c LibraryCatalog) GetTemplate(ctx context.Context, templateID string) (entities.TemplateSnapshot, error) {
	template, err := c.Templates.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, templateerrors.ErrTemplateNotFound) {
			return entities.TemplateSnapshot{}, domainerrors.ErrTemplateNotFound
		}
		return entities.TemplateSnapshot{}, err
	}
	return snapshotFromTemplate(template), nil
}

func snapshotFromTemplate(template templateentities.Template) entities.TemplateSnapshot {
	segments := make([]entities.TemplateSegment, 0, len(template.Segments))
	for _, segment := range template.Segments {
		segments = append(segments, entities.TemplateSegment{
			Literal:    segment.Literal,
			Tag:        segment.Tag,
			BlankIndex: segment.BlankIndex,
		})
	}
	return entities.TemplateSnapshot{
		TemplateID: template.TemplateID,
		Title:      template.Title,
		Genre:      template.Genre,
		Segments:   segments,
	}
}
