package commands

import (
	"context"
	"log/slog"
	"strings"

	application "taleforge/contexts/story-core/template-library/application"
	"taleforge/contexts/story-core/template-library/domain/entities"
	domainerrors "taleforge/contexts/story-core/template-library/domain/errors"
	"taleforge/contexts/story-core/template-library/ports"
)

type RegisterTemplateCommand struct {
	Title      string
	Genre      string
	Difficulty string
	Text       string
	Tags       []string
}

type RegisterTemplateUseCase struct {
	Templates   ports.TemplateRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc RegisterTemplateUseCase) Execute(ctx context.Context, cmd RegisterTemplateCommand) (entities.Template, error) {
	logger := application.ResolveLogger(uc.Logger)

	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return entities.Template{}, domainerrors.ErrTitleRequired
	}
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return entities.Template{}, domainerrors.ErrTextRequired
	}
	genre := strings.ToLower(strings.TrimSpace(cmd.Genre))
	if !entities.IsSupportedGenre(genre) {
		return entities.Template{}, domainerrors.ErrUnsupportedGenre
	}
	difficulty := entities.Difficulty(strings.ToLower(strings.TrimSpace(cmd.Difficulty)))
	if difficulty == "" {
		difficulty = entities.DifficultyMedium
	}
	if !entities.IsSupportedDifficulty(difficulty) {
		return entities.Template{}, domainerrors.ErrUnsupportedDifficulty
	}

	segments := entities.ParseSegments(text)
	template := entities.Template{
		Title:      title,
		Genre:      genre,
		Difficulty: difficulty,
		Segments:   segments,
		Tags:       append([]string(nil), cmd.Tags...),
	}
	if template.BlankCount() == 0 {
		return entities.Template{}, domainerrors.ErrNoBlanks
	}

	templateID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Template{}, err
	}
	template.TemplateID = templateID
	template.CreatedAt = uc.Clock.Now().UTC()

	if err := uc.Templates.CreateTemplate(ctx, template); err != nil {
		return entities.Template{}, err
	}

	logger.Info("template registered",
		"event", "template_registered",
		"module", "story-core/template-library",
		"layer", "application",
		"template_id", template.TemplateID,
		"genre", template.Genre,
		"blank_count", template.BlankCount(),
	)
	return template, nil
}
