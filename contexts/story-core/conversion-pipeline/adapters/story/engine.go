package story

import (
	"context"
	"errors"

	"taleforge/contexts/story-core/conversion-pipeline/domain/entities"
	domainerrors "taleforge/contexts/story-core/conversion-pipeline/domain/errors"
	sessionqueries "taleforge/contexts/story-core/session-engine/application/queries"
	sessionerrors "taleforge/contexts/story-core/session-engine/domain/errors"
)

// EngineStories reads completed stories from the session engine, translating
// its sentinels into pipeline-local ones.
type EngineStories struct {
	Assemble sessionqueries.AssembleStoryUseCase
}

func (a EngineStories) CompletedStory(ctx context.Context, sessionID string) (entities.Story, error) {
	assembled, err := a.Assemble.Execute(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, sessionerrors.ErrSessionNotFound):
			return entities.Story{}, domainerrors.ErrSessionNotFound
		case errors.Is(err, sessionerrors.ErrStoryNotReady):
			return entities.Story{}, domainerrors.ErrStoryNotReady
		}
		return entities.Story{}, err
	}
	return entities.Story{
		Title:        assembled.Title,
		Genre:        assembled.Genre,
		Text:         assembled.Text,
		Contributors: assembled.Contributors,
	}, nil
}
