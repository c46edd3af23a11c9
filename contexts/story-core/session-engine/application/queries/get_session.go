package queries

import (
	"context"
	"log/slog"
	"strings"

	"taleforge/contexts/story-core/session-engine/domain/entities"
	"taleforge/contexts/story-core/session-engine/domain/services"
	"taleforge/contexts/story-core/session-engine/ports"
)

type GetSessionUseCase struct {
	Sessions ports.SessionRepository
	Logger   *slog.Logger
}

func (uc GetSessionUseCase) Execute(ctx context.Context, sessionID string) (entities.Session, error) {
	return uc.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
}

type ListSessionsQuery struct {
	HostID string
	Status string
}

type ListSessionsUseCase struct {
	Sessions ports.SessionRepository
	Logger   *slog.Logger
}

func (uc ListSessionsUseCase) Execute(ctx context.Context, query ListSessionsQuery) ([]entities.Session, error) {
	filter := ports.SessionFilter{
		HostID: strings.TrimSpace(query.HostID),
	}
	if strings.TrimSpace(query.Status) != "" {
		filter.Status = entities.SessionStatus(strings.TrimSpace(query.Status))
	}
	return uc.Sessions.ListSessions(ctx, filter)
}

type AssembleStoryUseCase struct {
	Sessions ports.SessionRepository
	Catalog  ports.TemplateCatalog
	Logger   *slog.Logger
}

type AssembledStory struct {
	SessionID    string
	Title        string
	Genre        string
	Text         string
	Contributors []string
}

func (uc AssembleStoryUseCase) Execute(ctx context.Context, sessionID string) (AssembledStory, error) {
	session, err := uc.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return AssembledStory{}, err
	}
	template, err := uc.Catalog.GetTemplate(ctx, session.TemplateID)
	if err != nil {
		return AssembledStory{}, err
	}
	text, err := services.AssembleStory(template, session)
	if err != nil {
		return AssembledStory{}, err
	}
	return AssembledStory{
		SessionID:    session.SessionID,
		Title:        session.Title,
		Genre:        session.Genre,
		Text:         text,
		Contributors: append([]string(nil), session.Participants...),
	}, nil
}
