package commands

import (
	"context"
	"log/slog"
	"strings"

	application "taleforge/contexts/story-core/session-engine/application"
	"taleforge/contexts/story-core/session-engine/domain/entities"
	domainerrors "taleforge/contexts/story-core/session-engine/domain/errors"
	"taleforge/contexts/story-core/session-engine/ports"
)

type CreateSessionCommand struct {
	HostID       string
	Title        string
	Genre        string
	TemplateID   string
	TurnSeconds  *int
	Participants []string
}

type CreateSessionUseCase struct {
	Sessions ports.SessionRepository
	Catalog  ports.TemplateCatalog
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc CreateSessionUseCase) Execute(ctx context.Context, cmd CreateSessionCommand) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)

	hostID := strings.TrimSpace(cmd.HostID)
	if hostID == "" {
		return entities.Session{}, domainerrors.ErrContributorRequired
	}
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return entities.Session{}, domainerrors.ErrTitleRequired
	}

	template, err := uc.Catalog.GetTemplate(ctx, strings.TrimSpace(cmd.TemplateID))
	if err != nil {
		return entities.Session{}, err
	}

	turnSeconds := entities.TurnSecondsNormal
	if cmd.TurnSeconds != nil {
		turnSeconds = *cmd.TurnSeconds
	}
	if !entities.IsSupportedTurnSeconds(turnSeconds) {
		return entities.Session{}, domainerrors.ErrUnsupportedTurnSeconds
	}

	genre := strings.ToLower(strings.TrimSpace(cmd.Genre))
	if genre == "" {
		genre = template.Genre
	}

	sessionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Session{}, err
	}

	now := uc.Clock.Now().UTC()
	session := entities.Session{
		SessionID:        sessionID,
		HostID:           hostID,
		Title:            title,
		Genre:            genre,
		TemplateID:       template.TemplateID,
		Status:           entities.SessionStatusDraft,
		Participants:     uniqueParticipants(hostID, cmd.Participants),
		CurrentTurnIndex: 0,
		TotalTurns:       template.BlankCount(),
		Responses:        make([]entities.TurnResponse, 0, template.BlankCount()),
		TurnSeconds:      turnSeconds,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.Sessions.CreateSession(ctx, session); err != nil {
		return entities.Session{}, err
	}

	logger.Info("session created",
		"event", "session_created",
		"module", "story-core/session-engine",
		"layer", "application",
		"session_id", session.SessionID,
		"template_id", session.TemplateID,
		"total_turns", session.TotalTurns,
		"turn_seconds", session.TurnSeconds,
	)
	return session, nil
}

func uniqueParticipants(hostID string, extras []string) []string {
	seen := map[string]struct{}{hostID: {}}
	participants := []string{hostID}
	for _, raw := range extras {
		participant := strings.TrimSpace(raw)
		if participant == "" {
			continue
		}
		if _, exists := seen[participant]; exists {
			continue
		}
		seen[participant] = struct{}{}
		participants = append(participants, participant)
	}
	return participants
}
