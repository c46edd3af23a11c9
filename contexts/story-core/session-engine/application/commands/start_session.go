package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "taleforge/contexts/story-core/session-engine/application"
	"taleforge/contexts/story-core/session-engine/domain/entities"
	domainerrors "taleforge/contexts/story-core/session-engine/domain/errors"
	"taleforge/contexts/story-core/session-engine/ports"
	"taleforge/internal/shared/events"
)

type StartSessionUseCase struct {
	Sessions  ports.SessionRepository
	Deadlines ports.DeadlineRepository
	Scheduler ports.TurnScheduler
	Outbox    ports.OutboxWriter
	Locks     *application.SessionLocks
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc StartSessionUseCase) Execute(ctx context.Context, sessionID string) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)

	sessionID = strings.TrimSpace(sessionID)
	unlock := uc.Locks.Lock(sessionID)
	defer unlock()

	session, err := uc.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return entities.Session{}, err
	}
	if session.Status != entities.SessionStatusDraft {
		return entities.Session{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	session.Status = entities.SessionStatusActive
	session.StartedAt = &now
	session.UpdatedAt = now
	if err := uc.Sessions.UpdateSession(ctx, session); err != nil {
		return entities.Session{}, err
	}

	if session.TurnSeconds > 0 {
		fireIn := time.Duration(session.TurnSeconds) * time.Second
		if err := uc.Deadlines.UpsertDeadline(ctx, entities.TurnDeadline{
			SessionID: session.SessionID,
			TurnIndex: session.CurrentTurnIndex,
			ExpiresAt: now.Add(fireIn),
		}); err != nil {
			return entities.Session{}, err
		}
		if uc.Scheduler != nil {
			uc.Scheduler.Schedule(session.SessionID, session.CurrentTurnIndex, fireIn)
		}
	}

	if uc.Outbox != nil {
		eventID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Session{}, err
		}
		envelope, err := newSessionEnvelope(eventID, events.TypeSessionStarted, session.SessionID, now, map[string]any{
			"session_id":  session.SessionID,
			"template_id": session.TemplateID,
			"total_turns": session.TotalTurns,
		})
		if err != nil {
			return entities.Session{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return entities.Session{}, err
		}
	}

	logger.Info("session started",
		"event", "session_started",
		"module", "story-core/session-engine",
		"layer", "application",
		"session_id", session.SessionID,
		"total_turns", session.TotalTurns,
	)
	return session, nil
}
