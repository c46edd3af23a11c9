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
)

type StatusAction string

const (
	StatusActionPause  StatusAction = "pause"
	StatusActionResume StatusAction = "resume"
)

type ChangeStatusUseCase struct {
	Sessions  ports.SessionRepository
	Deadlines ports.DeadlineRepository
	Scheduler ports.TurnScheduler
	Locks     *application.SessionLocks
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ChangeStatusUseCase) Execute(ctx context.Context, sessionID string, action StatusAction) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)

	sessionID = strings.TrimSpace(sessionID)
	unlock := uc.Locks.Lock(sessionID)
	defer unlock()

	session, err := uc.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return entities.Session{}, err
	}

	now := uc.Clock.Now().UTC()
	from := session.Status
	switch action {
	case StatusActionPause:
		if session.Status != entities.SessionStatusActive {
			return entities.Session{}, domainerrors.ErrInvalidStateTransition
		}
		session.Status = entities.SessionStatusPaused
		session.PausedAt = &now
	case StatusActionResume:
		if session.Status != entities.SessionStatusPaused {
			return entities.Session{}, domainerrors.ErrInvalidStateTransition
		}
		session.Status = entities.SessionStatusActive
		session.ResumedAt = &now
	default:
		return entities.Session{}, domainerrors.ErrInvalidStateTransition
	}
	session.UpdatedAt = now
	if err := uc.Sessions.UpdateSession(ctx, session); err != nil {
		return entities.Session{}, err
	}

	switch action {
	case StatusActionPause:
		if uc.Scheduler != nil {
			uc.Scheduler.Cancel(session.SessionID)
		}
		if err := uc.Deadlines.DeleteDeadline(ctx, session.SessionID); err != nil {
			return entities.Session{}, err
		}
	case StatusActionResume:
		// Resume restarts the countdown at full duration for the turn that
		// was interrupted.
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
	}

	logger.Info("session state changed",
		"event", "session_state_changed",
		"module", "story-core/session-engine",
		"layer", "application",
		"session_id", session.SessionID,
		"from_status", string(from),
		"to_status", string(session.Status),
	)
	return session, nil
}
