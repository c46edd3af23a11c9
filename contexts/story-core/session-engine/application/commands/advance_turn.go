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

// turnAdvancer applies the single transition rule shared by human
// submissions, timer auto-fills and assisted fills: append the response at
// the current index, advance, reschedule or complete. Callers hold the
// session lock.
type turnAdvancer struct {
	Sessions  ports.SessionRepository
	Deadlines ports.DeadlineRepository
	Scheduler ports.TurnScheduler
	Catalog   ports.TemplateCatalog
	Outbox    ports.OutboxWriter
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (a turnAdvancer) apply(
	ctx context.Context,
	session entities.Session,
	contributorID string,
	text string,
	origin entities.ResponseOrigin,
	now time.Time,
) (entities.Session, error) {
	logger := application.ResolveLogger(a.Logger)

	if session.Status != entities.SessionStatusActive {
		return entities.Session{}, domainerrors.ErrInvalidStateTransition
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return entities.Session{}, domainerrors.ErrEmptyResponseText
	}

	template, err := a.Catalog.GetTemplate(ctx, session.TemplateID)
	if err != nil {
		return entities.Session{}, err
	}

	contributorID = strings.TrimSpace(contributorID)
	if contributorID != "" && !session.HasParticipant(contributorID) {
		session.Participants = append(session.Participants, contributorID)
	}

	turnIndex := session.CurrentTurnIndex
	session.Responses = append(session.Responses, entities.TurnResponse{
		BlankIndex:    turnIndex,
		Tag:           template.BlankTag(turnIndex),
		Text:          text,
		ContributorID: contributorID,
		SubmittedAt:   now,
		Origin:        origin,
	})
	session.CurrentTurnIndex++
	session.UpdatedAt = now

	completed := session.CurrentTurnIndex == session.TotalTurns
	if completed {
		session.Status = entities.SessionStatusCompleted
		session.CompletedAt = &now
	}

	if err := a.Sessions.UpdateSession(ctx, session); err != nil {
		return entities.Session{}, err
	}

	if completed {
		if a.Scheduler != nil {
			a.Scheduler.Cancel(session.SessionID)
		}
		if err := a.Deadlines.DeleteDeadline(ctx, session.SessionID); err != nil {
			return entities.Session{}, err
		}
	} else if session.TurnSeconds > 0 {
		fireIn := time.Duration(session.TurnSeconds) * time.Second
		if err := a.Deadlines.UpsertDeadline(ctx, entities.TurnDeadline{
			SessionID: session.SessionID,
			TurnIndex: session.CurrentTurnIndex,
			ExpiresAt: now.Add(fireIn),
		}); err != nil {
			return entities.Session{}, err
		}
		if a.Scheduler != nil {
			a.Scheduler.Schedule(session.SessionID, session.CurrentTurnIndex, fireIn)
		}
	}

	if err := a.appendEvent(ctx, session, events.TypeSessionTurnSubmitted, now, map[string]any{
		"session_id":     session.SessionID,
		"turn_index":     turnIndex,
		"origin":         string(origin),
		"contributor_id": contributorID,
	}); err != nil {
		return entities.Session{}, err
	}
	if completed {
		if err := a.appendEvent(ctx, session, events.TypeSessionCompleted, now, map[string]any{
			"session_id":  session.SessionID,
			"total_turns": session.TotalTurns,
		}); err != nil {
			return entities.Session{}, err
		}
	}

	logger.Info("turn submitted",
		"event", "session_turn_submitted",
		"module", "story-core/session-engine",
		"layer", "application",
		"session_id", session.SessionID,
		"turn_index", turnIndex,
		"origin", string(origin),
		"completed", completed,
	)
	return session, nil
}

func (a turnAdvancer) appendEvent(
	ctx context.Context,
	session entities.Session,
	eventType string,
	now time.Time,
	data map[string]any,
) error {
	if a.Outbox == nil {
		return nil
	}
	eventID, err := a.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newSessionEnvelope(eventID, eventType, session.SessionID, now, data)
	if err != nil {
		return err
	}
	return a.Outbox.AppendOutbox(ctx, envelope)
}
