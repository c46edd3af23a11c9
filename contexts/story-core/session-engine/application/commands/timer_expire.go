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

// TimerExpireUseCase is system-invoked when a turn countdown lapses, from
// the in-process scheduler or the restart sweep. It is idempotent per
// (session, turn index): a stale expiry is a logged no-op.
type TimerExpireUseCase struct {
	Sessions  ports.SessionRepository
	Deadlines ports.DeadlineRepository
	Scheduler ports.TurnScheduler
	Catalog   ports.TemplateCatalog
	Generator ports.AssistGenerator
	Outbox    ports.OutboxWriter
	Locks     *application.SessionLocks
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc TimerExpireUseCase) Execute(ctx context.Context, sessionID string, turnIndex int) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)

	sessionID = strings.TrimSpace(sessionID)
	unlock := uc.Locks.Lock(sessionID)
	defer unlock()

	session, err := uc.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return entities.Session{}, err
	}
	if session.Status != entities.SessionStatusActive || session.CurrentTurnIndex != turnIndex {
		logger.Info("turn expiry skipped",
			"event", "session_turn_expiry_skipped",
			"module", "story-core/session-engine",
			"layer", "application",
			"session_id", sessionID,
			"expired_turn_index", turnIndex,
			"current_turn_index", session.CurrentTurnIndex,
			"status", string(session.Status),
		)
		return session, domainerrors.ErrAlreadySubmitted
	}

	template, err := uc.Catalog.GetTemplate(ctx, session.TemplateID)
	if err != nil {
		return entities.Session{}, err
	}
	tag := template.BlankTag(turnIndex)

	text := ""
	if uc.Generator != nil {
		if generated, genErr := uc.Generator.GenerateWord(ctx, tag, session.Genre); genErr == nil {
			text = generated
		}
	}
	if strings.TrimSpace(text) == "" {
		text = "something"
	}

	advancer := turnAdvancer{
		Sessions:  uc.Sessions,
		Deadlines: uc.Deadlines,
		Scheduler: uc.Scheduler,
		Catalog:   uc.Catalog,
		Outbox:    uc.Outbox,
		IDGen:     uc.IDGen,
		Logger:    uc.Logger,
	}
	return advancer.apply(ctx, session, "", text, entities.OriginTimerAuto, uc.Clock.Now().UTC())
}
