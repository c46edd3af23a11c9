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

// AIAssistUseCase charges the contributor's spark account, generates a fill
// for the current blank and submits it. The debit happens only after the
// session is confirmed active, and generation failure refunds it.
type AIAssistUseCase struct {
	Sessions   ports.SessionRepository
	Deadlines  ports.DeadlineRepository
	Scheduler  ports.TurnScheduler
	Catalog    ports.TemplateCatalog
	Generator  ports.AssistGenerator
	Sparks     ports.SparksAccounts
	Outbox     ports.OutboxWriter
	Locks      *application.SessionLocks
	AssistCost int64
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc AIAssistUseCase) Execute(ctx context.Context, sessionID string, contributorID string) (entities.Session, error) {
	logger := application.ResolveLogger(uc.Logger)

	contributorID = strings.TrimSpace(contributorID)
	if contributorID == "" {
		return entities.Session{}, domainerrors.ErrContributorRequired
	}

	sessionID = strings.TrimSpace(sessionID)
	unlock := uc.Locks.Lock(sessionID)
	defer unlock()

	session, err := uc.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return entities.Session{}, err
	}
	if session.Status != entities.SessionStatusActive {
		return entities.Session{}, domainerrors.ErrInvalidStateTransition
	}

	template, err := uc.Catalog.GetTemplate(ctx, session.TemplateID)
	if err != nil {
		return entities.Session{}, err
	}
	tag := template.BlankTag(session.CurrentTurnIndex)

	if err := uc.Sparks.Debit(ctx, contributorID, uc.AssistCost, "ai_assist", session.SessionID); err != nil {
		return entities.Session{}, err
	}

	text, err := uc.Generator.GenerateWord(ctx, tag, session.Genre)
	if err != nil || strings.TrimSpace(text) == "" {
		uc.refund(ctx, logger, contributorID, session.SessionID)
		logger.Error("assist generation failed",
			"event", "session_assist_failed",
			"module", "story-core/session-engine",
			"layer", "application",
			"session_id", sessionID,
			"contributor_id", contributorID,
			"tag", tag,
			"error", err,
		)
		return entities.Session{}, domainerrors.ErrAssistFailed
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
	advanced, err := advancer.apply(ctx, session, contributorID, text, entities.OriginAIAssist, uc.Clock.Now().UTC())
	if err != nil {
		// The charge stands only when the fill actually lands.
		uc.refund(ctx, logger, contributorID, session.SessionID)
		return entities.Session{}, err
	}
	return advanced, nil
}

func (uc AIAssistUseCase) refund(ctx context.Context, logger *slog.Logger, contributorID string, sessionID string) {
	if err := uc.Sparks.Credit(ctx, contributorID, uc.AssistCost, "ai_assist_refund", sessionID); err != nil {
		logger.Error("assist refund failed",
			"event", "session_assist_refund_failed",
			"module", "story-core/session-engine",
			"layer", "application",
			"session_id", sessionID,
			"contributor_id", contributorID,
			"error", err,
		)
	}
}
