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

type SubmitTurnCommand struct {
	SessionID     string
	ContributorID string
	Text          string
	TurnIndex     int
}

type SubmitTurnUseCase struct {
	Sessions  ports.SessionRepository
	Deadlines ports.DeadlineRepository
	Scheduler ports.TurnScheduler
	Catalog   ports.TemplateCatalog
	Outbox    ports.OutboxWriter
	Locks     *application.SessionLocks
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc SubmitTurnUseCase) Execute(ctx context.Context, cmd SubmitTurnCommand) (entities.Session, error) {
	if strings.TrimSpace(cmd.ContributorID) == "" {
		return entities.Session{}, domainerrors.ErrContributorRequired
	}

	sessionID := strings.TrimSpace(cmd.SessionID)
	unlock := uc.Locks.Lock(sessionID)
	defer unlock()

	session, err := uc.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return entities.Session{}, err
	}
	// The check runs under the session lock, so a timer auto-fill that won
	// the race leaves the losing submission with no side effect. Inactive
	// sessions fall through to the advancer's state check instead.
	if session.Status == entities.SessionStatusActive && cmd.TurnIndex != session.CurrentTurnIndex {
		application.ResolveLogger(uc.Logger).Info("out-of-sequence submission rejected",
			"event", "session_turn_out_of_sequence",
			"module", "story-core/session-engine",
			"layer", "application",
			"session_id", sessionID,
			"submitted_turn_index", cmd.TurnIndex,
			"current_turn_index", session.CurrentTurnIndex,
		)
		return entities.Session{}, domainerrors.ErrOutOfTurnSequence
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
	return advancer.apply(ctx, session, cmd.ContributorID, cmd.Text, entities.OriginHuman, uc.Clock.Now().UTC())
}
