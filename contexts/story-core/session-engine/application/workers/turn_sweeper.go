package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "taleforge/contexts/story-core/session-engine/application"
	"taleforge/contexts/story-core/session-engine/application/commands"
	domainerrors "taleforge/contexts/story-core/session-engine/domain/errors"
	"taleforge/contexts/story-core/session-engine/ports"
)

// TurnSweeper expires overdue turn deadlines that the in-process scheduler
// missed, typically after a restart.
type TurnSweeper struct {
	Deadlines ports.DeadlineRepository
	Expire    commands.TimerExpireUseCase
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (j TurnSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}

	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	expired, err := j.Deadlines.ListExpiredDeadlines(ctx, now, limit)
	if err != nil {
		logger.Error("turn deadline sweep failed",
			"event", "session_turn_sweep_failed",
			"module", "story-core/session-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	filled := 0
	for _, deadline := range expired {
		_, err := j.Expire.Execute(ctx, deadline.SessionID, deadline.TurnIndex)
		if errors.Is(err, domainerrors.ErrAlreadySubmitted) {
			continue
		}
		if err != nil {
			logger.Error("turn expiry failed",
				"event", "session_turn_expiry_failed",
				"module", "story-core/session-engine",
				"layer", "worker",
				"session_id", deadline.SessionID,
				"turn_index", deadline.TurnIndex,
				"error", err.Error(),
			)
			return err
		}
		filled++
	}

	if filled > 0 {
		logger.Info("turn deadline sweep completed",
			"event", "session_turn_sweep_completed",
			"module", "story-core/session-engine",
			"layer", "worker",
			"expired_count", len(expired),
			"filled_count", filled,
		)
	}
	return nil
}
