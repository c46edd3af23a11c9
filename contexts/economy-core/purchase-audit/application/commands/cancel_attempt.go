package commands

import (
	"context"
	"log/slog"

	"taleforge/contexts/economy-core/purchase-audit/application"
	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	"taleforge/contexts/economy-core/purchase-audit/ports"
)

type CancelAttemptUseCase struct {
	Attempts ports.AttemptRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Execute cancels an attempt the buyer abandoned before payment started.
// Once the processor has the attempt, only its callbacks settle it.
func (uc CancelAttemptUseCase) Execute(ctx context.Context, attemptID string) (entities.PurchaseAttempt, error) {
	now := uc.Clock.Now().UTC()
	attempt, _, err := applyTransition(ctx, uc.Attempts, attemptID, entities.StatusCancelled, now,
		func(entities.PurchaseAttempt) bool { return true },
		func(*entities.PurchaseAttempt) {},
	)
	if err != nil {
		return entities.PurchaseAttempt{}, err
	}

	application.ResolveLogger(uc.Logger).Info("purchase cancelled",
		"event", "purchase_cancelled",
		"module", "economy-core/purchase-audit",
		"layer", "application",
		"attempt_id", attempt.AttemptID,
		"account_id", attempt.AccountID,
	)
	return attempt, nil
}
