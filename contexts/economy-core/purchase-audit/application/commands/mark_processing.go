package commands

import (
	"context"
	"log/slog"

	"taleforge/contexts/economy-core/purchase-audit/application"
	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	"taleforge/contexts/economy-core/purchase-audit/ports"
)

type MarkProcessingUseCase struct {
	Attempts ports.AttemptRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc MarkProcessingUseCase) Execute(ctx context.Context, attemptID string) (entities.PurchaseAttempt, error) {
	now := uc.Clock.Now().UTC()
	attempt, _, err := applyTransition(ctx, uc.Attempts, attemptID, entities.StatusProcessing, now,
		func(entities.PurchaseAttempt) bool { return false },
		func(*entities.PurchaseAttempt) {},
	)
	if err != nil {
		return entities.PurchaseAttempt{}, err
	}

	application.ResolveLogger(uc.Logger).Info("purchase processing",
		"event", "purchase_processing",
		"module", "economy-core/purchase-audit",
		"layer", "application",
		"attempt_id", attempt.AttemptID,
		"account_id", attempt.AccountID,
	)
	return attempt, nil
}
