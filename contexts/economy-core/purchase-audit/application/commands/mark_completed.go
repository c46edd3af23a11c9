package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taleforge/contexts/economy-core/purchase-audit/application"
	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	domainerrors "taleforge/contexts/economy-core/purchase-audit/domain/errors"
	"taleforge/contexts/economy-core/purchase-audit/ports"
	"taleforge/internal/shared/events"
)

type MarkCompletedUseCase struct {
	Attempts ports.AttemptRepository
	Sparks   ports.SparksCredit
	Finance  ports.FinanceRecorder
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// Execute settles a successful payment exactly once per attempt. The credit,
// the income booking and the event land before the attempt is persisted as
// completed, so a failed settlement leaves the attempt retryable; the ledger
// credit is keyed by the attempt id, so a retry after a successful credit
// cannot credit again. An identical re-delivery of a settled attempt only
// bumps the retry counter.
func (uc MarkCompletedUseCase) Execute(ctx context.Context, attemptID string, externalRef string) (entities.PurchaseAttempt, error) {
	logger := application.ResolveLogger(uc.Logger)
	externalRef = strings.TrimSpace(externalRef)
	now := uc.Clock.Now().UTC()

	current, err := uc.Attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return entities.PurchaseAttempt{}, err
	}
	if current.Status != entities.StatusCompleted && !entities.CanTransition(current.Status, entities.StatusCompleted) {
		return entities.PurchaseAttempt{}, domainerrors.ErrInvalidTransition
	}

	if current.Status != entities.StatusCompleted {
		if err := uc.Sparks.Credit(ctx, current.AccountID, current.SparksAmount, "spark_purchase", current.AttemptID); err != nil {
			return entities.PurchaseAttempt{}, err
		}
		description := fmt.Sprintf("Spark pack: %s", current.PackageID)
		if err := uc.Finance.RecordPurchase(ctx, current.PriceCents, description, current.AttemptID, current.AccountID); err != nil {
			return entities.PurchaseAttempt{}, err
		}

		envelope, err := newPurchaseEnvelope(uc.IDGen.NewID(), events.TypePurchaseCompleted, current.AttemptID, now, map[string]any{
			"attemptId":    current.AttemptID,
			"accountId":    current.AccountID,
			"packageId":    current.PackageID,
			"sparksAmount": current.SparksAmount,
			"priceCents":   current.PriceCents,
			"externalRef":  externalRef,
		})
		if err != nil {
			return entities.PurchaseAttempt{}, err
		}
		if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
			return entities.PurchaseAttempt{}, err
		}
	}

	attempt, replayed, err := applyTransition(ctx, uc.Attempts, attemptID, entities.StatusCompleted, now,
		func(existing entities.PurchaseAttempt) bool { return existing.ExternalRef == externalRef },
		func(target *entities.PurchaseAttempt) {
			target.ExternalRef = externalRef
			completedAt := now
			target.CompletedAt = &completedAt
		},
	)
	if err != nil {
		return entities.PurchaseAttempt{}, err
	}
	if replayed {
		logger.Warn("purchase completion replayed",
			"event", "purchase_completion_replayed",
			"module", "economy-core/purchase-audit",
			"layer", "application",
			"attempt_id", attempt.AttemptID,
			"external_ref", externalRef,
			"retry_count", attempt.RetryCount,
		)
		return attempt, nil
	}

	logger.Info("purchase completed",
		"event", "purchase_completed",
		"module", "economy-core/purchase-audit",
		"layer", "application",
		"attempt_id", attempt.AttemptID,
		"account_id", attempt.AccountID,
		"sparks_amount", attempt.SparksAmount,
		"price_cents", attempt.PriceCents,
		"external_ref", externalRef,
	)
	return attempt, nil
}
