package commands

import (
	"context"
	"log/slog"
	"strings"

	"taleforge/contexts/economy-core/purchase-audit/application"
	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	"taleforge/contexts/economy-core/purchase-audit/ports"
	"taleforge/internal/shared/events"
)

// recordOutcome is shared by the declined and failed callbacks: both park
// the attempt in a no-credit terminal state, keep the full diagnostic code
// in the audit record, and emit a declined event.
type recordOutcome struct {
	Attempts ports.AttemptRepository
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc recordOutcome) apply(ctx context.Context, attemptID string, target entities.Status, reason string, code string) (entities.PurchaseAttempt, error) {
	logger := application.ResolveLogger(uc.Logger)
	reason = strings.TrimSpace(reason)
	code = strings.TrimSpace(code)
	now := uc.Clock.Now().UTC()

	attempt, replayed, err := applyTransition(ctx, uc.Attempts, attemptID, target, now,
		func(existing entities.PurchaseAttempt) bool {
			return existing.ErrorReason == reason && existing.ErrorCode == code
		},
		func(target *entities.PurchaseAttempt) {
			target.ErrorReason = reason
			target.ErrorCode = code
		},
	)
	if err != nil {
		return entities.PurchaseAttempt{}, err
	}
	if replayed {
		logger.Warn("purchase outcome replayed",
			"event", "purchase_outcome_replayed",
			"module", "economy-core/purchase-audit",
			"layer", "application",
			"attempt_id", attempt.AttemptID,
			"status", string(attempt.Status),
			"retry_count", attempt.RetryCount,
		)
		return attempt, nil
	}

	envelope, err := newPurchaseEnvelope(uc.IDGen.NewID(), events.TypePurchaseDeclined, attempt.AttemptID, now, map[string]any{
		"attemptId": attempt.AttemptID,
		"accountId": attempt.AccountID,
		"packageId": attempt.PackageID,
		"status":    string(target),
		"reason":    reason,
	})
	if err != nil {
		return entities.PurchaseAttempt{}, err
	}
	if err := uc.Outbox.AppendOutbox(ctx, envelope); err != nil {
		return entities.PurchaseAttempt{}, err
	}

	logger.Info("purchase not completed",
		"event", "purchase_"+string(target),
		"module", "economy-core/purchase-audit",
		"layer", "application",
		"attempt_id", attempt.AttemptID,
		"account_id", attempt.AccountID,
		"reason", reason,
	)
	return attempt, nil
}

type MarkDeclinedUseCase struct {
	Attempts ports.AttemptRepository
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc MarkDeclinedUseCase) Execute(ctx context.Context, attemptID string, reason string, code string) (entities.PurchaseAttempt, error) {
	return recordOutcome(uc).apply(ctx, attemptID, entities.StatusDeclined, reason, code)
}

type MarkFailedUseCase struct {
	Attempts ports.AttemptRepository
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc MarkFailedUseCase) Execute(ctx context.Context, attemptID string, reason string, code string) (entities.PurchaseAttempt, error) {
	return recordOutcome(uc).apply(ctx, attemptID, entities.StatusFailed, reason, code)
}
