package commands

import (
	"context"
	"time"

	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	domainerrors "taleforge/contexts/economy-core/purchase-audit/domain/errors"
	"taleforge/contexts/economy-core/purchase-audit/ports"
)

// applyTransition drives the status machine with replay tolerance: an
// identical re-delivery of a terminal transition bumps RetryCount and
// reports replayed=true instead of failing, so payment callbacks stay
// idempotent. Anything else that breaks the machine is ErrInvalidTransition.
func applyTransition(
	ctx context.Context,
	attempts ports.AttemptRepository,
	attemptID string,
	target entities.Status,
	now time.Time,
	sameDelivery func(attempt entities.PurchaseAttempt) bool,
	mutate func(attempt *entities.PurchaseAttempt),
) (entities.PurchaseAttempt, bool, error) {
	attempt, err := attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return entities.PurchaseAttempt{}, false, err
	}

	if attempt.Status == target && entities.IsTerminal(target) && sameDelivery(attempt) {
		attempt.RetryCount++
		attempt.UpdatedAt = now
		if err := attempts.UpdateAttempt(ctx, attempt); err != nil {
			return entities.PurchaseAttempt{}, false, err
		}
		return attempt, true, nil
	}

	if !entities.CanTransition(attempt.Status, target) {
		return entities.PurchaseAttempt{}, false, domainerrors.ErrInvalidTransition
	}

	attempt.Status = target
	attempt.UpdatedAt = now
	mutate(&attempt)
	if err := attempts.UpdateAttempt(ctx, attempt); err != nil {
		return entities.PurchaseAttempt{}, false, err
	}
	return attempt, false, nil
}
