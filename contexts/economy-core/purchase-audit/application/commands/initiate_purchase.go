package commands

import (
	"context"
	"log/slog"
	"strings"

	"taleforge/contexts/economy-core/purchase-audit/application"
	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	domainerrors "taleforge/contexts/economy-core/purchase-audit/domain/errors"
	"taleforge/contexts/economy-core/purchase-audit/domain/services"
	"taleforge/contexts/economy-core/purchase-audit/ports"
)

type InitiatePurchaseCommand struct {
	AccountID string
	PackageID string
}

type InitiatePurchaseUseCase struct {
	Attempts ports.AttemptRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// Execute snapshots the package price and total sparks (base + bonus) into
// the attempt so later catalog changes never alter what was sold.
func (uc InitiatePurchaseUseCase) Execute(ctx context.Context, cmd InitiatePurchaseCommand) (entities.PurchaseAttempt, error) {
	accountID := strings.TrimSpace(cmd.AccountID)
	if accountID == "" {
		return entities.PurchaseAttempt{}, domainerrors.ErrAccountRequired
	}
	pkg, ok := services.LookupPackage(cmd.PackageID)
	if !ok {
		return entities.PurchaseAttempt{}, domainerrors.ErrPackageNotFound
	}

	now := uc.Clock.Now().UTC()
	attempt := entities.PurchaseAttempt{
		AttemptID:    uc.IDGen.NewID(),
		AccountID:    accountID,
		PackageID:    pkg.PackageID,
		SparksAmount: pkg.TotalSparks(),
		PriceCents:   pkg.PriceCents,
		Currency:     pkg.Currency,
		Status:       entities.StatusInitiated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Attempts.CreateAttempt(ctx, attempt); err != nil {
		return entities.PurchaseAttempt{}, err
	}

	application.ResolveLogger(uc.Logger).Info("purchase initiated",
		"event", "purchase_initiated",
		"module", "economy-core/purchase-audit",
		"layer", "application",
		"attempt_id", attempt.AttemptID,
		"account_id", accountID,
		"package_id", pkg.PackageID,
		"sparks_amount", attempt.SparksAmount,
		"price_cents", attempt.PriceCents,
	)
	return attempt, nil
}
