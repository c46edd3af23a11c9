package queries

import (
	"context"
	"log/slog"
	"strings"

	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	"taleforge/contexts/economy-core/purchase-audit/domain/services"
	"taleforge/contexts/economy-core/purchase-audit/ports"
)

type GetAttemptUseCase struct {
	Attempts ports.AttemptRepository
	Logger   *slog.Logger
}

func (uc GetAttemptUseCase) Execute(ctx context.Context, attemptID string) (entities.PurchaseAttempt, error) {
	return uc.Attempts.GetAttempt(ctx, strings.TrimSpace(attemptID))
}

type ListAttemptsUseCase struct {
	Attempts ports.AttemptRepository
	Logger   *slog.Logger
}

func (uc ListAttemptsUseCase) Execute(ctx context.Context, accountID string) ([]entities.PurchaseAttempt, error) {
	return uc.Attempts.ListAttemptsByAccount(ctx, strings.TrimSpace(accountID))
}

type ListPackagesUseCase struct {
	Logger *slog.Logger
}

func (uc ListPackagesUseCase) Execute(_ context.Context) []entities.SparkPackage {
	return services.ListPackages()
}
