package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"taleforge/contexts/economy-core/purchase-audit/application/commands"
	"taleforge/contexts/economy-core/purchase-audit/application/queries"
	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	httptransport "taleforge/contexts/economy-core/purchase-audit/transport/http"
)

type Handler struct {
	InitiatePurchase commands.InitiatePurchaseUseCase
	MarkProcessing   commands.MarkProcessingUseCase
	MarkCompleted    commands.MarkCompletedUseCase
	MarkDeclined     commands.MarkDeclinedUseCase
	MarkFailed       commands.MarkFailedUseCase
	CancelAttempt    commands.CancelAttemptUseCase
	GetAttempt       queries.GetAttemptUseCase
	ListAttempts     queries.ListAttemptsUseCase
	ListPackages     queries.ListPackagesUseCase
	Dashboard        queries.DashboardUseCase
	Logger           *slog.Logger
}

func (h Handler) InitiatePurchaseHandler(ctx context.Context, req httptransport.InitiatePurchaseRequest) (httptransport.AttemptResponse, error) {
	attempt, err := h.InitiatePurchase.Execute(ctx, commands.InitiatePurchaseCommand{
		AccountID: req.AccountID,
		PackageID: req.PackageID,
	})
	if err != nil {
		return httptransport.AttemptResponse{}, err
	}
	return httptransport.AttemptResponse{Attempt: mapAttempt(attempt)}, nil
}

func (h Handler) MarkProcessingHandler(ctx context.Context, attemptID string) (httptransport.AttemptResponse, error) {
	attempt, err := h.MarkProcessing.Execute(ctx, attemptID)
	if err != nil {
		return httptransport.AttemptResponse{}, err
	}
	return httptransport.AttemptResponse{Attempt: mapAttempt(attempt)}, nil
}

func (h Handler) MarkCompletedHandler(ctx context.Context, attemptID string, req httptransport.CompletePurchaseRequest) (httptransport.AttemptResponse, error) {
	attempt, err := h.MarkCompleted.Execute(ctx, attemptID, req.ExternalRef)
	if err != nil {
		return httptransport.AttemptResponse{}, err
	}
	return httptransport.AttemptResponse{Attempt: mapAttempt(attempt)}, nil
}

func (h Handler) MarkDeclinedHandler(ctx context.Context, attemptID string, req httptransport.DeclinePurchaseRequest) (httptransport.AttemptResponse, error) {
	attempt, err := h.MarkDeclined.Execute(ctx, attemptID, req.Reason, req.Code)
	if err != nil {
		return httptransport.AttemptResponse{}, err
	}
	return httptransport.AttemptResponse{Attempt: mapAttempt(attempt)}, nil
}

func (h Handler) MarkFailedHandler(ctx context.Context, attemptID string, req httptransport.DeclinePurchaseRequest) (httptransport.AttemptResponse, error) {
	attempt, err := h.MarkFailed.Execute(ctx, attemptID, req.Reason, req.Code)
	if err != nil {
		return httptransport.AttemptResponse{}, err
	}
	return httptransport.AttemptResponse{Attempt: mapAttempt(attempt)}, nil
}

func (h Handler) CancelAttemptHandler(ctx context.Context, attemptID string) (httptransport.AttemptResponse, error) {
	attempt, err := h.CancelAttempt.Execute(ctx, attemptID)
	if err != nil {
		return httptransport.AttemptResponse{}, err
	}
	return httptransport.AttemptResponse{Attempt: mapAttempt(attempt)}, nil
}

func (h Handler) GetAttemptHandler(ctx context.Context, attemptID string) (httptransport.AttemptResponse, error) {
	attempt, err := h.GetAttempt.Execute(ctx, attemptID)
	if err != nil {
		return httptransport.AttemptResponse{}, err
	}
	return httptransport.AttemptResponse{Attempt: mapAttempt(attempt)}, nil
}

func (h Handler) ListAttemptsHandler(ctx context.Context, accountID string) (httptransport.ListAttemptsResponse, error) {
	attempts, err := h.ListAttempts.Execute(ctx, accountID)
	if err != nil {
		return httptransport.ListAttemptsResponse{}, err
	}
	items := make([]httptransport.PurchaseAttemptDTO, 0, len(attempts))
	for _, attempt := range attempts {
		items = append(items, mapAttempt(attempt))
	}
	return httptransport.ListAttemptsResponse{Items: items}, nil
}

func (h Handler) ListPackagesHandler(ctx context.Context) httptransport.ListPackagesResponse {
	packages := h.ListPackages.Execute(ctx)
	items := make([]httptransport.SparkPackageDTO, 0, len(packages))
	for _, pkg := range packages {
		items = append(items, httptransport.SparkPackageDTO{
			PackageID:   pkg.PackageID,
			Sparks:      pkg.Sparks,
			BonusSparks: pkg.BonusSparks,
			TotalSparks: pkg.TotalSparks(),
			PriceCents:  pkg.PriceCents,
			Currency:    pkg.Currency,
		})
	}
	return httptransport.ListPackagesResponse{Items: items}
}

func (h Handler) DashboardHandler(ctx context.Context) (httptransport.DashboardResponse, error) {
	stats, err := h.Dashboard.Execute(ctx)
	if err != nil {
		return httptransport.DashboardResponse{}, err
	}
	return httptransport.DashboardResponse{
		TotalAttempts:         stats.TotalAttempts,
		CountsByStatus:        stats.CountsByStatus,
		CompletedRevenueCents: stats.CompletedRevenue,
		SparksSold:            stats.SparksSold,
		ConversionRate:        stats.ConversionRate,
		TotalRetries:          stats.TotalRetries,
	}, nil
}

func mapAttempt(attempt entities.PurchaseAttempt) httptransport.PurchaseAttemptDTO {
	dto := httptransport.PurchaseAttemptDTO{
		AttemptID:    attempt.AttemptID,
		AccountID:    attempt.AccountID,
		PackageID:    attempt.PackageID,
		SparksAmount: attempt.SparksAmount,
		PriceCents:   attempt.PriceCents,
		Currency:     attempt.Currency,
		Status:       string(attempt.Status),
		ErrorReason:  attempt.ErrorReason,
		ErrorCode:    attempt.ErrorCode,
		ExternalRef:  attempt.ExternalRef,
		RetryCount:   attempt.RetryCount,
		CreatedAt:    attempt.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    attempt.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if attempt.CompletedAt != nil {
		dto.CompletedAt = attempt.CompletedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
