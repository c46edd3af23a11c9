package queries

import (
	"context"
	"log/slog"

	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	"taleforge/contexts/economy-core/purchase-audit/ports"
)

// DashboardStats summarizes the audit trail the way an operator reads it:
// how many attempts reached each state and how much actually settled.
type DashboardStats struct {
	TotalAttempts    int
	CountsByStatus   map[string]int
	CompletedRevenue int64
	SparksSold       int64
	ConversionRate   float64
	TotalRetries     int
}

type DashboardUseCase struct {
	Attempts ports.AttemptRepository
	Logger   *slog.Logger
}

func (uc DashboardUseCase) Execute(ctx context.Context) (DashboardStats, error) {
	attempts, err := uc.Attempts.ListAttempts(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		TotalAttempts:  len(attempts),
		CountsByStatus: make(map[string]int),
	}
	completed := 0
	for _, attempt := range attempts {
		stats.CountsByStatus[string(attempt.Status)]++
		stats.TotalRetries += attempt.RetryCount
		if attempt.Status == entities.StatusCompleted {
			completed++
			stats.CompletedRevenue += attempt.PriceCents
			stats.SparksSold += attempt.SparksAmount
		}
	}
	if stats.TotalAttempts > 0 {
		stats.ConversionRate = float64(completed) / float64(stats.TotalAttempts) * 100
	}
	return stats, nil
}
