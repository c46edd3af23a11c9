package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"taleforge/contexts/economy-core/sparks-ledger/ports"
	"taleforge/internal/shared/events"

	"github.com/google/uuid"
)

// EventPublisher matches the platform messaging bus surface.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// BusNotifier mirrors every balance change onto the event bus so other
// contexts can react without a direct ledger dependency.
type BusNotifier struct {
	Publisher EventPublisher
	Logger    *slog.Logger
}

func (n BusNotifier) NotifyBalanceChanged(ctx context.Context, change ports.BalanceChange) {
	if n.Publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"owner_id":      change.OwnerID,
		"delta":         change.Delta,
		"balance_after": change.BalanceAfter,
		"reason":        change.Reason,
		"reference":     change.Reference,
	})
	if err != nil {
		return
	}
	envelope := events.Envelope{
		EventID:        uuid.NewString(),
		EventType:      events.TypeBalanceChanged,
		SourceModule:   "economy-core/sparks-ledger",
		OccurredAtUTC:  change.OccurredAt.UTC(),
		EntityType:     "spark_account",
		EntityID:       change.OwnerID,
		PayloadVersion: 1,
		Payload:        payload,
	}
	if err := n.Publisher.Publish(ctx, events.TypeBalanceChanged, envelope); err != nil {
		logger := n.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("balance change publish failed",
			"event", "balance_change_publish_failed",
			"module", "economy-core/sparks-ledger",
			"layer", "adapter",
			"owner_id", change.OwnerID,
			"error", err,
		)
	}
}
