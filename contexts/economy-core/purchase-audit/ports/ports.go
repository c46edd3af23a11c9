package ports

import (
	"context"
	"time"

	"taleforge/contexts/economy-core/purchase-audit/domain/entities"
	"taleforge/internal/shared/events"
)

type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt entities.PurchaseAttempt) error
	GetAttempt(ctx context.Context, attemptID string) (entities.PurchaseAttempt, error)
	UpdateAttempt(ctx context.Context, attempt entities.PurchaseAttempt) error
	ListAttemptsByAccount(ctx context.Context, accountID string) ([]entities.PurchaseAttempt, error)
	ListAttempts(ctx context.Context) ([]entities.PurchaseAttempt, error)
}

// SparksCredit grants purchased sparks to the buyer's ledger account.
// Implementations must be idempotent per reference: re-crediting a
// reference that already landed must leave the balance untouched.
type SparksCredit interface {
	Credit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error
}

// FinanceRecorder books the income side of a completed purchase.
type FinanceRecorder interface {
	RecordPurchase(ctx context.Context, grossCents int64, description string, reference string, counterpartyID string) error
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}
