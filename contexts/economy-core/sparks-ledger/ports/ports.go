package ports

import (
	"context"
	"time"

	"taleforge/contexts/economy-core/sparks-ledger/domain/entities"
)

// Repository implementations must apply deltas atomically per account:
// the non-negative balance check and the write happen under the same
// account-level guard, never a global lock.
type Repository interface {
	CreateAccount(ctx context.Context, account entities.Account) (entities.Account, bool, error)
	GetAccount(ctx context.Context, ownerID string) (entities.Account, error)
	ApplyDelta(ctx context.Context, ownerID string, delta int64, now time.Time) (entities.Account, error)
	AppendEntry(ctx context.Context, entry entities.Entry) error
	ListEntries(ctx context.Context, ownerID string) ([]entities.Entry, error)
	HasEntry(ctx context.Context, ownerID string, reason string, reference string) (bool, error)
}

type BalanceChange struct {
	OwnerID      string
	Delta        int64
	BalanceAfter int64
	Reason       string
	Reference    string
	OccurredAt   time.Time
}

// BalanceNotifier pushes balance changes to interested observers instead of
// making them poll the account.
type BalanceNotifier interface {
	NotifyBalanceChanged(ctx context.Context, change BalanceChange)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
