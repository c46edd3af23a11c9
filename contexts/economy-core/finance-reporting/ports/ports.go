package ports

import (
	"context"
	"time"

	"taleforge/contexts/economy-core/finance-reporting/domain/entities"
)

type TransactionRepository interface {
	AppendTransaction(ctx context.Context, transaction entities.Transaction) error
	GetTransaction(ctx context.Context, transactionID string) (entities.Transaction, error)
	// ListTransactions returns rows with from <= Date < to, ascending by date.
	ListTransactions(ctx context.Context, from time.Time, to time.Time) ([]entities.Transaction, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}
