package ledger

import (
	"context"

	sparksapp "taleforge/contexts/economy-core/sparks-ledger/application"
)

// SparksAccounts adapts the ledger service to the engine's narrow port.
// Ledger errors (including the insufficient-funds shortfall) pass through
// untranslated so callers can surface them.
type SparksAccounts struct {
	Service sparksapp.Service
}

func (a SparksAccounts) Debit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error {
	_, err := a.Service.Debit(ctx, ownerID, amount, reason, reference)
	return err
}

func (a SparksAccounts) Credit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error {
	_, err := a.Service.Credit(ctx, ownerID, amount, reason, reference)
	return err
}
