package ledger

import (
	"context"

	sparksapp "taleforge/contexts/economy-core/sparks-ledger/application"
)

// SparksAccounts adapts the ledger service to the audit trail's
// credit-only port. Purchases only ever grant sparks, keyed by the
// attempt id so a redelivered settlement cannot credit twice.
type SparksAccounts struct {
	Service sparksapp.Service
}

func (a SparksAccounts) Credit(ctx context.Context, ownerID string, amount int64, reason string, reference string) error {
	_, _, err := a.Service.CreditOnce(ctx, ownerID, amount, reason, reference)
	return err
}
