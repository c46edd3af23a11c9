package finance

import (
	"context"

	financeapp "taleforge/contexts/economy-core/finance-reporting/application"
)

// FinanceBooks records completed purchases as income in the reporting
// ledger. The income date defaults to the reporting clock so the audit
// trail and the books stay on the same timeline.
type FinanceBooks struct {
	Service financeapp.Service
}

func (b FinanceBooks) RecordPurchase(ctx context.Context, grossCents int64, description string, reference string, counterpartyID string) error {
	_, err := b.Service.RecordIncome(ctx, financeapp.RecordIncomeInput{
		GrossCents:     grossCents,
		Description:    description,
		Reference:      reference,
		CounterpartyID: counterpartyID,
	})
	return err
}
