package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"taleforge/contexts/economy-core/finance-reporting/domain/entities"
	domainerrors "taleforge/contexts/economy-core/finance-reporting/domain/errors"
	"taleforge/contexts/economy-core/finance-reporting/domain/services"
	"taleforge/contexts/economy-core/finance-reporting/ports"
)

type Service struct {
	Repo   ports.TransactionRepository
	Rates  services.Rates
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

type RecordIncomeInput struct {
	GrossCents     int64
	Description    string
	Reference      string
	CounterpartyID string
	Date           time.Time
}

// RecordIncome splits the gross into tax, fee, and net and appends the
// income row plus a correlated processing-fee row. The fee row references
// the income row so exports can reconcile the pair.
func (s Service) RecordIncome(ctx context.Context, input RecordIncomeInput) (entities.Transaction, error) {
	logger := ResolveLogger(s.Logger)
	if input.GrossCents <= 0 {
		return entities.Transaction{}, domainerrors.ErrInvalidAmount
	}
	if strings.TrimSpace(input.Description) == "" {
		return entities.Transaction{}, domainerrors.ErrDescriptionRequired
	}
	date := input.Date
	if date.IsZero() {
		date = s.Clock.Now()
	}
	date = date.UTC()

	tax, fee, net := s.Rates.Split(input.GrossCents)
	income := entities.Transaction{
		TransactionID:  s.IDGen.NewID(),
		Date:           date,
		Type:           entities.TypeIncome,
		Category:       "product_sales",
		Description:    strings.TrimSpace(input.Description),
		AmountCents:    input.GrossCents,
		TaxCents:       tax,
		NetCents:       net,
		Reference:      strings.TrimSpace(input.Reference),
		Account:        entities.AccountForCategory("product_sales"),
		CounterpartyID: strings.TrimSpace(input.CounterpartyID),
	}
	if err := s.Repo.AppendTransaction(ctx, income); err != nil {
		return entities.Transaction{}, err
	}

	feeRow := entities.Transaction{
		TransactionID: s.IDGen.NewID(),
		Date:          date,
		Type:          entities.TypeFee,
		Category:      "payment_processing",
		Description:   "Processing fee: " + income.Description,
		AmountCents:   fee,
		NetCents:      -fee,
		Reference:     income.Reference,
		CorrelatesTo:  income.TransactionID,
		Account:       entities.AccountForCategory("payment_processing"),
	}
	if err := s.Repo.AppendTransaction(ctx, feeRow); err != nil {
		return entities.Transaction{}, err
	}

	logger.Info("income recorded",
		"event", "income_recorded",
		"module", "economy-core/finance-reporting",
		"layer", "application",
		"transaction_id", income.TransactionID,
		"gross_cents", input.GrossCents,
		"tax_cents", tax,
		"fee_cents", fee,
		"net_cents", net,
		"reference", income.Reference,
	)
	return income, nil
}

type RecordExpenseInput struct {
	AmountCents int64
	Description string
	Category    string
	Date        time.Time
}

func (s Service) RecordExpense(ctx context.Context, input RecordExpenseInput) (entities.Transaction, error) {
	if input.AmountCents <= 0 {
		return entities.Transaction{}, domainerrors.ErrInvalidAmount
	}
	if strings.TrimSpace(input.Description) == "" {
		return entities.Transaction{}, domainerrors.ErrDescriptionRequired
	}
	date := input.Date
	if date.IsZero() {
		date = s.Clock.Now()
	}
	category := strings.TrimSpace(input.Category)
	expense := entities.Transaction{
		TransactionID: s.IDGen.NewID(),
		Date:          date.UTC(),
		Type:          entities.TypeExpense,
		Category:      category,
		Description:   strings.TrimSpace(input.Description),
		AmountCents:   input.AmountCents,
		NetCents:      -input.AmountCents,
		Account:       entities.AccountForCategory(category),
	}
	if err := s.Repo.AppendTransaction(ctx, expense); err != nil {
		return entities.Transaction{}, err
	}
	return expense, nil
}

// RecordRefund reverses part of an earlier income row. Amount and tax go
// negative so window aggregates subtract naturally.
func (s Service) RecordRefund(ctx context.Context, originalID string, amountCents int64, reason string) (entities.Transaction, error) {
	logger := ResolveLogger(s.Logger)
	if amountCents <= 0 {
		return entities.Transaction{}, domainerrors.ErrInvalidAmount
	}
	original, err := s.Repo.GetTransaction(ctx, strings.TrimSpace(originalID))
	if err != nil {
		return entities.Transaction{}, err
	}

	refund := entities.Transaction{
		TransactionID:  s.IDGen.NewID(),
		Date:           s.Clock.Now().UTC(),
		Type:           entities.TypeRefund,
		Category:       "refund",
		Description:    "Refund: " + strings.TrimSpace(reason),
		AmountCents:    -amountCents,
		TaxCents:       -services.RoundBps(amountCents, s.Rates.TaxRateBps),
		NetCents:       -amountCents,
		Reference:      original.TransactionID,
		CorrelatesTo:   original.TransactionID,
		Account:        entities.AccountForCategory("refund"),
		CounterpartyID: original.CounterpartyID,
	}
	if err := s.Repo.AppendTransaction(ctx, refund); err != nil {
		return entities.Transaction{}, err
	}

	logger.Info("refund recorded",
		"event", "refund_recorded",
		"module", "economy-core/finance-reporting",
		"layer", "application",
		"transaction_id", refund.TransactionID,
		"original_id", original.TransactionID,
		"amount_cents", amountCents,
	)
	return refund, nil
}

// GetMetrics aggregates [from, to); the growth rate compares revenue with
// the immediately preceding window of equal length.
func (s Service) GetMetrics(ctx context.Context, from time.Time, to time.Time) (services.Metrics, error) {
	window, err := s.Repo.ListTransactions(ctx, from, to)
	if err != nil {
		return services.Metrics{}, err
	}
	priorFrom := from.Add(-to.Sub(from))
	prior, err := s.Repo.ListTransactions(ctx, priorFrom, from)
	if err != nil {
		return services.Metrics{}, err
	}
	return services.ComputeMetrics(window, prior), nil
}

func (s Service) ExportRows(ctx context.Context, from time.Time, to time.Time) ([]services.ExportRow, error) {
	window, err := s.Repo.ListTransactions(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return services.BuildExportRows(window), nil
}

func (s Service) TaxReport(ctx context.Context, from time.Time, to time.Time) (services.TaxReport, error) {
	window, err := s.Repo.ListTransactions(ctx, from, to)
	if err != nil {
		return services.TaxReport{}, err
	}
	return services.ComputeTaxReport(window, from, to), nil
}
