package financereporting

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"taleforge/contexts/economy-core/finance-reporting/adapters/memory"
	"taleforge/contexts/economy-core/finance-reporting/application"
	domainerrors "taleforge/contexts/economy-core/finance-reporting/domain/errors"
	"taleforge/contexts/economy-core/finance-reporting/domain/services"
	httptransport "taleforge/contexts/economy-core/finance-reporting/transport/http"
)

func applicationRecordIncome(gross int64, description string, reference string, counterpartyID string, date time.Time) application.RecordIncomeInput {
	return application.RecordIncomeInput{
		GrossCents:     gross,
		Description:    description,
		Reference:      reference,
		CounterpartyID: counterpartyID,
		Date:           date,
	}
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func newTestModule(now time.Time) (Module, *fixedClock) {
	store := memory.NewStore()
	clock := &fixedClock{now: now}
	module := NewModule(Dependencies{
		Repo:  store,
		Clock: clock,
		IDGen: store,
	})
	module.Store = store
	return module, clock
}

func TestSplitInvariantHoldsExactly(t *testing.T) {
	rates := services.DefaultRates()
	for _, gross := range []int64{1, 33, 499, 1999, 3799, 8999, 123457} {
		tax, fee, net := rates.Split(gross)
		if tax+fee+net != gross {
			t.Fatalf("split of %d does not reconcile: tax=%d fee=%d net=%d", gross, tax, fee, net)
		}
	}

	tax, fee, net := rates.Split(1999)
	if tax != 165 || fee != 88 || net != 1746 {
		t.Fatalf("unexpected split of 1999: tax=%d fee=%d net=%d", tax, fee, net)
	}
}

func TestRecordIncomeAppendsCorrelatedFeeRow(t *testing.T) {
	day := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	module, _ := newTestModule(day)

	income, err := module.Service.RecordIncome(context.Background(), applicationRecordIncome(10000, "Spark pack: popular", "attempt-1", "acct-bob", day))
	if err != nil {
		t.Fatalf("record income failed: %v", err)
	}
	if income.TaxCents != 825 || income.NetCents != 8855 {
		t.Fatalf("unexpected income split %+v", income)
	}

	rows, err := module.Store.ListTransactions(context.Background(), day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list transactions failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected income plus fee row, got %d rows", len(rows))
	}
	fee := rows[1]
	if fee.Type != "fee" || fee.AmountCents != 320 || fee.CorrelatesTo != income.TransactionID {
		t.Fatalf("unexpected fee row %+v", fee)
	}
	if fee.Reference != "attempt-1" {
		t.Fatalf("fee row must carry the income reference, got %q", fee.Reference)
	}
}

func TestMetricsAggregation(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	module, _ := newTestModule(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))

	income, err := module.Service.RecordIncome(context.Background(), applicationRecordIncome(10000, "Spark pack: popular", "attempt-1", "acct-bob", start.AddDate(0, 0, 9)))
	if err != nil {
		t.Fatalf("record income failed: %v", err)
	}
	if _, err := module.Handler.RecordExpenseHandler(context.Background(), httptransport.RecordExpenseRequest{
		AmountCents: 500,
		Description: "Object storage",
		Category:    "hosting",
	}); err != nil {
		t.Fatalf("record expense failed: %v", err)
	}
	if _, err := module.Service.RecordRefund(context.Background(), income.TransactionID, 2000, "partial chargeback"); err != nil {
		t.Fatalf("record refund failed: %v", err)
	}

	metrics, err := module.Handler.GetMetricsHandler(context.Background(), start, end)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if metrics.TotalRevenueCents != 10000 {
		t.Fatalf("expected revenue 10000, got %d", metrics.TotalRevenueCents)
	}
	if metrics.TotalExpensesCents != 820 {
		t.Fatalf("expected expenses 820 (hosting + processing fee), got %d", metrics.TotalExpensesCents)
	}
	if metrics.RefundsIssuedCents != 2000 {
		t.Fatalf("expected refunds 2000, got %d", metrics.RefundsIssuedCents)
	}
	if metrics.NetProfitCents != 7180 {
		t.Fatalf("expected net profit 7180, got %d", metrics.NetProfitCents)
	}
	if math.Abs(metrics.ProfitMargin-71.8) > 1e-9 {
		t.Fatalf("expected margin 71.8, got %v", metrics.ProfitMargin)
	}
	if metrics.AverageTransactionValueCents != 10000 {
		t.Fatalf("expected average 10000, got %d", metrics.AverageTransactionValueCents)
	}
	if metrics.GrowthRate != 0 {
		t.Fatalf("growth must be 0 with no prior revenue, got %v", metrics.GrowthRate)
	}
	if metrics.TaxCollectedCents != 825 {
		t.Fatalf("expected tax collected 825, got %d", metrics.TaxCollectedCents)
	}
}

func TestGrowthRateComparesPriorWindow(t *testing.T) {
	june := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	august := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	module, _ := newTestModule(july)

	if _, err := module.Service.RecordIncome(context.Background(), applicationRecordIncome(5000, "June sales", "ref-june", "", june.AddDate(0, 0, 10))); err != nil {
		t.Fatalf("record income failed: %v", err)
	}
	if _, err := module.Service.RecordIncome(context.Background(), applicationRecordIncome(10000, "July sales", "ref-july", "", july.AddDate(0, 0, 10))); err != nil {
		t.Fatalf("record income failed: %v", err)
	}

	metrics, err := module.Handler.GetMetricsHandler(context.Background(), july, august)
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if metrics.GrowthRate != 100 {
		t.Fatalf("expected growth 100%%, got %v", metrics.GrowthRate)
	}
}

func TestExportRows(t *testing.T) {
	day := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	module, _ := newTestModule(day.AddDate(0, 0, 2))

	income, err := module.Service.RecordIncome(context.Background(), applicationRecordIncome(10000, "Spark pack: popular", "attempt-1", "acct-bob", day))
	if err != nil {
		t.Fatalf("record income failed: %v", err)
	}
	if _, err := module.Service.RecordRefund(context.Background(), income.TransactionID, 2000, "partial chargeback"); err != nil {
		t.Fatalf("record refund failed: %v", err)
	}

	export, err := module.Handler.ExportHandler(context.Background(), day, day.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(export.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(export.Rows))
	}

	first := export.Rows[0]
	if first.Type != "Sales Receipt" || first.Credit != "100.00" || first.Debit != "" {
		t.Fatalf("unexpected income row %+v", first)
	}
	if first.TaxCode != "TAX" || first.TaxAmount != "8.25" || first.Balance != "88.55" {
		t.Fatalf("unexpected income tax columns %+v", first)
	}
	if first.Name != "acct-bob" || first.Account != "Sales:Digital Products" {
		t.Fatalf("unexpected income identity columns %+v", first)
	}

	feeRow := export.Rows[1]
	if feeRow.Type != "Service Charge" || feeRow.Credit != "3.20" || feeRow.TaxCode != "NON" {
		t.Fatalf("unexpected fee row %+v", feeRow)
	}

	refundRow := export.Rows[2]
	if refundRow.Type != "Credit Memo" || refundRow.Debit != "20.00" || refundRow.Credit != "" {
		t.Fatalf("unexpected refund row %+v", refundRow)
	}
	if refundRow.TaxCode != "NON" || refundRow.TaxAmount != "-1.65" {
		t.Fatalf("unexpected refund tax columns %+v", refundRow)
	}
}

func TestTaxReport(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	module, _ := newTestModule(start.AddDate(0, 0, 14))

	income, err := module.Service.RecordIncome(context.Background(), applicationRecordIncome(10000, "Spark pack: popular", "attempt-1", "acct-bob", start.AddDate(0, 0, 9)))
	if err != nil {
		t.Fatalf("record income failed: %v", err)
	}
	if _, err := module.Handler.RecordExpenseHandler(context.Background(), httptransport.RecordExpenseRequest{
		AmountCents: 500,
		Description: "Object storage",
		Category:    "hosting",
	}); err != nil {
		t.Fatalf("record expense failed: %v", err)
	}
	if _, err := module.Service.RecordRefund(context.Background(), income.TransactionID, 2000, "partial chargeback"); err != nil {
		t.Fatalf("record refund failed: %v", err)
	}

	report, err := module.Handler.TaxReportHandler(context.Background(), start, end)
	if err != nil {
		t.Fatalf("tax report failed: %v", err)
	}
	if report.GrossRevenueCents != 10000 || report.SalesTaxCents != 825 {
		t.Fatalf("unexpected revenue figures %+v", report)
	}
	if report.TaxableRevenueCents != 8000 || report.DeductionsCents != 820 {
		t.Fatalf("unexpected taxable figures %+v", report)
	}
	if report.NetTaxableCents != 7180 || report.EstimatedTaxCents != 1795 {
		t.Fatalf("unexpected estimate %+v", report)
	}
}

func TestRefundRequiresOriginal(t *testing.T) {
	module, _ := newTestModule(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	_, err := module.Service.RecordRefund(context.Background(), "txn-missing", 100, "oops")
	if !errors.Is(err, domainerrors.ErrTransactionNotFound) {
		t.Fatalf("expected transaction not found, got %v", err)
	}
}
