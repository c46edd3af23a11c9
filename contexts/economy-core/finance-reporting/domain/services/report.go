package services

import (
	"fmt"
	"sort"
	"time"

	"taleforge/contexts/economy-core/finance-reporting/domain/entities"
)

type Metrics struct {
	TotalRevenueCents            int64
	TotalExpensesCents           int64
	NetProfitCents               int64
	ProfitMargin                 float64
	TaxCollectedCents            int64
	RefundsIssuedCents           int64
	AverageTransactionValueCents int64
	GrowthRate                   float64
}

// ComputeMetrics aggregates a window of transactions; prior is the
// immediately preceding equal-length window, used only for the growth rate.
func ComputeMetrics(window []entities.Transaction, prior []entities.Transaction) Metrics {
	var m Metrics
	incomeCount := int64(0)
	for _, t := range window {
		switch t.Type {
		case entities.TypeIncome:
			m.TotalRevenueCents += t.AmountCents
			m.TaxCollectedCents += t.TaxCents
			incomeCount++
		case entities.TypeExpense, entities.TypeFee:
			m.TotalExpensesCents += abs(t.AmountCents)
		case entities.TypeRefund:
			m.RefundsIssuedCents += abs(t.AmountCents)
		}
	}
	m.NetProfitCents = m.TotalRevenueCents - m.TotalExpensesCents - m.RefundsIssuedCents
	if m.TotalRevenueCents > 0 {
		m.ProfitMargin = float64(m.NetProfitCents) / float64(m.TotalRevenueCents) * 100
	}
	if incomeCount > 0 {
		m.AverageTransactionValueCents = m.TotalRevenueCents / incomeCount
	}

	priorRevenue := int64(0)
	for _, t := range prior {
		if t.Type == entities.TypeIncome {
			priorRevenue += t.AmountCents
		}
	}
	if priorRevenue > 0 {
		m.GrowthRate = float64(m.TotalRevenueCents-priorRevenue) / float64(priorRevenue) * 100
	}
	return m
}

type ExportRow struct {
	Date      string
	Type      string
	Reference string
	Name      string
	Memo      string
	Account   string
	Debit     string
	Credit    string
	Balance   string
	TaxAmount string
	TaxCode   string
}

// BuildExportRows renders transactions as bookkeeping-import rows, ascending
// by date with reference as the tie-breaker. Expenses and refunds fill the
// Debit column; income and fees fill Credit.
func BuildExportRows(transactions []entities.Transaction) []ExportRow {
	sorted := append([]entities.Transaction(nil), transactions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Reference < sorted[j].Reference
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})

	rows := make([]ExportRow, 0, len(sorted))
	for _, t := range sorted {
		row := ExportRow{
			Date:      t.Date.UTC().Format("2006-01-02"),
			Type:      exportType(t.Type),
			Reference: t.Reference,
			Name:      counterpartyName(t.CounterpartyID),
			Memo:      t.Description,
			Account:   t.Account,
			Balance:   FormatCents(t.NetCents),
			TaxAmount: FormatCents(t.TaxCents),
			TaxCode:   "NON",
		}
		if t.TaxCents > 0 {
			row.TaxCode = "TAX"
		}
		if t.Type == entities.TypeExpense || t.Type == entities.TypeRefund {
			row.Debit = FormatCents(abs(t.AmountCents))
		} else {
			row.Credit = FormatCents(t.AmountCents)
		}
		rows = append(rows, row)
	}
	return rows
}

type TaxReport struct {
	From                time.Time
	To                  time.Time
	GrossRevenueCents   int64
	TaxableRevenueCents int64
	SalesTaxCents       int64
	DeductionsCents     int64
	NetTaxableCents     int64
	EstimatedTaxCents   int64
}

const estimatedTaxRateBps = 2500

func ComputeTaxReport(transactions []entities.Transaction, from time.Time, to time.Time) TaxReport {
	report := TaxReport{From: from, To: to}
	refunds := int64(0)
	for _, t := range transactions {
		switch t.Type {
		case entities.TypeIncome:
			report.GrossRevenueCents += t.AmountCents
			report.SalesTaxCents += t.TaxCents
		case entities.TypeExpense, entities.TypeFee:
			report.DeductionsCents += abs(t.AmountCents)
		case entities.TypeRefund:
			refunds += abs(t.AmountCents)
		}
	}
	report.TaxableRevenueCents = report.GrossRevenueCents - refunds
	report.NetTaxableCents = report.TaxableRevenueCents - report.DeductionsCents
	report.EstimatedTaxCents = RoundBps(report.NetTaxableCents, estimatedTaxRateBps)
	return report
}

func exportType(t entities.TransactionType) string {
	switch t {
	case entities.TypeIncome:
		return "Sales Receipt"
	case entities.TypeExpense:
		return "Expense"
	case entities.TypeRefund:
		return "Credit Memo"
	case entities.TypeFee:
		return "Service Charge"
	default:
		return string(t)
	}
}

func counterpartyName(id string) string {
	if id == "" {
		return "N/A"
	}
	return id
}

// FormatCents renders integer cents as a plain decimal string, locale
// independent.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
