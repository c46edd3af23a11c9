package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"taleforge/contexts/economy-core/finance-reporting/application"
	"taleforge/contexts/economy-core/finance-reporting/domain/entities"
	httptransport "taleforge/contexts/economy-core/finance-reporting/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RecordIncomeHandler(ctx context.Context, req httptransport.RecordIncomeRequest) (httptransport.TransactionResponse, error) {
	transaction, err := h.Service.RecordIncome(ctx, application.RecordIncomeInput{
		GrossCents:     req.GrossCents,
		Description:    req.Description,
		Reference:      req.Reference,
		CounterpartyID: req.CounterpartyID,
	})
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return httptransport.TransactionResponse{Transaction: mapTransaction(transaction)}, nil
}

func (h Handler) RecordExpenseHandler(ctx context.Context, req httptransport.RecordExpenseRequest) (httptransport.TransactionResponse, error) {
	transaction, err := h.Service.RecordExpense(ctx, application.RecordExpenseInput{
		AmountCents: req.AmountCents,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return httptransport.TransactionResponse{Transaction: mapTransaction(transaction)}, nil
}

func (h Handler) RecordRefundHandler(ctx context.Context, req httptransport.RecordRefundRequest) (httptransport.TransactionResponse, error) {
	transaction, err := h.Service.RecordRefund(ctx, req.OriginalID, req.AmountCents, req.Reason)
	if err != nil {
		return httptransport.TransactionResponse{}, err
	}
	return httptransport.TransactionResponse{Transaction: mapTransaction(transaction)}, nil
}

func (h Handler) GetMetricsHandler(ctx context.Context, from time.Time, to time.Time) (httptransport.MetricsResponse, error) {
	metrics, err := h.Service.GetMetrics(ctx, from, to)
	if err != nil {
		return httptransport.MetricsResponse{}, err
	}
	return httptransport.MetricsResponse{
		TotalRevenueCents:            metrics.TotalRevenueCents,
		TotalExpensesCents:           metrics.TotalExpensesCents,
		NetProfitCents:               metrics.NetProfitCents,
		ProfitMargin:                 metrics.ProfitMargin,
		TaxCollectedCents:            metrics.TaxCollectedCents,
		RefundsIssuedCents:           metrics.RefundsIssuedCents,
		AverageTransactionValueCents: metrics.AverageTransactionValueCents,
		GrowthRate:                   metrics.GrowthRate,
	}, nil
}

func (h Handler) ExportHandler(ctx context.Context, from time.Time, to time.Time) (httptransport.ExportResponse, error) {
	rows, err := h.Service.ExportRows(ctx, from, to)
	if err != nil {
		return httptransport.ExportResponse{}, err
	}
	out := make([]httptransport.ExportRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, httptransport.ExportRowDTO{
			Date:      row.Date,
			Type:      row.Type,
			Reference: row.Reference,
			Name:      row.Name,
			Memo:      row.Memo,
			Account:   row.Account,
			Debit:     row.Debit,
			Credit:    row.Credit,
			Balance:   row.Balance,
			TaxAmount: row.TaxAmount,
			TaxCode:   row.TaxCode,
		})
	}
	return httptransport.ExportResponse{Rows: out}, nil
}

func (h Handler) TaxReportHandler(ctx context.Context, from time.Time, to time.Time) (httptransport.TaxReportResponse, error) {
	report, err := h.Service.TaxReport(ctx, from, to)
	if err != nil {
		return httptransport.TaxReportResponse{}, err
	}
	return httptransport.TaxReportResponse{
		From:                report.From.UTC().Format(time.RFC3339),
		To:                  report.To.UTC().Format(time.RFC3339),
		GrossRevenueCents:   report.GrossRevenueCents,
		TaxableRevenueCents: report.TaxableRevenueCents,
		SalesTaxCents:       report.SalesTaxCents,
		DeductionsCents:     report.DeductionsCents,
		NetTaxableCents:     report.NetTaxableCents,
		EstimatedTaxCents:   report.EstimatedTaxCents,
	}, nil
}

func mapTransaction(transaction entities.Transaction) httptransport.TransactionDTO {
	return httptransport.TransactionDTO{
		TransactionID:  transaction.TransactionID,
		Date:           transaction.Date.UTC().Format(time.RFC3339),
		Type:           string(transaction.Type),
		Category:       transaction.Category,
		Description:    transaction.Description,
		AmountCents:    transaction.AmountCents,
		TaxCents:       transaction.TaxCents,
		NetCents:       transaction.NetCents,
		Reference:      transaction.Reference,
		CorrelatesTo:   transaction.CorrelatesTo,
		Account:        transaction.Account,
		CounterpartyID: transaction.CounterpartyID,
	}
}
