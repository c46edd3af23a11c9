package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	financeerrors "taleforge/contexts/economy-core/finance-reporting/domain/errors"
	financehttp "taleforge/contexts/economy-core/finance-reporting/transport/http"
)

func (s *Server) handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	var req financehttp.RecordIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFinanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.finance.Handler.RecordIncomeHandler(r.Context(), req)
	if err != nil {
		writeFinanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	var req financehttp.RecordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFinanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.finance.Handler.RecordExpenseHandler(r.Context(), req)
	if err != nil {
		writeFinanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRecordRefund(w http.ResponseWriter, r *http.Request) {
	var req financehttp.RecordRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFinanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.finance.Handler.RecordRefundHandler(r.Context(), req)
	if err != nil {
		writeFinanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleFinanceMetrics(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseFinanceWindow(w, r)
	if !ok {
		return
	}
	resp, err := s.finance.Handler.GetMetricsHandler(r.Context(), from, to)
	if err != nil {
		writeFinanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinanceExport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseFinanceWindow(w, r)
	if !ok {
		return
	}
	resp, err := s.finance.Handler.ExportHandler(r.Context(), from, to)
	if err != nil {
		writeFinanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinanceTaxReport(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseFinanceWindow(w, r)
	if !ok {
		return
	}
	resp, err := s.finance.Handler.TaxReportHandler(r.Context(), from, to)
	if err != nil {
		writeFinanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseFinanceWindow reads the half-open [from, to) reporting window from
// query parameters. Defaults to the trailing 30 days when absent.
func parseFinanceWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	query := r.URL.Query()
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeFinanceError(w, http.StatusBadRequest, "invalid_from", "from must be RFC 3339")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeFinanceError(w, http.StatusBadRequest, "invalid_to", "to must be RFC 3339")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	if !to.After(from) {
		writeFinanceError(w, http.StatusBadRequest, "invalid_window", "to must be after from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeFinanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, financehttp.ErrorResponse{Code: code, Message: message})
}

func writeFinanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, financeerrors.ErrTransactionNotFound):
		writeFinanceError(w, http.StatusNotFound, "transaction_not_found", err.Error())
	case errors.Is(err, financeerrors.ErrInvalidAmount),
		errors.Is(err, financeerrors.ErrDescriptionRequired):
		writeFinanceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeFinanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
