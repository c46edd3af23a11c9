package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	purchaseerrors "taleforge/contexts/economy-core/purchase-audit/domain/errors"
	purchasehttp "taleforge/contexts/economy-core/purchase-audit/transport/http"
)

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.purchases.Handler.ListPackagesHandler(r.Context()))
}

func (s *Server) handleInitiatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchasehttp.InitiatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePurchaseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.purchases.Handler.InitiatePurchaseHandler(r.Context(), req)
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMarkProcessing(w http.ResponseWriter, r *http.Request) {
	resp, err := s.purchases.Handler.MarkProcessingHandler(r.Context(), r.PathValue("attempt_id"))
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkCompleted(w http.ResponseWriter, r *http.Request) {
	var req purchasehttp.CompletePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePurchaseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.purchases.Handler.MarkCompletedHandler(r.Context(), r.PathValue("attempt_id"), req)
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkDeclined(w http.ResponseWriter, r *http.Request) {
	var req purchasehttp.DeclinePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePurchaseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.purchases.Handler.MarkDeclinedHandler(r.Context(), r.PathValue("attempt_id"), req)
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkFailed(w http.ResponseWriter, r *http.Request) {
	var req purchasehttp.DeclinePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePurchaseError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.purchases.Handler.MarkFailedHandler(r.Context(), r.PathValue("attempt_id"), req)
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelAttempt(w http.ResponseWriter, r *http.Request) {
	resp, err := s.purchases.Handler.CancelAttemptHandler(r.Context(), r.PathValue("attempt_id"))
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	resp, err := s.purchases.Handler.GetAttemptHandler(r.Context(), r.PathValue("attempt_id"))
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.purchases.Handler.ListAttemptsHandler(r.Context(), r.URL.Query().Get("account_id"))
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurchaseDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.purchases.Handler.DashboardHandler(r.Context())
	if err != nil {
		writePurchaseDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePurchaseError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, purchasehttp.ErrorResponse{Code: code, Message: message})
}

func writePurchaseDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, purchaseerrors.ErrAttemptNotFound),
		errors.Is(err, purchaseerrors.ErrPackageNotFound):
		writePurchaseError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, purchaseerrors.ErrInvalidTransition):
		writePurchaseError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, purchaseerrors.ErrAccountRequired):
		writePurchaseError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writePurchaseError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
