package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	sparkserrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"
	sparkshttp "taleforge/contexts/economy-core/sparks-ledger/transport/http"
)

func (s *Server) handleOpenAccount(w http.ResponseWriter, r *http.Request) {
	var req sparkshttp.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSparksError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sparks.Handler.OpenAccountHandler(r.Context(), req)
	if err != nil {
		writeSparksDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sparks.Handler.GetAccountHandler(r.Context(), r.PathValue("owner_id"))
	if err != nil {
		writeSparksDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDebit(w http.ResponseWriter, r *http.Request) {
	var req sparkshttp.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSparksError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sparks.Handler.DebitHandler(r.Context(), r.PathValue("owner_id"), req)
	if err != nil {
		writeSparksDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCredit(w http.ResponseWriter, r *http.Request) {
	var req sparkshttp.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSparksError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sparks.Handler.CreditHandler(r.Context(), r.PathValue("owner_id"), req)
	if err != nil {
		writeSparksDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sparks.Handler.ListEntriesHandler(r.Context(), r.PathValue("owner_id"))
	if err != nil {
		writeSparksDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSparksError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sparkshttp.ErrorResponse{Code: code, Message: message})
}

func writeSparksDomainError(w http.ResponseWriter, err error) {
	if shortfall, ok := sparkserrors.IsInsufficientSparks(err); ok {
		writeSparksError(w, http.StatusPaymentRequired, "insufficient_sparks", shortfall.Error())
		return
	}
	switch {
	case errors.Is(err, sparkserrors.ErrAccountNotFound):
		writeSparksError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, sparkserrors.ErrOwnerRequired),
		errors.Is(err, sparkserrors.ErrInvalidAmount):
		writeSparksError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeSparksError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
