package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	sparkserrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"
	sessionerrors "taleforge/contexts/story-core/session-engine/domain/errors"
	sessionhttp "taleforge/contexts/story-core/session-engine/transport/http"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	hostID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if hostID == "" {
		writeSessionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req sessionhttp.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sessions.Handler.CreateSessionHandler(r.Context(), hostID, req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.StartSessionHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitTurn(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.SubmitTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sessions.Handler.SubmitTurnHandler(r.Context(), r.PathValue("session_id"), req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.PauseSessionHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.ResumeSessionHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAIAssist(w http.ResponseWriter, r *http.Request) {
	var req sessionhttp.AIAssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sessions.Handler.AIAssistHandler(r.Context(), r.PathValue("session_id"), req)
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.GetSessionHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.sessions.Handler.ListSessionsHandler(r.Context(), query.Get("host_id"), query.Get("status"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sessions.Handler.GetStoryHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeSessionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSessionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, sessionhttp.ErrorResponse{Code: code, Message: message})
}

func writeSessionDomainError(w http.ResponseWriter, err error) {
	if shortfall, ok := sparkserrors.IsInsufficientSparks(err); ok {
		writeSessionError(w, http.StatusPaymentRequired, "insufficient_sparks", shortfall.Error())
		return
	}
	switch {
	case errors.Is(err, sessionerrors.ErrSessionNotFound),
		errors.Is(err, sessionerrors.ErrTemplateNotFound):
		writeSessionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, sessionerrors.ErrInvalidStateTransition),
		errors.Is(err, sessionerrors.ErrAlreadySubmitted),
		errors.Is(err, sessionerrors.ErrOutOfTurnSequence),
		errors.Is(err, sessionerrors.ErrStoryNotReady):
		writeSessionError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, sessionerrors.ErrEmptyResponseText),
		errors.Is(err, sessionerrors.ErrContributorRequired),
		errors.Is(err, sessionerrors.ErrTitleRequired),
		errors.Is(err, sessionerrors.ErrUnsupportedTurnSeconds):
		writeSessionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, sessionerrors.ErrAssistFailed):
		writeSessionError(w, http.StatusFailedDependency, "assist_failed", err.Error())
	default:
		writeSessionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
