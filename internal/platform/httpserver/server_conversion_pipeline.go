package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	sparkserrors "taleforge/contexts/economy-core/sparks-ledger/domain/errors"
	pipelineerrors "taleforge/contexts/story-core/conversion-pipeline/domain/errors"
	pipelinehttp "taleforge/contexts/story-core/conversion-pipeline/transport/http"
)

func (s *Server) handleListTransformers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pipeline.Handler.ListTransformersHandler(r.Context()))
}

func (s *Server) handleRequestConversion(w http.ResponseWriter, r *http.Request) {
	var req pipelinehttp.RequestConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePipelineError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.pipeline.Handler.RequestConversionHandler(r.Context(), r.PathValue("session_id"), req)
	if err != nil {
		writePipelineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListConversions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.pipeline.Handler.ListConversionsHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writePipelineDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePipelineError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, pipelinehttp.ErrorResponse{Code: code, Message: message})
}

func writePipelineDomainError(w http.ResponseWriter, err error) {
	if shortfall, ok := sparkserrors.IsInsufficientSparks(err); ok {
		writePipelineError(w, http.StatusPaymentRequired, "insufficient_sparks", shortfall.Error())
		return
	}
	switch {
	case errors.Is(err, pipelineerrors.ErrTransformerNotFound),
		errors.Is(err, pipelineerrors.ErrSessionNotFound):
		writePipelineError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, pipelineerrors.ErrStoryNotReady):
		writePipelineError(w, http.StatusConflict, "story_not_ready", err.Error())
	case errors.Is(err, pipelineerrors.ErrConversionFailed):
		writePipelineError(w, http.StatusInternalServerError, "conversion_failed", err.Error())
	default:
		writePipelineError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
