package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	templateerrors "taleforge/contexts/story-core/template-library/domain/errors"
	templatehttp "taleforge/contexts/story-core/template-library/transport/http"
)

func (s *Server) handleRegisterTemplate(w http.ResponseWriter, r *http.Request) {
	var req templatehttp.RegisterTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTemplateError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.templates.Handler.RegisterTemplateHandler(r.Context(), req)
	if err != nil {
		writeTemplateDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	resp, err := s.templates.Handler.GetTemplateHandler(r.Context(), r.PathValue("template_id"))
	if err != nil {
		writeTemplateDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.templates.Handler.ListTemplatesHandler(r.Context(), query.Get("genre"), query.Get("difficulty"))
	if err != nil {
		writeTemplateDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeTemplateError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, templatehttp.ErrorResponse{Code: code, Message: message})
}

func writeTemplateDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, templateerrors.ErrTemplateNotFound):
		writeTemplateError(w, http.StatusNotFound, "template_not_found", err.Error())
	case errors.Is(err, templateerrors.ErrTemplateAlreadyExists):
		writeTemplateError(w, http.StatusConflict, "template_exists", err.Error())
	case errors.Is(err, templateerrors.ErrTitleRequired),
		errors.Is(err, templateerrors.ErrTextRequired),
		errors.Is(err, templateerrors.ErrNoBlanks),
		errors.Is(err, templateerrors.ErrUnsupportedGenre),
		errors.Is(err, templateerrors.ErrUnsupportedDifficulty):
		writeTemplateError(w, http.StatusBadRequest, "invalid_template", err.Error())
	default:
		writeTemplateError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
