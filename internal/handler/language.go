package handler

import (
	"net/http"

	"repomanage/internal/domain"
	"repomanage/internal/service"
)

// LanguageHandler handles programming language API requests
type LanguageHandler struct {
	svc *service.LanguageService
}

// NewLanguageHandler creates a new language handler
func NewLanguageHandler(svc *service.LanguageService) *LanguageHandler {
	return &LanguageHandler{svc: svc}
}

// ListLanguages returns all languages
func (h *LanguageHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.svc.ListLanguages(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, langs, http.StatusOK)
}

// GetLanguage returns a single language
func (h *LanguageHandler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	lang, err := h.svc.GetLanguage(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, lang, http.StatusOK)
}

// AddLanguage creates a new language
func (h *LanguageHandler) AddLanguage(w http.ResponseWriter, r *http.Request) {
	var payload domain.LanguagePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	lang, err := h.svc.AddLanguage(r.Context(), payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, lang, http.StatusCreated)
}

// UpdateLanguage renames a language
func (h *LanguageHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload domain.LanguagePayload
	if !decodeBody(w, r, &payload) {
		return
	}

	lang, err := h.svc.UpdateLanguage(r.Context(), id, payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, lang, http.StatusOK)
}
