package handler

import (
	"net/http"

	"repomanage/internal/domain"
	"repomanage/internal/service"
)

// RepoHandler handles repository API requests
type RepoHandler struct {
	svc *service.RepoService
}

// NewRepoHandler creates a new repository handler
func NewRepoHandler(svc *service.RepoService) *RepoHandler {
	return &RepoHandler{svc: svc}
}

// NameRequest is the body of a rename
type NameRequest struct {
	RepoName string `json:"repo_name"`
}

// DescriptionRequest is the body of a description change
type DescriptionRequest struct {
	Description string `json:"description"`
}

// ListRepos returns all repositories
func (h *RepoHandler) ListRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.svc.ListRepos(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, repos, http.StatusOK)
}

// GetRepo returns a single repository
func (h *RepoHandler) GetRepo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	repo, err := h.svc.GetRepo(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, repo, http.StatusOK)
}

// CreateRepo creates a new repository
func (h *RepoHandler) CreateRepo(w http.ResponseWriter, r *http.Request) {
	var payload domain.RepoPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	repo, err := h.svc.CreateRepo(r.Context(), payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, repo, http.StatusCreated)
}

// UpdateRepo replaces every mutable field of a repository
func (h *RepoHandler) UpdateRepo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload domain.RepoPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	repo, err := h.svc.UpdateRepo(r.Context(), id, payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, repo, http.StatusOK)
}

// UpdateRepoName renames a repository
func (h *RepoHandler) UpdateRepoName(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	repo, err := h.svc.UpdateRepoName(r.Context(), id, req.RepoName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, repo, http.StatusOK)
}

// UpdateRepoDescription changes a repository's description
func (h *RepoHandler) UpdateRepoDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req DescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	repo, err := h.svc.UpdateRepoDescription(r.Context(), id, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, repo, http.StatusOK)
}

// DeleteRepo deletes a repository and returns it
func (h *RepoHandler) DeleteRepo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	repo, err := h.svc.DeleteRepo(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, repo, http.StatusOK)
}
