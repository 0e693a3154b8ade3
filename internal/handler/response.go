package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"repomanage/internal/domain"
	"repomanage/internal/logger"
	"repomanage/internal/service"
)

// Error codes
const (
	CodeNotFound      = "NotFound"
	CodeCreateFail    = "CreateFail"
	CodeUpdateFail    = "UpdateFail"
	CodeBadRequest    = "BadRequest"
	CodeInternalError = "InternalError"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string  `json:"error"`
	Details string  `json:"details,omitempty"`
	Entity  string  `json:"entity,omitempty"`
	ID      *uint64 `json:"id,omitempty"`
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Named("http").Warn("failed to encode JSON", logger.Err(err))
	}
}

func writeError(w http.ResponseWriter, resp ErrorResponse, statusCode int) {
	writeJSON(w, resp, statusCode)
}

// writeServiceError maps a service error to its status code and body
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		nf *domain.NotFoundError
		cf *domain.CreateFailError
		uf *domain.UpdateFailError
	)

	switch {
	case errors.As(err, &nf):
		id := nf.ID
		writeError(w, ErrorResponse{Error: CodeNotFound, Entity: nf.Entity, ID: &id}, http.StatusNotFound)
	case errors.As(err, &cf):
		writeError(w, ErrorResponse{Error: CodeCreateFail, Details: cf.Msg}, http.StatusBadRequest)
	case errors.As(err, &uf):
		writeError(w, ErrorResponse{Error: CodeUpdateFail, Details: uf.Msg}, http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidSnapshot):
		writeError(w, ErrorResponse{Error: CodeBadRequest, Details: err.Error()}, http.StatusBadRequest)
	default:
		logger.From(r.Context()).Error("request failed", logger.Err(err))
		writeError(w, ErrorResponse{Error: CodeInternalError, Details: "store failure"}, http.StatusInternalServerError)
	}
}

// pathID parses the {id} route parameter, answering 400 when it is not a u64
func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, ErrorResponse{Error: CodeBadRequest, Details: "invalid id " + strconv.Quote(raw)}, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON request body into v, rejecting unknown fields
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, ErrorResponse{Error: CodeBadRequest, Details: "invalid request body: " + err.Error()}, http.StatusBadRequest)
		return false
	}
	return true
}

const (
	maxBodyBytes     = 64 << 10
	maxSnapshotBytes = 64 << 20
)
