package handler

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"repomanage/internal/codec"
	"repomanage/internal/logger"
	"repomanage/internal/service"
)

// StoreHandler handles snapshot, statistics and health requests
type StoreHandler struct {
	svc *service.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(svc *service.StoreService) *StoreHandler {
	return &StoreHandler{svc: svc}
}

// Export downloads a snapshot in the format named by the route
func (h *StoreHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, ok := snapshotCodec(w, r)
	if !ok {
		return
	}

	snap, err := h.svc.Export(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Encode fully before writing so a failure can still produce an error body
	var buf bytes.Buffer
	if err := c.Export(snap, &buf); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(c.Format()))
	w.Header().Set("Content-Disposition", "attachment; filename=repomanage."+c.Format())
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.From(r.Context()).Warn("failed to write export", logger.Err(err))
	}
}

// Import restores a snapshot posted in the format named by the route
func (h *StoreHandler) Import(w http.ResponseWriter, r *http.Request) {
	c, ok := snapshotCodec(w, r)
	if !ok {
		return
	}

	snap, err := c.Parse(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		writeError(w, ErrorResponse{Error: CodeBadRequest, Details: err.Error()}, http.StatusBadRequest)
		return
	}

	result, err := h.svc.Import(r.Context(), snap)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

// Stats reports the counter and region sizes
func (h *StoreHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats, http.StatusOK)
}

// Health answers liveness probes once the store can be read
func (h *StoreHandler) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Stats(r.Context()); err != nil {
		writeJSON(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func snapshotCodec(w http.ResponseWriter, r *http.Request) (codec.SnapshotCodec, bool) {
	c, err := codec.ByFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, ErrorResponse{Error: CodeBadRequest, Details: err.Error()}, http.StatusBadRequest)
		return nil, false
	}
	return c, true
}

func contentType(format string) string {
	if format == "yaml" {
		return "application/x-yaml"
	}
	return "application/json"
}
