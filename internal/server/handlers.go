package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/shared"
	"github.com/desertthunder/banger/internal/tasks"
	"github.com/goccy/go-json"
)

// Catalog is the read side the handlers depend on. Implemented by [tasks.Catalog].
type Catalog interface {
	Exists() (bool, error)
	Songs(ctx context.Context) (*tasks.NormalizeResult, error)
}

// SongsHandler serves GET /api/songs. A missing database file is a 404.
type SongsHandler struct {
	catalog Catalog
	metrics *Metrics
	logger  *log.Logger
}

func (h *SongsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := shared.WithLogger(h.logger, "request_id", RequestIDFrom(r.Context()))

	exists, err := h.catalog.Exists()
	if err != nil {
		h.fail(w, logger, err)
		return
	}
	if !exists {
		logger.Error("database file does not exist")
		h.metrics.ObserveFailure("songs", "absent")
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Database file not found"})
		return
	}

	result, err := h.catalog.Songs(r.Context())
	if err != nil {
		h.fail(w, logger, err)
		return
	}

	h.metrics.ObserveEntries("songs", result.Valid, result.Skipped)
	writeJSON(w, http.StatusOK, tasks.BuildSongList(result.Songs))
}

func (h *SongsHandler) fail(w http.ResponseWriter, logger *log.Logger, err error) {
	logger.Error("error in songs endpoint", "error", err)
	h.metrics.ObserveFailure("songs", failureKind(err))
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
		Error:   "Failed to process request",
		Details: failureKind(err),
	})
}

// StatsHandler serves GET /api/songs/stats. A missing database file yields zeroed statistics.
type StatsHandler struct {
	catalog Catalog
	metrics *Metrics
	logger  *log.Logger
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.Songs(r.Context())
	if err != nil {
		h.logger.Error("error generating stats", "error", err, "request_id", RequestIDFrom(r.Context()))
		h.metrics.ObserveFailure("stats", failureKind(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate statistics"})
		return
	}

	h.metrics.ObserveEntries("stats", result.Valid, result.Skipped)
	writeJSON(w, http.StatusOK, tasks.BuildStats(result.Songs))
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// failureKind maps an error to a client-safe description. Paths and OS messages never leave the server.
func failureKind(err error) string {
	switch {
	case errors.Is(err, shared.ErrMalformedSource):
		return shared.ErrMalformedSource.Error()
	case errors.Is(err, shared.ErrInvalidFormat):
		return shared.ErrInvalidFormat.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "request cancelled"
	default:
		return shared.ErrReadFailed.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
