package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/davidleathers/caller-identity/internal/domain/errors"
	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/infrastructure/config"
	"github.com/davidleathers/caller-identity/internal/infrastructure/directory"
	"github.com/davidleathers/caller-identity/internal/service/lookup"
	"github.com/davidleathers/caller-identity/internal/service/lookup/providers"
)

// Handler serves the lookup endpoints. The provider set is built once (it is
// stateless across requests); the contact directory is reloaded per request
// so edits to the contacts file are picked up without a restart.
type Handler struct {
	cfg     *config.Config
	logger  *slog.Logger
	zlog    *zap.Logger
	provs   []providers.Provider
	metrics lookup.MetricsCollector
}

// NewHandler creates the endpoint handler.
func NewHandler(cfg *config.Config, logger *slog.Logger, zlog *zap.Logger, provs []providers.Provider, metrics lookup.MetricsCollector) *Handler {
	if metrics == nil {
		metrics = lookup.NopMetrics{}
	}
	return &Handler{
		cfg:     cfg,
		logger:  logger,
		zlog:    zlog,
		provs:   provs,
		metrics: metrics,
	}
}

// newService builds a resolution service with a freshly loaded directory.
// An empty region falls back to the configured default. A missing or
// unreadable directory degrades to "no local directory" and the reason is
// reported alongside the outcome, never as a request failure.
func (h *Handler) newService(region string) (*lookup.Service, string) {
	if region == "" {
		region = h.cfg.Directory.DefaultRegion
	}

	var dir lookup.Directory
	var dirErr string

	idx, err := directory.Load(h.cfg.Directory.Path, directory.Options{
		PhoneColumn:   h.cfg.Directory.PhoneColumn,
		NameColumn:    h.cfg.Directory.NameColumn,
		DefaultRegion: region,
	}, h.zlog)
	if err != nil {
		dirErr = err.Error()
		if !errors.IsDirectoryMissing(err) {
			h.zlog.Warn("contact directory unreadable", zap.Error(err))
		}
	} else {
		dir = idx
	}

	svc := lookup.NewService(dir, h.provs, lookup.Options{
		DefaultRegion: region,
		Logger:        h.logger,
		Metrics:       h.metrics,
	})
	return svc, dirErr
}

type lookupRequest struct {
	Number string `json:"number"`
	Region string `json:"region,omitempty"`
}

type lookupResponse struct {
	Status         string                     `json:"status"`
	Outcome        identity.ResolutionOutcome `json:"outcome"`
	DirectoryError string                     `json:"directory_error,omitempty"`
}

func statusOf(outcome identity.ResolutionOutcome) (string, int) {
	switch {
	case outcome.Found():
		return "found", http.StatusOK
	case outcome.Kind == identity.OutcomeParseFailure:
		return "bad_input", http.StatusBadRequest
	default:
		return "not_found", http.StatusNotFound
	}
}

// handleLookup serves POST /api/v1/lookup.
func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError("INVALID_BODY", "request body must be JSON"))
		return
	}
	if strings.TrimSpace(req.Number) == "" {
		writeError(w, errors.NewValidationError("NUMBER_REQUIRED", "number is required"))
		return
	}

	svc, dirErr := h.newService(req.Region)
	outcome := svc.Resolve(r.Context(), req.Number)

	status, code := statusOf(outcome)
	writeJSON(w, code, lookupResponse{
		Status:         status,
		Outcome:        outcome,
		DirectoryError: dirErr,
	})
}

// handleHealth serves GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.cfg.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := errors.GetStatusCode(err)

	var appErr *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		appErr = e
	} else {
		appErr = errors.NewInternalError(err.Error())
	}

	writeJSON(w, status, map[string]interface{}{"error": appErr})
}
