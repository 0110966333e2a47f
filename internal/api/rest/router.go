package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the endpoints and the middleware chain.
func NewRouter(h *Handler, logger *slog.Logger, rps, burst int) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("POST /api/v1/lookup", h.handleLookup)
	mux.Handle("/metrics", promhttp.Handler())

	return chain(mux,
		securityHeadersMiddleware(),
		requestIDMiddleware(),
		loggingMiddleware(logger),
		recoveryMiddleware(logger),
		rateLimitMiddleware(rps, burst),
	)
}
