package handlers

import (
	"log/slog"
	"net/http"
)

// RefreshHandler reloads the activity catalog on demand.
type RefreshHandler struct {
	logger *slog.Logger
	loader Loader
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(logger *slog.Logger, loader Loader) *RefreshHandler {
	return &RefreshHandler{
		logger: logger,
		loader: loader,
	}
}

// ServeHTTP implements http.Handler.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("manual catalog refresh requested")

	if err := h.loader.LoadAndRender(r.Context()); err != nil {
		h.logger.Error("failed to refresh activity catalog", "error", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error: "failed to refresh activities: " + err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RefreshStatusHandler reports the scheduled refresh, or 404 when none is configured.
type RefreshStatusHandler struct {
	provider RefreshStatusProvider
}

// NewRefreshStatusHandler creates a new RefreshStatusHandler. provider may be nil.
func NewRefreshStatusHandler(provider RefreshStatusProvider) *RefreshStatusHandler {
	return &RefreshStatusHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *RefreshStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "scheduled refresh is not configured"})
		return
	}
	writeJSON(w, http.StatusOK, h.provider.Status())
}
