package handlers

import (
	"log/slog"
	"net/http"

	"github.com/nomis52/activityboard/render"
)

// PageHandler loads the catalog and renders the full page for the visitor.
type PageHandler struct {
	logger   *slog.Logger
	loader   Loader
	visitors Visitors
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(logger *slog.Logger, loader Loader, visitors Visitors) *PageHandler {
	return &PageHandler{
		logger:   logger,
		loader:   loader,
		visitors: visitors,
	}
}

// ServeHTTP implements http.Handler.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	visitor := h.visitors.Visitor(w, r)

	// a failed load is part of the rendered state
	if err := h.loader.LoadAndRender(r.Context()); err != nil {
		h.logger.Debug("page rendered with failed catalog load", "error", err)
	}
	writeHTML(w, h.logger, render.Page(visitor.State()))
}
