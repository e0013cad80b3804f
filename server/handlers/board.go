package handlers

import (
	"log/slog"
	"net/http"

	"github.com/nomis52/activityboard/render"
)

// BoardHandler renders the visitor's current state without fetching the catalog.
// With ?fragment=1 it writes only the list, form and banner elements.
type BoardHandler struct {
	logger   *slog.Logger
	visitors Visitors
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(logger *slog.Logger, visitors Visitors) *BoardHandler {
	return &BoardHandler{
		logger:   logger,
		visitors: visitors,
	}
}

// ServeHTTP implements http.Handler.
func (h *BoardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	state := h.visitors.Visitor(w, r).State()
	if r.URL.Query().Get("fragment") != "" {
		writeHTML(w, h.logger, render.Board(state)...)
		return
	}
	writeHTML(w, h.logger, render.Page(state))
}
