package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nomis52/activityboard/board"
)

// RowIDParam is the route parameter carrying the participant row.
const RowIDParam = "rowID"

// UnregisterHandler turns a participant row's delete post into an unregister by the
// posting visitor.
type UnregisterHandler struct {
	logger   *slog.Logger
	visitors Visitors
}

// NewUnregisterHandler creates a new UnregisterHandler.
func NewUnregisterHandler(logger *slog.Logger, visitors Visitors) *UnregisterHandler {
	return &UnregisterHandler{
		logger:   logger,
		visitors: visitors,
	}
}

// ServeHTTP implements http.Handler.
func (h *UnregisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	row := board.RowID(chi.URLParam(r, RowIDParam))

	msg := h.visitors.Visitor(w, r).UnregisterRow(r.Context(), row)
	h.logger.Debug("unregister handled", "row", row, "severity", msg.Severity)

	redirectToBoard(w, r)
}
