package handlers

import "net/http"

// StateHandler returns the visitor's UI state as JSON.
type StateHandler struct {
	visitors Visitors
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(visitors Visitors) *StateHandler {
	return &StateHandler{visitors: visitors}
}

// ServeHTTP implements http.Handler.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.visitors.Visitor(w, r).State())
}
