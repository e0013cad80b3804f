package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/net/html"

	"github.com/nomis52/activityboard/render"
)

// BoardPath is where form posts redirect to.
const BoardPath = "/board"

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeHTML(w http.ResponseWriter, logger *slog.Logger, nodes ...*html.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := render.HTML(w, nodes...); err != nil {
		logger.Error("failed to write HTML response", "error", err)
	}
}

// redirectToBoard completes a post/redirect/get cycle.
func redirectToBoard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, BoardPath, http.StatusSeeOther)
}
