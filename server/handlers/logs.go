package handlers

import (
	"log/slog"
	"net/http"

	"github.com/nomis52/activityboard/logging"
)

// LogsHandler returns recently captured log records, oldest first. The optional
// level query parameter sets the minimum level.
type LogsHandler struct {
	source LogSource
}

// NewLogsHandler creates a new LogsHandler.
func NewLogsHandler(source LogSource) *LogsHandler {
	return &LogsHandler{source: source}
}

// ServeHTTP implements http.Handler.
func (h *LogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	min := slog.LevelDebug
	if s := r.URL.Query().Get("level"); s != "" {
		level, err := logging.ParseLevel(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		min = level
	}

	entries := h.source.Recent(min)
	if entries == nil {
		entries = []logging.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
