package handlers

import (
	"log/slog"
	"net/http"

	"github.com/nomis52/activityboard/activityclient"
)

// SignupHandler turns a signup form post into a signup by the posting visitor.
type SignupHandler struct {
	logger   *slog.Logger
	visitors Visitors
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(logger *slog.Logger, visitors Visitors) *SignupHandler {
	return &SignupHandler{
		logger:   logger,
		visitors: visitors,
	}
}

// ServeHTTP implements http.Handler.
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid form: " + err.Error()})
		return
	}

	email := r.PostForm.Get("email")
	activity := activityclient.ActivityName(r.PostForm.Get("activity"))

	msg := h.visitors.Visitor(w, r).Signup(r.Context(), email, activity)
	h.logger.Debug("signup handled", "activity", activity, "severity", msg.Severity)

	redirectToBoard(w, r)
}
