package handlers

import "net/http"

// VersionHandler returns build and server properties.
type VersionHandler struct {
	props PropertiesProvider
}

// NewVersionHandler creates a new VersionHandler.
func NewVersionHandler(props PropertiesProvider) *VersionHandler {
	return &VersionHandler{props: props}
}

// ServeHTTP implements http.Handler.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.props.Properties())
}
