// Package handlers provides HTTP handlers for the activityboard server.
//
// Each handler is in its own file and implements http.Handler.
// Handlers use interfaces to access server dependencies, avoiding
// circular imports.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nomis52/activityboard/activityclient"
	"github.com/nomis52/activityboard/board"
	"github.com/nomis52/activityboard/config"
	"github.com/nomis52/activityboard/logging"
	"github.com/nomis52/activityboard/server/refresh"
	"github.com/nomis52/activityboard/server/types"
	"github.com/nomis52/activityboard/status"
)

// StateProvider provides a snapshot of the board's UI state.
type StateProvider interface {
	State() board.UiState
}

// Loader reloads the activity catalog.
type Loader interface {
	LoadAndRender(ctx context.Context) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) error

// LoadAndRender calls f.
func (f LoaderFunc) LoadAndRender(ctx context.Context) error {
	return f(ctx)
}

// Visitor is one browser's view of the board: the shared catalog with its own form
// values and status banner.
type Visitor interface {
	StateProvider
	Signup(ctx context.Context, email string, activity activityclient.ActivityName) status.Message
	UnregisterRow(ctx context.Context, row board.RowID) status.Message
}

// Visitors resolves the Visitor behind a request.
type Visitors interface {
	Visitor(w http.ResponseWriter, r *http.Request) Visitor
}

// ConfigProvider provides access to the current configuration.
type ConfigProvider interface {
	Config() *config.Config
}

// PropertiesProvider provides server metadata.
type PropertiesProvider interface {
	Properties() types.ServerProperties
}

// LogSource provides recently captured log records.
type LogSource interface {
	Recent(min slog.Level) []logging.LogEntry
}

// RefreshStatusProvider reports on the scheduled catalog refresh.
type RefreshStatusProvider interface {
	Status() refresh.Status
}
