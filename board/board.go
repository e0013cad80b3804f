// Package board implements the activity board controller.
//
// A Board owns a UiState and keeps it in step with the remote activities API:
//
//   - LoadAndRender fetches the full catalog and replaces the displayed list.
//   - Signup and Unregister perform one mutating request, show the outcome in the
//     status banner and reload the catalog on success.
//
// Every catalog load takes a sequence number. A result is applied only if no newer
// load has been issued in the meantime, so overlapping operations settle on the most
// recently requested catalog regardless of completion order.
//
// Participant rows carry a RowID. The board keeps a dispatch table from RowID to the
// (activity, email) pair that was displayed, and UnregisterRow resolves a click on a
// row through it.
//
// The catalog, dispatch table and sequence guard are shared. Form values and the
// status banner belong to a View, one per visitor; NewView creates one. The Board's
// own Signup, Unregister, UnregisterRow, ShowStatus and State methods act on a
// default View for single-visitor hosts.
//
// All methods are safe for concurrent use. Network calls are made without holding
// the state lock.
package board

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nomis52/activityboard/activityclient"
	"github.com/nomis52/activityboard/metrics"
	"github.com/nomis52/activityboard/status"
)

// User-visible messages.
const (
	LoadFailedText          = "Failed to load activities. Please try again later."
	SignupFallbackText      = "An error occurred"
	SignupTransportText     = "Failed to sign up. Please try again."
	UnregisterFallbackText  = "Failed to unregister participant"
	UnregisterTransportText = "Failed to unregister. Please try again."
	UnknownRowText          = "Participant is no longer listed. Please refresh."
)

// Operation names used in logs and metrics.
const (
	OpList       = "list"
	OpSignup     = "signup"
	OpUnregister = "unregister"
)

// ErrUnknownRow is returned by Lookup for a RowID that is not in the current render.
var ErrUnknownRow = errors.New("unknown participant row")

// API is the subset of the activities API the board uses.
type API interface {
	ListActivities(ctx context.Context) (activityclient.Catalog, error)
	Signup(ctx context.Context, name activityclient.ActivityName, email string) (string, error)
	Unregister(ctx context.Context, name activityclient.ActivityName, email string) (string, error)
}

// Metrics receives board instrumentation.
type Metrics interface {
	ObserveRequest(operation, outcome string)
	SetCatalogSize(n int)
	SetSpotsLeft(spots map[string]int)
	StaleLoad()
}

// Board is the activity board controller.
type Board struct {
	api      API
	logger   *slog.Logger
	metrics  Metrics
	view     *View
	newRowID func() RowID

	hideDelay time.Duration
	clock     status.Clock

	issued atomic.Uint64

	mu    sync.RWMutex
	state UiState
	rows  map[RowID]rowTarget
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the board's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(b *Board) {
		b.metrics = m
	}
}

// WithStatusDelay sets how long a status message stays visible.
func WithStatusDelay(d time.Duration) Option {
	return func(b *Board) {
		b.hideDelay = d
	}
}

// WithClock sets the clock driving the status hide timer.
func WithClock(clock status.Clock) Option {
	return func(b *Board) {
		b.clock = clock
	}
}

// WithRowIDs replaces the RowID generator.
func WithRowIDs(gen func() RowID) Option {
	return func(b *Board) {
		b.newRowID = gen
	}
}

// New creates a Board backed by api. The board starts empty; call LoadAndRender for
// the initial load.
func New(api API, opts ...Option) *Board {
	b := &Board{
		api:       api,
		logger:    slog.Default(),
		metrics:   noopMetrics{},
		newRowID:  func() RowID { return RowID(uuid.NewString()) },
		hideDelay: status.DefaultHideDelay,
		clock:     status.RealClock(),
		rows:      make(map[RowID]rowTarget),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.view = b.NewView()
	return b
}

// NewView creates a View with an empty form and a hidden status banner.
func (b *Board) NewView() *View {
	return &View{
		board:  b,
		banner: status.NewBanner(b.hideDelay, status.WithClock(b.clock)),
	}
}

// State returns a snapshot of the current UI state as seen by the default View.
func (b *Board) State() UiState {
	return b.view.State()
}

// ShowStatus displays a status message on the default View.
func (b *Board) ShowStatus(text string, severity status.Severity) {
	b.view.ShowStatus(text, severity)
}

// Signup signs email up for activity from the default View.
func (b *Board) Signup(ctx context.Context, email string, activity activityclient.ActivityName) status.Message {
	return b.view.Signup(ctx, email, activity)
}

// Unregister removes email from activity from the default View.
func (b *Board) Unregister(ctx context.Context, activity activityclient.ActivityName, email string) status.Message {
	return b.view.Unregister(ctx, activity, email)
}

// UnregisterRow unregisters the participant displayed in row from the default View.
func (b *Board) UnregisterRow(ctx context.Context, row RowID) status.Message {
	return b.view.UnregisterRow(ctx, row)
}

// snapshot copies the shared state. Form and Status are left empty.
func (b *Board) snapshot() UiState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// LoadAndRender fetches the catalog and replaces the displayed list and selector
// options. On failure the list is replaced by LoadFailedText and the options are
// kept. Results of loads superseded by a newer one are discarded.
//
// The returned error is the load failure, if the result was applied.
func (b *Board) LoadAndRender(ctx context.Context) error {
	seq := b.issued.Add(1)
	catalog, err := b.api.ListActivities(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if latest := b.issued.Load(); seq != latest {
		b.metrics.StaleLoad()
		b.logger.Debug("discarding stale catalog", "sequence", seq, "latest", latest)
		return nil
	}

	if err != nil {
		b.metrics.ObserveRequest(OpList, outcomeOf(err))
		b.logger.Error("failed to load activities", "sequence", seq, "error", err)
		b.state.Activities = nil
		b.state.LoadError = LoadFailedText
		b.state.Sequence = seq
		b.rows = make(map[RowID]rowTarget)
		return err
	}

	b.metrics.ObserveRequest(OpList, metrics.OutcomeSuccess)
	b.metrics.SetCatalogSize(len(catalog))
	b.apply(seq, catalog)
	b.logger.Info("catalog loaded", "sequence", seq, "activities", len(catalog))
	return nil
}

// apply replaces the displayed catalog. Caller holds b.mu.
func (b *Board) apply(seq uint64, catalog activityclient.Catalog) {
	rows := make(map[RowID]rowTarget)
	activities := make([]RenderedActivity, 0, len(catalog))
	spots := make(map[string]int, len(catalog))

	for _, a := range catalog {
		participants := make([]Participant, 0, len(a.Details.Participants))
		for _, email := range a.Details.Participants {
			id := b.newRowID()
			rows[id] = rowTarget{activity: a.Name, email: email}
			participants = append(participants, Participant{Email: email, Row: id})
		}
		activities = append(activities, RenderedActivity{
			Name:            a.Name,
			Description:     a.Details.Description,
			Schedule:        a.Details.Schedule,
			MaxParticipants: a.Details.MaxParticipants,
			SpotsLeft:       a.Details.SpotsLeft(),
			Participants:    participants,
		})
		spots[string(a.Name)] = a.Details.SpotsLeft()
	}

	b.state.Activities = activities
	b.state.LoadError = ""
	b.state.Options = catalog.Names()
	b.state.Sequence = seq
	b.rows = rows
	b.metrics.SetSpotsLeft(spots)
}

// Lookup resolves a RowID through the dispatch table of the current render.
func (b *Board) Lookup(row RowID) (activityclient.ActivityName, string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	target, ok := b.rows[row]
	if !ok {
		return "", "", ErrUnknownRow
	}
	return target.activity, target.email, nil
}

func outcomeOf(err error) string {
	var apiErr *activityclient.APIError
	if errors.As(err, &apiErr) {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeTransport
}

func containsName(names []activityclient.ActivityName, name activityclient.ActivityName) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

type noopMetrics struct{}

func (noopMetrics) ObserveRequest(string, string) {}
func (noopMetrics) SetCatalogSize(int)            {}
func (noopMetrics) SetSpotsLeft(map[string]int)   {}
func (noopMetrics) StaleLoad()                    {}
