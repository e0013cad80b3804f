package board

import (
	"context"
	"errors"
	"sync"

	"github.com/nomis52/activityboard/activityclient"
	"github.com/nomis52/activityboard/metrics"
	"github.com/nomis52/activityboard/status"
)

// View is one visitor's form values and status banner over a shared Board.
type View struct {
	board  *Board
	banner *status.Banner

	mu   sync.Mutex
	form Form
	// checked is the catalog sequence the form selection was last validated against.
	checked uint64
}

// State returns the shared catalog overlaid with this view's form and status. A
// selection whose activity is absent from a newly applied catalog is dropped.
func (v *View) State() UiState {
	s := v.board.snapshot()

	v.mu.Lock()
	if s.Sequence != v.checked {
		if s.LoadError == "" && !containsName(s.Options, v.form.Activity) {
			v.form.Activity = ""
		}
		v.checked = s.Sequence
	}
	s.Form = v.form
	v.mu.Unlock()

	s.Status = v.banner.Current()
	return s
}

// ShowStatus displays a status message and restarts its hide timer.
func (v *View) ShowStatus(text string, severity status.Severity) {
	v.banner.Show(text, severity)
}

// Signup registers email for activity. On success the form is reset and the catalog
// reloaded; on failure the form keeps the submitted values. The displayed status is
// returned.
func (v *View) Signup(ctx context.Context, email string, activity activityclient.ActivityName) status.Message {
	b := v.board
	v.setForm(Form{Email: email, Activity: activity})

	msg, err := b.api.Signup(ctx, activity, email)
	if err != nil {
		v.fail(OpSignup, err, SignupFallbackText, SignupTransportText, activity, email)
		return v.banner.Current()
	}

	b.metrics.ObserveRequest(OpSignup, metrics.OutcomeSuccess)
	b.logger.Info("signed up", "activity", activity)
	b.logger.Debug("signup participant", "activity", activity, "email", email)
	v.banner.Show(msg, status.SeveritySuccess)
	shown := v.banner.Current()

	v.setForm(Form{})
	_ = b.LoadAndRender(ctx)
	return shown
}

// Unregister removes email from activity and reloads the catalog on success. The
// displayed status is returned.
func (v *View) Unregister(ctx context.Context, activity activityclient.ActivityName, email string) status.Message {
	b := v.board

	msg, err := b.api.Unregister(ctx, activity, email)
	if err != nil {
		v.fail(OpUnregister, err, UnregisterFallbackText, UnregisterTransportText, activity, email)
		return v.banner.Current()
	}

	b.metrics.ObserveRequest(OpUnregister, metrics.OutcomeSuccess)
	b.logger.Info("unregistered", "activity", activity)
	b.logger.Debug("unregister participant", "activity", activity, "email", email)
	v.banner.Show(msg, status.SeveritySuccess)
	shown := v.banner.Current()

	_ = b.LoadAndRender(ctx)
	return shown
}

// UnregisterRow unregisters the participant displayed in row. Rows from a render
// that has since been replaced are reported without contacting the API.
func (v *View) UnregisterRow(ctx context.Context, row RowID) status.Message {
	activity, email, err := v.board.Lookup(row)
	if err != nil {
		v.board.logger.Warn("unregister for unknown row", "row", row)
		v.banner.Show(UnknownRowText, status.SeverityError)
		return v.banner.Current()
	}
	return v.Unregister(ctx, activity, email)
}

// setForm replaces the form. The selection counts as checked against the catalog
// displayed when it was submitted.
func (v *View) setForm(f Form) {
	seq := v.board.snapshot().Sequence

	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = f
	v.checked = seq
}

// fail shows the error status for a failed mutation. Rejections use the server's
// detail when it sent one.
func (v *View) fail(op string, err error, fallback, transport string, activity activityclient.ActivityName, email string) {
	text := transport
	var apiErr *activityclient.APIError
	if errors.As(err, &apiErr) {
		text = fallback
		if apiErr.Detail != "" {
			text = apiErr.Detail
		}
	}

	b := v.board
	b.metrics.ObserveRequest(op, outcomeOf(err))
	b.logger.Warn(op+" failed", "activity", activity, "error", err)
	b.logger.Debug(op+" failed participant", "activity", activity, "email", email)
	v.banner.Show(text, status.SeverityError)
}
