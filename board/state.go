package board

import (
	"github.com/nomis52/activityboard/activityclient"
	"github.com/nomis52/activityboard/status"
)

// RowID identifies one rendered participant row. IDs are never reused, so an ID from
// a replaced render resolves to nothing instead of to a different participant.
type RowID string

// Participant is one rendered participant row.
type Participant struct {
	Email string `json:"email"`
	Row   RowID  `json:"row"`
}

// RenderedActivity is one activity card as produced by the last applied catalog load.
type RenderedActivity struct {
	Name            activityclient.ActivityName `json:"name"`
	Description     string                      `json:"description"`
	Schedule        string                      `json:"schedule"`
	MaxParticipants int                         `json:"max_participants"`
	SpotsLeft       int                         `json:"spots_left"`
	Participants    []Participant               `json:"participants"`
}

// Form holds the signup form's field values.
type Form struct {
	Email    string                      `json:"email"`
	Activity activityclient.ActivityName `json:"activity"`
}

// UiState is a snapshot of everything the board displays.
type UiState struct {
	Activities []RenderedActivity `json:"activities"`
	// LoadError is the inline notice shown in place of the activity list when the
	// last applied catalog load failed. Empty otherwise.
	LoadError string `json:"load_error,omitempty"`
	// Options are the signup selector entries. A failed load leaves them untouched.
	Options  []activityclient.ActivityName `json:"options"`
	Form     Form                          `json:"form"`
	Status   status.Message                `json:"status"`
	Sequence uint64                        `json:"sequence"`
}

// LoadFailed reports whether the activity list is replaced by the failure notice.
func (s UiState) LoadFailed() bool {
	return s.LoadError != ""
}

// rowTarget is the dispatch table entry for a RowID.
type rowTarget struct {
	activity activityclient.ActivityName
	email    string
}
