package activityclient

import (
	"errors"
	"fmt"
)

// ErrTransport is wrapped by every error where the request could not be completed or
// its response could not be understood.
var ErrTransport = errors.New("activities API request failed")

// ActivityName identifies an activity. It is both the display label and the path
// parameter used by the signup and unregister endpoints.
type ActivityName string

// ActivityDetails is the server's view of a single activity.
type ActivityDetails struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft returns the remaining capacity. A server that over-reports participants
// yields a negative value, which is returned as is.
func (d ActivityDetails) SpotsLeft() int {
	return d.MaxParticipants - len(d.Participants)
}

// Activity pairs a name with its details.
type Activity struct {
	Name    ActivityName    `json:"name"`
	Details ActivityDetails `json:"details"`
}

// Catalog is the full list of activities in the order the server returned them.
type Catalog []Activity

// Names returns the activity names in catalog order.
func (c Catalog) Names() []ActivityName {
	names := make([]ActivityName, len(c))
	for i, a := range c {
		names[i] = a.Name
	}
	return names
}

// APIError is returned when the server answered with a non-success status.
type APIError struct {
	StatusCode int
	// Detail is the server supplied "detail" field. Empty when the body had none or
	// when it was not a string.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("activities API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("activities API returned status %d: %s", e.StatusCode, e.Detail)
}

// messageResponse is the body shape shared by the signup and unregister endpoints.
type messageResponse struct {
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}

// detail returns the detail field when the server sent it as a string.
func (r messageResponse) detail() string {
	s, _ := r.Detail.(string)
	return s
}
