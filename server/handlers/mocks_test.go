package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/nomis52/activityboard/activityclient"
	"github.com/nomis52/activityboard/board"
	"github.com/nomis52/activityboard/status"
)

type signupCall struct {
	email    string
	activity activityclient.ActivityName
}

type mockBoard struct {
	mu         sync.Mutex
	state      board.UiState
	loadErr    error
	loads      int
	signups    []signupCall
	unregister []board.RowID
	reply      status.Message
}

func (m *mockBoard) State() board.UiState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockBoard) LoadAndRender(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return m.loadErr
}

func (m *mockBoard) Signup(ctx context.Context, email string, activity activityclient.ActivityName) status.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signups = append(m.signups, signupCall{email: email, activity: activity})
	return m.reply
}

func (m *mockBoard) UnregisterRow(ctx context.Context, row board.RowID) status.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unregister = append(m.unregister, row)
	return m.reply
}

// staticVisitors hands every request the same visitor.
type staticVisitors struct {
	visitor Visitor
}

func (s staticVisitors) Visitor(http.ResponseWriter, *http.Request) Visitor {
	return s.visitor
}

func sampleState() board.UiState {
	return board.UiState{
		Activities: []board.RenderedActivity{
			{
				Name:            "Chess Club",
				Description:     "Learn strategies",
				Schedule:        "Fridays, 3:30 PM",
				MaxParticipants: 12,
				SpotsLeft:       11,
				Participants:    []board.Participant{{Email: "michael@mergington.edu", Row: "row-1"}},
			},
		},
		Options:  []activityclient.ActivityName{"Chess Club"},
		Status:   status.Message{Text: "Signed up", Severity: status.SeveritySuccess, Visible: true},
		Sequence: 3,
	}
}
