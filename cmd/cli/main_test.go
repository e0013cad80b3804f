package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomis52/activityboard/activityclient"
	"github.com/nomis52/activityboard/board"
	"github.com/nomis52/activityboard/status"
)

func newTestBoard(t *testing.T, handler http.Handler) *board.Board {
	t.Helper()
	remote := httptest.NewServer(handler)
	t.Cleanup(remote.Close)

	client, err := activityclient.New(remote.URL)
	require.NoError(t, err)
	return board.New(client, board.WithClock(status.NewManualClock()))
}

func activitiesAPI(signupStatus int, signupBody string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /activities", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Chess Club":{"description":"Strategy","schedule":"Fridays","max_participants":2,"participants":["a@x.com"]}}`)
	})
	mux.HandleFunc("POST /activities/{name}/signup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(signupStatus)
		fmt.Fprint(w, signupBody)
	})
	mux.HandleFunc("DELETE /activities/{name}/unregister", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"message":"Unregistered %s from %s"}`, r.URL.Query().Get("email"), r.PathValue("name"))
	})
	return mux
}

func TestRunCommand_List(t *testing.T) {
	b := newTestBoard(t, activitiesAPI(http.StatusOK, `{}`))

	var out bytes.Buffer
	require.NoError(t, runCommand(context.Background(), b, []string{"list"}, &out))

	want := `Chess Club
  Strategy
  Schedule: Fridays
  Availability: 1 spots left
  Participants:
    - a@x.com
`
	assert.Equal(t, want, out.String())
}

func TestRunCommand_ListFailure(t *testing.T) {
	b := newTestBoard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	var out bytes.Buffer
	err := runCommand(context.Background(), b, []string{"list"}, &out)
	assert.Error(t, err)
	assert.Equal(t, board.LoadFailedText+"\n", out.String())
}

func TestRunCommand_Signup(t *testing.T) {
	b := newTestBoard(t, activitiesAPI(http.StatusOK, `{"message":"Signed up b@x.com for Chess Club"}`))

	var out bytes.Buffer
	err := runCommand(context.Background(), b, []string{"signup", "-email", "b@x.com", "-activity", "Chess Club"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Chess Club\n")
	assert.Contains(t, out.String(), "[success] Signed up b@x.com for Chess Club\n")
}

func TestRunCommand_SignupRejected(t *testing.T) {
	b := newTestBoard(t, activitiesAPI(http.StatusBadRequest, `{"detail":"Student is already signed up"}`))

	var out bytes.Buffer
	err := runCommand(context.Background(), b, []string{"signup", "-email", "a@x.com", "-activity", "Chess Club"}, &out)
	assert.EqualError(t, err, "signup failed: Student is already signed up")
	assert.Equal(t, "[error] Student is already signed up\n", out.String())
}

func TestRunCommand_Unregister(t *testing.T) {
	b := newTestBoard(t, activitiesAPI(http.StatusOK, `{}`))

	var out bytes.Buffer
	err := runCommand(context.Background(), b, []string{"unregister", "-activity", "Chess Club", "-email", "a@x.com"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[success] Unregistered a@x.com from Chess Club\n")
}

func TestRunCommand_Usage(t *testing.T) {
	b := newTestBoard(t, activitiesAPI(http.StatusOK, `{}`))

	tests := []struct {
		name    string
		command []string
	}{
		{name: "no command", command: nil},
		{name: "unknown command", command: []string{"delete"}},
		{name: "unknown flag", command: []string{"signup", "-name", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, runCommand(context.Background(), b, tt.command, &out))
			assert.Empty(t, out.String())
		})
	}
}
