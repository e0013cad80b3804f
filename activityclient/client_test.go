package activityclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		wantHost string
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "valid host",
			host:     "http://localhost:8000",
			wantHost: "http://localhost:8000",
		},
		{
			name:     "trailing slash trimmed",
			host:     "http://localhost:8000/api/",
			wantHost: "http://localhost:8000/api",
		},
		{
			name:    "missing scheme",
			host:    "localhost",
			wantErr: true,
			errMsg:  "must include scheme",
		},
		{
			name:    "invalid url",
			host:    "http://:invalid",
			wantErr: true,
			errMsg:  "invalid host URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.host, WithLogger(testLogger()))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, client.Host)
			assert.NotNil(t, client.Logger)
		})
	}
}

func TestListActivities_PreservesOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/activities", r.URL.Path)
		w.Write([]byte(`{
			"Zumba": {"description": "Dance", "schedule": "Mon", "max_participants": 5, "participants": ["z@b.com"]},
			"Art Club": {"description": "Paint", "schedule": "Tue", "max_participants": 3, "participants": []},
			"Chess Club": {"description": "Chess", "schedule": "Fri", "max_participants": 10, "participants": null}
		}`))
	}))
	defer ts.Close()

	client, err := New(ts.URL, WithLogger(testLogger()))
	require.NoError(t, err)

	catalog, err := client.ListActivities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ActivityName{"Zumba", "Art Club", "Chess Club"}, catalog.Names())

	zumba := catalog[0].Details
	assert.Equal(t, "Dance", zumba.Description)
	assert.Equal(t, 4, zumba.SpotsLeft())

	chess := catalog[2].Details
	assert.NotNil(t, chess.Participants)
	assert.Empty(t, chess.Participants)
}

func TestListActivities_Errors(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		wantTransport bool
		wantStatus    int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantTransport: true,
		},
		{
			name: "not an object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[1, 2]`))
			},
			wantTransport: true,
		},
		{
			name: "bad activity",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Chess": {"max_participants": "ten"}}`))
			},
			wantTransport: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			client, err := New(ts.URL, WithLogger(testLogger()))
			require.NoError(t, err)

			catalog, err := client.ListActivities(context.Background())
			require.Error(t, err)
			assert.Nil(t, catalog)

			if tt.wantTransport {
				assert.ErrorIs(t, err, ErrTransport)
				return
			}
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
		})
	}
}

func TestListActivities_ConnectionError(t *testing.T) {
	client, err := New("http://localhost:1", WithLogger(testLogger()))
	require.NoError(t, err)

	_, err = client.ListActivities(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestSignup_ConnectionErrorOmitsEmail(t *testing.T) {
	client, err := New("http://localhost:1", WithLogger(testLogger()))
	require.NoError(t, err)

	_, err = client.Signup(context.Background(), "Chess Club", "a@b.com")
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "/activities/Chess%20Club/signup")
	assert.NotContains(t, err.Error(), "a@b.com")
	assert.NotContains(t, err.Error(), "a%40b.com")
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantDetail string
		wantStatus int
		transport  bool
	}{
		{
			name:    "success",
			status:  http.StatusOK,
			body:    `{"message": "Signed up a@b.com for Chess Club"}`,
			wantMsg: "Signed up a@b.com for Chess Club",
		},
		{
			name:       "already signed up",
			status:     http.StatusBadRequest,
			body:       `{"detail": "Already signed up"}`,
			wantDetail: "Already signed up",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "error without detail",
			status:     http.StatusNotFound,
			body:       `{}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non-string detail",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail": [{"loc": ["query", "email"], "msg": "field required"}]}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:      "non-json error body",
			status:    http.StatusBadGateway,
			body:      `<html>bad gateway</html>`,
			transport: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/activities/Chess Club/signup", r.URL.Path)
				assert.Equal(t, "a@b.com", r.URL.Query().Get("email"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client, err := New(ts.URL, WithLogger(testLogger()))
			require.NoError(t, err)

			msg, err := client.Signup(context.Background(), "Chess Club", "a@b.com")
			switch {
			case tt.transport:
				assert.ErrorIs(t, err, ErrTransport)
			case tt.wantStatus != 0:
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				assert.Equal(t, tt.wantDetail, apiErr.Detail)
				assert.False(t, errors.Is(err, ErrTransport))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantMsg, msg)
			}
		})
	}
}

func TestUnregister(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/activities/Art & Craft/unregister", r.URL.Path)
		assert.Equal(t, "a+b@c.com", r.URL.Query().Get("email"))
		w.Write([]byte(`{"message": "Unregistered a+b@c.com from Art & Craft"}`))
	}))
	defer ts.Close()

	client, err := New(ts.URL, WithLogger(testLogger()))
	require.NoError(t, err)

	msg, err := client.Unregister(context.Background(), "Art & Craft", "a+b@c.com")
	require.NoError(t, err)
	assert.Equal(t, "Unregistered a+b@c.com from Art & Craft", msg)
}

func TestBuildURL(t *testing.T) {
	client, err := New("http://example.com/api/")
	require.NoError(t, err)

	tests := []struct {
		name     string
		activity ActivityName
		action   string
		email    string
		want     string
	}{
		{
			name:     "space in name",
			activity: "Chess Club",
			action:   "signup",
			email:    "a@b.com",
			want:     "http://example.com/api/activities/Chess%20Club/signup?email=a%40b.com",
		},
		{
			name:     "slash and question mark",
			activity: "A/B?",
			action:   "unregister",
			email:    "x+y@z.com",
			want:     "http://example.com/api/activities/A%2FB%3F/unregister?email=x%2By%40z.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.buildURL(tt.activity, tt.action, tt.email))
		})
	}
}

func TestReadError(t *testing.T) {
	client, err := New("http://example.com", WithLogger(testLogger()))
	require.NoError(t, err)

	client.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       &errorReader{},
			}, nil
		}),
	}

	_, err = client.Signup(context.Background(), "Chess Club", "a@b.com")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "failed to read response body")
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "activities API returned status 404", (&APIError{StatusCode: 404}).Error())
	assert.Equal(t, "activities API returned status 400: Already signed up",
		(&APIError{StatusCode: 400, Detail: "Already signed up"}).Error())
}

type errorReader struct{}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("read error")
}

func (e *errorReader) Close() error {
	return nil
}

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
