package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(now *time.Time, opts ...SessionOption) (*Sessions, *int) {
	created := 0
	s := NewSessions(func() Visitor {
		created++
		return &mockBoard{}
	}, opts...)
	s.now = func() time.Time { return *now }
	return s, &created
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	require.FailNow(t, "no session cookie set")
	return nil
}

func TestSessions_NewVisitorPerBrowser(t *testing.T) {
	now := time.Unix(1000, 0)
	s, created := newTestSessions(&now)

	w1 := httptest.NewRecorder()
	a := s.Visitor(w1, httptest.NewRequest(http.MethodGet, "/", nil))
	w2 := httptest.NewRecorder()
	b := s.Visitor(w2, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, *created)

	cookie := sessionCookie(t, w1)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.NotEqual(t, cookie.Value, sessionCookie(t, w2).Value)
}

func TestSessions_CookieReturnsSameVisitor(t *testing.T) {
	now := time.Unix(1000, 0)
	s, created := newTestSessions(&now)

	w := httptest.NewRecorder()
	first := s.Visitor(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	again := s.Visitor(w, req)

	assert.Same(t, first, again)
	assert.Equal(t, 1, *created)
	assert.Empty(t, w.Result().Cookies(), "known sessions are not re-issued")
}

func TestSessions_UnknownCookieStartsSession(t *testing.T) {
	now := time.Unix(1000, 0)
	s, created := newTestSessions(&now)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
	w := httptest.NewRecorder()
	s.Visitor(w, req)

	assert.Equal(t, 1, *created)
	assert.NotEqual(t, "forged", sessionCookie(t, w).Value)
}

func TestSessions_IdleSessionsExpire(t *testing.T) {
	now := time.Unix(1000, 0)
	s, created := newTestSessions(&now, WithSessionTimeout(time.Minute))

	w := httptest.NewRecorder()
	s.Visitor(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(t, w)

	now = now.Add(30 * time.Second)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s.Visitor(httptest.NewRecorder(), req)
	assert.Equal(t, 1, *created, "use within the timeout keeps the session")

	now = now.Add(2 * time.Minute)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	s.Visitor(httptest.NewRecorder(), req)
	assert.Equal(t, 2, *created)
	assert.Equal(t, 1, s.Len(), "the idle session was swept")
}
