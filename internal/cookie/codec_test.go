package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtorp/overlook-framework/internal/config"
)

func testCodec() *Codec {
	return NewCodec(config.Cookie{
		Secret:          "test-secret",
		SessionName:     "sessionId",
		SessionDuration: 30 * time.Minute,
		LoginName:       "login",
		LoginDuration:   720 * time.Hour,
	})
}

// requestWithCookies turns recorded Set-Cookie headers into a request
// carrying those cookies, simulating the browser's next visit.
func requestWithCookies(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge >= 0 {
			r.AddCookie(cookie)
		}
	}
	return r
}

func TestCodec_SessionRoundTrip(t *testing.T) {
	c := testCodec()
	userID := uuid.New()

	w := httptest.NewRecorder()
	require.NoError(t, c.SetSession(w, userID))

	payload := c.GetSession(requestWithCookies(t, w))
	require.NotNil(t, payload)
	assert.Equal(t, userID, payload.UserID)
	assert.False(t, payload.TimedOut)
}

func TestCodec_GetSession_Absent(t *testing.T) {
	c := testCodec()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Nil(t, c.GetSession(r))
}

func TestCodec_GetSession_Tampered(t *testing.T) {
	c := testCodec()

	forged := NewCodec(config.Cookie{
		Secret:          "attacker-secret",
		SessionName:     "sessionId",
		SessionDuration: 30 * time.Minute,
		LoginName:       "login",
		LoginDuration:   720 * time.Hour,
	})
	w := httptest.NewRecorder()
	require.NoError(t, forged.SetSession(w, uuid.New()))

	assert.Nil(t, c.GetSession(requestWithCookies(t, w)))
}

func TestCodec_GetSession_Malformed(t *testing.T) {
	c := testCodec()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sessionId", Value: "garbage"})

	assert.Nil(t, c.GetSession(r))
}

func TestCodec_GetSession_TimedOut(t *testing.T) {
	c := testCodec()
	userID := uuid.New()

	// An authentic cookie whose sliding window has elapsed.
	now := time.Now()
	value, err := c.sign(sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-30 * time.Minute)),
		},
		UserID: userID,
	})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sessionId", Value: value})

	payload := c.GetSession(r)
	require.NotNil(t, payload)
	assert.True(t, payload.TimedOut)
	assert.Equal(t, userID, payload.UserID)
}

func TestCodec_GetSession_ExpiredAndTampered(t *testing.T) {
	c := testCodec()

	forged := NewCodec(config.Cookie{Secret: "attacker-secret", SessionName: "sessionId"})
	value, err := forged.sign(sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: uuid.New(),
	})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "sessionId", Value: value})

	// A bad signature must not surface even a timed-out payload.
	assert.Nil(t, c.GetSession(r))
}

func TestCodec_LoginRoundTrip(t *testing.T) {
	c := testCodec()
	userID := uuid.New()

	w := httptest.NewRecorder()
	require.NoError(t, c.SetLogin(w, userID, "key-1"))

	payload := c.GetLogin(requestWithCookies(t, w))
	require.NotNil(t, payload)
	assert.Equal(t, userID, payload.UserID)
	assert.Equal(t, "key-1", payload.CookieKey)
}

func TestCodec_SetLogin_Persistent(t *testing.T) {
	c := testCodec()

	w := httptest.NewRecorder()
	require.NoError(t, c.SetLogin(w, uuid.New(), "key-1"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, int(720*time.Hour/time.Second), cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCodec_SetSession_NotPersistent(t *testing.T) {
	c := testCodec()

	w := httptest.NewRecorder()
	require.NoError(t, c.SetSession(w, uuid.New()))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 0, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCodec_GetLogin_Expired(t *testing.T) {
	c := testCodec()

	value, err := c.sign(loginClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID:    uuid.New(),
		CookieKey: "key-1",
	})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "login", Value: value})

	// Unlike the session cookie, an expired login cookie is simply absent.
	assert.Nil(t, c.GetLogin(r))
}

func TestCodec_ClearCookies(t *testing.T) {
	c := testCodec()

	w := httptest.NewRecorder()
	c.ClearSession(w)
	c.ClearLogin(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, cookie := range cookies {
		assert.Equal(t, -1, cookie.MaxAge)
		assert.Empty(t, cookie.Value)
	}
}
