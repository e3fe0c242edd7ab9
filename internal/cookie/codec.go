// Package cookie encodes and decodes the two credential cookies. The
// payloads are HMAC-signed tokens, so a tampered or malformed cookie
// never reaches the session manager: it decodes as absent.
package cookie

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mtorp/overlook-framework/internal/config"
)

// SessionPayload is the decoded session cookie. TimedOut marks a
// cookie that was authentic but past its sliding expiry; UserID is
// still recoverable for "session expired" messaging.
type SessionPayload struct {
	UserID   uuid.UUID
	TimedOut bool
}

// LoginPayload is the decoded long-lived login cookie.
type LoginPayload struct {
	UserID    uuid.UUID
	CookieKey string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"u"`
}

type loginClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"u"`
	CookieKey string    `json:"k"`
}

// Codec issues, reads and clears the session and login cookies.
type Codec struct {
	secret          []byte
	sessionName     string
	sessionDuration time.Duration
	loginName       string
	loginDuration   time.Duration
}

// NewCodec creates a Codec from cookie configuration.
func NewCodec(cfg config.Cookie) *Codec {
	return &Codec{
		secret:          []byte(cfg.Secret),
		sessionName:     cfg.SessionName,
		sessionDuration: cfg.SessionDuration,
		loginName:       cfg.LoginName,
		loginDuration:   cfg.LoginDuration,
	}
}

// GetSession reads the session cookie. It returns nil when the cookie
// is absent, forged or malformed. An authentic cookie past its sliding
// expiry is returned with TimedOut set.
func (c *Codec) GetSession(r *http.Request) *SessionPayload {
	value := cookieValue(r, c.sessionName)
	if value == "" {
		return nil
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(value, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		// Expiry is only checked after the signature verifies, so an
		// expired result is authentic and its user id is trustworthy
		// for messaging.
		if errors.Is(err, jwt.ErrTokenExpired) && claims.UserID != uuid.Nil {
			return &SessionPayload{UserID: claims.UserID, TimedOut: true}
		}
		return nil
	}
	if claims.UserID == uuid.Nil {
		return nil
	}

	return &SessionPayload{UserID: claims.UserID}
}

// SetSession issues or refreshes the session cookie with a fresh
// sliding expiry. The cookie itself is browser-session scoped; the
// timeout lives in the signed payload.
func (c *Codec) SetSession(w http.ResponseWriter, userID uuid.UUID) error {
	now := time.Now()
	value, err := c.sign(sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.sessionDuration)),
		},
		UserID: userID,
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.sessionName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSession removes the session cookie. Clearing an absent cookie
// is harmless.
func (c *Codec) ClearSession(w http.ResponseWriter) {
	clearCookie(w, c.sessionName)
}

// GetLogin reads the login cookie. Absent, forged, malformed and
// expired cookies all return nil.
func (c *Codec) GetLogin(r *http.Request) *LoginPayload {
	value := cookieValue(r, c.loginName)
	if value == "" {
		return nil
	}

	claims := &loginClaims{}
	_, err := jwt.ParseWithClaims(value, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil
	}
	if claims.UserID == uuid.Nil || claims.CookieKey == "" {
		return nil
	}

	return &LoginPayload{UserID: claims.UserID, CookieKey: claims.CookieKey}
}

// SetLogin issues or refreshes the persistent login cookie carrying
// the user's current cookie key.
func (c *Codec) SetLogin(w http.ResponseWriter, userID uuid.UUID, cookieKey string) error {
	now := time.Now()
	value, err := c.sign(loginClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.loginDuration)),
		},
		UserID:    userID,
		CookieKey: cookieKey,
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.loginName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.loginDuration / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearLogin removes the login cookie.
func (c *Codec) ClearLogin(w http.ResponseWriter) {
	clearCookie(w, c.loginName)
}

func (c *Codec) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) keyFunc(*jwt.Token) (interface{}, error) {
	return c.secret, nil
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
