// Package session orchestrates login, logout and the per-request
// cookie validation protocol. It holds no mutable state: every request
// is resolved independently from its own cookies.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mtorp/overlook-framework/internal/cookie"
	"github.com/mtorp/overlook-framework/internal/credential"
	"github.com/mtorp/overlook-framework/internal/logger"
	"github.com/mtorp/overlook-framework/internal/model"
)

// CookieCodec reads, issues and clears the two credential cookies.
type CookieCodec interface {
	GetSession(r *http.Request) *cookie.SessionPayload
	SetSession(w http.ResponseWriter, userID uuid.UUID) error
	ClearSession(w http.ResponseWriter)
	GetLogin(r *http.Request) *cookie.LoginPayload
	SetLogin(w http.ResponseWriter, userID uuid.UUID, cookieKey string) error
	ClearLogin(w http.ResponseWriter)
}

// PermissionResolver computes the capability set for a user id.
type PermissionResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, isInitialized bool) (model.PermissionSet, error)
}

// Manager is the authentication state machine. Credential failures of
// any local kind degrade to the anonymous public identity; only store
// unavailability propagates, since then no identity can be assumed.
type Manager struct {
	userStore model.UserStore
	resolver  PermissionResolver
	codec     CookieCodec
	logger    *logger.Logger
}

// NewManager creates a new session Manager.
func NewManager(userStore model.UserStore, resolver PermissionResolver, codec CookieCodec, logger *logger.Logger) *Manager {
	return &Manager{
		userStore: userStore,
		resolver:  resolver,
		codec:     codec,
		logger:    logger,
	}
}

// UserDetails is the result of a direct user lookup, including the
// active flag the cookie paths never expose.
type UserDetails struct {
	model.Identity
	IsActive bool
}

// ProcessCookies resolves the caller's identity from the request
// cookies and refreshes them. The session cookie takes precedence; the
// login cookie is only consulted when no live session is present, and
// its embedded key must match the user's current cookie key.
func (m *Manager) ProcessCookies(ctx context.Context, r *http.Request, w http.ResponseWriter) (model.Identity, error) {
	identity := model.Identity{}

	var candidateID uuid.UUID
	if sessionCookie := m.codec.GetSession(r); sessionCookie != nil {
		if sessionCookie.TimedOut {
			identity.TimedOutID = sessionCookie.UserID
			m.logger.Debug("Session manager: session cookie timed out",
				"user_id", sessionCookie.UserID)
		} else {
			candidateID = sessionCookie.UserID
			m.logger.Debug("Session manager: session cookie present",
				"user_id", candidateID)
		}
	}

	var loginCookie *cookie.LoginPayload
	if candidateID == uuid.Nil {
		loginCookie = m.codec.GetLogin(r)
		if loginCookie == nil {
			return m.resolveAnonymous(ctx, identity)
		}
		candidateID = loginCookie.UserID
		m.logger.Debug("Session manager: login cookie present",
			"user_id", candidateID)
	}

	user, err := m.userStore.GetActiveByID(ctx, candidateID)
	if errors.Is(err, model.ErrNotFound) {
		if loginCookie != nil {
			m.codec.ClearLogin(w)
		} else {
			m.codec.ClearSession(w)
		}
		m.logger.Debug("Session manager: cookie user not found",
			"user_id", candidateID)
		return m.resolveAnonymous(ctx, identity)
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if loginCookie != nil && loginCookie.CookieKey != user.CookieKey {
		// The key was rotated after this cookie was issued. The cookie
		// is revoked regardless of the account still being active.
		m.codec.ClearLogin(w)
		m.logger.Debug("Session manager: login cookie key is stale",
			"user_id", candidateID)
		return m.resolveAnonymous(ctx, identity)
	}

	// A successful resolution replaces whatever was captured so far,
	// including the timed-out hint.
	timedOutID := identity.TimedOutID
	identity = model.Identity{
		ID:            candidateID,
		Name:          user.Name,
		IsInitialized: user.IsInitialized,
	}

	if err := m.codec.SetSession(w, candidateID); err != nil {
		m.logger.Error("Session manager: failed to refresh session cookie",
			"user_id", candidateID,
			"error", err.Error())
		return m.resolveAnonymous(ctx, model.Identity{TimedOutID: timedOutID})
	}
	if loginCookie != nil {
		if err := m.codec.SetLogin(w, candidateID, loginCookie.CookieKey); err != nil {
			m.logger.Error("Session manager: failed to refresh login cookie",
				"user_id", candidateID,
				"error", err.Error())
		}
	}

	permissions, err := m.resolver.Resolve(ctx, identity.ID, identity.IsInitialized)
	if err != nil {
		return model.Identity{}, err
	}
	identity.Permissions = permissions

	m.logger.Info("Session manager: user authenticated",
		"user_id", identity.ID,
		"name", identity.Name)

	return identity, nil
}

// Login verifies the email and password and, on success, issues the
// session cookie and optionally the persistent login cookie. Unknown
// email and wrong password fail identically with a nil identity and no
// error. The returned identity never carries the user's cookie key.
func (m *Manager) Login(ctx context.Context, email, password string, remember bool, w http.ResponseWriter) (*model.Identity, error) {
	user, err := m.userStore.GetActiveByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		m.logger.Debug("Session manager: login failed")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !credential.VerifyPassword(password, user.PasswordHash) {
		m.logger.Debug("Session manager: login failed")
		return nil, nil
	}

	identity := model.Identity{
		ID:   user.ID,
		Name: user.Name,
	}

	// The identity built here is deliberately minimal: permissions are
	// the public set until the next request validates the cookie and
	// sees the stored initialized flag.
	permissions, err := m.resolver.Resolve(ctx, identity.ID, identity.IsInitialized)
	if err != nil {
		return nil, err
	}
	identity.Permissions = permissions

	if err := m.codec.SetSession(w, user.ID); err != nil {
		return nil, fmt.Errorf("failed to set session cookie: %w", err)
	}
	if remember {
		if err := m.codec.SetLogin(w, user.ID, user.CookieKey); err != nil {
			return nil, fmt.Errorf("failed to set login cookie: %w", err)
		}
	}

	m.logger.Info("Session manager: user logged in",
		"user_id", identity.ID,
		"remember", remember)

	return &identity, nil
}

// Logout clears both cookies unconditionally and returns a fresh
// anonymous identity carrying the public permission set. It is
// idempotent: logging out an already-anonymous caller yields the same
// result.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter) (model.Identity, error) {
	m.codec.ClearSession(w)
	m.codec.ClearLogin(w)

	identity, err := m.resolveAnonymous(ctx, model.Identity{})
	if err != nil {
		return model.Identity{}, err
	}

	m.logger.Info("Session manager: user logged out")

	return identity, nil
}

// GetUser looks up a user by id and returns its identity, active flag
// and permissions. It returns nil when the user does not exist. Unlike
// the cookie paths the lookup is not constrained to active accounts,
// so callers can inspect deactivated ones.
func (m *Manager) GetUser(ctx context.Context, userID uuid.UUID) (*UserDetails, error) {
	user, err := m.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	details := &UserDetails{
		Identity: model.Identity{
			ID:            user.ID,
			Name:          user.Name,
			IsInitialized: user.IsInitialized,
		},
		IsActive: user.IsActive,
	}

	permissions, err := m.resolver.Resolve(ctx, user.ID, user.IsInitialized)
	if err != nil {
		return nil, err
	}
	details.Permissions = permissions

	return details, nil
}

func (m *Manager) resolveAnonymous(ctx context.Context, identity model.Identity) (model.Identity, error) {
	permissions, err := m.resolver.Resolve(ctx, uuid.Nil, false)
	if err != nil {
		return model.Identity{}, err
	}

	identity.ID = uuid.Nil
	identity.Name = ""
	identity.IsInitialized = false
	identity.Permissions = permissions

	return identity, nil
}
