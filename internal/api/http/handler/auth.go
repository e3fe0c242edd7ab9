// Package handler exposes the authentication engine over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mtorp/overlook-framework/internal/logger"
	"github.com/mtorp/overlook-framework/internal/model"
	"github.com/mtorp/overlook-framework/internal/session"
)

// PermissionUserView guards the user lookup endpoint.
const PermissionUserView = "user.view"

// SessionService defines the session operations the handlers depend on.
type SessionService interface {
	Login(ctx context.Context, email, password string, remember bool, w http.ResponseWriter) (*model.Identity, error)
	Logout(ctx context.Context, w http.ResponseWriter) (model.Identity, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*session.UserDetails, error)
}

// Auth handles the HTTP endpoints for authentication.
type Auth struct {
	sessions       SessionService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(sessions SessionService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type identityResponse struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name,omitempty"`
	IsInitialized bool     `json:"isInitialized"`
	Anonymous     bool     `json:"anonymous"`
	TimedOutID    string   `json:"timedOutId,omitempty"`
	Permissions   []string `json:"permissions"`
}

func newIdentityResponse(identity model.Identity) identityResponse {
	resp := identityResponse{
		IsInitialized: identity.IsInitialized,
		Anonymous:     identity.IsAnonymous(),
		Permissions:   identity.Permissions.Names(),
	}
	if !identity.IsAnonymous() {
		resp.ID = identity.ID.String()
		resp.Name = identity.Name
	}
	if identity.TimedOutID != uuid.Nil {
		resp.TimedOutID = identity.TimedOutID.String()
	}
	return resp
}

// Login authenticates an email/password pair. A failure is always the
// same generic 401 regardless of cause.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	identity, err := h.sessions.Login(r.Context(), req.Email, req.Password, req.Remember, w)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"error", err.Error())
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if identity == nil {
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, newIdentityResponse(*identity))
}

// Logout tears down both credential cookies and returns the public
// identity. It succeeds whether or not the caller was logged in.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	identity, err := h.sessions.Logout(r.Context(), w)
	if err != nil {
		h.logger.Error("Auth handler: logout failed",
			"error", err.Error())
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, newIdentityResponse(identity))
}

// Me returns the identity resolved for the current request.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		// The resolve middleware always runs first; a missing identity
		// is a wiring bug.
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newIdentityResponse(identity))
}

type userResponse struct {
	identityResponse
	IsActive bool `json:"isActive"`
}

// GetUser returns another user's identity and permissions. The caller
// needs the user.view permission.
func (h *Auth) GetUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok || !caller.Can(PermissionUserView) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	userID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	details, err := h.sessions.GetUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Auth handler: user lookup failed",
			"user_id", userID,
			"error", err.Error())
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	if details == nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		identityResponse: newIdentityResponse(details.Identity),
		IsActive:         details.IsActive,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
