package middleware

import (
	"context"
	"net/http"

	"github.com/mtorp/overlook-framework/internal/logger"
	"github.com/mtorp/overlook-framework/internal/model"
)

// SessionManager resolves the caller's identity from request cookies.
type SessionManager interface {
	ProcessCookies(ctx context.Context, r *http.Request, w http.ResponseWriter) (model.Identity, error)
}

// Resolve runs cookie validation on every request and injects the
// resolved identity into the request context. Anonymous visitors pass
// through with the public identity; only store unavailability stops
// the request.
type Resolve struct {
	sessions       SessionManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewResolve creates a new Resolve middleware instance.
func NewResolve(sessions SessionManager, contextManager model.ContextManager, logger *logger.Logger) *Resolve {
	return &Resolve{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle wraps next with identity resolution.
func (m *Resolve) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.sessions.ProcessCookies(r.Context(), r, w)
		if err != nil {
			m.logger.Error("Resolve middleware: identity resolution failed",
				"path", r.URL.Path,
				"error", err.Error())
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}

		ctx := m.contextManager.SetIdentityToContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
