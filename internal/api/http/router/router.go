// Package router wires the HTTP handlers and middleware.
package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mtorp/overlook-framework/internal/api/http/handler"
	"github.com/mtorp/overlook-framework/internal/api/http/middleware"
	"github.com/mtorp/overlook-framework/internal/logger"
	"github.com/mtorp/overlook-framework/internal/model"
)

// SessionManager combines the cookie-processing and session-service
// surfaces the router's handlers and middleware need.
type SessionManager interface {
	middleware.SessionManager
	handler.SessionService
}

// Router builds the HTTP routing table.
type Router struct {
	sessions       SessionManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a Router.
func New(sessions SessionManager, contextManager model.ContextManager, logger *logger.Logger) *Router {
	return &Router{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the mux with all routes and middleware attached.
func (r *Router) Register() http.Handler {
	authHandler := handler.NewAuth(r.sessions, r.contextManager, r.logger)
	resolve := middleware.NewResolve(r.sessions, r.contextManager, r.logger)
	logging := middleware.NewLogging(r.logger)

	m := mux.NewRouter()
	m.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	m.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	m.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	m.HandleFunc("/users/{id}", authHandler.GetUser).Methods(http.MethodGet)

	m.Use(logging.Handle)
	m.Use(resolve.Handle)

	return m
}
