// Package server wires handlers, middleware and the HTTP server lifecycle.
package server

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/server/middleware"
	"github.com/iudanet/gophtodo/internal/server/service"
)

// healthPath не логируется, его часто опрашивают
const healthPath = "/health"

// Deps зависимости HTTP API
type Deps struct {
	Logger  *slog.Logger
	Auth    *service.AuthService
	Todos   *service.TodoService
	Tags    *service.TagService
	DB      handlers.Pinger
	Version string
	Cookies handlers.CookieConfig
}

// NewRouter builds the API handler.
// Middleware order, outermost first: recovery, access log, identify.
func NewRouter(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Logger, d.Auth, d.Cookies)
	todoHandler := handlers.NewTodoHandler(d.Logger, d.Todos)
	tagHandler := handlers.NewTagHandler(d.Logger, d.Tags)
	healthHandler := handlers.NewHealthHandler(d.Logger, d.DB, d.Version)

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/me", authHandler.Me)

	// Todo
	mux.HandleFunc("GET /todo", todoHandler.List)
	mux.HandleFunc("PUT /todo", todoHandler.Create)
	mux.HandleFunc("PATCH /todo", todoHandler.Update)
	mux.HandleFunc("DELETE /todo", todoHandler.Delete)
	mux.HandleFunc("PATCH /todo/status", todoHandler.UpdateStatus)
	mux.HandleFunc("POST /todo/all", todoHandler.DeleteAll)

	// Tags
	mux.HandleFunc("GET /tags", tagHandler.List)
	mux.HandleFunc("POST /tags", tagHandler.Create)
	mux.HandleFunc("DELETE /tags/{id}", tagHandler.Delete)
	mux.HandleFunc("POST /tags/unused", tagHandler.DeleteUnused)

	mux.HandleFunc("GET "+healthPath, healthHandler.Health)

	var h http.Handler = mux
	h = middleware.Identify(d.Logger, d.Auth, d.Cookies)(h)
	h = middleware.AccessLog(d.Logger, healthPath)(h)
	h = middleware.RecoveryMiddleware(d.Logger)(h)

	return h
}
