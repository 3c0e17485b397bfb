// Package api is the HTTP face of the board: JSON endpoints over the
// services, a JWT routing guard, CORS, the public avatar bucket and a
// websocket change feed.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/MahdiIsse/project-management-sub001/internal/app"
	"github.com/MahdiIsse/project-management-sub001/internal/auth"
)

const (
	wsPath          = "/api/ws"
	shutdownTimeout = 5 * time.Second
)

// Server serves the API for every owner of one App
type Server struct {
	app            *app.App
	issuer         *auth.Issuer
	hub            *Hub
	allowedOrigins []string
	router         *mux.Router
}

// Option configures a Server
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins. The default allows none.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// NewServer builds the router. Call Run, or Start the hub and use Handler.
func NewServer(a *app.App, issuer *auth.Issuer, opts ...Option) *Server {
	s := &Server{
		app:    a,
		issuer: issuer,
		hub:    NewHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc(LoginPath, s.handleLogin).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if b := s.app.Bucket(); b != nil {
		r.PathPrefix("/avatars/").Handler(http.StripPrefix("/avatars", b.Handler())).Methods(http.MethodGet, http.MethodHead)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/workspaces", s.listWorkspaces).Methods(http.MethodGet)
	api.HandleFunc("/workspaces", s.createWorkspace).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/positions", s.updateWorkspacePositions).Methods(http.MethodPut)
	api.HandleFunc("/workspaces/{id:[0-9]+}", s.getWorkspace).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id:[0-9]+}", s.updateWorkspace).Methods(http.MethodPatch)
	api.HandleFunc("/workspaces/{id:[0-9]+}", s.deleteWorkspace).Methods(http.MethodDelete)

	api.HandleFunc("/workspaces/{id:[0-9]+}/columns", s.listColumns).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id:[0-9]+}/columns", s.createColumn).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id:[0-9]+}/columns/positions", s.updateColumnPositions).Methods(http.MethodPut)
	api.HandleFunc("/columns/{id:[0-9]+}", s.updateColumn).Methods(http.MethodPatch)
	api.HandleFunc("/columns/{id:[0-9]+}", s.deleteColumn).Methods(http.MethodDelete)

	api.HandleFunc("/workspaces/{id:[0-9]+}/tasks", s.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id:[0-9]+}/tasks", s.createTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks", s.createTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/positions", s.updateTaskPositions).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.getTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.updateTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.deleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id:[0-9]+}/assignees/{assigneeId:[0-9]+}", s.addAssignee).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id:[0-9]+}/assignees/{assigneeId:[0-9]+}", s.removeAssignee).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id:[0-9]+}/tags/{tagId:[0-9]+}", s.addTag).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id:[0-9]+}/tags/{tagId:[0-9]+}", s.removeTag).Methods(http.MethodDelete)

	api.HandleFunc("/tags", s.listTags).Methods(http.MethodGet)
	api.HandleFunc("/tags", s.createTag).Methods(http.MethodPost)
	api.HandleFunc("/tags/{id:[0-9]+}", s.getTag).Methods(http.MethodGet)
	api.HandleFunc("/tags/{id:[0-9]+}", s.updateTag).Methods(http.MethodPatch)
	api.HandleFunc("/tags/{id:[0-9]+}", s.deleteTag).Methods(http.MethodDelete)

	api.HandleFunc("/assignees", s.listAssignees).Methods(http.MethodGet)
	api.HandleFunc("/assignees", s.createAssignee).Methods(http.MethodPost)
	api.HandleFunc("/assignees/{id:[0-9]+}", s.getAssignee).Methods(http.MethodGet)
	api.HandleFunc("/assignees/{id:[0-9]+}", s.updateAssignee).Methods(http.MethodPatch)
	api.HandleFunc("/assignees/{id:[0-9]+}", s.deleteAssignee).Methods(http.MethodDelete)
	api.HandleFunc("/assignees/{id:[0-9]+}/avatar", s.uploadAvatar).Methods(http.MethodPost)

	api.HandleFunc("/rpc/cleanup-user-data", s.cleanupUserData).Methods(http.MethodPost)
	api.HandleFunc("/rpc/seed-onboarding-data", s.seedOnboardingData).Methods(http.MethodPost)

	api.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such endpoint", "code": CodeNotFound})
	})
	return r
}

// Handler returns the router behind CORS and the routing guard
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.guard(s.router))
}

// Start runs the websocket hub and feeds it the App's change events until
// ctx is done.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	pub := s.app.Events()
	if pub == nil {
		slog.Warn("no event publisher configured, websocket feed will stay silent")
		return nil
	}
	ch, err := pub.Listen(ctx)
	if err != nil {
		return fmt.Errorf("failed to listen for changes: %w", err)
	}
	go func() {
		for ev := range ch {
			s.hub.Publish(ev)
		}
	}()
	return nil
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
