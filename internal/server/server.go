// Package server provides the HTTP server for the swing analysis system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/greggjuri/golf-swing-analyzer/internal/server/api"
	"github.com/greggjuri/golf-swing-analyzer/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store    *store.Store
	Analyzer api.Analyzer
}

// Server represents the HTTP server for the swing analysis application.
type Server struct {
	config   Config
	mux      *http.ServeMux
	progress *ProgressHandler
	start    time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config:   config,
		mux:      http.NewServeMux(),
		progress: NewProgressHandler(),
		start:    time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/progress", s.progress)

	if s.config.Store != nil {
		swingHandler := api.NewSwingHandler(s.config.Store, s.config.Analyzer, s.progress.Broadcast)
		s.mux.Handle("/api/swings", swingHandler)
		s.mux.Handle("/api/swings/", swingHandler)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Progress returns the progress broadcast handler.
func (s *Server) Progress() *ProgressHandler {
	return s.progress
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
