package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"i4.energy/across/answerd/session"
)

// Server reports the state of the running call session over HTTP
type Server struct {
	Logger  *slog.Logger
	Session *session.Session
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	resp := ErrorResponse{Message: message}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// handleStatus returns a snapshot of the session state and counters
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.Session == nil {
		s.sendError(w, "no session", http.StatusServiceUnavailable)
		return
	}

	status := s.Session.Status()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.Logger.Error("Failed to encode status", "error", err)
	}
}
