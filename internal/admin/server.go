// HTTP status surface for the reporter.
package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"ais-reporter/internal/reporter"
)

// StatusProvider is the read path the server exposes.
type StatusProvider interface {
	Snapshot() reporter.Snapshot
}

// IndexSetter accepts runtime changes to update-interval selector values.
type IndexSetter interface {
	Set(path string, v int)
}

// Server serves the status snapshot and the interval-index mutation
// endpoint as JSON.
type Server struct {
	Status  StatusProvider
	Indexes IndexSetter
	mux     *http.ServeMux
}

// NewServer wires the routes. indexes may be nil, disabling POST
// /interval-index.
func NewServer(status StatusProvider, indexes IndexSetter) *Server {
	s := &Server{Status: status, Indexes: indexes, mux: http.NewServeMux()}
	s.mux.HandleFunc("/status", s.handleStatus)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/interval-index", s.handleIntervalIndex)
	return s
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Status.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleIntervalIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Indexes == nil {
		http.Error(w, "interval index store not configured", http.StatusNotFound)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	value, err := strconv.Atoi(r.URL.Query().Get("value"))
	if err != nil || value < 0 {
		http.Error(w, "value must be a non-negative integer", http.StatusBadRequest)
		return
	}
	s.Indexes.Set(path, value)
	w.WriteHeader(http.StatusNoContent)
}
