// Package server exposes the analytics view models over a local
// HTTP API with server-sent refresh events.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/namsa/insights/internal/analytics"
	"github.com/namsa/insights/internal/bus"
	"github.com/namsa/insights/internal/config"
	"github.com/namsa/insights/internal/ingest"
	"github.com/namsa/insights/internal/store"
)

// VersionInfo holds build-time version metadata.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// ImportFunc re-imports the data directory. Injected so the
// server does not depend on where exports live.
type ImportFunc func() (ingest.ImportStats, error)

// Server is the HTTP server for the analytics API.
type Server struct {
	cfg      config.Config
	store    *store.Store
	bus      bus.Bus
	mux      *http.ServeMux
	version  VersionInfo
	doImport ImportFunc

	mu          sync.RWMutex
	httpSrv     *http.Server
	current     analytics.GlobalDashboard
	refreshedAt time.Time

	// handlerDelay is injected before each timeout-wrapped
	// handler, used only by tests to guarantee handlers
	// exceed a short timeout. Zero in production.
	handlerDelay time.Duration
}

// New creates a new Server.
func New(
	cfg config.Config, st *store.Store, b bus.Bus, opts ...Option,
) *Server {
	s := &Server{
		cfg:   cfg,
		store: st,
		bus:   b,
		mux:   http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the build-time version metadata.
func WithVersion(v VersionInfo) Option {
	return func(s *Server) { s.version = v }
}

// WithImportFunc wires the import trigger endpoint. Nil leaves
// the endpoint returning an empty result.
func WithImportFunc(f ImportFunc) Option {
	return func(s *Server) { s.doImport = f }
}

func (s *Server) routes() {
	s.mux.Handle("GET /api/v1/analytics/dashboard", s.withTimeout(s.handleDashboard))
	s.mux.Handle("GET /api/v1/analytics/top-tracks", s.withTimeout(s.handleTopTracks))
	s.mux.Handle("GET /api/v1/analytics/top-artists", s.withTimeout(s.handleTopArtists))
	s.mux.Handle("GET /api/v1/analytics/top-companies", s.withTimeout(s.handleTopCompanies))
	s.mux.Handle("GET /api/v1/analytics/trend", s.withTimeout(s.handleTrend))
	s.mux.Handle(
		"GET /api/v1/artists/{owner}/dashboard",
		s.withTimeout(s.handleArtistDashboard),
	)
	s.mux.Handle("GET /api/v1/stats", s.withTimeout(s.handleStats))
	s.mux.Handle("GET /api/v1/version", s.withTimeout(s.handleVersion))
	s.mux.Handle("POST /api/v1/import", s.withTimeout(s.handleImport))
	// SSE: no timeout, this is a long-lived connection.
	s.mux.HandleFunc("GET /api/v1/events", s.handleEvents)
}

// Refresh reloads the snapshot and rebuilds the cached global
// view model. A failed fetch degrades to an empty snapshot so
// the view model is always well formed.
func (s *Server) Refresh(ctx context.Context) error {
	sheets, err := s.store.LogSheets(ctx)
	if err != nil {
		log.Printf("refresh: loading snapshot: %v", err)
		sheets = []store.LogSheet{}
	}
	dash := analytics.BuildGlobalDashboard(sheets)

	s.mu.Lock()
	s.current = dash
	s.refreshedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// dashboard returns the cached view model and when it was built.
func (s *Server) dashboard() (analytics.GlobalDashboard, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.refreshedAt
}

func (s *Server) handleVersion(
	w http.ResponseWriter, _ *http.Request,
) {
	writeJSON(w, http.StatusOK, s.version)
}

// Handler returns the http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(logMiddleware(s.mux))
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()
	log.Printf("Starting server at http://%s", addr)
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpSrv
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// FindAvailablePort finds an available port starting from the
// given port, binding to the specified host.
func FindAvailablePort(host string, start int) int {
	for port := start; port < start+100; port++ {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			ln.Close()
			return port
		}
	}
	return start
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set(
				"Access-Control-Allow-Methods",
				"GET, POST, OPTIONS",
			)
			w.Header().Set(
				"Access-Control-Allow-Headers", "Content-Type",
			)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Printf("%s %s", r.Method, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}
