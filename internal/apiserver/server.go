// Package apiserver exposes the match engine over HTTP: POST /v1/match,
// GET /v1/health, GET /v1/version. Grounded on the teacher's
// internal/server/server.go (ServeMux + http.Server wiring,
// json.NewDecoder/http.Error handler shape, WaitGroup-tracked Serve
// goroutine, context-timeout graceful Shutdown), adapted from a
// Unix-socket RPC server to a plain TCP HTTP server: this service has no
// CLI-attaches-to-local-daemon model, so every teacher concept tied to
// that (socket path derivation, the RPC Client) is dropped rather than
// adapted (see DESIGN.md).
package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/standardbeagle/matchd/internal/accounts"
	"github.com/standardbeagle/matchd/internal/apperr"
	"github.com/standardbeagle/matchd/internal/matcher"
	"github.com/standardbeagle/matchd/internal/obs"
	"github.com/standardbeagle/matchd/internal/version"
)

// Server wraps a Matcher behind an HTTP API.
type Server struct {
	matcher  *matcher.Matcher
	accounts *accounts.Accounts

	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration

	httpServer *http.Server
	listener   net.Listener
	wg         sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// Options configures a Server's network behavior.
type Options struct {
	Addr               string
	ReadTimeoutSec     int
	WriteTimeoutSec    int
	ShutdownTimeoutSec int
}

// New builds a Server bound to m, not yet listening.
func New(m *matcher.Matcher, opts Options) *Server {
	return &Server{
		matcher:         m,
		addr:            opts.Addr,
		readTimeout:     time.Duration(opts.ReadTimeoutSec) * time.Second,
		writeTimeout:    time.Duration(opts.WriteTimeoutSec) * time.Second,
		shutdownTimeout: time.Duration(opts.ShutdownTimeoutSec) * time.Second,
	}
}

// WithAccounts attaches an Accounts instance, enabling /v1/register,
// /v1/login, and a bearer-token-guarded /v1/usage. Without it the server
// only ever exposes the unauthenticated matching, health, and version
// endpoints.
func (s *Server) WithAccounts(a *accounts.Accounts) *Server {
	s.accounts = a
	return s
}

// Start binds the listener and begins serving in a background goroutine.
// It returns once the listener is ready; Serve errors after that point are
// logged, not returned.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("apiserver: already running")
	}
	s.running = true
	s.mu.Unlock()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("apiserver: listen: %w", err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	s.registerHandlers(mux)

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.LogServer("serve error: %v", err)
		}
	}()

	obs.LogServer("listening on %s", s.listener.Addr())
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("apiserver: shutdown: %w", err)
		}
	}
	s.wg.Wait()
	obs.LogServer("shut down cleanly")
	return nil
}

func (s *Server) registerHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/v1/match", s.handleMatch)
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.HandleFunc("/v1/version", s.handleVersion)
	s.registerAuthRoutes(mux)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("malformed request body: %v", err), http.StatusBadRequest)
		return
	}

	results, err := s.matcher.Match(r.Context(), req.toIdentity())
	if err != nil {
		s.writeMatchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toWireResults(results))
}

// writeMatchError maps the error taxonomy (spec.md §7) to a status code:
// an empty generation bucket is a 404, distinct from the 200-with-empty-
// array case (which never reaches this function, since Match returns a
// nil error alongside a nil slice for that case); invalid input is a 400,
// an unreachable store a 503, and anything else a 500.
func (s *Server) writeMatchError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindEmptyBucket:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode([]matchResultWire{})
	case apperr.KindInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case apperr.KindStoreUnavailable:
		obs.LogServer("match error: %v", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
	default:
		obs.LogServer("match error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version": version.Version,
		"info":    version.FullInfo(),
	})
}
