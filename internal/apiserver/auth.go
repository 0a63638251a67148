package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/standardbeagle/matchd/internal/accounts"
)

// authRequest is the register/login request body: email + password.
type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// registerAuthRoutes adds /v1/register, /v1/login, and /v1/usage when the
// server was built with an Accounts instance. A deployment that never
// passes one keeps /v1/match unauthenticated, matching spec.md's framing
// of accounts as auxiliary to matching.
func (s *Server) registerAuthRoutes(mux *http.ServeMux) {
	if s.accounts == nil {
		return
	}
	mux.HandleFunc("/v1/register", s.handleRegister)
	mux.HandleFunc("/v1/login", s.handleLogin)
	mux.HandleFunc("/v1/usage", s.requireAuth(s.handleUsage))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if err := s.accounts.Register(r.Context(), req.Email, req.Password); err != nil {
		if err == accounts.ErrEmailTaken {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if userID, err := s.accounts.UserIDByEmail(r.Context(), req.Email); err == nil {
		s.accounts.RecordAPIUsage(r.Context(), userID, "/v1/login")
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenResponse{Token: token})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	subject := r.Context().Value(subjectKey{}).(string)
	userID, err := s.accounts.UserIDByEmail(r.Context(), subject)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	usage, err := s.accounts.ListAPIUsage(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usage)
}

type subjectKey struct{}

// requireAuth validates a "Bearer <token>" Authorization header and
// stashes the JWT subject on the request context before calling next.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		subject, err := s.accounts.VerifyToken(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey{}, subject)
		next(w, r.WithContext(ctx))
	}
}
