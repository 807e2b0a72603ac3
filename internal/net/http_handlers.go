package net

import (
	"encoding/json"
	"errors"
	"net/http"

	server "emberwood/server"
	"emberwood/server/internal/auth"
	"emberwood/server/internal/telemetry"
)

// MuxConfig wires the HTTP surface.
type MuxConfig struct {
	Accounts  *auth.AccountManager
	Tokens    *auth.TokenIssuer
	Hub       *server.Hub
	Socket    http.Handler
	ClientDir string
	Logger    telemetry.Logger
}

// NewMux assembles the full route table: health, diagnostics, account
// endpoints, the websocket upgrade, and optionally the static client.
func NewMux(cfg MuxConfig) *http.ServeMux {
	h := &handlers{
		accounts: cfg.Accounts,
		tokens:   cfg.Tokens,
		hub:      cfg.Hub,
		logger:   cfg.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.HandleFunc("/diagnostics", h.handleDiagnostics)
	mux.HandleFunc("/signup", h.handleSignup)
	mux.HandleFunc("/login", h.handleLogin)
	if cfg.Socket != nil {
		mux.Handle("/ws", cfg.Socket)
	}
	if cfg.ClientDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.ClientDir)))
	}
	return mux
}

type handlers struct {
	accounts *auth.AccountManager
	tokens   *auth.TokenIssuer
	hub      *server.Hub
	logger   telemetry.Logger
}

func (h *handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *handlers) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.hub.Diagnostics())
}

func (h *handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	err := h.accounts.Register(username, password)
	switch {
	case err == nil:
		// The player entity exists from signup on, not just from the
		// first socket; the join goes through the queue like any mutation.
		normalized := auth.NormalizeUsername(username)
		h.hub.EnqueueJoin(normalized, normalized)
		writeJSON(w, http.StatusCreated, map[string]string{
			"username": normalized,
		})
	case errors.Is(err, auth.ErrUserExists):
		http.Error(w, "username already registered", http.StatusConflict)
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrWeakPassword):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		if h.logger != nil {
			h.logger.Printf("[http] signup failed: %v", err)
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	resolved, err := h.accounts.Authenticate(username, password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	token, err := h.tokens.Issue(resolved)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("[http] token issue failed for %s: %v", resolved, err)
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
