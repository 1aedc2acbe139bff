// Package api exposes the assistant over HTTP: one chat endpoint carrying
// normal turns, feedback submissions, and stats snapshots, plus health and
// status routes for operators.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NovaEd-Consulting/atlas/internal/engine"
)

// DefaultSessionID is used when a caller omits sessionId. All such callers
// share one conversation context, so the server warns the first time.
const DefaultSessionID = "default"

// maxReplyDelay caps the presentation delay regardless of reply length.
const maxReplyDelay = 2 * time.Second

type Server struct {
	router         *chi.Mux
	port           int
	engine         *engine.Engine
	defaultSession string
	replyDelayUnit time.Duration
	logger         *slog.Logger
	warnDefault    sync.Once
}

// Options configures the optional server behaviour.
type Options struct {
	// APIToken guards the chat API with bearer auth when non-empty.
	APIToken string
	// DefaultSession overrides the shared fallback session id.
	DefaultSession string
	// ReplyDelayUnit is the presentation delay added per 40 characters of
	// reply text, capped at two seconds. Zero disables the delay.
	ReplyDelayUnit time.Duration
	Logger         *slog.Logger
}

func NewServer(port int, eng *engine.Engine, opts Options) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	defaultSession := opts.DefaultSession
	if defaultSession == "" {
		defaultSession = DefaultSessionID
	}

	s := &Server{
		router:         router,
		port:           port,
		engine:         eng,
		defaultSession: defaultSession,
		replyDelayUnit: opts.ReplyDelayUnit,
		logger:         logger,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/atlas/status", s.status)
	router.With(bearerAuth(opts.APIToken)).Post("/api/v1/atlas/chat", s.chat)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":             "atlas",
		"status":            "learning",
		"knowledgeEntries":  snap.KnowledgeEntries,
		"learnedFeatures":   snap.LearnedFeatures,
		"totalInteractions": snap.TotalInteractions,
		"sessions":          snap.Sessions,
	})
}

// bearerAuth guards routes with a static token. An empty token disables the
// check, matching a development setup.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
