// Package server provides the HTTP REST API for the ATS optimizer.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/ats-optimizer/internal/db"
	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/jonathan/ats-optimizer/internal/session"
	"github.com/jonathan/ats-optimizer/internal/types"
)

// PassStore is the durable persistence surface behind the handlers.
// *db.DB implements it; the field stays nil when no database is configured.
type PassStore interface {
	SavePass(ctx context.Context, id uuid.UUID, pass types.OptimizationPass, resumeText string) error
	GetPass(ctx context.Context, id uuid.UUID) (*db.PassRow, error)
	SaveAppliedState(ctx context.Context, id uuid.UUID, suggestions []*types.Suggestion, keywords []*types.Keyword) error
	SaveScoreSnapshot(ctx context.Context, id uuid.UUID, breakdown types.ScoreBreakdown) error
	ListScoreHistory(ctx context.Context, id uuid.UUID, limit int) ([]db.ScoreSnapshotRow, error)
	DeletePass(ctx context.Context, id uuid.UUID) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      session.Store
	db         PassStore
	llmClient  llm.Client
	tokens     *TokenService
	validator  *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	RedisURL    string
	APIKey      string
	JWTSecret   string
	SessionTTL  time.Duration
}

// New creates a new server instance, connecting to the backends named in
// cfg. Postgres and the LLM provider are optional; Redis falls back to the
// in-process store when no URL is configured.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	var store session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store = redisStore
	} else {
		log.Printf("No redis_url configured, sessions are held in memory")
		store = session.NewMemoryStore()
	}

	var passes PassStore
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		passes = database
	} else {
		log.Printf("No database_url configured, passes are not persisted")
	}

	var llmClient llm.Client
	if cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		llmClient = client
	} else {
		log.Printf("No API key configured, sessions must be created from a provided pass")
	}

	tokens, err := NewTokenService(cfg.JWTSecret, 24)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	s := newServer(store, passes, llmClient, tokens)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // LLM passes can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires handlers around already-constructed dependencies.
func newServer(store session.Store, passes PassStore, llmClient llm.Client, tokens *TokenService) *Server {
	return &Server{
		store:     store,
		db:        passes,
		llmClient: llmClient,
		tokens:    tokens,
		validator: validator.New(),
	}
}

// routes builds the request mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /sessions/{id}/score", s.handleGetScore)
	mux.HandleFunc("GET /sessions/{id}/history", s.handleGetHistory)
	mux.HandleFunc("POST /sessions/{id}/suggestions/{index}/toggle", s.handleToggleSuggestion)
	mux.HandleFunc("POST /sessions/{id}/keywords/{index}/toggle", s.handleToggleKeyword)
	mux.HandleFunc("POST /sessions/{id}/reset", s.handleReset)
	mux.HandleFunc("POST /sessions/{id}/apply-all", s.handleApplyAll)
	mux.HandleFunc("PUT /sessions/{id}/content", s.handleUpdateContent)

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing LLM client: %v", err)
		}
	}
	if closer, ok := s.db.(interface{ Close() }); ok {
		closer.Close()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Error closing session store: %v", err)
		}
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
