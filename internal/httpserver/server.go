// internal/httpserver/server.go
//
// HTTP server wiring for the Schmordle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", GET /rhymeSet/{id}, POST /guess.
//   - Solo/daily session endpoints (optional auth): /session/new, /session/guess.
//   - Multiplayer room endpoints (optional auth): /rooms/*.
//   - Daily challenge + solitaire endpoints (optional auth / require auth).
//   - Realtime relay endpoint: GET /ws.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; routes still run for guests under an anonymous cookie id.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/schmordle/go-server/internal/daily"
	"github.com/schmordle/go-server/internal/game"
	"github.com/schmordle/go-server/internal/hub"
	"github.com/schmordle/go-server/internal/rooms"
	"github.com/schmordle/go-server/internal/store"
	"github.com/schmordle/go-server/internal/words"
)

// Deps bundles everything the server composes over.
type Deps struct {
	DB        *sql.DB
	Sessions  store.Store
	RoomStore rooms.Store
	Rooms     *rooms.Lifecycle
	Hub       *hub.Hub
	Daily     *daily.Store
	Oracle    game.Oracle
}

// Server bundles the router with the stores and engines behind it.
type Server struct {
	r         *chi.Mux
	db        *sql.DB
	sessions  store.Store
	roomStore rooms.Store
	rooms     *rooms.Lifecycle
	hub       *hub.Hub
	daily     *daily.Store
	oracle    game.Oracle
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		db:        d.DB,
		sessions:  d.Sessions,
		roomStore: d.RoomStore,
		rooms:     d.Rooms,
		hub:       d.Hub,
		daily:     d.Daily,
		oracle:    d.Oracle,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(15 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"schmordle-go","endpoints":["/health","GET /rhymeSet/{id}","POST /guess","/rooms","/daily","/ws","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","message":"Schmordle backend is running"}`))
	})

	// Rhyme sets + stateless guess validation (public)
	s.r.Get("/rhymeSet/{id}", s.handleGetRhymeSet)
	s.r.Post("/guess", s.handleValidateGuess)

	// Solo/daily guess sessions — OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Post("/session/new", s.handleNewSession)
	s.r.With(s.withOptionalAuth()).Post("/session/guess", s.handleSessionGuess)

	// Multiplayer rooms — OPTIONAL AUTH (anon cookie identity for guests)
	s.r.With(s.withOptionalAuth()).Route("/rooms", func(r chi.Router) {
		r.Post("/", s.handleCreateRoom)
		r.Get("/{id}", s.handleGetRoom)
		r.Post("/{id}/join", s.handleJoinRoom)
		r.Post("/{id}/start", s.handleStartRoom)
		r.Post("/{id}/submit", s.handleSubmitWord)
	})

	// Daily challenge + solitaire
	s.r.With(s.withOptionalAuth()).Get("/daily", s.handleGetDaily)
	s.r.With(s.withOptionalAuth()).Post("/daily/complete", s.handleDailyComplete)
	s.r.With(s.withOptionalAuth()).Post("/solitaire", s.handleSolitaireResult)

	// Realtime relay
	s.r.Get("/ws", s.handleWebsocket)

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// Debug: rhyme set / dictionary counts
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		sets, dict := words.Stats()
		_ = json.NewEncoder(w).Encode(map[string]int{"sets": sets, "words": dict})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------------------------- rhyme sets & guesses --------------------------

// handleGetRhymeSet returns the rhyme set for {id}, or a 404.
func (s *Server) handleGetRhymeSet(w http.ResponseWriter, r *http.Request) {
	set, ok := words.ByID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, `{"error":"Rhyme set not found"}`, http.StatusNotFound)
		return
	}
	// Never leak a chosen solution through the lookup endpoint.
	set.SolutionWord = ""
	_ = json.NewEncoder(w).Encode(set)
}

// validateReq/Res payloads for POST /guess.
type validateReq struct {
	Guess      string `json:"guess"`
	RhymeSetID string `json:"rhymeSetId"`
}
type validateRes struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// handleValidateGuess is the stateless validity check used by clients while
// typing: 400 on malformed input, otherwise {valid, message}.
func (s *Server) handleValidateGuess(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"valid":false,"message":"Invalid JSON payload"}`, http.StatusBadRequest)
		return
	}
	guess := game.Normalize(req.Guess)
	if len(guess) != game.WordLength {
		http.Error(w, `{"valid":false,"message":"Guess must be exactly 5 letters."}`, http.StatusBadRequest)
		return
	}
	if req.RhymeSetID == "" {
		_ = json.NewEncoder(w).Encode(validateRes{Valid: true})
		return
	}
	if _, ok := words.ByID(req.RhymeSetID); !ok {
		http.Error(w, `{"valid":false,"message":"Unknown rhymeSetId."}`, http.StatusBadRequest)
		return
	}
	if words.InSet(req.RhymeSetID, guess) {
		_ = json.NewEncoder(w).Encode(validateRes{Valid: true})
		return
	}
	_ = json.NewEncoder(w).Encode(validateRes{Valid: false, Message: "Not in word list."})
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
