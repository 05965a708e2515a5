// internal/httpserver/routes_session.go
//
// Solo and daily guess-session endpoints. A session lives in the in-memory
// session store, owned by the client that created it; the target word never
// leaves the server while the session is active.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/schmordle/go-server/internal/daily"
	"github.com/schmordle/go-server/internal/game"
	"github.com/schmordle/go-server/internal/store"
	"github.com/schmordle/go-server/internal/words"
)

type newSessionReq struct {
	Mode       string `json:"mode"`                 // "solo" | "daily"
	RhymeSetID string `json:"rhymeSetId,omitempty"` // optional fixed set (solo only)
}
type newSessionRes struct {
	SessionID  string `json:"sessionId"`
	RhymeSetID string `json:"rhymeSetId"`
	Label      string `json:"label"`
	Hint       string `json:"hint"`
	MaxGuesses int    `json:"maxGuesses"`
}

// handleNewSession starts a solo or daily session.
//
// Solo picks a random set (or the requested one) with a random target.
// Daily resolves the date's config — created on first access — and derives
// the target deterministically so every player races the same word.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	var set words.RhymeSet
	var target string

	switch req.Mode {
	case "daily":
		now := time.Now()
		salt := getEnv("DAILY_SALT", "local_dev_salt")
		cfg, err := s.daily.GetOrCreate(r.Context(), daily.DateKey(now), func() string {
			sets := words.Sets()
			return sets[daily.SetIndex(now, salt, len(sets))].ID
		})
		if err != nil {
			log.Error().Err(err).Msg("daily config")
			http.Error(w, `{"error":"daily_config_failed"}`, http.StatusInternalServerError)
			return
		}
		var ok bool
		set, ok = words.ByID(cfg.RhymeSetID)
		if !ok {
			http.Error(w, `{"error":"Rhyme set not found"}`, http.StatusNotFound)
			return
		}
		target = set.Words[daily.SetIndex(now, salt+"|word", len(set.Words))]

	default: // solo
		if req.RhymeSetID != "" {
			var ok bool
			set, ok = words.ByID(req.RhymeSetID)
			if !ok {
				http.Error(w, `{"error":"Rhyme set not found"}`, http.StatusNotFound)
				return
			}
			target, _ = words.RandomTarget(set.ID)
		} else {
			set = words.RandomSet()
			target = set.SolutionWord
		}
	}

	sess := game.NewSession(set.ID, target, set.Words)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	hint := set.Theme
	if h, ok := set.WordHints[target]; ok {
		hint = h
	}
	_ = json.NewEncoder(w).Encode(newSessionRes{
		SessionID:  sess.ID,
		RhymeSetID: set.ID,
		Label:      set.Label,
		Hint:       hint,
		MaxGuesses: game.MaxGuesses,
	})
}

type sessionGuessReq struct {
	SessionID string `json:"sessionId"`
	Guess     string `json:"guess"`
}
type sessionGuessRes struct {
	Result game.GuessResult `json:"result"`
	State  string           `json:"state"` // "active" | "won" | "lost"
}

// handleSessionGuess applies a guess to a session, persists progress, and on
// a finished session records stats/daily completion best-effort.
func (s *Server) handleSessionGuess(w http.ResponseWriter, r *http.Request) {
	var req sessionGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, err := s.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"load_failed"}`, http.StatusInternalServerError)
		return
	}

	res, state, err := sess.Submit(r.Context(), req.Guess, s.oracle)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Stats are account-level; completion recording for the daily mode is
	// the client's explicit POST /daily/complete call.
	if sess.Finished {
		if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
			if err := s.bumpStats(r.Context(), me.ID, sess.Won); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = json.NewEncoder(w).Encode(sessionGuessRes{Result: res, State: state})
}
