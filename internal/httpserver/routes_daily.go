// internal/httpserver/routes_daily.go
//
// Daily challenge + solitaire endpoints.
//   - GET  /daily[?date=YYYY-MM-DD] → the date's config (created on first read)
//   - POST /daily/complete          → record the caller finished today's daily
//   - POST /solitaire               → persist one finished solo game

package httpserver

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/schmordle/go-server/internal/daily"
	"github.com/schmordle/go-server/internal/words"
)

var dateKeyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type dailyRes struct {
	Date       string `json:"date"`
	RhymeSetID string `json:"rhymeSetId"`
	Completed  bool   `json:"isComplete"`
}

// handleGetDaily returns (creating if needed) the daily config for the
// requested date, defaulting to today, plus whether the caller already
// finished it.
func (s *Server) handleGetDaily(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	date := daily.DateKey(now)
	day := now
	if q := r.URL.Query().Get("date"); q != "" {
		// The regex only checks shape; time.Parse rejects impossible
		// calendar dates like 2026-13-40.
		parsed, err := time.Parse("2006-01-02", q)
		if !dateKeyRe.MatchString(q) || err != nil {
			http.Error(w, `{"error":"date must be YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		date, day = q, parsed
	}

	salt := getEnv("DAILY_SALT", "local_dev_salt")
	cfg, err := s.daily.GetOrCreate(r.Context(), date, func() string {
		sets := words.Sets()
		return sets[daily.SetIndex(day, salt, len(sets))].ID
	})
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily config")
		http.Error(w, `{"error":"daily_config_failed"}`, http.StatusInternalServerError)
		return
	}

	done, err := s.daily.Completed(r.Context(), s.identity(w, r), date)
	if err != nil {
		log.Warn().Err(err).Msg("daily completion lookup")
	}
	_ = json.NewEncoder(w).Encode(dailyRes{Date: cfg.Date, RhymeSetID: cfg.RhymeSetID, Completed: done})
}

// handleDailyComplete marks today's daily as finished for the caller.
func (s *Server) handleDailyComplete(w http.ResponseWriter, r *http.Request) {
	uid := s.identity(w, r)
	if err := s.daily.MarkCompleted(r.Context(), uid, daily.DateKey(time.Now())); err != nil {
		log.Error().Err(err).Str("user", uid).Msg("mark daily completion")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

type solitaireReq struct {
	Guesses int  `json:"guesses"`
	Won     bool `json:"won"`
}

// handleSolitaireResult appends one finished solo game for the caller.
func (s *Server) handleSolitaireResult(w http.ResponseWriter, r *http.Request) {
	var req solitaireReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	uid := s.identity(w, r)
	if err := s.daily.SaveSolitaireResult(r.Context(), uid, req.Guesses, req.Won); err != nil {
		log.Error().Err(err).Str("user", uid).Msg("save solitaire result")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
