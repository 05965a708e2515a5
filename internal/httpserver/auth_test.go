package httpserver

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmordle/go-server/internal/daily"
	"github.com/schmordle/go-server/internal/hub"
	"github.com/schmordle/go-server/internal/rooms"
	"github.com/schmordle/go-server/internal/store"
	"github.com/schmordle/go-server/internal/words"
)

// testUsersSchema mirrors the production users table (see db.go at the
// module root; the schema lives in package main and is re-declared here).
const testUsersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id               TEXT PRIMARY KEY,
    username         TEXT NOT NULL UNIQUE,
    password_hash    TEXT NOT NULL,
    created_at       TEXT NOT NULL,
    games_played     INTEGER NOT NULL DEFAULT 0,
    games_won        INTEGER NOT NULL DEFAULT 0,
    current_streak   INTEGER NOT NULL DEFAULT 0,
    max_streak       INTEGER NOT NULL DEFAULT 0,
    last_played_date TEXT
);`

// newDBTestServer wires a full Server over an in-memory sqlite database,
// so the auth, stats, and daily endpoints are live.
func newDBTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Each :memory: connection is its own database; pin the pool to one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(testUsersSchema)
	require.NoError(t, err)

	roomStore, err := rooms.NewSQLiteStore(db)
	require.NoError(t, err)
	dailyStore, err := daily.NewStore(db)
	require.NoError(t, err)

	srv := New(Deps{
		DB:        db,
		Sessions:  store.NewMemoryStore(),
		RoomStore: roomStore,
		Rooms:     rooms.NewLifecycle(roomStore, nil),
		Hub:       hub.New(),
		Daily:     dailyStore,
		Oracle: func(ctx context.Context, word string) bool {
			return words.IsDictionaryWord(word)
		},
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, db
}

// signup registers a fresh account on the given client's cookie jar.
func signup(t *testing.T, c *http.Client, baseURL, username, password string) map[string]any {
	t.Helper()
	var body map[string]any
	res := postJSON(t, c, baseURL+"/auth/signup",
		map[string]string{"username": username, "password": password}, &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	return body
}

func TestSignupLoginFlow(t *testing.T) {
	ts, _ := newDBTestServer(t)
	c := guestClient(t)

	created := signup(t, c, ts.URL, "player_one", "hunter2hunter2")
	assert.Equal(t, "player_one", created["username"])
	assert.NotEmpty(t, created["id"])

	// The signup response set the auth cookie; /auth/me works immediately.
	var me authUser
	res := getJSON(t, c, ts.URL+"/auth/me", &me)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "player_one", me.Username)
	assert.Equal(t, created["id"], me.ID)

	// Usernames are unique, case-insensitively.
	res = postJSON(t, guestClient(t), ts.URL+"/auth/signup",
		map[string]string{"username": "Player_One", "password": "hunter2hunter2"}, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Validation rejections are 400s.
	res = postJSON(t, guestClient(t), ts.URL+"/auth/signup",
		map[string]string{"username": "ab", "password": "hunter2hunter2"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res = postJSON(t, guestClient(t), ts.URL+"/auth/signup",
		map[string]string{"username": "player_two", "password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	// Logout clears the cookie; the gated route rejects again.
	res = postJSON(t, c, ts.URL+"/auth/logout", map[string]string{}, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res = getJSON(t, c, ts.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	// Login restores access.
	var logged map[string]any
	res = postJSON(t, c, ts.URL+"/auth/login",
		map[string]string{"username": "player_one", "password": "hunter2hunter2"}, &logged)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res = getJSON(t, c, ts.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts, _ := newDBTestServer(t)
	signup(t, guestClient(t), ts.URL, "player_one", "hunter2hunter2")

	res := postJSON(t, guestClient(t), ts.URL+"/auth/login",
		map[string]string{"username": "player_one", "password": "wrongwrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = postJSON(t, guestClient(t), ts.URL+"/auth/login",
		map[string]string{"username": "nobody", "password": "hunter2hunter2"}, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRequireAuthGatesStats(t *testing.T) {
	ts, _ := newDBTestServer(t)

	res := getJSON(t, http.DefaultClient, ts.URL+"/stats/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/stats/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	r2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, r2.StatusCode)
}

func TestStatsTrackFinishedSessions(t *testing.T) {
	ts, _ := newDBTestServer(t)
	c := guestClient(t)
	signup(t, c, ts.URL, "player_one", "hunter2hunter2")

	var stats map[string]any
	res := getJSON(t, c, ts.URL+"/stats/me", &stats)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 0, stats["gamesPlayed"])

	// Lose a session on purpose: CRANE is a dictionary word but never a
	// member of set_east, so six guesses exhaust the session.
	var created newSessionRes
	res = postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "solo", "rhymeSetId": "set_east"}, &created)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var last sessionGuessRes
	for i := 0; i < 6; i++ {
		res = postJSON(t, c, ts.URL+"/session/guess",
			map[string]string{"sessionId": created.SessionID, "guess": "crane"}, &last)
		require.Equal(t, http.StatusOK, res.StatusCode)
	}
	require.Equal(t, "lost", last.State)

	res = getJSON(t, c, ts.URL+"/stats/me", &stats)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 0, stats["gamesWon"])
	assert.EqualValues(t, 0, stats["currentStreak"])
	assert.NotEmpty(t, stats["lastPlayedDate"])
}

func TestDailyEndpoints(t *testing.T) {
	ts, db := newDBTestServer(t)
	c := guestClient(t)

	var today dailyRes
	res := getJSON(t, c, ts.URL+"/daily", &today)
	require.Equal(t, http.StatusOK, res.StatusCode)
	_, ok := words.ByID(today.RhymeSetID)
	assert.True(t, ok)
	assert.False(t, today.Completed)

	// The config for a date is pinned on first read.
	var again dailyRes
	res = getJSON(t, c, ts.URL+"/daily?date="+today.Date, &again)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, today.RhymeSetID, again.RhymeSetID)

	// Shape-valid but impossible calendar dates are rejected, and nothing
	// is persisted under them.
	for _, bad := range []string{"2026-13-40", "2026-02-30", "30-08-2026", "abc"} {
		res = getJSON(t, c, ts.URL+"/daily?date="+bad, nil)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, "date %q", bad)
	}
	var rows int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(1) FROM daily_configs WHERE date IN ('2026-13-40','2026-02-30','30-08-2026','abc')`).Scan(&rows))
	assert.Zero(t, rows)

	// Completion is per caller identity.
	res = postJSON(t, c, ts.URL+"/daily/complete", map[string]string{}, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res = getJSON(t, c, ts.URL+"/daily", &today)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, today.Completed)

	var other dailyRes
	res = getJSON(t, guestClient(t), ts.URL+"/daily", &other)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, other.Completed)
}

func TestSolitaireResultPersists(t *testing.T) {
	ts, db := newDBTestServer(t)

	res := postJSON(t, guestClient(t), ts.URL+"/solitaire",
		map[string]any{"guesses": 4, "won": true}, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM solitaire_results`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
