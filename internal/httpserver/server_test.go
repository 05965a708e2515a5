package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schmordle/go-server/internal/hub"
	"github.com/schmordle/go-server/internal/rooms"
	"github.com/schmordle/go-server/internal/store"
	"github.com/schmordle/go-server/internal/words"
)

func TestMain(m *testing.M) {
	if err := words.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestServer wires a Server over in-memory stores, no database. Auth and
// daily endpoints need the DB and are covered in auth_test.go; everything
// here runs as a guest under the anonymous cookie.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	roomStore := rooms.NewMemoryStore()
	srv := New(Deps{
		Sessions:  store.NewMemoryStore(),
		RoomStore: roomStore,
		Rooms:     rooms.NewLifecycle(roomStore, nil),
		Hub:       hub.New(),
		Oracle: func(ctx context.Context, word string) bool {
			return words.IsDictionaryWord(word)
		},
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// guestClient returns a client with its own cookie jar, i.e. one anonymous
// identity.
func guestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := c.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func getJSON(t *testing.T, c *http.Client, url string, out any) *http.Response {
	t.Helper()
	res, err := c.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]string
	res := getJSON(t, http.DefaultClient, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestGetRhymeSet(t *testing.T) {
	ts := newTestServer(t)

	var set words.RhymeSet
	res := getJSON(t, http.DefaultClient, ts.URL+"/rhymeSet/set_ound", &set)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "set_ound", set.ID)
	assert.Contains(t, set.Words, "SOUND")
	assert.Empty(t, set.SolutionWord, "lookup must never leak a solution")

	res, err := http.Get(ts.URL + "/rhymeSet/set_nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestValidateGuess(t *testing.T) {
	ts := newTestServer(t)
	url := ts.URL + "/guess"

	res := postJSON(t, http.DefaultClient, url, map[string]string{"guess": "cat"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = postJSON(t, http.DefaultClient, url,
		map[string]string{"guess": "sound", "rhymeSetId": "set_nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var out validateRes
	res = postJSON(t, http.DefaultClient, url,
		map[string]string{"guess": "sound", "rhymeSetId": "set_ound"}, &out)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, out.Valid)

	res = postJSON(t, http.DefaultClient, url,
		map[string]string{"guess": "crane", "rhymeSetId": "set_ound"}, &out)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, out.Valid)
	assert.Equal(t, "Not in word list.", out.Message)
}

func TestSoloSessionFlow(t *testing.T) {
	ts := newTestServer(t)
	c := guestClient(t)

	var created newSessionRes
	res := postJSON(t, c, ts.URL+"/session/new",
		map[string]string{"mode": "solo", "rhymeSetId": "set_east"}, &created)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, created.SessionID)
	assert.Equal(t, "set_east", created.RhymeSetID)
	assert.NotEmpty(t, created.Hint)
	assert.Equal(t, 6, created.MaxGuesses)

	var guessed sessionGuessRes
	res = postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": created.SessionID, "guess": "feast"}, &guessed)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, guessed.Result.Feedback, 5)
	assert.Contains(t, []string{"active", "won"}, guessed.State)

	res = postJSON(t, c, ts.URL+"/session/guess",
		map[string]string{"sessionId": "missing", "guess": "feast"}, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestRoomFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	host := guestClient(t)
	guest := guestClient(t)

	var created roomRes
	res := postJSON(t, host, ts.URL+"/rooms", map[string]string{"userName": "Hosty"}, &created)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, created.Room)
	code := created.Room.RoomID
	assert.Equal(t, rooms.StatusLobby, created.Room.Status)
	assert.Equal(t, created.Room.DurationSeconds, created.RemainingSeconds)

	var joined roomRes
	res = postJSON(t, guest, ts.URL+"/rooms/"+code+"/join", map[string]string{"userName": "Guest"}, &joined)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, joined.Room.Players, 2)

	// Only the host may start.
	res = postJSON(t, guest, ts.URL+"/rooms/"+code+"/start", map[string]int{"durationSeconds": 60}, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	var started roomRes
	res = postJSON(t, host, ts.URL+"/rooms/"+code+"/start", map[string]int{"durationSeconds": 60}, &started)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, rooms.StatusPlaying, started.Room.Status)
	assert.Equal(t, 60, started.RemainingSeconds)

	set, ok := words.ByID(started.Room.RhymeSetID)
	require.True(t, ok)
	word := set.Words[0]

	var submitted roomRes
	res = postJSON(t, host, ts.URL+"/rooms/"+code+"/submit",
		map[string]string{"word": word, "userName": "Hosty"}, &submitted)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, submitted.Room.Submissions, 1)
	assert.Equal(t, word, submitted.Room.Submissions[0].Word)

	// Duplicates are rejected room-wide, even from another player.
	res = postJSON(t, guest, ts.URL+"/rooms/"+code+"/submit",
		map[string]string{"word": word, "userName": "Guest"}, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// Off-rhyme words are malformed input, not conflicts.
	res = postJSON(t, guest, ts.URL+"/rooms/"+code+"/submit",
		map[string]string{"word": "wrong", "userName": "Guest"}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, err := http.Get(ts.URL + "/rooms/ZZZZZZ")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
