// internal/dictionary/dictionary.go
//
// External dictionary oracle with a local fast path.
// Checks a word against an injected local lookup first, then falls back to
// a dictionaryapi.dev-style HTTP endpoint (GET {base}/{word}, 200 = word
// exists). Results are cached in memory. Lookups are bounded by the client
// timeout and never retried; any failure degrades to "not a word".

package dictionary

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	lookupTimeout  = 5 * time.Second
)

// Client answers "is this a real word?" queries.
type Client struct {
	baseURL string
	local   func(string) bool
	http    *http.Client

	mu    sync.RWMutex
	cache map[string]bool
}

// New constructs a Client. baseURL may be empty to use the public default;
// local may be nil if no local word list is available.
func New(baseURL string, local func(string) bool) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		local:   local,
		http:    &http.Client{Timeout: lookupTimeout},
		cache:   make(map[string]bool),
	}
}

// IsWord reports whether word is a known word. Network failure, a non-200
// response, or context cancellation all report false.
func (c *Client) IsWord(ctx context.Context, word string) bool {
	key := strings.ToUpper(strings.TrimSpace(word))
	if key == "" {
		return false
	}

	c.mu.RLock()
	cached, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	if c.local != nil && c.local(key) {
		c.store(key, true)
		return true
	}

	ok = c.remoteLookup(ctx, key)
	c.store(key, ok)
	return ok
}

func (c *Client) remoteLookup(ctx context.Context, word string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+url.PathEscape(strings.ToLower(word)), nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("dictionary lookup failed")
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) store(key string, ok bool) {
	c.mu.Lock()
	c.cache[key] = ok
	c.mu.Unlock()
}
