// internal/words/words.go
//
// Rhyme set registry for the Schmordle server.
//
// Responsibilities:
//   - Load the flat five-letter word list (env-provided file or embedded default).
//   - Build immutable rhyme sets by word ending from a fixed configuration.
//   - Supply lookups: ByID, RandomSet, RandomTarget, InSet, IsDictionaryWord.
//
// A rhyme set groups every listed word sharing an ending; one member may be
// chosen as a session's solution. Sets with fewer than MinSetSize words are
// skipped. The full word list doubles as the local dictionary consulted
// before the external oracle.
//
// Environment variables:
//   WORDS_FILE=/path/to/wordlist.txt   (optional; one word per line)
//
// Initialization is run once (sync.Once); the registry is immutable after Init.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/schmordle/go-server/assets"
)

// MinSetSize is the smallest membership a rhyme set may have.
const MinSetSize = 4

// RhymeSet is a named collection of uppercase five-letter words sharing an
// ending. Immutable once loaded; SolutionWord is only set on per-session
// copies returned by RandomSet.
type RhymeSet struct {
	ID           string            `json:"id"`
	Label        string            `json:"label"`
	Theme        string            `json:"theme"`
	Words        []string          `json:"words"`
	WordHints    map[string]string `json:"wordThemes,omitempty"`
	SolutionWord string            `json:"solutionWord,omitempty"`
}

// setConfig drives which endings become rhyme sets.
type setConfig struct {
	ending string
	label  string
	theme  string
}

var setConfigs = []setConfig{
	{"AKE", "The -AKE Crew", "Warm starts and quick sparks"},
	{"IGHT", "The -IGHT Flight", "Shadows and glimmers"},
	{"OUND", "The -OUND Soundscape", "Ripples and resonances"},
	{"EAST", "The -EAST Feast", "Maps and meetups"},
	{"ATCH", "The -ATCH Match", "Snaps and surprises"},
}

// Hand-picked hints for individual solution words; sets fall back to Theme.
var wordHints = map[string]string{
	"QUAKE": "The ground does it",
	"EIGHT": "One more than seven",
	"HOUND": "It follows a scent",
	"YEAST": "Makes the dough rise",
	"WATCH": "Keeps time on a wrist",
}

var (
	initOnce   sync.Once
	sets       []RhymeSet
	setsByID   map[string]*RhymeSet
	dictionary map[string]struct{}
	initialErr error
)

// Init loads the word list and builds the rhyme sets exactly once.
// Returns an error if no set reaches MinSetSize.
func Init() error {
	initOnce.Do(func() {
		var list []string
		var err error

		if path := os.Getenv("WORDS_FILE"); path != "" {
			list, err = readWordFile(path)
		} else {
			list, err = assets.WordList()
		}
		if err != nil {
			initialErr = err
			return
		}

		dictionary = make(map[string]struct{}, len(list))
		for _, w := range list {
			if len(w) == 5 && isUpperAlpha(w) {
				dictionary[w] = struct{}{}
			}
		}

		setsByID = make(map[string]*RhymeSet, len(setConfigs))
		for _, cfg := range setConfigs {
			var members []string
			for w := range dictionary {
				if strings.HasSuffix(w, cfg.ending) {
					members = append(members, w)
				}
			}
			if len(members) < MinSetSize {
				continue
			}
			// Stable order so daily selection by index is deterministic.
			sort.Strings(members)
			hints := make(map[string]string)
			for _, w := range members {
				if h, ok := wordHints[w]; ok {
					hints[w] = h
				}
			}
			set := RhymeSet{
				ID:        "set_" + strings.ToLower(cfg.ending),
				Label:     cfg.label,
				Theme:     cfg.theme,
				Words:     members,
				WordHints: hints,
			}
			sets = append(sets, set)
			setsByID[set.ID] = &sets[len(sets)-1]
		}

		if len(sets) == 0 {
			initialErr = errors.New("words: no rhyme set reached minimum size")
		}
	})
	return initialErr
}

// readWordFile loads one word per line, uppercased, skipping blanks and comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToUpper(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out = append(out, w)
	}
	return out, sc.Err()
}

func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// ByID returns the rhyme set with the given id, or false if unknown.
func ByID(id string) (RhymeSet, bool) {
	s, ok := setsByID[id]
	if !ok {
		return RhymeSet{}, false
	}
	return *s, true
}

// Sets returns all loaded rhyme sets.
func Sets() []RhymeSet {
	return sets
}

// RandomSet returns a copy of a random rhyme set with a random member
// chosen as its SolutionWord.
func RandomSet() RhymeSet {
	set := sets[randIndex(len(sets))]
	set.SolutionWord = set.Words[randIndex(len(set.Words))]
	return set
}

// RandomTarget picks a random member of the set with the given id.
func RandomTarget(id string) (string, bool) {
	s, ok := setsByID[id]
	if !ok || len(s.Words) == 0 {
		return "", false
	}
	return s.Words[randIndex(len(s.Words))], true
}

// InSet reports whether word (case-insensitive) is a member of the set.
func InSet(id, word string) bool {
	s, ok := setsByID[id]
	if !ok {
		return false
	}
	word = strings.ToUpper(strings.TrimSpace(word))
	for _, w := range s.Words {
		if w == word {
			return true
		}
	}
	return false
}

// IsDictionaryWord reports whether word is in the local word list.
func IsDictionaryWord(word string) bool {
	_, ok := dictionary[strings.ToUpper(strings.TrimSpace(word))]
	return ok
}

// Stats returns counts of loaded data: (sets, dictionary words).
func Stats() (setCount int, wordCount int) {
	return len(sets), len(dictionary)
}

// randIndex returns a cryptographically random index below n (0 if n <= 0).
func randIndex(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}
