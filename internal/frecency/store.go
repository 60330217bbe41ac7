package frecency

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tidwall/pretty"
)

// DefaultHalfLifeDays is the decay half-life applied when none is configured.
const DefaultHalfLifeDays = 7.0

// secondsPerDay converts entry timestamps (Unix seconds) to fractional days.
const secondsPerDay = 86400.0

// Entry tracks how often and how recently a single key has been used.
// Only UseCount and LastUsed persist; Score is derived and recomputed from
// them on every load. A legacy "score" field in stored data is ignored.
type Entry struct {
	// UseCount is the total number of recorded uses.
	UseCount uint64 `json:"count"`

	// LastUsed is the Unix timestamp (seconds) of the most recent use.
	LastUsed int64 `json:"last_used"`

	// Score is the current decayed frecency value.
	Score float64 `json:"-"`
}

// RecentItem pairs a key with its current score, as returned by Recent.
type RecentItem struct {
	Key   string
	Score float64
}

// Store accumulates decayed use counts keyed by a stable identifier (script
// path, builtin slug, app bundle id). It is not safe for concurrent use;
// callers own serialization.
type Store struct {
	path     string
	halfLife float64
	entries  map[string]*Entry
	excluded map[string]struct{}
	dirty    bool
}

// Option configures a Store.
type Option func(*Store)

// WithHalfLife sets the decay half-life in days. Values <= 0 are ignored.
func WithHalfLife(days float64) Option {
	return func(s *Store) {
		if days > 0 {
			s.halfLife = days
		}
	}
}

// WithExcluded marks keys that RecordUse silently skips.
func WithExcluded(keys ...string) Option {
	return func(s *Store) {
		for _, k := range keys {
			s.excluded[k] = struct{}{}
		}
	}
}

// New creates a store backed by the file at path. The file is not read
// until Load is called.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		halfLife: DefaultHalfLifeDays,
		entries:  make(map[string]*Entry),
		excluded: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// decay returns the exponential decay factor after the given number of
// days: 2^(-days/halfLife).
func decay(days, halfLife float64) float64 {
	return math.Exp2(-days / halfLife)
}

// coldScore computes an entry's score as if every use happened at lastUsed:
// count * decay(daysSince(lastUsed)). Applied to every entry that comes
// from storage, where Score is never trusted.
func coldScore(count uint64, lastUsed int64, halfLife float64) float64 {
	days := float64(time.Now().Unix()-lastUsed) / secondsPerDay
	if days < 0 {
		days = 0
	}
	return float64(count) * decay(days, halfLife)
}

// RecordUse registers a use of key at the current time. New keys start at
// count 1 with a score of 1; existing entries decay their accumulated score
// by the time elapsed since the previous use, then add 1:
//
//	score' = score * 2^(-elapsedDays/halfLife) + 1
//
// Excluded keys are ignored.
func (s *Store) RecordUse(key string) {
	if _, skip := s.excluded[key]; skip {
		return
	}

	now := time.Now().Unix()
	e, ok := s.entries[key]
	if !ok {
		s.entries[key] = &Entry{UseCount: 1, LastUsed: now, Score: 1}
		s.dirty = true
		return
	}

	elapsed := float64(now-e.LastUsed) / secondsPerDay
	if elapsed < 0 {
		elapsed = 0
	}
	e.UseCount++
	e.Score = e.Score*decay(elapsed, s.halfLife) + 1
	e.LastUsed = now
	s.dirty = true
}

// Score returns the current score for key, or 0 for unknown keys.
func (s *Store) Score(key string) float64 {
	if e, ok := s.entries[key]; ok {
		return e.Score
	}
	return 0
}

// Recent returns the top n entries by score descending, ties broken by
// most recent use, then by key for deterministic ordering. n <= 0 returns
// nil.
func (s *Store) Recent(n int) []RecentItem {
	if n <= 0 || len(s.entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s.entries[keys[i]], s.entries[keys[j]]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.LastUsed != b.LastUsed {
			return a.LastUsed > b.LastUsed
		}
		return keys[i] < keys[j]
	})

	if n > len(keys) {
		n = len(keys)
	}
	items := make([]RecentItem, n)
	for i, key := range keys[:n] {
		items[i] = RecentItem{Key: key, Score: s.entries[key].Score}
	}
	return items
}

// Remove deletes key from the store, reporting whether it was present.
func (s *Store) Remove(key string) bool {
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	s.dirty = true
	return true
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.entries = make(map[string]*Entry)
	s.dirty = true
}

// Dirty reports whether the store has unsaved changes.
func (s *Store) Dirty() bool { return s.dirty }

// Len returns the number of tracked keys.
func (s *Store) Len() int { return len(s.entries) }

// IsEmpty reports whether the store has no entries.
func (s *Store) IsEmpty() bool { return len(s.entries) == 0 }

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// storeFile is the persisted layout: a single object holding the entries
// map.
type storeFile struct {
	Entries map[string]*Entry `json:"entries"`
}

// Load reads the backing file and recomputes every entry's score from its
// persisted count and timestamp. A missing file (or no configured path)
// yields an empty store and no error; unparseable content yields an error
// matching IsFormatError.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.entries = make(map[string]*Entry)
		s.dirty = false
		return nil
	}
	if err != nil {
		return &StoreError{Op: "load", Path: s.path, Err: err}
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return &StoreError{Op: "load", Path: s.path, Err: fmt.Errorf("%w: %v", ErrInvalidFormat, err)}
	}
	if file.Entries == nil {
		file.Entries = make(map[string]*Entry)
	}

	for key, e := range file.Entries {
		if e == nil {
			delete(file.Entries, key)
			continue
		}
		e.Score = coldScore(e.UseCount, e.LastUsed, s.halfLife)
	}

	s.entries = file.Entries
	s.dirty = false
	return nil
}

// Save writes all entries to the backing file, creating parent directories
// as needed. A clean store is a no-op. Scores are never written.
func (s *Store) Save() error {
	if !s.dirty {
		return nil
	}
	if s.path == "" {
		return &StoreError{Op: "save", Path: "", Err: ErrNoPath}
	}

	data, err := json.Marshal(storeFile{Entries: s.entries})
	if err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, pretty.Pretty(data), 0644); err != nil {
		return &StoreError{Op: "save", Path: s.path, Err: err}
	}

	s.dirty = false
	return nil
}
