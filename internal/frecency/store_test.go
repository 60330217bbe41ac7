package frecency

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestDecay(t *testing.T) {
	tests := []struct {
		name     string
		days     float64
		halfLife float64
		want     float64
	}{
		{name: "no elapsed time", days: 0, halfLife: 7, want: 1.0},
		{name: "one half-life", days: 7, halfLife: 7, want: 0.5},
		{name: "two half-lives", days: 14, halfLife: 7, want: 0.25},
		{name: "custom half-life", days: 30, halfLife: 30, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decay(tt.days, tt.halfLife)
			if !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("decay(%v, %v) = %v, want %v", tt.days, tt.halfLife, got, tt.want)
			}
		})
	}
}

func TestDecaySlowerWithLongerHalfLife(t *testing.T) {
	short := decay(7, 1)
	long := decay(7, 30)
	if long <= short {
		t.Errorf("decay(7, 30) = %v should exceed decay(7, 1) = %v", long, short)
	}
}

func TestColdScoreOldItem(t *testing.T) {
	// 30 days at a 7 day half-life leaves roughly 5% of the count.
	lastUsed := time.Now().Unix() - 30*86400
	got := coldScore(100, lastUsed, DefaultHalfLifeDays)
	want := 100 * math.Exp2(-30.0/7.0)
	if !approxEqual(got, want, 0.5) {
		t.Errorf("coldScore = %v, want ~%v", got, want)
	}
	if got >= 10 {
		t.Errorf("coldScore = %v, want heavy decay below 10", got)
	}
}

func TestRecordUseFirstUse(t *testing.T) {
	store := New("")

	store.RecordUse("/path/to/script.ts")

	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
	if !store.Dirty() {
		t.Error("Dirty() = false after RecordUse")
	}
	if got := store.Score("/path/to/script.ts"); !approxEqual(got, 1.0, 0.01) {
		t.Errorf("Score() = %v, want ~1.0 on first use", got)
	}
}

func TestRecordUseMonotonic(t *testing.T) {
	store := New("")

	store.RecordUse("/path/to/script.ts")
	first := store.Score("/path/to/script.ts")

	store.RecordUse("/path/to/script.ts")
	second := store.Score("/path/to/script.ts")

	if second <= first {
		t.Errorf("second use score %v should exceed first use score %v", second, first)
	}
}

func TestScoreUnknownKey(t *testing.T) {
	store := New("")
	if got := store.Score("/unknown/script.ts"); got != 0 {
		t.Errorf("Score(unknown) = %v, want 0", got)
	}
}

func TestRecordUseRespectsConfiguredHalfLife(t *testing.T) {
	short := New("", WithHalfLife(1))
	long := New("", WithHalfLife(30))

	short.RecordUse("/test.ts")
	long.RecordUse("/test.ts")

	// Immediately after a first use both sit at ~1 regardless of half-life.
	if got := short.Score("/test.ts"); !approxEqual(got, 1.0, 0.01) {
		t.Errorf("short half-life first-use score = %v, want ~1.0", got)
	}
	if got := long.Score("/test.ts"); !approxEqual(got, 1.0, 0.01) {
		t.Errorf("long half-life first-use score = %v, want ~1.0", got)
	}
}

func TestRecordUseUsesStoreHalfLife(t *testing.T) {
	store := New("", WithHalfLife(30))

	// Seed an entry that accumulated score 5 as of seven days ago.
	sevenDaysAgo := time.Now().Unix() - 7*86400
	store.entries["/test.ts"] = &Entry{UseCount: 5, LastUsed: sevenDaysAgo, Score: 5}

	store.RecordUse("/test.ts")

	e := store.entries["/test.ts"]
	if e.UseCount != 6 {
		t.Errorf("UseCount = %d, want 6", e.UseCount)
	}

	// score' = 5 * 2^(-7/30) + 1, not the 5*0.5+1 a 7 day half-life gives.
	want := 5*math.Exp2(-7.0/30.0) + 1
	if !approxEqual(e.Score, want, 0.1) {
		t.Errorf("Score = %v, want ~%v with 30 day half-life", e.Score, want)
	}
	if e.Score <= 3.5 {
		t.Errorf("Score = %v, should exceed 3.5 (the 7 day half-life result)", e.Score)
	}
}

func TestRecent(t *testing.T) {
	store := New("")

	store.RecordUse("/a.ts")
	store.RecordUse("/b.ts")
	store.RecordUse("/b.ts")
	store.RecordUse("/c.ts")
	store.RecordUse("/c.ts")
	store.RecordUse("/c.ts")

	recent := store.Recent(2)

	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d items, want 2", len(recent))
	}
	if recent[0].Key != "/c.ts" {
		t.Errorf("recent[0] = %q, want /c.ts", recent[0].Key)
	}
	if recent[1].Key != "/b.ts" {
		t.Errorf("recent[1] = %q, want /b.ts", recent[1].Key)
	}
}

func TestRecentLimit(t *testing.T) {
	store := New("")
	for _, key := range []string{"/s0", "/s1", "/s2", "/s3", "/s4", "/s5", "/s6"} {
		store.RecordUse(key)
	}

	if got := len(store.Recent(5)); got != 5 {
		t.Errorf("Recent(5) returned %d items, want 5", got)
	}
	if got := len(store.Recent(100)); got != 7 {
		t.Errorf("Recent(100) returned %d items, want 7", got)
	}
	if got := store.Recent(0); got != nil {
		t.Errorf("Recent(0) = %v, want nil", got)
	}
}

func TestRecentTiesPreferMostRecent(t *testing.T) {
	store := New("")
	now := time.Now().Unix()
	store.entries["/old.ts"] = &Entry{UseCount: 1, LastUsed: now - 1000, Score: 2}
	store.entries["/new.ts"] = &Entry{UseCount: 1, LastUsed: now, Score: 2}

	recent := store.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d items, want 2", len(recent))
	}
	if recent[0].Key != "/new.ts" {
		t.Errorf("recent[0] = %q, want /new.ts (most recent wins the tie)", recent[0].Key)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")

	store := New(path)
	store.RecordUse("/script1.ts")
	store.RecordUse("/script1.ts")
	store.RecordUse("/script2.ts")
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if store.Dirty() {
		t.Error("Dirty() = true after Save")
	}

	loaded := New(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Len() != 2 {
		t.Errorf("Len() = %d, want 2", loaded.Len())
	}
	if loaded.Dirty() {
		t.Error("Dirty() = true after Load")
	}
	s1, s2 := loaded.Score("/script1.ts"), loaded.Score("/script2.ts")
	if s1 <= s2 {
		t.Errorf("script1 score %v should exceed script2 score %v", s1, s2)
	}
	if s2 <= 0 {
		t.Errorf("script2 score = %v, want > 0", s2)
	}
}

func TestSaveOmitsScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")

	store := New(path)
	store.RecordUse("/script.ts")
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"entries"`) {
		t.Error("saved file missing entries object")
	}
	if !strings.Contains(content, `"count"`) || !strings.Contains(content, `"last_used"`) {
		t.Error("saved file missing count/last_used fields")
	}
	if strings.Contains(content, `"score"`) {
		t.Error("saved file must not contain score")
	}
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "usage.json")

	store := New(path)
	store.RecordUse("/script.ts")
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file not found: %v", err)
	}
}

func TestSaveNotDirtyIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")

	store := New(path)
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("clean Save() should not write a file, stat err = %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := New("/nonexistent/path/usage.json")
	if err := store.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v, want nil", err)
	}
	if !store.IsEmpty() {
		t.Error("store should be empty after loading a missing file")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	if err := os.WriteFile(path, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	err := store.Load()
	if err == nil {
		t.Fatal("Load() error = nil, want format error")
	}
	if !IsFormatError(err) {
		t.Errorf("IsFormatError(%v) = false, want true", err)
	}
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Errorf("error %v should unwrap to *StoreError", err)
	}
}

func TestLoadIOErrorIsNotFormatError(t *testing.T) {
	// Reading a directory fails with an I/O error, not a format error.
	store := New(t.TempDir())
	err := store.Load()
	if err == nil {
		t.Fatal("Load() on a directory should fail")
	}
	if IsFormatError(err) {
		t.Errorf("IsFormatError(%v) = true, want false for I/O failure", err)
	}
}

func TestLoadRecalculatesScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	stale := `{"entries": {"/script.ts": {"count": 10, "last_used": 0, "score": 100.0}}}`
	if err := os.WriteFile(path, []byte(stale), 0644); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Timestamp 0 is decades old; the stale 100.0 must be discarded.
	if got := store.Score("/script.ts"); got >= 1.0 {
		t.Errorf("Score = %v, want heavily decayed value below 1.0", got)
	}
}

func TestLoadLegacyEntryWithoutScore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	now := time.Now().Unix()
	legacy := `{"entries": {"/script.ts": {"count": 5, "last_used": ` + strconv.FormatInt(now, 10) + `}}}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := store.Score("/script.ts"); !approxEqual(got, 5.0, 0.01) {
		t.Errorf("Score = %v, want ~5.0 recomputed from count", got)
	}
}

func TestRemove(t *testing.T) {
	store := New("")
	store.RecordUse("/script.ts")
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}

	if !store.Remove("/script.ts") {
		t.Error("Remove() = false for present key")
	}
	if !store.IsEmpty() {
		t.Error("store should be empty after Remove")
	}
	if !store.Dirty() {
		t.Error("Dirty() = false after Remove")
	}
}

func TestRemoveNonexistent(t *testing.T) {
	store := New("")
	if store.Remove("/nonexistent.ts") {
		t.Error("Remove() = true for absent key")
	}
	if store.Dirty() {
		t.Error("Dirty() = true after removing an absent key")
	}
}

func TestClear(t *testing.T) {
	store := New("")
	store.RecordUse("/a.ts")
	store.RecordUse("/b.ts")
	store.dirty = false

	store.Clear()

	if !store.IsEmpty() {
		t.Error("store should be empty after Clear")
	}
	if !store.Dirty() {
		t.Error("Dirty() = false after Clear")
	}
}

func TestExcludedKeysAreNotRecorded(t *testing.T) {
	store := New("", WithExcluded("builtin-quit-script-kit"))

	store.RecordUse("builtin-quit-script-kit")
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for excluded key", store.Len())
	}
	if store.Dirty() {
		t.Error("Dirty() = true after recording an excluded key")
	}

	store.RecordUse("/allowed.ts")
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after recording an allowed key", store.Len())
	}
}
