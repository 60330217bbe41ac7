package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
		{OpCreate | OpWrite, "CREATE|WRITE"},
		{OpCreate | OpRemove | OpChmod, "CREATE|REMOVE|CHMOD"},
		{Op(0), "NONE"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestOp_Has(t *testing.T) {
	tests := []struct {
		op     Op
		check  Op
		expect bool
	}{
		{OpCreate, OpCreate, true},
		{OpCreate, OpWrite, false},
		{OpCreate | OpWrite, OpCreate, true},
		{OpCreate | OpWrite, OpWrite, true},
		{OpCreate | OpWrite, OpRemove, false},
	}

	for _, tt := range tests {
		if got := tt.op.Has(tt.check); got != tt.expect {
			t.Errorf("Op(%d).Has(%d) = %v, want %v", tt.op, tt.check, got, tt.expect)
		}
	}
}

func TestPool_String(t *testing.T) {
	tests := []struct {
		pool Pool
		want string
	}{
		{PoolScripts, "scripts"},
		{PoolManifest, "manifest"},
		{Pool(9), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.pool.String(); got != tt.want {
			t.Errorf("Pool(%d).String() = %q, want %q", int(tt.pool), got, tt.want)
		}
	}
}

func TestNew_NoPaths(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := New([]string{missing}, "")
	if err != ErrNoPaths {
		t.Errorf("New() error = %v, want ErrNoPaths", err)
	}
}

func TestNew_MissingScriptDirSkipped(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "does-not-exist")

	w, err := New([]string{missing, tmpDir}, "", WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	path := filepath.Join(tmpDir, "hello.lua")
	if err := os.WriteFile(path, []byte("-- hello"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	inv := waitInvalidation(t, w, 2*time.Second)
	if inv.Pool != PoolScripts {
		t.Errorf("inv.Pool = %v, want PoolScripts", inv.Pool)
	}
}

func TestWatcher_ScriptChange(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New([]string{tmpDir}, "", WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	path := filepath.Join(tmpDir, "deploy.lua")
	if err := os.WriteFile(path, []byte("print('hi')"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	inv := waitInvalidation(t, w, 2*time.Second)
	if inv.Pool != PoolScripts {
		t.Errorf("inv.Pool = %v, want PoolScripts", inv.Pool)
	}
	if !inv.Op.Has(OpCreate) {
		t.Errorf("inv.Op = %v, should include CREATE", inv.Op)
	}
	if inv.Path != path {
		t.Errorf("inv.Path = %q, want %q", inv.Path, path)
	}
	if inv.Timestamp.IsZero() {
		t.Error("inv.Timestamp should not be zero")
	}
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New([]string{tmpDir}, "", WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	// A burst of changes within the window must collapse to one signal.
	for _, name := range []string{"a.lua", "b.lua", "c.lua"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	inv := waitInvalidation(t, w, 2*time.Second)
	if inv.Pool != PoolScripts {
		t.Errorf("inv.Pool = %v, want PoolScripts", inv.Pool)
	}
	if !inv.Op.Has(OpCreate) {
		t.Errorf("inv.Op = %v, should include CREATE", inv.Op)
	}

	// Make sure no more invalidations come through.
	expectQuiet(t, w, 300*time.Millisecond)
}

func TestWatcher_ManifestChange(t *testing.T) {
	manifestDir := t.TempDir()
	manifest := filepath.Join(manifestDir, "manifest.json")

	w, err := New(nil, manifest, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(manifest, []byte(`{"builtins": []}`), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	inv := waitInvalidation(t, w, 2*time.Second)
	if inv.Pool != PoolManifest {
		t.Errorf("inv.Pool = %v, want PoolManifest", inv.Pool)
	}
	if inv.Path != manifest {
		t.Errorf("inv.Path = %q, want %q", inv.Path, manifest)
	}
}

func TestWatcher_IgnoresManifestSiblings(t *testing.T) {
	manifestDir := t.TempDir()
	manifest := filepath.Join(manifestDir, "manifest.json")

	w, err := New(nil, manifest, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	sibling := filepath.Join(manifestDir, "notes.txt")
	if err := os.WriteFile(sibling, []byte("unrelated"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	expectQuiet(t, w, 300*time.Millisecond)
}

func TestWatcher_HiddenFilesIgnored(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New([]string{tmpDir}, "", WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	swap := filepath.Join(tmpDir, ".deploy.lua.swp")
	if err := os.WriteFile(swap, []byte("swap"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	expectQuiet(t, w, 300*time.Millisecond)
}

func TestWatcher_NewKitDirWatched(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New([]string{tmpDir}, "", WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	// Creating a kit directory fires a signal and extends the watch.
	kitDir := filepath.Join(tmpDir, "deploy-kit")
	if err := os.Mkdir(kitDir, 0755); err != nil {
		t.Fatalf("Mkdir error = %v", err)
	}
	waitInvalidation(t, w, 2*time.Second)

	// A file inside the new directory must be seen too.
	path := filepath.Join(kitDir, "restart.lua")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	inv := waitInvalidation(t, w, 2*time.Second)
	if inv.Pool != PoolScripts {
		t.Errorf("inv.Pool = %v, want PoolScripts", inv.Pool)
	}
	if inv.Path != path {
		t.Errorf("inv.Path = %q, want %q", inv.Path, path)
	}
}

func TestWatcher_Close(t *testing.T) {
	tmpDir := t.TempDir()

	w, err := New([]string{tmpDir}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, ok := <-w.Invalidations(); ok {
		t.Error("Invalidations channel should be closed after Close")
	}
	if _, ok := <-w.Errors(); ok {
		t.Error("Errors channel should be closed after Close")
	}
}

// waitInvalidation receives one invalidation or fails the test.
func waitInvalidation(t *testing.T, w *Watcher, timeout time.Duration) Invalidation {
	t.Helper()
	select {
	case inv, ok := <-w.Invalidations():
		if !ok {
			t.Fatal("invalidation channel closed")
		}
		return inv
	case <-time.After(timeout):
		t.Fatal("timeout waiting for invalidation")
	}
	return Invalidation{}
}

// expectQuiet fails the test if an invalidation arrives within window.
func expectQuiet(t *testing.T, w *Watcher, window time.Duration) {
	t.Helper()
	select {
	case inv := <-w.Invalidations():
		t.Fatalf("received unexpected invalidation: %+v", inv)
	case <-time.After(window):
	}
}
