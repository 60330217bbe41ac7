package watcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Common watcher errors.
var (
	// ErrClosed is returned when operating on a closed watcher.
	ErrClosed = errors.New("watcher: closed")
	// ErrNoPaths is returned by New when none of the requested paths exist.
	ErrNoPaths = errors.New("watcher: no paths to watch")
)

// Op is a bitmask of filesystem operations observed for a pool within a
// single debounce window.
type Op uint32

// Filesystem operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Has reports whether o contains op.
func (o Op) Has(op Op) bool {
	return o&op != 0
}

// String returns the set operations joined with "|", or "NONE" for the
// zero value.
func (o Op) String() string {
	if o == 0 {
		return "NONE"
	}
	var parts []string
	if o.Has(OpCreate) {
		parts = append(parts, "CREATE")
	}
	if o.Has(OpWrite) {
		parts = append(parts, "WRITE")
	}
	if o.Has(OpRemove) {
		parts = append(parts, "REMOVE")
	}
	if o.Has(OpRename) {
		parts = append(parts, "RENAME")
	}
	if o.Has(OpChmod) {
		parts = append(parts, "CHMOD")
	}
	return strings.Join(parts, "|")
}

// Pool identifies which candidate source an invalidation affects.
type Pool int

// Candidate sources.
const (
	// PoolScripts covers the script directories, including scriptlets.
	PoolScripts Pool = iota
	// PoolManifest covers the builtin and application manifest file.
	PoolManifest
)

// String returns a human-readable pool name.
func (p Pool) String() string {
	switch p {
	case PoolScripts:
		return "scripts"
	case PoolManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// Invalidation reports that a candidate pool is stale and should be
// rebuilt. Path and Op describe the last burst for logging; consumers
// rescan the pool rather than applying them incrementally.
type Invalidation struct {
	// Pool is the stale candidate source.
	Pool Pool
	// Path is the last path observed for the pool in this window.
	Path string
	// Op is the union of operations observed in this window.
	Op Op
	// Timestamp is when the last event of the window arrived.
	Timestamp time.Time
}

// Default watcher settings.
const (
	// DefaultDebounce is the quiet period before an invalidation fires.
	DefaultDebounce = 250 * time.Millisecond
	// DefaultBufferSize is the invalidation channel capacity.
	DefaultBufferSize = 16
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window. Non-positive values keep the
// default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithBufferSize sets the invalidation channel capacity. Non-positive
// values keep the default.
func WithBufferSize(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.buffer = n
		}
	}
}

// Watcher monitors script directories and the manifest file, emitting
// debounced pool invalidations.
type Watcher struct {
	fsw      *fsnotify.Watcher
	delay    time.Duration
	buffer   int
	manifest string   // absolute manifest path, empty when not watched
	roots    []string // absolute script roots actually watched

	out  chan Invalidation
	errs chan error

	mu      sync.Mutex
	pending map[Pool]*pendingInvalidation
	closed  bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// pendingInvalidation is an invalidation waiting out its debounce window.
type pendingInvalidation struct {
	inv   Invalidation
	timer *time.Timer
}

// New creates a watcher over the given script directories and manifest
// path. Missing directories are skipped; the manifest's parent directory
// is watched so the signal survives atomic replace-by-rename saves. An
// empty manifestPath disables manifest watching. New returns ErrNoPaths
// when nothing at all could be watched.
func New(scriptDirs []string, manifestPath string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		delay:   DefaultDebounce,
		buffer:  DefaultBufferSize,
		pending: make(map[Pool]*pendingInvalidation),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.out = make(chan Invalidation, w.buffer)
	w.errs = make(chan error, w.buffer)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw

	watched := 0
	for _, dir := range scriptDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		n, err := w.addTree(abs)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		if n > 0 {
			w.roots = append(w.roots, abs)
			watched += n
		}
	}

	if manifestPath != "" {
		abs, err := filepath.Abs(manifestPath)
		if err == nil {
			parent := filepath.Dir(abs)
			if info, err := os.Stat(parent); err == nil && info.IsDir() {
				if err := fsw.Add(parent); err != nil {
					_ = fsw.Close()
					return nil, err
				}
				w.manifest = abs
				watched++
			}
		}
	}

	if watched == 0 {
		_ = fsw.Close()
		return nil, ErrNoPaths
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// addTree watches root and every directory beneath it, returning the
// number of directories added. A missing root counts as zero and is not
// an error.
func (w *Watcher) addTree(root string) (int, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return 0, nil
	}

	added := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		return added, err
	}
	return added, nil
}

// Invalidations returns the channel of debounced pool invalidations. It
// is closed by Close.
func (w *Watcher) Invalidations() <-chan Invalidation {
	return w.out
}

// Errors returns the channel of watcher errors. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and releases its resources. Pending
// invalidations are discarded. Close is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for pool, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, pool)
	}
	w.mu.Unlock()

	close(w.closeCh)
	err := w.fsw.Close()
	w.wg.Wait()

	close(w.out)
	close(w.errs)
	return err
}
