package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// processLoop forwards fsnotify events into the debouncer until Close.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handleEvent classifies a raw event and folds it into the pending
// invalidation for its pool, starting or extending the debounce window.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	pool, ok := w.classify(ev.Name)
	if !ok {
		return
	}
	if pool == PoolScripts && strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return // editor swap files, VCS metadata
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	if p, exists := w.pending[pool]; exists {
		p.inv.Op |= op
		p.inv.Path = ev.Name
		p.inv.Timestamp = time.Now()
		p.timer.Reset(w.delay)
	} else {
		w.pending[pool] = &pendingInvalidation{
			inv: Invalidation{
				Pool:      pool,
				Path:      ev.Name,
				Op:        op,
				Timestamp: time.Now(),
			},
			timer: time.AfterFunc(w.delay, func() { w.fire(pool) }),
		}
	}
	w.mu.Unlock()

	// New kit directories must be watched as they appear.
	if op.Has(OpCreate) && pool == PoolScripts {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.fsw.Add(ev.Name)
		}
	}
}

// classify maps an event path to the pool it belongs to. Paths outside
// the watched roots, such as siblings of the manifest file, report false.
func (w *Watcher) classify(path string) (Pool, bool) {
	if w.manifest != "" && path == w.manifest {
		return PoolManifest, true
	}
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return PoolScripts, true
		}
	}
	return 0, false
}

// fire delivers the pending invalidation for pool after its debounce
// window elapses. The send happens under the mutex so it cannot race a
// concurrent Close.
func (w *Watcher) fire(pool Pool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	p, exists := w.pending[pool]
	if !exists {
		return
	}
	delete(w.pending, pool)

	select {
	case w.out <- p.inv:
	default:
		// Consumer stalled; drop the signal but surface the fact.
		select {
		case w.errs <- fmt.Errorf("watcher: invalidation channel full, dropping %s signal", pool):
		default:
		}
	}
}

// sendError forwards a watcher error without blocking.
func (w *Watcher) sendError(err error) {
	select {
	case w.errs <- err:
	default:
		// Channel full, drop error
	}
}

// convertOp maps fsnotify operations onto the package's bitmask.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}
