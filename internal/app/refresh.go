package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/keylaunch/internal/candidate"
	"github.com/dshills/keylaunch/internal/scriptlet"
	"github.com/dshills/keylaunch/internal/watcher"
)

// Refresh re-runs the candidate producers and swaps the pools. The
// producers run in parallel and fail independently: a producer error
// keeps that pool's previous contents and is reported in the returned
// error, while the other pools still update. The view cache is purged
// and any selection from before the refresh goes stale.
func (a *App) Refresh(ctx context.Context) error {
	timer := StartTimer()

	var (
		files   []scriptlet.File
		scanErr error
		man     candidate.Manifest
		manErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		files, scanErr = a.loader.Scan(gctx)
		return nil
	})
	g.Go(func() error {
		man, manErr = candidate.LoadManifest(a.cfg.Manifest.Path)
		return nil
	})
	_ = g.Wait()

	errs := NewErrorList()

	a.mu.Lock()
	if scanErr != nil {
		errs.Add(NewComponentError("scriptlet", "scan", scanErr))
	} else {
		for _, f := range files {
			if f.Err != nil {
				a.logger.WithComponent("scriptlet").Warn("metadata skipped for %s: %v", f.Path, f.Err)
			}
		}
		a.pools.Scripts, a.pools.Scriptlets = scriptlet.Candidates(files)
	}
	if manErr != nil {
		errs.Add(NewComponentError("manifest", "load", manErr))
	} else {
		a.pools.Builtins, a.pools.Apps = man.Builtins, man.Apps
	}
	a.cache.Purge()
	a.results = nil
	total := a.pools.Total()
	a.mu.Unlock()

	a.metrics.RecordRefresh(timer.Elapsed())
	a.logger.WithComponent("app").Debug("pools refreshed: %d candidates", total)
	return errs.AsError()
}

// Run watches the candidate sources and refreshes the pools on change,
// blocking until ctx ends. When nothing exists to watch the loop idles
// rather than failing: the launcher still works, it just never refreshes
// on its own.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	log := a.logger.WithComponent("watcher")

	w, err := watcher.New(a.cfg.Scripts.Dirs, a.cfg.Manifest.Path)
	if err != nil {
		if errors.Is(err, watcher.ErrNoPaths) {
			log.Warn("no sources to watch; live refresh disabled")
			<-ctx.Done()
			return nil
		}
		return NewComponentError("watcher", "start", err)
	}
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case inv, ok := <-w.Invalidations():
			if !ok {
				return nil
			}
			a.metrics.RecordInvalidation()
			log.Debug("%s changed (%s): %s", inv.Pool, inv.Op, inv.Path)
			if err := a.Refresh(ctx); err != nil {
				a.logger.WithComponent("app").Warn("refresh: %v", err)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.Warn("watch error: %v", err)
		}
	}
}
