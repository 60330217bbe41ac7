package app

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/keylaunch/internal/candidate"
	"github.com/dshills/keylaunch/internal/config"
	"github.com/dshills/keylaunch/internal/frecency"
	"github.com/dshills/keylaunch/internal/grouping"
	"github.com/dshills/keylaunch/internal/scriptlet"
)

// queryCacheSize bounds the per-query view cache. A launcher sees short
// queries typed and erased character by character, so a small cache covers
// almost every backspace.
const queryCacheSize = 128

// App is the central coordinator. It owns the candidate pools, the usage
// store, and the assembler behind one mutex; the UI calls Query and
// Execute, the invalidation loop calls Refresh.
type App struct {
	mu sync.Mutex

	cfg       config.Config
	store     *frecency.Store
	assembler *grouping.Assembler
	loader    *scriptlet.Loader
	pools     candidate.Pools

	// results backs the row indices of the most recent Query; Execute
	// resolves against it.
	results []candidate.Candidate

	cache   *lru.Cache[string, view]
	logger  *Logger
	metrics *Metrics

	running atomic.Bool
	closed  bool
}

// view is one cached assembly: rows plus the results slice their indices
// reference.
type view struct {
	rows    []grouping.Row
	results []candidate.Candidate
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// UsagePath overrides the usage store location.
	UsagePath string

	// ScriptDirs overrides the scanned script directories.
	ScriptDirs []string

	// ManifestPath overrides the builtin/app manifest location.
	ManifestPath string

	// Logger is the application logger. Defaults to GetLogger().
	Logger *Logger

	// Metrics is the counter sink. Defaults to GetMetrics().
	Metrics *Metrics
}

// New creates an App from the given options. Configuration problems fall
// back to defaults and a corrupt usage file starts an empty history; both
// are logged, neither is fatal. The candidate pools start empty; call
// Refresh to populate them.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = GetLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = GetMetrics()
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		logger.WithComponent("config").Warn("using defaults: %v", err)
	}
	if opts.UsagePath != "" {
		cfg.Usage.Path = config.ExpandPath(opts.UsagePath)
	}
	if len(opts.ScriptDirs) > 0 {
		dirs := make([]string, len(opts.ScriptDirs))
		for i, dir := range opts.ScriptDirs {
			dirs[i] = config.ExpandPath(dir)
		}
		cfg.Scripts.Dirs = dirs
	}
	if opts.ManifestPath != "" {
		cfg.Manifest.Path = config.ExpandPath(opts.ManifestPath)
	}

	store := frecency.New(cfg.Usage.Path, cfg.StoreOptions()...)
	if err := store.Load(); err != nil {
		logger.WithComponent("usage").Warn("starting with empty history: %v", err)
	}

	cache, err := lru.New[string, view](queryCacheSize)
	if err != nil {
		return nil, NewComponentError("cache", "init", err)
	}

	return &App{
		cfg:       cfg,
		store:     store,
		assembler: grouping.New(cfg.GroupingConfig()),
		loader:    scriptlet.NewLoader(cfg.Scripts.Dirs),
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Config returns the effective configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Store returns the usage store. Callers must not use it concurrently
// with Query, Execute, or Refresh.
func (a *App) Store() *frecency.Store {
	return a.store
}

// Pools returns a copy of the current candidate pool slices.
func (a *App) Pools() candidate.Pools {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pools
}

// IsRunning reports whether the invalidation loop is active.
func (a *App) IsRunning() bool {
	return a.running.Load()
}

// Close persists any unsaved usage history. Idempotent.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	if err := a.store.Save(); err != nil {
		return NewComponentError("usage", "save", err)
	}
	return nil
}
