// Package app wires the launcher together and owns its concurrency model.
//
// # Responsibilities
//
// The App holds the candidate pools, the usage store, and the view
// assembler behind a single mutex; every package below it is free of
// locking because all access funnels through here. Query builds the
// grouped or search view, Execute records a launch, Refresh re-runs the
// candidate producers, and Run consumes filesystem invalidations until
// the context ends.
//
// # Caching
//
// Assembled views are cached per query string in a small LRU. Any usage
// recording or pool refresh purges the cache, so a hit can never serve
// rows built from stale pools or stale scores.
//
// # Logging and metrics
//
// The package carries the application's leveled logger and counters.
// Producers and collaborators receive component-tagged child loggers;
// library packages (match, frecency, candidate, grouping) never log.
package app
