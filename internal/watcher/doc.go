// Package watcher observes the filesystem sources that feed the candidate
// pools and reports when a pool has gone stale.
//
// # Pools
//
// Two sources are watched: the script directories (scripts and scriptlets
// live in the same tree) and the manifest file that declares builtins and
// applications. A change under a script root produces an Invalidation for
// PoolScripts; a change to the manifest file produces one for PoolManifest.
// Unrelated files that happen to share the manifest's directory are ignored.
//
// # Debouncing
//
// Saving a file from an editor, or syncing a directory, produces a burst of
// filesystem events. The watcher coalesces all events for a pool within a
// debounce window into a single Invalidation carrying the union of the
// observed operations. Consumers rebuild the whole pool on receipt, so one
// signal per burst is all they need.
//
// # Lifecycle
//
// New starts a background goroutine that runs until Close. Invalidations
// and Errors are closed by Close; a consumer ranging over them terminates
// cleanly. If the invalidation channel is full the signal is dropped and an
// error is reported instead, so a stalled consumer cannot block the watcher.
package watcher
