// Package candidate defines the launchable items that ranking operates on.
//
// A Candidate is a flattened, immutable view of something the launcher can
// select: a user script, a scriptlet from a script bundle, a built-in
// command, or an installed application. Producers (the scriptlet loader,
// the manifest adapter, or anything external) construct candidates through
// the New* constructors, which lowercase the matchable text once so the
// scorer never folds case per keystroke, and derive the stable key used by
// the usage store.
//
// Candidates are never mutated after construction; ranking and grouping
// order indices into pools, not the pools themselves.
package candidate
