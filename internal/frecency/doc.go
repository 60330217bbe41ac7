// Package frecency persists and ranks usage history with exponential time
// decay.
//
// Each tracked key holds a use count, the timestamp of its last use, and a
// derived score. The score follows a half-life model: left untouched, it
// halves every configured number of days (7 by default).
//
// # Scoring
//
// Two formulas are in play and must stay separate:
//
//   - On load, every score is recomputed cold from persisted data:
//     score = count * 2^(-daysSinceLastUse/halfLife), as if all uses
//     happened at the last-use timestamp.
//   - On each live use, the accumulated score decays and gains one:
//     score' = score * 2^(-elapsedDays/halfLife) + 1.
//
// Stored scores are never trusted: only counts and timestamps persist, and
// Load recomputes everything it reads.
//
// # Persistence
//
// State lives in a single JSON file mapping keys to {count, last_used}. A
// missing file is an empty store, not an error; malformed content fails
// Load with an error matching IsFormatError so callers can tell corrupt
// data from I/O failure.
//
// # Concurrency
//
// A Store is not safe for concurrent use. The owning component serializes
// access; see the app package.
package frecency
