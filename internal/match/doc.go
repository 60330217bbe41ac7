// Package match scores candidate text against a free-text query.
//
// The scoring model is deliberately coarse: a prefix match on the primary
// search text beats a substring match, which beats an in-order subsequence
// match, with flat bonuses when the query also appears in a candidate's
// description or shortcut text. Scores are comparable across candidates, so
// callers can sort by score descending and rely on stable ordering for ties.
//
// All candidate text is expected to be lowercased ahead of time by whoever
// produced it; Score lowercases only the query. There is no locale-aware
// folding.
package match
