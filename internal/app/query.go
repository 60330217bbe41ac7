package app

import (
	"github.com/dshills/keylaunch/internal/candidate"
	"github.com/dshills/keylaunch/internal/grouping"
)

// Query assembles the view for the given text: the grouped browse view
// when text is empty, the ranked search view otherwise. Item rows index
// into the returned results slice. Both return values are shared with the
// cache and must not be modified.
func (a *App) Query(text string) ([]grouping.Row, []candidate.Candidate) {
	timer := StartTimer()
	defer func() {
		a.metrics.RecordQuery(timer.Elapsed())
	}()

	a.mu.Lock()
	defer a.mu.Unlock()

	if v, ok := a.cache.Get(text); ok {
		a.metrics.RecordCacheHit()
		a.results = v.results
		return v.rows, v.results
	}
	a.metrics.RecordCacheMiss()

	var rows []grouping.Row
	var results []candidate.Candidate
	if text == "" {
		rows, results = a.assembler.Grouped(a.pools, a.store)
	} else {
		rows, results = a.assembler.Search(a.pools, a.store, text)
	}

	a.cache.Add(text, view{rows: rows, results: results})
	a.results = results
	return rows, results
}

// Execute resolves row against the most recent Query, records the use,
// and returns the candidate for the front end to act on. Header rows and
// selections stale after a Refresh report false; the caller should query
// again. The usage write is best-effort: a failed save is logged and the
// launch proceeds.
func (a *App) Execute(row grouping.Row) (candidate.Candidate, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if row.Kind != grouping.RowItem || row.Index < 0 || row.Index >= len(a.results) {
		return candidate.Candidate{}, false
	}
	c := a.results[row.Index]

	if a.cfg.Usage.Track {
		a.store.RecordUse(c.Key)
		if err := a.store.Save(); err != nil {
			a.logger.WithComponent("usage").Warn("save failed: %v", err)
			a.metrics.RecordSaveError()
		}
		a.cache.Purge()
	}

	a.metrics.RecordExecute()
	a.logger.WithComponent("app").Debug("executed %s (%s)", c.Name, c.Key)
	return c, true
}
