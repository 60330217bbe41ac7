package grouping

import (
	"math"
	"sort"
	"strings"

	"github.com/dshills/keylaunch/internal/candidate"
	"github.com/dshills/keylaunch/internal/match"
)

// DefaultMaxSuggested caps the SUGGESTED section.
const DefaultMaxSuggested = 10

// maxFrecencyBoost caps the usage bonus folded into search-mode scores so a
// strong text match still beats a weak match with heavy usage.
const maxFrecencyBoost = 50

// DefaultSuggested seeds the SUGGESTED section for users with no usage
// history. Order matters: items appear in this order.
var DefaultSuggested = []string{
	"AI Chat",
	"Notes",
	"Clipboard History",
	"Quick Terminal",
	"Search Files",
	"Configure Vercel AI Gateway",
}

// Usage supplies frecency scores for stable candidate keys. Implemented by
// frecency.Store.
type Usage interface {
	// Score returns the current score for key, 0 for unknown keys.
	Score(key string) float64

	// IsEmpty reports whether any usage has ever been recorded.
	IsEmpty() bool
}

// Config tunes the SUGGESTED section of the grouped view.
type Config struct {
	// Enabled turns the SUGGESTED section on.
	Enabled bool

	// MaxItems caps the SUGGESTED section. Values <= 0 mean no cap.
	MaxItems int

	// MinScore is the exclusive lower bound for a usage score to qualify
	// a result for SUGGESTED.
	MinScore float64

	// Excluded lists stable keys that never appear in SUGGESTED.
	Excluded []string
}

// DefaultConfig returns the standard SUGGESTED tuning.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		MaxItems: DefaultMaxSuggested,
		MinScore: 0,
		Excluded: []string{"builtin-quit-script-kit"},
	}
}

// Assembler builds the main launcher views from candidate pools and usage
// history.
type Assembler struct {
	cfg      Config
	excluded map[string]struct{}
}

// New creates an assembler with the given configuration.
func New(cfg Config) *Assembler {
	excluded := make(map[string]struct{}, len(cfg.Excluded))
	for _, key := range cfg.Excluded {
		excluded[key] = struct{}{}
	}
	return &Assembler{cfg: cfg, excluded: excluded}
}

// Grouped builds the browse view: SUGGESTED first, then one section per
// script kit in the order kits first appear in the results, then COMMANDS,
// then APPS. Within every non-SUGGESTED section items sort by display name
// (byte-wise, ties keep pool order). Sections with no items emit no header.
// Item rows index into the returned results slice.
func (a *Assembler) Grouped(pools candidate.Pools, usage Usage) ([]Row, []candidate.Candidate) {
	results := pools.Flatten()
	if len(results) == 0 {
		return nil, results
	}

	suggested := a.suggestedIndices(results, usage)
	inSuggested := make(map[int]struct{}, len(suggested))
	for _, idx := range suggested {
		inSuggested[idx] = struct{}{}
	}

	// Ordered section descriptors; map iteration order must never leak
	// into the row order.
	type section struct {
		label   string
		indices []int
	}
	var kits []section
	kitPos := make(map[string]int)
	var commands, apps []int

	for i, c := range results {
		if _, ok := inSuggested[i]; ok {
			continue
		}
		switch c.Kind {
		case candidate.KindScript, candidate.KindScriptlet:
			kit := c.Kit
			if kit == "" {
				kit = "main"
			}
			pos, ok := kitPos[kit]
			if !ok {
				pos = len(kits)
				kitPos[kit] = pos
				kits = append(kits, section{label: strings.ToUpper(kit)})
			}
			kits[pos].indices = append(kits[pos].indices, i)
		case candidate.KindBuiltin:
			commands = append(commands, i)
		case candidate.KindApp:
			apps = append(apps, i)
		}
	}

	byName := func(indices []int) {
		sort.SliceStable(indices, func(x, y int) bool {
			return results[indices[x]].Name < results[indices[y]].Name
		})
	}
	for i := range kits {
		byName(kits[i].indices)
	}
	byName(commands)
	byName(apps)

	var rows []Row
	emit := func(label string, indices []int) {
		if len(indices) == 0 {
			return
		}
		rows = append(rows, Row{Kind: RowHeader, Label: label})
		for _, idx := range indices {
			rows = append(rows, Row{Kind: RowItem, Index: idx})
		}
	}

	emit(SectionSuggested, suggested)
	for _, sec := range kits {
		emit(sec.label, sec.indices)
	}
	emit(SectionCommands, commands)
	emit(SectionApps, apps)

	return rows, results
}

// suggestedIndices picks the SUGGESTED members: results whose usage score
// clears MinScore, ranked by score descending with stable ties, capped at
// MaxItems. When nothing qualifies and the store has no history at all, the
// DefaultSuggested allow-list seeds the section by exact display name, in
// declared order.
func (a *Assembler) suggestedIndices(results []candidate.Candidate, usage Usage) []int {
	if !a.cfg.Enabled {
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	var ranked []scored
	for i, c := range results {
		if _, skip := a.excluded[c.Key]; skip {
			continue
		}
		if score := usage.Score(c.Key); score > a.cfg.MinScore {
			ranked = append(ranked, scored{idx: i, score: score})
		}
	}

	if len(ranked) > 0 {
		sort.SliceStable(ranked, func(x, y int) bool {
			return ranked[x].score > ranked[y].score
		})
		if a.cfg.MaxItems > 0 && len(ranked) > a.cfg.MaxItems {
			ranked = ranked[:a.cfg.MaxItems]
		}
		out := make([]int, len(ranked))
		for i, r := range ranked {
			out[i] = r.idx
		}
		return out
	}

	if !usage.IsEmpty() {
		return nil
	}

	var out []int
	for _, name := range DefaultSuggested {
		for i, c := range results {
			if c.Name == name {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// Search builds the query view: candidates scored by match quality plus a
// bounded frecency boost, non-matches dropped, sorted by boosted score
// descending with name as tiebreak. Rows are items only; indices reference
// the returned results slice.
func (a *Assembler) Search(pools candidate.Pools, usage Usage, query string) ([]Row, []candidate.Candidate) {
	results := pools.Flatten()
	if len(results) == 0 {
		return nil, results
	}

	type scored struct {
		idx   int
		score int
	}
	var matched []scored
	for i, c := range results {
		score := match.Score(c.Target, query)
		if score == 0 {
			continue
		}
		matched = append(matched, scored{idx: i, score: score + frecencyBoost(usage.Score(c.Key))})
	}

	sort.SliceStable(matched, func(x, y int) bool {
		if matched[x].score != matched[y].score {
			return matched[x].score > matched[y].score
		}
		return results[matched[x].idx].Name < results[matched[y].idx].Name
	})

	rows := make([]Row, len(matched))
	for i, m := range matched {
		rows[i] = Row{Kind: RowItem, Index: m.idx}
	}
	return rows, results
}

// frecencyBoost converts a raw usage score into a bounded match bonus. The
// log scale keeps heavy use from dominating match quality; any known item
// gets at least one point.
func frecencyBoost(score float64) int {
	if score <= 0 {
		return 0
	}
	scaled := int(math.Min(math.Max(math.Log(score), 0)*10, maxFrecencyBoost))
	if scaled < 1 {
		return 1
	}
	return scaled
}
