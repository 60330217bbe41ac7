package actions

import (
	"sort"
	"strings"

	"github.com/dshills/keylaunch/internal/grouping"
)

// Dialog is the quick-action menu state: the full action list, the indices
// that survive the current query, the grouped rows built from them, and the
// selected visual row.
type Dialog struct {
	actions  []Action
	sections []string
	filtered []int
	rows     []grouping.Row
	query    string
	selected int
	style    grouping.Style
}

// DialogOption configures a Dialog during construction.
type DialogOption func(*Dialog)

// WithStyle sets how section boundaries render. The default emits header
// rows.
func WithStyle(style grouping.Style) DialogOption {
	return func(d *Dialog) {
		d.style = style
	}
}

// NewDialog builds a dialog showing all actions, selection on the first
// selectable row.
func NewDialog(actions []Action, opts ...DialogOption) *Dialog {
	d := &Dialog{
		actions:  actions,
		sections: make([]string, len(actions)),
		style:    grouping.StyleHeaders,
	}
	for i, a := range actions {
		d.sections[i] = a.Section
	}
	for _, opt := range opts {
		opt(d)
	}

	d.filtered = make([]int, len(actions))
	for i := range actions {
		d.filtered[i] = i
	}
	d.rows = grouping.Assemble(d.sections, d.filtered, d.style)
	d.selected = grouping.InitialSelection(d.rows)
	return d
}

// Query returns the current filter text.
func (d *Dialog) Query() string {
	return d.query
}

// Rows returns the grouped rows in display order. Callers must not mutate
// the returned slice.
func (d *Dialog) Rows() []grouping.Row {
	return d.rows
}

// SelectedIndex returns the selected visual row index.
func (d *Dialog) SelectedIndex() int {
	return d.selected
}

// Selected returns the action under the selection, or false when the list
// is empty or the selection does not sit on an item row.
func (d *Dialog) Selected() (Action, bool) {
	if d.selected < 0 || d.selected >= len(d.rows) {
		return Action{}, false
	}
	return d.ActionFor(d.rows[d.selected])
}

// ActionFor resolves a row to its action. Header rows resolve to false.
func (d *Dialog) ActionFor(r grouping.Row) (Action, bool) {
	if r.Kind != grouping.RowItem || r.Index < 0 || r.Index >= len(d.filtered) {
		return Action{}, false
	}
	idx := d.filtered[r.Index]
	if idx < 0 || idx >= len(d.actions) {
		return Action{}, false
	}
	return d.actions[idx], true
}

// SetQuery replaces the filter text and refilters, preserving the selected
// action when it survives the new query.
func (d *Dialog) SetQuery(query string) {
	d.query = query
	d.refilter()
}

// refilter rebuilds filtered and rows for the current query. The selection
// is a row index, not a filtered index, so preserving it means resolving
// the selected action id first and re-finding its row afterwards.
func (d *Dialog) refilter() {
	prevID := ""
	if a, ok := d.Selected(); ok {
		prevID = a.ID
	}

	if d.query == "" {
		d.filtered = make([]int, len(d.actions))
		for i := range d.actions {
			d.filtered[i] = i
		}
	} else {
		type scored struct {
			idx   int
			score int
		}
		matches := make([]scored, 0, len(d.actions))
		for i, a := range d.actions {
			if s := a.Score(d.query); s > 0 {
				matches = append(matches, scored{idx: i, score: s})
			}
		}
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].score > matches[j].score
		})

		d.filtered = make([]int, len(matches))
		for i, m := range matches {
			d.filtered[i] = m.idx
		}
	}

	d.rows = grouping.Assemble(d.sections, d.filtered, d.style)

	if prevID != "" {
		if row := d.rowOf(prevID); row >= 0 {
			d.selected = row
			return
		}
	}
	d.selected = grouping.InitialSelection(d.rows)
}

// rowOf returns the visual row index of the action with the given id, or -1
// when it is not in the current rows.
func (d *Dialog) rowOf(id string) int {
	pos := -1
	for p, idx := range d.filtered {
		if d.actions[idx].ID == id {
			pos = p
			break
		}
	}
	if pos < 0 {
		return -1
	}
	for i, r := range d.rows {
		if r.Kind == grouping.RowItem && r.Index == pos {
			return i
		}
	}
	return -1
}

// MoveUp moves the selection to the previous item row, skipping headers.
// Landing on a header must keep scanning upward, otherwise the selection
// would stall below every section boundary.
func (d *Dialog) MoveUp() {
	if d.selected == 0 {
		return
	}
	for i := d.selected - 1; i >= 0; i-- {
		if d.rows[i].Kind == grouping.RowItem {
			d.selected = i
			return
		}
	}
}

// MoveDown moves the selection to the next item row, skipping headers.
func (d *Dialog) MoveDown() {
	for i := d.selected + 1; i < len(d.rows); i++ {
		if d.rows[i].Kind == grouping.RowItem {
			d.selected = i
			return
		}
	}
}

// SelectFirst jumps to the first selectable row.
func (d *Dialog) SelectFirst() {
	if ix, ok := grouping.Coerce(d.rows, 0); ok {
		d.selected = ix
	}
}

// SelectLast jumps to the last selectable row.
func (d *Dialog) SelectLast() {
	for i := len(d.rows) - 1; i >= 0; i-- {
		if d.rows[i].Kind == grouping.RowItem {
			d.selected = i
			return
		}
	}
}

// EmptyMessage returns the copy shown when no rows render: a no-actions
// notice when the query is blank, a no-matches notice otherwise.
func EmptyMessage(query string) string {
	if strings.TrimSpace(query) == "" {
		return "No actions available"
	}
	return "No actions match your search"
}
