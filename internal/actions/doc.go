// Package actions models the quick-action overlay: a small searchable menu
// of context actions attached to the focused item.
//
// The package holds pure list state. It knows nothing about rendering or key
// decoding; the terminal layer feeds it query edits and movement commands and
// reads back rows to draw.
//
// # Filtering
//
// Typing refilters the action list with ranked matching: prefix beats
// substring beats in-order subsequence, with small bonuses for description
// and shortcut hits. Matches sort by score, ties keeping definition order.
// An empty query restores the full list.
//
// # Selection
//
// The selection is a visual row index into the grouped rows, so it must be
// coerced whenever the rows change: refiltering tries to keep the same
// action selected by id, and falls back to the first selectable row when
// that action dropped out. Movement skips section headers in the direction
// of travel.
//
// # Usage
//
//	d := actions.NewDialog([]actions.Action{
//	    actions.New("run", "Run Script", actions.WithSection("Script")),
//	    actions.New("edit", "Edit Script", actions.WithShortcut("cmd+e")),
//	})
//
//	d.SetQuery("ru")
//	d.MoveDown()
//	if a, ok := d.Selected(); ok {
//	    execute(a.ID)
//	}
//
// Dialog is not safe for concurrent use; it belongs to the event loop
// goroutine that owns the overlay.
package actions
