package main

import (
	"context"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/keylaunch/internal/app"
	"github.com/dshills/keylaunch/internal/candidate"
	"github.com/dshills/keylaunch/internal/grouping"
)

// Screen styles.
var (
	stylePrompt   = tcell.StyleDefault.Bold(true)
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleItem     = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleNotice   = tcell.StyleDefault.Dim(true)
)

// ui is the interactive launcher: a query line, the grouped row list, and
// a selection that only rests on item rows.
type ui struct {
	screen   tcell.Screen
	app      *app.App
	query    []rune
	rows     []grouping.Row
	results  []candidate.Candidate
	selected int
	offset   int
}

// newUI creates the launcher screen for the given application.
func newUI(a *app.App, query string) (*ui, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &ui{screen: screen, app: a, query: []rune(query)}, nil
}

// Run owns the terminal until the user picks a candidate or quits. Enter
// returns the selected candidate with its use recorded; Esc on an empty
// query, Ctrl-C, and context cancellation return ErrQuit.
func (u *ui) Run(ctx context.Context) (candidate.Candidate, error) {
	if err := u.screen.Init(); err != nil {
		return candidate.Candidate{}, err
	}
	defer u.screen.Fini()

	// PollEvent blocks, so context cancellation has to be delivered as a
	// screen event.
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stopped:
		}
	}()

	u.refilter()
	for {
		u.draw()

		ev := u.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			return candidate.Candidate{}, app.ErrQuit

		case *tcell.EventResize:
			u.screen.Sync()

		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape:
				if len(u.query) == 0 {
					return candidate.Candidate{}, app.ErrQuit
				}
				u.query = u.query[:0]
				u.refilter()

			case tcell.KeyCtrlC:
				return candidate.Candidate{}, app.ErrQuit

			case tcell.KeyEnter:
				if u.selected < len(u.rows) {
					if c, ok := u.app.Execute(u.rows[u.selected]); ok {
						return c, nil
					}
					// Selection went stale under a background rescan.
					u.refilter()
				}

			case tcell.KeyUp, tcell.KeyCtrlP:
				u.moveUp()

			case tcell.KeyDown, tcell.KeyCtrlN:
				u.moveDown()

			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(u.query) > 0 {
					u.query = u.query[:len(u.query)-1]
					u.refilter()
				}

			case tcell.KeyCtrlU:
				u.query = u.query[:0]
				u.refilter()

			case tcell.KeyRune:
				u.query = append(u.query, ev.Rune())
				u.refilter()
			}
		}
	}
}

// refilter rebuilds rows for the current query and coerces the selection
// onto the first item row.
func (u *ui) refilter() {
	u.rows, u.results = u.app.Query(string(u.query))
	u.selected = grouping.InitialSelection(u.rows)
	u.offset = 0
}

// moveUp moves the selection to the previous item row, skipping headers.
func (u *ui) moveUp() {
	for i := u.selected - 1; i >= 0; i-- {
		if u.rows[i].Kind == grouping.RowItem {
			u.selected = i
			return
		}
	}
}

// moveDown moves the selection to the next item row, skipping headers.
func (u *ui) moveDown() {
	for i := u.selected + 1; i < len(u.rows); i++ {
		if u.rows[i].Kind == grouping.RowItem {
			u.selected = i
			return
		}
	}
}

// draw renders the query line and the visible window of rows.
func (u *ui) draw() {
	u.screen.Clear()
	width, height := u.screen.Size()

	prompt := "> " + string(u.query)
	drawText(u.screen, 0, 0, width, stylePrompt, prompt)
	cursor := uniseg.StringWidth(prompt)
	if cursor > width-1 {
		cursor = width - 1
	}
	u.screen.ShowCursor(cursor, 0)

	if len(u.rows) == 0 {
		drawText(u.screen, 2, 2, width-2, styleNotice, emptyNotice(string(u.query)))
		u.screen.Show()
		return
	}

	u.scroll(height - 1)
	y := 1
	for i := u.offset; i < len(u.rows) && y < height; i++ {
		row := u.rows[i]
		switch row.Kind {
		case grouping.RowHeader:
			drawLine(u.screen, y, width, styleHeader, row.Label)
		case grouping.RowItem:
			style := styleItem
			if i == u.selected {
				style = styleSelected
			}
			drawLine(u.screen, y, width, style, "  "+u.results[row.Index].Name)
		}
		y++
	}
	u.screen.Show()
}

// scroll keeps the selection inside the visible window of rows, pulling
// the section header directly above it into view when there is one.
func (u *ui) scroll(visible int) {
	if visible < 1 {
		u.offset = 0
		return
	}
	top := u.selected
	if top > 0 && u.rows[top-1].Kind == grouping.RowHeader {
		top--
	}
	if u.offset > top {
		u.offset = top
	}
	if u.selected >= u.offset+visible {
		u.offset = u.selected - visible + 1
	}
}

// emptyNotice is the copy shown when no rows render.
func emptyNotice(query string) string {
	if strings.TrimSpace(query) == "" {
		return "No scripts, commands, or apps found"
	}
	return "No matches"
}

// drawLine writes text at the start of row y and pads the remainder of
// the line in the same style.
func drawLine(s tcell.Screen, y, width int, style tcell.Style, text string) {
	x := drawText(s, 0, y, width, style, text)
	for ; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// drawText writes text at (x, y) clipped to max cells, measuring width
// per grapheme cluster so wide runes do not overrun the row. Returns the
// column after the last cell written.
func drawText(s tcell.Screen, x, y, max int, style tcell.Style, text string) int {
	limit := x + max
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		runes := g.Runes()
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		s.SetContent(x, y, runes[0], comb, style)
		x += w
	}
	return x
}
