package actions

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/keylaunch/internal/match"
)

// Action is one entry in the quick-action menu.
type Action struct {
	// ID is the stable identifier selection tracking keys on.
	ID string

	// Title is the display text and primary match text.
	Title string

	// Description is optional secondary text, empty when absent.
	Description string

	// Shortcut is the display form of the key binding, empty when absent.
	Shortcut string

	// Section groups the action under a header; sectionless actions render
	// without one.
	Section string

	// target caches the lowercased match surface so refiltering does not
	// re-lowercase every action on each keystroke.
	target match.Target
}

// Option configures an Action during construction.
type Option func(*Action)

// WithDescription sets the secondary text.
func WithDescription(description string) Option {
	return func(a *Action) {
		a.Description = description
	}
}

// WithShortcut sets the displayed key binding.
func WithShortcut(shortcut string) Option {
	return func(a *Action) {
		a.Shortcut = shortcut
	}
}

// WithSection assigns the action to a named section.
func WithSection(section string) Option {
	return func(a *Action) {
		a.Section = section
	}
}

// New builds an action. An empty id gets a generated one so selection
// tracking always has a key to follow. Always construct actions through New:
// it caches the lowercased match surface, which goes stale if fields are
// reassigned afterwards.
func New(id, title string, opts ...Option) Action {
	if id == "" {
		id = uuid.New().String()
	}

	a := Action{ID: id, Title: title}
	for _, opt := range opts {
		opt(&a)
	}

	a.target = match.Target{
		Text:        strings.ToLower(a.Title),
		Description: strings.ToLower(a.Description),
		Shortcut:    strings.ToLower(a.Shortcut),
	}
	return a
}

// Score rates how well query matches the action.
func (a Action) Score(query string) int {
	return match.Score(a.target, query)
}
