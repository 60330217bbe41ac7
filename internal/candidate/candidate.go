package candidate

import (
	"strings"

	"github.com/dshills/keylaunch/internal/match"
)

// Kind identifies which pool a candidate came from.
type Kind string

// Candidate kinds.
const (
	KindScript    Kind = "script"
	KindScriptlet Kind = "scriptlet"
	KindBuiltin   Kind = "builtin"
	KindApp       Kind = "app"
)

// Candidate is one launchable item. Key is the stable identifier the usage
// store tracks: the file path for scripts and scriptlets, a slug for
// built-ins, the bundle id for applications.
type Candidate struct {
	// Kind is the source pool.
	Kind Kind

	// Key is the stable usage-store identifier.
	Key string

	// Name is the display name.
	Name string

	// Kit is the bundle a script or scriptlet belongs to, empty for an
	// unbundled item and always empty for built-ins and apps.
	Kit string

	// Target is the pre-lowercased matchable text.
	Target match.Target
}

// NewScript builds a script candidate keyed by its file path.
func NewScript(path, name, description, kit string) Candidate {
	return Candidate{
		Kind:   KindScript,
		Key:    path,
		Name:   name,
		Kit:    kit,
		Target: newTarget(name, description, ""),
	}
}

// NewScriptlet builds a scriptlet candidate keyed by its file path.
func NewScriptlet(path, name, description, kit string) Candidate {
	return Candidate{
		Kind:   KindScriptlet,
		Key:    path,
		Name:   name,
		Kit:    kit,
		Target: newTarget(name, description, ""),
	}
}

// NewBuiltin builds a built-in command candidate. The key is a slug of the
// name: "Quit Script Kit" becomes "builtin-quit-script-kit".
func NewBuiltin(name, description, shortcut string) Candidate {
	return Candidate{
		Kind:   KindBuiltin,
		Key:    "builtin-" + slug(name),
		Name:   name,
		Target: newTarget(name, description, shortcut),
	}
}

// NewApp builds an application candidate, keyed by bundle id when one is
// known and by a name slug otherwise.
func NewApp(name, bundleID string) Candidate {
	key := bundleID
	if key == "" {
		key = "app-" + slug(name)
	}
	return Candidate{
		Kind:   KindApp,
		Key:    key,
		Name:   name,
		Target: newTarget(name, "", ""),
	}
}

func newTarget(name, description, shortcut string) match.Target {
	return match.Target{
		Text:        strings.ToLower(name),
		Description: strings.ToLower(description),
		Shortcut:    strings.ToLower(shortcut),
	}
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// Pools holds the candidate pools the launcher ranks across.
type Pools struct {
	Scripts    []Candidate
	Scriptlets []Candidate
	Builtins   []Candidate
	Apps       []Candidate
}

// Flatten concatenates the pools into the single results slice that row
// indices reference, in fixed order: scripts, scriptlets, builtins, apps.
func (p Pools) Flatten() []Candidate {
	out := make([]Candidate, 0, p.Total())
	out = append(out, p.Scripts...)
	out = append(out, p.Scriptlets...)
	out = append(out, p.Builtins...)
	out = append(out, p.Apps...)
	return out
}

// Total returns the combined size of all pools.
func (p Pools) Total() int {
	return len(p.Scripts) + len(p.Scriptlets) + len(p.Builtins) + len(p.Apps)
}
