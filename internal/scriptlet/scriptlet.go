package scriptlet

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultEvalTimeout bounds a single file evaluation during a scan.
const DefaultEvalTimeout = 2 * time.Second

// Metadata holds the globals a scriptlet declares in its header block.
// Only string assignments count; a numeric or table value leaves the field
// empty.
type Metadata struct {
	// Name is the display name.
	Name string

	// Description is optional secondary text.
	Description string

	// Keyword is the short trigger text the user can type.
	Keyword string

	// Kit is the bundle the scriptlet belongs to.
	Kit string
}

// declared reports whether any metadata global was set.
func (m Metadata) declared() bool {
	return m.Name != "" || m.Description != "" || m.Keyword != "" || m.Kit != ""
}

// EvalError reports a scriptlet that failed to evaluate.
type EvalError struct {
	Path string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating scriptlet %s: %v", e.Path, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Extract evaluates the Lua file at path in a fresh sandboxed state and
// returns the metadata it declared. The second result is false when the
// file ran cleanly but declared nothing. ctx bounds the evaluation; a
// cancelled or expired context aborts the interpreter.
func Extract(ctx context.Context, path string) (Metadata, bool, error) {
	L := newState(ctx)
	defer L.Close()

	if err := doFile(L, path); err != nil {
		return Metadata{}, false, &EvalError{Path: path, Err: err}
	}

	meta := Metadata{
		Name:        globalString(L, "name"),
		Description: globalString(L, "description"),
		Keyword:     globalString(L, "keyword"),
		Kit:         globalString(L, "kit"),
	}
	return meta, meta.declared(), nil
}

// newState builds the metadata sandbox: selective safe libraries, no
// loaders, silent print.
func newState(ctx context.Context) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// The load family would let a header pull in arbitrary code.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	// Scans run underneath the terminal UI; stray output corrupts it.
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		return 0
	}))

	L.SetContext(ctx)
	return L
}

// doFile runs the file with panic recovery; gopher-lua can panic on
// malformed chunks.
func doFile(L *lua.LState, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return L.DoFile(path)
}

func globalString(L *lua.LState, name string) string {
	v := L.GetGlobal(name)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}
