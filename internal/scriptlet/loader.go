package scriptlet

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/keylaunch/internal/candidate"
)

// scriptExt is the file extension Scan recognizes.
const scriptExt = ".lua"

// File is one discovered Lua file. Name and Kit are resolved: declared
// metadata wins, filename and directory layout fill the gaps.
type File struct {
	// Path is the absolute or scan-relative file path, the candidate key.
	Path string

	// Name is the resolved display name.
	Name string

	// Kit is the resolved bundle name, empty for top-level files.
	Kit string

	// Meta holds the declared globals, zero when none were set.
	Meta Metadata

	// HasMeta is true when the file declared metadata and evaluated
	// cleanly; such files list as scriptlets, the rest as plain scripts.
	HasMeta bool

	// Err records an evaluation failure. The file still lists, named after
	// its filename, so a broken header does not hide it.
	Err error
}

// Loader scans script directories for Lua files.
type Loader struct {
	dirs    []string
	timeout time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout sets the per-file evaluation deadline. Values <= 0 are
// ignored.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// NewLoader creates a loader over the given directories. Directories are
// scanned in order; files within a directory come back in lexical walk
// order, so repeated scans of an unchanged tree produce identical slices.
func NewLoader(dirs []string, opts ...Option) *Loader {
	l := &Loader{
		dirs:    dirs,
		timeout: DefaultEvalTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Scan walks the configured directories and returns every Lua file found.
// Missing directories are skipped. Evaluation failures are recorded on the
// file, not returned; the error return is reserved for walk failures and
// context cancellation.
func (l *Loader) Scan(ctx context.Context) ([]File, error) {
	var files []File

	for _, dir := range l.dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), scriptExt) {
				return nil
			}
			files = append(files, l.scanFile(ctx, dir, path))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// scanFile evaluates one file and resolves its name and kit.
func (l *Loader) scanFile(ctx context.Context, dir, path string) File {
	evalCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	f := File{
		Path: path,
		Kit:  kitFromPath(dir, path),
	}

	meta, declared, err := Extract(evalCtx, path)
	if err != nil {
		f.Name = nameFromPath(path)
		f.Err = err
		return f
	}

	f.Meta = meta
	f.HasMeta = declared
	f.Name = meta.Name
	if f.Name == "" {
		f.Name = nameFromPath(path)
	}
	if meta.Kit != "" {
		f.Kit = meta.Kit
	}
	return f
}

// Candidates splits scanned files into the script and scriptlet pools. A
// declared trigger keyword joins the secondary match surface so typing it
// ranks the scriptlet up.
func Candidates(files []File) (scripts, scriptlets []candidate.Candidate) {
	for _, f := range files {
		if f.HasMeta {
			c := candidate.NewScriptlet(f.Path, f.Name, f.Meta.Description, f.Kit)
			if f.Meta.Keyword != "" {
				c.Target.Shortcut = strings.ToLower(f.Meta.Keyword)
			}
			scriptlets = append(scriptlets, c)
			continue
		}
		scripts = append(scripts, candidate.NewScript(f.Path, f.Name, "", f.Kit))
	}
	return scripts, scriptlets
}

// kitFromPath derives the kit from directory layout: files nested under
// the scan root belong to the kit named by the first path component.
func kitFromPath(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return ""
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// nameFromPath turns "deploy-site.lua" into "Deploy Site".
func nameFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = base
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return cases.Title(language.English).String(name)
}
