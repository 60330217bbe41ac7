package candidate

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ErrInvalidManifest indicates the manifest file is not valid JSON.
var ErrInvalidManifest = errors.New("invalid manifest format")

// Manifest is the externally produced index of built-in commands and
// installed applications. The launcher only reads it; whatever enumerates
// applications writes it.
type Manifest struct {
	Builtins []Candidate
	Apps     []Candidate
}

// LoadManifest reads a manifest file of the form:
//
//	{
//	  "builtins": [{"name": "...", "description": "...", "shortcut": "..."}],
//	  "apps":     [{"name": "...", "bundle_id": "..."}]
//	}
//
// A missing file yields an empty manifest and no error. Entries without a
// name are skipped; unknown fields are ignored.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return m, fmt.Errorf("parse manifest %s: %w", path, ErrInvalidManifest)
	}

	root := gjson.ParseBytes(data)
	root.Get("builtins").ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" {
			return true
		}
		m.Builtins = append(m.Builtins, NewBuiltin(name, v.Get("description").String(), v.Get("shortcut").String()))
		return true
	})
	root.Get("apps").ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		if name == "" {
			return true
		}
		m.Apps = append(m.Apps, NewApp(name, v.Get("bundle_id").String()))
		return true
	})

	return m, nil
}
