// Package config loads launcher configuration from a single TOML file.
//
// Configuration is deliberately flat: one file, four sections, decoded over
// compiled-in defaults so a partial file only overrides what it names.
//
//	[usage]
//	path = "~/.local/state/keylaunch/usage.json"
//	half_life_days = 7.0
//	track = true
//
//	[suggested]
//	enabled = true
//	max_items = 10
//	min_score = 0.0
//	excluded = ["builtin-quit-script-kit"]
//
//	[scripts]
//	dirs = ["~/.local/share/keylaunch/scripts"]
//
//	[manifest]
//	path = "~/.local/share/keylaunch/manifest.json"
//
// A missing file is not an error; Load returns the defaults. A file that
// exists but does not parse returns a *ParseError carrying the source
// position when the decoder knows it.
//
// Paths may use "~" and environment variables ($VAR or ${VAR}); Load
// expands both.
package config
