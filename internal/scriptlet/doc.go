// Package scriptlet discovers launchable Lua files and extracts the
// metadata they declare.
//
// A scriptlet is a Lua file whose header block assigns the globals the
// launcher reads:
//
//	name = "Deploy Site"
//	description = "Build and push the site to production"
//	keyword = "dep"
//	kit = "ops"
//
// Scan evaluates each file in a sandboxed interpreter to populate those
// globals. The sandbox opens only the base, table, string, and math
// libraries; io, os, debug, and the package system are unavailable, the
// load family is removed, and print is a no-op so scans cannot write to
// the terminal the UI owns. Every file gets a fresh state and an
// evaluation deadline, so one scriptlet cannot leak globals into the next
// or stall the scan.
//
// Files that declare no metadata, or that fail to evaluate, still appear
// in the scan results as plain scripts named after their filename: a
// broken header should not make a file unlaunchable. Evaluation failures
// travel on File.Err for the caller to log.
//
// Execution of scriptlets is out of scope here; Scan reads headers only.
package scriptlet
