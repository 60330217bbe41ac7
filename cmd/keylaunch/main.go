// Package main is the entry point for the keylaunch launcher.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/keylaunch/internal/app"
	"github.com/dshills/keylaunch/internal/grouping"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	level := app.ParseLogLevel(opts.LogLevel)
	if opts.Debug {
		level = app.LogLevelDebug
	}
	logCfg := app.DefaultLoggerConfig()
	logCfg.Level = level
	app.SetLogger(app.NewLogger(logCfg))

	application, err := app.New(opts.App)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure usage history is flushed on all exit paths
	defer func() {
		if err := application.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Refresh(ctx); err != nil {
		// Partial pools still launch; report and keep going.
		application.Logger().WithComponent("main").Warn("initial scan incomplete: %v", err)
	}

	if opts.List {
		printList(os.Stdout, application, opts.Query)
		return 0
	}

	// Rescan in the background while the screen is up.
	go func() {
		if err := application.Run(ctx); err != nil {
			application.Logger().WithComponent("main").Warn("live rescan disabled: %v", err)
		}
	}()

	u, err := newUI(application, opts.Query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}

	choice, err := u.Run(ctx)
	if opts.Debug {
		printMetrics(os.Stderr, application.Metrics().Snapshot())
	}
	if err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Print the chosen key for the wrapper that performs the actual launch.
	fmt.Println(choice.Key)
	return 0
}

// printList writes the assembled view for query to w, headers flush left
// and items indented, one per line.
func printList(w io.Writer, a *app.App, query string) {
	rows, results := a.Query(query)
	for _, row := range rows {
		switch row.Kind {
		case grouping.RowHeader:
			fmt.Fprintln(w, row.Label)
		case grouping.RowItem:
			fmt.Fprintf(w, "  %s\n", results[row.Index].Name)
		}
	}
}

func printMetrics(w io.Writer, s app.MetricsSnapshot) {
	fmt.Fprintf(w, "queries: %d  avg: %.2fms  cache hit rate: %.0f%%\n",
		s.QueryCount, s.AvgQueryMs(), s.HitRate())
	fmt.Fprintf(w, "executes: %d  refreshes: %d  invalidations: %d  save errors: %d\n",
		s.ExecuteCount, s.RefreshCount, s.Invalidations, s.SaveErrors)
}

// cliOptions carries the parsed command line.
type cliOptions struct {
	App      app.Options
	Query    string
	List     bool
	Debug    bool
	LogLevel string
}

func parseFlags() cliOptions {
	var opts cliOptions
	var scriptDirs string
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.App.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.App.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.App.UsagePath, "usage", "", "Path to the usage history file")
	flag.StringVar(&scriptDirs, "scripts", "", "Comma-separated script directories to scan")
	flag.StringVar(&opts.App.ManifestPath, "manifest", "", "Path to the builtin/app manifest")
	flag.BoolVar(&opts.List, "list", false, "Print the grouped list and exit")
	flag.BoolVar(&opts.List, "l", false, "Print the grouped list and exit (shorthand)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging and a metrics summary on exit")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error, off)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Keylaunch - keyboard launcher for scripts, commands, and applications\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keylaunch [options] [query]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keylaunch                      Open the interactive launcher\n")
		fmt.Fprintf(os.Stderr, "  keylaunch deploy               Open with an initial query\n")
		fmt.Fprintf(os.Stderr, "  keylaunch -list                Print the grouped list and exit\n")
		fmt.Fprintf(os.Stderr, "  keylaunch -c custom.toml       Use an alternate configuration file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Keylaunch %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch opts.LogLevel {
	case "debug", "info", "warn", "error", "off":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, error, or off)\n", opts.LogLevel)
		os.Exit(1)
	}

	if scriptDirs != "" {
		opts.App.ScriptDirs = splitDirs(scriptDirs)
	}

	// Remaining arguments form the initial query
	opts.Query = strings.Join(flag.Args(), " ")

	return opts
}

// splitDirs splits a comma-separated directory list, dropping empty entries.
func splitDirs(s string) []string {
	parts := strings.Split(s, ",")
	dirs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			dirs = append(dirs, p)
		}
	}
	return dirs
}
