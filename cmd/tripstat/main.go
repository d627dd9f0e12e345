// Package main is the entry point for tripstat. It ingests a trip CSV and
// either prints a report or opens the interactive browser.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/tripstat/internal/app"
	"github.com/j-veylop/tripstat/internal/config"
	"github.com/j-veylop/tripstat/internal/logger"
	"github.com/j-veylop/tripstat/internal/report"
	"github.com/j-veylop/tripstat/internal/services"
	"github.com/j-veylop/tripstat/internal/ui/tabs/history"
	"github.com/j-veylop/tripstat/internal/ui/tabs/info"
	"github.com/j-veylop/tripstat/internal/ui/tabs/slots"
	"github.com/j-veylop/tripstat/internal/ui/tabs/zones"
	"github.com/j-veylop/tripstat/internal/version"
)

// errUnreadable is returned in report mode when the trip file cannot be read.
var errUnreadable = errors.New("trip file could not be read")

type options struct {
	report    bool
	zones     int
	slots     int
	watch     bool
	noHistory bool
	version   bool
	prune     time.Duration
	path      string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("tripstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr, fs) }

	fs.BoolVar(&opts.report, "report", false, "print a report and exit instead of opening the browser")
	fs.IntVar(&opts.zones, "zones", 0, "number of busiest zones to rank (default from config)")
	fs.IntVar(&opts.slots, "slots", 0, "number of busiest slots to rank (default from config)")
	fs.BoolVar(&opts.watch, "watch", false, "re-ingest whenever the file changes")
	fs.BoolVar(&opts.noHistory, "no-history", false, "do not record runs in the history database")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.DurationVar(&opts.prune, "prune", 0, "delete stored runs older than this age, e.g. 720h")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected one trip file, got %d arguments", fs.NArg())
	}
	opts.path = fs.Arg(0)

	return opts, nil
}

// run contains the main application logic, separated for cleaner error handling.
func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if opts.version {
		fmt.Fprintln(stdout, version.Info())
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg, opts, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	if opts.prune > 0 {
		n, err := mgr.PruneRuns(opts.prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "removed %d runs older than %s\n", n, opts.prune)
		if opts.path == "" {
			return nil
		}
	}

	path, err := resolvePath(mgr, opts.path)
	if err != nil {
		return err
	}

	if opts.report {
		return runReport(mgr, path, opts.watch, stdout)
	}
	return runTUI(mgr, cfg, path, opts.watch)
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.zones != 0 {
		cfg.TopZones = opts.zones
	}
	if opts.slots != 0 {
		cfg.TopSlots = opts.slots
	}
	if opts.noHistory {
		cfg.DatabasePath = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging sends logs to stderr in report mode. The browser owns the
// terminal, so there logs go to the configured file or nowhere.
func setupLogging(cfg *config.Config, opts *options, stderr io.Writer) (func(), error) {
	if opts.report {
		logger.Configure(cfg.LogLevel, stderr)
		return func() {}, nil
	}
	if cfg.LogFile == "" {
		logger.Configure(cfg.LogLevel, io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.Configure(cfg.LogLevel, f)
	return func() { _ = f.Close() }, nil
}

// resolvePath falls back to the most recently ingested file.
func resolvePath(mgr *services.Manager, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	last, err := mgr.LastPath()
	if err != nil && !errors.Is(err, services.ErrNoHistory) {
		return "", fmt.Errorf("failed to read run history: %w", err)
	}
	if last == "" {
		return "", errors.New("no trip file given and no previous run recorded")
	}
	logger.Info("reusing last trip file", "path", last)
	return last, nil
}

func runReport(mgr *services.Manager, path string, watch bool, stdout io.Writer) error {
	if !watch {
		snap, err := mgr.Ingest(path)
		if err != nil {
			logger.Warn("run not recorded", "error", err)
		}
		if err := report.Render(stdout, snap); err != nil {
			return err
		}
		if !snap.Stats.Readable {
			return fmt.Errorf("%w: %s", errUnreadable, path)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watchReport(ctx, mgr, path, stdout)
}

// watchReport prints a fresh report after every ingest until ctx is done.
func watchReport(ctx context.Context, mgr *services.Manager, path string, stdout io.Writer) error {
	events, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(events)

	if err := mgr.Watch(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if _, err := mgr.Ingest(path); err != nil {
		logger.Warn("run not recorded", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			switch e := event.(type) {
			case services.IngestCompletedEvent:
				if err := report.Render(stdout, e.Snapshot); err != nil {
					return err
				}
				fmt.Fprintln(stdout)
			case services.ErrorEvent:
				logger.Error("watch failed", "service", e.Service, "error", e.Error)
			}
		}
	}
}

func runTUI(mgr *services.Manager, cfg *config.Config, path string, watch bool) error {
	model := app.NewModel(mgr, path)

	// Each tab receives the shared application state for consistent data access
	state := model.GetState()
	model.SetTabs([]app.Tab{
		zones.New(state),
		slots.New(state),
		history.New(state, mgr),
		info.New(state, cfg),
	})

	if watch {
		if err := mgr.Watch(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// printUsage prints the command-line usage information.
func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprint(w, `tripstat - busiest pickup zones and hours from a trip CSV

Usage:
  tripstat [flags] [trips.csv]

With no file, the most recently ingested file from run history is used.

Flags:
`)
	fs.PrintDefaults()
	fmt.Fprint(w, `
Keyboard Shortcuts:
  1-4             Switch between tabs (Zones, Slots, History, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter/Esc       Open/close a stored run
  r               Re-ingest the file
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  TRIPSTAT_DATABASE_PATH   Run history database
  TRIPSTAT_TOP_ZONES       Zones to rank (default: 10)
  TRIPSTAT_TOP_SLOTS       Slots to rank (default: 10)
  TRIPSTAT_HISTORY_LIMIT   Runs listed in history (default: 20)
  TRIPSTAT_WATCH_DEBOUNCE  Debounce for -watch (default: 250ms)
  TRIPSTAT_NOTIFY          Desktop notification when the busiest zone changes
  TRIPSTAT_LOG_LEVEL       debug, info, warn or error
  TRIPSTAT_LOG_FILE        Log destination while the browser runs
  TRIPSTAT_CONFIG          Optional YAML file overriding the above

.env files are read from the current directory and ~/.config/tripstat/.
`)
}
