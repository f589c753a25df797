package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sweep/internal/journal"
	"github.com/roach88/sweep/internal/preset"
)

// Environment variables that supply flag defaults. cmd/sweep loads them
// from .env before the root command is built.
const (
	EnvDatabase = "SWEEP_DB"
	EnvPresets  = "SWEEP_PRESETS"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // journal path; empty disables persistence
	Presets  string // optional .cue/.yaml preset catalog

	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sweep CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep - Minesweeper in the terminal",
		Long: `A Minesweeper rules engine with a terminal front end.

Games are played on stdin, journaled to SQLite when --db is set, and can be
resumed or replayed move by move. Scenario files drive the rules engine
without a board on screen.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", os.Getenv(EnvDatabase),
		"path to the SQLite journal (env "+EnvDatabase+")")
	cmd.PersistentFlags().StringVar(&opts.Presets, "presets", os.Getenv(EnvPresets),
		"preset catalog file, .cue or .yaml (env "+EnvPresets+")")

	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))
	cmd.AddCommand(NewPresetsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// newLogger writes text records to w; verbose selects debug level.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Logger returns the command logger, discarding output when the root
// pre-run hook has not configured one (subcommands run directly in tests).
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.logger
}

// Catalog returns the built-in presets, overlaid with --presets if set.
func (o *RootOptions) Catalog() (*preset.Catalog, error) {
	if o.Presets == "" {
		return preset.Builtin(), nil
	}
	c, err := preset.LoadCatalog(o.Presets)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load presets", err)
	}
	o.Logger().Debug("preset catalog loaded", "path", o.Presets, "presets", c.Len())
	return c, nil
}

// OpenJournal opens the --db journal. Commands that cannot work without
// one call it with required set.
func (o *RootOptions) OpenJournal(required bool) (*journal.Journal, error) {
	if o.Database == "" {
		if required {
			return nil, NewExitError(ExitCommandError, "--db (or "+EnvDatabase+") is required")
		}
		return nil, nil
	}
	j, err := journal.Open(o.Database, journal.WithLogger(o.Logger()))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	o.Logger().Debug("journal ready", "path", o.Database)
	return j, nil
}
