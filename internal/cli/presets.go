package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sweep/internal/preset"
)

// PresetsOptions holds flags for the presets command.
type PresetsOptions struct {
	*RootOptions
	Date string // show the daily challenge for this date
}

// PresetsResult lists the available presets and the daily challenge.
type PresetsResult struct {
	Presets []preset.Preset  `json:"presets"`
	Daily   preset.Challenge `json:"daily"`
}

func (r PresetsResult) String() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tWIDTH\tHEIGHT\tMINES\tDESCRIPTION")
	for _, p := range r.Presets {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", p.Name, p.Width, p.Height, p.Mines, p.Description)
	}
	tw.Flush()
	fmt.Fprintf(&sb, "\ndaily challenge %s: %s seed %d\n", r.Daily.Date, r.Daily.Preset.Config(), r.Daily.Seed)
	return sb.String()
}

// NewPresetsCommand creates the presets command.
func NewPresetsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PresetsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List board presets and the daily challenge",
		Long: `List the built-in presets, overlaid with --presets when given, and the
daily challenge seed.

A catalog file is CUE or YAML and is validated against the preset schema:
every preset needs a positive width and height and fewer mines than cells.

Examples:
  sweep presets
  sweep presets --presets ./boards.cue
  sweep presets --date 2026-01-01 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresets(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "daily challenge date, YYYY-MM-DD (default today)")

	return cmd
}

func runPresets(opts *PresetsOptions, cmd *cobra.Command) error {
	catalog, err := opts.Catalog()
	if err != nil {
		return err
	}

	date := time.Now()
	if opts.Date != "" {
		date, err = time.Parse(preset.DateLayout, opts.Date)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --date", err)
		}
	}
	daily, err := preset.Daily(date)
	if err != nil {
		return WrapExitError(ExitCommandError, "daily challenge", err)
	}

	return newFormatter(cmd, opts.RootOptions).Success(PresetsResult{
		Presets: catalog.All(),
		Daily:   daily,
	})
}
