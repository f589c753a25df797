package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sweep/internal/journal"
)

// SessionsOptions holds flags for the sessions command.
type SessionsOptions struct {
	*RootOptions
	Active bool
	Limit  int
	Prune  bool
}

// SessionRow is one listed session.
type SessionRow struct {
	journal.Session
	Expired bool `json:"expired"`
}

// SessionsResult holds the sessions listing.
type SessionsResult struct {
	Sessions []SessionRow `json:"sessions"`
	Pruned   int64        `json:"pruned"`
}

func (r SessionsResult) String() string {
	var sb strings.Builder
	if r.Pruned > 0 {
		fmt.Fprintf(&sb, "pruned %d expired session(s)\n", r.Pruned)
	}
	if len(r.Sessions) == 0 {
		sb.WriteString("No sessions found.\n")
		return sb.String()
	}

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRESET\tBOARD\tSTATE\tMOVES\tUPDATED")
	for _, s := range r.Sessions {
		state := s.State.String()
		if s.Expired {
			state += " (expired)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Preset, s.Config, state, s.Moves, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
	return sb.String()
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List journaled sessions",
		Long: `List journaled sessions, newest first.

Unfinished sessions expire 24 hours after their last move. --prune deletes
expired sessions before listing.

Examples:
  sweep sessions --db ./sweep.db
  sweep sessions --db ./sweep.db --active --limit 5
  sweep sessions --db ./sweep.db --prune --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Active, "active", false, "only sessions still in play")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum sessions to list (0 = all)")
	cmd.Flags().BoolVar(&opts.Prune, "prune", false, "delete expired sessions first")

	return cmd
}

func runSessions(opts *SessionsOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must not be negative")
	}

	j, err := opts.OpenJournal(true)
	if err != nil {
		return err
	}
	defer j.Close()

	result := SessionsResult{Sessions: []SessionRow{}}
	if opts.Prune {
		n, err := j.PruneExpired(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to prune sessions", err)
		}
		result.Pruned = n
	}

	sessions, err := j.ListSessions(ctx, journal.ListOptions{ActiveOnly: opts.Active, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}
	for _, s := range sessions {
		result.Sessions = append(result.Sessions, SessionRow{Session: s, Expired: j.IsExpired(s)})
	}

	return newFormatter(cmd, opts.RootOptions).Success(result)
}
