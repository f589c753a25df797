package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sweep/internal/engine"
	"github.com/roach88/sweep/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Steps bool // print the board after every move
}

// ReplayStep is the board after one replayed move.
type ReplayStep struct {
	Move engine.Move `json:"move"`
	Rows []string    `json:"rows"`
}

// ReplayResult holds the outcome of replaying one session.
type ReplayResult struct {
	SessionID     string        `json:"session_id"`
	Preset        string        `json:"preset,omitempty"`
	Config        engine.Config `json:"config"`
	Seed          int64         `json:"seed"`
	Moves         int           `json:"moves"`
	State         string        `json:"state"`
	Fingerprint   string        `json:"fingerprint"`
	Deterministic bool          `json:"deterministic"`
	Rows          []string      `json:"rows"`
	Steps         []ReplayStep  `json:"steps,omitempty"`
}

func (r ReplayResult) String() string {
	var sb strings.Builder
	for _, s := range r.Steps {
		fmt.Fprintf(&sb, "#%d %s %s: %s (%d cells) -> %s\n", s.Move.Seq, s.Move.Action, s.Move.Cell,
			s.Move.Outcome, s.Move.Changed, s.Move.State)
		for _, row := range s.Rows {
			sb.WriteString("  " + row + "\n")
		}
	}
	fmt.Fprintf(&sb, "session %s: %s (%s) seed %d\n", r.SessionID, r.Preset, r.Config, r.Seed)
	fmt.Fprintf(&sb, "replayed %d moves -> %s\n", r.Moves, r.State)
	for _, row := range r.Rows {
		sb.WriteString("  " + row + "\n")
	}
	fmt.Fprintf(&sb, "fingerprint %s\n", r.Fingerprint)
	if r.Deterministic {
		sb.WriteString("✓ replay is deterministic\n")
	} else {
		sb.WriteString("✗ replay is NOT deterministic\n")
	}
	return sb.String()
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <session-id>",
		Short: "Rebuild a journaled session and verify determinism",
		Long: `Rebuild a session from its journaled seed and moves.

Every move is re-applied to a fresh board and its outcome compared with the
journal; the session is then rebuilt a second time and both final boards
must have the same fingerprint.

Exit codes:
  0 - Replay matches the journal and is deterministic
  1 - Replay diverged from the journal
  2 - Command error (journal not found, unknown session, etc.)

Examples:
  sweep replay 0192f0c4-... --db ./sweep.db
  sweep replay 0192f0c4-... --db ./sweep.db --steps
  sweep replay 0192f0c4-... --db ./sweep.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Steps, "steps", false, "show the board after every move")

	return cmd
}

func runReplay(opts *ReplayOptions, id string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(cmd, opts.RootOptions)

	j, err := opts.OpenJournal(true)
	if err != nil {
		return err
	}
	defer j.Close()

	s, err := j.ReadSession(ctx, id)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			out.Error(CodeNotFound, err.Error(), map[string]string{"session_id": id})
			return WrapExitError(ExitCommandError, fmt.Sprintf("session %s", id), err)
		}
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	first, err := j.Load(ctx, id, engine.WithLogger(opts.Logger()))
	if err != nil {
		return replayFailure(out, err)
	}
	second, err := j.Load(ctx, id)
	if err != nil {
		return replayFailure(out, err)
	}

	snap := first.Snapshot()
	fp1, err := snap.Fingerprint()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint board", err)
	}
	fp2, err := second.Snapshot().Fingerprint()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint board", err)
	}

	result := ReplayResult{
		SessionID:     s.ID,
		Preset:        s.Preset,
		Config:        s.Config,
		Seed:          s.Seed,
		Moves:         len(first.History()),
		State:         snap.State.String(),
		Fingerprint:   fp1,
		Deterministic: fp1 == fp2,
		Rows:          snap.Rows(),
	}

	if opts.Steps {
		steps, err := replaySteps(s, first.History())
		if err != nil {
			return replayFailure(out, err)
		}
		result.Steps = steps
	}

	if err := out.Success(result); err != nil {
		return err
	}
	if !result.Deterministic {
		return NewExitError(ExitFailure, "replay is not deterministic")
	}
	return nil
}

// replaySteps rebuilds the session once per prefix of its history and
// records the board after each move.
func replaySteps(s journal.Session, moves []engine.Move) ([]ReplayStep, error) {
	steps := make([]ReplayStep, 0, len(moves))
	for i := range moves {
		e, err := engine.Replay(s.Config, s.Seed, s.Layout, moves[:i+1],
			engine.WithIDGenerator(engine.NewFixedGenerator(s.ID)))
		if err != nil {
			return nil, err
		}
		steps = append(steps, ReplayStep{Move: moves[i], Rows: e.Snapshot().Rows()})
	}
	return steps, nil
}

func replayFailure(out *OutputFormatter, err error) error {
	var re *engine.ReplayError
	if errors.As(err, &re) {
		out.Error(CodeDiverged, re.Error(), map[string]any{
			"seq":      re.Seq,
			"expected": re.Expected,
			"actual":   re.Actual,
		})
		return WrapExitError(ExitFailure, "replay diverged from journal", err)
	}
	return WrapExitError(ExitCommandError, "failed to replay session", err)
}
