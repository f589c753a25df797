package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
	"github.com/roach88/sweep/internal/journal"
	"github.com/roach88/sweep/internal/preset"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Difficulty string
	Width      int
	Height     int
	Mines      int
	Seed       int64
	Daily      bool
	Date       string // YYYY-MM-DD for --daily; default today
	Resume     string // session ID to continue

	now func() time.Time
}

// GameInfo describes the session a play command starts or resumes.
type GameInfo struct {
	SessionID string        `json:"session_id"`
	Preset    string        `json:"preset"`
	Config    engine.Config `json:"config"`
	Seed      int64         `json:"seed"`
	Resumed   bool          `json:"resumed"`
	Journaled bool          `json:"journaled"`
	State     string        `json:"state"`
	Rows      []string      `json:"rows"`

	snapshot engine.Snapshot
}

func (g GameInfo) String() string {
	verb := "new game"
	if g.Resumed {
		verb = "resumed"
	}
	return fmt.Sprintf("%s: %s (%s) seed %d\n%s\n%s",
		verb, g.Preset, g.Config, g.Seed, statusLine(g.snapshot), renderBoard(g.snapshot))
}

// PlayStep is the output of one applied action.
type PlayStep struct {
	Action         engine.Action    `json:"action"`
	Cell           board.Coord      `json:"cell"`
	Outcome        engine.Outcome   `json:"outcome"`
	Reason         engine.Reason    `json:"reason,omitempty"`
	Changed        int              `json:"changed"`
	State          engine.GameState `json:"state"`
	MinesRemaining int              `json:"mines_remaining"`
	Moves          int64            `json:"moves"`
	Rows           []string         `json:"rows"`

	snapshot engine.Snapshot
}

func (p PlayStep) String() string {
	var head string
	switch p.Outcome {
	case engine.OutcomeRejected:
		head = fmt.Sprintf("%s %s: rejected (%s)", p.Action, p.Cell, p.Reason)
	case engine.OutcomeWon:
		head = fmt.Sprintf("%s %s: you win!", p.Action, p.Cell)
	case engine.OutcomeLost:
		head = fmt.Sprintf("%s %s: boom, you lose", p.Action, p.Cell)
	default:
		head = fmt.Sprintf("%s %s: %s, %d cells", p.Action, p.Cell, p.Outcome, p.Changed)
	}
	return head + "\n" + statusLine(p.snapshot) + "\n" + renderBoard(p.snapshot)
}

const playHelp = `commands:
  r ROW COL   reveal a cell          (also: reveal, open)
  f ROW COL   toggle a flag          (also: flag)
  c ROW COL   chord around a number  (also: chord)
  s           show the board         (also: show, board)
  q           quit; journaled games can be resumed for 24h (also: quit, exit)`

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts, now: time.Now}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game on stdin",
		Long: `Start a new game, or resume a journaled one, and read commands from stdin.

` + playHelp + `

With --db every accepted move is journaled, so an unfinished game can be
continued with --resume for 24 hours after its last move.

Exit codes:
  0 - Input ended (win, loss or quit)
  2 - Command error (unknown preset, bad board, session not resumable)

Examples:
  sweep play --difficulty expert
  sweep play --width 20 --height 10 --mines 30 --seed 7
  sweep play --daily --db ./sweep.db
  sweep play --resume 0192f0c4-... --db ./sweep.db
  echo "r 4 4" | sweep play --seed 1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Difficulty, "difficulty", "d", preset.Beginner, "preset name")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "custom board width")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "custom board height")
	cmd.Flags().IntVar(&opts.Mines, "mines", 0, "custom mine count")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "mine placement seed (default random)")
	cmd.Flags().BoolVar(&opts.Daily, "daily", false, "play the daily challenge")
	cmd.Flags().StringVar(&opts.Date, "date", "", "daily challenge date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.Resume, "resume", "", "resume a journaled session by ID")

	for _, other := range []string{"resume", "seed", "difficulty", "width", "height", "mines"} {
		cmd.MarkFlagsMutuallyExclusive("daily", other)
	}

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(cmd, opts.RootOptions)
	logger := opts.Logger()

	j, err := opts.OpenJournal(opts.Resume != "")
	if err != nil {
		return err
	}
	if j != nil {
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
	}

	e, info, err := startGame(ctx, opts, cmd, j)
	if err != nil {
		return err
	}
	if err := out.Success(info); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for !e.State().Terminal() && scanner.Scan() {
		if err := ctx.Err(); err != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		pc, err := parsePlayLine(line)
		if err != nil {
			out.Error(CodeInput, err.Error(), map[string]string{"line": line})
			continue
		}

		switch pc.verb {
		case verbQuit:
			return finishPlay(out, e, j != nil)
		case verbHelp:
			if !out.JSON() {
				fmt.Fprintln(out.Writer, playHelp)
			}
			continue
		case verbShow:
			snap := e.Snapshot()
			if err := out.Success(newGameInfo(e, info.Preset, info.Resumed, j != nil, snap)); err != nil {
				return err
			}
			continue
		}

		res, err := e.Apply(pc.action, pc.row, pc.col)
		if err != nil {
			out.Error(CodeBoard, err.Error(), boardErrorDetails(err))
			continue
		}
		if j != nil && !res.Rejected() {
			if m, ok := e.LastMove(); ok {
				if err := j.AppendMove(ctx, e.ID(), m); err != nil {
					return WrapExitError(ExitCommandError, "failed to journal move", err)
				}
			}
		}

		snap := e.Snapshot()
		step := PlayStep{
			Action:         pc.action,
			Cell:           board.Coord{Row: pc.row, Col: pc.col},
			Outcome:        res.Outcome,
			Reason:         res.Reason,
			Changed:        len(res.Changed),
			State:          res.State,
			MinesRemaining: snap.MinesRemaining,
			Moves:          snap.Moves,
			Rows:           snap.Rows(),
			snapshot:       snap,
		}
		if err := out.Success(step); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return finishPlay(out, e, j != nil)
}

// startGame builds or resumes the engine and journals a new session.
func startGame(ctx context.Context, opts *PlayOptions, cmd *cobra.Command, j *journal.Journal) (*engine.Engine, GameInfo, error) {
	logger := opts.Logger()

	if opts.Resume != "" {
		s, err := j.ReadSession(ctx, opts.Resume)
		if err != nil {
			return nil, GameInfo{}, resumeExitError(opts.Resume, err)
		}
		e, err := j.Resume(ctx, opts.Resume, engine.WithLogger(logger))
		if err != nil {
			return nil, GameInfo{}, resumeExitError(opts.Resume, err)
		}
		logger.Info("session resumed", "session", e.ID(), "moves", len(e.History()))
		return e, newGameInfo(e, s.Preset, true, true, e.Snapshot()), nil
	}

	p, seed, err := choosePreset(opts, cmd)
	if err != nil {
		return nil, GameInfo{}, err
	}

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if seed != nil {
		engineOpts = append(engineOpts, engine.WithSeed(*seed))
	}
	e, err := engine.New(p.Config(), engineOpts...)
	if err != nil {
		return nil, GameInfo{}, WrapExitError(ExitCommandError, "invalid board", err)
	}

	if j != nil {
		if err := j.CreateSession(ctx, e, p.Name); err != nil {
			return nil, GameInfo{}, WrapExitError(ExitCommandError, "failed to journal session", err)
		}
	}
	logger.Info("game started", "session", e.ID(), "preset", p.Name, "config", p.Config().String())
	return e, newGameInfo(e, p.Name, false, j != nil, e.Snapshot()), nil
}

// choosePreset resolves the board shape from --daily, the custom size
// flags or --difficulty, in that order. The returned seed is nil when
// placement should be random.
func choosePreset(opts *PlayOptions, cmd *cobra.Command) (preset.Preset, *int64, error) {
	var seed *int64
	if cmd.Flags().Changed("seed") {
		seed = &opts.Seed
	}

	if opts.Daily {
		date := opts.now()
		if opts.Date != "" {
			d, err := time.Parse(preset.DateLayout, opts.Date)
			if err != nil {
				return preset.Preset{}, nil, WrapExitError(ExitCommandError, "invalid --date", err)
			}
			date = d
		}
		c, err := preset.Daily(date)
		if err != nil {
			return preset.Preset{}, nil, WrapExitError(ExitCommandError, "daily challenge", err)
		}
		return c.Preset, &c.Seed, nil
	}

	catalog, err := opts.Catalog()
	if err != nil {
		return preset.Preset{}, nil, err
	}
	base, err := catalog.Get(opts.Difficulty)
	if err != nil {
		return preset.Preset{}, nil, WrapExitError(ExitCommandError, "invalid --difficulty", err)
	}

	custom := cmd.Flags().Changed("width") || cmd.Flags().Changed("height") || cmd.Flags().Changed("mines")
	if !custom {
		return base, seed, nil
	}
	w, h, m := base.Width, base.Height, base.Mines
	if cmd.Flags().Changed("width") {
		w = opts.Width
	}
	if cmd.Flags().Changed("height") {
		h = opts.Height
	}
	if cmd.Flags().Changed("mines") {
		m = opts.Mines
	}
	p, err := preset.NewCustom(w, h, m)
	if err != nil {
		return preset.Preset{}, nil, WrapExitError(ExitCommandError, "invalid custom board", err)
	}
	return p, seed, nil
}

func newGameInfo(e *engine.Engine, presetName string, resumed, journaled bool, snap engine.Snapshot) GameInfo {
	return GameInfo{
		SessionID: e.ID(),
		Preset:    presetName,
		Config:    e.Config(),
		Seed:      e.Seed(),
		Resumed:   resumed,
		Journaled: journaled,
		State:     snap.State.String(),
		Rows:      snap.Rows(),
		snapshot:  snap,
	}
}

func finishPlay(out *OutputFormatter, e *engine.Engine, journaled bool) error {
	if out.JSON() {
		return nil
	}
	switch {
	case e.State().Terminal():
		fmt.Fprintf(out.Writer, "game over: %s after %d moves\n", e.State(), len(e.History()))
	case journaled:
		fmt.Fprintf(out.Writer, "session %s saved; continue with: sweep play --resume %s\n", e.ID(), e.ID())
	default:
		fmt.Fprintln(out.Writer, "game abandoned")
	}
	return nil
}

func resumeExitError(id string, err error) error {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		return WrapExitError(ExitCommandError, fmt.Sprintf("session %s", id), err)
	case errors.Is(err, journal.ErrFinished), errors.Is(err, journal.ErrExpired):
		return WrapExitError(ExitCommandError, "session is not resumable", err)
	}
	var re *engine.ReplayError
	if errors.As(err, &re) {
		return WrapExitError(ExitFailure, "journal does not replay", err)
	}
	return WrapExitError(ExitCommandError, "failed to resume session", err)
}

func boardErrorDetails(err error) any {
	var be *board.Error
	if errors.As(err, &be) {
		return map[string]any{"code": string(be.Code), "details": be.Details}
	}
	return nil
}

const (
	verbAction = "action"
	verbShow   = "show"
	verbHelp   = "help"
	verbQuit   = "quit"
)

// playCommand is one parsed input line.
type playCommand struct {
	verb   string
	action engine.Action
	row    int
	col    int
}

var verbAliases = map[string]string{
	"r": string(engine.ActionReveal), "reveal": string(engine.ActionReveal), "open": string(engine.ActionReveal),
	"f": string(engine.ActionFlag), "flag": string(engine.ActionFlag),
	"c": string(engine.ActionChord), "chord": string(engine.ActionChord),
	"s": verbShow, "show": verbShow, "board": verbShow,
	"h": verbHelp, "help": verbHelp, "?": verbHelp,
	"q": verbQuit, "quit": verbQuit, "exit": verbQuit,
}

// parsePlayLine parses "VERB [ROW COL]". Coordinates may also be written
// as "ROW,COL".
func parsePlayLine(line string) (playCommand, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) == 0 {
		return playCommand{}, fmt.Errorf("empty command")
	}

	name, ok := verbAliases[strings.ToLower(fields[0])]
	if !ok {
		return playCommand{}, fmt.Errorf("unknown command %q (type help)", fields[0])
	}

	action, err := engine.ParseAction(name)
	if err != nil {
		if len(fields) != 1 {
			return playCommand{}, fmt.Errorf("%s takes no arguments", name)
		}
		return playCommand{verb: name}, nil
	}

	if len(fields) != 3 {
		return playCommand{}, fmt.Errorf("%s needs ROW COL", name)
	}
	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return playCommand{}, fmt.Errorf("invalid row %q", fields[1])
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return playCommand{}, fmt.Errorf("invalid column %q", fields[2])
	}
	return playCommand{verb: verbAction, action: action, row: row, col: col}, nil
}
