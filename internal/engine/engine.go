package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/roach88/sweep/internal/board"
)

// Config is the board shape for a new game.
type Config struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	Mines  int `json:"mines" yaml:"mines"`
}

// String renders the config as "WxH/M".
func (c Config) String() string {
	return fmt.Sprintf("%dx%d/%d", c.Width, c.Height, c.Mines)
}

// Engine is one game session: a board, a state and the move history.
//
// INVARIANTS:
//   - state only moves forward: Ready → Playing → {Won, Lost}
//   - board.Placed() is true iff state != Ready
//   - history holds accepted moves only, in clock order
//
// Engine is not safe for concurrent use; each session has one owner.
type Engine struct {
	id     string
	cfg    Config
	board  *board.Board
	state  GameState
	seed   int64
	rng    *rand.Rand
	layout []board.Coord // forced mine layout, nil for random placement

	clock   *Clock
	history []Move
	logger  *slog.Logger
}

// Option configures a new Engine.
type Option func(*options)

type options struct {
	seed   *int64
	layout []board.Coord
	logger *slog.Logger
	idGen  IDGenerator
}

// WithSeed fixes the mine placement seed.
//
// Default: a seed drawn from crypto/rand, readable via Engine.Seed so the
// session can be replayed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = &seed
	}
}

// WithMineLayout forces the mines onto exactly these cells at the first
// reveal, ignoring the first-click exclusion. Used by fixtures and replays
// of hand-built boards.
func WithMineLayout(mines []board.Coord) Option {
	return func(o *options) {
		o.layout = append([]board.Coord(nil), mines...)
	}
}

// WithLogger sets the logger for placement and end-of-game records.
// Default: logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithIDGenerator sets the session ID source.
// Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) {
		o.idGen = gen
	}
}

// New starts a new game session in the Ready state.
//
// Returns an InvalidConfiguration error if cfg is not a valid board, or if
// a forced mine layout does not fit it.
func New(cfg Config, opts ...Option) (*Engine, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	b, err := board.New(cfg.Width, cfg.Height, cfg.Mines)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	if o.layout != nil {
		// Validate the layout now so a bad fixture fails at setup, not on
		// the first reveal.
		check, _ := board.New(cfg.Width, cfg.Height, cfg.Mines)
		if err := check.PlaceMinesAt(o.layout); err != nil {
			return nil, fmt.Errorf("new game: mine layout: %w", err)
		}
	}

	seed := drawSeed()
	if o.seed != nil {
		seed = *o.seed
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.idGen == nil {
		o.idGen = UUIDv7Generator{}
	}

	e := &Engine{
		id:     o.idGen.Generate(),
		cfg:    cfg,
		board:  b,
		state:  Ready,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
		layout: o.layout,
		clock:  NewClock(),
		logger: o.logger,
	}
	e.logger = e.logger.With("session", e.id)
	return e, nil
}

// drawSeed returns a non-negative seed from crypto/rand, falling back to
// the wall clock if the system source fails.
func drawSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}

// ID returns the session identifier.
func (e *Engine) ID() string { return e.id }

// Config returns the board shape.
func (e *Engine) Config() Config { return e.cfg }

// Seed returns the mine placement seed.
func (e *Engine) Seed() int64 { return e.seed }

// Layout returns the forced mine layout, or nil for seeded placement.
func (e *Engine) Layout() []board.Coord {
	return append([]board.Coord(nil), e.layout...)
}

// State returns the current game state.
func (e *Engine) State() GameState { return e.state }

// Board returns the board for read-only queries. Callers must not mutate it.
func (e *Engine) Board() *board.Board { return e.board }

// MinesRemaining returns mine count minus flags placed. It goes negative
// when the player over-flags.
func (e *Engine) MinesRemaining() int {
	return e.board.MineCount() - e.board.FlagCount()
}

// History returns a copy of the accepted moves in order.
func (e *Engine) History() []Move {
	return append([]Move(nil), e.history...)
}

// LastMove returns the most recent accepted move, or false before any.
func (e *Engine) LastMove() (Move, bool) {
	if len(e.history) == 0 {
		return Move{}, false
	}
	return e.history[len(e.history)-1], true
}

// Reveal opens the cell at (row, col).
//
// Rejected when the game is over or the cell is revealed or flagged. The
// first reveal places mines away from the cell and its neighbors. A mine
// loses the game and reveals every unflagged mine; a safe cell flood-reveals
// through zero-count cells. Revealing the last safe cell wins.
//
// Returns an error only for out-of-bounds coordinates or when mines cannot
// be placed (InsufficientSpace); the session is unchanged in both cases.
func (e *Engine) Reveal(row, col int) (Result, error) {
	c := board.Coord{Row: row, Col: col}
	if err := e.board.Check(c); err != nil {
		return Result{}, fmt.Errorf("reveal: %w", err)
	}
	if e.state.Terminal() {
		return rejected(e.state, ReasonGameOver), nil
	}

	cell := e.board.At(c)
	if cell.Revealed {
		return rejected(e.state, ReasonAlreadyRevealed), nil
	}
	if cell.Flagged {
		return rejected(e.state, ReasonFlagged), nil
	}

	if e.state == Ready {
		if err := e.placeMines(c); err != nil {
			return Result{}, fmt.Errorf("reveal: %w", err)
		}
		e.state = Playing
	}

	changed, hit := e.flood([]board.Coord{c})
	return e.settle(ActionReveal, c, changed, hit), nil
}

// ToggleFlag flips the flag on the cell at (row, col).
//
// Rejected when the game is over or the cell is revealed. Flags are allowed
// before the first reveal and never change the game state.
func (e *Engine) ToggleFlag(row, col int) (Result, error) {
	c := board.Coord{Row: row, Col: col}
	if err := e.board.Check(c); err != nil {
		return Result{}, fmt.Errorf("toggle flag: %w", err)
	}
	if e.state.Terminal() {
		return rejected(e.state, ReasonGameOver), nil
	}

	flagged, ok := e.board.ToggleFlag(c)
	if !ok {
		return rejected(e.state, ReasonAlreadyRevealed), nil
	}

	res := Result{Outcome: OutcomeFlagged, State: e.state, Flagged: flagged}
	e.record(ActionFlag, c, res)
	return res, nil
}

// ChordReveal reveals every unflagged hidden neighbor of a revealed number
// cell whose flagged-neighbor count equals its number.
//
// Anything else is rejected with the board unchanged; a chord never reveals
// partially. Neighbors are revealed with the same flood rule as Reveal, and
// a mine among them loses the game exactly as Reveal does.
func (e *Engine) ChordReveal(row, col int) (Result, error) {
	c := board.Coord{Row: row, Col: col}
	if err := e.board.Check(c); err != nil {
		return Result{}, fmt.Errorf("chord reveal: %w", err)
	}
	if e.state.Terminal() {
		return rejected(e.state, ReasonGameOver), nil
	}

	cell := e.board.At(c)
	if !cell.Revealed {
		return rejected(e.state, ReasonNotRevealed), nil
	}
	if cell.Adjacent == 0 {
		return rejected(e.state, ReasonNoAdjacentMines), nil
	}

	flags := 0
	var targets []board.Coord
	for _, n := range e.board.Neighbors(row, col) {
		nc := e.board.At(n)
		switch {
		case nc.Flagged:
			flags++
		case !nc.Revealed:
			targets = append(targets, n)
		}
	}
	if flags != cell.Adjacent {
		return rejected(e.state, ReasonFlagMismatch), nil
	}
	if len(targets) == 0 {
		return rejected(e.state, ReasonNothingToReveal), nil
	}

	changed, hit := e.flood(targets)
	return e.settle(ActionChord, c, changed, hit), nil
}

// Apply dispatches an action by name. Used by replay and scripted play.
func (e *Engine) Apply(action Action, row, col int) (Result, error) {
	switch action {
	case ActionReveal:
		return e.Reveal(row, col)
	case ActionFlag:
		return e.ToggleFlag(row, col)
	case ActionChord:
		return e.ChordReveal(row, col)
	}
	return Result{}, fmt.Errorf("apply: unknown action %q", action)
}

// placeMines performs the deferred placement for a first reveal at c.
func (e *Engine) placeMines(c board.Coord) error {
	if e.layout != nil {
		if err := e.board.PlaceMinesAt(e.layout); err != nil {
			return err
		}
		e.logger.Debug("mines placed from layout", "mines", len(e.layout))
		return nil
	}

	exclude := append([]board.Coord{c}, e.board.Neighbors(c.Row, c.Col)...)
	if err := e.board.PlaceMines(exclude, e.rng); err != nil {
		return err
	}
	e.logger.Debug("mines placed", "seed", e.seed, "first", c.String(), "excluded", len(exclude))
	return nil
}

// settle applies the end-of-action transition and records the move.
func (e *Engine) settle(action Action, c board.Coord, changed []board.Coord, hit bool) Result {
	res := Result{Outcome: OutcomeRevealed, Changed: changed}

	switch {
	case hit:
		res.Changed = append(res.Changed, e.revealMines()...)
		res.Outcome = OutcomeLost
		e.state = Lost
		e.logger.Debug("game lost", "cell", c.String(), "moves", e.clock.Current()+1)
	case e.board.AllNonMineCellsRevealed():
		res.Outcome = OutcomeWon
		e.state = Won
		e.logger.Debug("game won", "moves", e.clock.Current()+1)
	}

	res.State = e.state
	e.record(action, c, res)
	return res
}

func (e *Engine) record(action Action, c board.Coord, res Result) {
	e.history = append(e.history, Move{
		Seq:     e.clock.Next(),
		Action:  action,
		Cell:    c,
		Outcome: res.Outcome,
		Changed: len(res.Changed),
		State:   res.State,
	})
}
