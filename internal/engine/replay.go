package engine

import (
	"fmt"

	"github.com/roach88/sweep/internal/board"
)

// Move is one accepted action as recorded in the session history.
type Move struct {
	Seq     int64       `json:"seq"`
	Action  Action      `json:"action"`
	Cell    board.Coord `json:"cell"`
	Outcome Outcome     `json:"outcome"`
	Changed int         `json:"changed"`
	State   GameState   `json:"state"`
}

// ReplayError reports the first move whose replayed result differs from
// the recorded one.
type ReplayError struct {
	Seq      int64
	Action   Action
	Cell     board.Coord
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay diverged at move %d (%s %s): expected %s, got %s",
		e.Seq, e.Action, e.Cell, e.Expected, e.Actual)
}

// Replay rebuilds a session by re-applying recorded moves to a fresh engine
// created from cfg and seed (or layout, if non-nil).
//
// Because placement is seeded and every operation is deterministic, a
// faithful history reproduces the original board exactly. Each move's
// outcome, changed-cell count and resulting state are checked; the first
// mismatch is returned as a *ReplayError.
func Replay(cfg Config, seed int64, layout []board.Coord, moves []Move, opts ...Option) (*Engine, error) {
	all := append([]Option{WithSeed(seed)}, opts...)
	if layout != nil {
		all = append(all, WithMineLayout(layout))
	}

	e, err := New(cfg, all...)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	for _, m := range moves {
		res, err := e.Apply(m.Action, m.Cell.Row, m.Cell.Col)
		if err != nil {
			return nil, fmt.Errorf("replay move %d: %w", m.Seq, err)
		}

		want := describe(m.Outcome, m.Changed, m.State)
		got := describe(res.Outcome, len(res.Changed), res.State)
		if res.Rejected() || want != got {
			return nil, &ReplayError{
				Seq:      m.Seq,
				Action:   m.Action,
				Cell:     m.Cell,
				Expected: want,
				Actual:   got,
			}
		}
	}

	return e, nil
}

func describe(o Outcome, changed int, s GameState) string {
	return fmt.Sprintf("%s/%d/%s", o, changed, s)
}
