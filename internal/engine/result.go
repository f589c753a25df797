package engine

import (
	"fmt"

	"github.com/roach88/sweep/internal/board"
)

// Action identifies a player action.
type Action string

const (
	ActionReveal Action = "reveal"
	ActionFlag   Action = "flag"
	ActionChord  Action = "chord"
)

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	switch a := Action(name); a {
	case ActionReveal, ActionFlag, ActionChord:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", name)
}

// Outcome classifies the result of an action.
type Outcome string

const (
	// OutcomeRejected: the action was refused and nothing changed.
	OutcomeRejected Outcome = "rejected"
	// OutcomeRevealed: cells were revealed and the game goes on.
	OutcomeRevealed Outcome = "revealed"
	// OutcomeFlagged: a flag was placed or removed.
	OutcomeFlagged Outcome = "flagged"
	// OutcomeWon: the action revealed the last safe cell.
	OutcomeWon Outcome = "won"
	// OutcomeLost: the action revealed a mine.
	OutcomeLost Outcome = "lost"
)

// Reason explains a rejected action.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonGameOver        Reason = "game_over"
	ReasonAlreadyRevealed Reason = "already_revealed"
	ReasonFlagged         Reason = "flagged"
	ReasonNotRevealed     Reason = "not_revealed"
	ReasonNoAdjacentMines Reason = "no_adjacent_mines"
	ReasonFlagMismatch    Reason = "flag_mismatch"
	ReasonNothingToReveal Reason = "nothing_to_reveal"
)

// Result describes what an action changed.
type Result struct {
	Outcome Outcome   `json:"outcome"`
	State   GameState `json:"state"`

	// Changed lists the cells whose revealed state changed, in reveal order.
	// For a loss it includes every mine revealed at game end.
	Changed []board.Coord `json:"changed,omitempty"`

	// Flagged is the new flag state after a flag action.
	Flagged bool `json:"flagged,omitempty"`

	// Reason is set when Outcome is OutcomeRejected.
	Reason Reason `json:"reason,omitempty"`
}

// Rejected reports whether the action was refused.
func (r Result) Rejected() bool {
	return r.Outcome == OutcomeRejected
}

func rejected(state GameState, reason Reason) Result {
	return Result{Outcome: OutcomeRejected, State: state, Reason: reason}
}
