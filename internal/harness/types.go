package harness

import (
	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step    int              `json:"step"`
	Seq     int64            `json:"seq"` // 0 for rejected actions and errors
	Action  engine.Action    `json:"action"`
	Cell    board.Coord      `json:"cell"`
	Outcome engine.Outcome   `json:"outcome,omitempty"`
	State   engine.GameState `json:"state"`
	Changed int              `json:"changed"`
	Reason  engine.Reason    `json:"reason,omitempty"`
	Error   string           `json:"error,omitempty"` // board error code
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// Final is the board after the last step.
	Final engine.Snapshot `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
