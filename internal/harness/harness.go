package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
	"github.com/roach88/sweep/internal/journal"
)

// Harness executes one scenario against a fresh engine.
type Harness struct {
	engine  *engine.Engine
	journal *journal.Journal
	logger  *slog.Logger
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger passed to the engine and journal.
// Default: logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		o.logger = logger
	}
}

// SessionID returns the fixed session ID used for a scenario.
func SessionID(scenario *Scenario) string {
	return "scenario-" + scenario.Name
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation.
// Execution flow:
// 1. Build the engine from the scenario board (fixed layout or seed)
// 2. Apply each step, checking its expectation
// 3. Journal the session and rebuild it by replay
// 4. Evaluate assertions against the final board
//
// Expectation and assertion failures are reported in Result.Errors; the
// returned error is for scenarios that cannot run at all.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := &runOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}

	cfg, layout, err := scenario.Board.Config()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	engineOpts := []engine.Option{
		engine.WithSeed(scenario.Seed),
		engine.WithIDGenerator(engine.NewFixedGenerator(SessionID(scenario))),
		engine.WithLogger(o.logger),
	}
	if layout != nil {
		engineOpts = append(engineOpts, engine.WithMineLayout(layout))
	}
	eng, err := engine.New(cfg, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	j, err := journal.Open(":memory:", journal.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	h := &Harness{engine: eng, journal: j, logger: o.logger}
	ctx := context.Background()

	result := NewResult()
	h.executeSteps(scenario.Steps, result)

	if err := h.checkReplay(ctx, scenario); err != nil {
		result.AddError(err.Error())
	}

	result.Final = eng.Snapshot()
	for _, msg := range EvaluateAssertions(result.Final, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeSteps applies every step and records its trace event.
func (h *Harness) executeSteps(steps []Step, result *Result) {
	for i, step := range steps {
		action := engine.Action(step.Action)
		cell := board.Coord{Row: step.At[0], Col: step.At[1]}
		before := h.engine.Board().RevealedCount()
		seqBefore := len(h.engine.History())

		event := TraceEvent{Step: i + 1, Action: action, Cell: cell}
		res, err := h.engine.Apply(action, cell.Row, cell.Col)
		if err != nil {
			event.Error = errorCode(err)
			event.State = h.engine.State()
		} else {
			event.Outcome = res.Outcome
			event.State = res.State
			event.Changed = len(res.Changed)
			event.Reason = res.Reason
			if history := h.engine.History(); len(history) > seqBefore {
				event.Seq = history[len(history)-1].Seq
			}
		}
		result.Trace = append(result.Trace, event)

		h.logger.Debug("step applied",
			"step", event.Step,
			"action", string(action),
			"cell", cell.String(),
			"outcome", string(event.Outcome),
			"revealed", h.engine.Board().RevealedCount()-before,
		)

		var msgs []string
		switch {
		case step.Expect != nil:
			msgs = checkExpect(event, err, *step.Expect)
		case err != nil:
			msgs = []string{fmt.Sprintf("unexpected error: %v", err)}
		}
		for _, msg := range msgs {
			result.AddError(fmt.Sprintf("step %d (%s %s): %s", event.Step, action, cell, msg))
		}
	}
}

// checkReplay journals the session, rebuilds it from the journal and
// compares fingerprints.
func (h *Harness) checkReplay(ctx context.Context, scenario *Scenario) error {
	if err := h.journal.CreateSession(ctx, h.engine, scenario.Name); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	rebuilt, err := h.journal.Load(ctx, h.engine.ID())
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	want, err := h.engine.Snapshot().Fingerprint()
	if err != nil {
		return err
	}
	got, err := rebuilt.Snapshot().Fingerprint()
	if err != nil {
		return err
	}
	if want != got {
		return fmt.Errorf("replay: rebuilt board fingerprint %s, played %s", got[:12], want[:12])
	}
	return nil
}

func checkExpect(event TraceEvent, err error, want Expect) []string {
	var msgs []string
	if want.Error != "" {
		if event.Error != want.Error {
			msgs = append(msgs, fmt.Sprintf("expected error %s, got %s", want.Error, describeActual(event, err)))
		}
		return msgs
	}
	if err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	}

	if want.Outcome != "" && string(event.Outcome) != want.Outcome {
		msgs = append(msgs, fmt.Sprintf("expected outcome %s, got %s", want.Outcome, event.Outcome))
	}
	if want.State != "" && event.State.String() != want.State {
		msgs = append(msgs, fmt.Sprintf("expected state %s, got %s", want.State, event.State))
	}
	if want.Reason != "" && string(event.Reason) != want.Reason {
		msgs = append(msgs, fmt.Sprintf("expected reason %s, got %q", want.Reason, event.Reason))
	}
	if want.Changed != nil && event.Changed != *want.Changed {
		msgs = append(msgs, fmt.Sprintf("expected %d changed cells, got %d", *want.Changed, event.Changed))
	}
	return msgs
}

func describeActual(event TraceEvent, err error) string {
	if err == nil {
		return "no error (outcome " + string(event.Outcome) + ")"
	}
	if event.Error != "" {
		return event.Error
	}
	return err.Error()
}

// errorCode returns the board error code of err, or "ERROR" for anything
// else.
func errorCode(err error) string {
	var be *board.Error
	if errors.As(err, &be) {
		return string(be.Code)
	}
	return "ERROR"
}
