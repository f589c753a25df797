package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sweep/internal/canon"
)

// Golden returns the canonical JSON golden document for a scenario run:
// the step trace and the final visible board.
func Golden(name string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, e := range result.Trace {
		event := map[string]any{
			"step":    e.Step,
			"action":  string(e.Action),
			"at":      []int{e.Cell.Row, e.Cell.Col},
			"state":   e.State.String(),
			"changed": e.Changed,
			"seq":     e.Seq,
		}
		if e.Outcome != "" {
			event["outcome"] = string(e.Outcome)
		}
		if e.Reason != "" {
			event["reason"] = string(e.Reason)
		}
		if e.Error != "" {
			event["error"] = e.Error
		}
		trace[i] = event
	}

	doc := map[string]any{
		"scenario": name,
		"trace":    trace,
		"final": map[string]any{
			"state":           result.Final.State.String(),
			"mines_remaining": result.Final.MinesRemaining,
			"moves":           result.Final.Moves,
			"rows":            result.Final.Rows(),
		},
	}
	return canon.Marshal(doc)
}

// RunWithGolden executes a scenario and compares its golden document with
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot run. Expectation failures are left
// in the returned Result for the caller to assert on.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := Golden(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}
