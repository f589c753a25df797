// Package harness runs scripted games as conformance tests.
//
// A scenario builds a board from a seed or a fixed mine layout, applies a
// list of steps, checks each step's expected result, and finally evaluates
// assertions against the final board. Every run is also journaled into an
// in-memory database and rebuilt by replay, so each scenario doubles as a
// replay-determinism check.
//
// # Scenario Format
//
//	name: chord_wrong_flag
//	description: "A chord with a misplaced flag loses"
//	board:
//	  layout:
//	    - "*.."
//	    - "..."
//	    - "..."
//	steps:
//	  - action: reveal
//	    at: [1, 1]
//	    expect: { outcome: revealed, state: playing, changed: 1 }
//	  - action: flag
//	    at: [0, 1]
//	  - action: chord
//	    at: [1, 1]
//	    expect: { outcome: lost }
//	assertions:
//	  - type: final_state
//	    state: lost
//	  - type: cell
//	    at: [0, 1]
//	    glyph: F
//
// A seeded board gives width, height and mines instead of a layout, plus a
// top-level seed.
//
// # Golden Files
//
// RunWithGolden writes the step trace and final board as canonical JSON and
// compares it with testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
