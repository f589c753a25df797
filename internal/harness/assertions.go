package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/sweep/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes the final board to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Board    []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFinal board:\n")
	for _, row := range e.Board {
		fmt.Fprintf(&buf, "  %s\n", row)
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the final snapshot and
// returns the failure messages.
func EvaluateAssertions(final engine.Snapshot, assertions []Assertion) []string {
	var msgs []string
	for _, a := range assertions {
		if err := evaluate(final, a); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

func evaluate(s engine.Snapshot, a Assertion) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Board: s.Rows()}
	}

	switch a.Type {
	case AssertFinalState:
		if s.State.String() != a.State {
			return fail(a.State, s.State.String())
		}
	case AssertMinesRemaining:
		if s.MinesRemaining != *a.Value {
			return fail(fmt.Sprint(*a.Value), fmt.Sprint(s.MinesRemaining))
		}
	case AssertRevealedCount:
		if n := revealedCount(s); n != *a.Value {
			return fail(fmt.Sprint(*a.Value), fmt.Sprint(n))
		}
	case AssertMoves:
		if s.Moves != int64(*a.Value) {
			return fail(fmt.Sprint(*a.Value), fmt.Sprint(s.Moves))
		}
	case AssertCell:
		row, col := a.At[0], a.At[1]
		if row < 0 || row >= s.Height || col < 0 || col >= s.Width {
			return fail(fmt.Sprintf("cell (%d,%d) = %s", row, col, a.Glyph), "outside board")
		}
		if got := string(s.Cells[row][col].Glyph()); got != a.Glyph {
			return fail(fmt.Sprintf("cell (%d,%d) = %s", row, col, a.Glyph), got)
		}
	case AssertRows:
		got := s.Rows()
		if strings.Join(got, "/") != strings.Join(a.Rows, "/") {
			return fail(strings.Join(a.Rows, "/"), strings.Join(got, "/"))
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func revealedCount(s engine.Snapshot) int {
	n := 0
	for _, row := range s.Cells {
		for _, c := range row {
			if c.Revealed {
				n++
			}
		}
	}
	return n
}
