package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
)

// SequenceGenerator generates session IDs of the form "{prefix}-{n}",
// starting at 1.
//
// Unlike engine.FixedGenerator, which panics once its list is consumed,
// SequenceGenerator never runs out. This suits tests that create an unknown
// number of sessions but still want stable, sortable IDs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator. An empty prefix means "session".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "session"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next ID. Implements engine.IDGenerator.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n)
}

// LayoutEngine creates an engine whose mines are forced onto the '*' cells
// of rows, with session ID id and seed 1.
//
//	e := testutil.LayoutEngine(t, "s1",
//	    "*..",
//	    "...",
//	)
func LayoutEngine(t testing.TB, id string, rows ...string) *engine.Engine {
	t.Helper()
	l, err := board.ParseLayout(rows)
	if err != nil {
		t.Fatalf("ParseLayout() failed: %v", err)
	}
	e, err := engine.New(engine.Config{Width: l.Width, Height: l.Height, Mines: len(l.Mines)},
		engine.WithMineLayout(l.Mines),
		engine.WithSeed(1),
		engine.WithIDGenerator(engine.NewFixedGenerator(id)),
	)
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}
	return e
}

// SeededEngine creates an engine for cfg with a fixed seed and session ID.
func SeededEngine(t testing.TB, id string, cfg engine.Config, seed int64) *engine.Engine {
	t.Helper()
	e, err := engine.New(cfg,
		engine.WithSeed(seed),
		engine.WithIDGenerator(engine.NewFixedGenerator(id)),
	)
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}
	return e
}

// Play applies moves written as "action row col" triples and fails the test
// on any error. Rejected actions are not failures.
//
//	testutil.Play(t, e, "reveal", 1, 1, "flag", 0, 0)
func Play(t testing.TB, e *engine.Engine, moves ...any) []engine.Result {
	t.Helper()
	if len(moves)%3 != 0 {
		t.Fatalf("Play: moves must be (action, row, col) triples, got %d values", len(moves))
	}
	results := make([]engine.Result, 0, len(moves)/3)
	for i := 0; i < len(moves); i += 3 {
		name, ok1 := moves[i].(string)
		row, ok2 := moves[i+1].(int)
		col, ok3 := moves[i+2].(int)
		if !ok1 || !ok2 || !ok3 {
			t.Fatalf("Play: move %d is not (string, int, int)", i/3)
		}
		action, err := engine.ParseAction(name)
		if err != nil {
			t.Fatalf("Play: %v", err)
		}
		res, err := e.Apply(action, row, col)
		if err != nil {
			t.Fatalf("Play: %s (%d,%d): %v", name, row, col, err)
		}
		results = append(results, res)
	}
	return results
}
