package journal

import (
	"path/filepath"
	"testing"

	"github.com/roach88/sweep/internal/engine"
	"github.com/roach88/sweep/internal/testutil"
)

// createTestJournal opens a journal in a temp dir with a controllable clock.
func createTestJournal(t *testing.T) (*Journal, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(testutil.Epoch)
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path, WithNow(clock.Now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j, clock
}

// newTestEngine creates a seeded 9x9/10 engine with a fixed session ID.
func newTestEngine(t *testing.T, id string) *engine.Engine {
	t.Helper()
	return testutil.SeededEngine(t, id, engine.Config{Width: 9, Height: 9, Mines: 10}, 99)
}

// newLayoutEngine creates an engine with mines forced onto '*' cells.
func newLayoutEngine(t *testing.T, id string, rows ...string) *engine.Engine {
	t.Helper()
	return testutil.LayoutEngine(t, id, rows...)
}
