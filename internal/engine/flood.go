package engine

import "github.com/roach88/sweep/internal/board"

// flood reveals each start cell and cascades through zero-count cells.
//
// The worklist holds only cells whose reveal just succeeded, and
// board.Reveal refuses revealed and flagged cells, so every cell enters the
// stack at most once. Expansion stops at numbered cells: they are revealed
// but not pushed. A zero-count cell has no mine neighbors, so the cascade
// itself can never reveal a mine; only a start cell can.
//
// Returns the newly revealed cells in reveal order and whether any of them
// is a mine.
func (e *Engine) flood(starts []board.Coord) (changed []board.Coord, hit bool) {
	var stack []board.Coord

	for _, s := range starts {
		if !e.board.Reveal(s) {
			continue
		}
		changed = append(changed, s)
		cell := e.board.At(s)
		if cell.Mine {
			hit = true
			continue
		}
		if cell.Adjacent == 0 {
			stack = append(stack, s)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range e.board.Neighbors(top.Row, top.Col) {
			if !e.board.Reveal(n) {
				continue
			}
			changed = append(changed, n)
			if e.board.At(n).Adjacent == 0 {
				stack = append(stack, n)
			}
		}
	}

	return changed, hit
}

// revealMines reveals every hidden, unflagged mine for the end-of-game
// display and returns all mines other than those already revealed, in
// row-major order. Flagged mines keep their flag and are reported without
// being revealed.
func (e *Engine) revealMines() []board.Coord {
	var out []board.Coord
	for _, m := range e.board.Mines() {
		if e.board.At(m).Flagged || e.board.Reveal(m) {
			out = append(out, m)
		}
	}
	return out
}
