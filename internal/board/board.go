package board

import (
	"fmt"
	"math"
	"math/rand"
)

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// String renders the coordinate as "(row,col)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Cell is the stored state of a single grid position.
type Cell struct {
	Mine     bool
	Revealed bool
	Flagged  bool

	// Adjacent is the number of mines among the up-to-8 neighbors.
	// Valid only once mines have been placed.
	Adjacent int
}

// Board is a width × height grid with a fixed number of mines.
//
// Cells are stored row-major in a single slice. Counters for flags and
// revealed safe cells are maintained on every mutation so win checks and
// the mines-remaining display never rescan the grid.
type Board struct {
	width     int
	height    int
	mineCount int
	cells     []Cell
	placed    bool

	flags        int
	revealed     int
	safeRevealed int
}

// New creates a board with all cells hidden, unflagged and mine-free.
//
// Returns an InvalidConfiguration error if width or height is not positive,
// or mineCount is not strictly between 0 and width*height.
func New(width, height, mineCount int) (*Board, error) {
	if width <= 0 {
		return nil, newConfigError(width, height, mineCount, fmt.Sprintf("width must be positive, got %d", width))
	}
	if height <= 0 {
		return nil, newConfigError(width, height, mineCount, fmt.Sprintf("height must be positive, got %d", height))
	}
	if width > math.MaxInt/height {
		return nil, newConfigError(width, height, mineCount,
			fmt.Sprintf("board %dx%d has too many cells", width, height))
	}
	if mineCount <= 0 || mineCount >= width*height {
		return nil, newConfigError(width, height, mineCount,
			fmt.Sprintf("mine count must be in (0, %d), got %d", width*height, mineCount))
	}

	return &Board{
		width:     width,
		height:    height,
		mineCount: mineCount,
		cells:     make([]Cell, width*height),
	}, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// MineCount returns the configured number of mines.
func (b *Board) MineCount() int { return b.mineCount }

// Placed reports whether mines have been placed.
func (b *Board) Placed() bool { return b.placed }

// FlagCount returns the number of flagged cells.
func (b *Board) FlagCount() int { return b.flags }

// RevealedCount returns the number of revealed cells, mines included.
func (b *Board) RevealedCount() int { return b.revealed }

// InBounds reports whether c lies inside the grid.
func (b *Board) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < b.height && c.Col >= 0 && c.Col < b.width
}

// Check returns an OutOfBounds error if c lies outside the grid.
func (b *Board) Check(c Coord) error {
	if !b.InBounds(c) {
		return NewOutOfBoundsError(c, b.width, b.height)
	}
	return nil
}

// Cell returns a copy of the cell at (row, col).
func (b *Board) Cell(row, col int) (Cell, error) {
	c := Coord{Row: row, Col: col}
	if err := b.Check(c); err != nil {
		return Cell{}, err
	}
	return b.cells[b.index(c)], nil
}

// At returns a copy of the cell at c. c must be in bounds.
func (b *Board) At(c Coord) Cell {
	return b.cells[b.index(c)]
}

// Neighbors returns the in-bounds neighbors of (row, col) in row-major order
// of the surrounding 3×3 window, excluding the cell itself.
func (b *Board) Neighbors(row, col int) []Coord {
	out := make([]Coord, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Coord{Row: row + dr, Col: col + dc}
			if b.InBounds(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// PlaceMines selects exactly MineCount distinct cells outside exclude,
// uniformly at random from rng, marks them as mines and computes adjacency
// counts for every cell.
//
// Exclusions outside the grid are ignored. Returns InsufficientSpace if the
// remaining cells cannot hold every mine; the board is unchanged in that case.
func (b *Board) PlaceMines(exclude []Coord, rng *rand.Rand) error {
	if b.placed {
		return &Error{Code: ErrCodeInvalidConfiguration, Message: "mines already placed"}
	}
	if rng == nil {
		return &Error{Code: ErrCodeInvalidConfiguration, Message: "random source is required"}
	}

	skip := make([]bool, len(b.cells))
	for _, c := range exclude {
		if b.InBounds(c) {
			skip[b.index(c)] = true
		}
	}

	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		if !skip[i] {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < b.mineCount {
		return newInsufficientSpaceError(b.mineCount, len(candidates))
	}

	// Partial Fisher-Yates: the first mineCount slots become the mines.
	for i := 0; i < b.mineCount; i++ {
		j := i + rng.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		b.cells[candidates[i]].Mine = true
	}

	b.computeAdjacency()
	b.placed = true
	return nil
}

// PlaceMinesAt places mines at exactly the given cells, ignoring any
// exclusion policy. Used for fixed layouts in tests and replays.
//
// mines must hold MineCount distinct in-bounds coordinates.
func (b *Board) PlaceMinesAt(mines []Coord) error {
	if b.placed {
		return &Error{Code: ErrCodeInvalidConfiguration, Message: "mines already placed"}
	}
	if len(mines) != b.mineCount {
		return &Error{
			Code:    ErrCodeInvalidConfiguration,
			Message: fmt.Sprintf("layout has %d mines, board expects %d", len(mines), b.mineCount),
		}
	}

	seen := make(map[Coord]bool, len(mines))
	for _, c := range mines {
		if err := b.Check(c); err != nil {
			return err
		}
		if seen[c] {
			return &Error{Code: ErrCodeInvalidConfiguration, Message: fmt.Sprintf("duplicate mine at %s", c)}
		}
		seen[c] = true
	}

	for _, c := range mines {
		b.cells[b.index(c)].Mine = true
	}
	b.computeAdjacency()
	b.placed = true
	return nil
}

// Mines returns the coordinates of every mine in row-major order.
func (b *Board) Mines() []Coord {
	var out []Coord
	for i, cell := range b.cells {
		if cell.Mine {
			out = append(out, b.coord(i))
		}
	}
	return out
}

// Reveal marks c revealed. Returns false without changes if c is out of
// bounds, already revealed, or flagged.
func (b *Board) Reveal(c Coord) bool {
	if !b.InBounds(c) {
		return false
	}
	cell := &b.cells[b.index(c)]
	if cell.Revealed || cell.Flagged {
		return false
	}
	cell.Revealed = true
	b.revealed++
	if !cell.Mine {
		b.safeRevealed++
	}
	return true
}

// ToggleFlag flips the flag on c and returns the new flag state.
// ok is false, and nothing changes, if c is out of bounds or revealed.
func (b *Board) ToggleFlag(c Coord) (flagged bool, ok bool) {
	if !b.InBounds(c) {
		return false, false
	}
	cell := &b.cells[b.index(c)]
	if cell.Revealed {
		return false, false
	}
	cell.Flagged = !cell.Flagged
	if cell.Flagged {
		b.flags++
	} else {
		b.flags--
	}
	return cell.Flagged, true
}

// AllNonMineCellsRevealed reports whether every non-mine cell is revealed.
func (b *Board) AllNonMineCellsRevealed() bool {
	mines := 0
	if b.placed {
		mines = b.mineCount
	}
	return b.safeRevealed == len(b.cells)-mines
}

// computeAdjacency sets Adjacent on every cell, mines included.
func (b *Board) computeAdjacency() {
	for i := range b.cells {
		b.cells[i].Adjacent = 0
	}
	for i, cell := range b.cells {
		if !cell.Mine {
			continue
		}
		c := b.coord(i)
		for _, n := range b.Neighbors(c.Row, c.Col) {
			b.cells[b.index(n)].Adjacent++
		}
	}
}

func (b *Board) index(c Coord) int {
	return c.Row*b.width + c.Col
}

func (b *Board) coord(i int) Coord {
	return Coord{Row: i / b.width, Col: i % b.width}
}
