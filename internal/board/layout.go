package board

import (
	"fmt"
	"strings"
)

// Layout is a fixed mine arrangement parsed from text rows.
type Layout struct {
	Width  int
	Height int
	Mines  []Coord
}

// ParseLayout parses rows of '*' or 'x' (mine) and '.' (safe) characters.
// Surrounding whitespace on each row is ignored; every row must have the
// same width.
//
// Example:
//
//	ParseLayout([]string{
//	    "*..",
//	    "...",
//	    "..*",
//	})
func ParseLayout(rows []string) (*Layout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout: no rows")
	}

	l := &Layout{Height: len(rows)}
	for r, raw := range rows {
		row := strings.TrimSpace(raw)
		if r == 0 {
			l.Width = len(row)
		}
		if len(row) != l.Width {
			return nil, fmt.Errorf("layout: row %d has width %d, expected %d", r, len(row), l.Width)
		}
		for c, ch := range row {
			switch ch {
			case '*', 'x', 'X':
				l.Mines = append(l.Mines, Coord{Row: r, Col: c})
			case '.':
			default:
				return nil, fmt.Errorf("layout: row %d col %d: unexpected %q", r, c, ch)
			}
		}
	}
	if l.Width == 0 {
		return nil, fmt.Errorf("layout: empty rows")
	}
	return l, nil
}

// Board creates a board of the layout's size with its mines placed.
func (l *Layout) Board() (*Board, error) {
	b, err := New(l.Width, l.Height, len(l.Mines))
	if err != nil {
		return nil, err
	}
	if err := b.PlaceMinesAt(l.Mines); err != nil {
		return nil, err
	}
	return b, nil
}
