package engine

import (
	"strconv"
	"strings"

	"github.com/roach88/sweep/internal/canon"
)

// CellView is the player-visible state of one cell.
// Mine is populated for revealed cells and, once the game is lost, for
// every mine. Adjacent is only populated for revealed safe cells.
type CellView struct {
	Revealed bool `json:"revealed"`
	Flagged  bool `json:"flagged"`
	Mine     bool `json:"mine,omitempty"`
	Adjacent int  `json:"adjacent,omitempty"`
}

// Glyph returns the one-character rendering used by Rows:
// '#' hidden, 'F' flagged, '*' revealed mine, '.' revealed zero, '1'-'8'.
func (v CellView) Glyph() byte {
	switch {
	case v.Flagged:
		return 'F'
	case !v.Revealed:
		return '#'
	case v.Mine:
		return '*'
	case v.Adjacent == 0:
		return '.'
	default:
		return byte('0' + v.Adjacent)
	}
}

// Snapshot is the full visible board state for a presentation layer.
type Snapshot struct {
	SessionID      string       `json:"session_id"`
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	State          GameState    `json:"state"`
	Mines          int          `json:"mines"`
	Flags          int          `json:"flags"`
	MinesRemaining int          `json:"mines_remaining"`
	Moves          int64        `json:"moves"`
	Seed           int64        `json:"seed"`
	Cells          [][]CellView `json:"cells"`
}

// Snapshot returns the visible state of the session. Hidden mines are
// exposed only after a loss.
func (e *Engine) Snapshot() Snapshot {
	b := e.board
	s := Snapshot{
		SessionID:      e.id,
		Width:          b.Width(),
		Height:         b.Height(),
		State:          e.state,
		Mines:          b.MineCount(),
		Flags:          b.FlagCount(),
		MinesRemaining: e.MinesRemaining(),
		Moves:          e.clock.Current(),
		Seed:           e.seed,
		Cells:          make([][]CellView, b.Height()),
	}

	for r := 0; r < b.Height(); r++ {
		s.Cells[r] = make([]CellView, b.Width())
		for c := 0; c < b.Width(); c++ {
			cell, _ := b.Cell(r, c)
			v := CellView{Revealed: cell.Revealed, Flagged: cell.Flagged}
			if cell.Revealed || e.state == Lost {
				v.Mine = cell.Mine
			}
			if cell.Revealed && !cell.Mine {
				v.Adjacent = cell.Adjacent
			}
			s.Cells[r][c] = v
		}
	}
	return s
}

// Rows renders each board row as a string of glyphs.
func (s Snapshot) Rows() []string {
	rows := make([]string, len(s.Cells))
	for r, row := range s.Cells {
		var sb strings.Builder
		for _, v := range row {
			sb.WriteByte(v.Glyph())
		}
		rows[r] = sb.String()
	}
	return rows
}

// String renders the snapshot as a header line followed by the rows.
func (s Snapshot) String() string {
	var sb strings.Builder
	sb.WriteString(s.State.String())
	sb.WriteString(" mines_remaining=")
	sb.WriteString(strconv.Itoa(s.MinesRemaining))
	sb.WriteString(" moves=")
	sb.WriteString(strconv.FormatInt(s.Moves, 10))
	sb.WriteByte('\n')
	for _, row := range s.Rows() {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Canonical returns the snapshot as a canonical-JSON-ready map. Session ID
// and seed are excluded so equal boards compare equal across sessions.
func (s Snapshot) Canonical() map[string]any {
	return map[string]any{
		"width":           s.Width,
		"height":          s.Height,
		"state":           s.State.String(),
		"mines":           s.Mines,
		"flags":           s.Flags,
		"mines_remaining": s.MinesRemaining,
		"moves":           s.Moves,
		"rows":            s.Rows(),
	}
}

// Fingerprint returns a stable hash of the visible board state.
func (s Snapshot) Fingerprint() (string, error) {
	return canon.Hash(canon.DomainSnapshot, s.Canonical())
}
