package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/canon"
)

// marshalLayout converts a forced layout to canonical JSON TEXT.
// A nil layout is stored as NULL.
func marshalLayout(layout []board.Coord) (sql.NullString, error) {
	if layout == nil {
		return sql.NullString{}, nil
	}
	pairs := make([]any, len(layout))
	for i, c := range layout {
		pairs[i] = []int{c.Row, c.Col}
	}
	data, err := canon.Marshal(pairs)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal layout: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalLayout parses a stored layout; NULL yields nil.
func unmarshalLayout(data sql.NullString) ([]board.Coord, error) {
	if !data.Valid {
		return nil, nil
	}
	var pairs [][]int
	if err := json.Unmarshal([]byte(data.String), &pairs); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	layout := make([]board.Coord, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("unmarshal layout: entry %d has %d values, expected 2", i, len(p))
		}
		layout[i] = board.Coord{Row: p[0], Col: p[1]}
	}
	return layout, nil
}
