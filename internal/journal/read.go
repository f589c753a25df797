package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
)

const sessionColumns = `
	s.id, s.width, s.height, s.mines, s.seed, s.layout, s.preset, s.state,
	s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM moves m WHERE m.session_id = s.id)
`

// ReadSession returns the header of one session.
// Returns ErrNotFound if the session does not exist.
func (j *Journal) ReadSession(ctx context.Context, id string) (Session, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions s
		WHERE s.id = ?
	`, id)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("read session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}
	return s, nil
}

// ReadMoves returns the moves of a session ordered by seq.
//
// Returns an empty slice (not nil) if the session has no moves.
func (j *Journal) ReadMoves(ctx context.Context, sessionID string) ([]engine.Move, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, action, row, col, outcome, changed, state
		FROM moves
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	moves := []engine.Move{}
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}
	return moves, nil
}

// ListSessions returns session headers, newest first.
// Ties on creation time are broken by ID for a deterministic order.
func (j *Journal) ListSessions(ctx context.Context, opts ListOptions) ([]Session, error) {
	var q strings.Builder
	q.WriteString(`SELECT ` + sessionColumns + ` FROM sessions s`)
	if opts.ActiveOnly {
		q.WriteString(` WHERE s.state IN ('ready', 'playing')`)
	}
	q.WriteString(` ORDER BY s.created_at DESC, s.id COLLATE BINARY DESC`)

	var args []any
	if opts.Limit > 0 {
		q.WriteString(` LIMIT ?`)
		args = append(args, opts.Limit)
	}

	rows, err := j.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var (
		s                Session
		layout           sql.NullString
		state            string
		created, updated int64
	)
	if err := row.Scan(
		&s.ID, &s.Config.Width, &s.Config.Height, &s.Config.Mines, &s.Seed,
		&layout, &s.Preset, &state, &created, &updated, &s.Moves,
	); err != nil {
		return Session{}, err
	}

	var err error
	if s.Layout, err = unmarshalLayout(layout); err != nil {
		return Session{}, err
	}
	if s.State, err = engine.ParseGameState(state); err != nil {
		return Session{}, err
	}
	s.CreatedAt = time.Unix(created, 0).UTC()
	s.UpdatedAt = time.Unix(updated, 0).UTC()
	return s, nil
}

func scanMove(rows *sql.Rows) (engine.Move, error) {
	var (
		m               engine.Move
		action, outcome string
		state           string
		row, col        int
	)
	if err := rows.Scan(&m.Seq, &action, &row, &col, &outcome, &m.Changed, &state); err != nil {
		return engine.Move{}, fmt.Errorf("scan move: %w", err)
	}

	var err error
	if m.Action, err = engine.ParseAction(action); err != nil {
		return engine.Move{}, fmt.Errorf("scan move %d: %w", m.Seq, err)
	}
	if m.State, err = engine.ParseGameState(state); err != nil {
		return engine.Move{}, fmt.Errorf("scan move %d: %w", m.Seq, err)
	}
	m.Outcome = engine.Outcome(outcome)
	m.Cell = board.Coord{Row: row, Col: col}
	return m, nil
}
