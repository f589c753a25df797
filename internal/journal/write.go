package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sweep/internal/engine"
)

// CreateSession records a new session header for e and appends any moves
// it already has. Uses ON CONFLICT(id) DO NOTHING, so creating the same
// session twice is a no-op.
func (j *Journal) CreateSession(ctx context.Context, e *engine.Engine, preset string) error {
	layout, err := marshalLayout(e.Layout())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	cfg := e.Config()
	now := j.now().Unix()
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, width, height, mines, seed, layout, preset, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID(),
		cfg.Width,
		cfg.Height,
		cfg.Mines,
		e.Seed(),
		layout,
		preset,
		e.State().String(),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	j.logger.Debug("session created", "session", e.ID(), "config", cfg.String(), "preset", preset)
	return j.Sync(ctx, e)
}

// AppendMove records one accepted move and updates the session state.
// Uses ON CONFLICT DO NOTHING for idempotency: re-appending a move with a
// seq already stored leaves the journal unchanged.
//
// Returns ErrNotFound if the session does not exist.
func (j *Journal) AppendMove(ctx context.Context, sessionID string, m engine.Move) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append move: %w", err)
	}
	defer tx.Rollback()

	if err := appendMove(ctx, tx, sessionID, m, j.now().Unix()); err != nil {
		return fmt.Errorf("append move: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append move: %w", err)
	}
	return nil
}

// Sync appends every move in e's history that the journal does not hold
// yet, in one transaction.
func (j *Journal) Sync(ctx context.Context, e *engine.Engine) error {
	history := e.History()
	if len(history) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sync session: %w", err)
	}
	defer tx.Rollback()

	now := j.now().Unix()
	for _, m := range history {
		if err := appendMove(ctx, tx, e.ID(), m, now); err != nil {
			return fmt.Errorf("sync session: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sync session: %w", err)
	}
	return nil
}

func appendMove(ctx context.Context, tx *sql.Tx, sessionID string, m engine.Move, now int64) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO moves
		(session_id, seq, action, row, col, outcome, changed, state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		sessionID,
		m.Seq,
		string(m.Action),
		m.Cell.Row,
		m.Cell.Col,
		string(m.Outcome),
		m.Changed,
		m.State.String(),
	)
	if err != nil {
		return err
	}

	// Only a newly stored move may advance the session header; a replayed
	// append of an old move must not roll the state back.
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sessions SET state = ?, updated_at = ? WHERE id = ?
	`, m.State.String(), now, sessionID)
	return err
}

// DeleteSession removes a session and its moves.
// Returns ErrNotFound if the session does not exist.
func (j *Journal) DeleteSession(ctx context.Context, id string) error {
	res, err := j.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete session %s: %w", id, ErrNotFound)
	}
	return nil
}

// PruneExpired deletes unfinished sessions idle longer than the journal's
// idle limit and returns how many were removed.
func (j *Journal) PruneExpired(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.maxIdle).Unix()
	res, err := j.db.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE state IN ('ready', 'playing') AND updated_at < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	if n > 0 {
		j.logger.Debug("pruned expired sessions", "count", n)
	}
	return n, nil
}
