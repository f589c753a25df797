package journal

import (
	"context"
	"fmt"

	"github.com/roach88/sweep/internal/engine"
)

// Load rebuilds a session by replaying its journaled moves, regardless of
// its state or age. The rebuilt engine keeps the journaled session ID.
func (j *Journal) Load(ctx context.Context, id string, opts ...engine.Option) (*engine.Engine, error) {
	s, err := j.ReadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return j.load(ctx, s, opts)
}

// Resume rebuilds an unfinished session so play can continue.
//
// Returns ErrFinished for won or lost sessions and ErrExpired for sessions
// idle longer than the journal's idle limit.
func (j *Journal) Resume(ctx context.Context, id string, opts ...engine.Option) (*engine.Engine, error) {
	s, err := j.ReadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State.Terminal() {
		return nil, fmt.Errorf("resume %s (%s): %w", id, s.State, ErrFinished)
	}
	if s.Expired(j.now(), j.maxIdle) {
		return nil, fmt.Errorf("resume %s (idle since %s): %w", id, s.UpdatedAt.Format("2006-01-02 15:04"), ErrExpired)
	}
	return j.load(ctx, s, opts)
}

func (j *Journal) load(ctx context.Context, s Session, opts []engine.Option) (*engine.Engine, error) {
	moves, err := j.ReadMoves(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.ID, err)
	}

	opts = append(opts, engine.WithIDGenerator(engine.NewFixedGenerator(s.ID)))
	e, err := engine.Replay(s.Config, s.Seed, s.Layout, moves, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.ID, err)
	}

	j.logger.Debug("session loaded", "session", s.ID, "moves", len(moves), "state", e.State().String())
	return e, nil
}
