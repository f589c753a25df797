package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
)

func TestCreateSession_RoundTrip(t *testing.T) {
	j, clock := createTestJournal(t)
	ctx := context.Background()
	e := newTestEngine(t, "sess-1")

	require.NoError(t, j.CreateSession(ctx, e, "beginner"))

	s, err := j.ReadSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", s.ID)
	assert.Equal(t, engine.Config{Width: 9, Height: 9, Mines: 10}, s.Config)
	assert.Equal(t, int64(99), s.Seed)
	assert.Nil(t, s.Layout)
	assert.Equal(t, "beginner", s.Preset)
	assert.Equal(t, engine.Ready, s.State)
	assert.Equal(t, 0, s.Moves)
	assert.Equal(t, clock.Now(), s.CreatedAt)
}

func TestCreateSession_Idempotent(t *testing.T) {
	j, _ := createTestJournal(t)
	ctx := context.Background()
	e := newTestEngine(t, "sess-1")

	require.NoError(t, j.CreateSession(ctx, e, "beginner"))
	require.NoError(t, j.CreateSession(ctx, e, "other"))

	s, err := j.ReadSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "beginner", s.Preset, "second create must not overwrite")
}

func TestCreateSession_StoresLayout(t *testing.T) {
	j, _ := createTestJournal(t)
	ctx := context.Background()
	e := newLayoutEngine(t, "sess-layout",
		"*..",
		"...",
		"..*",
	)

	require.NoError(t, j.CreateSession(ctx, e, ""))

	s, err := j.ReadSession(ctx, "sess-layout")
	require.NoError(t, err)
	assert.Equal(t, []board.Coord{{Row: 0, Col: 0}, {Row: 2, Col: 2}}, s.Layout)
}

func TestAppendMove_Idempotent(t *testing.T) {
	j, _ := createTestJournal(t)
	ctx := context.Background()
	e := newTestEngine(t, "sess-1")
	require.NoError(t, j.CreateSession(ctx, e, ""))

	_, err := e.Reveal(4, 4)
	require.NoError(t, err)
	m := e.History()[0]

	require.NoError(t, j.AppendMove(ctx, e.ID(), m))
	require.NoError(t, j.AppendMove(ctx, e.ID(), m))

	moves, err := j.ReadMoves(ctx, e.ID())
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, m, moves[0])
}

func TestAppendMove_OldMoveDoesNotRollBackState(t *testing.T) {
	j, _ := createTestJournal(t)
	ctx := context.Background()
	e := newLayoutEngine(t, "sess-1",
		"*..",
		"...",
		"...",
	)
	require.NoError(t, j.CreateSession(ctx, e, ""))

	_, err := e.Reveal(1, 1)
	require.NoError(t, err)
	_, err = e.Reveal(0, 0)
	require.NoError(t, err)
	require.NoError(t, j.Sync(ctx, e))

	require.NoError(t, j.AppendMove(ctx, e.ID(), e.History()[0]))

	s, err := j.ReadSession(ctx, e.ID())
	require.NoError(t, err)
	assert.Equal(t, engine.Lost, s.State)
	assert.Equal(t, 2, s.Moves)
}

func TestAppendMove_UnknownSession(t *testing.T) {
	j, _ := createTestJournal(t)

	err := j.AppendMove(context.Background(), "missing", engine.Move{Seq: 1, Action: engine.ActionFlag})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSync_AppendsOnlyNewMoves(t *testing.T) {
	j, clock := createTestJournal(t)
	ctx := context.Background()
	e := newLayoutEngine(t, "sess-1",
		"*..",
		"...",
		"..*",
	)
	require.NoError(t, j.CreateSession(ctx, e, ""))

	_, err := e.Reveal(1, 1)
	require.NoError(t, err)
	require.NoError(t, j.Sync(ctx, e))

	clock.Advance(time.Minute)
	_, err = e.ToggleFlag(0, 0)
	require.NoError(t, err)
	require.NoError(t, j.Sync(ctx, e))

	moves, err := j.ReadMoves(ctx, e.ID())
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, e.History(), moves)

	s, err := j.ReadSession(ctx, e.ID())
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), s.UpdatedAt)
	assert.Equal(t, e.State(), s.State)
}

func TestDeleteSession_CascadesMoves(t *testing.T) {
	j, _ := createTestJournal(t)
	ctx := context.Background()
	e := newTestEngine(t, "sess-1")
	_, err := e.Reveal(4, 4)
	require.NoError(t, err)
	require.NoError(t, j.CreateSession(ctx, e, ""))

	require.NoError(t, j.DeleteSession(ctx, "sess-1"))

	_, err = j.ReadSession(ctx, "sess-1")
	assert.True(t, errors.Is(err, ErrNotFound))
	moves, err := j.ReadMoves(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, moves)

	err = j.DeleteSession(ctx, "sess-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPruneExpired(t *testing.T) {
	j, clock := createTestJournal(t)
	ctx := context.Background()

	stale := newTestEngine(t, "stale")
	require.NoError(t, j.CreateSession(ctx, stale, ""))

	finished := newLayoutEngine(t, "finished", "*..")
	_, err := finished.Reveal(0, 0)
	require.NoError(t, err)
	require.NoError(t, j.CreateSession(ctx, finished, ""))

	clock.Advance(DefaultMaxIdle + time.Hour)
	fresh := newTestEngine(t, "fresh")
	require.NoError(t, j.CreateSession(ctx, fresh, ""))

	n, err := j.PruneExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sessions, err := j.ListSessions(ctx, ListOptions{})
	require.NoError(t, err)
	var ids []string
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"finished", "fresh"}, ids)
}
