package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
	"github.com/roach88/sweep/internal/journal"
	"github.com/roach88/sweep/internal/preset"
	"github.com/roach88/sweep/internal/testutil"
)

func TestParsePlayLine(t *testing.T) {
	tests := []struct {
		line    string
		want    playCommand
		wantErr string
	}{
		{line: "r 4 5", want: playCommand{verb: verbAction, action: engine.ActionReveal, row: 4, col: 5}},
		{line: "OPEN 0 0", want: playCommand{verb: verbAction, action: engine.ActionReveal}},
		{line: "flag 2,3", want: playCommand{verb: verbAction, action: engine.ActionFlag, row: 2, col: 3}},
		{line: "c -1 7", want: playCommand{verb: verbAction, action: engine.ActionChord, row: -1, col: 7}},
		{line: "show", want: playCommand{verb: verbShow}},
		{line: "?", want: playCommand{verb: verbHelp}},
		{line: "exit", want: playCommand{verb: verbQuit}},
		{line: "dig 1 1", wantErr: `unknown command "dig"`},
		{line: "r 1", wantErr: "reveal needs ROW COL"},
		{line: "f a 1", wantErr: `invalid row "a"`},
		{line: "c 1 b", wantErr: `invalid column "b"`},
		{line: "q now", wantErr: "quit takes no arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parsePlayLine(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlay_SeededTextGame(t *testing.T) {
	out, err := execute(t, "r 4 4\nq\n", "play", "--seed", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "new game: beginner (9x9/10) seed 1")
	assert.Contains(t, out, "reveal (4,4):")
	assert.NotContains(t, out, "boom")
	assert.Contains(t, out, "game abandoned")
}

func TestPlay_SameSeedSameBoard(t *testing.T) {
	args := []string{"play", "--seed", "42", "--difficulty", "intermediate", "--format", "json"}
	first, err := execute(t, "r 8 8\n", args...)
	require.NoError(t, err)
	second, err := execute(t, "r 8 8\n", args...)
	require.NoError(t, err)

	a := decodeLines(t, first)
	b := decodeLines(t, second)
	require.Len(t, a, 2)
	require.Len(t, b, 2)
	assert.Equal(t, dataMap(t, a[1])["rows"], dataMap(t, b[1])["rows"])
}

func TestPlay_JSONBoardError(t *testing.T) {
	out, err := execute(t, "r 1 1\n",
		"play", "--width", "3", "--height", "3", "--mines", "1", "--seed", "5", "--format", "json")
	require.NoError(t, err)

	responses := decodeLines(t, out)
	require.Len(t, responses, 2)

	info := dataMap(t, responses[0])
	assert.Equal(t, "custom", info["preset"])
	assert.Equal(t, "ready", info["state"])
	assert.Equal(t, float64(5), info["seed"])

	require.Equal(t, "error", responses[1].Status)
	require.NotNil(t, responses[1].Error)
	assert.Equal(t, CodeBoard, responses[1].Error.Code)
	details, ok := responses[1].Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(board.ErrCodeInsufficientSpace), details["code"])
}

func TestPlay_InvalidInputContinues(t *testing.T) {
	out, err := execute(t, "dig 1 1\nf 0 0\n", "play", "--seed", "3")
	require.NoError(t, err)

	assert.Contains(t, out, `Error [E_INPUT]: unknown command "dig"`)
	assert.Contains(t, out, "flag (0,0): flagged")
	assert.Contains(t, out, "mines left: 9")
}

func TestPlay_OutOfBoundsText(t *testing.T) {
	out, err := execute(t, "r 9 0\n", "play", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Error [E_BOARD]:")
}

func TestPlay_Daily(t *testing.T) {
	out, err := execute(t, "", "play", "--daily", "--date", "2026-01-01", "--format", "json")
	require.NoError(t, err)

	want, err := preset.Daily(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	responses := decodeLines(t, out)
	require.Len(t, responses, 1)
	info := dataMap(t, responses[0])
	assert.Equal(t, "daily-2026-01-01", info["preset"])
	assert.Equal(t, float64(want.Seed), info["seed"])
}

func TestPlay_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown difficulty", []string{"play", "--difficulty", "nightmare"}, "invalid --difficulty"},
		{"too many mines", []string{"play", "--width", "3", "--height", "3", "--mines", "9"}, "invalid custom board"},
		{"bad date", []string{"play", "--daily", "--date", "01/01/2026"}, "invalid --date"},
		{"resume without db", []string{"play", "--resume", "abc"}, "--db"},
		{"daily and seed", []string{"play", "--daily", "--seed", "1"}, "daily"},
		{"daily and difficulty", []string{"play", "--daily", "--difficulty", "expert"}, "daily"},
		{"daily and width", []string{"play", "--daily", "--width", "20"}, "daily"},
		{"daily and mines", []string{"play", "--daily", "--mines", "5"}, "daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			if !strings.HasPrefix(tt.name, "daily and") {
				assert.Equal(t, ExitCommandError, GetExitCode(err))
			}
		})
	}
}

func TestPlay_JournalAndResume(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sweep.db")

	out, err := execute(t, "f 0 0\nq\n", "play", "--db", db, "--seed", "11", "--format", "json")
	require.NoError(t, err)
	responses := decodeLines(t, out)
	require.Len(t, responses, 2)
	id, _ := dataMap(t, responses[0])["session_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, true, dataMap(t, responses[0])["journaled"])

	out, err = execute(t, "s\n", "play", "--db", db, "--resume", id, "--format", "json")
	require.NoError(t, err)
	responses = decodeLines(t, out)
	require.Len(t, responses, 2)

	info := dataMap(t, responses[0])
	assert.Equal(t, true, info["resumed"])
	assert.Equal(t, "beginner", info["preset"])
	assert.Equal(t, float64(11), info["seed"])
	rows, ok := info["rows"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, rows)
	assert.True(t, strings.HasPrefix(rows[0].(string), "F"))
}

func TestPlay_JournalsEachAcceptedMove(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sweep.db")

	out, err := execute(t, "f 0 0\nr 0 0\nf 1 1\nf 1 1\nq\n", "play", "--db", db, "--seed", "3", "--format", "json")
	require.NoError(t, err)
	responses := decodeLines(t, out)
	id, _ := dataMap(t, responses[0])["session_id"].(string)
	require.NotEmpty(t, id)

	j, err := journal.Open(db)
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	moves, err := j.ReadMoves(ctx, id)
	require.NoError(t, err)
	require.Len(t, moves, 3, "rejected reveal on a flag is not journaled")
	for i, m := range moves {
		assert.Equal(t, int64(i+1), m.Seq)
	}
	assert.Equal(t, engine.ActionFlag, moves[2].Action)
	assert.Equal(t, board.Coord{Row: 1, Col: 1}, moves[2].Cell)

	s, err := j.ReadSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Moves)
}

func TestPlay_ResumeUnknownSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "sweep.db")
	_, err := execute(t, "", "play", "--db", db, "--resume", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "session not found")
}

func TestPlay_ResumeFinishedSession(t *testing.T) {
	db := seedJournal(t, "lost-game", []string{"*..", "..."}, "reveal", 0, 0)

	_, err := execute(t, "", "play", "--db", db, "--resume", "lost-game")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not resumable")
}

func TestPlay_ResumeThenWin(t *testing.T) {
	db := seedJournal(t, "almost", []string{"*..", "...", "..."}, "flag", 0, 0)

	out, err := execute(t, "r 2 2\nr 1 1\n", "play", "--db", db, "--resume", "almost")
	require.NoError(t, err)

	assert.Contains(t, out, "resumed: fixture (3x3/1)")
	assert.Contains(t, out, "reveal (2,2): you win!")
	assert.Contains(t, out, "game over: won after 2 moves")
	assert.NotContains(t, out, "reveal (1,1)", "input after the game ends is not read")
}

func TestPlayStep_String(t *testing.T) {
	e := testutil.LayoutEngine(t, "s", "*..")
	snap := e.Snapshot()

	lost := PlayStep{Action: engine.ActionReveal, Cell: board.Coord{Row: 0, Col: 0}, Outcome: engine.OutcomeLost, snapshot: snap}
	assert.Contains(t, lost.String(), "reveal (0,0): boom, you lose")

	rejected := PlayStep{Action: engine.ActionChord, Outcome: engine.OutcomeRejected, Reason: engine.ReasonNotRevealed, snapshot: snap}
	assert.Contains(t, rejected.String(), "chord (0,0): rejected (not_revealed)")

	revealed := PlayStep{Action: engine.ActionReveal, Cell: board.Coord{Row: 0, Col: 2}, Outcome: engine.OutcomeRevealed, Changed: 2, snapshot: snap}
	assert.Contains(t, revealed.String(), "reveal (0,2): revealed, 2 cells")
}
