package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sweep/internal/journal"
	"github.com/roach88/sweep/internal/testutil"
)

// execute runs the root command with args and stdin and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(EnvDatabase, "")
	t.Setenv(EnvPresets, "")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeLines decodes a stream of JSON responses.
func decodeLines(t *testing.T, out string) []CLIResponse {
	t.Helper()
	var responses []CLIResponse
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var resp CLIResponse
		require.NoError(t, dec.Decode(&resp))
		responses = append(responses, resp)
	}
	return responses
}

// dataMap returns a response's data object.
func dataMap(t *testing.T, resp CLIResponse) map[string]any {
	t.Helper()
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return m
}

// seedJournal creates a journal at a temp path holding one layout session
// played with the given (action, row, col) moves.
func seedJournal(t *testing.T, id string, rows []string, moves ...any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	defer j.Close()

	e := testutil.LayoutEngine(t, id, rows...)
	testutil.Play(t, e, moves...)
	require.NoError(t, j.CreateSession(context.Background(), e, "fixture"))
	return path
}
