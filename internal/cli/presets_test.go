package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sweep/internal/preset"
)

func TestPresetsText(t *testing.T) {
	out, err := execute(t, "", "presets", "--date", "2026-02-03")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "beginner")
	assert.Contains(t, out, "intermediate")
	assert.Contains(t, out, "expert")
	assert.Contains(t, out, "daily challenge 2026-02-03: 16x16/40 seed")
}

func TestPresetsJSONWithCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`presets:
  - name: tiny
    width: 5
    height: 5
    mines: 3
`), 0644))

	out, err := execute(t, "", "presets", "--presets", path, "--date", "2026-02-03", "--format", "json")
	require.NoError(t, err)

	data := dataMap(t, decodeLines(t, out)[0])
	presets, ok := data["presets"].([]any)
	require.True(t, ok)
	require.Len(t, presets, 4)
	assert.Equal(t, "tiny", presets[3].(map[string]any)["name"])

	want, err := preset.Daily(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	daily := data["daily"].(map[string]any)
	assert.Equal(t, "2026-02-03", daily["date"])
	assert.Equal(t, float64(want.Seed), daily["seed"])
}

func TestPresetsInvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`presets:
  - name: broken
    width: 2
    height: 2
    mines: 4
`), 0644))

	_, err := execute(t, "", "presets", "--presets", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load presets")
}

func TestPresetsCatalogDrivesPlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`presets:
  - name: tiny
    width: 5
    height: 4
    mines: 3
`), 0644))

	out, err := execute(t, "", "play", "--presets", path, "--difficulty", "tiny", "--seed", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "new game: tiny (5x4/3) seed 2")
}

func TestPresetsInvalidDate(t *testing.T) {
	_, err := execute(t, "", "presets", "--date", "tomorrow")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
