package preset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sweep/internal/engine"
)

func TestBuiltin(t *testing.T) {
	c := Builtin()
	assert.Equal(t, []string{Beginner, Intermediate, Expert}, c.Names())

	tests := []struct {
		name string
		want engine.Config
	}{
		{Beginner, engine.Config{Width: 9, Height: 9, Mines: 10}},
		{Intermediate, engine.Config{Width: 16, Height: 16, Mines: 40}},
		{Expert, engine.Config{Width: 30, Height: 16, Mines: 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := c.Get(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Config())

			_, err = engine.New(p.Config())
			assert.NoError(t, err, "built-in preset must be a valid board")
		})
	}

	_, err := c.Get("nightmare")
	assert.Error(t, err)
}

func TestLoadCatalog_CUE(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("testdata", "catalog.cue"))
	require.NoError(t, err)

	assert.Equal(t, []string{Beginner, Intermediate, Expert, "tiny", "wide-strip"}, c.Names())

	tiny, err := c.Get("tiny")
	require.NoError(t, err)
	assert.Equal(t, Preset{Name: "tiny", Width: 5, Height: 5, Mines: 3, Description: "warm-up board"}, tiny)

	beginner, err := c.Get(Beginner)
	require.NoError(t, err)
	assert.Equal(t, engine.Config{Width: 8, Height: 8, Mines: 10}, beginner.Config(), "catalog overrides built-in")
}

func TestLoadCatalog_YAML(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 4, c.Len())
	expert, err := c.Get(Expert)
	require.NoError(t, err)
	assert.Equal(t, engine.Config{Width: 24, Height: 20, Mines: 99}, expert.Config())

	all := c.All()
	assert.Equal(t, "tiny", all[3].Name)
}

func TestLoadCatalog_RejectsTooManyMines(t *testing.T) {
	for _, file := range []string{"too_many_mines.cue", "too_many_mines.yaml"} {
		t.Run(file, func(t *testing.T) {
			_, err := LoadCatalog(filepath.Join("testdata", file))
			require.Error(t, err)

			var ce *CatalogError
			require.True(t, errors.As(err, &ce), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), "broken")
		})
	}
}

func TestLoadCatalog_RejectsUnknownYAMLField(t *testing.T) {
	_, err := LoadCatalog(filepath.Join("testdata", "unknown_field.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows")
}

func TestLoadCatalog_RejectsBadName(t *testing.T) {
	_, err := LoadCatalog(filepath.Join("testdata", "bad_name.cue"))
	require.Error(t, err)

	var ce *CatalogError
	assert.True(t, errors.As(err, &ce))
}

func TestLoadCatalog_DuplicateYAMLName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	data := "presets:\n  - {name: a, width: 3, height: 3, mines: 1}\n  - {name: a, width: 4, height: 4, mines: 2}\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadCatalog_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewCustom(t *testing.T) {
	p, err := NewCustom(20, 10, 35)
	require.NoError(t, err)
	assert.Equal(t, Custom, p.Name)
	assert.Equal(t, engine.Config{Width: 20, Height: 10, Mines: 35}, p.Config())

	_, err = NewCustom(3, 3, 9)
	assert.Error(t, err)

	_, err = NewCustom(0, 3, 1)
	assert.Error(t, err)
}

func TestCompileSchema(t *testing.T) {
	schema, err := compileSchema(cuecontext.New())
	require.NoError(t, err)
	assert.True(t, schema.Exists())
}

func TestNewCustom_MineBoundary(t *testing.T) {
	tests := []struct {
		name                 string
		width, height, mines int
		wantErr              bool
	}{
		{"one safe cell left", 3, 3, 8, false},
		{"every cell a mine", 3, 3, 9, true},
		{"more mines than cells", 2, 2, 7, true},
		{"single cell board", 1, 1, 1, true},
		{"wide board", 20, 10, 30, false},
		{"no mines", 5, 5, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewCustom(tt.width, tt.height, tt.mines)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, engine.Config{Width: tt.width, Height: tt.height, Mines: tt.mines}, p.Config())
				return
			}
			require.Error(t, err)
			var ce *CatalogError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, Custom, ce.Preset)
		})
	}
}

func TestDaily(t *testing.T) {
	day := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	a, err := Daily(day)
	require.NoError(t, err)
	b, err := Daily(day.Add(10 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, a, b, "same calendar day gives the same challenge")

	assert.Equal(t, "2025-06-01", a.Date)
	assert.Equal(t, engine.Config{Width: 16, Height: 16, Mines: 40}, a.Preset.Config())
	assert.GreaterOrEqual(t, a.Seed, int64(0))

	next, err := Daily(day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.NotEqual(t, a.Seed, next.Seed)
}

func TestDaily_SameBoardForEveryone(t *testing.T) {
	c, err := Daily(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	first, err := engine.New(c.Preset.Config(), engine.WithSeed(c.Seed))
	require.NoError(t, err)
	second, err := engine.New(c.Preset.Config(), engine.WithSeed(c.Seed))
	require.NoError(t, err)

	_, err = first.Reveal(8, 8)
	require.NoError(t, err)
	_, err = second.Reveal(8, 8)
	require.NoError(t, err)
	assert.Equal(t, first.Board().Mines(), second.Board().Mines())
}
