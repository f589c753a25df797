package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
)

// Scenario defines a scripted game with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Board is the board to play on.
	Board BoardSpec `yaml:"board"`

	// Seed fixes mine placement for seeded boards. Ignored with a layout.
	Seed int64 `yaml:"seed,omitempty"`

	// Steps are the actions to apply, in order.
	Steps []Step `yaml:"steps"`

	// Assertions are checked against the final board.
	Assertions []Assertion `yaml:"assertions"`
}

// BoardSpec is either a fixed layout or a seeded width/height/mines shape.
type BoardSpec struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
	Mines  int `yaml:"mines,omitempty"`

	// Layout rows use '*' for mines and '.' for safe cells.
	Layout []string `yaml:"layout,omitempty"`
}

// Step is one action with an optional expectation.
type Step struct {
	// Action is reveal, flag or chord.
	Action string `yaml:"action"`

	// At is the target cell as [row, col].
	At []int `yaml:"at"`

	// Expect is checked against the step's result. Nil means no check.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies an expected step result. Unset fields are not checked.
type Expect struct {
	Outcome string `yaml:"outcome,omitempty"`
	State   string `yaml:"state,omitempty"`
	Reason  string `yaml:"reason,omitempty"`
	Changed *int   `yaml:"changed,omitempty"`

	// Error is the expected board error code, e.g. OUT_OF_BOUNDS.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final board.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_state": game state equals State
	// - "mines_remaining": mines minus flags equals Value
	// - "revealed_count": revealed cells equal Value
	// - "moves": accepted moves equal Value
	// - "cell": the cell At renders as Glyph
	// - "rows": the rendered board equals Rows
	Type string `yaml:"type"`

	State string   `yaml:"state,omitempty"`
	Value *int     `yaml:"value,omitempty"`
	At    []int    `yaml:"at,omitempty"`
	Glyph string   `yaml:"glyph,omitempty"`
	Rows  []string `yaml:"rows,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState     = "final_state"
	AssertMinesRemaining = "mines_remaining"
	AssertRevealedCount  = "revealed_count"
	AssertMoves          = "moves"
	AssertCell           = "cell"
	AssertRows           = "rows"
)

// Config returns the engine configuration and forced layout for b.
// The layout is nil for seeded boards.
func (b BoardSpec) Config() (engine.Config, []board.Coord, error) {
	if len(b.Layout) == 0 {
		return engine.Config{Width: b.Width, Height: b.Height, Mines: b.Mines}, nil, nil
	}

	l, err := board.ParseLayout(b.Layout)
	if err != nil {
		return engine.Config{}, nil, err
	}
	cfg := engine.Config{Width: l.Width, Height: l.Height, Mines: len(l.Mines)}
	return cfg, l.Mines, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %q: %w", scenario.Name, err)
	}
	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml scenario in dir, sorted by file name.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", filepath.Base(path), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(path)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Board.Layout) > 0 {
		if s.Board.Width != 0 || s.Board.Height != 0 || s.Board.Mines != 0 {
			return fmt.Errorf("board: layout and width/height/mines are mutually exclusive")
		}
		l, err := board.ParseLayout(s.Board.Layout)
		if err != nil {
			return fmt.Errorf("board: %w", err)
		}
		if _, err := l.Board(); err != nil {
			return fmt.Errorf("board: layout: %w", err)
		}
	} else if s.Board.Width == 0 || s.Board.Height == 0 || s.Board.Mines == 0 {
		return fmt.Errorf("board: layout or width/height/mines is required")
	}

	for i, step := range s.Steps {
		if _, err := engine.ParseAction(step.Action); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if len(step.At) != 2 {
			return fmt.Errorf("steps[%d]: at must be [row, col]", i)
		}
		if err := validateExpect(i, step.Expect); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateExpect(index int, e *Expect) error {
	if e == nil {
		return nil
	}
	if e.Error != "" && (e.Outcome != "" || e.State != "" || e.Reason != "" || e.Changed != nil) {
		return fmt.Errorf("steps[%d].expect: error excludes other fields", index)
	}
	if e.State != "" {
		if _, err := engine.ParseGameState(e.State); err != nil {
			return fmt.Errorf("steps[%d].expect: %w", index, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFinalState:
		if _, err := engine.ParseGameState(a.State); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertMinesRemaining, AssertRevealedCount, AssertMoves:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertCell:
		if len(a.At) != 2 {
			return fmt.Errorf("assertions[%d]: at must be [row, col]", index)
		}
		if len(a.Glyph) != 1 {
			return fmt.Errorf("assertions[%d]: glyph must be one character", index)
		}
	case AssertRows:
		if len(a.Rows) == 0 {
			return fmt.Errorf("assertions[%d]: rows is required", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
