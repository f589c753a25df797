package engine

import "fmt"

// GameState is the session state machine.
type GameState int

const (
	// Ready: no reveals yet, mines unplaced.
	Ready GameState = iota
	// Playing: mines placed, game ongoing.
	Playing
	// Won: every non-mine cell revealed. Terminal.
	Won
	// Lost: a mine was revealed. Terminal.
	Lost
)

var stateNames = map[GameState]string{
	Ready:   "ready",
	Playing: "playing",
	Won:     "won",
	Lost:    "lost",
}

// String returns the lower-case state name.
func (s GameState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("GameState(%d)", int(s))
}

// Terminal reports whether no further mutating operations are accepted.
func (s GameState) Terminal() bool {
	return s == Won || s == Lost
}

// MarshalText implements encoding.TextMarshaler.
func (s GameState) MarshalText() ([]byte, error) {
	if _, ok := stateNames[s]; !ok {
		return nil, fmt.Errorf("unknown game state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *GameState) UnmarshalText(text []byte) error {
	parsed, err := ParseGameState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseGameState parses a state name as produced by String.
func ParseGameState(name string) (GameState, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown game state %q", name)
}
