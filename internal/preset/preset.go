// Package preset defines the board presets a game can start from.
//
// The built-in presets match the classic difficulties. A catalog file
// (.cue or .yaml) adds or overrides presets; every entry is checked against
// an embedded CUE schema before use.
package preset

import (
	"fmt"
	"sort"

	"github.com/roach88/sweep/internal/engine"
)

// Names of the built-in presets.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Expert       = "expert"
	Custom       = "custom"
)

// Preset is a named board shape.
type Preset struct {
	Name        string `json:"name" yaml:"name"`
	Width       int    `json:"width" yaml:"width"`
	Height      int    `json:"height" yaml:"height"`
	Mines       int    `json:"mines" yaml:"mines"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Config returns the engine configuration for p.
func (p Preset) Config() engine.Config {
	return engine.Config{Width: p.Width, Height: p.Height, Mines: p.Mines}
}

// String renders the preset as "name (WxH/M)".
func (p Preset) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Config())
}

var builtins = []Preset{
	{Name: Beginner, Width: 9, Height: 9, Mines: 10, Description: "9x9 with 10 mines"},
	{Name: Intermediate, Width: 16, Height: 16, Mines: 40, Description: "16x16 with 40 mines"},
	{Name: Expert, Width: 30, Height: 16, Mines: 99, Description: "30 columns by 16 rows with 99 mines"},
}

// Catalog is an ordered set of presets addressable by name.
type Catalog struct {
	order  []string
	byName map[string]Preset
}

// Builtin returns a catalog holding only the built-in presets.
func Builtin() *Catalog {
	c := &Catalog{byName: make(map[string]Preset)}
	for _, p := range builtins {
		c.put(p)
	}
	return c
}

// put adds p, replacing any preset of the same name in place.
func (c *Catalog) put(p Preset) {
	if _, ok := c.byName[p.Name]; !ok {
		c.order = append(c.order, p.Name)
	}
	c.byName[p.Name] = p
}

// Get returns the preset called name.
func (c *Catalog) Get(name string) (Preset, error) {
	p, ok := c.byName[name]
	if !ok {
		names := c.Names()
		sort.Strings(names)
		return Preset{}, fmt.Errorf("unknown preset %q (available: %v)", name, names)
	}
	return p, nil
}

// Names returns the preset names in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// All returns every preset in catalog order.
func (c *Catalog) All() []Preset {
	out := make([]Preset, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// Len returns the number of presets.
func (c *Catalog) Len() int { return len(c.order) }
