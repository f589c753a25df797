package preset

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// CatalogError describes an invalid catalog file or entry.
type CatalogError struct {
	Path    string
	Preset  string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *CatalogError) Error() string {
	where := e.Path
	if e.Pos.IsValid() {
		where = fmt.Sprintf("%s:%d:%d", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	if e.Preset != "" {
		return fmt.Sprintf("%s: preset %q: %s", where, e.Preset, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// fields is the CUE-facing shape of one preset; the name is the label.
type fields struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mines       int    `json:"mines"`
	Description string `json:"description,omitempty"`
}

// yamlCatalog is the YAML catalog file format.
//
//	presets:
//	  - name: tiny
//	    width: 5
//	    height: 5
//	    mines: 3
type yamlCatalog struct {
	Presets []Preset `yaml:"presets"`
}

// LoadCatalog reads a .cue, .yaml or .yml catalog file and returns the
// built-in presets overlaid with the file's entries. Entries keep file
// order; an entry named like a built-in replaces it.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var entries []Preset
	switch ext := filepath.Ext(path); ext {
	case ".cue":
		entries, err = parseCUECatalog(path, data)
	case ".yaml", ".yml":
		entries, err = parseYAMLCatalog(path, data)
	default:
		return nil, &CatalogError{Path: path, Message: fmt.Sprintf("unsupported catalog extension %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	c := Builtin()
	for _, p := range entries {
		c.put(p)
	}
	return c, nil
}

// NewCustom validates an ad-hoc board shape against the catalog schema and
// returns it as the custom preset.
func NewCustom(width, height, mines int) (Preset, error) {
	p := Preset{Name: Custom, Width: width, Height: height, Mines: mines}
	ctx := cuecontext.New()
	if err := validateEntries(ctx, "custom", []Preset{p}); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func parseCUECatalog(path string, data []byte) ([]Preset, error) {
	ctx := cuecontext.New()
	schema, err := compileSchema(ctx)
	if err != nil {
		return nil, err
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return nil, cueError(path, "", err)
	}

	v := schema.Unify(file)
	if err := v.Validate(cue.Concrete(true), cue.Hidden(true)); err != nil {
		return nil, cueError(path, "", err)
	}

	presetsVal := v.LookupPath(cue.ParsePath("presets"))
	if !presetsVal.Exists() {
		return nil, &CatalogError{Path: path, Message: "no presets field"}
	}
	iter, err := presetsVal.Fields()
	if err != nil {
		return nil, cueError(path, "", err)
	}

	var out []Preset
	for iter.Next() {
		var f fields
		if err := iter.Value().Decode(&f); err != nil {
			return nil, cueError(path, iter.Label(), err)
		}
		out = append(out, Preset{
			Name:        iter.Label(),
			Width:       f.Width,
			Height:      f.Height,
			Mines:       f.Mines,
			Description: f.Description,
		})
	}
	if len(out) == 0 {
		return nil, &CatalogError{Path: path, Message: "catalog defines no presets"}
	}
	return out, nil
}

func parseYAMLCatalog(path string, data []byte) ([]Preset, error) {
	var doc yamlCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &CatalogError{Path: path, Message: fmt.Sprintf("parse YAML: %v", err)}
	}
	if len(doc.Presets) == 0 {
		return nil, &CatalogError{Path: path, Message: "catalog defines no presets"}
	}

	seen := make(map[string]bool, len(doc.Presets))
	for _, p := range doc.Presets {
		if seen[p.Name] {
			return nil, &CatalogError{Path: path, Preset: p.Name, Message: "duplicate preset name"}
		}
		seen[p.Name] = true
	}

	if err := validateEntries(cuecontext.New(), path, doc.Presets); err != nil {
		return nil, err
	}
	return doc.Presets, nil
}

// validateEntries checks presets decoded outside CUE against the schema.
func validateEntries(ctx *cue.Context, path string, entries []Preset) error {
	schema, err := compileSchema(ctx)
	if err != nil {
		return err
	}

	for _, p := range entries {
		doc := map[string]any{
			"presets": map[string]fields{
				p.Name: {Width: p.Width, Height: p.Height, Mines: p.Mines, Description: p.Description},
			},
		}
		v := schema.Unify(ctx.Encode(doc))
		if err := v.Validate(cue.Concrete(true), cue.Hidden(true)); err != nil {
			return cueError(path, p.Name, err)
		}
	}
	return nil
}

// compileSchema returns the closed #Catalog definition.
func compileSchema(ctx *cue.Context) (cue.Value, error) {
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile preset schema: %w", err)
	}
	return v.LookupPath(cue.ParsePath("#Catalog")), nil
}

// cueError extracts the first CUE error with its position.
func cueError(path, preset string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CatalogError{Path: path, Preset: preset, Message: err.Error()}
	}
	first := errs[0]
	ce := &CatalogError{Path: path, Preset: preset, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
