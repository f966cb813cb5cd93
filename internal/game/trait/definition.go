// Package trait provides trait definitions and the synergy resolver that
// turns roster composition into per-combatant stat bonuses.
package trait

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

// Bonus is one activation tier of a trait: the bundle of effects granted once
// Count unique units carrying the trait are fielded.
type Bonus struct {
	// Count is the unique-unit threshold for this tier.
	Count int `yaml:"count"`
	// Effects is the stat bundle accumulated into each qualifying combatant.
	Effects unit.Buffs `yaml:"effects"`
}

// Definition describes one trait loaded from YAML.
type Definition struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Bonuses     []Bonus `yaml:"bonuses"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, at least one
// bonus tier exists, and tier counts are strictly ascending starting >= 1.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("trait: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("trait %q: name must not be empty", d.ID)
	}
	if len(d.Bonuses) == 0 {
		return fmt.Errorf("trait %q: at least one bonus tier is required", d.ID)
	}
	prev := 0
	for i, b := range d.Bonuses {
		if b.Count < 1 {
			return fmt.Errorf("trait %q: bonus tier %d count must be >= 1", d.ID, i)
		}
		if b.Count <= prev {
			return fmt.Errorf("trait %q: bonus tier counts must be strictly ascending", d.ID)
		}
		prev = b.Count
	}
	return nil
}

// HighestMet returns the highest bonus tier whose count is met by n, or
// (Bonus{}, false) if no tier is met.
//
// Postcondition: When ok, the returned tier has the largest Count <= n.
func (d *Definition) HighestMet(n int) (Bonus, bool) {
	var best Bonus
	found := false
	for _, b := range d.Bonuses {
		if n >= b.Count {
			best = b
			found = true
		}
	}
	return best, found
}

// LoadDefinitionFromBytes parses a single trait definition from raw YAML bytes.
//
// Postcondition: Returns a validated *Definition, or an error.
func LoadDefinitionFromBytes(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing trait YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinitions reads all *.yaml files in dir and returns the parsed
// definitions.
//
// Postcondition: Returns all definitions or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadDefinitions(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading trait dir %q: %w", dir, err)
	}

	var defs []*Definition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		def, err := LoadDefinitionFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Registry indexes trait definitions by ID.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry builds a Registry from the given definitions.
//
// Postcondition: Returns an error if two definitions share an ID.
func NewRegistry(defs []*Definition) (*Registry, error) {
	m := make(map[string]*Definition, len(defs))
	for _, d := range defs {
		if _, dup := m[d.ID]; dup {
			return nil, fmt.Errorf("duplicate trait id %q", d.ID)
		}
		m[d.ID] = d
	}
	return &Registry{defs: m}, nil
}

// Get returns the definition with the given ID.
//
// Postcondition: Returns (def, true) if found, or (nil, false) otherwise.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Count returns the number of registered traits.
func (r *Registry) Count() int { return len(r.defs) }
