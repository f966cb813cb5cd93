// Package unit provides unit template definitions and the live Combatant
// instances that fight inside a single battle.
package unit

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Star level bounds and the per-star stat multiplier. A 2-star unit has
// 1.8x the base HP and attack of a 1-star, a 3-star 1.8^2.
const (
	MinStarLevel = 1
	MaxStarLevel = 3
	starScale    = 1.8
)

// Template defines a purchasable unit archetype loaded from YAML.
type Template struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	// Cost is the shop gold cost tier (1-5).
	Cost int `yaml:"cost"`
	// Traits is the list of trait tags this unit contributes to.
	Traits []string `yaml:"traits"`
	// MaxHP is the 1-star maximum hit points.
	MaxHP int `yaml:"max_hp"`
	// Attack is the 1-star physical attack damage.
	Attack int `yaml:"attack"`
	// AttackSpeed is attacks per second.
	AttackSpeed float64 `yaml:"attack_speed"`
	// Range is the attack range in grid cells (Chebyshev).
	Range int `yaml:"range"`
	// Armor mitigates physical damage.
	Armor int `yaml:"armor"`
	// MagicResist mitigates magic damage.
	MagicResist int `yaml:"magic_resist"`
	// Ability is the optional special ability descriptor; nil means the unit
	// never casts.
	Ability *Ability `yaml:"ability"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Cost is in [1, 5],
// MaxHP >= 1, Attack >= 0, AttackSpeed > 0, Range >= 1, Armor >= 0,
// MagicResist >= 0, and the Ability (if present) validates; returns an error
// on the first violation otherwise.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("unit template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("unit template %q: name must not be empty", t.ID)
	}
	if t.Cost < 1 || t.Cost > 5 {
		return fmt.Errorf("unit template %q: cost must be in [1, 5]", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("unit template %q: max_hp must be >= 1", t.ID)
	}
	if t.Attack < 0 {
		return fmt.Errorf("unit template %q: attack must be >= 0", t.ID)
	}
	if t.AttackSpeed <= 0 {
		return fmt.Errorf("unit template %q: attack_speed must be > 0", t.ID)
	}
	if t.Range < 1 {
		return fmt.Errorf("unit template %q: range must be >= 1", t.ID)
	}
	if t.Armor < 0 {
		return fmt.Errorf("unit template %q: armor must be >= 0", t.ID)
	}
	if t.MagicResist < 0 {
		return fmt.Errorf("unit template %q: magic_resist must be >= 0", t.ID)
	}
	for _, tr := range t.Traits {
		if tr == "" {
			return fmt.Errorf("unit template %q: trait tags must not be empty", t.ID)
		}
	}
	if t.Ability != nil {
		if err := t.Ability.Validate(); err != nil {
			return fmt.Errorf("unit template %q: %w", t.ID, err)
		}
	}
	return nil
}

// ScaledHP returns the maximum HP at the given star level.
//
// Precondition: star must be in [MinStarLevel, MaxStarLevel].
// Postcondition: Returns floor(MaxHP * 1.8^(star-1)).
func (t *Template) ScaledHP(star int) int {
	return int(math.Floor(float64(t.MaxHP) * math.Pow(starScale, float64(star-1))))
}

// ScaledAttack returns the attack damage at the given star level.
//
// Precondition: star must be in [MinStarLevel, MaxStarLevel].
// Postcondition: Returns floor(Attack * 1.8^(star-1)).
func (t *Template) ScaledAttack(star int) int {
	return int(math.Floor(float64(t.Attack) * math.Pow(starScale, float64(star-1))))
}

// LoadTemplateFromBytes parses a single unit template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading unit dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// Registry indexes unit templates by ID.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry builds a Registry from the given templates.
//
// Postcondition: Returns an error if two templates share an ID.
func NewRegistry(templates []*Template) (*Registry, error) {
	m := make(map[string]*Template, len(templates))
	for _, t := range templates {
		if _, dup := m[t.ID]; dup {
			return nil, fmt.Errorf("duplicate unit template id %q", t.ID)
		}
		m[t.ID] = t
	}
	return &Registry{templates: m}, nil
}

// Get returns the template with the given ID.
//
// Postcondition: Returns (template, nil) if found, or a non-nil error naming
// the unknown ID. Referencing an unknown template is a construction error the
// caller must treat as fatal.
func (r *Registry) Get(id string) (*Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown unit template %q", id)
	}
	return t, nil
}

// All returns the registered templates in unspecified order.
func (r *Registry) All() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	return out
}

// Count returns the number of registered templates.
func (r *Registry) Count() int { return len(r.templates) }
