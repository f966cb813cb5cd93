package shop

import (
	"fmt"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

type mergeKey struct {
	templateID string
	star       int
}

// MergeUpgrade collapses every three-of-a-kind in the roster: exactly three
// units sharing (template, star) below the star cap become one unit one star
// higher. Merges cascade, so three freshly merged 2-star units collapse again
// into a 3-star. Two copies are never a partial upgrade.
//
// The upgraded unit replaces the first of its three copies in roster order;
// the other two are removed. The input slice is not modified.
//
// Precondition: registry must resolve every TemplateID in the roster.
// Postcondition: The returned roster holds at most two units per
// (template, star) key below MaxStarLevel.
func MergeUpgrade(roster []*unit.Combatant, registry *unit.Registry) ([]*unit.Combatant, error) {
	if registry == nil {
		return nil, fmt.Errorf("shop: registry must not be nil")
	}

	out := make([]*unit.Combatant, len(roster))
	copy(out, roster)

	for {
		merged, err := mergeOnce(out, registry)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			return out, nil
		}
		out = merged
	}
}

// mergeOnce performs the first available merge in roster order, or returns nil
// when no triple exists.
func mergeOnce(roster []*unit.Combatant, registry *unit.Registry) ([]*unit.Combatant, error) {
	counts := make(map[mergeKey][]int)
	for i, c := range roster {
		if c.Star >= unit.MaxStarLevel {
			continue
		}
		key := mergeKey{templateID: c.TemplateID, star: c.Star}
		counts[key] = append(counts[key], i)
		if len(counts[key]) < 3 {
			continue
		}

		tmpl, err := registry.Get(c.TemplateID)
		if err != nil {
			return nil, err
		}
		first := counts[key][0]
		upgraded, err := unit.NewCombatant(tmpl, c.Star+1, roster[first].Side)
		if err != nil {
			return nil, err
		}

		out := make([]*unit.Combatant, 0, len(roster)-2)
		consumed := map[int]bool{counts[key][1]: true, counts[key][2]: true}
		for j, u := range roster {
			switch {
			case j == first:
				out = append(out, upgraded)
			case consumed[j]:
			default:
				out = append(out, u)
			}
		}
		return out, nil
	}
	return nil, nil
}
