package trait

import (
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

// ActiveBonus records the tier a trait reached for one roster.
type ActiveBonus struct {
	// Count is the threshold that was met (the tier's count, not the roster's).
	Count int
	// Effects is the bundle granted to each combatant carrying the trait.
	Effects unit.Buffs
}

// Resolver computes trait synergies for one roster. It is a plain value owned
// by whoever runs a battle — there is no process-wide trait state.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a Resolver over the given trait registry.
//
// Precondition: registry must be non-nil.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Counts tallies unique units per trait for the roster. Only living, on-board
// combatants count, and each combatant contributes at most one count per trait
// it carries. Two copies of the same template are two distinct board units and
// count twice; uniqueness is per combatant, not per template.
//
// Postcondition: Every value in the returned map is >= 1.
func (r *Resolver) Counts(roster []*unit.Combatant) map[string]int {
	counts := make(map[string]int)
	for _, c := range roster {
		if !c.IsAlive() || !c.OnBoard() {
			continue
		}
		seen := make(map[string]bool, len(c.Traits))
		for _, id := range c.Traits {
			if seen[id] {
				continue
			}
			seen[id] = true
			counts[id]++
		}
	}
	return counts
}

// ActiveBonuses maps each counted trait to the highest bonus tier its count
// meets. Traits that meet no tier are absent from the result and contribute
// nothing this combat.
func (r *Resolver) ActiveBonuses(counts map[string]int) map[string]ActiveBonus {
	active := make(map[string]ActiveBonus)
	for id, n := range counts {
		def, ok := r.registry.Get(id)
		if !ok {
			continue
		}
		tier, met := def.HighestMet(n)
		if !met {
			continue
		}
		active[id] = ActiveBonus{Count: tier.Count, Effects: tier.Effects}
	}
	return active
}

// Apply accumulates every active trait bonus into the buffs of each living,
// on-board combatant carrying that trait. Bonuses are additive: a combatant
// with two active traits receives both bundles.
//
// Apply assumes ResetBuffs was called first; calling it twice without a reset
// double-applies, which is exactly the combat-start contract (reset once,
// then apply once per side).
func (r *Resolver) Apply(roster []*unit.Combatant, active map[string]ActiveBonus) {
	for _, c := range roster {
		if !c.IsAlive() || !c.OnBoard() {
			continue
		}
		for _, id := range c.Traits {
			if bonus, ok := active[id]; ok {
				c.Buffs.Add(bonus.Effects)
			}
		}
	}
}

// Resolve is the combat-start convenience: Counts + ActiveBonuses + Apply for
// one roster, returning the active bonuses for logging.
func (r *Resolver) Resolve(roster []*unit.Combatant) map[string]ActiveBonus {
	active := r.ActiveBonuses(r.Counts(roster))
	r.Apply(roster, active)
	return active
}
