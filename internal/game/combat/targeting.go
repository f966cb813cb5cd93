package combat

import "github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"

// FindTarget selects the nearest living, on-board enemy by Chebyshev
// distance. Ties break to the first candidate in roster iteration order,
// which makes target selection deterministic for a fixed roster.
//
// Postcondition: Returns nil iff no living, on-board enemy exists.
func FindTarget(u *unit.Combatant, enemies []*unit.Combatant) *unit.Combatant {
	var best *unit.Combatant
	bestDist := unit.DistanceOffBoard
	for _, e := range enemies {
		if !e.IsAlive() || !e.OnBoard() {
			continue
		}
		d := u.DistanceTo(e)
		if d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

// InRange reports whether target is within u's effective attack range.
// Off-board parties are never in range.
func InRange(u, target *unit.Combatant) bool {
	return u.DistanceTo(target) <= u.EffectiveRange()
}
