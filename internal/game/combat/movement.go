package combat

import (
	"fmt"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

// Bounds is the battle grid size. Cells range over [0, Width) x [0, Height).
type Bounds struct {
	Width  int
	Height int
}

// Validate checks that the grid has positive dimensions.
func (b Bounds) Validate() error {
	if b.Width < 1 || b.Height < 1 {
		return fmt.Errorf("combat config: board bounds %dx%d must be positive", b.Width, b.Height)
	}
	return nil
}

// Contains reports whether pos lies on the grid.
func (b Bounds) Contains(pos unit.Position) bool {
	return pos.X >= 0 && pos.X < b.Width && pos.Y >= 0 && pos.Y < b.Height
}

// Occupancy maps occupied grid cells to the occupying combatant's ID.
// The engine rebuilds it every tick and movement mutates it mid-tick so that
// later actors in the same tick observe earlier actors' moves.
type Occupancy map[unit.Position]string

// Occupied reports whether pos is claimed.
func (o Occupancy) Occupied(pos unit.Position) bool {
	_, ok := o[pos]
	return ok
}

// Claim records the combatant id at pos.
func (o Occupancy) Claim(pos unit.Position, id string) { o[pos] = id }

// Vacate releases pos.
func (o Occupancy) Vacate(pos unit.Position) { delete(o, pos) }

// MovementPolicy decides one grid step per tick for a unit closing on its
// target. Implementations mutate the unit's position and the occupancy set on
// success. Isolating movement behind this interface lets a pathfinding policy
// be substituted without touching the tick loop.
type MovementPolicy interface {
	// Step attempts to move u one cell toward target.
	//
	// Postcondition: Returns true and updates u.Pos, occ, and u.State
	// (StateMoving) on success; returns false leaving u in StateIdle when no
	// candidate cell is free or either party is off board.
	Step(u, target *unit.Combatant, occ Occupancy, bounds Bounds) bool
}

// GreedyMovement is the default, non-pathfinding policy: step toward the
// target, preferring the diagonal, taking the first free candidate cell.
// It can stall indefinitely behind a wall of occupied cells; that blocking
// behavior is load-bearing for game balance and is preserved as-is.
type GreedyMovement struct{}

// sign returns -1, 0, or 1.
func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Step implements MovementPolicy.
//
// Candidate order: the diagonal first when both axis deltas are nonzero;
// otherwise the primary-axis step followed by the two diagonal alternates
// along the secondary axis.
func (GreedyMovement) Step(u, target *unit.Combatant, occ Occupancy, bounds Bounds) bool {
	if u.Pos == nil || target == nil || target.Pos == nil {
		u.State = unit.StateIdle
		return false
	}

	dx := sign(target.Pos.X - u.Pos.X)
	dy := sign(target.Pos.Y - u.Pos.Y)

	var candidates []unit.Position
	switch {
	case dx != 0 && dy != 0:
		candidates = []unit.Position{
			{X: u.Pos.X + dx, Y: u.Pos.Y + dy},
			{X: u.Pos.X + dx, Y: u.Pos.Y},
			{X: u.Pos.X, Y: u.Pos.Y + dy},
		}
	case dx != 0:
		candidates = []unit.Position{
			{X: u.Pos.X + dx, Y: u.Pos.Y},
			{X: u.Pos.X + dx, Y: u.Pos.Y - 1},
			{X: u.Pos.X + dx, Y: u.Pos.Y + 1},
		}
	case dy != 0:
		candidates = []unit.Position{
			{X: u.Pos.X, Y: u.Pos.Y + dy},
			{X: u.Pos.X - 1, Y: u.Pos.Y + dy},
			{X: u.Pos.X + 1, Y: u.Pos.Y + dy},
		}
	default:
		// Same cell as the target; nowhere to go.
		u.State = unit.StateIdle
		return false
	}

	for _, cell := range candidates {
		if !bounds.Contains(cell) || occ.Occupied(cell) {
			continue
		}
		occ.Vacate(*u.Pos)
		occ.Claim(cell, u.ID)
		*u.Pos = cell
		u.State = unit.StateMoving
		return true
	}

	u.State = unit.StateIdle
	return false
}

// StationaryMovement never moves. Useful for tests and for pinning stalemate
// behavior without constructing a wall of blockers.
type StationaryMovement struct{}

// Step implements MovementPolicy; it always reports no movement.
func (StationaryMovement) Step(u, _ *unit.Combatant, _ Occupancy, _ Bounds) bool {
	u.State = unit.StateIdle
	return false
}
