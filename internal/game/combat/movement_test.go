package combat_test

import (
	"testing"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/combat"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

var testBounds = combat.Bounds{Width: 8, Height: 8}

func occupancyOf(units ...*unit.Combatant) combat.Occupancy {
	occ := make(combat.Occupancy)
	for _, u := range units {
		occ.Claim(*u.Pos, u.ID)
	}
	return occ
}

func TestGreedyMovementPrefersDiagonal(t *testing.T) {
	u := makeFielded(t, "u", nil, 2, 2)
	tgt := makeFielded(t, "t", nil, 5, 5)
	occ := occupancyOf(u, tgt)

	moved := combat.GreedyMovement{}.Step(u, tgt, occ, testBounds)
	if !moved {
		t.Fatal("expected a move")
	}
	if u.Pos.X != 3 || u.Pos.Y != 3 {
		t.Errorf("moved to (%d,%d), want diagonal (3,3)", u.Pos.X, u.Pos.Y)
	}
	if u.State != unit.StateMoving {
		t.Errorf("state = %v, want moving", u.State)
	}
	if occ.Occupied(unit.Position{X: 2, Y: 2}) {
		t.Error("old cell not vacated")
	}
	if !occ.Occupied(unit.Position{X: 3, Y: 3}) {
		t.Error("new cell not claimed")
	}
}

func TestGreedyMovementBlockedDiagonalFallsBack(t *testing.T) {
	u := makeFielded(t, "u", nil, 2, 2)
	tgt := makeFielded(t, "t", nil, 5, 5)
	blocker := makeFielded(t, "b", nil, 3, 3)
	occ := occupancyOf(u, tgt, blocker)

	if !(combat.GreedyMovement{}).Step(u, tgt, occ, testBounds) {
		t.Fatal("expected a fallback move")
	}
	// Diagonal blocked: the x-axis step comes next.
	if u.Pos.X != 3 || u.Pos.Y != 2 {
		t.Errorf("moved to (%d,%d), want (3,2)", u.Pos.X, u.Pos.Y)
	}
}

func TestGreedyMovementSingleAxisCandidates(t *testing.T) {
	u := makeFielded(t, "u", nil, 2, 2)
	tgt := makeFielded(t, "t", nil, 6, 2)
	straight := makeFielded(t, "b1", nil, 3, 2)
	upper := makeFielded(t, "b2", nil, 3, 1)
	occ := occupancyOf(u, tgt, straight, upper)

	if !(combat.GreedyMovement{}).Step(u, tgt, occ, testBounds) {
		t.Fatal("expected a move")
	}
	// (3,2) and (3,1) blocked: the remaining diagonal alternate is (3,3).
	if u.Pos.X != 3 || u.Pos.Y != 3 {
		t.Errorf("moved to (%d,%d), want (3,3)", u.Pos.X, u.Pos.Y)
	}
}

func TestGreedyMovementStallsWhenWalled(t *testing.T) {
	u := makeFielded(t, "u", nil, 2, 2)
	tgt := makeFielded(t, "t", nil, 6, 2)
	occ := occupancyOf(u, tgt,
		makeFielded(t, "b1", nil, 3, 1),
		makeFielded(t, "b2", nil, 3, 2),
		makeFielded(t, "b3", nil, 3, 3),
	)

	if (combat.GreedyMovement{}).Step(u, tgt, occ, testBounds) {
		t.Fatal("walled unit should stall, not move")
	}
	if u.Pos.X != 2 || u.Pos.Y != 2 {
		t.Error("stalled unit changed position")
	}
	if u.State != unit.StateIdle {
		t.Errorf("state = %v, want idle on stall", u.State)
	}
	if !occ.Occupied(unit.Position{X: 2, Y: 2}) {
		t.Error("stalled unit lost its cell claim")
	}
}

func TestGreedyMovementRespectsBounds(t *testing.T) {
	u := makeFielded(t, "u", nil, 0, 0)
	tgt := makeFielded(t, "t", nil, 4, 0)
	// Straight and in-bounds diagonal blocked; (1,-1) is off-board.
	occ := occupancyOf(u, tgt,
		makeFielded(t, "b1", nil, 1, 0),
		makeFielded(t, "b2", nil, 1, 1),
	)

	if (combat.GreedyMovement{}).Step(u, tgt, occ, testBounds) {
		t.Fatal("only candidate is off-board; unit should stall")
	}
}

func TestGreedyMovementOffBoardNoop(t *testing.T) {
	u := makeFielded(t, "u", nil, 0, 0)
	u.Pos = nil
	tgt := makeFielded(t, "t", nil, 4, 0)
	if (combat.GreedyMovement{}).Step(u, tgt, make(combat.Occupancy), testBounds) {
		t.Fatal("off-board unit cannot move")
	}
}
