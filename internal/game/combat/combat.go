// Package combat implements the autobattler battle engine: a discrete-time
// tick loop that resolves movement, targeting, attacks, abilities, status
// effects, and trait bonuses for two opposing rosters, producing a final
// Result and an ordered event log usable for playback.
package combat

import (
	"errors"
	"time"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

var (
	errTickInterval = errors.New("combat config: tick_interval must be > 0")
	errMaxTicks     = errors.New("combat config: max_ticks must be >= 1")
)

// Verdict is the battle outcome.
type Verdict int

const (
	VerdictDraw Verdict = iota
	VerdictAllies
	VerdictEnemies
)

// String returns "draw", "allies", or "enemies".
func (v Verdict) String() string {
	switch v {
	case VerdictAllies:
		return "allies"
	case VerdictEnemies:
		return "enemies"
	default:
		return "draw"
	}
}

// Result is the immutable outcome of one battle.
type Result struct {
	// Verdict names the winning side, or draw.
	Verdict Verdict
	// DamageToLoser is the damage dealt to the losing side's owner:
	// 2 + sum of surviving winner star levels. Zero on a draw.
	DamageToLoser int
	// SurvivingAllies and SurvivingEnemies list the living combatants per
	// side at battle end.
	SurvivingAllies  []*unit.Combatant
	SurvivingEnemies []*unit.Combatant
	// TotalTicks is the number of ticks processed before termination.
	TotalTicks int
	// Events is the full ordered battle log.
	Events []Event
}

// Observation is the per-tick snapshot handed to an observer callback for
// live rendering. The roster slices reference the engine's live combatants;
// observers must treat them as read-only.
type Observation struct {
	Tick    int
	Allies  []*unit.Combatant
	Enemies []*unit.Combatant
}

// Config holds the engine's tunables. The engine reads board bounds and
// timing from here rather than hard-coding them.
type Config struct {
	// Bounds is the shared battle grid size.
	Bounds Bounds
	// TickInterval is the real-time tick cadence; its duration in seconds is
	// also the simulation delta applied per tick in both execution modes.
	TickInterval time.Duration
	// MaxTicks caps a battle's length; hitting the cap forces a draw so that
	// unreachable stalemates cannot hang the caller.
	MaxTicks int
	// DisableCrits suppresses crit rolls entirely, for deterministic
	// regression runs.
	DisableCrits bool
}

// DefaultConfig returns the standard 8x8 board, 100ms ticks, and a
// 1000-tick cap.
func DefaultConfig() Config {
	return Config{
		Bounds:       Bounds{Width: 8, Height: 8},
		TickInterval: 100 * time.Millisecond,
		MaxTicks:     1000,
	}
}

// Validate checks the configuration invariants.
//
// Postcondition: Returns nil iff bounds are positive, TickInterval > 0, and
// MaxTicks >= 1.
func (c Config) Validate() error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	if c.TickInterval <= 0 {
		return errTickInterval
	}
	if c.MaxTicks < 1 {
		return errMaxTicks
	}
	return nil
}

// deltaSeconds is the simulation time step per tick.
func (c Config) deltaSeconds() float64 {
	return c.TickInterval.Seconds()
}
