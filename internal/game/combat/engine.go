package combat

import (
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/rng"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/trait"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

// Phase is the engine's lifecycle state. Transitions are strictly
// NotStarted -> Running -> Ended; an Ended engine never processes another
// tick.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRunning
	PhaseEnded
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "not_started"
	}
}

// Engine runs one battle start to finish. It owns its cloned rosters
// exclusively while running: callers hand in persistent units, the engine
// fights with throwaway copies, and the originals are never mutated.
//
// An Engine is single-use and single-threaded: one battle per instance, all
// tick processing on one goroutine. The real-time and synchronous drivers
// both feed the same step function; only the time source differs.
type Engine struct {
	cfg      Config
	src      rng.Source
	traits   *trait.Resolver
	movement MovementPolicy
	logger   *zap.Logger
	observer func(Observation)

	phase   Phase
	allies  []*unit.Combatant
	enemies []*unit.Combatant
	occ     Occupancy
	tick    int
	events  []Event
	result  *Result

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates an engine over the given configuration, randomness source, and
// trait resolver. Movement defaults to GreedyMovement and logging to a no-op
// logger.
//
// Precondition: cfg must validate; src and traits must be non-nil.
func New(cfg Config, src rng.Source, traits *trait.Resolver) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("combat: randomness source must not be nil")
	}
	if traits == nil {
		return nil, fmt.Errorf("combat: trait resolver must not be nil")
	}
	return &Engine{
		cfg:      cfg,
		src:      src,
		traits:   traits,
		movement: GreedyMovement{},
		logger:   zap.NewNop(),
		stopCh:   make(chan struct{}),
	}, nil
}

// SetMovementPolicy substitutes the movement policy. Must be called before
// Start.
func (e *Engine) SetMovementPolicy(p MovementPolicy) {
	if p != nil {
		e.movement = p
	}
}

// SetObserver installs a per-tick observation callback for live rendering.
// Must be called before Start. The callback runs on the engine's tick
// goroutine and must not mutate combatant state.
func (e *Engine) SetObserver(fn func(Observation)) { e.observer = fn }

// SetLogger installs a structured logger. Must be called before Start.
func (e *Engine) SetLogger(l *zap.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// Tick returns the number of ticks processed so far.
func (e *Engine) Tick() int { return e.tick }

// Result returns the battle result, or nil before the battle ends.
func (e *Engine) Result() *Result { return e.result }

// Start clones both rosters, applies trait bonuses per side, and transitions
// to Running — or resolves immediately when either side fields no positioned
// units (a designed auto-resolution, not an error).
//
// Precondition: the engine must be in PhaseNotStarted.
// Postcondition: On success the engine is Running (or Ended with a zero-tick
// result for the auto-resolution path) and the callers' units are untouched.
func (e *Engine) Start(allies, enemies []*unit.Combatant) error {
	if e.phase != PhaseNotStarted {
		return fmt.Errorf("combat: engine already %s", e.phase)
	}

	e.allies = cloneRoster(allies, unit.SideAlly)
	e.enemies = cloneRoster(enemies, unit.SideEnemy)

	// Buffs are zeroed then re-accumulated from each side's own synergies;
	// one roster's traits never touch the opposing roster. ResetForCombat
	// runs after the bonuses land so starting HP includes any HP bonus.
	for _, side := range [][]*unit.Combatant{e.allies, e.enemies} {
		for _, c := range side {
			c.ResetBuffs()
		}
	}
	e.applyTraits(e.allies)
	e.applyTraits(e.enemies)
	for _, side := range [][]*unit.Combatant{e.allies, e.enemies} {
		for _, c := range side {
			c.ResetForCombat()
		}
	}

	e.occ = e.buildOccupancy()
	e.emit(Event{Type: EventCombatStart, Detail: fmt.Sprintf("%d vs %d", len(e.allies), len(e.enemies))})
	e.logger.Debug("combat started",
		zap.Int("allies", len(e.allies)),
		zap.Int("enemies", len(e.enemies)),
	)

	// A side with zero positioned combatants auto-loses without a tick loop.
	// The verdict goes by fielded counts here: benched units are alive but
	// cannot fight, so a bench-only side still forfeits.
	if countFielded(e.allies) == 0 || countFielded(e.enemies) == 0 {
		e.finish(verdictFor(countFielded(e.allies), countFielded(e.enemies)))
		return nil
	}

	e.phase = PhaseRunning
	return nil
}

// RunSync drives the battle to completion in a tight loop with no wall-clock
// delay, up to the MaxTicks cap.
//
// Precondition: Start must have been called.
// Postcondition: Returns a non-nil Result; a capped battle resolves as a
// draw.
func (e *Engine) RunSync() (*Result, error) {
	switch e.phase {
	case PhaseNotStarted:
		return nil, fmt.Errorf("combat: engine not started")
	case PhaseEnded:
		return e.result, nil
	}
	for e.phase == PhaseRunning {
		if e.step() {
			break
		}
		if e.tick >= e.cfg.MaxTicks {
			e.finishCapped()
			break
		}
	}
	return e.result, nil
}

// RunRealTime drives the battle on a periodic ticker and returns a channel
// that receives the final Result exactly once. Stop cancels the run without
// resolving the channel.
//
// Precondition: Start must have been called.
func (e *Engine) RunRealTime() (<-chan *Result, error) {
	done := make(chan *Result, 1)
	switch e.phase {
	case PhaseNotStarted:
		return nil, fmt.Errorf("combat: engine not started")
	case PhaseEnded:
		done <- e.result
		return done, nil
	}
	go e.runTicker(done)
	return done, nil
}

// Stop halts a real-time run before natural termination. After Stop returns
// no further ticks are processed and the completion channel is never
// resolved. Safe to call multiple times.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

// step advances the simulation by one tick and reports whether the battle
// ended. The terminal check runs at the top of every tick, before any unit
// acts.
func (e *Engine) step() bool {
	if e.phase != PhaseRunning {
		return true
	}
	if countLiving(e.allies) == 0 || countLiving(e.enemies) == 0 {
		e.finish(e.decideVerdict())
		return true
	}

	e.tick++
	dt := e.cfg.deltaSeconds()
	e.occ = e.buildOccupancy()

	// Shuffling the combined living list each tick is the fairness mechanism:
	// neither side's units consistently act first. Iteration stays sequential
	// so later units observe earlier units' moves within the same tick.
	order := make([]*unit.Combatant, 0, len(e.allies)+len(e.enemies))
	for _, c := range e.allies {
		if c.IsAlive() {
			order = append(order, c)
		}
	}
	for _, c := range e.enemies {
		if c.IsAlive() {
			order = append(order, c)
		}
	}
	rng.Shuffle(order, e.src)

	for _, u := range order {
		// May have been killed by an earlier actor this tick.
		if !u.IsAlive() {
			continue
		}
		u.TickStatusEffects(dt)
		if u.IsStunned() {
			continue
		}
		if u.Target == nil || !u.Target.IsAlive() {
			u.Target = FindTarget(u, e.opponentsOf(u))
		}
		if u.Target == nil {
			u.State = unit.StateIdle
			continue
		}
		u.AttackCooldown -= dt

		if InRange(u, u.Target) {
			if u.AttackCooldown <= 0 {
				e.performAttack(u, u.Target)
				u.AttackCooldown = u.EffectiveAttackInterval()
				if u.State != unit.StateCasting {
					u.State = unit.StateAttacking
				}
			} else {
				u.State = unit.StateIdle
			}
			continue
		}

		if !u.OnBoard() {
			u.State = unit.StateIdle
			continue
		}
		from := *u.Pos
		if e.movement.Step(u, u.Target, e.occ, e.cfg.Bounds) {
			e.emit(Event{
				Type:      EventMove,
				ActorID:   u.ID,
				ActorName: u.Name,
				Detail:    fmt.Sprintf("(%d,%d)->(%d,%d)", from.X, from.Y, u.Pos.X, u.Pos.Y),
			})
		}
	}

	if e.observer != nil {
		e.observer(Observation{Tick: e.tick, Allies: e.allies, Enemies: e.enemies})
	}
	return false
}

// runTicker is the real-time driver loop; it owns all engine state mutation
// for the duration of the run.
func (e *Engine) runTicker(done chan<- *Result) {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopCh:
			e.phase = PhaseEnded
			return
		case <-ticker.C:
			if e.step() {
				done <- e.result
				return
			}
			if e.tick >= e.cfg.MaxTicks {
				e.finishCapped()
				done <- e.result
				return
			}
		}
	}
}

// performAttack resolves one basic attack: crit roll, physical damage, bonus
// magic damage as a second separately mitigated instance, mana gain, then the
// ability check.
func (e *Engine) performAttack(att, tgt *unit.Combatant) {
	dmg := att.EffectiveAttack()
	crit := false
	if !e.cfg.DisableCrits && att.Buffs.CritChance > 0 && rng.Percent(e.src) < att.Buffs.CritChance {
		crit = true
		mult := unit.BaseCritMultiplier + float64(att.Buffs.CritDamage)/100
		dmg = int(math.Floor(float64(dmg) * mult))
	}

	dealt := tgt.TakeDamage(dmg, unit.DamagePhysical)
	magicDealt := 0
	if att.Buffs.MagicDamage > 0 {
		magicDealt = tgt.TakeDamage(att.Buffs.MagicDamage, unit.DamageMagic)
	}
	e.emit(Event{
		Type:        EventAttack,
		ActorID:     att.ID,
		ActorName:   att.Name,
		TargetID:    tgt.ID,
		TargetName:  tgt.Name,
		Amount:      dealt,
		MagicAmount: magicDealt,
		Crit:        crit,
	})

	att.GainMana(unit.ManaPerAttack)
	if att.Ability != nil && att.Mana >= att.MaxMana {
		for _, ev := range CastAbility(att, e.alliesOf(att), e.opponentsOf(att)) {
			e.emit(ev)
		}
	}
}

// applyTraits resolves and applies one side's synergies, logging each active
// trait.
func (e *Engine) applyTraits(roster []*unit.Combatant) {
	active := e.traits.Resolve(roster)
	for id, bonus := range active {
		e.emit(Event{
			Type:   EventTraitActive,
			Trait:  id,
			Amount: bonus.Count,
		})
	}
}

// opponentsOf returns the roster opposing u.
func (e *Engine) opponentsOf(u *unit.Combatant) []*unit.Combatant {
	if u.Side == unit.SideAlly {
		return e.enemies
	}
	return e.allies
}

// alliesOf returns the roster u belongs to.
func (e *Engine) alliesOf(u *unit.Combatant) []*unit.Combatant {
	if u.Side == unit.SideAlly {
		return e.allies
	}
	return e.enemies
}

// buildOccupancy rebuilds the occupied-cell cache from living, on-board
// combatants on both sides.
func (e *Engine) buildOccupancy() Occupancy {
	occ := make(Occupancy)
	for _, side := range [][]*unit.Combatant{e.allies, e.enemies} {
		for _, c := range side {
			if c.IsAlive() && c.OnBoard() {
				occ.Claim(*c.Pos, c.ID)
			}
		}
	}
	return occ
}

// decideVerdict maps current living counts to a verdict; it drives the
// in-battle terminal check, where death is the only way off a roster.
func (e *Engine) decideVerdict() Verdict {
	return verdictFor(countLiving(e.allies), countLiving(e.enemies))
}

// verdictFor maps per-side combatant counts to a verdict.
func verdictFor(allies, enemies int) Verdict {
	switch {
	case allies > 0 && enemies == 0:
		return VerdictAllies
	case enemies > 0 && allies == 0:
		return VerdictEnemies
	default:
		return VerdictDraw
	}
}

// finish seals the battle with the given verdict.
func (e *Engine) finish(v Verdict) {
	survivorsA := livingOf(e.allies)
	survivorsB := livingOf(e.enemies)

	damage := 0
	if v != VerdictDraw {
		winners := survivorsA
		if v == VerdictEnemies {
			winners = survivorsB
		}
		damage = 2
		for _, c := range winners {
			damage += c.Star
		}
	}

	e.emit(Event{Type: EventCombatEnd, Detail: v.String()})
	e.result = &Result{
		Verdict:          v,
		DamageToLoser:    damage,
		SurvivingAllies:  survivorsA,
		SurvivingEnemies: survivorsB,
		TotalTicks:       e.tick,
		Events:           e.events,
	}
	e.phase = PhaseEnded
	e.logger.Debug("combat ended",
		zap.String("verdict", v.String()),
		zap.Int("ticks", e.tick),
		zap.Int("damage_to_loser", damage),
	)
}

// finishCapped forces a draw when the tick cap is hit with both sides still
// standing. This is a recoverable termination, not an error; it guards
// against kiting stalemates the greedy movement policy can produce.
func (e *Engine) finishCapped() {
	e.logger.Debug("combat hit tick cap, forcing draw", zap.Int("max_ticks", e.cfg.MaxTicks))
	e.finish(VerdictDraw)
}

// emit appends a tick-stamped event to the battle log.
func (e *Engine) emit(ev Event) {
	ev.Tick = e.tick
	e.events = append(e.events, ev)
}

func cloneRoster(roster []*unit.Combatant, side unit.Side) []*unit.Combatant {
	out := make([]*unit.Combatant, 0, len(roster))
	for _, c := range roster {
		out = append(out, c.CloneForSide(side))
	}
	return out
}

func countLiving(roster []*unit.Combatant) int {
	n := 0
	for _, c := range roster {
		if c.IsAlive() {
			n++
		}
	}
	return n
}

func countFielded(roster []*unit.Combatant) int {
	n := 0
	for _, c := range roster {
		if c.IsAlive() && c.OnBoard() {
			n++
		}
	}
	return n
}

func livingOf(roster []*unit.Combatant) []*unit.Combatant {
	var out []*unit.Combatant
	for _, c := range roster {
		if c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}
