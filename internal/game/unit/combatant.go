package unit

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Side tags which roster a combatant fights for.
type Side int

const (
	SideAlly Side = iota
	SideEnemy
)

// String returns "ally" or "enemy".
func (s Side) String() string {
	if s == SideAlly {
		return "ally"
	}
	return "enemy"
}

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	if s == SideAlly {
		return SideEnemy
	}
	return SideAlly
}

// State is a combatant's behavioral state within the tick loop.
// The Dead state is terminal for the duration of a battle.
type State int

const (
	StateIdle State = iota
	StateMoving
	StateAttacking
	StateCasting
	StateDead
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateAttacking:
		return "attacking"
	case StateCasting:
		return "casting"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// DamageType selects which defense stat mitigates an incoming hit.
type DamageType int

const (
	DamagePhysical DamageType = iota
	DamageMagic
)

// String returns "physical" or "magic".
func (d DamageType) String() string {
	if d == DamagePhysical {
		return "physical"
	}
	return "magic"
}

// Position is a cell on the shared battle grid.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Buffs is the per-combat bonus accumulator. All fields are zeroed by
// ResetBuffs at combat start and re-accumulated from active trait bonuses,
// then mutated further by ability casts during the battle. Never persisted
// outside a combat.
type Buffs struct {
	// Attack is flat bonus physical attack.
	Attack int `yaml:"attack"`
	// Armor is flat bonus armor.
	Armor int `yaml:"armor"`
	// MagicResist is flat bonus magic resist.
	MagicResist int `yaml:"magic_resist"`
	// AttackSpeed is bonus attacks per second.
	AttackSpeed float64 `yaml:"attack_speed"`
	// HP is flat bonus maximum HP.
	HP int `yaml:"hp"`
	// SpellPower scales ability damage: x(1 + SpellPower/100).
	SpellPower int `yaml:"spell_power"`
	// CritChance is the percent chance (0-100) for attacks to crit.
	CritChance int `yaml:"crit_chance"`
	// CritDamage is percent added to the 150% base crit multiplier.
	CritDamage int `yaml:"crit_damage"`
	// DamageReduction is a flat percent (0-100) applied after stat mitigation.
	DamageReduction int `yaml:"damage_reduction"`
	// MagicDamage is flat bonus magic damage added to every physical attack.
	MagicDamage int `yaml:"magic_damage"`
	// ManaRegen is bonus mana gained on every mana-granting event.
	ManaRegen int `yaml:"mana_regen"`
}

// Add accumulates other into b field by field.
func (b *Buffs) Add(other Buffs) {
	b.Attack += other.Attack
	b.Armor += other.Armor
	b.MagicResist += other.MagicResist
	b.AttackSpeed += other.AttackSpeed
	b.HP += other.HP
	b.SpellPower += other.SpellPower
	b.CritChance += other.CritChance
	b.CritDamage += other.CritDamage
	b.DamageReduction += other.DamageReduction
	b.MagicDamage += other.MagicDamage
	b.ManaRegen += other.ManaRegen
}

// StunEffect tracks an active stun. Remaining decays linearly with tick time.
type StunEffect struct {
	Remaining float64
}

// SlowEffect tracks an active attack-speed slow.
type SlowEffect struct {
	// Fraction is the slow strength in (0, 1]: 0.4 means 40% slower attacks.
	Fraction float64
	// Remaining is the seconds left before the slow clears.
	Remaining float64
}

// Combat tuning constants shared by the engine and the Combatant model.
const (
	// DefaultMaxMana is the mana bar size; an ability casts at full mana.
	DefaultMaxMana = 100
	// ManaPerAttack is mana gained by landing an attack.
	ManaPerAttack = 10
	// ManaPerHitTaken is mana gained by taking damage.
	ManaPerHitTaken = 10
	// MinAttackSpeed floors the effective attack speed so slows can never
	// stop a unit attacking entirely.
	MinAttackSpeed = 0.1
	// BaseCritMultiplier is the damage multiplier of an unmodified crit.
	BaseCritMultiplier = 1.5
)

// DistanceOffBoard is the sentinel distance between combatants when either is
// off the board. It compares greater than any reachable grid distance.
const DistanceOffBoard = math.MaxInt32

// Combatant is one fighting instance inside a single battle. It is a
// throwaway clone of a persistent roster unit: the engine owns it exclusively
// for the duration of the battle and the original is never mutated by combat.
type Combatant struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// TemplateID is the source template's ID.
	TemplateID string
	// Name is copied from the template for logs and rendering.
	Name string
	// Side is the owning roster.
	Side Side
	// Star is the power tier in [1, 3].
	Star int

	// Base stats, set once from template x star multiplier. Immutable during
	// combat.
	MaxHP       int
	Attack      int
	AttackSpeed float64
	Range       int
	Armor       int
	MagicResist int
	Traits      []string
	Ability     *Ability

	// Mutable combat state.
	CurrentHP int
	Mana      int
	MaxMana   int
	// Pos is the grid cell, or nil when off board. Off-board combatants do
	// not occupy a cell and cannot act.
	Pos *Position
	// State is the behavioral state; StateDead is terminal per battle.
	State State
	// Target is the current target; must be living or be re-resolved.
	Target *Combatant
	// AttackCooldown is seconds until the next attack is allowed.
	AttackCooldown float64

	Buffs Buffs
	Stun  StunEffect
	Slow  SlowEffect
}

// NewCombatant creates a combat instance from a template at the given star
// level.
//
// Precondition: tmpl must be non-nil and validated.
// Postcondition: Returns an error if star is outside [1, 3]; otherwise the
// combatant starts off board, at full base HP, zero mana, StateIdle.
func NewCombatant(tmpl *Template, star int, side Side) (*Combatant, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("unit: template must not be nil")
	}
	if star < MinStarLevel || star > MaxStarLevel {
		return nil, fmt.Errorf("unit %q: star level %d outside [%d, %d]", tmpl.ID, star, MinStarLevel, MaxStarLevel)
	}
	traits := make([]string, len(tmpl.Traits))
	copy(traits, tmpl.Traits)
	c := &Combatant{
		ID:          uuid.NewString(),
		TemplateID:  tmpl.ID,
		Name:        tmpl.Name,
		Side:        side,
		Star:        star,
		MaxHP:       tmpl.ScaledHP(star),
		Attack:      tmpl.ScaledAttack(star),
		AttackSpeed: tmpl.AttackSpeed,
		Range:       tmpl.Range,
		Armor:       tmpl.Armor,
		MagicResist: tmpl.MagicResist,
		Traits:      traits,
		Ability:     tmpl.Ability,
		MaxMana:     DefaultMaxMana,
		State:       StateIdle,
	}
	c.CurrentHP = c.MaxHP
	return c, nil
}

// IsAlive reports whether the combatant can still act this battle.
func (c *Combatant) IsAlive() bool {
	return c.CurrentHP > 0 && c.State != StateDead
}

// OnBoard reports whether the combatant occupies a grid cell.
func (c *Combatant) OnBoard() bool { return c.Pos != nil }

// PlaceAt puts the combatant on the board at (x, y).
func (c *Combatant) PlaceAt(x, y int) {
	c.Pos = &Position{X: x, Y: y}
}

// EffectiveAttack returns base attack plus the attack buff.
func (c *Combatant) EffectiveAttack() int {
	return c.Attack + c.Buffs.Attack
}

// EffectiveArmor returns base armor plus the armor buff.
func (c *Combatant) EffectiveArmor() int {
	return c.Armor + c.Buffs.Armor
}

// EffectiveMagicResist returns base magic resist plus the magic resist buff.
func (c *Combatant) EffectiveMagicResist() int {
	return c.MagicResist + c.Buffs.MagicResist
}

// EffectiveMaxHP returns base max HP plus the HP buff.
func (c *Combatant) EffectiveMaxHP() int {
	return c.MaxHP + c.Buffs.HP
}

// EffectiveRange returns the attack range in cells.
func (c *Combatant) EffectiveRange() int { return c.Range }

// EffectiveAttackSpeed returns attacks per second after buffs and any active
// slow, floored at MinAttackSpeed.
func (c *Combatant) EffectiveAttackSpeed() float64 {
	speed := c.AttackSpeed + c.Buffs.AttackSpeed
	if c.IsSlowed() {
		speed *= 1 - c.Slow.Fraction
	}
	if speed < MinAttackSpeed {
		speed = MinAttackSpeed
	}
	return speed
}

// EffectiveAttackInterval returns the seconds between attacks.
//
// Postcondition: Returns a positive value <= 1/MinAttackSpeed.
func (c *Combatant) EffectiveAttackInterval() float64 {
	return 1 / c.EffectiveAttackSpeed()
}

// IsStunned reports whether a stun is currently active.
func (c *Combatant) IsStunned() bool { return c.Stun.Remaining > 0 }

// IsSlowed reports whether a slow is currently active.
func (c *Combatant) IsSlowed() bool {
	return c.Slow.Remaining > 0 && c.Slow.Fraction > 0
}

// ApplyStun stuns the combatant for the given seconds, keeping the longer of
// the existing and new remaining durations. No-op if dead or seconds <= 0.
func (c *Combatant) ApplyStun(seconds float64) {
	if !c.IsAlive() || seconds <= 0 {
		return
	}
	if seconds > c.Stun.Remaining {
		c.Stun.Remaining = seconds
	}
}

// ApplySlow slows the combatant's attacks by fraction for duration seconds.
// A stronger slow replaces a weaker one; an equal-strength slow extends the
// duration. No-op if dead or the parameters are out of range.
func (c *Combatant) ApplySlow(fraction, duration float64) {
	if !c.IsAlive() || fraction <= 0 || fraction > 1 || duration <= 0 {
		return
	}
	if fraction > c.Slow.Fraction {
		c.Slow = SlowEffect{Fraction: fraction, Remaining: duration}
		return
	}
	if fraction == c.Slow.Fraction && duration > c.Slow.Remaining {
		c.Slow.Remaining = duration
	}
}

// TickStatusEffects decays active status effects by dt seconds, clearing any
// that reach zero.
//
// Precondition: dt must be >= 0.
// Postcondition: Stun.Remaining >= 0 and Slow.Remaining >= 0; a cleared slow
// has Fraction == 0.
func (c *Combatant) TickStatusEffects(dt float64) {
	if c.Stun.Remaining > 0 {
		c.Stun.Remaining -= dt
		if c.Stun.Remaining <= 0 {
			c.Stun = StunEffect{}
		}
	}
	if c.Slow.Remaining > 0 {
		c.Slow.Remaining -= dt
		if c.Slow.Remaining <= 0 {
			c.Slow = SlowEffect{}
		}
	}
}

// TakeDamage applies incoming damage of the given type and returns the actual
// damage dealt after mitigation.
//
// Mitigation: reduction = defense / (defense + 100) using armor for physical
// and magic resist for magic; actual = floor(amount * (1 - reduction)); then
// the flat DamageReduction percent buff is applied and floored; the result is
// floored to a minimum of 1 whenever the pre-mitigation amount was > 0.
//
// Taking damage grants mana. If CurrentHP reaches 0 the combatant transitions
// to StateDead, its target is cleared, and it never acts again this battle.
//
// Postcondition: Returns 0 if the combatant was already dead or amount <= 0;
// 0 <= CurrentHP <= EffectiveMaxHP() holds afterwards.
func (c *Combatant) TakeDamage(amount int, typ DamageType) int {
	if !c.IsAlive() || amount <= 0 {
		return 0
	}

	defense := c.EffectiveArmor()
	if typ == DamageMagic {
		defense = c.EffectiveMagicResist()
	}
	if defense < 0 {
		defense = 0
	}
	reduction := float64(defense) / (float64(defense) + 100)
	actual := int(math.Floor(float64(amount) * (1 - reduction)))
	if c.Buffs.DamageReduction > 0 {
		dr := c.Buffs.DamageReduction
		if dr > 100 {
			dr = 100
		}
		actual = int(math.Floor(float64(actual) * (1 - float64(dr)/100)))
	}
	if actual < 1 {
		actual = 1
	}

	c.CurrentHP -= actual
	if c.CurrentHP <= 0 {
		c.CurrentHP = 0
		c.State = StateDead
		c.Target = nil
		return actual
	}
	c.GainMana(ManaPerHitTaken)
	return actual
}

// Heal restores up to amount HP, clamped at EffectiveMaxHP.
//
// Postcondition: Returns the HP actually restored; 0 if dead or amount <= 0.
func (c *Combatant) Heal(amount int) int {
	if !c.IsAlive() || amount <= 0 {
		return 0
	}
	maxHP := c.EffectiveMaxHP()
	healed := amount
	if c.CurrentHP+healed > maxHP {
		healed = maxHP - c.CurrentHP
	}
	c.CurrentHP += healed
	return healed
}

// GainMana adds amount plus the mana regen buff, clamped at MaxMana. No-op if
// dead.
//
// Postcondition: 0 <= Mana <= MaxMana.
func (c *Combatant) GainMana(amount int) {
	if !c.IsAlive() || amount <= 0 {
		return
	}
	c.Mana += amount + c.Buffs.ManaRegen
	if c.Mana > c.MaxMana {
		c.Mana = c.MaxMana
	}
}

// SpendMana empties the mana bar; called when an ability casts.
func (c *Combatant) SpendMana() { c.Mana = 0 }

// ResetBuffs zeroes the bonus accumulator. Called once at combat start before
// trait bonuses are applied; applying bonuses twice without a reset
// double-applies them.
func (c *Combatant) ResetBuffs() {
	c.Buffs = Buffs{}
}

// ResetForCombat restores the combatant to its combat-start state: full
// effective HP, empty mana, no target, no status effects, no cooldown,
// StateIdle. This is what lets the same persistent unit fight round after
// round without manual bookkeeping.
//
// Postcondition: CurrentHP == EffectiveMaxHP(); Mana == 0; Target == nil.
func (c *Combatant) ResetForCombat() {
	c.CurrentHP = c.EffectiveMaxHP()
	c.Mana = 0
	c.Target = nil
	c.AttackCooldown = 0
	c.Stun = StunEffect{}
	c.Slow = SlowEffect{}
	c.State = StateIdle
}

// DistanceTo returns the Chebyshev distance to other, or DistanceOffBoard if
// either combatant is off the board.
func (c *Combatant) DistanceTo(other *Combatant) int {
	if c.Pos == nil || other == nil || other.Pos == nil {
		return DistanceOffBoard
	}
	dx := c.Pos.X - other.Pos.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Pos.Y - other.Pos.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Clone returns a deep copy with a fresh instance ID. The clone's target is
// cleared; positions and trait tags are copied, not shared.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.ID = uuid.NewString()
	cp.Target = nil
	if c.Pos != nil {
		pos := *c.Pos
		cp.Pos = &pos
	}
	cp.Traits = make([]string, len(c.Traits))
	copy(cp.Traits, c.Traits)
	return &cp
}

// CloneForSide returns a Clone tagged with the given side. The engine uses
// this at combat start so the caller's persistent roster is never mutated.
func (c *Combatant) CloneForSide(side Side) *Combatant {
	cp := c.Clone()
	cp.Side = side
	return cp
}
