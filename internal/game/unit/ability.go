package unit

import "fmt"

// Ability is the declarative descriptor for a unit's special ability, cast
// automatically when the unit's mana bar fills. Fields are independent and
// combinable: a descriptor with both Damage and Stun applies damage AND a stun
// to the same target set in one cast. Zero values mean "effect absent".
type Ability struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Damage is flat magic damage, scaled by the caster's spell power.
	Damage int `yaml:"damage"`
	// AoE widens the target set of Damage/Stun/Slow from the current target to
	// every living enemy, and of AttackBonus from the caster to every living ally.
	AoE bool `yaml:"aoe"`
	// Stun is the stun duration in seconds applied to the target set.
	Stun float64 `yaml:"stun"`
	// Slow is the attack-speed slow fraction (0..1) applied to the target set.
	Slow float64 `yaml:"slow"`
	// Duration is the slow duration in seconds. It is also accepted alongside
	// ArmorBonus for historical reasons but never decremented there: an armor
	// bonus granted by an ability lasts for the remainder of the combat.
	Duration float64 `yaml:"duration"`
	// DamageMultiplier deals physical damage of base attack x multiplier to the
	// current target only.
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	// ArmorBonus is added to the caster's armor buff.
	ArmorBonus int `yaml:"armor_bonus"`
	// AttackBonus is added to the attack buff of every living ally when AoE is
	// set, otherwise to the caster only.
	AttackBonus int `yaml:"attack_bonus"`
	// ChainTargets makes Damage arc to the N closest living enemies with a 20%
	// falloff per hop.
	ChainTargets int `yaml:"chain_targets"`
	// Hits repeats a melee cleave: each repetition deals Damage to every living
	// enemy within Chebyshev distance 1 of the caster.
	Hits int `yaml:"hits"`
}

// Validate checks the descriptor's numeric ranges.
//
// Postcondition: Returns nil iff all set fields are non-negative, Slow is in
// [0, 1], and a Slow effect carries a positive Duration.
func (a *Ability) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("ability: name must not be empty")
	}
	if a.Damage < 0 {
		return fmt.Errorf("ability %q: damage must be >= 0", a.Name)
	}
	if a.Stun < 0 {
		return fmt.Errorf("ability %q: stun must be >= 0", a.Name)
	}
	if a.Slow < 0 || a.Slow > 1 {
		return fmt.Errorf("ability %q: slow must be in [0, 1]", a.Name)
	}
	if a.Slow > 0 && a.Duration <= 0 {
		return fmt.Errorf("ability %q: slow requires a positive duration", a.Name)
	}
	if a.Duration < 0 {
		return fmt.Errorf("ability %q: duration must be >= 0", a.Name)
	}
	if a.DamageMultiplier < 0 {
		return fmt.Errorf("ability %q: damage_multiplier must be >= 0", a.Name)
	}
	if a.ArmorBonus < 0 {
		return fmt.Errorf("ability %q: armor_bonus must be >= 0", a.Name)
	}
	if a.AttackBonus < 0 {
		return fmt.Errorf("ability %q: attack_bonus must be >= 0", a.Name)
	}
	if a.ChainTargets < 0 {
		return fmt.Errorf("ability %q: chain_targets must be >= 0", a.Name)
	}
	if a.ChainTargets > 0 && a.Damage <= 0 {
		return fmt.Errorf("ability %q: chain_targets requires damage", a.Name)
	}
	if a.Hits < 0 {
		return fmt.Errorf("ability %q: hits must be >= 0", a.Name)
	}
	if a.Hits > 0 && a.Damage <= 0 {
		return fmt.Errorf("ability %q: hits requires damage", a.Name)
	}
	return nil
}
