package combat

import (
	"math"
	"sort"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

// CastAbility resolves one full-mana cast and returns the events it produced
// (without tick stamps; the engine stamps them on emission).
//
// Ability descriptor fields are independent checks, not an exclusive switch:
// a descriptor combining damage, stun, and aoe applies damage AND the stun to
// the same AoE set in one cast. Plain damage defers to the chain and
// multi-hit deliveries when those are set, since damage is their per-hit
// parameter.
//
// Precondition: caster.Ability must be non-nil.
// Postcondition: caster.Mana == 0 and caster.State == StateCasting.
func CastAbility(caster *unit.Combatant, allies, enemies []*unit.Combatant) []Event {
	ab := caster.Ability
	caster.SpendMana()
	caster.State = unit.StateCasting

	spell := 1 + float64(caster.Buffs.SpellPower)/100
	var events []Event

	// Target set for direct damage and crowd control: every living enemy when
	// AoE, otherwise the current target only.
	var targets []*unit.Combatant
	if ab.AoE {
		targets = livingOf(enemies)
	} else if caster.Target != nil && caster.Target.IsAlive() {
		targets = []*unit.Combatant{caster.Target}
	}

	if ab.Damage > 0 && ab.ChainTargets == 0 && ab.Hits == 0 {
		amount := int(math.Floor(float64(ab.Damage) * spell))
		for _, t := range targets {
			dealt := t.TakeDamage(amount, unit.DamageMagic)
			events = append(events, Event{
				Type:       EventAbilityDamage,
				ActorID:    caster.ID,
				ActorName:  caster.Name,
				TargetID:   t.ID,
				TargetName: t.Name,
				Amount:     dealt,
				Ability:    ab.Name,
			})
		}
	}

	if ab.Stun > 0 {
		for _, t := range targets {
			t.ApplyStun(ab.Stun)
		}
	}
	if ab.Slow > 0 {
		for _, t := range targets {
			t.ApplySlow(ab.Slow, ab.Duration)
		}
	}

	if ab.DamageMultiplier > 0 && caster.Target != nil && caster.Target.IsAlive() {
		// Scales off base attack, not buffed attack.
		amount := int(math.Floor(float64(caster.Attack) * ab.DamageMultiplier * spell))
		tgt := caster.Target
		dealt := tgt.TakeDamage(amount, unit.DamagePhysical)
		events = append(events, Event{
			Type:       EventAbilityDamage,
			ActorID:    caster.ID,
			ActorName:  caster.Name,
			TargetID:   tgt.ID,
			TargetName: tgt.Name,
			Amount:     dealt,
			Ability:    ab.Name,
			Detail:     "multiplier",
		})
	}

	if ab.ArmorBonus > 0 {
		// The descriptor's Duration is not a timer here: the bonus is
		// permanent for the remainder of the combat.
		caster.Buffs.Armor += ab.ArmorBonus
		events = append(events, Event{
			Type:       EventAbilityBuff,
			ActorID:    caster.ID,
			ActorName:  caster.Name,
			TargetID:   caster.ID,
			TargetName: caster.Name,
			Amount:     ab.ArmorBonus,
			Ability:    ab.Name,
			Detail:     "armor",
		})
	}

	if ab.AttackBonus > 0 {
		recipients := []*unit.Combatant{caster}
		if ab.AoE {
			recipients = livingOf(allies)
		}
		for _, a := range recipients {
			a.Buffs.Attack += ab.AttackBonus
			events = append(events, Event{
				Type:       EventAbilityBuff,
				ActorID:    caster.ID,
				ActorName:  caster.Name,
				TargetID:   a.ID,
				TargetName: a.Name,
				Amount:     ab.AttackBonus,
				Ability:    ab.Name,
				Detail:     "attack",
			})
		}
	}

	if ab.ChainTargets > 0 && ab.Damage > 0 {
		events = append(events, castChain(caster, ab, enemies, spell)...)
	}

	if ab.Hits > 0 && ab.Damage > 0 {
		events = append(events, castMultiHit(caster, ab, enemies, spell)...)
	}

	return events
}

// castChain arcs damage to the N closest living enemies with a 20% falloff
// per hop. The sort is stable over roster order so equidistant enemies chain
// deterministically.
func castChain(caster *unit.Combatant, ab *unit.Ability, enemies []*unit.Combatant, spell float64) []Event {
	candidates := livingOf(enemies)
	sort.SliceStable(candidates, func(i, j int) bool {
		return caster.DistanceTo(candidates[i]) < caster.DistanceTo(candidates[j])
	})
	if len(candidates) > ab.ChainTargets {
		candidates = candidates[:ab.ChainTargets]
	}
	var events []Event
	for i, t := range candidates {
		falloff := 1 - 0.2*float64(i)
		if falloff <= 0 {
			break
		}
		amount := int(math.Floor(float64(ab.Damage) * spell * falloff))
		dealt := t.TakeDamage(amount, unit.DamageMagic)
		events = append(events, Event{
			Type:       EventAbilityChain,
			ActorID:    caster.ID,
			ActorName:  caster.Name,
			TargetID:   t.ID,
			TargetName: t.Name,
			Amount:     dealt,
			Ability:    ab.Name,
		})
	}
	return events
}

// castMultiHit repeats a melee cleave: each repetition strikes every living
// enemy within Chebyshev distance 1 of the caster with one instance of
// spell-scaled physical damage.
func castMultiHit(caster *unit.Combatant, ab *unit.Ability, enemies []*unit.Combatant, spell float64) []Event {
	amount := int(math.Floor(float64(ab.Damage) * spell))
	var events []Event
	for hit := 0; hit < ab.Hits; hit++ {
		for _, t := range enemies {
			if !t.IsAlive() || caster.DistanceTo(t) > 1 {
				continue
			}
			dealt := t.TakeDamage(amount, unit.DamagePhysical)
			events = append(events, Event{
				Type:       EventAbilityHit,
				ActorID:    caster.ID,
				ActorName:  caster.Name,
				TargetID:   t.ID,
				TargetName: t.Name,
				Amount:     dealt,
				Ability:    ab.Name,
			})
		}
	}
	return events
}
