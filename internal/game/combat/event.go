package combat

// EventType identifies one kind of discrete battle log entry.
type EventType string

const (
	EventCombatStart   EventType = "combat_start"
	EventTraitActive   EventType = "trait_active"
	EventMove          EventType = "move"
	EventAttack        EventType = "attack"
	EventAbilityDamage EventType = "ability_damage"
	EventAbilityBuff   EventType = "ability_buff"
	EventAbilityChain  EventType = "ability_chain"
	EventAbilityHit    EventType = "ability_hit"
	EventCombatEnd     EventType = "combat_end"
)

// Event is one entry in the ordered battle log. Every entry is stamped with
// the tick it happened on; fields beyond Tick and Type are populated only
// where they apply.
type Event struct {
	Tick int
	Type EventType
	// ActorID and ActorName identify the acting combatant, if any.
	ActorID   string
	ActorName string
	// TargetID and TargetName identify the affected combatant, if any.
	TargetID   string
	TargetName string
	// Amount is the damage dealt or bonus granted.
	Amount int
	// MagicAmount is the separately mitigated bonus magic damage landed by an
	// attack carrying a magic damage buff.
	MagicAmount int
	// Crit marks a critical attack.
	Crit bool
	// Trait is the trait ID for trait_active entries.
	Trait string
	// Ability is the ability name for ability_* entries.
	Ability string
	// Detail carries free-form context, e.g. movement destinations or
	// crowd-control riders.
	Detail string
}
