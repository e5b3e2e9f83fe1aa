package combat

// EventKind classifies a battle event.
type EventKind string

const (
	EventAttack        EventKind = "attack"
	EventSkill         EventKind = "skill"
	EventDamage        EventKind = "damage"
	EventHeal          EventKind = "heal"
	EventMove          EventKind = "move"
	EventStatusApplied EventKind = "status_applied"
	EventStatusTick    EventKind = "status_tick"
	EventStatusExpired EventKind = "status_expired"
	EventSkipped       EventKind = "skipped"
	EventDefeated      EventKind = "defeated"
)

// Event records one thing that happened during a turn.
type Event struct {
	Turn       int
	Kind       EventKind
	ActorID    string
	ActorName  string
	TargetID   string
	TargetName string
	// Amount is the health change, mana spent or grid shift, depending on Kind.
	Amount    int
	Critical  bool
	Narrative string
}
