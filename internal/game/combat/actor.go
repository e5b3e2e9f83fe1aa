package combat

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Stat is one entry of an actor's stat block.
type Stat struct {
	Base    int `yaml:"base"`
	Current int `yaml:"current"`
}

// NewStat returns a Stat with Base and Current both set to v.
func NewStat(v int) Stat { return Stat{Base: v, Current: v} }

// StatBlock holds the attributes and pools combat reads directly.
type StatBlock struct {
	Strength  Stat
	Vigor     Stat
	Dexterity Stat
	Agility   Stat
	Resonance Stat
	Health    Stat
	Mana      Stat
}

// NewStatBlockFromScores builds a stat block from current ability scores.
// Health is the derived vitality and Mana the derived resistance.
//
// Precondition: scores must not be nil.
func NewStatBlockFromScores(scores *ability.Scores) StatBlock {
	derived := stats.Derive(scores.Current())
	return StatBlock{
		Strength:  NewStat(scores.CurrentOf(ability.STR)),
		Vigor:     NewStat(scores.CurrentOf(ability.VIG)),
		Dexterity: NewStat(scores.CurrentOf(ability.DEX)),
		Agility:   NewStat(scores.CurrentOf(ability.AGI)),
		Resonance: NewStat(scores.CurrentOf(ability.RES)),
		Health:    NewStat(int(derived.Vitality)),
		Mana:      NewStat(int(derived.Resistance)),
	}
}

// attribute returns the stat block entry mirroring ability a.
func (sb *StatBlock) attribute(a ability.Ability) *Stat {
	switch a {
	case ability.VIG:
		return &sb.Vigor
	case ability.STR:
		return &sb.Strength
	case ability.DEX:
		return &sb.Dexterity
	case ability.RES:
		return &sb.Resonance
	case ability.AGI:
		return &sb.Agility
	}
	panic(fmt.Sprintf("combat: unknown ability %d", int(a)))
}

// resetAttributes restores every attribute to its base. Pools are untouched.
func (sb *StatBlock) resetAttributes() {
	for _, a := range ability.All {
		s := sb.attribute(a)
		s.Current = s.Base
	}
}

// Actor is one combatant. Player and Enemy differ only by Kind.
type Actor struct {
	ID       string
	Name     string
	Kind     Kind
	Family   catalog.Family
	Category catalog.Category
	Stats    StatBlock
	// Derived is the ten-stat overlay skill resolution reads.
	Derived *stats.Stats
	// Abilities is nil for actors built from an explicit stat block.
	Abilities *ability.Scores
	Position  *grid.Position
	Skills    []*catalog.Skill
	Status    *status.ActiveSet
	Equipment map[catalog.Slot]*catalog.Equipment
	// Policy chooses the actor's action each turn. Nil means AttackFirst.
	Policy Policy
}

// NewActor creates an actor from an explicit stat block standing at (x, y).
// Its derived stats are all zero.
//
// Postcondition: Returns a non-nil Actor with a fresh ID, an empty status set and no equipment.
func NewActor(kind Kind, name string, block StatBlock, x, y int) *Actor {
	return &Actor{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		Family:    catalog.Striker,
		Category:  catalog.Humanoid,
		Stats:     block,
		Derived:   stats.New(stats.Set{}),
		Position:  grid.NewPosition(x, y),
		Status:    status.NewActiveSet(),
		Equipment: make(map[catalog.Slot]*catalog.Equipment),
	}
}

// NewActorFromScores creates an actor whose stat block and derived stats come from scores.
//
// Precondition: scores must not be nil.
func NewActorFromScores(kind Kind, name string, scores *ability.Scores, x, y int) *Actor {
	a := NewActor(kind, name, NewStatBlockFromScores(scores), x, y)
	a.Abilities = scores
	a.Derived = stats.FromAbilityScores(scores)
	return a
}

// IsPlayer reports whether the actor fights on the players' side.
func (a *Actor) IsPlayer() bool { return a.Kind == KindPlayer }

// IsDefeated reports whether the actor's health has reached zero.
func (a *Actor) IsDefeated() bool { return a.Stats.Health.Current <= 0 }

// Initiative is the turn-order score projected from current agility.
func (a *Actor) Initiative() int { return stats.InitiativeFor(a.Stats.Agility.Current) }

// Act resolves the actor's turn in b and returns the events it produced.
// A defeated actor does nothing, and neither does an actor with nothing to
// attack. Only a resolved attack or skill counts as having acted.
//
// Precondition: b must not be nil.
func (a *Actor) Act(b *Battle) []Event {
	if a.IsDefeated() {
		return nil
	}
	policy := a.Policy
	if policy == nil {
		policy = AttackFirst
	}
	action := policy.Choose(b, a)
	if action.Skill != nil {
		events, err := b.UseSkill(a, action.Skill, action.Target)
		if err == nil {
			b.markActed(a)
			return events
		}
		b.logger.Debug("chosen skill rejected, attacking instead",
			zapActor(a), zapSkill(action.Skill), zap.Error(err))
		action.Target = nil
	}
	target := action.Target
	if target == nil {
		target = b.defaultTarget(a)
	}
	events := b.attack(a, target)
	if len(events) > 0 {
		b.markActed(a)
	}
	return events
}

// Equip puts eq in its slot, replacing whatever was there, and applies its bonus.
//
// Precondition: eq must not be nil.
// Postcondition: Returns ErrEquipmentUnavailable if the actor's family cannot use eq.
func (a *Actor) Equip(eq *catalog.Equipment) error {
	if !eq.UsableBy(a.Family) {
		return fmt.Errorf("%s cannot equip %s: %w", a.Name, eq.Name, ErrEquipmentUnavailable)
	}
	a.Unequip(eq.Slot)
	a.Equipment[eq.Slot] = eq
	a.Derived.Apply(eq.Bonus)
	a.Stats.Health.Base += int(eq.Bonus.Vitality)
	a.Stats.Health.Current += int(eq.Bonus.Vitality)
	a.Stats.Mana.Base += int(eq.Bonus.Resistance)
	a.Stats.Mana.Current += int(eq.Bonus.Resistance)
	return nil
}

// Unequip removes and returns the item in slot, reverting its bonus. Pools are
// capped at their reduced base.
func (a *Actor) Unequip(slot catalog.Slot) *catalog.Equipment {
	eq, ok := a.Equipment[slot]
	if !ok {
		return nil
	}
	delete(a.Equipment, slot)
	a.Derived.Revert(eq.Bonus)
	a.Stats.Health.Base -= int(eq.Bonus.Vitality)
	a.Stats.Health.Current = min(a.Stats.Health.Current, a.Stats.Health.Base)
	a.Stats.Mana.Base -= int(eq.Bonus.Resistance)
	a.Stats.Mana.Current = min(a.Stats.Mana.Current, a.Stats.Mana.Base)
	return eq
}

// KnowsSkill returns the actor's skill with the given name.
func (a *Actor) KnowsSkill(name string) (*catalog.Skill, bool) {
	for _, s := range a.Skills {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// shiftAbility moves ability ab by delta on both the scores and the stat
// block and returns the delta actually applied. Scores clamp; a bare stat
// block does not.
func (a *Actor) shiftAbility(ab ability.Ability, delta int) int {
	applied := delta
	if a.Abilities != nil {
		if delta >= 0 {
			applied = a.Abilities.Increase(ab, delta)
		} else {
			applied = a.Abilities.Decrease(ab, -delta)
		}
	}
	a.Stats.attribute(ab).Current += applied
	return applied
}

// conclude restores ability scores, attributes and derived stats to base and
// drops every status. Equipment bonuses are re-applied.
func (a *Actor) conclude() {
	a.Status.Clear()
	if a.Abilities != nil {
		a.Abilities.Reset()
	}
	a.Stats.resetAttributes()
	a.Derived.Reset()
	for _, eq := range a.Equipment {
		a.Derived.Apply(eq.Bonus)
	}
}

// Snapshot is a read-only view of an actor for scripts, reports and display.
type Snapshot struct {
	ID        string
	Name      string
	Kind      string
	Family    string
	Health    int
	MaxHealth int
	Mana      int
	X, Y      int
	Statuses  []string
	Skills    []string
	Defeated  bool
}

// Snapshot copies the actor's visible state.
func (a *Actor) Snapshot() Snapshot {
	p := a.Position.Current()
	s := Snapshot{
		ID:        a.ID,
		Name:      a.Name,
		Kind:      a.Kind.String(),
		Family:    string(a.Family),
		Health:    a.Stats.Health.Current,
		MaxHealth: a.Stats.Health.Base,
		Mana:      a.Stats.Mana.Current,
		X:         p.X,
		Y:         p.Y,
		Defeated:  a.IsDefeated(),
	}
	for _, st := range a.Status.All() {
		s.Statuses = append(s.Statuses, st.Def.Name)
	}
	for _, sk := range a.Skills {
		s.Skills = append(s.Skills, sk.Name)
	}
	return s
}
