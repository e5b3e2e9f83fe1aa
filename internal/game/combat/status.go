package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// grantStatus applies the named status from the battle's registry to a. A
// newly granted status with an ability shift applies the shift immediately.
func (b *Battle) grantStatus(source, a *Actor, name string) ([]Event, error) {
	def, ok := b.statuses.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
	}
	active, fresh, err := a.Status.Apply(def)
	if err != nil {
		return nil, err
	}
	if fresh && def.Ability != "" {
		ab, err := ability.ParseAbility(def.Ability)
		if err != nil {
			return nil, fmt.Errorf("status %q: %w", def.Name, err)
		}
		active.AbilityApplied = a.shiftAbility(ab, def.AbilityDelta)
	}
	verb := "is now"
	if !fresh {
		verb = "remains"
	}
	return []Event{b.event(EventStatusApplied, source, a, active.Remaining,
		fmt.Sprintf("%s %s %s.", a.Name, verb, def.Name))}, nil
}

// resolveStatuses applies every status due at activation to a, lower priority first.
func (b *Battle) resolveStatuses(a *Actor, at status.Activation) []Event {
	var events []Event
	for _, active := range a.Status.Due(at) {
		if a.IsDefeated() {
			break
		}
		def := active.Def
		if delta := def.HealthPerActivation(); delta != 0 {
			before := a.Stats.Health.Current
			if delta > 0 {
				a.Stats.Health.Current = min(before+delta, max(a.Stats.Health.Base, before))
			} else {
				a.Stats.Health.Current += delta
			}
			events = append(events, b.event(EventStatusTick, a, a, a.Stats.Health.Current-before,
				fmt.Sprintf("%s is affected by %s (%+d health).", a.Name, def.Name, a.Stats.Health.Current-before)))
		}
		if def.Battle.Position != 0 {
			a.Position.Shift(def.Battle.Position, 0)
			events = append(events, b.event(EventMove, a, a, def.Battle.Position,
				fmt.Sprintf("%s is moved to %s by %s.", a.Name, a.Position.Current(), def.Name)))
		}
		events = append(events, b.checkDefeated(a)...)
	}
	return events
}

// tickStatuses counts down a's statuses and reverses the ability shift of each one that expires.
func (b *Battle) tickStatuses(a *Actor) []Event {
	var events []Event
	for _, expired := range a.Status.Tick() {
		def := expired.Def
		if expired.AbilityApplied != 0 {
			if ab, err := ability.ParseAbility(def.Ability); err == nil {
				a.shiftAbility(ab, -expired.AbilityApplied)
			}
		}
		events = append(events, b.event(EventStatusExpired, a, a, 0,
			fmt.Sprintf("%s is no longer %s.", a.Name, def.Name)))
	}
	return events
}

func (b *Battle) skipsTurn(a *Actor) bool {
	for _, active := range a.Status.All() {
		if active.Def.SkipsTurn {
			return true
		}
	}
	return false
}
