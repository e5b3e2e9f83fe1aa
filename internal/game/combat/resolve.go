package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/catalog"
)

// UseSkill resolves user applying skill to target.
//
// Legality and cost are checked before anything changes. Mana is then spent and
// each battle effect is applied in declared order, user modifier before target
// modifier.
//
// Precondition: user and skill must not be nil.
// Postcondition: On error no state has changed. Errors wrap ErrActorDefeated,
// ErrSkillUnavailable, ErrNoTarget, ErrNotUsableFromPosition,
// ErrTargetOutOfReach, ErrInsufficientResources or ErrUnknownStatus.
func (b *Battle) UseSkill(user *Actor, skill *catalog.Skill, target *Actor) ([]Event, error) {
	if err := b.checkSkill(user, skill, target); err != nil {
		return nil, fmt.Errorf("%s using %s: %w", user.Name, skill.Name, err)
	}
	user.Stats.Mana.Current -= skill.ActionCost
	bonus := b.partnerBonus(user, skill)
	events := []Event{b.event(EventSkill, user, target, skill.ActionCost,
		fmt.Sprintf("%s uses %s on %s.", user.Name, skill.Name, target.Name))}
	for _, eff := range skill.BattleEffects {
		events = append(events, b.applyModifier(user, user, eff.User, skill, bonus)...)
		events = append(events, b.applyModifier(user, target, eff.Target, skill, bonus)...)
	}
	return events, nil
}

func (b *Battle) checkSkill(user *Actor, skill *catalog.Skill, target *Actor) error {
	switch {
	case user.IsDefeated():
		return ErrActorDefeated
	case !skill.AvailableTo(user.Family):
		return ErrSkillUnavailable
	case target == nil:
		return ErrNoTarget
	case target.IsDefeated():
		return ErrTargetDefeated
	case !skill.CanUseFrom(user.Position.Current()):
		return ErrNotUsableFromPosition
	case !skill.CanTarget(target.Position.Current()):
		return ErrTargetOutOfReach
	case user.Stats.Mana.Current < skill.ActionCost:
		return ErrInsufficientResources
	}
	for _, eff := range skill.BattleEffects {
		for _, name := range []string{eff.User.Status, eff.Target.Status} {
			if name == "" {
				continue
			}
			if _, ok := b.statuses.Get(name); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownStatus, name)
			}
		}
	}
	return nil
}

// applyModifier applies one side of a battle effect to recipient.
func (b *Battle) applyModifier(user, recipient *Actor, m catalog.BattleModifier, skill *catalog.Skill, bonus int) []Event {
	if m.IsZero() {
		return nil
	}
	var events []Event
	switch {
	case m.Health < 0:
		events = append(events, b.harm(user, recipient, -m.Health, skill, bonus)...)
	case m.Health > 0:
		events = append(events, b.heal(user, recipient, m.Health, skill, bonus))
	}
	if m.Status != "" && !recipient.IsDefeated() {
		granted, err := b.grantStatus(user, recipient, m.Status)
		if err != nil {
			b.logger.Warn("granting status", zap.String("status", m.Status), zap.Error(err))
		}
		events = append(events, granted...)
	}
	if m.Position != 0 {
		recipient.Position.Shift(m.Position, 0)
		events = append(events, b.event(EventMove, user, recipient, m.Position,
			fmt.Sprintf("%s is moved to %s.", recipient.Name, recipient.Position.Current())))
	}
	return events
}

// harm deals magnitude plus the user's power stat minus the recipient's guard
// stat, at least 1. A critical roll against the user's crit rate multiplies
// the result by 1 + critDamage/10.
func (b *Battle) harm(user, recipient *Actor, magnitude int, skill *catalog.Skill, bonus int) []Event {
	us, rs := user.Derived.Current(), recipient.Derived.Current()
	dmg := magnitude + bonus + int(us.Get(skill.Outcome.Power)) - int(rs.Get(skill.Outcome.Guard))
	dmg = max(dmg, 1)
	crit := b.roller.Percent(us.CritRate)
	if crit {
		dmg = int(float64(dmg) * (1 + us.CritDamage/10))
	}
	recipient.Stats.Health.Current -= dmg
	narrative := fmt.Sprintf("%s takes %d %s damage.", recipient.Name, dmg, damageLabel(skill))
	if crit {
		narrative = "Critical! " + narrative
	}
	e := b.event(EventDamage, user, recipient, dmg, narrative)
	e.Critical = crit
	return append([]Event{e}, b.checkDefeated(recipient)...)
}

// heal restores magnitude plus the user's heal stat, capped at the recipient's base health.
func (b *Battle) heal(user, recipient *Actor, magnitude int, skill *catalog.Skill, bonus int) Event {
	amount := magnitude + bonus + int(user.Derived.Current().Get(skill.Outcome.Heal))
	before := recipient.Stats.Health.Current
	recipient.Stats.Health.Current = min(before+amount, max(recipient.Stats.Health.Base, before))
	healed := recipient.Stats.Health.Current - before
	return b.event(EventHeal, user, recipient, healed,
		fmt.Sprintf("%s recovers %d health.", recipient.Name, healed))
}

// partnerBonus returns the skill's partner bonus when a standing ally of the
// required family is within range of user and acted within the turn window.
func (b *Battle) partnerBonus(user *Actor, skill *catalog.Skill) int {
	req := skill.Partner
	if req == nil {
		return 0
	}
	up := user.Position.Current()
	for _, ally := range b.Allies(user) {
		if ally == user || ally.IsDefeated() || ally.Family != req.Family {
			continue
		}
		ap := ally.Position.Current()
		if abs(ap.X-up.X) > req.PositionRange.X || abs(ap.Y-up.Y) > req.PositionRange.Y {
			continue
		}
		last, ok := b.lastActed[ally]
		if !ok || b.turn-last > req.TurnProximity {
			continue
		}
		b.logger.Debug("partner bonus", zapActor(user), zap.String("partner", ally.Name), zap.Int("bonus", req.Bonus))
		return req.Bonus
	}
	return 0
}

func damageLabel(skill *catalog.Skill) string {
	if skill.DamageType == "" {
		return "physical"
	}
	return string(skill.DamageType)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
