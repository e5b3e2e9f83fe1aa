package combat

import "github.com/cory-johannsen/skirmish/internal/game/catalog"

// Action is what an actor chooses to do on its turn. A nil Skill means a plain
// attack on Target, or on the first member of the opposing roster when Target
// is nil.
type Action struct {
	Skill  *catalog.Skill
	Target *Actor
}

// Policy selects an actor's action.
type Policy interface {
	// Choose returns the action self takes in b.
	//
	// Precondition: self is not defeated.
	Choose(b *Battle, self *Actor) Action
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(b *Battle, self *Actor) Action

// Choose calls f.
func (f PolicyFunc) Choose(b *Battle, self *Actor) Action { return f(b, self) }

// AttackFirst always attacks the first member of the opposing roster, even once
// it is defeated.
var AttackFirst Policy = PolicyFunc(func(*Battle, *Actor) Action { return Action{} })

// AttackFirstStanding attacks the first opposing member still standing. With
// every foe down it behaves like AttackFirst.
var AttackFirstStanding Policy = PolicyFunc(func(b *Battle, self *Actor) Action {
	return Action{Target: firstStanding(b.Foes(self))}
})

// SkillPolicy uses the first known skill that is legal and affordable this
// turn. Healing skills target the most wounded standing ally; all others
// target the first foe in reach. With no usable skill it attacks the first
// standing foe.
type SkillPolicy struct{}

// Choose implements Policy.
func (SkillPolicy) Choose(b *Battle, self *Actor) Action {
	from := self.Position.Current()
	for _, sk := range self.Skills {
		if !sk.CanUseFrom(from) || self.Stats.Mana.Current < sk.ActionCost || !sk.AvailableTo(self.Family) {
			continue
		}
		var target *Actor
		if heals(sk) {
			target = mostWounded(sk, b.Allies(self))
		} else {
			target = firstInReach(sk, b.Foes(self))
		}
		if target != nil {
			return Action{Skill: sk, Target: target}
		}
	}
	return AttackFirstStanding.Choose(b, self)
}

func firstStanding(candidates []*Actor) *Actor {
	for _, c := range candidates {
		if !c.IsDefeated() {
			return c
		}
	}
	return nil
}

// heals reports whether the skill's first effect restores the target's health.
func heals(sk *catalog.Skill) bool {
	return len(sk.BattleEffects) > 0 && sk.BattleEffects[0].Target.Health > 0
}

func firstInReach(sk *catalog.Skill, candidates []*Actor) *Actor {
	for _, c := range candidates {
		if !c.IsDefeated() && sk.CanTarget(c.Position.Current()) {
			return c
		}
	}
	return nil
}

func mostWounded(sk *catalog.Skill, candidates []*Actor) *Actor {
	var best *Actor
	bestMissing := 0
	for _, c := range candidates {
		if c.IsDefeated() || !sk.CanTarget(c.Position.Current()) {
			continue
		}
		missing := c.Stats.Health.Base - c.Stats.Health.Current
		if missing > bestMissing {
			best, bestMissing = c, missing
		}
	}
	return best
}
