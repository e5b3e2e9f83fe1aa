package encounter

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Policy names accepted in unit definitions.
const (
	PolicyAttack         = "attack"
	PolicyAttackStanding = "attack_standing"
	PolicySkill          = "skill"
	scriptPrefix         = "script:"
)

// PolicyResolver turns a script hook name into a combat policy.
type PolicyResolver interface {
	Policy(hook string) (combat.Policy, error)
}

// Content is everything Build resolves names against.
type Content struct {
	Catalog  *catalog.Registry
	Statuses *status.Registry
	// Scripts may be nil when no unit uses a script policy.
	Scripts PolicyResolver
}

// Build creates a fresh Battle from enc. Every call produces new actors, so
// battles built from the same encounter share nothing.
//
// Precondition: content.Catalog and content.Statuses must not be nil.
// Postcondition: Returns an error naming the unit if a skill, equipment item or
// script hook cannot be resolved, or a skill or item is not available to the unit's family.
func Build(enc *Encounter, content Content, opts ...combat.Option) (*combat.Battle, error) {
	players, err := buildUnits(enc.Players, combat.KindPlayer, content)
	if err != nil {
		return nil, fmt.Errorf("encounter %q: %w", enc.ID, err)
	}
	enemies, err := buildUnits(enc.Enemies, combat.KindEnemy, content)
	if err != nil {
		return nil, fmt.Errorf("encounter %q: %w", enc.ID, err)
	}
	opts = append([]combat.Option{combat.WithStatuses(content.Statuses)}, opts...)
	return combat.NewBattle(players, enemies, opts...)
}

func buildUnits(units []Unit, kind combat.Kind, content Content) ([]*combat.Actor, error) {
	out := make([]*combat.Actor, 0, len(units))
	for _, u := range units {
		a, err := buildUnit(u, kind, content)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", u.Name, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func buildUnit(u Unit, kind combat.Kind, content Content) (*combat.Actor, error) {
	var a *combat.Actor
	if u.Abilities != nil {
		s := u.Abilities
		a = combat.NewActorFromScores(kind, u.Name, ability.New(s.VIG, s.STR, s.DEX, s.RES, s.AGI), u.Position.X, u.Position.Y)
	} else {
		s := u.Stats
		a = combat.NewActor(kind, u.Name, combat.StatBlock{
			Strength:  combat.NewStat(s.Strength),
			Vigor:     combat.NewStat(s.Vigor),
			Dexterity: combat.NewStat(s.Dexterity),
			Agility:   combat.NewStat(s.Agility),
			Resonance: combat.NewStat(s.Resonance),
			Health:    combat.NewStat(s.Health),
			Mana:      combat.NewStat(s.Mana),
		}, u.Position.X, u.Position.Y)
	}
	if u.Family != "" {
		f, err := catalog.ParseFamily(u.Family)
		if err != nil {
			return nil, err
		}
		a.Family = f
	}
	cat, err := catalog.ParseCategory(u.Category)
	if err != nil {
		return nil, err
	}
	a.Category = cat

	for _, name := range u.Skills {
		sk, ok := content.Catalog.Skill(name)
		if !ok {
			return nil, fmt.Errorf("unknown skill %q", name)
		}
		if !sk.AvailableTo(a.Family) {
			return nil, fmt.Errorf("skill %q: %w", name, combat.ErrSkillUnavailable)
		}
		a.Skills = append(a.Skills, sk)
	}
	for _, name := range u.Equipment {
		eq, ok := content.Catalog.Equipment(name)
		if !ok {
			return nil, fmt.Errorf("unknown equipment %q", name)
		}
		if err := a.Equip(eq); err != nil {
			return nil, err
		}
	}

	policy, err := resolvePolicy(u.Policy, content.Scripts)
	if err != nil {
		return nil, err
	}
	a.Policy = policy
	return a, nil
}

func resolvePolicy(name string, scripts PolicyResolver) (combat.Policy, error) {
	switch {
	case name == "" || name == PolicyAttack:
		return combat.AttackFirst, nil
	case name == PolicyAttackStanding:
		return combat.AttackFirstStanding, nil
	case name == PolicySkill:
		return combat.SkillPolicy{}, nil
	case strings.HasPrefix(name, scriptPrefix):
		if scripts == nil {
			return nil, fmt.Errorf("policy %q: no script manager configured", name)
		}
		return scripts.Policy(strings.TrimPrefix(name, scriptPrefix))
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}
