package catalog

import (
	"fmt"
	"strings"
)

// EffectType classifies what an effect changes.
type EffectType string

const (
	EffectHealth   EffectType = "HEALTH"
	EffectStatus   EffectType = "STATUS"
	EffectCombo    EffectType = "COMBO"
	EffectPosition EffectType = "POSITION" // battle effects only
)

// ParseEffectType resolves an effect type name.
func ParseEffectType(s string) (EffectType, error) {
	t := EffectType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case EffectHealth, EffectStatus, EffectCombo, EffectPosition:
		return t, nil
	}
	return "", fmt.Errorf("unknown effect type %q", s)
}

// FieldModifier is the change an effect imparts outside of battle.
// Health < 0 harms, Health > 0 heals. Status names a status effect to grant.
type FieldModifier struct {
	Health int    `yaml:"health"`
	Status string `yaml:"status"`
}

// BattleModifier extends FieldModifier with a file shift on the grid.
// Position > 0 pushes the recipient back, Position < 0 pulls it forward.
type BattleModifier struct {
	FieldModifier `yaml:",inline"`
	Position      int `yaml:"position"`
}

// IsZero reports whether the modifier changes nothing.
func (m BattleModifier) IsZero() bool {
	return m.Health == 0 && m.Status == "" && m.Position == 0
}

// FieldEffect is the out-of-battle outcome of using an item or skill.
type FieldEffect struct {
	Info
	Type   EffectType
	Target FieldModifier
}

// BattleEffect is the in-battle outcome of using a skill: one modifier for the
// user and one for the target.
type BattleEffect struct {
	Info
	Type   EffectType
	User   BattleModifier
	Target BattleModifier
}

// NewBattleEffect builds a BattleEffect with a fresh ID.
func NewBattleEffect(name string, typ EffectType, user, target BattleModifier) BattleEffect {
	return BattleEffect{Info: NewInfo(name, ""), Type: typ, User: user, Target: target}
}

// Validate checks that the modifiers agree with the effect type.
func (e BattleEffect) Validate() error {
	if e.Type != EffectPosition && e.Type != EffectCombo && (e.User.Position != 0 || e.Target.Position != 0) {
		return fmt.Errorf("battle effect %q: position modifier requires type POSITION or COMBO", e.Name)
	}
	if e.Type == EffectStatus && e.User.Status == "" && e.Target.Status == "" {
		return fmt.Errorf("battle effect %q: STATUS effect grants no status", e.Name)
	}
	return nil
}
