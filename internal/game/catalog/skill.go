package catalog

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

// DamageType is the element a skill deals.
type DamageType string

const (
	Flame       DamageType = "FLAME"
	Rain        DamageType = "RAIN"
	Wind        DamageType = "WIND"
	Stone       DamageType = "STONE"
	Lightning   DamageType = "LIGHTNING"
	Piercing    DamageType = "PIERCING"
	Bludgeoning DamageType = "BLUDGEONING"
	Holy        DamageType = "HOLY"
	Entropic    DamageType = "ENTROPIC"
)

// PartnerRequirements describe when an ally enhances a skill.
type PartnerRequirements struct {
	TurnProximity int        `yaml:"turn_proximity"`
	PositionRange grid.Point `yaml:"position_range"`
	Family        Family     `yaml:"family"`
	Bonus         int        `yaml:"bonus"`
}

// OutcomeStats names the derived stats that scale a skill's outcome: Power is
// read from the user and added to harm, Guard is read from the recipient and
// subtracted from harm, Heal is read from the user and added to healing.
type OutcomeStats struct {
	Power stats.Stat
	Guard stats.Stat
	Heal  stats.Stat
}

// DefaultOutcomeStats pits user damage against recipient defense and scales
// healing by user amplification.
var DefaultOutcomeStats = OutcomeStats{
	Power: stats.Damage,
	Guard: stats.Defense,
	Heal:  stats.Amplification,
}

// Skill is a combat action bound to where it can be used from and what it can reach.
type Skill struct {
	Info
	UsablePositions []grid.Point
	TargetPositions []grid.Point
	BattleEffects   []BattleEffect
	FieldEffects    []FieldEffect
	Families        []Family
	ActionCost      int
	EquipCost       int
	DamageType      DamageType
	Animation       string
	Outcome         OutcomeStats
	Partner         *PartnerRequirements
	Sets            []string
}

// NewSkill builds a skill with a fresh ID and DefaultOutcomeStats.
func NewSkill(name, description string, usable, targets []grid.Point, effects ...BattleEffect) *Skill {
	return &Skill{
		Info:            NewInfo(name, description),
		UsablePositions: usable,
		TargetPositions: targets,
		BattleEffects:   effects,
		Outcome:         DefaultOutcomeStats,
	}
}

// CanUseFrom reports whether the skill may be used from p.
func (s *Skill) CanUseFrom(p grid.Point) bool { return p.In(s.UsablePositions) }

// CanTarget reports whether a unit standing on p can be targeted.
func (s *Skill) CanTarget(p grid.Point) bool { return p.In(s.TargetPositions) }

// AvailableTo reports whether family f may learn the skill.
func (s *Skill) AvailableTo(f Family) bool { return familyIn(f, s.Families) }

// Validate checks a skill's structural invariants.
//
// Postcondition: Returns nil iff the skill has a name, at least one usable and one
// target position, all positions on the grid, non-negative costs and valid effects.
func (s *Skill) Validate() error {
	if s.Name == "" {
		return errors.New("skill: name must not be empty")
	}
	if len(s.UsablePositions) == 0 {
		return fmt.Errorf("skill %q: usable_positions must not be empty", s.Name)
	}
	if len(s.TargetPositions) == 0 {
		return fmt.Errorf("skill %q: target_positions must not be empty", s.Name)
	}
	for _, p := range append(append([]grid.Point{}, s.UsablePositions...), s.TargetPositions...) {
		if !p.InBounds() {
			return fmt.Errorf("skill %q: position %s is off the grid", s.Name, p)
		}
	}
	if s.ActionCost < 0 || s.EquipCost < 0 {
		return fmt.Errorf("skill %q: costs must be >= 0", s.Name)
	}
	for _, e := range s.BattleEffects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("skill %q: %w", s.Name, err)
		}
	}
	return nil
}
