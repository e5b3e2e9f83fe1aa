// Package stats derives combat stats from ability scores and tracks the
// base/current overlay applied by equipment and status effects.
package stats

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
)

// Stat identifies one derived combat stat.
type Stat int

const (
	Vitality Stat = iota
	Defense
	Resistance
	Amplification
	Damage
	CritDamage
	CritRate
	Accuracy
	Initiative
	Evasion
)

// AllStats lists every derived stat in canonical order.
var AllStats = []Stat{
	Vitality, Defense, Resistance, Amplification, Damage,
	CritDamage, CritRate, Accuracy, Initiative, Evasion,
}

var statNames = map[Stat]string{
	Vitality:      "vitality",
	Defense:       "defense",
	Resistance:    "resistance",
	Amplification: "amplification",
	Damage:        "damage",
	CritDamage:    "crit_damage",
	CritRate:      "crit_rate",
	Accuracy:      "accuracy",
	Initiative:    "initiative",
	Evasion:       "evasion",
}

// String returns the snake_case content name of the stat.
func (s Stat) String() string {
	if n, ok := statNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stat(%d)", int(s))
}

// ParseStat resolves a content name such as "crit_rate" to a Stat.
func ParseStat(name string) (Stat, error) {
	for s, n := range statNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}

// Set is a complete bundle of the ten derived stats. Equipment bonuses are also
// expressed as a Set.
type Set struct {
	Vitality      float64 `yaml:"vitality"`
	Defense       float64 `yaml:"defense"`
	Resistance    float64 `yaml:"resistance"`
	Amplification float64 `yaml:"amplification"`
	Damage        float64 `yaml:"damage"`
	CritDamage    float64 `yaml:"crit_damage"`
	CritRate      float64 `yaml:"crit_rate"`
	Accuracy      float64 `yaml:"accuracy"`
	Initiative    float64 `yaml:"initiative"`
	Evasion       float64 `yaml:"evasion"`
}

// Get returns the value of stat s.
//
// Precondition: s must be a defined Stat; otherwise Get panics.
func (set Set) Get(s Stat) float64 {
	return *set.field(s)
}

func (set *Set) field(s Stat) *float64 {
	switch s {
	case Vitality:
		return &set.Vitality
	case Defense:
		return &set.Defense
	case Resistance:
		return &set.Resistance
	case Amplification:
		return &set.Amplification
	case Damage:
		return &set.Damage
	case CritDamage:
		return &set.CritDamage
	case CritRate:
		return &set.CritRate
	case Accuracy:
		return &set.Accuracy
	case Initiative:
		return &set.Initiative
	case Evasion:
		return &set.Evasion
	}
	panic(fmt.Sprintf("stats: unknown stat %d", int(s)))
}

// Add returns the element-wise sum of set and other.
func (set Set) Add(other Set) Set {
	out := set
	for _, s := range AllStats {
		*out.field(s) += other.Get(s)
	}
	return out
}

// Sub returns the element-wise difference set - other.
func (set Set) Sub(other Set) Set {
	out := set
	for _, s := range AllStats {
		*out.field(s) -= other.Get(s)
	}
	return out
}

// Derive computes the ten stats from a set of ability scores.
// The formulas are fixed:
//
//	vitality = VIG*5    defense = VIG*2
//	resistance = RES*5  amplification = RES*2
//	damage = STR*2      crit_damage = STR*0.5
//	crit_rate = DEX*0.5 accuracy = DEX*10
//	initiative = AGI*3  evasion = AGI*2
func Derive(scores ability.Set) Set {
	vig := float64(scores.Get(ability.VIG))
	str := float64(scores.Get(ability.STR))
	dex := float64(scores.Get(ability.DEX))
	res := float64(scores.Get(ability.RES))
	agi := float64(scores.Get(ability.AGI))
	return Set{
		Vitality:      vig * 5,
		Defense:       vig * 2,
		Resistance:    res * 5,
		Amplification: res * 2,
		Damage:        str * 2,
		CritDamage:    str * 0.5,
		CritRate:      dex * 0.5,
		Accuracy:      dex * 10,
		Initiative:    float64(InitiativeFor(scores.Get(ability.AGI))),
		Evasion:       agi * 2,
	}
}

// InitiativeFor returns the initiative granted by an agility value.
func InitiativeFor(agility int) int {
	return agility * 3
}

// Stats pairs a unit's base stats with the current overlay that combat reads.
type Stats struct {
	base    Set
	current Set
}

// New wraps set as both base and current.
func New(set Set) *Stats {
	return &Stats{base: set, current: set}
}

// FromAbilityScores derives Stats from the base (not current) ability scores.
//
// Precondition: scores must not be nil.
func FromAbilityScores(scores *ability.Scores) *Stats {
	return New(Derive(scores.Base()))
}

// Base returns a copy of the base stats.
func (s *Stats) Base() Set { return s.base }

// Current returns a copy of the current stats.
func (s *Stats) Current() Set { return s.current }

// Apply adds bonus to the current stats. Base is untouched.
func (s *Stats) Apply(bonus Set) {
	s.current = s.current.Add(bonus)
}

// Revert removes a bonus previously passed to Apply.
func (s *Stats) Revert(bonus Set) {
	s.current = s.current.Sub(bonus)
}

// Reset drops every overlay, restoring current to base.
func (s *Stats) Reset() {
	s.current = s.base
}

// Rederive recomputes base from permanently changed ability scores while
// preserving any overlay already applied to current.
//
// Postcondition: Current() - Base() is unchanged.
func (s *Stats) Rederive(scores *ability.Scores) {
	overlay := s.current.Sub(s.base)
	s.base = Derive(scores.Base())
	s.current = s.base.Add(overlay)
}
