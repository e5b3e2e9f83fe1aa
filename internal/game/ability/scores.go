// Package ability models the five base attributes every unit carries.
package ability

import (
	"fmt"
	"strings"
)

// Score bounds. Every current score stays within [Min, Max].
const (
	Min = 1
	Max = 10
)

// Ability identifies one of the five base attributes.
type Ability int

const (
	VIG Ability = iota // vigor
	STR                // strength
	DEX                // dexterity
	RES                // resonance
	AGI                // agility

	count
)

// All lists every ability in canonical order.
var All = []Ability{VIG, STR, DEX, RES, AGI}

var names = [count]string{"VIG", "STR", "DEX", "RES", "AGI"}

// String returns the three-letter label, e.g. "VIG".
func (a Ability) String() string {
	if a < 0 || a >= count {
		return fmt.Sprintf("Ability(%d)", int(a))
	}
	return names[a]
}

// ParseAbility resolves a label such as "str" or "Strength" to an Ability.
//
// Postcondition: Returns the Ability, or an error for an unknown label.
func ParseAbility(s string) (Ability, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VIG", "VIGOR":
		return VIG, nil
	case "STR", "STRENGTH":
		return STR, nil
	case "DEX", "DEXTERITY":
		return DEX, nil
	case "RES", "RESONANCE":
		return RES, nil
	case "AGI", "AGILITY":
		return AGI, nil
	}
	return 0, fmt.Errorf("unknown ability %q", s)
}

// Set is a value copy of all five scores.
type Set [count]int

// Get returns the score for a.
//
// Precondition: a must be a defined Ability; otherwise Get panics.
func (s Set) Get(a Ability) int {
	mustValid(a)
	return s[a]
}

// Scores holds a unit's base scores and its current, temporarily modified scores.
// base is fixed at construction; current is an independent copy.
type Scores struct {
	base    Set
	current Set
}

// New builds Scores from the five attribute values, clamping each into [Min, Max].
//
// Postcondition: Base() == Current(); the two never share storage.
func New(vig, str, dex, res, agi int) *Scores {
	var s Scores
	for a, v := range [count]int{vig, str, dex, res, agi} {
		s.base[a] = clamp(v)
	}
	s.current = s.base
	return &s
}

// Base returns a copy of the base scores.
func (s *Scores) Base() Set { return s.base }

// Current returns a copy of the current scores.
func (s *Scores) Current() Set { return s.current }

// BaseOf returns the base score for a.
func (s *Scores) BaseOf(a Ability) int { return s.base.Get(a) }

// CurrentOf returns the current score for a.
func (s *Scores) CurrentOf(a Ability) int { return s.current.Get(a) }

// Increase raises the current score for a by amount, capping at Max.
//
// Precondition: a must be a defined Ability.
// Postcondition: Min <= CurrentOf(a) <= Max. Returns the change actually applied.
func (s *Scores) Increase(a Ability, amount int) int {
	return s.adjust(a, amount)
}

// Decrease lowers the current score for a by amount, flooring at Min.
//
// Precondition: a must be a defined Ability.
// Postcondition: Min <= CurrentOf(a) <= Max. Returns the change actually applied (<= 0 for amount >= 0).
func (s *Scores) Decrease(a Ability, amount int) int {
	return s.adjust(a, -amount)
}

// Reset restores every current score to its base value.
func (s *Scores) Reset() {
	s.current = s.base
}

func (s *Scores) adjust(a Ability, delta int) int {
	mustValid(a)
	before := s.current[a]
	s.current[a] = clamp(before + delta)
	return s.current[a] - before
}

func clamp(v int) int {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

func mustValid(a Ability) {
	if a < 0 || a >= count {
		panic(fmt.Sprintf("ability: unknown ability %d", int(a)))
	}
}
