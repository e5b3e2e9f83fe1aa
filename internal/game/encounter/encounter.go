// Package encounter loads battle setups from YAML and builds live battles from them.
package encounter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Abilities holds the five ability scores of a unit.
type Abilities struct {
	VIG int `yaml:"vig"`
	STR int `yaml:"str"`
	DEX int `yaml:"dex"`
	RES int `yaml:"res"`
	AGI int `yaml:"agi"`
}

// StatBlock is an explicit stat block for units not built from ability scores.
// Scores are not bounded.
type StatBlock struct {
	Strength  int `yaml:"strength"`
	Vigor     int `yaml:"vigor"`
	Dexterity int `yaml:"dexterity"`
	Agility   int `yaml:"agility"`
	Resonance int `yaml:"resonance"`
	Health    int `yaml:"health"`
	Mana      int `yaml:"mana"`
}

// Unit describes one combatant.
type Unit struct {
	Name      string     `yaml:"name"`
	Family    string     `yaml:"family"`
	Category  string     `yaml:"category"`
	Abilities *Abilities `yaml:"abilities"`
	Stats     *StatBlock `yaml:"stats"`
	Position  grid.Point `yaml:"position"`
	Skills    []string   `yaml:"skills"`
	Equipment []string   `yaml:"equipment"`
	// Policy is "attack" (default), "attack_standing", "skill" or "script:<hook>".
	Policy string `yaml:"policy"`
}

// Encounter is a complete battle setup.
type Encounter struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Players     []Unit `yaml:"players"`
	Enemies     []Unit `yaml:"enemies"`
}

// Validate checks structural invariants that do not need the content catalog.
//
// Postcondition: Returns nil iff ID and Name are set, at least one unit is
// listed, and every unit has a name, exactly one of abilities or stats, an
// on-grid position, parseable family and category, and a known policy form.
func (e *Encounter) Validate() error {
	if e.ID == "" {
		return errors.New("encounter: id must not be empty")
	}
	if e.Name == "" {
		return fmt.Errorf("encounter %q: name must not be empty", e.ID)
	}
	if len(e.Players)+len(e.Enemies) == 0 {
		return fmt.Errorf("encounter %q: must list at least one unit", e.ID)
	}
	for _, u := range append(append([]Unit{}, e.Players...), e.Enemies...) {
		if err := u.validate(); err != nil {
			return fmt.Errorf("encounter %q: %w", e.ID, err)
		}
	}
	return nil
}

func (u Unit) validate() error {
	if u.Name == "" {
		return errors.New("unit name must not be empty")
	}
	if (u.Abilities == nil) == (u.Stats == nil) {
		return fmt.Errorf("unit %q: exactly one of abilities or stats must be set", u.Name)
	}
	if !u.Position.InBounds() {
		return fmt.Errorf("unit %q: position %s is off the grid", u.Name, u.Position)
	}
	if u.Family != "" {
		if _, err := catalog.ParseFamily(u.Family); err != nil {
			return fmt.Errorf("unit %q: %w", u.Name, err)
		}
	}
	if _, err := catalog.ParseCategory(u.Category); err != nil {
		return fmt.Errorf("unit %q: %w", u.Name, err)
	}
	switch {
	case u.Policy == "", u.Policy == PolicyAttack, u.Policy == PolicyAttackStanding, u.Policy == PolicySkill:
	case strings.HasPrefix(u.Policy, scriptPrefix) && len(u.Policy) > len(scriptPrefix):
	default:
		return fmt.Errorf("unit %q: unknown policy %q", u.Name, u.Policy)
	}
	return nil
}

// LoadFromBytes parses and validates a single encounter.
func LoadFromBytes(data []byte) (*Encounter, error) {
	var enc Encounter
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&enc); err != nil {
		return nil, fmt.Errorf("parsing encounter: %w", err)
	}
	if err := enc.Validate(); err != nil {
		return nil, err
	}
	return &enc, nil
}

// LoadDirectory loads every *.yaml file in dir, keyed by encounter ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns an error on the first file that fails, or on a duplicate ID.
func LoadDirectory(dir string) (map[string]*Encounter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading encounter dir %q: %w", dir, err)
	}
	out := make(map[string]*Encounter)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		enc, err := LoadFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := out[enc.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate encounter id %q", path, enc.ID)
		}
		out[enc.ID] = enc
	}
	return out, nil
}

// IDs returns the keys of encounters in sorted order.
func IDs(encounters map[string]*Encounter) []string {
	ids := make([]string, 0, len(encounters))
	for id := range encounters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
