// Package status defines timed status effects and the per-unit set that ticks them.
package status

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
)

// Well-known status names.
const (
	Regenerating = "regenerating"
	Poisoned     = "poisoned"
	Burning      = "burning"
	Strengthened = "strengthened"
	Energized    = "energized"
	Invisible    = "invisible"
	Immune       = "immune"
	Weakened     = "weakened"
	Disrupted    = "disrupted"
	Paralyzed    = "paralyzed"
	Stunned      = "stunned"
	Unconscious  = "unconscious"
	Restrained   = "restrained"
	Petrified    = "petrified"
	Chilled      = "chilled"
	Confused     = "confused"
	Exhausted    = "exhausted"
	Blinded      = "blinded"
	Charmed      = "charmed"
	Frightened   = "frightened"
	Silenced     = "silenced"
	Quickened    = "quickened"
)

// Type is the broad family of a status effect.
type Type string

const (
	TypeHealth      Type = "HEALTH"
	TypeBeneficial  Type = "BENEFICIAL"
	TypeDetrimental Type = "DETRIMENTAL"
	TypeControl     Type = "CONTROL"
	TypeUnique      Type = "UNIQUE"
)

// Activation is when in its holder's turn a status effect resolves.
type Activation string

const (
	PreTurn  Activation = "pre-turn"
	PostTurn Activation = "post-turn"
)

// Def is the static definition of a status effect.
//
// Each activation applies Battle scaled by Degree to the holder. A non-empty
// Ability shifts that ability score by AbilityDelta while the status is active.
// SkipsTurn marks control effects that forfeit the holder's action.
type Def struct {
	Name         string                 `yaml:"name"`
	Description  string                 `yaml:"description"`
	Type         Type                   `yaml:"type"`
	Activation   Activation             `yaml:"activation"`
	Battle       catalog.BattleModifier `yaml:"battle"`
	Field        catalog.FieldModifier  `yaml:"field"`
	Degree       float64                `yaml:"degree"`
	Priority     int                    `yaml:"priority"`
	Duration     int                    `yaml:"duration"`
	Ability      string                 `yaml:"ability"`
	AbilityDelta int                    `yaml:"ability_delta"`
	SkipsTurn    bool                   `yaml:"skips_turn"`
}

// Validate checks that the definition satisfies basic invariants.
//
// Postcondition: Returns nil iff Name is non-empty, Activation is known,
// Duration >= 1, Degree >= 0 and Ability (when set) names a real ability.
func (d *Def) Validate() error {
	if d.Name == "" {
		return errors.New("status: name must not be empty")
	}
	if d.Activation != PreTurn && d.Activation != PostTurn {
		return fmt.Errorf("status %q: activation must be %q or %q, got %q", d.Name, PreTurn, PostTurn, d.Activation)
	}
	if d.Duration < 1 {
		return fmt.Errorf("status %q: duration must be >= 1", d.Name)
	}
	if d.Degree < 0 {
		return fmt.Errorf("status %q: degree must be >= 0", d.Name)
	}
	if d.Ability != "" {
		if _, err := ability.ParseAbility(d.Ability); err != nil {
			return fmt.Errorf("status %q: %w", d.Name, err)
		}
	}
	return nil
}

// HealthPerActivation returns the health delta applied each time the status resolves.
func (d *Def) HealthPerActivation() int {
	degree := d.Degree
	if degree == 0 {
		degree = 1
	}
	return int(float64(d.Battle.Health) * degree)
}

// Registry holds all known status definitions keyed by name.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def, overwriting any existing entry with the same name.
//
// Precondition: def must not be nil and def.Name must not be empty.
func (r *Registry) Register(def *Def) {
	r.defs[def.Name] = def
}

// Get returns the definition for name, or (nil, false) if not found.
func (r *Registry) Get(name string) (*Def, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// All returns every definition sorted by name.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def, and
// returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
