package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

type modifierDoc struct {
	Health   int    `yaml:"health"`
	Status   string `yaml:"status"`
	Position int    `yaml:"position"`
}

func (m modifierDoc) battle() BattleModifier {
	return BattleModifier{FieldModifier: FieldModifier{Health: m.Health, Status: m.Status}, Position: m.Position}
}

type battleEffectDoc struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Type        string      `yaml:"type"`
	User        modifierDoc `yaml:"user"`
	Target      modifierDoc `yaml:"target"`
}

type fieldEffectDoc struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Type        string        `yaml:"type"`
	Target      FieldModifier `yaml:"target"`
}

type outcomeDoc struct {
	Power string `yaml:"power"`
	Guard string `yaml:"guard"`
	Heal  string `yaml:"heal"`
}

type skillDoc struct {
	Name            string               `yaml:"name"`
	Description     string               `yaml:"description"`
	Families        []string             `yaml:"families"`
	UsablePositions []grid.Point         `yaml:"usable_positions"`
	TargetPositions []grid.Point         `yaml:"target_positions"`
	ActionCost      int                  `yaml:"action_cost"`
	EquipCost       int                  `yaml:"equip_cost"`
	DamageType      string               `yaml:"damage_type"`
	Animation       string               `yaml:"animation"`
	Outcome         outcomeDoc           `yaml:"outcome"`
	Partner         *PartnerRequirements `yaml:"partner"`
	BattleEffects   []battleEffectDoc    `yaml:"battle_effects"`
	FieldEffects    []fieldEffectDoc     `yaml:"field_effects"`
	Sets            []string             `yaml:"sets"`
}

type equipmentDoc struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Families    []string  `yaml:"families"`
	Slot        string    `yaml:"slot"`
	Bonus       stats.Set `yaml:"bonus"`
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func parseFamilies(raw []string) ([]Family, error) {
	out := make([]Family, 0, len(raw))
	for _, r := range raw {
		f, err := ParseFamily(r)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseOutcome(d outcomeDoc) (OutcomeStats, error) {
	out := DefaultOutcomeStats
	for _, f := range []struct {
		raw string
		dst *stats.Stat
	}{{d.Power, &out.Power}, {d.Guard, &out.Guard}, {d.Heal, &out.Heal}} {
		if f.raw == "" {
			continue
		}
		s, err := stats.ParseStat(f.raw)
		if err != nil {
			return OutcomeStats{}, err
		}
		*f.dst = s
	}
	return out, nil
}

// LoadSkillFromBytes parses and validates a single skill from YAML.
//
// Postcondition: Returns a validated *Skill with a fresh ID, or an error.
func LoadSkillFromBytes(data []byte) (*Skill, error) {
	var doc skillDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing skill YAML: %w", err)
	}
	fams, err := parseFamilies(doc.Families)
	if err != nil {
		return nil, fmt.Errorf("skill %q: %w", doc.Name, err)
	}
	outcome, err := parseOutcome(doc.Outcome)
	if err != nil {
		return nil, fmt.Errorf("skill %q: %w", doc.Name, err)
	}
	s := &Skill{
		Info:            NewInfo(doc.Name, doc.Description),
		UsablePositions: doc.UsablePositions,
		TargetPositions: doc.TargetPositions,
		Families:        fams,
		ActionCost:      doc.ActionCost,
		EquipCost:       doc.EquipCost,
		DamageType:      DamageType(strings.ToUpper(doc.DamageType)),
		Animation:       doc.Animation,
		Outcome:         outcome,
		Partner:         doc.Partner,
		Sets:            doc.Sets,
	}
	for _, be := range doc.BattleEffects {
		typ, err := ParseEffectType(be.Type)
		if err != nil {
			return nil, fmt.Errorf("skill %q: %w", doc.Name, err)
		}
		eff := NewBattleEffect(be.Name, typ, be.User.battle(), be.Target.battle())
		eff.Description = be.Description
		s.BattleEffects = append(s.BattleEffects, eff)
	}
	for _, fe := range doc.FieldEffects {
		typ, err := ParseEffectType(fe.Type)
		if err != nil {
			return nil, fmt.Errorf("skill %q: %w", doc.Name, err)
		}
		if typ == EffectPosition {
			return nil, fmt.Errorf("skill %q: field effect %q cannot be POSITION", doc.Name, fe.Name)
		}
		s.FieldEffects = append(s.FieldEffects, FieldEffect{Info: NewInfo(fe.Name, fe.Description), Type: typ, Target: fe.Target})
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadEquipmentFromBytes parses and validates a single equipment item from YAML.
func LoadEquipmentFromBytes(data []byte) (*Equipment, error) {
	var doc equipmentDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing equipment YAML: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("equipment: name must not be empty")
	}
	slot, err := ParseSlot(doc.Slot)
	if err != nil {
		return nil, fmt.Errorf("equipment %q: %w", doc.Name, err)
	}
	fams, err := parseFamilies(doc.Families)
	if err != nil {
		return nil, fmt.Errorf("equipment %q: %w", doc.Name, err)
	}
	return NewEquipment(doc.Name, doc.Description, slot, doc.Bonus, fams...), nil
}

// Registry indexes loaded skills and equipment by name.
type Registry struct {
	skills    map[string]*Skill
	equipment map[string]*Equipment
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{skills: make(map[string]*Skill), equipment: make(map[string]*Equipment)}
}

// AddSkill registers s, replacing any skill with the same name.
func (r *Registry) AddSkill(s *Skill) { r.skills[s.Name] = s }

// AddEquipment registers e, replacing any item with the same name.
func (r *Registry) AddEquipment(e *Equipment) { r.equipment[e.Name] = e }

// Skill returns the skill registered under name.
func (r *Registry) Skill(name string) (*Skill, bool) {
	s, ok := r.skills[name]
	return s, ok
}

// Equipment returns the item registered under name.
func (r *Registry) Equipment(name string) (*Equipment, bool) {
	e, ok := r.equipment[name]
	return e, ok
}

// Skills returns every registered skill sorted by name.
func (r *Registry) Skills() []*Skill {
	out := make([]*Skill, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadSkills reads every *.yaml file in dir into r.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the number of skills loaded, or an error on the first failure.
func (r *Registry) LoadSkills(dir string) (int, error) {
	return eachYAML(dir, func(data []byte) error {
		s, err := LoadSkillFromBytes(data)
		if err != nil {
			return err
		}
		r.AddSkill(s)
		return nil
	})
}

// LoadEquipment reads every *.yaml file in dir into r.
func (r *Registry) LoadEquipment(dir string) (int, error) {
	return eachYAML(dir, func(data []byte) error {
		e, err := LoadEquipmentFromBytes(data)
		if err != nil {
			return err
		}
		r.AddEquipment(e)
		return nil
	})
}

func eachYAML(dir string, fn func([]byte) error) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return n, fmt.Errorf("reading %q: %w", path, err)
		}
		if err := fn(data); err != nil {
			return n, fmt.Errorf("loading %q: %w", path, err)
		}
		n++
	}
	return n, nil
}
