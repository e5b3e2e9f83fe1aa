package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Policy returns a combat policy backed by the Lua function hook. Each turn the
// hook is called as hook(self, allies, foes), where every argument is an actor
// table (arrays for allies and foes, 1-based, in roster order). It returns nil
// to attack, or a table {skill = "name", target = n, side = "foe"|"ally"}
// where target indexes the chosen side (foes by default).
//
// Postcondition: Returns an error if hook is not a defined function.
func (m *Manager) Policy(hook string) (combat.Policy, error) {
	if !m.HasHook(hook) {
		return nil, fmt.Errorf("scripting: hook %q is not defined", hook)
	}
	return &luaPolicy{m: m, hook: hook}, nil
}

type luaPolicy struct {
	m    *Manager
	hook string
}

// Choose implements combat.Policy. Any malformed reply falls back to the default attack.
func (p *luaPolicy) Choose(b *combat.Battle, self *combat.Actor) combat.Action {
	allies, foes := b.Allies(self), b.Foes(self)

	p.m.mu.Lock()
	p.m.battleRoller = b.Roller()
	ret, _ := p.m.callLocked(p.hook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{actorTable(L, self), rosterTable(L, allies), rosterTable(L, foes)}
	})
	p.m.battleRoller = nil
	p.m.mu.Unlock()

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return combat.Action{}
	}
	skillName := lua.LVAsString(tbl.RawGetString("skill"))
	sk, known := self.KnowsSkill(skillName)
	if !known {
		p.reject(self, "unknown skill "+skillName)
		return combat.Action{}
	}
	side := foes
	if lua.LVAsString(tbl.RawGetString("side")) == "ally" {
		side = allies
	}
	idx := int(lua.LVAsNumber(tbl.RawGetString("target")))
	if idx < 1 || idx > len(side) {
		p.reject(self, fmt.Sprintf("target %d out of range", idx))
		return combat.Action{}
	}
	return combat.Action{Skill: sk, Target: side[idx-1]}
}

func (p *luaPolicy) reject(self *combat.Actor, reason string) {
	p.m.logger.Debug("scripting: policy reply ignored",
		zap.String("hook", p.hook),
		zap.String("actor", self.Name),
		zap.String("reason", reason),
	)
}

func actorTable(L *lua.LState, a *combat.Actor) *lua.LTable {
	s := a.Snapshot()
	t := L.NewTable()
	t.RawSetString("id", lua.LString(s.ID))
	t.RawSetString("name", lua.LString(s.Name))
	t.RawSetString("kind", lua.LString(s.Kind))
	t.RawSetString("family", lua.LString(s.Family))
	t.RawSetString("health", lua.LNumber(s.Health))
	t.RawSetString("max_health", lua.LNumber(s.MaxHealth))
	t.RawSetString("mana", lua.LNumber(s.Mana))
	t.RawSetString("x", lua.LNumber(s.X))
	t.RawSetString("y", lua.LNumber(s.Y))
	t.RawSetString("defeated", lua.LBool(s.Defeated))
	t.RawSetString("statuses", stringArray(L, s.Statuses))
	t.RawSetString("skills", stringArray(L, s.Skills))
	return t
}

func rosterTable(L *lua.LState, actors []*combat.Actor) *lua.LTable {
	t := L.CreateTable(len(actors), 0)
	for _, a := range actors {
		t.Append(actorTable(L, a))
	}
	return t
}

func stringArray(L *lua.LState, ss []string) *lua.LTable {
	t := L.CreateTable(len(ss), 0)
	for _, s := range ss {
		t.Append(lua.LString(s))
	}
	return t
}
