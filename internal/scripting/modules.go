package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine global into L:
//   - engine.roll(sides) returns a die roll in [1, sides]
//   - engine.chance(percent) returns true on a d100 roll at or under percent
//   - engine.log(msg) writes msg to the manager's logger at debug
//
// During a policy call the rolls come from the battle's roller.
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"roll": func(L *lua.LState) int {
			sides := L.CheckInt(1)
			if sides < 1 {
				L.ArgError(1, "sides must be >= 1")
				return 0
			}
			L.Push(lua.LNumber(m.activeRoller().D(sides)))
			return 1
		},
		"chance": func(L *lua.LState) int {
			L.Push(lua.LBool(m.activeRoller().Percent(float64(L.CheckNumber(1)))))
			return 1
		},
		"log": func(L *lua.LState) int {
			m.logger.Debug("script", zap.String("msg", L.CheckString(1)))
			return 0
		},
	})
	L.SetGlobal("engine", engine)
}
