package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Manager owns one sandboxed LState holding every loaded script and exposes
// hook dispatch.
//
// Manager is safe for concurrent use. The LState is single-threaded, so hook
// calls from concurrent battles are serialized.
type Manager struct {
	mu        sync.Mutex
	state     *lua.LState
	instLimit int
	roller    *dice.Roller
	logger    *zap.Logger

	// battleRoller replaces roller while a policy call for a battle runs.
	battleRoller *dice.Roller
}

// NewManager creates a Manager with an empty VM. instLimit bounds every hook
// call; 0 uses DefaultInstructionLimit.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with the engine module registered.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	m := &Manager{instLimit: instLimit, roller: roller, logger: logger}
	m.state = m.newState()
	return m
}

// activeRoller returns the roller engine.roll and engine.chance draw from.
//
// Precondition: m.mu is held.
func (m *Manager) activeRoller() *dice.Roller {
	if m.battleRoller != nil {
		return m.battleRoller
	}
	return m.roller
}

func (m *Manager) newState() *lua.LState {
	L := NewSandboxedState()
	m.RegisterModules(L)
	return L
}

// LoadDirectory replaces the VM with a fresh one and executes every *.lua file
// in scriptDir in lexicographic order.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Returns the number of files loaded. On error the previous VM
// is kept.
func (m *Manager) LoadDirectory(scriptDir string) (int, error) {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return 0, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := m.newState()
	for _, path := range luaFiles {
		release := withBudget(L, m.instLimit)
		err := L.DoFile(path)
		release()
		if err != nil {
			L.Close()
			return 0, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	old := m.state
	m.state = L
	m.mu.Unlock()
	old.Close()
	m.logger.Info("scripts loaded", zap.String("dir", scriptDir), zap.Int("files", len(luaFiles)))
	return len(luaFiles), nil
}

// LoadString executes src in the current VM. name labels errors.
func (m *Manager) LoadString(name, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	release := withBudget(m.state, m.instLimit)
	defer release()
	if err := m.state.DoString(src); err != nil {
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	return nil
}

// HasHook reports whether a global function named hook is defined.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.state.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the hook
// is not defined. Lua runtime errors, including an exhausted instruction
// budget, are logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callLocked(hook, func(*lua.LState) []lua.LValue { return args })
}

// callLocked calls hook with the arguments built by mkArgs on the VM.
//
// Precondition: m.mu is held.
func (m *Manager) callLocked(hook string, mkArgs func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	L := m.state
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	release := withBudget(L, m.instLimit)
	defer release()
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, mkArgs(L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases the VM. The Manager must not be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Close()
}
