package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

func newTestManager(t testing.TB, limit int) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := dice.NewLoggedRoller(&dice.Fixed{Values: []int{3}}, logger)
	mgr := scripting.NewManager(roller, logger, limit)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func TestManager_LoadDirectory_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := writeTempLua(t, "hooks.lua", `
		function add(a, b)
			return a + b
		end
	`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))
	n, err := mgr.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	ret, err := mgr.CallHook("add", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
	assert.True(t, mgr.HasHook("add"))
	assert.False(t, mgr.HasHook("sub"))
}

func TestManager_LoadDirectory_ErrorKeepsPreviousVM(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("inline", `function keep() return 1 end`))
	dir := writeTempLua(t, "broken.lua", `function (`)
	_, err := mgr.LoadDirectory(dir)
	assert.Error(t, err)
	assert.True(t, mgr.HasHook("keep"))

	_, err = mgr.LoadDirectory(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	ret, err := mgr.CallHook("nope")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_RuntimeErrorLogged(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("inline", `function bad() error("kaboom") end`))
	ret, err := mgr.CallHook("bad")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestManager_CallHook_BudgetIsPerCall(t *testing.T) {
	mgr, _ := newTestManager(t, 200)
	require.NoError(t, mgr.LoadString("inline", `
		function spin() while true do end end
		function small() return 5 end
	`))
	ret, _ := mgr.CallHook("spin")
	assert.Equal(t, lua.LNil, ret)
	for i := 0; i < 10; i++ {
		ret, _ = mgr.CallHook("small")
		assert.Equal(t, lua.LNumber(5), ret)
	}
}

func TestManager_EngineModule(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("inline", `
		function roll() engine.log("rolling") return engine.roll(6) end
		function sure() return engine.chance(100) end
	`))
	ret, _ := mgr.CallHook("roll")
	assert.Equal(t, lua.LNumber(4), ret)
	ret, _ = mgr.CallHook("sure")
	assert.Equal(t, lua.LTrue, ret)
	assert.Equal(t, 1, logs.FilterMessage("script").Len())
}

const tacticsLua = `
function focus_weakest(self, allies, foes)
	local best, idx = nil, nil
	for i, f in ipairs(foes) do
		if not f.defeated and (best == nil or f.health < best) then
			best, idx = f.health, i
		end
	end
	if idx == nil or self.mana < 2 then
		return nil
	end
	return { skill = "Jab", target = idx }
end

function mend_self(self, allies, foes)
	for i, a in ipairs(allies) do
		if a.id == self.id then
			return { skill = "Mend", target = i, side = "ally" }
		end
	end
end

function confused(self, allies, foes)
	return { skill = "Meteor", target = 1 }
end

function out_of_range(self, allies, foes)
	return { skill = "Jab", target = 9 }
end
`

func policyBattle(t *testing.T) (*combat.Actor, []*combat.Actor, *combat.Battle) {
	t.Helper()
	hero := combat.NewActor(combat.KindPlayer, "Hero", combat.StatBlock{
		Strength: combat.NewStat(3), Agility: combat.NewStat(9),
		Health: combat.NewStat(30), Mana: combat.NewStat(4),
	}, 0, 1)
	hero.Skills = []*catalog.Skill{
		catalog.NewSkill("Jab", "", grid.All(), grid.All()),
		catalog.NewSkill("Mend", "", grid.All(), grid.All()),
	}
	hero.Skills[0].ActionCost = 2
	strong := combat.NewActor(combat.KindEnemy, "Ogre", combat.StatBlock{Health: combat.NewStat(40)}, 0, 0)
	weak := combat.NewActor(combat.KindEnemy, "Imp", combat.StatBlock{Health: combat.NewStat(5)}, 0, 2)
	b, err := combat.NewBattle([]*combat.Actor{hero}, []*combat.Actor{strong, weak})
	require.NoError(t, err)
	return hero, []*combat.Actor{strong, weak}, b
}

func TestPolicy_ScriptChoosesSkillAndTarget(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("tactics", tacticsLua))
	hero, foes, b := policyBattle(t)

	p, err := mgr.Policy("focus_weakest")
	require.NoError(t, err)
	act := p.Choose(b, hero)
	require.NotNil(t, act.Skill)
	assert.Equal(t, "Jab", act.Skill.Name)
	assert.Same(t, foes[1], act.Target)

	hero.Stats.Mana.Current = 1
	assert.Nil(t, p.Choose(b, hero).Skill, "nil reply means attack")
}

func TestPolicy_AllySide(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("tactics", tacticsLua))
	hero, _, b := policyBattle(t)
	p, err := mgr.Policy("mend_self")
	require.NoError(t, err)
	act := p.Choose(b, hero)
	assert.Equal(t, "Mend", act.Skill.Name)
	assert.Same(t, hero, act.Target)
}

func TestPolicy_MalformedRepliesFallBack(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("tactics", tacticsLua))
	hero, _, b := policyBattle(t)
	for _, hook := range []string{"confused", "out_of_range"} {
		p, err := mgr.Policy(hook)
		require.NoError(t, err)
		assert.Equal(t, combat.Action{}, p.Choose(b, hero), hook)
	}
	assert.Equal(t, 2, logs.FilterMessage("scripting: policy reply ignored").Len())
}

func TestPolicy_UndefinedHook(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	_, err := mgr.Policy("missing")
	assert.Error(t, err)
}

func TestPolicy_DrivesBattle(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("tactics", tacticsLua))
	hero, foes, b := policyBattle(t)
	p, err := mgr.Policy("focus_weakest")
	require.NoError(t, err)
	hero.Policy = p

	events := hero.Act(b)
	require.NotEmpty(t, events)
	assert.Equal(t, combat.EventSkill, events[0].Kind)
	assert.Equal(t, 2, hero.Stats.Mana.Current)
	assert.Equal(t, foes[1].ID, events[0].TargetID)
}

func TestPolicy_ConcurrentChoose(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("tactics", tacticsLua))
	p, err := mgr.Policy("focus_weakest")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		hero, foes, b := policyBattle(t)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				assert.Same(t, foes[1], p.Choose(b, hero).Target)
			}
		}()
	}
	wg.Wait()
}

func TestPolicy_RollsFromBattleDice(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadString("luck", `
		function lucky_jab(self, allies, foes)
			return { skill = "Jab", target = engine.roll(#foes) }
		end
		function roll_two() return engine.roll(2) end
	`))
	p, err := mgr.Policy("lucky_jab")
	require.NoError(t, err)

	pick := func(value int) *combat.Actor {
		hero, foes, _ := policyBattle(t)
		b, err := combat.NewBattle([]*combat.Actor{hero}, foes,
			combat.WithSource(&dice.Fixed{Values: []int{value}}))
		require.NoError(t, err)
		got := p.Choose(b, hero).Target
		require.NotNil(t, got)
		if got == foes[0] {
			return foes[0]
		}
		assert.Same(t, foes[1], got)
		return got
	}
	assert.Equal(t, "Ogre", pick(0).Name)
	assert.Equal(t, "Imp", pick(1).Name)
	assert.Equal(t, "Ogre", pick(2).Name, "same dice, same choice")

	ret, _ := mgr.CallHook("roll_two")
	assert.Equal(t, lua.LNumber(2), ret, "outside a battle the manager's roller is used")
}
