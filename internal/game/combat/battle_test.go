package combat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func block(str, agi, health int) combat.StatBlock {
	return combat.StatBlock{
		Strength: combat.NewStat(str),
		Agility:  combat.NewStat(agi),
		Health:   combat.NewStat(health),
	}
}

func duel(t *testing.T) (*combat.Actor, *combat.Actor, *combat.Battle) {
	t.Helper()
	hero := combat.NewActor(combat.KindPlayer, "Hero", block(10, 12, 100), 0, 1)
	brute := combat.NewActor(combat.KindEnemy, "Brute", block(8, 10, 80), 0, 1)
	b, err := combat.NewBattle([]*combat.Actor{hero}, []*combat.Actor{brute})
	require.NoError(t, err)
	return hero, brute, b
}

func TestDuel_PlayerWins(t *testing.T) {
	hero, brute, b := duel(t)

	assert.Equal(t, 36, hero.Initiative())
	assert.Equal(t, 30, brute.Initiative())
	assert.Equal(t, []*combat.Actor{hero, brute}, b.TurnOrder())
	assert.Equal(t, combat.PhaseSetup, b.Phase())

	events, err := b.Step()
	require.NoError(t, err)
	assert.Equal(t, 70, brute.Stats.Health.Current)
	require.Len(t, events, 1)
	assert.Equal(t, combat.EventAttack, events[0].Kind)
	assert.Equal(t, 10, events[0].Amount)
	assert.Equal(t, combat.PhaseInProgress, b.Phase())

	_, err = b.Step()
	require.NoError(t, err)
	assert.Equal(t, 92, hero.Stats.Health.Current)

	for !b.IsOver() {
		_, err := b.Step()
		require.NoError(t, err)
	}
	assert.Equal(t, 15, b.Turn(), "8 hero attacks and 7 brute attacks")
	assert.LessOrEqual(t, brute.Stats.Health.Current, 0)
	assert.Equal(t, 44, hero.Stats.Health.Current)
	assert.Equal(t, combat.Victory, b.Outcome())
	assert.Equal(t, combat.PhaseOver, b.Phase())

	_, err = b.Step()
	assert.ErrorIs(t, err, combat.ErrBattleOver)
	assert.Equal(t, 15, b.Turn())
	assert.Len(t, b.Events(), 16, "15 attacks plus one defeat")
}

func TestNewBattle_EmptyRosterRejected(t *testing.T) {
	b, err := combat.NewBattle(nil, nil)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, combat.ErrEmptyRoster)
}

func TestNewBattle_DuplicateActorRejected(t *testing.T) {
	a := combat.NewActor(combat.KindPlayer, "Twin", block(1, 1, 1), 0, 0)
	_, err := combat.NewBattle([]*combat.Actor{a}, []*combat.Actor{a})
	assert.ErrorIs(t, err, combat.ErrDuplicateActor)
}

func TestAct_NoTargetIsNoOp(t *testing.T) {
	hero := combat.NewActor(combat.KindPlayer, "Hero", block(10, 12, 100), 1, 1)
	b, err := combat.NewBattle([]*combat.Actor{hero}, nil)
	require.NoError(t, err)

	before := hero.Stats
	events := hero.Act(b)
	assert.Empty(t, events)
	assert.Equal(t, before, hero.Stats)
	assert.True(t, b.IsOver(), "an empty enemy roster is vacuously defeated")
	assert.Equal(t, combat.Victory, b.Outcome())
}

func TestAct_DefeatedActorDoesNothing(t *testing.T) {
	hero, brute, b := duel(t)
	hero.Stats.Health.Current = 0
	assert.Empty(t, hero.Act(b))
	assert.Equal(t, 80, brute.Stats.Health.Current)
	assert.Equal(t, combat.Defeat, b.Outcome())
}

func TestAttack_DefaultHitsFirstRosterMember(t *testing.T) {
	hero := combat.NewActor(combat.KindPlayer, "Hero", block(5, 5, 50), 0, 1)
	first := combat.NewActor(combat.KindEnemy, "First", block(1, 1, 0), 0, 0)
	second := combat.NewActor(combat.KindEnemy, "Second", block(1, 1, 20), 0, 2)
	b, err := combat.NewBattle([]*combat.Actor{hero}, []*combat.Actor{first, second})
	require.NoError(t, err)

	events := hero.Act(b)
	assert.Equal(t, -5, first.Stats.Health.Current)
	assert.Equal(t, 20, second.Stats.Health.Current)
	require.Len(t, events, 1, "an already defeated target is not defeated again")
	assert.Equal(t, combat.EventAttack, events[0].Kind)
}

func TestAttackFirstStanding_SkipsDefeatedFoes(t *testing.T) {
	hero := combat.NewActor(combat.KindPlayer, "Hero", block(5, 5, 50), 0, 1)
	hero.Policy = combat.AttackFirstStanding
	first := combat.NewActor(combat.KindEnemy, "First", block(1, 1, 0), 0, 0)
	second := combat.NewActor(combat.KindEnemy, "Second", block(1, 1, 20), 0, 2)
	b, err := combat.NewBattle([]*combat.Actor{hero}, []*combat.Actor{first, second})
	require.NoError(t, err)

	hero.Act(b)
	assert.Equal(t, 15, second.Stats.Health.Current)
	assert.Equal(t, 0, first.Stats.Health.Current)
}

func TestNewBattle_TieKeepsInputOrder(t *testing.T) {
	p1 := combat.NewActor(combat.KindPlayer, "P1", block(1, 5, 10), 0, 0)
	p2 := combat.NewActor(combat.KindPlayer, "P2", block(1, 7, 10), 0, 1)
	e1 := combat.NewActor(combat.KindEnemy, "E1", block(1, 5, 10), 0, 0)
	b, err := combat.NewBattle([]*combat.Actor{p1, p2}, []*combat.Actor{e1})
	require.NoError(t, err)
	assert.Equal(t, []*combat.Actor{p2, p1, e1}, b.TurnOrder())
}

func TestTurnOrder_SnapshotIgnoresAgilityChange(t *testing.T) {
	hero, brute, b := duel(t)
	brute.Stats.Agility.Current = 20
	b.NextTurn()
	b.NextTurn()
	assert.Equal(t, []*combat.Actor{hero, brute}, b.TurnOrder())
}

func TestTurnOrder_PerRoundResorts(t *testing.T) {
	hero := combat.NewActor(combat.KindPlayer, "Hero", block(1, 12, 100), 0, 0)
	brute := combat.NewActor(combat.KindEnemy, "Brute", block(1, 10, 100), 0, 0)
	b, err := combat.NewBattle([]*combat.Actor{hero}, []*combat.Actor{brute},
		combat.WithTurnOrderPolicy(combat.PerRound))
	require.NoError(t, err)

	brute.Stats.Agility.Current = 20
	b.NextTurn()
	assert.Equal(t, hero, b.TurnOrder()[0], "mid-round order is unchanged")
	b.NextTurn()
	assert.Equal(t, []*combat.Actor{brute, hero}, b.TurnOrder())
	assert.Equal(t, 1, b.Round())
}

func TestConclude_ResetsToBase(t *testing.T) {
	scores := ability.New(5, 5, 5, 5, 5)
	hero := combat.NewActorFromScores(combat.KindPlayer, "Hero", scores, 0, 0)
	b, err := combat.NewBattle([]*combat.Actor{hero}, nil)
	require.NoError(t, err)

	scores.Increase(ability.STR, 3)
	hero.Stats.Strength.Current = 8
	hero.Derived.Apply(hero.Derived.Base())

	b.Conclude()
	assert.Equal(t, 5, scores.CurrentOf(ability.STR))
	assert.Equal(t, 5, hero.Stats.Strength.Current)
	assert.Equal(t, hero.Derived.Base(), hero.Derived.Current())
	assert.Equal(t, combat.PhaseOver, b.Phase())
}

func TestParseTurnOrderPolicy(t *testing.T) {
	p, err := combat.ParseTurnOrderPolicy("per_round")
	require.NoError(t, err)
	assert.Equal(t, combat.PerRound, p)
	p, err = combat.ParseTurnOrderPolicy("")
	require.NoError(t, err)
	assert.Equal(t, combat.SnapshotOrder, p)
	_, err = combat.ParseTurnOrderPolicy("random")
	assert.Error(t, err)
}

func drawRoster(rt *rapid.T, kind combat.Kind, label string, minLen int) []*combat.Actor {
	n := rapid.IntRange(minLen, 5).Draw(rt, label+"_n")
	out := make([]*combat.Actor, n)
	for i := range out {
		agi := rapid.IntRange(1, 10).Draw(rt, label+"_agi")
		hp := rapid.IntRange(-5, 20).Draw(rt, label+"_hp")
		out[i] = combat.NewActor(kind, label, block(1, agi, hp), 0, 0)
	}
	return out
}

func TestProperty_TurnOrderIsStablePermutation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		players := drawRoster(rt, combat.KindPlayer, "p", 0)
		enemies := drawRoster(rt, combat.KindEnemy, "e", 1)
		b, err := combat.NewBattle(players, enemies)
		require.NoError(rt, err)

		order := b.TurnOrder()
		input := append(append([]*combat.Actor{}, players...), enemies...)
		assert.ElementsMatch(rt, input, order)

		index := make(map[*combat.Actor]int, len(input))
		for i, a := range input {
			index[a] = i
		}
		for i := 1; i < len(order); i++ {
			prev, cur := order[i-1], order[i]
			require.GreaterOrEqual(rt, prev.Initiative(), cur.Initiative())
			if prev.Initiative() == cur.Initiative() {
				require.Less(rt, index[prev], index[cur], "ties keep input order")
			}
		}
	})
}

func TestProperty_ActiveAgentRoundRobin(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b, err := combat.NewBattle(drawRoster(rt, combat.KindPlayer, "p", 1), drawRoster(rt, combat.KindEnemy, "e", 0))
		require.NoError(rt, err)
		order := b.TurnOrder()
		k := rapid.IntRange(0, 50).Draw(rt, "k")
		for i := 0; i < k; i++ {
			b.NextTurn()
		}
		assert.Equal(rt, order[k%len(order)], b.ActiveAgent())
	})
}

func TestProperty_IsOverIffOneSideDown(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		players := drawRoster(rt, combat.KindPlayer, "p", 1)
		enemies := drawRoster(rt, combat.KindEnemy, "e", 1)
		b, err := combat.NewBattle(players, enemies)
		require.NoError(rt, err)

		down := func(as []*combat.Actor) bool {
			for _, a := range as {
				if a.Stats.Health.Current > 0 {
					return false
				}
			}
			return true
		}
		want := down(players) || down(enemies)
		assert.Equal(rt, want, b.IsOver())
		assert.Equal(rt, want, b.IsOver(), "IsOver is pure")
	})
}

func TestProperty_StepNeverErrorsBeforeOver(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b, err := combat.NewBattle(drawRoster(rt, combat.KindPlayer, "p", 1), drawRoster(rt, combat.KindEnemy, "e", 1))
		require.NoError(rt, err)
		for i := 0; i < 200 && !b.IsOver(); i++ {
			_, err := b.Step()
			require.False(rt, errors.Is(err, combat.ErrBattleOver))
		}
	})
}
