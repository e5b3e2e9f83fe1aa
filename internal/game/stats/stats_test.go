package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

func TestFromAbilityScores_Table(t *testing.T) {
	s := stats.FromAbilityScores(ability.New(10, 7, 4, 3, 6))
	got := s.Current()
	assert.Equal(t, 50.0, got.Vitality)
	assert.Equal(t, 20.0, got.Defense)
	assert.Equal(t, 15.0, got.Resistance)
	assert.Equal(t, 6.0, got.Amplification)
	assert.Equal(t, 14.0, got.Damage)
	assert.Equal(t, 3.5, got.CritDamage)
	assert.Equal(t, 2.0, got.CritRate)
	assert.Equal(t, 40.0, got.Accuracy)
	assert.Equal(t, 18.0, got.Initiative)
	assert.Equal(t, 12.0, got.Evasion)
	assert.Equal(t, s.Base(), s.Current())
}

func TestFromAbilityScores_UsesBaseNotCurrent(t *testing.T) {
	scores := ability.New(5, 5, 5, 5, 5)
	scores.Increase(ability.VIG, 5)
	s := stats.FromAbilityScores(scores)
	assert.Equal(t, 25.0, s.Base().Vitality)
}

func TestApplyRevert_LeavesBase(t *testing.T) {
	s := stats.FromAbilityScores(ability.New(5, 5, 5, 5, 5))
	bonus := stats.Set{Defense: 4, Evasion: 1.5}
	s.Apply(bonus)
	assert.Equal(t, 14.0, s.Current().Defense)
	assert.Equal(t, 10.0, s.Base().Defense)
	s.Revert(bonus)
	assert.Equal(t, s.Base(), s.Current())
}

func TestRederive_KeepsOverlay(t *testing.T) {
	scores := ability.New(5, 5, 5, 5, 5)
	s := stats.FromAbilityScores(scores)
	s.Apply(stats.Set{Damage: 3})

	levelled := ability.New(5, 8, 5, 5, 5)
	s.Rederive(levelled)
	assert.Equal(t, 16.0, s.Base().Damage)
	assert.Equal(t, 19.0, s.Current().Damage)
}

func TestSet_GetUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { _ = stats.Set{}.Get(stats.Stat(99)) })
}

func TestParseStat(t *testing.T) {
	for _, s := range stats.AllStats {
		got, err := stats.ParseStat(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := stats.ParseStat("luck")
	assert.Error(t, err)
}

func TestProperty_DerivationMatchesFormulas(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		vig := rapid.IntRange(ability.Min, ability.Max).Draw(rt, "vig")
		str := rapid.IntRange(ability.Min, ability.Max).Draw(rt, "str")
		dex := rapid.IntRange(ability.Min, ability.Max).Draw(rt, "dex")
		res := rapid.IntRange(ability.Min, ability.Max).Draw(rt, "res")
		agi := rapid.IntRange(ability.Min, ability.Max).Draw(rt, "agi")

		got := stats.FromAbilityScores(ability.New(vig, str, dex, res, agi)).Current()
		want := stats.Set{
			Vitality:      float64(vig * 5),
			Defense:       float64(vig * 2),
			Resistance:    float64(res * 5),
			Amplification: float64(res * 2),
			Damage:        float64(str * 2),
			CritDamage:    float64(str) * 0.5,
			CritRate:      float64(dex) * 0.5,
			Accuracy:      float64(dex * 10),
			Initiative:    float64(agi * 3),
			Evasion:       float64(agi * 2),
		}
		assert.Equal(rt, want, got)
	})
}

func TestProperty_AddSubInverse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := stats.Set{Damage: float64(rapid.IntRange(-50, 50).Draw(rt, "a"))}
		b := stats.Set{Damage: float64(rapid.IntRange(-50, 50).Draw(rt, "b")), Evasion: 2}
		assert.Equal(rt, a, a.Add(b).Sub(b))
	})
}
