package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

func TestNewStatBlockFromScores(t *testing.T) {
	sb := combat.NewStatBlockFromScores(ability.New(4, 6, 3, 7, 9))
	assert.Equal(t, combat.NewStat(6), sb.Strength)
	assert.Equal(t, combat.NewStat(4), sb.Vigor)
	assert.Equal(t, combat.NewStat(3), sb.Dexterity)
	assert.Equal(t, combat.NewStat(9), sb.Agility)
	assert.Equal(t, combat.NewStat(7), sb.Resonance)
	assert.Equal(t, combat.NewStat(20), sb.Health)
	assert.Equal(t, combat.NewStat(35), sb.Mana)
}

func TestActor_InitiativeFollowsCurrentAgility(t *testing.T) {
	a := combat.NewActor(combat.KindEnemy, "Bat", block(1, 4, 5), 0, 0)
	assert.Equal(t, 12, a.Initiative())
	a.Stats.Agility.Current = 6
	assert.Equal(t, 18, a.Initiative())
	assert.False(t, a.IsPlayer())
}

func TestActor_EquipAndUnequip(t *testing.T) {
	a := combat.NewActorFromScores(combat.KindPlayer, "Knight", ability.New(5, 5, 5, 5, 5), 0, 0)
	helm := catalog.NewEquipment("Iron Helm", "", catalog.Helm, stats.Set{Defense: 3, Vitality: 5}, catalog.Striker)

	require.NoError(t, a.Equip(helm))
	assert.Equal(t, 13.0, a.Derived.Current().Defense)
	assert.Equal(t, 10.0, a.Derived.Base().Defense)
	assert.Equal(t, combat.NewStat(30), a.Stats.Health)

	better := catalog.NewEquipment("Steel Helm", "", catalog.Helm, stats.Set{Defense: 5})
	require.NoError(t, a.Equip(better))
	assert.Equal(t, 15.0, a.Derived.Current().Defense, "replacing reverts the old bonus")
	assert.Equal(t, combat.NewStat(25), a.Stats.Health)

	assert.Equal(t, better, a.Unequip(catalog.Helm))
	assert.Equal(t, a.Derived.Base(), a.Derived.Current())
	assert.Nil(t, a.Unequip(catalog.Helm))
}

func TestActor_EquipFamilyGated(t *testing.T) {
	a := combat.NewActor(combat.KindPlayer, "Knight", block(1, 1, 1), 0, 0)
	staff := catalog.NewEquipment("Staff", "", catalog.Accessory, stats.Set{Amplification: 4}, catalog.Healer)
	assert.ErrorIs(t, a.Equip(staff), combat.ErrEquipmentUnavailable)
	assert.Empty(t, a.Equipment)
}

func TestActor_UnequipCapsHealth(t *testing.T) {
	a := combat.NewActor(combat.KindPlayer, "Knight", block(1, 1, 10), 0, 0)
	plate := catalog.NewEquipment("Plate", "", catalog.Chest, stats.Set{Vitality: 10})
	require.NoError(t, a.Equip(plate))
	assert.Equal(t, 20, a.Stats.Health.Current)
	a.Unequip(catalog.Chest)
	assert.Equal(t, combat.NewStat(10), a.Stats.Health)
}

func TestActor_SnapshotAndKnowsSkill(t *testing.T) {
	a := combat.NewActor(combat.KindPlayer, "Knight", block(1, 1, 10), 2, 1)
	a.Skills = []*catalog.Skill{strike(-1)}
	snap := a.Snapshot()
	assert.Equal(t, "Knight", snap.Name)
	assert.Equal(t, "player", snap.Kind)
	assert.Equal(t, 2, snap.X)
	assert.Equal(t, 1, snap.Y)
	assert.Equal(t, []string{"Strike"}, snap.Skills)
	assert.False(t, snap.Defeated)

	sk, ok := a.KnowsSkill("Strike")
	assert.True(t, ok)
	assert.Equal(t, "Strike", sk.Name)
	_, ok = a.KnowsSkill("Fireball")
	assert.False(t, ok)
}
