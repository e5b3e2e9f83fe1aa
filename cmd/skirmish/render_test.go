package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/skirmish"
)

func TestNarrate_IncludesTurnAndText(t *testing.T) {
	line := narrate(combat.Event{Turn: 4, Narrative: "Hero attacks Slime"})
	assert.Contains(t, line, "5]")
	assert.Contains(t, line, "Hero attacks Slime")
}

func TestNarrate_MarksCritical(t *testing.T) {
	line := narrate(combat.Event{Narrative: "Slime takes 12 damage", Critical: true})
	assert.Contains(t, line, "critical")
}

func TestBanner_ShowsOutcomeAndSurvivors(t *testing.T) {
	out := banner(skirmish.Result{
		Outcome:   combat.Victory,
		Turns:     15,
		Survivors: []combat.Snapshot{{Name: "Hero", Health: 44, MaxHealth: 50}},
	})
	assert.Contains(t, out, "VICTORY")
	assert.Contains(t, out, "turns: 15")
	assert.Contains(t, out, "Hero 44/50")
}

func TestSummaryTable_ShowsWinRate(t *testing.T) {
	out := summaryTable("Duel", skirmish.Summary{Runs: 4, Victories: 3, Defeats: 1, MeanTurns: 12})
	assert.Contains(t, out, "Duel")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "mean turns: 12.0")
}

func TestBattleSource_SeededRunsAreReproducible(t *testing.T) {
	a := dice.NewLoggedRoller(battleSource(42, 3), nil)
	b := dice.NewLoggedRoller(battleSource(42, 3), nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.D(100), b.D(100))
	}
}
