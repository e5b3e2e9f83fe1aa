package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/skirmish"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	victoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34"))

	defeatStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	undecidedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	critStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// narrate renders one event line, prefixed by its turn number.
func narrate(e combat.Event) string {
	line := fmt.Sprintf("[%3d] %s", e.Turn+1, e.Narrative)
	if e.Critical {
		return critStyle.Render(line + " (critical)")
	}
	return line
}

func outcomeStyle(o combat.Outcome) lipgloss.Style {
	switch o {
	case combat.Victory:
		return victoryStyle
	case combat.Defeat:
		return defeatStyle
	default:
		return undecidedStyle
	}
}

// banner renders the closing summary of a single battle.
func banner(res skirmish.Result) string {
	names := make([]string, 0, len(res.Survivors))
	for _, s := range res.Survivors {
		names = append(names, fmt.Sprintf("%s %d/%d", s.Name, s.Health, s.MaxHealth))
	}
	body := strings.Join([]string{
		outcomeStyle(res.Outcome).Render(strings.ToUpper(res.Outcome.String())),
		fmt.Sprintf("turns: %d", res.Turns),
		fmt.Sprintf("survivors: %s", strings.Join(names, ", ")),
	}, "\n")
	return boxStyle.Render(body)
}

// summaryTable renders the aggregate of a simulation.
func summaryTable(name string, sum skirmish.Summary) string {
	body := strings.Join([]string{
		headerStyle.Render(name),
		fmt.Sprintf("runs:      %d", sum.Runs),
		victoryStyle.Render(fmt.Sprintf("victories: %d", sum.Victories)),
		defeatStyle.Render(fmt.Sprintf("defeats:   %d", sum.Defeats)),
		undecidedStyle.Render(fmt.Sprintf("undecided: %d", sum.Undecided)),
		fmt.Sprintf("win rate:  %.1f%%", sum.WinRate()*100),
		fmt.Sprintf("mean turns: %.1f", sum.MeanTurns),
	}, "\n")
	return boxStyle.Render(body)
}
