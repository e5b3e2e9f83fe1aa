// Package skirmish drives battles to completion, singly or as concurrent simulations.
package skirmish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// DefaultTurnLimit bounds a battle when Options.TurnLimit is zero.
const DefaultTurnLimit = 1000

// ErrTurnLimit is returned when a battle is still undecided at the turn limit.
var ErrTurnLimit = errors.New("skirmish: turn limit reached")

// Options configures Run.
type Options struct {
	// TurnLimit stops an undecided battle. Zero means DefaultTurnLimit.
	TurnLimit int
	Logger    *zap.Logger
	// OnEvent, when set, is called with every event as it happens.
	OnEvent func(combat.Event)
}

// Result summarises a finished battle.
type Result struct {
	BattleID  string
	Outcome   combat.Outcome
	Turns     int
	Events    []combat.Event
	Survivors []combat.Snapshot
	Duration  time.Duration
}

// Run steps b until it is over, then concludes it.
//
// Precondition: b must not be shared with any other running battle.
// Postcondition: On success the result's Outcome is Victory or Defeat. On
// ErrTurnLimit or context cancellation the partial result is returned with the
// error and the battle is not concluded.
func Run(ctx context.Context, b *combat.Battle, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.TurnLimit
	if limit <= 0 {
		limit = DefaultTurnLimit
	}
	logger = logger.With(zap.String("battle_id", b.ID()))
	start := time.Now()

	for !b.IsOver() {
		if err := ctx.Err(); err != nil {
			return summarise(b, start), fmt.Errorf("battle %s: %w", b.ID(), err)
		}
		if b.Turn() >= limit {
			logger.Warn("battle hit turn limit", zap.Int("turn_limit", limit))
			return summarise(b, start), fmt.Errorf("battle %s after %d turns: %w", b.ID(), b.Turn(), ErrTurnLimit)
		}
		events, err := b.Step()
		if err != nil {
			return summarise(b, start), err
		}
		if opts.OnEvent != nil {
			for _, e := range events {
				opts.OnEvent(e)
			}
		}
	}

	res := summarise(b, start)
	b.Conclude()
	logger.Info("battle finished",
		zap.Stringer("outcome", res.Outcome),
		zap.Int("turns", res.Turns),
		zap.Int("survivors", len(res.Survivors)),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func summarise(b *combat.Battle, start time.Time) Result {
	res := Result{
		BattleID: b.ID(),
		Outcome:  b.Outcome(),
		Turns:    b.Turn(),
		Events:   b.Events(),
		Duration: time.Since(start),
	}
	for _, a := range b.TurnOrder() {
		if !a.IsDefeated() {
			res.Survivors = append(res.Survivors, a.Snapshot())
		}
	}
	return res
}
