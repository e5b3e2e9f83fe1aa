package skirmish

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// Factory builds the battle for one simulation run. Each call must return a
// battle with its own actors.
type Factory func(run int) (*combat.Battle, error)

// Summary aggregates the results of a simulation.
type Summary struct {
	Runs      int
	Victories int
	Defeats   int
	// Undecided counts runs stopped by the turn limit.
	Undecided int
	MeanTurns float64
	Results   []Result
}

// WinRate is the fraction of runs the players won.
func (s Summary) WinRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Victories) / float64(s.Runs)
}

// Simulate runs independent battles with at most parallelism running at once.
// Every battle is registered with an Engine while it runs, so a factory that
// reuses actors across runs fails with combat.ErrActorBusy.
//
// Precondition: runs >= 1.
// Postcondition: Results[i] is the result of run i. The first factory, engine or
// run error (other than ErrTurnLimit) cancels the remaining runs and is returned.
func Simulate(ctx context.Context, factory Factory, runs, parallelism int, opts Options) (Summary, error) {
	if runs < 1 {
		return Summary{}, fmt.Errorf("skirmish: runs must be >= 1, got %d", runs)
	}
	if parallelism < 1 {
		parallelism = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := combat.NewEngine()
	results := make([]Result, runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			b, err := factory(i)
			if err != nil {
				return fmt.Errorf("building run %d: %w", i, err)
			}
			if err := engine.Start(b); err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			defer engine.End(b.ID())

			res, err := Run(gctx, b, opts)
			if err != nil && !errors.Is(err, ErrTurnLimit) {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{Runs: runs, Results: results}
	turns := 0
	for _, r := range results {
		turns += r.Turns
		switch r.Outcome {
		case combat.Victory:
			sum.Victories++
		case combat.Defeat:
			sum.Defeats++
		default:
			sum.Undecided++
		}
	}
	sum.MeanTurns = float64(turns) / float64(runs)
	logger.Info("simulation finished",
		zap.Int("runs", runs),
		zap.Int("parallelism", parallelism),
		zap.Int("victories", sum.Victories),
		zap.Int("defeats", sum.Defeats),
		zap.Int("undecided", sum.Undecided),
		zap.Float64("mean_turns", sum.MeanTurns),
	)
	return sum, nil
}
