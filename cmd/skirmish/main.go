// Package main runs encounters from content files, either as one narrated
// battle or as a batch simulation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/catalog"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/encounter"
	"github.com/cory-johannsen/skirmish/internal/game/skirmish"
	"github.com/cory-johannsen/skirmish/internal/game/status"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	encounterID := flag.String("encounter", "", "encounter id to run (required)")
	runs := flag.Int("runs", 1, "number of battles; 1 narrates a single battle")
	parallel := flag.Int("parallel", 4, "battles run at once during a simulation")
	store := flag.Bool("store", false, "persist battle reports to PostgreSQL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	content, encounters, err := loadContent(cfg, logger)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	enc, ok := encounters[*encounterID]
	if !ok {
		logger.Fatal("unknown encounter",
			zap.String("encounter", *encounterID),
			zap.String("available", strings.Join(encounter.IDs(encounters), ",")),
		)
	}

	orderPolicy, err := combat.ParseTurnOrderPolicy(cfg.Battle.TurnOrderPolicy)
	if err != nil {
		logger.Fatal("parsing turn order policy", zap.Error(err))
	}

	factory := func(run int) (*combat.Battle, error) {
		return encounter.Build(enc, content,
			combat.WithLogger(logger),
			combat.WithSource(battleSource(cfg.Battle.Seed, run)),
			combat.WithTurnOrderPolicy(orderPolicy),
		)
	}

	var reports *postgres.ReportRepository
	if *store {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Ready(ctx, 5*time.Second); err != nil {
			logger.Fatal("database not ready", zap.Error(err))
		}
		reports = postgres.NewReportRepository(pool.DB())
	}

	logger.Info("content loaded",
		zap.String("encounter", enc.ID),
		zap.Int("runs", *runs),
		zap.Duration("elapsed", time.Since(start)),
	)

	opts := skirmish.Options{TurnLimit: cfg.Battle.TurnLimit, Logger: logger}
	var results []skirmish.Result
	if *runs <= 1 {
		b, err := factory(0)
		if err != nil {
			logger.Fatal("building battle", zap.Error(err))
		}
		fmt.Fprintln(os.Stdout, headerStyle.Render(enc.Name))
		opts.OnEvent = func(e combat.Event) {
			fmt.Fprintln(os.Stdout, narrate(e))
		}
		res, err := skirmish.Run(ctx, b, opts)
		if err != nil && !errors.Is(err, skirmish.ErrTurnLimit) {
			logger.Fatal("running battle", zap.Error(err))
		}
		fmt.Fprintln(os.Stdout, banner(res))
		results = []skirmish.Result{res}
	} else {
		sum, err := skirmish.Simulate(ctx, factory, *runs, *parallel, opts)
		if err != nil {
			logger.Fatal("running simulation", zap.Error(err))
		}
		fmt.Fprintln(os.Stdout, summaryTable(enc.Name, sum))
		results = sum.Results
	}

	if reports != nil {
		for _, res := range results {
			if _, err := reports.Create(ctx, postgres.NewReport(enc.ID, res)); err != nil {
				logger.Fatal("storing report", zap.Error(err))
			}
		}
		logger.Info("reports stored", zap.Int("count", len(results)))
	}
}

// loadContent loads the catalog, statuses, scripts and encounters named by cfg.
func loadContent(cfg config.Config, logger *zap.Logger) (encounter.Content, map[string]*encounter.Encounter, error) {
	reg := catalog.NewRegistry()
	nSkills, err := reg.LoadSkills(cfg.Content.SkillsDir)
	if err != nil {
		return encounter.Content{}, nil, err
	}
	nItems, err := reg.LoadEquipment(cfg.Content.EquipmentDir)
	if err != nil {
		return encounter.Content{}, nil, err
	}
	statuses, err := status.LoadDirectory(cfg.Content.StatusesDir)
	if err != nil {
		return encounter.Content{}, nil, err
	}
	content := encounter.Content{Catalog: reg, Statuses: statuses}

	if cfg.Content.ScriptsDir != "" {
		roller := dice.NewLoggedRoller(battleSource(cfg.Battle.Seed, -1), logger)
		mgr := scripting.NewManager(roller, logger, cfg.Battle.ScriptInstructionLimit)
		n, err := mgr.LoadDirectory(cfg.Content.ScriptsDir)
		if err != nil {
			return encounter.Content{}, nil, err
		}
		logger.Info("scripts loaded", zap.Int("count", n))
		content.Scripts = mgr
	}

	encounters, err := encounter.LoadDirectory(cfg.Content.EncountersDir)
	if err != nil {
		return encounter.Content{}, nil, err
	}
	logger.Info("catalog loaded",
		zap.Int("skills", nSkills),
		zap.Int("equipment", nItems),
		zap.Int("statuses", len(statuses.All())),
		zap.Int("encounters", len(encounters)),
	)
	return content, encounters, nil
}

// battleSource returns crypto randomness for seed 0, otherwise a source seeded
// per run so every run of a simulation is reproducible.
func battleSource(seed int64, run int) dice.Source {
	if seed == 0 {
		return dice.NewCryptoSource()
	}
	return dice.NewSeededSource(seed + int64(run))
}
