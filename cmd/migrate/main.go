// Package main applies, rolls back or reports the battle_reports schema
// migrations against the database named in the skirmish config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// schema is the subset of *migrate.Migrate the runner drives.
type schema interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
}

// state is the schema version after a command.
type state struct {
	Version uint
	Dirty   bool
	Changed bool
}

// apply runs command ("up", "down" or "status") against s. steps > 0 limits
// up and down to that many migrations.
//
// Postcondition: A command with nothing to do is not an error; Changed is false.
func apply(s schema, command string, steps int) (state, error) {
	var err error
	switch command {
	case "up":
		if steps > 0 {
			err = s.Steps(steps)
		} else {
			err = s.Up()
		}
	case "down":
		if steps > 0 {
			err = s.Steps(-steps)
		} else {
			err = s.Down()
		}
	case "status":
		err = migrate.ErrNoChange
	default:
		return state{}, fmt.Errorf("unknown command %q: must be up, down or status", command)
	}
	changed := err == nil
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return state{}, fmt.Errorf("migrating %s: %w", command, err)
	}

	version, dirty, err := s.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return state{}, fmt.Errorf("reading schema version: %w", err)
	}
	return state{Version: version, Dirty: dirty, Changed: changed}, nil
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	command := flag.String("direction", "up", "up, down, or status to only report the schema version")
	steps := flag.Int("steps", 0, "number of migrations to apply or roll back (0 = all)")
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	m, err := migrate.New(*source, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("creating migrator", zap.String("source", *source), zap.Error(err))
	}
	defer m.Close()

	st, err := apply(m, *command, *steps)
	if err != nil {
		logger.Fatal("battle_reports migration failed", zap.Error(err))
	}
	logger.Info("battle_reports schema",
		zap.String("direction", *command),
		zap.Bool("changed", st.Changed),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
		zap.Duration("elapsed", time.Since(start)),
	)
}
