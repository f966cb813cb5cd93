// Package main provides the batch combat simulator binary: it loads unit and
// trait content, builds the configured rosters, and runs seeded battles.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/config"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/combat"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/rng"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/trait"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	unitsDir := flag.String("units-dir", "", "override for the unit template YAML directory")
	traitsDir := flag.String("traits-dir", "", "override for the trait definition YAML directory")
	seed := flag.Uint64("seed", 1, "base seed; battle i runs with seed+i")
	battles := flag.Int("battles", 1, "number of battles to simulate")
	realtime := flag.Bool("realtime", false, "run battles on the wall-clock ticker instead of synchronously")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *unitsDir != "" {
		cfg.Content.UnitsDir = *unitsDir
	}
	if *traitsDir != "" {
		cfg.Content.TraitsDir = *traitsDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting simulator",
		zap.Uint64("seed", *seed),
		zap.Int("battles", *battles),
		zap.Bool("realtime", *realtime),
	)

	// Load content
	contentStart := time.Now()
	templates, err := unit.LoadTemplates(cfg.Content.UnitsDir)
	if err != nil {
		logger.Fatal("loading unit templates", zap.Error(err))
	}
	registry, err := unit.NewRegistry(templates)
	if err != nil {
		logger.Fatal("indexing unit templates", zap.Error(err))
	}
	defs, err := trait.LoadDefinitions(cfg.Content.TraitsDir)
	if err != nil {
		logger.Fatal("loading trait definitions", zap.Error(err))
	}
	traitRegistry, err := trait.NewRegistry(defs)
	if err != nil {
		logger.Fatal("indexing trait definitions", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("units", registry.Count()),
		zap.Int("traits", traitRegistry.Count()),
		zap.Duration("duration", time.Since(contentStart)),
	)

	bounds := combat.Bounds{Width: cfg.Board.Width, Height: cfg.Board.Height}
	engineCfg := combat.Config{
		Bounds:       bounds,
		TickInterval: time.Duration(cfg.Combat.TickMs) * time.Millisecond,
		MaxTicks:     cfg.Combat.MaxTicks,
		DisableCrits: cfg.Combat.DisableCrits,
	}
	resolver := trait.NewResolver(traitRegistry)

	var allyWins, enemyWins, draws, totalTicks int
	for i := 0; i < *battles; i++ {
		allies, err := buildRoster(registry, cfg.Roster.Allies, unit.SideAlly, bounds)
		if err != nil {
			logger.Fatal("building ally roster", zap.Error(err))
		}
		enemies, err := buildRoster(registry, cfg.Roster.Enemies, unit.SideEnemy, bounds)
		if err != nil {
			logger.Fatal("building enemy roster", zap.Error(err))
		}

		res, err := runBattle(engineCfg, resolver, logger, *seed+uint64(i), allies, enemies, *realtime)
		if err != nil {
			logger.Fatal("running battle", zap.Error(err))
		}

		switch res.Verdict {
		case combat.VerdictAllies:
			allyWins++
		case combat.VerdictEnemies:
			enemyWins++
		default:
			draws++
		}
		totalTicks += res.TotalTicks

		logger.Info("battle finished",
			zap.Int("battle", i+1),
			zap.String("verdict", res.Verdict.String()),
			zap.Int("ticks", res.TotalTicks),
			zap.Int("damage_to_loser", res.DamageToLoser),
			zap.Int("surviving_allies", len(res.SurvivingAllies)),
			zap.Int("surviving_enemies", len(res.SurvivingEnemies)),
		)
	}

	logger.Info("simulation complete",
		zap.Int("battles", *battles),
		zap.Int("ally_wins", allyWins),
		zap.Int("enemy_wins", enemyWins),
		zap.Int("draws", draws),
		zap.Float64("ally_winrate", float64(allyWins)/float64(*battles)),
		zap.Float64("avg_ticks", float64(totalTicks)/float64(*battles)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// buildRoster instantiates 1-star combatants for the named templates with the
// default placement: allies fill rows from the bottom edge, enemies mirror
// them from the top edge.
func buildRoster(registry *unit.Registry, ids []string, side unit.Side, bounds combat.Bounds) ([]*unit.Combatant, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("roster for side %s is empty; set roster.allies and roster.enemies in the config", side)
	}
	roster := make([]*unit.Combatant, 0, len(ids))
	for i, id := range ids {
		tmpl, err := registry.Get(id)
		if err != nil {
			return nil, err
		}
		c, err := unit.NewCombatant(tmpl, 1, side)
		if err != nil {
			return nil, err
		}
		x := i % bounds.Width
		y := i / bounds.Width
		if y >= bounds.Height {
			return nil, fmt.Errorf("roster for side %s does not fit a %dx%d board", side, bounds.Width, bounds.Height)
		}
		if side == unit.SideEnemy {
			x = bounds.Width - 1 - x
			y = bounds.Height - 1 - y
		}
		c.PlaceAt(x, y)
		roster = append(roster, c)
	}
	return roster, nil
}

// runBattle drives one battle to completion with a per-battle seeded source.
func runBattle(
	cfg combat.Config,
	resolver *trait.Resolver,
	logger *zap.Logger,
	seed uint64,
	allies, enemies []*unit.Combatant,
	realtime bool,
) (*combat.Result, error) {
	eng, err := combat.New(cfg, rng.NewSeededSource(seed), resolver)
	if err != nil {
		return nil, err
	}
	eng.SetLogger(logger)

	if err := eng.Start(allies, enemies); err != nil {
		return nil, err
	}
	if !realtime {
		return eng.RunSync()
	}

	done, err := eng.RunRealTime()
	if err != nil {
		return nil, err
	}
	return <-done, nil
}
