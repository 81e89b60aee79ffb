package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/commandclash/battle"
	"github.com/milk9111/commandclash/prefabs"
)

func main() {
	seed := flag.Int64("seed", 0, "random seed (0 keeps battle.yaml / COMMANDCLASH_SEED)")
	single := flag.Bool("single", false, "fight only the first enemy instead of the gauntlet")
	decision := flag.Duration("decision", 0, "decision time per round (0 keeps the configured value)")
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory whose specs override the embedded ones")
	watch := flag.Bool("watch", false, "reload specs and scripts from -prefabs when they change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	prefabs.Dir = *prefabDir

	flags := flagOverrides{seed: *seed, single: *single, decision: *decision}
	cfg, err := flags.load()
	if err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("commandclash")

	game, err := NewGame(cfg, flags, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// flagOverrides are the command-line settings layered over the loaded
// config. They are kept so spec reloads do not drop them.
type flagOverrides struct {
	seed     int64
	single   bool
	decision time.Duration
}

func (f flagOverrides) apply(cfg battle.Config) battle.Config {
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	if f.single {
		cfg.Gauntlet = false
	}
	if f.decision > 0 {
		cfg.DecisionTime = f.decision
	}
	return cfg
}

// load reads the battle config with environment and flag overrides.
func (f flagOverrides) load() (battle.Config, error) {
	cfg, err := battle.LoadConfig()
	if err != nil {
		return battle.Config{}, err
	}
	return f.apply(cfg), nil
}
