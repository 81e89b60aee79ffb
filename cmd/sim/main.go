// Command sim plays battles headlessly with an AI profile in the player's
// seat and reports how often it wins.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/milk9111/commandclash/ai"
	"github.com/milk9111/commandclash/battle"
	"github.com/milk9111/commandclash/prefabs"
)

const (
	tick      = 10 * time.Millisecond
	maxRounds = 500
)

type result struct {
	status   battle.Status
	rounds   int
	defeated int
	hpLeft   int
}

func main() {
	battles := flag.Int("battles", 100, "number of battles to play")
	seed := flag.Int64("seed", 0, "first battle seed (0 keeps the configured seed)")
	profile := flag.String("profile", "opportunistic", "AI profile playing the player's side")
	single := flag.Bool("single", false, "fight only the first enemy instead of the gauntlet")
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory whose specs override the embedded ones")
	verbose := flag.Bool("v", false, "print every battle log")
	flag.Parse()

	prefabs.Dir = *prefabDir

	cfg, err := battle.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *single {
		cfg.Gauntlet = false
	}

	if sel := ai.NewSelector(nil); !hasProfile(sel, *profile) {
		log.Fatalf("sim: unknown profile %q (have %v)", *profile, sel.Profiles())
	}

	var wins, losses, stalled, totalRounds, defeated, hpLeft int
	first := cfg.Seed
	for i := 0; i < *battles; i++ {
		cfg.Seed = first + int64(i)
		res, logLines, err := play(cfg, *profile)
		if err != nil {
			log.Fatalf("sim: battle %d: %v", i, err)
		}
		if *verbose {
			for _, line := range logLines {
				fmt.Println(line)
			}
			fmt.Println()
		}
		totalRounds += res.rounds
		defeated += res.defeated
		if res.status == battle.StatusVictory {
			hpLeft += res.hpLeft
		}
		switch res.status {
		case battle.StatusVictory:
			wins++
		case battle.StatusDefeat:
			losses++
		default:
			stalled++
		}
	}

	fmt.Printf("profile %s vs %d enemies, %d battles from seed %d\n", *profile, len(cfg.Enemies), *battles, first)
	fmt.Printf("  victories %d  defeats %d  stalled %d\n", wins, losses, stalled)
	if *battles > 0 {
		fmt.Printf("  win rate %.1f%%  avg rounds %.1f  avg enemies defeated %.2f\n",
			100*float64(wins)/float64(*battles), float64(totalRounds)/float64(*battles), float64(defeated)/float64(*battles))
	}
	if wins > 0 {
		fmt.Printf("  avg hp left on victory %.1f\n", float64(hpLeft)/float64(wins))
	}
}

func hasProfile(sel *ai.Selector, profile string) bool {
	_, ok := sel.Behavior(profile)
	return ok
}

// play runs one battle to completion, choosing the player's command with
// profile each decision phase. The player's selector is seeded from
// cfg.Seed, so a battle replays from its seed alone.
func play(cfg battle.Config, profile string) (result, []string, error) {
	sel := ai.NewSelector(rand.New(rand.NewSource(cfg.Seed)))
	o, err := battle.New(cfg, battle.WithLogf(nil))
	if err != nil {
		return result{}, nil, err
	}
	defer o.Stop()

	var res result
	for res.rounds < maxRounds {
		s := o.Snapshot()
		if s.Phase.Terminal() {
			break
		}
		if s.Phase == battle.PhaseDecision {
			sit := ai.Situation{
				Distance: s.Distance,
				Round:    s.Round,
				Self:     s.Player.Vitals(),
				Opponent: s.Enemy.Vitals(),
			}
			cmd := sel.Select(profile, sit, cfg.Player.Commands)
			if err := o.Select(cmd.ID); err != nil {
				return res, s.Log, err
			}
			res.rounds++
		}
		o.Advance(tick)
	}

	s := o.Snapshot()
	res.status = s.Status
	res.defeated = s.EnemyIndex
	if s.Status == battle.StatusVictory {
		res.defeated = s.EnemyCount
	}
	res.hpLeft = s.Player.HP
	return res, s.Log, nil
}
