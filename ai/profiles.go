package ai

import (
	"math/rand"

	"github.com/milk9111/commandclash/catalog"
)

// pressThreshold is the opponent HP ratio below which the opportunist goes
// for the kill, and the own HP ratio above which it trades blows up close.
const pressThreshold = 0.3

// Aggressive closes distance and then attacks.
type Aggressive struct{}

func (Aggressive) Name() string { return "aggressive" }

func (Aggressive) Choose(s Situation, available []catalog.Command, rng *rand.Rand) (catalog.Command, bool) {
	if s.Distance == catalog.Far {
		if c, ok := byKind(available, catalog.KindAdvance); ok {
			return c, true
		}
	}
	return pick(byCategory(available, catalog.CategoryAttack), rng)
}

// Defensive backs off up close and guards otherwise.
type Defensive struct{}

func (Defensive) Name() string { return "defensive" }

func (Defensive) Choose(s Situation, available []catalog.Command, _ *rand.Rand) (catalog.Command, bool) {
	if s.Distance == catalog.Near {
		if c, ok := byKind(available, catalog.KindRetreat); ok {
			return c, true
		}
	}
	return byKind(available, catalog.KindBlock)
}

// Opportunistic guards at range, attacks up close while healthy and presses
// with its strongest attack when the opponent is nearly down.
type Opportunistic struct{}

func (Opportunistic) Name() string { return "opportunistic" }

func (Opportunistic) Choose(s Situation, available []catalog.Command, rng *rand.Rand) (catalog.Command, bool) {
	attacks := byCategory(available, catalog.CategoryAttack)

	if s.Opponent.MaxHP > 0 && s.Opponent.HPRatio() < pressThreshold {
		if c, ok := strongest(attacks, rng); ok {
			return c, true
		}
	}

	if s.Distance != catalog.Near {
		if c, ok := byKind(available, catalog.KindBlock); ok {
			return c, true
		}
	}

	if s.Distance == catalog.Near && s.Self.HPRatio() > pressThreshold {
		if c, ok := pick(attacks, rng); ok {
			return c, true
		}
	}

	if s.Distance != catalog.Near {
		if c, ok := byKind(available, catalog.KindAdvance); ok {
			return c, true
		}
	}
	return catalog.Command{}, false
}
