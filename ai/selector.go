package ai

import (
	"log"
	"math/rand"
	"sort"
	"strings"

	"github.com/milk9111/commandclash/catalog"
)

// Vitals is the part of a fighter the AI can see.
type Vitals struct {
	HP       int
	MaxHP    int
	Meter    int
	MaxMeter int
}

// HPRatio returns HP/MaxHP, or 0 when MaxHP is unset.
func (v Vitals) HPRatio() float64 {
	if v.MaxHP <= 0 {
		return 0
	}
	return float64(v.HP) / float64(v.MaxHP)
}

// Situation is the battle as seen from the choosing fighter.
type Situation struct {
	Distance catalog.Distance
	Round    int
	Self     Vitals
	Opponent Vitals
}

// Behavior picks a command out of the commands that are usable right now.
// It reports false when it has no preference, in which case the selector
// falls back to the first available command.
type Behavior interface {
	Name() string
	Choose(s Situation, available []catalog.Command, rng *rand.Rand) (catalog.Command, bool)
}

// Selector maps profile names to behaviors. It owns the random source used
// for tie-breaks so a seeded selector replays the same choices.
type Selector struct {
	rng       *rand.Rand
	behaviors map[string]Behavior
}

// NewSelector returns a selector with the built-in profiles registered. A nil
// rng is replaced by one seeded with 1.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &Selector{rng: rng, behaviors: map[string]Behavior{}}
	s.Register(Aggressive{})
	s.Register(Defensive{})
	s.Register(Opportunistic{})
	return s
}

// Register adds b under its lower-cased name, replacing any previous entry.
func (s *Selector) Register(b Behavior) {
	if s == nil || b == nil {
		return
	}
	s.behaviors[normalizeProfile(b.Name())] = b
}

func (s *Selector) Behavior(profile string) (Behavior, bool) {
	if s == nil {
		return nil, false
	}
	b, ok := s.behaviors[normalizeProfile(profile)]
	return b, ok
}

// Profiles lists the registered profile names in sorted order.
func (s *Selector) Profiles() []string {
	names := make([]string, 0, len(s.behaviors))
	for name := range s.behaviors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the command the named profile plays in situation sit.
// Behaviors only ever see commands usable at the current distance with the
// current meter. When nothing is usable the catalog's first command is
// returned, and an unknown profile plays the first usable command.
func (s *Selector) Select(profile string, sit Situation, cat *catalog.Catalog) catalog.Command {
	available := cat.Usable(sit.Distance, sit.Self.Meter)
	if len(available) == 0 {
		return cat.First()
	}

	b, ok := s.Behavior(profile)
	if !ok {
		log.Printf("ai: unknown profile %q, playing %s", profile, available[0].ID)
		return available[0]
	}

	cmd, ok := b.Choose(sit, available, s.rng)
	if !ok || !contains(available, cmd.ID) {
		return available[0]
	}
	return cmd
}

func normalizeProfile(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func contains(cmds []catalog.Command, id string) bool {
	for _, c := range cmds {
		if c.ID == id {
			return true
		}
	}
	return false
}

func byCategory(cmds []catalog.Command, cats ...catalog.Category) []catalog.Command {
	var out []catalog.Command
	for _, c := range cmds {
		for _, cat := range cats {
			if c.Category() == cat {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func byKind(cmds []catalog.Command, kind catalog.Kind) (catalog.Command, bool) {
	for _, c := range cmds {
		if c.Kind == kind {
			return c, true
		}
	}
	return catalog.Command{}, false
}

func pick(cmds []catalog.Command, rng *rand.Rand) (catalog.Command, bool) {
	if len(cmds) == 0 {
		return catalog.Command{}, false
	}
	return cmds[rng.Intn(len(cmds))], true
}

// strongest returns the highest-damage command; ties are broken randomly.
func strongest(cmds []catalog.Command, rng *rand.Rand) (catalog.Command, bool) {
	var best []catalog.Command
	top := -1
	for _, c := range cmds {
		switch {
		case c.Damage > top:
			top = c.Damage
			best = append(best[:0], c)
		case c.Damage == top:
			best = append(best, c)
		}
	}
	return pick(best, rng)
}
