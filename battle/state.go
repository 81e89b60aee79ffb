package battle

import (
	"time"

	"github.com/milk9111/commandclash/ai"
	"github.com/milk9111/commandclash/catalog"
	"github.com/milk9111/commandclash/combat"
)

type Phase string

const (
	PhaseDecision   Phase = "decision"
	PhaseCommit     Phase = "commit"
	PhaseResolution Phase = "resolution"
	PhaseVictory    Phase = "victory"
	PhaseDefeat     Phase = "defeat"
)

// Terminal reports whether the battle is over.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

type Status string

const (
	StatusPlaying Status = "playing"
	StatusVictory Status = "victory"
	StatusDefeat  Status = "defeat"
)

// StatusEffect is a lingering condition on a character.
type StatusEffect string

// Staggered fighters lose one priority tier on their next command unless it
// can interrupt.
const Staggered StatusEffect = "staggered"

type Character struct {
	ID       string
	Name     string
	MaxHP    int
	HP       int
	MaxMeter int
	Meter    int
	Commands []catalog.Command
	// Behavior is the AI profile; empty for the player.
	Behavior string
	Statuses []StatusEffect
}

func (c Character) Vitals() ai.Vitals {
	return ai.Vitals{HP: c.HP, MaxHP: c.MaxHP, Meter: c.Meter, MaxMeter: c.MaxMeter}
}

func (c Character) Has(s StatusEffect) bool {
	for _, have := range c.Statuses {
		if have == s {
			return true
		}
	}
	return false
}

func (c *Character) addStatus(s StatusEffect) {
	if !c.Has(s) {
		c.Statuses = append(c.Statuses, s)
	}
}

func (c *Character) removeStatus(s StatusEffect) {
	out := c.Statuses[:0]
	for _, have := range c.Statuses {
		if have != s {
			out = append(out, have)
		}
	}
	c.Statuses = out
}

// applyDamage subtracts dmg and clamps HP to [0, MaxHP].
func (c *Character) applyDamage(dmg int) {
	c.HP = clamp(c.HP-max(dmg, 0), 0, c.MaxHP)
}

func (c *Character) heal(hp int) {
	c.HP = clamp(c.HP+max(hp, 0), 0, c.MaxHP)
}

// addMeter adds delta, which may be negative, and clamps to [0, MaxMeter].
func (c *Character) addMeter(delta int) {
	c.Meter = clamp(c.Meter+delta, 0, c.MaxMeter)
}

func (c Character) clone() Character {
	c.Commands = catalog.CloneCommands(c.Commands)
	c.Statuses = append([]StatusEffect(nil), c.Statuses...)
	return c
}

// BattleState is an immutable-by-convention view of a battle. The
// orchestrator replaces it wholesale on every transition.
type BattleState struct {
	Round    int
	Distance catalog.Distance
	Player   Character
	Enemy    Character

	// Previewed is the command the player is hovering during decision.
	Previewed     string
	PendingPlayer string
	PendingEnemy  string

	Phase         Phase
	TimeRemaining time.Duration
	Log           []string
	Status        Status

	EnemyIndex int
	EnemyCount int
	Last       *combat.Outcome
}

// Clone returns a deep copy.
func (s BattleState) Clone() BattleState {
	s.Player = s.Player.clone()
	s.Enemy = s.Enemy.clone()
	s.Log = append([]string(nil), s.Log...)
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
