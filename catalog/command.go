package catalog

import (
	"fmt"
	"strings"
)

// Distance is the discrete gap between the two fighters.
type Distance int

const (
	Near Distance = iota
	Mid
	Far
)

var distanceNames = [...]string{"near", "mid", "far"}

// Distances lists every distance from closest to farthest.
var Distances = []Distance{Near, Mid, Far}

func (d Distance) String() string {
	if d < Near || d > Far {
		return fmt.Sprintf("distance(%d)", int(d))
	}
	return distanceNames[d]
}

func (d Distance) Valid() bool {
	return d >= Near && d <= Far
}

// Closer returns the distance one step in, saturating at Near.
func (d Distance) Closer() Distance {
	if d <= Near {
		return Near
	}
	return d - 1
}

// Farther returns the distance one step out, saturating at Far.
func (d Distance) Farther() Distance {
	if d >= Far {
		return Far
	}
	return d + 1
}

func ParseDistance(s string) (Distance, error) {
	for i, name := range distanceNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Distance(i), nil
		}
	}
	return Mid, fmt.Errorf("catalog: unknown distance %q", s)
}

// DistanceSet is a bit set of distances.
type DistanceSet uint8

func NewDistanceSet(ds ...Distance) DistanceSet {
	var set DistanceSet
	for _, d := range ds {
		if d.Valid() {
			set |= 1 << uint(d)
		}
	}
	return set
}

// AllDistances contains near, mid and far.
var AllDistances = NewDistanceSet(Near, Mid, Far)

func (s DistanceSet) Has(d Distance) bool {
	return d.Valid() && s&(1<<uint(d)) != 0
}

func (s DistanceSet) Slice() []Distance {
	out := make([]Distance, 0, 3)
	for _, d := range Distances {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Kind is the declared type of a command.
type Kind int

const (
	KindUnknown Kind = iota
	KindLightAttack
	KindHeavyAttack
	KindThrow
	KindBlock
	KindJump
	KindCrouch
	KindAdvance
	KindRetreat
	KindSpecial
)

var kindNames = map[Kind]string{
	KindLightAttack: "light_attack",
	KindHeavyAttack: "heavy_attack",
	KindThrow:       "throw",
	KindBlock:       "block",
	KindJump:        "jump",
	KindCrouch:      "crouch",
	KindAdvance:     "advance",
	KindRetreat:     "retreat",
	KindSpecial:     "special",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind never fails; unrecognised names become KindUnknown, which the
// resolver treats as a neutral action.
func ParseKind(s string) Kind {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

// Category is the coarse class used by the dominance table.
type Category int

const (
	CategoryNone Category = iota
	CategoryAttack
	CategoryThrow
	CategoryBlock
	CategoryJump
	CategoryCrouch
	CategoryMove
)

var categoryNames = map[Category]string{
	CategoryNone:   "none",
	CategoryAttack: "attack",
	CategoryThrow:  "throw",
	CategoryBlock:  "block",
	CategoryJump:   "jump",
	CategoryCrouch: "crouch",
	CategoryMove:   "move",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "none"
}

func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if name == s && c != CategoryNone {
			return c, nil
		}
	}
	return CategoryNone, fmt.Errorf("catalog: unknown category %q", s)
}

func (k Kind) Category() Category {
	switch k {
	case KindLightAttack, KindHeavyAttack, KindSpecial:
		return CategoryAttack
	case KindThrow:
		return CategoryThrow
	case KindBlock:
		return CategoryBlock
	case KindJump:
		return CategoryJump
	case KindCrouch:
		return CategoryCrouch
	case KindAdvance, KindRetreat:
		return CategoryMove
	default:
		return CategoryNone
	}
}

// Height is where an attack connects. Jumps clear low attacks and crouches
// duck high ones.
type Height int

const (
	HeightMid Height = iota
	HeightHigh
	HeightLow
)

func (h Height) String() string {
	switch h {
	case HeightHigh:
		return "high"
	case HeightLow:
		return "low"
	default:
		return "mid"
	}
}

func ParseHeight(s string) (Height, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mid":
		return HeightMid, nil
	case "high":
		return HeightHigh, nil
	case "low":
		return HeightLow, nil
	}
	return HeightMid, fmt.Errorf("catalog: unknown height %q", s)
}

// Effect is a status effect tag carried by a command.
type Effect string

const (
	// EffectStaggerOnBlock staggers the attacker when the hit is blocked.
	EffectStaggerOnBlock Effect = "stagger_on_block"
)

// Command is an immutable action definition.
type Command struct {
	ID           string
	Name         string
	Description  string
	Kind         Kind
	Damage       int
	MeterCost    int
	MeterGain    int
	Distances    DistanceSet
	Priority     int
	CanInterrupt bool
	Height       Height
	Effects      []Effect
}

func (c Command) Category() Category {
	return c.Kind.Category()
}

// EffectiveAt reports whether the command can connect at d.
func (c Command) EffectiveAt(d Distance) bool {
	return c.Distances.Has(d)
}

// Affordable reports whether meter covers the command's cost.
func (c Command) Affordable(meter int) bool {
	return c.MeterCost <= meter
}

// AlwaysLegal reports whether the command is usable at every distance with
// an empty meter.
func (c Command) AlwaysLegal() bool {
	return c.MeterCost <= 0 && c.Distances == AllDistances
}

func (c Command) IsOffensive() bool {
	cat := c.Category()
	return cat == CategoryAttack || cat == CategoryThrow
}

func (c Command) IsMovement() bool {
	return c.Category() == CategoryMove
}

func (c Command) HasEffect(e Effect) bool {
	for _, have := range c.Effects {
		if have == e {
			return true
		}
	}
	return false
}

// Clone returns c with its own copy of Effects.
func (c Command) Clone() Command {
	if c.Effects != nil {
		c.Effects = append([]Effect(nil), c.Effects...)
	}
	return c
}

// CloneCommands deep-copies cmds.
func CloneCommands(cmds []Command) []Command {
	if cmds == nil {
		return nil
	}
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		out[i] = c.Clone()
	}
	return out
}

func (c Command) String() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
