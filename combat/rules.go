package combat

import (
	"fmt"

	"github.com/milk9111/commandclash/catalog"
	"github.com/milk9111/commandclash/prefabs"
)

// Dominance says Winner beats Loser. When Heights is non-empty the rule only
// applies if the losing command connects at one of those heights.
type Dominance struct {
	Winner  catalog.Category
	Loser   catalog.Category
	Heights []catalog.Height
}

func (d Dominance) applies(winner, loser catalog.Command) bool {
	if winner.Category() != d.Winner || loser.Category() != d.Loser {
		return false
	}
	if len(d.Heights) == 0 {
		return true
	}
	for _, h := range d.Heights {
		if loser.Height == h {
			return true
		}
	}
	return false
}

// Rules parameterizes the resolver.
type Rules struct {
	// Advantage scales the winner's damage when an offensive action dominates.
	Advantage float64
	// Trade scales both sides' damage on an even exchange.
	Trade float64
	// BlockReduction scales chip damage dealt into a successful block.
	BlockReduction float64
	// Graze scales an attack that meets an evade of the wrong height.
	Graze float64
	// KnockbackThreshold is the landed heavy-attack damage that pushes the
	// fighters one step apart.
	KnockbackThreshold int
	Dominance          []Dominance
}

func DefaultRules() Rules {
	return Rules{
		Advantage:          1.3,
		Trade:              0.7,
		BlockReduction:     0.3,
		Graze:              0.5,
		KnockbackThreshold: 20,
		Dominance: []Dominance{
			{Winner: catalog.CategoryThrow, Loser: catalog.CategoryBlock},
			{Winner: catalog.CategoryAttack, Loser: catalog.CategoryThrow},
			{Winner: catalog.CategoryBlock, Loser: catalog.CategoryAttack},
			{Winner: catalog.CategoryJump, Loser: catalog.CategoryThrow},
			{Winner: catalog.CategoryCrouch, Loser: catalog.CategoryThrow},
			{Winner: catalog.CategoryJump, Loser: catalog.CategoryAttack, Heights: []catalog.Height{catalog.HeightLow}},
			{Winner: catalog.CategoryCrouch, Loser: catalog.CategoryAttack, Heights: []catalog.Height{catalog.HeightHigh}},
		},
	}
}

// RulesFromSpec fills zero fields from DefaultRules. An empty dominance list
// keeps the default table.
func RulesFromSpec(spec prefabs.RulesSpec) (Rules, error) {
	r := DefaultRules()
	if spec.Advantage > 0 {
		r.Advantage = spec.Advantage
	}
	if spec.Trade > 0 {
		r.Trade = spec.Trade
	}
	if spec.BlockReduction > 0 {
		r.BlockReduction = spec.BlockReduction
	}
	if spec.Graze > 0 {
		r.Graze = spec.Graze
	}
	if spec.KnockbackThreshold > 0 {
		r.KnockbackThreshold = spec.KnockbackThreshold
	}
	if len(spec.Dominance) == 0 {
		return r, nil
	}

	table := make([]Dominance, 0, len(spec.Dominance))
	for _, raw := range spec.Dominance {
		w, err := catalog.ParseCategory(raw.Winner)
		if err != nil {
			return Rules{}, fmt.Errorf("combat: dominance winner: %w", err)
		}
		l, err := catalog.ParseCategory(raw.Loser)
		if err != nil {
			return Rules{}, fmt.Errorf("combat: dominance loser: %w", err)
		}
		if w == l {
			return Rules{}, fmt.Errorf("combat: category %s cannot dominate itself", w)
		}
		d := Dominance{Winner: w, Loser: l}
		for _, hs := range raw.Heights {
			h, err := catalog.ParseHeight(hs)
			if err != nil {
				return Rules{}, fmt.Errorf("combat: dominance heights: %w", err)
			}
			d.Heights = append(d.Heights, h)
		}
		table = append(table, d)
	}
	r.Dominance = table
	return r, nil
}
