package catalog

import (
	"fmt"

	"github.com/milk9111/commandclash/prefabs"
)

// Fighter is the template a battle character is created from.
type Fighter struct {
	ID         string
	Name       string
	MaxHP      int
	MaxMeter   int
	StartMeter int
	Commands   *Catalog
}

func FighterFromSpec(spec prefabs.FighterSpec) (Fighter, error) {
	cat, err := FromSpecs(spec.Commands)
	if err != nil {
		return Fighter{}, fmt.Errorf("fighter %s: %w", spec.ID, err)
	}
	f := Fighter{
		ID:         spec.ID,
		Name:       spec.Name,
		MaxHP:      spec.MaxHP,
		MaxMeter:   spec.MaxMeter,
		StartMeter: spec.StartMeter,
		Commands:   cat,
	}
	if f.MaxHP <= 0 {
		f.MaxHP = 100
	}
	if f.MaxMeter <= 0 {
		f.MaxMeter = 100
	}
	if f.StartMeter < 0 {
		f.StartMeter = 0
	}
	if f.StartMeter > f.MaxMeter {
		f.StartMeter = f.MaxMeter
	}
	return f, nil
}

// LoadFighter reads a fighter spec through prefabs, so a copy on disk
// overrides the embedded one.
func LoadFighter(filename string) (Fighter, error) {
	spec, err := prefabs.LoadFighterSpec(filename)
	if err != nil {
		return Fighter{}, err
	}
	return FighterFromSpec(*spec)
}
