package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type CommandSpec struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Kind         string   `yaml:"kind"`
	Description  string   `yaml:"description"`
	Damage       int      `yaml:"damage"`
	MeterCost    int      `yaml:"meter_cost"`
	MeterGain    int      `yaml:"meter_gain"`
	Distances    []string `yaml:"distances"`
	Priority     int      `yaml:"priority"`
	CanInterrupt bool     `yaml:"can_interrupt"`
	Height       string   `yaml:"height"`
	Effects      []string `yaml:"effects"`
}

type FighterSpec struct {
	ID         string        `yaml:"id"`
	Name       string        `yaml:"name"`
	MaxHP      int           `yaml:"max_hp"`
	MaxMeter   int           `yaml:"max_meter"`
	StartMeter int           `yaml:"start_meter"`
	Commands   []CommandSpec `yaml:"commands"`
}

func LoadFighterSpec(filename string) (*FighterSpec, error) {
	spec, err := LoadSpec[FighterSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SequenceSpec struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Inputs   []string `yaml:"inputs"`
	WindowMS int      `yaml:"window_ms"`
	Command  string   `yaml:"command"`
}

type CombosSpec struct {
	MaxAgeMS  int               `yaml:"max_age_ms"`
	Bindings  map[string]string `yaml:"bindings"`
	SingleKey map[string]string `yaml:"single_key"`
	Sequences []SequenceSpec    `yaml:"sequences"`
}

func LoadCombosSpec() (*CombosSpec, error) {
	data, err := Load("combos.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load combos.yaml: %w", err)
	}
	var spec CombosSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal combos.yaml: %w", err)
	}
	return &spec, nil
}

type DominanceSpec struct {
	Winner  string   `yaml:"winner"`
	Loser   string   `yaml:"loser"`
	Heights []string `yaml:"heights"`
}

type RulesSpec struct {
	Advantage          float64         `yaml:"advantage"`
	Trade              float64         `yaml:"trade"`
	BlockReduction     float64         `yaml:"block_reduction"`
	Graze              float64         `yaml:"graze"`
	KnockbackThreshold int             `yaml:"knockback_threshold"`
	Dominance          []DominanceSpec `yaml:"dominance"`
}

type EnemySpec struct {
	Fighter  string `yaml:"fighter"`
	Name     string `yaml:"name"`
	MaxHP    int    `yaml:"max_hp"`
	Behavior string `yaml:"behavior"`
	Script   string `yaml:"script"`
}

type RecoverySpec struct {
	HP    int `yaml:"hp"`
	Meter int `yaml:"meter"`
}

type BattleSpec struct {
	DecisionSeconds   float64      `yaml:"decision_seconds"`
	RevealSeconds     float64      `yaml:"reveal_seconds"`
	ResolutionSeconds float64      `yaml:"resolution_seconds"`
	StartDistance     string       `yaml:"start_distance"`
	Gauntlet          bool         `yaml:"gauntlet"`
	MeterFromDamage   float64      `yaml:"meter_from_damage"`
	Player            string       `yaml:"player"`
	Enemies           []EnemySpec  `yaml:"enemies"`
	Recovery          RecoverySpec `yaml:"recovery"`
	Rules             RulesSpec    `yaml:"rules"`
}

func LoadBattleSpec() (*BattleSpec, error) {
	data, err := Load("battle.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load battle.yaml: %w", err)
	}
	var spec BattleSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal battle.yaml: %w", err)
	}
	return &spec, nil
}

type ChoiceSpec struct {
	Text        string `yaml:"text"`
	Description string `yaml:"description"`
}

type CardSpec struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Type         string       `yaml:"type"`
	Description  string       `yaml:"description"`
	Illustration string       `yaml:"illustration"`
	Choices      []ChoiceSpec `yaml:"choices"`
}

type CardPackSpec struct {
	Name  string     `yaml:"name"`
	Cards []CardSpec `yaml:"cards"`
}

type CardsSpec struct {
	Packs []CardPackSpec `yaml:"packs"`
}

func LoadCardsSpec() (*CardsSpec, error) {
	data, err := Load("cards.yaml")
	if err != nil {
		return nil, fmt.Errorf("prefabs: load cards.yaml: %w", err)
	}
	var spec CardsSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal cards.yaml: %w", err)
	}
	return &spec, nil
}
