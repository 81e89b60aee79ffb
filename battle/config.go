package battle

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/milk9111/commandclash/catalog"
	"github.com/milk9111/commandclash/combat"
	"github.com/milk9111/commandclash/prefabs"
)

type EnemyConfig struct {
	Fighter  catalog.Fighter
	Name     string
	MaxHP    int
	Behavior string
	// Script is a tengo script path; when set the enemy plays a scripted
	// profile named Behavior.
	Script string
}

type Recovery struct {
	HP    int
	Meter int
}

type Config struct {
	DecisionTime    time.Duration
	RevealDelay     time.Duration
	ResolutionDelay time.Duration
	StartDistance   catalog.Distance
	// Gauntlet fights every enemy in order; otherwise only the first.
	Gauntlet        bool
	MeterFromDamage float64
	Player          catalog.Fighter
	Enemies         []EnemyConfig
	Recovery        Recovery
	Rules           combat.Rules
	Seed            int64
}

// Overrides are environment settings applied on top of battle.yaml.
type Overrides struct {
	Seed            int64   `env:"COMMANDCLASH_SEED"`
	DecisionSeconds float64 `env:"COMMANDCLASH_DECISION_SECONDS"`
	Gauntlet        bool    `env:"COMMANDCLASH_GAUNTLET"`
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func ConfigFromSpec(spec *prefabs.BattleSpec) (Config, error) {
	if spec == nil {
		return Config{}, fmt.Errorf("battle: nil spec")
	}
	cfg := Config{
		DecisionTime:    seconds(spec.DecisionSeconds),
		RevealDelay:     seconds(spec.RevealSeconds),
		ResolutionDelay: seconds(spec.ResolutionSeconds),
		StartDistance:   catalog.Mid,
		Gauntlet:        spec.Gauntlet,
		MeterFromDamage: spec.MeterFromDamage,
		Recovery:        Recovery{HP: spec.Recovery.HP, Meter: spec.Recovery.Meter},
		Seed:            1,
	}
	if strings.TrimSpace(spec.StartDistance) != "" {
		d, err := catalog.ParseDistance(spec.StartDistance)
		if err != nil {
			return Config{}, fmt.Errorf("battle: start distance: %w", err)
		}
		cfg.StartDistance = d
	}

	rules, err := combat.RulesFromSpec(spec.Rules)
	if err != nil {
		return Config{}, err
	}
	cfg.Rules = rules

	if spec.Player == "" {
		return Config{}, fmt.Errorf("battle: no player fighter")
	}
	cfg.Player, err = catalog.LoadFighter(spec.Player)
	if err != nil {
		return Config{}, fmt.Errorf("battle: player: %w", err)
	}

	fighters := map[string]catalog.Fighter{}
	for i, es := range spec.Enemies {
		f, ok := fighters[es.Fighter]
		if !ok {
			f, err = catalog.LoadFighter(es.Fighter)
			if err != nil {
				return Config{}, fmt.Errorf("battle: enemy %d: %w", i, err)
			}
			fighters[es.Fighter] = f
		}
		ec := EnemyConfig{
			Fighter:  f,
			Name:     es.Name,
			MaxHP:    es.MaxHP,
			Behavior: es.Behavior,
			Script:   es.Script,
		}
		if ec.Script != "" && ec.Behavior == "" {
			ec.Behavior = strings.TrimSuffix(filepath.Base(ec.Script), filepath.Ext(ec.Script))
		}
		cfg.Enemies = append(cfg.Enemies, ec)
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings the orchestrator depends on.
func (c Config) Validate() error {
	if c.DecisionTime <= 0 {
		return fmt.Errorf("battle: decision time must be positive, got %s", c.DecisionTime)
	}
	if c.RevealDelay < 0 || c.ResolutionDelay < 0 {
		return fmt.Errorf("battle: negative delay")
	}
	if !c.StartDistance.Valid() {
		return fmt.Errorf("battle: invalid start distance %d", c.StartDistance)
	}
	if c.MeterFromDamage < 0 {
		return fmt.Errorf("battle: negative meter_from_damage")
	}
	if c.Player.Commands == nil || c.Player.Commands.Len() == 0 {
		return fmt.Errorf("battle: player has no commands")
	}
	if len(c.Enemies) == 0 {
		return fmt.Errorf("battle: no enemies")
	}
	for i, e := range c.Enemies {
		if e.Fighter.Commands == nil || e.Fighter.Commands.Len() == 0 {
			return fmt.Errorf("battle: enemy %d has no commands", i)
		}
	}
	return nil
}

// ApplyOverrides layers environment variables over cfg. Unset variables
// leave cfg untouched.
func (c Config) ApplyOverrides() (Config, error) {
	o := Overrides{
		Seed:            c.Seed,
		DecisionSeconds: c.DecisionTime.Seconds(),
		Gauntlet:        c.Gauntlet,
	}
	if err := env.Parse(&o); err != nil {
		return c, fmt.Errorf("battle: parse env: %w", err)
	}
	c.Seed = o.Seed
	c.Gauntlet = o.Gauntlet
	if o.DecisionSeconds > 0 {
		c.DecisionTime = seconds(o.DecisionSeconds)
	}
	return c, nil
}

// LoadConfig reads battle.yaml and applies environment overrides.
func LoadConfig() (Config, error) {
	spec, err := prefabs.LoadBattleSpec()
	if err != nil {
		return Config{}, err
	}
	cfg, err := ConfigFromSpec(spec)
	if err != nil {
		return Config{}, err
	}
	return cfg.ApplyOverrides()
}
