package battle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/commandclash/catalog"
	"github.com/milk9111/commandclash/combat"
	"github.com/milk9111/commandclash/prefabs"
)

func TestEmbeddedBattleConfig(t *testing.T) {
	cfg := embeddedConfig(t)

	assert.Equal(t, 5*time.Second, cfg.DecisionTime)
	assert.Equal(t, time.Second, cfg.RevealDelay)
	assert.Equal(t, catalog.Mid, cfg.StartDistance)
	assert.True(t, cfg.Gauntlet)
	assert.Equal(t, Recovery{HP: 20, Meter: 30}, cfg.Recovery)
	assert.Equal(t, combat.DefaultRules(), cfg.Rules)

	require.Len(t, cfg.Enemies, 3)
	want := []struct {
		name     string
		hp       int
		behavior string
	}{
		{"Brawler", 100, "aggressive"},
		{"Fortress", 120, "defensive"},
		{"Rival", 150, "opportunistic"},
	}
	for i, w := range want {
		assert.Equal(t, w.name, cfg.Enemies[i].Name)
		assert.Equal(t, w.hp, cfg.Enemies[i].MaxHP)
		assert.Equal(t, w.behavior, cfg.Enemies[i].Behavior)
	}
}

func TestConfigFromSpecErrors(t *testing.T) {
	base := func() *prefabs.BattleSpec {
		spec, err := prefabs.LoadBattleSpec()
		require.NoError(t, err)
		return spec
	}

	cases := []struct {
		name   string
		mutate func(*prefabs.BattleSpec)
	}{
		{"no_decision_time", func(s *prefabs.BattleSpec) { s.DecisionSeconds = 0 }},
		{"bad_distance", func(s *prefabs.BattleSpec) { s.StartDistance = "orbit" }},
		{"no_player", func(s *prefabs.BattleSpec) { s.Player = "" }},
		{"missing_fighter", func(s *prefabs.BattleSpec) { s.Enemies[0].Fighter = "ghost.yaml" }},
		{"no_enemies", func(s *prefabs.BattleSpec) { s.Enemies = nil }},
		{"bad_rules", func(s *prefabs.BattleSpec) {
			s.Rules.Dominance = []prefabs.DominanceSpec{{Winner: "block", Loser: "block"}}
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec := base()
			c.mutate(spec)
			if _, err := ConfigFromSpec(spec); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := embeddedConfig(t)

	same, err := cfg.ApplyOverrides()
	require.NoError(t, err)
	assert.Equal(t, cfg.Seed, same.Seed)
	assert.Equal(t, cfg.DecisionTime, same.DecisionTime)

	t.Setenv("COMMANDCLASH_SEED", "99")
	t.Setenv("COMMANDCLASH_DECISION_SECONDS", "2.5")
	t.Setenv("COMMANDCLASH_GAUNTLET", "false")

	got, err := cfg.ApplyOverrides()
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Seed)
	assert.Equal(t, 2500*time.Millisecond, got.DecisionTime)
	assert.False(t, got.Gauntlet)

	t.Setenv("COMMANDCLASH_SEED", "lots")
	_, err = cfg.ApplyOverrides()
	assert.Error(t, err)
}

func TestScriptedEnemyProfile(t *testing.T) {
	cfg := embeddedConfig(t)
	cfg.Enemies[0].Script = "duelist"
	cfg.Enemies[0].Behavior = "duelist"

	o := newOrchestrator(t, cfg)
	require.NoError(t, o.ReloadScripts())

	require.NoError(t, o.Select("block"))
	pending := o.Snapshot().PendingEnemy
	cmd, ok := cfg.Enemies[0].Fighter.Commands.Lookup(pending)
	require.True(t, ok)
	assert.True(t, cmd.EffectiveAt(catalog.Mid))
}
