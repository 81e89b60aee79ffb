package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/commandclash/prefabs"
)

func TestFlagOverridesApply(t *testing.T) {
	cases := []struct {
		name         string
		flags        flagOverrides
		wantSeed     int64
		wantGauntlet bool
		wantDecision time.Duration
	}{
		{"none", flagOverrides{}, 1, true, 5 * time.Second},
		{"seed", flagOverrides{seed: 42}, 42, true, 5 * time.Second},
		{"single", flagOverrides{single: true}, 1, false, 5 * time.Second},
		{"decision", flagOverrides{decision: 2 * time.Second}, 1, true, 2 * time.Second},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := c.flags.load()
			require.NoError(t, err)
			assert.Equal(t, c.wantSeed, cfg.Seed)
			assert.Equal(t, c.wantGauntlet, cfg.Gauntlet)
			assert.Equal(t, c.wantDecision, cfg.DecisionTime)
		})
	}
}

func TestFlagOverridesSurviveSpecReload(t *testing.T) {
	embedded, err := prefabs.Load("battle.yaml")
	require.NoError(t, err)

	dir := t.TempDir()
	prev := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = prev })

	flags := flagOverrides{single: true, decision: 3 * time.Second}

	edited := strings.Replace(string(embedded), "decision_seconds: 5", "decision_seconds: 9", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "battle.yaml"), []byte(edited), 0o644))

	cfg, err := flags.load()
	require.NoError(t, err)
	assert.False(t, cfg.Gauntlet, "-single must survive a reload")
	assert.Equal(t, 3*time.Second, cfg.DecisionTime, "-decision must survive a reload")

	cfg, err = flagOverrides{}.load()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Second, cfg.DecisionTime, "edited spec applies without flags")
}
