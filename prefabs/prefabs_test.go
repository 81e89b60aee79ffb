package prefabs

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestCleanScriptPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"duelist", "scripts/duelist.tengo"},
		{"duelist.tengo", "scripts/duelist.tengo"},
		{"scripts/duelist.tengo", "scripts/duelist.tengo"},
		{"prefabs/scripts/duelist", "scripts/duelist.tengo"},
		{"", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := cleanScriptPath(c.in); got != c.want {
				t.Fatalf("cleanScriptPath(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestEmbeddedSpecs(t *testing.T) {
	useDir(t, t.TempDir())

	battle, err := LoadBattleSpec()
	require.NoError(t, err)
	assert.Equal(t, "player.yaml", battle.Player)
	assert.Len(t, battle.Enemies, 3)

	player, err := LoadFighterSpec("player.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Swordsman K", player.Name)
	assert.NotEmpty(t, player.Commands)

	combos, err := LoadCombosSpec()
	require.NoError(t, err)
	assert.NotEmpty(t, combos.Sequences)
	assert.NotEmpty(t, combos.Bindings)

	cards, err := LoadCardsSpec()
	require.NoError(t, err)
	assert.NotEmpty(t, cards.Packs)

	src, err := LoadScript("duelist")
	require.NoError(t, err)
	assert.Contains(t, string(src), "choice")
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))

	yaml := "id: tiny\nname: Tiny\nmax_hp: 10\ncommands:\n  - id: poke\n    name: Poke\n    kind: light_attack\n    damage: 1\n    priority: 3\n    distances: [near]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "player.yaml"), []byte(yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "duelist.tengo"), []byte(`choice := "poke"`), 0o644))

	spec, err := LoadFighterSpec("prefabs/player.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Tiny", spec.Name)
	assert.Equal(t, 10, spec.MaxHP)
	require.Len(t, spec.Commands, 1)
	assert.Equal(t, "poke", spec.Commands[0].ID)

	src, err := LoadScript("duelist.tengo")
	require.NoError(t, err)
	assert.Equal(t, `choice := "poke"`, string(src))

	// files absent on disk still come from the embedded copy
	enemy, err := LoadFighterSpec("enemy.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, enemy.Commands)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	_, err := LoadFighterSpec("missing.yaml")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "battle.yaml"), []byte("enemies: [oops"), 0o644))
	_, err = LoadBattleSpec()
	assert.Error(t, err)

	_, err = LoadScript("nope")
	assert.Error(t, err)
}

func TestWatcherReportsChangedSpecs(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "battle.yaml"), []byte("seed: 3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "duelist.tengo"), []byte(`choice := ""`), 0o644))

	var seen []string
	require.Eventually(t, func() bool {
		seen = append(seen, w.Drain()...)
		return slices.Contains(seen, "battle.yaml") && slices.Contains(seen, "duelist.tengo")
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotContains(t, seen, "notes.txt")

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestNilWatcherDrain(t *testing.T) {
	var w *Watcher
	if got := w.Drain(); got != nil {
		t.Fatalf("expected nil drain, got %v", got)
	}
}
