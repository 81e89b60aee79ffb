package ai

import (
	"math/rand"
	"testing"
	"time"

	"github.com/milk9111/commandclash/catalog"
)

func TestScriptBehaviorChoosesFromAvailable(t *testing.T) {
	cases := []struct {
		name string
		src  string
		d    catalog.Distance
		want string
	}{
		{"fixed_choice", `choice = "enemy_block"`, catalog.Mid, "enemy_block"},
		{"reads_situation", `
if situation.distance == "far" {
	choice = "enemy_advance"
} else {
	choice = "enemy_retreat"
}`, catalog.Far, "enemy_advance"},
		{"reads_available", `
for c in available {
	if c.kind == "crouch" {
		choice = c.id
	}
}`, catalog.Near, "enemy_crouch"},
		{"unavailable_falls_back", `choice = "enemy_heavy_attack"`, catalog.Far, "enemy_block"},
		{"no_choice_falls_back", `x := 1`, catalog.Far, "enemy_block"},
		{"out_of_range_falls_back", `choice = available[99].id`, catalog.Far, "enemy_block"},
		{"runtime_error_falls_back", "zero := 0\nchoice = 1 / zero", catalog.Far, "enemy_block"},
	}

	cat := enemyCatalog(t)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, err := NewScriptBehavior("scripted", []byte(c.src))
			if err != nil {
				t.Fatalf("NewScriptBehavior: %v", err)
			}
			sel := NewSelector(rand.New(rand.NewSource(1)))
			sel.Register(b)

			got := sel.Select("scripted", situation(c.d, 100, 100), cat)
			if got.ID != c.want {
				t.Fatalf("expected %s, got %s", c.want, got.ID)
			}
		})
	}
}

func TestLoopingScriptTimesOut(t *testing.T) {
	b, err := NewScriptBehavior("spin", []byte("for {}"))
	if err != nil {
		t.Fatalf("NewScriptBehavior: %v", err)
	}
	sel := NewSelector(rand.New(rand.NewSource(1)))
	sel.Register(b)
	cat := enemyCatalog(t)

	done := make(chan catalog.Command, 1)
	go func() { done <- sel.Select("spin", situation(catalog.Far, 100, 100), cat) }()

	select {
	case got := <-done:
		if got.ID != "enemy_block" {
			t.Fatalf("expected fallback enemy_block, got %s", got.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Select did not return; script run is unbounded")
	}

	// the compiled program stays usable after an aborted run
	if got := sel.Select("spin", situation(catalog.Near, 100, 100), cat); got.ID != cat.Usable(catalog.Near, 0)[0].ID {
		t.Fatalf("expected first usable command, got %s", got.ID)
	}
}

func TestScriptBehaviorCompileError(t *testing.T) {
	if _, err := NewScriptBehavior("broken", []byte(`choice = (`)); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestEmbeddedDuelistScript(t *testing.T) {
	b, err := LoadScriptBehavior("duelist", "duelist")
	if err != nil {
		t.Fatalf("LoadScriptBehavior: %v", err)
	}
	if b.Path() != "duelist" {
		t.Fatalf("unexpected path %q", b.Path())
	}

	cat := enemyCatalog(t)
	sel := NewSelector(rand.New(rand.NewSource(9)))
	sel.Register(b)

	got := sel.Select("duelist", situation(catalog.Far, 100, 100), cat)
	if got.Kind != catalog.KindAdvance {
		t.Fatalf("duelist should close in from far, got %s", got.ID)
	}

	got = sel.Select("duelist", situation(catalog.Mid, 20, 100), cat)
	if got.Kind != catalog.KindBlock {
		t.Fatalf("hurt duelist should guard, got %s", got.ID)
	}

	got = sel.Select("duelist", situation(catalog.Mid, 100, 10), cat)
	if got.ID != "enemy_heavy_attack" {
		t.Fatalf("duelist should finish with its strongest attack, got %s", got.ID)
	}

	if err := b.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
}

func TestScriptRandIntUsesSelectorRNG(t *testing.T) {
	src := `
attacks := []
for c in available {
	if c.category == "attack" {
		attacks = append(attacks, c)
	}
}
choice = attacks[rand_int(len(attacks))].id`

	cat := enemyCatalog(t)
	run := func() []string {
		b, err := NewScriptBehavior("random", []byte(src))
		if err != nil {
			t.Fatalf("NewScriptBehavior: %v", err)
		}
		sel := NewSelector(rand.New(rand.NewSource(11)))
		sel.Register(b)
		var ids []string
		for i := 0; i < 10; i++ {
			got := sel.Select("random", situation(catalog.Near, 100, 100), cat)
			if got.Category() != catalog.CategoryAttack {
				t.Fatalf("expected an attack, got %s", got.ID)
			}
			ids = append(ids, got.ID)
		}
		return ids
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded runs diverged at %d: %s != %s", i, first[i], second[i])
		}
	}
}
