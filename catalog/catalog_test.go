package catalog

import (
	"errors"
	"testing"

	"github.com/milk9111/commandclash/prefabs"
)

func guard() Command {
	return Command{ID: "block", Kind: KindBlock, Distances: AllDistances, Priority: 2}
}

func TestNewCatalogValidation(t *testing.T) {
	cases := []struct {
		name string
		cmds []Command
		want error
	}{
		{"empty", nil, ErrEmpty},
		{"no_always_legal", []Command{{ID: "jab", Kind: KindLightAttack, Distances: NewDistanceSet(Near)}}, ErrNoAlwaysLegal},
		{"duplicate", []Command{guard(), guard()}, ErrDuplicate},
		{"blank_id", []Command{guard(), {ID: " "}}, ErrInvalidCommand},
		{"negative_damage", []Command{guard(), {ID: "bad", Damage: -1}}, ErrInvalidCommand},
		{"ok", []Command{{ID: "jab", Kind: KindLightAttack, Distances: NewDistanceSet(Near)}, guard()}, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.cmds)
			if c.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestCatalogUsableFiltersByDistanceAndMeter(t *testing.T) {
	cat, err := New([]Command{
		{ID: "jab", Kind: KindLightAttack, Distances: NewDistanceSet(Near, Mid)},
		{ID: "super", Kind: KindSpecial, MeterCost: 50, Distances: NewDistanceSet(Mid)},
		guard(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		name  string
		d     Distance
		meter int
		want  []string
	}{
		{"near_empty_meter", Near, 0, []string{"jab", "block"}},
		{"mid_empty_meter", Mid, 0, []string{"jab", "block"}},
		{"mid_full_meter", Mid, 50, []string{"jab", "super", "block"}},
		{"far", Far, 100, []string{"block"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := cat.Usable(c.d, c.meter)
			if len(got) != len(c.want) {
				t.Fatalf("expected %v, got %d commands", c.want, len(got))
			}
			for i, id := range c.want {
				if got[i].ID != id {
					t.Fatalf("index %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}

	if cat.First().ID != "jab" {
		t.Fatalf("First should keep catalog order, got %s", cat.First().ID)
	}
	if _, err := cat.MustLookup("nope"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestDistanceSteps(t *testing.T) {
	if Near.Closer() != Near || Far.Farther() != Far {
		t.Fatalf("distance steps must saturate")
	}
	if Mid.Closer() != Near || Mid.Farther() != Far {
		t.Fatalf("unexpected step from mid")
	}
	d, err := ParseDistance("FAR")
	if err != nil || d != Far {
		t.Fatalf("ParseDistance: got %v, %v", d, err)
	}
	if _, err := ParseDistance("orbit"); err == nil {
		t.Fatalf("expected error for unknown distance")
	}
}

func TestKindCategory(t *testing.T) {
	cases := map[Kind]Category{
		KindLightAttack: CategoryAttack,
		KindHeavyAttack: CategoryAttack,
		KindSpecial:     CategoryAttack,
		KindThrow:       CategoryThrow,
		KindBlock:       CategoryBlock,
		KindJump:        CategoryJump,
		KindCrouch:      CategoryCrouch,
		KindAdvance:     CategoryMove,
		KindRetreat:     CategoryMove,
		KindUnknown:     CategoryNone,
	}
	for k, want := range cases {
		if got := k.Category(); got != want {
			t.Fatalf("%s: expected %s, got %s", k, want, got)
		}
	}
	if ParseKind("dance") != KindUnknown {
		t.Fatalf("unknown kinds must parse to KindUnknown")
	}
}

func TestEmbeddedFightersLoad(t *testing.T) {
	for _, name := range []string{"player.yaml", "enemy.yaml"} {
		t.Run(name, func(t *testing.T) {
			f, err := LoadFighter(name)
			if err != nil {
				t.Fatalf("LoadFighter: %v", err)
			}
			if f.Commands.Len() == 0 {
				t.Fatalf("expected commands")
			}
			if f.MaxHP != 100 || f.MaxMeter != 100 {
				t.Fatalf("unexpected vitals %d/%d", f.MaxHP, f.MaxMeter)
			}
		})
	}

	f, err := LoadFighter("player.yaml")
	if err != nil {
		t.Fatalf("LoadFighter: %v", err)
	}
	special, ok := f.Commands.Lookup("swallow_return")
	if !ok {
		t.Fatalf("player should know swallow_return")
	}
	if special.MeterCost != 50 || !special.EffectiveAt(Mid) || special.EffectiveAt(Near) {
		t.Fatalf("unexpected special definition: %+v", special)
	}
	heavy, _ := f.Commands.Lookup("heavy_kick")
	if heavy.Height != HeightLow || !heavy.HasEffect(EffectStaggerOnBlock) {
		t.Fatalf("heavy_kick should be a low attack that staggers on block: %+v", heavy)
	}
}

func TestCommandFromSpecRejectsBadDistance(t *testing.T) {
	_, err := CommandFromSpec(prefabs.CommandSpec{ID: "x", Distances: []string{"space"}})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestCatalogReturnsIndependentCopies(t *testing.T) {
	heavy := Command{ID: "heavy", Kind: KindHeavyAttack, Damage: 22, Distances: NewDistanceSet(Near, Mid), Priority: 2,
		Effects: []Effect{EffectStaggerOnBlock}}
	cat, err := New([]Command{guard(), heavy})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		name string
		get  func() Command
	}{
		{"commands", func() Command { return cat.Commands()[1] }},
		{"lookup", func() Command { c, _ := cat.Lookup("heavy"); return c }},
		{"usable", func() Command { return cat.Usable(Near, 0)[1] }},
		{"legal", func() Command { return cat.Legal(0)[1] }},
		{"first_of_kind", func() Command { c, _ := cat.FirstOfKind(KindHeavyAttack); return c }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.get()
			got.Effects[0] = "tampered"

			again, _ := cat.Lookup("heavy")
			if !again.HasEffect(EffectStaggerOnBlock) {
				t.Fatalf("catalog effects changed through a returned command: %v", again.Effects)
			}
		})
	}
}
