package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/commandclash/prefabs"
)

func loadRecognizer(t *testing.T) *Recognizer {
	t.Helper()
	r, err := Load()
	require.NoError(t, err)
	return r
}

type press struct {
	key string
	ms  int
}

func TestRecognizerSelections(t *testing.T) {
	cases := []struct {
		name    string
		presses []press
		want    string
		combo   string
	}{
		{"nothing_pressed", nil, "", ""},
		{"single_key", []press{{"U", 0}}, "light_slash", ""},
		{"single_key_with_prefix", []press{{"KeyJ", 0}}, "heavy_slash", ""},
		{"fireball", []press{{"S", 0}, {"D", 200}, {"U", 400}}, "swallow_return", "combo_001"},
		{"fireball_shadows_dragon_punch", []press{{"D", 0}, {"S", 300}, {"D", 600}, {"J", 900}}, "swallow_return", "combo_001"},
		{"dragon_punch", []press{{"D", 0}, {"S", 100}, {"D", 600}, {"J", 1150}}, "heavy_slash", "combo_002"},
		{"hurricane_kick", []press{{"S", 0}, {"A", 200}, {"I", 400}}, "light_slash", "combo_003"},
		{"grab", []press{{"U", 0}, {"I", 100}}, "sheath_strike", "combo_004"},
		{"guard_counter", []press{{"O", 0}, {"U", 300}}, "block", "combo_005"},
		{"guard_counter_too_slow", []press{{"O", 0}, {"U", 800}}, "light_slash", ""},
		{"fireball_too_slow", []press{{"S", 0}, {"D", 600}, {"U", 1200}}, "light_slash", ""},
		{"expired_prefix_breaks_combo", []press{{"S", 0}, {"D", 5000}, {"U", 5100}}, "light_slash", ""},
		{"unbound_single_key", []press{{"Q", 0}}, "crouch", ""},
		{"unmapped_key_keeps_selection", []press{{"U", 0}, {"Z", 100}}, "light_slash", ""},
		{"later_press_overrides", []press{{"S", 0}, {"D", 200}, {"U", 400}, {"W", 3000}}, "jump", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := loadRecognizer(t)
			base := time.Unix(1000, 0)
			for _, p := range c.presses {
				r.Press(p.key, base.Add(time.Duration(p.ms)*time.Millisecond))
			}
			got, ok := r.FinalCommand()
			if got != c.want || ok != (c.want != "") {
				t.Fatalf("expected %q, got %q (%v)", c.want, got, ok)
			}
			seq, matched := r.LastCombo()
			if c.combo == "" && matched {
				t.Fatalf("unexpected combo %s", seq.ID)
			}
			if c.combo != "" && seq.ID != c.combo {
				t.Fatalf("expected combo %s, got %q", c.combo, seq.ID)
			}
		})
	}
}

func TestBufferDropsOldEntries(t *testing.T) {
	r := loadRecognizer(t)
	base := time.Unix(0, 0)

	r.Press("W", base)
	r.Press("A", base.Add(4*time.Second))
	r.Press("D", base.Add(5*time.Second))

	buf := r.Buffer()
	require.Len(t, buf, 2)
	assert.Equal(t, Left, buf[0].Symbol)
	assert.Equal(t, Right, buf[1].Symbol)
	assert.Equal(t, "← →", r.Display())
}

func TestClearAndDisable(t *testing.T) {
	r := loadRecognizer(t)
	now := time.Now()

	r.Press("U", now)
	r.Clear()
	_, ok := r.FinalCommand()
	assert.False(t, ok)
	assert.Empty(t, r.Display())

	r.Press("U", now)
	r.SetEnabled(false)
	_, ok = r.FinalCommand()
	assert.False(t, ok, "disabling clears the selection")

	r.Press("K", now)
	_, ok = r.FinalCommand()
	assert.False(t, ok, "disabled recognizer ignores input")
	assert.False(t, r.Enabled())

	r.StartDecision()
	assert.True(t, r.Enabled())
	r.Press("K", now)
	cmd, ok := r.EndDecision()
	assert.True(t, ok)
	assert.Equal(t, "heavy_kick", cmd)
	_, ok = r.FinalCommand()
	assert.False(t, ok)
}

func TestFirstSequenceInOrderWins(t *testing.T) {
	r := New(
		map[string]Symbol{"A": Punch, "B": Kick},
		nil,
		[]Sequence{
			{ID: "short", Inputs: []Symbol{Kick}, Command: "short"},
			{ID: "long", Inputs: []Symbol{Punch, Kick}, Command: "long"},
		},
		0,
	)
	now := time.Now()
	r.Press("A", now)
	r.Press("B", now)

	cmd, _ := r.FinalCommand()
	assert.Equal(t, "short", cmd)
}

func TestFromSpecValidation(t *testing.T) {
	cases := []struct {
		name string
		spec *prefabs.CombosSpec
	}{
		{"nil", nil},
		{"bad_binding", &prefabs.CombosSpec{Bindings: map[string]string{"W": "sideways"}}},
		{"empty_sequence", &prefabs.CombosSpec{Sequences: []prefabs.SequenceSpec{{ID: "x", Command: "block"}}}},
		{"no_command", &prefabs.CombosSpec{Sequences: []prefabs.SequenceSpec{{ID: "x", Inputs: []string{"up"}}}}},
		{"bad_symbol", &prefabs.CombosSpec{Sequences: []prefabs.SequenceSpec{{ID: "x", Inputs: []string{"jump"}, Command: "block"}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := FromSpec(c.spec); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
