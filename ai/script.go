package ai

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/commandclash/catalog"
	"github.com/milk9111/commandclash/prefabs"
)

// ScriptBehavior runs a tengo script to pick a command. The script sees the
// globals `available` (array of {id, name, kind, category, damage,
// meter_cost, priority}), `situation` ({distance, round, self_hp,
// self_hp_ratio, self_meter, opponent_hp, opponent_hp_ratio}) and the
// function `rand_int(n)`, and must assign the chosen id to `choice`.
//
// Each run is limited to ScriptTimeout. Runtime errors, panics inside the VM
// and timeouts are logged and the selector falls back.
//
// A ScriptBehavior reuses one compiled program and is not safe for
// concurrent use.
type ScriptBehavior struct {
	name     string
	path     string
	compiled *tengo.Compiled
	rng      *rand.Rand
	timeout  time.Duration
}

// ScriptTimeout bounds a single script run.
const ScriptTimeout = 100 * time.Millisecond

// NewScriptBehavior compiles src under profile name.
func NewScriptBehavior(name string, src []byte) (*ScriptBehavior, error) {
	b := &ScriptBehavior{name: name, timeout: ScriptTimeout}
	if err := b.compile(src); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadScriptBehavior compiles the script at path through prefabs, so a copy
// on disk overrides the embedded one.
func LoadScriptBehavior(name, path string) (*ScriptBehavior, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}
	b, err := NewScriptBehavior(name, src)
	if err != nil {
		return nil, fmt.Errorf("ai: compile %s: %w", path, err)
	}
	b.path = path
	return b, nil
}

// Reload recompiles the behavior from its script path. On error the
// previous program stays active.
func (b *ScriptBehavior) Reload() error {
	if b.path == "" {
		return nil
	}
	src, err := prefabs.LoadScript(b.path)
	if err != nil {
		return err
	}
	if err := b.compile(src); err != nil {
		return fmt.Errorf("ai: compile %s: %w", b.path, err)
	}
	return nil
}

func (b *ScriptBehavior) Name() string { return b.name }

// Path is the script the behavior was loaded from, empty for inline sources.
func (b *ScriptBehavior) Path() string { return b.path }

func (b *ScriptBehavior) compile(src []byte) error {
	script := tengo.NewScript(src)
	_ = script.Add("available", []interface{}{})
	_ = script.Add("situation", map[string]interface{}{})
	_ = script.Add("choice", "")
	_ = script.Add("rand_int", &tengo.UserFunction{Name: "rand_int", Value: b.randInt})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return err
	}
	b.compiled = compiled
	return nil
}

func (b *ScriptBehavior) Choose(s Situation, available []catalog.Command, rng *rand.Rand) (catalog.Command, bool) {
	if b.compiled == nil {
		return catalog.Command{}, false
	}
	b.rng = rng
	defer func() { b.rng = nil }()

	if err := b.compiled.Set("available", commandsToScript(available)); err != nil {
		log.Printf("ai: script %s: set available: %v", b.name, err)
		return catalog.Command{}, false
	}
	if err := b.compiled.Set("situation", situationToScript(s)); err != nil {
		log.Printf("ai: script %s: set situation: %v", b.name, err)
		return catalog.Command{}, false
	}
	if err := b.compiled.Set("choice", ""); err != nil {
		log.Printf("ai: script %s: reset choice: %v", b.name, err)
		return catalog.Command{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.compiled.RunContext(ctx); err != nil {
		log.Printf("ai: script %s: run: %v", b.name, err)
		return catalog.Command{}, false
	}

	id := strings.TrimSpace(b.compiled.Get("choice").String())
	if id == "" {
		return catalog.Command{}, false
	}
	for _, c := range available {
		if c.ID == id {
			return c, true
		}
	}
	log.Printf("ai: script %s chose unavailable command %q", b.name, id)
	return catalog.Command{}, false
}

func (b *ScriptBehavior) randInt(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	n, ok := tengo.ToInt(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "n", Expected: "int", Found: args[0].TypeName()}
	}
	if n <= 0 {
		return &tengo.Int{Value: 0}, nil
	}
	rng := b.rng
	if rng == nil {
		return &tengo.Int{Value: 0}, nil
	}
	return &tengo.Int{Value: int64(rng.Intn(n))}, nil
}

func commandsToScript(cmds []catalog.Command) []interface{} {
	out := make([]interface{}, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, map[string]interface{}{
			"id":         c.ID,
			"name":       c.String(),
			"kind":       c.Kind.String(),
			"category":   c.Category().String(),
			"damage":     c.Damage,
			"meter_cost": c.MeterCost,
			"priority":   c.Priority,
		})
	}
	return out
}

func situationToScript(s Situation) map[string]interface{} {
	return map[string]interface{}{
		"distance":          s.Distance.String(),
		"round":             s.Round,
		"self_hp":           s.Self.HP,
		"self_hp_ratio":     s.Self.HPRatio(),
		"self_meter":        s.Self.Meter,
		"opponent_hp":       s.Opponent.HP,
		"opponent_hp_ratio": s.Opponent.HPRatio(),
	}
}
