package input

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/milk9111/commandclash/prefabs"
)

// Symbol is an abstract input: a direction or a button.
type Symbol string

const (
	Up      Symbol = "up"
	Down    Symbol = "down"
	Left    Symbol = "left"
	Right   Symbol = "right"
	Neutral Symbol = "neutral"
	Punch   Symbol = "punch"
	Kick    Symbol = "kick"
	Block   Symbol = "block"
	Special Symbol = "special"
)

var symbolGlyphs = map[Symbol]string{
	Up:      "↑",
	Down:    "↓",
	Left:    "←",
	Right:   "→",
	Neutral: "·",
	Punch:   "P",
	Kick:    "K",
	Block:   "B",
	Special: "S",
}

func ParseSymbol(s string) (Symbol, error) {
	sym := Symbol(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := symbolGlyphs[sym]; !ok {
		return "", fmt.Errorf("input: unknown symbol %q", s)
	}
	return sym, nil
}

// DefaultMaxAge is how long a press stays in the buffer.
const DefaultMaxAge = 5 * time.Second

// Sequence is a combo: Inputs pressed in order, with the whole run fitting
// inside Window, selects Command.
type Sequence struct {
	ID      string
	Name    string
	Inputs  []Symbol
	Window  time.Duration
	Command string
}

// Entry is one buffered press.
type Entry struct {
	Key    string
	Symbol Symbol
	At     time.Time
}

// Recognizer turns timestamped key presses into a command id. Sequences are
// checked in order against the tail of the buffer; the first match wins,
// otherwise the pressed key's single-key command becomes the selection.
type Recognizer struct {
	bindings  map[string]Symbol
	singleKey map[string]string
	sequences []Sequence
	maxAge    time.Duration

	buffer    []Entry
	selection string
	combo     *Sequence
	enabled   bool
}

// New builds an enabled recognizer. Keys are matched case-insensitively and
// a "Key" prefix (as in "KeyW") is ignored.
func New(bindings map[string]Symbol, singleKey map[string]string, sequences []Sequence, maxAge time.Duration) *Recognizer {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	r := &Recognizer{
		bindings:  make(map[string]Symbol, len(bindings)),
		singleKey: make(map[string]string, len(singleKey)),
		sequences: append([]Sequence(nil), sequences...),
		maxAge:    maxAge,
		enabled:   true,
	}
	for k, v := range bindings {
		r.bindings[NormalizeKey(k)] = v
	}
	for k, v := range singleKey {
		r.singleKey[NormalizeKey(k)] = v
	}
	return r
}

// FromSpec converts a combos spec.
func FromSpec(spec *prefabs.CombosSpec) (*Recognizer, error) {
	if spec == nil {
		return nil, fmt.Errorf("input: nil combos spec")
	}
	bindings := make(map[string]Symbol, len(spec.Bindings))
	for key, raw := range spec.Bindings {
		sym, err := ParseSymbol(raw)
		if err != nil {
			return nil, fmt.Errorf("input: binding %s: %w", key, err)
		}
		bindings[key] = sym
	}

	seqs := make([]Sequence, 0, len(spec.Sequences))
	for _, s := range spec.Sequences {
		if len(s.Inputs) == 0 {
			return nil, fmt.Errorf("input: sequence %s has no inputs", s.ID)
		}
		if strings.TrimSpace(s.Command) == "" {
			return nil, fmt.Errorf("input: sequence %s has no command", s.ID)
		}
		seq := Sequence{
			ID:      s.ID,
			Name:    s.Name,
			Window:  time.Duration(s.WindowMS) * time.Millisecond,
			Command: s.Command,
		}
		for _, raw := range s.Inputs {
			sym, err := ParseSymbol(raw)
			if err != nil {
				return nil, fmt.Errorf("input: sequence %s: %w", s.ID, err)
			}
			seq.Inputs = append(seq.Inputs, sym)
		}
		seqs = append(seqs, seq)
	}

	return New(bindings, spec.SingleKey, seqs, time.Duration(spec.MaxAgeMS)*time.Millisecond), nil
}

// Load builds a recognizer from combos.yaml.
func Load() (*Recognizer, error) {
	spec, err := prefabs.LoadCombosSpec()
	if err != nil {
		return nil, err
	}
	return FromSpec(spec)
}

func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) > 3 && strings.EqualFold(key[:3], "key") {
		key = key[3:]
	}
	return strings.ToUpper(key)
}

// Press records key at time at and returns the current selection.
// Presses are ignored while disabled. A key without a symbol binding skips
// the buffer but can still select its single-key command.
func (r *Recognizer) Press(key string, at time.Time) (string, bool) {
	if !r.enabled {
		return "", false
	}
	key = NormalizeKey(key)
	sym, bound := r.bindings[key]
	single, hasSingle := r.singleKey[key]
	if !bound && !hasSingle {
		return r.FinalCommand()
	}

	if bound {
		r.buffer = append(r.buffer, Entry{Key: key, Symbol: sym, At: at})
		r.expire(at)
		if seq, ok := r.match(); ok {
			r.selection = seq.Command
			r.combo = seq
			log.Printf("input: combo %s -> %s", seq.Name, seq.Command)
			return r.selection, true
		}
	}

	if hasSingle {
		r.selection = single
		r.combo = nil
	}
	return r.FinalCommand()
}

func (r *Recognizer) expire(now time.Time) {
	i := 0
	for ; i < len(r.buffer); i++ {
		if now.Sub(r.buffer[i].At) < r.maxAge {
			break
		}
	}
	if i > 0 {
		r.buffer = append(r.buffer[:0], r.buffer[i:]...)
	}
}

func (r *Recognizer) match() (*Sequence, bool) {
	for i := range r.sequences {
		seq := &r.sequences[i]
		n := len(seq.Inputs)
		if n == 0 || n > len(r.buffer) {
			continue
		}
		tail := r.buffer[len(r.buffer)-n:]
		ok := true
		for j, sym := range seq.Inputs {
			if tail[j].Symbol != sym {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if seq.Window > 0 && tail[n-1].At.Sub(tail[0].At) > seq.Window {
			continue
		}
		return seq, true
	}
	return nil, false
}

// FinalCommand returns the command the buffered input currently selects.
func (r *Recognizer) FinalCommand() (string, bool) {
	return r.selection, r.selection != ""
}

// LastCombo returns the sequence behind the current selection, if any.
func (r *Recognizer) LastCombo() (Sequence, bool) {
	if r.combo == nil {
		return Sequence{}, false
	}
	return *r.combo, true
}

// Clear drops the buffer and the selection.
func (r *Recognizer) Clear() {
	r.buffer = r.buffer[:0]
	r.selection = ""
	r.combo = nil
}

// SetEnabled toggles input. Disabling clears everything.
func (r *Recognizer) SetEnabled(enabled bool) {
	if r.enabled == enabled {
		return
	}
	r.enabled = enabled
	if !enabled {
		r.Clear()
	}
}

func (r *Recognizer) Enabled() bool {
	return r.enabled
}

// StartDecision clears the buffer and enables input.
func (r *Recognizer) StartDecision() {
	r.Clear()
	r.enabled = true
}

// EndDecision returns the final selection and clears.
func (r *Recognizer) EndDecision() (string, bool) {
	cmd, ok := r.FinalCommand()
	r.Clear()
	return cmd, ok
}

// Buffer returns a copy of the buffered presses, oldest first.
func (r *Recognizer) Buffer() []Entry {
	return append([]Entry(nil), r.buffer...)
}

// Sequences returns the configured combos in match order.
func (r *Recognizer) Sequences() []Sequence {
	return append([]Sequence(nil), r.sequences...)
}

// Display renders the buffer as glyphs separated by spaces.
func (r *Recognizer) Display() string {
	if len(r.buffer) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.buffer))
	for _, e := range r.buffer {
		parts = append(parts, symbolGlyphs[e.Symbol])
	}
	return strings.Join(parts, " ")
}
