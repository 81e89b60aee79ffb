package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/commandclash/prefabs"
)

var (
	ErrEmpty           = errors.New("catalog: no commands")
	ErrDuplicate       = errors.New("catalog: duplicate command id")
	ErrNoAlwaysLegal   = errors.New("catalog: no command is legal at every distance without meter")
	ErrUnknownCommand  = errors.New("catalog: unknown command")
	ErrInvalidCommand  = errors.New("catalog: invalid command")
	ErrNoUsableCommand = errors.New("catalog: no usable command")
)

// Catalog is an ordered, read-only set of commands. The first command is the
// fallback used whenever filtering leaves nothing.
type Catalog struct {
	commands []Command
	byID     map[string]int
}

// New validates cmds and builds a catalog. Every catalog must contain at
// least one always-legal command so a fighter can act in any state.
func New(cmds []Command) (*Catalog, error) {
	if len(cmds) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		commands: make([]Command, 0, len(cmds)),
		byID:     make(map[string]int, len(cmds)),
	}
	legal := false
	for _, cmd := range cmds {
		if strings.TrimSpace(cmd.ID) == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidCommand)
		}
		if cmd.Damage < 0 || cmd.MeterCost < 0 || cmd.MeterGain < 0 {
			return nil, fmt.Errorf("%w: %s has negative damage or meter values", ErrInvalidCommand, cmd.ID)
		}
		if _, dup := c.byID[cmd.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, cmd.ID)
		}
		if cmd.AlwaysLegal() {
			legal = true
		}
		cmd.Effects = append([]Effect(nil), cmd.Effects...)
		c.byID[cmd.ID] = len(c.commands)
		c.commands = append(c.commands, cmd)
	}
	if !legal {
		return nil, ErrNoAlwaysLegal
	}
	return c, nil
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.commands)
}

// Commands returns a deep copy of the commands in catalog order.
func (c *Catalog) Commands() []Command {
	if c == nil {
		return nil
	}
	return CloneCommands(c.commands)
}

func (c *Catalog) Lookup(id string) (Command, bool) {
	if c == nil {
		return Command{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Command{}, false
	}
	return c.commands[i].Clone(), true
}

// MustLookup is Lookup with an error for callers that need one.
func (c *Catalog) MustLookup(id string) (Command, error) {
	cmd, ok := c.Lookup(id)
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, id)
	}
	return cmd, nil
}

// First returns the first command in the catalog.
func (c *Catalog) First() Command {
	if c == nil || len(c.commands) == 0 {
		return Command{}
	}
	return c.commands[0].Clone()
}

// Usable returns the commands effective at d that meter can pay for, in
// catalog order.
func (c *Catalog) Usable(d Distance, meter int) []Command {
	if c == nil {
		return nil
	}
	out := make([]Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		if cmd.EffectiveAt(d) && cmd.Affordable(meter) {
			out = append(out, cmd.Clone())
		}
	}
	return out
}

// Legal returns the affordable commands regardless of distance. A command
// used out of range is still a legal choice; it just whiffs.
func (c *Catalog) Legal(meter int) []Command {
	if c == nil {
		return nil
	}
	out := make([]Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		if cmd.Affordable(meter) {
			out = append(out, cmd.Clone())
		}
	}
	return out
}

// FirstOfKind returns the first command of kind k.
func (c *Catalog) FirstOfKind(k Kind) (Command, bool) {
	if c == nil {
		return Command{}, false
	}
	for _, cmd := range c.commands {
		if cmd.Kind == k {
			return cmd.Clone(), true
		}
	}
	return Command{}, false
}

// CommandFromSpec converts a YAML command spec.
func CommandFromSpec(spec prefabs.CommandSpec) (Command, error) {
	cmd := Command{
		ID:           strings.TrimSpace(spec.ID),
		Name:         spec.Name,
		Description:  spec.Description,
		Kind:         ParseKind(spec.Kind),
		Damage:       spec.Damage,
		MeterCost:    spec.MeterCost,
		MeterGain:    spec.MeterGain,
		Priority:     spec.Priority,
		CanInterrupt: spec.CanInterrupt,
	}
	for _, raw := range spec.Distances {
		d, err := ParseDistance(raw)
		if err != nil {
			return Command{}, fmt.Errorf("command %s: %w", spec.ID, err)
		}
		cmd.Distances |= NewDistanceSet(d)
	}
	h, err := ParseHeight(spec.Height)
	if err != nil {
		return Command{}, fmt.Errorf("command %s: %w", spec.ID, err)
	}
	cmd.Height = h
	for _, e := range spec.Effects {
		cmd.Effects = append(cmd.Effects, Effect(strings.TrimSpace(e)))
	}
	return cmd, nil
}

func FromSpecs(specs []prefabs.CommandSpec) (*Catalog, error) {
	cmds := make([]Command, 0, len(specs))
	for _, spec := range specs {
		cmd, err := CommandFromSpec(spec)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return New(cmds)
}
