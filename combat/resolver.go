package combat

import (
	"fmt"
	"math"

	"github.com/milk9111/commandclash/catalog"
)

type Side int

const (
	SideNone Side = iota
	SidePlayer
	SideEnemy
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return "none"
	}
}

func (s Side) Opponent() Side {
	switch s {
	case SidePlayer:
		return SideEnemy
	case SideEnemy:
		return SidePlayer
	default:
		return SideNone
	}
}

// Result classifies how an exchange played out.
type Result int

const (
	ResultNoop Result = iota
	ResultWhiff
	ResultReposition
	ResultHit
	ResultStandFirm
	ResultDominate
	ResultBlocked
	ResultEvaded
	ResultGrazed
	ResultPriority
	ResultTrade
	ResultCancel
)

var resultNames = [...]string{
	"noop", "whiff", "reposition", "hit", "stand_firm", "dominate",
	"blocked", "evaded", "grazed", "priority", "trade", "cancel",
}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return "unknown"
	}
	return resultNames[r]
}

// Outcome is everything one exchange produces. Damage is never negative.
type Outcome struct {
	DamageToPlayer int
	DamageToEnemy  int
	// Winner is the side that came out ahead, SideNone for even exchanges.
	Winner Side
	Result Result
	// Staggered is the side whose stagger_on_block attack was blocked.
	Staggered Side
	Distance  catalog.Distance
	Log       string
}

// DamageTo returns the damage dealt to side.
func (o Outcome) DamageTo(side Side) int {
	switch side {
	case SidePlayer:
		return o.DamageToPlayer
	case SideEnemy:
		return o.DamageToEnemy
	default:
		return 0
	}
}

func (o *Outcome) hit(side Side, dmg int) {
	if dmg < 0 {
		dmg = 0
	}
	switch side {
	case SidePlayer:
		o.DamageToPlayer += dmg
	case SideEnemy:
		o.DamageToEnemy += dmg
	}
}

// Resolver turns a pair of simultaneous commands into an Outcome. It holds
// no state besides its rules and is safe to share.
type Resolver struct {
	rules Rules
}

func NewResolver(rules Rules) *Resolver {
	return &Resolver{rules: rules}
}

func (r *Resolver) Rules() Rules {
	return r.rules
}

type action struct {
	side Side
	cmd  catalog.Command
}

// Resolve settles player against enemy at distance d.
func (r *Resolver) Resolve(player, enemy catalog.Command, d catalog.Distance) Outcome {
	out := Outcome{Distance: d}
	p := action{side: SidePlayer, cmd: player}
	e := action{side: SideEnemy, cmd: enemy}
	header := fmt.Sprintf("%s vs %s", player, enemy)

	pe := player.EffectiveAt(d)
	ee := enemy.EffectiveAt(d)
	var detail string
	switch {
	case !pe && !ee:
		out.Result = ResultNoop
		detail = "both actions fall short"
	case pe && !ee:
		detail = r.uncontested(&out, p, e)
	case !pe && ee:
		detail = r.uncontested(&out, e, p)
	default:
		detail = r.clash(&out, p, e)
	}

	out.Log = header + " -> " + detail
	if out.DamageToPlayer > 0 || out.DamageToEnemy > 0 {
		out.Log += damageSuffix(out)
	}
	out.Distance = r.NextDistance(d, player, enemy, out.DamageToPlayer, out.DamageToEnemy)
	return out
}

func (r *Resolver) uncontested(out *Outcome, actor, idle action) string {
	out.Result = ResultWhiff
	out.Winner = actor.side
	if actor.cmd.IsOffensive() {
		out.hit(idle.side, actor.cmd.Damage)
		return fmt.Sprintf("%s lands, %s whiffs", actor.cmd, idle.cmd)
	}
	return fmt.Sprintf("%s succeeds, %s whiffs", actor.cmd, idle.cmd)
}

func (r *Resolver) clash(out *Outcome, p, e action) string {
	pc, ec := p.cmd.Category(), e.cmd.Category()

	if pc == catalog.CategoryNone || ec == catalog.CategoryNone {
		out.Result = ResultCancel
		return fmt.Sprintf("%s and %s cancel out", p.cmd, e.cmd)
	}

	if pc == catalog.CategoryMove && ec == catalog.CategoryMove {
		out.Result = ResultReposition
		return "both fighters reposition"
	}
	if pc == catalog.CategoryMove {
		return r.intoMovement(out, e, p)
	}
	if ec == catalog.CategoryMove {
		return r.intoMovement(out, p, e)
	}

	if r.dominates(p.cmd, e.cmd) {
		return r.dominate(out, p, e)
	}
	if r.dominates(e.cmd, p.cmd) {
		return r.dominate(out, e, p)
	}
	return r.neutral(out, p, e)
}

func (r *Resolver) intoMovement(out *Outcome, actor, mover action) string {
	if actor.cmd.IsOffensive() {
		out.Result = ResultHit
		out.Winner = actor.side
		out.hit(mover.side, actor.cmd.Damage)
		return fmt.Sprintf("%s catches %s mid-step", actor.cmd, mover.cmd)
	}
	out.Result = ResultStandFirm
	return fmt.Sprintf("%s stands firm against %s", actor.cmd, mover.cmd)
}

func (r *Resolver) dominates(winner, loser catalog.Command) bool {
	for _, d := range r.rules.Dominance {
		if d.applies(winner, loser) {
			return true
		}
	}
	return false
}

func (r *Resolver) dominate(out *Outcome, w, l action) string {
	out.Winner = w.side
	wc, lc := w.cmd.Category(), l.cmd.Category()
	switch {
	case wc == catalog.CategoryBlock && lc == catalog.CategoryAttack:
		out.Result = ResultBlocked
		out.hit(w.side, scale(l.cmd.Damage, r.rules.BlockReduction))
		if l.cmd.HasEffect(catalog.EffectStaggerOnBlock) {
			out.Staggered = l.side
		}
		return fmt.Sprintf("%s is blocked", l.cmd)
	case w.cmd.IsOffensive():
		out.Result = ResultDominate
		out.hit(l.side, scale(w.cmd.Damage, r.rules.Advantage))
		switch {
		case wc == catalog.CategoryThrow && lc == catalog.CategoryBlock:
			return fmt.Sprintf("%s breaks the guard", w.cmd)
		case wc == catalog.CategoryAttack && lc == catalog.CategoryThrow:
			return fmt.Sprintf("%s interrupts the throw", w.cmd)
		}
		return fmt.Sprintf("%s overpowers %s", w.cmd, l.cmd)
	default:
		out.Result = ResultEvaded
		return fmt.Sprintf("%s evades %s", w.cmd, l.cmd)
	}
}

func (r *Resolver) neutral(out *Outcome, p, e action) string {
	pc, ec := p.cmd.Category(), e.cmd.Category()
	switch {
	case pc == catalog.CategoryAttack && ec == catalog.CategoryAttack:
		switch {
		case p.cmd.Priority > e.cmd.Priority:
			return r.strikeFirst(out, p, e)
		case e.cmd.Priority > p.cmd.Priority:
			return r.strikeFirst(out, e, p)
		}
		return r.trade(out, p, e)
	case pc == catalog.CategoryThrow && ec == catalog.CategoryThrow:
		return r.trade(out, p, e)
	case pc == catalog.CategoryAttack && isEvade(ec):
		return r.graze(out, p, e)
	case ec == catalog.CategoryAttack && isEvade(pc):
		return r.graze(out, e, p)
	}
	out.Result = ResultCancel
	return fmt.Sprintf("%s and %s cancel out", p.cmd, e.cmd)
}

func (r *Resolver) strikeFirst(out *Outcome, w, l action) string {
	out.Result = ResultPriority
	out.Winner = w.side
	out.hit(l.side, w.cmd.Damage)
	return fmt.Sprintf("%s strikes first", w.cmd)
}

func (r *Resolver) trade(out *Outcome, p, e action) string {
	out.Result = ResultTrade
	out.hit(SidePlayer, scale(e.cmd.Damage, r.rules.Trade))
	out.hit(SideEnemy, scale(p.cmd.Damage, r.rules.Trade))
	return fmt.Sprintf("%s and %s trade blows", p.cmd, e.cmd)
}

func (r *Resolver) graze(out *Outcome, attacker, evader action) string {
	out.Result = ResultGrazed
	out.Winner = attacker.side
	out.hit(evader.side, scale(attacker.cmd.Damage, r.rules.Graze))
	return fmt.Sprintf("%s grazes %s", attacker.cmd, evader.cmd)
}

// NextDistance applies movement and landed-hit displacement. Movement moves
// at most one step: the player's intent is considered first, and opposing
// advance/retreat cancel.
func (r *Resolver) NextDistance(d catalog.Distance, player, enemy catalog.Command, toPlayer, toEnemy int) catalog.Distance {
	pa := player.Kind == catalog.KindAdvance
	pr := player.Kind == catalog.KindRetreat
	ea := enemy.Kind == catalog.KindAdvance
	er := enemy.Kind == catalog.KindRetreat

	next := d
	switch {
	case pa && !er:
		next = d.Closer()
	case pr && !ea:
		next = d.Farther()
	case ea && !pr:
		next = d.Closer()
	case er && !pa:
		next = d.Farther()
	}

	threshold := r.rules.KnockbackThreshold
	if threshold > 0 {
		if player.Kind == catalog.KindHeavyAttack && toEnemy >= threshold {
			next = next.Farther()
		}
		if enemy.Kind == catalog.KindHeavyAttack && toPlayer >= threshold {
			next = next.Farther()
		}
	}
	if player.Kind == catalog.KindThrow && toEnemy > 0 {
		next = next.Closer()
	}
	if enemy.Kind == catalog.KindThrow && toPlayer > 0 {
		next = next.Closer()
	}
	return next
}

func isEvade(c catalog.Category) bool {
	return c == catalog.CategoryJump || c == catalog.CategoryCrouch
}

func scale(dmg int, m float64) int {
	if dmg <= 0 || m <= 0 {
		return 0
	}
	return int(math.Floor(float64(dmg) * m))
}

func damageSuffix(o Outcome) string {
	switch {
	case o.DamageToPlayer > 0 && o.DamageToEnemy > 0:
		return fmt.Sprintf(" (player -%d HP, enemy -%d HP)", o.DamageToPlayer, o.DamageToEnemy)
	case o.DamageToPlayer > 0:
		return fmt.Sprintf(" (player -%d HP)", o.DamageToPlayer)
	default:
		return fmt.Sprintf(" (enemy -%d HP)", o.DamageToEnemy)
	}
}
