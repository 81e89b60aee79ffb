package battle

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/looplab/fsm"

	"github.com/milk9111/commandclash/ai"
	"github.com/milk9111/commandclash/catalog"
	"github.com/milk9111/commandclash/combat"
	"github.com/milk9111/commandclash/input"
)

var (
	// ErrTerminal is returned for actions on a finished battle.
	ErrTerminal = errors.New("battle: battle is over")
	// ErrWrongPhase is returned when the player acts outside the decision phase.
	ErrWrongPhase = errors.New("battle: not accepting commands")
	// ErrStopped is returned after Stop until Restart.
	ErrStopped = errors.New("battle: stopped")
)

// Observer receives a snapshot after every transition.
type Observer func(BattleState)

type Option func(*Orchestrator)

// WithRecognizer wires a combo recognizer: it is cleared at the start of
// every decision phase and its selection is used when the timer runs out.
func WithRecognizer(r *input.Recognizer) Option {
	return func(o *Orchestrator) { o.recognizer = r }
}

// WithSelector replaces the enemy AI. The orchestrator still registers
// scripted profiles from the config on it.
func WithSelector(s *ai.Selector) Option {
	return func(o *Orchestrator) { o.selector = s }
}

// WithRand replaces the random source derived from Config.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(o *Orchestrator) { o.rng = rng }
}

// WithLogf redirects phase and round logging; nil silences it.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(o *Orchestrator) {
		if logf == nil {
			logf = func(string, ...any) {}
		}
		o.logf = logf
	}
}

// Orchestrator runs one battle (or gauntlet) against a tick source. It is
// not safe for concurrent use; the host loop owns it.
type Orchestrator struct {
	cfg        Config
	resolver   *combat.Resolver
	selector   *ai.Selector
	recognizer *input.Recognizer
	rng        *rand.Rand
	logf       func(format string, args ...any)

	phase   *fsm.FSM
	state   BattleState
	timer   time.Duration
	stopped bool

	playerCat *catalog.Catalog
	enemyCat  *catalog.Catalog
	scripts   []*ai.ScriptBehavior
	// nextEnemy marks that the last resolution defeated an enemy and the
	// next round starts a fresh bout.
	nextEnemy bool

	observers map[int]Observer
	nextObsID int
}

func New(cfg Config, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		cfg:       cfg,
		resolver:  combat.NewResolver(cfg.Rules),
		logf:      log.Printf,
		playerCat: cfg.Player.Commands,
		observers: map[int]Observer{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if o.selector == nil {
		o.selector = ai.NewSelector(rand.New(rand.NewSource(o.rng.Int63())))
	}
	for _, e := range cfg.Enemies {
		if e.Script == "" {
			continue
		}
		b, err := ai.LoadScriptBehavior(e.Behavior, e.Script)
		if err != nil {
			return nil, fmt.Errorf("battle: enemy %s: %w", e.Name, err)
		}
		o.selector.Register(b)
		o.scripts = append(o.scripts, b)
	}

	o.phase = newPhaseMachine(func(from, to Phase) {
		o.logf("battle: phase %s -> %s", from, to)
	})
	o.reset()
	return o, nil
}

func (o *Orchestrator) enemyCount() int {
	if o.cfg.Gauntlet {
		return len(o.cfg.Enemies)
	}
	return 1
}

func newCharacter(f catalog.Fighter) Character {
	return Character{
		ID:       f.ID,
		Name:     f.Name,
		MaxHP:    f.MaxHP,
		HP:       f.MaxHP,
		MaxMeter: f.MaxMeter,
		Meter:    f.StartMeter,
		Commands: f.Commands.Commands(),
	}
}

func (o *Orchestrator) newEnemy(i int) Character {
	ec := o.cfg.Enemies[i]
	c := newCharacter(ec.Fighter)
	if ec.Name != "" {
		c.Name = ec.Name
	}
	if ec.MaxHP > 0 {
		c.MaxHP = ec.MaxHP
		c.HP = ec.MaxHP
	}
	c.Behavior = ec.Behavior
	o.enemyCat = ec.Fighter.Commands
	return c
}

func (o *Orchestrator) reset() {
	o.nextEnemy = false
	next := BattleState{
		Round:      1,
		Distance:   o.cfg.StartDistance,
		Player:     newCharacter(o.cfg.Player),
		Enemy:      o.newEnemy(0),
		Status:     StatusPlaying,
		EnemyIndex: 0,
		EnemyCount: o.enemyCount(),
	}
	next.Log = append(next.Log, fmt.Sprintf("%s faces %s", next.Player.Name, next.Enemy.Name))
	if err := fire(o.phase, eventRestart); err != nil {
		o.logf("battle: restart: %v", err)
	}
	next.Phase = Phase(o.phase.Current())
	o.state = next
	o.enterDecision()
}

// enterDecision starts the countdown on the current state.
func (o *Orchestrator) enterDecision() {
	o.timer = o.cfg.DecisionTime
	o.state.TimeRemaining = o.timer
	if o.recognizer != nil {
		o.recognizer.StartDecision()
	}
	o.notify()
}

// Snapshot returns a deep copy of the current state.
func (o *Orchestrator) Snapshot() BattleState {
	return o.state.Clone()
}

func (o *Orchestrator) Phase() Phase {
	return o.state.Phase
}

func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Subscribe registers fn for snapshots and returns a function removing it.
func (o *Orchestrator) Subscribe(fn Observer) (unsubscribe func()) {
	id := o.nextObsID
	o.nextObsID++
	o.observers[id] = fn
	return func() { delete(o.observers, id) }
}

func (o *Orchestrator) notify() {
	if len(o.observers) == 0 {
		return
	}
	for _, fn := range o.observers {
		fn(o.state.Clone())
	}
}

func (o *Orchestrator) checkDecision() error {
	switch {
	case o.stopped:
		return ErrStopped
	case o.state.Phase.Terminal():
		return ErrTerminal
	case o.state.Phase != PhaseDecision:
		return ErrWrongPhase
	}
	return nil
}

// Preview records id as the player's tentative choice. It is used when the
// timer runs out without a recognized input.
func (o *Orchestrator) Preview(id string) error {
	if err := o.checkDecision(); err != nil {
		return err
	}
	if _, err := o.playerCat.MustLookup(id); err != nil {
		return err
	}
	next := o.state.Clone()
	next.Previewed = id
	o.state = next
	o.notify()
	return nil
}

// Select commits id immediately. An unaffordable command is replaced by a
// random usable one.
func (o *Orchestrator) Select(id string) error {
	if err := o.checkDecision(); err != nil {
		return err
	}
	cmd, err := o.playerCat.MustLookup(id)
	if err != nil {
		return err
	}
	if !cmd.Affordable(o.state.Player.Meter) {
		o.logf("battle: %s needs %d meter, have %d", cmd.ID, cmd.MeterCost, o.state.Player.Meter)
		cmd = o.randomPlayerCommand()
	}
	o.commit(cmd)
	o.Advance(0)
	return nil
}

// Advance moves the battle clock forward by dt, running every phase change
// that falls due. Leftover time carries into the next phase.
func (o *Orchestrator) Advance(dt time.Duration) {
	if o.stopped || dt < 0 {
		return
	}
	for {
		switch o.state.Phase {
		case PhaseDecision:
			if dt < o.timer {
				o.tick(dt)
				return
			}
			dt -= o.timer
			o.commit(o.fallbackCommand())
		case PhaseCommit:
			if dt < o.timer {
				o.timer -= dt
				return
			}
			dt -= o.timer
			o.resolve()
		case PhaseResolution:
			if dt < o.timer {
				o.timer -= dt
				return
			}
			dt -= o.timer
			o.nextRound()
		default:
			return
		}
	}
}

// tick runs the decision countdown. Observers see every change of the
// remaining time.
func (o *Orchestrator) tick(dt time.Duration) {
	if dt == 0 {
		return
	}
	o.timer -= dt
	next := o.state.Clone()
	next.TimeRemaining = o.timer
	o.state = next
	o.notify()
}

// fallbackCommand picks the player's command when the decision timer runs
// out: the recognized input, then the preview, then a random usable command.
func (o *Orchestrator) fallbackCommand() catalog.Command {
	meter := o.state.Player.Meter
	if o.recognizer != nil {
		if id, ok := o.recognizer.FinalCommand(); ok {
			if cmd, found := o.playerCat.Lookup(id); found && cmd.Affordable(meter) {
				return cmd
			}
			o.logf("battle: ignoring recognized command %q", id)
		}
	}
	if id := o.state.Previewed; id != "" {
		if cmd, found := o.playerCat.Lookup(id); found && cmd.Affordable(meter) {
			return cmd
		}
	}
	return o.randomPlayerCommand()
}

func (o *Orchestrator) randomPlayerCommand() catalog.Command {
	pool := o.playerCat.Usable(o.state.Distance, o.state.Player.Meter)
	if len(pool) == 0 {
		pool = o.playerCat.Legal(o.state.Player.Meter)
	}
	if len(pool) == 0 {
		return o.playerCat.First()
	}
	return pool[o.rng.Intn(len(pool))]
}

func (o *Orchestrator) situation(self, opp Character) ai.Situation {
	return ai.Situation{
		Distance: o.state.Distance,
		Round:    o.state.Round,
		Self:     self.Vitals(),
		Opponent: opp.Vitals(),
	}
}

func (o *Orchestrator) commit(player catalog.Command) {
	if o.recognizer != nil {
		o.recognizer.EndDecision()
		o.recognizer.SetEnabled(false)
	}
	enemy := o.selector.Select(o.state.Enemy.Behavior, o.situation(o.state.Enemy, o.state.Player), o.enemyCat)

	if err := fire(o.phase, eventCommit); err != nil {
		o.logf("battle: commit: %v", err)
		return
	}
	next := o.state.Clone()
	next.Phase = Phase(o.phase.Current())
	next.PendingPlayer = player.ID
	next.PendingEnemy = enemy.ID
	next.TimeRemaining = 0
	o.state = next
	o.timer = o.cfg.RevealDelay
	o.notify()
}

// staggerPenalty drops a staggered fighter's command one priority tier.
func staggerPenalty(c Character, cmd catalog.Command) catalog.Command {
	if c.Has(Staggered) && !cmd.CanInterrupt && cmd.Priority > 0 {
		cmd.Priority--
	}
	return cmd
}

func (o *Orchestrator) meterGain(dmgTaken int) int {
	return int(math.Floor(float64(dmgTaken) * o.cfg.MeterFromDamage))
}

func (o *Orchestrator) resolve() {
	next := o.state.Clone()

	pCmd, ok := o.playerCat.Lookup(next.PendingPlayer)
	if !ok {
		pCmd = o.playerCat.First()
	}
	eCmd, ok := o.enemyCat.Lookup(next.PendingEnemy)
	if !ok {
		eCmd = o.enemyCat.First()
	}
	pCmd = staggerPenalty(next.Player, pCmd)
	eCmd = staggerPenalty(next.Enemy, eCmd)
	next.Player.removeStatus(Staggered)
	next.Enemy.removeStatus(Staggered)

	out := o.resolver.Resolve(pCmd, eCmd, next.Distance)

	next.Player.applyDamage(out.DamageToPlayer)
	next.Enemy.applyDamage(out.DamageToEnemy)
	next.Player.addMeter(pCmd.MeterGain - pCmd.MeterCost + o.meterGain(out.DamageToPlayer))
	next.Enemy.addMeter(eCmd.MeterGain - eCmd.MeterCost + o.meterGain(out.DamageToEnemy))

	switch out.Staggered {
	case combat.SidePlayer:
		next.Player.addStatus(Staggered)
	case combat.SideEnemy:
		next.Enemy.addStatus(Staggered)
	}

	next.Distance = out.Distance
	next.Last = &out
	next.Log = append(next.Log, fmt.Sprintf("Round %d: %s", next.Round, out.Log))
	if out.Staggered != combat.SideNone {
		next.Log = append(next.Log, fmt.Sprintf("%s is staggered", o.sideName(next, out.Staggered)))
	}
	next.PendingPlayer = ""
	next.PendingEnemy = ""
	next.Previewed = ""

	event := eventResolve
	if err := fire(o.phase, event); err != nil {
		o.logf("battle: resolve: %v", err)
		return
	}

	switch {
	case next.Player.HP <= 0:
		next.Status = StatusDefeat
		next.Log = append(next.Log, fmt.Sprintf("%s is defeated", next.Player.Name))
		event = eventLose
	case next.Enemy.HP <= 0:
		if next.EnemyIndex+1 < next.EnemyCount {
			next.Log = append(next.Log, fmt.Sprintf("%s is defeated", next.Enemy.Name))
			next.EnemyIndex++
			next.Enemy = o.newEnemy(next.EnemyIndex)
			next.Player.heal(o.cfg.Recovery.HP)
			next.Player.addMeter(max(o.cfg.Recovery.Meter, 0))
			next.Player.Statuses = nil
			next.Distance = o.cfg.StartDistance
			next.Log = append(next.Log, fmt.Sprintf("Next opponent: %s", next.Enemy.Name))
			o.nextEnemy = true
		} else {
			next.Status = StatusVictory
			next.Log = append(next.Log, fmt.Sprintf("%s wins", next.Player.Name))
			event = eventWin
		}
	}

	if event != eventResolve {
		if err := fire(o.phase, event); err != nil {
			o.logf("battle: %s: %v", event, err)
		}
		if o.recognizer != nil {
			o.recognizer.SetEnabled(false)
		}
	}
	next.Phase = Phase(o.phase.Current())
	o.state = next
	o.timer = o.cfg.ResolutionDelay
	o.notify()
}

func (o *Orchestrator) sideName(s BattleState, side combat.Side) string {
	if side == combat.SidePlayer {
		return s.Player.Name
	}
	return s.Enemy.Name
}

func (o *Orchestrator) nextRound() {
	if err := fire(o.phase, eventNextRound); err != nil {
		o.logf("battle: next round: %v", err)
		return
	}
	next := o.state.Clone()
	next.Phase = Phase(o.phase.Current())
	if o.nextEnemy {
		next.Round = 1
		o.nextEnemy = false
	} else {
		next.Round++
	}
	o.state = next
	o.enterDecision()
}

// Stop cancels pending timers. The battle keeps its state and ignores input
// until Restart.
func (o *Orchestrator) Stop() {
	o.stopped = true
	o.timer = 0
	if o.recognizer != nil {
		o.recognizer.SetEnabled(false)
	}
}

func (o *Orchestrator) Stopped() bool {
	return o.stopped
}

// Restart begins a fresh battle with the same config.
func (o *Orchestrator) Restart() {
	o.stopped = false
	o.reset()
}

// ReloadScripts recompiles every scripted enemy profile from disk.
func (o *Orchestrator) ReloadScripts() error {
	var errs []error
	for _, s := range o.scripts {
		if err := s.Reload(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
