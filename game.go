package main

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/commandclash/battle"
	"github.com/milk9111/commandclash/catalog"
	"github.com/milk9111/commandclash/deck"
	"github.com/milk9111/commandclash/input"
	"github.com/milk9111/commandclash/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames int

	cfg        battle.Config
	flags      flagOverrides
	battle     *battle.Orchestrator
	recognizer *input.Recognizer
	keyboard   *keyboard
	commands   []catalog.Command
	cursor     int
	deck       *deck.Deck

	watcher       *prefabs.Watcher
	specsChanged  bool
	clipboardOK   bool
	notice        string
	noticeExpires int

	paused  bool
	pauseUI *ebitenui.UI
}

func NewGame(cfg battle.Config, flags flagOverrides, watch bool) (*Game, error) {
	g := &Game{cfg: cfg, flags: flags}
	if err := g.build(cfg); err != nil {
		return nil, err
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	if watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			log.Printf("watch %s: %v", prefabs.Dir, err)
		} else {
			g.watcher = w
		}
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

// build wires a fresh recognizer and orchestrator for cfg.
func (g *Game) build(cfg battle.Config) error {
	rec, err := input.Load()
	if err != nil {
		return err
	}
	b, err := battle.New(cfg, battle.WithRecognizer(rec))
	if err != nil {
		return err
	}
	g.cfg = cfg
	g.recognizer = rec
	g.keyboard = newKeyboard(rec)
	g.battle = b
	g.commands = cfg.Player.Commands.Commands()
	g.cursor = 0
	d, err := deck.Load(rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		log.Printf("cards: %v", err)
		d = deck.New(nil, nil)
	}
	g.deck = d
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.battle != nil {
		g.battle.Stop()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollChanges()

	if justPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if justPressed(ebiten.KeyF5) {
		g.restart()
	}
	if justPressed(ebiten.KeyC) {
		g.copyLog()
	}
	if justPressed(ebiten.KeyF2) {
		g.drawCard()
	}

	if g.battle.Phase() == battle.PhaseDecision {
		g.keyboard.poll()
		g.handleMenuKeys()
	}

	g.battle.Advance(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// handleMenuKeys moves the command cursor and commits on Enter.
func (g *Game) handleMenuKeys() {
	if len(g.commands) == 0 {
		return
	}
	moved := false
	if justPressed(ebiten.KeyArrowDown) || justPressed(ebiten.KeyTab) {
		g.cursor = (g.cursor + 1) % len(g.commands)
		moved = true
	}
	if justPressed(ebiten.KeyArrowUp) {
		g.cursor = (g.cursor + len(g.commands) - 1) % len(g.commands)
		moved = true
	}
	if moved {
		if err := g.battle.Preview(g.commands[g.cursor].ID); err != nil {
			log.Printf("preview: %v", err)
		}
	}

	if justPressed(ebiten.KeyEnter) {
		id := g.commands[g.cursor].ID
		if recognized, ok := g.recognizer.FinalCommand(); ok {
			id = recognized
		}
		if err := g.battle.Select(id); err != nil {
			g.say(err.Error())
		}
	}
}

func (g *Game) restart() {
	if g.specsChanged {
		g.reloadSpecs()
	}
	g.battle.Restart()
	g.cursor = 0
	g.paused = false
}

// pollChanges applies file changes reported by the watcher. Scripts are
// recompiled at once; specs wait until the battle is over.
func (g *Game) pollChanges() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.Drain() {
		if strings.HasSuffix(name, ".tengo") {
			if err := g.battle.ReloadScripts(); err != nil {
				log.Printf("reload scripts: %v", err)
				g.say("script reload failed")
			} else {
				g.say("reloaded " + name)
			}
			continue
		}
		g.specsChanged = true
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("watch: %v", err)
	default:
	}

	if g.specsChanged && g.battle.Phase().Terminal() {
		g.reloadSpecs()
	}
}

func (g *Game) reloadSpecs() {
	g.specsChanged = false
	cfg, err := g.flags.load()
	if err != nil {
		log.Printf("reload specs: %v", err)
		g.say("spec reload failed, keeping the previous battle")
		return
	}
	old := g.battle
	if err := g.build(cfg); err != nil {
		log.Printf("reload specs: %v", err)
		g.say("spec reload failed, keeping the previous battle")
		return
	}
	old.Stop()
	g.say("specs reloaded")
}

func (g *Game) copyLog() {
	if !g.clipboardOK {
		g.say("clipboard unavailable")
		return
	}
	s := g.battle.Snapshot()
	clipboard.Write(clipboard.FmtText, []byte(strings.Join(s.Log, "\n")))
	g.say(fmt.Sprintf("copied %d log lines", len(s.Log)))
}

// drawCard shows the next card from the deck, reshuffling once it runs out.
func (g *Game) drawCard() {
	card, ok := g.deck.Draw()
	if !ok {
		g.deck.Reset()
		if card, ok = g.deck.Draw(); !ok {
			g.say("no cards loaded")
			return
		}
	}
	msg := fmt.Sprintf("[%s] %s: %s", card.Pack, card.Name, card.Description)
	for i, c := range card.Choices {
		msg += fmt.Sprintf("  (%d) %s", i+1, c.Text)
	}
	g.say(msg)
}

func (g *Game) say(msg string) {
	g.notice = msg
	g.noticeExpires = g.frames + 2*ebiten.TPS()
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawHUD(screen, g)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
