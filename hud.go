package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/commandclash/battle"
)

const (
	hudLineHeight = 16
	hudLogLines   = 12
)

var hudFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

func drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = hudLineHeight
	ebtext.Draw(screen, s, hudFace, op)
}

func vitalsLine(c battle.Character) string {
	line := fmt.Sprintf("%-16s HP %3d/%-3d  Meter %3d/%-3d", c.Name, c.HP, c.MaxHP, c.Meter, c.MaxMeter)
	if len(c.Statuses) > 0 {
		parts := make([]string, 0, len(c.Statuses))
		for _, s := range c.Statuses {
			parts = append(parts, string(s))
		}
		line += "  [" + strings.Join(parts, ",") + "]"
	}
	return line
}

func phaseColor(p battle.Phase) color.Color {
	switch p {
	case battle.PhaseDecision:
		return colornames.Lightgreen
	case battle.PhaseCommit:
		return colornames.Gold
	case battle.PhaseResolution:
		return colornames.Orange
	case battle.PhaseVictory:
		return colornames.Deepskyblue
	default:
		return colornames.Crimson
	}
}

func drawHUD(screen *ebiten.Image, g *Game) {
	screen.Fill(colornames.Midnightblue)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %.1f", ebiten.ActualTPS()))

	s := g.battle.Snapshot()
	x, y := 24.0, 32.0

	header := fmt.Sprintf("Opponent %d/%d   Round %d   Distance %s   Phase %s",
		s.EnemyIndex+1, s.EnemyCount, s.Round, s.Distance, s.Phase)
	if s.Phase == battle.PhaseDecision {
		header += fmt.Sprintf("   %.1fs", s.TimeRemaining.Seconds())
	}
	drawText(screen, header, x, y, phaseColor(s.Phase))
	y += 2 * hudLineHeight

	drawText(screen, vitalsLine(s.Player), x, y, colornames.White)
	y += hudLineHeight
	drawText(screen, vitalsLine(s.Enemy), x, y, colornames.Lightcoral)
	y += 2 * hudLineHeight

	switch {
	case s.Phase == battle.PhaseDecision:
		for i, c := range g.commands {
			marker := "  "
			if i == g.cursor {
				marker = "> "
			}
			clr := color.Color(colornames.Lightgray)
			switch {
			case !c.Affordable(s.Player.Meter):
				clr = colornames.Dimgray
			case !c.EffectiveAt(s.Distance):
				clr = colornames.Gray
			case c.ID == s.Previewed:
				clr = colornames.Yellow
			}
			line := fmt.Sprintf("%s%-16s %-13s dmg %2d  cost %2d  p%d", marker, c.String(), c.Kind, c.Damage, c.MeterCost, c.Priority)
			drawText(screen, line, x, y, clr)
			y += hudLineHeight
		}
		y += hudLineHeight
		inputLine := "Input: " + g.recognizer.Display()
		if cmd, ok := g.recognizer.FinalCommand(); ok {
			inputLine += "  => " + cmd
		}
		if seq, ok := g.recognizer.LastCombo(); ok {
			inputLine += " (" + seq.Name + ")"
		}
		drawText(screen, inputLine, x, y, colornames.Aqua)
		y += 2 * hudLineHeight
	case s.Phase == battle.PhaseCommit:
		drawText(screen, fmt.Sprintf("%s commits to %s ...", s.Player.Name, s.PendingPlayer), x, y, colornames.Gold)
		y += 2 * hudLineHeight
	case s.Phase.Terminal():
		drawText(screen, strings.ToUpper(string(s.Status))+"  (F5 to restart)", x, y, phaseColor(s.Phase))
		y += 2 * hudLineHeight
	}

	start := max(len(s.Log)-hudLogLines, 0)
	drawText(screen, strings.Join(s.Log[start:], "\n"), x, y, colornames.Lightsteelblue)

	help := "W/A/S/D U/I/J/K/L O Q: inputs   Up/Down/Tab: preview   Enter: commit   C: copy log   F2: card   F5: restart   Esc: pause"
	drawText(screen, help, x, baseHeight-32, colornames.Darkgray)
	if g.notice != "" && g.frames < g.noticeExpires {
		drawText(screen, g.notice, x, baseHeight-52, colornames.Yellow)
	}
}
