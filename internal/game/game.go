// Package game is the ebiten front end: it draws the battlefield, animates
// moves and beams, and feeds pointer and key input into a battle.
package game

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leonelquinteros/gotext"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/void-tactics/internal/battle"
	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

// borderWidth is the pixel gap between the window edge and the battlefield.
const borderWidth = 24

const (
	cellPx    = 40
	hudHeight = 112
)

var weaponKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
	ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// Options tune the viewer.
type Options struct {
	// Spectators, when set, reports the number of connected viewers.
	Spectators func() int
}

type Game struct {
	battle *battle.Battle
	anim   *Animator
	log    *MessageLog
	opts   Options

	rows, cols int
	width      int
	height     int
	boardW     int // battlefield width in pixels
	boardH     int

	hover   grid.Cell
	hoverOK bool

	showHelp      bool
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
}

// New builds a viewer for b and starts the battle. b must run
// asynchronously: the viewer completes moves and attacks once their
// animation has played.
func New(b *battle.Battle, opts Options) *Game {
	g := b.Field().Graph()
	gm := &Game{
		battle:   b,
		opts:     opts,
		rows:     g.Rows(),
		cols:     g.Cols(),
		boardW:   g.Cols() * cellPx,
		boardH:   g.Rows() * cellPx,
		log:      NewMessageLog(),
		showHelp: true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	gm.width = borderWidth + gm.boardW + borderWidth + logPanelWidth
	gm.height = borderWidth + gm.boardH + borderWidth + hudHeight
	gm.anim = NewAnimator(b)
	gm.log.Attach(b)
	b.Start()
	return gm
}

// Size is the preferred window size.
func (g *Game) Size() (int, int) { return g.width, g.height }

func (g *Game) Update() error {
	g.handleInput()
	g.anim.Update()
	return nil
}

// acceptsInput reports whether a human may act now.
func (g *Game) acceptsInput() bool {
	b := g.battle
	cur := b.Current()
	return cur != nil &&
		b.Phase() != battle.GameOver &&
		b.Brain(cur) == nil &&
		b.InFlight() == nil &&
		!g.anim.Busy()
}

func (g *Game) cellAt(mx, my int) (grid.Cell, bool) {
	x, y := mx-borderWidth, my-borderWidth
	if x < 0 || y < 0 || x >= g.boardW || y >= g.boardH {
		return grid.Cell{}, false
	}
	return grid.Cell{I: x / cellPx, J: y / cellPx}, true
}

func cellOrigin(i, j float64) (float32, float32) {
	return float32(borderWidth + i*cellPx), float32(borderWidth + j*cellPx)
}

func cellCenter(i, j float64) (float32, float32) {
	x, y := cellOrigin(i, j)
	return x + cellPx/2, y + cellPx/2
}

// handleInput processes pointer and key presses (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}
	defer func() { g.prevKeys = currentKeys }()

	mx, my := ebiten.CursorPosition()
	g.hover, g.hoverOK = g.cellAt(mx, my)

	if pressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}
	if pressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(g.battle.Log.Format()); err != nil {
			log.Printf("clipboard: %v", err)
			g.note(gotext.Get("clipboard unavailable"))
		} else {
			g.note(gotext.Get("battle log copied"))
		}
	}

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	clicked := left && !g.prevMouseLeft
	g.prevMouseLeft = left

	if !g.acceptsInput() {
		for _, k := range append(weaponKeys, ebiten.KeyE, ebiten.KeyB, ebiten.KeyEscape) {
			currentKeys[k] = ebiten.IsKeyPressed(k)
		}
		return
	}
	if clicked && g.hoverOK {
		g.battle.ClickCell(g.hover)
	}
	if pressed(ebiten.KeyE) {
		g.endRound()
	}
	if pressed(ebiten.KeyEscape) {
		g.battle.Deselect()
	}
	if pressed(ebiten.KeyB) {
		g.boost()
	}
	for i, k := range weaponKeys {
		if pressed(k) {
			g.selectWeapon(i)
		}
	}
}

func (g *Game) endRound() {
	if err := g.battle.Submit(battle.EndOfRound{Player: g.battle.Current()}); err != nil {
		g.note(err.Error())
	}
}

// boost uses the selected ship's first available boost.
func (g *Game) boost() {
	s := g.battle.Selected()
	if s == nil {
		g.note(gotext.Get("select a ship first"))
		return
	}
	for i := range s.Boosts {
		if s.CanBoost(i) {
			if err := g.battle.Submit(battle.BoostCommand{Ship: s, Index: i}); err != nil {
				g.note(err.Error())
			}
			return
		}
	}
	g.note(gotext.Get("%s has no boost available", s.Name))
}

func (g *Game) selectWeapon(i int) {
	s := g.battle.Selected()
	if s == nil {
		return
	}
	if err := g.battle.SelectWeapon(s, i); err != nil {
		g.note(gotext.Get("weapon %d: %v", i+1, err))
	}
}

func (g *Game) note(text string) {
	g.log.Add(g.battle.Round(), playerIndex(g.battle), text)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(spaceColor)
	g.drawBoard(screen)
	g.drawSelection(screen)
	g.drawShips(screen)
	g.drawEffects(screen)
	g.drawHUD(screen)
	g.log.Draw(screen, g.width-logPanelWidth, g.height)
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	gr := g.battle.Field().Graph()
	for j := 0; j < g.rows; j++ {
		for i := 0; i < g.cols; i++ {
			c := grid.Cell{I: i, J: j}
			x, y := cellOrigin(float64(i), float64(j))
			switch {
			case gr.Blocked(c):
				vector.FillRect(screen, x, y, cellPx, cellPx, obstacleColor, false)
			case gr.Difficult(c):
				vector.FillRect(screen, x, y, cellPx, cellPx, difficultColor, false)
			}
			vector.StrokeRect(screen, x, y, cellPx, cellPx, 1, gridLineColor, false)
		}
	}
	if g.hoverOK {
		x, y := cellOrigin(float64(g.hover.I), float64(g.hover.J))
		vector.FillRect(screen, x, y, cellPx, cellPx, hoverColor, false)
	}
}

func (g *Game) drawSelection(screen *ebiten.Image) {
	if g.battle.Phase() != battle.ShipSelected {
		return
	}
	if r := g.battle.SelectedReach(); r != nil {
		for _, c := range r.Sorted() {
			x, y := cellOrigin(float64(c.I), float64(c.J))
			vector.FillRect(screen, x+2, y+2, cellPx-4, cellPx-4, reachColor, false)
		}
	}
	for _, t := range g.battle.SelectedTargets() {
		x, y := cellOrigin(float64(t.Position.I), float64(t.Position.J))
		vector.StrokeRect(screen, x+1, y+1, cellPx-2, cellPx-2, 2, targetColor, false)
	}
}

func (g *Game) drawShips(screen *ebiten.Image) {
	sel := g.battle.Selected()
	for pi, p := range g.battle.Players() {
		col := playerColor(pi)
		for _, s := range p.Fleet() {
			i, j, ok := g.anim.ShipPos(s.ID)
			if !ok {
				i, j = float64(s.Position.I), float64(s.Position.J)
			}
			cx, cy := cellCenter(i, j)
			body := col
			if s.TurnCompleted() {
				body = dim(col)
			}
			vector.FillCircle(screen, cx, cy, cellPx/2-6, body, true)
			if s == sel {
				vector.StrokeCircle(screen, cx, cy, cellPx/2-2, 2, colornames.White, true)
			}
			g.drawHullBar(screen, s, cx, cy)
			ebitenutil.DebugPrintAt(screen, shortName(s.Name), int(cx)-6, int(cy)-8)
		}
	}
}

func (g *Game) drawHullBar(screen *ebiten.Image, s *ship.Ship, cx, cy float32) {
	if s.MaxHull <= 0 {
		return
	}
	w := float32(cellPx - 8)
	frac := float32(s.Hull) / float32(s.MaxHull)
	x, y := cx-w/2, cy+cellPx/2-5
	vector.FillRect(screen, x, y, w, 3, colornames.Darkred, false)
	vector.FillRect(screen, x, y, w*frac, 3, colornames.Limegreen, false)
}

func (g *Game) drawEffects(screen *ebiten.Image) {
	if bc := g.anim.beam(); bc != nil {
		x0, y0 := cellCenter(float64(bc.from.I), float64(bc.from.J))
		x1, y1 := cellCenter(float64(bc.to.I), float64(bc.to.J))
		width := float32(3) * float32(beamTicks-bc.tick) / beamTicks
		vector.StrokeLine(screen, x0, y0, x1, y1, width+1, beamColor(bc.result), true)
	}
	for _, f := range g.anim.effects {
		cx, cy := cellCenter(float64(f.at.I), float64(f.at.J))
		r := float32(cellPx/4) + float32(f.tick)
		vector.StrokeCircle(screen, cx, cy, r, 2, colornames.Orange, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	b := g.battle
	top := borderWidth*2 + g.boardH
	vector.FillRect(screen, 0, float32(top), float32(g.width-logPanelWidth), hudHeight, color.RGBA{R: 12, G: 14, B: 26, A: 255}, false)

	status := gotext.Get("Round %d", b.Round())
	if cur := b.Current(); cur != nil {
		who := gotext.Get("human")
		if b.Brain(cur) != nil {
			who = gotext.Get("AI")
		}
		status += "  " + gotext.Get("%s (%s) to act", cur.Name(), who)
	}
	status += "  [" + b.Phase().String() + "]"
	if g.opts.Spectators != nil {
		status += "  " + gotext.Get("spectators: %d", g.opts.Spectators())
	}
	ebitenutil.DebugPrintAt(screen, status, borderWidth, top+4)

	switch {
	case b.Phase() == battle.GameOver && b.Winner() != nil:
		ebitenutil.DebugPrintAt(screen, gotext.Get("GAME OVER: %s wins", b.Winner().Name()), borderWidth, top+22)
	case b.Phase() == battle.GameOver:
		ebitenutil.DebugPrintAt(screen, gotext.Get("GAME OVER: draw"), borderWidth, top+22)
	case b.Stalled():
		ebitenutil.DebugPrintAt(screen, gotext.Get("battle stalled: the AI made no move"), borderWidth, top+22)
	case b.Selected() != nil:
		for n, line := range shipLines(b.Selected()) {
			ebitenutil.DebugPrintAt(screen, line, borderWidth, top+22+n*16)
		}
	}
	if g.showHelp {
		help := gotext.Get("click: select/move/attack  1-9: weapon  B: boost  E: end round  Esc: deselect  C: copy log  H: help")
		ebitenutil.DebugPrintAt(screen, help, borderWidth, top+hudHeight-18)
	}
}

// shipLines describes s for the HUD.
func shipLines(s *ship.Ship) []string {
	lines := []string{gotext.Get("%s (%s)  hull %d/%d  speed %.0f", s.Name, s.Type, s.Hull, s.MaxHull, s.Speed)}
	var ws []string
	for i, w := range s.Weapons {
		mark := " "
		if i == s.Active {
			mark = "*"
		}
		state := fmt.Sprintf("%.0f°", w.Temperature)
		switch {
		case w.Jammed:
			state = gotext.Get("jammed")
		case w.Overheated():
			state = gotext.Get("hot")
		}
		ws = append(ws, fmt.Sprintf("%s%d:%s r%.0f %s", mark, i+1, w.Name, w.Range, state))
	}
	lines = append(lines, strings.Join(ws, "  "))
	var bs []string
	for _, bo := range s.Boosts {
		bs = append(bs, fmt.Sprintf("%s x%d", bo.Mod, bo.Uses))
	}
	if len(bs) > 0 {
		lines = append(lines, gotext.Get("boosts: %s", strings.Join(bs, ", ")))
	}
	return lines
}

func shortName(name string) string {
	r := []rune(name)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
