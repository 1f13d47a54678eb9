package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leonelquinteros/gotext"

	"github.com/Garsondee/void-tactics/internal/battle"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 16
)

// MessageEntry is a single line in the message log.
type MessageEntry struct {
	Round  int
	Player int // index into the battle's players, -1 for none
	Text   string
}

// MessageLog is a ring buffer of battle messages rendered on-screen.
type MessageLog struct {
	entries []MessageEntry
	head    int
	count   int
}

func NewMessageLog() *MessageLog {
	return &MessageLog{entries: make([]MessageEntry, logMaxEntries)}
}

// Attach records every Message event b emits, tagged with the player whose
// turn it is.
func (ml *MessageLog) Attach(b *battle.Battle) {
	b.Subscribe(func(e battle.Event) {
		m, ok := e.(battle.Message)
		if !ok {
			return
		}
		ml.Add(b.Round(), playerIndex(b), m.Text)
	})
}

func playerIndex(b *battle.Battle) int {
	cur := b.Current()
	for i, p := range b.Players() {
		if p == cur {
			return i
		}
	}
	return -1
}

// Add appends an entry, overwriting the oldest when full.
func (ml *MessageLog) Add(round, player int, text string) {
	ml.entries[ml.head] = MessageEntry{Round: round, Player: player, Text: text}
	ml.head = (ml.head + 1) % logMaxEntries
	if ml.count < logMaxEntries {
		ml.count++
	}
}

// Recent returns entries oldest first.
func (ml *MessageLog) Recent() []MessageEntry {
	out := make([]MessageEntry, ml.count)
	for i := 0; i < ml.count; i++ {
		out[i] = ml.entries[(ml.head-ml.count+i+logMaxEntries)%logMaxEntries]
	}
	return out
}

// Text renders the log as plain lines for the clipboard.
func (ml *MessageLog) Text() string {
	var sb strings.Builder
	for _, e := range ml.Recent() {
		fmt.Fprintf(&sb, "[R%02d] %s\n", e.Round, e.Text)
	}
	return sb.String()
}

// Draw renders the log panel at panelX, newest entry at the bottom.
func (ml *MessageLog) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, float32(panelH), color.RGBA{R: 8, G: 10, B: 18, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1, color.RGBA{R: 50, G: 60, B: 90, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, 18, color.RGBA{R: 18, G: 22, B: 40, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, gotext.Get("BATTLE LOG"), panelX+8, 2)

	entries := ml.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	y := 22
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(panelX+2), float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 24, G: 30, B: 52, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+5), 3, 6, playerColor(e.Player), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%02d %s", e.Round, e.Text), panelX+12, y)
		y += logLineHeight
	}
}
