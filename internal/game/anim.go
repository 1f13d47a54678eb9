package game

import (
	"github.com/Garsondee/void-tactics/internal/battle"
	"github.com/Garsondee/void-tactics/internal/grid"
)

const (
	ticksPerCell = 6
	beamTicks    = 24
	flashTicks   = 20
)

// clip is one running animation. Clips tied to an asynchronous battle
// command report back to the battle when they end.
type clip interface {
	step() bool // advances one tick, true when done
	command() bool
}

// moveClip slides a ship along its path one cell at a time.
type moveClip struct {
	ship int
	path []grid.Cell // includes the starting cell
	tick int
}

func (m *moveClip) step() bool {
	m.tick++
	return m.tick >= (len(m.path)-1)*ticksPerCell
}

func (m *moveClip) command() bool { return true }

// pos returns the interpolated position in cell units.
func (m *moveClip) pos() (float64, float64) {
	seg := m.tick / ticksPerCell
	if seg >= len(m.path)-1 {
		last := m.path[len(m.path)-1]
		return float64(last.I), float64(last.J)
	}
	t := float64(m.tick%ticksPerCell) / ticksPerCell
	a, b := m.path[seg], m.path[seg+1]
	return float64(a.I) + t*float64(b.I-a.I), float64(a.J) + t*float64(b.J-a.J)
}

// beamClip draws a weapon beam from attacker to defender.
type beamClip struct {
	from, to grid.Cell
	result   string
	tick     int
}

func (b *beamClip) step() bool {
	b.tick++
	return b.tick >= beamTicks
}

func (*beamClip) command() bool { return true }

// flashClip marks a destroyed ship's last cell. It runs alongside
// command clips and never holds the battle.
type flashClip struct {
	at   grid.Cell
	tick int
}

func (f *flashClip) step() bool {
	f.tick++
	return f.tick >= flashTicks
}

func (*flashClip) command() bool { return false }

// Animator turns battle events into clips and completes the matching
// asynchronous command once a clip has played.
type Animator struct {
	b       *battle.Battle
	current clip
	effects []*flashClip
}

// NewAnimator subscribes to b. The battle must not be synchronous.
func NewAnimator(b *battle.Battle) *Animator {
	a := &Animator{b: b}
	b.Subscribe(a.onEvent)
	return a
}

func (a *Animator) onEvent(e battle.Event) {
	switch ev := e.(type) {
	case battle.ShipMoved:
		path := append([]grid.Cell{ev.From}, ev.Path...)
		if len(path) < 2 {
			path = append(path, ev.To)
		}
		a.current = &moveClip{ship: ev.Ship.ID, path: path}
	case battle.AttackResolved:
		a.current = &beamClip{from: ev.From, to: ev.To, result: ev.Result}
	case battle.ShipDestroyed:
		a.effects = append(a.effects, &flashClip{at: ev.At})
	}
}

// Busy reports whether a command clip is playing.
func (a *Animator) Busy() bool { return a.current != nil }

// Update advances every clip by one tick. A finished command clip hands
// control back to the battle, which may start the next clip immediately.
func (a *Animator) Update() {
	kept := a.effects[:0]
	for _, f := range a.effects {
		if !f.step() {
			kept = append(kept, f)
		}
	}
	a.effects = kept

	if a.current == nil || !a.current.step() {
		return
	}
	done := a.current
	a.current = nil
	if done.command() && a.b.InFlight() != nil {
		a.b.OnCommandFinished()
	}
}

// ShipPos returns the animated position of ship id in cell units, or false
// when the ship is not moving.
func (a *Animator) ShipPos(id int) (float64, float64, bool) {
	m, ok := a.current.(*moveClip)
	if !ok || m.ship != id {
		return 0, 0, false
	}
	x, y := m.pos()
	return x, y, true
}

func (a *Animator) beam() *beamClip {
	b, _ := a.current.(*beamClip)
	return b
}
