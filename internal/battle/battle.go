// Package battle runs a turn-based battle: whose turn it is, which actions
// are legal in the current phase, and the strictly ordered execution of
// move, attack, boost and end-of-round commands.
package battle

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/leonelquinteros/gotext"

	"github.com/Garsondee/void-tactics/internal/combat"
	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

var (
	ErrNotYourTurn  = errors.New("battle: not your turn")
	ErrAlreadyActed = errors.New("battle: ship already acted")
	ErrOutOfRange   = fmt.Errorf("battle: %w", grid.ErrOutOfRange)
	ErrBusy         = errors.New("battle: command in progress")
	ErrGameOver     = errors.New("battle: game is over")
)

// errNothingInFlight is the panic value of OnCommandFinished when no
// command is awaiting completion.
var errNothingInFlight = errors.New("battle: command finished but none in flight")

// Brain drives a non-human player. Think is called whenever the current
// player has a brain and the command queue is idle; it must submit at least
// one command through the public API or the battle is marked stalled.
type Brain interface {
	Think(b *Battle)
}

// Config tunes a battle.
type Config struct {
	// Brains maps AI players to their brain. Players absent from the map
	// are human.
	Brains map[*ship.Player]Brain
	// Synchronous completes Move and Attack commands as soon as they execute
	// instead of waiting for OnCommandFinished.
	Synchronous bool
	Seed        int64
	// MaxRounds ends the battle in a draw once the round counter exceeds it.
	// Zero means no limit.
	MaxRounds int
}

// Battle is the turn and phase state machine of one engagement. It is not
// safe for concurrent use; every mutation happens on the caller's goroutine
// through the command queue.
type Battle struct {
	field    *Field
	players  []*ship.Player
	brains   map[*ship.Player]Brain
	resolver *combat.Resolver
	cfg      Config

	turn   int // index into players
	round  int
	serial int // increments every time a turn starts
	phase  Phase
	winner *ship.Player

	selected *ship.Ship
	reach    *grid.Reach
	targets  []*ship.Ship

	queue    []Command
	inFlight Command
	pumping  bool
	stalled  bool
	started  bool

	pending []string
	subs    []func(Event)

	Log *Log
}

// New creates a battle over field between players. Ships must already be
// placed on the field and added to their player's fleet.
func New(field *Field, players []*ship.Player, cfg Config) *Battle {
	brains := make(map[*ship.Player]Brain, len(cfg.Brains))
	for p, br := range cfg.Brains {
		brains[p] = br
	}
	b := &Battle{
		field:    field,
		players:  players,
		brains:   brains,
		resolver: combat.NewResolver(rand.New(rand.NewSource(cfg.Seed))), // #nosec G404 -- gameplay rolls
		cfg:      cfg,
		phase:    Idle,
		Log:      NewLog(),
	}
	b.Subscribe(b.Log.Record)
	return b
}

// Start begins round 1 with the first player that still has ships.
func (b *Battle) Start() {
	if b.started {
		return
	}
	b.started = true
	b.round = 1
	if b.checkGameOver() {
		return
	}
	b.turn = -1
	for i, p := range b.players {
		if !p.Lost() {
			b.turn = i
			break
		}
	}
	b.beginTurn()
	b.pump()
}

// Subscribe registers fn to receive every subsequent event.
func (b *Battle) Subscribe(fn func(Event)) {
	b.subs = append(b.subs, fn)
}

func (b *Battle) emit(e Event) {
	for _, fn := range b.subs {
		fn(e)
	}
}

func (b *Battle) Field() *Field           { return b.field }
func (b *Battle) Players() []*ship.Player { return b.players }
func (b *Battle) Phase() Phase            { return b.phase }
func (b *Battle) Round() int              { return b.round }
func (b *Battle) TurnSerial() int         { return b.serial }
func (b *Battle) Selected() *ship.Ship    { return b.selected }
func (b *Battle) Stalled() bool           { return b.stalled }
func (b *Battle) InFlight() Command       { return b.inFlight }
func (b *Battle) Winner() *ship.Player    { return b.winner }

// Brain returns p's brain, nil for a human player.
func (b *Battle) Brain(p *ship.Player) Brain { return b.brains[p] }

// Current returns the player whose turn it is.
func (b *Battle) Current() *ship.Player {
	if b.turn < 0 || b.turn >= len(b.players) {
		return nil
	}
	return b.players[b.turn]
}

// ShipByID finds a ship still in play.
func (b *Battle) ShipByID(id int) *ship.Ship {
	for _, p := range b.players {
		for _, s := range p.Fleet() {
			if s.ID == id {
				return s
			}
		}
	}
	return nil
}

// SelectedReach returns the cached reach of the selected ship, or nil.
func (b *Battle) SelectedReach() *grid.Reach { return b.reach }

// SelectedTargets returns the cached targets of the selected ship.
func (b *Battle) SelectedTargets() []*ship.Ship { return b.targets }

// ReachableCells returns the cells s can move to this turn. A ship that has
// already moved reaches nothing.
func (b *Battle) ReachableCells(s *ship.Ship) *grid.Reach {
	if s == b.selected && b.reach != nil {
		return b.reach
	}
	if s.MoveCompleted {
		return nil
	}
	r, err := b.field.ReachableCells(s)
	if err != nil {
		return nil
	}
	return r
}

// TargetsInRange lists enemy ships, in roster order, within range of s's
// active weapon and in clear line of sight.
func (b *Battle) TargetsInRange(s *ship.Ship) []*ship.Ship {
	w := s.ActiveWeapon()
	if w == nil {
		return nil
	}
	var out []*ship.Ship
	for _, p := range b.players {
		if p == s.Owner {
			continue
		}
		for _, e := range p.Fleet() {
			if grid.EuclideanDistance(s.Position, e.Position) > w.Range {
				continue
			}
			if !b.field.ClearLineOfSight(s.Position, e.Position) {
				continue
			}
			out = append(out, e)
		}
	}
	return out
}

// Select makes s the selected ship. Selecting while another ship is
// selected switches the selection.
func (b *Battle) Select(s *ship.Ship) error {
	switch b.phase {
	case Idle:
	case ShipSelected:
		if s == b.selected {
			return nil
		}
	case GameOver:
		return ErrGameOver
	default:
		return ErrBusy
	}
	if err := b.checkActor(s); err != nil {
		return err
	}
	if b.brains[s.Owner] != nil {
		return ErrNotYourTurn
	}
	if s.TurnCompleted() {
		return ErrAlreadyActed
	}
	if b.phase == ShipSelected {
		b.setPhase(Idle)
	}
	b.selected = s
	b.setPhase(ShipSelected)
	return nil
}

// Deselect drops the current selection.
func (b *Battle) Deselect() {
	if b.phase == ShipSelected {
		b.setPhase(Idle)
	}
}

// SelectWeapon changes s's active weapon and refreshes its targets.
func (b *Battle) SelectWeapon(s *ship.Ship, idx int) error {
	if err := s.SelectWeapon(idx); err != nil {
		return err
	}
	if b.phase == ShipSelected && b.selected == s {
		b.refreshSelection()
	}
	return nil
}

// ClickCell is the single entry point for pointer input. Clicks that do not
// match a legal action are ignored, sometimes with a message.
func (b *Battle) ClickCell(c grid.Cell) {
	defer b.flushMessages()
	if !b.field.graph.InBounds(c) {
		return
	}
	switch b.phase {
	case Idle:
		s := b.field.ShipAt(c)
		if s == nil {
			return
		}
		switch err := b.Select(s); {
		case errors.Is(err, ErrNotYourTurn):
			b.notify("%s is not yours", s.Name)
		case errors.Is(err, ErrAlreadyActed):
			b.notify("%s has already acted", s.Name)
		}
	case ShipSelected:
		b.clickSelected(c)
	}
}

func (b *Battle) clickSelected(c grid.Cell) {
	sel := b.selected
	switch s := b.field.ShipAt(c); {
	case s == sel:
		b.Deselect()
	case s != nil && s.Owner != sel.Owner:
		var err error
		if sel.AttackCompleted {
			err = ErrAlreadyActed
		} else {
			err = b.Submit(AttackCommand{Ship: sel, Target: s})
		}
		b.explain(err, s)
	case s != nil:
		// Another friendly ship: keep the current selection.
	case b.reach != nil && b.reach.Contains(c):
		b.explain(b.Submit(MoveCommand{Ship: sel, Dest: c}), nil)
	}
}

func (b *Battle) explain(err error, target *ship.Ship) {
	switch {
	case err == nil:
	case errors.Is(err, combat.ErrWeaponOverheated):
		b.notify("weapon overheating")
	case errors.Is(err, combat.ErrWeaponJammed):
		b.notify("weapon jammed")
	case errors.Is(err, combat.ErrNoActiveWeapon):
		b.notify("no weapon selected")
	case errors.Is(err, ErrAlreadyActed):
		b.notify("%s has already attacked", b.selected.Name)
	case errors.Is(err, ErrOutOfRange) && target != nil:
		b.notify("%s is out of range", target.Name)
	}
}

// Submit queues cmd. When nothing is in flight the command is validated
// immediately and an error is returned for an illegal action; commands
// submitted behind an in-flight one are validated when dequeued and
// silently dropped if they are no longer legal.
func (b *Battle) Submit(cmd Command) error {
	if b.phase == GameOver {
		return ErrGameOver
	}
	if b.inFlight == nil && len(b.queue) == 0 {
		if err := cmd.check(b); err != nil {
			return err
		}
	}
	b.stalled = false
	b.queue = append(b.queue, cmd)
	b.pump()
	return nil
}

// OnCommandFinished is the completion callback of an asynchronous command.
// It panics when no command is in flight.
func (b *Battle) OnCommandFinished() {
	if b.inFlight == nil {
		panic(errNothingInFlight)
	}
	b.complete()
	b.pump()
}

// pump dispatches queued commands until one is left in flight, the queue
// drains, or the game ends. During an AI turn an idle queue asks the brain
// for the next command.
func (b *Battle) pump() {
	if b.pumping {
		return
	}
	b.pumping = true
	defer func() { b.pumping = false }()

	for b.inFlight == nil {
		if b.phase == GameOver {
			b.queue = nil
			return
		}
		if len(b.queue) == 0 {
			if b.phase != AITurn {
				return
			}
			br := b.brains[b.Current()]
			serial := b.serial
			br.Think(b)
			if len(b.queue) == 0 && b.inFlight == nil && serial == b.serial {
				b.stalled = true
				b.emit(BattleStalled{Player: b.Current().Name()})
				return
			}
			continue
		}
		cmd := b.queue[0]
		b.queue = b.queue[1:]
		b.dispatch(cmd)
	}
}

func (b *Battle) dispatch(cmd Command) {
	if p := cmd.phase(); p >= 0 && !canTransition(b.phase, p) {
		b.drop(cmd, IllegalPhaseTransition{From: b.phase, To: p})
		return
	}
	if err := cmd.check(b); err != nil {
		b.drop(cmd, err)
		return
	}
	if p := cmd.phase(); p >= 0 {
		if sh := commandShip(cmd); sh != nil && b.phase == ShipSelected {
			b.selected = sh
		}
		b.setPhase(p)
	}
	b.inFlight = cmd
	cmd.execute(b)
	if !cmd.async() || b.cfg.Synchronous {
		b.complete()
	}
}

// drop records a queued command that is no longer legal.
func (b *Battle) drop(cmd Command, err error) {
	b.Log.Add(b.round, "--", "command", "dropped", cmd.String()+": "+err.Error(), 0)
}

func commandShip(cmd Command) *ship.Ship {
	switch c := cmd.(type) {
	case MoveCommand:
		return c.Ship
	case AttackCommand:
		return c.Ship
	}
	return nil
}

func (b *Battle) complete() {
	cmd := b.inFlight
	b.inFlight = nil
	cmd.finish(b)
}

// checkActor verifies s belongs to the current player and the game is on.
func (b *Battle) checkActor(s *ship.Ship) error {
	if b.phase == GameOver {
		return ErrGameOver
	}
	if s == nil || s.Owner == nil || s.Owner != b.Current() {
		return ErrNotYourTurn
	}
	return nil
}

// checkPhase panics if a command entering phase to cannot start now.
func (b *Battle) checkPhase(to Phase) {
	if !canTransition(b.phase, to) {
		panic(IllegalPhaseTransition{From: b.phase, To: to})
	}
}

func (b *Battle) setPhase(to Phase) {
	from := b.phase
	b.checkPhase(to)
	b.exitPhase(from, to)
	b.phase = to
	b.enterPhase(to)
	b.emit(PhaseChanged{From: from, To: to})
}

func (b *Battle) exitPhase(from, to Phase) {
	b.flushMessages()
	if from == ShipSelected {
		b.reach = nil
		b.targets = nil
	}
}

func (b *Battle) enterPhase(p Phase) {
	switch p {
	case Idle, AITurn, GameOver:
		if b.selected != nil {
			prev := b.selected
			b.selected = nil
			b.emit(ShipDeselected{Ship: refOf(prev)})
		}
	case ShipSelected:
		b.refreshSelection()
	}
}

// refreshSelection recomputes the selected ship's reach and targets.
func (b *Battle) refreshSelection() {
	s := b.selected
	b.reach = nil
	b.targets = nil
	if !s.MoveCompleted {
		if r, err := b.field.ReachableCells(s); err == nil {
			b.reach = r
		}
	}
	if !s.AttackCompleted {
		b.targets = b.TargetsInRange(s)
	}
	b.emit(ShipSelectedEvent{Ship: refOf(s), Reachable: b.reach.Sorted(), Targets: refsOf(b.targets)})
}

// afterAction runs once a move or attack has finished.
func (b *Battle) afterAction(s *ship.Ship) {
	if b.checkGameOver() {
		return
	}
	cur := b.Current()
	switch {
	case cur.TurnCompleted():
		b.endTurn()
	case b.brains[cur] != nil:
		b.setPhase(AITurn)
	case !s.TurnCompleted() && s.Owner == cur:
		b.selected = s
		b.setPhase(ShipSelected)
	default:
		b.setPhase(Idle)
	}
}

func (b *Battle) destroy(s *ship.Ship) {
	at := s.Position
	b.field.Remove(s)
	if s.Owner != nil {
		s.Owner.RemoveShip(s)
	}
	b.emit(ShipDestroyed{Ship: refOf(s), At: at})
	b.notify("%s destroyed", s.Name)
}

// checkGameOver enters GameOver when at most one player still has ships or
// the round limit is exceeded.
func (b *Battle) checkGameOver() bool {
	if b.phase == GameOver {
		return true
	}
	var alive []*ship.Player
	for _, p := range b.players {
		if !p.Lost() {
			alive = append(alive, p)
		}
	}
	draw := b.cfg.MaxRounds > 0 && b.round > b.cfg.MaxRounds
	if len(alive) > 1 && !draw {
		return false
	}
	if len(alive) == 1 && !draw {
		b.winner = alive[0]
	}
	b.setPhase(GameOver)
	name := ""
	if b.winner != nil {
		name = b.winner.Name()
		b.notify("%s wins", name)
	} else {
		b.notify("draw")
	}
	b.flushMessages()
	b.emit(GameEnded{Winner: name, Round: b.round})
	return true
}

// endTurn completes the current player's turn and hands over to the next
// player, in round-robin order, that still has ships.
func (b *Battle) endTurn() {
	cur := b.Current()
	cur.CompleteTurn()
	b.emit(TurnEnded{Player: cur.Name(), Round: b.round})
	if b.checkGameOver() {
		return
	}
	n := len(b.players)
	next := b.turn
	for k := 1; k <= n; k++ {
		idx := (b.turn + k) % n
		if !b.players[idx].Lost() {
			next = idx
			break
		}
	}
	if next <= b.turn { // wrapped past the last player
		b.emit(RoundEnded{Round: b.round})
		b.round++
		if b.checkGameOver() {
			return
		}
	}
	b.turn = next
	b.beginTurn()
}

func (b *Battle) beginTurn() {
	p := b.Current()
	b.serial++
	p.ResetShipsTurn()
	b.emit(TurnStarted{Player: p.Name(), Round: b.round})
	b.notify("%s's turn", p.Name())
	if b.brains[p] != nil {
		b.setPhase(AITurn)
	} else {
		b.setPhase(Idle)
	}
}

// notify buffers a translated user-facing message. Buffered messages are
// flushed as Message events when the current phase exits.
func (b *Battle) notify(format string, args ...interface{}) {
	b.pending = append(b.pending, gotext.Get(format, args...))
}

// FlushMessages emits every buffered message now.
func (b *Battle) FlushMessages() { b.flushMessages() }

func (b *Battle) flushMessages() {
	msgs := b.pending
	b.pending = nil
	for _, m := range msgs {
		b.emit(Message{Text: m})
	}
}
