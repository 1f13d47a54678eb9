package battle

import (
	"errors"
	"strings"
	"testing"

	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

func sureShot(dmg int) ship.Weapon      { return TestWeapon(10, 1, 1, dmg, dmg) }
func neverHits(rng float64) ship.Weapon { return TestWeapon(rng, 0, 1, 1, 1) }

func hasMessage(tb *TestBattle, substr string) bool {
	for _, e := range tb.EventsOf("message") {
		if strings.Contains(e.(Message).Text, substr) {
			return true
		}
	}
	return false
}

func TestBattle_TwoPlayerDestruction(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, sureShot(10)),
		WithShip("B", "raider", grid.Cell{I: 3, J: 0}, 3, 5, sureShot(10)),
	)
	if tb.Phase() != Idle || tb.Current() != tb.Player("A") {
		t.Fatalf("expected A's idle turn, got %s / %v", tb.Phase(), tb.Current())
	}
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	if tb.Phase() != ShipSelected {
		t.Fatalf("expected ShipSelected, got %s", tb.Phase())
	}
	if len(tb.SelectedTargets()) != 1 {
		t.Fatalf("expected one target, got %d", len(tb.SelectedTargets()))
	}
	tb.ClickCell(grid.Cell{I: 3, J: 0})
	if tb.Phase() != GameOver {
		t.Fatalf("expected GameOver, got %s\n%s", tb.Phase(), tb.Log.Format())
	}
	if tb.Winner() != tb.Player("A") {
		t.Fatalf("expected A to win, got %v", tb.Winner())
	}
	if !tb.Player("B").Lost() {
		t.Fatal("destroyed ship should leave B's fleet")
	}
	if tb.Field().Occupied(grid.Cell{I: 3, J: 0}) {
		t.Fatal("destroyed ship should leave the grid")
	}
	if !tb.Log.HasEntry("attack", "destroyed", "") {
		t.Fatalf("log should record the destruction\n%s", tb.Log.Format())
	}
	if len(tb.EventsOf("game_over")) != 1 {
		t.Fatal("expected exactly one game over event")
	}
	if err := tb.Submit(EndOfRound{Player: tb.Player("A")}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver after the end, got %v", err)
	}
}

func TestBattle_MoveThenReselect(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(2)),
		WithShip("B", "raider", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(2)),
	)
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	if !tb.SelectedReach().Contains(grid.Cell{I: 2, J: 0}) {
		t.Fatal("(2,0) should be reachable with speed 3")
	}
	tb.ClickCell(grid.Cell{I: 2, J: 0})
	s := tb.Ship("corsair")
	if s.Position != (grid.Cell{I: 2, J: 0}) || !s.MoveCompleted {
		t.Fatalf("ship should have moved, at %v moved=%v", s.Position, s.MoveCompleted)
	}
	if tb.Phase() != ShipSelected || tb.Selected() != s {
		t.Fatalf("ship should be reselected after moving, phase %s", tb.Phase())
	}
	if tb.SelectedReach() != nil {
		t.Fatal("reach should be discarded after the move")
	}
	moves := tb.EventsOf("ship_moved")
	if len(moves) != 1 {
		t.Fatalf("expected one move event, got %d", len(moves))
	}
	mv := moves[0].(ShipMoved)
	if mv.Path[len(mv.Path)-1] != (grid.Cell{I: 2, J: 0}) || mv.Cost != 2 {
		t.Fatalf("unexpected move event %+v", mv)
	}
	if tb.Field().Occupied(grid.Cell{I: 0, J: 0}) || tb.Field().ShipAt(grid.Cell{I: 2, J: 0}) != s {
		t.Fatal("occupancy not updated")
	}
}

func TestBattle_ClickSelectedShipDeselects(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 1, J: 1}, 3, 20, neverHits(2)),
		WithShip("B", "raider", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(2)),
	)
	tb.ClickCell(grid.Cell{I: 1, J: 1})
	tb.ClickCell(grid.Cell{I: 1, J: 1})
	if tb.Phase() != Idle || tb.Selected() != nil || tb.SelectedReach() != nil {
		t.Fatalf("expected deselection, phase %s", tb.Phase())
	}
	if len(tb.EventsOf("ship_deselected")) != 1 {
		t.Fatal("expected a deselection event")
	}
}

func TestBattle_InvalidClicksAreNoOps(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 2, 20, neverHits(1)),
		WithShip("A", "escort", grid.Cell{I: 0, J: 1}, 2, 20, neverHits(1)),
		WithShip("B", "raider", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(1)),
	)
	tb.ClickCell(grid.Cell{I: 7, J: 7})
	if tb.Phase() != Idle {
		t.Fatalf("enemy ship must not be selectable, phase %s", tb.Phase())
	}
	if !hasMessage(tb, "not yours") {
		t.Fatal("expected a message for the wrong player's ship")
	}
	tb.ClickCell(grid.Cell{I: -3, J: 40})
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	before := len(tb.Events)
	tb.ClickCell(grid.Cell{I: 6, J: 0}) // beyond speed 2
	tb.ClickCell(grid.Cell{I: 0, J: 1}) // another friendly ship
	tb.ClickCell(grid.Cell{I: 7, J: 7}) // enemy out of range
	if tb.Phase() != ShipSelected || tb.Selected() != tb.Ship("corsair") {
		t.Fatalf("invalid clicks should not transition, phase %s", tb.Phase())
	}
	for _, e := range tb.Events[before:] {
		if _, ok := e.(PhaseChanged); ok {
			t.Fatalf("unexpected phase change %+v", e)
		}
	}
	if !hasMessage(tb, "out of range") {
		t.Fatal("expected an out of range message")
	}
}

func TestBattle_OverheatedWeaponAttackIsNoOp(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 2, 20, sureShot(5)),
		WithShip("B", "raider", grid.Cell{I: 2, J: 0}, 3, 20, sureShot(5)),
	)
	tb.Ship("corsair").Weapons[0].Temperature = 90
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	tb.ClickCell(grid.Cell{I: 2, J: 0})
	if tb.Phase() != ShipSelected {
		t.Fatalf("overheated attack should be ignored, phase %s", tb.Phase())
	}
	if tb.Ship("raider").Hull != 20 || tb.Ship("corsair").AttackCompleted {
		t.Fatal("overheated attack must not change state")
	}
	if !hasMessage(tb, "overheating") {
		t.Fatal("expected an overheating message")
	}
}

func TestBattle_TurnAdvancesWhenFleetDone(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(3)),
		WithShip("B", "raider", grid.Cell{I: 5, J: 0}, 3, 20, neverHits(3)),
	)
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	tb.ClickCell(grid.Cell{I: 2, J: 0})
	tb.ClickCell(grid.Cell{I: 5, J: 0})
	if tb.Current() != tb.Player("B") {
		t.Fatalf("turn should pass to B once A's fleet has acted\n%s", tb.Log.Format())
	}
	if tb.Phase() != Idle || tb.Round() != 1 {
		t.Fatalf("expected B's idle turn in round 1, got %s round %d", tb.Phase(), tb.Round())
	}
	r := tb.Ship("raider")
	if r.MoveCompleted || r.AttackCompleted || r.ActiveWeapon() == nil {
		t.Fatal("B's ships should be reset with a weapon selected")
	}
}

func TestBattle_EndOfRoundRoundRobin(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("Empty"), WithPlayer("C"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(1)),
		WithShip("C", "raider", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(1)),
	)
	if err := tb.Submit(EndOfRound{Player: tb.Player("C")}); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if err := tb.Submit(EndOfRound{Player: tb.Player("A")}); err != nil {
		t.Fatal(err)
	}
	if !tb.Ship("corsair").TurnCompleted() {
		t.Fatal("end of round should complete the current player's ships")
	}
	if tb.Current() != tb.Player("C") || tb.Round() != 1 {
		t.Fatalf("expected C in round 1 (empty fleet skipped), got %v round %d", tb.Current().Name(), tb.Round())
	}
	if err := tb.Submit(EndOfRound{Player: tb.Player("C")}); err != nil {
		t.Fatal(err)
	}
	if tb.Current() != tb.Player("A") || tb.Round() != 2 {
		t.Fatalf("expected A in round 2, got %v round %d", tb.Current().Name(), tb.Round())
	}
	if tb.Ship("corsair").TurnCompleted() {
		t.Fatal("new turn should reset ships")
	}
	if len(tb.EventsOf("round_ended")) != 1 {
		t.Fatal("expected one round end event")
	}
}

func TestBattle_EndOfRoundWhileSelected(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(1)),
		WithShip("B", "raider", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(1)),
	)
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	if err := tb.Submit(EndOfRound{Player: tb.Player("A")}); err != nil {
		t.Fatal(err)
	}
	if tb.Phase() != Idle || tb.Selected() != nil || tb.Current() != tb.Player("B") {
		t.Fatalf("expected B's idle turn with no selection, got %s", tb.Phase())
	}
}

func TestBattle_AsyncMoveWaitsForCompletion(t *testing.T) {
	tb := NewTestBattle(WithAsync(),
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(1)),
		WithShip("B", "raider", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(1)),
	)
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	tb.ClickCell(grid.Cell{I: 1, J: 1})
	if tb.Phase() != Move || tb.InFlight() == nil {
		t.Fatalf("move should be in flight, phase %s", tb.Phase())
	}
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	if tb.Phase() != Move {
		t.Fatal("clicks during a move must be ignored")
	}
	tb.OnCommandFinished()
	if tb.Phase() != ShipSelected || tb.InFlight() != nil {
		t.Fatalf("expected ShipSelected after completion, got %s", tb.Phase())
	}
}

func TestBattle_QueuedCommandRunsAfterCompletion(t *testing.T) {
	tb := NewTestBattle(WithAsync(),
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(4)),
		WithShip("B", "raider", grid.Cell{I: 4, J: 0}, 3, 20, neverHits(4)),
	)
	a, r := tb.Ship("corsair"), tb.Ship("raider")
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	tb.ClickCell(grid.Cell{I: 1, J: 0})
	if err := tb.Submit(AttackCommand{Ship: a, Target: r}); err != nil {
		t.Fatalf("queued attack should be accepted: %v", err)
	}
	if tb.Phase() != Move {
		t.Fatalf("attack must wait for the move, phase %s", tb.Phase())
	}
	tb.OnCommandFinished()
	if tb.Phase() != Attack {
		t.Fatalf("queued attack should dispatch after the move, phase %s", tb.Phase())
	}
	tb.OnCommandFinished()
	if tb.Current() != tb.Player("B") {
		t.Fatal("turn should end once the only ship moved and attacked")
	}
}

func TestBattle_StaleQueuedAttackIsDropped(t *testing.T) {
	tb := NewTestBattle(WithAsync(),
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(4)),
		WithShip("A", "lancer", grid.Cell{I: 0, J: 2}, 3, 20, neverHits(4)),
		WithShip("B", "raider", grid.Cell{I: 3, J: 0}, 3, 20, neverHits(4)),
	)
	c, l, r := tb.Ship("corsair"), tb.Ship("lancer"), tb.Ship("raider")
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	tb.ClickCell(grid.Cell{I: 3, J: 0})
	if tb.Phase() != Attack {
		t.Fatalf("attack should be in flight, phase %s", tb.Phase())
	}
	if err := tb.Submit(MoveCommand{Ship: c, Dest: grid.Cell{I: 1, J: 0}}); err != nil {
		t.Fatal(err)
	}
	if err := tb.Submit(AttackCommand{Ship: l, Target: r}); err != nil {
		t.Fatal(err)
	}
	tb.OnCommandFinished()
	if tb.Phase() != Move {
		t.Fatalf("queued move should dispatch, phase %s", tb.Phase())
	}
	tb.OnCommandFinished()
	if tb.Phase() != Idle || tb.InFlight() != nil {
		t.Fatalf("expected idle once the corsair is done, got %s", tb.Phase())
	}
	if l.AttackCompleted {
		t.Fatal("an attack queued from the wrong phase must not run")
	}
	if !tb.Log.HasEntry("command", "dropped", "") {
		t.Fatalf("dropped command should be logged\n%s", tb.Log.Format())
	}
	if tb.Current() != tb.Player("A") {
		t.Fatal("lancer has not acted, turn should stay with A")
	}
}

func TestBattle_SelectionEventCarriesReachAndTargets(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 2, 20, neverHits(4)),
		WithShip("B", "raider", grid.Cell{I: 3, J: 0}, 3, 20, neverHits(4)),
	)
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	evs := tb.EventsOf("ship_selected")
	if len(evs) != 1 {
		t.Fatalf("expected one selection event, got %d", len(evs))
	}
	ev, ok := evs[0].(ShipSelectedEvent)
	if !ok {
		t.Fatalf("unexpected event type %T", evs[0])
	}
	if ev.Ship.Name != "corsair" || ev.Ship.Player != "A" {
		t.Fatalf("wrong ship in event: %+v", ev.Ship)
	}
	if len(ev.Reachable) == 0 {
		t.Fatal("selection event should list reachable cells")
	}
	if len(ev.Targets) != 1 || ev.Targets[0].Name != "raider" {
		t.Fatalf("expected the raider as the only target, got %+v", ev.Targets)
	}
}

func TestBattle_OnCommandFinishedWithoutCommandPanics(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(1)),
		WithShip("B", "raider", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(1)),
	)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	tb.OnCommandFinished()
}

func TestBattle_AttackFromIdlePanics(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, sureShot(1)),
		WithShip("B", "raider", grid.Cell{I: 1, J: 0}, 3, 20, sureShot(1)),
	)
	defer func() {
		r := recover()
		ipt, ok := r.(IllegalPhaseTransition)
		if !ok {
			t.Fatalf("expected IllegalPhaseTransition, got %v", r)
		}
		if ipt.From != Idle || ipt.To != Attack {
			t.Fatalf("unexpected transition %v", ipt)
		}
	}()
	_ = tb.Submit(AttackCommand{Ship: tb.Ship("corsair"), Target: tb.Ship("raider")})
}

func TestBattle_WrongPlayerCommandRejected(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, sureShot(1)),
		WithShip("B", "raider", grid.Cell{I: 1, J: 0}, 3, 20, sureShot(1)),
	)
	err := tb.Submit(MoveCommand{Ship: tb.Ship("raider"), Dest: grid.Cell{I: 2, J: 2}})
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if err := tb.Select(tb.Ship("raider")); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn from Select, got %v", err)
	}
}

func TestBattle_JamDeselectsWeapon(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, TestWeapon(5, 1, 0, 1, 1), sureShot(1)),
		WithShip("B", "raider", grid.Cell{I: 2, J: 0}, 3, 20, sureShot(1)),
	)
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	tb.ClickCell(grid.Cell{I: 2, J: 0})
	a := tb.Ship("corsair")
	if a.ActiveWeapon() != nil || !a.Weapons[0].Jammed || !a.AttackCompleted {
		t.Fatal("jam should deselect the weapon and use the attack")
	}
	last, ok := tb.Log.LastOf("attack", "jammed")
	if !ok || last.Actor != "corsair" {
		t.Fatalf("expected a jammed attack entry\n%s", tb.Log.Format())
	}
	if tb.Phase() != ShipSelected {
		t.Fatalf("ship can still move, expected ShipSelected, got %s", tb.Phase())
	}
	if err := tb.SelectWeapon(a, 0); !errors.Is(err, ship.ErrWeaponJammed) {
		t.Fatalf("expected jammed weapon to be unselectable, got %v", err)
	}
	if err := tb.SelectWeapon(a, 1); err != nil {
		t.Fatal(err)
	}
}

func TestBattle_LineOfSight(t *testing.T) {
	tb := NewTestBattle(
		WithObstacle(grid.Cell{I: 2, J: 3}),
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, sureShot(1)),
		WithShip("A", "escort", grid.Cell{I: 2, J: 0}, 3, 20, sureShot(1)),
		WithShip("B", "raider", grid.Cell{I: 4, J: 0}, 3, 20, sureShot(1)),
		WithShip("B", "hidden", grid.Cell{I: 4, J: 3}, 3, 20, sureShot(1)),
		WithShip("B", "adjacent", grid.Cell{I: 1, J: 1}, 3, 20, sureShot(1)),
	)
	f := tb.Field()
	if f.ClearLineOfSight(grid.Cell{I: 0, J: 0}, grid.Cell{I: 4, J: 0}) {
		t.Fatal("a ship between the endpoints should block line of sight")
	}
	if f.ClearLineOfSight(grid.Cell{I: 0, J: 3}, grid.Cell{I: 4, J: 3}) {
		t.Fatal("an obstacle should block line of sight")
	}
	if !f.ClearLineOfSight(grid.Cell{I: 0, J: 0}, grid.Cell{I: 1, J: 1}) {
		t.Fatal("endpoints must never block")
	}
	targets := tb.TargetsInRange(tb.Ship("corsair"))
	if len(targets) != 1 || targets[0] != tb.Ship("adjacent") {
		t.Fatalf("expected only the adjacent raider, got %v", targets)
	}
	esc := tb.TargetsInRange(tb.Ship("escort"))
	if len(esc) != 3 {
		t.Fatalf("escort should see three enemies in roster order, got %v", esc)
	}
	if esc[0] != tb.Ship("raider") || esc[1] != tb.Ship("hidden") || esc[2] != tb.Ship("adjacent") {
		t.Fatalf("targets not in roster order: %v", esc)
	}
}

func TestBattle_ReachTransitsOccupiedCells(t *testing.T) {
	tb := NewTestBattle(
		WithGridSize(1, 6),
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(1)),
		WithShip("A", "escort", grid.Cell{I: 1, J: 0}, 3, 20, neverHits(1)),
		WithShip("B", "raider", grid.Cell{I: 5, J: 0}, 3, 20, neverHits(1)),
	)
	r := tb.ReachableCells(tb.Ship("corsair"))
	if r.Contains(grid.Cell{I: 1, J: 0}) {
		t.Fatal("occupied cell must not be a destination")
	}
	if !r.Contains(grid.Cell{I: 3, J: 0}) {
		t.Fatal("cells beyond a friendly ship should stay reachable")
	}
	if !r.Contains(grid.Cell{I: 0, J: 0}) {
		t.Fatal("origin stays in the reachable set")
	}
}

func TestBattle_BoostRefreshesReach(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 2, 20, neverHits(1)),
		WithShip("B", "raider", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(1)),
	)
	s := tb.Ship("corsair")
	if err := s.AddBoost(&ship.Boost{Mod: ship.Speed(2), Uses: 1}); err != nil {
		t.Fatal(err)
	}
	tb.ClickCell(grid.Cell{I: 0, J: 0})
	if tb.SelectedReach().Contains(grid.Cell{I: 4, J: 0}) {
		t.Fatal("(4,0) should be out of reach before the boost")
	}
	if err := tb.Submit(BoostCommand{Ship: s, Index: 0}); err != nil {
		t.Fatal(err)
	}
	if !tb.SelectedReach().Contains(grid.Cell{I: 4, J: 0}) {
		t.Fatal("boosted speed should extend the cached reach")
	}
	if err := tb.Submit(BoostCommand{Ship: s, Index: 0}); !errors.Is(err, ship.ErrBoostUnavailable) {
		t.Fatalf("expected ErrBoostUnavailable, got %v", err)
	}
	if tb.Phase() != ShipSelected {
		t.Fatalf("boost should not change phase, got %s", tb.Phase())
	}
}

type idleBrain struct{ calls int }

func (b *idleBrain) Think(*Battle) { b.calls++ }

type endRoundBrain struct{}

func (endRoundBrain) Think(b *Battle) { _ = b.Submit(EndOfRound{Player: b.Current()}) }

func TestBattle_BrainThatSubmitsNothingStalls(t *testing.T) {
	br := &idleBrain{}
	tb := NewTestBattle(
		WithPlayer("AI"), WithPlayer("Human"),
		WithShip("AI", "drone", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(1)),
		WithShip("Human", "corsair", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(1)),
		WithBrain("AI", br),
	)
	if tb.Phase() != AITurn {
		t.Fatalf("expected AITurn, got %s", tb.Phase())
	}
	if !tb.Stalled() || br.calls != 1 {
		t.Fatalf("battle should stall after one empty think step, calls=%d", br.calls)
	}
	if len(tb.EventsOf("stalled")) != 1 {
		t.Fatal("expected a stalled event")
	}
	if err := tb.Select(tb.Ship("drone")); !errors.Is(err, ErrBusy) {
		t.Fatalf("AI ships cannot be selected, got %v", err)
	}
}

func TestBattle_RoundLimitEndsInDraw(t *testing.T) {
	tb := NewTestBattle(WithMaxRounds(3),
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "drone", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(1)),
		WithShip("B", "probe", grid.Cell{I: 7, J: 7}, 3, 20, neverHits(1)),
		WithBrain("A", endRoundBrain{}), WithBrain("B", endRoundBrain{}),
	)
	if tb.Phase() != GameOver {
		t.Fatalf("expected GameOver, got %s", tb.Phase())
	}
	if tb.Winner() != nil {
		t.Fatalf("expected a draw, got winner %s", tb.Winner().Name())
	}
	if n := len(tb.EventsOf("round_ended")); n != 3 {
		t.Fatalf("expected 3 completed rounds, got %d", n)
	}
	if n := len(tb.EventsOf("turn_started")); n != 6 {
		t.Fatalf("expected 6 turns, got %d", n)
	}
}

func TestBattle_StartWithOneFleetIsOver(t *testing.T) {
	tb := NewTestBattle(
		WithPlayer("A"), WithPlayer("B"),
		WithShip("A", "corsair", grid.Cell{I: 0, J: 0}, 3, 20, neverHits(1)),
	)
	if tb.Phase() != GameOver || tb.Winner() != tb.Player("A") {
		t.Fatalf("expected immediate win for A, got %s", tb.Phase())
	}
}
