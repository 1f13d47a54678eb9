package battle

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

// TestBattle is a headless battle harness used by tests. It builds the
// grid, fleets and battle from options and records every emitted event.
type TestBattle struct {
	*Battle
	Graph  *grid.Graph
	Roster []*ship.Player
	Events []Event

	rows, cols int
	terrain    []func(*grid.Graph) error
	seed       int64
	cfg        Config
	ships      map[string]*ship.Ship
	nextID     int
	noStart    bool
}

// testOptionKind controls the pass in which an option is applied.
type testOptionKind int

const (
	testOptInfra  testOptionKind = iota // grid size, terrain, seed, config
	testOptPlayer                       // players, applied once the grid exists
	testOptShip                         // ships, applied after players
	testOptBrain                        // brains, applied after players
)

// TestOption is a builder function applied to a TestBattle during construction.
type TestOption struct {
	kind testOptionKind
	fn   func(*TestBattle)
}

// WithGridSize sets the battlefield dimensions.
func WithGridSize(rows, cols int) TestOption {
	return TestOption{testOptInfra, func(tb *TestBattle) {
		tb.rows, tb.cols = rows, cols
	}}
}

// WithObstacle adds an obstacle cell.
func WithObstacle(c grid.Cell) TestOption {
	return TestOption{testOptInfra, func(tb *TestBattle) {
		tb.terrain = append(tb.terrain, func(g *grid.Graph) error { return g.AddObstacle(c) })
	}}
}

// WithDifficult adds a difficult terrain cell.
func WithDifficult(c grid.Cell, factor float64) TestOption {
	return TestOption{testOptInfra, func(tb *TestBattle) {
		tb.terrain = append(tb.terrain, func(g *grid.Graph) error { return g.AddDifficultTerrain(c, factor) })
	}}
}

// WithSeed sets the combat RNG seed for deterministic runs.
func WithSeed(seed int64) TestOption {
	return TestOption{testOptInfra, func(tb *TestBattle) {
		tb.seed = seed
	}}
}

// WithAsync makes Move and Attack wait for OnCommandFinished.
func WithAsync() TestOption {
	return TestOption{testOptInfra, func(tb *TestBattle) {
		tb.cfg.Synchronous = false
	}}
}

// WithMaxRounds caps the battle length.
func WithMaxRounds(n int) TestOption {
	return TestOption{testOptInfra, func(tb *TestBattle) {
		tb.cfg.MaxRounds = n
	}}
}

// WithoutStart leaves the battle unstarted so the test can call Start.
func WithoutStart() TestOption {
	return TestOption{testOptInfra, func(tb *TestBattle) {
		tb.noStart = true
	}}
}

// WithPlayer adds a player. Players take turns in the order they are added.
func WithPlayer(name string) TestOption {
	return TestOption{testOptPlayer, func(tb *TestBattle) {
		tb.Roster = append(tb.Roster, ship.NewPlayer(name))
	}}
}

// WithShip adds a ship named name to player at cell c.
func WithShip(player, name string, c grid.Cell, speed float64, hull int, weapons ...ship.Weapon) TestOption {
	return TestOption{testOptShip, func(tb *TestBattle) {
		p := tb.Player(player)
		if p == nil {
			panic(fmt.Sprintf("harness: unknown player %q", player))
		}
		s := ship.New(tb.nextID, name, "test", speed, hull, ship.Slots{Weapon: len(weapons), Mod: 4, Boost: 2})
		tb.nextID++
		for _, w := range weapons {
			wc := w
			_ = s.AddWeapon(&wc)
		}
		if err := tb.Battle.field.Place(s, c); err != nil {
			panic(fmt.Sprintf("harness: place %s at %s: %v", name, c, err))
		}
		p.AddShip(s)
		tb.ships[name] = s
	}}
}

// WithBrain makes player an AI player driven by br.
func WithBrain(player string, br Brain) TestOption {
	return TestOption{testOptBrain, func(tb *TestBattle) {
		tb.cfg.Brains[tb.Player(player)] = br
	}}
}

// TestWeapon returns a cold weapon with the given characteristics.
func TestWeapon(rng float64, precision, reliability float64, dmgMin, dmgMax int) ship.Weapon {
	return ship.Weapon{
		Name:        "test-gun",
		Range:       rng,
		Precision:   precision,
		Reliability: reliability,
		RateOfFire:  3,
		DamageMin:   dmgMin,
		DamageMax:   dmgMax,
	}
}

// NewTestBattle constructs a synchronous TestBattle in ordered passes:
//  1. Infrastructure (grid size, terrain, seed, config)
//  2. Build the graph and field
//  3. Players
//  4. Ships and brains
//  5. Start
func NewTestBattle(opts ...TestOption) *TestBattle {
	tb := &TestBattle{
		rows:  8,
		cols:  8,
		seed:  1,
		cfg:   Config{Synchronous: true, Brains: map[*ship.Player]Brain{}},
		ships: map[string]*ship.Ship{},
	}
	for _, o := range opts {
		if o.kind == testOptInfra {
			o.fn(tb)
		}
	}
	g, err := grid.NewGraph(tb.rows, tb.cols)
	if err != nil {
		panic(err)
	}
	for _, fn := range tb.terrain {
		if err := fn(g); err != nil {
			panic(err)
		}
	}
	tb.Graph = g
	// A placeholder battle owns the field until the real one is built.
	tb.Battle = &Battle{field: NewField(g)}
	for _, o := range opts {
		if o.kind == testOptPlayer {
			o.fn(tb)
		}
	}
	for _, o := range opts {
		if o.kind == testOptShip || o.kind == testOptBrain {
			o.fn(tb)
		}
	}
	tb.cfg.Seed = tb.seed
	b := New(tb.Battle.field, tb.Roster, tb.cfg)
	b.Subscribe(func(e Event) { tb.Events = append(tb.Events, e) })
	tb.Battle = b
	if !tb.noStart {
		b.Start()
	}
	return tb
}

// Player looks up a player by name.
func (tb *TestBattle) Player(name string) *ship.Player {
	for _, p := range tb.Roster {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Ship looks up a ship by name, including destroyed ships.
func (tb *TestBattle) Ship(name string) *ship.Ship {
	return tb.ships[name]
}

// EventsOf returns recorded events with the given kind.
func (tb *TestBattle) EventsOf(kind string) []Event {
	var out []Event
	for _, e := range tb.Events {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// RandomSource returns a deterministic RNG derived from the harness seed,
// for brains under test.
func (tb *TestBattle) RandomSource() *rand.Rand {
	return rand.New(rand.NewSource(tb.seed)) // #nosec G404 -- test harness
}
