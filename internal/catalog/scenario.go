package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/zyedidia/generic/mapset"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/void-tactics/internal/battle"
	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

var ErrNoPlacement = errors.New("catalog: no free cell for ship")

//go:embed data/skirmish.yaml
var defaultScenario []byte

// Scenario lists the map and the fleets of one battle.
type Scenario struct {
	Name    string         `yaml:"name"`
	Map     grid.Battlemap `yaml:"map"`
	Players []PlayerSpec   `yaml:"players"`
}

type PlayerSpec struct {
	Name  string      `yaml:"name"`
	AI    bool        `yaml:"ai"`
	Fleet []FleetSpec `yaml:"fleet"`
}

// FleetSpec places one ship. A nil Position means a random free cell.
type FleetSpec struct {
	Type     string     `yaml:"type"`
	Name     string     `yaml:"name"`
	Position *grid.Cell `yaml:"position"`
	Mods     []ModSpec  `yaml:"mods"`
	Boosts   []ModSpec  `yaml:"boosts"`
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: scenario: %v", ErrMalformedCatalog, err)
	}
	if len(sc.Players) == 0 {
		return nil, fmt.Errorf("%w: scenario has no players", ErrMalformedCatalog)
	}
	return &sc, nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return ParseScenario(data)
}

// DefaultScenario returns the embedded two-fleet skirmish.
func DefaultScenario() *Scenario {
	sc, err := ParseScenario(defaultScenario)
	if err != nil {
		panic(err)
	}
	return sc
}

// Setup is an assembled battlefield ready for battle.New.
type Setup struct {
	Name    string
	Graph   *grid.Graph
	Field   *battle.Field
	Players []*ship.Player
	AI      []*ship.Player
}

// Brains builds the brain map for battle.Config, one fresh brain per AI
// player.
func (s *Setup) Brains(newBrain func(p *ship.Player) battle.Brain) map[*ship.Player]battle.Brain {
	m := make(map[*ship.Player]battle.Brain, len(s.AI))
	for _, p := range s.AI {
		m[p] = newBrain(p)
	}
	return m
}

// Assemble generates the map, builds every ship and places the fleets.
// Fixed positions are kept clear of obstacles; ships without one land on a
// random free cell drawn from seed.
func Assemble(cat *Catalog, sc *Scenario, seed int64) (*Setup, error) {
	reserved := mapset.New[grid.Cell]()
	for _, ps := range sc.Players {
		for _, fs := range ps.Fleet {
			if fs.Position == nil {
				continue
			}
			if reserved.Has(*fs.Position) {
				return nil, fmt.Errorf("%w: two ships at %v", ErrMalformedCatalog, *fs.Position)
			}
			reserved.Put(*fs.Position)
		}
	}
	g, err := grid.Generate(sc.Map, reserved)
	if err != nil {
		return nil, fmt.Errorf("%w: map: %v", ErrMalformedCatalog, err)
	}
	field := battle.NewField(g)
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- placement only
	setup := &Setup{Name: sc.Name, Graph: g, Field: field}

	id := 0
	var pending []*ship.Ship
	for _, ps := range sc.Players {
		p := ship.NewPlayer(ps.Name)
		setup.Players = append(setup.Players, p)
		if ps.AI {
			setup.AI = append(setup.AI, p)
		}
		for _, fs := range ps.Fleet {
			id++
			s, err := cat.build(id, fs)
			if err != nil {
				return nil, fmt.Errorf("player %q: %w", ps.Name, err)
			}
			p.AddShip(s)
			if fs.Position == nil {
				pending = append(pending, s)
				continue
			}
			if err := field.Place(s, *fs.Position); err != nil {
				return nil, fmt.Errorf("%w: %s at %v: %v", ErrMalformedCatalog, s, *fs.Position, err)
			}
		}
	}
	// Random placement runs after every fixed ship is down.
	for _, s := range pending {
		c, ok := field.RandomFreeCell(rng)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoPlacement, s)
		}
		if err := field.Place(s, c); err != nil {
			return nil, err
		}
	}
	return setup, nil
}

func (c *Catalog) build(id int, fs FleetSpec) (*ship.Ship, error) {
	s, err := c.NewShip(id, fs.Type, fs.Name)
	if err != nil {
		return nil, err
	}
	for _, ms := range fs.Mods {
		m, err := c.BuildMod(ms)
		if err != nil {
			return nil, err
		}
		if err := s.Install(m); err != nil {
			return nil, fmt.Errorf("%s: install %s: %w", s, m, err)
		}
	}
	for _, ms := range fs.Boosts {
		m, err := c.BuildMod(ms)
		if err != nil {
			return nil, err
		}
		uses := ms.Uses
		if uses <= 0 {
			uses = 1
		}
		if err := s.AddBoost(&ship.Boost{Mod: m, Uses: uses}); err != nil {
			return nil, fmt.Errorf("%s: boost %s: %w", s, m, err)
		}
	}
	s.ResetTurn()
	return s, nil
}
