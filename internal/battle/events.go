package battle

import (
	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

// Event is a typed notification emitted after a battle mutation.
type Event interface {
	Kind() string
}

// ShipRef identifies a ship inside an event without holding the ship itself.
type ShipRef struct {
	ID     int    `msgpack:"id"`
	Name   string `msgpack:"name"`
	Player string `msgpack:"player"`
}

func refOf(s *ship.Ship) ShipRef {
	if s == nil {
		return ShipRef{ID: -1}
	}
	r := ShipRef{ID: s.ID, Name: s.Name}
	if s.Owner != nil {
		r.Player = s.Owner.Name()
	}
	return r
}

func refsOf(ships []*ship.Ship) []ShipRef {
	out := make([]ShipRef, 0, len(ships))
	for _, s := range ships {
		out = append(out, refOf(s))
	}
	return out
}

type PhaseChanged struct {
	From Phase `msgpack:"from"`
	To   Phase `msgpack:"to"`
}

type TurnStarted struct {
	Player string `msgpack:"player"`
	Round  int    `msgpack:"round"`
}

type TurnEnded struct {
	Player string `msgpack:"player"`
	Round  int    `msgpack:"round"`
}

type RoundEnded struct {
	Round int `msgpack:"round"`
}

// ShipSelectedEvent is emitted on entering ShipSelected.
type ShipSelectedEvent struct {
	Ship      ShipRef     `msgpack:"ship"`
	Reachable []grid.Cell `msgpack:"reachable"`
	Targets   []ShipRef   `msgpack:"targets"`
}

type ShipDeselected struct {
	Ship ShipRef `msgpack:"ship"`
}

// ShipMoved is emitted when a move executes. Path excludes From.
type ShipMoved struct {
	Ship ShipRef     `msgpack:"ship"`
	From grid.Cell   `msgpack:"from"`
	To   grid.Cell   `msgpack:"to"`
	Path []grid.Cell `msgpack:"path"`
	Cost float64     `msgpack:"cost"`
}

type AttackResolved struct {
	Attacker ShipRef   `msgpack:"attacker"`
	Defender ShipRef   `msgpack:"defender"`
	From     grid.Cell `msgpack:"from"`
	To       grid.Cell `msgpack:"to"`
	Weapon   string    `msgpack:"weapon"`
	Result   string    `msgpack:"result"`
	Damage   int       `msgpack:"damage"`
	Hull     int       `msgpack:"hull"`
}

type ShipDestroyed struct {
	Ship ShipRef   `msgpack:"ship"`
	At   grid.Cell `msgpack:"at"`
}

type BoostUsed struct {
	Ship  ShipRef `msgpack:"ship"`
	Boost string  `msgpack:"boost"`
}

// GameEnded is emitted once, on entering GameOver. Winner is empty on a draw.
type GameEnded struct {
	Winner string `msgpack:"winner"`
	Round  int    `msgpack:"round"`
}

// Message carries a user-facing line, already translated.
type Message struct {
	Text string `msgpack:"text"`
}

// BattleStalled is emitted when a brain's think step submits nothing.
type BattleStalled struct {
	Player string `msgpack:"player"`
}

func (PhaseChanged) Kind() string      { return "phase" }
func (TurnStarted) Kind() string       { return "turn_started" }
func (TurnEnded) Kind() string         { return "turn_ended" }
func (RoundEnded) Kind() string        { return "round_ended" }
func (ShipSelectedEvent) Kind() string { return "ship_selected" }
func (ShipDeselected) Kind() string    { return "ship_deselected" }
func (ShipMoved) Kind() string         { return "ship_moved" }
func (AttackResolved) Kind() string    { return "attack" }
func (ShipDestroyed) Kind() string     { return "ship_destroyed" }
func (BoostUsed) Kind() string         { return "boost" }
func (GameEnded) Kind() string         { return "game_over" }
func (Message) Kind() string           { return "message" }
func (BattleStalled) Kind() string     { return "stalled" }
