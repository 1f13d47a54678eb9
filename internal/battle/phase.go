package battle

import "fmt"

// Phase is the state of the turn/phase machine.
type Phase int

const (
	Idle         Phase = iota // current human player has nothing selected
	ShipSelected              // a friendly ship is selected, reach and targets cached
	Move                      // a move command is in flight
	Attack                    // an attack command is in flight
	AITurn                    // current player is driven by a brain
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ShipSelected:
		return "ship_selected"
	case Move:
		return "move"
	case Attack:
		return "attack"
	case AITurn:
		return "ai_turn"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// IllegalPhaseTransition is the panic value raised when the battle is asked
// to move between two phases the table below does not connect. It signals a
// sequencing bug in the caller, never a gameplay mistake.
type IllegalPhaseTransition struct {
	From Phase
	To   Phase
}

func (e IllegalPhaseTransition) Error() string {
	return fmt.Sprintf("battle: illegal phase transition %s -> %s", e.From, e.To)
}

var transitions = map[Phase][]Phase{
	Idle:         {ShipSelected},
	ShipSelected: {Idle, Move, Attack},
	Move:         {ShipSelected},
	Attack:       {ShipSelected},
	AITurn:       {Move, Attack},
}

// canTransition reports whether from -> to is legal. Idle, AITurn and
// GameOver are reachable from every phase except GameOver itself (end of
// round, game over).
func canTransition(from, to Phase) bool {
	if from == GameOver {
		return false
	}
	switch to {
	case Idle, AITurn, GameOver:
		return true
	}
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
