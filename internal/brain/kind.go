package brain

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Garsondee/void-tactics/internal/battle"
)

var ErrUnknownBrain = errors.New("brain: unknown kind")

// Kinds lists the names accepted by New.
var Kinds = []string{"random", "hunter"}

// New builds a brain by name. seed feeds the random brain.
func New(kind string, seed int64) (battle.Brain, error) {
	switch kind {
	case "random":
		return NewRandom(rand.New(rand.NewSource(seed))), nil // #nosec G404 -- gameplay only
	case "hunter":
		return NewHunter(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBrain, kind)
}
