package autoplay

import (
	"fmt"
	"math/rand"

	"github.com/tilemerge/tilemerge/game/engine"
)

// Strategy picks the next direction to slide given the current board.
// Pick is only called when at least one direction changes the board.
type Strategy interface {
	Name() string
	Pick(g engine.Grid, legal []engine.Direction) engine.Direction
}

// NewStrategy returns the named strategy. rng is used by strategies
// that need randomness.
func NewStrategy(name string, rng *rand.Rand) (Strategy, error) {
	switch name {
	case "random":
		return &randomStrategy{rng: rng}, nil
	case "greedy":
		return &greedyStrategy{rng: rng}, nil
	case "corner":
		return &cornerStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want random, greedy, or corner)", name)
	}
}

// randomStrategy picks uniformly among legal moves.
type randomStrategy struct {
	rng *rand.Rand
}

func (s *randomStrategy) Name() string { return "random" }

func (s *randomStrategy) Pick(g engine.Grid, legal []engine.Direction) engine.Direction {
	return legal[s.rng.Intn(len(legal))]
}

// greedyStrategy simulates each legal move and picks the one that
// leaves the most empty cells, i.e. the one that merged the most
// tiles. Ties break randomly.
type greedyStrategy struct {
	rng *rand.Rand
}

func (s *greedyStrategy) Name() string { return "greedy" }

func (s *greedyStrategy) Pick(g engine.Grid, legal []engine.Direction) engine.Direction {
	best := legal[:0:0]
	bestEmpty := -1
	for _, dir := range legal {
		next, _ := engine.Move(g, dir)
		empty := len(next.EmptyCells())
		if empty > bestEmpty {
			bestEmpty = empty
			best = append(best[:0], dir)
		} else if empty == bestEmpty {
			best = append(best, dir)
		}
	}
	if len(best) == 1 {
		return best[0]
	}
	return best[s.rng.Intn(len(best))]
}

// cornerStrategy keeps tiles packed toward the bottom-left corner by
// trying directions in a fixed priority order.
type cornerStrategy struct{}

var cornerOrder = [4]engine.Direction{engine.Left, engine.Down, engine.Right, engine.Up}

func (s *cornerStrategy) Name() string { return "corner" }

func (s *cornerStrategy) Pick(g engine.Grid, legal []engine.Direction) engine.Direction {
	for _, dir := range cornerOrder {
		for _, ok := range legal {
			if dir == ok {
				return dir
			}
		}
	}
	// Pick is never called with an empty legal set.
	return legal[0]
}
