package engine

import (
	"math/rand"
	"time"
)

// Rand is the randomness source used for tile spawning. math/rand's
// *rand.Rand satisfies it; tests substitute deterministic stubs.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Spawner places new tiles on empty cells. It is safe to share a
// Spawner across boards but not across goroutines, matching math/rand
// semantics.
type Spawner struct {
	rng Rand
}

// NewSpawner returns a Spawner backed by rng. A nil rng gets a
// time-seeded math/rand source.
func NewSpawner(rng Rand) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Spawner{rng: rng}
}

// Spawn places one tile on a uniformly chosen empty cell: 2 with
// probability 0.9, 4 with probability 0.1. A full board is returned
// unchanged.
func (s *Spawner) Spawn(g Grid) Grid {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return g
	}
	cell := empty[s.rng.Intn(len(empty))]
	v := Tile(2)
	if s.rng.Float64() < FourTileOdds {
		v = 4
	}
	return g.Set(cell.Row, cell.Col, v)
}

// NewBoard returns a rows x cols board seeded with count spawned
// tiles. count is clamped to the number of cells.
func (s *Spawner) NewBoard(rows, cols, count int) Grid {
	g := NewGrid(rows, cols)
	if count > rows*cols {
		count = rows * cols
	}
	for i := 0; i < count; i++ {
		g = s.Spawn(g)
	}
	return g
}
