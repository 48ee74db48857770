package engine

import (
	"fmt"
)

// Engine drives one game from start to finish. Implementations are not
// safe for concurrent use; the service layer serializes access.
type Engine interface {
	// Move slides the board toward dir, spawning a tile when the
	// board changed. It returns whether the board changed. Calls on
	// a finished game are no-ops.
	Move(dir Direction) bool
	// BulkMove applies up to MaxBulkMoves directions in order,
	// stopping at the first finished-game state. It returns the
	// per-move changed flags for the moves actually attempted.
	BulkMove(dirs []Direction) []bool
	// CanMove reports whether dir would change the board, without
	// applying it.
	CanMove(dir Direction) bool
	// PossibleMoves lists the directions that would change the
	// board, in Directions() order.
	PossibleMoves() []Direction
	// GetState returns a snapshot of the current state.
	GetState() *GameState
	// SetState replaces the current state, validating it against
	// the engine's config.
	SetState(state *GameState) error
	// Reset starts a fresh game from the config.
	Reset() error
	// Config returns the config the engine was built with.
	Config() *GameConfig
}

// GameEngine is the concrete Engine. Build one with NewEngine.
type GameEngine struct {
	state   *GameState
	config  *GameConfig
	spawner *Spawner
}

// NewEngine creates an engine with a time-seeded spawner.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return NewEngineWithRand(config, nil)
}

// NewEngineWithRand creates an engine whose spawns draw from rng,
// which tests use for deterministic boards.
func NewEngineWithRand(config *GameConfig, rng Rand) (*GameEngine, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	e := &GameEngine{config: config, spawner: NewSpawner(rng)}
	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *GameEngine) Move(dir Direction) bool {
	if e.state.GameOver {
		return false
	}
	next, moved := Move(e.state.Grid, dir)
	if !moved {
		return false
	}
	next = e.spawner.Spawn(next)
	e.state.Grid = next
	e.state.Moves++
	e.state.MaxTile = next.MaxTile()
	e.state.Message = ""
	switch {
	case HasReachedThreshold(next, e.config.WinTile):
		e.state.Won = true
		e.state.GameOver = true
		e.state.Message = e.config.Messages.Win
	case !HasAnyLegalMove(next):
		e.state.GameOver = true
		e.state.Message = e.config.Messages.Stuck
	}
	return true
}

func (e *GameEngine) BulkMove(dirs []Direction) []bool {
	if len(dirs) > MaxBulkMoves {
		dirs = dirs[:MaxBulkMoves]
	}
	results := make([]bool, 0, len(dirs))
	for _, d := range dirs {
		if e.state.GameOver {
			break
		}
		results = append(results, e.Move(d))
	}
	return results
}

func (e *GameEngine) CanMove(dir Direction) bool {
	if e.state.GameOver {
		return false
	}
	_, moved := Move(e.state.Grid, dir)
	return moved
}

func (e *GameEngine) PossibleMoves() []Direction {
	var out []Direction
	if e.state.GameOver {
		return out
	}
	for _, d := range Directions() {
		if _, moved := Move(e.state.Grid, d); moved {
			out = append(out, d)
		}
	}
	return out
}

func (e *GameEngine) GetState() *GameState {
	return e.state.Clone()
}

func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state is required")
	}
	if state.Grid.Rows() != e.config.Rows || state.Grid.Cols() != e.config.Cols {
		return fmt.Errorf("state grid is %dx%d, config %q expects %dx%d",
			state.Grid.Rows(), state.Grid.Cols(), e.config.Name, e.config.Rows, e.config.Cols)
	}
	if err := state.Grid.Validate(); err != nil {
		return fmt.Errorf("invalid state grid: %w", err)
	}
	restored := state.Clone()
	restored.MaxTile = restored.Grid.MaxTile()
	restored.ConfigName = e.config.Name
	e.state = restored
	return nil
}

func (e *GameEngine) Reset() error {
	state, err := InitGameStateFromConfig(e.config, e.spawner)
	if err != nil {
		return fmt.Errorf("failed to initialize game state: %w", err)
	}
	e.state = state
	return nil
}

func (e *GameEngine) Config() *GameConfig {
	return e.config
}
