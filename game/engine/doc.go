// Package engine provides the core rules for the sliding tile merge game.
//
// The engine package implements the game mechanics including:
//   - Rectangular grids of power-of-two tiles
//   - Sliding and merging in four directions
//   - Random tile spawning with injectable randomness
//   - Win and stuck detection
//   - Configuration loading and validation
//
// Core Types:
//
// Grid is an immutable board snapshot; Move, HasAnyLegalMove and
// HasReachedThreshold are pure functions over it. The Engine interface
// defines the stateful contract for one game, implemented by
// GameEngine. GameConfig defines a board preset loaded from JSON.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	moved := gameEngine.Move(engine.Left)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// A move slides every tile as far as possible toward the chosen edge.
// Adjacent equal tiles merge into their doubled value; each tile merges
// at most once per move, resolved from the target edge outward. After
// every board-changing move a new 2 (90%) or 4 (10%) spawns on a random
// empty cell. The game is won when a tile reaches the configured
// threshold and lost when no direction would change the board.
package engine
