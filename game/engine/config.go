package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// GameConfig describes one board preset: dimensions, win threshold,
// how many tiles to spawn at the start and the player-facing messages.
// An optional Layout pins the exact starting board instead of random
// spawns.
type GameConfig struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	WinTile       Tile    `json:"win_tile"`
	StartingTiles int     `json:"starting_tiles"`
	Layout        [][]int `json:"layout,omitempty"`
	Messages      struct {
		Welcome string `json:"welcome"`
		Win     string `json:"win"`
		Stuck   string `json:"stuck"`
	} `json:"messages"`
}

// DefaultConfig returns the built-in 4x4 preset with a win threshold
// of 128, used when no config directory is available.
func DefaultConfig() *GameConfig {
	cfg := &GameConfig{
		Name:          "quick",
		Description:   "Standard 4x4 board with a quick 128 target",
		Rows:          4,
		Cols:          4,
		WinTile:       128,
		StartingTiles: DefaultSpawns,
	}
	cfg.Messages.Welcome = "New game started. Slide tiles to merge them."
	cfg.Messages.Win = "You reached the target tile. You win!"
	cfg.Messages.Stuck = "No moves left. Game over."
	return cfg
}

// LoadGameConfig reads and validates a config from a JSON file.
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", filename, err)
	}
	return &config, nil
}

// ValidateGameConfig checks a config for internal consistency.
func ValidateGameConfig(config *GameConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Rows < MinGridDim || config.Rows > MaxGridDim {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinGridDim, MaxGridDim, config.Rows)
	}
	if config.Cols < MinGridDim || config.Cols > MaxGridDim {
		return fmt.Errorf("config validation: cols must be between %d and %d, got %d", MinGridDim, MaxGridDim, config.Cols)
	}
	if config.WinTile < MinWinTile || !validTile(config.WinTile) {
		return fmt.Errorf("config validation: win_tile must be a power of two >= %d, got %d", MinWinTile, config.WinTile)
	}
	// StartingTiles is unused when a pinned layout supplies the board.
	if config.Layout == nil {
		if config.StartingTiles < 1 || config.StartingTiles > config.Rows*config.Cols {
			return fmt.Errorf("config validation: starting_tiles must be between 1 and %d, got %d", config.Rows*config.Cols, config.StartingTiles)
		}
	}
	if config.Layout != nil {
		if len(config.Layout) != config.Rows {
			return fmt.Errorf("config validation: layout has %d rows, expected %d", len(config.Layout), config.Rows)
		}
		for i, row := range config.Layout {
			if len(row) != config.Cols {
				return fmt.Errorf("config validation: layout row %d has %d columns, expected %d", i, len(row), config.Cols)
			}
			for j, v := range row {
				if !validTile(Tile(v)) {
					return fmt.Errorf("config validation: layout value %d at row %d col %d is not a power of two", v, i, j)
				}
			}
		}
	}
	return nil
}

// StartingGrid builds the initial board for a config: the pinned
// Layout when one is set, otherwise StartingTiles random spawns.
func (c *GameConfig) StartingGrid(spawner *Spawner) (Grid, error) {
	if c.Layout != nil {
		rows := make([][]Tile, len(c.Layout))
		for i, row := range c.Layout {
			rows[i] = make([]Tile, len(row))
			for j, v := range row {
				rows[i][j] = Tile(v)
			}
		}
		return GridFromRows(rows)
	}
	return spawner.NewBoard(c.Rows, c.Cols, c.StartingTiles), nil
}

// InitGameStateFromConfig builds the opening state for a config.
func InitGameStateFromConfig(config *GameConfig, spawner *Spawner) (*GameState, error) {
	grid, err := config.StartingGrid(spawner)
	if err != nil {
		return nil, fmt.Errorf("failed to build starting grid: %w", err)
	}
	state := &GameState{
		Grid:       grid,
		MaxTile:    grid.MaxTile(),
		Message:    config.Messages.Welcome,
		ConfigName: config.Name,
	}
	// A pinned layout may already satisfy an end condition.
	switch {
	case HasReachedThreshold(grid, config.WinTile):
		state.Won = true
		state.GameOver = true
		state.Message = config.Messages.Win
	case !HasAnyLegalMove(grid):
		state.GameOver = true
		state.Message = config.Messages.Stuck
	}
	return state, nil
}
