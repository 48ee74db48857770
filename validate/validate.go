// Package validate checks game configuration JSON files beyond the
// structural validation the engine performs at load time. It checks:
//   - JSON structure and required fields
//   - Grid dimensions and tile values
//   - Winning-tile reachability for the board size
//   - Pinned layouts that start won or start stuck
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tilemerge/tilemerge/game/engine"
)

// Result captures the outcome of validating a single file. Warnings
// do not make a config invalid; Errors do. Info lines are only added
// for valid configs.
type Result struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

// ConfigFile loads and validates a single configuration JSON file.
func ConfigFile(filePath string) Result {
	result := Result{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	config, err := engine.LoadGameConfig(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	checkConfig(config, &result)
	return result
}

// Config validates an in-memory configuration.
func Config(config *engine.GameConfig) Result {
	result := Result{File: config.Name, Valid: true}
	if err := engine.ValidateGameConfig(config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	checkConfig(config, &result)
	return result
}

// Dir validates every .json file in dir, sorted by filename.
func Dir(dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, name := range files {
		results = append(results, ConfigFile(filepath.Join(dir, name)))
	}
	return results, nil
}

func checkConfig(config *engine.GameConfig, result *Result) {
	cells := config.Rows * config.Cols

	// The largest tile a board can ever hold: filling every cell with a
	// perfect doubling chain tops out at 2^(cells+1), counting the
	// occasional spawned 4.
	maxAchievable := engine.Tile(1) << uint(cells+1)
	if config.WinTile > maxAchievable {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("win_tile %d can never be reached on a %dx%d board (max achievable is %d)",
				config.WinTile, config.Rows, config.Cols, maxAchievable))
	} else if config.WinTile == maxAchievable {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("win_tile %d requires a perfect game on a %dx%d board", config.WinTile, config.Rows, config.Cols))
	}

	if config.StartingTiles == cells {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("starting_tiles %d fills the whole board", config.StartingTiles))
	}

	if len(config.Layout) > 0 {
		checkLayout(config, result)
	}

	if config.Messages.Welcome == "" {
		result.Warnings = append(result.Warnings, "no welcome message set")
	}
	if config.Messages.Win == "" {
		result.Warnings = append(result.Warnings, "no win message set")
	}
	if config.Messages.Stuck == "" {
		result.Warnings = append(result.Warnings, "no stuck message set")
	}

	if result.Valid {
		result.Info = append(result.Info, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Info = append(result.Info, fmt.Sprintf("✓ Grid: %dx%d", config.Rows, config.Cols))
		result.Info = append(result.Info, fmt.Sprintf("✓ Winning tile: %d", config.WinTile))
		if len(config.Layout) > 0 {
			result.Info = append(result.Info, "✓ Pinned starting layout")
		} else {
			result.Info = append(result.Info, fmt.Sprintf("✓ Starting tiles: %d", config.StartingTiles))
		}
	}
}

func checkLayout(config *engine.GameConfig, result *Result) {
	rows := make([][]engine.Tile, len(config.Layout))
	for i, layoutRow := range config.Layout {
		rows[i] = make([]engine.Tile, len(layoutRow))
		for j, v := range layoutRow {
			rows[i][j] = engine.Tile(v)
		}
	}

	grid, err := engine.GridFromRows(rows)
	if err != nil {
		// Already rejected by engine validation; nothing more to check.
		return
	}

	if engine.HasReachedThreshold(grid, config.WinTile) {
		result.Warnings = append(result.Warnings, "layout already contains the winning tile; the game starts won")
	}
	if !engine.HasAnyLegalMove(grid) {
		result.Warnings = append(result.Warnings, "no direction changes the layout; the game starts stuck")
	}
	if grid.TileCount() == 0 {
		result.Warnings = append(result.Warnings, "layout is empty; the game starts with no tiles")
	}
}

// Summary renders results the way the validate subcommand prints them.
func Summary(results []Result) string {
	var b strings.Builder
	valid := 0

	for _, r := range results {
		if r.Valid {
			valid++
			fmt.Fprintf(&b, "%s: OK\n", r.File)
			for _, line := range r.Info {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		} else {
			fmt.Fprintf(&b, "%s: INVALID\n", r.File)
			for _, line := range r.Errors {
				fmt.Fprintf(&b, "  ✗ %s\n", line)
			}
		}
		for _, line := range r.Warnings {
			fmt.Fprintf(&b, "  ⚠ %s\n", line)
		}
	}

	fmt.Fprintf(&b, "\n%d/%d configs valid\n", valid, len(results))
	return b.String()
}
