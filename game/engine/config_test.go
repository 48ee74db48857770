package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func validTestConfig() *GameConfig {
	cfg := &GameConfig{
		Name:          "test",
		Description:   "test board",
		Rows:          4,
		Cols:          4,
		WinTile:       128,
		StartingTiles: 2,
	}
	cfg.Messages.Welcome = "welcome"
	cfg.Messages.Win = "win"
	cfg.Messages.Stuck = "stuck"
	return cfg
}

func TestValidateGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GameConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *GameConfig) {}},
		{name: "missing name", mutate: func(c *GameConfig) { c.Name = "" }, wantErr: true},
		{name: "rows too small", mutate: func(c *GameConfig) { c.Rows = 1 }, wantErr: true},
		{name: "cols too large", mutate: func(c *GameConfig) { c.Cols = 40 }, wantErr: true},
		{name: "win tile not power of two", mutate: func(c *GameConfig) { c.WinTile = 100 }, wantErr: true},
		{name: "win tile below minimum", mutate: func(c *GameConfig) { c.WinTile = 4 }, wantErr: true},
		{name: "zero starting tiles", mutate: func(c *GameConfig) { c.StartingTiles = 0 }, wantErr: true},
		{name: "too many starting tiles", mutate: func(c *GameConfig) { c.StartingTiles = 17 }, wantErr: true},
		{name: "rectangular board", mutate: func(c *GameConfig) { c.Rows = 3; c.Cols = 5 }},
		{
			name: "layout with wrong row count",
			mutate: func(c *GameConfig) {
				c.Rows, c.Cols = 2, 2
				c.Layout = [][]int{{2, 0}}
			},
			wantErr: true,
		},
		{
			name: "layout with ragged row",
			mutate: func(c *GameConfig) {
				c.Rows, c.Cols = 2, 2
				c.Layout = [][]int{{2, 0}, {2}}
			},
			wantErr: true,
		},
		{
			name: "layout with invalid tile",
			mutate: func(c *GameConfig) {
				c.Rows, c.Cols = 2, 2
				c.Layout = [][]int{{2, 0}, {3, 0}}
			},
			wantErr: true,
		},
		{
			name: "valid layout",
			mutate: func(c *GameConfig) {
				c.Rows, c.Cols = 2, 2
				c.StartingTiles = 1
				c.Layout = [][]int{{2, 0}, {4, 0}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := ValidateGameConfig(cfg)
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateGameConfig(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.WinTile != 128 {
		t.Errorf("default win tile = %d, want 128", cfg.WinTile)
	}
}

func TestLoadGameConfig(t *testing.T) {
	dir, err := os.MkdirTemp("", "config-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "small.json")
	content := `{
		"name": "small",
		"description": "3x3 board",
		"rows": 3,
		"cols": 3,
		"win_tile": 64,
		"starting_tiles": 2,
		"messages": {"welcome": "go", "win": "won", "stuck": "stuck"}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}
	if cfg.Name != "small" || cfg.Rows != 3 || cfg.WinTile != 64 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Messages.Welcome != "go" {
		t.Errorf("messages not loaded: %+v", cfg.Messages)
	}

	if _, err := LoadGameConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"name": "bad", "rows": 1}`), 0644)
	if _, err := LoadGameConfig(bad); err == nil {
		t.Error("expected validation error for bad config")
	}
}

func TestStartingGridFromLayout(t *testing.T) {
	cfg := validTestConfig()
	cfg.Rows, cfg.Cols = 2, 3
	cfg.Layout = [][]int{{2, 0, 4}, {0, 8, 0}}

	grid, err := cfg.StartingGrid(NewSpawner(&scriptedRand{}))
	if err != nil {
		t.Fatalf("StartingGrid: %v", err)
	}
	want := mustGrid(t, [][]Tile{{2, 0, 4}, {0, 8, 0}})
	if !grid.Equal(want) {
		t.Errorf("layout grid:\n%swant:\n%s", RenderGrid(grid), RenderGrid(want))
	}
}

func TestInitGameStateFromConfig(t *testing.T) {
	cfg := validTestConfig()
	state, err := InitGameStateFromConfig(cfg, NewSpawner(&scriptedRand{ints: []int{0, 1}, floats: []float64{0.5, 0.5}}))
	if err != nil {
		t.Fatalf("InitGameStateFromConfig: %v", err)
	}
	if state.Grid.TileCount() != cfg.StartingTiles {
		t.Errorf("starting tiles = %d, want %d", state.Grid.TileCount(), cfg.StartingTiles)
	}
	if state.Moves != 0 || state.GameOver || state.Won {
		t.Errorf("fresh state not clean: %+v", state)
	}
	if state.Message != cfg.Messages.Welcome {
		t.Errorf("message = %q, want welcome message", state.Message)
	}
	if state.ConfigName != cfg.Name {
		t.Errorf("config name = %q, want %q", state.ConfigName, cfg.Name)
	}
}

func TestInitGameStateWonLayout(t *testing.T) {
	cfg := validTestConfig()
	cfg.Rows, cfg.Cols = 2, 2
	cfg.StartingTiles = 1
	cfg.WinTile = 8
	cfg.Layout = [][]int{{8, 0}, {0, 0}}

	state, err := InitGameStateFromConfig(cfg, NewSpawner(&scriptedRand{}))
	if err != nil {
		t.Fatalf("InitGameStateFromConfig: %v", err)
	}
	if !state.Won || !state.GameOver {
		t.Errorf("layout at the threshold should start won, got %+v", state)
	}
}
