package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{input: "up", want: Up},
		{input: "DOWN", want: Down},
		{input: "Left", want: Left},
		{input: " right ", want: Right},
		{input: "u", want: Up},
		{input: "r", want: Right},
		{input: "", wantErr: true},
		{input: "north", wantErr: true},
		{input: "upp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDirection(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDirectionString(t *testing.T) {
	want := map[Direction]string{Up: "up", Down: "down", Left: "left", Right: "right"}
	for d, s := range want {
		if d.String() != s {
			t.Errorf("%d.String() = %q, want %q", int(d), d.String(), s)
		}
	}
	if s := Direction(99).String(); s != "direction(99)" {
		t.Errorf("out of range direction = %q", s)
	}
}

func TestGridSetReturnsCopy(t *testing.T) {
	g := NewGrid(3, 3)
	g2 := g.Set(1, 1, 2)
	if g.At(1, 1) != Empty {
		t.Error("Set mutated the original grid")
	}
	if g2.At(1, 1) != 2 {
		t.Error("Set did not apply to the copy")
	}
}

func TestGridSetRejectsInvalidTile(t *testing.T) {
	g := NewGrid(2, 2)
	for _, v := range []Tile{3, 6, -2, 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Set(0, 0, %d) did not panic", v)
				}
			}()
			g.Set(0, 0, v)
		}()
	}
}

func TestGridBoundsPanic(t *testing.T) {
	g := NewGrid(2, 3)
	for _, pos := range []Cell{{Row: -1, Col: 0}, {Row: 2, Col: 0}, {Row: 0, Col: 3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("At(%d, %d) did not panic", pos.Row, pos.Col)
				}
			}()
			g.At(pos.Row, pos.Col)
		}()
	}
}

func TestNewGridDimensionPanic(t *testing.T) {
	for _, dims := range [][2]int{{1, 4}, {4, 1}, {0, 0}, {33, 4}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewGrid(%d, %d) did not panic", dims[0], dims[1])
				}
			}()
			NewGrid(dims[0], dims[1])
		}()
	}
}

func TestEmptyCellsRowMajor(t *testing.T) {
	g := mustGrid(t, [][]Tile{{2, 0}, {0, 4}})
	got := g.EmptyCells()
	want := []Cell{{Row: 0, Col: 1}, {Row: 1, Col: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EmptyCells = %v, want %v", got, want)
	}
}

func TestGridJSONRoundTrip(t *testing.T) {
	g := mustGrid(t, [][]Tile{{2, 0, 4}, {0, 8, 0}})
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[[2,0,4],[0,8,0]]" {
		t.Errorf("unexpected encoding: %s", data)
	}
	var back Grid
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(g) {
		t.Errorf("round trip mismatch:\n%swant:\n%s", RenderGrid(back), RenderGrid(g))
	}
}

func TestGridUnmarshalRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "ragged rows", data: "[[2,0],[2]]"},
		{name: "non power of two", data: "[[3,0],[0,0]]"},
		{name: "negative tile", data: "[[-2,0],[0,0]]"},
		{name: "too few rows", data: "[[2,0]]"},
		{name: "not a matrix", data: `"board"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Grid
			if err := json.Unmarshal([]byte(tt.data), &g); err == nil {
				t.Errorf("expected error for %s", tt.data)
			}
		})
	}
}

func TestGridStats(t *testing.T) {
	g := mustGrid(t, [][]Tile{{2, 0, 16}, {0, 4, 0}})
	if got := g.MaxTile(); got != 16 {
		t.Errorf("MaxTile = %d, want 16", got)
	}
	if got := g.TileCount(); got != 3 {
		t.Errorf("TileCount = %d, want 3", got)
	}
	if g.Full() {
		t.Error("Full on a board with empty cells")
	}
	full := mustGrid(t, [][]Tile{{2, 4}, {8, 2}})
	if !full.Full() {
		t.Error("Full missed a packed board")
	}
	if !NewGrid(2, 2).Empty() {
		t.Error("Empty false on a blank board")
	}
	if g.Empty() {
		t.Error("Empty true on a board with tiles")
	}
}

func TestGridValidate(t *testing.T) {
	if err := mustGrid(t, [][]Tile{{2, 0}, {0, 4}}).Validate(); err != nil {
		t.Errorf("Validate on a good board: %v", err)
	}
	if err := (Grid{}).Validate(); err == nil {
		t.Error("expected error for the zero grid")
	}

	corrupt := NewGrid(2, 2)
	corrupt.setInPlace(1, 0, 3)
	err := corrupt.Validate()
	if err == nil {
		t.Fatal("expected error for a non power-of-two tile")
	}
	if !strings.Contains(err.Error(), "row 1 col 0") {
		t.Errorf("error does not name the bad cell: %v", err)
	}
}

func TestGridString(t *testing.T) {
	g := mustGrid(t, [][]Tile{{2, 0, 16}, {0, 4, 0}})
	want := " 2  . 16\n .  4  .\n"
	if got := g.String(); got != want {
		t.Errorf("String:\n%q\nwant:\n%q", got, want)
	}
}

func TestGameStateClone(t *testing.T) {
	state := &GameState{Grid: mustGrid(t, [][]Tile{{2, 0}, {0, 4}}), Moves: 3}
	clone := state.Clone()
	clone.Grid = clone.Grid.Set(0, 1, 8)
	clone.Moves = 9
	if state.Grid.At(0, 1) != Empty || state.Moves != 3 {
		t.Error("mutating the clone changed the original")
	}
}
