package engine

import (
	"math/rand"
	"testing"
)

func mustGrid(t *testing.T, rows [][]Tile) Grid {
	t.Helper()
	g, err := GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	return g
}

func TestMoveHorizontal(t *testing.T) {
	tests := []struct {
		name      string
		in        [][]Tile
		dir       Direction
		want      [][]Tile
		wantMoved bool
	}{
		{
			name:      "adjacent pair merges left",
			in:        [][]Tile{{2, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:       Left,
			want:      [][]Tile{{4, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			wantMoved: true,
		},
		{
			name:      "target edge pair merges first going right",
			in:        [][]Tile{{2, 0, 2, 2}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:       Right,
			want:      [][]Tile{{0, 0, 2, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			wantMoved: true,
		},
		{
			name:      "four equal tiles make two merges",
			in:        [][]Tile{{4, 4, 4, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:       Left,
			want:      [][]Tile{{8, 8, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			wantMoved: true,
		},
		{
			name:      "merged tile does not merge again",
			in:        [][]Tile{{2, 2, 4, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:       Left,
			want:      [][]Tile{{4, 4, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			wantMoved: true,
		},
		{
			name:      "triple merges the pair nearest the edge",
			in:        [][]Tile{{2, 2, 2, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:       Left,
			want:      [][]Tile{{4, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			wantMoved: true,
		},
		{
			name:      "slide without merge",
			in:        [][]Tile{{0, 2, 0, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:       Left,
			want:      [][]Tile{{2, 4, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			wantMoved: true,
		},
		{
			name:      "already packed is a no-op",
			in:        [][]Tile{{2, 4, 0, 0}, {8, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			dir:       Left,
			want:      [][]Tile{{2, 4, 0, 0}, {8, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}},
			wantMoved: false,
		},
		{
			name:      "rows move independently",
			in:        [][]Tile{{2, 2, 0, 0}, {0, 4, 0, 4}, {8, 0, 0, 8}, {0, 0, 2, 0}},
			dir:       Right,
			want:      [][]Tile{{0, 0, 0, 4}, {0, 0, 0, 8}, {0, 0, 0, 16}, {0, 0, 0, 2}},
			wantMoved: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustGrid(t, tt.in)
			got, moved := Move(in, tt.dir)
			if moved != tt.wantMoved {
				t.Errorf("moved = %v, want %v", moved, tt.wantMoved)
			}
			if want := mustGrid(t, tt.want); !got.Equal(want) {
				t.Errorf("grid after %s:\n%swant:\n%s", tt.dir, RenderGrid(got), RenderGrid(want))
			}
		})
	}
}

func TestMoveVertical(t *testing.T) {
	tests := []struct {
		name      string
		in        [][]Tile
		dir       Direction
		want      [][]Tile
		wantMoved bool
	}{
		{
			name:      "columns merge up",
			in:        [][]Tile{{2, 0, 4}, {2, 4, 0}, {0, 4, 4}},
			dir:       Up,
			want:      [][]Tile{{4, 8, 8}, {0, 0, 0}, {0, 0, 0}},
			wantMoved: true,
		},
		{
			name:      "columns merge down",
			in:        [][]Tile{{2, 4, 0}, {0, 4, 2}, {2, 0, 2}},
			dir:       Down,
			want:      [][]Tile{{0, 0, 0}, {0, 0, 0}, {4, 8, 4}},
			wantMoved: true,
		},
		{
			name:      "packed columns are a no-op",
			in:        [][]Tile{{2, 4, 8}, {4, 2, 4}, {0, 0, 0}},
			dir:       Up,
			want:      [][]Tile{{2, 4, 8}, {4, 2, 4}, {0, 0, 0}},
			wantMoved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := Move(mustGrid(t, tt.in), tt.dir)
			if moved != tt.wantMoved {
				t.Errorf("moved = %v, want %v", moved, tt.wantMoved)
			}
			if want := mustGrid(t, tt.want); !got.Equal(want) {
				t.Errorf("grid after %s:\n%swant:\n%s", tt.dir, RenderGrid(got), RenderGrid(want))
			}
		})
	}
}

func TestMoveRectangular(t *testing.T) {
	in := mustGrid(t, [][]Tile{
		{2, 0, 2, 0, 4},
		{0, 0, 0, 0, 0},
		{8, 8, 0, 0, 8},
	})
	got, moved := Move(in, Left)
	if !moved {
		t.Fatal("expected the board to change")
	}
	want := mustGrid(t, [][]Tile{
		{4, 4, 0, 0, 0},
		{0, 0, 0, 0, 0},
		{16, 8, 0, 0, 0},
	})
	if !got.Equal(want) {
		t.Errorf("grid:\n%swant:\n%s", RenderGrid(got), RenderGrid(want))
	}
}

func TestMoveDoesNotMutateInput(t *testing.T) {
	in := mustGrid(t, [][]Tile{{2, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {4, 0, 4, 0}})
	snapshot := in.Clone()
	for _, d := range Directions() {
		Move(in, d)
	}
	if !in.Equal(snapshot) {
		t.Errorf("input grid changed:\n%swas:\n%s", RenderGrid(in), RenderGrid(snapshot))
	}
}

func TestHasAnyLegalMove(t *testing.T) {
	tests := []struct {
		name string
		in   [][]Tile
		want bool
	}{
		{
			name: "board with empty cells",
			in:   [][]Tile{{2, 4}, {4, 0}},
			want: true,
		},
		{
			name: "full board with a mergeable pair",
			in:   [][]Tile{{2, 2}, {4, 8}},
			want: true,
		},
		{
			name: "checkerboard is stuck",
			in:   [][]Tile{{2, 4}, {4, 2}},
			want: false,
		},
		{
			name: "full 4x4 alternating board is stuck",
			in: [][]Tile{
				{2, 4, 2, 4},
				{4, 2, 4, 2},
				{2, 4, 2, 4},
				{4, 2, 4, 2},
			},
			want: false,
		},
		{
			name: "vertical merge only",
			in:   [][]Tile{{2, 4}, {2, 8}},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAnyLegalMove(mustGrid(t, tt.in)); got != tt.want {
				t.Errorf("HasAnyLegalMove = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasReachedThreshold(t *testing.T) {
	g := mustGrid(t, [][]Tile{{2, 64}, {4, 0}})
	if !HasReachedThreshold(g, 64) {
		t.Error("expected threshold 64 to be reached")
	}
	if !HasReachedThreshold(g, 32) {
		t.Error("a tile above the threshold should count")
	}
	if HasReachedThreshold(g, 128) {
		t.Error("threshold 128 should not be reached")
	}
	if HasReachedThreshold(g, 0) {
		t.Error("non-positive thresholds never match")
	}
}

// TestMoveInvariants fuzzes random boards and checks the properties
// every move must preserve: tile value sum, board dimensions, input
// immutability, the moved flag, and compaction toward the target edge.
func TestMoveInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	values := []Tile{0, 0, 0, 2, 2, 4, 8, 16, 32}

	for i := 0; i < 500; i++ {
		rows := 2 + rng.Intn(5)
		cols := 2 + rng.Intn(5)
		g := NewGrid(rows, cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				g = g.Set(r, c, values[rng.Intn(len(values))])
			}
		}
		before := g.Clone()
		dir := Directions()[rng.Intn(4)]

		got, moved := Move(g, dir)

		if !g.Equal(before) {
			t.Fatalf("iteration %d: input mutated by %s", i, dir)
		}
		if got.Rows() != rows || got.Cols() != cols {
			t.Fatalf("iteration %d: dimensions changed to %dx%d", i, got.Rows(), got.Cols())
		}
		if moved == got.Equal(g) {
			t.Fatalf("iteration %d: moved=%v disagrees with board comparison", i, moved)
		}
		if sumTiles(g) != sumTiles(got) {
			t.Fatalf("iteration %d: tile sum changed from %d to %d after %s:\n%s",
				i, sumTiles(g), sumTiles(got), dir, RenderGrid(got))
		}
		assertCompacted(t, got, dir)
	}
}

func sumTiles(g Grid) int {
	sum := 0
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			sum += int(g.At(r, c))
		}
	}
	return sum
}

// assertCompacted checks that no line has an empty cell between the
// target edge and a tile.
func assertCompacted(t *testing.T, g Grid, dir Direction) {
	t.Helper()
	lines := g.Rows()
	if dir == Up || dir == Down {
		lines = g.Cols()
	}
	for i := 0; i < lines; i++ {
		sawEmpty := false
		for _, cell := range lineCells(g, dir, i) {
			v := g.At(cell.Row, cell.Col)
			if v == Empty {
				sawEmpty = true
			} else if sawEmpty {
				t.Fatalf("line %d not compacted toward %s:\n%s", i, dir, RenderGrid(g))
			}
		}
	}
}
