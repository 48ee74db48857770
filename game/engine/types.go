package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tile is the value held by a single board cell. Zero means the cell is
// empty; every non-zero tile is a power of two starting at 2.
type Tile int

// Empty marks a cell with no tile on it.
const Empty Tile = 0

// Board dimension and gameplay limits.
const (
	MinGridDim    = 2
	MaxGridDim    = 32
	MinWinTile    = Tile(8)
	MaxBulkMoves  = 50
	FourTileOdds  = 0.1
	DefaultSpawns = 2
)

// Cell identifies a board position by row and column, both zero-based.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is one of the four slide directions. The zero value is Up.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Directions returns all four directions in a fixed order, for callers
// that need to enumerate candidate moves deterministically.
func Directions() [4]Direction {
	return [4]Direction{Up, Down, Left, Right}
}

// ParseDirection converts user input to a Direction. It accepts the
// four canonical names in any letter case plus the single-letter
// shorthands u/d/l/r.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("invalid direction %q (expected up, down, left or right)", s)
}

// Grid is a rectangular tile board. The zero Grid is not usable; build
// one with NewGrid or GridFromRows. Grid values share no storage with
// the values they were derived from, so they can be treated as
// immutable snapshots.
type Grid struct {
	rows  int
	cols  int
	cells []Tile
}

// NewGrid returns an empty rows x cols board. It panics if either
// dimension is below MinGridDim or above MaxGridDim.
func NewGrid(rows, cols int) Grid {
	checkDims(rows, cols)
	return Grid{rows: rows, cols: cols, cells: make([]Tile, rows*cols)}
}

// GridFromRows builds a board from row-major tile values. Every row
// must have the same length.
func GridFromRows(rows [][]Tile) (Grid, error) {
	if len(rows) < MinGridDim {
		return Grid{}, fmt.Errorf("grid needs at least %d rows, got %d", MinGridDim, len(rows))
	}
	if len(rows) > MaxGridDim {
		return Grid{}, fmt.Errorf("grid exceeds %d rows: %d", MaxGridDim, len(rows))
	}
	cols := len(rows[0])
	if cols < MinGridDim || cols > MaxGridDim {
		return Grid{}, fmt.Errorf("grid needs between %d and %d columns, got %d", MinGridDim, MaxGridDim, cols)
	}
	g := Grid{rows: len(rows), cols: cols, cells: make([]Tile, 0, len(rows)*cols)}
	for i, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), cols)
		}
		for j, v := range row {
			if !validTile(v) {
				return Grid{}, fmt.Errorf("invalid tile value %d at row %d col %d", v, i, j)
			}
			g.cells = append(g.cells, v)
		}
	}
	return g, nil
}

func checkDims(rows, cols int) {
	if rows < MinGridDim || cols < MinGridDim || rows > MaxGridDim || cols > MaxGridDim {
		panic(fmt.Sprintf("grid dimensions %dx%d outside [%d, %d]", rows, cols, MinGridDim, MaxGridDim))
	}
}

func validTile(v Tile) bool {
	if v == Empty {
		return true
	}
	return v >= 2 && v&(v-1) == 0
}

// Rows returns the number of rows on the board.
func (g Grid) Rows() int { return g.rows }

// Cols returns the number of columns on the board.
func (g Grid) Cols() int { return g.cols }

// At returns the tile at (row, col). It panics if the position is off
// the board.
func (g Grid) At(row, col int) Tile {
	g.checkBounds(row, col)
	return g.cells[row*g.cols+col]
}

// Set returns a copy of the board with (row, col) replaced by v. The
// receiver is left untouched. It panics if the position is off the
// board or v is not Empty or a power of two.
func (g Grid) Set(row, col int, v Tile) Grid {
	g.checkBounds(row, col)
	if !validTile(v) {
		panic(fmt.Sprintf("invalid tile value %d", v))
	}
	out := g.Clone()
	out.cells[row*g.cols+col] = v
	return out
}

func (g Grid) checkBounds(row, col int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("position (%d, %d) outside %dx%d grid", row, col, g.rows, g.cols))
	}
}

// Clone returns a deep copy with independent storage.
func (g Grid) Clone() Grid {
	out := Grid{rows: g.rows, cols: g.cols, cells: make([]Tile, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Equal reports whether two boards have identical dimensions and tiles.
func (g Grid) Equal(other Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i, v := range g.cells {
		if v != other.cells[i] {
			return false
		}
	}
	return true
}

// EmptyCells lists all empty positions in row-major order.
func (g Grid) EmptyCells() []Cell {
	var out []Cell
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r*g.cols+c] == Empty {
				out = append(out, Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// Empty reports whether every cell is empty.
func (g Grid) Empty() bool {
	for _, v := range g.cells {
		if v != Empty {
			return false
		}
	}
	return true
}

// Full reports whether no cell is empty.
func (g Grid) Full() bool {
	for _, v := range g.cells {
		if v == Empty {
			return false
		}
	}
	return true
}

// MaxTile returns the largest tile on the board, or Empty for a blank
// board.
func (g Grid) MaxTile() Tile {
	max := Empty
	for _, v := range g.cells {
		if v > max {
			max = v
		}
	}
	return max
}

// TileCount returns the number of non-empty cells.
func (g Grid) TileCount() int {
	n := 0
	for _, v := range g.cells {
		if v != Empty {
			n++
		}
	}
	return n
}

// Validate re-checks the board invariants on a grid that was restored
// from outside the package: dimensions in range, storage matching the
// dimensions, and every cell Empty or a power of two.
func (g Grid) Validate() error {
	if g.rows < MinGridDim || g.cols < MinGridDim || g.rows > MaxGridDim || g.cols > MaxGridDim {
		return fmt.Errorf("grid dimensions %dx%d outside [%d, %d]", g.rows, g.cols, MinGridDim, MaxGridDim)
	}
	if len(g.cells) != g.rows*g.cols {
		return fmt.Errorf("grid storage holds %d cells, expected %d", len(g.cells), g.rows*g.cols)
	}
	for i, v := range g.cells {
		if !validTile(v) {
			return fmt.Errorf("invalid tile value %d at row %d col %d", v, i/g.cols, i%g.cols)
		}
	}
	return nil
}

// String renders the board as fixed-width text, one row per line.
func (g Grid) String() string {
	return RenderGrid(g)
}

// setInPlace mutates the receiver's storage. Engine internals only;
// callers must own the storage (e.g. via Clone).
func (g Grid) setInPlace(row, col int, v Tile) {
	g.cells[row*g.cols+col] = v
}

// MarshalJSON encodes the board as a [][]Tile matrix.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]Tile, g.rows)
	for r := 0; r < g.rows; r++ {
		rows[r] = append([]Tile(nil), g.cells[r*g.cols:(r+1)*g.cols]...)
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes a [][]Tile matrix, rejecting ragged rows, out
// of range dimensions and non power-of-two tile values.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]Tile
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to decode grid: %w", err)
	}
	parsed, err := GridFromRows(rows)
	if err != nil {
		return fmt.Errorf("invalid grid: %w", err)
	}
	*g = parsed
	return nil
}

// GameState is the full observable state of one game. It serializes as
// the wire representation used by the HTTP API, persistence layers and
// the MCP tools.
type GameState struct {
	Grid       Grid   `json:"grid"`
	GameOver   bool   `json:"game_over"`
	Won        bool   `json:"won"`
	Moves      int    `json:"moves"`
	MaxTile    Tile   `json:"max_tile"`
	Message    string `json:"message"`
	ConfigName string `json:"config_name"`
}

// Clone returns a deep copy of the state.
func (s *GameState) Clone() *GameState {
	out := *s
	out.Grid = s.Grid.Clone()
	return &out
}
