package engine

// Move slides and merges every tile toward dir and returns the
// resulting board plus whether anything changed. The input grid is
// never modified. Each tile participates in at most one merge per
// move; when three equal tiles line up, the pair closest to the target
// edge merges and the third slides in behind it.
func Move(g Grid, dir Direction) (Grid, bool) {
	out := g.Clone()
	switch dir {
	case Left, Right:
		for r := 0; r < g.rows; r++ {
			slideLine(out, lineCells(g, dir, r))
		}
	case Up, Down:
		for c := 0; c < g.cols; c++ {
			slideLine(out, lineCells(g, dir, c))
		}
	default:
		panic("unknown direction " + dir.String())
	}
	return out, !out.Equal(g)
}

// lineCells returns the positions of one row or column ordered from the
// target edge outward, so index 0 is where tiles pile up.
func lineCells(g Grid, dir Direction, i int) []Cell {
	var cells []Cell
	switch dir {
	case Left:
		cells = make([]Cell, 0, g.cols)
		for c := 0; c < g.cols; c++ {
			cells = append(cells, Cell{Row: i, Col: c})
		}
	case Right:
		cells = make([]Cell, 0, g.cols)
		for c := g.cols - 1; c >= 0; c-- {
			cells = append(cells, Cell{Row: i, Col: c})
		}
	case Up:
		cells = make([]Cell, 0, g.rows)
		for r := 0; r < g.rows; r++ {
			cells = append(cells, Cell{Row: r, Col: i})
		}
	case Down:
		cells = make([]Cell, 0, g.rows)
		for r := g.rows - 1; r >= 0; r-- {
			cells = append(cells, Cell{Row: r, Col: i})
		}
	}
	return cells
}

// slideLine compacts and merges one line in place. coords are ordered
// from the target edge outward.
func slideLine(g Grid, coords []Cell) {
	line := make([]Tile, 0, len(coords))
	for _, c := range coords {
		if v := g.At(c.Row, c.Col); v != Empty {
			line = append(line, v)
		}
	}
	line = mergeLine(line)
	for i, c := range coords {
		v := Empty
		if i < len(line) {
			v = line[i]
		}
		g.setInPlace(c.Row, c.Col, v)
	}
}

// mergeLine merges adjacent equal tiles in a compacted line. Scanning
// runs from the target edge, so [4 4 4 4] becomes [8 8] and [2 4 4]
// becomes [2 8].
func mergeLine(line []Tile) []Tile {
	out := make([]Tile, 0, len(line))
	for i := 0; i < len(line); i++ {
		if i+1 < len(line) && line[i] == line[i+1] {
			out = append(out, line[i]*2)
			i++
			continue
		}
		out = append(out, line[i])
	}
	return out
}

// HasAnyLegalMove reports whether at least one of the four directions
// would change the board. A full board can still be movable when
// adjacent equal tiles exist.
func HasAnyLegalMove(g Grid) bool {
	for _, d := range Directions() {
		if _, moved := Move(g, d); moved {
			return true
		}
	}
	return false
}

// HasReachedThreshold reports whether any tile is at or above the win
// threshold.
func HasReachedThreshold(g Grid, threshold Tile) bool {
	if threshold <= Empty {
		return false
	}
	for _, v := range g.cells {
		if v >= threshold {
			return true
		}
	}
	return false
}
