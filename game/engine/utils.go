package engine

import (
	"fmt"
	"strings"
)

// RenderGrid returns a fixed-width text rendering of the board with
// "." for empty cells, suitable for logs, the MCP tools and the
// autoplay reports.
func RenderGrid(g Grid) string {
	width := 1
	if max := g.MaxTile(); max > Empty {
		width = len(fmt.Sprintf("%d", max))
	}
	var b strings.Builder
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			if v := g.At(r, c); v == Empty {
				fmt.Fprintf(&b, "%*s", width, ".")
			} else {
				fmt.Fprintf(&b, "%*d", width, v)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseDirections converts a slice of direction names, failing on the
// first invalid entry.
func ParseDirections(names []string) ([]Direction, error) {
	out := make([]Direction, 0, len(names))
	for i, name := range names {
		d, err := ParseDirection(name)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
