// Package render turns a window tree and buffer contents into a
// terminal cell grid, then pushes only the cells that changed since
// the last frame to the terminal backend.
package render

// Style describes the visual attributes of a single cell.
type Style struct {
	Fg, Bg          Color
	Bold, Italic    bool
	Underline       bool
	Reverse         bool
}

// Color is an RGB terminal color, or the zero value for "use default".
type Color struct {
	R, G, B uint8
	IsSet   bool
}

// RGB constructs a set Color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, IsSet: true}
}

// Cell is one terminal character position: a rune plus the style it
// is painted with. Width is 2 for the leading cell of a wide
// grapheme; the trailing cell is a continuation with Rune == 0.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// IsContinuation reports whether this cell is the trailing half of a
// wide grapheme occupying the previous column.
func (c Cell) IsContinuation() bool {
	return c.Rune == 0 && c.Width == 0
}

var blankCell = Cell{Rune: ' ', Width: 1}

// ContinuationCell marks the second column of a wide character.
var ContinuationCell = Cell{}

// Grid is a W x H array of cells, row-major.
type Grid struct {
	Width, Height int
	cells         []Cell
}

// NewGrid creates a grid filled with blank cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, cells: make([]Cell, width*height)}
	for i := range g.cells {
		g.cells[i] = blankCell
	}
	return g
}

func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}

// Set writes a cell at (x, y). Out-of-bounds writes are silently
// ignored so layer code never needs its own bounds checks.
func (g *Grid) Set(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.cells[g.index(x, y)] = c
}

// Get returns the cell at (x, y).
func (g *Grid) Get(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return blankCell
	}
	return g.cells[g.index(x, y)]
}

// SetString paints s starting at (x, y), one cell per rune, clipped to
// the grid width. It does not account for display width; callers with
// wide characters should use a higher-level writer that reserves
// continuation cells.
func (g *Grid) SetString(x, y int, s string, style Style) {
	col := x
	for _, r := range s {
		if col >= g.Width {
			return
		}
		g.Set(col, y, Cell{Rune: r, Width: 1, Style: style})
		col++
	}
}

// FillRect paints every cell in the rectangle with c.
func (g *Grid) FillRect(x, y, w, h int, c Cell) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.Set(x+dx, y+dy, c)
		}
	}
}

// Diff describes one changed cell between two frames.
type Diff struct {
	X, Y int
	Cell Cell
}

// Changes returns every cell that differs between prev and g, in
// row-major order. prev may be nil, in which case every cell is
// reported changed (used for the first frame after a resize).
func (g *Grid) Changes(prev *Grid) []Diff {
	var diffs []Diff
	if prev == nil || prev.Width != g.Width || prev.Height != g.Height {
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				diffs = append(diffs, Diff{X: x, Y: y, Cell: g.Get(x, y)})
			}
		}
		return diffs
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Get(x, y)
			if c != prev.Get(x, y) {
				diffs = append(diffs, Diff{X: x, Y: y, Cell: c})
			}
		}
	}
	return diffs
}
