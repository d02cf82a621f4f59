// Package window implements the tiled split-tree window manager: a
// binary tree whose leaves are terminal viewports over a buffer and
// whose internal nodes are horizontal or vertical splits.
package window

import "errors"

// ErrLastWindow is returned when closing the sole remaining window.
var ErrLastWindow = errors.New("window: cannot close the last window")

// minWidth and minHeight are the floor inner size a leaf may shrink to.
const (
	minWidth  = 3
	minHeight = 1
)

// Orientation is the split direction of an internal tree node.
type Orientation uint8

const (
	// OrientHorizontal stacks children top/bottom (created by a
	// horizontal split, i.e. ":sp").
	OrientHorizontal Orientation = iota
	// OrientVertical arranges children left/right (created by a
	// vertical split, i.e. ":vsp").
	OrientVertical
)

// ID uniquely identifies a window (leaf) in the tree.
type ID uint64

// node is either a split or a leaf.
type node struct {
	// Leaf fields.
	window ID
	isLeaf bool

	// Split fields.
	orientation Orientation
	ratio       float64
	a, b        *node
	parent      *node
}

func newLeaf(id ID) *node {
	return &node{window: id, isLeaf: true}
}

func newSplit(orientation Orientation, a, b *node) *node {
	n := &node{orientation: orientation, ratio: 0.5, a: a, b: b}
	a.parent = n
	b.parent = n
	return n
}

// sibling returns the other child of n's parent, or nil if n is the root.
func (n *node) sibling() *node {
	if n.parent == nil {
		return nil
	}
	if n.parent.a == n {
		return n.parent.b
	}
	return n.parent.a
}

// Rect is an axis-aligned region of the terminal grid, in cells.
type Rect struct {
	X, Y, Width, Height int
}

// Centroid returns the rectangle's center point.
func (r Rect) Centroid() (float64, float64) {
	return float64(r.X) + float64(r.Width)/2, float64(r.Y) + float64(r.Height)/2
}

// layout assigns a Rect to every leaf under n, recursively splitting
// r along n's orientation at its ratio. The two children of a split
// are separated by a single border cell carved out of the space.
func layout(n *node, r Rect, out map[ID]Rect) {
	if n.isLeaf {
		out[n.window] = r
		return
	}

	if n.orientation == OrientVertical {
		aw := int(float64(r.Width-1)*n.ratio + 0.5)
		aw = clampSpan(aw, r.Width-1, minWidth)
		layout(n.a, Rect{X: r.X, Y: r.Y, Width: aw, Height: r.Height}, out)
		layout(n.b, Rect{X: r.X + aw + 1, Y: r.Y, Width: r.Width - aw - 1, Height: r.Height}, out)
		return
	}

	ah := int(float64(r.Height-1)*n.ratio + 0.5)
	ah = clampSpan(ah, r.Height-1, minHeight)
	layout(n.a, Rect{X: r.X, Y: r.Y, Width: r.Width, Height: ah}, out)
	layout(n.b, Rect{X: r.X, Y: r.Y + ah + 1, Width: r.Width, Height: r.Height - ah - 1}, out)
}

// clampSpan clamps a's share of a total (minus the one border cell
// already subtracted by the caller) so neither side falls below floor,
// when the total allows it.
func clampSpan(a, total, floor int) int {
	low, high := floor, total-floor
	if low > high {
		// Not enough room to respect the floor on both sides; split down
		// the middle instead of favoring one side.
		low, high = 1, total-1
		if high < low {
			high = low
		}
	}
	if a < low {
		a = low
	}
	if a > high {
		a = high
	}
	return a
}

// findLeaf locates the leaf node for the given window id.
func findLeaf(n *node, id ID) *node {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		if n.window == id {
			return n
		}
		return nil
	}
	if found := findLeaf(n.a, id); found != nil {
		return found
	}
	return findLeaf(n.b, id)
}

// leaves returns every leaf node under n, in tree order.
func leaves(n *node) []*node {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		return []*node{n}
	}
	return append(leaves(n.a), leaves(n.b)...)
}

// fits reports whether every leaf under n would have at least the
// minimum inner size if laid out into r.
func fits(n *node, r Rect) bool {
	rects := make(map[ID]Rect)
	layout(n, r, rects)
	for _, rect := range rects {
		if rect.Width < minWidth || rect.Height < minHeight {
			return false
		}
	}
	return true
}
