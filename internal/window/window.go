package window

import "github.com/rededitor/red/internal/engine/buffer"

// Viewport is the scroll offset of a window, in display cells.
type Viewport struct {
	Top  int // first visible line
	Left int // first visible display column
}

// Window is a single tiled leaf: a viewport onto a buffer with its
// own cursor, scroll position, and mode. Several windows may
// reference the same buffer id.
type Window struct {
	ID       ID
	BufferID buffer.DocumentID

	Cursor   buffer.CharPoint
	Viewport Viewport
	Mode     string

	// Selection anchor, set when a visual mode is entered; nil otherwise.
	SelectionAnchor *buffer.CharPoint
}

// NewWindow creates a window over the given buffer, at the origin
// with the cursor at (0,0).
func NewWindow(id ID, bufferID buffer.DocumentID) *Window {
	return &Window{ID: id, BufferID: bufferID, Mode: "normal"}
}

// ClampCursor clamps the window's cursor into [0, lineCount) x
// [0, len(line)] given the current buffer shape, per the invariant
// that every window's cursor stays on a valid buffer position after
// an edit to any window sharing its buffer.
func (w *Window) ClampCursor(lineCount uint32, lineCharLen func(line uint32) int) {
	if lineCount == 0 {
		w.Cursor = buffer.CharPoint{}
		return
	}
	if w.Cursor.Line >= lineCount {
		w.Cursor.Line = lineCount - 1
	}
	maxCol := lineCharLen(w.Cursor.Line)
	if w.Cursor.Char > maxCol {
		w.Cursor.Char = maxCol
	}
	if w.Cursor.Char < 0 {
		w.Cursor.Char = 0
	}
}
