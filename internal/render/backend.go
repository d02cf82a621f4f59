package render

import (
	"github.com/gdamore/tcell/v2"
)

// Backend paints a Grid's changed cells to the terminal and reports
// input/resize events. It is a thin wrapper over tcell.Screen;
// tcell already double-buffers and coalesces the escape sequences it
// emits on Show, so pre-filtering to only the changed cells (via
// Grid.Changes) is what keeps a redraw proportional to what actually
// moved rather than to the whole screen.
type Backend struct {
	screen tcell.Screen
	prev   *Grid
}

// NewBackend creates a tcell-backed terminal backend and enters raw
// mode. Call Close when done.
func NewBackend() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	return &Backend{screen: screen}, nil
}

// Close restores the terminal to its original state.
func (b *Backend) Close() {
	b.screen.Fini()
}

// Size returns the current terminal size in cells.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// PollEvent blocks for the next input or resize event.
func (b *Backend) PollEvent() tcell.Event {
	return b.screen.PollEvent()
}

// PostEvent queues a synthetic event, used by timers and plugin
// callbacks to wake the main loop between terminal events.
func (b *Backend) PostEvent(ev tcell.Event) error {
	return b.screen.PostEvent(ev)
}

// Paint draws only the cells that changed since the last Paint call,
// then flushes them and positions the hardware cursor.
func (b *Backend) Paint(g *Grid, cursorX, cursorY int, cursorVisible bool) {
	for _, d := range g.Changes(b.prev) {
		if d.Cell.IsContinuation() {
			continue
		}
		comb := []rune(nil)
		b.screen.SetContent(d.X, d.Y, d.Cell.Rune, comb, toTcellStyle(d.Cell.Style))
	}
	b.prev = g

	if cursorVisible {
		b.screen.ShowCursor(cursorX, cursorY)
	} else {
		b.screen.HideCursor()
	}
	b.screen.Show()
}

// Sync forces a full repaint on the next Paint call, used after a
// resize or when the backend's internal state may be stale.
func (b *Backend) Sync() {
	b.prev = nil
	b.screen.Sync()
}

func toTcellStyle(s Style) tcell.Style {
	st := tcell.StyleDefault
	if s.Fg.IsSet {
		st = st.Foreground(tcell.NewRGBColor(int32(s.Fg.R), int32(s.Fg.G), int32(s.Fg.B)))
	}
	if s.Bg.IsSet {
		st = st.Background(tcell.NewRGBColor(int32(s.Bg.R), int32(s.Bg.G), int32(s.Bg.B)))
	}
	st = st.Bold(s.Bold).Italic(s.Italic).Underline(s.Underline).Reverse(s.Reverse)
	return st
}
