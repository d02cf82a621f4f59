package mode

import (
	"unicode"

	"github.com/rededitor/red/internal/input/key"
)

// SearchDirection indicates which way a search scans the buffer.
type SearchDirection uint8

const (
	// SearchForward scans from the cursor toward the end of the buffer.
	SearchForward SearchDirection = iota
	// SearchBackward scans from the cursor toward the start of the buffer.
	SearchBackward
)

// SearchMode implements Vim's incremental search ("/" and "?").
// Activated from normal mode; confirming runs the search, Escape cancels it
// and restores the pre-search cursor position.
type SearchMode struct {
	buffer    []rune
	cursorPos int
	history   []string

	direction    SearchDirection
	originLine   uint32
	originColumn uint32
}

// NewSearchMode creates a new search mode instance.
func NewSearchMode() *SearchMode {
	return &SearchMode{
		buffer:  make([]rune, 0, 64),
		history: make([]string, 0, 100),
	}
}

// Name returns the mode identifier.
func (m *SearchMode) Name() string {
	return ModeSearch
}

// DisplayName returns the human-readable mode name.
func (m *SearchMode) DisplayName() string {
	return "SEARCH"
}

// CursorStyle returns the cursor style for search mode.
func (m *SearchMode) CursorStyle() CursorStyle {
	return CursorBar
}

// Enter records the cursor position search should resume from on cancel.
func (m *SearchMode) Enter(ctx *Context) error {
	m.buffer = m.buffer[:0]
	m.cursorPos = 0
	if ctx.Editor != nil {
		line, col := ctx.Editor.CursorPosition()
		m.originLine, m.originColumn = line, col
	}
	return nil
}

// Exit clears the in-progress search term.
func (m *SearchMode) Exit(ctx *Context) error {
	return nil
}

// HandleUnmapped appends printable input to the search term.
func (m *SearchMode) HandleUnmapped(event key.Event, ctx *Context) *UnmappedResult {
	if event.IsRune() && !event.IsModified() && unicode.IsPrint(event.Rune) {
		m.insertRune(event.Rune)
		return &UnmappedResult{Consumed: true}
	}
	if event.Key == key.KeySpace && !event.IsModified() {
		m.insertRune(' ')
		return &UnmappedResult{Consumed: true}
	}
	return &UnmappedResult{Consumed: false}
}

func (m *SearchMode) insertRune(r rune) {
	if m.cursorPos >= len(m.buffer) {
		m.buffer = append(m.buffer, r)
	} else {
		m.buffer = append(m.buffer[:m.cursorPos+1], m.buffer[m.cursorPos:]...)
		m.buffer[m.cursorPos] = r
	}
	m.cursorPos++
}

// Pattern returns the search term typed so far.
func (m *SearchMode) Pattern() string {
	return string(m.buffer)
}

// SetDirection sets whether this search scans forward or backward.
func (m *SearchMode) SetDirection(d SearchDirection) {
	m.direction = d
}

// Direction returns the configured search direction.
func (m *SearchMode) Direction() SearchDirection {
	return m.direction
}

// Origin returns the cursor position search was entered from.
func (m *SearchMode) Origin() (line, col uint32) {
	return m.originLine, m.originColumn
}

// Backspace deletes the character before the cursor in the search term.
func (m *SearchMode) Backspace() bool {
	if m.cursorPos == 0 {
		return false
	}
	m.buffer = append(m.buffer[:m.cursorPos-1], m.buffer[m.cursorPos:]...)
	m.cursorPos--
	return true
}

// Clear empties the search term.
func (m *SearchMode) Clear() {
	m.buffer = m.buffer[:0]
	m.cursorPos = 0
}

// AddToHistory records a completed search term.
func (m *SearchMode) AddToHistory(pattern string) {
	if pattern == "" {
		return
	}
	if len(m.history) > 0 && m.history[len(m.history)-1] == pattern {
		return
	}
	m.history = append(m.history, pattern)
}

// History returns previously executed search terms, oldest first.
func (m *SearchMode) History() []string {
	return m.history
}
