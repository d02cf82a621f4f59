package render

import (
	"fmt"

	"github.com/rededitor/red/internal/engine/buffer"
	"github.com/rededitor/red/internal/unicodex"
	"github.com/rededitor/red/internal/window"
)

// Severity mirrors the LSP diagnostic severity levels the gutter and
// squiggle layer react to.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInfo
	SeverityHint
)

// Diagnostic is a single-line span to underline in the content layer
// and summarize in the gutter.
type Diagnostic struct {
	Line             uint32
	StartChar, EndChar int
	Severity         Severity
}

// Selection is a codepoint range to highlight within one window.
type Selection struct {
	Anchor, Head buffer.CharPoint
	Mode         string // "char", "line", "block"
}

// Popup is a floating box drawn over everything else, used for
// completion/command pickers.
type Popup struct {
	X, Y, Width, Height int
	Lines               []string
	Selected            int
}

// Input is everything Compose needs to paint one frame.
type Input struct {
	Windows         *window.Manager
	Documents       map[buffer.DocumentID]*buffer.Document
	Diagnostics     map[buffer.DocumentID][]Diagnostic
	Selections      map[window.ID]*Selection
	ShowDiagnostics bool
	BordersASCII    bool
	GutterWidth     int

	StatusLeft, StatusRight string
	CommandLine             string
	CommandLineActive       bool
	Popup                   *Popup
}

// Theme supplies the styles each layer paints with. A thin VSCode
// theme file maps into this set; unset fields fall back to terminal
// defaults.
type Theme struct {
	Text, Gutter, GutterActive Style
	Selection                  Style
	DiagnosticError, DiagnosticWarning, DiagnosticInfo, DiagnosticHint Style
	Border, BorderActive Style
	StatusLine           Style
	CommandLine          Style
	Popup, PopupSelected Style
}

// DefaultTheme is used when no theme file is configured.
var DefaultTheme = Theme{
	Text:              Style{},
	Gutter:            Style{Fg: RGB(120, 120, 120)},
	GutterActive:      Style{Fg: RGB(220, 220, 220)},
	Selection:         Style{Bg: RGB(60, 70, 90)},
	DiagnosticError:   Style{Underline: true, Fg: RGB(220, 60, 60)},
	DiagnosticWarning: Style{Underline: true, Fg: RGB(220, 180, 60)},
	DiagnosticInfo:    Style{Underline: true, Fg: RGB(100, 160, 220)},
	DiagnosticHint:    Style{Underline: true, Fg: RGB(140, 140, 140)},
	Border:            Style{Fg: RGB(80, 80, 80)},
	BorderActive:      Style{Fg: RGB(200, 200, 200)},
	StatusLine:        Style{Reverse: true},
	CommandLine:       Style{},
	Popup:             Style{Reverse: true},
	PopupSelected:     Style{Bold: true},
}

// Compose renders one full frame: content, selection, diagnostics,
// gutter, borders, status line, command line, then popups, in that
// order, so each later layer paints over the ones before it.
func Compose(in Input, theme Theme, width, height int) *Grid {
	g := NewGrid(width, height)

	contentHeight := height - 2 // reserve status line + command line
	if contentHeight < 0 {
		contentHeight = 0
	}

	for _, win := range in.Windows.Windows() {
		rect, ok := in.Windows.Rect(win.ID)
		if !ok {
			continue
		}
		if rect.Y+rect.Height > contentHeight {
			rect.Height = contentHeight - rect.Y
		}
		if rect.Height <= 0 {
			continue
		}
		doc := in.Documents[win.BufferID]
		if doc == nil {
			continue
		}

		gutterWidth := in.GutterWidth
		if gutterWidth <= 0 {
			gutterWidth = 4
		}

		drawContent(g, theme, doc, win, rect, gutterWidth)
		if sel := in.Selections[win.ID]; sel != nil {
			drawSelection(g, theme, doc, sel, win, rect, gutterWidth)
		}
		if in.ShowDiagnostics {
			drawDiagnostics(g, theme, in.Diagnostics[win.BufferID], win, rect, gutterWidth)
		}
		drawGutter(g, theme, doc, win, rect, gutterWidth, win.ID == in.Windows.Active())
		drawBorders(g, theme, rect, win.ID == in.Windows.Active(), in.BordersASCII)
	}

	drawStatusLine(g, theme, in.StatusLeft, in.StatusRight, width, height-2)
	drawCommandLine(g, theme, in.CommandLine, width, height-1)

	if in.Popup != nil {
		drawPopup(g, theme, in.Popup)
	}

	return g
}

func drawContent(g *Grid, theme Theme, doc *buffer.Document, win *window.Window, rect window.Rect, gutterWidth int) {
	textX := rect.X + gutterWidth
	textWidth := rect.Width - gutterWidth
	if textWidth <= 0 {
		return
	}

	for row := 0; row < rect.Height; row++ {
		line := win.Viewport.Top + row
		if line < 0 || uint32(line) >= doc.LineCount() {
			continue
		}
		text := doc.Line(uint32(line))
		writeClippedLine(g, textX, rect.Y+row, textWidth, text, win.Viewport.Left, theme.Text)
	}
}

// writeClippedLine paints text starting at display column scrollLeft,
// one cell per grapheme cluster, reserving a continuation cell for
// wide characters, clipped to width columns.
func writeClippedLine(g *Grid, x, y, width int, text string, scrollLeft int, style Style) {
	col := 0
	screenCol := 0
	for _, r := range text {
		w := unicodex.RuneWidth(r)
		if col+w <= scrollLeft {
			col += w
			continue
		}
		if screenCol >= width {
			break
		}
		g.Set(x+screenCol, y, Cell{Rune: r, Width: w, Style: style})
		screenCol++
		if w == 2 && screenCol < width {
			g.Set(x+screenCol, y, ContinuationCell)
			screenCol++
		}
		col += w
	}
}

func drawSelection(g *Grid, theme Theme, doc *buffer.Document, sel *Selection, win *window.Window, rect window.Rect, gutterWidth int) {
	start, end := sel.Anchor, sel.Head
	if start.Line > end.Line || (start.Line == end.Line && start.Char > end.Char) {
		start, end = end, start
	}

	textX := rect.X + gutterWidth
	lineCount := doc.LineCount()
	for line := start.Line; line <= end.Line && line < lineCount; line++ {
		row := int(line) - win.Viewport.Top
		if row < 0 || row >= rect.Height {
			continue
		}

		lineText := doc.Line(line)
		charCount := unicodex.CharCount(lineText)

		fromChar, toChar := 0, charCount
		if line == start.Line {
			fromChar = start.Char
		}
		if line == end.Line {
			toChar = end.Char
		}
		if sel.Mode == "line" {
			fromChar, toChar = 0, charCount
		}

		fromCol := doc.CharToColumn(line, fromChar)
		toCol := doc.CharToColumn(line, toChar)
		y := rect.Y + row
		for col := fromCol; col < toCol; col++ {
			x := textX + col - win.Viewport.Left
			c := g.Get(x, y)
			c.Style = theme.Selection
			g.Set(x, y, c)
		}
	}
}

func drawDiagnostics(g *Grid, theme Theme, diags []Diagnostic, win *window.Window, rect window.Rect, gutterWidth int) {
	textX := rect.X + gutterWidth
	for _, d := range diags {
		row := int(d.Line) - win.Viewport.Top
		if row < 0 || row >= rect.Height {
			continue
		}
		style := severityStyle(theme, d.Severity)
		for x := textX + d.StartChar; x < textX+d.EndChar; x++ {
			c := g.Get(x, rect.Y+row)
			c.Style.Underline = style.Underline
			c.Style.Fg = style.Fg
			g.Set(x, rect.Y+row, c)
		}
	}
}

func severityStyle(theme Theme, sev Severity) Style {
	switch sev {
	case SeverityError:
		return theme.DiagnosticError
	case SeverityWarning:
		return theme.DiagnosticWarning
	case SeverityInfo:
		return theme.DiagnosticInfo
	default:
		return theme.DiagnosticHint
	}
}

func drawGutter(g *Grid, theme Theme, doc *buffer.Document, win *window.Window, rect window.Rect, gutterWidth int, active bool) {
	style := theme.Gutter
	if active {
		style = theme.GutterActive
	}
	for row := 0; row < rect.Height; row++ {
		line := win.Viewport.Top + row
		label := ""
		if line >= 0 && uint32(line) < doc.LineCount() {
			label = fmt.Sprintf("%*d ", gutterWidth-1, line+1)
		}
		g.SetString(rect.X, rect.Y+row, padRight(label, gutterWidth), style)
	}
}

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	if len(s) > n {
		s = s[:n]
	}
	return s
}

func drawBorders(g *Grid, theme Theme, rect window.Rect, active bool, ascii bool) {
	style := theme.Border
	if active {
		style = theme.BorderActive
	}
	vertical, horizontal, corner := '│', '─', '┼'
	if ascii {
		vertical, horizontal, corner = '|', '-', '+'
	}

	// Right border, if there is room for one (a sibling exists there).
	rx := rect.X + rect.Width
	if rx < g.Width {
		for y := rect.Y; y < rect.Y+rect.Height; y++ {
			g.Set(rx, y, Cell{Rune: vertical, Width: 1, Style: style})
		}
	}
	// Bottom border.
	by := rect.Y + rect.Height
	if by < g.Height {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			g.Set(x, by, Cell{Rune: horizontal, Width: 1, Style: style})
		}
		if rx < g.Width {
			g.Set(rx, by, Cell{Rune: corner, Width: 1, Style: style})
		}
	}
}

func drawStatusLine(g *Grid, theme Theme, left, right string, width, y int) {
	g.FillRect(0, y, width, 1, Cell{Rune: ' ', Width: 1, Style: theme.StatusLine})
	g.SetString(0, y, left, theme.StatusLine)
	if len(right) <= width {
		g.SetString(width-len(right), y, right, theme.StatusLine)
	}
}

func drawCommandLine(g *Grid, theme Theme, text string, width, y int) {
	g.FillRect(0, y, width, 1, Cell{Rune: ' ', Width: 1, Style: theme.CommandLine})
	g.SetString(0, y, text, theme.CommandLine)
}

func drawPopup(g *Grid, theme Theme, p *Popup) {
	for row, line := range p.Lines {
		if row >= p.Height {
			break
		}
		style := theme.Popup
		if row == p.Selected {
			style = theme.PopupSelected
		}
		g.FillRect(p.X, p.Y+row, p.Width, 1, Cell{Rune: ' ', Width: 1, Style: style})
		g.SetString(p.X, p.Y+row, padRight(line, p.Width), style)
	}
}
