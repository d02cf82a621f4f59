package editor

import (
	"context"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rededitor/red/internal/dispatcher/handler"
	"github.com/rededitor/red/internal/engine/buffer"
	"github.com/rededitor/red/internal/event/topic"
	"github.com/rededitor/red/internal/input"
	"github.com/rededitor/red/internal/input/key"
	"github.com/rededitor/red/internal/input/mode"
	"github.com/rededitor/red/internal/render"
	"github.com/rededitor/red/internal/window"
)

// gutterWidth is the fixed column count reserved for line numbers.
const gutterWidth = 5

// editingActionPrefixes names actions that modify document content and
// therefore dirty the active document.
var editingActionPrefixes = []string{
	"editor.insert",
	"editor.delete",
	"editor.backspace",
	"editor.newline",
	"editor.indent",
	"editor.unindent",
	"editor.yank",
	"editor.paste",
	"editor.change",
	"editor.substitute",
	"editor.replace",
	"editor.join",
	"editor.toggle",
}

// Run initializes the terminal backend and enters the cooperative main
// loop: a single goroutine blocked on one select over terminal events,
// wake signals from the event bus (LSP diagnostics, plugin callbacks),
// and a ticker, classifying each turn into at most one render.
func (ed *Editor) Run() error {
	if !ed.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	backend, err := render.NewBackend()
	if err != nil {
		ed.running.Store(false)
		return &Error{Kind: KindIO, Op: "backend", Err: err}
	}
	ed.backend = backend
	ed.wireActiveDocument()

	wake := ed.subscribeWake()
	terminalEvents := ed.pollTerminalEvents()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	ed.redrawAll()

	for {
		var loopErr error
		select {
		case ev, ok := <-terminalEvents:
			if !ok {
				ed.Shutdown()
				return nil
			}
			loopErr = ed.handleTerminalEvent(ev)
		case <-wake:
			ed.redrawAll()
		case <-ticker.C:
			ed.flushPendingDiagnostics()
		case <-ed.done:
			return nil
		}

		if loopErr != nil {
			ed.Shutdown()
			if loopErr == ErrQuit || loopErr == ErrForcedQuit {
				return nil
			}
			return loopErr
		}
	}
}

// pollTerminalEvents runs a goroutine that blocks on the backend's
// PollEvent and forwards each one to the returned channel. PollEvent
// only returns once Close is called, so this goroutine outlives
// Shutdown briefly; the channel is simply abandoned at that point.
func (ed *Editor) pollTerminalEvents() <-chan tcell.Event {
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := ed.backend.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ed.done:
				return
			}
		}
	}()
	return events
}

// subscribeWake listens for any event published on the bus and turns
// it into a non-blocking wake signal, letting asynchronous LSP
// diagnostics and plugin-triggered state changes repaint the screen
// without the main loop polling for them.
func (ed *Editor) subscribeWake() <-chan struct{} {
	wake := make(chan struct{}, 1)
	_, _ = ed.eventBus.SubscribeFunc(topic.Topic(topic.WildcardMulti), func(_ context.Context, _ any) error {
		select {
		case wake <- struct{}{}:
		default:
		}
		return nil
	})
	return wake
}

// flushPendingDiagnostics is the ticker tick's hook for periodic
// housekeeping that has nothing to do with a specific input event:
// currently a no-op placeholder for debounce-driven work that already
// fires through callbacks.
func (ed *Editor) flushPendingDiagnostics() {}

func (ed *Editor) handleTerminalEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventResize:
		ed.redrawAll()
		return nil
	case *tcell.EventKey:
		return ed.handleKeyEvent(e)
	case *tcell.EventMouse:
		return ed.handleMouseEvent(e)
	case *tcell.EventPaste:
		return ed.handlePasteEvent(e)
	default:
		return nil
	}
}

func (ed *Editor) handleKeyEvent(ev *tcell.EventKey) error {
	keyEv := convertTcellKey(ev)

	current := ed.modeManager.Current()
	if current == nil {
		return nil
	}

	modeCtx := ed.buildModeContext()
	result := current.HandleUnmapped(keyEv, modeCtx)
	if result == nil {
		return nil
	}

	err := ed.processModeResult(result)
	ed.redrawAll()
	return err
}

func (ed *Editor) handleMouseEvent(_ *tcell.EventMouse) error {
	return nil
}

func (ed *Editor) handlePasteEvent(_ *tcell.EventPaste) error {
	return nil
}

// convertTcellKey maps a tcell key event to the backend-agnostic
// key.Event the mode layer understands.
func convertTcellKey(ev *tcell.EventKey) key.Event {
	mods := key.ModNone
	tm := ev.Modifiers()
	if tm&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if tm&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if tm&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if tm&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}

	switch ev.Key() {
	case tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods)
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods)
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods)
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods)
	case tcell.KeyInsert:
		return key.NewSpecialEvent(key.KeyInsert, mods)
	case tcell.KeyHome:
		return key.NewSpecialEvent(key.KeyHome, mods)
	case tcell.KeyEnd:
		return key.NewSpecialEvent(key.KeyEnd, mods)
	case tcell.KeyPgUp:
		return key.NewSpecialEvent(key.KeyPageUp, mods)
	case tcell.KeyPgDn:
		return key.NewSpecialEvent(key.KeyPageDown, mods)
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods)
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods)
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods)
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods)
	case tcell.KeyEsc:
		return key.NewSpecialEvent(key.KeyEscape, mods)
	case tcell.KeyF1:
		return key.NewSpecialEvent(key.KeyF1, mods)
	case tcell.KeyF2:
		return key.NewSpecialEvent(key.KeyF2, mods)
	case tcell.KeyF3:
		return key.NewSpecialEvent(key.KeyF3, mods)
	case tcell.KeyF4:
		return key.NewSpecialEvent(key.KeyF4, mods)
	case tcell.KeyF5:
		return key.NewSpecialEvent(key.KeyF5, mods)
	case tcell.KeyF6:
		return key.NewSpecialEvent(key.KeyF6, mods)
	case tcell.KeyF7:
		return key.NewSpecialEvent(key.KeyF7, mods)
	case tcell.KeyF8:
		return key.NewSpecialEvent(key.KeyF8, mods)
	case tcell.KeyF9:
		return key.NewSpecialEvent(key.KeyF9, mods)
	case tcell.KeyF10:
		return key.NewSpecialEvent(key.KeyF10, mods)
	case tcell.KeyF11:
		return key.NewSpecialEvent(key.KeyF11, mods)
	case tcell.KeyF12:
		return key.NewSpecialEvent(key.KeyF12, mods)
	default:
		if r, mapped := ctrlLetterRune(ev.Key()); mapped {
			return key.NewRuneEvent(r, mods.With(key.ModCtrl))
		}
		if r := ev.Rune(); r != 0 {
			return key.NewRuneEvent(r, mods)
		}
		return key.NewSpecialEvent(key.KeyNone, mods)
	}
}

// ctrlLetterRune maps tcell's KeyCtrlA..KeyCtrlZ constants back to
// their base letter, since tcell reports Ctrl+<letter> as its own Key
// rather than as a rune plus a modifier.
func ctrlLetterRune(k tcell.Key) (rune, bool) {
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return rune('a' + (k - tcell.KeyCtrlA)), true
	}
	return 0, false
}

// processModeResult dispatches the action or text insertion produced
// by the active mode's unmapped-key handler.
func (ed *Editor) processModeResult(result *mode.UnmappedResult) error {
	if result.Action != nil {
		return ed.dispatchModeAction(result.Action)
	}
	if result.InsertText != "" {
		return ed.insertText(result.InsertText)
	}
	return nil
}

func (ed *Editor) dispatchModeAction(action *mode.Action) error {
	if strings.HasPrefix(action.Name, "mode.") {
		return ed.modeManager.Switch(action.Name[len("mode."):])
	}

	act := input.Action{
		Name: action.Name,
		Args: convertModeArgs(action.Args),
	}

	switch act.Name {
	case "app.quit":
		return ErrQuit
	case "app.forcequit":
		return ErrForcedQuit
	}

	result := ed.dispatcher.DispatchWithContext(act, ed.buildInputContext())
	if result.Status == handler.StatusOK {
		if doc := ed.documents.Active(); doc != nil && isEditingAction(act.Name) {
			doc.SetModified(true)
		}
	}
	return nil
}

func convertModeArgs(args map[string]any) input.ActionArgs {
	out := input.ActionArgs{}
	if len(args) > 0 {
		out.Extra = make(map[string]interface{}, len(args))
		for k, v := range args {
			out.Extra[k] = v
		}
	}
	return out
}

func isEditingAction(name string) bool {
	for _, prefix := range editingActionPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// insertText inserts literal text at every cursor's head, used for
// plain character input that the active mode did not turn into a
// named action.
func (ed *Editor) insertText(text string) error {
	if text == "" {
		return nil
	}
	doc := ed.documents.Active()
	if doc == nil || doc.ReadOnly {
		return nil
	}
	if doc.Cursors.Count() == 0 {
		return nil
	}

	primary := doc.Cursors.Primary()
	if _, err := doc.Doc.Buffer().Insert(primary.Head, text); err != nil {
		return err
	}
	doc.SetModified(true)
	return nil
}

func (ed *Editor) buildInputContext() *input.Context {
	ctx := input.NewContext()
	if ed.modeManager != nil && ed.modeManager.Current() != nil {
		ctx.Mode = ed.modeManager.Current().Name()
	}
	if doc := ed.documents.Active(); doc != nil {
		ctx.FilePath = doc.Doc.Path()
		ctx.FileType = doc.LanguageID
		ctx.IsModified = doc.IsModified()
		ctx.IsReadOnly = doc.ReadOnly
		ctx.HasSelection = doc.Cursors.HasSelection()
	}
	return ctx
}

func (ed *Editor) buildModeContext() *mode.Context {
	ctx := &mode.Context{}
	if ed.modeManager != nil && ed.modeManager.Current() != nil {
		ctx.PreviousMode = ed.modeManager.Current().Name()
	}
	if doc := ed.documents.Active(); doc != nil {
		ctx.Editor = editorStateAdapter{doc: doc}
	}
	return ctx
}

// editorStateAdapter exposes the active document as mode.EditorState
// without requiring the Editor type itself to grow that surface.
type editorStateAdapter struct {
	doc *Document
}

func (a editorStateAdapter) CursorPosition() (line, col uint32) {
	if a.doc.Cursors.Count() == 0 {
		return 0, 0
	}
	point := a.doc.Doc.OffsetToCharPoint(a.doc.Cursors.Primary().Head)
	return point.Line, uint32(point.Char)
}

func (a editorStateAdapter) HasSelection() bool { return a.doc.Cursors.HasSelection() }

func (a editorStateAdapter) CurrentLine() string {
	if a.doc.Cursors.Count() == 0 {
		return ""
	}
	point := a.doc.Doc.OffsetToCharPoint(a.doc.Cursors.Primary().Head)
	return a.doc.Doc.Buffer().LineText(point.Line)
}

func (a editorStateAdapter) LineCount() uint32 { return a.doc.Doc.Buffer().LineCount() }

func (a editorStateAdapter) FilePath() string { return a.doc.Doc.Path() }

// redrawAll composes a fresh grid from every window and document and
// paints it, the single point where the main loop's "at most one
// render per turn" rule is enforced.
func (ed *Editor) redrawAll() {
	if ed.backend == nil {
		return
	}
	width, height := ed.backend.Size()
	if width <= 0 || height <= 0 {
		return
	}
	ed.windows.Relayout(width, height-2)

	in := ed.buildRenderInput()
	grid := render.Compose(in, ed.theme, width, height)

	cx, cy, visible := ed.cursorScreenPosition()
	ed.backend.Paint(grid, cx, cy, visible)
}

// buildRenderInput gathers every open document, the window layout,
// and the active selection into the shape Compose expects.
func (ed *Editor) buildRenderInput() render.Input {
	docs := make(map[buffer.DocumentID]*buffer.Document)
	for _, d := range ed.documents.All() {
		docs[d.Doc.ID()] = d.Doc
	}

	selections := make(map[window.ID]*render.Selection)
	if win := ed.windows.ActiveWindow(); win != nil {
		if doc, ok := ed.documents.Get(win.BufferID); ok && doc.Cursors.HasSelection() {
			primary := doc.Cursors.Primary()
			selections[win.ID] = &render.Selection{
				Anchor: doc.Doc.OffsetToCharPoint(primary.Anchor),
				Head:   doc.Doc.OffsetToCharPoint(primary.Head),
				Mode:   ed.modeManager.CurrentName(),
			}
		}
	}

	status := ed.statusMessage
	if status == "" && ed.modeManager != nil && ed.modeManager.Current() != nil {
		status = ed.modeManager.Current().DisplayName()
	}

	return render.Input{
		Windows:           ed.windows,
		Documents:         docs,
		Selections:        selections,
		GutterWidth:       gutterWidth,
		StatusLeft:        status,
		CommandLine:       ed.commandLine,
		CommandLineActive: ed.commandActive,
	}
}

// cursorScreenPosition converts the active window's primary cursor
// into absolute terminal cell coordinates for the hardware cursor.
func (ed *Editor) cursorScreenPosition() (x, y int, visible bool) {
	win := ed.windows.ActiveWindow()
	if win == nil {
		return 0, 0, false
	}
	doc, ok := ed.documents.Get(win.BufferID)
	if !ok {
		return 0, 0, false
	}
	rect, ok := ed.windows.Rect(win.ID)
	if !ok {
		return 0, 0, false
	}
	if doc.Cursors.Count() == 0 {
		return 0, 0, false
	}
	primary := doc.Cursors.Primary()
	point := doc.Doc.OffsetToCharPoint(primary.Head)

	screenLine := int(point.Line) - win.Viewport.Top
	screenCol := int(point.Char) - win.Viewport.Left
	if screenLine < 0 || screenLine >= rect.Height || screenCol < 0 || screenCol >= rect.Width {
		return 0, 0, false
	}
	return rect.X + gutterWidth + screenCol, rect.Y + screenLine, true
}
