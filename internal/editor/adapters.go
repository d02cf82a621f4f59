package editor

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rededitor/red/internal/dispatcher/execctx"
	"github.com/rededitor/red/internal/engine/buffer"
	"github.com/rededitor/red/internal/event"
	"github.com/rededitor/red/internal/event/topic"
	"github.com/rededitor/red/internal/input/mode"
	"github.com/rededitor/red/internal/plugin/api"
	"github.com/rededitor/red/internal/render"
	"github.com/rededitor/red/internal/window"
)

var _ api.EventProvider = (*EventBusAdapter)(nil)

// Compile-time interface checks.
var (
	_ execctx.EngineInterface      = (*EngineAdapter)(nil)
	_ execctx.EngineReader         = (*snapshotAdapter)(nil)
	_ execctx.ModeManagerInterface = (*ModeAdapter)(nil)
	_ execctx.RendererInterface    = (*RendererAdapter)(nil)
)

// EngineAdapter adapts *buffer.Buffer to execctx.EngineInterface. The
// three mutating methods go through ApplyEdit so every edit, whatever
// its shape, produces the same EditResult the dispatcher's handlers
// expect.
type EngineAdapter struct {
	buf *buffer.Buffer
}

// NewEngineAdapter wraps buf for use as a dispatcher execution context engine.
func NewEngineAdapter(buf *buffer.Buffer) *EngineAdapter {
	return &EngineAdapter{buf: buf}
}

func (a *EngineAdapter) Insert(offset buffer.ByteOffset, text string) (buffer.EditResult, error) {
	return a.buf.ApplyEdit(buffer.NewInsert(offset, text))
}

func (a *EngineAdapter) Delete(start, end buffer.ByteOffset) (buffer.EditResult, error) {
	return a.buf.ApplyEdit(buffer.NewDelete(start, end))
}

func (a *EngineAdapter) Replace(start, end buffer.ByteOffset, text string) (buffer.EditResult, error) {
	return a.buf.ApplyEdit(buffer.NewEdit(buffer.Range{Start: start, End: end}, text))
}

func (a *EngineAdapter) Text() string                            { return a.buf.Text() }
func (a *EngineAdapter) TextRange(s, e buffer.ByteOffset) string { return a.buf.TextRange(s, e) }
func (a *EngineAdapter) LineText(line uint32) string             { return a.buf.LineText(line) }
func (a *EngineAdapter) Len() buffer.ByteOffset                  { return a.buf.Len() }
func (a *EngineAdapter) LineCount() uint32                       { return a.buf.LineCount() }

func (a *EngineAdapter) LineStartOffset(line uint32) buffer.ByteOffset {
	return a.buf.LineStartOffset(line)
}

func (a *EngineAdapter) LineEndOffset(line uint32) buffer.ByteOffset {
	return a.buf.LineEndOffset(line)
}

func (a *EngineAdapter) LineLen(line uint32) uint32 { return uint32(a.buf.LineLen(line)) }

func (a *EngineAdapter) OffsetToPoint(offset buffer.ByteOffset) buffer.Point {
	return a.buf.OffsetToPoint(offset)
}

func (a *EngineAdapter) PointToOffset(point buffer.Point) buffer.ByteOffset {
	return a.buf.PointToOffset(point)
}

func (a *EngineAdapter) RevisionID() buffer.RevisionID { return a.buf.RevisionID() }

func (a *EngineAdapter) Snapshot() execctx.EngineReader {
	return &snapshotAdapter{snap: a.buf.Snapshot()}
}

// snapshotAdapter adapts *buffer.Snapshot's int-valued LineLen to the
// uint32 execctx.EngineReader expects.
type snapshotAdapter struct {
	snap *buffer.Snapshot
}

func (s *snapshotAdapter) Text() string                            { return s.snap.Text() }
func (s *snapshotAdapter) TextRange(a, b buffer.ByteOffset) string { return s.snap.TextRange(a, b) }
func (s *snapshotAdapter) LineText(line uint32) string              { return s.snap.LineText(line) }
func (s *snapshotAdapter) Len() buffer.ByteOffset                   { return s.snap.Len() }
func (s *snapshotAdapter) LineCount() uint32                        { return s.snap.LineCount() }

func (s *snapshotAdapter) LineStartOffset(line uint32) buffer.ByteOffset {
	return s.snap.LineStartOffset(line)
}

func (s *snapshotAdapter) LineEndOffset(line uint32) buffer.ByteOffset {
	return s.snap.LineEndOffset(line)
}

func (s *snapshotAdapter) LineLen(line uint32) uint32 { return uint32(s.snap.LineLen(line)) }

func (s *snapshotAdapter) OffsetToPoint(offset buffer.ByteOffset) buffer.Point {
	return s.snap.OffsetToPoint(offset)
}

func (s *snapshotAdapter) PointToOffset(point buffer.Point) buffer.ByteOffset {
	return s.snap.PointToOffset(point)
}

// ModeAdapter adapts *mode.Manager to execctx.ModeManagerInterface.
// Switch/Push/Pop/IsMode/IsAnyMode already match the interface
// exactly; only Current needs to box the returned mode.Mode as
// execctx.ModeInterface.
type ModeAdapter struct {
	manager *mode.Manager
}

// NewModeAdapter wraps manager for use as a dispatcher execution context mode manager.
func NewModeAdapter(manager *mode.Manager) *ModeAdapter {
	return &ModeAdapter{manager: manager}
}

func (a *ModeAdapter) Current() execctx.ModeInterface {
	m := a.manager.Current()
	if m == nil {
		return nil
	}
	return modeWrapper{mode: m}
}

func (a *ModeAdapter) CurrentName() string             { return a.manager.CurrentName() }
func (a *ModeAdapter) Switch(name string) error        { return a.manager.Switch(name) }
func (a *ModeAdapter) Push(name string) error           { return a.manager.Push(name) }
func (a *ModeAdapter) Pop() error                       { return a.manager.Pop() }
func (a *ModeAdapter) IsMode(name string) bool          { return a.manager.IsMode(name) }
func (a *ModeAdapter) IsAnyMode(names ...string) bool   { return a.manager.IsAnyMode(names...) }

type modeWrapper struct {
	mode mode.Mode
}

func (w modeWrapper) Name() string        { return w.mode.Name() }
func (w modeWrapper) DisplayName() string { return w.mode.DisplayName() }

// RendererAdapter adapts a window and the terminal backend to
// execctx.RendererInterface. Because Editor.Run recomposes the whole
// grid every turn, Redraw/RedrawLines only need to mark the backend
// for a full repaint rather than track individual dirty lines.
type RendererAdapter struct {
	windows *window.Manager
	backend *render.Backend
}

// NewRendererAdapter wraps windows/backend for use as a dispatcher execution context renderer.
func NewRendererAdapter(windows *window.Manager, backend *render.Backend) *RendererAdapter {
	return &RendererAdapter{windows: windows, backend: backend}
}

func (a *RendererAdapter) ScrollTo(line, col uint32) {
	win := a.windows.ActiveWindow()
	if win == nil {
		return
	}
	win.Viewport.Top = int(line)
	win.Viewport.Left = int(col)
}

func (a *RendererAdapter) CenterOnLine(line uint32) {
	win := a.windows.ActiveWindow()
	if win == nil {
		return
	}
	rect, ok := a.windows.Rect(win.ID)
	if !ok || rect.Height <= 0 {
		win.Viewport.Top = int(line)
		return
	}
	top := int(line) - rect.Height/2
	if top < 0 {
		top = 0
	}
	win.Viewport.Top = top
}

func (a *RendererAdapter) Redraw() {
	if a.backend != nil {
		a.backend.Sync()
	}
}

func (a *RendererAdapter) RedrawLines(_ []uint32) {
	a.Redraw()
}

func (a *RendererAdapter) VisibleLineRange() (start, end uint32) {
	win := a.windows.ActiveWindow()
	if win == nil {
		return 0, 0
	}
	rect, ok := a.windows.Rect(win.ID)
	if !ok {
		return uint32(win.Viewport.Top), uint32(win.Viewport.Top)
	}
	start = uint32(win.Viewport.Top)
	end = start + uint32(rect.Height)
	return start, end
}

// EventBusAdapter adapts the editor's event.Bus to api.EventProvider so
// plugins can subscribe to and emit host events through ks.event.
// Plugin-facing event names use colon-delimited segments (lsp:progress,
// buffer:changed); the bus's Topic type uses dot-delimited segments, so
// every name crossing this boundary is translated one way.
type EventBusAdapter struct {
	bus event.Bus

	mu   sync.Mutex
	subs map[string]event.Subscription

	nextID atomic.Uint64
}

// NewEventBusAdapter wraps bus for use as the plugin system's event provider.
func NewEventBusAdapter(bus event.Bus) *EventBusAdapter {
	return &EventBusAdapter{
		bus:  bus,
		subs: make(map[string]event.Subscription),
	}
}

func toTopic(eventType string) topic.Topic {
	return topic.Topic(strings.ReplaceAll(eventType, ":", "."))
}

func (a *EventBusAdapter) Subscribe(eventType string, handler func(data map[string]any)) string {
	sub, err := a.bus.SubscribeFunc(toTopic(eventType), func(_ context.Context, evt any) error {
		if ev, ok := evt.(event.Event[map[string]any]); ok {
			handler(ev.Payload)
		}
		return nil
	})
	if err != nil {
		return ""
	}

	id := a.nextID.Add(1)
	key := eventType + "#" + itoa(id)

	a.mu.Lock()
	a.subs[key] = sub
	a.mu.Unlock()

	return key
}

func (a *EventBusAdapter) Unsubscribe(id string) bool {
	a.mu.Lock()
	sub, ok := a.subs[id]
	if ok {
		delete(a.subs, id)
	}
	a.mu.Unlock()

	if !ok {
		return false
	}
	return a.bus.Unsubscribe(sub) == nil
}

func (a *EventBusAdapter) Emit(eventType string, data map[string]any) {
	evt := event.NewEvent(toTopic(eventType), data, "plugin")
	_ = a.bus.PublishAsync(context.Background(), evt)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
