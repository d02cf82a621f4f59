package buffer

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rededitor/red/internal/event"
	"github.com/rededitor/red/internal/event/events"
	"github.com/rededitor/red/internal/unicodex"
)

// ErrCharOutOfRange is returned when a codepoint index falls outside
// the document's content.
var ErrCharOutOfRange = errors.New("character index out of range")

// DocumentID uniquely identifies an open document.
type DocumentID uint64

var documentIDCounter atomic.Uint64

// NewDocumentID allocates a fresh document identifier.
func NewDocumentID() DocumentID {
	return DocumentID(documentIDCounter.Add(1))
}

// CharPoint addresses a position in codepoints: Line is 0-based, Char
// is the 0-based codepoint offset within that line.
type CharPoint struct {
	Line uint32
	Char int
}

// Document wraps a Buffer with a codepoint-addressed API. The
// underlying Buffer stays byte-addressed for rope performance; every
// method here converts at the boundary via unicodex so callers never
// see a byte offset.
type Document struct {
	mu sync.RWMutex

	id       DocumentID
	name     string
	path     string
	language string

	buf     *Buffer
	version uint64
	dirty   bool

	bus event.Bus
}

// NewDocument creates an empty, unnamed document.
func NewDocument(name string) *Document {
	return &Document{
		id:   NewDocumentID(),
		name: name,
		buf:  NewBuffer(),
	}
}

// NewDocumentFromString creates a document with initial content.
func NewDocumentFromString(name, content string) *Document {
	return &Document{
		id:   NewDocumentID(),
		name: name,
		buf:  NewBufferFromString(content),
	}
}

// WithEventBus attaches a bus that change events are published on.
// Passing nil disables publishing.
func (d *Document) WithEventBus(bus event.Bus) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bus = bus
	return d
}

// ID returns the document's unique identifier.
func (d *Document) ID() DocumentID {
	return d.id
}

// Name returns the document's display name (usually the base file name).
func (d *Document) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// Path returns the document's backing file path, or "" for an
// unsaved buffer.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// SetPath updates the backing file path and derives the display name
// from it if name is empty.
func (d *Document) SetPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = path
}

// Language returns the document's language tag (e.g. "go", "python").
func (d *Document) Language() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.language
}

// SetLanguage sets the document's language tag.
func (d *Document) SetLanguage(lang string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.language = lang
}

// Version returns the monotonically increasing edit counter, used to
// correlate LSP textDocument/didChange notifications with responses.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// IsDirty reports whether the document has unsaved changes.
func (d *Document) IsDirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// MarkSaved clears the dirty flag after a successful write to disk.
func (d *Document) MarkSaved() {
	d.mu.Lock()
	wasDirty := d.dirty
	d.dirty = false
	d.mu.Unlock()

	if wasDirty {
		d.publish(events.BufferDirtyChanged{BufferID: d.idString(), IsDirty: false})
	}
}

// Buffer returns the underlying byte-addressed buffer. Intended for
// the rendering and LSP layers, which need byte or UTF-16 offsets;
// editing commands should prefer the codepoint methods below.
func (d *Document) Buffer() *Buffer {
	return d.buf
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() uint32 {
	return d.buf.LineCount()
}

// Line returns the text of a line, without its line ending.
func (d *Document) Line(line uint32) string {
	return d.buf.LineText(line)
}

// CharCount returns the number of codepoints on a line.
func (d *Document) CharCount(line uint32) int {
	return unicodex.CharCount(d.Line(line))
}

// CharToColumn converts a codepoint index on a line to its display
// column, accounting for wide and zero-width characters.
func (d *Document) CharToColumn(line uint32, ch int) int {
	return unicodex.CharToColumn(d.Line(line), ch)
}

// ColumnToChar converts a display column on a line to the codepoint
// index of the grapheme cluster covering it.
func (d *Document) ColumnToChar(line uint32, col int) int {
	return unicodex.ColumnToChar(d.Line(line), col)
}

// charPointToOffset converts a CharPoint into a byte offset, clamping
// the line and codepoint index to valid bounds.
func (d *Document) charPointToOffset(p CharPoint) (ByteOffset, error) {
	lineCount := d.buf.LineCount()
	if lineCount == 0 {
		lineCount = 1
	}
	if p.Line >= lineCount {
		return 0, ErrCharOutOfRange
	}
	text := d.buf.LineText(p.Line)
	charCount := unicodex.CharCount(text)
	if p.Char < 0 || p.Char > charCount {
		return 0, ErrCharOutOfRange
	}
	lineStart := d.buf.LineStartOffset(p.Line)
	byteCol := unicodex.CharToByte(text, p.Char)
	return lineStart + ByteOffset(byteCol), nil
}

// OffsetToCharPoint converts a byte offset into a CharPoint.
func (d *Document) OffsetToCharPoint(offset ByteOffset) CharPoint {
	point := d.buf.OffsetToPoint(offset)
	text := d.buf.LineText(point.Line)
	lineStart := d.buf.LineStartOffset(point.Line)
	byteCol := int(offset - lineStart)
	return CharPoint{Line: point.Line, Char: unicodex.ByteToChar(text, byteCol)}
}

// Slice returns the text between two codepoint positions.
func (d *Document) Slice(start, end CharPoint) (string, error) {
	startOff, err := d.charPointToOffset(start)
	if err != nil {
		return "", err
	}
	endOff, err := d.charPointToOffset(end)
	if err != nil {
		return "", err
	}
	if startOff > endOff {
		startOff, endOff = endOff, startOff
	}
	return d.buf.TextRange(startOff, endOff), nil
}

// Insert inserts text at a codepoint position and returns the
// position just past the inserted text.
func (d *Document) Insert(at CharPoint, text string) (CharPoint, error) {
	offset, err := d.charPointToOffset(at)
	if err != nil {
		return CharPoint{}, err
	}

	end, err := d.buf.Insert(offset, text)
	if err != nil {
		return CharPoint{}, err
	}

	d.bumpVersion()
	d.publish(events.BufferContentInserted{
		BufferID:   d.idString(),
		Position:   bufferPosition(d.buf, offset),
		Text:       text,
		NewRange:   bufferRange(d.buf, offset, end),
		RevisionID: revisionIDString(d.buf.RevisionID()),
	})

	return d.OffsetToCharPoint(end), nil
}

// Delete removes the text between two codepoint positions.
func (d *Document) Delete(start, end CharPoint) error {
	startOff, err := d.charPointToOffset(start)
	if err != nil {
		return err
	}
	endOff, err := d.charPointToOffset(end)
	if err != nil {
		return err
	}
	if startOff > endOff {
		startOff, endOff = endOff, startOff
	}

	deleted := d.buf.TextRange(startOff, endOff)
	if err := d.buf.Delete(startOff, endOff); err != nil {
		return err
	}

	d.bumpVersion()
	d.publish(events.BufferContentDeleted{
		BufferID:    d.idString(),
		Range:       bufferRange(d.buf, startOff, endOff),
		DeletedText: deleted,
		RevisionID:  revisionIDString(d.buf.RevisionID()),
	})

	return nil
}

// Replace replaces the text between two codepoint positions with
// newText and returns the position just past the replacement.
func (d *Document) Replace(start, end CharPoint, newText string) (CharPoint, error) {
	startOff, err := d.charPointToOffset(start)
	if err != nil {
		return CharPoint{}, err
	}
	endOff, err := d.charPointToOffset(end)
	if err != nil {
		return CharPoint{}, err
	}
	if startOff > endOff {
		startOff, endOff = endOff, startOff
	}

	oldText := d.buf.TextRange(startOff, endOff)
	newEnd, err := d.buf.Replace(startOff, endOff, newText)
	if err != nil {
		return CharPoint{}, err
	}

	d.bumpVersion()
	d.publish(events.BufferContentReplaced{
		BufferID:   d.idString(),
		OldRange:   bufferRange(d.buf, startOff, endOff),
		NewRange:   bufferRange(d.buf, startOff, newEnd),
		OldText:    oldText,
		NewText:    newText,
		RevisionID: revisionIDString(d.buf.RevisionID()),
	})

	return d.OffsetToCharPoint(newEnd), nil
}

// bumpVersion advances the edit counter and marks the document dirty,
// publishing a dirty-state transition the first time it happens.
func (d *Document) bumpVersion() {
	d.mu.Lock()
	d.version++
	wasDirty := d.dirty
	d.dirty = true
	d.mu.Unlock()

	if !wasDirty {
		d.publish(events.BufferDirtyChanged{BufferID: d.idString(), IsDirty: true})
	}
}

func (d *Document) idString() string {
	return d.name
}

func (d *Document) publish(evt any) {
	d.mu.RLock()
	bus := d.bus
	d.mu.RUnlock()
	if bus == nil {
		return
	}
	_ = bus.PublishAsync(context.Background(), evt)
}

func bufferPosition(buf *Buffer, offset ByteOffset) events.Position {
	p := buf.OffsetToPoint(offset)
	return events.Position{Line: int(p.Line), Column: int(p.Column), Offset: int(offset)}
}

func bufferRange(buf *Buffer, start, end ByteOffset) events.Range {
	return events.Range{Start: bufferPosition(buf, start), End: bufferPosition(buf, end)}
}

func revisionIDString(r RevisionID) string {
	return strconv.FormatUint(uint64(r), 10)
}
