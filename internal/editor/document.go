package editor

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rededitor/red/internal/engine/buffer"
	"github.com/rededitor/red/internal/engine/cursor"
	"github.com/rededitor/red/internal/engine/history"
	"github.com/rededitor/red/internal/lsp"
)

// Document is an open buffer plus the per-buffer editing state that
// does not belong on buffer.Document itself: cursors, undo history,
// and the read-only/LSP-sync flags the dispatcher and LSP client need.
type Document struct {
	Doc *buffer.Document

	LanguageID string
	ReadOnly   bool

	Cursors *cursor.CursorSet
	History *history.History

	modified  atomic.Bool
	lspOpened atomic.Bool
}

// NewDocumentFromFile reads path and wraps its content.
func NewDocumentFromFile(path string) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	doc := buffer.NewDocumentFromString(filepath.Base(absPath), string(content))
	doc.SetPath(absPath)
	lang := lsp.DetectLanguageID(absPath)
	doc.SetLanguage(lang)
	return &Document{
		Doc:        doc,
		LanguageID: lang,
		Cursors:    cursor.NewCursorSetAt(0),
		History:    history.NewHistory(0),
	}, nil
}

// NewScratchDocument creates an empty, path-less document.
func NewScratchDocument(name string) *Document {
	doc := buffer.NewDocument(name)
	return &Document{
		Doc:     doc,
		Cursors: cursor.NewCursorSetAt(0),
		History: history.NewHistory(0),
	}
}

func (d *Document) IsModified() bool     { return d.modified.Load() }
func (d *Document) SetModified(v bool)   { d.modified.Store(v) }
func (d *Document) IsScratch() bool      { return d.Doc.Path() == "" }
func (d *Document) IsLSPOpened() bool    { return d.lspOpened.Load() }
func (d *Document) SetLSPOpened(v bool)  { d.lspOpened.Store(v) }

// DocumentManager owns every open Document, keyed by buffer.DocumentID,
// and tracks which one is active for commands that operate on "the
// current buffer" rather than a specific window.
type DocumentManager struct {
	mu        sync.RWMutex
	documents map[buffer.DocumentID]*Document
	order     []buffer.DocumentID
	active    buffer.DocumentID
}

// NewDocumentManager creates an empty document manager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{documents: make(map[buffer.DocumentID]*Document)}
}

// Open reads path from disk, or returns the already-open document if
// its absolute path matches one already tracked.
func (dm *DocumentManager) Open(path string) (*Document, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, id := range dm.order {
		if doc := dm.documents[id]; doc.Doc.Path() == absPath {
			dm.active = id
			return doc, nil
		}
	}
	doc, err := NewDocumentFromFile(absPath)
	if err != nil {
		return nil, err
	}
	dm.documents[doc.Doc.ID()] = doc
	dm.order = append(dm.order, doc.Doc.ID())
	dm.active = doc.Doc.ID()
	return doc, nil
}

// CreateScratch adds and activates a new untitled document.
func (dm *DocumentManager) CreateScratch() *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	name := "Untitled"
	if n := len(dm.order); n > 0 {
		name = "Untitled-" + itoa(n+1)
	}
	doc := NewScratchDocument(name)
	dm.documents[doc.Doc.ID()] = doc
	dm.order = append(dm.order, doc.Doc.ID())
	dm.active = doc.Doc.ID()
	return doc
}

// Close removes id from the manager, reassigning Active to the most
// recently opened remaining document, if any.
func (dm *DocumentManager) Close(id buffer.DocumentID) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if _, ok := dm.documents[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(dm.documents, id)
	for i, oid := range dm.order {
		if oid == id {
			dm.order = append(dm.order[:i], dm.order[i+1:]...)
			break
		}
	}
	if dm.active == id {
		if len(dm.order) > 0 {
			dm.active = dm.order[len(dm.order)-1]
		} else {
			dm.active = 0
		}
	}
	return nil
}

func (dm *DocumentManager) Active() *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.documents[dm.active]
}

func (dm *DocumentManager) SetActive(id buffer.DocumentID) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.active = id
}

func (dm *DocumentManager) Get(id buffer.DocumentID) (*Document, bool) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	doc, ok := dm.documents[id]
	return doc, ok
}

func (dm *DocumentManager) All() []*Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	docs := make([]*Document, 0, len(dm.order))
	for _, id := range dm.order {
		docs = append(docs, dm.documents[id])
	}
	return docs
}

func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.documents)
}

func (dm *DocumentManager) HasDirty() bool {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, doc := range dm.documents {
		if doc.IsModified() {
			return true
		}
	}
	return false
}

func itoa(n int) string {
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
