package editor

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rededitor/red/internal/config"
	"github.com/rededitor/red/internal/dispatcher"
	"github.com/rededitor/red/internal/dispatcher/handlers/completion"
	"github.com/rededitor/red/internal/dispatcher/handlers/cursor"
	dispeditor "github.com/rededitor/red/internal/dispatcher/handlers/editor"
	"github.com/rededitor/red/internal/dispatcher/handlers/file"
	"github.com/rededitor/red/internal/dispatcher/handlers/macro"
	modehandler "github.com/rededitor/red/internal/dispatcher/handlers/mode"
	"github.com/rededitor/red/internal/dispatcher/handlers/operator"
	"github.com/rededitor/red/internal/dispatcher/handlers/search"
	"github.com/rededitor/red/internal/dispatcher/handlers/view"
	handlerwindow "github.com/rededitor/red/internal/dispatcher/handlers/window"
	"github.com/rededitor/red/internal/event"
	"github.com/rededitor/red/internal/event/topic"
	"github.com/rededitor/red/internal/input/mode"
	"github.com/rededitor/red/internal/logging"
	"github.com/rededitor/red/internal/lsp"
	"github.com/rededitor/red/internal/plugin"
	"github.com/rededitor/red/internal/render"
	"github.com/rededitor/red/internal/theme"
	"github.com/rededitor/red/internal/window"
)

// Options configures a new Editor.
type Options struct {
	ConfigPath    string
	WorkspacePath string
	Files         []string
	ReadOnly      bool
}

// Editor is the central coordinator: it owns every subsystem and runs
// the cooperative main loop described by the concurrency model — one
// goroutine, one select, at most one render per turn.
type Editor struct {
	mu sync.RWMutex

	eventBus event.Bus
	config   *config.Config

	modeManager *mode.Manager
	dispatcher  *dispatcher.Dispatcher

	documents *DocumentManager
	windows   *window.Manager

	backend *render.Backend
	theme   render.Theme
	themes  *theme.Registry

	lsp     *lsp.Manager
	plugins *plugin.System

	logger *logging.Logger

	running atomic.Bool
	done    chan struct{}

	statusMessage string
	commandLine   string
	commandActive bool

	opts Options
}

// New creates an Editor wired per opts but does not start it; call Run
// to enter the main loop.
func New(opts Options) (*Editor, error) {
	ed := &Editor{
		opts:      opts,
		done:      make(chan struct{}),
		documents: NewDocumentManager(),
		theme:     render.DefaultTheme,
		themes:    theme.NewRegistry(),
	}
	if err := ed.bootstrap(); err != nil {
		return nil, err
	}
	return ed, nil
}

// bootstrap initializes every subsystem in dependency order, mirroring
// the teacher's numbered bootstrap sequence: bus, config, modes,
// dispatcher, LSP, plugins, then initial documents and windows.
func (ed *Editor) bootstrap() error {
	ed.eventBus = event.NewBus()
	if err := ed.eventBus.Start(); err != nil {
		return &Error{Kind: KindIO, Op: "event bus", Err: err}
	}

	configOpts := []config.Option{
		config.WithSchemaValidation(true),
	}
	if ed.opts.WorkspacePath != "" {
		configOpts = append(configOpts, config.WithProjectConfigDir(ed.opts.WorkspacePath))
	}
	ed.config = config.New(configOpts...)
	_ = ed.config.Load(context.Background())

	if resolved, err := ed.themes.Resolve(ed.config.UI().Theme); err != nil {
		ed.statusMessage = (&Error{Kind: KindParseError, Op: "theme", Err: err}).Error()
	} else {
		ed.theme = resolved
	}

	logFile, _ := ed.config.GetString("log_file")
	ed.logger = logging.New(logging.Config{Level: logging.LevelInfo, FilePath: logFile})
	logging.SetDefault(ed.logger)

	ed.modeManager = mode.NewManager()
	ed.registerModes()

	dispatcherConfig := dispatcher.DefaultConfig()
	dispatcherConfig.RecoverFromPanic = true
	ed.dispatcher = dispatcher.New(dispatcherConfig)
	ed.dispatcher.SetModeManager(NewModeAdapter(ed.modeManager))

	ed.lsp = lsp.NewManager(
		lsp.WithRequestTimeout(10 * time.Second),
		lsp.WithSupervision(lsp.DefaultSupervisorConfig()),
		lsp.WithProgressCallback(ed.publishLSPProgress),
		lsp.WithMessageCallback(ed.logLSPMessage),
	)
	for lang, cfg := range lsp.AutoDetectServers() {
		ed.lsp.RegisterServer(lang, cfg)
	}

	sys := plugin.NewSystem(plugin.SystemConfig{
		ManagerConfig: plugin.DefaultManagerConfig(),
		EventProvider: NewEventBusAdapter(ed.eventBus),
	})
	if err := sys.Initialize(); err == nil {
		ed.plugins = sys
	}

	for _, path := range ed.opts.Files {
		if _, err := ed.documents.Open(path); err != nil {
			ed.statusMessage = err.Error()
		}
	}
	if ed.documents.Count() == 0 {
		ed.documents.CreateScratch()
	}

	active := ed.documents.Active()
	ed.windows = window.NewManager(active.Doc.ID(), 80, 24)
	ed.registerHandlers()
	ed.wireActiveDocument()

	return nil
}

// publishLSPProgress decodes a $/progress notification and republishes
// it as the plugin-facing lsp:progress event, with the field set spec
// names: token, kind, and whichever of title/message/percentage the
// server's progress value carries for that kind.
func (ed *Editor) publishLSPProgress(languageID string, p lsp.ProgressParams) {
	var val lsp.ProgressValue
	if err := json.Unmarshal(p.Raw, &val); err != nil {
		return
	}

	payload := map[string]any{
		"token":    p.Token,
		"kind":     val.Kind,
		"language": languageID,
	}
	if val.Title != "" {
		payload["title"] = val.Title
	}
	if val.Message != "" {
		payload["message"] = val.Message
	}
	if val.Kind == "report" {
		payload["percentage"] = val.Percentage
	}

	evt := event.NewEvent(topic.Topic("lsp.progress"), payload, "lsp")
	_ = ed.eventBus.PublishAsync(context.Background(), evt)
}

// logLSPMessage routes window/logMessage and window/showMessage
// notifications from a language server into the editor's log file
// rather than discarding them.
func (ed *Editor) logLSPMessage(languageID string, m lsp.ShowMessageParams) {
	logger := ed.logger.WithComponent("lsp." + languageID)
	switch m.Type {
	case lsp.MessageTypeError:
		logger.Error(m.Message)
	case lsp.MessageTypeWarning:
		logger.Warn(m.Message)
	default:
		logger.Info(m.Message)
	}
}

// registerModes registers every concrete mode the keymap can switch
// into, mirroring the full set instead of the teacher's placeholders.
func (ed *Editor) registerModes() {
	ed.modeManager.Register(mode.NewNormalMode())
	ed.modeManager.Register(mode.NewInsertMode())
	ed.modeManager.Register(mode.NewVisualMode())
	ed.modeManager.Register(mode.NewVisualLineMode())
	ed.modeManager.Register(mode.NewVisualBlockMode())
	ed.modeManager.Register(mode.NewCommandMode())
	ed.modeManager.Register(mode.NewSearchMode())
	ed.modeManager.Register(mode.NewOperatorPendingMode())
	ed.modeManager.Register(mode.NewReplaceMode())
}

// registerHandlers wires every dispatcher/handlers namespace package
// into the dispatcher's router, unmodified from the teacher.
func (ed *Editor) registerHandlers() {
	ed.dispatcher.RegisterNamespace("editor", dispeditor.NewCombinedHandler())
	ed.dispatcher.RegisterNamespace("cursor", cursor.NewCombinedHandler())
	ed.dispatcher.RegisterNamespace("window", handlerwindow.NewHandlerWithManager(ed.windows))
	ed.dispatcher.RegisterNamespace("mode", modehandler.NewModeHandler())
	ed.dispatcher.RegisterNamespace("view", view.NewHandler())
	ed.dispatcher.RegisterNamespace("file", file.NewHandler())
	ed.dispatcher.RegisterNamespace("operator", operator.NewOperatorHandler())
	ed.dispatcher.RegisterNamespace("search", search.NewHandler())
	ed.dispatcher.RegisterNamespace("macro", macro.NewHandler())
	ed.dispatcher.RegisterNamespace("completion", completion.NewHandler())
}

// wireActiveDocument points the dispatcher's subsystem interfaces at
// the currently active document and window, called whenever the
// active buffer or window changes.
func (ed *Editor) wireActiveDocument() {
	doc := ed.documents.Active()
	if doc == nil {
		return
	}
	ed.dispatcher.SetEngine(NewEngineAdapter(doc.Doc.Buffer()))
	ed.dispatcher.SetCursors(doc.Cursors)
	ed.dispatcher.SetHistory(doc.History)
	if ed.backend != nil {
		ed.dispatcher.SetRenderer(NewRendererAdapter(ed.windows, ed.backend))
	}
}

// Documents returns the document manager.
func (ed *Editor) Documents() *DocumentManager { return ed.documents }

// Windows returns the window manager.
func (ed *Editor) Windows() *window.Manager { return ed.windows }

// Dispatcher returns the action dispatcher.
func (ed *Editor) Dispatcher() *dispatcher.Dispatcher { return ed.dispatcher }

// ModeManager returns the mode manager.
func (ed *Editor) ModeManager() *mode.Manager { return ed.modeManager }

// EventBus returns the event bus.
func (ed *Editor) EventBus() event.Bus { return ed.eventBus }

// IsRunning reports whether Run's loop is active.
func (ed *Editor) IsRunning() bool { return ed.running.Load() }

// Shutdown requests that Run return, then tears down every subsystem
// in reverse bootstrap order.
func (ed *Editor) Shutdown() {
	if !ed.running.CompareAndSwap(true, false) {
		return
	}
	close(ed.done)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	if ed.plugins != nil {
		wg.Add(1)
		go func() { defer wg.Done(); ed.plugins.Shutdown(ctx) }()
	}
	if ed.lsp != nil {
		wg.Add(1)
		go func() { defer wg.Done(); ed.lsp.Shutdown(ctx) }()
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
	}

	if ed.config != nil {
		ed.config.Close()
	}
	if ed.eventBus != nil {
		ed.eventBus.Stop(ctx)
	}
	if ed.backend != nil {
		ed.backend.Close()
	}
	if ed.logger != nil {
		ed.logger.Close()
	}
}
