package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/rededitor/red/internal/logging"
	"github.com/rededitor/red/internal/plugin/security"
)

// LogModule implements the ks.log API module: log(msg), logDebug(msg),
// logInfo(msg), logWarn(msg), logError(msg). Lines are tagged with the
// "plugin" component so the rotating log file can be filtered to
// plugin-originated output.
type LogModule struct{}

// NewLogModule creates the log module.
func NewLogModule() *LogModule {
	return &LogModule{}
}

// Name returns the module name.
func (m *LogModule) Name() string {
	return "log"
}

// RequiredCapability returns the capability required for this module.
// Logging requires no special capability.
func (m *LogModule) RequiredCapability() security.Capability {
	return ""
}

// Register registers the module into the Lua state.
func (m *LogModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "debug", L.NewFunction(m.debug))
	L.SetField(mod, "info", L.NewFunction(m.info))
	L.SetField(mod, "warn", L.NewFunction(m.warn))
	L.SetField(mod, "error", L.NewFunction(m.error))

	L.SetGlobal("_ks_log", mod)

	// Bare top-level functions per spec's plugin API table: log(),
	// logDebug(), logInfo(), logWarn(), logError().
	L.SetGlobal("log", L.NewFunction(m.info))
	L.SetGlobal("logDebug", L.NewFunction(m.debug))
	L.SetGlobal("logInfo", L.NewFunction(m.info))
	L.SetGlobal("logWarn", L.NewFunction(m.warn))
	L.SetGlobal("logError", L.NewFunction(m.error))

	return nil
}

func (m *LogModule) logger() *logging.Logger {
	return logging.Default().WithComponent("plugin")
}

func (m *LogModule) debug(L *lua.LState) int {
	m.logger().Debug(L.CheckString(1))
	return 0
}

func (m *LogModule) info(L *lua.LState) int {
	m.logger().Info(L.CheckString(1))
	return 0
}

func (m *LogModule) warn(L *lua.LState) int {
	m.logger().Warn(L.CheckString(1))
	return 0
}

func (m *LogModule) error(L *lua.LState) int {
	m.logger().Error(L.CheckString(1))
	return 0
}
