package api

// IntegrationProvider defines the interface for the integration layer
// (git, debug, tasks) exposed to plugins.
type IntegrationProvider interface {
	// WorkspaceRoot returns the root directory of the current workspace.
	WorkspaceRoot() string

	// Health returns the health status of the integration layer.
	Health() IntegrationHealth

	// Git returns the git provider, or nil if unavailable.
	Git() GitProvider

	// Debug returns the debug provider, or nil if unavailable.
	Debug() DebugProvider

	// Task returns the task provider, or nil if unavailable.
	Task() TaskProvider
}

// IntegrationHealth reports the status of the integration layer.
type IntegrationHealth struct {
	Status        string
	Uptime        int64
	ProcessCount  int
	WorkspaceRoot string
	Components    map[string]string
}

// GitProvider defines git operations available to plugins.
type GitProvider interface {
	Status() (GitStatus, error)
	Branch() (string, error)
	Branches() ([]string, error)
	Add(paths []string) error
	Commit(message string) error
	Diff(staged bool) (string, error)
}

// GitStatus reports the state of the git working tree.
type GitStatus struct {
	Branch       string
	Ahead        int
	Behind       int
	HasConflicts bool
	IsClean      bool
	Staged       []string
	Modified     []string
	Untracked    []string
}

// DebugProvider defines debug adapter operations available to plugins.
type DebugProvider interface {
	Start(config DebugConfig) (string, error)
	Stop(sessionID string) error
	Sessions() []DebugSession
	SetBreakpoint(file string, line int) (string, error)
	RemoveBreakpoint(id string) error
	Continue(sessionID string) error
	StepOver(sessionID string) error
	StepInto(sessionID string) error
	StepOut(sessionID string) error
	Variables(sessionID string) ([]DebugVariable, error)
}

// DebugConfig configures a new debug session.
type DebugConfig struct {
	Adapter     string
	Program     string
	Cwd         string
	StopOnEntry bool
	Args        []string
	Env         map[string]string
}

// DebugSession describes an active debug session.
type DebugSession struct {
	ID      string
	Adapter string
	Program string
	State   string
}

// DebugVariable describes a variable inspected during a debug session.
type DebugVariable struct {
	Name  string
	Value string
	Type  string
}

// TaskProvider defines task runner operations available to plugins.
type TaskProvider interface {
	List() ([]TaskInfo, error)
	Run(name string) (string, error)
	Stop(taskID string) error
	Status(taskID string) (TaskStatus, error)
	Output(taskID string) (string, error)
}

// TaskInfo describes a runnable task.
type TaskInfo struct {
	Name        string
	Source      string
	Description string
	Command     string
}

// TaskStatus reports the state of a running or completed task.
type TaskStatus struct {
	ID        string
	Name      string
	State     string
	ExitCode  int
	StartTime int64
	EndTime   int64
}
