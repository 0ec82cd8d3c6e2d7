package execshell

import "context"

// ShellCommand describes one shell line and the directory it runs in.
type ShellCommand struct {
	Line             string
	WorkingDirectory string
	IgnoreError      bool
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands and reports their exit status.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}
