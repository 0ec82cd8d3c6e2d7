package testsupport

import (
	"context"
	"strings"
	"sync"

	"github.com/temirov/sdkrelease/internal/execshell"
)

// ExitCodeResponder decides the exit code returned for a recorded command.
type ExitCodeResponder func(command execshell.ShellCommand) int

// RecordingRunner implements execshell.CommandRunner by recording commands instead of running them.
type RecordingRunner struct {
	Responder ExitCodeResponder
	// RunError, when set, is returned for every command after recording it.
	RunError error

	mutex    sync.Mutex
	commands []execshell.ShellCommand
}

// Run records the command and returns the responder's exit code, zero by default.
func (runner *RecordingRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.mutex.Lock()
	runner.commands = append(runner.commands, command)
	runner.mutex.Unlock()

	if runner.RunError != nil {
		return execshell.ExecutionResult{}, runner.RunError
	}
	exitCode := 0
	if runner.Responder != nil {
		exitCode = runner.Responder(command)
	}
	return execshell.ExecutionResult{ExitCode: exitCode}, nil
}

// Commands returns a copy of every recorded command in execution order.
func (runner *RecordingRunner) Commands() []execshell.ShellCommand {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	return append([]execshell.ShellCommand{}, runner.commands...)
}

// Lines returns the recorded shell lines in execution order.
func (runner *RecordingRunner) Lines() []string {
	commands := runner.Commands()
	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, command.Line)
	}
	return lines
}

// CountLines returns how many recorded lines equal line exactly.
func (runner *RecordingRunner) CountLines(line string) int {
	count := 0
	for _, recorded := range runner.Lines() {
		if recorded == line {
			count++
		}
	}
	return count
}

// CountPrefix returns how many recorded lines start with prefix.
func (runner *RecordingRunner) CountPrefix(prefix string) int {
	count := 0
	for _, recorded := range runner.Lines() {
		if strings.HasPrefix(recorded, prefix) {
			count++
		}
	}
	return count
}

// FailLines returns a responder that fails with exitCode for the listed lines and succeeds otherwise.
func FailLines(exitCode int, lines ...string) ExitCodeResponder {
	failing := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		failing[line] = struct{}{}
	}
	return func(command execshell.ShellCommand) int {
		if _, exists := failing[command.Line]; exists {
			return exitCode
		}
		return 0
	}
}

// RecordingReporter captures walker progress notifications.
type RecordingReporter struct {
	Banners   []string
	Echoed    []string
	Tolerated []string
}

// GroupStarted records a banner.
func (reporter *RecordingReporter) GroupStarted(message string) {
	reporter.Banners = append(reporter.Banners, message)
}

// CommandStarted records an echoed line.
func (reporter *RecordingReporter) CommandStarted(line string, _ string) {
	reporter.Echoed = append(reporter.Echoed, line)
}

// CommandTolerated records a tolerated failure.
func (reporter *RecordingReporter) CommandTolerated(line string, _ int) {
	reporter.Tolerated = append(reporter.Tolerated, line)
}
