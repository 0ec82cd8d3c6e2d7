package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/sdkrelease/internal/execshell"
)

const (
	commandStartedTemplateConstant   = "Running %s"
	commandSucceededTemplateConstant = "Completed %s"
	commandToleratedTemplateConstant = "%s failed with exit code %d, continuing"
	commandFailedTemplateConstant    = "%s failed with exit code %d"
	commandNotRunTemplateConstant    = "%s could not be started: %v"
	commandDirectoryTemplateConstant = "%s (in %s)"
	standardErrorSuffixConstant      = ": "
)

// ConsoleCommandEventLogger narrates shell lines on a human-readable zap logger.
// Tolerated failures are warnings; fatal ones are errors.
type ConsoleCommandEventLogger struct {
	logger *zap.Logger
}

// NewConsoleCommandEventLogger wraps logger, which may be nil.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted logs the line about to run.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.logger.Info(fmt.Sprintf(commandStartedTemplateConstant, commandLabel(command)))
}

// CommandFinished logs the line's outcome.
func (eventLogger *ConsoleCommandEventLogger) CommandFinished(command execshell.ShellCommand, result execshell.ExecutionResult, outcome execshell.CommandOutcome) {
	label := commandLabel(command)
	switch outcome {
	case execshell.OutcomeTolerated:
		eventLogger.logger.Warn(fmt.Sprintf(commandToleratedTemplateConstant, label, result.ExitCode))
	case execshell.OutcomeFailed:
		message := fmt.Sprintf(commandFailedTemplateConstant, label, result.ExitCode)
		if standardError := strings.TrimSpace(result.StandardError); len(standardError) > 0 {
			message += standardErrorSuffixConstant + standardError
		}
		eventLogger.logger.Error(message)
	default:
		eventLogger.logger.Info(fmt.Sprintf(commandSucceededTemplateConstant, label))
	}
}

// CommandNotRun logs a line the shell could not start.
func (eventLogger *ConsoleCommandEventLogger) CommandNotRun(command execshell.ShellCommand, failure error) {
	eventLogger.logger.Error(fmt.Sprintf(commandNotRunTemplateConstant, commandLabel(command), failure))
}

func commandLabel(command execshell.ShellCommand) string {
	line := strings.TrimSpace(command.Line)
	directory := strings.TrimSpace(command.WorkingDirectory)
	if len(directory) == 0 {
		return line
	}
	return fmt.Sprintf(commandDirectoryTemplateConstant, line, directory)
}
