package execshell

import (
	"context"

	"go.uber.org/zap"
)

const (
	logMessageCommandStartedConstant   = "shell command started"
	logMessageCommandCompletedConstant = "shell command completed"
	logMessageCommandToleratedConstant = "shell command failed; continuing because errors are ignored"
	logMessageCommandFailedConstant    = "shell command failed"
	logMessageCommandNotRunConstant    = "shell command could not be executed"
	logFieldCommandConstant            = "command"
	logFieldWorkingDirectoryConstant   = "working_directory"
	logFieldExitCodeConstant           = "exit_code"
	logFieldIgnoreErrorConstant        = "ignore_error"
)

// ShellExecutor runs shell commands through a CommandRunner and applies the error policy.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observers commandEventObservers
}

// NewShellExecutor constructs a ShellExecutor. Observers receive lifecycle events in order.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, observers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	registeredObservers := make(commandEventObservers, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			registeredObservers = append(registeredObservers, observer)
		}
	}

	return &ShellExecutor{logger: logger, runner: runner, observers: registeredObservers}, nil
}

// Execute runs the command. A non-zero exit is reported as CommandFailedError unless
// the command ignores errors, in which case a warning is logged and the result is returned.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandConstant, command.Line),
		zap.String(logFieldWorkingDirectoryConstant, command.WorkingDirectory),
	}

	executor.logger.Debug(logMessageCommandStartedConstant, append(commandFields, zap.Bool(logFieldIgnoreErrorConstant, command.IgnoreError))...)
	executor.observers.started(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observers.notRun(command, runError)
		executor.logger.Error(logMessageCommandNotRunConstant, append(commandFields, zap.Error(runError))...)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	outcome := classifyOutcome(command, executionResult)
	executor.observers.finished(command, executionResult, outcome)

	resultFields := append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))
	switch outcome {
	case OutcomeTolerated:
		executor.logger.Warn(logMessageCommandToleratedConstant, resultFields...)
		return executionResult, nil
	case OutcomeFailed:
		executor.logger.Error(logMessageCommandFailedConstant, resultFields...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	default:
		executor.logger.Debug(logMessageCommandCompletedConstant, resultFields...)
		return executionResult, nil
	}
}
