package execshell

// CommandOutcome classifies how a finished shell line was judged by the error policy.
type CommandOutcome int

const (
	// OutcomeSucceeded marks a zero exit code.
	OutcomeSucceeded CommandOutcome = iota
	// OutcomeTolerated marks a non-zero exit on a line that ignores errors.
	OutcomeTolerated
	// OutcomeFailed marks a non-zero exit that stops the walk.
	OutcomeFailed
)

// CommandEventObserver follows each shell line through the executor.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandFinished(command ShellCommand, result ExecutionResult, outcome CommandOutcome)
	// CommandNotRun reports a line the shell could not start.
	CommandNotRun(command ShellCommand, failure error)
}

type commandEventObservers []CommandEventObserver

func (observers commandEventObservers) started(command ShellCommand) {
	for _, observer := range observers {
		observer.CommandStarted(command)
	}
}

func (observers commandEventObservers) finished(command ShellCommand, result ExecutionResult, outcome CommandOutcome) {
	for _, observer := range observers {
		observer.CommandFinished(command, result, outcome)
	}
}

func (observers commandEventObservers) notRun(command ShellCommand, failure error) {
	for _, observer := range observers {
		observer.CommandNotRun(command, failure)
	}
}

func classifyOutcome(command ShellCommand, result ExecutionResult) CommandOutcome {
	switch {
	case result.ExitCode == 0:
		return OutcomeSucceeded
	case command.IgnoreError:
		return OutcomeTolerated
	default:
		return OutcomeFailed
	}
}
