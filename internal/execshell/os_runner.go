package execshell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

const (
	defaultShellPathConstant = "/bin/sh"
	shellCommandFlagConstant = "-c"
)

// OSCommandRunner hands command lines to the system shell.
type OSCommandRunner struct {
	shellPath      string
	standardOutput io.Writer
	standardError  io.Writer
}

// NewOSCommandRunner constructs a runner that streams child output to the provided writers
// while also capturing it. Nil writers only capture.
func NewOSCommandRunner(standardOutput io.Writer, standardError io.Writer) *OSCommandRunner {
	return &OSCommandRunner{
		shellPath:      defaultShellPathConstant,
		standardOutput: standardOutput,
		standardError:  standardError,
	}
}

// Run executes the command line verbatim through the shell, so pipes, redirects and globs apply.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, runner.shellPath, shellCommandFlagConstant, command.Line)

	if len(command.WorkingDirectory) > 0 {
		executable.Dir = command.WorkingDirectory
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = teeWriter(&standardOutputBuffer, runner.standardOutput)
	executable.Stderr = teeWriter(&standardErrorBuffer, runner.standardError)

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) && executionContext.Err() == nil {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		if contextError := executionContext.Err(); contextError != nil {
			return ExecutionResult{}, contextError
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

func teeWriter(buffer *bytes.Buffer, terminal io.Writer) io.Writer {
	if terminal == nil {
		return buffer
	}
	return io.MultiWriter(buffer, terminal)
}
