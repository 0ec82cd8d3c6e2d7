package commandtree

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/sdkrelease/internal/execshell"
)

const (
	stepFailedMessageTemplateConstant  = "step %q failed in %s: %v"
	unknownNodeMessageTemplateConstant = "unsupported command node %T"
)

var (
	// ErrExecutorNotConfigured indicates that a Walker was constructed without an executor.
	ErrExecutorNotConfigured = errors.New("commandtree: executor not configured")
	// ErrEmptyCommand indicates a leaf with a blank shell line.
	ErrEmptyCommand = errors.New("commandtree: empty command line")
)

// Executor runs a single shell command with its error policy applied.
type Executor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Reporter receives progress notifications during a walk.
type Reporter interface {
	GroupStarted(message string)
	CommandStarted(line string, workingDirectory string)
	CommandTolerated(line string, exitCode int)
}

type noopReporter struct{}

func (noopReporter) GroupStarted(string)           {}
func (noopReporter) CommandStarted(string, string) {}
func (noopReporter) CommandTolerated(string, int)  {}

// StepFailedError identifies the leaf that aborted a walk.
type StepFailedError struct {
	Line      string
	Directory string
	Cause     error
}

// Error describes the failing step.
func (failure StepFailedError) Error() string {
	return fmt.Sprintf(stepFailedMessageTemplateConstant, failure.Line, failure.Directory, failure.Cause)
}

// Unwrap exposes the underlying execution error.
func (failure StepFailedError) Unwrap() error {
	return failure.Cause
}

// Walker executes command trees depth-first.
type Walker struct {
	executor Executor
	reporter Reporter
}

// NewWalker constructs a Walker. A nil reporter discards progress notifications.
func NewWalker(executor Executor, reporter Reporter) (*Walker, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if reporter == nil {
		reporter = noopReporter{}
	}
	return &Walker{executor: executor, reporter: reporter}, nil
}

// Walk executes root with repositoryRoot as the initial ambient working directory.
func (walker *Walker) Walk(executionContext context.Context, repositoryRoot string, root Node) error {
	return walker.walkNode(executionContext, repositoryRoot, repositoryRoot, root)
}

func (walker *Walker) walkNode(executionContext context.Context, repositoryRoot string, ambientDirectory string, node Node) error {
	if IsAbsent(node) {
		return nil
	}

	switch typed := node.(type) {
	case *Group:
		if len(typed.Message) > 0 {
			walker.reporter.GroupStarted(typed.Message)
		}
		childDirectory := ambientDirectory
		if len(typed.Directory) > 0 {
			childDirectory = resolveAgainstRoot(repositoryRoot, typed.Directory)
		}
		for _, child := range typed.Children {
			if childError := walker.walkNode(executionContext, repositoryRoot, childDirectory, child); childError != nil {
				return childError
			}
		}
		return nil
	case *Leaf:
		return walker.runLeaf(executionContext, repositoryRoot, ambientDirectory, typed)
	default:
		return fmt.Errorf(unknownNodeMessageTemplateConstant, node)
	}
}

func (walker *Walker) runLeaf(executionContext context.Context, repositoryRoot string, ambientDirectory string, leaf *Leaf) error {
	if contextError := executionContext.Err(); contextError != nil {
		return contextError
	}

	workingDirectory := ResolveDirectory(repositoryRoot, ambientDirectory, leaf)
	if len(strings.TrimSpace(leaf.Line)) == 0 {
		return StepFailedError{Line: leaf.Line, Directory: workingDirectory, Cause: ErrEmptyCommand}
	}

	walker.reporter.CommandStarted(leaf.Line, workingDirectory)
	executionResult, executionError := walker.executor.Execute(executionContext, execshell.ShellCommand{
		Line:             leaf.Line,
		WorkingDirectory: workingDirectory,
		IgnoreError:      leaf.IgnoreError,
	})
	if executionError != nil {
		return StepFailedError{Line: leaf.Line, Directory: workingDirectory, Cause: executionError}
	}
	if executionResult.ExitCode != 0 {
		walker.reporter.CommandTolerated(leaf.Line, executionResult.ExitCode)
	}
	return nil
}

// ResolveDirectory picks the working directory for leaf: Directory verbatim, else
// RelativeDirectory under repositoryRoot, else the ambient directory.
func ResolveDirectory(repositoryRoot string, ambientDirectory string, leaf *Leaf) string {
	if leaf == nil {
		return ambientDirectory
	}
	if len(leaf.Directory) > 0 {
		return leaf.Directory
	}
	if len(leaf.RelativeDirectory) > 0 {
		return filepath.Join(repositoryRoot, leaf.RelativeDirectory)
	}
	return ambientDirectory
}

func resolveAgainstRoot(repositoryRoot string, directory string) string {
	if filepath.IsAbs(directory) {
		return directory
	}
	return filepath.Join(repositoryRoot, directory)
}
