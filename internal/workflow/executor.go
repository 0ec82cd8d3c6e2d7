package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/sdkrelease/internal/commandtree"
	"github.com/temirov/sdkrelease/internal/prompt"
	"github.com/temirov/sdkrelease/internal/repositories"
	"github.com/temirov/sdkrelease/internal/workspace"
)

const (
	workflowDependenciesMessageConstant     = "workflow executor requires a logger, executor, reporter and prompter"
	workflowRepositoriesMessageConstant     = "workflow executor requires at least one repository"
	workflowDefinitionMessageConstant       = "workflow definition requires questions and a prepare function"
	workflowPromptErrorTemplateConstant     = "%s: %w"
	workflowPrepareErrorTemplateConstant    = "%s: %w"
	workflowWorkspaceErrorTemplateConstant  = "%s: %w"
	workflowInterruptedTemplateConstant     = "%s: %w: %w"
	workflowBuildErrorTemplateConstant      = "%s: build commands for %s: %w"
	workflowRepositoryErrorTemplateConstant = "%s: %s: %w"
	logMessageWorkflowDeclinedConstant      = "workflow declined by operator"
	logMessageWorkflowStartedConstant       = "workflow started"
	logMessageWorkflowCompletedConstant     = "workflow completed"
	logMessageRepositoryStartedConstant     = "processing repository"
	logMessageRepositoryFailedConstant      = "repository processing failed"
	logFieldWorkflowConstant                = "workflow"
	logFieldRepositoryConstant              = "repository"
	logFieldWorkingDirectoryConstant        = "working_directory"
	logFieldRepositoryCountConstant         = "repository_count"
)

var (
	errMissingDependencies = errors.New(workflowDependenciesMessageConstant)
	errMissingRepositories = errors.New(workflowRepositoriesMessageConstant)
	errInvalidDefinition   = errors.New(workflowDefinitionMessageConstant)
)

// Reporter renders walk progress and the confirmation summary.
type Reporter interface {
	commandtree.Reporter
	Paragraph(lines []string)
	Failure(message string)
}

// RepositoryBuilder produces the command tree for one repository cloned under workingDirectory.
type RepositoryBuilder func(workingDirectory string, repository repositories.Repository) (commandtree.Node, error)

// Plan is a validated workflow ready to execute.
type Plan struct {
	TemporaryDirectory string
	AutoConfirm        bool
	Summary            []string
	BuildRepository    RepositoryBuilder
}

// Definition describes one interactive workflow.
type Definition struct {
	Name      string
	Questions []prompt.Question
	// Prepare decodes and validates the answers.
	Prepare func(answers map[string]any) (Plan, error)
}

// Dependencies configures collaborators for workflow execution.
type Dependencies struct {
	Logger            *zap.Logger
	Executor          commandtree.Executor
	Reporter          Reporter
	Prompter          prompt.Prompter
	WorkspaceResolver *workspace.Resolver
	Repositories      []repositories.Repository
}

// Executor coordinates prompting, confirmation and per-repository execution.
type Executor struct {
	dependencies Dependencies
	walker       *commandtree.Walker
	session      *prompt.Session
}

// NewExecutor constructs an Executor.
func NewExecutor(dependencies Dependencies) (*Executor, error) {
	if dependencies.Logger == nil || dependencies.Executor == nil || dependencies.Reporter == nil || dependencies.Prompter == nil {
		return nil, errMissingDependencies
	}
	if len(dependencies.Repositories) == 0 {
		return nil, errMissingRepositories
	}
	if dependencies.WorkspaceResolver == nil {
		dependencies.WorkspaceResolver = workspace.NewResolver()
	}

	walker, walkerError := commandtree.NewWalker(dependencies.Executor, dependencies.Reporter)
	if walkerError != nil {
		return nil, walkerError
	}

	return &Executor{
		dependencies: dependencies,
		walker:       walker,
		session:      prompt.NewSession(dependencies.Prompter),
	}, nil
}

// Run asks the definition's questions, confirms the plan and executes it. A declined
// confirmation returns nil without side effects.
func (executor *Executor) Run(executionContext context.Context, definition Definition) error {
	if len(definition.Questions) == 0 || definition.Prepare == nil {
		return errInvalidDefinition
	}

	answers, askError := prompt.Ask(executionContext, executor.dependencies.Prompter, definition.Questions)
	if askError != nil {
		return fmt.Errorf(workflowPromptErrorTemplateConstant, definition.Name, askError)
	}

	plan, prepareError := definition.Prepare(answers)
	if prepareError != nil {
		return fmt.Errorf(workflowPrepareErrorTemplateConstant, definition.Name, prepareError)
	}

	executor.session.SetPolicy(prompt.ConfirmationPolicyFromBool(plan.AutoConfirm))
	executor.dependencies.Reporter.Paragraph(plan.Summary)

	proceed, proceedError := executor.session.Proceed(executionContext)
	if proceedError != nil {
		return fmt.Errorf(workflowPromptErrorTemplateConstant, definition.Name, proceedError)
	}
	if !proceed {
		executor.dependencies.Logger.Info(logMessageWorkflowDeclinedConstant, zap.String(logFieldWorkflowConstant, definition.Name))
		return nil
	}

	if interruption := executionContext.Err(); interruption != nil {
		return fmt.Errorf(workflowInterruptedTemplateConstant, definition.Name, prompt.ErrPromptAborted, interruption)
	}

	workingDirectory, workspaceError := executor.dependencies.WorkspaceResolver.Resolve(plan.TemporaryDirectory)
	if workspaceError != nil {
		return fmt.Errorf(workflowWorkspaceErrorTemplateConstant, definition.Name, workspaceError)
	}

	executor.dependencies.Logger.Info(
		logMessageWorkflowStartedConstant,
		zap.String(logFieldWorkflowConstant, definition.Name),
		zap.String(logFieldWorkingDirectoryConstant, workingDirectory),
		zap.Int(logFieldRepositoryCountConstant, len(executor.dependencies.Repositories)),
	)

	if runError := executor.RunRepositories(executionContext, definition.Name, workingDirectory, executor.dependencies.Repositories, plan.BuildRepository); runError != nil {
		return runError
	}

	executor.dependencies.Logger.Info(logMessageWorkflowCompletedConstant, zap.String(logFieldWorkflowConstant, definition.Name))
	return nil
}

// RunRepositories walks one tree per repository, rooted at workingDirectory/<repository name>,
// strictly in the given order. The first failure stops the run.
func (executor *Executor) RunRepositories(executionContext context.Context, workflowName string, workingDirectory string, targets []repositories.Repository, builder RepositoryBuilder) error {
	if builder == nil {
		return errInvalidDefinition
	}

	for _, repository := range targets {
		commandTree, buildError := builder(workingDirectory, repository)
		if buildError != nil {
			return fmt.Errorf(workflowBuildErrorTemplateConstant, workflowName, repository.ID, buildError)
		}

		repositoryRoot := filepath.Join(workingDirectory, repository.Name)
		executor.dependencies.Logger.Info(
			logMessageRepositoryStartedConstant,
			zap.String(logFieldWorkflowConstant, workflowName),
			zap.String(logFieldRepositoryConstant, string(repository.ID)),
			zap.String(logFieldWorkingDirectoryConstant, repositoryRoot),
		)

		if walkError := executor.walker.Walk(executionContext, repositoryRoot, commandTree); walkError != nil {
			executor.dependencies.Logger.Error(
				logMessageRepositoryFailedConstant,
				zap.String(logFieldWorkflowConstant, workflowName),
				zap.String(logFieldRepositoryConstant, string(repository.ID)),
				zap.Error(walkError),
			)
			failure := fmt.Errorf(workflowRepositoryErrorTemplateConstant, workflowName, repository.ID, walkError)
			executor.dependencies.Reporter.Failure(failure.Error())
			return failure
		}
	}
	return nil
}
