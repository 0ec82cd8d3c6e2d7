package workflow

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sdkrelease/internal/execshell"
	"github.com/temirov/sdkrelease/internal/gitrepo"
	"github.com/temirov/sdkrelease/internal/prompt"
	"github.com/temirov/sdkrelease/internal/repositories"
	"github.com/temirov/sdkrelease/internal/ui"
	"github.com/temirov/sdkrelease/internal/utils"
	"github.com/temirov/sdkrelease/internal/workspace"
)

const (
	runtimeResolvedMessageConstant   = "workflow runtime resolved"
	commandFieldConstant             = "command"
	remoteProtocolFieldConstant      = "remote_protocol"
	configurationSourceFieldConstant = "configuration_source"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommonConfiguration holds the settings shared by both workflow commands.
type CommonConfiguration struct {
	Color          bool   `mapstructure:"color"`
	RemoteProtocol string `mapstructure:"remote_protocol"`
}

// DefaultCommonConfiguration enables color and ssh clone URLs.
func DefaultCommonConfiguration() CommonConfiguration {
	return CommonConfiguration{Color: true, RemoteProtocol: string(gitrepo.RemoteProtocolSSH)}
}

// CommandRuntime resolves the collaborators a workflow command needs. Nil fields fall
// back to the terminal, the operating system shell and the embedded catalog.
type CommandRuntime struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	CommonConfigurationProvider  func() CommonConfiguration
	CommandRunner                execshell.CommandRunner
	Prompter                     prompt.Prompter
	WorkspaceResolver            *workspace.Resolver
}

// Runtime bundles the resolved executor with run-wide settings.
type Runtime struct {
	Executor       *Executor
	RemoteProtocol gitrepo.RemoteProtocol
}

// Resolve wires the runtime for command.
func (runtime CommandRuntime) Resolve(command *cobra.Command) (Runtime, error) {
	logger := runtime.resolveLogger()
	commonConfiguration := runtime.resolveCommonConfiguration()

	remoteProtocol, protocolError := gitrepo.ParseRemoteProtocol(commonConfiguration.RemoteProtocol)
	if protocolError != nil {
		return Runtime{}, protocolError
	}

	catalog, catalogError := repositories.LoadCatalog()
	if catalogError != nil {
		return Runtime{}, catalogError
	}

	commandRunner := runtime.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner(command.OutOrStdout(), command.ErrOrStderr())
	}

	var observers []execshell.CommandEventObserver
	if runtime.HumanReadableLoggingProvider != nil && runtime.HumanReadableLoggingProvider() {
		observers = append(observers, ui.NewConsoleCommandEventLogger(logger))
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, commandRunner, observers...)
	if executorError != nil {
		return Runtime{}, executorError
	}

	prompter := runtime.Prompter
	if prompter == nil {
		prompter = prompt.NewTerminalPrompter(command.InOrStdin())
	}

	executor, creationError := NewExecutor(Dependencies{
		Logger:            logger,
		Executor:          shellExecutor,
		Reporter:          ui.NewConsoleReporter(command.OutOrStdout(), commonConfiguration.Color),
		Prompter:          prompter,
		WorkspaceResolver: runtime.WorkspaceResolver,
		Repositories:      catalog.Repositories(),
	})
	if creationError != nil {
		return Runtime{}, creationError
	}

	configurationSource, _ := utils.NewCommandContextAccessor().ConfigurationSource(command.Context())
	logger.Debug(runtimeResolvedMessageConstant,
		zap.String(commandFieldConstant, command.Name()),
		zap.String(remoteProtocolFieldConstant, string(remoteProtocol)),
		zap.String(configurationSourceFieldConstant, configurationSource),
	)

	return Runtime{Executor: executor, RemoteProtocol: remoteProtocol}, nil
}

func (runtime CommandRuntime) resolveLogger() *zap.Logger {
	if runtime.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := runtime.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (runtime CommandRuntime) resolveCommonConfiguration() CommonConfiguration {
	if runtime.CommonConfigurationProvider == nil {
		return DefaultCommonConfiguration()
	}
	return runtime.CommonConfigurationProvider()
}
