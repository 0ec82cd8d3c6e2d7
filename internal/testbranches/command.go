package testbranches

import (
	"github.com/spf13/cobra"

	"github.com/temirov/sdkrelease/internal/workflow"
)

const (
	commandUseConstant              = "setup-test-branches"
	commandShortDescriptionConstant = "Recreate test branches on a fork for release rehearsals"
	commandLongDescriptionConstant  = "setup-test-branches drops the test branches and tag on every SDK repository of a fork and, unless only a cleanup is requested, recreates them off master, dev and gh-pages with references pointing at the fork."
)

// CommandBuilder assembles the setup-test-branches command.
type CommandBuilder struct {
	Runtime               workflow.CommandRuntime
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the setup-test-branches command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	runtime, runtimeError := builder.Runtime.Resolve(command)
	if runtimeError != nil {
		return runtimeError
	}

	configuration := builder.resolveConfiguration()
	return runtime.Executor.Run(command.Context(), NewDefinition(configuration.Defaults, runtime.RemoteProtocol))
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
