package release

import (
	"github.com/spf13/cobra"

	"github.com/temirov/sdkrelease/internal/workflow"
)

const (
	commandUseConstant              = "release"
	commandShortDescriptionConstant = "Release a new SDK version across every repository"
	commandLongDescriptionConstant  = "release asks for the branches and versions to cut, shows a summary and, once confirmed, merges, versions, tags and publishes docs for each SDK repository in dependency order."
)

// CommandBuilder assembles the release command.
type CommandBuilder struct {
	Runtime               workflow.CommandRuntime
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the release command.
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
