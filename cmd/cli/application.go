package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/sdkrelease/internal/execshell"
	"github.com/temirov/sdkrelease/internal/prompt"
	"github.com/temirov/sdkrelease/internal/release"
	"github.com/temirov/sdkrelease/internal/repositories"
	"github.com/temirov/sdkrelease/internal/testbranches"
	"github.com/temirov/sdkrelease/internal/utils"
	"github.com/temirov/sdkrelease/internal/workflow"
	"github.com/temirov/sdkrelease/internal/workspace"
)

const (
	applicationNameConstant                 = "sdkrelease"
	applicationShortDescriptionConstant     = "Release orchestration for the Mobile SDK repositories"
	applicationLongDescriptionConstant      = "sdkrelease cuts coordinated releases across the Mobile SDK repositories and prepares forks for release rehearsals."
	versionTemplateConstant                 = "{{.Name}} version: {{.Version}}\n"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonColorConfigKeyConstant            = commonConfigurationKeyConstant + ".color"
	commonRemoteProtocolConfigKeyConstant   = commonConfigurationKeyConstant + ".remote_protocol"
	environmentPrefixConstant               = "SDKRELEASE"
	configurationSearchPathEnvironmentName  = environmentPrefixConstant + "_CONFIG_SEARCH_PATH"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryNameConstant  = ".sdkrelease"
	toolsConfigurationKeyConstant           = "tools"
	releaseConfigurationKeyConstant         = toolsConfigurationKeyConstant + ".release"
	testBranchesConfigurationKeyConstant    = toolsConfigurationKeyConstant + ".test_branches"
)

// Command names exposed by the application.
const (
	ReleaseCommandNameConstant           = "release"
	SetupTestBranchesCommandNameConstant = "setup-test-branches"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	Color          bool   `mapstructure:"color"`
	RemoteProtocol string `mapstructure:"remote_protocol"`
}

// ApplicationToolsConfiguration holds the prompt defaults of each workflow command.
type ApplicationToolsConfiguration struct {
	Release      release.CommandConfiguration      `mapstructure:"release"`
	TestBranches testbranches.CommandConfiguration `mapstructure:"test_branches"`
}

// ApplicationOption customizes collaborators, mostly for tests.
type ApplicationOption func(application *Application)

// WithCommandRunner replaces the operating system shell.
func WithCommandRunner(commandRunner execshell.CommandRunner) ApplicationOption {
	return func(application *Application) {
		application.commandRunner = commandRunner
	}
}

// WithPrompter replaces the terminal prompter.
func WithPrompter(prompter prompt.Prompter) ApplicationOption {
	return func(application *Application) {
		application.prompter = prompter
	}
}

// WithWorkspaceResolver replaces the temporary directory resolver.
func WithWorkspaceResolver(resolver *workspace.Resolver) ApplicationOption {
	return func(application *Application) {
		application.workspaceResolver = resolver
	}
}

// WithLogOutput sends diagnostics to output instead of standard error.
func WithLogOutput(output io.Writer) ApplicationOption {
	return func(application *Application) {
		application.loggerFactory = utils.NewLoggerFactory(output)
	}
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	contextAccessor       utils.CommandContextAccessor
	logLevelFlagValue     string
	logFormatFlagValue    string
	commandRunner         execshell.CommandRunner
	prompter              prompt.Prompter
	workspaceResolver     *workspace.Resolver
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication(options ...ApplicationOption) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(nil),
		logger:              zap.NewNop(),
		contextAccessor:     utils.NewCommandContextAccessor(),
	}
	for _, option := range options {
		option(application)
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       repositories.SDKVersionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	application.rootCommand = cobraCommand
	return application
}

// Build registers the workflow commands and returns the root command.
func (application *Application) Build() (*cobra.Command, error) {
	if len(application.rootCommand.Commands()) > 0 {
		return application.rootCommand, nil
	}

	releaseBuilder := release.CommandBuilder{
		Runtime: application.commandRuntime(),
		ConfigurationProvider: func() release.CommandConfiguration {
			return application.configuration.Tools.Release
		},
	}
	releaseCommand, releaseBuildError := releaseBuilder.Build()
	if releaseBuildError != nil {
		return nil, fmt.Errorf(commandBuildErrorTemplateConstant, ReleaseCommandNameConstant, releaseBuildError)
	}
	application.rootCommand.AddCommand(releaseCommand)

	testBranchesBuilder := testbranches.CommandBuilder{
		Runtime: application.commandRuntime(),
		ConfigurationProvider: func() testbranches.CommandConfiguration {
			return application.configuration.Tools.TestBranches
		},
	}
	testBranchesCommand, testBranchesBuildError := testBranchesBuilder.Build()
	if testBranchesBuildError != nil {
		return nil, fmt.Errorf(commandBuildErrorTemplateConstant, SetupTestBranchesCommandNameConstant, testBranchesBuildError)
	}
	application.rootCommand.AddCommand(testBranchesCommand)

	return application.rootCommand, nil
}

// ExecuteContext runs the command hierarchy with arguments and ensures logger flushing.
func (application *Application) ExecuteContext(executionContext context.Context, arguments []string) error {
	rootCommand, buildError := application.Build()
	if buildError != nil {
		return buildError
	}

	rootCommand.SetArgs(arguments)
	executionError := rootCommand.ExecuteContext(executionContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute runs the full command set with the process arguments. SIGINT and SIGTERM cancel the run.
func Execute() error {
	return executeWithSignals(os.Args[1:])
}

// ExecuteWorkflow runs a single workflow command with the process arguments, for dedicated executables.
func ExecuteWorkflow(commandName string) error {
	return executeWithSignals(append([]string{commandName}, os.Args[1:]...))
}

func executeWithSignals(arguments []string) error {
	executionContext, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewApplication().ExecuteContext(executionContext, arguments)
}

func (application *Application) commandRuntime() workflow.CommandRuntime {
	return workflow.CommandRuntime{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		CommonConfigurationProvider:  application.commonWorkflowConfiguration,
		CommandRunner:                application.commandRunner,
		Prompter:                     application.prompter,
		WorkspaceResolver:            application.workspaceResolver,
	}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:       string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant:      string(utils.LogFormatConsole),
		commonColorConfigKeyConstant:          workflow.DefaultCommonConfiguration().Color,
		commonRemoteProtocolConfigKeyConstant: workflow.DefaultCommonConfiguration().RemoteProtocol,
	}
	for configurationKey, configurationValue := range release.DefaultConfigurationValues(releaseConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range testbranches.DefaultConfigurationValues(testBranchesConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.NormalizeLogLevel(application.configuration.Common.LogLevel),
		utils.NormalizeLogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.contextAccessor.WithConfigurationSource(command.Context(), application.configurationMetadata.ConfigFileUsed)
		command.SetContext(updatedContext)
	}
	return nil
}

func (application *Application) commonWorkflowConfiguration() workflow.CommonConfiguration {
	return workflow.CommonConfiguration{
		Color:          application.configuration.Common.Color,
		RemoteProtocol: application.configuration.Common.RemoteProtocol,
	}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return utils.NormalizeLogFormat(application.configuration.Common.LogFormat) == utils.LogFormatConsole
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}

// configurationSearchPaths lists the working directory and the user configuration directory,
// or only the directory named by SDKRELEASE_CONFIG_SEARCH_PATH when it is set.
func configurationSearchPaths() []string {
	if overridePath := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentName)); len(overridePath) > 0 {
		return []string{overridePath}
	}

	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}
