package release_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sdkrelease/internal/commandtree/testsupport"
	"github.com/temirov/sdkrelease/internal/prompt"
	"github.com/temirov/sdkrelease/internal/release"
	"github.com/temirov/sdkrelease/internal/workflow"
	"github.com/temirov/sdkrelease/internal/workspace"
)

func releaseAnswers(temporaryDirectory string, versionCode string, autoYes bool) []any {
	return []any{temporaryDirectory, "acme", "main", "dev", "docs", "7.1.0", versionCode, "7.2.0", "65", autoYes}
}

func executeReleaseCommand(testInstance *testing.T, prompter *testsupport.ScriptedPrompter, runner *testsupport.RecordingRunner, resolver *workspace.Resolver) (string, error) {
	testInstance.Helper()
	builder := release.CommandBuilder{
		Runtime: workflow.CommandRuntime{
			CommonConfigurationProvider: func() workflow.CommonConfiguration {
				return workflow.CommonConfiguration{Color: false, RemoteProtocol: "https"}
			},
			CommandRunner:     runner,
			Prompter:          prompter,
			WorkspaceResolver: resolver,
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs([]string{})

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestReleaseCommandRunsEveryRepository(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	prompter := &testsupport.ScriptedPrompter{Answers: releaseAnswers(workingDirectory, "64", true)}
	runner := &testsupport.RecordingRunner{}

	output, executionError := executeReleaseCommand(testInstance, prompter, runner, workspace.NewResolverWith(nil))
	require.NoError(testInstance, executionError)

	require.Equal(testInstance, 9, runner.CountPrefix("git clone https://github.com/acme/"))
	require.Equal(testInstance, workingDirectory, runner.Commands()[0].WorkingDirectory)
	require.Contains(testInstance, output, "RELEASING version 7.1.0 (code 64 on Android)")
	require.Contains(testInstance, output, "=== PROCESSING SalesforceMobileSDK-Package ===")
	require.NotContains(testInstance, prompter.Messages, "Proceed?")
}

func TestReleaseCommandAllocatesWorkspaceForSentinel(testInstance *testing.T) {
	allocated := testInstance.TempDir()
	var requestedPrefix string
	resolver := workspace.NewResolverWith(func(prefix string) (string, error) {
		requestedPrefix = prefix
		return allocated, nil
	})
	prompter := &testsupport.ScriptedPrompter{Answers: releaseAnswers("", "64", true)}
	runner := &testsupport.RecordingRunner{}

	_, executionError := executeReleaseCommand(testInstance, prompter, runner, resolver)
	require.NoError(testInstance, executionError)
	require.NotEmpty(testInstance, requestedPrefix)
	require.Equal(testInstance, allocated, runner.Commands()[0].WorkingDirectory)
}

func TestReleaseCommandWithoutExecution(testInstance *testing.T) {
	testCases := []struct {
		name              string
		answers           []any
		expectValidation  bool
		expectAbort       bool
		expectSummary     bool
		expectedQuestions int
	}{
		{
			name:              "operator_declines",
			answers:           append(releaseAnswers("/tmp/unused", "64", false), false),
			expectSummary:     true,
			expectedQuestions: 11,
		},
		{
			name:              "invalid_version_code",
			answers:           releaseAnswers("/tmp/unused", "abc", true),
			expectValidation:  true,
			expectedQuestions: 10,
		},
		{
			name:              "input_ends_early",
			answers:           []any{"/tmp/unused", "acme"},
			expectAbort:       true,
			expectedQuestions: 3,
		},
		{
			name:              "proceed_prompt_aborted",
			answers:           releaseAnswers("/tmp/unused", "64", false),
			expectAbort:       true,
			expectSummary:     true,
			expectedQuestions: 11,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			prompter := &testsupport.ScriptedPrompter{Answers: testCase.answers}
			runner := &testsupport.RecordingRunner{}

			output, executionError := executeReleaseCommand(testInstance, prompter, runner, workspace.NewResolverWith(nil))

			switch {
			case testCase.expectValidation:
				var validationError release.ValidationError
				require.ErrorAs(testInstance, executionError, &validationError)
			case testCase.expectAbort:
				require.ErrorIs(testInstance, executionError, prompt.ErrPromptAborted)
			default:
				require.NoError(testInstance, executionError)
			}
			require.Empty(testInstance, runner.Commands())
			require.Len(testInstance, prompter.Messages, testCase.expectedQuestions)
			require.Equal(testInstance, testCase.expectSummary, strings.Contains(output, "Will apply tag v7.1.0"))
		})
	}
}
