package release_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/sdkrelease/internal/commandtree"
	"github.com/temirov/sdkrelease/internal/commandtree/testsupport"
	"github.com/temirov/sdkrelease/internal/execshell"
	"github.com/temirov/sdkrelease/internal/gitrepo"
	"github.com/temirov/sdkrelease/internal/prompt"
	"github.com/temirov/sdkrelease/internal/release"
	"github.com/temirov/sdkrelease/internal/repositories"
	"github.com/temirov/sdkrelease/internal/ui"
	"github.com/temirov/sdkrelease/internal/workflow"
)

const (
	testWorkingDirectoryConstant = "/tmp/t"
	testReleaseCommitConstant    = `git commit -m "Mobile SDK 7.1.0"`
	testTagLineConstant          = "git tag v7.1.0"
	testTagPushConstant          = "git push origin main --tag"
	testClonePrefixConstant      = "git clone "
)

func scenarioConfiguration() release.Configuration {
	return release.Configuration{
		TemporaryDirectory:  testWorkingDirectoryConstant,
		Organization:        "acme",
		MasterBranch:        "main",
		DevBranch:           "dev",
		DocBranch:           "docs",
		VersionReleased:     "7.1.0",
		VersionCodeReleased: 64,
		NextVersion:         "7.2.0",
		NextVersionCode:     65,
	}
}

func loadCatalog(testInstance *testing.T) repositories.Catalog {
	testInstance.Helper()
	catalog, catalogError := repositories.LoadCatalog()
	require.NoError(testInstance, catalogError)
	return catalog
}

func newWorkflowExecutor(testInstance *testing.T, runner *testsupport.RecordingRunner, catalog repositories.Catalog) *workflow.Executor {
	testInstance.Helper()
	shellExecutor, shellError := execshell.NewShellExecutor(zap.NewNop(), runner)
	require.NoError(testInstance, shellError)
	executor, executorError := workflow.NewExecutor(workflow.Dependencies{
		Logger:       zap.NewNop(),
		Executor:     shellExecutor,
		Reporter:     ui.NewConsoleReporter(io.Discard, false),
		Prompter:     prompt.NewTerminalPrompter(strings.NewReader("")),
		Repositories: catalog.Repositories(),
	})
	require.NoError(testInstance, executorError)
	return executor
}

func runFullRelease(testInstance *testing.T, runner *testsupport.RecordingRunner) error {
	testInstance.Helper()
	catalog := loadCatalog(testInstance)
	executor := newWorkflowExecutor(testInstance, runner, catalog)
	plan := release.NewPlan(scenarioConfiguration(), gitrepo.RemoteProtocolSSH)
	return executor.RunRepositories(context.Background(), "release", testWorkingDirectoryConstant, catalog.Repositories(), plan.BuildRepository)
}

type repositorySegment struct {
	root     string
	commands []execshell.ShellCommand
}

func splitByClone(commands []execshell.ShellCommand) []repositorySegment {
	var segments []repositorySegment
	for _, command := range commands {
		if strings.HasPrefix(command.Line, testClonePrefixConstant) {
			repositoryName := strings.TrimSuffix(filepath.Base(command.Line), ".git")
			segments = append(segments, repositorySegment{root: filepath.Join(command.WorkingDirectory, repositoryName)})
		}
		segments[len(segments)-1].commands = append(segments[len(segments)-1].commands, command)
	}
	return segments
}

func indexOf(commands []execshell.ShellCommand, line string, from int) int {
	for index := from; index < len(commands); index++ {
		if commands[index].Line == line {
			return index
		}
	}
	return -1
}

func TestReleaseFirstCommands(testInstance *testing.T) {
	runner := &testsupport.RecordingRunner{}
	require.NoError(testInstance, runFullRelease(testInstance, runner))

	commands := runner.Commands()
	require.GreaterOrEqual(testInstance, len(commands), 3)
	require.Equal(testInstance, execshell.ShellCommand{Line: "git clone git@github.com:acme/SalesforceMobileSDK-Shared.git", WorkingDirectory: "/tmp/t"}, commands[0])
	require.Equal(testInstance, execshell.ShellCommand{Line: "git checkout dev", WorkingDirectory: "/tmp/t/SalesforceMobileSDK-Shared"}, commands[1])
	require.Equal(testInstance, execshell.ShellCommand{Line: "git checkout main", WorkingDirectory: "/tmp/t/SalesforceMobileSDK-Shared"}, commands[2])
}

func TestReleaseClonesRepositoriesInOrder(testInstance *testing.T) {
	runner := &testsupport.RecordingRunner{}
	require.NoError(testInstance, runFullRelease(testInstance, runner))

	var clones []string
	for _, line := range runner.Lines() {
		if strings.HasPrefix(line, testClonePrefixConstant) {
			clones = append(clones, line)
		}
	}
	require.Equal(testInstance, []string{
		"git clone git@github.com:acme/SalesforceMobileSDK-Shared.git",
		"git clone git@github.com:acme/SalesforceMobileSDK-Android.git",
		"git clone git@github.com:acme/SalesforceMobileSDK-iOS.git",
		"git clone git@github.com:acme/SalesforceMobileSDK-iOS-Hybrid.git",
		"git clone git@github.com:acme/SalesforceMobileSDK-iOS-Specs.git",
		"git clone git@github.com:acme/SalesforceMobileSDK-CordovaPlugin.git",
		"git clone git@github.com:acme/SalesforceMobileSDK-ReactNative.git",
		"git clone git@github.com:acme/SalesforceMobileSDK-Templates.git",
		"git clone git@github.com:acme/SalesforceMobileSDK-Package.git",
	}, clones)
}

func TestReleaseTagsEachRepositoryBeforeDevArm(testInstance *testing.T) {
	runner := &testsupport.RecordingRunner{}
	require.NoError(testInstance, runFullRelease(testInstance, runner))

	require.Equal(testInstance, 8, runner.CountLines(testTagLineConstant))

	for _, segment := range splitByClone(runner.Commands()) {
		tagCount := 0
		for _, command := range segment.commands {
			if command.Line == testTagLineConstant {
				tagCount++
			}
		}
		if strings.HasSuffix(segment.root, "SalesforceMobileSDK-iOS-Specs") {
			require.Zero(testInstance, tagCount)
			continue
		}
		require.Equal(testInstance, 1, tagCount, segment.root)

		mergeIndex := indexOf(segment.commands, `git merge --no-ff -m "Merging dev into main" dev`, 0)
		tagIndex := indexOf(segment.commands, testTagLineConstant, 0)
		tagPushIndex := indexOf(segment.commands, testTagPushConstant, 0)
		devCheckoutIndex := indexOf(segment.commands, "git checkout dev", tagIndex)

		mergeBackIndex := -1
		for index := tagPushIndex; index < len(segment.commands); index++ {
			if segment.commands[index].Line == "git pull origin main" && segment.commands[index].WorkingDirectory == segment.root {
				mergeBackIndex = index
				break
			}
		}

		require.Greater(testInstance, tagIndex, mergeIndex, segment.root)
		require.Greater(testInstance, tagPushIndex, tagIndex, segment.root)
		require.Greater(testInstance, devCheckoutIndex, tagPushIndex, segment.root)
		require.Greater(testInstance, mergeBackIndex, devCheckoutIndex, segment.root)
	}
}

func TestReleaseSetVersionFlags(testInstance *testing.T) {
	runner := &testsupport.RecordingRunner{}
	require.NoError(testInstance, runFullRelease(testInstance, runner))

	require.Equal(testInstance, 8, runner.CountLines("./setVersion.sh -v 7.1.0 -d no -c 64"))
	require.Equal(testInstance, 8, runner.CountLines("./setVersion.sh -v 7.2.0 -d yes -c 65"))
	require.Equal(testInstance, 16, runner.CountPrefix("./setVersion.sh"))
}

func TestReleaseToleratesFailingReleaseCommit(testInstance *testing.T) {
	runner := &testsupport.RecordingRunner{Responder: testsupport.FailLines(1, testReleaseCommitConstant)}
	require.NoError(testInstance, runFullRelease(testInstance, runner))

	require.Equal(testInstance, 9, runner.CountLines(testReleaseCommitConstant))
	require.Equal(testInstance, 8, runner.CountLines(testTagLineConstant))

	lines := runner.Lines()
	commitIndex := indexOf(runner.Commands(), testReleaseCommitConstant, 0)
	require.Equal(testInstance, "git push origin main", lines[commitIndex+1])
	require.Equal(testInstance, testTagLineConstant, lines[commitIndex+2])
}

func TestReleaseStopsAtFirstFatalFailure(testInstance *testing.T) {
	runner := &testsupport.RecordingRunner{Responder: testsupport.FailLines(1, `git commit -m "Merging main back to dev"`)}
	releaseError := runFullRelease(testInstance, runner)

	var stepFailure commandtree.StepFailedError
	require.ErrorAs(testInstance, releaseError, &stepFailure)
	require.Equal(testInstance, 1, runner.CountPrefix(testClonePrefixConstant))
	require.Equal(testInstance, `git commit -m "Merging main back to dev"`, runner.Lines()[len(runner.Lines())-1])
}

func TestReleaseFatalMasterFailureLeavesDevUntouched(testInstance *testing.T) {
	runner := &testsupport.RecordingRunner{Responder: testsupport.FailLines(1, "git push origin main")}
	require.Error(testInstance, runFullRelease(testInstance, runner))

	require.Zero(testInstance, runner.CountLines(testTagLineConstant))
	require.Zero(testInstance, runner.CountPrefix("./setVersion.sh -v 7.2.0"))
}

func TestSpecsPipeline(testInstance *testing.T) {
	catalog := loadCatalog(testInstance)
	specs, lookupError := catalog.Lookup(repositories.RepoIOSSpecs)
	require.NoError(testInstance, lookupError)

	runner := &testsupport.RecordingRunner{}
	executor := newWorkflowExecutor(testInstance, runner, catalog)
	plan := release.NewPlan(scenarioConfiguration(), gitrepo.RemoteProtocolSSH)
	require.NoError(testInstance, executor.RunRepositories(context.Background(), "release", testWorkingDirectoryConstant, []repositories.Repository{specs}, plan.BuildRepository))

	require.Zero(testInstance, runner.CountPrefix("git tag"))
	require.Zero(testInstance, runner.CountPrefix("git merge"))
	require.Equal(testInstance, 1, runner.CountLines("./update.sh -b main -v 7.1.0"))
	require.Equal(testInstance, []string{
		"git clone git@github.com:acme/SalesforceMobileSDK-iOS-Specs.git",
		"git checkout main",
		"./update.sh -b main -v 7.1.0",
		"git add *",
		testReleaseCommitConstant,
		"git push origin main",
	}, runner.Lines())
}

func TestRepositoryVariations(testInstance *testing.T) {
	catalog := loadCatalog(testInstance)
	pipeline := release.NewPipeline(scenarioConfiguration(), testWorkingDirectoryConstant, gitrepo.RemoteProtocolSSH)

	testCases := []struct {
		id               repositories.RepoID
		expectedLines    []string
		expectedRelative []string
	}{
		{
			id: repositories.RepoAndroid,
			expectedLines: []string{
				"./tools/generate_doc.sh",
				"mv ./doc ../docAndroid",
				"git checkout docs",
				"rm -rf *",
				"mv ../docAndroid/* .",
				`git commit -m "Java doc for Mobile SDK 7.1.0"`,
				"git push origin docs",
			},
			expectedRelative: []string{"external/shared", "external/shared"},
		},
		{
			id: repositories.RepoIOS,
			expectedLines: []string{
				"./docs/generate_docs.sh",
				"mv ./build/artifacts/doc ../docIOS",
				"rm -rf Documentation/*",
				"mv ../docIOS/* ./Documentation/",
				"git add Documentation",
				`git commit -m "Apple doc for Mobile SDK 7.1.0"`,
			},
		},
		{
			id:               repositories.RepoIOSHybrid,
			expectedRelative: []string{"external/shared", "external/SalesforceMobileSDK-iOS", "external/shared", "external/SalesforceMobileSDK-iOS"},
		},
		{
			id:            repositories.RepoCordovaPlugin,
			expectedLines: []string{"./tools/update.sh -b main", "./tools/update.sh -b dev"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(string(testCase.id), func(testInstance *testing.T) {
			repository, lookupError := catalog.Lookup(testCase.id)
			require.NoError(testInstance, lookupError)

			commandTree, buildError := pipeline.Build(repository)
			require.NoError(testInstance, buildError)

			var lines []string
			var relativeDirectories []string
			for _, leaf := range commandtree.Leaves(commandTree) {
				lines = append(lines, leaf.Line)
				if len(leaf.RelativeDirectory) > 0 {
					relativeDirectories = append(relativeDirectories, leaf.RelativeDirectory)
				}
			}
			for _, expectedLine := range testCase.expectedLines {
				require.Contains(testInstance, lines, expectedLine)
			}
			require.Equal(testInstance, testCase.expectedRelative, relativeDirectories)
		})
	}
}

func TestDocGenerationFollowsTagAndPrecedesDevArm(testInstance *testing.T) {
	catalog := loadCatalog(testInstance)
	ios, lookupError := catalog.Lookup(repositories.RepoIOS)
	require.NoError(testInstance, lookupError)

	commandTree, buildError := release.NewPipeline(scenarioConfiguration(), testWorkingDirectoryConstant, gitrepo.RemoteProtocolSSH).Build(ios)
	require.NoError(testInstance, buildError)

	var lines []string
	for _, leaf := range commandtree.Leaves(commandTree) {
		lines = append(lines, leaf.Line)
	}
	tagPush := -1
	docPush := -1
	devSetVersion := -1
	for index, line := range lines {
		switch line {
		case testTagPushConstant:
			tagPush = index
		case "git push origin docs":
			docPush = index
		case "./setVersion.sh -v 7.2.0 -d yes -c 65":
			devSetVersion = index
		}
	}
	require.Greater(testInstance, docPush, tagPush)
	require.Greater(testInstance, devSetVersion, docPush)
}

func TestReleaseCommitIsTheOnlyToleratedStep(testInstance *testing.T) {
	catalog := loadCatalog(testInstance)
	pipeline := release.NewPipeline(scenarioConfiguration(), testWorkingDirectoryConstant, gitrepo.RemoteProtocolSSH)

	for _, repository := range catalog.Repositories() {
		commandTree, buildError := pipeline.Build(repository)
		require.NoError(testInstance, buildError)
		for _, leaf := range commandtree.Leaves(commandTree) {
			require.Equal(testInstance, leaf.Line == testReleaseCommitConstant, leaf.IgnoreError, leaf.Line)
		}
	}
}

func TestPipelineUsesHTTPSWhenConfigured(testInstance *testing.T) {
	commandTree, buildError := release.NewPipeline(scenarioConfiguration(), testWorkingDirectoryConstant, gitrepo.RemoteProtocolHTTPS).BuildStandard("SalesforceMobileSDK-Shared", release.RepoParams{})
	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "git clone https://github.com/acme/SalesforceMobileSDK-Shared.git", commandtree.Leaves(commandTree)[0].Line)
}
