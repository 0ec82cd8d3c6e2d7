package testbranches

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/temirov/sdkrelease/internal/commandtree"
	"github.com/temirov/sdkrelease/internal/gitrepo"
	"github.com/temirov/sdkrelease/internal/repositories"
)

const (
	processingMessageTemplateConstant     = "PROCESSING %s"
	cleaningUpMessageTemplateConstant     = "Cleaning up test branches/tag in %s"
	settingUpAllMessageTemplateConstant   = "Setting up test branches in %s"
	settingUpMessageTemplateConstant      = "Setting up %s"
	deleteBranchMessageTemplateConstant   = "Deleting %s branch"
	deleteTagMessageTemplateConstant      = "Deleting v%s tag"
	createBranchMessageTemplateConstant   = "Creating %s branch off of %s"
	mergeMessageTemplateConstant          = "Merging %s to %s"
	pointToForkMessageTemplateConstant    = "Pointing to fork %s in %s branch"
	editFileMessageTemplateConstant       = "Editing file %s"
	updateSubmodulesTemplateConstant      = "Updating submodules in %s branch"
	fixSubmoduleMessageTemplateConstant   = "Fixing submodule %s"
	gitCloneTemplateConstant              = "git clone %s"
	gitDeleteRemoteBranchTemplateConstant = "git push origin :%s"
	gitDeleteLocalTagTemplateConstant     = "git tag -d v%s"
	gitDeleteRemoteTagTemplateConstant    = "git push --delete origin v%s"
	gitCheckoutTemplateConstant           = "git checkout %s"
	gitCreateBranchTemplateConstant       = "git checkout -b %s"
	gitPushTemplateConstant               = "git push origin %s"
	gitSubmoduleSyncConstant              = "git submodule sync"
	gitSubmoduleUpdateConstant            = "git submodule update"
	gitMergeTemplateConstant              = `git merge -m "Merge from %s" %s`
	forkRewriteTemplateConstant           = `gsed -i "s/%s/%s/g" %s`
	gitAddTemplateConstant                = "git add %s"
	gitPullTemplateConstant               = "git pull origin %s"
	pointToForkCommitConstant             = `git commit -m "Pointing to fork"`
	updateSubmodulesCommitConstant        = `git commit -m "Updating submodules"`
)

// Pipeline builds test setup command trees for a single run.
type Pipeline struct {
	configuration    Configuration
	workingDirectory string
	remoteProtocol   gitrepo.RemoteProtocol
}

// NewPipeline binds the run configuration. workingDirectory is where repositories are cloned.
func NewPipeline(configuration Configuration, workingDirectory string, remoteProtocol gitrepo.RemoteProtocol) *Pipeline {
	return &Pipeline{configuration: configuration, workingDirectory: workingDirectory, remoteProtocol: remoteProtocol}
}

// Build returns the cleanup and setup tree for repository. Repositories are cloned from the test organization.
func (pipeline *Pipeline) Build(repository repositories.Repository) (commandtree.Node, error) {
	cloneURL, urlError := repository.Locator(pipeline.configuration.TestOrganization).CloneURL(pipeline.remoteProtocol)
	if urlError != nil {
		return nil, urlError
	}

	return commandtree.NewGroup(fmt.Sprintf(processingMessageTemplateConstant, repository.Name),
		commandtree.Command(fmt.Sprintf(gitCloneTemplateConstant, cloneURL)).InDirectory(pipeline.workingDirectory),
		pipeline.cleanup(repository),
		commandtree.When(!pipeline.configuration.CleanupOnly, pipeline.setup(repository)),
	), nil
}

func (pipeline *Pipeline) cleanup(repository repositories.Repository) commandtree.Node {
	configuration := pipeline.configuration
	parameters := repository.Test
	return commandtree.NewGroup(fmt.Sprintf(cleaningUpMessageTemplateConstant, repository.Name),
		deleteBranch(configuration.TestMasterBranch),
		commandtree.When(!parameters.NoDev, deleteBranch(configuration.TestDevBranch)),
		commandtree.When(parameters.HasDoc, deleteBranch(configuration.TestDocBranch)),
		commandtree.When(!parameters.NoTag, deleteTag(configuration.TestVersion)),
	)
}

func (pipeline *Pipeline) setup(repository repositories.Repository) commandtree.Node {
	configuration := pipeline.configuration
	parameters := repository.Test

	// The test master branch keeps the upstream organization so it merges cleanly into test dev.
	masterSetup := commandtree.NewGroup(fmt.Sprintf(settingUpMessageTemplateConstant, configuration.TestMasterBranch),
		createBranch(configuration.TestMasterBranch, productionMasterBranchConstant),
	)

	var devSetup commandtree.Node
	if !parameters.NoDev {
		devSetup = commandtree.NewGroup(fmt.Sprintf(settingUpMessageTemplateConstant, configuration.TestDevBranch),
			createBranch(configuration.TestDevBranch, productionDevBranchConstant),
			pipeline.mergeMasterToDev(),
			commandtree.When(len(parameters.FilesWithOrg) > 0, pipeline.pointToFork(configuration.TestDevBranch, parameters.FilesWithOrg)),
			commandtree.When(len(parameters.SubmodulePaths) > 0, updateSubmodules(configuration.TestDevBranch, parameters.SubmodulePaths)),
		)
	}

	return commandtree.NewGroup(fmt.Sprintf(settingUpAllMessageTemplateConstant, repository.Name),
		masterSetup,
		commandtree.When(parameters.HasDoc, createBranch(configuration.TestDocBranch, productionDocBranchConstant)),
		devSetup,
	)
}

func deleteBranch(branch string) commandtree.Node {
	return commandtree.NewGroup(fmt.Sprintf(deleteBranchMessageTemplateConstant, branch),
		commandtree.Command(fmt.Sprintf(gitDeleteRemoteBranchTemplateConstant, branch)),
	)
}

func deleteTag(version string) commandtree.Node {
	return commandtree.NewGroup(fmt.Sprintf(deleteTagMessageTemplateConstant, version),
		commandtree.Command(fmt.Sprintf(gitDeleteLocalTagTemplateConstant, version)),
		commandtree.Command(fmt.Sprintf(gitDeleteRemoteTagTemplateConstant, version)),
	)
}

func createBranch(branch string, rootBranch string) commandtree.Node {
	return commandtree.NewGroup(fmt.Sprintf(createBranchMessageTemplateConstant, branch, rootBranch), commandtree.Lines(
		fmt.Sprintf(gitCheckoutTemplateConstant, rootBranch),
		fmt.Sprintf(gitCreateBranchTemplateConstant, branch),
		fmt.Sprintf(gitPushTemplateConstant, branch),
	)...)
}

func (pipeline *Pipeline) mergeMasterToDev() commandtree.Node {
	configuration := pipeline.configuration
	return commandtree.NewGroup(fmt.Sprintf(mergeMessageTemplateConstant, configuration.TestMasterBranch, configuration.TestDevBranch), commandtree.Lines(
		fmt.Sprintf(gitCheckoutTemplateConstant, configuration.TestDevBranch),
		gitSubmoduleSyncConstant,
		gitSubmoduleUpdateConstant,
		fmt.Sprintf(gitMergeTemplateConstant, configuration.TestMasterBranch, configuration.TestMasterBranch),
		fmt.Sprintf(gitPushTemplateConstant, configuration.TestDevBranch),
	)...)
}

func (pipeline *Pipeline) pointToFork(branch string, files []string) commandtree.Node {
	organization := pipeline.configuration.TestOrganization
	edits := lo.Map(files, func(file string, _ int) commandtree.Node {
		return commandtree.NewGroup(fmt.Sprintf(editFileMessageTemplateConstant, file), commandtree.Lines(
			fmt.Sprintf(forkRewriteTemplateConstant, repositories.CanonicalOrganizationConstant, organization, file),
			fmt.Sprintf(gitAddTemplateConstant, file),
		)...)
	})

	children := []commandtree.Node{commandtree.Command(fmt.Sprintf(gitCheckoutTemplateConstant, branch))}
	children = append(children, edits...)
	children = append(children, commandtree.Lines(pointToForkCommitConstant, fmt.Sprintf(gitPushTemplateConstant, branch))...)
	return commandtree.NewGroup(fmt.Sprintf(pointToForkMessageTemplateConstant, organization, branch), children...)
}

func updateSubmodules(branch string, submodulePaths []string) commandtree.Node {
	fixes := lo.Map(submodulePaths, func(submodulePath string, _ int) commandtree.Node {
		return commandtree.NewGroup(fmt.Sprintf(fixSubmoduleMessageTemplateConstant, submodulePath),
			commandtree.Command(fmt.Sprintf(gitPullTemplateConstant, branch)).InRelativeDirectory(submodulePath),
			commandtree.Command(fmt.Sprintf(gitAddTemplateConstant, submodulePath)),
		)
	})

	children := commandtree.Lines(fmt.Sprintf(gitCheckoutTemplateConstant, branch), gitSubmoduleSyncConstant, gitSubmoduleUpdateConstant)
	children = append(children, fixes...)
	children = append(children, commandtree.Lines(updateSubmodulesCommitConstant, fmt.Sprintf(gitPushTemplateConstant, branch))...)
	return commandtree.NewGroup(fmt.Sprintf(updateSubmodulesTemplateConstant, branch), children...)
}
