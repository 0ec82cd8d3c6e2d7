package release

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/temirov/sdkrelease/internal/commandtree"
	"github.com/temirov/sdkrelease/internal/gitrepo"
	"github.com/temirov/sdkrelease/internal/repositories"
)

const (
	processingMessageTemplateConstant       = "PROCESSING %s"
	workingOnMessageTemplateConstant        = "Working on %s"
	mergeToMasterMessageTemplateConstant    = "Merging %s to %s"
	mergeBackMessageTemplateConstant        = "Merging %s back to %s"
	setVersionMessageTemplateConstant       = "Running setVersion %s"
	updateSubmodulesMessageTemplateConstant = "Updating submodules to %s"
	pushingMessageTemplateConstant          = "Pushing to %s"
	taggingMessageTemplateConstant          = "Tagging %s with v%s"
	iosDocMessageConstant                   = "Generating docs for iOS"
	androidDocMessageConstant               = "Generating docs for Android"

	gitCloneTemplateConstant        = "git clone %s"
	gitCheckoutTemplateConstant     = "git checkout %s"
	gitSubmoduleSyncConstant        = "git submodule sync"
	gitSubmoduleUpdateConstant      = "git submodule update"
	gitMergeNoFastForwardTemplate   = `git merge --no-ff -m "Merging %s into %s" %s`
	setVersionTemplateConstant      = "./setVersion.sh -v %s -d %s -c %d"
	gitPullTemplateConstant         = "git pull origin %s"
	gitAddAllConstant               = "git add *"
	gitPushTemplateConstant         = "git push origin %s"
	releaseCommitTemplateConstant   = `git commit -m "Mobile SDK %s"`
	mergeBackCommitTemplateConstant = `git commit -m "Merging %s back to %s"`
	gitTagTemplateConstant          = "git tag v%s"
	gitPushTagsTemplateConstant     = "git push origin %s --tag"
	specsUpdateTemplateConstant     = "./update.sh -b %s -v %s"
	postMergeHookTemplateConstant   = "%s -b %s"
	devModeFlagConstant             = "yes"
	releaseModeFlagConstant         = "no"

	iosDocGeneratorConstant     = "./docs/generate_docs.sh"
	iosDocStageConstant         = "mv ./build/artifacts/doc ../docIOS"
	iosDocWipeConstant          = "rm -rf Documentation/*"
	iosDocMoveConstant          = "mv ../docIOS/* ./Documentation/"
	iosDocAddConstant           = "git add Documentation"
	iosDocCommitTemplate        = `git commit -m "Apple doc for Mobile SDK %s"`
	androidDocGeneratorConstant = "./tools/generate_doc.sh"
	androidDocStageConstant     = "mv ./doc ../docAndroid"
	androidDocWipeConstant      = "rm -rf *"
	androidDocMoveConstant      = "mv ../docAndroid/* ."
	androidDocCommitTemplate    = `git commit -m "Java doc for Mobile SDK %s"`
	unknownReleaseKindTemplate  = "unsupported release kind %q for %s"
	unknownDocRecipeTemplate    = "unsupported doc recipe %q for %s"
)

// RepoParams customizes the standard pipeline for one repository. All fields are optional.
type RepoParams struct {
	SubmodulePaths         []string
	MasterPostMergeCommand string
	DevPostMergeCommand    string
	DocGeneration          commandtree.Node
}

// Pipeline builds release command trees for a single run.
type Pipeline struct {
	configuration    Configuration
	workingDirectory string
	remoteProtocol   gitrepo.RemoteProtocol
}

// NewPipeline binds the run configuration. workingDirectory is where repositories are cloned.
func NewPipeline(configuration Configuration, workingDirectory string, remoteProtocol gitrepo.RemoteProtocol) *Pipeline {
	return &Pipeline{configuration: configuration, workingDirectory: workingDirectory, remoteProtocol: remoteProtocol}
}

// Build returns the command tree for repository according to its catalog parameters.
func (pipeline *Pipeline) Build(repository repositories.Repository) (commandtree.Node, error) {
	switch repository.Release.Kind {
	case repositories.ReleaseKindStandard, "":
		parameters, parametersError := pipeline.ParametersFor(repository)
		if parametersError != nil {
			return nil, parametersError
		}
		return pipeline.BuildStandard(repository.Name, parameters)
	case repositories.ReleaseKindSpecs:
		return pipeline.BuildSpecs(repository.Name)
	default:
		return nil, fmt.Errorf(unknownReleaseKindTemplate, repository.Release.Kind, repository.ID)
	}
}

// ParametersFor translates catalog parameters into pipeline parameters.
func (pipeline *Pipeline) ParametersFor(repository repositories.Repository) (RepoParams, error) {
	parameters := RepoParams{SubmodulePaths: append([]string{}, repository.Release.SubmodulePaths...)}

	if script := repository.Release.PostMergeScript; len(script) > 0 {
		parameters.MasterPostMergeCommand = fmt.Sprintf(postMergeHookTemplateConstant, script, pipeline.configuration.MasterBranch)
		parameters.DevPostMergeCommand = fmt.Sprintf(postMergeHookTemplateConstant, script, pipeline.configuration.DevBranch)
	}

	switch repository.Release.DocRecipe {
	case repositories.DocRecipeNone:
	case repositories.DocRecipeIOS:
		parameters.DocGeneration = pipeline.IOSDocumentation()
	case repositories.DocRecipeAndroid:
		parameters.DocGeneration = pipeline.AndroidDocumentation()
	default:
		return RepoParams{}, fmt.Errorf(unknownDocRecipeTemplate, repository.Release.DocRecipe, repository.ID)
	}

	return parameters, nil
}

// BuildStandard assembles the full release: clone, master arm, dev arm.
func (pipeline *Pipeline) BuildStandard(repositoryName string, parameters RepoParams) (commandtree.Node, error) {
	cloneLeaf, cloneError := pipeline.clone(repositoryName)
	if cloneError != nil {
		return nil, cloneError
	}

	configuration := pipeline.configuration
	masterArm := commandtree.NewGroup(fmt.Sprintf(workingOnMessageTemplateConstant, configuration.MasterBranch),
		pipeline.checkoutMasterAndMergeDev(),
		commandtree.OptionalCommand(parameters.MasterPostMergeCommand),
		pipeline.setVersion(configuration.VersionReleased, false, configuration.VersionCodeReleased),
		pipeline.updateSubmodules(configuration.MasterBranch, parameters.SubmodulePaths),
		pipeline.commitAndPushMaster(),
		pipeline.tagMaster(),
		parameters.DocGeneration,
	)

	devArm := commandtree.NewGroup(fmt.Sprintf(workingOnMessageTemplateConstant, configuration.DevBranch),
		pipeline.checkoutDevAndMergeMaster(),
		commandtree.OptionalCommand(parameters.DevPostMergeCommand),
		pipeline.setVersion(configuration.NextVersion, true, configuration.NextVersionCode),
		pipeline.updateSubmodules(configuration.DevBranch, parameters.SubmodulePaths),
		pipeline.commitAndPushDev(),
	)

	return commandtree.NewGroup(fmt.Sprintf(processingMessageTemplateConstant, repositoryName), cloneLeaf, masterArm, devArm), nil
}

// BuildSpecs assembles the podspec release: no merge, no tag and no dev arm.
func (pipeline *Pipeline) BuildSpecs(repositoryName string) (commandtree.Node, error) {
	cloneLeaf, cloneError := pipeline.clone(repositoryName)
	if cloneError != nil {
		return nil, cloneError
	}

	configuration := pipeline.configuration
	return commandtree.NewGroup(fmt.Sprintf(processingMessageTemplateConstant, repositoryName),
		cloneLeaf,
		commandtree.Command(fmt.Sprintf(gitCheckoutTemplateConstant, configuration.MasterBranch)),
		commandtree.Command(fmt.Sprintf(specsUpdateTemplateConstant, configuration.MasterBranch, configuration.VersionReleased)),
		pipeline.commitAndPushMaster(),
	), nil
}

// IOSDocumentation regenerates the Apple doc and publishes it to the doc branch.
func (pipeline *Pipeline) IOSDocumentation() commandtree.Node {
	configuration := pipeline.configuration
	return commandtree.NewGroup(iosDocMessageConstant, commandtree.Lines(
		fmt.Sprintf(gitCheckoutTemplateConstant, configuration.MasterBranch),
		iosDocGeneratorConstant,
		iosDocStageConstant,
		fmt.Sprintf(gitCheckoutTemplateConstant, configuration.DocBranch),
		iosDocWipeConstant,
		iosDocMoveConstant,
		iosDocAddConstant,
		fmt.Sprintf(iosDocCommitTemplate, configuration.VersionReleased),
		fmt.Sprintf(gitPushTemplateConstant, configuration.DocBranch),
	)...)
}

// AndroidDocumentation regenerates the Javadoc and publishes it to the doc branch.
func (pipeline *Pipeline) AndroidDocumentation() commandtree.Node {
	configuration := pipeline.configuration
	return commandtree.NewGroup(androidDocMessageConstant, commandtree.Lines(
		fmt.Sprintf(gitCheckoutTemplateConstant, configuration.MasterBranch),
		androidDocGeneratorConstant,
		androidDocStageConstant,
		fmt.Sprintf(gitCheckoutTemplateConstant, configuration.DocBranch),
		androidDocWipeConstant,
		androidDocMoveConstant,
		gitAddAllConstant,
		fmt.Sprintf(androidDocCommitTemplate, configuration.VersionReleased),
		fmt.Sprintf(gitPushTemplateConstant, configuration.DocBranch),
	)...)
}

func (pipeline *Pipeline) clone(repositoryName string) (*commandtree.Leaf, error) {
	locator := repositories.RemoteLocator{Organization: pipeline.configuration.Organization, Repository: repositoryName}
	cloneURL, urlError := locator.CloneURL(pipeline.remoteProtocol)
	if urlError != nil {
		return nil, urlError
	}
	return commandtree.Command(fmt.Sprintf(gitCloneTemplateConstant, cloneURL)).InDirectory(pipeline.workingDirectory), nil
}

// checkoutMasterAndMergeDev checks dev out first so a local dev branch tracking the remote exists.
func (pipeline *Pipeline) checkoutMasterAndMergeDev() commandtree.Node {
	configuration := pipeline.configuration
	return commandtree.NewGroup(fmt.Sprintf(mergeToMasterMessageTemplateConstant, configuration.DevBranch, configuration.MasterBranch), commandtree.Lines(
		fmt.Sprintf(gitCheckoutTemplateConstant, configuration.DevBranch),
		fmt.Sprintf(gitCheckoutTemplateConstant, configuration.MasterBranch),
		gitSubmoduleSyncConstant,
		gitSubmoduleUpdateConstant,
		fmt.Sprintf(gitMergeNoFastForwardTemplate, configuration.DevBranch, configuration.MasterBranch, configuration.DevBranch),
	)...)
}

func (pipeline *Pipeline) setVersion(version string, isDev bool, code int) commandtree.Node {
	modeFlag := releaseModeFlagConstant
	if isDev {
		modeFlag = devModeFlagConstant
	}
	return commandtree.NewGroup(fmt.Sprintf(setVersionMessageTemplateConstant, version),
		commandtree.Command(fmt.Sprintf(setVersionTemplateConstant, version, modeFlag, code)),
	)
}

func (pipeline *Pipeline) updateSubmodules(branch string, submodulePaths []string) commandtree.Node {
	if len(submodulePaths) == 0 {
		return nil
	}
	pullLine := fmt.Sprintf(gitPullTemplateConstant, branch)
	pulls := lo.Map(submodulePaths, func(submodulePath string, _ int) commandtree.Node {
		return commandtree.Command(pullLine).InRelativeDirectory(submodulePath)
	})
	return commandtree.NewGroup(fmt.Sprintf(updateSubmodulesMessageTemplateConstant, branch), pulls...)
}

// commitAndPushMaster tolerates a failing commit: setVersion.sh may have changed nothing.
func (pipeline *Pipeline) commitAndPushMaster() commandtree.Node {
	configuration := pipeline.configuration
	return commandtree.NewGroup(fmt.Sprintf(pushingMessageTemplateConstant, configuration.MasterBranch),
		commandtree.Command(gitAddAllConstant),
		commandtree.Command(fmt.Sprintf(releaseCommitTemplateConstant, configuration.VersionReleased)).IgnoringError(),
		commandtree.Command(fmt.Sprintf(gitPushTemplateConstant, configuration.MasterBranch)),
	)
}

func (pipeline *Pipeline) tagMaster() commandtree.Node {
	configuration := pipeline.configuration
	return commandtree.NewGroup(fmt.Sprintf(taggingMessageTemplateConstant, configuration.MasterBranch, configuration.VersionReleased), commandtree.Lines(
		fmt.Sprintf(gitTagTemplateConstant, configuration.VersionReleased),
		fmt.Sprintf(gitPushTagsTemplateConstant, configuration.MasterBranch),
	)...)
}

func (pipeline *Pipeline) checkoutDevAndMergeMaster() commandtree.Node {
	configuration := pipeline.configuration
	return commandtree.NewGroup(fmt.Sprintf(mergeBackMessageTemplateConstant, configuration.MasterBranch, configuration.DevBranch), commandtree.Lines(
		fmt.Sprintf(gitCheckoutTemplateConstant, configuration.DevBranch),
		gitSubmoduleSyncConstant,
		gitSubmoduleUpdateConstant,
		fmt.Sprintf(gitPullTemplateConstant, configuration.MasterBranch),
	)...)
}

func (pipeline *Pipeline) commitAndPushDev() commandtree.Node {
	configuration := pipeline.configuration
	return commandtree.NewGroup(fmt.Sprintf(pushingMessageTemplateConstant, configuration.DevBranch), commandtree.Lines(
		gitAddAllConstant,
		fmt.Sprintf(mergeBackCommitTemplateConstant, configuration.MasterBranch, configuration.DevBranch),
		fmt.Sprintf(gitPushTemplateConstant, configuration.DevBranch),
	)...)
}
