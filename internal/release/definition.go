package release

import (
	"fmt"

	"github.com/temirov/sdkrelease/internal/commandtree"
	"github.com/temirov/sdkrelease/internal/gitrepo"
	"github.com/temirov/sdkrelease/internal/repositories"
	"github.com/temirov/sdkrelease/internal/workflow"
)

const (
	workflowNameConstant              = "release"
	summaryHeadlineTemplateConstant   = " RELEASING version %s (code %d on Android) "
	summaryMergeTemplateConstant      = "Will merge %s to %s on %s"
	summaryTagTemplateConstant        = "Will apply tag v%s"
	summaryDocTemplateConstant        = "New doc will be published to %s"
	summaryAfterwardsTemplateConstant = "Afterwards %s will be for version %s (code %d on Android)"
)

// Summary describes what a release run will do.
func Summary(configuration Configuration) []string {
	return []string{
		"",
		fmt.Sprintf(summaryHeadlineTemplateConstant, configuration.VersionReleased, configuration.VersionCodeReleased),
		"",
		fmt.Sprintf(summaryMergeTemplateConstant, configuration.DevBranch, configuration.MasterBranch, configuration.Organization),
		fmt.Sprintf(summaryTagTemplateConstant, configuration.VersionReleased),
		fmt.Sprintf(summaryDocTemplateConstant, configuration.DocBranch),
		fmt.Sprintf(summaryAfterwardsTemplateConstant, configuration.DevBranch, configuration.NextVersion, configuration.NextVersionCode),
	}
}

// NewDefinition describes the interactive release workflow.
func NewDefinition(defaults PromptDefaults, remoteProtocol gitrepo.RemoteProtocol) workflow.Definition {
	return workflow.Definition{
		Name:      workflowNameConstant,
		Questions: Questions(defaults),
		Prepare: func(answers map[string]any) (workflow.Plan, error) {
			configuration, parseError := ParseConfiguration(answers)
			if parseError != nil {
				return workflow.Plan{}, parseError
			}
			return NewPlan(configuration, remoteProtocol), nil
		},
	}
}

// NewPlan turns a validated configuration into an executable plan.
func NewPlan(configuration Configuration, remoteProtocol gitrepo.RemoteProtocol) workflow.Plan {
	return workflow.Plan{
		TemporaryDirectory: configuration.TemporaryDirectory,
		AutoConfirm:        configuration.AutoYesForPrompts,
		Summary:            Summary(configuration),
		BuildRepository: func(workingDirectory string, repository repositories.Repository) (commandtree.Node, error) {
			return NewPipeline(configuration, workingDirectory, remoteProtocol).Build(repository)
		},
	}
}
