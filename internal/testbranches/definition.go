package testbranches

import (
	"fmt"

	"github.com/temirov/sdkrelease/internal/commandtree"
	"github.com/temirov/sdkrelease/internal/gitrepo"
	"github.com/temirov/sdkrelease/internal/repositories"
	"github.com/temirov/sdkrelease/internal/workflow"
)

const (
	workflowNameConstant           = "setup-test-branches"
	summaryHeadlineConstant        = " SETTING UP TEST BRANCHES FOR RELEASE TESTING "
	summaryMasterTemplateConstant  = "Will drop and recreate %s off of master on all repos in %s"
	summaryDevTemplateConstant     = "Will drop and recreate %s off of dev on all applicable repos"
	summaryTagTemplateConstant     = "Will drop tag v%s"
	summaryCleanupOnlyLineConstant = "Cleanup only: test branches will not be recreated"
)

// Summary describes what a test setup run will do.
func Summary(configuration Configuration) []string {
	lines := []string{
		"",
		summaryHeadlineConstant,
		"",
		fmt.Sprintf(summaryMasterTemplateConstant, configuration.TestMasterBranch, configuration.TestOrganization),
		fmt.Sprintf(summaryDevTemplateConstant, configuration.TestDevBranch),
		fmt.Sprintf(summaryTagTemplateConstant, configuration.TestVersion),
	}
	if configuration.CleanupOnly {
		lines = append(lines, summaryCleanupOnlyLineConstant)
	}
	return lines
}

// NewDefinition describes the interactive test setup workflow.
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
