package testbranches_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sdkrelease/internal/testbranches"
)

func validAnswers() map[string]any {
	return map[string]any{
		testbranches.AnswerTemporaryDirectoryConstant: "/tmp/t",
		testbranches.AnswerTestOrganizationConstant:   "myfork",
		testbranches.AnswerTestMasterBranchConstant:   "main2",
		testbranches.AnswerTestDevBranchConstant:      "dev2",
		testbranches.AnswerTestDocBranchConstant:      "docs2",
		testbranches.AnswerTestVersionConstant:        "7.1.0",
		testbranches.AnswerCleanupOnlyConstant:        true,
		testbranches.AnswerAutoYesConstant:            true,
	}
}

func TestParseConfigurationAcceptsFork(testInstance *testing.T) {
	configuration, parseError := testbranches.ParseConfiguration(validAnswers())
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, scenarioConfigurationWith(true, true), configuration)
}

func scenarioConfigurationWith(cleanupOnly bool, autoYes bool) testbranches.Configuration {
	configuration := scenarioConfiguration(cleanupOnly)
	configuration.AutoYesForPrompts = autoYes
	return configuration
}

func TestGuardsRefuseProductionTargets(testInstance *testing.T) {
	testCases := []struct {
		name           string
		key            string
		value          string
		expectedReason string
	}{
		{name: "canonical_organization", key: testbranches.AnswerTestOrganizationConstant, value: "forcedotcom", expectedReason: "You can't use forcedotcom for testing"},
		{name: "production_master", key: testbranches.AnswerTestMasterBranchConstant, value: "master", expectedReason: "You can't use master for testing"},
		{name: "production_dev", key: testbranches.AnswerTestDevBranchConstant, value: "dev", expectedReason: "You can't use dev for testing"},
		{name: "production_doc", key: testbranches.AnswerTestDocBranchConstant, value: "gh-pages", expectedReason: "You can't use gh-pages for testing"},
		{name: "older_version", key: testbranches.AnswerTestVersionConstant, value: "7.0.9", expectedReason: "You can't use 7.0.9 for testing"},
		{name: "unparsable_version", key: testbranches.AnswerTestVersionConstant, value: "seven", expectedReason: `testVersion "seven" is not a semantic version`},
		{name: "empty_dev_branch", key: testbranches.AnswerTestDevBranchConstant, value: " ", expectedReason: "testDevBranch is required"},
		{name: "organization_with_space", key: testbranches.AnswerTestOrganizationConstant, value: "my fork", expectedReason: "testOrg: "},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			answers := validAnswers()
			answers[testCase.key] = testCase.value

			_, parseError := testbranches.ParseConfiguration(answers)
			var validationError testbranches.ValidationError
			require.ErrorAs(testInstance, parseError, &validationError)
			require.Len(testInstance, validationError.Reasons, 1)
			require.Contains(testInstance, validationError.Reasons[0], testCase.expectedReason)
		})
	}
}

func TestGuardsAcceptNewerVersions(testInstance *testing.T) {
	for _, version := range []string{"7.1.0", "7.1.1", "8.0.0"} {
		configuration := scenarioConfiguration(false)
		configuration.TestVersion = version
		require.NoError(testInstance, configuration.Validate(), version)
	}
}

func TestGuardsReportEveryViolation(testInstance *testing.T) {
	configuration := testbranches.Configuration{
		TestOrganization: "forcedotcom",
		TestMasterBranch: "master",
		TestDevBranch:    "dev",
		TestDocBranch:    "gh-pages",
		TestVersion:      "1.0.0",
	}

	var validationError testbranches.ValidationError
	require.ErrorAs(testInstance, configuration.Validate(), &validationError)
	require.Len(testInstance, validationError.Reasons, 5)
}

func TestQuestionsOfferConfiguredDefaults(testInstance *testing.T) {
	questions := testbranches.Questions(testbranches.DefaultCommandConfiguration().Defaults)

	var names []string
	for _, question := range questions {
		names = append(names, question.Name)
	}
	require.Equal(testInstance, []string{
		"tmpDir", "testOrg", "testMasterBranch", "testDevBranch", "testDocBranch", "testVersion", "cleanupOnly", "autoYesForPrompts",
	}, names)
	require.Equal(testInstance, "wmathurin", questions[1].DefaultText)
	require.Equal(testInstance, "7.1.0", questions[5].DefaultText)
	require.False(testInstance, questions[6].DefaultConfirm)
	require.True(testInstance, questions[7].DefaultConfirm)
}

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	sanitized := testbranches.CommandConfiguration{Defaults: testbranches.PromptDefaults{
		TestOrganization: " fork ",
		CleanupOnly:      true,
	}}.Sanitize().Defaults

	require.Equal(testInstance, "fork", sanitized.TestOrganization)
	require.Equal(testInstance, "master2", sanitized.TestMasterBranch)
	require.Equal(testInstance, "7.1.0", sanitized.TestVersion)
	require.True(testInstance, sanitized.CleanupOnly)
	require.False(testInstance, sanitized.AutoYes)
}

func TestDefaultConfigurationValuesUseRootKey(testInstance *testing.T) {
	values := testbranches.DefaultConfigurationValues("tools.test_branches")

	require.Equal(testInstance, "doc2", values["tools.test_branches.defaults.test_doc_branch"])
	require.Equal(testInstance, true, values["tools.test_branches.defaults.auto_yes"])
	require.Len(testInstance, values, 8)
}

func TestSummaryDescribesSetup(testInstance *testing.T) {
	require.Equal(testInstance, []string{
		"",
		" SETTING UP TEST BRANCHES FOR RELEASE TESTING ",
		"",
		"Will drop and recreate main2 off of master on all repos in myfork",
		"Will drop and recreate dev2 off of dev on all applicable repos",
		"Will drop tag v7.1.0",
	}, testbranches.Summary(scenarioConfiguration(false)))
	require.Len(testInstance, testbranches.Summary(scenarioConfiguration(true)), 7)
}
