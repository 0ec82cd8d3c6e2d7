package testbranches

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/temirov/sdkrelease/internal/gitrepo"
	"github.com/temirov/sdkrelease/internal/prompt"
	"github.com/temirov/sdkrelease/internal/repositories"
	"github.com/temirov/sdkrelease/internal/workspace"
)

const (
	defaultsConfigurationKeyConstant = "defaults"

	defaultTestOrganizationConstant = "wmathurin"
	defaultTestMasterBranchConstant = "master2"
	defaultTestDevBranchConstant    = "dev2"
	defaultTestDocBranchConstant    = "doc2"

	productionMasterBranchConstant = "master"
	productionDevBranchConstant    = "dev"
	productionDocBranchConstant    = "gh-pages"

	validationErrorPrefixConstant       = "invalid test branch configuration: "
	validationReasonSeparatorConstant   = "; "
	answersDecodeReasonTemplateConstant = "answers: %v"
	requiredReasonTemplateConstant      = "%s is required"
	whitespaceReasonTemplateConstant    = "%s must not contain whitespace"
	organizationReasonTemplateConstant  = "testOrg: %v"
	forbiddenReasonTemplateConstant     = "You can't use %s for testing"
	versionReasonTemplateConstant       = "testVersion %q is not a semantic version"
)

// Answer keys, also used as prompt names.
const (
	AnswerTemporaryDirectoryConstant = "tmpDir"
	AnswerTestOrganizationConstant   = "testOrg"
	AnswerTestMasterBranchConstant   = "testMasterBranch"
	AnswerTestDevBranchConstant      = "testDevBranch"
	AnswerTestDocBranchConstant      = "testDocBranch"
	AnswerTestVersionConstant        = "testVersion"
	AnswerCleanupOnlyConstant        = "cleanupOnly"
	AnswerAutoYesConstant            = "autoYesForPrompts"
)

// PromptDefaults are the values offered by each test setup question.
type PromptDefaults struct {
	TemporaryDirectory string `mapstructure:"tmp_dir"`
	TestOrganization   string `mapstructure:"test_org"`
	TestMasterBranch   string `mapstructure:"test_master_branch"`
	TestDevBranch      string `mapstructure:"test_dev_branch"`
	TestDocBranch      string `mapstructure:"test_doc_branch"`
	TestVersion        string `mapstructure:"test_version"`
	CleanupOnly        bool   `mapstructure:"cleanup_only"`
	AutoYes            bool   `mapstructure:"auto_yes"`
}

// CommandConfiguration captures configuration values for the setup-test-branches command.
type CommandConfiguration struct {
	Defaults PromptDefaults `mapstructure:"defaults"`
}

// DefaultCommandConfiguration provides the prompt defaults of the setup-test-branches command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Defaults: PromptDefaults{
			TemporaryDirectory: workspace.NewDirectorySentinelConstant,
			TestOrganization:   defaultTestOrganizationConstant,
			TestMasterBranch:   defaultTestMasterBranchConstant,
			TestDevBranch:      defaultTestDevBranchConstant,
			TestDocBranch:      defaultTestDocBranchConstant,
			TestVersion:        repositories.SDKVersionConstant,
			CleanupOnly:        false,
			AutoYes:            true,
		},
	}
}

// DefaultConfigurationValues returns viper defaults rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration().Defaults
	prefix := rootKey + "." + defaultsConfigurationKeyConstant + "."
	return map[string]any{
		prefix + "tmp_dir":            defaults.TemporaryDirectory,
		prefix + "test_org":           defaults.TestOrganization,
		prefix + "test_master_branch": defaults.TestMasterBranch,
		prefix + "test_dev_branch":    defaults.TestDevBranch,
		prefix + "test_doc_branch":    defaults.TestDocBranch,
		prefix + "test_version":       defaults.TestVersion,
		prefix + "cleanup_only":       defaults.CleanupOnly,
		prefix + "auto_yes":           defaults.AutoYes,
	}
}

// Sanitize trims values and restores defaults for blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	fallback := DefaultCommandConfiguration().Defaults
	sanitized := configuration.Defaults

	sanitized.TemporaryDirectory = trimOrDefault(sanitized.TemporaryDirectory, fallback.TemporaryDirectory)
	sanitized.TestOrganization = trimOrDefault(sanitized.TestOrganization, fallback.TestOrganization)
	sanitized.TestMasterBranch = trimOrDefault(sanitized.TestMasterBranch, fallback.TestMasterBranch)
	sanitized.TestDevBranch = trimOrDefault(sanitized.TestDevBranch, fallback.TestDevBranch)
	sanitized.TestDocBranch = trimOrDefault(sanitized.TestDocBranch, fallback.TestDocBranch)
	sanitized.TestVersion = trimOrDefault(sanitized.TestVersion, fallback.TestVersion)

	return CommandConfiguration{Defaults: sanitized}
}

func trimOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}

// Configuration is the validated answer set of one test setup run.
type Configuration struct {
	TemporaryDirectory string `mapstructure:"tmpDir"`
	TestOrganization   string `mapstructure:"testOrg"`
	TestMasterBranch   string `mapstructure:"testMasterBranch"`
	TestDevBranch      string `mapstructure:"testDevBranch"`
	TestDocBranch      string `mapstructure:"testDocBranch"`
	TestVersion        string `mapstructure:"testVersion"`
	CleanupOnly        bool   `mapstructure:"cleanupOnly"`
	AutoYesForPrompts  bool   `mapstructure:"autoYesForPrompts"`
}

// ValidationError lists every guard the configuration violates.
type ValidationError struct {
	Reasons []string
}

// Error joins the reasons.
func (validationError ValidationError) Error() string {
	return validationErrorPrefixConstant + strings.Join(validationError.Reasons, validationReasonSeparatorConstant)
}

// Questions returns the test setup prompts in order.
func Questions(defaults PromptDefaults) []prompt.Question {
	return []prompt.Question{
		prompt.Text(AnswerTemporaryDirectoryConstant, "Work directory ?", defaults.TemporaryDirectory),
		prompt.Text(AnswerTestOrganizationConstant, "Organization ?", defaults.TestOrganization),
		prompt.Text(AnswerTestMasterBranchConstant, "Name of test master branch ?", defaults.TestMasterBranch),
		prompt.Text(AnswerTestDevBranchConstant, "Name of test dev branch ?", defaults.TestDevBranch),
		prompt.Text(AnswerTestDocBranchConstant, "Name of test doc branch ?", defaults.TestDocBranch),
		prompt.Text(AnswerTestVersionConstant, "Name of test version ?", defaults.TestVersion),
		prompt.Confirm(AnswerCleanupOnlyConstant, "Cleanup only?", defaults.CleanupOnly),
		prompt.Confirm(AnswerAutoYesConstant, "Automatically answer yes to all prompts?", defaults.AutoYes),
	}
}

// ParseConfiguration decodes prompt answers and applies the guards.
func ParseConfiguration(answers map[string]any) (Configuration, error) {
	var configuration Configuration
	if decodeError := prompt.Decode(answers, &configuration); decodeError != nil {
		return Configuration{}, ValidationError{Reasons: []string{fmt.Sprintf(answersDecodeReasonTemplateConstant, decodeError)}}
	}
	configuration = configuration.trimmed()
	if validationError := configuration.Validate(); validationError != nil {
		return Configuration{}, validationError
	}
	return configuration, nil
}

func (configuration Configuration) trimmed() Configuration {
	trimmed := configuration
	trimmed.TemporaryDirectory = strings.TrimSpace(configuration.TemporaryDirectory)
	trimmed.TestOrganization = strings.TrimSpace(configuration.TestOrganization)
	trimmed.TestMasterBranch = strings.TrimSpace(configuration.TestMasterBranch)
	trimmed.TestDevBranch = strings.TrimSpace(configuration.TestDevBranch)
	trimmed.TestDocBranch = strings.TrimSpace(configuration.TestDocBranch)
	trimmed.TestVersion = strings.TrimSpace(configuration.TestVersion)
	return trimmed
}

// Validate refuses production names and any test version below the compiled SDK version.
func (configuration Configuration) Validate() error {
	var reasons []string

	if organizationError := gitrepo.ValidateSegment(configuration.TestOrganization); organizationError != nil {
		reasons = append(reasons, fmt.Sprintf(organizationReasonTemplateConstant, organizationError))
	} else if configuration.TestOrganization == repositories.CanonicalOrganizationConstant {
		reasons = append(reasons, fmt.Sprintf(forbiddenReasonTemplateConstant, configuration.TestOrganization))
	}

	for _, branch := range []struct {
		name       string
		value      string
		production string
	}{
		{name: AnswerTestMasterBranchConstant, value: configuration.TestMasterBranch, production: productionMasterBranchConstant},
		{name: AnswerTestDevBranchConstant, value: configuration.TestDevBranch, production: productionDevBranchConstant},
		{name: AnswerTestDocBranchConstant, value: configuration.TestDocBranch, production: productionDocBranchConstant},
	} {
		switch {
		case len(branch.value) == 0:
			reasons = append(reasons, fmt.Sprintf(requiredReasonTemplateConstant, branch.name))
		case strings.ContainsAny(branch.value, " \t\n"):
			reasons = append(reasons, fmt.Sprintf(whitespaceReasonTemplateConstant, branch.name))
		case branch.value == branch.production:
			reasons = append(reasons, fmt.Sprintf(forbiddenReasonTemplateConstant, branch.value))
		}
	}

	if versionReason := testVersionReason(configuration.TestVersion); len(versionReason) > 0 {
		reasons = append(reasons, versionReason)
	}

	if len(reasons) > 0 {
		return ValidationError{Reasons: reasons}
	}
	return nil
}

func testVersionReason(testVersion string) string {
	candidate, parseError := semver.StrictNewVersion(testVersion)
	if parseError != nil {
		return fmt.Sprintf(versionReasonTemplateConstant, testVersion)
	}
	if candidate.LessThan(semver.MustParse(repositories.SDKVersionConstant)) {
		return fmt.Sprintf(forbiddenReasonTemplateConstant, testVersion)
	}
	return ""
}
