package release

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

	defaultOrganizationConstant        = "wmathurin"
	defaultMasterBranchConstant        = "master2"
	defaultDevBranchConstant           = "dev2"
	defaultDocBranchConstant           = "doc2"
	defaultVersionCodeReleasedConstant = 64
	defaultNextVersionConstant         = "7.2.0"
	defaultNextVersionCodeConstant     = 65

	validationErrorPrefixConstant       = "invalid release configuration: "
	validationReasonSeparatorConstant   = "; "
	answersDecodeReasonTemplateConstant = "answers: %v"
	requiredReasonTemplateConstant      = "%s is required"
	whitespaceReasonTemplateConstant    = "%s must not contain whitespace"
	organizationReasonTemplateConstant  = "org: %v"
	versionReasonTemplateConstant       = "%s %q is not a version"
	versionTagPrefixConstant            = "v"
	versionCodeReasonTemplateConstant   = "%s must be a positive integer"
)

// Answer keys, also used as prompt names.
const (
	AnswerTemporaryDirectoryConstant  = "tmpDir"
	AnswerOrganizationConstant        = "org"
	AnswerMasterBranchConstant        = "masterBranch"
	AnswerDevBranchConstant           = "devBranch"
	AnswerDocBranchConstant           = "docBranch"
	AnswerVersionReleasedConstant     = "versionReleased"
	AnswerVersionCodeReleasedConstant = "versionCodeReleased"
	AnswerNextVersionConstant         = "nextVersion"
	AnswerNextVersionCodeConstant     = "nextVersionCode"
	AnswerAutoYesConstant             = "autoYesForPrompts"
)

// PromptDefaults are the values offered by each release question.
type PromptDefaults struct {
	TemporaryDirectory  string `mapstructure:"tmp_dir"`
	Organization        string `mapstructure:"org"`
	MasterBranch        string `mapstructure:"master_branch"`
	DevBranch           string `mapstructure:"dev_branch"`
	DocBranch           string `mapstructure:"doc_branch"`
	VersionReleased     string `mapstructure:"version_released"`
	VersionCodeReleased int    `mapstructure:"version_code_released"`
	NextVersion         string `mapstructure:"next_version"`
	NextVersionCode     int    `mapstructure:"next_version_code"`
	AutoYes             bool   `mapstructure:"auto_yes"`
}

// CommandConfiguration captures configuration values for the release command.
type CommandConfiguration struct {
	Defaults PromptDefaults `mapstructure:"defaults"`
}

// DefaultCommandConfiguration provides the prompt defaults of the release command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Defaults: PromptDefaults{
			TemporaryDirectory:  workspace.NewDirectorySentinelConstant,
			Organization:        defaultOrganizationConstant,
			MasterBranch:        defaultMasterBranchConstant,
			DevBranch:           defaultDevBranchConstant,
			DocBranch:           defaultDocBranchConstant,
			VersionReleased:     repositories.SDKVersionConstant,
			VersionCodeReleased: defaultVersionCodeReleasedConstant,
			NextVersion:         defaultNextVersionConstant,
			NextVersionCode:     defaultNextVersionCodeConstant,
			AutoYes:             false,
		},
	}
}

// DefaultConfigurationValues returns viper defaults rooted at rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration().Defaults
	prefix := rootKey + "." + defaultsConfigurationKeyConstant + "."
	return map[string]any{
		prefix + "tmp_dir":               defaults.TemporaryDirectory,
		prefix + "org":                   defaults.Organization,
		prefix + "master_branch":         defaults.MasterBranch,
		prefix + "dev_branch":            defaults.DevBranch,
		prefix + "doc_branch":            defaults.DocBranch,
		prefix + "version_released":      defaults.VersionReleased,
		prefix + "version_code_released": defaults.VersionCodeReleased,
		prefix + "next_version":          defaults.NextVersion,
		prefix + "next_version_code":     defaults.NextVersionCode,
		prefix + "auto_yes":              defaults.AutoYes,
	}
}

// Sanitize trims values and restores defaults for blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	fallback := DefaultCommandConfiguration().Defaults
	sanitized := configuration.Defaults

	sanitized.TemporaryDirectory = trimOrDefault(sanitized.TemporaryDirectory, fallback.TemporaryDirectory)
	sanitized.Organization = trimOrDefault(sanitized.Organization, fallback.Organization)
	sanitized.MasterBranch = trimOrDefault(sanitized.MasterBranch, fallback.MasterBranch)
	sanitized.DevBranch = trimOrDefault(sanitized.DevBranch, fallback.DevBranch)
	sanitized.DocBranch = trimOrDefault(sanitized.DocBranch, fallback.DocBranch)
	sanitized.VersionReleased = trimOrDefault(sanitized.VersionReleased, fallback.VersionReleased)
	sanitized.NextVersion = trimOrDefault(sanitized.NextVersion, fallback.NextVersion)
	if sanitized.VersionCodeReleased <= 0 {
		sanitized.VersionCodeReleased = fallback.VersionCodeReleased
	}
	if sanitized.NextVersionCode <= 0 {
		sanitized.NextVersionCode = fallback.NextVersionCode
	}

	return CommandConfiguration{Defaults: sanitized}
}

func trimOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}

// Configuration is the validated answer set of one release run.
type Configuration struct {
	TemporaryDirectory  string `mapstructure:"tmpDir"`
	Organization        string `mapstructure:"org"`
	MasterBranch        string `mapstructure:"masterBranch"`
	DevBranch           string `mapstructure:"devBranch"`
	DocBranch           string `mapstructure:"docBranch"`
	VersionReleased     string `mapstructure:"versionReleased"`
	VersionCodeReleased int    `mapstructure:"versionCodeReleased"`
	NextVersion         string `mapstructure:"nextVersion"`
	NextVersionCode     int    `mapstructure:"nextVersionCode"`
	AutoYesForPrompts   bool   `mapstructure:"autoYesForPrompts"`
}

// ValidationError lists every problem found in a release configuration.
type ValidationError struct {
	Reasons []string
}

// Error joins the reasons.
func (validationError ValidationError) Error() string {
	return validationErrorPrefixConstant + strings.Join(validationError.Reasons, validationReasonSeparatorConstant)
}

// Questions returns the release prompts in order.
func Questions(defaults PromptDefaults) []prompt.Question {
	return []prompt.Question{
		prompt.Text(AnswerTemporaryDirectoryConstant, "Work directory ?", defaults.TemporaryDirectory),
		prompt.Text(AnswerOrganizationConstant, "Organization ?", defaults.Organization),
		prompt.Text(AnswerMasterBranchConstant, "Release branch ?", defaults.MasterBranch),
		prompt.Text(AnswerDevBranchConstant, "Development branch ?", defaults.DevBranch),
		prompt.Text(AnswerDocBranchConstant, "Doc branch (e.g. gh-pages) ?", defaults.DocBranch),
		prompt.Text(AnswerVersionReleasedConstant, "Version being released ?", defaults.VersionReleased),
		prompt.Text(AnswerVersionCodeReleasedConstant, "Version code for Android being released ?", fmt.Sprint(defaults.VersionCodeReleased)),
		prompt.Text(AnswerNextVersionConstant, "Next version ?", defaults.NextVersion),
		prompt.Text(AnswerNextVersionCodeConstant, "Next version code for Android ?", fmt.Sprint(defaults.NextVersionCode)),
		prompt.Confirm(AnswerAutoYesConstant, "Automatically answer yes to all prompts?", defaults.AutoYes),
	}
}

// ParseConfiguration decodes and validates prompt answers.
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
	trimmed.Organization = strings.TrimSpace(configuration.Organization)
	trimmed.MasterBranch = strings.TrimSpace(configuration.MasterBranch)
	trimmed.DevBranch = strings.TrimSpace(configuration.DevBranch)
	trimmed.DocBranch = strings.TrimSpace(configuration.DocBranch)
	trimmed.VersionReleased = strings.TrimSpace(configuration.VersionReleased)
	trimmed.NextVersion = strings.TrimSpace(configuration.NextVersion)
	return trimmed
}

// Validate checks that every value is present and well formed.
func (configuration Configuration) Validate() error {
	var reasons []string

	if organizationError := gitrepo.ValidateSegment(configuration.Organization); organizationError != nil {
		reasons = append(reasons, fmt.Sprintf(organizationReasonTemplateConstant, organizationError))
	}

	for _, branch := range []struct {
		name  string
		value string
	}{
		{name: AnswerMasterBranchConstant, value: configuration.MasterBranch},
		{name: AnswerDevBranchConstant, value: configuration.DevBranch},
		{name: AnswerDocBranchConstant, value: configuration.DocBranch},
	} {
		switch {
		case len(branch.value) == 0:
			reasons = append(reasons, fmt.Sprintf(requiredReasonTemplateConstant, branch.name))
		case strings.ContainsAny(branch.value, " \t\n"):
			reasons = append(reasons, fmt.Sprintf(whitespaceReasonTemplateConstant, branch.name))
		}
	}

	for _, version := range []struct {
		name  string
		value string
	}{
		{name: AnswerVersionReleasedConstant, value: configuration.VersionReleased},
		{name: AnswerNextVersionConstant, value: configuration.NextVersion},
	} {
		// Loose versions such as 7.1 are accepted; a leading v would double the tag prefix.
		if _, parseError := semver.NewVersion(version.value); parseError != nil || strings.HasPrefix(version.value, versionTagPrefixConstant) {
			reasons = append(reasons, fmt.Sprintf(versionReasonTemplateConstant, version.name, version.value))
		}
	}

	if configuration.VersionCodeReleased <= 0 {
		reasons = append(reasons, fmt.Sprintf(versionCodeReasonTemplateConstant, AnswerVersionCodeReleasedConstant))
	}
	if configuration.NextVersionCode <= 0 {
		reasons = append(reasons, fmt.Sprintf(versionCodeReasonTemplateConstant, AnswerNextVersionCodeConstant))
	}

	if len(reasons) > 0 {
		return ValidationError{Reasons: reasons}
	}
	return nil
}
