package utils

import "context"

type commandContextKey string

const configurationSourceContextKey = commandContextKey("configurationSource")

// CommandContextAccessor stores run-wide values on a cobra command context.
type CommandContextAccessor struct{}

// NewCommandContextAccessor returns an accessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationSource records the configuration file that supplied the run settings.
// An empty source means only embedded defaults and the environment were used.
func (accessor CommandContextAccessor) WithConfigurationSource(parentContext context.Context, configurationSource string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationSourceContextKey, configurationSource)
}

// ConfigurationSource reports the recorded configuration file, if any was recorded.
func (accessor CommandContextAccessor) ConfigurationSource(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationSource, available := executionContext.Value(configurationSourceContextKey).(string)
	return configurationSource, available
}
