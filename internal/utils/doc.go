// Package utils holds the ambient plumbing shared by the sdkrelease commands:
// the Viper-backed ConfigurationLoader, the zap LoggerFactory with its flushing
// writer, and the accessor that records the configuration source on a command
// context.
package utils
