// Package ui renders release progress for the operator.
//
// ConsoleReporter prints group banners, echoed shell lines, warnings and the
// framed confirmation summary. ConsoleCommandEventLogger translates shell
// lifecycle events into concise zap messages when console logging is enabled,
// while detailed telemetry continues to flow through structured loggers.
package ui
