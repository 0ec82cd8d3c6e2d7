// Package cli constructs the sdkrelease command-line interface, wiring the
// Cobra command hierarchy, the layered configuration loader and structured
// logging around the release and setup-test-branches workflows.
package cli
