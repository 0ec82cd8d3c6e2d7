package main

import (
	"fmt"
	"os"

	"github.com/temirov/sdkrelease/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main runs the interactive release workflow.
func main() {
	if executionError := cli.ExecuteWorkflow(cli.ReleaseCommandNameConstant); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
