package main

import (
	"fmt"
	"os"

	"github.com/temirov/sdkrelease/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main runs the interactive test branch setup workflow.
func main() {
	if executionError := cli.ExecuteWorkflow(cli.SetupTestBranchesCommandNameConstant); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
