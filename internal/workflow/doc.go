// Package workflow runs the interactive release workflows.
//
// A Definition supplies the questions and turns the answers into a validated
// Plan. The Executor shows the plan summary, asks to proceed, resolves the
// working directory and then walks one command tree per repository in catalog
// order, stopping at the first repository that fails.
package workflow
