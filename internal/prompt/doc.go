// Package prompt collects interactive answers for the release workflows.
//
// Questions are asked in order through a Prompter; each question carries a
// default that an empty answer accepts. Answers are returned as a map keyed by
// question name and decoded into configuration structs with mapstructure. A
// Session carries the auto-confirm switch consulted by every proceed prompt.
package prompt
