// Package execshell runs single shell command lines for the release tooling.
//
// OSCommandRunner hands each line to the system shell in a working directory
// while streaming its output to the terminal. ShellExecutor layers logging and
// the tolerated-failure policy on top of any CommandRunner so that pipelines
// can be exercised against recording runners in tests.
package execshell
