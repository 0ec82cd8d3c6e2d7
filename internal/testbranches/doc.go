// Package testbranches prepares a fork for release rehearsals.
//
// For every repository it drops the test branches and the test tag, then, unless only
// a cleanup was requested, recreates the test branches off the production ones and
// points the test dev branch at the fork. Guards refuse production names so the
// destructive setup can never target the real release branches.
package testbranches
