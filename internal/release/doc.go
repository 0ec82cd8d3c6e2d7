// Package release cuts a new SDK version across every repository.
//
// For each repository the pipeline merges the dev branch into the master branch,
// sets the release version, advances submodules, commits, pushes and tags, then
// optionally publishes documentation before merging master back into dev and
// advancing dev to the next version.
package release
