// Package repositories is the registry of SDK repositories taking part in a release.
//
// The registry is an embedded YAML catalog mapping each RepoID to its remote
// name together with the per-repository release and test-setup parameters.
package repositories
