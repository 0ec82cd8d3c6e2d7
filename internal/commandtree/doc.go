// Package commandtree models release steps as a tree of shell commands.
//
// Groups carry an optional banner and an ordered list of children; leaves carry
// one shell line plus optional directory overrides and error tolerance. A Walker
// executes the tree depth-first, stopping at the first leaf that fails.
package commandtree
