// Package gitrepo formats clone URLs for repositories hosted on GitHub.
package gitrepo
