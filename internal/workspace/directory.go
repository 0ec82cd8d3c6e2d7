// Package workspace resolves the working directory that receives every clone.
package workspace

import (
	"fmt"
	"strings"

	"github.com/bitrise-io/go-utils/pathutil"
)

const (
	// NewDirectorySentinelConstant asks for a freshly allocated temporary directory.
	NewDirectorySentinelConstant = "generate-new-dir"

	temporaryDirectoryPrefixConstant   = "sdkrelease"
	allocateFailedTemplateConstant     = "workspace: allocate temporary directory: %w"
	absolutePathFailedTemplateConstant = "workspace: resolve %s: %w"
	createFailedTemplateConstant       = "workspace: create %s: %w"
	notDirectoryTemplateConstant       = "workspace: %s exists and is not a directory"
)

// DirectoryAllocator creates a unique directory whose name starts with prefix.
type DirectoryAllocator func(prefix string) (string, error)

// Resolver turns the tmpDir answer into an existing absolute directory.
type Resolver struct {
	allocate DirectoryAllocator
}

// NewResolver allocates temporary directories through pathutil.
func NewResolver() *Resolver {
	return NewResolverWith(nil)
}

// NewResolverWith builds a Resolver around allocator. A nil allocator uses pathutil.
func NewResolverWith(allocator DirectoryAllocator) *Resolver {
	if allocator == nil {
		allocator = pathutil.NormalizedOSTempDirPath
	}
	return &Resolver{allocate: allocator}
}

// IsSentinel reports whether requested asks for a new temporary directory.
func IsSentinel(requested string) bool {
	trimmed := strings.TrimSpace(requested)
	return len(trimmed) == 0 || trimmed == NewDirectorySentinelConstant
}

// Resolve returns an absolute, existing directory for requested. The sentinel or an
// empty value allocates a new temporary directory, which is never removed afterwards.
// Other answers may start with ~ or reference environment variables.
func (resolver *Resolver) Resolve(requested string) (string, error) {
	if IsSentinel(requested) {
		allocated, allocateError := resolver.allocate(temporaryDirectoryPrefixConstant)
		if allocateError != nil {
			return "", fmt.Errorf(allocateFailedTemplateConstant, allocateError)
		}
		return allocated, nil
	}

	absolute, absoluteError := pathutil.AbsPath(strings.TrimSpace(requested))
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathFailedTemplateConstant, requested, absoluteError)
	}

	information, exists, checkError := pathutil.PathCheckAndInfos(absolute)
	if checkError != nil {
		return "", fmt.Errorf(absolutePathFailedTemplateConstant, absolute, checkError)
	}
	if exists && !information.IsDir() {
		return "", fmt.Errorf(notDirectoryTemplateConstant, absolute)
	}
	if createError := pathutil.EnsureDirExist(absolute); createError != nil {
		return "", fmt.Errorf(createFailedTemplateConstant, absolute, createError)
	}
	return absolute, nil
}
