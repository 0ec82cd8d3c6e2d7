package repositories

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/temirov/sdkrelease/internal/gitrepo"
)

// RepoID is the symbolic handle of one repository.
type RepoID string

// Known repositories.
const (
	RepoShared        RepoID = "shared"
	RepoAndroid       RepoID = "android"
	RepoIOS           RepoID = "ios"
	RepoIOSHybrid     RepoID = "ioshybrid"
	RepoIOSSpecs      RepoID = "iospecs"
	RepoCordovaPlugin RepoID = "cordovaplugin"
	RepoReactNative   RepoID = "reactnative"
	RepoTemplates     RepoID = "templates"
	RepoPackage       RepoID = "pkg"
)

// ReleaseKind selects the release pipeline shape.
type ReleaseKind string

// Release kinds.
const (
	ReleaseKindStandard ReleaseKind = "standard"
	ReleaseKindSpecs    ReleaseKind = "specs"
)

// DocRecipe selects the documentation generator run after tagging.
type DocRecipe string

// Documentation recipes.
const (
	DocRecipeNone    DocRecipe = ""
	DocRecipeIOS     DocRecipe = "ios"
	DocRecipeAndroid DocRecipe = "android"
)

const (
	catalogDecodeErrorTemplateConstant       = "repositories: decode catalog: %w"
	catalogOrderErrorTemplateConstant        = "repositories: entry %d is %q, expected %q"
	catalogSizeErrorTemplateConstant         = "repositories: catalog lists %d repositories, expected %d"
	catalogNameErrorTemplateConstant         = "repositories: %s: invalid name: %w"
	catalogKindErrorTemplateConstant         = "repositories: %s: unknown release kind %q"
	catalogDocRecipeErrorTemplateConstant    = "repositories: %s: unknown doc recipe %q"
	catalogSpecsOptionsErrorTemplateConstant = "repositories: %s: specs releases take no submodules, hooks or docs"
)

// ErrUnknownRepository indicates a lookup for an id the catalog does not contain.
var ErrUnknownRepository = errors.New("repositories: unknown repository")

//go:embed catalog.yaml
var embeddedCatalog []byte

// ReleaseOrder is the fixed order in which repositories are processed.
var ReleaseOrder = []RepoID{
	RepoShared,
	RepoAndroid,
	RepoIOS,
	RepoIOSHybrid,
	RepoIOSSpecs,
	RepoCordovaPlugin,
	RepoReactNative,
	RepoTemplates,
	RepoPackage,
}

// ReleaseParameters customizes the release pipeline of one repository.
type ReleaseParameters struct {
	Kind           ReleaseKind `yaml:"kind"`
	SubmodulePaths []string    `yaml:"submodule_paths"`
	// PostMergeScript is invoked as "<script> -b <branch>" after each merge.
	PostMergeScript string    `yaml:"post_merge_script"`
	DocRecipe       DocRecipe `yaml:"doc_recipe"`
}

// TestParameters customizes test branch setup for one repository.
type TestParameters struct {
	HasDoc         bool     `yaml:"has_doc"`
	NoDev          bool     `yaml:"no_dev"`
	NoTag          bool     `yaml:"no_tag"`
	FilesWithOrg   []string `yaml:"files_with_org"`
	SubmodulePaths []string `yaml:"submodule_paths"`
}

// Repository describes one catalog entry.
type Repository struct {
	ID      RepoID            `yaml:"id"`
	Name    string            `yaml:"name"`
	Release ReleaseParameters `yaml:"release"`
	Test    TestParameters    `yaml:"test"`
}

// Locator returns the remote locator of the repository under organization.
func (repository Repository) Locator(organization string) RemoteLocator {
	return RemoteLocator{Organization: organization, Repository: repository.Name}
}

// RemoteLocator pairs an organization with a repository name.
type RemoteLocator struct {
	Organization string
	Repository   string
}

// CloneURL renders the clone URL of the locator using protocol.
func (locator RemoteLocator) CloneURL(protocol gitrepo.RemoteProtocol) (string, error) {
	return gitrepo.FormatRemoteURL(gitrepo.RemoteURL{
		Protocol:   protocol,
		Host:       gitrepo.GitHubHostConstant,
		Owner:      locator.Organization,
		Repository: locator.Repository,
	})
}

type catalogDocument struct {
	Repositories []Repository `yaml:"repositories"`
}

// Catalog is the validated, ordered repository registry.
type Catalog struct {
	repositories []Repository
	index        map[RepoID]int
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (Catalog, error) {
	return ParseCatalog(embeddedCatalog)
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(contents []byte) (Catalog, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(contents))
	decoder.KnownFields(true)

	var document catalogDocument
	if decodeError := decoder.Decode(&document); decodeError != nil {
		return Catalog{}, fmt.Errorf(catalogDecodeErrorTemplateConstant, decodeError)
	}

	if len(document.Repositories) != len(ReleaseOrder) {
		return Catalog{}, fmt.Errorf(catalogSizeErrorTemplateConstant, len(document.Repositories), len(ReleaseOrder))
	}

	index := make(map[RepoID]int, len(document.Repositories))
	for position, repository := range document.Repositories {
		if repository.ID != ReleaseOrder[position] {
			return Catalog{}, fmt.Errorf(catalogOrderErrorTemplateConstant, position, repository.ID, ReleaseOrder[position])
		}
		normalized, validationError := normalizeRepository(repository)
		if validationError != nil {
			return Catalog{}, validationError
		}
		document.Repositories[position] = normalized
		index[repository.ID] = position
	}

	return Catalog{repositories: document.Repositories, index: index}, nil
}

func normalizeRepository(repository Repository) (Repository, error) {
	if nameError := gitrepo.ValidateSegment(repository.Name); nameError != nil {
		return Repository{}, fmt.Errorf(catalogNameErrorTemplateConstant, repository.ID, nameError)
	}

	switch repository.Release.Kind {
	case "":
		repository.Release.Kind = ReleaseKindStandard
	case ReleaseKindStandard, ReleaseKindSpecs:
	default:
		return Repository{}, fmt.Errorf(catalogKindErrorTemplateConstant, repository.ID, repository.Release.Kind)
	}

	switch repository.Release.DocRecipe {
	case DocRecipeNone, DocRecipeIOS, DocRecipeAndroid:
	default:
		return Repository{}, fmt.Errorf(catalogDocRecipeErrorTemplateConstant, repository.ID, repository.Release.DocRecipe)
	}

	if repository.Release.Kind == ReleaseKindSpecs {
		if len(repository.Release.SubmodulePaths) > 0 || len(repository.Release.PostMergeScript) > 0 || repository.Release.DocRecipe != DocRecipeNone {
			return Repository{}, fmt.Errorf(catalogSpecsOptionsErrorTemplateConstant, repository.ID)
		}
	}

	return repository, nil
}

// Repositories returns the entries in release order.
func (catalog Catalog) Repositories() []Repository {
	return append([]Repository{}, catalog.repositories...)
}

// Lookup returns the entry for id.
func (catalog Catalog) Lookup(id RepoID) (Repository, error) {
	position, exists := catalog.index[id]
	if !exists {
		return Repository{}, fmt.Errorf("%w: %s", ErrUnknownRepository, id)
	}
	return catalog.repositories[position], nil
}
