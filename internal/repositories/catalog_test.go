package repositories_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/temirov/sdkrelease/internal/gitrepo"
	"github.com/temirov/sdkrelease/internal/repositories"
)

func TestEmbeddedCatalogFollowsReleaseOrder(testInstance *testing.T) {
	catalog, loadError := repositories.LoadCatalog()
	require.NoError(testInstance, loadError)

	identifiers := lo.Map(catalog.Repositories(), func(repository repositories.Repository, _ int) repositories.RepoID {
		return repository.ID
	})
	require.Equal(testInstance, repositories.ReleaseOrder, identifiers)
}

func TestEmbeddedCatalogParameters(testInstance *testing.T) {
	catalog, loadError := repositories.LoadCatalog()
	require.NoError(testInstance, loadError)

	testCases := []struct {
		id              repositories.RepoID
		expectedName    string
		expectedRelease repositories.ReleaseParameters
		expectedTest    repositories.TestParameters
	}{
		{
			id:              repositories.RepoShared,
			expectedName:    "SalesforceMobileSDK-Shared",
			expectedRelease: repositories.ReleaseParameters{Kind: repositories.ReleaseKindStandard},
		},
		{
			id:           repositories.RepoAndroid,
			expectedName: "SalesforceMobileSDK-Android",
			expectedRelease: repositories.ReleaseParameters{
				Kind:           repositories.ReleaseKindStandard,
				SubmodulePaths: []string{"external/shared"},
				DocRecipe:      repositories.DocRecipeAndroid,
			},
			expectedTest: repositories.TestParameters{
				HasDoc:         true,
				FilesWithOrg:   []string{".gitmodules", "./libs/SalesforceReact/package.json"},
				SubmodulePaths: []string{"./external/shared"},
			},
		},
		{
			id:              repositories.RepoIOS,
			expectedName:    "SalesforceMobileSDK-iOS",
			expectedRelease: repositories.ReleaseParameters{Kind: repositories.ReleaseKindStandard, DocRecipe: repositories.DocRecipeIOS},
			expectedTest:    repositories.TestParameters{HasDoc: true},
		},
		{
			id:              repositories.RepoIOSSpecs,
			expectedName:    "SalesforceMobileSDK-iOS-Specs",
			expectedRelease: repositories.ReleaseParameters{Kind: repositories.ReleaseKindSpecs},
			expectedTest:    repositories.TestParameters{NoTag: true, NoDev: true, FilesWithOrg: []string{"update.sh"}},
		},
		{
			id:              repositories.RepoCordovaPlugin,
			expectedName:    "SalesforceMobileSDK-CordovaPlugin",
			expectedRelease: repositories.ReleaseParameters{Kind: repositories.ReleaseKindStandard, PostMergeScript: "./tools/update.sh"},
			expectedTest:    repositories.TestParameters{FilesWithOrg: []string{"./tools/update.sh"}},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(string(testCase.id), func(testInstance *testing.T) {
			repository, lookupError := catalog.Lookup(testCase.id)
			require.NoError(testInstance, lookupError)
			require.Equal(testInstance, testCase.expectedName, repository.Name)
			require.Equal(testInstance, testCase.expectedRelease, repository.Release)
			require.Equal(testInstance, testCase.expectedTest, repository.Test)
		})
	}

	templates, lookupError := catalog.Lookup(repositories.RepoTemplates)
	require.NoError(testInstance, lookupError)
	require.Len(testInstance, templates.Test.FilesWithOrg, 11)
}

func TestCatalogLookupUnknown(testInstance *testing.T) {
	catalog, loadError := repositories.LoadCatalog()
	require.NoError(testInstance, loadError)

	_, lookupError := catalog.Lookup(repositories.RepoID("windows"))
	require.ErrorIs(testInstance, lookupError, repositories.ErrUnknownRepository)
}

func TestParseCatalogRejectsInvalidDocuments(testInstance *testing.T) {
	testCases := []struct {
		name     string
		contents string
	}{
		{name: "not_yaml", contents: "repositories: ["},
		{name: "unknown_field", contents: "repositories:\n  - id: shared\n    name: x\n    color: red\n"},
		{name: "too_few", contents: "repositories:\n  - id: shared\n    name: SalesforceMobileSDK-Shared\n"},
		{name: "wrong_order", contents: reorderedCatalog()},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, parseError := repositories.ParseCatalog([]byte(testCase.contents))
			require.Error(testInstance, parseError)
		})
	}
}

func reorderedCatalog() string {
	order := append([]repositories.RepoID{}, repositories.ReleaseOrder...)
	order[0], order[1] = order[1], order[0]
	document := "repositories:\n"
	for _, id := range order {
		document += "  - id: " + string(id) + "\n    name: repo-" + string(id) + "\n"
	}
	return document
}

func TestRemoteLocatorCloneURL(testInstance *testing.T) {
	locator := repositories.RemoteLocator{Organization: "acme", Repository: "SalesforceMobileSDK-Shared"}

	sshURL, sshError := locator.CloneURL(gitrepo.RemoteProtocolSSH)
	require.NoError(testInstance, sshError)
	require.Equal(testInstance, "git@github.com:acme/SalesforceMobileSDK-Shared.git", sshURL)

	httpsURL, httpsError := locator.CloneURL(gitrepo.RemoteProtocolHTTPS)
	require.NoError(testInstance, httpsError)
	require.Equal(testInstance, "https://github.com/acme/SalesforceMobileSDK-Shared.git", httpsURL)

	_, emptyError := repositories.RemoteLocator{Repository: "x"}.CloneURL(gitrepo.RemoteProtocolSSH)
	require.Error(testInstance, emptyError)
}
