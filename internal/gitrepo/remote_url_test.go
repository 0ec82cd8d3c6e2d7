package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sdkrelease/internal/gitrepo"
)

func TestFormatRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		remote      gitrepo.RemoteURL
		expectedURL string
		expectError bool
	}{
		{
			name:        "ssh",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: gitrepo.GitHubHostConstant, Owner: "acme", Repository: "SalesforceMobileSDK-Shared"},
			expectedURL: "git@github.com:acme/SalesforceMobileSDK-Shared.git",
		},
		{
			name:        "https",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: gitrepo.GitHubHostConstant, Owner: "acme", Repository: "SalesforceMobileSDK-iOS"},
			expectedURL: "https://github.com/acme/SalesforceMobileSDK-iOS.git",
		},
		{
			name:        "missing_owner",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: gitrepo.GitHubHostConstant, Repository: "x"},
			expectError: true,
		},
		{
			name:        "owner_with_slash",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: gitrepo.GitHubHostConstant, Owner: "a/b", Repository: "x"},
			expectError: true,
		},
		{
			name:        "unknown_protocol",
			remote:      gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocol("ftp"), Host: gitrepo.GitHubHostConstant, Owner: "acme", Repository: "x"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			formattedURL, formatError := gitrepo.FormatRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(testInstance, formatError)
				return
			}
			require.NoError(testInstance, formatError)
			require.Equal(testInstance, testCase.expectedURL, formattedURL)
		})
	}
}

func TestParseRemoteProtocol(testInstance *testing.T) {
	testCases := []struct {
		input       string
		expected    gitrepo.RemoteProtocol
		expectError bool
	}{
		{input: "", expected: gitrepo.RemoteProtocolSSH},
		{input: " SSH ", expected: gitrepo.RemoteProtocolSSH},
		{input: "https", expected: gitrepo.RemoteProtocolHTTPS},
		{input: "git", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.input, func(testInstance *testing.T) {
			protocol, parseError := gitrepo.ParseRemoteProtocol(testCase.input)
			if testCase.expectError {
				var protocolError gitrepo.UnsupportedProtocolError
				require.ErrorAs(testInstance, parseError, &protocolError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, protocol)
		})
	}
}
