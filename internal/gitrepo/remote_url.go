package gitrepo

import (
	"fmt"
	"strings"
)

const (
	// GitHubHostConstant is the host every SDK repository is cloned from.
	GitHubHostConstant = "github.com"

	sshRemoteTemplateConstant            = "git@%s:%s/%s.git"
	httpsRemoteTemplateConstant          = "https://%s/%s/%s.git"
	remoteURLFormatErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant         = "value required"
	forbiddenCharactersMessageConstant   = "must not contain '/', ':' or whitespace"
	unknownProtocolMessageConstant       = "unsupported remote protocol"
	forbiddenSegmentCharactersConstant   = "/: \t\n"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL identifies one repository on a git host.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLFormatError indicates a remote component cannot be rendered into a URL.
type RemoteURLFormatError struct {
	Input   string
	Message string
}

// Error describes the formatting failure.
func (formatError RemoteURLFormatError) Error() string {
	return fmt.Sprintf(remoteURLFormatErrorTemplateConstant, formatError.Input, formatError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLFormatErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteProtocol normalizes a configured protocol name. An empty value selects ssh.
func ParseRemoteProtocol(value string) (RemoteProtocol, error) {
	normalized := RemoteProtocol(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return RemoteProtocolSSH, nil
	case RemoteProtocolSSH, RemoteProtocolHTTPS:
		return normalized, nil
	default:
		return "", UnsupportedProtocolError{Protocol: RemoteProtocol(value)}
	}
}

// ValidateSegment checks that value can serve as an owner or repository name in a URL.
func ValidateSegment(value string) error {
	if len(strings.TrimSpace(value)) == 0 {
		return RemoteURLFormatError{Input: value, Message: requiredValueMessageConstant}
	}
	if strings.ContainsAny(value, forbiddenSegmentCharactersConstant) {
		return RemoteURLFormatError{Input: value, Message: forbiddenCharactersMessageConstant}
	}
	return nil
}

// FormatRemoteURL renders the clone URL, e.g. git@github.com:owner/name.git.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	for _, segment := range []string{remote.Host, remote.Owner, remote.Repository} {
		if validationError := ValidateSegment(segment); validationError != nil {
			return "", validationError
		}
	}

	switch remote.Protocol {
	case RemoteProtocolSSH:
		return fmt.Sprintf(sshRemoteTemplateConstant, remote.Host, remote.Owner, remote.Repository), nil
	case RemoteProtocolHTTPS:
		return fmt.Sprintf(httpsRemoteTemplateConstant, remote.Host, remote.Owner, remote.Repository), nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}
