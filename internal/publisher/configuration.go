package publisher

import (
	"fmt"
	"strings"
)

const (
	configurationOwnerKeyConstant          = "owner"
	configurationRepositoryKeyConstant     = "repository"
	configurationBranchKeyConstant         = "branch"
	configurationBaseKeyConstant           = "base"
	configurationRemoteKeyConstant         = "remote"
	configurationRepositoryPathKeyConstant = "repository_path"
	configurationTransportKeyConstant      = "transport"
	configurationForwardTokenKeyConstant   = "forward_token"
	configurationAPIBaseURLKeyConstant     = "api_base_url"
	configurationTitleKeyConstant          = "title"
	configurationBodyKeyConstant           = "body"
	configurationKeySeparatorConstant      = "."
	defaultRemoteNameConstant              = "origin"
	defaultBaseBranchConstant              = "main"
	defaultRepositoryPathConstant          = "."
	defaultAPIBaseURLConstant              = "https://api.github.com"
	repositoryFullNameTemplateConstant     = "%s/%s"
	requiredValueMessageConstant           = "value required"
	unsupportedTransportMessageConstant    = "unsupported transport %q (expected cli or api)"
	invalidConfigurationTemplateConstant   = "invalid publisher configuration: %s: %s"
)

// Transport selects how the pull request is created.
type Transport string

// Supported transports.
const (
	TransportCLI Transport = Transport("cli")
	TransportAPI Transport = Transport("api")
)

// RepositoryIdentity names the hosted repository.
type RepositoryIdentity struct {
	Owner string
	Name  string
}

// FullName renders owner/name.
func (identity RepositoryIdentity) FullName() string {
	return fmt.Sprintf(repositoryFullNameTemplateConstant, identity.Owner, identity.Name)
}

// BranchReference names the branch being published, its pull request base, and the push remote.
type BranchReference struct {
	Head   string
	Base   string
	Remote string
}

// PullRequestContent is the fixed title and body of the pull request.
type PullRequestContent struct {
	Title string
	Body  string
}

// Configuration is the immutable input of a publishing run.
type Configuration struct {
	Repository     RepositoryIdentity
	Branches       BranchReference
	Content        PullRequestContent
	RepositoryPath string
	Transport      Transport
	ForwardToken   bool
	APIBaseURL     string
}

// InvalidConfigurationError reports a configuration field that cannot be used.
type InvalidConfigurationError struct {
	FieldName string
	Message   string
}

// Error describes the invalid field.
func (configurationError InvalidConfigurationError) Error() string {
	return fmt.Sprintf(invalidConfigurationTemplateConstant, configurationError.FieldName, configurationError.Message)
}

// Validate checks every field a run depends on. Remote and transport are
// expected to be normalized already.
func (configuration Configuration) Validate() error {
	requiredFields := []struct {
		name  string
		value string
	}{
		{name: configurationOwnerKeyConstant, value: configuration.Repository.Owner},
		{name: configurationRepositoryKeyConstant, value: configuration.Repository.Name},
		{name: configurationBranchKeyConstant, value: configuration.Branches.Head},
		{name: configurationBaseKeyConstant, value: configuration.Branches.Base},
		{name: configurationTitleKeyConstant, value: configuration.Content.Title},
	}
	for _, field := range requiredFields {
		if len(strings.TrimSpace(field.value)) == 0 {
			return InvalidConfigurationError{FieldName: field.name, Message: requiredValueMessageConstant}
		}
	}

	switch configuration.Transport {
	case TransportCLI, TransportAPI:
		return nil
	default:
		return InvalidConfigurationError{FieldName: configurationTransportKeyConstant, Message: fmt.Sprintf(unsupportedTransportMessageConstant, configuration.Transport)}
	}
}

// CommandConfiguration is the publisher section of the CLI configuration file.
type CommandConfiguration struct {
	Owner          string `mapstructure:"owner"`
	Repository     string `mapstructure:"repository"`
	Branch         string `mapstructure:"branch"`
	Base           string `mapstructure:"base"`
	Remote         string `mapstructure:"remote"`
	RepositoryPath string `mapstructure:"repository_path"`
	Transport      string `mapstructure:"transport"`
	ForwardToken   bool   `mapstructure:"forward_token"`
	APIBaseURL     string `mapstructure:"api_base_url"`
	Title          string `mapstructure:"title"`
	Body           string `mapstructure:"body"`
}

// DefaultConfigurationValues returns viper defaults for the publisher section rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	qualify := func(key string) string {
		if len(prefix) == 0 {
			return key
		}
		return prefix + configurationKeySeparatorConstant + key
	}
	return map[string]any{
		qualify(configurationBaseKeyConstant):           defaultBaseBranchConstant,
		qualify(configurationRemoteKeyConstant):         defaultRemoteNameConstant,
		qualify(configurationRepositoryPathKeyConstant): defaultRepositoryPathConstant,
		qualify(configurationTransportKeyConstant):      string(TransportCLI),
		qualify(configurationForwardTokenKeyConstant):   true,
		qualify(configurationAPIBaseURLKeyConstant):     defaultAPIBaseURLConstant,
	}
}

// Configuration converts the file representation into run input. Whitespace
// around identifiers is trimmed; the body is kept verbatim apart from trailing
// newlines left by YAML block scalars.
func (commandConfiguration CommandConfiguration) Configuration() Configuration {
	remote := strings.TrimSpace(commandConfiguration.Remote)
	if len(remote) == 0 {
		remote = defaultRemoteNameConstant
	}
	base := strings.TrimSpace(commandConfiguration.Base)
	if len(base) == 0 {
		base = defaultBaseBranchConstant
	}
	transport := Transport(strings.ToLower(strings.TrimSpace(commandConfiguration.Transport)))
	if len(transport) == 0 {
		transport = TransportCLI
	}
	repositoryPath := strings.TrimSpace(commandConfiguration.RepositoryPath)
	if len(repositoryPath) == 0 {
		repositoryPath = defaultRepositoryPathConstant
	}
	apiBaseURL := strings.TrimSpace(commandConfiguration.APIBaseURL)
	if len(apiBaseURL) == 0 {
		apiBaseURL = defaultAPIBaseURLConstant
	}

	return Configuration{
		Repository: RepositoryIdentity{
			Owner: strings.TrimSpace(commandConfiguration.Owner),
			Name:  strings.TrimSpace(commandConfiguration.Repository),
		},
		Branches: BranchReference{
			Head:   strings.TrimSpace(commandConfiguration.Branch),
			Base:   base,
			Remote: remote,
		},
		Content: PullRequestContent{
			Title: strings.TrimSpace(commandConfiguration.Title),
			Body:  strings.TrimRight(commandConfiguration.Body, "\n"),
		},
		RepositoryPath: repositoryPath,
		Transport:      transport,
		ForwardToken:   commandConfiguration.ForwardToken,
		APIBaseURL:     apiBaseURL,
	}
}
