package githubauth

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
)

const (
	// GitConfigTokenKey is the git configuration key consulted when the environment carries no token.
	GitConfigTokenKey = "github.token"

	credentialResolvedMessageConstant        = "Resolved GitHub token"
	credentialMissingMessageConstant         = "No GitHub token found; gh will use its own authentication"
	configurationLookupFailedMessageConstant = "Unable to read GitHub token from git configuration"
	credentialSourceLogFieldNameConstant     = "source"
)

// CredentialSource names where a token was found.
type CredentialSource string

// Supported credential sources, in lookup order.
const (
	CredentialSourceEnvironment CredentialSource = CredentialSource("environment")
	CredentialSourceGitConfig   CredentialSource = CredentialSource("git_config")
)

// Credential is a resolved GitHub token. Token must never be logged.
type Credential struct {
	Token  string
	Source CredentialSource
}

// ConfigurationReader reads a single git configuration value.
type ConfigurationReader interface {
	ConfigValue(executionContext context.Context, key string) (string, bool, error)
}

// EnvironmentLookup mirrors os.LookupEnv.
type EnvironmentLookup func(key string) (string, bool)

// Resolver looks for a token in GITHUB_TOKEN and then in git configuration.
type Resolver struct {
	logger              *zap.Logger
	lookupEnvironment   EnvironmentLookup
	configurationReader ConfigurationReader
}

// NewResolver constructs a Resolver. A nil lookup uses the process environment;
// a nil reader skips the git configuration fallback.
func NewResolver(logger *zap.Logger, lookupEnvironment EnvironmentLookup, configurationReader ConfigurationReader) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lookupEnvironment == nil {
		lookupEnvironment = os.LookupEnv
	}
	return &Resolver{logger: logger, lookupEnvironment: lookupEnvironment, configurationReader: configurationReader}
}

// Resolve returns the first non-empty token. Absence is reported through the
// boolean and is not an error.
func (resolver *Resolver) Resolve(executionContext context.Context) (Credential, bool) {
	if token, found := resolver.lookupEnvironment(EnvGitHubToken); found {
		if trimmedToken := strings.TrimSpace(token); len(trimmedToken) > 0 {
			return resolver.resolved(Credential{Token: trimmedToken, Source: CredentialSourceEnvironment}), true
		}
	}

	if resolver.configurationReader != nil {
		token, found, lookupError := resolver.configurationReader.ConfigValue(executionContext, GitConfigTokenKey)
		if lookupError != nil {
			resolver.logger.Debug(configurationLookupFailedMessageConstant, zap.Error(lookupError))
		} else if trimmedToken := strings.TrimSpace(token); found && len(trimmedToken) > 0 {
			return resolver.resolved(Credential{Token: trimmedToken, Source: CredentialSourceGitConfig}), true
		}
	}

	resolver.logger.Debug(credentialMissingMessageConstant)
	return Credential{}, false
}

func (resolver *Resolver) resolved(credential Credential) Credential {
	resolver.logger.Debug(credentialResolvedMessageConstant, zap.String(credentialSourceLogFieldNameConstant, string(credential.Source)))
	return credential
}
