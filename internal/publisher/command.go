package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/prpublish/internal/execshell"
	"github.com/temirov/prpublish/internal/githubauth"
	"github.com/temirov/prpublish/internal/githubcli"
	"github.com/temirov/prpublish/internal/gitrepo"
	"github.com/temirov/prpublish/internal/ui"
	"github.com/temirov/prpublish/internal/utils"
)

const (
	commandUseConstant                     = "publish"
	commandShortDescriptionConstant        = "Push a branch and open a pull request for it"
	commandLongDescriptionConstant         = "publish verifies the branch exists locally, force pushes it to the remote, and opens a pull request with the configured title and body."
	unexpectedArgumentsMessageConstant     = "publish does not accept positional arguments"
	identityInferenceErrorTemplateConstant = "unable to determine repository owner and name from remote %s: %w"
	flagOwnerNameConstant                  = "owner"
	flagOwnerDescriptionConstant           = "Repository owner (inferred from the remote when empty)"
	flagRepositoryNameConstant             = "repository"
	flagRepositoryDescriptionConstant      = "Repository name (inferred from the remote when empty)"
	flagBranchNameConstant                 = "branch"
	flagBranchDescriptionConstant          = "Branch to push and open the pull request from"
	flagBaseNameConstant                   = "base"
	flagBaseDescriptionConstant            = "Branch the pull request targets"
	flagRemoteNameConstant                 = "remote"
	flagRemoteDescriptionConstant          = "Remote to push the branch to"
	flagRepositoryPathNameConstant         = "repo-path"
	flagRepositoryPathDescriptionConstant  = "Path of the local repository"
	flagTransportNameConstant              = "transport"
	flagTransportDescriptionConstant       = "Pull request transport: cli (gh) or api (REST)"
	credentialSourceLogFieldConstant       = "credential_source"
	credentialResolvedLogMessageConstant   = "GitHub token available"
	credentialWithheldLogMessageConstant   = "GitHub token not forwarded to gh"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the publisher section of the loaded configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandExecutor runs git and gh.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandBuilder assembles the publish command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	Executor                     CommandExecutor
	ExecutableLocator            githubcli.ExecutableLocator
	EnvironmentLookup            githubauth.EnvironmentLookup
	HTTPClient                   *http.Client
}

// Build constructs the publish command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagOwnerNameConstant, "", flagOwnerDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, "", flagRepositoryDescriptionConstant)
	command.Flags().String(flagBranchNameConstant, "", flagBranchDescriptionConstant)
	command.Flags().String(flagBaseNameConstant, defaultBaseBranchConstant, flagBaseDescriptionConstant)
	command.Flags().String(flagRemoteNameConstant, defaultRemoteNameConstant, flagRemoteDescriptionConstant)
	command.Flags().String(flagRepositoryPathNameConstant, defaultRepositoryPathConstant, flagRepositoryPathDescriptionConstant)
	command.Flags().String(flagTransportNameConstant, string(TransportCLI), flagTransportDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.parseConfiguration(command)
	logger := builder.resolveLogger()
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor, configuration.RepositoryPath)
	if managerError != nil {
		return managerError
	}

	executionContext := command.Context()
	if len(configuration.Repository.Owner) == 0 || len(configuration.Repository.Name) == 0 {
		inferredIdentity, inferenceError := inferRepositoryIdentity(executionContext, repositoryManager, configuration.Branches.Remote)
		if inferenceError != nil {
			return inferenceError
		}
		if len(configuration.Repository.Owner) == 0 {
			configuration.Repository.Owner = inferredIdentity.Owner
		}
		if len(configuration.Repository.Name) == 0 {
			configuration.Repository.Name = inferredIdentity.Name
		}
	}
	if validationError := configuration.Validate(); validationError != nil {
		return validationError
	}

	resolver := githubauth.NewResolver(logger, builder.EnvironmentLookup, repositoryManager)
	credential, credentialFound := resolver.Resolve(executionContext)
	if credentialFound {
		logger.Debug(credentialResolvedLogMessageConstant, zap.String(credentialSourceLogFieldConstant, string(credential.Source)))
	}

	creator, creatorError := builder.resolvePullRequestCreator(logger, executor, configuration, credential)
	if creatorError != nil {
		return creatorError
	}

	workflow, workflowError := NewPublisher(configuration, Dependencies{
		Logger:             logger,
		BranchInspector:    repositoryManager,
		BranchPusher:       repositoryManager,
		PullRequestCreator: creator,
		Output:             utils.NewFlushingWriter(command.OutOrStdout()),
	})
	if workflowError != nil {
		return workflowError
	}

	return workflow.Run(executionContext).Err()
}

// parseConfiguration overlays explicitly set flags on the configured values.
func (builder *CommandBuilder) parseConfiguration(command *cobra.Command) Configuration {
	commandConfiguration := CommandConfiguration{}
	if builder.ConfigurationProvider != nil {
		commandConfiguration = builder.ConfigurationProvider()
	}

	flagTargets := map[string]*string{
		flagOwnerNameConstant:          &commandConfiguration.Owner,
		flagRepositoryNameConstant:     &commandConfiguration.Repository,
		flagBranchNameConstant:         &commandConfiguration.Branch,
		flagBaseNameConstant:           &commandConfiguration.Base,
		flagRemoteNameConstant:         &commandConfiguration.Remote,
		flagRepositoryPathNameConstant: &commandConfiguration.RepositoryPath,
		flagTransportNameConstant:      &commandConfiguration.Transport,
	}
	for flagName, target := range flagTargets {
		if !command.Flags().Changed(flagName) {
			continue
		}
		flagValue, _ := command.Flags().GetString(flagName)
		*target = flagValue
	}

	return commandConfiguration.Configuration()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	return builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
}

// resolveExecutor returns the injected executor or a shell executor. Console
// logging renders command lifecycle through ui.ConsoleCommandEventLogger and
// silences the executor's structured entries.
func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	executorLogger := logger
	var executorOptions []execshell.ExecutorOption
	if builder.humanReadableLogging() {
		executorLogger = zap.NewNop()
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(executorLogger, commandRunner, executorOptions...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolvePullRequestCreator(logger *zap.Logger, executor CommandExecutor, configuration Configuration, credential githubauth.Credential) (PullRequestCreator, error) {
	switch configuration.Transport {
	case TransportAPI:
		return NewGitHubAPITransport(credential.Token, configuration.APIBaseURL, builder.HTTPClient), nil
	default:
		client, clientError := githubcli.NewClient(executor)
		if clientError != nil {
			return nil, clientError
		}
		forwardedToken := ""
		if configuration.ForwardToken {
			forwardedToken = credential.Token
		} else if len(credential.Token) > 0 {
			logger.Debug(credentialWithheldLogMessageConstant)
		}
		return NewGitHubCLITransport(logger, client, builder.ExecutableLocator, forwardedToken), nil
	}
}

func inferRepositoryIdentity(executionContext context.Context, repositoryManager *gitrepo.RepositoryManager, remote string) (RepositoryIdentity, error) {
	remoteURL, lookupError := repositoryManager.RemoteURL(executionContext, remote)
	if lookupError != nil {
		return RepositoryIdentity{}, fmt.Errorf(identityInferenceErrorTemplateConstant, remote, lookupError)
	}

	parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return RepositoryIdentity{}, fmt.Errorf(identityInferenceErrorTemplateConstant, remote, parseError)
	}

	return RepositoryIdentity{Owner: strings.TrimSpace(parsedRemote.Owner), Name: strings.TrimSpace(parsedRemote.Repository)}, nil
}
