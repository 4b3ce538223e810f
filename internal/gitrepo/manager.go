package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/prpublish/internal/execshell"
)

const (
	gitLogSubcommandConstant             = "log"
	gitOneLineFlagConstant               = "--oneline"
	gitMaxCountFlagConstant              = "-1"
	gitPushSubcommandConstant            = "push"
	gitForceFlagConstant                 = "--force"
	gitConfigSubcommandConstant          = "config"
	gitConfigGetFlagConstant             = "--get"
	gitRemoteSubcommandConstant          = "remote"
	gitRemoteGetURLSubcommandConstant    = "get-url"
	defaultRemoteNameConstant            = "origin"
	branchFieldNameConstant              = "branch"
	configurationKeyFieldNameConstant    = "configuration_key"
	requiredValueMessageConstant         = "value required"
	executorNotConfiguredMessageConstant = "git executor not configured"
	invalidInputErrorTemplateConstant    = "%s: %s"
	operationErrorTemplateConstant       = "%s operation failed: %s"
	latestCommitOperationNameConstant    = OperationName("LatestCommitSummary")
	forcePushOperationNameConstant       = OperationName("ForcePushBranch")
	configValueOperationNameConstant     = OperationName("ConfigValue")
	remoteURLOperationNameConstant       = OperationName("RemoteURL")
)

// OperationName identifies a git operation performed by RepositoryManager.
type OperationName string

// GitExecutor is the subset of execshell.ShellExecutor used for git invocations.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ErrGitExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// InvalidInputError reports a missing or malformed argument.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps the executor failure of a git operation.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the executor failure.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// RepositoryManager runs git operations against a single working tree.
type RepositoryManager struct {
	executor       GitExecutor
	repositoryPath string
}

// NewRepositoryManager binds a manager to repositoryPath; an empty path means the process working directory.
func NewRepositoryManager(executor GitExecutor, repositoryPath string) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor, repositoryPath: strings.TrimSpace(repositoryPath)}, nil
}

// LatestCommitSummary returns the one-line summary of the newest commit on branch.
// Any failure, including a missing branch, is returned as OperationError.
func (manager *RepositoryManager) LatestCommitSummary(executionContext context.Context, branch string) (string, error) {
	trimmedBranch := strings.TrimSpace(branch)
	if len(trimmedBranch) == 0 {
		return "", InvalidInputError{FieldName: branchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := manager.executeGit(executionContext, gitLogSubcommandConstant, gitOneLineFlagConstant, trimmedBranch, gitMaxCountFlagConstant)
	if executionError != nil {
		return "", OperationError{Operation: latestCommitOperationNameConstant, Cause: executionError}
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// ForcePushBranch pushes branch to remote with --force, overwriting the remote branch.
func (manager *RepositoryManager) ForcePushBranch(executionContext context.Context, remote string, branch string) error {
	trimmedBranch := strings.TrimSpace(branch)
	if len(trimmedBranch) == 0 {
		return InvalidInputError{FieldName: branchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	_, executionError := manager.executeGit(executionContext, gitPushSubcommandConstant, normalizeRemoteName(remote), trimmedBranch, gitForceFlagConstant)
	if executionError != nil {
		return OperationError{Operation: forcePushOperationNameConstant, Cause: executionError}
	}
	return nil
}

// ConfigValue reads a git configuration value. The boolean is false when the
// key is unset or git could not be run; only invalid input produces an error.
func (manager *RepositoryManager) ConfigValue(executionContext context.Context, key string) (string, bool, error) {
	trimmedKey := strings.TrimSpace(key)
	if len(trimmedKey) == 0 {
		return "", false, InvalidInputError{FieldName: configurationKeyFieldNameConstant, Message: requiredValueMessageConstant}
	}

	executionResult, executionError := manager.executeGit(executionContext, gitConfigSubcommandConstant, gitConfigGetFlagConstant, trimmedKey)
	if executionError != nil {
		return "", false, nil
	}

	value := strings.TrimSpace(executionResult.StandardOutput)
	return value, len(value) > 0, nil
}

// RemoteURL returns the fetch URL configured for remote.
func (manager *RepositoryManager) RemoteURL(executionContext context.Context, remote string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, normalizeRemoteName(remote))
	if executionError != nil {
		return "", OperationError{Operation: remoteURLOperationNameConstant, Cause: executionError}
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	return manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: manager.repositoryPath,
	})
}

func normalizeRemoteName(remote string) string {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return defaultRemoteNameConstant
	}
	return trimmedRemote
}
