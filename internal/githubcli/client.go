package githubcli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/prpublish/internal/execshell"
	"github.com/temirov/prpublish/internal/githubauth"
)

const (
	authSubcommandConstant                  = "auth"
	statusSubcommandConstant                = "status"
	pullRequestSubcommandConstant           = "pr"
	createSubcommandConstant                = "create"
	repoFlagConstant                        = "--repo"
	titleFlagConstant                       = "--title"
	bodyFlagConstant                        = "--body"
	headFlagConstant                        = "--head"
	baseFlagConstant                        = "--base"
	repositoryFieldNameConstant             = "repository"
	titleFieldNameConstant                  = "title"
	headBranchFieldNameConstant             = "head_branch"
	baseBranchFieldNameConstant             = "base_branch"
	requiredValueMessageConstant            = "value required"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	authStatusOperationNameConstant         = OperationName("CheckAuthStatus")
	createPullRequestOperationNameConstant  = OperationName("CreatePullRequest")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// PullRequestRequest describes the pull request passed to gh pr create.
type PullRequestRequest struct {
	Repository string
	Title      string
	Body       string
	HeadBranch string
	BaseBranch string
	// Token, when set, is exported to gh as GH_TOKEN for this invocation only.
	Token string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// CheckAuthStatus runs gh auth status. A nil error means gh reports an authenticated session.
func (client *Client) CheckAuthStatus(executionContext context.Context) error {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{authSubcommandConstant, statusSubcommandConstant},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: authStatusOperationNameConstant, Cause: executionError}
	}
	return nil
}

// CreatePullRequest runs gh pr create and returns its trimmed standard output,
// which gh prints as the URL of the new pull request.
func (client *Client) CreatePullRequest(executionContext context.Context, request PullRequestRequest) (string, error) {
	repositoryIdentifier := strings.TrimSpace(request.Repository)
	if len(repositoryIdentifier) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(request.Title)) == 0 {
		return "", InvalidInputError{FieldName: titleFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(request.HeadBranch)) == 0 {
		return "", InvalidInputError{FieldName: headBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(request.BaseBranch)) == 0 {
		return "", InvalidInputError{FieldName: baseBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			createSubcommandConstant,
			repoFlagConstant,
			repositoryIdentifier,
			titleFlagConstant,
			request.Title,
			bodyFlagConstant,
			request.Body,
			headFlagConstant,
			request.HeadBranch,
			baseFlagConstant,
			request.BaseBranch,
		},
	}
	if token := strings.TrimSpace(request.Token); len(token) > 0 {
		commandDetails.EnvironmentVariables = map[string]string{githubauth.EnvGitHubCLIToken: token}
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return "", OperationError{Operation: createPullRequestOperationNameConstant, Cause: executionError}
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}
