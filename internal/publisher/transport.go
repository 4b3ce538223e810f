package publisher

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/prpublish/internal/githubapi"
	"github.com/temirov/prpublish/internal/githubcli"
)

const (
	gitHubCLITransportNameConstant       = "gh CLI"
	gitHubAPITransportNameConstant       = "GitHub API"
	gitHubCLIMissingMessageConstant      = "GitHub CLI (gh) not installed. Install it with: brew install gh"
	tokenUnavailableMessageConstant      = "GitHub token not available for api transport"
	authStatusUnavailableMessageConstant = "GitHub CLI authentication status unavailable; continuing"
	authStatusConfirmedMessageConstant   = "GitHub CLI authentication confirmed"
)

var (
	// ErrGitHubCLIMissing indicates gh could not be found on the search path.
	ErrGitHubCLIMissing = errors.New(gitHubCLIMissingMessageConstant)
	// ErrTokenUnavailable indicates the api transport was selected without a resolvable token.
	ErrTokenUnavailable = errors.New(tokenUnavailableMessageConstant)
)

// PullRequestSubmission is everything a transport needs to open the pull request.
type PullRequestSubmission struct {
	Repository RepositoryIdentity
	Branches   BranchReference
	Content    PullRequestContent
}

// PullRequestCreator opens a pull request and returns its URL.
type PullRequestCreator interface {
	Name() string
	CreatePullRequest(executionContext context.Context, submission PullRequestSubmission) (string, error)
}

// GitHubCLIClient is the subset of githubcli.Client used by the CLI transport.
type GitHubCLIClient interface {
	CheckAuthStatus(executionContext context.Context) error
	CreatePullRequest(executionContext context.Context, request githubcli.PullRequestRequest) (string, error)
}

// GitHubCLITransport creates pull requests with gh pr create.
type GitHubCLITransport struct {
	logger  *zap.Logger
	client  GitHubCLIClient
	locator githubcli.ExecutableLocator
	token   string
}

// NewGitHubCLITransport builds the gh transport. A non-empty token is exported
// to gh as GH_TOKEN.
func NewGitHubCLITransport(logger *zap.Logger, client GitHubCLIClient, locator githubcli.ExecutableLocator, token string) *GitHubCLITransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locator == nil {
		locator = githubcli.SystemExecutableLocator{}
	}
	return &GitHubCLITransport{logger: logger, client: client, locator: locator, token: strings.TrimSpace(token)}
}

// Name describes the transport in progress output.
func (transport *GitHubCLITransport) Name() string {
	return gitHubCLITransportNameConstant
}

// CreatePullRequest checks that gh is installed, probes its authentication
// without acting on the answer, and runs gh pr create.
func (transport *GitHubCLITransport) CreatePullRequest(executionContext context.Context, submission PullRequestSubmission) (string, error) {
	if !githubcli.IsInstalled(transport.locator) {
		return "", ErrGitHubCLIMissing
	}

	if statusError := transport.client.CheckAuthStatus(executionContext); statusError != nil {
		transport.logger.Debug(authStatusUnavailableMessageConstant, zap.Error(statusError))
	} else {
		transport.logger.Debug(authStatusConfirmedMessageConstant)
	}

	return transport.client.CreatePullRequest(executionContext, githubcli.PullRequestRequest{
		Repository: submission.Repository.FullName(),
		Title:      submission.Content.Title,
		Body:       submission.Content.Body,
		HeadBranch: submission.Branches.Head,
		BaseBranch: submission.Branches.Base,
		Token:      transport.token,
	})
}

// GitHubAPITransport creates pull requests through the REST API.
type GitHubAPITransport struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewGitHubAPITransport builds the REST transport. An empty token makes every
// creation attempt fail with ErrTokenUnavailable.
func NewGitHubAPITransport(token string, baseURL string, httpClient *http.Client) *GitHubAPITransport {
	return &GitHubAPITransport{token: strings.TrimSpace(token), baseURL: strings.TrimSpace(baseURL), httpClient: httpClient}
}

// Name describes the transport in progress output.
func (transport *GitHubAPITransport) Name() string {
	return gitHubAPITransportNameConstant
}

// CreatePullRequest opens the pull request with go-github.
func (transport *GitHubAPITransport) CreatePullRequest(executionContext context.Context, submission PullRequestSubmission) (string, error) {
	if len(transport.token) == 0 {
		return "", ErrTokenUnavailable
	}

	options := []githubapi.ClientOption{githubapi.WithBaseURL(transport.baseURL)}
	if transport.httpClient != nil {
		options = append(options, githubapi.WithHTTPClient(transport.httpClient))
	}
	client, clientError := githubapi.NewClient(transport.token, options...)
	if clientError != nil {
		return "", clientError
	}

	return client.CreatePullRequest(executionContext, githubapi.PullRequestRequest{
		Owner:      submission.Repository.Owner,
		Repository: submission.Repository.Name,
		Title:      submission.Content.Title,
		Body:       submission.Content.Body,
		HeadBranch: submission.Branches.Head,
		BaseBranch: submission.Branches.Base,
	})
}
