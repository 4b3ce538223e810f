package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"

	baseURLPathSeparatorConstant            = "/"
	tokenRequiredMessageConstant            = "github api token required"
	ownerFieldNameConstant                  = "owner"
	repositoryFieldNameConstant             = "repository"
	titleFieldNameConstant                  = "title"
	headBranchFieldNameConstant             = "head_branch"
	baseBranchFieldNameConstant             = "base_branch"
	requiredValueMessageConstant            = "value required"
	invalidInputErrorTemplateConstant       = "%s: %s"
	invalidBaseURLErrorTemplateConstant     = "invalid github api base url %q: %w"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseMessageTemplateConstant         = "%s (HTTP %d)"
	createPullRequestOperationNameConstant  = OperationName("CreatePullRequest")
)

// OperationName describes a named REST workflow supported by the client.
type OperationName string

// ErrTokenRequired indicates the client was constructed without a token.
var ErrTokenRequired = errors.New(tokenRequiredMessageConstant)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps a failed REST call.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure, preferring the message GitHub returned.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, describeResponseError(operationError.Cause))
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// PullRequestRequest describes the pull request to open.
type PullRequestRequest struct {
	Owner      string
	Repository string
	Title      string
	Body       string
	HeadBranch string
	BaseBranch string
}

// ClientOption customizes a Client.
type ClientOption func(client *clientSettings)

type clientSettings struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points the client at a GitHub Enterprise or test endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(settings *clientSettings) {
		settings.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithHTTPClient sets the transport wrapped by the oauth2 token source.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(settings *clientSettings) {
		settings.httpClient = httpClient
	}
}

// Client creates pull requests with go-github.
type Client struct {
	githubClient *github.Client
}

// NewClient authenticates every request with token as a bearer credential.
func NewClient(token string, options ...ClientOption) (*Client, error) {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenRequired
	}

	settings := clientSettings{baseURL: DefaultBaseURL}
	for _, option := range options {
		if option != nil {
			option(&settings)
		}
	}

	tokenContext := context.Background()
	if settings.httpClient != nil {
		tokenContext = context.WithValue(tokenContext, oauth2.HTTPClient, settings.httpClient)
	}
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken})
	githubClient := github.NewClient(oauth2.NewClient(tokenContext, tokenSource))

	if len(settings.baseURL) > 0 && settings.baseURL != DefaultBaseURL {
		baseURL := settings.baseURL
		if !strings.HasSuffix(baseURL, baseURLPathSeparatorConstant) {
			baseURL += baseURLPathSeparatorConstant
		}
		parsedBaseURL, parseError := url.Parse(baseURL)
		if parseError != nil {
			return nil, fmt.Errorf(invalidBaseURLErrorTemplateConstant, settings.baseURL, parseError)
		}
		githubClient.BaseURL = parsedBaseURL
	}

	return &Client{githubClient: githubClient}, nil
}

// CreatePullRequest opens the pull request and returns its HTML URL.
func (client *Client) CreatePullRequest(executionContext context.Context, request PullRequestRequest) (string, error) {
	if validationError := validateRequest(request); validationError != nil {
		return "", validationError
	}

	title := request.Title
	body := request.Body
	head := request.HeadBranch
	base := request.BaseBranch
	pullRequest, _, createError := client.githubClient.PullRequests.Create(executionContext, request.Owner, request.Repository, &github.NewPullRequest{
		Title: &title,
		Body:  &body,
		Head:  &head,
		Base:  &base,
	})
	if createError != nil {
		return "", OperationError{Operation: createPullRequestOperationNameConstant, Cause: createError}
	}

	return pullRequest.GetHTMLURL(), nil
}

func validateRequest(request PullRequestRequest) error {
	requiredFields := []struct {
		name  string
		value string
	}{
		{name: ownerFieldNameConstant, value: request.Owner},
		{name: repositoryFieldNameConstant, value: request.Repository},
		{name: titleFieldNameConstant, value: request.Title},
		{name: headBranchFieldNameConstant, value: request.HeadBranch},
		{name: baseBranchFieldNameConstant, value: request.BaseBranch},
	}
	for _, field := range requiredFields {
		if len(strings.TrimSpace(field.value)) == 0 {
			return InvalidInputError{FieldName: field.name, Message: requiredValueMessageConstant}
		}
	}
	return nil
}

func describeResponseError(cause error) string {
	var responseError *github.ErrorResponse
	if errors.As(cause, &responseError) && responseError.Response != nil && len(responseError.Message) > 0 {
		return fmt.Sprintf(responseMessageTemplateConstant, responseError.Message, responseError.Response.StatusCode)
	}
	if cause == nil {
		return ""
	}
	return cause.Error()
}
