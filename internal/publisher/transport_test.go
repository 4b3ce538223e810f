package publisher_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/prpublish/internal/githubcli"
	"github.com/temirov/prpublish/internal/publisher"
)

const (
	testForwardedTokenConstant    = "forwarded-token"
	testAuthStatusMessageConstant = "GitHub CLI authentication status unavailable; continuing"
)

type stubGitHubCLIClient struct {
	authStatusError  error
	pullRequestURL   string
	createError      error
	authStatusChecks int
	requests         []githubcli.PullRequestRequest
}

func (client *stubGitHubCLIClient) CheckAuthStatus(context.Context) error {
	client.authStatusChecks++
	return client.authStatusError
}

func (client *stubGitHubCLIClient) CreatePullRequest(_ context.Context, request githubcli.PullRequestRequest) (string, error) {
	client.requests = append(client.requests, request)
	return client.pullRequestURL, client.createError
}

type stubLocator struct {
	lookupError error
}

func (locator stubLocator) LookPath(executableName string) (string, error) {
	if locator.lookupError != nil {
		return "", locator.lookupError
	}
	return "/usr/bin/" + executableName, nil
}

func testSubmission() publisher.PullRequestSubmission {
	configuration := testConfiguration()
	return publisher.PullRequestSubmission{
		Repository: configuration.Repository,
		Branches:   configuration.Branches,
		Content:    configuration.Content,
	}
}

func TestGitHubCLITransportMissingExecutable(testInstance *testing.T) {
	client := &stubGitHubCLIClient{}
	transport := publisher.NewGitHubCLITransport(zap.NewNop(), client, stubLocator{lookupError: exec.ErrNotFound}, testForwardedTokenConstant)

	_, createError := transport.CreatePullRequest(context.Background(), testSubmission())
	require.ErrorIs(testInstance, createError, publisher.ErrGitHubCLIMissing)
	require.Zero(testInstance, client.authStatusChecks)
	require.Empty(testInstance, client.requests)
}

func TestGitHubCLITransportIgnoresAuthStatus(testInstance *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	client := &stubGitHubCLIClient{authStatusError: errors.New("not logged in"), pullRequestURL: testPullRequestURLConstant}
	transport := publisher.NewGitHubCLITransport(zap.New(core), client, stubLocator{}, testForwardedTokenConstant)

	pullRequestURL, createError := transport.CreatePullRequest(context.Background(), testSubmission())
	require.NoError(testInstance, createError)
	require.Equal(testInstance, testPullRequestURLConstant, pullRequestURL)
	require.Equal(testInstance, 1, client.authStatusChecks)
	require.Equal(testInstance, []githubcli.PullRequestRequest{{
		Repository: testOwnerConstant + "/" + testRepositoryNameConstant,
		Title:      testTitleConstant,
		Body:       testBodyConstant,
		HeadBranch: testHeadBranchConstant,
		BaseBranch: testBaseBranchConstant,
		Token:      testForwardedTokenConstant,
	}}, client.requests)
	require.Equal(testInstance, 1, recorded.FilterMessage(testAuthStatusMessageConstant).Len())
	require.Equal(testInstance, "gh CLI", transport.Name())
}

func TestGitHubCLITransportPropagatesCreateFailure(testInstance *testing.T) {
	client := &stubGitHubCLIClient{createError: errors.New("create failed")}
	transport := publisher.NewGitHubCLITransport(nil, client, stubLocator{}, "")

	_, createError := transport.CreatePullRequest(context.Background(), testSubmission())
	require.EqualError(testInstance, createError, "create failed")
	require.Empty(testInstance, client.requests[0].Token)
}

func TestGitHubAPITransportRequiresToken(testInstance *testing.T) {
	transport := publisher.NewGitHubAPITransport(" ", "", nil)

	_, createError := transport.CreatePullRequest(context.Background(), testSubmission())
	require.ErrorIs(testInstance, createError, publisher.ErrTokenUnavailable)
	require.Equal(testInstance, "GitHub API", transport.Name())
}

func TestGitHubAPITransportCreatesPullRequest(testInstance *testing.T) {
	var receivedHead string
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		var payload struct {
			Head string `json:"head"`
		}
		_ = json.NewDecoder(request.Body).Decode(&payload)
		receivedHead = payload.Head
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(http.StatusCreated)
		_, _ = responseWriter.Write([]byte(`{"html_url":"` + testPullRequestURLConstant + `"}`))
	}))
	defer server.Close()

	transport := publisher.NewGitHubAPITransport(testForwardedTokenConstant, server.URL, server.Client())

	pullRequestURL, createError := transport.CreatePullRequest(context.Background(), testSubmission())
	require.NoError(testInstance, createError)
	require.Equal(testInstance, testPullRequestURLConstant, pullRequestURL)
	require.Equal(testInstance, testHeadBranchConstant, receivedHead)
}
