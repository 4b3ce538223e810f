package githubapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prpublish/internal/githubapi"
)

const (
	testTokenConstant           = "api-token-value"
	testOwnerConstant           = "LofoWalker"
	testRepositoryConstant      = "UpKeep"
	testTitleConstant           = "feat: implement monorepo"
	testBodyConstant            = "## Summary"
	testHeadBranchConstant      = "feat/monorepo-hexagonal-architecture-setup"
	testBaseBranchConstant      = "main"
	testPullRequestPathConstant = "/repos/LofoWalker/UpKeep/pulls"
	testPullRequestURLConstant  = "https://github.com/LofoWalker/UpKeep/pull/7"
)

type recordedPullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

func validRequest() githubapi.PullRequestRequest {
	return githubapi.PullRequestRequest{
		Owner:      testOwnerConstant,
		Repository: testRepositoryConstant,
		Title:      testTitleConstant,
		Body:       testBodyConstant,
		HeadBranch: testHeadBranchConstant,
		BaseBranch: testBaseBranchConstant,
	}
}

func TestNewClientRequiresToken(testInstance *testing.T) {
	client, creationError := githubapi.NewClient("  ")
	require.ErrorIs(testInstance, creationError, githubapi.ErrTokenRequired)
	require.Nil(testInstance, client)
}

func TestCreatePullRequestSendsAuthenticatedRequest(testInstance *testing.T) {
	var recordedAuthorization string
	var recordedMethod string
	var recordedPath string
	var recordedBody recordedPullRequest

	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		recordedAuthorization = request.Header.Get("Authorization")
		recordedMethod = request.Method
		recordedPath = request.URL.Path
		_ = json.NewDecoder(request.Body).Decode(&recordedBody)

		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(http.StatusCreated)
		_, _ = responseWriter.Write([]byte(`{"number":7,"html_url":"` + testPullRequestURLConstant + `"}`))
	}))
	defer server.Close()

	client, creationError := githubapi.NewClient(testTokenConstant, githubapi.WithBaseURL(server.URL), githubapi.WithHTTPClient(server.Client()))
	require.NoError(testInstance, creationError)

	pullRequestURL, createError := client.CreatePullRequest(context.Background(), validRequest())
	require.NoError(testInstance, createError)
	require.Equal(testInstance, testPullRequestURLConstant, pullRequestURL)
	require.Equal(testInstance, "Bearer "+testTokenConstant, recordedAuthorization)
	require.Equal(testInstance, http.MethodPost, recordedMethod)
	require.Equal(testInstance, testPullRequestPathConstant, recordedPath)
	require.Equal(testInstance, recordedPullRequest{
		Title: testTitleConstant,
		Body:  testBodyConstant,
		Head:  testHeadBranchConstant,
		Base:  testBaseBranchConstant,
	}, recordedBody)
}

func TestCreatePullRequestSurfacesGitHubMessage(testInstance *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, _ *http.Request) {
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = responseWriter.Write([]byte(`{"message":"Validation Failed","errors":[{"resource":"PullRequest","code":"custom","message":"A pull request already exists"}]}`))
	}))
	defer server.Close()

	client, creationError := githubapi.NewClient(testTokenConstant, githubapi.WithBaseURL(server.URL))
	require.NoError(testInstance, creationError)

	_, createError := client.CreatePullRequest(context.Background(), validRequest())
	require.Error(testInstance, createError)

	var operationError githubapi.OperationError
	require.True(testInstance, errors.As(createError, &operationError))
	require.Contains(testInstance, createError.Error(), "Validation Failed (HTTP 422)")
}

func TestCreatePullRequestValidatesInput(testInstance *testing.T) {
	testCases := []struct {
		name   string
		mutate func(request *githubapi.PullRequestRequest)
		field  string
	}{
		{name: "owner", mutate: func(request *githubapi.PullRequestRequest) { request.Owner = "" }, field: "owner"},
		{name: "repository", mutate: func(request *githubapi.PullRequestRequest) { request.Repository = " " }, field: "repository"},
		{name: "title", mutate: func(request *githubapi.PullRequestRequest) { request.Title = "" }, field: "title"},
		{name: "head", mutate: func(request *githubapi.PullRequestRequest) { request.HeadBranch = "" }, field: "head_branch"},
		{name: "base", mutate: func(request *githubapi.PullRequestRequest) { request.BaseBranch = "" }, field: "base_branch"},
	}

	client, creationError := githubapi.NewClient(testTokenConstant, githubapi.WithBaseURL("http://127.0.0.1:1"))
	require.NoError(testInstance, creationError)

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			request := validRequest()
			testCase.mutate(&request)

			_, createError := client.CreatePullRequest(context.Background(), request)
			var inputError githubapi.InvalidInputError
			require.True(testInstance, errors.As(createError, &inputError))
			require.Equal(testInstance, testCase.field, inputError.FieldName)
		})
	}
}
