package publisher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prpublish/internal/publisher"
)

func TestCommandConfigurationNormalizes(testInstance *testing.T) {
	commandConfiguration := publisher.CommandConfiguration{
		Owner:          " LofoWalker ",
		Repository:     "UpKeep\n",
		Branch:         " feat/monorepo-hexagonal-architecture-setup",
		Transport:      " API ",
		ForwardToken:   true,
		RepositoryPath: " /work/upkeep ",
		Title:          " feat: implement monorepo ",
		Body:           "## Description\n  indented line\n\n",
	}

	configuration := commandConfiguration.Configuration()

	require.Equal(testInstance, publisher.Configuration{
		Repository:     publisher.RepositoryIdentity{Owner: "LofoWalker", Name: "UpKeep"},
		Branches:       publisher.BranchReference{Head: "feat/monorepo-hexagonal-architecture-setup", Base: "main", Remote: "origin"},
		Content:        publisher.PullRequestContent{Title: "feat: implement monorepo", Body: "## Description\n  indented line"},
		RepositoryPath: "/work/upkeep",
		Transport:      publisher.TransportAPI,
		ForwardToken:   true,
		APIBaseURL:     "https://api.github.com",
	}, configuration)
	require.NoError(testInstance, configuration.Validate())
}

func TestConfigurationValidate(testInstance *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(configuration *publisher.Configuration)
		expectedField string
	}{
		{name: "owner", mutate: func(configuration *publisher.Configuration) { configuration.Repository.Owner = "" }, expectedField: "owner"},
		{name: "repository", mutate: func(configuration *publisher.Configuration) { configuration.Repository.Name = "" }, expectedField: "repository"},
		{name: "branch", mutate: func(configuration *publisher.Configuration) { configuration.Branches.Head = "" }, expectedField: "branch"},
		{name: "base", mutate: func(configuration *publisher.Configuration) { configuration.Branches.Base = "" }, expectedField: "base"},
		{name: "title", mutate: func(configuration *publisher.Configuration) { configuration.Content.Title = "" }, expectedField: "title"},
		{name: "transport", mutate: func(configuration *publisher.Configuration) { configuration.Transport = "ssh" }, expectedField: "transport"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configuration := testConfiguration()
			testCase.mutate(&configuration)

			validationError := configuration.Validate()
			require.Error(testInstance, validationError)

			invalidConfiguration, isInvalidConfiguration := validationError.(publisher.InvalidConfigurationError)
			require.True(testInstance, isInvalidConfiguration)
			require.Equal(testInstance, testCase.expectedField, invalidConfiguration.FieldName)
		})
	}
}

func TestDefaultConfigurationValues(testInstance *testing.T) {
	require.Equal(testInstance, map[string]any{
		"publisher.base":            "main",
		"publisher.remote":          "origin",
		"publisher.repository_path": ".",
		"publisher.transport":       "cli",
		"publisher.forward_token":   true,
		"publisher.api_base_url":    "https://api.github.com",
	}, publisher.DefaultConfigurationValues("publisher"))

	require.Contains(testInstance, publisher.DefaultConfigurationValues(""), "transport")
}
