// Package githubauth locates the GitHub token used when publishing pull requests.
package githubauth
