// Package githubapi creates pull requests through the GitHub REST API.
//
// It is the alternative to the gh-based transport for environments where the
// GitHub CLI is not installed but a token is available.
package githubapi
