// Package githubcli wraps the GitHub CLI (gh) for publishing pull requests.
//
// Client builds gh argument lists for the authentication probe and for pull
// request creation and runs them through execshell, so tests can substitute a
// recording executor. ExecutableLocator answers whether gh is installed at all.
package githubcli
