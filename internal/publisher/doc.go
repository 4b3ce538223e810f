// Package publisher pushes a local branch and opens a pull request for it.
//
// Publisher walks a fixed sequence: confirm the head branch exists locally,
// force push it, then create the pull request through the GitHub CLI or the
// REST API. A missing branch stops the run. A failed push is reported and the
// pull request is attempted anyway. Progress is written as plain text lines to
// the configured output, and the run ends in a Report whose state decides the
// process exit code.
package publisher
