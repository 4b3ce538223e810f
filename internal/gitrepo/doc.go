// Package gitrepo wraps the git operations the publishing workflow relies on.
//
// RepositoryManager reads the latest commit of a branch, force pushes a branch
// to a remote, and looks up configuration values and remote URLs. ParseRemoteURL
// turns a remote URL into the owner and repository name it points at.
package gitrepo
