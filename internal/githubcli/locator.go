package githubcli

import (
	"os/exec"

	"github.com/temirov/prpublish/internal/execshell"
)

// ExecutableLocator resolves an executable name against the search path.
type ExecutableLocator interface {
	LookPath(executableName string) (string, error)
}

// SystemExecutableLocator searches PATH with os/exec.
type SystemExecutableLocator struct{}

// LookPath delegates to exec.LookPath.
func (SystemExecutableLocator) LookPath(executableName string) (string, error) {
	return exec.LookPath(executableName)
}

// IsInstalled reports whether gh can be found by locator.
func IsInstalled(locator ExecutableLocator) bool {
	if locator == nil {
		locator = SystemExecutableLocator{}
	}
	_, lookupError := locator.LookPath(string(execshell.CommandGitHub))
	return lookupError == nil
}
