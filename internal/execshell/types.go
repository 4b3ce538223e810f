package execshell

import (
	"context"
	"errors"
	"strings"
)

const (
	commandGitNameConstant             = "git"
	commandGitHubNameConstant          = "gh"
	loggerNotConfiguredMessageConstant = "shell executor logger not configured"
	runnerNotConfiguredMessageConstant = "shell executor command runner not configured"
)

// ExitCodeUnavailable marks a result whose process never produced an exit status.
const ExitCodeUnavailable = -1

// CommandName identifies an external executable.
type CommandName string

// Supported executables.
const (
	CommandGit    CommandName = CommandName(commandGitNameConstant)
	CommandGitHub CommandName = CommandName(commandGitHubNameConstant)
)

// CommandDetails describes the arguments and process environment of an invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// Succeeded reports whether the process exited with status zero.
func (result ExecutionResult) Succeeded() bool {
	return result.ExitCode == 0
}

// CommandRunner starts a process and waits for it to exit.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a process that exited with a non-zero status.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command using the lifecycle message formatter.
func (failedError CommandFailedError) Error() string {
	return CommandMessageFormatter{}.BuildFailureMessage(failedError.Command, failedError.Result)
}

// CommandExecutionError reports a process that could not be run at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return CommandMessageFormatter{}.BuildExecutionFailureMessage(executionError.Command, executionError.Cause)
}

// Unwrap exposes the underlying start failure.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// Capture folds an executor return pair into a single result with trimmed
// output streams. A non-zero exit keeps its status and captured streams; a
// process that could not be started yields ExitCodeUnavailable and the failure
// text as standard error.
func Capture(result ExecutionResult, executionError error) ExecutionResult {
	if executionError != nil {
		var failedError CommandFailedError
		var startError CommandExecutionError
		switch {
		case errors.As(executionError, &failedError):
			result = failedError.Result
		case errors.As(executionError, &startError):
			result = ExecutionResult{StandardError: describeCause(startError.Cause), ExitCode: ExitCodeUnavailable}
		default:
			result = ExecutionResult{StandardError: executionError.Error(), ExitCode: ExitCodeUnavailable}
		}
	}

	return ExecutionResult{
		StandardOutput: strings.TrimSpace(result.StandardOutput),
		StandardError:  strings.TrimSpace(result.StandardError),
		ExitCode:       result.ExitCode,
	}
}

func describeCause(cause error) string {
	if cause == nil {
		return unknownFailureMessageConstant
	}
	return cause.Error()
}
