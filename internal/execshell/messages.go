package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitLogSubcommandNameConstant          = "log"
	gitPushSubcommandNameConstant         = "push"
	gitConfigSubcommandNameConstant       = "config"
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
	gitForceFlagConstant                  = "--force"
	gitConfigGetFlagConstant              = "--get"
	githubAuthSubcommandNameConstant      = "auth"
	githubStatusSubcommandNameConstant    = "status"
	githubPullRequestSubcommandConstant   = "pr"
	githubCreateSubcommandNameConstant    = "create"
	githubRepoFlagConstant                = "--repo"
	githubHeadFlagConstant                = "--head"
	githubBaseFlagConstant                = "--base"
)

const (
	gitLogStartTemplateConstant                      = "Inspecting latest commit of %s in %s"
	gitLogSuccessTemplateConstant                    = "Latest commit of %s in %s is %s"
	gitLogFailureTemplateConstant                    = "Could not read history of %s in %s (exit code %d%s)"
	gitLogExecutionFailureTemplateConstant           = "Unable to read history of %s in %s: %s"
	gitPushStartTemplateConstant                     = "Pushing %s to %s from %s"
	gitForcePushStartTemplateConstant                = "Force pushing %s to %s from %s"
	gitPushSuccessTemplateConstant                   = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant                   = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant          = "Unable to push %s to %s from %s: %s"
	gitConfigStartTemplateConstant                   = "Reading git configuration %s in %s"
	gitConfigSuccessTemplateConstant                 = "Read git configuration %s in %s"
	gitConfigFailureTemplateConstant                 = "Git configuration %s is not set in %s (exit code %d)"
	gitConfigExecutionFailureTemplateConstant        = "Unable to read git configuration %s in %s: %s"
	gitRemoteLookupStartTemplateConstant             = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant           = "%s remote for %s points to %s"
	gitRemoteLookupFailureTemplateConstant           = "Failed to read %s remote for %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant  = "Unable to read %s remote for %s: %s"
	githubAuthStatusStartTemplateConstant            = "Checking GitHub CLI authentication"
	githubAuthStatusSuccessTemplateConstant          = "GitHub CLI is authenticated"
	githubAuthStatusFailureTemplateConstant          = "GitHub CLI is not authenticated (exit code %d%s)"
	githubAuthStatusExecutionFailureTemplateConstant = "Unable to check GitHub CLI authentication: %s"
	githubCreateStartTemplateConstant                = "Creating pull request in %s from %s into %s"
	githubCreateSuccessTemplateConstant              = "Created pull request in %s from %s into %s"
	githubCreateFailureTemplateConstant              = "Failed to create pull request in %s from %s into %s (exit code %d%s)"
	githubCreateExecutionFailureTemplateConstant     = "Unable to create pull request in %s from %s into %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a command that exited with status zero.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing a command that could not be started.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitHub:
		return formatter.describeGitHubMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch strings.TrimSpace(arguments[0]) {
	case gitLogSubcommandNameConstant:
		branch := formatter.ensureValue(formatter.firstPositional(arguments[1:]))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitLogStartTemplateConstant, branch, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitLogSuccessTemplateConstant, branch, workingDirectory, formatter.ensureValue(result.StandardOutput))
		case messageStageFailure:
			return fmt.Sprintf(gitLogFailureTemplateConstant, branch, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitLogExecutionFailureTemplateConstant, branch, workingDirectory, formatter.describeFailure(failure))
		}
	case gitPushSubcommandNameConstant:
		remote, references := formatter.splitPositionals(arguments[1:])
		remoteLabel := formatter.ensureValue(remote)
		referenceLabel := formatter.ensureValue(strings.Join(references, ", "))
		switch stage {
		case messageStageStart:
			if containsArgument(arguments, gitForceFlagConstant) {
				return fmt.Sprintf(gitForcePushStartTemplateConstant, referenceLabel, remoteLabel, workingDirectory)
			}
			return fmt.Sprintf(gitPushStartTemplateConstant, referenceLabel, remoteLabel, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitPushSuccessTemplateConstant, referenceLabel, remoteLabel, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitPushFailureTemplateConstant, referenceLabel, remoteLabel, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, referenceLabel, remoteLabel, workingDirectory, formatter.describeFailure(failure))
		}
	case gitConfigSubcommandNameConstant:
		if !containsArgument(arguments, gitConfigGetFlagConstant) {
			break
		}
		// Configuration values may hold credentials, so the value itself is never rendered.
		key := formatter.ensureValue(formatter.firstPositional(arguments[1:]))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitConfigStartTemplateConstant, key, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitConfigSuccessTemplateConstant, key, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitConfigFailureTemplateConstant, key, workingDirectory, result.ExitCode)
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitConfigExecutionFailureTemplateConstant, key, workingDirectory, formatter.describeFailure(failure))
		}
	case gitRemoteSubcommandNameConstant:
		if len(arguments) < 3 || strings.TrimSpace(arguments[1]) != gitRemoteGetURLSubcommandNameConstant {
			break
		}
		remote := formatter.ensureValue(arguments[2])
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitRemoteLookupStartTemplateConstant, remote, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remote, workingDirectory, formatter.ensureValue(result.StandardOutput))
		case messageStageFailure:
			return fmt.Sprintf(gitRemoteLookupFailureTemplateConstant, remote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitRemoteLookupExecutionFailureTemplateConstant, remote, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	primary := strings.TrimSpace(arguments[0])
	secondary := strings.TrimSpace(arguments[1])

	if primary == githubAuthSubcommandNameConstant && secondary == githubStatusSubcommandNameConstant {
		switch stage {
		case messageStageStart:
			return githubAuthStatusStartTemplateConstant
		case messageStageSuccess:
			return githubAuthStatusSuccessTemplateConstant
		case messageStageFailure:
			return fmt.Sprintf(githubAuthStatusFailureTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubAuthStatusExecutionFailureTemplateConstant, formatter.describeFailure(failure))
		}
	}

	if primary == githubPullRequestSubcommandConstant && secondary == githubCreateSubcommandNameConstant {
		repository := formatter.ensureValue(flagValue(arguments, githubRepoFlagConstant))
		head := formatter.ensureValue(flagValue(arguments, githubHeadFlagConstant))
		base := formatter.ensureValue(flagValue(arguments, githubBaseFlagConstant))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubCreateStartTemplateConstant, repository, head, base)
		case messageStageSuccess:
			return fmt.Sprintf(githubCreateSuccessTemplateConstant, repository, head, base)
		case messageStageFailure:
			return fmt.Sprintf(githubCreateFailureTemplateConstant, repository, head, base, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubCreateExecutionFailureTemplateConstant, repository, head, base, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel += commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) firstPositional(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) splitPositionals(arguments []string) (string, []string) {
	remote := emptyStringConstant
	references := []string{}
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		if len(remote) == 0 {
			remote = trimmed
			continue
		}
		references = append(references, trimmed)
	}
	return remote, references
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func flagValue(arguments []string, flag string) string {
	for index := 0; index+1 < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}
