package publisher

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/prpublish/internal/execshell"
)

const (
	runStartedMessageConstant                = "Publishing branch"
	runFinishedMessageConstant               = "Publishing finished"
	stepFinishedMessageConstant              = "Publishing step finished"
	transitionRejectedMessageConstant        = "Publishing state transition rejected"
	branchInspectorMissingMessageConstant    = "publisher branch inspector not configured"
	branchPusherMissingMessageConstant       = "publisher branch pusher not configured"
	pullRequestCreatorMissingMessageConstant = "publisher pull request creator not configured"
	logFieldRepositoryConstant               = "repository"
	logFieldHeadBranchConstant               = "head_branch"
	logFieldBaseBranchConstant               = "base_branch"
	logFieldRemoteConstant                   = "remote"
	logFieldTransportConstant                = "transport"
	logFieldStepConstant                     = "step"
	logFieldStatusConstant                   = "status"
	logFieldStateConstant                    = "state"
	logFieldEventConstant                    = "event"
	logFieldExitCodeConstant                 = "exit_code"
)

var (
	// ErrBranchInspectorNotConfigured indicates Dependencies.BranchInspector is nil.
	ErrBranchInspectorNotConfigured = errors.New(branchInspectorMissingMessageConstant)
	// ErrBranchPusherNotConfigured indicates Dependencies.BranchPusher is nil.
	ErrBranchPusherNotConfigured = errors.New(branchPusherMissingMessageConstant)
	// ErrPullRequestCreatorNotConfigured indicates Dependencies.PullRequestCreator is nil.
	ErrPullRequestCreatorNotConfigured = errors.New(pullRequestCreatorMissingMessageConstant)
)

// BranchInspector reads the newest commit of a local branch.
type BranchInspector interface {
	LatestCommitSummary(executionContext context.Context, branch string) (string, error)
}

// BranchPusher force pushes a branch to a remote.
type BranchPusher interface {
	ForcePushBranch(executionContext context.Context, remote string, branch string) error
}

// Dependencies are the collaborators of a Publisher.
type Dependencies struct {
	Logger             *zap.Logger
	BranchInspector    BranchInspector
	BranchPusher       BranchPusher
	PullRequestCreator PullRequestCreator
	Output             io.Writer
}

// Publisher runs the publishing workflow for one configuration.
type Publisher struct {
	configuration Configuration
	logger        *zap.Logger
	inspector     BranchInspector
	pusher        BranchPusher
	creator       PullRequestCreator
	writer        reportWriter
}

// NewPublisher validates the configuration and collaborators.
func NewPublisher(configuration Configuration, dependencies Dependencies) (*Publisher, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}
	if dependencies.BranchInspector == nil {
		return nil, ErrBranchInspectorNotConfigured
	}
	if dependencies.BranchPusher == nil {
		return nil, ErrBranchPusherNotConfigured
	}
	if dependencies.PullRequestCreator == nil {
		return nil, ErrPullRequestCreatorNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	return &Publisher{
		configuration: configuration,
		logger:        logger,
		inspector:     dependencies.BranchInspector,
		pusher:        dependencies.BranchPusher,
		creator:       dependencies.PullRequestCreator,
		writer:        reportWriter{output: output},
	}, nil
}

// Run executes the workflow and returns its report. Step failures are part of
// the report rather than returned errors; see Report.Err.
func (publisher *Publisher) Run(executionContext context.Context) Report {
	repository := publisher.configuration.Repository
	branches := publisher.configuration.Branches

	publisher.logger.Info(
		runStartedMessageConstant,
		zap.String(logFieldRepositoryConstant, repository.FullName()),
		zap.String(logFieldHeadBranchConstant, branches.Head),
		zap.String(logFieldBaseBranchConstant, branches.Base),
		zap.String(logFieldRemoteConstant, branches.Remote),
		zap.String(logFieldTransportConstant, publisher.creator.Name()),
	)

	publisher.writer.line(bannerTitleConstant)
	publisher.writer.line(bannerRepositoryTemplateConstant, repository.FullName())
	publisher.writer.line(bannerBranchTemplateConstant, branches.Head, branches.Base)
	publisher.writer.blank()

	report := Report{State: StateStart}

	branchExists := publisher.checkBranch(executionContext, &report)
	publisher.advance(&report, EventBranchChecked)
	if !branchExists {
		publisher.advance(&report, EventBranchMissing)
		return publisher.finish(report)
	}

	if publisher.pushBranch(executionContext, &report) {
		publisher.advance(&report, EventPushSucceeded)
	} else {
		publisher.writer.line(pushFailedContinuingMessageConstant)
		publisher.advance(&report, EventPushFailed)
	}

	publisher.advance(&report, EventPullRequestStarted)
	if publisher.createPullRequest(executionContext, &report) {
		publisher.advance(&report, EventPullRequestCreated)
		publisher.writer.blank()
		publisher.writer.line(runSucceededMessageConstant)
		return publisher.finish(report)
	}

	publisher.advance(&report, EventPullRequestFailed)
	report.FallbackURL = CompareURL(repository, branches)
	publisher.writer.blank()
	publisher.writer.line(runFailedMessageConstant)
	publisher.writer.line(fallbackVisitTemplateConstant, report.FallbackURL)
	return publisher.finish(report)
}

func (publisher *Publisher) checkBranch(executionContext context.Context, report *Report) bool {
	head := publisher.configuration.Branches.Head

	summary, inspectionError := publisher.inspector.LatestCommitSummary(executionContext, head)
	if inspectionError != nil {
		publisher.record(report, StepBranchCheck, StepStatusFailed, failureDetail(inspectionError))
		publisher.writer.line(branchMissingTemplateConstant, head)
		return false
	}

	publisher.record(report, StepBranchCheck, StepStatusSucceeded, summary)
	publisher.writer.line(branchExistsTemplateConstant, head)
	publisher.writer.line(branchLatestCommitTemplateConstant, summary)
	return true
}

func (publisher *Publisher) pushBranch(executionContext context.Context, report *Report) bool {
	branches := publisher.configuration.Branches

	publisher.writer.blank()
	publisher.writer.line(pushStartedTemplateConstant, branches.Head)

	if pushError := publisher.pusher.ForcePushBranch(executionContext, branches.Remote, branches.Head); pushError != nil {
		detail := failureDetail(pushError)
		publisher.record(report, StepPush, StepStatusFailed, detail)
		publisher.writer.line(pushFailedTemplateConstant, detail)
		return false
	}

	publisher.record(report, StepPush, StepStatusSucceeded, "")
	publisher.writer.line(pushSucceededMessageConstant)
	return true
}

func (publisher *Publisher) createPullRequest(executionContext context.Context, report *Report) bool {
	publisher.writer.blank()
	publisher.writer.line(pullRequestStartedTemplateConstant, publisher.creator.Name())

	pullRequestURL, creationError := publisher.creator.CreatePullRequest(executionContext, PullRequestSubmission{
		Repository: publisher.configuration.Repository,
		Branches:   publisher.configuration.Branches,
		Content:    publisher.configuration.Content,
	})
	if creationError != nil {
		detail := failureDetail(creationError)
		publisher.record(report, StepPullRequest, StepStatusFailed, detail)
		if errors.Is(creationError, ErrGitHubCLIMissing) || errors.Is(creationError, ErrTokenUnavailable) {
			publisher.writer.line("%s", detail)
		} else {
			publisher.writer.line(pullRequestFailedTemplateConstant, detail)
		}
		return false
	}

	report.PullRequestURL = pullRequestURL
	publisher.record(report, StepPullRequest, StepStatusSucceeded, pullRequestURL)
	publisher.writer.line(pullRequestCreatedMessageConstant)
	publisher.writer.line(pullRequestURLTemplateConstant, pullRequestURL)
	return true
}

func (publisher *Publisher) record(report *Report, step StepName, status StepStatus, detail string) {
	report.Steps = append(report.Steps, StepOutcome{Step: step, Status: status, Detail: detail})
	publisher.logger.Debug(
		stepFinishedMessageConstant,
		zap.String(logFieldStepConstant, string(step)),
		zap.String(logFieldStatusConstant, string(status)),
	)
}

// advance applies event to the report state. The workflow above only emits
// accepted events; a rejected one ends the run as failed.
func (publisher *Publisher) advance(report *Report, event Event) {
	nextState, transitionError := Transition(report.State, event)
	if transitionError != nil {
		publisher.logger.Error(
			transitionRejectedMessageConstant,
			zap.String(logFieldStateConstant, string(report.State)),
			zap.String(logFieldEventConstant, string(event)),
			zap.Error(transitionError),
		)
		report.State = StateFailed
		return
	}
	report.State = nextState
}

func (publisher *Publisher) finish(report Report) Report {
	publisher.logger.Info(
		runFinishedMessageConstant,
		zap.String(logFieldStateConstant, string(report.State)),
		zap.Int(logFieldExitCodeConstant, report.ExitCode()),
	)
	return report
}

// failureDetail extracts the text shown after a failed step: the captured
// standard error of a failed command, or the error text otherwise.
func failureDetail(failure error) string {
	if errors.Is(failure, ErrGitHubCLIMissing) || errors.Is(failure, ErrTokenUnavailable) {
		return failure.Error()
	}
	var failedCommand execshell.CommandFailedError
	var unstartedCommand execshell.CommandExecutionError
	if errors.As(failure, &failedCommand) || errors.As(failure, &unstartedCommand) {
		return execshell.Capture(execshell.ExecutionResult{}, failure).StandardError
	}
	return failure.Error()
}
