package publisher

import (
	"errors"
	"fmt"
	"io"
)

const (
	bannerTitleConstant                   = "GitHub PR Creation"
	bannerRepositoryTemplateConstant      = "Repository: %s"
	bannerBranchTemplateConstant          = "Branch: %s -> %s"
	branchExistsTemplateConstant          = "Branch %s exists"
	branchLatestCommitTemplateConstant    = "  Latest commit: %s"
	branchMissingTemplateConstant         = "Branch %s not found locally"
	pushStartedTemplateConstant           = "Pushing branch %s..."
	pushSucceededMessageConstant          = "Branch pushed successfully"
	pushFailedTemplateConstant            = "Push failed: %s"
	pushFailedContinuingMessageConstant   = "Push failed, but attempting to create PR anyway..."
	pullRequestStartedTemplateConstant    = "Creating PR via %s..."
	pullRequestCreatedMessageConstant     = "PR created successfully!"
	pullRequestURLTemplateConstant        = "  %s"
	pullRequestFailedTemplateConstant     = "PR creation failed: %s"
	runSucceededMessageConstant           = "All done!"
	runFailedMessageConstant              = "PR creation failed. You may need to create it manually."
	fallbackVisitTemplateConstant         = "Visit: %s"
	fallbackCompareURLTemplateConstant    = "https://github.com/%s/%s/compare/%s...%s"
	branchNotFoundMessageConstant         = "branch not found locally"
	pullRequestFailedErrorMessageConstant = "pull request creation failed"
)

var (
	// ErrBranchNotFound is returned for runs aborted because the head branch is missing locally.
	ErrBranchNotFound = errors.New(branchNotFoundMessageConstant)
	// ErrPullRequestFailed is returned for runs whose pull request could not be created.
	ErrPullRequestFailed = errors.New(pullRequestFailedErrorMessageConstant)
)

// StepName identifies a workflow step.
type StepName string

// Workflow steps in execution order.
const (
	StepBranchCheck StepName = StepName("branch_check")
	StepPush        StepName = StepName("push")
	StepPullRequest StepName = StepName("pull_request")
)

// StepStatus is the result of a single step.
type StepStatus string

// Step results.
const (
	StepStatusSucceeded StepStatus = StepStatus("succeeded")
	StepStatusFailed    StepStatus = StepStatus("failed")
)

// StepOutcome records one executed step. Detail holds the commit summary, the
// pull request URL, or the failure text.
type StepOutcome struct {
	Step   StepName
	Status StepStatus
	Detail string
}

// Report summarizes a finished run.
type Report struct {
	State          State
	Steps          []StepOutcome
	PullRequestURL string
	FallbackURL    string
}

// ExitCode is zero only when the pull request was created.
func (report Report) ExitCode() int {
	return report.State.ExitCode()
}

// Err maps the final state to ErrBranchNotFound, ErrPullRequestFailed, or nil.
func (report Report) Err() error {
	switch report.State {
	case StateDone:
		return nil
	case StateAborted:
		return ErrBranchNotFound
	default:
		return ErrPullRequestFailed
	}
}

// Step returns the outcome recorded for step, if the step ran.
func (report Report) Step(step StepName) (StepOutcome, bool) {
	for _, outcome := range report.Steps {
		if outcome.Step == step {
			return outcome, true
		}
	}
	return StepOutcome{}, false
}

// CompareURL is the page where the pull request can be opened by hand.
func CompareURL(repository RepositoryIdentity, branches BranchReference) string {
	return fmt.Sprintf(fallbackCompareURLTemplateConstant, repository.Owner, repository.Name, branches.Base, branches.Head)
}

// reportWriter prints the human-readable progress lines. Write errors are
// ignored; the report is informational and the exit code does not depend on it.
type reportWriter struct {
	output io.Writer
}

func (writer reportWriter) line(format string, arguments ...any) {
	_, _ = fmt.Fprintf(writer.output, format+"\n", arguments...)
}

func (writer reportWriter) blank() {
	_, _ = fmt.Fprintln(writer.output)
}
