package publisher

import (
	"errors"
	"fmt"
)

const (
	invalidTransitionMessageConstant  = "invalid publisher state transition"
	invalidTransitionTemplateConstant = "%w: %s on %s"
)

// State is a stage of a publishing run.
type State string

// Run states.
const (
	StateStart         State = State("start")
	StateBranchChecked State = State("branch_checked")
	StateAborted       State = State("aborted")
	StatePushed        State = State("pushed")
	StatePushFailed    State = State("push_failed")
	StatePRAttempted   State = State("pr_attempted")
	StateDone          State = State("done")
	StateFailed        State = State("failed")
)

// Event is an observed step result that moves a run between states.
type Event string

// Run events.
const (
	EventBranchChecked      Event = Event("branch_checked")
	EventBranchMissing      Event = Event("branch_missing")
	EventPushSucceeded      Event = Event("push_succeeded")
	EventPushFailed         Event = Event("push_failed")
	EventPullRequestStarted Event = Event("pull_request_started")
	EventPullRequestCreated Event = Event("pull_request_created")
	EventPullRequestFailed  Event = Event("pull_request_failed")
)

// ErrInvalidTransition reports an event that is not accepted in the current state.
var ErrInvalidTransition = errors.New(invalidTransitionMessageConstant)

var stateTransitions = map[State]map[Event]State{
	StateStart: {
		EventBranchChecked: StateBranchChecked,
	},
	StateBranchChecked: {
		EventBranchMissing: StateAborted,
		EventPushSucceeded: StatePushed,
		EventPushFailed:    StatePushFailed,
	},
	StatePushed: {
		EventPullRequestStarted: StatePRAttempted,
	},
	StatePushFailed: {
		EventPullRequestStarted: StatePRAttempted,
	},
	StatePRAttempted: {
		EventPullRequestCreated: StateDone,
		EventPullRequestFailed:  StateFailed,
	},
}

// Transition returns the state reached from current on event.
func Transition(current State, event Event) (State, error) {
	if next, accepted := stateTransitions[current][event]; accepted {
		return next, nil
	}
	return current, fmt.Errorf(invalidTransitionTemplateConstant, ErrInvalidTransition, event, current)
}

// IsTerminal reports whether no further events are accepted.
func (state State) IsTerminal() bool {
	return len(stateTransitions[state]) == 0
}

// ExitCode maps a terminal state to the process exit status.
func (state State) ExitCode() int {
	if state == StateDone {
		return 0
	}
	return 1
}
