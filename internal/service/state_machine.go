package service

import (
	"fmt"

	"github.com/SeakMengs/CadetTrack/internal/constant"
)

type Transition int

const (
	TransitionStart Transition = iota + 1
	TransitionSubmit
	TransitionApprove
	TransitionReject
)

var Transitions = []Transition{TransitionStart, TransitionSubmit, TransitionApprove, TransitionReject}

func (t Transition) String() string {
	switch t {
	case TransitionStart:
		return "start"
	case TransitionSubmit:
		return "submit"
	case TransitionApprove:
		return "approve"
	case TransitionReject:
		return "reject"
	default:
		return "unknown"
	}
}

type transitionRule struct {
	from  constant.TaskStatus
	to    constant.TaskStatus
	actor constant.UserRole
}

// Owner means the assigned cadet for cadet rules and the project's curator
// for curator rules.
var transitionTable = map[Transition]transitionRule{
	TransitionStart:   {from: constant.TaskStatusWaiting, to: constant.TaskStatusInProgress, actor: constant.UserRoleCadet},
	TransitionSubmit:  {from: constant.TaskStatusInProgress, to: constant.TaskStatusInReview, actor: constant.UserRoleCadet},
	TransitionApprove: {from: constant.TaskStatusInReview, to: constant.TaskStatusDone, actor: constant.UserRoleCurator},
	TransitionReject:  {from: constant.TaskStatusInReview, to: constant.TaskStatusInProgress, actor: constant.UserRoleCurator},
}

// NextStatus is the whole state machine. Anything outside the table,
// including a matching move requested by the wrong actor, is InvalidTransition.
func NextStatus(current constant.TaskStatus, transition Transition, actor constant.UserRole, actorIsOwner bool) (constant.TaskStatus, error) {
	rule, ok := transitionTable[transition]
	if !ok {
		return current, &Error{Kind: KindInvalidTransition, Entity: "task", Err: fmt.Errorf("unknown transition %d", transition)}
	}

	if !current.IsValid() || rule.from != current {
		return current, &Error{Kind: KindInvalidTransition, Entity: "task", Err: fmt.Errorf("cannot %s a task in status %s", transition, current.Name())}
	}

	if rule.actor != actor || !actorIsOwner {
		return current, &Error{Kind: KindInvalidTransition, Entity: "task", Err: fmt.Errorf("%s is not allowed to %s this task", actor, transition)}
	}

	return rule.to, nil
}
