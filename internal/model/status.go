package model

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

type InviteStatus string

const (
	InviteStatusPending InviteStatus = "pending"
	InviteStatusUsed    InviteStatus = "used"
)

// used is terminal
var inviteTransitions = map[InviteStatus][]InviteStatus{
	InviteStatusPending: {InviteStatusUsed},
}

func (s InviteStatus) Valid() bool {
	return s == InviteStatusPending || s == InviteStatusUsed
}

func (s InviteStatus) CanTransitionTo(next InviteStatus) bool {
	return allowed(inviteTransitions[s], next)
}

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Task statuses form a flat set: every status may move to every other one.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusTodo:       {TaskStatusInProgress, TaskStatusDone},
	TaskStatusInProgress: {TaskStatusTodo, TaskStatusDone},
	TaskStatusDone:       {TaskStatusTodo, TaskStatusInProgress},
}

func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is reachable from s. Staying in the
// same status counts as a no-op and is always permitted for valid values.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return s == next || allowed(taskTransitions[s], next)
}

func allowed[T comparable](targets []T, next T) bool {
	for _, t := range targets {
		if t == next {
			return true
		}
	}
	return false
}
