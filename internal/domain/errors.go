package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrNotFound is returned when an operation targets a task id that is not
	// known. It is usually benign: a delete raced with a poll or a completion.
	ErrNotFound = errors.New("task not found")

	// ErrDuplicateTask is returned when a task id is registered twice.
	ErrDuplicateTask = errors.New("task already registered")

	// ErrInvalidState is returned when an operation is not allowed in the
	// task's current state, such as recording an outcome before the task is
	// terminal or recording it twice.
	ErrInvalidState = errors.New("invalid task state")

	// ErrInvalidID is returned when a task id is empty.
	ErrInvalidID = errors.New("invalid task ID")

	// ErrInvalidStatus is returned when a status value is not one of the
	// known task statuses.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidOutcome is returned when an outcome carries both a result
	// and an error.
	ErrInvalidOutcome = errors.New("invalid task outcome")

	// ErrRemote is returned when a call to the remote task service fails,
	// whether at the transport level or with an unexpected response.
	ErrRemote = errors.New("remote task service error")
)
