package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// TaskStatus represents the server-reported state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusSuccess   TaskStatus = "SUCCESS"
	TaskStatusFailure   TaskStatus = "FAILURE"
	TaskStatusCancelled TaskStatus = "CANCELLED"
)

// AllStatuses lists every status in display order.
var AllStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusRunning,
	TaskStatusSuccess,
	TaskStatusFailure,
	TaskStatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	return slices.Contains(AllStatuses, s)
}

// IsTerminal reports whether s is a final status. Terminal statuses never
// transition further.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusSuccess, TaskStatusFailure, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

func (s TaskStatus) String() string {
	return string(s)
}

// ParseTaskStatus converts a raw status string into a TaskStatus.
// Surrounding whitespace is ignored; matching is case-sensitive, as on the wire.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Outcome is the one-shot result of a finished task. At most one of Result
// and Error is set.
type Outcome struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Validate checks that the outcome does not carry both a result and an error.
func (o Outcome) Validate() error {
	if o.Result != "" && o.Error != "" {
		return fmt.Errorf("%w: both result and error are set", ErrInvalidOutcome)
	}
	return nil
}

// IsEmpty reports whether neither a result nor an error is present.
func (o Outcome) IsEmpty() bool {
	return o.Result == "" && o.Error == ""
}

// Text returns the value a view displays for the outcome: the result if
// present, otherwise the error, otherwise the empty string.
func (o Outcome) Text() string {
	if o.Result != "" {
		return o.Result
	}
	return o.Error
}

// Task is the client-side record of a server task. PollError holds the
// reason the latest status check failed and is empty once a check succeeds.
type Task struct {
	ID        string
	Status    TaskStatus
	Outcome   *Outcome
	PollError string
	CreatedAt time.Time
}

// NewTask creates a task in the PENDING state with no outcome.
func NewTask(id string) (*Task, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty task id", ErrInvalidID)
	}
	return &Task{
		ID:        id,
		Status:    TaskStatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// HasOutcome reports whether an outcome has been recorded.
func (t *Task) HasOutcome() bool {
	return t.Outcome != nil
}

// Filter constrains which tasks are visible. The zero value shows every task.
type Filter TaskStatus

// NoFilter shows every task.
const NoFilter Filter = ""

// NewFilter builds a filter from a raw status; an empty string clears it.
func NewFilter(raw string) (Filter, error) {
	if strings.TrimSpace(raw) == "" {
		return NoFilter, nil
	}
	s, err := ParseTaskStatus(raw)
	if err != nil {
		return NoFilter, err
	}
	return Filter(s), nil
}

// Matches reports whether a task with the given status is visible.
func (f Filter) Matches(status TaskStatus) bool {
	return f == NoFilter || TaskStatus(f) == status
}

// Status returns the status the filter selects, or "" when unset.
func (f Filter) Status() TaskStatus {
	return TaskStatus(f)
}
