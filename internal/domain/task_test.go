package domain

import (
	"errors"
	"testing"
)

func TestTaskStatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   TaskStatus
		valid    bool
		terminal bool
	}{
		{TaskStatusPending, true, false},
		{TaskStatusRunning, true, false},
		{TaskStatusSuccess, true, true},
		{TaskStatusFailure, true, true},
		{TaskStatusCancelled, true, true},
		{TaskStatus("pending"), false, false},
		{TaskStatus(""), false, false},
	}

	for _, tc := range tests {
		if got := tc.status.Valid(); got != tc.valid {
			t.Errorf("%q.Valid() = %v, want %v", tc.status, got, tc.valid)
		}
		if got := tc.status.IsTerminal(); got != tc.terminal {
			t.Errorf("%q.IsTerminal() = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	s, err := ParseTaskStatus(" RUNNING ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s != TaskStatusRunning {
		t.Errorf("Expected %s, got %s", TaskStatusRunning, s)
	}

	_, err = ParseTaskStatus("DONE")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := NewTask("abc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("Expected status %s, got %s", TaskStatusPending, task.Status)
	}
	if task.HasOutcome() {
		t.Error("Expected a new task to have no outcome")
	}
	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	_, err = NewTask("  ")
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("Expected ErrInvalidID, got %v", err)
	}
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	if err := (Outcome{Result: "42"}).Validate(); err != nil {
		t.Errorf("Expected result-only outcome to be valid, got %v", err)
	}
	if err := (Outcome{Result: "42", Error: "boom"}).Validate(); !errors.Is(err, ErrInvalidOutcome) {
		t.Errorf("Expected ErrInvalidOutcome, got %v", err)
	}

	if got := (Outcome{Result: "42"}).Text(); got != "42" {
		t.Errorf("Expected text 42, got %q", got)
	}
	if got := (Outcome{Error: "Task was cancelled"}).Text(); got != "Task was cancelled" {
		t.Errorf("Expected error text, got %q", got)
	}
	if !(Outcome{}).IsEmpty() || (Outcome{}).Text() != "" {
		t.Error("Expected zero outcome to be empty")
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	if !NoFilter.Matches(TaskStatusFailure) {
		t.Error("Expected empty filter to match every status")
	}

	f, err := NewFilter("RUNNING")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !f.Matches(TaskStatusRunning) {
		t.Error("Expected RUNNING filter to match RUNNING")
	}
	if f.Matches(TaskStatusPending) || f.Matches(TaskStatusSuccess) {
		t.Error("Expected RUNNING filter to hide other statuses")
	}

	cleared, err := NewFilter("")
	if err != nil || cleared != NoFilter {
		t.Errorf("Expected empty input to clear the filter, got %q, %v", cleared, err)
	}

	if _, err := NewFilter("bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}
