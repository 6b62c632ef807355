package mocks

import (
	"context"

	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/tracker"
	"github.com/stretchr/testify/mock"
)

// MockTaskAPI is a mock of tracker.TaskAPI for use with testify/mock
type MockTaskAPI struct {
	mock.Mock
}

// CreateTask is a mock implementation of tracker.TaskAPI.CreateTask
func (m *MockTaskAPI) CreateTask(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// ListTasks is a mock implementation of tracker.TaskAPI.ListTasks
func (m *MockTaskAPI) ListTasks(ctx context.Context, status domain.TaskStatus) ([]tracker.TaskSummary, error) {
	args := m.Called(ctx, status)
	if summaries, ok := args.Get(0).([]tracker.TaskSummary); ok {
		return summaries, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetStatus is a mock implementation of tracker.TaskAPI.GetStatus
func (m *MockTaskAPI) GetStatus(ctx context.Context, taskID string) (domain.TaskStatus, error) {
	args := m.Called(ctx, taskID)
	if status, ok := args.Get(0).(domain.TaskStatus); ok {
		return status, args.Error(1)
	}
	return "", args.Error(1)
}

// CancelTask is a mock implementation of tracker.TaskAPI.CancelTask
func (m *MockTaskAPI) CancelTask(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

// GetOutcome is a mock implementation of tracker.TaskAPI.GetOutcome
func (m *MockTaskAPI) GetOutcome(ctx context.Context, taskID string) (domain.Outcome, error) {
	args := m.Called(ctx, taskID)
	if outcome, ok := args.Get(0).(domain.Outcome); ok {
		return outcome, args.Error(1)
	}
	return domain.Outcome{}, args.Error(1)
}

// DeleteTask is a mock implementation of tracker.TaskAPI.DeleteTask
func (m *MockTaskAPI) DeleteTask(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

var _ tracker.TaskAPI = (*MockTaskAPI)(nil)
