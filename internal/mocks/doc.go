// Package mocks provides testify mocks for the interfaces the tracker
// depends on, so that poll loops can be driven without a task server.
//
//	api := &mocks.MockTaskAPI{}
//	api.On("GetStatus", mock.Anything, "t1").Return(domain.TaskStatusRunning, nil).Once()
//	defer api.AssertExpectations(t)
package mocks
