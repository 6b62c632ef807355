// Package worker runs scheduled work on a fixed pool of goroutines. Poll
// loop steps are delivered through a bounded job queue so the number of
// concurrent requests to the task server never exceeds the worker count,
// however many tasks are being tracked.
package worker
