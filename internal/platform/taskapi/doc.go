// Package taskapi implements tracker.TaskAPI over the task server's HTTP
// interface. Every failure is mapped onto the domain error sentinels: a 404
// wraps domain.ErrNotFound and anything else wraps domain.ErrRemote.
package taskapi
