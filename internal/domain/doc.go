// Package domain contains the core entities of the task watcher: the task
// status enumeration, the client-side view of a task, its outcome, and the
// presentation filter. It is independent of transport, scheduling and
// rendering concerns.
package domain
