// Package tracker keeps client-side task state in sync with a remote task
// service.
//
// A Registry holds the last-known state of every tracked task and emits
// lifecycle events. Each task gets one PollLoop that queries its status on a
// fixed cadence until the status is terminal, then fetches the outcome exactly
// once. The Tracker ties user actions (create, cancel, delete, adopt) to the
// remote API, the Registry and the loops.
//
// Loops never sleep. All waiting goes through a Scheduler, so tests can drive
// time by hand and production code can run every step on a shared event loop.
package tracker
