// Package api exposes the tracker over a small JSON control API: creating,
// adopting, cancelling and deleting tasks, and reading or filtering the
// board. It translates HTTP concerns to tracker operations and maps domain
// errors to status codes.
package api
