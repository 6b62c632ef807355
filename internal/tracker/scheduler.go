package tracker

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	// Stop prevents the call from running. It returns false if the call has
	// already run or been stopped.
	Stop() bool
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}
