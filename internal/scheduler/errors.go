// Package scheduler runs the periodic overdue sweep over the client queue.
package scheduler

import "errors"

var (
	ErrSchedulerAlreadyRunning = errors.New("scheduler is already running")
	ErrSchedulerNotRunning     = errors.New("scheduler is not running")
)
