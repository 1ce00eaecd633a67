package scheduler

import "errors"

var (
	// ErrSchedulerRunning is returned when registering a task on a started scheduler
	ErrSchedulerRunning = errors.New("scheduler is already running")

	// ErrTaskNotFound is returned for unknown task names
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTask is returned for a task without a name, interval or body
	ErrInvalidTask = errors.New("invalid scheduler task")
)
