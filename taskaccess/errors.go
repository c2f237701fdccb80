package taskaccess

import "errors"

var (
	errTaskNotRun  = errors.New("spawned task did not run")
	errTaskTimeout = errors.New("timed out waiting for spawned task")
	errNoPool      = errors.New("no worker pool configured")
)
