package orchestrator

import "errors"

// ErrAlreadyRunning is returned by ExecuteEvaluation when another
// evaluation is already in flight in this process. spec.md's scheduling
// model runs one evaluation at a time per process; this is the guard
// that enforces it.
var ErrAlreadyRunning = errors.New("another evaluation is already running in this process")

// ErrNotRunning is returned by Interrupt when the named evaluation has no
// in-flight execution in this process to signal.
var ErrNotRunning = errors.New("evaluation is not currently running in this process")
