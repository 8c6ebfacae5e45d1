package executor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyRunning is returned by Run while another Run on the same
	// Executor is in progress.
	ErrAlreadyRunning = errors.New("executor is already running")
	// ErrInvalidOption is wrapped by every construction-time option error.
	ErrInvalidOption = errors.New("invalid executor option")
)

// DeadlockError reports that no task is ready or in flight while Remaining
// tasks are still not terminal. Validation plus skip propagation make this
// unreachable; seeing it means the scheduler itself is broken.
type DeadlockError struct {
	Remaining []string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("deadlock: no runnable tasks, %d remaining: %s", len(e.Remaining), strings.Join(e.Remaining, ", "))
}

// PanicError is recorded as the error of a task whose work function panicked.
type PanicError struct {
	Task  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %q panicked: %v", e.Task, e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
