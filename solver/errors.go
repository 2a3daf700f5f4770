package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPlan indicates that the solver output holds no step block.
	ErrNoPlan = errors.New("no plan in solver output")

	// ErrSolverFailed indicates that the solver process could not be run
	// or exited with an error.
	ErrSolverFailed = errors.New("solver failed")
)

// Error is a solver failure carrying the raw process output.
type Error struct {
	RunID  string
	Output string
	Err    error
}

func (e *Error) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("solver run %s: %v", e.RunID, e.Err)
	}
	return fmt.Sprintf("solver run %s: %v:\n%s", e.RunID, e.Err, e.Output)
}

func (e *Error) Unwrap() error {
	return e.Err
}
