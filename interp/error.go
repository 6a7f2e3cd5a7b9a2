// Package interp evaluates parsed golin programs against an input stream.
package interp

import "fmt"

// UserError is an error raised by the user-provided program: a bad
// conversion, an out of range index, a scope violation, and so on.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// runtimeErrorf aborts evaluation with a UserError. Evaluation runs inside a
// recover set up by exec, so a panic here surfaces as a returned error.
func runtimeErrorf(format string, args ...interface{}) {
	panic(&UserError{Message: fmt.Sprintf(format, args...)})
}

// noMoreRecords is panicked by the record cursor when the input is
// exhausted. It ends the per-record evaluation loop cleanly.
type noMoreRecords struct{}
