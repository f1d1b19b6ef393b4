// Copyright © 2024 The Arrow authors

package lisp

// ArrowVersion is the version of the interpreter.
const ArrowVersion = "0.3"

// Interface for a profiler
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and output summary lines
	Complete() error
	// Start marks the start of an operation reduction or definition body
	// and returns the function that marks its end.
	Start(v *Value) func()
}
