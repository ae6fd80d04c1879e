// Package errors provides structured error types for the stacked virtual machine.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a detail message, the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExec, errors.KindOutOfBounds).
//		Value(addr).
//		Detail("address %d past memory end", addr).
//		Build()
//
// Or use convenience constructors for the engine's fatal conditions:
//
//	err := errors.UnknownLabel(999)
//	err := errors.StackUnderflow("value")
//	err := errors.SyscallFailure("open", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind; IsKind and KindOf ignore the phase.
package errors
