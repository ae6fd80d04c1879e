package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode  Phase = "decode"  // bytes to instructions
	PhaseEncode  Phase = "encode"  // instructions to bytes
	PhaseExec    Phase = "exec"    // instruction dispatch
	PhaseSyscall Phase = "syscall" // host I/O through the syscall bridge
	PhaseLoad    Phase = "load"    // reading a program or building a memory backend
	PhaseConfig  Phase = "config"  // configuration file and flags
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownLabel   Kind = "unknown_label"
	KindSyscallFailure Kind = "syscall_failure"
	KindUnknownSyscall Kind = "unknown_syscall"
	KindStackUnderflow Kind = "stack_underflow"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindOverflow       Kind = "overflow"
	KindDivideByZero   Kind = "divide_by_zero"
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnknownOpcode  Kind = "unknown_opcode"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidData    Kind = "invalid_data"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain holds an *Error of the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the engine's fatal conditions

// UnknownLabel creates an error for a jump or call to an undeclared label
func UnknownLabel(id uint32) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindUnknownLabel,
		Detail: fmt.Sprintf("unknown label `%d`", id),
		Value:  id,
	}
}

// StackUnderflow creates an error for a pop from an empty stack
func StackUnderflow(stack string) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindStackUnderflow,
		Detail: stack + " stack is empty",
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// RangeOutOfBounds creates an out of bounds error for a multi-cell access
func RangeOutOfBounds(phase Phase, start, count, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds (length %d)", start, start+count, length),
		Value:  start,
	}
}

// UnknownSyscall creates an error for a syscall code outside the bridge's table
func UnknownSyscall(code uint32) *Error {
	return &Error{
		Phase:  PhaseSyscall,
		Kind:   KindUnknownSyscall,
		Detail: fmt.Sprintf("unknown syscall %d", code),
		Value:  code,
	}
}

// SyscallFailure wraps a host I/O failure
func SyscallFailure(op string, cause error) *Error {
	return &Error{
		Phase:  PhaseSyscall,
		Kind:   KindSyscallFailure,
		Detail: fmt.Sprintf("%s failed", op),
		Cause:  cause,
	}
}

// Overflow creates an arithmetic overflow error
func Overflow(op string, lhs, rhs uint32) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("%d %s %d overflows u32", lhs, op, rhs),
	}
}

// DivideByZero creates a division by zero error
func DivideByZero(lhs uint32) *Error {
	return &Error{
		Phase:  PhaseExec,
		Kind:   KindDivideByZero,
		Detail: fmt.Sprintf("%d / 0", lhs),
		Value:  lhs,
	}
}

// TypeMismatch creates an error for a value of the wrong variant
func TypeMismatch(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// UnknownOpcode creates a decode error for an opcode byte outside the table
func UnknownOpcode(op byte, offset int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownOpcode,
		Detail: fmt.Sprintf("unknown opcode 0x%02x at offset %d", op, offset),
		Value:  op,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a program or backend loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
