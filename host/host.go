package host

import (
	"context"
	"errors"
	"strconv"
)

// Code is the abstract syscall number a program pushes before Syscall.
type Code uint32

const (
	CodeRead  Code = 0
	CodeWrite Code = 1
	CodeOpen  Code = 2
	CodeClose Code = 3
)

func (c Code) String() string {
	switch c {
	case CodeRead:
		return "read"
	case CodeWrite:
		return "write"
	case CodeOpen:
		return "open"
	case CodeClose:
		return "close"
	default:
		return "syscall(" + strconv.FormatUint(uint64(c), 10) + ")"
	}
}

// ParseCode maps a popped value to a syscall code.
func ParseCode(v uint32) (Code, bool) {
	c := Code(v)
	switch c {
	case CodeRead, CodeWrite, CodeOpen, CodeClose:
		return c, true
	}
	return c, false
}

// Open flags understood by MemFS. The numeric values are the Linux ones,
// which is what programs written for the OS bridge push.
const (
	FlagReadOnly  uint32 = 0x0
	FlagWriteOnly uint32 = 0x1
	FlagReadWrite uint32 = 0x2
	FlagCreate    uint32 = 0x40
	FlagTruncate  uint32 = 0x200
	FlagAppend    uint32 = 0x400

	accessMask uint32 = 0x3
)

// ErrBadDescriptor is returned for a descriptor that is not open or not
// open for the requested direction.
var ErrBadDescriptor = errors.New("bad file descriptor")

// Syscalls is the capability the engine's syscall bridge runs against.
// Every call blocks until the operation completes.
type Syscalls interface {
	Read(ctx context.Context, fd uint32, p []byte) (int, error)
	Write(ctx context.Context, fd uint32, p []byte) (int, error)
	Open(ctx context.Context, path string, flags uint32) (uint32, error)
	Close(ctx context.Context, fd uint32) error
}
