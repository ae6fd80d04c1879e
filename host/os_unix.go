//go:build unix

package host

import (
	"context"
	"errors"
	"io/fs"

	"golang.org/x/sys/unix"
)

// OS forwards syscalls to the host kernel. Calls block and are not retried.
type OS struct {
	// Mode is the permission used when Open creates a file.
	Mode uint32
}

// NewOS returns a bridge to the host kernel creating files with mode 0644.
func NewOS() *OS {
	return &OS{Mode: 0o644}
}

func (o *OS) Read(_ context.Context, fd uint32, p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

func (o *OS) Write(_ context.Context, fd uint32, p []byte) (int, error) {
	n, err := unix.Write(int(fd), p)
	if err != nil {
		return 0, mapErrno(err)
	}
	return n, nil
}

func (o *OS) Open(_ context.Context, path string, flags uint32) (uint32, error) {
	fd, err := unix.Open(path, int(flags)|unix.O_CLOEXEC, o.Mode)
	if err != nil {
		return 0, &fs.PathError{Op: "open", Path: path, Err: mapErrno(err)}
	}
	return uint32(fd), nil
}

func (o *OS) Close(_ context.Context, fd uint32) error {
	if err := unix.Close(int(fd)); err != nil {
		return mapErrno(err)
	}
	return nil
}

// mapErrno folds errno values that have a portable sentinel into it so
// callers can match OS and MemFS failures the same way.
func mapErrno(err error) error {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return err
	}
	switch errno {
	case unix.EBADF:
		return ErrBadDescriptor
	default:
		return errno
	}
}
