//go:build !unix

package host

import (
	"context"
	"errors"
)

var errUnsupported = errors.New("host syscalls are not supported on this platform")

// OS is unavailable outside unix; every call fails.
type OS struct {
	Mode uint32
}

func NewOS() *OS {
	return &OS{Mode: 0o644}
}

func (o *OS) Read(context.Context, uint32, []byte) (int, error)    { return 0, errUnsupported }
func (o *OS) Write(context.Context, uint32, []byte) (int, error)   { return 0, errUnsupported }
func (o *OS) Open(context.Context, string, uint32) (uint32, error) { return 0, errUnsupported }
func (o *OS) Close(context.Context, uint32) error                  { return errUnsupported }
