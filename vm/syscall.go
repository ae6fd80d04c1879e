package vm

import (
	"context"
	stderrors "errors"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/errors"
	"github.com/wippyai/stacked/host"
)

// syscall pops a code and forwards the call to the host. Read and Write pop
// fd, buffer address and byte count; Open pops the path address and flags;
// Close pops fd.
func (m *Machine) syscall(ctx context.Context) error {
	raw, err := m.popInt()
	if err != nil {
		return err
	}
	code, ok := host.ParseCode(raw)
	if !ok {
		return errors.UnknownSyscall(raw)
	}

	switch code {
	case host.CodeRead, host.CodeWrite:
		fd, err := m.popInt()
		if err != nil {
			return err
		}
		buf, err := m.popInt()
		if err != nil {
			return err
		}
		count, err := m.popInt()
		if err != nil {
			return err
		}
		if code == host.CodeRead {
			return m.sysRead(ctx, fd, buf, count)
		}
		return m.sysWrite(ctx, fd, buf, count)

	case host.CodeOpen:
		ptr, err := m.popInt()
		if err != nil {
			return err
		}
		flags, err := m.popInt()
		if err != nil {
			return err
		}
		return m.sysOpen(ctx, ptr, flags)

	case host.CodeClose:
		fd, err := m.popInt()
		if err != nil {
			return err
		}
		if err := m.sys.Close(ctx, fd); err != nil {
			return errors.SyscallFailure(code.String(), err)
		}
	}
	return nil
}

// sysRead reads up to count bytes into the cells at buf. The whole range is
// stored, so cells past a short read or end of input are zeroed.
func (m *Machine) sysRead(ctx context.Context, fd, buf, count uint32) error {
	if err := m.checkRange(buf, count); err != nil {
		return err
	}

	p := make([]byte, count)
	if _, err := m.sys.Read(ctx, fd, p); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.SyscallFailure(host.CodeRead.String(), err)
	}
	return m.mem.StoreRange(buf, bytesToCells(p))
}

// sysWrite writes the cells at buf, each clamped to a byte.
func (m *Machine) sysWrite(ctx context.Context, fd, buf, count uint32) error {
	if err := m.checkRange(buf, count); err != nil {
		return err
	}

	cells, err := m.mem.LoadRange(buf, count)
	if err != nil {
		return err
	}
	p, err := cellsToBytes(cells)
	if err != nil {
		return err
	}

	if _, err := m.sys.Write(ctx, fd, p); err != nil {
		return errors.SyscallFailure(host.CodeWrite.String(), err)
	}
	return nil
}

// sysOpen opens the zero-terminated path at ptr. The descriptor is not
// pushed; programs address files through descriptors they already know.
func (m *Machine) sysOpen(ctx context.Context, ptr, flags uint32) error {
	path, err := m.cString(ptr)
	if err != nil {
		return err
	}

	fd, err := m.sys.Open(ctx, path, flags)
	if err != nil {
		return errors.SyscallFailure(host.CodeOpen.String(), err)
	}
	m.log.Debug("opened file", zap.String("path", path), zap.Uint32("flags", flags), zap.Uint32("fd", fd))
	return nil
}

// cString reads cells from ptr up to the first zero cell. A string that
// runs to the end of memory is out of bounds.
func (m *Machine) cString(ptr uint32) (string, error) {
	c := m.mem.Cap()
	if ptr >= c {
		return "", errors.OutOfBounds(errors.PhaseExec, uint64(ptr), uint64(c))
	}

	cells, err := m.mem.LoadRange(ptr, c-ptr)
	if err != nil {
		return "", err
	}
	for i, cell := range cells {
		v, err := asInt(cell)
		if err != nil {
			return "", err
		}
		if v == 0 {
			p, err := cellsToBytes(cells[:i])
			if err != nil {
				return "", err
			}
			return string(p), nil
		}
	}
	return "", errors.New(errors.PhaseExec, errors.KindOutOfBounds).
		Value(uint64(ptr)).
		Detail("string at %d has no terminator before end of memory (length %d)", ptr, c).
		Build()
}

func (m *Machine) checkRange(addr, count uint32) error {
	c := m.mem.Cap()
	if addr >= c {
		return errors.OutOfBounds(errors.PhaseExec, uint64(addr), uint64(c))
	}
	if uint64(addr)+uint64(count) > uint64(c) {
		return errors.RangeOutOfBounds(errors.PhaseExec, uint64(addr), uint64(count), uint64(c))
	}
	return nil
}

func cellsToBytes(cells []bytecode.Value) ([]byte, error) {
	p := make([]byte, len(cells))
	for i, cell := range cells {
		v, err := asInt(cell)
		if err != nil {
			return nil, err
		}
		p[i] = bytecode.ClampByte(v)
	}
	return p, nil
}
