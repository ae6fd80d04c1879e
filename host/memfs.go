package host

import (
	"context"
	"io"
	"io/fs"
	"sync"
)

// Paths of the standard streams bound to descriptors 0, 1 and 2.
const (
	StdinPath  = "/dev/stdin"
	StdoutPath = "/dev/stdout"
	StderrPath = "/dev/stderr"
)

// MemFS is an in-memory implementation of Syscalls. Files are byte slices
// keyed by path; descriptors 0, 1 and 2 are bound to the standard streams.
type MemFS struct {
	files map[string]*memFile
	fds   *fdTable
	mu    sync.Mutex
}

type memFile struct {
	data []byte
}

type openFile struct {
	file   *memFile
	pos    int
	flags  uint32
	append bool
}

func (f *openFile) readable() bool {
	return f.flags&accessMask == FlagReadOnly || f.flags&accessMask == FlagReadWrite
}

func (f *openFile) writable() bool {
	return f.flags&accessMask == FlagWriteOnly || f.flags&accessMask == FlagReadWrite
}

// NewMemFS creates an empty file system with the standard streams open.
func NewMemFS() *MemFS {
	m := &MemFS{
		files: make(map[string]*memFile),
		fds:   newFDTable(),
	}
	for _, s := range []struct {
		path  string
		flags uint32
	}{
		{StdinPath, FlagReadOnly},
		{StdoutPath, FlagWriteOnly | FlagAppend},
		{StderrPath, FlagWriteOnly | FlagAppend},
	} {
		f := &memFile{}
		m.files[s.path] = f
		m.fds.insert(&openFile{file: f, flags: s.flags, append: s.flags&FlagAppend != 0})
	}
	return m
}

// WithStdin sets the bytes returned by reads from descriptor 0.
func (m *MemFS) WithStdin(data []byte) *MemFS {
	m.WriteFile(StdinPath, data)
	return m
}

// WriteFile creates or replaces the file at path.
func (m *MemFS) WriteFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.files[path]; ok {
		f.data = append(f.data[:0], data...)
		return
	}
	m.files[path] = &memFile{data: append([]byte(nil), data...)}
}

// ReadFile returns a copy of the file at path.
func (m *MemFS) ReadFile(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.data...), true
}

// Stdout returns everything written to descriptor 1.
func (m *MemFS) Stdout() []byte {
	data, _ := m.ReadFile(StdoutPath)
	return data
}

// Stderr returns everything written to descriptor 2.
func (m *MemFS) Stderr() []byte {
	data, _ := m.ReadFile(StderrPath)
	return data
}

// OpenCount returns the number of open descriptors, standard streams included.
func (m *MemFS) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fds.len()
}

func (m *MemFS) Read(_ context.Context, fd uint32, p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.fds.get(fd)
	if !ok || !f.readable() {
		return 0, ErrBadDescriptor
	}
	if f.pos >= len(f.file.data) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, f.file.data[f.pos:])
	f.pos += n
	return n, nil
}

func (m *MemFS) Write(_ context.Context, fd uint32, p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.fds.get(fd)
	if !ok || !f.writable() {
		return 0, ErrBadDescriptor
	}
	if f.append {
		f.pos = len(f.file.data)
	}
	end := f.pos + len(p)
	if end > len(f.file.data) {
		grown := make([]byte, end)
		copy(grown, f.file.data)
		f.file.data = grown
	}
	copy(f.file.data[f.pos:], p)
	f.pos = end
	return len(p), nil
}

func (m *MemFS) Open(_ context.Context, path string, flags uint32) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if flags&accessMask == accessMask {
		return 0, &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid}
	}

	f, ok := m.files[path]
	if !ok {
		if flags&FlagCreate == 0 {
			return 0, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
		f = &memFile{}
		m.files[path] = f
	}

	of := &openFile{file: f, flags: flags, append: flags&FlagAppend != 0}
	if flags&FlagTruncate != 0 && of.writable() {
		f.data = f.data[:0]
	}
	return m.fds.insert(of), nil
}

func (m *MemFS) Close(_ context.Context, fd uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.fds.remove(fd) {
		return ErrBadDescriptor
	}
	return nil
}
