package host

// fdTable hands out descriptors and reuses closed ones through a free list.
// Callers hold the owning MemFS lock.
type fdTable struct {
	entries  []fdEntry
	freeList []uint32
}

type fdEntry struct {
	file  *openFile
	valid bool
}

func newFDTable() *fdTable {
	return &fdTable{
		entries:  make([]fdEntry, 0, 16),
		freeList: make([]uint32, 0, 8),
	}
}

// insert stores f and returns its descriptor.
func (t *fdTable) insert(f *openFile) uint32 {
	e := fdEntry{file: f, valid: true}

	if len(t.freeList) > 0 {
		fd := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[fd] = e
		return fd
	}

	t.entries = append(t.entries, e)
	return uint32(len(t.entries) - 1)
}

// get retrieves the open file for fd.
func (t *fdTable) get(fd uint32) (*openFile, bool) {
	if int(fd) >= len(t.entries) {
		return nil, false
	}
	e := t.entries[fd]
	if !e.valid {
		return nil, false
	}
	return e.file, true
}

// remove releases fd and returns false if it was not open.
func (t *fdTable) remove(fd uint32) bool {
	if int(fd) >= len(t.entries) {
		return false
	}
	e := &t.entries[fd]
	if !e.valid {
		return false
	}
	e.valid = false
	e.file = nil
	t.freeList = append(t.freeList, fd)
	return true
}

// len returns the number of open descriptors.
func (t *fdTable) len() int {
	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}
