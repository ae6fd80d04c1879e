package memory

import (
	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/errors"
)

// DefaultCapacity is the number of cells a machine's memory holds.
const DefaultCapacity = 10000

// Cells is a memory backed by an owned Go slice.
type Cells struct {
	cells []bytecode.Value
}

// NewCells creates a zero-initialized memory of the given capacity.
func NewCells(capacity uint32) *Cells {
	cells := make([]bytecode.Value, capacity)
	for i := range cells {
		cells[i] = bytecode.Int(0)
	}
	return &Cells{cells: cells}
}

// Cap returns the number of cells.
func (m *Cells) Cap() uint32 {
	return uint32(len(m.cells))
}

// Load returns the cell at addr.
func (m *Cells) Load(addr uint32) (bytecode.Value, error) {
	if err := checkRange(addr, 1, m.Cap()); err != nil {
		return nil, err
	}
	return m.cells[addr], nil
}

// Store writes v to the cell at addr.
func (m *Cells) Store(addr uint32, v bytecode.Value) error {
	if err := checkRange(addr, 1, m.Cap()); err != nil {
		return err
	}
	m.cells[addr] = v
	return nil
}

// LoadRange returns a copy of count cells starting at addr.
func (m *Cells) LoadRange(addr, count uint32) ([]bytecode.Value, error) {
	if err := checkRange(addr, count, m.Cap()); err != nil {
		return nil, err
	}
	out := make([]bytecode.Value, count)
	copy(out, m.cells[addr:uint64(addr)+uint64(count)])
	return out, nil
}

// StoreRange writes values to consecutive cells starting at addr.
func (m *Cells) StoreRange(addr uint32, values []bytecode.Value) error {
	if err := checkRange(addr, uint32(len(values)), m.Cap()); err != nil {
		return err
	}
	copy(m.cells[addr:], values)
	return nil
}

// checkRange validates [addr, addr+count) against capacity. The start
// address must be in bounds even for an empty range.
func checkRange(addr, count, capacity uint32) error {
	if addr >= capacity {
		return errors.OutOfBounds(errors.PhaseExec, uint64(addr), uint64(capacity))
	}
	if uint64(addr)+uint64(count) > uint64(capacity) {
		return errors.RangeOutOfBounds(errors.PhaseExec, uint64(addr), uint64(count), uint64(capacity))
	}
	return nil
}
