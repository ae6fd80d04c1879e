package memory

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/errors"
	"github.com/wippyai/stacked/internal/binary"
)

const (
	cellSize = 8 // tag u32 + payload u32, little-endian
	pageSize = 65536
	maxPages = 65536 // wasm32 memory limit

	// maxLinearCells keeps every cell offset within a 32-bit address.
	maxLinearCells = maxPages * pageSize / cellSize

	memoryExport = "memory"
)

// Linear is a memory whose cells live in a wazero linear memory.
//
// Each cell occupies 8 bytes: the value kind followed by its payload.
// Zeroed pages therefore read back as Int(0).
type Linear struct {
	rt       wazero.Runtime
	mem      api.Memory
	capacity uint32
}

// NewLinear instantiates a single-memory module large enough for capacity
// cells. Call Close to release the runtime.
func NewLinear(ctx context.Context, capacity uint32) (*Linear, error) {
	if capacity > maxLinearCells {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(capacity).
			Detail("linear memory holds at most %d cells, got %d", maxLinearCells, capacity).
			Build()
	}

	pages := (uint64(capacity)*cellSize + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	rt := wazero.NewRuntime(ctx)

	compiled, err := rt.CompileModule(ctx, memoryModule(uint32(pages)))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Load("compile memory module", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("stacked-memory"))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Load("instantiate memory module", err)
	}

	mem := mod.ExportedMemory(memoryExport)
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, errors.Load("memory module has no exported memory", nil)
	}

	return &Linear{
		rt:       rt,
		mem:      mem,
		capacity: capacity,
	}, nil
}

// Close releases the underlying wazero runtime.
func (m *Linear) Close(ctx context.Context) error {
	return m.rt.Close(ctx)
}

// Cap returns the number of cells.
func (m *Linear) Cap() uint32 {
	return m.capacity
}

// Load returns the cell at addr.
func (m *Linear) Load(addr uint32) (bytecode.Value, error) {
	if err := checkRange(addr, 1, m.capacity); err != nil {
		return nil, err
	}
	return m.read(addr)
}

// Store writes v to the cell at addr.
func (m *Linear) Store(addr uint32, v bytecode.Value) error {
	if err := checkRange(addr, 1, m.capacity); err != nil {
		return err
	}
	tag, payload, err := encodeCell(v)
	if err != nil {
		return err
	}
	return m.write(addr, tag, payload)
}

// LoadRange returns count cells starting at addr.
func (m *Linear) LoadRange(addr, count uint32) ([]bytecode.Value, error) {
	if err := checkRange(addr, count, m.capacity); err != nil {
		return nil, err
	}
	out := make([]bytecode.Value, count)
	for i := range out {
		v, err := m.read(addr + uint32(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// StoreRange writes values to consecutive cells starting at addr. Values
// are encoded before any cell is written.
func (m *Linear) StoreRange(addr uint32, values []bytecode.Value) error {
	if err := checkRange(addr, uint32(len(values)), m.capacity); err != nil {
		return err
	}
	type cell struct{ tag, payload uint32 }
	cells := make([]cell, len(values))
	for i, v := range values {
		tag, payload, err := encodeCell(v)
		if err != nil {
			return err
		}
		cells[i] = cell{tag, payload}
	}
	for i, c := range cells {
		if err := m.write(addr+uint32(i), c.tag, c.payload); err != nil {
			return err
		}
	}
	return nil
}

func (m *Linear) read(addr uint32) (bytecode.Value, error) {
	off := addr * cellSize
	tag, ok := m.mem.ReadUint32Le(off)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseExec, uint64(addr), uint64(m.capacity))
	}
	payload, ok := m.mem.ReadUint32Le(off + 4)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseExec, uint64(addr), uint64(m.capacity))
	}
	return decodeCell(tag, payload)
}

func (m *Linear) write(addr, tag, payload uint32) error {
	off := addr * cellSize
	if !m.mem.WriteUint32Le(off, tag) || !m.mem.WriteUint32Le(off+4, payload) {
		return errors.OutOfBounds(errors.PhaseExec, uint64(addr), uint64(m.capacity))
	}
	return nil
}

func encodeCell(v bytecode.Value) (tag, payload uint32, err error) {
	switch val := v.(type) {
	case bytecode.Int:
		return uint32(bytecode.ValueInt), uint32(val), nil
	default:
		return 0, 0, errors.TypeMismatch(errors.PhaseExec, "storable value", describe(v))
	}
}

func decodeCell(tag, payload uint32) (bytecode.Value, error) {
	switch bytecode.ValueKind(tag) {
	case bytecode.ValueInt:
		return bytecode.Int(payload), nil
	default:
		return nil, errors.InvalidData(errors.PhaseExec, "memory cell has unknown kind "+bytecode.ValueKind(tag).String())
	}
}

func describe(v bytecode.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}

// memoryModule encodes a core wasm module that exports one memory of the
// given number of pages, equivalent to (module (memory (export "memory") N)).
func memoryModule(pages uint32) []byte {
	w := binary.NewWriter()
	w.WriteU32LE(0x6D736100) // "\0asm"
	w.WriteU32LE(1)

	mem := binary.NewWriter()
	mem.WriteU32(1) // one memory
	mem.Byte(0x00)  // limits: min only
	mem.WriteU32(pages)
	w.WriteSection(5, mem.Bytes())

	exp := binary.NewWriter()
	exp.WriteU32(1)
	exp.WriteName(memoryExport)
	exp.Byte(0x02) // memory
	exp.WriteU32(0)
	w.WriteSection(7, exp.Bytes())

	return w.Bytes()
}
