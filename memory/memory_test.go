package memory

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/wippyai/stacked"
	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/errors"
)

func backends(t *testing.T) map[string]stacked.Memory {
	t.Helper()
	ctx := context.Background()

	lin, err := NewLinear(ctx, DefaultCapacity)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	t.Cleanup(func() { _ = lin.Close(ctx) })

	return map[string]stacked.Memory{
		"cells":  NewCells(DefaultCapacity),
		"linear": lin,
	}
}

func TestMemoryZeroInitialized(t *testing.T) {
	for name, mem := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if mem.Cap() != DefaultCapacity {
				t.Fatalf("Cap = %d, want %d", mem.Cap(), DefaultCapacity)
			}
			for _, addr := range []uint32{0, 1, 5000, DefaultCapacity - 1} {
				v, err := mem.Load(addr)
				if err != nil {
					t.Fatalf("Load(%d): %v", addr, err)
				}
				if v != bytecode.Int(0) {
					t.Errorf("Load(%d) = %v, want 0", addr, v)
				}
			}
		})
	}
}

func TestMemoryLoadStore(t *testing.T) {
	for name, mem := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := mem.Store(DefaultCapacity-1, bytecode.Int(0xDEADBEEF)); err != nil {
				t.Fatalf("Store: %v", err)
			}
			v, err := mem.Load(DefaultCapacity - 1)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if v != bytecode.Int(0xDEADBEEF) {
				t.Errorf("Load = %v, want 0xDEADBEEF", v)
			}
		})
	}
}

func TestMemoryBounds(t *testing.T) {
	for name, mem := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := mem.Load(DefaultCapacity); !errors.IsKind(err, errors.KindOutOfBounds) {
				t.Errorf("Load(cap) = %v, want out_of_bounds", err)
			}
			if err := mem.Store(DefaultCapacity, bytecode.Int(1)); !errors.IsKind(err, errors.KindOutOfBounds) {
				t.Errorf("Store(cap) = %v, want out_of_bounds", err)
			}
			if _, err := mem.LoadRange(DefaultCapacity-2, 3); !errors.IsKind(err, errors.KindOutOfBounds) {
				t.Errorf("LoadRange past end = %v, want out_of_bounds", err)
			}
			if _, err := mem.LoadRange(0xFFFFFFFF, 2); !errors.IsKind(err, errors.KindOutOfBounds) {
				t.Errorf("LoadRange overflow = %v, want out_of_bounds", err)
			}
		})
	}
}

func TestMemoryStoreRangeAtomic(t *testing.T) {
	for name, mem := range backends(t) {
		t.Run(name, func(t *testing.T) {
			vals := []bytecode.Value{bytecode.Int(1), bytecode.Int(2), bytecode.Int(3)}

			if err := mem.StoreRange(DefaultCapacity-2, vals); !errors.IsKind(err, errors.KindOutOfBounds) {
				t.Fatalf("StoreRange past end = %v, want out_of_bounds", err)
			}
			got, err := mem.LoadRange(DefaultCapacity-2, 2)
			if err != nil {
				t.Fatalf("LoadRange: %v", err)
			}
			if !reflect.DeepEqual(got, []bytecode.Value{bytecode.Int(0), bytecode.Int(0)}) {
				t.Errorf("failed StoreRange wrote cells: %v", got)
			}

			if err := mem.StoreRange(10, vals); err != nil {
				t.Fatalf("StoreRange: %v", err)
			}
			got, err = mem.LoadRange(10, 3)
			if err != nil {
				t.Fatalf("LoadRange: %v", err)
			}
			if !reflect.DeepEqual(got, vals) {
				t.Errorf("LoadRange = %v, want %v", got, vals)
			}
		})
	}
}

func TestLinearPages(t *testing.T) {
	ctx := context.Background()
	lin, err := NewLinear(ctx, 1)
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	defer lin.Close(ctx)

	if lin.mem.Size() != pageSize {
		t.Errorf("Size = %d, want one page", lin.mem.Size())
	}
	if err := lin.Store(0, bytecode.Int(7)); err != nil {
		t.Fatalf("Store: %v", err)
	}
	raw, ok := lin.mem.Read(0, cellSize)
	if !ok {
		t.Fatal("Read failed")
	}
	if !bytes.Equal(raw, []byte{0, 0, 0, 0, 7, 0, 0, 0}) {
		t.Errorf("cell bytes = %x", raw)
	}
}

func TestLinearCapacityLimit(t *testing.T) {
	ctx := context.Background()
	for _, capacity := range []uint32{maxLinearCells + 1, 0xFFFFFFFF} {
		lin, err := NewLinear(ctx, capacity)
		if err == nil {
			lin.Close(ctx)
			t.Fatalf("NewLinear(%d) should fail", capacity)
		}
		if !errors.IsKind(err, errors.KindInvalidInput) {
			t.Errorf("NewLinear(%d): err = %v, want invalid input", capacity, err)
		}
	}
}

func TestMemoryModuleBytes(t *testing.T) {
	got := memoryModule(2)
	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x03, 0x01, 0x00, 0x02,
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("memoryModule(2) = %x, want %x", got, want)
	}
}
