package stacked

import "github.com/wippyai/stacked/bytecode"

// Memory is the fixed-capacity cell array a machine runs against.
//
// Addresses are 0-based cell indices. Every method bounds-checks its
// arguments; range methods validate the whole range before touching any
// cell, so a failed call leaves memory unchanged.
type Memory interface {
	Cap() uint32
	Load(addr uint32) (bytecode.Value, error)
	Store(addr uint32, v bytecode.Value) error
	LoadRange(addr, count uint32) ([]bytecode.Value, error)
	StoreRange(addr uint32, values []bytecode.Value) error
}
