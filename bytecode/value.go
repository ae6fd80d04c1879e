package bytecode

import "strconv"

// ValueKind identifies the variant held by a Value.
type ValueKind uint8

const (
	ValueInt ValueKind = iota // unsigned 32-bit integer
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one cell on the value stack or in memory.
//
// The set of variants is open: new kinds are added in this package only,
// so a type switch with a default branch keeps working as kinds are added.
type Value interface {
	Kind() ValueKind
	String() string
	value()
}

// Int is an unsigned 32-bit integer value.
type Int uint32

func (Int) Kind() ValueKind { return ValueInt }

func (v Int) String() string { return strconv.FormatUint(uint64(v), 10) }

func (Int) value() {}

// AsInt returns the integer payload of v.
func AsInt(v Value) (uint32, bool) {
	i, ok := v.(Int)
	return uint32(i), ok
}

// ClampByte returns v limited to the 0..255 range.
func ClampByte(v uint32) byte {
	if v > 0xFF {
		return 0xFF
	}
	return byte(v)
}
