// Package bytecode defines the value model, the instruction set and the
// binary program format of the stacked virtual machine.
//
// # Format
//
// A program is a flat sequence of instructions. Each instruction is one
// opcode byte followed by its operand:
//
//	0x4C Label    u32 label id
//	0x2F Call     u32 label id
//	0x6A..0x6E    Jump (unconditional, equal, greater, lesser, not-equal), u32 label id
//	0x01 Push     u32 literal
//	0x8C Str      raw bytes, then a zero byte
//	others        no operand
//
// All u32 operands are little-endian regardless of the host.
//
// # Decoding
//
//	prog, err := bytecode.Decode(data)
//	for i, instr := range prog.Instructions {
//	    fmt.Printf("%04d %s\n", i, instr)
//	}
//
// Decode builds the label table as it goes; each label maps to the index of
// its own marker, and a repeated id keeps the last declaration.
//
// # Encoding
//
//	data, err := bytecode.Encode([]bytecode.Instruction{
//	    bytecode.Push(2),
//	    bytecode.Push(3),
//	    bytecode.Op(bytecode.OpAdd),
//	    bytecode.Op(bytecode.OpDump),
//	})
package bytecode
