package bytecode

// Opcodes of the binary program format. Opcodes that carry a 4-byte
// operand are listed in hasU32Operand.
const (
	OpLabel byte = 0x4C
	OpCall  byte = 0x2F

	OpJump        byte = 0x6A
	OpJumpEqual   byte = 0x6B
	OpJumpNotEq   byte = 0x6E
	OpJumpGreater byte = 0x6C
	OpJumpLesser  byte = 0x6D

	OpPush byte = 0x01
	OpPop  byte = 0x02
	OpDump byte = 0x03
	OpDup  byte = 0x05
	OpSwap byte = 0x06
	OpRot  byte = 0x07
	OpCmp  byte = 0x43

	OpLoad         byte = 0x8A
	OpStore        byte = 0x8B
	OpInsertString byte = 0x8C

	OpAdd byte = 0x28
	OpSub byte = 0x29
	OpMul byte = 0x2A
	OpDiv byte = 0x2B

	OpSyscall byte = 0x53
	OpReturn  byte = 0x0D
	OpHalt    byte = 0x04
)

// Class groups opcodes by the instruction variant they encode.
type Class uint8

const (
	ClassInvalid Class = iota
	ClassLabel
	ClassCall
	ClassJump
	ClassStack
	ClassMemory
	ClassBinary
	ClassSyscall
	ClassReturn
	ClassHalt
)

// JumpKind is the condition attached to a jump.
type JumpKind uint8

const (
	JumpUnconditional JumpKind = iota
	JumpEqual
	JumpNotEqual
	JumpGreater
	JumpLesser
)

func (k JumpKind) String() string {
	switch k {
	case JumpUnconditional:
		return "Unconditional"
	case JumpEqual:
		return "Equal"
	case JumpNotEqual:
		return "NotEqual"
	case JumpGreater:
		return "Greater"
	case JumpLesser:
		return "Lesser"
	default:
		return "Unknown"
	}
}

// Comparison codes produced by Cmp and consumed by conditional jumps.
const (
	CmpEqual   uint32 = 0
	CmpGreater uint32 = 1
	CmpLesser  uint32 = 2
)

type info struct {
	name  string
	class Class
}

var opcodes = map[byte]info{
	OpLabel: {"Label", ClassLabel},
	OpCall:  {"Call", ClassCall},

	OpJump:        {"Jump", ClassJump},
	OpJumpEqual:   {"Jump", ClassJump},
	OpJumpNotEq:   {"Jump", ClassJump},
	OpJumpGreater: {"Jump", ClassJump},
	OpJumpLesser:  {"Jump", ClassJump},

	OpPush: {"Push", ClassStack},
	OpPop:  {"Pop", ClassStack},
	OpDump: {"Dump", ClassStack},
	OpDup:  {"Dup", ClassStack},
	OpSwap: {"Swap", ClassStack},
	OpRot:  {"Rot", ClassStack},
	OpCmp:  {"Cmp", ClassStack},

	OpLoad:         {"Load", ClassMemory},
	OpStore:        {"Store", ClassMemory},
	OpInsertString: {"Str", ClassMemory},

	OpAdd: {"Add", ClassBinary},
	OpSub: {"Sub", ClassBinary},
	OpMul: {"Mul", ClassBinary},
	OpDiv: {"Div", ClassBinary},

	OpSyscall: {"Syscall", ClassSyscall},
	OpReturn:  {"Return", ClassReturn},
	OpHalt:    {"Halt", ClassHalt},
}

var jumpKinds = map[byte]JumpKind{
	OpJump:        JumpUnconditional,
	OpJumpEqual:   JumpEqual,
	OpJumpNotEq:   JumpNotEqual,
	OpJumpGreater: JumpGreater,
	OpJumpLesser:  JumpLesser,
}

// Mnemonic returns the display name of op.
func Mnemonic(op byte) (string, bool) {
	i, ok := opcodes[op]
	return i.name, ok
}

// ClassOf returns the instruction class of op, or ClassInvalid.
func ClassOf(op byte) Class {
	return opcodes[op].class
}

// JumpOpcode returns the opcode for a jump of the given kind.
func JumpOpcode(kind JumpKind) (byte, bool) {
	for op, k := range jumpKinds {
		if k == kind {
			return op, true
		}
	}
	return 0, false
}

func hasU32Operand(op byte) bool {
	switch op {
	case OpLabel, OpCall, OpPush,
		OpJump, OpJumpEqual, OpJumpNotEq, OpJumpGreater, OpJumpLesser:
		return true
	}
	return false
}
