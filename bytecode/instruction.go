package bytecode

import (
	"fmt"
	"strconv"
)

// Instruction represents a decoded instruction
type Instruction struct {
	Imm    any
	Opcode byte
}

// LabelImm holds the program-chosen identifier of a Label marker.
type LabelImm struct {
	ID uint32
}

// TargetImm holds the label identifier a Call or Jump transfers to.
type TargetImm struct {
	Label uint32
}

// PushImm holds the literal pushed by Push.
type PushImm struct {
	Value uint32
}

// StringImm holds the bytes written by InsertString, without the
// terminating zero byte.
type StringImm struct {
	Text string
}

// LabelTable maps a label identifier to the index of its Label marker.
type LabelTable map[uint32]int

// Label returns a Label marker instruction.
func Label(id uint32) Instruction {
	return Instruction{Opcode: OpLabel, Imm: LabelImm{ID: id}}
}

// Call returns a Call to the given label.
func Call(label uint32) Instruction {
	return Instruction{Opcode: OpCall, Imm: TargetImm{Label: label}}
}

// Jump returns a jump of the given kind to label. An unknown kind yields an
// instruction with opcode 0, which Encode rejects.
func Jump(kind JumpKind, label uint32) Instruction {
	op, _ := JumpOpcode(kind)
	return Instruction{Opcode: op, Imm: TargetImm{Label: label}}
}

// Push returns a Push of the literal v.
func Push(v uint32) Instruction {
	return Instruction{Opcode: OpPush, Imm: PushImm{Value: v}}
}

// InsertString returns an InsertString of text.
func InsertString(text string) Instruction {
	return Instruction{Opcode: OpInsertString, Imm: StringImm{Text: text}}
}

// Op returns an instruction with no operand.
func Op(op byte) Instruction {
	return Instruction{Opcode: op}
}

// Class returns the instruction's variant.
func (i Instruction) Class() Class {
	return ClassOf(i.Opcode)
}

// JumpKind returns the jump condition if this is a jump instruction
func (i Instruction) JumpKind() (JumpKind, bool) {
	k, ok := jumpKinds[i.Opcode]
	return k, ok
}

// Target returns the label a Call or Jump refers to
func (i Instruction) Target() (uint32, bool) {
	if imm, ok := i.Imm.(TargetImm); ok && (i.Opcode == OpCall || i.Class() == ClassJump) {
		return imm.Label, true
	}
	return 0, false
}

// String renders the instruction in disassembly form, e.g. "Jump Equal <3>".
func (i Instruction) String() string {
	name, ok := Mnemonic(i.Opcode)
	if !ok {
		return fmt.Sprintf("Unknown(0x%02x)", i.Opcode)
	}

	switch imm := i.Imm.(type) {
	case LabelImm:
		return name + " <" + strconv.FormatUint(uint64(imm.ID), 10) + ">"
	case TargetImm:
		if kind, ok := i.JumpKind(); ok {
			return name + " " + kind.String() + " <" + strconv.FormatUint(uint64(imm.Label), 10) + ">"
		}
		return name + " <" + strconv.FormatUint(uint64(imm.Label), 10) + ">"
	case PushImm:
		return name + " (" + strconv.FormatUint(uint64(imm.Value), 10) + ")"
	case StringImm:
		return name + " " + strconv.Quote(imm.Text)
	}
	return name
}
