package bytecode

import (
	"github.com/wippyai/stacked/errors"
	"github.com/wippyai/stacked/internal/binary"
)

// Program is a fully decoded instruction sequence and its label table.
type Program struct {
	Labels       LabelTable
	Instructions []Instruction
	// Offsets holds the byte offset of each instruction in the source.
	Offsets []int
	// Dropped counts the bytes of a truncated trailing instruction that
	// was discarded at the end of the stream.
	Dropped int
}

// Decode reads a complete program from data.
//
// Decoding stops without error at the end of the stream. A final instruction
// whose operand is cut short is dropped and its length recorded in
// Program.Dropped. An opcode outside the instruction set is an error.
func Decode(data []byte) (*Program, error) {
	r := binary.NewReader(data)
	prog := &Program{
		Labels:       make(LabelTable),
		Instructions: make([]Instruction, 0, len(data)/2),
		Offsets:      make([]int, 0, len(data)/2),
	}

	for r.Len() > 0 {
		start := r.Position()
		op, err := r.ReadByte()
		if err != nil {
			break
		}

		instr := Instruction{Opcode: op}

		switch {
		case hasU32Operand(op):
			v, err := r.ReadU32LE()
			if err != nil {
				prog.Dropped = len(data) - start
				return prog, nil
			}
			switch op {
			case OpLabel:
				// The label resolves to its own marker, recorded before append.
				prog.Labels[v] = len(prog.Instructions)
				instr.Imm = LabelImm{ID: v}
			case OpPush:
				instr.Imm = PushImm{Value: v}
			default:
				instr.Imm = TargetImm{Label: v}
			}

		case op == OpInsertString:
			text, err := r.ReadUntil(0)
			if err != nil {
				// binary.ErrNoTerminator: the stream ended inside the string.
				prog.Dropped = len(data) - start
				return prog, nil
			}
			instr.Imm = StringImm{Text: string(text)}

		case ClassOf(op) == ClassInvalid:
			return nil, errors.UnknownOpcode(op, start)
		}

		prog.Instructions = append(prog.Instructions, instr)
		prog.Offsets = append(prog.Offsets, start)
	}

	return prog, nil
}
