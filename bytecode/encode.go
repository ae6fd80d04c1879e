package bytecode

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/stacked/errors"
	"github.com/wippyai/stacked/internal/binary"
)

// EncodeInstructionTo appends a single instruction to w.
func EncodeInstructionTo(w *binary.Writer, instr *Instruction) error {
	class := ClassOf(instr.Opcode)
	if class == ClassInvalid {
		return errors.InvalidInput(errors.PhaseEncode, fmt.Sprintf("unknown opcode 0x%02x", instr.Opcode))
	}

	switch {
	case instr.Opcode == OpLabel:
		imm, ok := instr.Imm.(LabelImm)
		if !ok {
			return badImm(instr, "LabelImm")
		}
		w.Byte(instr.Opcode)
		w.WriteU32LE(imm.ID)

	case instr.Opcode == OpPush:
		imm, ok := instr.Imm.(PushImm)
		if !ok {
			return badImm(instr, "PushImm")
		}
		w.Byte(instr.Opcode)
		w.WriteU32LE(imm.Value)

	case hasU32Operand(instr.Opcode):
		imm, ok := instr.Imm.(TargetImm)
		if !ok {
			return badImm(instr, "TargetImm")
		}
		w.Byte(instr.Opcode)
		w.WriteU32LE(imm.Label)

	case instr.Opcode == OpInsertString:
		imm, ok := instr.Imm.(StringImm)
		if !ok {
			return badImm(instr, "StringImm")
		}
		if strings.IndexByte(imm.Text, 0) >= 0 {
			return errors.InvalidInput(errors.PhaseEncode, "string operand contains a zero byte")
		}
		w.Byte(instr.Opcode)
		w.WriteBytes([]byte(imm.Text))
		w.Byte(0)

	default:
		if instr.Imm != nil {
			return badImm(instr, "no operand")
		}
		w.Byte(instr.Opcode)
	}
	return nil
}

// Encode encodes instructions to bytes
func Encode(instrs []Instruction) ([]byte, error) {
	w := binary.NewWriter()
	for i := range instrs {
		if err := EncodeInstructionTo(w, &instrs[i]); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

// EncodeTo encodes instructions and writes them to out.
func EncodeTo(out io.Writer, instrs []Instruction) error {
	data, err := Encode(instrs)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "write program")
	}
	return nil
}

func badImm(instr *Instruction, want string) error {
	return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
		Value(instr.Imm).
		Detail("%s: immediate %T, want %s", instr, instr.Imm, want).
		Build()
}
