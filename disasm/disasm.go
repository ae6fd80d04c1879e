package disasm

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/internal/binary"
)

// Options controls rendering.
type Options struct {
	// Color styles mnemonics, jump kinds, operands and strings.
	Color bool
}

// listingBytes is how many encoded bytes a listing line shows before
// eliding the rest of a long string operand.
const listingBytes = 8

var (
	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	mnemonicStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD75F"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AF87FF"))

	identStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	stringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))
)

type painter struct {
	color bool
}

func (p painter) paint(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Write prints one line per instruction: the opcode byte followed by the
// instruction, e.g. "0x6B Jump Equal <3>".
func Write(w io.Writer, instrs []bytecode.Instruction, opts Options) error {
	p := painter{color: opts.Color}
	for i := range instrs {
		line := p.paint(offsetStyle, fmt.Sprintf("0x%02X", instrs[i].Opcode)) + " " + Format(&instrs[i], opts)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Listing prints each instruction with its byte offset and encoding:
//
//	0x00000: 0x4c 0x01 0x00 0x00 0x00  Label <1>
func Listing(w io.Writer, prog *bytecode.Program, opts Options) error {
	p := painter{color: opts.Color}
	bw := binary.NewWriter()
	offset := 0

	for i := range prog.Instructions {
		instr := &prog.Instructions[i]
		if i < len(prog.Offsets) {
			offset = prog.Offsets[i]
		}

		bw.Reset()
		if err := bytecode.EncodeInstructionTo(bw, instr); err != nil {
			return err
		}
		encoded := bw.Bytes()

		line := p.paint(offsetStyle, fmt.Sprintf("0x%05x:", offset)) + " " +
			fmt.Sprintf("%-*s", 5*5-1, hexBytes(encoded)) + "  " +
			Format(instr, opts)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		offset += len(encoded)
	}

	if prog.Dropped > 0 {
		note := fmt.Sprintf("; %d trailing bytes dropped", prog.Dropped)
		if _, err := fmt.Fprintln(w, p.paint(offsetStyle, note)); err != nil {
			return err
		}
	}
	return nil
}

func hexBytes(b []byte) string {
	shown := b
	if len(b) > listingBytes {
		shown = b[:listingBytes]
	}
	parts := make([]string, 0, len(shown)+1)
	for _, c := range shown {
		parts = append(parts, fmt.Sprintf("0x%02x", c))
	}
	if len(b) > listingBytes {
		parts = append(parts, "..")
	}
	return strings.Join(parts, " ")
}

// Format renders a single instruction. Without color it matches
// Instruction.String.
func Format(instr *bytecode.Instruction, opts Options) string {
	p := painter{color: opts.Color}

	name, ok := bytecode.Mnemonic(instr.Opcode)
	if !ok {
		return instr.String()
	}
	out := p.paint(mnemonicStyle, name)

	switch imm := instr.Imm.(type) {
	case bytecode.LabelImm:
		out += " " + p.paint(identStyle, "<"+strconv.FormatUint(uint64(imm.ID), 10)+">")
	case bytecode.TargetImm:
		if kind, ok := instr.JumpKind(); ok {
			out += " " + p.paint(kindStyle, kind.String())
		}
		out += " " + p.paint(identStyle, "<"+strconv.FormatUint(uint64(imm.Label), 10)+">")
	case bytecode.PushImm:
		out += " " + p.paint(identStyle, "("+strconv.FormatUint(uint64(imm.Value), 10)+")")
	case bytecode.StringImm:
		out += " " + p.paint(stringStyle, strconv.Quote(imm.Text))
	}
	return out
}
