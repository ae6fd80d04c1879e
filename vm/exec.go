package vm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/errors"
)

// flow is how an instruction moves the instruction pointer.
type flow uint8

const (
	flowNext flow = iota // ip+1, debug pause applies
	flowJump             // ip was set by the instruction
	flowHalt
)

// Run executes a decoded program.
func (m *Machine) Run(ctx context.Context, prog *bytecode.Program) error {
	return m.Exec(ctx, prog.Instructions, prog.Labels)
}

// Exec executes instrs from index 0 until the sequence is exhausted or a
// Halt runs. The first fatal condition stops execution and is returned.
func (m *Machine) Exec(ctx context.Context, instrs []bytecode.Instruction, labels bytecode.LabelTable) error {
	ip := 0
	for ip < len(instrs) {
		instr := &instrs[ip]
		if m.debug {
			m.log.Info("inst", zap.Int("ip", ip), zap.Stringer("inst", instr))
		}

		next, f, err := m.step(ctx, instr, ip, instrs, labels)
		if err != nil {
			m.log.Debug("execution failed", zap.Int("ip", ip), zap.Stringer("inst", instr), zap.Error(err))
			return err
		}

		switch f {
		case flowHalt:
			return nil
		case flowNext:
			if m.debug {
				m.pause()
			}
		}
		ip = next
	}
	return nil
}

func (m *Machine) step(ctx context.Context, instr *bytecode.Instruction, ip int, instrs []bytecode.Instruction, labels bytecode.LabelTable) (int, flow, error) {
	switch instr.Class() {
	case bytecode.ClassLabel:
		return ip + 1, flowNext, nil

	case bytecode.ClassBinary:
		return ip + 1, flowNext, m.binary(instr.Opcode)

	case bytecode.ClassStack:
		return ip + 1, flowNext, m.stackOp(instr)

	case bytecode.ClassMemory:
		return ip + 1, flowNext, m.memOp(instr)

	case bytecode.ClassSyscall:
		return ip + 1, flowNext, m.syscall(ctx)

	case bytecode.ClassCall:
		label, _ := instr.Target()
		m.ret = append(m.ret, ip+1)
		target, err := resolve(labels, label)
		if err != nil {
			return ip, flowJump, err
		}
		return target, flowJump, nil

	case bytecode.ClassJump:
		kind, _ := instr.JumpKind()
		taken := true
		if kind != bytecode.JumpUnconditional {
			code, err := m.popInt()
			if err != nil {
				return ip, flowNext, err
			}
			taken = jumpTaken(kind, code)
		}
		if !taken {
			return ip + 1, flowNext, nil
		}
		label, _ := instr.Target()
		target, err := resolve(labels, label)
		if err != nil {
			return ip, flowJump, err
		}
		return target, flowJump, nil

	case bytecode.ClassReturn:
		n := len(m.ret)
		if n == 0 {
			return ip, flowJump, errors.StackUnderflow("return")
		}
		addr := m.ret[n-1]
		m.ret = m.ret[:n-1]
		if addr >= len(instrs) {
			return ip, flowJump, errors.OutOfBounds(errors.PhaseExec, uint64(addr), uint64(len(instrs)))
		}
		return addr, flowJump, nil

	case bytecode.ClassHalt:
		return ip, flowHalt, nil
	}

	return ip, flowNext, errors.New(errors.PhaseExec, errors.KindUnknownOpcode).
		Value(instr.Opcode).
		Detail("cannot execute opcode 0x%02x at %d", instr.Opcode, ip).
		Build()
}

func resolve(labels bytecode.LabelTable, label uint32) (int, error) {
	target, ok := labels[label]
	if !ok {
		return 0, errors.UnknownLabel(label)
	}
	return target, nil
}

func jumpTaken(kind bytecode.JumpKind, code uint32) bool {
	switch kind {
	case bytecode.JumpEqual:
		return code == bytecode.CmpEqual
	case bytecode.JumpNotEqual:
		return code != bytecode.CmpEqual
	case bytecode.JumpGreater:
		return code == bytecode.CmpGreater
	case bytecode.JumpLesser:
		return code == bytecode.CmpLesser
	default:
		return true
	}
}

func (m *Machine) push(v bytecode.Value) {
	m.stack = append(m.stack, v)
}

func (m *Machine) pop() (bytecode.Value, error) {
	n := len(m.stack)
	if n == 0 {
		return nil, errors.StackUnderflow("value")
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

func (m *Machine) popInt() (uint32, error) {
	v, err := m.pop()
	if err != nil {
		return 0, err
	}
	return asInt(v)
}

func asInt(v bytecode.Value) (uint32, error) {
	n, ok := bytecode.AsInt(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseExec, bytecode.ValueInt.String(), v.Kind().String())
	}
	return n, nil
}

func (m *Machine) stackOp(instr *bytecode.Instruction) error {
	switch instr.Opcode {
	case bytecode.OpPush:
		imm, ok := instr.Imm.(bytecode.PushImm)
		if !ok {
			return errors.TypeMismatch(errors.PhaseExec, "push operand", fmt.Sprintf("%T", instr.Imm))
		}
		m.push(bytecode.Int(imm.Value))

	case bytecode.OpPop:
		_, err := m.pop()
		return err

	case bytecode.OpDup:
		if n := len(m.stack); n > 0 {
			m.push(m.stack[n-1])
		}

	case bytecode.OpSwap:
		a, err := m.pop()
		if err != nil {
			return err
		}
		b, err := m.pop()
		if err != nil {
			return err
		}
		m.push(a)
		m.push(b)

	case bytecode.OpRot:
		a, err := m.pop()
		if err != nil {
			return err
		}
		b, err := m.pop()
		if err != nil {
			return err
		}
		c, err := m.pop()
		if err != nil {
			return err
		}
		m.push(a)
		m.push(b)
		m.push(c)

	case bytecode.OpDump:
		v, err := m.pop()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(m.out, v.String()); err != nil {
			return errors.Wrap(errors.PhaseExec, errors.KindSyscallFailure, err, "dump failed")
		}

	case bytecode.OpCmp:
		rhs, err := m.popInt()
		if err != nil {
			return err
		}
		lhs, err := m.popInt()
		if err != nil {
			return err
		}
		m.push(bytecode.Int(compare(lhs, rhs)))
	}
	return nil
}

func compare(lhs, rhs uint32) uint32 {
	switch {
	case lhs == rhs:
		return bytecode.CmpEqual
	case lhs > rhs:
		return bytecode.CmpGreater
	default:
		return bytecode.CmpLesser
	}
}

func (m *Machine) memOp(instr *bytecode.Instruction) error {
	addr, err := m.popInt()
	if err != nil {
		return err
	}
	if c := m.mem.Cap(); addr >= c {
		return errors.OutOfBounds(errors.PhaseExec, uint64(addr), uint64(c))
	}

	switch instr.Opcode {
	case bytecode.OpLoad:
		v, err := m.mem.Load(addr)
		if err != nil {
			return err
		}
		m.push(v)

	case bytecode.OpStore:
		v, err := m.pop()
		if err != nil {
			return err
		}
		return m.mem.Store(addr, v)

	case bytecode.OpInsertString:
		imm, ok := instr.Imm.(bytecode.StringImm)
		if !ok {
			return errors.TypeMismatch(errors.PhaseExec, "string operand", fmt.Sprintf("%T", instr.Imm))
		}
		// The terminator cell is written too, so a shorter string stored
		// over a longer one reads back as the shorter string.
		return m.mem.StoreRange(addr, bytesToCells(append([]byte(imm.Text), 0)))
	}
	return nil
}

func bytesToCells(p []byte) []bytecode.Value {
	cells := make([]bytecode.Value, len(p))
	for i, b := range p {
		cells[i] = bytecode.Int(b)
	}
	return cells
}
