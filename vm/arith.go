package vm

import (
	"math/bits"

	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/errors"
)

// binary pops rhs then lhs and pushes lhs op rhs. Results that do not fit
// in a u32 are errors, never wrapped.
func (m *Machine) binary(op byte) error {
	rhs, err := m.popInt()
	if err != nil {
		return err
	}
	lhs, err := m.popInt()
	if err != nil {
		return err
	}

	v, err := evalBinary(op, lhs, rhs)
	if err != nil {
		return err
	}
	m.push(bytecode.Int(v))
	return nil
}

func evalBinary(op byte, lhs, rhs uint32) (uint32, error) {
	switch op {
	case bytecode.OpAdd:
		sum, carry := bits.Add32(lhs, rhs, 0)
		if carry != 0 {
			return 0, errors.Overflow("+", lhs, rhs)
		}
		return sum, nil
	case bytecode.OpSub:
		diff, borrow := bits.Sub32(lhs, rhs, 0)
		if borrow != 0 {
			return 0, errors.Overflow("-", lhs, rhs)
		}
		return diff, nil
	case bytecode.OpMul:
		hi, lo := bits.Mul32(lhs, rhs)
		if hi != 0 {
			return 0, errors.Overflow("*", lhs, rhs)
		}
		return lo, nil
	case bytecode.OpDiv:
		if rhs == 0 {
			return 0, errors.DivideByZero(lhs)
		}
		return lhs / rhs, nil
	}
	return 0, errors.InvalidInput(errors.PhaseExec, "not a binary opcode")
}
