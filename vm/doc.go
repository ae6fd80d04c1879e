// Package vm executes decoded bytecode programs.
//
// A Machine owns a value stack, a return-address stack and a fixed-capacity
// memory. Exec walks the instruction sequence from index 0, dispatching on
// each instruction and moving the instruction pointer, until the sequence
// ends, a Halt runs, or a fatal error occurs:
//
//	prog, err := bytecode.Decode(data)
//	if err != nil {
//		return err
//	}
//	m := vm.NewWithConfig(&vm.Config{Syscalls: host.NewMemFS()})
//	if err := m.Run(ctx, prog); err != nil {
//		return err
//	}
//
// Arithmetic is unsigned 32-bit and checked: overflow, underflow and
// division by zero are errors. Syscalls go through the host.Syscalls the
// machine was built with.
//
// # Debug stepping
//
// With Config.Debug set, every instruction is logged before it runs. After
// each instruction that did not jump, call or return, the value and return
// stacks are logged and the machine reads a line from Config.DebugInput:
// "mem" prints the first memory cells and prompts again, anything else
// resumes. When the input ends the machine stops prompting.
package vm
