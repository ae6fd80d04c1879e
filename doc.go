// Package stacked is a small stack-based virtual machine.
//
// A program is a flat binary encoding of instructions. It is decoded once,
// in full, into an instruction sequence and a label table, then executed by a
// single-threaded interpreter that owns a value stack, a return-address stack
// and a fixed memory of 10000 cells.
//
// # Architecture Overview
//
//	stacked/             Root package with the Memory interface
//	├── bytecode/        Value model, instruction set, encoder and decoder
//	├── vm/              Execution engine, syscall bridge, debug stepper
//	├── memory/          Memory backends (Go slice, wazero linear memory)
//	├── host/            Syscall capability: OS descriptors or in-memory files
//	├── disasm/          Disassembly printer and raw listing
//	├── config/          TOML configuration for the command line tool
//	├── errors/          Structured error types
//	└── cmd/stacked/     Command line tool: exec, disassemble
//
// # Quick Start
//
// Decode and run a program:
//
//	prog, err := bytecode.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := vm.New()
//	if err := m.Run(ctx, prog); err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// Every fatal condition (unknown label, stack underflow, out of bounds,
// unknown syscall, syscall failure, arithmetic fault) aborts the run and is
// returned as an *errors.Error. The engine never exits the process.
//
// # Thread Safety
//
// A Machine is NOT thread-safe and owns all of its state. Programs are
// immutable after decoding and may be shared between machines.
package stacked
