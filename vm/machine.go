package vm

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/stacked"
	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/host"
	"github.com/wippyai/stacked/memory"
)

// DefaultDumpCells is the number of cells the debug prompt's "mem" command prints.
const DefaultDumpCells = 30

// Config holds machine configuration. Nil fields take their defaults.
type Config struct {
	// Memory defaults to memory.NewCells(memory.DefaultCapacity).
	Memory stacked.Memory
	// Syscalls defaults to host.NewOS().
	Syscalls host.Syscalls
	// Stdout receives Dump output and the debug memory view. Defaults to os.Stdout.
	Stdout io.Writer
	// DebugInput is read at each debug pause. Defaults to os.Stdin.
	DebugInput LineSource
	// Logger defaults to the package Logger().
	Logger *zap.Logger
	// DumpCells is the number of cells "mem" prints; 0 means DefaultDumpCells.
	DumpCells uint32
	// Debug enables instruction tracing and the interactive pause.
	Debug bool
}

// Machine executes decoded programs. A Machine is not safe for concurrent
// use; its stacks and memory persist across calls to Run.
type Machine struct {
	mem       stacked.Memory
	sys       host.Syscalls
	out       io.Writer
	lines     LineSource
	log       *zap.Logger
	stack     []bytecode.Value
	ret       []int
	dumpCells uint32
	debug     bool
	prompting bool
}

// New creates a machine with default configuration.
func New() *Machine {
	return NewWithConfig(nil)
}

// NewWithConfig creates a machine from cfg.
func NewWithConfig(cfg *Config) *Machine {
	if cfg == nil {
		cfg = &Config{}
	}

	m := &Machine{
		mem:       cfg.Memory,
		sys:       cfg.Syscalls,
		out:       cfg.Stdout,
		lines:     cfg.DebugInput,
		log:       cfg.Logger,
		dumpCells: cfg.DumpCells,
		debug:     cfg.Debug,
		prompting: cfg.Debug,
		stack:     make([]bytecode.Value, 0, 64),
		ret:       make([]int, 0, 16),
	}
	if m.mem == nil {
		m.mem = memory.NewCells(memory.DefaultCapacity)
	}
	if m.sys == nil {
		m.sys = host.NewOS()
	}
	if m.out == nil {
		m.out = os.Stdout
	}
	if m.lines == nil {
		m.lines = NewLineReader(os.Stdin)
	}
	if m.log == nil {
		m.log = Logger()
	}
	if m.dumpCells == 0 {
		m.dumpCells = DefaultDumpCells
	}
	return m
}

// Memory returns the machine's memory.
func (m *Machine) Memory() stacked.Memory {
	return m.mem
}

// Stack returns a copy of the value stack, bottom first.
func (m *Machine) Stack() []bytecode.Value {
	return append([]bytecode.Value(nil), m.stack...)
}

// ReturnStack returns a copy of the return-address stack, bottom first.
func (m *Machine) ReturnStack() []int {
	return append([]int(nil), m.ret...)
}

// Debug reports whether the machine traces and pauses.
func (m *Machine) Debug() bool {
	return m.debug
}
