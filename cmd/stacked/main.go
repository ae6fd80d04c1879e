package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/stacked"
	"github.com/wippyai/stacked/bytecode"
	"github.com/wippyai/stacked/config"
	"github.com/wippyai/stacked/disasm"
	"github.com/wippyai/stacked/errors"
	"github.com/wippyai/stacked/host"
	"github.com/wippyai/stacked/memory"
	"github.com/wippyai/stacked/vm"
)

const usageText = `Usage: stacked [-d|--debug] [-config file.toml] [-memory cells|linear] <command> [args]

Commands:
  exec <file>                      run a bytecode program
  disassemble [-raw] [-i] <file>   print the instructions of a program
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli carries what every subcommand needs.
type cli struct {
	cfg    *config.Config
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		debug      bool
		configPath string
		memFlag    string
	)
	fs := flag.NewFlagSet("stacked", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usageText) }
	fs.BoolVar(&debug, "debug", false, "Trace execution and pause after each instruction")
	fs.BoolVar(&debug, "d", false, "Shorthand for -debug")
	fs.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	fs.StringVar(&memFlag, "memory", "", "Memory backend: cells or linear")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 1
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fail(stderr, err)
		}
		cfg = loaded
	}
	if debug {
		cfg.Debug = true
	}
	if memFlag != "" {
		cfg.Memory = memFlag
	}
	if err := cfg.Validate(); err != nil {
		return fail(stderr, err)
	}

	c := &cli{cfg: cfg, stdin: stdin, stdout: stdout, stderr: stderr}
	defer c.sync()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "exec":
		return c.exec(rest)
	case "disassemble":
		return c.disassemble(rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 1
	}
}

func (c *cli) exec(args []string) int {
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	debug := fs.Bool("debug", c.cfg.Debug, "Trace execution and pause after each instruction")
	fs.BoolVar(debug, "d", c.cfg.Debug, "Shorthand for -debug")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprint(c.stderr, usageText)
		return 1
	}
	c.cfg.Debug = *debug
	if err := c.initLogger(); err != nil {
		return fail(c.stderr, err)
	}

	prog, err := c.load(fs.Arg(0))
	if err != nil {
		return fail(c.stderr, err)
	}

	ctx := context.Background()
	mem, closeMem, err := newMemory(ctx, c.cfg.Memory)
	if err != nil {
		return fail(c.stderr, err)
	}
	defer closeMem()

	m := vm.NewWithConfig(&vm.Config{
		Memory:     mem,
		Syscalls:   host.NewOS(),
		Stdout:     c.stdout,
		DebugInput: vm.NewLineReader(c.stdin),
		Logger:     c.log,
		DumpCells:  c.cfg.DumpCells,
		Debug:      c.cfg.Debug,
	})
	if err := m.Run(ctx, prog); err != nil {
		return fail(c.stderr, err)
	}
	return 0
}

func (c *cli) disassemble(args []string) int {
	fs := flag.NewFlagSet("disassemble", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	raw := fs.Bool("raw", false, "Show byte offsets and encoded bytes")
	interactive := fs.Bool("i", false, "Browse the listing in a terminal viewer")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprint(c.stderr, usageText)
		return 1
	}
	path := fs.Arg(0)
	if err := c.initLogger(); err != nil {
		return fail(c.stderr, err)
	}

	prog, err := c.load(path)
	if err != nil {
		return fail(c.stderr, err)
	}

	tty := isTerminal(c.stdout)
	if *interactive {
		if tty {
			if err := runInteractive(prog, path); err != nil {
				return fail(c.stderr, err)
			}
			return 0
		}
		c.log.Info("output is not a terminal, printing listing instead")
		*raw = true
	}

	opts := disasm.Options{Color: tty}
	if *raw {
		err = disasm.Listing(c.stdout, prog, opts)
	} else {
		err = disasm.Write(c.stdout, prog.Instructions, opts)
	}
	if err != nil {
		return fail(c.stderr, err)
	}
	return 0
}

// load reads and decodes a program file.
func (c *cli) load(path string) (*bytecode.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("cannot read program", err)
	}

	prog, err := bytecode.Decode(data)
	if err != nil {
		return nil, err
	}
	if prog.Dropped > 0 {
		c.log.Warn("truncated trailing instruction dropped",
			zap.String("file", path),
			zap.Int("bytes", prog.Dropped))
	}
	c.log.Debug("program decoded",
		zap.String("file", path),
		zap.Int("instructions", len(prog.Instructions)),
		zap.Int("labels", len(prog.Labels)))
	return prog, nil
}

func newMemory(ctx context.Context, backend string) (stacked.Memory, func(), error) {
	if backend == config.MemoryLinear {
		lin, err := memory.NewLinear(ctx, memory.DefaultCapacity)
		if err != nil {
			return nil, nil, err
		}
		return lin, func() { _ = lin.Close(ctx) }, nil
	}
	return memory.NewCells(memory.DefaultCapacity), func() {}, nil
}

// initLogger builds the console logger once subcommand flags are known.
func (c *cli) initLogger() error {
	level, err := c.cfg.LogLevel()
	if err != nil {
		return err
	}
	c.log = newLogger(c.stderr, level)
	vm.SetLogger(c.log)
	return nil
}

func (c *cli) sync() {
	if c.log != nil {
		_ = c.log.Sync()
	}
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// fail prints err as a single diagnostic line and returns the exit status.
func fail(w io.Writer, err error) int {
	style := lipgloss.NewRenderer(w).NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B"))
	fmt.Fprintln(w, style.Render("error:")+" "+err.Error())
	return 1
}
