package vm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/stacked/bytecode"
	"go.uber.org/zap"
)

// memCommand makes the debug prompt print memory and ask again.
const memCommand = "mem\n"

// LineSource supplies the lines typed at the debug prompt. ReadLine returns
// the line including its trailing newline, and an error once input ends.
type LineSource interface {
	ReadLine() (string, error)
}

type lineReader struct {
	r *bufio.Reader
}

// NewLineReader returns a LineSource reading newline-terminated lines from r.
func NewLineReader(r io.Reader) LineSource {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) ReadLine() (string, error) {
	return l.r.ReadString('\n')
}

// pause logs machine state and blocks on the line source. Once input ends
// the machine keeps tracing but no longer waits.
func (m *Machine) pause() {
	m.log.Info("state", zap.Stringers("stack", m.stack), zap.Ints("return", m.ret))

	for m.prompting {
		line, err := m.lines.ReadLine()
		if err != nil {
			m.prompting = false
			m.log.Debug("debug input closed, continuing without prompts", zap.Error(err))
			return
		}
		if line != memCommand {
			return
		}
		m.dumpMemory()
	}
}

func (m *Machine) dumpMemory() {
	n := min(m.dumpCells, m.mem.Cap())
	cells, err := m.mem.LoadRange(0, n)
	if err != nil {
		m.log.Warn("memory dump failed", zap.Error(err))
		return
	}
	fmt.Fprintf(m.out, "MEM: [%s]\n", formatCells(cells))
}

// formatCells renders cells as "Int(0), Int(7), ...".
func formatCells(cells []bytecode.Value) string {
	var b strings.Builder
	for i, v := range cells {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := v.(type) {
		case bytecode.Int:
			fmt.Fprintf(&b, "Int(%d)", uint32(v))
		default:
			b.WriteString(v.String())
		}
	}
	return b.String()
}
