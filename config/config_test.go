package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/wippyai/stacked/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Memory != MemoryCells || cfg.DumpCells != 30 || cfg.Debug {
		t.Errorf("Default = %+v", cfg)
	}
	if lvl, err := cfg.LogLevel(); err != nil || lvl != zapcore.InfoLevel {
		t.Errorf("LogLevel = %v, %v", lvl, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Config
		level zapcore.Level
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			want:  Config{Memory: MemoryCells, DumpCells: 30, Log: Log{Level: "info"}},
			level: zapcore.InfoLevel,
		},
		{
			name: "all keys",
			input: `
debug = false
memory = "linear"
dump_cells = 64

[log]
level = "warn"
`,
			want:  Config{Memory: MemoryLinear, DumpCells: 64, Log: Log{Level: "warn"}},
			level: zapcore.WarnLevel,
		},
		{
			name:  "debug forces debug level",
			input: "debug = true\n[log]\nlevel = \"error\"\n",
			want:  Config{Debug: true, Memory: MemoryCells, DumpCells: 30, Log: Log{Level: "error"}},
			level: zapcore.DebugLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if *cfg != tt.want {
				t.Errorf("Parse = %+v, want %+v", *cfg, tt.want)
			}
			lvl, err := cfg.LogLevel()
			if err != nil || lvl != tt.level {
				t.Errorf("LogLevel = %v, %v; want %v", lvl, err, tt.level)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    errors.Kind
		message string
	}{
		{"bad syntax", "memory = ", errors.KindInvalidData, "parse error"},
		{"wrong type", "dump_cells = \"many\"", errors.KindInvalidData, "parse error"},
		{"unknown backend", `memory = "disk"`, errors.KindInvalidInput, `unknown memory backend "disk"`},
		{"unknown key", "colour = true", errors.KindInvalidInput, "unknown keys: colour"},
		{"bad level", "[log]\nlevel = \"loud\"", errors.KindInvalidInput, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want kind %s", err, tt.kind)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("message %q does not contain %q", err.Error(), tt.message)
			}
			if !strings.HasPrefix(err.Error(), "[config]") {
				t.Errorf("message %q should carry the config phase", err.Error())
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stacked.toml")
	if err := os.WriteFile(path, []byte("memory = \"linear\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Memory != MemoryLinear {
		t.Errorf("Memory = %q", cfg.Memory)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.IsKind(err, errors.KindInvalidData) {
		t.Errorf("Load missing = %v", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("memory = \"tape\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(bad)
	if err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("Load bad = %v, should name the file", err)
	}
}
