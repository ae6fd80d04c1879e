// Package disasm renders decoded programs as text.
//
// Write prints the compact form, one instruction per line prefixed with its
// opcode byte. Listing adds the byte offset and the encoded bytes of each
// instruction. Both color their output with lipgloss when Options.Color is
// set; plain output is stable and suitable for diffs and tests.
package disasm
