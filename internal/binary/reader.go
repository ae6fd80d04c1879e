package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// ErrNoTerminator is returned by ReadUntil when the input ends before the delimiter.
var ErrNoTerminator = errors.New("missing terminator")

// Reader wraps a byte slice with position tracking and fixed-width read methods.
type Reader struct {
	r   *bytes.Reader
	pos int
}

// NewReader creates a new Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data)}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return r.r.Len()
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. On a short read nothing is consumed
// and io.ErrUnexpectedEOF is returned.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n > r.r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, err
	}
	r.pos += n
	return buf, nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32LE() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadUntil reads bytes up to and including delim and returns them without
// the delimiter. If delim never appears the remaining input is consumed and
// ErrNoTerminator is returned alongside the partial bytes.
func (r *Reader) ReadUntil(delim byte) ([]byte, error) {
	var out []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, ErrNoTerminator
			}
			return out, err
		}
		if b == delim {
			return out, nil
		}
		out = append(out, b)
	}
}
