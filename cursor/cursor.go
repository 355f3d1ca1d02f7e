// Package cursor provides a bounds-checked read cursor over an in-memory
// byte buffer. It is the lowest layer of the binary decoder: every consuming
// operation either returns the requested bytes or fails with
// ErrUnexpectedEOF before any out-of-bounds access can occur.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned when fewer bytes remain than an operation
// requires.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// UnexpectedByteError is returned by Expect when a fixed marker byte does
// not match the input.
type UnexpectedByteError struct {
	Offset int
	Want   byte
	Got    byte
}

func (e *UnexpectedByteError) Error() string {
	return fmt.Sprintf("at offset %d: expected byte 0x%02x, got 0x%02x", e.Offset, e.Want, e.Got)
}

// Cursor is a borrowed view over caller-owned input bytes. It never copies
// or owns the data; the input must outlive the cursor and any sub-slices
// read from it. The zero value is an empty cursor.
//
// A Cursor is not safe for concurrent use, but independent cursors over
// independent (or even shared, since reads never mutate the data) buffers
// are.
type Cursor struct {
	data []byte
	off  int
}

// New returns a cursor positioned at the start of data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the number of unconsumed bytes.
func (c *Cursor) Len() int {
	return len(c.data) - c.off
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.off
}

// ReadByte returns the next byte and advances the cursor by one.
// It implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	if c.off >= len(c.data) {
		return 0, ErrUnexpectedEOF
	}
	b := c.data[c.off]
	c.off++
	return b, nil
}

// ReadBytes returns the next n bytes as a sub-slice of the input and
// advances the cursor past them. The returned slice aliases the input;
// callers that need to retain it beyond the input's lifetime must copy.
// The operation is atomic: on failure the cursor does not advance.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > c.Len() {
		return nil, ErrUnexpectedEOF
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Expect consumes one byte and fails with *UnexpectedByteError if it does
// not equal want.
func (c *Cursor) Expect(want byte) error {
	off := c.off
	got, err := c.ReadByte()
	if err != nil {
		return err
	}
	if got != want {
		return &UnexpectedByteError{Offset: off, Want: want, Got: got}
	}
	return nil
}

// Uint32LE reads a fixed-width little-endian uint32.
func (c *Cursor) Uint32LE() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64LE reads a fixed-width little-endian uint64.
func (c *Cursor) Uint64LE() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
