package wasm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/wippyai/wasm-decode/cursor"
	"github.com/wippyai/wasm-decode/leb128"
)

// Decoder reads WebAssembly binary constructs from an in-memory buffer.
// It is generic over its hook type H instead of holding an interface
// value, so hook calls dispatch statically and the whole read chain stays
// inlinable when H is a concrete type.
//
// The decoder exposes every layer of the format as public methods, from
// single bytes up to whole type descriptors, so a consumer driving it
// through hooks can mix its own reading with the built-in grammar. All
// methods consume from the same cursor; byte-slice results borrow from the
// input buffer.
type Decoder[H Hooks] struct {
	c     *cursor.Cursor
	data  []byte
	hooks H
}

// NewDecoder returns a decoder over data. The input is borrowed, not
// copied, and must not be modified while the decoder is in use.
func NewDecoder[H Hooks](data []byte, hooks H) *Decoder[H] {
	return &Decoder[H]{c: cursor.New(data), data: data, hooks: hooks}
}

// Hooks returns the decoder's hook value.
func (d *Decoder[H]) Hooks() H { return d.hooks }

// Len returns the number of unconsumed bytes.
func (d *Decoder[H]) Len() int { return d.c.Len() }

// Offset returns the number of consumed bytes.
func (d *Decoder[H]) Offset() int { return d.c.Offset() }

// ReadByte returns the next byte.
func (d *Decoder[H]) ReadByte() (byte, error) { return d.c.ReadByte() }

// ReadBytes returns the next n bytes as a borrowed sub-slice of the
// input. On failure the decoder does not advance.
func (d *Decoder[H]) ReadBytes(n int) ([]byte, error) { return d.c.ReadBytes(n) }

// Expect consumes one byte and fails with *cursor.UnexpectedByteError if
// it is not want.
func (d *Decoder[H]) Expect(want byte) error { return d.c.Expect(want) }

// ReadU32 reads an unsigned LEB128 encoded uint32.
func (d *Decoder[H]) ReadU32() (uint32, error) {
	v, err := leb128.DecodeUint(d.c, 32)
	return uint32(v), err
}

// ReadU64 reads an unsigned LEB128 encoded uint64.
func (d *Decoder[H]) ReadU64() (uint64, error) {
	return leb128.DecodeUint(d.c, 64)
}

// ReadS32 reads a signed LEB128 encoded int32.
func (d *Decoder[H]) ReadS32() (int32, error) {
	v, err := leb128.DecodeInt(d.c, 32)
	return int32(v), err
}

// ReadS64 reads a signed LEB128 encoded int64.
func (d *Decoder[H]) ReadS64() (int64, error) {
	return leb128.DecodeInt(d.c, 64)
}

// ReadUint reads an unsigned LEB128 integer of at most width bits (1..64).
func (d *Decoder[H]) ReadUint(width uint) (uint64, error) {
	return leb128.DecodeUint(d.c, width)
}

// ReadInt reads a signed LEB128 integer of at most width bits (1..64).
func (d *Decoder[H]) ReadInt(width uint) (int64, error) {
	return leb128.DecodeInt(d.c, width)
}

// ReadF32 reads a fixed 4-byte little-endian float32.
func (d *Decoder[H]) ReadF32() (float32, error) {
	b, err := d.c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadF64 reads a fixed 8-byte little-endian float64.
func (d *Decoder[H]) ReadF64() (float64, error) {
	b, err := d.c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadName reads a length-prefixed UTF-8 name.
func (d *Decoder[H]) ReadName() (string, error) {
	length, err := d.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := d.c.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("invalid UTF-8 in name")
	}
	return string(b), nil
}

// readRemaining consumes the rest of the input as a borrowed slice.
func (d *Decoder[H]) readRemaining() ([]byte, error) {
	return d.c.ReadBytes(d.c.Len())
}

// ReadVector reads a length-prefixed homogeneous sequence, calling read
// once per element. Every multi-element construct in the format shares
// this shape. The declared count is checked against the remaining bytes
// before allocating.
func ReadVector[T any, H Hooks](d *Decoder[H], read func(*Decoder[H]) (T, error)) ([]T, error) {
	count, err := d.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := d.checkCount(count); err != nil {
		return nil, err
	}
	out := make([]T, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := read(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// checkCount rejects a declared element count that exceeds the remaining
// byte count, since each element occupies at least one byte.
func (d *Decoder[H]) checkCount(count uint32) error {
	if uint64(count) > uint64(d.c.Len()) {
		return fmt.Errorf("vector of %d elements in %d bytes: %w", count, d.c.Len(), cursor.ErrUnexpectedEOF)
	}
	return nil
}
